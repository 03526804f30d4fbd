package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/printhub/server/internal/core"
)

// Settings keys. Rates and thresholds are stored as JSON values in the
// settings table rather than their own tables; they are small and read
// through the engine's cache anyway.
const (
	settingRates      = "pricing_rates"
	settingThresholds = "queue_thresholds"
)

func (d *DB) GetRates(ctx context.Context) (*core.Rates, error) {
	raw, err := d.GetSetting(ctx, settingRates)
	if err != nil {
		return nil, err
	}
	r := &core.Rates{}
	if err := json.Unmarshal([]byte(raw), r); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}
	return r, nil
}

func (d *DB) SetRates(ctx context.Context, r *core.Rates) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	return d.SetSetting(ctx, settingRates, string(raw))
}

func (d *DB) GetThresholds(ctx context.Context) (*core.Thresholds, error) {
	raw, err := d.GetSetting(ctx, settingThresholds)
	if err != nil {
		return nil, err
	}
	t := &core.Thresholds{}
	if err := json.Unmarshal([]byte(raw), t); err != nil {
		return nil, fmt.Errorf("failed to decode thresholds: %w", err)
	}
	return t, nil
}

func (d *DB) SetThresholds(ctx context.Context, t *core.Thresholds) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode thresholds: %w", err)
	}
	return d.SetSetting(ctx, settingThresholds, string(raw))
}

func (d *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := d.conn.QueryRowContext(ctx, getSetting, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", core.ErrNotConfigured
		}
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := d.conn.ExecContext(ctx, upsertSetting, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
