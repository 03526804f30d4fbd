package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/printhub/server/internal/core"
)

func (d *DB) InsertPrinter(ctx context.Context, p *core.Printer) error {
	p.Version = 1
	_, err := d.conn.ExecContext(ctx, insertPrinter,
		p.ID, p.Name, p.Status, p.PPM, p.Color, p.Duplex, p.A4, p.A3,
		p.CurrentJobID, p.ProgressPct, p.Version, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert printer: %w", err)
	}
	return nil
}

func (d *DB) GetPrinter(ctx context.Context, id string) (*core.Printer, error) {
	p, err := scanPrinter(d.conn.QueryRowContext(ctx, getPrinterByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrPrinterNotFound
		}
		return nil, fmt.Errorf("failed to get printer: %w", err)
	}
	return p, nil
}

func (d *DB) GetPrinterByName(ctx context.Context, name string) (*core.Printer, error) {
	p, err := scanPrinter(d.conn.QueryRowContext(ctx, getPrinterByName, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrPrinterNotFound
		}
		return nil, fmt.Errorf("failed to get printer by name: %w", err)
	}
	return p, nil
}

func (d *DB) ListPrinters(ctx context.Context) ([]*core.Printer, error) {
	rows, err := d.conn.QueryContext(ctx, listPrinters)
	if err != nil {
		return nil, fmt.Errorf("failed to list printers: %w", err)
	}
	defer rows.Close()

	var printers []*core.Printer
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan printer: %w", err)
		}
		printers = append(printers, p)
	}
	return printers, rows.Err()
}

func (d *DB) UpdatePrinter(ctx context.Context, p *core.Printer) error {
	result, err := d.conn.ExecContext(ctx, updatePrinter,
		p.Name, p.Status, p.PPM, p.Color, p.Duplex, p.A4, p.A3,
		p.CurrentJobID, p.ProgressPct, p.UpdatedAt, p.ID, p.Version)
	if err != nil {
		return fmt.Errorf("failed to update printer: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update printer: %w", err)
	}
	if n == 0 {
		if _, err := d.GetPrinter(ctx, p.ID); errors.Is(err, core.ErrPrinterNotFound) {
			return core.ErrPrinterNotFound
		}
		return core.ErrVersionConflict
	}
	p.Version++
	return nil
}

func (d *DB) DeletePrinter(ctx context.Context, id string) (bool, error) {
	result, err := d.conn.ExecContext(ctx, deletePrinter, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete printer: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete printer: %w", err)
	}
	return n > 0, nil
}

func scanPrinter(row rowScanner) (*core.Printer, error) {
	p := &core.Printer{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Status, &p.PPM, &p.Color, &p.Duplex, &p.A4, &p.A3,
		&p.CurrentJobID, &p.ProgressPct, &p.Version, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
