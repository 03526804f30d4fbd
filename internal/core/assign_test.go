package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool() []*Printer {
	return []*Printer{
		{ID: "mono-idle", Name: "mono-1", Status: PrinterIdle, A4: true},
		{ID: "color-busy", Name: "color-1", Status: PrinterPrinting, Color: true, A4: true, A3: true},
		{ID: "mono-off", Name: "mono-2", Status: PrinterOffline, A4: true},
	}
}

func TestSelectPrinterPrefersIdle(t *testing.T) {
	p := SelectPrinter(testPool(), false, false, false)
	require.NotNil(t, p)
	assert.Equal(t, "mono-idle", p.ID)
}

func TestSelectPrinterMatchesCapability(t *testing.T) {
	// The only color-capable printer is busy; capability wins over idleness.
	p := SelectPrinter(testPool(), true, false, false)
	require.NotNil(t, p)
	assert.Equal(t, "color-busy", p.ID)
}

func TestSelectPrinterRelaxedFallback(t *testing.T) {
	pool := []*Printer{
		{ID: "mono-idle", Status: PrinterIdle, A4: true},
	}
	// No color printer exists at all; the relaxed policy still serves the job.
	p := SelectPrinter(pool, true, false, false)
	require.NotNil(t, p)
	assert.Equal(t, "mono-idle", p.ID)
}

func TestSelectPrinterStrictFailsClosed(t *testing.T) {
	pool := []*Printer{
		{ID: "mono-idle", Status: PrinterIdle, A4: true},
	}
	assert.Nil(t, SelectPrinter(pool, true, false, true))
}

func TestSelectPrinterNoneAvailable(t *testing.T) {
	pool := []*Printer{
		{ID: "a", Status: PrinterOffline},
		{ID: "b", Status: PrinterError},
	}
	assert.Nil(t, SelectPrinter(pool, false, false, false))
	assert.Nil(t, SelectPrinter(nil, false, false, false))
}

func TestSelectPrinterA3(t *testing.T) {
	p := SelectPrinter(testPool(), false, true, false)
	require.NotNil(t, p)
	assert.Equal(t, "color-busy", p.ID)
}
