package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRunOrg(t *testing.T) {
	t.Parallel()

	r := Run{
		ID:        "01HQZX3J5K7M9N0P1Q2R3S4T5V",
		Created:   day0,
		Series:    "EURUSD",
		Backend:   "fixed(5)",
		Timeframe: "H1",
		Period:    "2024-01-01T00:00:00Z - 2024-01-02T00:00:00Z",
		Bars:      24,
		Notes:     []string{"quiet session"},
	}
	last := []ValueRecord{{Indicator: "RSI(close,14)", Index: 23, Value: "55.10000"}}

	out, err := FormatRunOrg(r, last)
	require.NoError(t, err)
	assert.Contains(t, out, "* RUN: EURUSD H1 (01HQZX3J)")
	assert.Contains(t, out, ":RUN_ID:     01HQZX3J5K7M9N0P1Q2R3S4T5V")
	assert.Contains(t, out, ":BARS:       24")
	assert.Contains(t, out, ":CREATED:    [2024-01-01 Mon 00:00]")
	assert.Contains(t, out, "| RSI(close,14) | 23 | 55.10000 |")
	assert.Contains(t, out, "- quiet session")
}

func TestFormatRunOrgDefaults(t *testing.T) {
	t.Parallel()

	out, err := FormatRunOrg(Run{ID: "short", Series: "BTC"}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "* RUN: BTC (timeframe?) (short)")
	assert.NotContains(t, out, "** Notes")
}

func TestWriteRunOrg(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, WriteRunOrg(path, Run{ID: "R1", Series: "EURUSD"}, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), ":SERIES:     EURUSD")
}
