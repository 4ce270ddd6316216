package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestActivityLoggerRoundTrip(t *testing.T) {
	al := NewActivityLogger(t.TempDir())

	ts := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)
	require.NoError(t, al.Record(AnalysisActivity{
		Timestamp:    ts,
		Symbol:       "NVDA",
		Expiration:   "2026-09-18",
		ContractType: "call",
		Status:       StatusOK,
		Results:      42,
	}))
	require.NoError(t, al.Record(AnalysisActivity{
		Timestamp:    ts.Add(time.Minute),
		Symbol:       "NVDA",
		Expiration:   "2026-09-18",
		ContractType: "put",
		Status:       StatusPartial,
		Results:      40,
		Skipped:      2,
	}))

	entries, err := al.GetForDate("2026-08-26")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "call", entries[0].ContractType)
	require.Equal(t, StatusPartial, entries[1].Status)

	dates, err := al.ListDates()
	require.NoError(t, err)
	require.Equal(t, []string{"2026-08-26"}, dates)
}

func TestActivityLoggerEmptyDate(t *testing.T) {
	al := NewActivityLogger(t.TempDir())

	entries, err := al.GetForDate("2026-01-01")
	require.NoError(t, err)
	require.Empty(t, entries)
}
