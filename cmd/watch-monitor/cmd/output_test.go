package cmd

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiclient "github.com/sfeuerstein/watch-monitor/internal/api/client"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// what it wrote. Tests using it must not run in parallel.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	require.NoError(t, fn())
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestPrintStateDetail(t *testing.T) {
	last := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	state := &domain.MonitorState{
		SourcesConfigured: 6,
		SeenTotal:         412,
		CyclesRecorded:    97,
		LastCycleAt:       &last,
		LastCycleStatus:   domain.RunStatusCompleted,
	}

	out := captureStdout(t, func() error { return printStateDetail(state) })

	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "412")
	assert.Contains(t, out, "2026-03-14 09:30:00 (completed)")
}

func TestPrintStateDetail_NoCycles(t *testing.T) {
	out := captureStdout(t, func() error {
		return printStateDetail(&domain.MonitorState{SourcesConfigured: 6})
	})

	assert.Contains(t, out, "Last cycle:")
	assert.Contains(t, out, "-")
}

func TestPrintSourcesTable(t *testing.T) {
	sources := []apiclient.SourceStatus{
		{
			Source: domain.Source{
				Key:      "worldoftime",
				Name:     "World of Time",
				Currency: domain.CurrencyEUR,
			},
			SeenCount: 120,
		},
	}

	out := captureStdout(t, func() error { return printSourcesTable(sources) })

	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "worldoftime")
	assert.Contains(t, out, "World of Time")
	assert.Contains(t, out, "EUR")
	assert.Contains(t, out, "120")
}

func TestPrintSeenTable(t *testing.T) {
	records := []domain.SeenRecord{
		{
			SourceKey:   "tropicalwatch",
			Fingerprint: "0c7d6f1a9b2e4d3801aa45e2bb6f09c4d1e28a7f3b5c6d7e8f9012a3b4c5d6e7",
			FirstSeenAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
	}

	out := captureStdout(t, func() error { return printSeenTable(records) })

	assert.Contains(t, out, "tropicalwatch")
	assert.Contains(t, out, "0c7d6f1a9b2e")
	assert.NotContains(t, out, "0c7d6f1a9b2e4d38", "fingerprints should be abbreviated")
	assert.Contains(t, out, "2026-03-14 09:30:00")
}

func TestPrintCyclesTable(t *testing.T) {
	runs := []domain.CycleRun{
		{
			ID:            "run-97",
			StartedAt:     time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Status:        domain.RunStatusCompleted,
			SourcesOK:     5,
			SourcesFailed: 1,
			Listings:      184,
			NewListings:   3,
			Notified:      3,
		},
		{
			ID:        "run-96",
			StartedAt: time.Date(2026, 3, 14, 9, 29, 0, 0, time.UTC),
			Status:    domain.RunStatusFailed,
			ErrorText: "checking seen set for worldoftime: connection reset by peer while reading",
		},
	}

	out := captureStdout(t, func() error { return printCyclesTable(runs) })

	assert.Contains(t, out, "STARTED")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "184")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "...", "long error text should be truncated")
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0c7d6f1a9b2e",
		shortHash("0c7d6f1a9b2e4d3801aa45e2bb6f09c4"))
	assert.Equal(t, "abc", shortHash("abc"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-te", truncate("exactly-te", 10))
	assert.Equal(t, "this is...", truncate("this is far too long", 10))
}
