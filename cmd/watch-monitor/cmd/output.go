package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apiclient "github.com/sfeuerstein/watch-monitor/internal/api/client"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printStateDetail(s *domain.MonitorState) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Sources:\t%d\n", s.SourcesConfigured)
	tw.writef("Seen records:\t%d\n", s.SeenTotal)
	tw.writef("Cycles recorded:\t%d\n", s.CyclesRecorded)
	if s.LastCycleAt != nil {
		tw.writef("Last cycle:\t%s (%s)\n",
			s.LastCycleAt.Format(timeLayout), s.LastCycleStatus)
	} else {
		tw.writef("Last cycle:\t-\n")
	}
	return tw.finish()
}

func printSourcesTable(sources []apiclient.SourceStatus) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("KEY\tNAME\tCURRENCY\tSEEN\n")
	for i := range sources {
		tw.writef("%s\t%s\t%s\t%d\n",
			sources[i].Key,
			sources[i].Name,
			sources[i].Currency,
			sources[i].SeenCount,
		)
	}
	return tw.finish()
}

func printSeenTable(records []domain.SeenRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SOURCE\tFINGERPRINT\tFIRST SEEN\n")
	for i := range records {
		tw.writef("%s\t%s\t%s\n",
			records[i].SourceKey,
			shortHash(records[i].Fingerprint),
			records[i].FirstSeenAt.Format(timeLayout),
		)
	}
	return tw.finish()
}

func printCyclesTable(runs []domain.CycleRun) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("STARTED\tSTATUS\tOK\tFAILED\tLISTINGS\tNEW\tNOTIFIED\tERROR\n")
	for i := range runs {
		r := &runs[i]
		errText := truncate(r.ErrorText, 40)
		if errText == "" {
			errText = "-"
		}
		tw.writef("%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Format(timeLayout),
			r.Status,
			r.SourcesOK,
			r.SourcesFailed,
			r.Listings,
			r.NewListings,
			r.Notified,
			errText,
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// shortHash abbreviates a fingerprint for table display the way git
// abbreviates commit hashes.
func shortHash(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
