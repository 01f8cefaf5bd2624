package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/perflens/perflens/internal/summary"
)

// Renderer renders run summaries as terminal tables.
type Renderer interface {
	RenderRun(w io.Writer, run *summary.RunSummary)
	MetricsTable(run *summary.RunSummary) string
	CriteriaTable(run *summary.RunSummary) string
}

type renderer struct {
	log logrus.FieldLogger
}

// NewRenderer creates a new summary renderer.
func NewRenderer(log logrus.FieldLogger) Renderer {
	return &renderer{
		log: log.WithField("component", "renderer"),
	}
}

// RenderRun writes the run header, the per-label metrics table and, when an
// evaluation was performed, the criteria table.
func (r *renderer) RenderRun(w io.Writer, run *summary.RunSummary) {
	r.log.WithFields(logrus.Fields{
		"run":       run.ID,
		"labels":    len(run.Labels),
		"evaluated": len(run.Evaluation.Results),
	}).Debug("rendering run summary")

	fmt.Fprintln(w, colorHeader(fmt.Sprintf("Run %s (%s)", run.ID, run.Source)))
	fmt.Fprintf(w, "samples: %d  errors: %s  duration: %s  throughput: %s\n",
		run.Aggregate.TotalCount,
		FormatPercent(run.Aggregate.ErrorRatePercent),
		FormatDuration(time.Duration(run.Aggregate.DurationSeconds*float64(time.Second))),
		FormatRate(run.Aggregate.Throughput),
	)

	if run.Parse.SkippedRecords > 0 {
		fmt.Fprintln(w, colorWarning(fmt.Sprintf("skipped %d malformed record(s)", run.Parse.SkippedRecords)))
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, r.MetricsTable(run))

	if len(run.Evaluation.Results) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, r.CriteriaTable(run))
	}
}

// MetricsTable renders one row per label group, Total first.
func (r *renderer) MetricsTable(run *summary.RunSummary) string {
	headers := []string{
		"Label", "Samples", "Errors", "Avg", "Min", "Max",
		"Median", "P90", "P95", "P99", "Throughput", "Recv", "Sent",
	}

	rows := make([][]string, 0, len(run.Labels))
	for _, lm := range run.Labels {
		rows = append(rows, []string{
			lm.Label,
			fmt.Sprintf("%d", lm.TotalCount),
			FormatPercent(lm.ErrorRatePercent),
			fmt.Sprintf("%.1fms", lm.AvgMs),
			fmt.Sprintf("%dms", lm.MinMs),
			fmt.Sprintf("%dms", lm.MaxMs),
			fmt.Sprintf("%dms", lm.MedianMs),
			fmt.Sprintf("%dms", lm.P90Ms),
			fmt.Sprintf("%dms", lm.P95Ms),
			fmt.Sprintf("%dms", lm.P99Ms),
			FormatRate(lm.Throughput),
			FormatBytes(lm.TotalBytesReceived),
			FormatBytes(lm.TotalBytesSent),
		})
	}

	return r.renderTable(headers, rows)
}

// CriteriaTable renders the baseline evaluation, one row per evaluated label
// in lexical order.
func (r *renderer) CriteriaTable(run *summary.RunSummary) string {
	labels := make([]string, 0, len(run.Evaluation.Results))
	for label := range run.Evaluation.Results {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	headers := []string{"Label", "P95", "Avg", "P90", "Throughput", "Result"}

	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		cr := run.Evaluation.Results[label]
		rows = append(rows, []string{
			cr.Label,
			formatPass(cr.P95Pass),
			formatPass(cr.AvgPass),
			formatPass(cr.P90Pass),
			formatPass(cr.ThroughputPass),
			formatPass(cr.Passed),
		})
	}

	var b strings.Builder
	b.WriteString(r.renderTable(headers, rows))

	if run.Evaluation.Passed() {
		b.WriteString(colorSuccess("baseline: PASS") + "\n")
	} else {
		b.WriteString(colorFailure("baseline: FAIL") + "\n")
	}

	return b.String()
}

func (r *renderer) renderTable(headers []string, rows [][]string) string {
	buf := &bytes.Buffer{}

	table := tablewriter.NewWriter(buf)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetBorder(true)
	table.SetTablePadding(" ")

	table.AppendBulk(rows)
	table.Render()

	return buf.String()
}

var _ Renderer = (*renderer)(nil)
