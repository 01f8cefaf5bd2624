// Package summary assembles the outputs of one pipeline invocation into a
// single immutable snapshot for downstream consumers.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/perflens/perflens/internal/baseline"
	"github.com/perflens/perflens/internal/results"
	"github.com/perflens/perflens/internal/stats"
)

// RunSummary is the canonical join point for one analyzed run. Reporting,
// charting and persistence consumers all read this one snapshot instead of
// re-deriving statistics. It carries no raw samples.
type RunSummary struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`

	Format     results.Format            `json:"format"`
	Parse      results.ParseStats        `json:"parse"`
	Aggregate  stats.AggregateMetrics    `json:"aggregate"`
	Labels     []stats.LabelMetrics      `json:"labels"`
	Evaluation baseline.EvaluationReport `json:"evaluation"`
}

// Assemble composes the already-computed pieces into a RunSummary. It
// performs no statistical computation of its own; labels arrive ordered
// (Total first) and are kept as-is.
func Assemble(source string, parsed *results.ParseResult, labels []stats.LabelMetrics, evaluation baseline.EvaluationReport) *RunSummary {
	s := &RunSummary{
		ID:          uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Format:      parsed.Format,
		Parse:       parsed.Stats,
		Labels:      labels,
		Evaluation:  evaluation,
	}

	if len(labels) > 0 {
		s.Aggregate = labels[0].AggregateMetrics
	}

	return s
}

// WriteJSON encodes the summary as indented JSON.
func (s *RunSummary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding run summary: %w", err)
	}

	return nil
}
