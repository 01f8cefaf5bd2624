// Package results decodes load-test result logs into uniform sample records.
// Two wire formats are supported: the tagged XML JTL format and the delimited
// CSV JTL format. The format is sniffed from the first line of the input.
package results

import "time"

// Sample represents one executed request from a load-test run.
// Samples are transient: they exist only for the duration of one pipeline
// invocation and are released once aggregates have been derived.
type Sample struct {
	Label         string
	Timestamp     time.Time
	DurationMs    int64
	LatencyMs     *int64 // nil when the source record carried no latency
	ConnectMs     *int64 // nil when the source record carried no connect time
	StatusCode    string
	Success       bool
	ErrorMessage  string
	ThreadID      string
	BytesSent     int64
	BytesReceived int64
}

// ParseStats counts records that could not be decoded cleanly.
// Skipped records were dropped entirely; degraded fields were reset to their
// defaults while the record itself was kept.
type ParseStats struct {
	TotalRecords   int `json:"total_records"`
	SkippedRecords int `json:"skipped_records"`
	DegradedFields int `json:"degraded_fields"`
}

// ParseResult is the complete output of decoding one input. The sample
// sequence is never partial: on a fatal decode error no ParseResult is
// returned at all.
type ParseResult struct {
	Format  Format
	Samples []Sample
	Stats   ParseStats
}
