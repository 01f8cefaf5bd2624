package results

import (
	"strconv"
	"strings"
)

// Delimited-text header names, fixed by the source tool's JTL schema.
const (
	colLabel      = "label"
	colTimestamp  = "timeStamp"
	colDuration   = "elapsed"
	colLatency    = "Latency"
	colConnect    = "Connect"
	colStatusCode = "responseCode"
	colSuccess    = "success"
	colMessage    = "responseMessage"
	colThread     = "threadName"
	colBytesRecv  = "bytes"
	colBytesSent  = "sentBytes"
)

// columnLayout resolves header names to column indexes once per parse, so
// each data line decodes by constant index instead of a name-keyed lookup.
// An index of -1 marks an absent column.
type columnLayout struct {
	label      int
	timestamp  int
	duration   int
	latency    int
	connect    int
	statusCode int
	success    int
	message    int
	thread     int
	bytesRecv  int
	bytesSent  int
}

func layoutFromHeader(header []string) columnLayout {
	layout := columnLayout{
		label: -1, timestamp: -1, duration: -1, latency: -1, connect: -1,
		statusCode: -1, success: -1, message: -1, thread: -1,
		bytesRecv: -1, bytesSent: -1,
	}

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case colLabel:
			layout.label = i
		case colTimestamp:
			layout.timestamp = i
		case colDuration:
			layout.duration = i
		case colLatency:
			layout.latency = i
		case colConnect:
			layout.connect = i
		case colStatusCode:
			layout.statusCode = i
		case colSuccess:
			layout.success = i
		case colMessage:
			layout.message = i
		case colThread:
			layout.thread = i
		case colBytesRecv:
			layout.bytesRecv = i
		case colBytesSent:
			layout.bytesSent = i
		}
	}

	return layout
}

// field returns the value at idx, or "" when the column is absent or the
// line is shorter than the header.
func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}

	return fields[idx]
}

// decodeCSV decodes the delimited-text format. The first line is the header;
// values are split on commas with no quoting or escaping. A malformed line is
// skipped; an input whose first line is not a usable header is a hard failure.
func (d *decoder) decodeCSV(data []byte) (*ParseResult, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	header := strings.Split(lines[0], ",")
	layout := layoutFromHeader(header)
	if layout.label < 0 || layout.duration < 0 {
		return nil, ErrInvalidHeader
	}

	result := &ParseResult{
		Format:  FormatCSV,
		Samples: make([]Sample, 0, len(lines)-1),
	}

	for lineNo, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		result.Stats.TotalRecords++

		sample, reason := d.sampleFromLine(strings.Split(line, ","), layout, &result.Stats)
		if reason != "" {
			result.Stats.SkippedRecords++
			recordWarning(d.log, lineNo+2, reason)

			continue
		}

		result.Samples = append(result.Samples, sample)
	}

	return result, nil
}

// sampleFromLine decodes one data line. It returns a non-empty skip reason
// when the line cannot yield a countable record.
func (d *decoder) sampleFromLine(fields []string, layout columnLayout, stats *ParseStats) (Sample, string) {
	label := strings.TrimSpace(field(fields, layout.label))
	if label == "" {
		return Sample{}, "missing label"
	}

	duration, err := strconv.ParseInt(strings.TrimSpace(field(fields, layout.duration)), 10, 64)
	if err != nil {
		return Sample{}, "unparsable elapsed value"
	}

	s := Sample{
		Label:        label,
		DurationMs:   duration,
		StatusCode:   strings.TrimSpace(field(fields, layout.statusCode)),
		Success:      parseSuccessFlag(field(fields, layout.success)),
		ErrorMessage: field(fields, layout.message),
		ThreadID:     strings.TrimSpace(field(fields, layout.thread)),
	}

	ts, ok := d.parseTimestampMillis(field(fields, layout.timestamp))
	if !ok {
		stats.DegradedFields++
	}
	s.Timestamp = ts

	if v, ok := parseOptionalInt64(field(fields, layout.latency)); ok {
		s.LatencyMs = v
	} else {
		stats.DegradedFields++
	}

	if v, ok := parseOptionalInt64(field(fields, layout.connect)); ok {
		s.ConnectMs = v
	} else {
		stats.DegradedFields++
	}

	recv, ok := parseBytesField(field(fields, layout.bytesRecv))
	if !ok {
		stats.DegradedFields++
	}
	s.BytesReceived = recv

	sent, ok := parseBytesField(field(fields, layout.bytesSent))
	if !ok {
		stats.DegradedFields++
	}
	s.BytesSent = sent

	return s, ""
}
