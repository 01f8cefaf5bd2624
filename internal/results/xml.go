package results

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tagged-element attribute names, fixed by the source tool's JTL schema.
const (
	attrLabel      = "lb"
	attrTimestamp  = "ts"
	attrDuration   = "t"
	attrLatency    = "lt"
	attrConnect    = "ct"
	attrStatusCode = "rc"
	attrSuccess    = "s"
	attrMessage    = "rm"
	attrThread     = "tn"
	attrBytesRecv  = "by"
	attrBytesSent  = "sby"
)

// decodeXML streams the tagged-element format. Each sample element is decoded
// independently so a single malformed element skips only itself.
func (d *decoder) decodeXML(data []byte) (*ParseResult, error) {
	var (
		dec    = xml.NewDecoder(bytes.NewReader(data))
		result = &ParseResult{Format: FormatXML}
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The document itself is broken past this point. Elements decoded
			// so far were complete, but a truncated sequence must not be
			// passed off as a successful decode.
			return nil, fmt.Errorf("reading tagged-element input: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !isSampleElement(start.Name.Local) {
			continue
		}

		result.Stats.TotalRecords++

		sample, reason := d.sampleFromElement(start, &result.Stats)
		if reason != "" {
			result.Stats.SkippedRecords++
			recordWarning(d.log, result.Stats.TotalRecords, reason)
			if err := dec.Skip(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("skipping malformed element: %w", err)
			}

			continue
		}

		result.Samples = append(result.Samples, sample)

		// Sub-samples nested inside a parent sample are not consumed; the
		// parent element already carries the aggregate timing.
		if err := dec.Skip(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("skipping element body: %w", err)
		}
	}

	return result, nil
}

func isSampleElement(name string) bool {
	return name == "sample" || name == "httpSample"
}

// sampleFromElement maps the fixed attribute set onto a Sample. The mapping
// is constant; there is no name-keyed dictionary lookup per record. A
// non-empty skip reason is returned when the element cannot yield a
// countable record.
func (d *decoder) sampleFromElement(el xml.StartElement, stats *ParseStats) (Sample, string) {
	var (
		s          Sample
		durationOK bool
	)

	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case attrLabel:
			s.Label = strings.TrimSpace(attr.Value)
		case attrTimestamp:
			ts, ok := d.parseTimestampMillis(attr.Value)
			if !ok {
				stats.DegradedFields++
			}
			s.Timestamp = ts
		case attrDuration:
			v, err := strconv.ParseInt(strings.TrimSpace(attr.Value), 10, 64)
			if err == nil {
				s.DurationMs = v
				durationOK = true
			}
		case attrLatency:
			v, ok := parseOptionalInt64(attr.Value)
			if !ok {
				stats.DegradedFields++
			}
			s.LatencyMs = v
		case attrConnect:
			v, ok := parseOptionalInt64(attr.Value)
			if !ok {
				stats.DegradedFields++
			}
			s.ConnectMs = v
		case attrStatusCode:
			s.StatusCode = strings.TrimSpace(attr.Value)
		case attrSuccess:
			s.Success = parseSuccessFlag(attr.Value)
		case attrMessage:
			s.ErrorMessage = attr.Value
		case attrThread:
			s.ThreadID = strings.TrimSpace(attr.Value)
		case attrBytesRecv:
			v, ok := parseBytesField(attr.Value)
			if !ok {
				stats.DegradedFields++
			}
			s.BytesReceived = v
		case attrBytesSent:
			v, ok := parseBytesField(attr.Value)
			if !ok {
				stats.DegradedFields++
			}
			s.BytesSent = v
		}
	}

	if s.Label == "" {
		return Sample{}, "missing label attribute"
	}

	// Duration is a required field: an element without a parsable one is
	// malformed, same as an unparsable elapsed value on a delimited line.
	if !durationOK {
		return Sample{}, "unparsable duration value"
	}

	if s.Timestamp.IsZero() {
		// No timestamp attribute at all; same fallback as an unparsable one.
		s.Timestamp = d.now()
		stats.DegradedFields++
	}

	return s, ""
}
