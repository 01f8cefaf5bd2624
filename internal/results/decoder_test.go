package results

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// newTestDecoder pins the clock so the unparsable-timestamp fallback is
// observable.
func newTestDecoder() *decoder {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return &decoder{
		log: log,
		now: func() time.Time { return fixedNow },
	}
}

func TestSniffFormat(t *testing.T) {
	t.Parallel()

	xml := []byte("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<testResults>")
	csv := []byte("timeStamp,elapsed,label\n1622000000000,123,Login")

	require.Equal(t, FormatXML, SniffFormat(xml))
	require.Equal(t, FormatCSV, SniffFormat(csv))
}

func TestDecode_EmptyInput(t *testing.T) {
	t.Parallel()

	d := newTestDecoder()

	_, err := d.Decode(nil)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = d.Decode([]byte("   \n  "))
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestDecodeXML_FullAttributeSet(t *testing.T) {
	t.Parallel()

	input := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<testResults version="1.2">
<httpSample t="230" lt="210" ct="12" ts="1622000000000" s="true" lb="Login" rc="200" rm="OK" tn="grp 1-1" by="1024" sby="256"/>
<httpSample t="340" lt="300" ct="15" ts="1622000001000" s="false" lb="Checkout" rc="500" rm="Internal Server Error" tn="grp 1-2" by="512" sby="128"/>
</testResults>`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Equal(t, FormatXML, result.Format)
	require.Len(t, result.Samples, 2)
	require.Zero(t, result.Stats.SkippedRecords)

	s := result.Samples[0]
	require.Equal(t, "Login", s.Label)
	require.Equal(t, time.UnixMilli(1622000000000), s.Timestamp)
	require.Equal(t, int64(230), s.DurationMs)
	require.NotNil(t, s.LatencyMs)
	require.Equal(t, int64(210), *s.LatencyMs)
	require.NotNil(t, s.ConnectMs)
	require.Equal(t, int64(12), *s.ConnectMs)
	require.Equal(t, "200", s.StatusCode)
	require.True(t, s.Success)
	require.Equal(t, "OK", s.ErrorMessage)
	require.Equal(t, "grp 1-1", s.ThreadID)
	require.Equal(t, int64(1024), s.BytesReceived)
	require.Equal(t, int64(256), s.BytesSent)

	require.False(t, result.Samples[1].Success)
	require.Equal(t, "Internal Server Error", result.Samples[1].ErrorMessage)
}

func TestDecodeXML_SkipsElementWithoutLabel(t *testing.T) {
	t.Parallel()

	input := []byte(`<?xml version="1.0"?>
<testResults>
<httpSample t="100" ts="1622000000000" s="true" lb="Login"/>
<httpSample t="100" ts="1622000001000" s="true"/>
</testResults>`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Len(t, result.Samples, 1)
	require.Equal(t, 1, result.Stats.SkippedRecords)
	require.Equal(t, 2, result.Stats.TotalRecords)
}

func TestDecodeXML_NestedSubSamplesNotDoubleCounted(t *testing.T) {
	t.Parallel()

	input := []byte(`<?xml version="1.0"?>
<testResults>
<sample t="500" ts="1622000000000" s="true" lb="Transaction">
  <httpSample t="200" ts="1622000000000" s="true" lb="Step 1"/>
  <httpSample t="300" ts="1622000000200" s="true" lb="Step 2"/>
</sample>
<sample t="400" ts="1622000001000" s="true" lb="Transaction"/>
</testResults>`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Len(t, result.Samples, 2, "only top-level samples count")
	require.Equal(t, "Transaction", result.Samples[0].Label)
	require.Equal(t, int64(500), result.Samples[0].DurationMs)
}

func TestDecodeXML_UnparsableDurationSkipsElement(t *testing.T) {
	t.Parallel()

	input := []byte(`<?xml version="1.0"?>
<testResults>
<httpSample t="oops" ts="1622000000000" s="true" lb="Login"/>
<httpSample ts="1622000001000" s="true" lb="Login"/>
<httpSample t="120" ts="1622000002000" s="true" lb="Login"/>
</testResults>`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Len(t, result.Samples, 1, "elements without a parsable duration are malformed")
	require.Equal(t, 2, result.Stats.SkippedRecords)
	require.Zero(t, result.Stats.DegradedFields, "a required field never degrades, it skips")
	require.Equal(t, int64(120), result.Samples[0].DurationMs)
}

func TestDecode_MalformedDurationHandledAlikeAcrossFormats(t *testing.T) {
	t.Parallel()

	xmlInput := []byte(`<?xml version="1.0"?>
<testResults>
<httpSample t="100" ts="1622000000000" s="true" lb="Login"/>
<httpSample t="oops" ts="1622000001000" s="true" lb="Login"/>
</testResults>`)
	csvInput := []byte(`timeStamp,elapsed,label,success
1622000000000,100,Login,true
1622000001000,oops,Login,true`)

	fromXML, err := newTestDecoder().Decode(xmlInput)
	require.NoError(t, err)
	fromCSV, err := newTestDecoder().Decode(csvInput)
	require.NoError(t, err)

	require.Equal(t, len(fromCSV.Samples), len(fromXML.Samples))
	require.Equal(t, fromCSV.Stats.SkippedRecords, fromXML.Stats.SkippedRecords)
	require.Equal(t, fromCSV.Samples[0].DurationMs, fromXML.Samples[0].DurationMs)
}

func TestDecodeXML_UnparsableTimestampFallsBackToNow(t *testing.T) {
	t.Parallel()

	input := []byte(`<?xml version="1.0"?>
<testResults>
<httpSample t="100" ts="not-a-number" s="true" lb="Login"/>
</testResults>`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Len(t, result.Samples, 1)
	require.Equal(t, fixedNow, result.Samples[0].Timestamp)
	require.Equal(t, 1, result.Stats.DegradedFields)
}

func TestDecodeCSV_HeaderLookup(t *testing.T) {
	t.Parallel()

	// Column order deliberately shuffled; values resolve by header name.
	input := []byte(`elapsed,label,timeStamp,success,responseCode,responseMessage,threadName,bytes,sentBytes,Latency,Connect
230,Login,1622000000000,true,200,OK,grp 1-1,1024,256,210,12
340,Checkout,1622000001000,false,500,Server Error,grp 1-2,512,128,300,15`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Equal(t, FormatCSV, result.Format)
	require.Len(t, result.Samples, 2)

	s := result.Samples[0]
	require.Equal(t, "Login", s.Label)
	require.Equal(t, time.UnixMilli(1622000000000), s.Timestamp)
	require.Equal(t, int64(230), s.DurationMs)
	require.NotNil(t, s.LatencyMs)
	require.Equal(t, int64(210), *s.LatencyMs)
	require.Equal(t, "200", s.StatusCode)
	require.True(t, s.Success)
	require.Equal(t, int64(1024), s.BytesReceived)
	require.Equal(t, int64(256), s.BytesSent)
}

func TestDecodeCSV_UnusableHeaderIsFatal(t *testing.T) {
	t.Parallel()

	// First line carries none of the required columns, so there is no header.
	_, err := newTestDecoder().Decode([]byte("1622000000000,230,Login\n"))
	require.ErrorIs(t, err, ErrInvalidHeader)

	// A header line that names columns but not the required ones fails too.
	_, err = newTestDecoder().Decode([]byte("timeStamp,success\n1622000000000,true\n"))
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestDecodeCSV_ShortLineIsSkippedNotFatal(t *testing.T) {
	t.Parallel()

	input := []byte(`timeStamp,elapsed,label,success
1622000000000,230,Login,true
1622000001000,120
1622000002000,340,Checkout,true`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Len(t, result.Samples, 2)
	require.Equal(t, 1, result.Stats.SkippedRecords)
}

func TestDecodeCSV_UnparsableElapsedSkipsLine(t *testing.T) {
	t.Parallel()

	input := []byte(`timeStamp,elapsed,label,success
1622000000000,oops,Login,true
1622000001000,120,Login,true`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Len(t, result.Samples, 1)
	require.Equal(t, 1, result.Stats.SkippedRecords)
}

func TestDecodeCSV_OptionalFieldsDegradeToDefaults(t *testing.T) {
	t.Parallel()

	input := []byte(`timeStamp,elapsed,label,success,Latency,bytes
1622000000000,230,Login,true,garbage,alsogarbage`)

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Len(t, result.Samples, 1)

	s := result.Samples[0]
	require.Nil(t, s.LatencyMs)
	require.Zero(t, s.BytesReceived)
	require.Equal(t, 2, result.Stats.DegradedFields)
}

func TestDecodeCSV_HeaderOnlyYieldsNoSamples(t *testing.T) {
	t.Parallel()

	result, err := newTestDecoder().Decode([]byte("timeStamp,elapsed,label,success\n"))
	require.NoError(t, err)
	require.Empty(t, result.Samples)
}

func TestDecodeCSV_CRLFInput(t *testing.T) {
	t.Parallel()

	input := []byte("timeStamp,elapsed,label,success\r\n1622000000000,230,Login,true\r\n")

	result, err := newTestDecoder().Decode(input)
	require.NoError(t, err)
	require.Len(t, result.Samples, 1)
	require.Equal(t, "Login", result.Samples[0].Label)
}
