package jobresult

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeMinimalDocument(t *testing.T) {
	doc, err := Decode([]byte(`{"jobId": "job-1", "status": "completed"}`))
	require.NoError(t, err)
	require.Equal(t, "job-1", doc.JobID)
	require.Equal(t, StatusCompleted, doc.Status)
	require.Equal(t, ModeBaseline, doc.ComparisonMode)
	require.Empty(t, doc.Frames)
	require.Empty(t, doc.Timeline)
}

func TestDecodeRejectsEnvelopeProblems(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"invalid json", []byte("{nope")},
		{"missing job id", []byte(`{"status": "completed"}`)},
		{"blank job id", []byte(`{"jobId": "   ", "status": "completed"}`)},
	}
	for _, tc := range cases {
		if _, err := Decode(tc.data); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestDecodeNormalizesComparisonMode(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"consecutive", ModeConsecutive},
		{"Consecutive", ModeConsecutive},
		{"baseline", ModeBaseline},
		{"", ModeBaseline},
		{"pairwise", ModeBaseline},
	}
	for _, tc := range cases {
		doc, err := Decode([]byte(`{"jobId": "job-2", "comparisonMode": "` + tc.raw + `"}`))
		require.NoError(t, err)
		require.Equal(t, tc.want, doc.ComparisonMode, "mode %q", tc.raw)
	}
}

func TestDecodeSortsTimelineByAfterIndex(t *testing.T) {
	doc, err := Decode([]byte(`{
		"jobId": "job-3",
		"timeline": [
			{"beforeIndex": 2, "afterIndex": 3},
			{"beforeIndex": 0, "afterIndex": 1},
			{"beforeIndex": 1, "afterIndex": 2}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, doc.Timeline, 3)
	for i, pair := range doc.Timeline {
		require.Equal(t, i+1, pair.AfterIndex)
	}
}

func TestDecodeKeepsRawStagePayloads(t *testing.T) {
	doc, err := Decode([]byte(`{
		"jobId": "job-4",
		"timeline": [{
			"beforeIndex": 0,
			"afterIndex": 1,
			"pipeline": {
				"object_diff": {
					"report": {"paired": []},
					"imageSize": {"width": 1920, "height": 1080},
					"artifacts": {"overlay": "/data/jobs/job-4/overlay.png"}
				}
			}
		}]
	}`))
	require.NoError(t, err)
	stage, ok := doc.Timeline[0].Pipeline["object_diff"]
	require.True(t, ok)
	require.JSONEq(t, `{"paired": []}`, string(stage.Report))
	require.NotNil(t, stage.ImageSize)
	require.Equal(t, 1920, stage.ImageSize.Width)
}

func TestDomainFromMetadata(t *testing.T) {
	doc := &JobResult{Metadata: map[string]string{"domain": "manufacturing"}}
	require.Equal(t, "manufacturing", doc.Domain())

	var nilDoc *JobResult
	require.Equal(t, "", nilDoc.Domain())
	require.Equal(t, "", (&JobResult{}).Domain())
}
