package jobresult

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var errEmptyDocument = errors.New("empty job result document")

// Decode parses a job result document. It is deliberately tolerant: only the
// document envelope has to parse; missing optional sections stay empty so one
// detector's partial output never blocks the rest. Timeline entries are
// returned in ascending afterIndex order regardless of document order.
func Decode(data []byte) (*JobResult, error) {
	if len(data) == 0 {
		return nil, errEmptyDocument
	}
	var result JobResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode job result: %w", err)
	}
	if strings.TrimSpace(result.JobID) == "" {
		return nil, errors.New("job result missing jobId")
	}
	result.ComparisonMode = normalizeMode(result.ComparisonMode)
	sort.SliceStable(result.Timeline, func(i, j int) bool {
		return result.Timeline[i].AfterIndex < result.Timeline[j].AfterIndex
	})
	return &result, nil
}

// normalizeMode mirrors the orchestrator's defaulting: anything that is not
// explicitly consecutive is treated as baseline fan-out.
func normalizeMode(raw string) string {
	if strings.ToLower(strings.TrimSpace(raw)) == ModeConsecutive {
		return ModeConsecutive
	}
	return ModeBaseline
}
