package recommendations

import (
	"sort"
	"strings"
	"unicode"
)

// Generate builds deterministic recommendations from aggregate ledger
// statistics. Same input, same output: nothing here consults a model or a
// clock.
func Generate(input Input) []Recommendation {
	candidates := make([]Recommendation, 0, 16)
	mappers := []func(Input) []Recommendation{
		func(in Input) []Recommendation {
			return fromRedFlags(in.Changes)
		},
		func(in Input) []Recommendation {
			return fromHighImpactChanges(in.Changes)
		},
		func(in Input) []Recommendation {
			return fromCoverage(in)
		},
		func(in Input) []Recommendation {
			return fromQuietLedger(in.Changes, in.ComparisonCount)
		},
		func(in Input) []Recommendation {
			return fromDegradedFields(in.DegradedFields)
		},
	}
	for _, mapper := range mappers {
		candidates = append(candidates, mapper(input)...)
	}

	deduped := dedupe(candidates)
	sortRecommendations(deduped)
	if len(deduped) > 7 {
		deduped = deduped[:7]
	}
	for i := range deduped {
		deduped[i].Order = i + 1
	}
	return deduped
}

func severityRank(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "critical":
		return 3
	case "warning":
		return 2
	default:
		return 1
	}
}

func impactRank(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

func categoryRank(value string) int {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "STRUCTURAL":
		return 5
	case "DEFECT":
		return 4
	case "SURFACE":
		return 3
	case "DRIFT":
		return 2
	case "PROCESS":
		return 1
	default:
		return 0
	}
}

func slugify(input string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "item"
	}
	return out
}

func dedupe(items []Recommendation) []Recommendation {
	seen := make(map[string]Recommendation, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		if existing, ok := seen[id]; ok {
			seen[id] = mergeRecommendation(existing, item)
			continue
		}
		seen[id] = item
		order = append(order, id)
	}
	out := make([]Recommendation, 0, len(order))
	for _, id := range order {
		out = append(out, seen[id])
	}
	return out
}

func mergeRecommendation(a, b Recommendation) Recommendation {
	if strings.TrimSpace(a.Title) == "" {
		a.Title = b.Title
	}
	if strings.TrimSpace(a.Why) == "" {
		a.Why = b.Why
	}
	if strings.TrimSpace(a.Action) == "" {
		a.Action = b.Action
	}
	if strings.TrimSpace(a.Category) == "" {
		a.Category = b.Category
	}
	if severityRank(b.Severity) > severityRank(a.Severity) {
		a.Severity = b.Severity
	}
	if impactRank(b.Impact) > impactRank(a.Impact) {
		a.Impact = b.Impact
	}
	return a
}

func sortRecommendations(items []Recommendation) {
	sort.Slice(items, func(i, j int) bool {
		a := items[i]
		b := items[j]
		if severityRank(a.Severity) != severityRank(b.Severity) {
			return severityRank(a.Severity) > severityRank(b.Severity)
		}
		if impactRank(a.Impact) != impactRank(b.Impact) {
			return impactRank(a.Impact) > impactRank(b.Impact)
		}
		if categoryRank(a.Category) != categoryRank(b.Category) {
			return categoryRank(a.Category) > categoryRank(b.Category)
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}
