// internal/council/aggregate.go
package council

import (
	"math"
	"sort"
)

// AggregateRankings folds every judge's parsed ranking into one averaged
// standing per model.
//
// For each model in the label map, the 1-indexed position of its label in each
// judge's parsed ranking is recorded (first occurrence when a judge repeats a
// label). AverageRank is the arithmetic mean of those positions rounded to two
// decimal places, half away from zero. RankingsCount is the number of judges
// whose ranking mentioned the label at all; judges that omitted it, or whose
// parse came up empty, do not count. A model no judge mentioned is excluded
// entirely rather than given a defaulted worst rank.
//
// The result is sorted ascending by AverageRank (lower is preferred); ties
// keep label-map insertion order via a stable sort. An empty stage2 slice or
// empty label map yields an empty result.
func AggregateRankings(stage2 []Stage2Result, labels *LabelMap) []AggregateEntry {
	if len(stage2) == 0 || labels.Len() == 0 {
		return []AggregateEntry{}
	}

	entries := make([]AggregateEntry, 0, labels.Len())
	for _, label := range labels.Labels() {
		model, _ := labels.Model(label)

		sum, count := 0, 0
		for _, result := range stage2 {
			pos := labelPosition(result.ParsedRanking, label)
			if pos == 0 {
				continue
			}
			sum += pos
			count++
		}
		if count == 0 {
			continue
		}

		avg := float64(sum) / float64(count)
		entries = append(entries, AggregateEntry{
			Model:         model,
			AverageRank:   math.Round(avg*100) / 100,
			RankingsCount: count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageRank < entries[j].AverageRank
	})
	return entries
}

// labelPosition returns the 1-indexed position of the first occurrence of
// label in ranking, or 0 when absent.
func labelPosition(ranking []string, label string) int {
	for i, l := range ranking {
		if l == label {
			return i + 1
		}
	}
	return 0
}
