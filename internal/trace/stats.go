package trace

import (
	"fmt"
	"sort"

	. "github.com/cricklet/leisertest/internal/helpers"
)

const AvgNpsLabel = "AVG_NPS"

// Statistic is computed from one engine's raw output. Adding an entry to the
// list given to ComputeStats is enough to have it reported and summarized.
type Statistic struct {
	Label   string
	Compute func(raw string) (float64, Error)
}

func DefaultStatistics() []Statistic {
	return []Statistic{
		{Label: AvgNpsLabel, Compute: ExtractAvgNps},
	}
}

type StatPair struct {
	Label     string
	Reference float64
	Candidate float64
}

// RelativeChange is (candidate - reference) / reference.
func (p StatPair) RelativeChange() (float64, Error) {
	if p.Reference == 0 {
		return 0, Wrap(fmt.Errorf("%w: reference %v is 0", ErrZeroBaseline, p.Label))
	}
	return (p.Candidate - p.Reference) / p.Reference, NilError
}

func ComputeStats(stats []Statistic, reference string, candidate string) ([]StatPair, Error) {
	result := []StatPair{}
	for _, stat := range stats {
		referenceValue, err := stat.Compute(reference)
		if !IsNil(err) {
			return nil, Join(Errorf("reference %v", stat.Label), err)
		}
		candidateValue, err := stat.Compute(candidate)
		if !IsNil(err) {
			return nil, Join(Errorf("candidate %v", stat.Label), err)
		}
		result = append(result, StatPair{
			Label:     stat.Label,
			Reference: referenceValue,
			Candidate: candidateValue,
		})
	}
	return result, NilError
}

type PassResult struct {
	Name  string
	Stats []StatPair
}

type Summary struct {
	Passed int

	// mean relative change per statistic label
	MeanChange map[string]float64
}

func (s Summary) Labels() []string {
	labels := []string{}
	for label := range s.MeanChange {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func (s Summary) AvgNpsIncrease() float64 {
	return s.MeanChange[AvgNpsLabel]
}

// Summarize averages the relative change of every statistic over the passed
// test cases.
func Summarize(results []PassResult) (Summary, Error) {
	if len(results) == 0 {
		return Summary{}, Wrap(fmt.Errorf("%w: no test cases passed", ErrEmptyBatch))
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, result := range results {
		for _, pair := range result.Stats {
			change, err := pair.RelativeChange()
			if !IsNil(err) {
				return Summary{}, Join(Errorf("test %v", result.Name), err)
			}
			sums[pair.Label] += change
			counts[pair.Label]++
		}
	}

	summary := Summary{Passed: len(results), MeanChange: map[string]float64{}}
	for label, sum := range sums {
		summary.MeanChange[label] = sum / float64(counts[label])
	}
	return summary, NilError
}
