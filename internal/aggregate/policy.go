// Package aggregate computes a feedback record's overall percentage from its
// ten per-question scores.
package aggregate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jadamsuryateja/feedback-console/internal/model"
)

// Policy selects the aggregation formula.
type Policy int

const (
	// PolicyMean averages the ten percentage values.
	PolicyMean Policy = iota
	// PolicyWeighted recovers each question's implied maximum from its score
	// and percentage and returns total score over total maximum.
	PolicyWeighted
)

// DefaultPolicy matches the current report layout.
const DefaultPolicy = PolicyMean

func (p Policy) String() string {
	switch p {
	case PolicyMean:
		return "mean"
	case PolicyWeighted:
		return "weighted"
	}
	return "unknown"
}

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mean":
		return PolicyMean, nil
	case "weighted":
		return PolicyWeighted, nil
	}
	return 0, fmt.Errorf("aggregate: unknown policy %q", s)
}

// OverallValue returns the overall percentage as a number. Missing questions
// read as zero and only Q1..Q10 are considered.
func OverallValue(scores model.QuestionScores, p Policy) float64 {
	switch p {
	case PolicyWeighted:
		var total, max float64
		for i := 1; i <= model.QuestionCount; i++ {
			q := scores.At(i)
			if q.Percentage == 0 {
				continue
			}
			total += q.Score
			max += q.Score / (q.Percentage / 100)
		}
		if max == 0 {
			return 0
		}
		return total / max * 100
	default:
		var sum float64
		for i := 1; i <= model.QuestionCount; i++ {
			sum += scores.At(i).Percentage
		}
		return sum / model.QuestionCount
	}
}

// Overall returns the overall percentage rendered to two decimal places.
func Overall(scores model.QuestionScores, p Policy) string {
	return Format(OverallValue(scores, p))
}

// Format renders v with two decimals.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
