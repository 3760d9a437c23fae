package instrument

import (
	"fmt"

	"github.com/harborview/clinic/internal/platform/apperr"
)

// Score turns a completed response set into a total score and severity
// interpretation. The response map's key set must equal the instrument's
// question-id set exactly, and every value must be a valid option for its
// question; any violation returns a validation error and no score.
func (ins *Instrument) Score(responses map[string]int) (Result, error) {
	if len(responses) != len(ins.Questions) {
		return Result{}, apperr.Validationf(
			"expected %d responses for %s, got %d", len(ins.Questions), ins.ID, len(responses))
	}

	total := 0
	for _, q := range ins.Questions {
		value, ok := responses[q.ID]
		if !ok {
			return Result{}, apperr.Validation(q.ID, "response is missing")
		}
		if !q.validValue(value) {
			return Result{}, apperr.Validation(q.ID, fmt.Sprintf("value %d is not a valid option", value))
		}
		total += value
	}

	return Result{
		Score:    total,
		MaxScore: ins.MaxScore(),
		Severity: ins.Severity(total),
	}, nil
}

func (q *Question) validValue(value int) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Severity maps a score to its band label. Bands partition [0, MaxScore]
// with inclusive upper bounds; scores beyond the last bound fall into the
// last band.
func (ins *Instrument) Severity(score int) string {
	for _, band := range ins.Bands {
		if score <= band.UpperBound {
			return band.Label
		}
	}
	return ins.Bands[len(ins.Bands)-1].Label
}
