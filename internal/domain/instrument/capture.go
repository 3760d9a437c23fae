package instrument

import "github.com/harborview/clinic/internal/platform/apperr"

// CaptureState is the lifecycle of an in-flight questionnaire.
type CaptureState string

const (
	// StateInProgress: not every question has an answer yet.
	StateInProgress CaptureState = "in_progress"
	// StateComplete: every question answered; submission is allowed.
	StateComplete CaptureState = "complete"
	// StateSubmitted: terminal; no further edits are accepted.
	StateSubmitted CaptureState = "submitted"
)

// Capture tracks one questionnaire being filled in. Answers may be changed
// freely until submission; Submit finalizes the score and freezes the
// capture.
type Capture struct {
	instrument *Instrument
	responses  map[string]int
	submitted  bool
}

// NewCapture starts an empty capture for the given instrument.
func NewCapture(ins *Instrument) *Capture {
	return &Capture{
		instrument: ins,
		responses:  make(map[string]int),
	}
}

// State derives the capture's lifecycle state from its answers.
func (c *Capture) State() CaptureState {
	if c.submitted {
		return StateSubmitted
	}
	if len(c.responses) == len(c.instrument.Questions) {
		return StateComplete
	}
	return StateInProgress
}

// Answer records or replaces the response to one question. Rejected after
// submission, for unknown questions, and for values that are not an option.
func (c *Capture) Answer(questionID string, value int) error {
	if c.submitted {
		return apperr.Validationf("capture already submitted")
	}

	for i := range c.instrument.Questions {
		q := &c.instrument.Questions[i]
		if q.ID != questionID {
			continue
		}
		if !q.validValue(value) {
			return apperr.Validation(questionID, "value is not a valid option")
		}
		c.responses[questionID] = value
		return nil
	}
	return apperr.Validation(questionID, "unknown question")
}

// Answered returns how many questions have a response.
func (c *Capture) Answered() int {
	return len(c.responses)
}

// Responses returns a copy of the recorded responses.
func (c *Capture) Responses() map[string]int {
	out := make(map[string]int, len(c.responses))
	for k, v := range c.responses {
		out[k] = v
	}
	return out
}

// Submit finalizes the capture. Only allowed once all questions are
// answered; on success the capture becomes terminal and the scored result is
// returned.
func (c *Capture) Submit() (Result, error) {
	switch c.State() {
	case StateSubmitted:
		return Result{}, apperr.Validationf("capture already submitted")
	case StateInProgress:
		return Result{}, apperr.Validationf(
			"%d of %d questions answered", len(c.responses), len(c.instrument.Questions))
	}

	result, err := c.instrument.Score(c.responses)
	if err != nil {
		return Result{}, err
	}
	c.submitted = true
	return result, nil
}
