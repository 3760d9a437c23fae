package instrument

// AnswerOption is one selectable response for a question, carrying its point
// value.
type AnswerOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Question is a single item on a screening instrument.
type Question struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Options []AnswerOption `json:"options"`
}

// SeverityBand maps a score range to its clinical interpretation. Bands are
// ordered by UpperBound and are boundary-inclusive: a score falls in the
// first band whose UpperBound is >= the score.
type SeverityBand struct {
	UpperBound int    `json:"upper_bound"`
	Label      string `json:"label"`
}

// Instrument is a static screening questionnaire definition. Instances are
// registered once at startup and never mutated.
type Instrument struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Questions []Question     `json:"questions"`
	Bands     []SeverityBand `json:"bands"`
}

// MaxScore is the sum of each question's highest option value.
func (ins *Instrument) MaxScore() int {
	total := 0
	for _, q := range ins.Questions {
		max := 0
		for _, opt := range q.Options {
			if opt.Value > max {
				max = opt.Value
			}
		}
		total += max
	}
	return total
}

// Result is a finalized score with its interpretation.
type Result struct {
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score"`
	Severity string `json:"severity"`
}
