package instrument

import (
	"fmt"
	"sort"
)

// Instrument identifiers.
const (
	PHQ9 = "phq9"
	GAD7 = "gad7"
)

// frequencyOptions is the shared 0-3 response scale used by every PHQ-9 and
// GAD-7 question ("over the last 2 weeks, how often...").
func frequencyOptions() []AnswerOption {
	return []AnswerOption{
		{Value: 0, Label: "Not at all"},
		{Value: 1, Label: "Several days"},
		{Value: 2, Label: "More than half the days"},
		{Value: 3, Label: "Nearly every day"},
	}
}

func phq9() *Instrument {
	texts := []string{
		"Little interest or pleasure in doing things",
		"Feeling down, depressed, or hopeless",
		"Trouble falling or staying asleep, or sleeping too much",
		"Feeling tired or having little energy",
		"Poor appetite or overeating",
		"Feeling bad about yourself or that you are a failure or have let yourself or your family down",
		"Trouble concentrating on things, such as reading the newspaper or watching television",
		"Moving or speaking so slowly that other people could have noticed. Or the opposite - being so fidgety or restless that you have been moving around a lot more than usual",
		"Thoughts that you would be better off dead, or of hurting yourself",
	}
	questions := make([]Question, len(texts))
	for i, text := range texts {
		questions[i] = Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Text:    text,
			Options: frequencyOptions(),
		}
	}
	return &Instrument{
		ID:        PHQ9,
		Name:      "PHQ-9 Depression Screening",
		Questions: questions,
		Bands: []SeverityBand{
			{UpperBound: 4, Label: "Minimal depression"},
			{UpperBound: 9, Label: "Mild depression"},
			{UpperBound: 14, Label: "Moderate depression"},
			{UpperBound: 19, Label: "Moderately severe depression"},
			{UpperBound: 27, Label: "Severe depression"},
		},
	}
}

func gad7() *Instrument {
	texts := []string{
		"Feeling nervous, anxious, or on edge",
		"Not being able to stop or control worrying",
		"Worrying too much about different things",
		"Trouble relaxing",
		"Being so restless that it is hard to sit still",
		"Becoming easily annoyed or irritable",
		"Feeling afraid, as if something awful might happen",
	}
	questions := make([]Question, len(texts))
	for i, text := range texts {
		questions[i] = Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Text:    text,
			Options: frequencyOptions(),
		}
	}
	return &Instrument{
		ID:        GAD7,
		Name:      "GAD-7 Anxiety Screening",
		Questions: questions,
		Bands: []SeverityBand{
			{UpperBound: 4, Label: "Minimal anxiety"},
			{UpperBound: 9, Label: "Mild anxiety"},
			{UpperBound: 14, Label: "Moderate anxiety"},
			{UpperBound: 21, Label: "Severe anxiety"},
		},
	}
}

var registry = map[string]*Instrument{
	PHQ9: phq9(),
	GAD7: gad7(),
}

// Get returns the registered instrument for id, or false if unknown.
func Get(id string) (*Instrument, bool) {
	ins, ok := registry[id]
	return ins, ok
}

// Register adds a new instrument definition. Registering an already-known id
// is rejected so a registered instrument's scoring can never change underfoot.
func Register(ins *Instrument) error {
	if ins == nil || ins.ID == "" {
		return fmt.Errorf("instrument id is required")
	}
	if _, exists := registry[ins.ID]; exists {
		return fmt.Errorf("instrument %q already registered", ins.ID)
	}
	if len(ins.Questions) == 0 {
		return fmt.Errorf("instrument %q has no questions", ins.ID)
	}
	if len(ins.Bands) == 0 {
		return fmt.Errorf("instrument %q has no severity bands", ins.ID)
	}
	registry[ins.ID] = ins
	return nil
}

// IDs returns the registered instrument identifiers, sorted.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
