package risk

// Level is a patient's stored risk level. Levels form an ordered severity
// ladder; ordering is exposed for reporting but the escalation rule does not
// compare against the stored value before writing (see Escalator).
type Level string

const (
	Low      Level = "low"
	Moderate Level = "moderate"
	High     Level = "high"
	Critical Level = "critical"
)

var levelRank = map[Level]int{
	Low:      0,
	Moderate: 1,
	High:     2,
	Critical: 3,
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// AtLeast reports whether l is at or above other on the severity ladder.
func (l Level) AtLeast(other Level) bool {
	return levelRank[l] >= levelRank[other]
}
