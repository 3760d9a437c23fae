package risk

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/instrument"
)

func TestTargetFromAssessment_PHQ9(t *testing.T) {
	cases := []struct {
		score     int
		want      Level
		escalates bool
	}{
		{0, "", false},
		{14, "", false},
		{15, High, true},
		{19, High, true},
		{20, Critical, true},
		{22, Critical, true},
		{27, Critical, true},
	}
	for _, tc := range cases {
		got, ok := TargetFromAssessment(instrument.PHQ9, tc.score)
		if ok != tc.escalates || got != tc.want {
			t.Errorf("phq9 score %d: expected (%q,%v), got (%q,%v)", tc.score, tc.want, tc.escalates, got, ok)
		}
	}
}

func TestTargetFromAssessment_GAD7(t *testing.T) {
	cases := []struct {
		score     int
		want      Level
		escalates bool
	}{
		{0, "", false},
		{14, "", false},
		{15, High, true},
		{16, High, true},
		{21, High, true},
	}
	for _, tc := range cases {
		got, ok := TargetFromAssessment(instrument.GAD7, tc.score)
		if ok != tc.escalates || got != tc.want {
			t.Errorf("gad7 score %d: expected (%q,%v), got (%q,%v)", tc.score, tc.want, tc.escalates, got, ok)
		}
	}
}

func TestTargetFromAssessment_UnknownInstrument(t *testing.T) {
	if _, ok := TargetFromAssessment("other", 27); ok {
		t.Error("unknown instrument must not escalate")
	}
}

func TestTargetFromCrisis(t *testing.T) {
	if target, ok := TargetFromCrisis(High); !ok || target != High {
		t.Error("high crisis should escalate to high")
	}
	if target, ok := TargetFromCrisis(Critical); !ok || target != Critical {
		t.Error("critical crisis should escalate to critical")
	}
	if _, ok := TargetFromCrisis(Low); ok {
		t.Error("low crisis must not escalate")
	}
	if _, ok := TargetFromCrisis(Moderate); ok {
		t.Error("moderate crisis must not escalate")
	}
}

func TestLevel_Ordering(t *testing.T) {
	if !Critical.AtLeast(High) {
		t.Error("critical >= high")
	}
	if !High.AtLeast(High) {
		t.Error("high >= high")
	}
	if Moderate.AtLeast(High) {
		t.Error("moderate < high")
	}
	if !Level("critical").Valid() {
		t.Error("critical should be valid")
	}
	if Level("extreme").Valid() {
		t.Error("extreme should be invalid")
	}
}

type recordingSetter struct {
	levels map[uuid.UUID]Level
	err    error
}

func (r *recordingSetter) SetRiskLevel(_ context.Context, patientID uuid.UUID, level Level) error {
	if r.err != nil {
		return r.err
	}
	r.levels[patientID] = level
	return nil
}

func TestEscalator_OverwritesUnconditionally(t *testing.T) {
	setter := &recordingSetter{levels: make(map[uuid.UUID]Level)}
	esc := NewEscalator(setter, zerolog.New(os.Stderr))
	pid := uuid.New()

	// Previously critical; a high-severity signal still overwrites downward.
	setter.levels[pid] = Critical
	esc.Apply(context.Background(), pid, High)

	if setter.levels[pid] != High {
		t.Errorf("expected overwrite to high, got %s", setter.levels[pid])
	}
}

func TestEscalator_FailureIsSwallowed(t *testing.T) {
	setter := &recordingSetter{levels: make(map[uuid.UUID]Level), err: fmt.Errorf("connection reset")}
	esc := NewEscalator(setter, zerolog.New(os.Stderr))

	// Apply must not panic or propagate the error.
	esc.Apply(context.Background(), uuid.New(), Critical)
}
