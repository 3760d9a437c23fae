package episode

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/patient"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

type memRepo struct {
	episodes map[uuid.UUID]*Episode
}

func newMemRepo() *memRepo {
	return &memRepo{episodes: make(map[uuid.UUID]*Episode)}
}

func (m *memRepo) Create(_ context.Context, ep *Episode) error {
	cp := *ep
	m.episodes[ep.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Episode, error) {
	ep, ok := m.episodes[id]
	if !ok {
		return nil, apperr.Storage("episode.get", errors.New("no rows"))
	}
	cp := *ep
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, ep *Episode) error {
	if _, ok := m.episodes[ep.ID]; !ok {
		return apperr.Storage("episode.update", errors.New("no rows"))
	}
	cp := *ep
	m.episodes[ep.ID] = &cp
	return nil
}

func (m *memRepo) List(_ context.Context, scope auth.Scope, filter ListFilter, limit, offset int) ([]*Episode, int, error) {
	var out []*Episode
	for _, ep := range m.episodes {
		if scope.RestrictToProvider() && ep.ProviderID != scope.UserID {
			continue
		}
		if filter.PatientID != uuid.Nil && ep.PatientID != filter.PatientID {
			continue
		}
		if filter.Status != "" && ep.Status != filter.Status {
			continue
		}
		cp := *ep
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, len(out), nil
}

type memPatients struct {
	byID map[uuid.UUID]*patient.Patient
}

func newMemPatients(patients ...*patient.Patient) *memPatients {
	m := &memPatients{byID: make(map[uuid.UUID]*patient.Patient)}
	for _, p := range patients {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memPatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperr.Storage("patient.get", errors.New("no rows"))
	}
	return p, nil
}

func testPatient(providerID string) *patient.Patient {
	return &patient.Patient{ID: uuid.New(), AssignedProviderID: providerID, IsActive: true}
}

func providerScope(id string) auth.Scope {
	return auth.Scope{UserID: id, Role: auth.RoleProvider}
}

func validInput(patientID uuid.UUID) CreateInput {
	return CreateInput{
		PatientID:      patientID,
		EpisodeType:    TypeInitial,
		StartDate:      "2026-08-01",
		DiagnosisCodes: []string{"F32.1"},
		TreatmentGoals: []string{"reduce PHQ-9 below 10"},
	}
}

func TestCreate(t *testing.T) {
	p := testPatient("prov-1")
	repo := newMemRepo()
	svc := NewService(repo, newMemPatients(p), zerolog.Nop())

	ep, err := svc.Create(context.Background(), providerScope("prov-1"), validInput(p.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ep.Status != StatusActive {
		t.Errorf("status = %q, want active", ep.Status)
	}
	if ep.ProviderID != "prov-1" {
		t.Errorf("provider = %q, want prov-1", ep.ProviderID)
	}
	if ep.EndDate != nil {
		t.Error("end date should be open on a new episode")
	}
	if len(repo.episodes) != 1 {
		t.Fatalf("persisted episodes = %d, want 1", len(repo.episodes))
	}
}

func TestCreate_Validation(t *testing.T) {
	p := testPatient("prov-1")
	svc := NewService(newMemRepo(), newMemPatients(p), zerolog.Nop())

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing patient", func(in *CreateInput) { in.PatientID = uuid.Nil }},
		{"unknown type", func(in *CreateInput) { in.EpisodeType = "intake" }},
		{"bad start date", func(in *CreateInput) { in.StartDate = "Aug 1 2026" }},
		{"end before start", func(in *CreateInput) { in.EndDate = "2026-07-01" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput(p.ID)
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), providerScope("prov-1"), in); !apperr.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreate_EndDateEqualToStartIsAllowed(t *testing.T) {
	p := testPatient("prov-1")
	svc := NewService(newMemRepo(), newMemPatients(p), zerolog.Nop())

	in := validInput(p.ID)
	in.EndDate = in.StartDate
	ep, err := svc.Create(context.Background(), providerScope("prov-1"), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ep.EndDate == nil || !ep.EndDate.Equal(ep.StartDate) {
		t.Error("single-day episode should keep end date equal to start date")
	}
}

func TestClose(t *testing.T) {
	p := testPatient("prov-1")
	repo := newMemRepo()
	svc := NewService(repo, newMemPatients(p), zerolog.Nop())

	ep, err := svc.Create(context.Background(), providerScope("prov-1"), validInput(p.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	closed, err := svc.Close(context.Background(), providerScope("prov-1"), ep.ID, "2026-08-20")
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != StatusClosed || closed.EndDate == nil {
		t.Errorf("status = %q, end = %v, want closed with end date", closed.Status, closed.EndDate)
	}

	if _, err := svc.Close(context.Background(), providerScope("prov-1"), ep.ID, ""); !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error on double close", err)
	}
}

func TestClose_EndBeforeStartRejected(t *testing.T) {
	p := testPatient("prov-1")
	svc := NewService(newMemRepo(), newMemPatients(p), zerolog.Nop())

	ep, err := svc.Create(context.Background(), providerScope("prov-1"), validInput(p.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Close(context.Background(), providerScope("prov-1"), ep.ID, "2026-07-15"); !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestList_StatusAndScopeFilters(t *testing.T) {
	p1 := testPatient("prov-1")
	p2 := testPatient("prov-2")
	repo := newMemRepo()
	svc := NewService(repo, newMemPatients(p1, p2), zerolog.Nop())

	ep1, err := svc.Create(context.Background(), providerScope("prov-1"), validInput(p1.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), providerScope("prov-2"), validInput(p2.ID)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Close(context.Background(), providerScope("prov-1"), ep1.ID, "2026-08-10"); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, total, err := svc.List(context.Background(), providerScope("prov-1"), ListFilter{Status: StatusClosed}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Errorf("closed episodes for prov-1 = %d, want 1", total)
	}

	_, total, err = svc.List(context.Background(), auth.Scope{UserID: "admin-1", Role: auth.RoleAdmin}, ListFilter{}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("admin episode total = %d, want 2", total)
	}

	if _, _, err := svc.List(context.Background(), providerScope("prov-1"), ListFilter{Status: "archived"}, 20, 0); !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation error for unknown status", err)
	}
}
