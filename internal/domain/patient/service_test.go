package patient

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/risk"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

type memRepo struct {
	patients map[uuid.UUID]*Patient
	failWith error
}

func newMemRepo() *memRepo {
	return &memRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *memRepo) Create(_ context.Context, p *Patient) error {
	if m.failWith != nil {
		return m.failWith
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.Storage("patient.get", errors.New("no rows"))
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return apperr.Storage("patient.update", errors.New("no rows"))
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *memRepo) List(_ context.Context, scope auth.Scope, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		if !p.IsActive {
			continue
		}
		if scope.RestrictToProvider() && p.AssignedProviderID != scope.UserID {
			continue
		}
		if filter.RiskLevel != "" && string(p.RiskLevel) != filter.RiskLevel {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *memRepo) SetRiskLevel(_ context.Context, id uuid.UUID, level risk.Level) error {
	p, ok := m.patients[id]
	if !ok {
		return apperr.Storage("patient.set_risk_level", errors.New("no rows"))
	}
	p.RiskLevel = level
	return nil
}

func adminScope() auth.Scope {
	return auth.Scope{UserID: "admin-1", Role: auth.RoleAdmin}
}

func providerScope(id string) auth.Scope {
	return auth.Scope{UserID: id, Role: auth.RoleProvider}
}

func validCreateInput() CreateInput {
	return CreateInput{
		MRN:         "MRN-1001",
		FirstName:   "Maria",
		LastName:    "Santos",
		DateOfBirth: "1988-04-12",
	}
}

func TestServiceCreate_Defaults(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), providerScope("prov-1"), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.RiskLevel != risk.Low {
		t.Errorf("risk level = %q, want %q", p.RiskLevel, risk.Low)
	}
	if !p.IsActive {
		t.Error("new patient should be active")
	}
	if p.AssignedProviderID != "prov-1" {
		t.Errorf("assigned provider = %q, want caller", p.AssignedProviderID)
	}
	if p.PreferredLanguage != "en" {
		t.Errorf("preferred language = %q, want en", p.PreferredLanguage)
	}
	if _, ok := repo.patients[p.ID]; !ok {
		t.Error("patient not persisted")
	}
}

func TestServiceCreate_Validation(t *testing.T) {
	svc := NewService(newMemRepo(), zerolog.Nop())

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing mrn", func(in *CreateInput) { in.MRN = "  " }},
		{"missing first name", func(in *CreateInput) { in.FirstName = "" }},
		{"missing last name", func(in *CreateInput) { in.LastName = "" }},
		{"bad date of birth", func(in *CreateInput) { in.DateOfBirth = "12/04/1988" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), adminScope(), in); !apperr.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestServiceCreate_Unauthenticated(t *testing.T) {
	svc := NewService(newMemRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), auth.Scope{}, validCreateInput())
	if denied, ok := apperr.IsAuthorization(err); !ok || denied {
		t.Fatalf("err = %v, want unauthenticated authorization error", err)
	}
}

func TestServiceGet_ProviderScoping(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), providerScope("prov-1"), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), providerScope("prov-1"), p.ID); err != nil {
		t.Errorf("assigned provider should read own patient: %v", err)
	}
	if _, err := svc.Get(context.Background(), adminScope(), p.ID); err != nil {
		t.Errorf("admin should read any patient: %v", err)
	}
	_, err = svc.Get(context.Background(), providerScope("prov-2"), p.ID)
	if denied, ok := apperr.IsAuthorization(err); !ok || !denied {
		t.Errorf("err = %v, want denied authorization error", err)
	}
}

func TestServiceList_ProviderSeesOwnPanelOnly(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, zerolog.Nop())

	in1 := validCreateInput()
	if _, err := svc.Create(context.Background(), providerScope("prov-1"), in1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	in2 := validCreateInput()
	in2.MRN = "MRN-1002"
	if _, err := svc.Create(context.Background(), providerScope("prov-2"), in2); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, total, err := svc.List(context.Background(), providerScope("prov-1"), ListFilter{}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(got) != 1 {
		t.Fatalf("provider list total = %d, want 1", total)
	}
	if got[0].AssignedProviderID != "prov-1" {
		t.Errorf("listed patient assigned to %q, want prov-1", got[0].AssignedProviderID)
	}

	_, total, err = svc.List(context.Background(), adminScope(), ListFilter{}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("admin list total = %d, want 2", total)
	}
}

func TestServiceDeactivate(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), adminScope(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Deactivate(context.Background(), adminScope(), p.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if repo.patients[p.ID].IsActive {
		t.Error("patient still active after deactivation")
	}
	// Already-inactive patients are a no-op, not an error.
	if err := svc.Deactivate(context.Background(), adminScope(), p.ID); err != nil {
		t.Fatalf("second Deactivate: %v", err)
	}
}

func TestServiceSetRiskLevel(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), adminScope(), validCreateInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.SetRiskLevel(context.Background(), p.ID, risk.Critical); err != nil {
		t.Fatalf("SetRiskLevel: %v", err)
	}
	if repo.patients[p.ID].RiskLevel != risk.Critical {
		t.Errorf("risk level = %q, want critical", repo.patients[p.ID].RiskLevel)
	}
}
