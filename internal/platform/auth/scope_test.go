package auth

import (
	"context"
	"testing"
)

func TestScopeFromContext(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	ctx = context.WithValue(ctx, UserRoleKey, RoleProvider)

	s := ScopeFromContext(ctx)
	if s.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", s.UserID)
	}
	if s.Role != RoleProvider {
		t.Errorf("expected provider role, got %s", s.Role)
	}
}

func TestScope_Authenticated(t *testing.T) {
	if (Scope{}).Authenticated() {
		t.Error("empty scope should not be authenticated")
	}
	if !(Scope{UserID: "u1", Role: RoleAdmin}).Authenticated() {
		t.Error("scope with user id should be authenticated")
	}
}

func TestScope_RestrictToProvider(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{RoleAdmin, false},
		{RoleBilling, false},
		{RoleProvider, true},
	}
	for _, tc := range cases {
		s := Scope{UserID: "u1", Role: tc.role}
		if got := s.RestrictToProvider(); got != tc.want {
			t.Errorf("role %s: expected %v, got %v", tc.role, tc.want, got)
		}
	}
}

func TestScope_CanAccessPatient(t *testing.T) {
	admin := Scope{UserID: "a1", Role: RoleAdmin}
	if !admin.CanAccessPatient("someone-else") {
		t.Error("admin should access any patient")
	}

	provider := Scope{UserID: "p1", Role: RoleProvider}
	if !provider.CanAccessPatient("p1") {
		t.Error("provider should access own patient")
	}
	if provider.CanAccessPatient("p2") {
		t.Error("provider should not access another provider's patient")
	}
}
