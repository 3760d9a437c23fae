package auth

import "context"

// Scope is the caller's authorization scope, built once per request and
// applied uniformly by every repository query. Providers are restricted to
// their assigned patients; admin and billing see all records.
type Scope struct {
	UserID string
	Role   string
}

// ScopeFromContext builds the caller's scope from the request context.
func ScopeFromContext(ctx context.Context) Scope {
	return Scope{
		UserID: UserIDFromContext(ctx),
		Role:   RoleFromContext(ctx),
	}
}

// Authenticated reports whether a caller identity is present.
func (s Scope) Authenticated() bool {
	return s.UserID != ""
}

// RestrictToProvider reports whether queries must be filtered to records
// belonging to the caller's assigned patients.
func (s Scope) RestrictToProvider() bool {
	return s.Role == RoleProvider
}

// CanAccessPatient reports whether the caller may read or write records for
// a patient assigned to the given provider.
func (s Scope) CanAccessPatient(assignedProviderID string) bool {
	if !s.RestrictToProvider() {
		return true
	}
	return assignedProviderID == s.UserID
}
