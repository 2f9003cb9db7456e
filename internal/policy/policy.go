// Package policy holds the ownership and role capability checks gating core
// operations. Every denial is a distinct error so callers can surface a
// precise message instead of filtering data silently.
package policy

import (
	"errors"

	"github.com/examhall/examhall-api/internal/models"
)

var (
	// ErrUnauthenticated indicates no authenticated principal was supplied.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrWrongRole indicates the principal lacks the required role.
	ErrWrongRole = errors.New("insufficient role")
	// ErrNotOwner indicates a principal reached for a resource it does not own.
	ErrNotOwner = errors.New("access denied for this resource")
)

// Principal identifies the authenticated caller of a core operation. The
// authentication layer is trusted to have verified it already.
type Principal struct {
	ID   uint
	Role string
}

// Authenticated reports whether a real principal is present.
func (p Principal) Authenticated() bool {
	return p.ID != 0
}

// RequireRole checks authentication first, then role membership.
func RequireRole(p Principal, role string) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if p.Role != role {
		return ErrWrongRole
	}
	return nil
}

// RequireExamOwner gates exam-scoped teacher operations (update, delete,
// results, ranking). Cross-teacher access is a hard denial, never filtered.
func RequireExamOwner(exam models.Exam, p Principal) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if exam.TeacherID != p.ID {
		return ErrNotOwner
	}
	return nil
}

// RequireResultAccess allows only the result's own student or the teacher
// owning the associated exam to view a detailed result.
func RequireResultAccess(result models.Result, exam models.Exam, p Principal) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	if result.StudentID == p.ID {
		return nil
	}
	if p.Role == models.RoleTeacher && exam.TeacherID == p.ID {
		return nil
	}
	return ErrNotOwner
}
