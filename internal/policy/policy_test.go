package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/examhall/examhall-api/internal/models"
)

func TestRequireRole(t *testing.T) {
	require.ErrorIs(t, RequireRole(Principal{}, models.RoleTeacher), ErrUnauthenticated)
	require.ErrorIs(t, RequireRole(Principal{ID: 1, Role: models.RoleStudent}, models.RoleTeacher), ErrWrongRole)
	require.NoError(t, RequireRole(Principal{ID: 1, Role: models.RoleTeacher}, models.RoleTeacher))
}

func TestRequireExamOwner(t *testing.T) {
	exam := models.Exam{TeacherID: 7}

	require.ErrorIs(t, RequireExamOwner(exam, Principal{}), ErrUnauthenticated)
	require.ErrorIs(t, RequireExamOwner(exam, Principal{ID: 8, Role: models.RoleTeacher}), ErrNotOwner)
	require.NoError(t, RequireExamOwner(exam, Principal{ID: 7, Role: models.RoleTeacher}))
}

func TestRequireResultAccess(t *testing.T) {
	exam := models.Exam{TeacherID: 7}
	result := models.Result{StudentID: 3}

	require.ErrorIs(t, RequireResultAccess(result, exam, Principal{}), ErrUnauthenticated)

	// The result's own student may view it.
	require.NoError(t, RequireResultAccess(result, exam, Principal{ID: 3, Role: models.RoleStudent}))

	// The owning teacher may view it.
	require.NoError(t, RequireResultAccess(result, exam, Principal{ID: 7, Role: models.RoleTeacher}))

	// Another student or another teacher may not.
	require.ErrorIs(t, RequireResultAccess(result, exam, Principal{ID: 4, Role: models.RoleStudent}), ErrNotOwner)
	require.ErrorIs(t, RequireResultAccess(result, exam, Principal{ID: 8, Role: models.RoleTeacher}), ErrNotOwner)
}
