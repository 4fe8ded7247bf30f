package access

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
)

var (
	admin = auth.Identity{UserID: "admin001", Role: models.RoleAdmin}
	alice = auth.Identity{UserID: "user001", Role: models.RoleGeneralUser}
	bob   = auth.Identity{UserID: "user002", Role: models.RoleGeneralUser}
)

func TestCan(t *testing.T) {
	ownTask := Resource{Owner: alice.UserID}
	otherTask := Resource{Owner: bob.UserID}

	tests := []struct {
		name string
		id   auth.Identity
		op   Operation
		res  Resource
		want bool
	}{
		{"admin reads restricted record of another user", admin, OpReadRecord, Resource{Owner: "user001"}, true},
		{"owner reads own restricted record", alice, OpReadRecord, Resource{Owner: alice.UserID}, true},
		{"user reads public record of another user", alice, OpReadRecord, Resource{Owner: bob.UserID, Public: true}, true},
		{"user cannot read restricted record of another user", alice, OpReadRecord, Resource{Owner: bob.UserID}, false},
		{"user reads own task", alice, OpReadTask, ownTask, true},
		{"user cannot read another user's task", alice, OpReadTask, otherTask, false},
		{"user updates status of own task", alice, OpUpdateTaskStatus, ownTask, true},
		{"user cannot update status of another user's task", alice, OpUpdateTaskStatus, otherTask, false},
		{"admin updates status of any task", admin, OpUpdateTaskStatus, otherTask, true},
		{"user cannot fully update own task", alice, OpUpdateTask, ownTask, false},
		{"admin fully updates any task", admin, OpUpdateTask, otherTask, true},
		{"user cannot create tasks", alice, OpCreateTask, Resource{}, false},
		{"admin creates tasks", admin, OpCreateTask, Resource{}, true},
		{"user cannot delete own task", alice, OpDeleteTask, ownTask, false},
		{"admin deletes tasks", admin, OpDeleteTask, otherTask, true},
		{"user cannot manage users", alice, OpManageUsers, Resource{}, false},
		{"admin manages users", admin, OpManageUsers, Resource{}, true},
		{"unknown role is denied everything", auth.Identity{UserID: "x", Role: "Guest"}, OpReadRecord, Resource{Public: true}, false},
		{"unknown operation requires admin", alice, Operation("report:export"), Resource{}, false},
		{"empty user id does not own unowned resources", auth.Identity{Role: models.RoleGeneralUser}, OpReadTask, Resource{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Can(tc.id, tc.op, tc.res))
		})
	}
}

func TestAuthorizeReturnsErrForbidden(t *testing.T) {
	require.ErrorIs(t, Authorize(alice, OpDeleteTask, Resource{}), ErrForbidden)
	require.NoError(t, Authorize(admin, OpDeleteTask, Resource{}))
}

func TestAuthorizeRoleIgnoresOwnership(t *testing.T) {
	require.NoError(t, AuthorizeRole(alice, OpUpdateTaskStatus))
	require.ErrorIs(t, AuthorizeRole(alice, OpUpdateTask), ErrForbidden)
	require.ErrorIs(t, AuthorizeRole(auth.Identity{}, OpReadTask), ErrForbidden)
}

// Scopes must select exactly the resources Can allows, for every identity.
func TestScopesAgreeWithCan(t *testing.T) {
	owners := []string{"admin001", "user001", "user002", "user003"}
	var records []models.Record
	var tasks []models.Task
	for i, owner := range owners {
		for _, level := range []models.AccessLevel{models.AccessPublic, models.AccessRestricted} {
			records = append(records, models.Record{ID: fmt.Sprintf("rec-%d-%s", i, level), UserID: owner, AccessLevel: level})
		}
		tasks = append(tasks, models.Task{TaskID: fmt.Sprintf("TASK%03d", i), AssignedTo: owner})
	}

	identities := []auth.Identity{admin, alice, bob, {UserID: "user009", Role: models.RoleGeneralUser}}
	for _, id := range identities {
		t.Run(id.UserID, func(t *testing.T) {
			recordScope := RecordScope(id)
			for _, rec := range records {
				assert.Equal(t, Can(id, OpReadRecord, RecordResource(rec)), recordScope.Matches(rec), rec.ID)
			}
			taskScope := TaskScope(id)
			for _, task := range tasks {
				assert.Equal(t, Can(id, OpReadTask, TaskResource(task)), taskScope.Matches(task), task.TaskID)
			}
		})
	}
}

func TestNonAdminScopeIsAlwaysScoped(t *testing.T) {
	blank := auth.Identity{Role: models.RoleGeneralUser}

	recordScope := RecordScope(blank)
	assert.True(t, recordScope.Scoped)
	assert.False(t, recordScope.Matches(models.Record{AccessLevel: models.AccessRestricted}))

	taskScope := TaskScope(blank)
	assert.True(t, taskScope.Scoped)
	assert.False(t, taskScope.Matches(models.Task{}))
}
