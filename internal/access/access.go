// Package access decides who may see or change what.
//
// Every decision flows through Can, which combines a role gate (the minimum
// role an operation declares) with an ownership gate for operations that are
// scoped to a resource. Admins pass both gates unconditionally. The listing
// scopes (RecordScope, TaskScope) express the same rules as store filters so
// non-admins only ever load what Can would let them read.
package access

import (
	"errors"

	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// ErrForbidden is returned when an authenticated identity may not perform an operation.
var ErrForbidden = errors.New("forbidden")

// Operation names a guarded action.
type Operation string

const (
	OpReadRecord       Operation = "record:read"
	OpReadTask         Operation = "task:read"
	OpCreateTask       Operation = "task:create"
	OpUpdateTaskStatus Operation = "task:update-status"
	OpUpdateTask       Operation = "task:update"
	OpDeleteTask       Operation = "task:delete"
	OpManageUsers      Operation = "user:manage"
)

// Tier is the minimum role an operation requires.
type Tier int

const (
	// TierAuthenticated admits any verified identity.
	TierAuthenticated Tier = iota
	// TierAdmin admits only the Admin role.
	TierAdmin
)

// tiers is the role gate for every operation.
var tiers = map[Operation]Tier{
	OpReadRecord:       TierAuthenticated,
	OpReadTask:         TierAuthenticated,
	OpCreateTask:       TierAdmin,
	OpUpdateTaskStatus: TierAuthenticated,
	OpUpdateTask:       TierAdmin,
	OpDeleteTask:       TierAdmin,
	OpManageUsers:      TierAdmin,
}

// Resource carries the ownership facts of the object an operation targets.
// Role-only operations take the zero value.
type Resource struct {
	Owner  string
	Public bool
}

// RecordResource describes a record: its owner and whether it is public.
func RecordResource(rec models.Record) Resource {
	return Resource{Owner: rec.UserID, Public: rec.AccessLevel == models.AccessPublic}
}

// TaskResource describes a task. Its assignee is treated as its owner.
func TaskResource(task models.Task) Resource {
	return Resource{Owner: task.AssignedTo}
}

// TierOf returns the role gate of op. Unknown operations require Admin.
func TierOf(op Operation) Tier {
	tier, ok := tiers[op]
	if !ok {
		return TierAdmin
	}
	return tier
}

// MeetsTier reports whether role satisfies tier.
func MeetsTier(role models.Role, tier Tier) bool {
	switch tier {
	case TierAuthenticated:
		return role.Valid()
	case TierAdmin:
		return role.IsAdmin()
	}
	return false
}

// Can reports whether id may perform op on res.
func Can(id auth.Identity, op Operation, res Resource) bool {
	if !MeetsTier(id.Role, TierOf(op)) {
		return false
	}
	if id.IsAdmin() {
		return true
	}
	switch op {
	case OpReadRecord:
		return (res.Owner != "" && res.Owner == id.UserID) || res.Public
	case OpReadTask, OpUpdateTaskStatus:
		return res.Owner != "" && res.Owner == id.UserID
	}
	return true
}

// Authorize is Can returning ErrForbidden on denial.
func Authorize(id auth.Identity, op Operation, res Resource) error {
	if !Can(id, op, res) {
		return ErrForbidden
	}
	return nil
}

// RecordScope returns the store filter selecting exactly the records id may read.
func RecordScope(id auth.Identity) storage.RecordFilter {
	if id.IsAdmin() {
		return storage.RecordFilter{}
	}
	return storage.RecordFilter{Scoped: true, VisibleTo: id.UserID}
}

// TaskScope returns the store filter selecting exactly the tasks id may read.
func TaskScope(id auth.Identity) storage.TaskFilter {
	if id.IsAdmin() {
		return storage.TaskFilter{}
	}
	return storage.TaskFilter{Scoped: true, AssignedTo: id.UserID}
}

// AuthorizeRole applies only the role gate of op. Listings use it before
// narrowing results with a scope; single-resource checks go through Authorize.
func AuthorizeRole(id auth.Identity, op Operation) error {
	if !MeetsTier(id.Role, TierOf(op)) {
		return ErrForbidden
	}
	return nil
}
