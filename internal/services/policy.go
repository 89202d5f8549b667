package services

// Identity is the caller as established by the HTTP layer. A zero Identity
// is an anonymous caller.
type Identity struct {
	UserID string
	Role   string
}

func (id Identity) Authenticated() bool { return id.UserID != "" }

// Action enumerates everything the policy can decide on.
type Action int

const (
	ActionCatalogRead Action = iota
	ActionCatalogWrite
	ActionCatalogDelete
	ActionResultCreate
	ActionResultRead
	ActionResultDelete
	ActionSettingsRead
	ActionSettingsWrite
)

// Policy is the single place access rules live. Services never check roles
// or ownership themselves; they ask the policy.
//
// Catalog reads and writes need authentication, catalog deletes need the
// admin role. Results are visible to their owner only: an ownership miss
// reports not_found so callers cannot probe which ids exist. Settings reads
// are public.
type Policy struct{}

func NewPolicy() *Policy { return &Policy{} }

// Authorize decides whether caller may perform action. ownerID is the owner
// of the target record for owner-scoped actions and empty otherwise.
func (p *Policy) Authorize(caller Identity, action Action, ownerID string) error {
	if action == ActionSettingsRead {
		return nil
	}
	if !caller.Authenticated() {
		return NewUnauthenticatedError("authentication required")
	}
	switch action {
	case ActionCatalogRead, ActionCatalogWrite, ActionSettingsWrite:
		return nil
	case ActionCatalogDelete:
		if caller.Role != RoleAdmin {
			return NewForbiddenError("admin role required")
		}
		return nil
	case ActionResultCreate:
		if ownerID != caller.UserID {
			return NewForbiddenError("cannot create results for another user")
		}
		return nil
	case ActionResultRead, ActionResultDelete:
		if ownerID != caller.UserID {
			return NewNotFoundError("result not found")
		}
		return nil
	}
	return NewForbiddenError("forbidden")
}
