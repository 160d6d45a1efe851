// Package policy decides whether an identity may perform an action on a
// resource. It does no I/O: callers load the ownership metadata and ask.
//
// Rules, evaluated in order:
//
//   - nobody may delete their own account, whatever their role;
//   - anonymous callers may only read public concerts;
//   - admins may do anything else;
//   - members follow memberMatrix.
//
// Ids are compared as plain strings, so callers pass them in the canonical
// form produced by models.ParseID.
package policy

import (
	"fmt"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

type Action int

const (
	Read Action = iota
	Create
	Update
	Delete
	// Approve covers approving, rejecting and listing pending registrations.
	Approve
	ChangeRole
)

func (a Action) String() string {
	switch a {
	case Read:
		return "read"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case Approve:
		return "approve"
	case ChangeRole:
		return "change role"
	default:
		return "unknown"
	}
}

type Kind int

const (
	KindConcert Kind = iota
	KindRehearsal
	KindRecording
	KindSheetMusic
	KindAccount
	KindMemberDirectory
)

func (k Kind) String() string {
	switch k {
	case KindConcert:
		return "concert"
	case KindRehearsal:
		return "rehearsal"
	case KindRecording:
		return "recording"
	case KindSheetMusic:
		return "sheet music"
	case KindAccount:
		return "account"
	case KindMemberDirectory:
		return "member directory"
	default:
		return "unknown"
	}
}

// Identity is the caller. The zero value is the anonymous caller.
type Identity struct {
	AccountID string
	Username  string
	Role      models.Role
	VoicePart models.VoicePart
}

func (i Identity) Authenticated() bool {
	return i.AccountID != ""
}

func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == models.RoleAdmin
}

// Resource is the ownership and visibility metadata of the target.
// OwnerID is the uploader or creator; for KindAccount it is the account id.
type Resource struct {
	Kind      Kind
	OwnerID   string
	Public    bool
	VoicePart models.VoicePart
}

// Decision is the outcome of a check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// DenyReason describes why a check was denied.
type DenyReason int

const (
	ReasonNone DenyReason = iota
	ReasonUnauthenticated
	ReasonSelfDeletion
	ReasonAdminOnly
	ReasonNotOwner
	ReasonNotVisible
)

func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnauthenticated:
		return "authentication required"
	case ReasonSelfDeletion:
		return "own account cannot be deleted"
	case ReasonAdminOnly:
		return "admin role required"
	case ReasonNotOwner:
		return "only the owner may do this"
	case ReasonNotVisible:
		return "resource is not visible to this identity"
	default:
		return "unknown"
	}
}

// Result is a decision plus, when denied, the reason.
type Result struct {
	Decision Decision
	Reason   DenyReason
}

func (r Result) Allowed() bool {
	return r.Decision == Allow
}

// Err returns nil when allowed, otherwise an error wrapping common.ErrForbidden.
func (r Result) Err() error {
	if r.Allowed() {
		return nil
	}
	return fmt.Errorf("%w: %s", common.ErrForbidden, r.Reason)
}

func allow() Result                 { return Result{Decision: Allow} }
func deny(reason DenyReason) Result { return Result{Decision: Deny, Reason: reason} }

type rule int

const (
	never rule = iota
	always
	ownerOnly
	// visible: public, owned, or written for the caller's voice part.
	visible
)

// memberMatrix lists what a non-admin member may do. Missing entries are never.
var memberMatrix = map[Kind]map[Action]rule{
	KindConcert:         {Read: always, Create: always, Update: ownerOnly, Delete: ownerOnly},
	KindRehearsal:       {Read: always, Create: always, Update: ownerOnly, Delete: ownerOnly},
	KindRecording:       {Read: visible, Create: always, Update: ownerOnly, Delete: ownerOnly},
	KindSheetMusic:      {Read: visible, Create: always, Update: ownerOnly, Delete: ownerOnly},
	KindAccount:         {Read: ownerOnly, Update: ownerOnly},
	KindMemberDirectory: {Read: always},
}

// CanAccess evaluates the rules for one request.
func CanAccess(id Identity, action Action, res Resource) Result {
	if res.Kind == KindAccount && action == Delete && id.Authenticated() && res.OwnerID == id.AccountID {
		return deny(ReasonSelfDeletion)
	}

	if !id.Authenticated() {
		if res.Kind == KindConcert && action == Read && res.Public {
			return allow()
		}
		return deny(ReasonUnauthenticated)
	}

	if id.IsAdmin() {
		return allow()
	}

	owned := res.OwnerID != "" && res.OwnerID == id.AccountID

	switch memberMatrix[res.Kind][action] {
	case always:
		return allow()
	case ownerOnly:
		if owned {
			return allow()
		}
		return deny(ReasonNotOwner)
	case visible:
		if res.Public || owned || (id.VoicePart != models.VoiceNone && id.VoicePart == res.VoicePart) {
			return allow()
		}
		return deny(ReasonNotVisible)
	default:
		return deny(ReasonAdminOnly)
	}
}

// Filter keeps the items id may read.
func Filter[T any](id Identity, items []T, resource func(T) Resource) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if CanAccess(id, Read, resource(it)).Allowed() {
			out = append(out, it)
		}
	}
	return out
}
