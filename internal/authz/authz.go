// Package authz holds the single ownership policy for projects and their
// nested resources. Every service consults Authorize before touching state;
// no other package compares actors to owners.
package authz

import "github.com/taskhub-dev/taskhub/internal/models"

type Action string

const (
	ActionView        Action = "view"
	ActionCreateChild Action = "create_child"
	ActionUpdate      Action = "update"
	ActionComplete    Action = "complete"
	ActionDestroy     Action = "destroy"
)

type Decision int

const (
	Deny Decision = iota
	Allow
)

// AbsentActor marks an unauthenticated request. User IDs start at 1, so zero
// never collides with a real actor.
const AbsentActor uint = 0

// Authorize decides whether actorID may perform action on project. Actions on
// tasks and notes resolve against the parent project, which is the only owner
// in the model. Pure; no lookups, no side effects.
func Authorize(actorID uint, project *models.Project, action Action) Decision {
	if actorID == AbsentActor {
		return Deny
	}

	if project == nil || project.OwnerID != actorID {
		return Deny
	}

	return Allow
}
