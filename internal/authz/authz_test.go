package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskhub-dev/taskhub/internal/models"
)

var allActions = []Action{
	ActionView,
	ActionCreateChild,
	ActionUpdate,
	ActionComplete,
	ActionDestroy,
}

func TestAuthorize(t *testing.T) {
	project := &models.Project{OwnerID: 7}

	tests := []struct {
		name    string
		actorID uint
		project *models.Project
		want    Decision
	}{
		{
			name:    "owner is allowed",
			actorID: 7,
			project: project,
			want:    Allow,
		},
		{
			name:    "non-owner is denied",
			actorID: 8,
			project: project,
			want:    Deny,
		},
		{
			name:    "absent actor is denied",
			actorID: AbsentActor,
			project: project,
			want:    Deny,
		},
		{
			name:    "absent actor is denied even without a project",
			actorID: AbsentActor,
			project: nil,
			want:    Deny,
		},
		{
			name:    "missing project is denied",
			actorID: 7,
			project: nil,
			want:    Deny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range allActions {
				got := Authorize(tt.actorID, tt.project, action)
				assert.Equal(t, tt.want, got, "action %s", action)
			}
		})
	}
}

func TestAuthorizeIsPure(t *testing.T) {
	project := &models.Project{OwnerID: 3}

	before := *project
	Authorize(4, project, ActionDestroy)
	assert.Equal(t, before, *project)
}
