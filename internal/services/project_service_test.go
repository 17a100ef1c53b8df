package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/authz"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

func TestListProjects(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	other := createUser(t, "other@example.com")
	createProject(t, owner, "Owned one")
	createProject(t, owner, "Owned two")
	createProject(t, other, "Someone else's")

	projects, err := ListProjects(owner.ID)
	require.NoError(t, err)

	require.Len(t, projects, 2)
	assert.Equal(t, "Owned one", projects[0].Name)
	assert.Equal(t, "Owned two", projects[1].Name)
}

func TestListProjectsRequiresActor(t *testing.T) {
	setupDB(t)

	_, err := ListProjects(authz.AbsentActor)
	assert.True(t, IsKind(err, Unauthenticated))
}

func TestShowProject(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	project := createProject(t, owner, "Test project")
	require.NoError(t, db.DB.Create(&models.Task{ProjectID: project.ID, Name: "A task"}).Error)
	require.NoError(t, db.DB.Create(&models.Note{ProjectID: project.ID, UserID: owner.ID, Message: "A note"}).Error)

	found, err := ShowProject(owner.ID, project.ID)
	require.NoError(t, err)

	assert.Equal(t, project.ID, found.ID)
	assert.Len(t, found.Tasks, 1)
	assert.Len(t, found.Notes, 1)
}

func TestShowProjectDeniesNonOwner(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	intruder := createUser(t, "intruder@example.com")
	project := createProject(t, owner, "Test project")

	_, err := ShowProject(intruder.ID, project.ID)
	assert.True(t, IsKind(err, Unauthorized))

	_, err = ShowProject(authz.AbsentActor, project.ID)
	assert.True(t, IsKind(err, Unauthenticated))
}

func TestShowProjectNotFound(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")

	_, err := ShowProject(owner.ID, 9999)
	assert.True(t, IsKind(err, NotFound))
}

func TestCreateProject(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")

	project, err := CreateProject(owner.ID, ProjectAttrs{Name: "Test project"})
	require.NoError(t, err)

	assert.Equal(t, owner.ID, project.OwnerID)
	assert.Nil(t, project.Completed)
	assert.EqualValues(t, 1, projectCount(t))
}

func TestCreateProjectInvalidAttrs(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")

	project, err := CreateProject(owner.ID, ProjectAttrs{Name: "   "})
	assert.Nil(t, project)

	var serviceErr *Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, ValidationFailed, serviceErr.Kind)
	assert.Contains(t, serviceErr.Fields["name"], "can't be blank")
	assert.Zero(t, projectCount(t), "validation failure creates nothing")
}

func TestCreateProjectRequiresActor(t *testing.T) {
	setupDB(t)

	_, err := CreateProject(authz.AbsentActor, ProjectAttrs{Name: "Test project"})
	assert.True(t, IsKind(err, Unauthenticated))
	assert.Zero(t, projectCount(t))
}

func TestUpdateProject(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	project := createProject(t, owner, "Old name")

	updated, err := UpdateProject(owner.ID, project.ID, ProjectAttrs{Name: "New Project Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Project Name", updated.Name)

	var reloaded models.Project
	require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
	assert.Equal(t, "New Project Name", reloaded.Name)
}

func TestUpdateProjectDeniesNonOwner(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	intruder := createUser(t, "intruder@example.com")
	project := createProject(t, owner, "Same Old Name")

	_, err := UpdateProject(intruder.ID, project.ID, ProjectAttrs{Name: "New Name"})
	assert.True(t, IsKind(err, Unauthorized))

	var reloaded models.Project
	require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
	assert.Equal(t, "Same Old Name", reloaded.Name)
}

func TestUpdateProjectInvalidAttrsKeepPriorState(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	project := createProject(t, owner, "Original")

	_, err := UpdateProject(owner.ID, project.ID, ProjectAttrs{Name: ""})
	assert.True(t, IsKind(err, ValidationFailed))

	var reloaded models.Project
	require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
	assert.Equal(t, "Original", reloaded.Name)
}

func TestDestroyProject(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	project := createProject(t, owner, "Doomed")
	require.NoError(t, db.DB.Create(&models.Task{ProjectID: project.ID, Name: "A task"}).Error)
	require.NoError(t, db.DB.Create(&models.Note{ProjectID: project.ID, UserID: owner.ID, Message: "A note"}).Error)

	require.NoError(t, DestroyProject(owner.ID, project.ID))

	assert.Zero(t, projectCount(t))
	assert.Zero(t, taskCount(t, project.ID), "tasks cascade with the project")
	assert.Zero(t, noteCount(t, project.ID), "notes cascade with the project")
}

func TestDestroyProjectDeniesNonOwner(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	intruder := createUser(t, "intruder@example.com")
	project := createProject(t, owner, "Keeper")

	err := DestroyProject(intruder.ID, project.ID)
	assert.True(t, IsKind(err, Unauthorized))
	assert.EqualValues(t, 1, projectCount(t))

	err = DestroyProject(authz.AbsentActor, project.ID)
	assert.True(t, IsKind(err, Unauthenticated))
	assert.EqualValues(t, 1, projectCount(t))
}

func TestCompleteProject(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	project := createProject(t, owner, "Almost done")
	require.Nil(t, project.Completed)

	completed, err := CompleteProject(owner.ID, project.ID)
	require.NoError(t, err)
	require.NotNil(t, completed.Completed)
	assert.True(t, *completed.Completed)

	var reloaded models.Project
	require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
	require.NotNil(t, reloaded.Completed)
	assert.True(t, *reloaded.Completed)
}

func TestCompleteProjectIsIdempotent(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	project := createProject(t, owner, "Twice done")

	_, err := CompleteProject(owner.ID, project.ID)
	require.NoError(t, err)

	again, err := CompleteProject(owner.ID, project.ID)
	require.NoError(t, err)
	require.NotNil(t, again.Completed)
	assert.True(t, *again.Completed)
}

func TestCompleteProjectDeniesNonOwner(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	intruder := createUser(t, "intruder@example.com")
	project := createProject(t, owner, "Not yours")

	_, err := CompleteProject(intruder.ID, project.ID)
	assert.True(t, IsKind(err, Unauthorized))

	var reloaded models.Project
	require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
	assert.Nil(t, reloaded.Completed, "completion flag untouched")
}

func TestCompleteProjectStoreRejection(t *testing.T) {
	setupDB(t)

	owner := createUser(t, "owner@example.com")
	project := createProject(t, owner, "Stubborn")

	// Force the underlying update to fail.
	err := db.DB.Callback().Update().Before("gorm:update").Register("force_update_failure", func(tx *gorm.DB) {
		if tx.Statement.Table == "projects" {
			tx.AddError(errors.New("storage rejected update"))
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.DB.Callback().Update().Remove("force_update_failure")
	})

	_, err = CompleteProject(owner.ID, project.ID)
	require.Error(t, err)

	var serviceErr *Error
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, OperationFailed, serviceErr.Kind)
	assert.Equal(t, "Unable to complete project.", serviceErr.Message)

	var reloaded models.Project
	require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
	assert.Nil(t, reloaded.Completed, "failed completion leaves prior state")
}
