package services

import (
	"errors"
	"strings"

	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/authz"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

type TaskAttrs struct {
	Name string
}

// CreateTask persists a task under the actor's project. Authorization runs
// against the parent project; a denied actor never changes the task count.
func CreateTask(actorID, projectID uint, attrs TaskAttrs) (*models.Task, error) {
	var created *models.Task

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		project, err := loadProject(tx, projectID)

		if err != nil {
			return err
		}

		if authz.Authorize(actorID, project, authz.ActionCreateChild) != authz.Allow {
			return denial(actorID)
		}

		if strings.TrimSpace(attrs.Name) == "" {
			return ErrValidation(map[string][]string{
				"name": {"can't be blank"},
			})
		}

		task := models.Task{
			ProjectID: project.ID,
			Name:      strings.TrimSpace(attrs.Name),
		}

		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		created = &task
		return nil
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}

// ShowTask returns the task as structured data; how it is rendered is the
// boundary's concern.
func ShowTask(actorID, projectID, taskID uint) (*models.Task, error) {
	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Project not found")
		}
		return nil, err
	}

	if authz.Authorize(actorID, &project, authz.ActionView) != authz.Allow {
		return nil, denial(actorID)
	}

	var task models.Task

	err := db.DB.Where("id = ? AND project_id = ?", taskID, projectID).First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Task not found")
		}
		return nil, err
	}

	return &task, nil
}
