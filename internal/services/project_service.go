package services

import (
	"errors"
	"strings"

	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/authz"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

type ProjectAttrs struct {
	Name string
}

func validateProjectAttrs(attrs ProjectAttrs) map[string][]string {
	fields := map[string][]string{}

	if strings.TrimSpace(attrs.Name) == "" {
		fields["name"] = append(fields["name"], "can't be blank")
	}

	return fields
}

// loadProject resolves id inside tx. The load happens in the same transaction
// as the authorization check and mutation so the decision and the write see
// one snapshot.
func loadProject(tx *gorm.DB, projectID uint) (*models.Project, error) {
	var project models.Project

	if err := tx.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Project not found")
		}
		return nil, err
	}

	return &project, nil
}

// ListProjects returns the projects owned by the actor.
func ListProjects(actorID uint) ([]models.Project, error) {
	if actorID == authz.AbsentActor {
		return nil, ErrUnauthenticated()
	}

	var projects []models.Project

	if err := db.DB.Where("owner_id = ?", actorID).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return projects, nil
}

// ShowProject returns the project with its tasks and notes. Non-owners get
// Unauthorized, which the boundary renders as the landing-area redirect
// rather than an error page.
func ShowProject(actorID, projectID uint) (*models.Project, error) {
	if actorID == authz.AbsentActor {
		return nil, ErrUnauthenticated()
	}

	var project models.Project

	err := db.DB.Preload("Tasks").Preload("Notes").First(&project, projectID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("Project not found")
		}
		return nil, err
	}

	if authz.Authorize(actorID, &project, authz.ActionView) != authz.Allow {
		return nil, ErrUnauthorized()
	}

	return &project, nil
}

// CreateProject persists a project owned by the actor. Validation failure
// creates nothing.
func CreateProject(actorID uint, attrs ProjectAttrs) (*models.Project, error) {
	if actorID == authz.AbsentActor {
		return nil, ErrUnauthenticated()
	}

	if fields := validateProjectAttrs(attrs); len(fields) > 0 {
		return nil, ErrValidation(fields)
	}

	project := models.Project{
		Name:    strings.TrimSpace(attrs.Name),
		OwnerID: actorID,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// UpdateProject applies attrs to the actor's project. On Deny or validation
// failure the stored record is untouched.
func UpdateProject(actorID, projectID uint, attrs ProjectAttrs) (*models.Project, error) {
	var updated *models.Project

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		project, err := loadProject(tx, projectID)

		if err != nil {
			return err
		}

		if authz.Authorize(actorID, project, authz.ActionUpdate) != authz.Allow {
			return denial(actorID)
		}

		if fields := validateProjectAttrs(attrs); len(fields) > 0 {
			return ErrValidation(fields)
		}

		project.Name = strings.TrimSpace(attrs.Name)

		if err := tx.Save(project).Error; err != nil {
			return err
		}

		updated = project
		return nil
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DestroyProject removes the project and cascades over its tasks and notes.
func DestroyProject(actorID, projectID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		project, err := loadProject(tx, projectID)

		if err != nil {
			return err
		}

		if authz.Authorize(actorID, project, authz.ActionDestroy) != authz.Allow {
			return denial(actorID)
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Note{}).Error; err != nil {
			return err
		}

		return tx.Delete(project).Error
	})
}

// CompleteProject moves the owner's project to completed. The flag only ever
// moves to true; a store rejection leaves it at its prior value and surfaces
// as OperationFailed with the user-facing message.
func CompleteProject(actorID, projectID uint) (*models.Project, error) {
	var completed *models.Project

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		project, err := loadProject(tx, projectID)

		if err != nil {
			return err
		}

		if authz.Authorize(actorID, project, authz.ActionComplete) != authz.Allow {
			return denial(actorID)
		}

		if err := tx.Model(project).Update("completed", true).Error; err != nil {
			return ErrOperationFailed("Unable to complete project.")
		}

		done := true
		project.Completed = &done
		completed = project
		return nil
	})

	if err != nil {
		return nil, err
	}

	return completed, nil
}

// denial maps an authorization Deny to the right error kind: guests are
// Unauthenticated, present non-owners are Unauthorized.
func denial(actorID uint) *Error {
	if actorID == authz.AbsentActor {
		return ErrUnauthenticated()
	}

	return ErrUnauthorized()
}
