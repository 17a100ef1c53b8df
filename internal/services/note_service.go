package services

import (
	"strings"

	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/authz"
	"github.com/taskhub-dev/taskhub/internal/models"
	"gorm.io/gorm"
)

type NoteAttrs struct {
	Message string
}

// CreateNote persists a note under the actor's project, stamping the actor as
// its author.
func CreateNote(actorID, projectID uint, attrs NoteAttrs) (*models.Note, error) {
	var created *models.Note

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		project, err := loadProject(tx, projectID)

		if err != nil {
			return err
		}

		if authz.Authorize(actorID, project, authz.ActionCreateChild) != authz.Allow {
			return denial(actorID)
		}

		if strings.TrimSpace(attrs.Message) == "" {
			return ErrValidation(map[string][]string{
				"message": {"can't be blank"},
			})
		}

		note := models.Note{
			ProjectID: project.ID,
			UserID:    actorID,
			Message:   attrs.Message,
		}

		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		created = &note
		return nil
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}

// SearchNotes resolves term against the messages of one project's notes.
// Matching is a case-insensitive substring test, applied consistently, and
// results follow creation order. An empty term or no matches yields an empty
// slice, never an error.
func SearchNotes(projectID uint, term string) ([]models.Note, error) {
	notes := []models.Note{}

	term = strings.TrimSpace(term)

	if term == "" {
		return notes, nil
	}

	pattern := "%" + strings.ToLower(term) + "%"

	err := db.DB.
		Where("project_id = ?", projectID).
		Where("LOWER(message) LIKE ?", pattern).
		Order("id ASC").
		Find(&notes).Error

	if err != nil {
		return nil, err
	}

	return notes, nil
}
