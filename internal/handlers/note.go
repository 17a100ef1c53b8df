package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/types"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

type NoteRequest struct {
	Message string `json:"message"`
}

type NoteResponse struct {
	ID        uint      `json:"id"`
	ProjectID uint      `json:"project_id"`
	UserID    uint      `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func noteResponse(note *models.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		ProjectID: note.ProjectID,
		UserID:    note.UserID,
		Message:   note.Message,
		CreatedAt: note.CreatedAt,
	}
}

func CreateNote(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req NoteRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	note, err := services.CreateNote(utils.ActorID(ctx), projectID, services.NoteAttrs{Message: req.Message})

	if err != nil {
		renderServiceError(ctx, err, projectPath(projectID))
		return
	}

	BroadcastActivity(note.ProjectID, "note.created", note.Message)

	ctx.JSON(http.StatusCreated, noteResponse(note))
}

// SearchNotes serves the notes listing, filtered by the term query. The view
// is owner-scoped like every other project read.
func SearchNotes(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Ownership gate before the search touches note data.
	if _, err := services.ShowProject(utils.ActorID(ctx), projectID); err != nil {
		renderServiceError(ctx, err, types.LandingPath)
		return
	}

	notes, err := services.SearchNotes(projectID, ctx.Query("term"))

	if err != nil {
		renderServiceError(ctx, err, projectPath(projectID))
		return
	}

	response := []NoteResponse{}

	for i := range notes {
		response = append(response, noteResponse(&notes[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"notes": response})
}
