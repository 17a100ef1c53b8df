package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

type TaskRequest struct {
	Name string `json:"name"`
}

type TaskResponse struct {
	ID        uint   `json:"id"`
	ProjectID uint   `json:"project_id"`
	Name      string `json:"name"`
}

func taskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		ProjectID: task.ProjectID,
		Name:      task.Name,
	}
}

func CreateTask(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req TaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := services.CreateTask(utils.ActorID(ctx), projectID, services.TaskAttrs{Name: req.Name})

	if err != nil {
		renderServiceError(ctx, err, projectPath(projectID))
		return
	}

	BroadcastActivity(task.ProjectID, "task.created", task.Name)

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

func ShowTask(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.ShowTask(utils.ActorID(ctx), projectID, taskID)

	if err != nil {
		renderServiceError(ctx, err, projectPath(projectID))
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}
