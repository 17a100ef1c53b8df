package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/types"
	"github.com/taskhub-dev/taskhub/internal/utils"
)

type ProjectRequest struct {
	Name string `json:"name"`
}

type ProjectResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	OwnerID   uint   `json:"owner_id"`
	Completed *bool  `json:"completed"`
}

type ProjectDetailResponse struct {
	ProjectResponse
	Tasks []TaskResponse `json:"tasks"`
	Notes []NoteResponse `json:"notes"`
}

func projectResponse(project *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:        project.ID,
		Name:      project.Name,
		OwnerID:   project.OwnerID,
		Completed: project.Completed,
	}
}

func projectPath(projectID uint) string {
	return fmt.Sprintf("/projects/%d", projectID)
}

func ListProjects(ctx *gin.Context) {
	projects, err := services.ListProjects(utils.ActorID(ctx))

	if err != nil {
		renderServiceError(ctx, err, types.LandingPath)
		return
	}

	response := []ProjectResponse{}

	for i := range projects {
		response = append(response, projectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func ShowProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := services.ShowProject(utils.ActorID(ctx), projectID)

	if err != nil {
		renderServiceError(ctx, err, types.LandingPath)
		return
	}

	detail := ProjectDetailResponse{
		ProjectResponse: projectResponse(project),
		Tasks:           []TaskResponse{},
		Notes:           []NoteResponse{},
	}

	for i := range project.Tasks {
		detail.Tasks = append(detail.Tasks, taskResponse(&project.Tasks[i]))
	}

	for i := range project.Notes {
		detail.Notes = append(detail.Notes, noteResponse(&project.Notes[i]))
	}

	ctx.JSON(http.StatusOK, detail)
}

func CreateProject(ctx *gin.Context) {
	var req ProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := services.CreateProject(utils.ActorID(ctx), services.ProjectAttrs{Name: req.Name})

	if err != nil {
		renderServiceError(ctx, err, types.LandingPath)
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

func UpdateProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := services.UpdateProject(utils.ActorID(ctx), projectID, services.ProjectAttrs{Name: req.Name})

	if err != nil {
		renderServiceError(ctx, err, types.LandingPath)
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func DeleteProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.DestroyProject(utils.ActorID(ctx), projectID); err != nil {
		renderServiceError(ctx, err, types.LandingPath)
		return
	}

	if middleware.WantsJSON(ctx) {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.Redirect(http.StatusSeeOther, types.LandingPath)
}

func CompleteProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := services.CompleteProject(utils.ActorID(ctx), projectID)

	if err != nil {
		renderServiceError(ctx, err, projectPath(projectID))
		return
	}

	BroadcastActivity(project.ID, "project.completed", project.Name)

	if middleware.WantsJSON(ctx) {
		ctx.JSON(http.StatusOK, projectResponse(project))
		return
	}

	setFlash(ctx, "notice", "Congratulations, this project is complete!")
	ctx.Redirect(http.StatusSeeOther, projectPath(project.ID))
}
