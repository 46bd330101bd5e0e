package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kawasin/task-tracker/internal/dto"
	apierrors "github.com/kawasin/task-tracker/internal/errors"
	"github.com/kawasin/task-tracker/internal/middleware"
	"github.com/kawasin/task-tracker/internal/services"
	"github.com/kawasin/task-tracker/internal/utils"
)

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns all of the caller's projects, newest first, each with
// its task status summary in place of the raw task list.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	projectDTOs := make([]dto.ProjectWithSummaryDTO, len(projects))
	for i, project := range projects {
		projectDTOs[i] = dto.ToProjectWithSummaryDTO(project)
	}

	apierrors.Respond(c, http.StatusOK, gin.H{
		"projects": projectDTOs,
	})
}

// GetProject returns one of the caller's projects with its full task list.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	project, tasks, err := h.projectService.GetProject(projectID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToProjectDetailDTO(*project, tasks))
}

// CreateProject creates a new project for the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
		Color       string `json:"color" binding:"omitempty,hexcolor"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		OwnerID:     userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject updates the supplied fields of one of the caller's projects.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
		Description *string `json:"description"`
		Color       *string `json:"color" binding:"omitempty,hexcolor"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(projectID, userID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes one of the caller's projects. Deletion is refused
// with a conflict while tasks still reference the project.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ListProjectTasks returns a paginated, filtered listing of one project's
// tasks, in the same fixed order as the global task listing.
func (h *ProjectHandler) ListProjectTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c)
	if !ok {
		return
	}

	params, err := utils.GetPaginationParams(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid pagination parameters")
		return
	}

	input := services.ListTasksInput{
		OwnerID:  userID,
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if !bindTaskFilters(c, &input) {
		return
	}

	tasks, total, err := h.projectService.ListProjectTasks(projectID, userID, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrProjectHasTasks):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrProjectNameEmpty):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
