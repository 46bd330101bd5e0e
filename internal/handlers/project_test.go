package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kawasin/task-tracker/internal/constants"
	"github.com/kawasin/task-tracker/internal/database"
	"github.com/kawasin/task-tracker/internal/dto"
	"github.com/kawasin/task-tracker/internal/models"
	"github.com/kawasin/task-tracker/internal/repository"
	"github.com/kawasin/task-tracker/internal/services"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ProjectHandler
}

type projectEnvelope struct {
	Success bool           `json:"success"`
	Data    dto.ProjectDTO `json:"data"`
}

type projectDetailEnvelope struct {
	Success bool                 `json:"success"`
	Data    dto.ProjectDetailDTO `json:"data"`
}

type projectListEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Projects []dto.ProjectWithSummaryDTO `json:"projects"`
	} `json:"data"`
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.handler = NewProjectHandler(services.NewProjectService(projectRepo, taskRepo))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ProjectHandlerTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:    name,
		Color:   models.DefaultProjectColor,
		OwnerID: ownerID,
	}
	suite.Require().NoError(suite.db.Create(project).Error)
	return project
}

func (suite *ProjectHandlerTestSuite) createTask(task *models.Task) *models.Task {
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *ProjectHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// List with summaries

func (suite *ProjectHandlerTestSuite) TestListProjects_TaskSummaries() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user.ID)

	suite.createTask(&models.Task{
		Title: "urgent, no due date", OwnerID: user.ID, ProjectID: &project.ID,
		Priority: models.TaskPriorityUrgent,
	})
	due := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	suite.createTask(&models.Task{
		Title: "low, due jan 1", OwnerID: user.ID, ProjectID: &project.ID,
		Priority: models.TaskPriorityLow, DueDate: &due,
	})
	suite.createTask(&models.Task{
		Title: "completed", OwnerID: user.ID, ProjectID: &project.ID,
		Status: models.TaskStatusCompleted,
	})
	suite.createTask(&models.Task{
		Title: "unfiled", OwnerID: user.ID,
		Status: models.TaskStatusBlocked,
	})

	c, w := suite.createAuthContext("GET", "/api/projects", nil, user.ID)
	suite.handler.ListProjects(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response projectListEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Data.Projects, 1)

	summary := response.Data.Projects[0].TaskSummary
	assert.Equal(suite.T(), 3, summary.Total)
	assert.Equal(suite.T(), 2, summary.Todo)
	assert.Equal(suite.T(), 0, summary.InProgress)
	assert.Equal(suite.T(), 1, summary.Completed)
	assert.Equal(suite.T(), 0, summary.Blocked)
}

func (suite *ProjectHandlerTestSuite) TestListProjects_NewestFirstAndScoped() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")

	older := suite.createTestProject("Older", alice.ID)
	suite.db.Model(older).Update("created_at", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	newer := suite.createTestProject("Newer", alice.ID)
	suite.db.Model(newer).Update("created_at", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	suite.createTestProject("Bob's", bob.ID)

	c, w := suite.createAuthContext("GET", "/api/projects", nil, alice.ID)
	suite.handler.ListProjects(c)

	var response projectListEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Data.Projects, 2)
	assert.Equal(suite.T(), "Newer", response.Data.Projects[0].Name)
	assert.Equal(suite.T(), "Older", response.Data.Projects[1].Name)
}

// Get

func (suite *ProjectHandlerTestSuite) TestGetProject_TasksInFixedOrder() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user.ID)

	urgentNoDue := suite.createTask(&models.Task{
		Title: "urgent, no due date", OwnerID: user.ID, ProjectID: &project.ID,
		Priority: models.TaskPriorityUrgent,
	})
	due := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	lowDated := suite.createTask(&models.Task{
		Title: "low, due jan 1", OwnerID: user.ID, ProjectID: &project.ID,
		Priority: models.TaskPriorityLow, DueDate: &due,
	})

	c, w := suite.createAuthContext("GET", "/api/projects/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response projectDetailEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Launch", response.Data.Name)
	suite.Require().Len(response.Data.Tasks, 2)

	// Dated task sorts before the undated one regardless of priority
	assert.Equal(suite.T(), lowDated.ID, response.Data.Tasks[0].ID)
	assert.Equal(suite.T(), urgentNoDue.ID, response.Data.Tasks[1].ID)
}

func (suite *ProjectHandlerTestSuite) TestGetProject_OtherUsersProjectNotFound() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestProject("Bob's", bob.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/1", nil, alice.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// Create

func (suite *ProjectHandlerTestSuite) TestCreateProject_DefaultColor() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]any{"name": "Launch"})
	c, w := suite.createAuthContext("POST", "/api/projects", body, user.ID)

	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	var response projectEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Launch", response.Data.Name)
	assert.Equal(suite.T(), models.DefaultProjectColor, response.Data.Color)
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_InvalidColor() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]any{"name": "Launch", "color": "blue"})
	c, w := suite.createAuthContext("POST", "/api/projects", body, user.ID)

	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// Update

func (suite *ProjectHandlerTestSuite) TestUpdateProject_PartialFieldsRetained() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user.ID)
	suite.db.Model(project).Update("description", "Ship it")

	body, _ := json.Marshal(map[string]any{"color": "#ff0000"})
	c, w := suite.createAuthContext("PUT", "/api/projects/1", body, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response projectEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Launch", response.Data.Name)
	assert.Equal(suite.T(), "Ship it", response.Data.Description)
	assert.Equal(suite.T(), "#ff0000", response.Data.Color)
}

func (suite *ProjectHandlerTestSuite) TestUpdateProject_OtherUsersProjectNotFound() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestProject("Bob's", bob.ID)

	body, _ := json.Marshal(map[string]any{"name": "Hijacked"})
	c, w := suite.createAuthContext("PUT", "/api/projects/1", body, alice.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpdateProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// Delete

func (suite *ProjectHandlerTestSuite) TestDeleteProject() {
	user := suite.createTestUser("alice")
	suite.createTestProject("Launch", user.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	c, w = suite.createAuthContext("GET", "/api/projects/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.GetProject(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestDeleteProject_WithTasksConflict() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user.ID)
	suite.createTask(&models.Task{Title: "Task", OwnerID: user.ID, ProjectID: &project.ID})

	c, w := suite.createAuthContext("DELETE", "/api/projects/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	// Project must remain retrievable after the rejected delete
	c, w = suite.createAuthContext("GET", "/api/projects/1", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	suite.handler.GetProject(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestDeleteProject_OtherUsersProjectNotFound() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestProject("Bob's", bob.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1", nil, alice.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// Project task listing

func (suite *ProjectHandlerTestSuite) TestListProjectTasks_ScopedAndPaginated() {
	user := suite.createTestUser("alice")
	project := suite.createTestProject("Launch", user.ID)
	other := suite.createTestProject("Other", user.ID)

	base := time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		suite.createTask(&models.Task{
			Title: "in project", OwnerID: user.ID, ProjectID: &project.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	suite.createTask(&models.Task{Title: "elsewhere", OwnerID: user.ID, ProjectID: &other.ID})

	c, w := suite.createAuthContext("GET", "/api/projects/1/tasks", nil, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request.URL.RawQuery = "limit=2"

	suite.handler.ListProjectTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response taskListEnvelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(3), response.Data.Total)
	assert.Equal(suite.T(), 2, response.Data.Pages)
	assert.Len(suite.T(), response.Data.Tasks, 2)
	for _, task := range response.Data.Tasks {
		assert.Equal(suite.T(), "in project", task.Title)
	}
}

func (suite *ProjectHandlerTestSuite) TestListProjectTasks_OtherUsersProjectNotFound() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	suite.createTestProject("Bob's", bob.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/1/tasks", nil, alice.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.ListProjectTasks(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
