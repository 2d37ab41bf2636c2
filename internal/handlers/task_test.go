package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	tokens *auth.TokenManager
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.db = testutil.NewDB(suite.T())

	var err error
	suite.tokens, err = auth.NewTokenManager(auth.TokenConfig{Secret: "handler-test-secret", TTL: time.Hour})
	suite.Require().NoError(err)

	suite.router = suite.newRouter(true)
}

func (suite *TaskHandlerTestSuite) newRouter(enforceOwnership bool) *gin.Engine {
	taskService := services.NewTaskService(repository.NewTaskRepository(suite.db), enforceOwnership)
	handler := NewTaskHandler(taskService, logging.Discard())

	r := gin.New()
	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth(suite.tokens, logging.Discard()))
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.CreateTask)
		tasks.PUT("/:id", middleware.RequireTaskID(), handler.UpdateTask)
		tasks.DELETE("/:id", middleware.RequireTaskID(), handler.DeleteTask)
	}
	return r
}

// Helper function to create a test user and a bearer token for it
func (suite *TaskHandlerTestSuite) createTestUser(username string) (*models.User, string) {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Phone:        username + "-phone",
		PasswordHash: "hashed",
	}
	suite.Require().NoError(suite.db.Create(user).Error)

	token, err := suite.tokens.Issue(user.ID)
	suite.Require().NoError(err)
	return user, token
}

// Helper function to create a test task
func (suite *TaskHandlerTestSuite) createTestTask(title string, ownerID string) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Test description",
		Status:      models.TaskStatusPending,
		DueDate:     time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC),
		OwnerID:     ownerID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *TaskHandlerTestSuite) do(router *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) request(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		suite.Require().NoError(err)
	}
	return suite.do(suite.router, method, path, token, body)
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) dto.TaskDTO {
	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func (suite *TaskHandlerTestSuite) TestRequiresToken() {
	user, _ := suite.createTestUser("alice")
	task := suite.createTestTask("Guarded", user.ID)

	cases := []struct {
		method string
		path   string
		header string
	}{
		{http.MethodGet, "/tasks", ""},
		{http.MethodPost, "/tasks", "Bearer not-a-token"},
		{http.MethodPut, "/tasks/" + task.ID, "Basic abc"},
		{http.MethodDelete, "/tasks/" + task.ID, "Bearer"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(`{"title":"x"}`))
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)
		suite.Equal(http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Equal("Guarded", stored.Title)
}

func (suite *TaskHandlerTestSuite) TestExpiredTokenRejected() {
	user, _ := suite.createTestUser("alice")

	expired, err := auth.NewTokenManager(auth.TokenConfig{
		Secret: "handler-test-secret",
		TTL:    time.Hour,
		Now:    func() time.Time { return time.Now().Add(-2 * time.Hour) },
	})
	suite.Require().NoError(err)
	token, err := expired.Issue(user.ID)
	suite.Require().NoError(err)

	w := suite.request(http.MethodGet, "/tasks", token, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	user, token := suite.createTestUser("alice")

	w := suite.request(http.MethodPost, "/tasks", token, map[string]string{
		"title":       "Write report",
		"description": "Quarterly numbers",
		"dueDate":     "2030-03-01",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	task := suite.decodeTask(w)
	suite.NotEmpty(task.ID)
	suite.Equal("Write report", task.Title)
	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Equal("2030-03-01", task.DueDate)
	suite.Equal(user.ID, task.OwnerID)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskIgnoresOwnerInBody() {
	user, token := suite.createTestUser("alice")
	other, _ := suite.createTestUser("bob")

	w := suite.request(http.MethodPost, "/tasks", token, map[string]string{
		"title":       "Mine",
		"description": "d",
		"dueDate":     "2030-03-01",
		"ownerId":     other.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.Equal(user.ID, suite.decodeTask(w).OwnerID)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskValidation() {
	_, token := suite.createTestUser("alice")

	cases := map[string]map[string]string{
		"missing title":  {"description": "d", "dueDate": "2030-03-01"},
		"bad due date":   {"title": "t", "description": "d", "dueDate": "tomorrow"},
		"missing date":   {"title": "t", "description": "d"},
		"unknown status": {"title": "t", "description": "d", "dueDate": "2030-03-01", "status": "Done"},
	}

	for name, payload := range cases {
		w := suite.request(http.MethodPost, "/tasks", token, payload)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}

	w := suite.do(suite.router, http.MethodPost, "/tasks", token, []byte("{broken"))
	suite.Equal(http.StatusBadRequest, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	user, token := suite.createTestUser("alice")
	other, _ := suite.createTestUser("bob")
	suite.createTestTask("Mine", user.ID)
	suite.createTestTask("Theirs", other.ID)

	w := suite.request(http.MethodGet, "/tasks", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var tasks []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 1)
	suite.Equal("Mine", tasks[0].Title)
	suite.Equal(user.ID, tasks[0].OwnerID)
}

func (suite *TaskHandlerTestSuite) TestListTasksEmpty() {
	_, token := suite.createTestUser("alice")

	w := suite.request(http.MethodGet, "/tasks", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatusOnly() {
	user, token := suite.createTestUser("alice")
	task := suite.createTestTask("Keep me", user.ID)

	w := suite.request(http.MethodPut, "/tasks/"+task.ID, token, map[string]string{"status": "Completed"})
	suite.Require().Equal(http.StatusOK, w.Code)

	updated := suite.decodeTask(w)
	suite.Equal(models.TaskStatusCompleted, updated.Status)
	suite.Equal("Keep me", updated.Title)
	suite.Equal("Test description", updated.Description)
	suite.Equal("2030-01-15", updated.DueDate)
	suite.Equal(user.ID, updated.OwnerID)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskIgnoresOwnerField() {
	user, token := suite.createTestUser("alice")
	other, _ := suite.createTestUser("bob")
	task := suite.createTestTask("Mine", user.ID)

	w := suite.request(http.MethodPut, "/tasks/"+task.ID, token, map[string]string{"ownerId": other.ID})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(user.ID, suite.decodeTask(w).OwnerID)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Equal(user.ID, stored.OwnerID)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskInvalid() {
	user, token := suite.createTestUser("alice")
	task := suite.createTestTask("Mine", user.ID)

	w := suite.do(suite.router, http.MethodPut, "/tasks/"+task.ID, token, []byte("{broken"))
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPut, "/tasks/"+task.ID, token, map[string]string{"status": "Sometime"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPut, "/tasks/"+task.ID, token, map[string]string{"title": "  "})
	suite.Equal(http.StatusBadRequest, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Equal("Mine", stored.Title)
	suite.Equal(models.TaskStatusPending, stored.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskNotFound() {
	_, token := suite.createTestUser("alice")

	w := suite.request(http.MethodPut, "/tasks/"+uuid.NewString(), token, map[string]string{"title": "x"})
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodPut, "/tasks/not-a-uuid", token, map[string]string{"title": "x"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	user, token := suite.createTestUser("alice")
	task := suite.createTestTask("Short lived", user.ID)

	w := suite.request(http.MethodDelete, "/tasks/"+task.ID, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.MessageResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Task deleted.", response.Message)

	w = suite.request(http.MethodDelete, "/tasks/"+task.ID, token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestForeignTaskHidden() {
	owner, _ := suite.createTestUser("alice")
	_, intruderToken := suite.createTestUser("mallory")
	task := suite.createTestTask("Private", owner.ID)

	w := suite.request(http.MethodPut, "/tasks/"+task.ID, intruderToken, map[string]string{"title": "Hijacked"})
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodDelete, "/tasks/"+task.ID, intruderToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", task.ID).Error)
	suite.Equal("Private", stored.Title)
}

func (suite *TaskHandlerTestSuite) TestForeignTaskWithoutOwnershipEnforcement() {
	owner, _ := suite.createTestUser("alice")
	_, otherToken := suite.createTestUser("bob")
	task := suite.createTestTask("Shared", owner.ID)
	router := suite.newRouter(false)

	body, err := json.Marshal(map[string]string{"title": "Renamed"})
	suite.Require().NoError(err)
	w := suite.do(router, http.MethodPut, "/tasks/"+task.ID, otherToken, body)
	suite.Require().Equal(http.StatusOK, w.Code)

	updated := suite.decodeTask(w)
	suite.Equal("Renamed", updated.Title)
	suite.Equal(owner.ID, updated.OwnerID)

	listed, err := services.NewTaskService(repository.NewTaskRepository(suite.db), false).
		ListTasks(context.Background(), auth.Identity{UserID: owner.ID})
	suite.Require().NoError(err)
	suite.Len(listed, 1)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
