package front

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/gateway"
	"taskflow/internal/models"
	"taskflow/internal/session"
	"taskflow/internal/store"
)

// stubGateway backs the store with canned data and accepts every write. The
// uploader half can be told to fail with the missing-bucket error.
type stubGateway struct {
	members       []models.TeamMember
	projects      []models.Project
	tasks         []models.Task
	notifications []models.Notification

	uploadErr error
}

func (s *stubGateway) GetMembers(ctx context.Context) ([]models.TeamMember, error) {
	return s.members, nil
}
func (s *stubGateway) CreateMember(ctx context.Context, m models.TeamMember) error { return nil }
func (s *stubGateway) UpdateMember(ctx context.Context, m models.TeamMember) error { return nil }
func (s *stubGateway) DeleteMember(ctx context.Context, id string) error           { return nil }

func (s *stubGateway) GetProjects(ctx context.Context) ([]models.Project, error) {
	return s.projects, nil
}
func (s *stubGateway) CreateProject(ctx context.Context, p models.Project) error { return nil }
func (s *stubGateway) UpdateProject(ctx context.Context, p models.Project) error { return nil }
func (s *stubGateway) DeleteProject(ctx context.Context, id string) error        { return nil }

func (s *stubGateway) GetTasks(ctx context.Context) ([]models.Task, error) { return s.tasks, nil }
func (s *stubGateway) CreateTask(ctx context.Context, t models.Task) error { return nil }
func (s *stubGateway) UpdateTask(ctx context.Context, t models.Task) error { return nil }
func (s *stubGateway) UpdateTaskField(ctx context.Context, taskID, field string, value any) error {
	return nil
}
func (s *stubGateway) DeleteTask(ctx context.Context, id string) error { return nil }

func (s *stubGateway) GetNotifications(ctx context.Context) ([]models.Notification, error) {
	return s.notifications, nil
}
func (s *stubGateway) CreateNotification(ctx context.Context, n models.Notification) error {
	return nil
}
func (s *stubGateway) MarkNotificationRead(ctx context.Context, id string) error { return nil }

func (s *stubGateway) UploadFile(ctx context.Context, name, contentType string, data []byte, bucket string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}

	return "http://storage/object/public/" + bucket + "/" + name, nil
}

func testApp(t *testing.T) (*App, *stubGateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := &stubGateway{
		members: []models.TeamMember{
			{ID: "m1", Name: "Jane Doe", Email: "jane@acme.io", Password: "hunter2", Role: models.RoleAdmin},
			{ID: "m2", Name: "John Smith", Email: "john@acme.io", Password: "swordfish", Role: models.RoleMember},
		},
		tasks: []models.Task{
			{ID: "t1", Title: "Design mockups", Status: models.TaskTodo, Priority: models.PriorityHigh},
			{ID: "t2", Title: "Set up CI", Status: models.TaskDoing, Priority: models.PriorityUrgent},
		},
	}

	st := store.New(gw)
	st.Refresh(context.Background())

	auth := session.NewAuthenticator(gw)
	guard := &session.Guard{Secret: []byte("test-secret"), Auth: auth}
	cfg := Config{SessionSecret: "test-secret", SessionTTL: time.Hour}

	return NewApp(st, auth, guard, gw, cfg), gw
}

// asMember injects a resolved identity the way the session middleware would.
func asMember(app *App, id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, _ := app.store.MemberByID(id)
		c.Set(session.CtxMember, member)
		c.Set(session.CtxRole, member.Role)
		c.Next()
	}
}

func perform(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestLoginSetsCookieAndStripsPassword(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/login", app.handleLogin)

	w := perform(router, http.MethodPost, "/login", LoginRequest{Email: "jane@acme.io", Password: "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)

	var vm MemberVM
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vm))
	assert.Equal(t, "m1", vm.ID)
	assert.NotContains(t, w.Body.String(), "hunter2")

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, session.CookieName)
}

func TestLoginBadCredentials(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/login", app.handleLogin)

	w := perform(router, http.MethodPost, "/login", LoginRequest{Email: "jane@acme.io", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQueryTasksKanbanView(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/tasks/query", asMember(app, "m1"), app.handleQueryTasks)

	w := perform(router, http.MethodPost, "/tasks/query", TaskQuery{View: "KANBAN"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Columns []BoardColumn `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Columns, len(models.BoardStatuses()))
	assert.Equal(t, models.TaskBacklog, resp.Columns[0].Status)

	total := 0
	for _, col := range resp.Columns {
		total += len(col.Tasks)
	}
	assert.Equal(t, 2, total)
}

func TestQueryTasksFlatList(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/tasks/query", asMember(app, "m1"), app.handleQueryTasks)

	w := perform(router, http.MethodPost, "/tasks/query", TaskQuery{})
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 2)
}

func TestCreateTaskRejectsInvalid(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/tasks", asMember(app, "m1"), app.handleCreateTask)

	w := perform(router, http.MethodPost, "/tasks", models.Task{Title: "", Status: models.TaskTodo, Priority: models.PriorityLow})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTaskNotifiesNewAssignees(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.PUT("/tasks/:id", asMember(app, "m1"), app.handleUpdateTask)

	task, _ := app.store.TaskByID("t1")
	task.AssigneeIDs = []string{"m2"}

	w := perform(router, http.MethodPut, "/tasks/t1", task)
	require.Equal(t, http.StatusOK, w.Code)

	feed := app.store.Notifications()
	require.Len(t, feed, 1)
	assert.Equal(t, "m2", feed[0].UserID)
	assert.Equal(t, models.NotificationAssigned, feed[0].Type)
}

func TestPostCommentCreatesMentionNotification(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/tasks/:id/comments", asMember(app, "m1"), app.handlePostComment)

	w := perform(router, http.MethodPost, "/tasks/t1/comments", CommentRequest{Text: "please review @John Smith"})
	require.Equal(t, http.StatusCreated, w.Code)

	var vm CommentVM
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vm))
	assert.Equal(t, "m1", vm.UserID)
	require.NotEmpty(t, vm.Segments)

	task, _ := app.store.TaskByID("t1")
	require.Len(t, task.Comments, 1)

	feed := app.store.Notifications()
	require.Len(t, feed, 1)
	assert.Equal(t, "m2", feed[0].UserID)
	assert.Equal(t, models.NotificationMention, feed[0].Type)
}

func TestPostCommentUnknownTask(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/tasks/:id/comments", asMember(app, "m1"), app.handlePostComment)

	w := perform(router, http.MethodPost, "/tasks/nope/comments", CommentRequest{Text: "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompleteTimerBumpsCounter(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/tasks/:id/timer/complete", asMember(app, "m1"), app.handleCompleteTimer)

	w := perform(router, http.MethodPost, "/tasks/t1/timer/complete", TimerCompleteRequest{Mode: "FOCUS"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		PomodoroSessions int `json:"pomodoroSessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.PomodoroSessions)

	task, _ := app.store.TaskByID("t1")
	assert.Equal(t, 1, task.PomodoroSessions)
}

func TestCompleteTimerBreakDoesNotCount(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/tasks/:id/timer/complete", asMember(app, "m1"), app.handleCompleteTimer)

	w := perform(router, http.MethodPost, "/tasks/t1/timer/complete", TimerCompleteRequest{Mode: "SHORT"})
	require.Equal(t, http.StatusOK, w.Code)

	task, _ := app.store.TaskByID("t1")
	assert.Zero(t, task.PomodoroSessions)
}

func TestDeleteMemberRefusesSelf(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.DELETE("/members/:id", asMember(app, "m1"), app.handleDeleteMember)

	w := perform(router, http.MethodDelete, "/members/m1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, ok := app.store.MemberByID("m1")
	assert.True(t, ok)
}

func TestUploadAttachmentMissingBucket(t *testing.T) {
	app, gw := testApp(t)
	gw.uploadErr = gateway.ErrBucketNotFound

	router := gin.New()
	router.POST("/tasks/:id/attachments", asMember(app, "m1"), app.handleUploadAttachment)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	fw.Write([]byte("data"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/tasks/t1/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), gateway.DefaultBucket)
}

func TestUploadAttachmentAppendsToTask(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.POST("/tasks/:id/attachments", asMember(app, "m1"), app.handleUploadAttachment)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	fw.Write([]byte("data"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/tasks/t1/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	task, _ := app.store.TaskByID("t1")
	require.Len(t, task.Attachments, 1)
	assert.Equal(t, "photo.png", task.Attachments[0].Name)
}

func TestMyNotificationsFiltersByRecipient(t *testing.T) {
	app, _ := testApp(t)
	require.NoError(t, app.store.AddNotification(context.Background(), models.Notification{ID: "n1", UserID: "m1"}))
	require.NoError(t, app.store.AddNotification(context.Background(), models.Notification{ID: "n2", UserID: "m2"}))

	router := gin.New()
	router.GET("/notifications", asMember(app, "m2"), app.handleMyNotifications)

	w := perform(router, http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var feed []models.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "n2", feed[0].ID)
}
