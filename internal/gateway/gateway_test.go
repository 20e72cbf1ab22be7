package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
)

// recordedRequest captures one request the test server saw.
type recordedRequest struct {
	method string
	path   string
	body   []byte
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]recordedRequest) {
	t.Helper()

	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{method: r.Method, path: r.URL.Path, body: body})
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/store/v1", srv.URL+"/storage/v1")

	return c, &seen
}

func TestGetTasksMapsWireShape(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{
			"id": "t1",
			"title": "Design mockups",
			"project_id": null,
			"status": "Todo",
			"assignee_ids": ["m1"],
			"priority": "High",
			"due_date": "2026-03-15",
			"tags": null,
			"checklist": [{"id": "s1", "title": "wireframes", "completed": true}],
			"attachments": [],
			"comments": [{"id": "c1", "task_id": "t1", "user_id": "m1", "text": "hi", "created_at": "2026-01-01T00:00:00Z"}],
			"notes": "",
			"pomodoro_sessions": 3,
			"created_at": "2026-01-01T00:00:00Z",
			"updated_at": "2026-01-02T00:00:00Z"
		}]`)
	})

	tasks, err := c.GetTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, "", got.ProjectID, "wire null becomes an empty string")
	assert.Equal(t, models.TaskTodo, got.Status)
	assert.Equal(t, []string{}, got.Tags, "wire null becomes an empty slice")
	assert.Equal(t, 3, got.PomodoroSessions)
	require.Len(t, got.Checklist, 1)
	assert.True(t, got.Checklist[0].Completed)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "m1", got.Comments[0].UserID)
}

func TestCreateTaskOmitsSessionCounter(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	task := models.Task{
		ID:               "t1",
		Title:            "Design mockups",
		ProjectID:        "p1",
		Status:           models.TaskTodo,
		Priority:         models.PriorityHigh,
		PomodoroSessions: 7,
	}
	require.NoError(t, c.CreateTask(context.Background(), task))

	require.Len(t, *seen, 1)
	var payload map[string]any
	require.NoError(t, json.Unmarshal((*seen)[0].body, &payload))

	_, present := payload["pomodoro_sessions"]
	assert.False(t, present, "full task writes never carry the session counter")
	assert.Equal(t, "p1", payload["project_id"])
}

func TestCreateTaskSendsNullProject(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	task := models.Task{ID: "t1", Title: "Chore", Status: models.TaskBacklog, Priority: models.PriorityLow}
	require.NoError(t, c.CreateTask(context.Background(), task))

	var payload map[string]any
	require.NoError(t, json.Unmarshal((*seen)[0].body, &payload))
	assert.Nil(t, payload["project_id"])
	assert.Equal(t, []any{}, payload["assignee_ids"], "nil slices serialize as empty arrays, not null")
}

func TestUpdateTaskFieldSendsSingleColumnPatch(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.UpdateTaskField(context.Background(), "t1", "pomodoro_sessions", 4))

	require.Len(t, *seen, 1)
	assert.Equal(t, http.MethodPatch, (*seen)[0].method)
	assert.Equal(t, "/store/v1/tasks/t1", (*seen)[0].path)

	var payload map[string]any
	require.NoError(t, json.Unmarshal((*seen)[0].body, &payload))
	assert.Len(t, payload, 1)
	assert.EqualValues(t, 4, payload["pomodoro_sessions"])
}

func TestMarkNotificationRead(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.MarkNotificationRead(context.Background(), "n1"))

	require.Len(t, *seen, 1)
	assert.Equal(t, http.MethodPatch, (*seen)[0].method)
	assert.JSONEq(t, `{"is_read": true}`, string((*seen)[0].body))
}

func TestDoJSONSurfacesErrorBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error":"duplicate"}`)
	})

	err := c.CreateProject(context.Background(), models.Project{ID: "p1", Name: "X", Status: models.ProjectPlanning})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "duplicate")
}

func TestUploadFileHappyPath(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	url, err := c.UploadFile(context.Background(), "my photo.png", "image/png", []byte("data"), "task-attachments")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.True(t, strings.HasPrefix((*seen)[0].path, "/storage/v1/object/task-attachments/"))
	assert.NotContains(t, (*seen)[0].path, " ", "object names are sanitized")
	assert.Contains(t, url, "/storage/v1/object/public/task-attachments/")
	assert.True(t, strings.HasSuffix(url, "my_photo.png"))
}

func TestUploadFileAutoCreatesMissingBucket(t *testing.T) {
	uploads := 0
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/storage/v1/bucket") {
			w.WriteHeader(http.StatusCreated)

			return
		}
		uploads++
		if uploads == 1 {
			w.WriteHeader(http.StatusNotFound)

			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	url, err := c.UploadFile(context.Background(), "doc.pdf", "application/pdf", []byte("data"), "")
	require.NoError(t, err)
	assert.Contains(t, url, "/object/public/"+DefaultBucket+"/")

	// first put 404s, then the bucket is created, then the put is retried
	require.Len(t, *seen, 3)
	assert.Equal(t, "/storage/v1/bucket", (*seen)[1].path)

	var payload map[string]any
	require.NoError(t, json.Unmarshal((*seen)[1].body, &payload))
	assert.Equal(t, DefaultBucket, payload["name"])
	assert.Equal(t, true, payload["public"])
}

func TestUploadFileBucketCreationRefused(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/storage/v1/bucket") {
			w.WriteHeader(http.StatusForbidden)

			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.UploadFile(context.Background(), "doc.pdf", "application/pdf", []byte("data"), "missing")
	assert.ErrorIs(t, err, ErrBucketNotFound)
}

func TestGetMembersRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"m1","name":"Jane Doe","email":"jane@acme.io","password":"hunter2","role":"Admin","avatar_url":"https://cdn/avatar.png"}]`)
	})

	members, err := c.GetMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.RoleAdmin, members[0].Role)
	assert.Equal(t, "https://cdn/avatar.png", members[0].AvatarURL)
}

func TestProjectLeadNullRoundTrip(t *testing.T) {
	c, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	p := models.Project{ID: "p1", Name: "X", Status: models.ProjectPlanning}
	require.NoError(t, c.CreateProject(context.Background(), p))

	var payload map[string]any
	require.NoError(t, json.Unmarshal((*seen)[0].body, &payload))
	assert.Nil(t, payload["lead_id"], "an unset lead is a wire null")
	assert.Equal(t, []any{}, payload["member_ids"])
}
