package front

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/gateway"
	"taskflow/internal/mentions"
	"taskflow/internal/models"
	"taskflow/internal/pomodoro"
	"taskflow/internal/session"
	"taskflow/internal/store"
	"taskflow/internal/utils"
	"taskflow/internal/views"
)

// Uploader is the storage slice of the gateway the front needs directly.
type Uploader interface {
	UploadFile(ctx context.Context, name, contentType string, data []byte, bucket string) (string, error)
}

// App wires the client state store, identity, and derived-view computation
// behind the HTTP surface. Handlers stay thin: bind, validate, call through,
// respond.
type App struct {
	store    *store.Store
	auth     *session.Authenticator
	guard    *session.Guard
	uploader Uploader
	cfg      Config
}

func NewApp(st *store.Store, auth *session.Authenticator, guard *session.Guard, uploader Uploader, cfg Config) *App {
	return &App{store: st, auth: auth, guard: guard, uploader: uploader, cfg: cfg}
}

// respondStoreError reports a failed mutation. The store already re-synced
// its snapshot; the caller just needs to know the save did not stick.
func respondStoreError(c *gin.Context, err error) {
	c.JSON(http.StatusBadGateway, gin.H{"error": "save failed, changes were not persisted: " + err.Error()})
}

// --- session ---

func (a *App) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot have empty fields"})

		return
	}

	member, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

			return
		}
		log.Printf("login failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not reach the member collection"})

		return
	}

	token, err := session.MintToken([]byte(a.cfg.SessionSecret), member.ID, a.cfg.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session"})

		return
	}

	c.SetCookie(session.CookieName, token, int(a.cfg.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, toMemberVM(member))
}

func (a *App) handleLogout(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *App) handleMe(c *gin.Context) {
	member, ok := session.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})

		return
	}

	c.JSON(http.StatusOK, toMemberVM(member))
}

func (a *App) handleRefresh(c *gin.Context) {
	a.store.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- projects ---

func (a *App) handleQueryProjects(c *gin.Context) {
	var q ProjectQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}

	c.JSON(http.StatusOK, views.FilterProjects(a.store.Projects(), q.Filters, q.Match))
}

func (a *App) handleCreateProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	if p.ID == "" {
		p.ID = models.NewID()
	}
	if p.CreatedAt == "" {
		p.CreatedAt = models.NowISO()
	}
	p.UpdatedAt = models.NowISO()

	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := a.store.AddProject(c.Request.Context(), p); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusCreated, p)
}

func (a *App) handleUpdateProject(c *gin.Context) {
	var p models.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	p.ID = c.Param("id")
	p.UpdatedAt = models.NowISO()

	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := a.store.UpdateProject(c.Request.Context(), p); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusOK, p)
}

func (a *App) handleDeleteProject(c *gin.Context) {
	if err := a.store.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- tasks ---

func (a *App) handleQueryTasks(c *gin.Context) {
	var q TaskQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}

	filtered := views.FilterTasks(a.store.Tasks(), q.Filters, q.Match)

	if q.View == "KANBAN" {
		groups := views.KanbanGroups(filtered)
		columns := utils.Map(models.BoardStatuses(), func(s models.TaskStatus) BoardColumn {
			return BoardColumn{Status: s, Tasks: groups[s]}
		})
		c.JSON(http.StatusOK, gin.H{"columns": columns})

		return
	}

	c.JSON(http.StatusOK, filtered)
}

func (a *App) handleGetTask(c *gin.Context) {
	task, ok := a.store.TaskByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})

		return
	}

	c.JSON(http.StatusOK, task)
}

func (a *App) handleCreateTask(c *gin.Context) {
	var t models.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	if t.ID == "" {
		t.ID = models.NewID()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = models.NowISO()
	}
	t.UpdatedAt = models.NowISO()

	if err := t.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := a.store.AddTask(c.Request.Context(), t); err != nil {
		respondStoreError(c, err)

		return
	}

	actor, _ := session.CurrentMember(c)
	a.emitNotifications(c.Request.Context(), mentions.AssignmentNotifications(nil, t.AssigneeIDs, t, actor))

	c.JSON(http.StatusCreated, t)
}

func (a *App) handleUpdateTask(c *gin.Context) {
	var t models.Task
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	t.ID = c.Param("id")
	t.UpdatedAt = models.NowISO()

	if err := t.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	before, _ := a.store.TaskByID(t.ID)

	if err := a.store.UpdateTask(c.Request.Context(), t); err != nil {
		respondStoreError(c, err)

		return
	}

	actor, _ := session.CurrentMember(c)
	a.emitNotifications(c.Request.Context(), mentions.AssignmentNotifications(before.AssigneeIDs, t.AssigneeIDs, t, actor))

	c.JSON(http.StatusOK, t)
}

func (a *App) handleDeleteTask(c *gin.Context) {
	if err := a.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- comments & mentions ---

func (a *App) handleListComments(c *gin.Context) {
	task, ok := a.store.TaskByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})

		return
	}

	out := utils.Map(task.Comments, func(cm models.Comment) CommentVM {
		return CommentVM{Comment: cm, Segments: mentions.Segments(cm.Text)}
	})

	c.JSON(http.StatusOK, out)
}

// handlePostComment appends the comment to the task's comment list, persists
// the task, and feeds the text through the mention pipeline.
func (a *App) handlePostComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text cannot be empty"})

		return
	}

	task, ok := a.store.TaskByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})

		return
	}

	author, ok := session.CurrentMember(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})

		return
	}

	comment := models.Comment{
		ID:        models.NewID(),
		TaskID:    task.ID,
		UserID:    author.ID,
		Text:      req.Text,
		CreatedAt: models.NowISO(),
	}

	task.Comments = append(task.Comments, comment)
	task.UpdatedAt = models.NowISO()

	if err := a.store.UpdateTask(c.Request.Context(), task); err != nil {
		respondStoreError(c, err)

		return
	}

	a.emitNotifications(c.Request.Context(), mentions.MentionNotifications(comment, task, author, a.store.Members()))

	c.JSON(http.StatusCreated, CommentVM{Comment: comment, Segments: mentions.Segments(comment.Text)})
}

// emitNotifications pushes pipeline output through the store. A failed
// notification never fails the mutation that produced it.
func (a *App) emitNotifications(ctx context.Context, notifications []models.Notification) {
	for _, n := range notifications {
		if err := a.store.AddNotification(ctx, n); err != nil {
			log.Printf("failed to deliver notification to %s: %v", n.UserID, err)
		}
	}
}

// --- attachments ---

func (a *App) handleUploadAttachment(c *gin.Context) {
	task, ok := a.store.TaskByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})

		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})

		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})

		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})

		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := a.uploader.UploadFile(c.Request.Context(), fileHeader.Filename, contentType, data, gateway.DefaultBucket)
	if err != nil {
		if errors.Is(err, gateway.ErrBucketNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "storage bucket is missing and could not be created automatically; " +
					"create a public bucket named '" + gateway.DefaultBucket + "' in the storage backend",
			})

			return
		}
		log.Printf("upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})

		return
	}

	attachment := models.Attachment{
		ID:   models.NewID(),
		Name: fileHeader.Filename,
		URL:  url,
		Type: models.AttachmentTypeFor(contentType),
	}

	task.Attachments = append(task.Attachments, attachment)
	task.UpdatedAt = models.NowISO()

	if err := a.store.UpdateTask(c.Request.Context(), task); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// --- focus timer ---

func (a *App) handleCompleteTimer(c *gin.Context) {
	var req TimerCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}

	if _, ok := a.store.TaskByID(c.Param("id")); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})

		return
	}

	recorder := &pomodoro.Recorder{Sessions: a.store, Sound: req.Sound}
	completion := pomodoro.Completion{Mode: req.Mode, CountsSession: req.Mode == pomodoro.ModeFocus}

	sessions, err := recorder.Record(c.Request.Context(), c.Param("id"), completion)
	if err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"pomodoroSessions": sessions})
}

// --- members ---

func (a *App) handleListMembers(c *gin.Context) {
	c.JSON(http.StatusOK, utils.Map(a.store.Members(), toMemberVM))
}

func (a *App) handleCreateMember(c *gin.Context) {
	var m models.TeamMember
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	if m.ID == "" {
		m.ID = models.NewID()
	}

	if err := m.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := a.store.AddMember(c.Request.Context(), m); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusCreated, toMemberVM(m))
}

func (a *App) handleUpdateMember(c *gin.Context) {
	var m models.TeamMember
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	m.ID = c.Param("id")

	if err := m.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := a.store.UpdateMember(c.Request.Context(), m); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusOK, toMemberVM(m))
}

func (a *App) handleDeleteMember(c *gin.Context) {
	actor, _ := session.CurrentMember(c)
	if actor.ID == c.Param("id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot delete your own account"})

		return
	}

	if err := a.store.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- notifications ---

func (a *App) handleMyNotifications(c *gin.Context) {
	member, _ := session.CurrentMember(c)

	mine := utils.Filter(a.store.Notifications(), func(n models.Notification) bool {
		return n.UserID == member.ID
	})

	c.JSON(http.StatusOK, mine)
}

func (a *App) handleMarkNotificationRead(c *gin.Context) {
	if err := a.store.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
