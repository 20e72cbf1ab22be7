package gateway

import "taskflow/internal/models"

/*
* Wire records mirror the collection store's snake_case column layout.
* The mapping to the camelCase entity shape is lossless in both directions,
* with one exception: the pomodoro session counter is never included when a
* full task record is written. The backend schema rejected the column on
* writes, so the counter travels exclusively through UpdateTaskField.
 */

type memberRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url"`
}

func memberToWire(m models.TeamMember) memberRecord {
	return memberRecord{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		Role:      string(m.Role),
		AvatarURL: m.AvatarURL,
	}
}

func memberFromWire(r memberRecord) models.TeamMember {
	return models.TeamMember{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Role:      models.Role(r.Role),
		AvatarURL: r.AvatarURL,
	}
}

type projectRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	LeadID      *string  `json:"lead_id"`
	MemberIDs   []string `json:"member_ids"`
	StartDate   string   `json:"start_date"`
	DueDate     string   `json:"due_date"`
	Budget      float64  `json:"budget"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func projectToWire(p models.Project) projectRecord {
	return projectRecord{
		ID:          p.ID,
		Name:        p.Name,
		Status:      string(p.Status),
		LeadID:      emptyToNull(p.LeadID),
		MemberIDs:   orEmptySlice(p.MemberIDs),
		StartDate:   p.StartDate,
		DueDate:     p.DueDate,
		Budget:      p.Budget,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func projectFromWire(r projectRecord) models.Project {
	return models.Project{
		ID:          r.ID,
		Name:        r.Name,
		Status:      models.ProjectStatus(r.Status),
		LeadID:      nullToEmpty(r.LeadID),
		MemberIDs:   orEmptySlice(r.MemberIDs),
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
		Budget:      r.Budget,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type subTaskRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type attachmentRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type commentRecord struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	UserID    string `json:"user_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type taskRecord struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	ProjectID   *string            `json:"project_id"` // null means "no project" on the wire
	Status      string             `json:"status"`
	AssigneeIDs []string           `json:"assignee_ids"`
	Priority    string             `json:"priority"`
	DueDate     string             `json:"due_date"`
	Tags        []string           `json:"tags"`
	Checklist   []subTaskRecord    `json:"checklist"`
	Attachments []attachmentRecord `json:"attachments"`
	Comments    []commentRecord    `json:"comments"`
	Notes       string             `json:"notes"`

	// Only ever populated when reading. Full task writes leave it nil so the
	// field stays out of the payload.
	PomodoroSessions *int `json:"pomodoro_sessions,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func taskToWire(t models.Task) taskRecord {
	checklist := make([]subTaskRecord, 0, len(t.Checklist))
	for _, s := range t.Checklist {
		checklist = append(checklist, subTaskRecord{ID: s.ID, Title: s.Title, Completed: s.Completed})
	}

	attachments := make([]attachmentRecord, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		attachments = append(attachments, attachmentRecord{ID: a.ID, Name: a.Name, URL: a.URL, Type: string(a.Type)})
	}

	comments := make([]commentRecord, 0, len(t.Comments))
	for _, c := range t.Comments {
		comments = append(comments, commentRecord{ID: c.ID, TaskID: c.TaskID, UserID: c.UserID, Text: c.Text, CreatedAt: c.CreatedAt})
	}

	return taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		ProjectID:   emptyToNull(t.ProjectID),
		Status:      string(t.Status),
		AssigneeIDs: orEmptySlice(t.AssigneeIDs),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Tags:        orEmptySlice(t.Tags),
		Checklist:   checklist,
		Attachments: attachments,
		Comments:    comments,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func taskFromWire(r taskRecord) models.Task {
	checklist := make([]models.SubTask, 0, len(r.Checklist))
	for _, s := range r.Checklist {
		checklist = append(checklist, models.SubTask{ID: s.ID, Title: s.Title, Completed: s.Completed})
	}

	attachments := make([]models.Attachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		attachments = append(attachments, models.Attachment{ID: a.ID, Name: a.Name, URL: a.URL, Type: models.AttachmentType(a.Type)})
	}

	comments := make([]models.Comment, 0, len(r.Comments))
	for _, c := range r.Comments {
		comments = append(comments, models.Comment{ID: c.ID, TaskID: c.TaskID, UserID: c.UserID, Text: c.Text, CreatedAt: c.CreatedAt})
	}

	sessions := 0
	if r.PomodoroSessions != nil {
		sessions = *r.PomodoroSessions
	}

	return models.Task{
		ID:               r.ID,
		Title:            r.Title,
		ProjectID:        nullToEmpty(r.ProjectID),
		Status:           models.TaskStatus(r.Status),
		AssigneeIDs:      orEmptySlice(r.AssigneeIDs),
		Priority:         models.Priority(r.Priority),
		DueDate:          r.DueDate,
		Tags:             orEmptySlice(r.Tags),
		Checklist:        checklist,
		Attachments:      attachments,
		Comments:         comments,
		Notes:            r.Notes,
		PomodoroSessions: sessions,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

type notificationRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Link      string `json:"link"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func notificationToWire(n models.Notification) notificationRecord {
	return notificationRecord{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func notificationFromWire(r notificationRecord) models.Notification {
	return models.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      models.NotificationType(r.Type),
		Message:   r.Message,
		Link:      r.Link,
		IsRead:    r.IsRead,
		CreatedAt: r.CreatedAt,
	}
}

// emptyToNull converts the in-memory "no reference" empty string into a wire
// null, which the store's foreign keys require.
func emptyToNull(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func nullToEmpty(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
