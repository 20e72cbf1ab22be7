// Package models holds the shared entity vocabulary for every taskflow
// component: the four top-level collections (team members, projects, tasks,
// notifications) and the records nested inside tasks.
//
// All ids are opaque strings and all timestamps are ISO-8601 strings, matching
// the wire contract of the collection store.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "Planning"
	ProjectActive    ProjectStatus = "Active"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectArchived  ProjectStatus = "Archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived:
		return true
	}

	return false
}

type TaskStatus string

const (
	TaskBacklog  TaskStatus = "Backlog"
	TaskTodo     TaskStatus = "Todo"
	TaskDoing    TaskStatus = "Doing"
	TaskReview   TaskStatus = "Review"
	TaskDone     TaskStatus = "Done"
	TaskArchived TaskStatus = "Archived"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskBacklog, TaskTodo, TaskDoing, TaskReview, TaskDone, TaskArchived:
		return true
	}

	return false
}

// BoardStatuses lists every task status shown on the kanban board, in column
// order. Archived is deliberately absent.
func BoardStatuses() []TaskStatus {
	return []TaskStatus{TaskBacklog, TaskTodo, TaskDoing, TaskReview, TaskDone}
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}

	return false
}

type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
	RoleGuest  Role = "Guest"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleGuest:
		return true
	}

	return false
}

type NotificationType string

const (
	NotificationMention  NotificationType = "MENTION"
	NotificationAssigned NotificationType = "ASSIGNED"
)

type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
)

// AttachmentTypeFor derives the attachment kind from the uploaded content's
// media type.
func AttachmentTypeFor(contentType string) AttachmentType {
	if strings.HasPrefix(contentType, "image/") {
		return AttachmentImage
	}

	return AttachmentFile
}

type TeamMember struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	LeadID      string        `json:"leadId,omitempty"`
	MemberIDs   []string      `json:"memberIds"`
	StartDate   string        `json:"startDate"`
	DueDate     string        `json:"dueDate"`
	Budget      float64       `json:"budget"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

type SubTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Attachment struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	URL  string         `json:"url"`
	Type AttachmentType `json:"type"`
}

type Comment struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ProjectID string     `json:"projectId"` // empty string means "no project"
	Status    TaskStatus `json:"status"`
	Priority  Priority   `json:"priority"`

	AssigneeIDs []string     `json:"assigneeIds"`
	DueDate     string       `json:"dueDate"`
	Tags        []string     `json:"tags"`
	Checklist   []SubTask    `json:"checklist"`
	Attachments []Attachment `json:"attachments"`
	Comments    []Comment    `json:"comments"`

	Notes            string `json:"notes"`
	PomodoroSessions int    `json:"pomodoroSessions"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"` // recipient
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Link      string           `json:"link"`
	IsRead    bool             `json:"isRead"`
	CreatedAt string           `json:"createdAt"`
}

// NewID returns a fresh opaque identifier for any entity.
func NewID() string {
	return uuid.NewString()
}

// NowISO returns the current UTC time as an ISO-8601 string, the timestamp
// format used everywhere in the data model.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (m TeamMember) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("member name cannot be empty")
	}
	if strings.TrimSpace(m.Email) == "" {
		return fmt.Errorf("member email cannot be empty")
	}
	if !m.Role.Valid() {
		return fmt.Errorf("invalid role: %q", m.Role)
	}

	return nil
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid project status: %q", p.Status)
	}
	if p.Budget < 0 {
		return fmt.Errorf("budget cannot be negative")
	}

	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid task status: %q", t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid priority: %q", t.Priority)
	}
	if t.PomodoroSessions < 0 {
		return fmt.Errorf("pomodoro session count cannot be negative")
	}

	return nil
}
