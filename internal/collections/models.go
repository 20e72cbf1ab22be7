package collections

import "encoding/json"

/*
* Row shapes for the four collections, in the store's snake_case convention.
* Nested lists (member ids, checklist, attachments, comments) live in jsonb
* columns and are carried opaquely as raw JSON: the store does not interpret
* them, it only keeps them intact.
 */

type MemberRow struct {
	ID        string `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password"`
	Role      string `json:"role" binding:"required,oneof=Admin Member Guest"`
	AvatarURL string `json:"avatar_url"`
}

type ProjectRow struct {
	ID          string          `json:"id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Status      string          `json:"status" binding:"required,oneof=Planning Active 'On Hold' Completed Archived"`
	LeadID      *string         `json:"lead_id"`
	MemberIDs   json.RawMessage `json:"member_ids"`
	StartDate   string          `json:"start_date"`
	DueDate     string          `json:"due_date"`
	Budget      float64         `json:"budget" binding:"gte=0"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

type TaskRow struct {
	ID          string          `json:"id" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	ProjectID   *string         `json:"project_id"`
	Status      string          `json:"status" binding:"required,oneof=Backlog Todo Doing Review Done Archived"`
	AssigneeIDs json.RawMessage `json:"assignee_ids"`
	Priority    string          `json:"priority" binding:"required,oneof=Low Medium High Urgent"`
	DueDate     string          `json:"due_date"`
	Tags        json.RawMessage `json:"tags"`
	Checklist   json.RawMessage `json:"checklist"`
	Attachments json.RawMessage `json:"attachments"`
	Comments    json.RawMessage `json:"comments"`
	Notes       string          `json:"notes"`

	PomodoroSessions *int `json:"pomodoro_sessions,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type NotificationRow struct {
	ID        string `json:"id" binding:"required"`
	UserID    string `json:"user_id" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=MENTION ASSIGNED"`
	Message   string `json:"message"`
	Link      string `json:"link"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type CreateBucketRequest struct {
	Name   string `json:"name" binding:"required"`
	Public bool   `json:"public"`
}

// patchable columns per collection; anything else in a PATCH body is refused.
var patchableColumns = map[string]map[string]bool{
	"tasks": {
		"title":             true,
		"project_id":        true,
		"status":            true,
		"priority":          true,
		"due_date":          true,
		"notes":             true,
		"pomodoro_sessions": true,
	},
	"notifications": {
		"is_read": true,
	},
}
