package front

import (
	"taskflow/internal/mentions"
	"taskflow/internal/models"
	"taskflow/internal/pomodoro"
	"taskflow/internal/views"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// MemberVM is the member shape handed to the browser: everything but the
// password.
type MemberVM struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	AvatarURL string      `json:"avatarUrl"`
}

func toMemberVM(m models.TeamMember) MemberVM {
	return MemberVM{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role,
		AvatarURL: m.AvatarURL,
	}
}

// ProjectQuery carries the projects filter bar state.
type ProjectQuery struct {
	Filters []views.ProjectPredicate `json:"filters"`
	Match   views.Mode               `json:"match"`
}

// TaskQuery carries the tasks filter bar state. View selects the derived
// shape: KANBAN responds with board columns, anything else with a flat list.
type TaskQuery struct {
	Filters []views.TaskPredicate `json:"filters"`
	Match   views.Mode            `json:"match"`
	View    string                `json:"view"`
}

type BoardColumn struct {
	Status models.TaskStatus `json:"status"`
	Tasks  []models.Task     `json:"tasks"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentVM pairs a comment with its display segmentation so mentions get
// highlighted exactly where the detector saw them.
type CommentVM struct {
	models.Comment
	Segments []mentions.Segment `json:"segments"`
}

type TimerCompleteRequest struct {
	Mode  pomodoro.Mode `json:"mode" binding:"required,oneof=FOCUS SHORT LONG"`
	Sound bool          `json:"sound"`
}
