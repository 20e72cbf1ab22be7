package collections

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func ListMembers(ctx context.Context) ([]MemberRow, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, name, email, COALESCE(password,''), role, COALESCE(avatar_url,'')
		FROM team_members
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MemberRow, 0, 16)
	for rows.Next() {
		var m MemberRow
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Password, &m.Role, &m.AvatarURL); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func InsertMember(ctx context.Context, m MemberRow) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO team_members (id, name, email, password, role, avatar_url)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, m.ID, m.Name, m.Email, m.Password, m.Role, m.AvatarURL)

	return err
}

func UpdateMember(ctx context.Context, m MemberRow) error {
	ct, err := pool.Exec(ctx, `
		UPDATE team_members SET name=$2, email=$3, password=$4, role=$5, avatar_url=$6
		WHERE id=$1
	`, m.ID, m.Name, m.Email, m.Password, m.Role, m.AvatarURL)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func DeleteMember(ctx context.Context, id string) error {
	ct, err := pool.Exec(ctx, `DELETE FROM team_members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func ListProjects(ctx context.Context) ([]ProjectRow, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, name, status, lead_id, COALESCE(member_ids,'[]'::jsonb),
		       COALESCE(start_date,''), COALESCE(due_date,''), budget,
		       COALESCE(description,''), created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProjectRow, 0, 16)
	for rows.Next() {
		var p ProjectRow
		var memberIDs []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.LeadID, &memberIDs,
			&p.StartDate, &p.DueDate, &p.Budget, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.MemberIDs = json.RawMessage(memberIDs)
		out = append(out, p)
	}

	return out, rows.Err()
}

func InsertProject(ctx context.Context, p ProjectRow) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO projects (id, name, status, lead_id, member_ids, start_date, due_date, budget, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, p.ID, p.Name, p.Status, p.LeadID, orEmptyJSON(p.MemberIDs),
		p.StartDate, p.DueDate, p.Budget, p.Description, p.CreatedAt, p.UpdatedAt)

	return err
}

func UpdateProject(ctx context.Context, p ProjectRow) error {
	ct, err := pool.Exec(ctx, `
		UPDATE projects
		SET name=$2, status=$3, lead_id=$4, member_ids=$5, start_date=$6, due_date=$7,
		    budget=$8, description=$9, created_at=$10, updated_at=$11
		WHERE id=$1
	`, p.ID, p.Name, p.Status, p.LeadID, orEmptyJSON(p.MemberIDs),
		p.StartDate, p.DueDate, p.Budget, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func DeleteProject(ctx context.Context, id string) error {
	ct, err := pool.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func ListTasks(ctx context.Context) ([]TaskRow, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, title, project_id, status, COALESCE(assignee_ids,'[]'::jsonb), priority,
		       COALESCE(due_date,''), COALESCE(tags,'[]'::jsonb), COALESCE(checklist,'[]'::jsonb),
		       COALESCE(attachments,'[]'::jsonb), COALESCE(comments,'[]'::jsonb),
		       COALESCE(notes,''), pomodoro_sessions, created_at, updated_at
		FROM tasks
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TaskRow, 0, 32)
	for rows.Next() {
		var t TaskRow
		var assignees, tags, checklist, attachments, comments []byte
		var sessions int
		if err := rows.Scan(&t.ID, &t.Title, &t.ProjectID, &t.Status, &assignees, &t.Priority,
			&t.DueDate, &tags, &checklist, &attachments, &comments,
			&t.Notes, &sessions, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.AssigneeIDs = json.RawMessage(assignees)
		t.Tags = json.RawMessage(tags)
		t.Checklist = json.RawMessage(checklist)
		t.Attachments = json.RawMessage(attachments)
		t.Comments = json.RawMessage(comments)
		t.PomodoroSessions = &sessions
		out = append(out, t)
	}

	return out, rows.Err()
}

func InsertTask(ctx context.Context, t TaskRow) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO tasks (id, title, project_id, status, assignee_ids, priority, due_date,
		                   tags, checklist, attachments, comments, notes, pomodoro_sessions,
		                   created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, t.ID, t.Title, t.ProjectID, t.Status, orEmptyJSON(t.AssigneeIDs), t.Priority, t.DueDate,
		orEmptyJSON(t.Tags), orEmptyJSON(t.Checklist), orEmptyJSON(t.Attachments), orEmptyJSON(t.Comments),
		t.Notes, sessionsOrZero(t.PomodoroSessions), t.CreatedAt, t.UpdatedAt)

	return err
}

// UpdateTask writes every column except pomodoro_sessions, which only moves
// through PatchRow.
func UpdateTask(ctx context.Context, t TaskRow) error {
	ct, err := pool.Exec(ctx, `
		UPDATE tasks
		SET title=$2, project_id=$3, status=$4, assignee_ids=$5, priority=$6, due_date=$7,
		    tags=$8, checklist=$9, attachments=$10, comments=$11, notes=$12,
		    created_at=$13, updated_at=$14
		WHERE id=$1
	`, t.ID, t.Title, t.ProjectID, t.Status, orEmptyJSON(t.AssigneeIDs), t.Priority, t.DueDate,
		orEmptyJSON(t.Tags), orEmptyJSON(t.Checklist), orEmptyJSON(t.Attachments), orEmptyJSON(t.Comments),
		t.Notes, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func DeleteTask(ctx context.Context, id string) error {
	ct, err := pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func ListNotifications(ctx context.Context) ([]NotificationRow, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, user_id, type, COALESCE(message,''), COALESCE(link,''), is_read, created_at
		FROM notifications
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]NotificationRow, 0, 32)
	for rows.Next() {
		var n NotificationRow
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, rows.Err()
}

func InsertNotification(ctx context.Context, n NotificationRow) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, message, link, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, n.ID, n.UserID, n.Type, n.Message, n.Link, n.IsRead, n.CreatedAt)

	return err
}

func DeleteNotification(ctx context.Context, id string) error {
	ct, err := pool.Exec(ctx, `DELETE FROM notifications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// PatchRow updates a single whitelisted column of one row. The column name is
// interpolated, so the whitelist check is the injection guard.
func PatchRow(ctx context.Context, table, id, column string, value any) error {
	allowed, ok := patchableColumns[table]
	if !ok || !allowed[column] {
		return fmt.Errorf("column %q of %q is not patchable", column, table)
	}

	q := fmt.Sprintf("UPDATE %s SET %s=$2 WHERE id=$1", table, column)
	ct, err := pool.Exec(ctx, q, id, value)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func orEmptyJSON(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("[]")
	}

	return raw
}

func sessionsOrZero(n *int) int {
	if n == nil {
		return 0
	}

	return *n
}
