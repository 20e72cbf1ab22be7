// Package mentions implements the side-effect pipeline attached to comment
// posting: detecting @Name tokens in comment text, resolving them to team
// members, and building the notification records that go back through the
// store. It also produces the ASSIGNED notifications emitted when a task
// update adds assignees.
package mentions

import (
	"fmt"
	"regexp"
	"strings"

	"taskflow/internal/models"
	"taskflow/internal/utils"
)

// DetectMentions returns the members whose full display name appears in the
// text as an @Name token bounded by a word boundary, case-insensitively.
// Partial-name matches are not mentions: "@Jane" never satisfies a member
// named "Jane Doe". The author is never considered mentioned, and each member
// appears at most once regardless of how often they are named.
func DetectMentions(text string, members []models.TeamMember, authorID string) []models.TeamMember {
	mentioned := make([]models.TeamMember, 0, 2)

	for _, member := range members {
		if member.ID == authorID {
			continue
		}

		name := strings.TrimSpace(member.Name)
		if name == "" {
			continue
		}

		pattern, err := regexp.Compile(`(?i)@` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			continue
		}

		if pattern.MatchString(text) {
			mentioned = append(mentioned, member)
		}
	}

	return mentioned
}

// MentionNotifications builds one MENTION notification per member mentioned in
// the comment, with the pre-rendered message and a link to the task's detail
// view.
func MentionNotifications(comment models.Comment, task models.Task, author models.TeamMember, members []models.TeamMember) []models.Notification {
	return utils.Map(DetectMentions(comment.Text, members, author.ID), func(m models.TeamMember) models.Notification {
		return models.Notification{
			ID:        models.NewID(),
			UserID:    m.ID,
			Type:      models.NotificationMention,
			Message:   fmt.Sprintf("%s mentioned you in %q", author.Name, task.Title),
			Link:      "/tasks/" + task.ID,
			IsRead:    false,
			CreatedAt: models.NowISO(),
		}
	})
}

// AssignmentNotifications builds one ASSIGNED notification per member newly
// present in the task's assignee set. The actor performing the assignment is
// not notified about themself.
func AssignmentNotifications(before, after []string, task models.Task, actor models.TeamMember) []models.Notification {
	added := utils.Filter(after, func(id string) bool {
		return id != actor.ID && !utils.Contains(before, id)
	})

	return utils.Map(added, func(id string) models.Notification {
		return models.Notification{
			ID:        models.NewID(),
			UserID:    id,
			Type:      models.NotificationAssigned,
			Message:   fmt.Sprintf("%s assigned you to %q", actor.Name, task.Title),
			Link:      "/tasks/" + task.ID,
			IsRead:    false,
			CreatedAt: models.NowISO(),
		}
	})
}

// Segment is a piece of comment text for rendering: either plain text or a
// mention token to highlight.
type Segment struct {
	Text    string `json:"text"`
	Mention bool   `json:"mention"`
}

var mentionToken = regexp.MustCompile(`@[\p{L} ]+`)

// Segments splits comment text into plain and mention segments. The token rule
// ("@" followed by letters and spaces) is deliberately at least as greedy as
// the detector's boundary rule, so every string DetectMentions treats as a
// mention ends up highlighted.
func Segments(text string) []Segment {
	out := make([]Segment, 0, 4)
	last := 0

	for _, loc := range mentionToken.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: text[last:loc[0]]})
		}
		out = append(out, Segment{Text: text[loc[0]:loc[1]], Mention: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}

	return out
}
