package mentions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
)

var team = []models.TeamMember{
	{ID: "m1", Name: "Jane Doe"},
	{ID: "m2", Name: "Jane"},
	{ID: "m3", Name: "John Smith"},
}

func TestDetectMentionsFullNameAndPrefixName(t *testing.T) {
	got := DetectMentions("Great work @Jane Doe and @Jane", team, "author")

	// "@Jane Doe" names m1; the same token also contains "@Jane" with a word
	// boundary after it, and the trailing "@Jane" names m2 again
	require.Len(t, got, 2)
	ids := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{"m1", "m2"}, ids)
}

func TestDetectMentionsPartialNameIsNotAMention(t *testing.T) {
	got := DetectMentions("ping @John about this", team, "author")

	assert.Empty(t, got, "\"@John\" must not satisfy the member named \"John Smith\"")
}

func TestDetectMentionsCaseInsensitive(t *testing.T) {
	got := DetectMentions("thanks @jane doe!", team, "author")

	require.Len(t, got, 2)
}

func TestDetectMentionsSkipsAuthor(t *testing.T) {
	got := DetectMentions("note to self @Jane Doe", team, "m1")

	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)
}

func TestDetectMentionsDeduplicates(t *testing.T) {
	got := DetectMentions("@John Smith @John Smith @John Smith", team, "author")

	require.Len(t, got, 1)
	assert.Equal(t, "m3", got[0].ID)
}

func TestDetectMentionsEmptyNameNeverMatches(t *testing.T) {
	members := append(team, models.TeamMember{ID: "m4", Name: "  "})

	got := DetectMentions("hello @ everyone", members, "author")
	assert.Empty(t, got)
}

func TestMentionNotifications(t *testing.T) {
	task := models.Task{ID: "t1", Title: "Launch checklist"}
	author := models.TeamMember{ID: "m3", Name: "John Smith"}
	comment := models.Comment{Text: "@Jane Doe please review"}

	got := MentionNotifications(comment, task, author, team)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].UserID)
	assert.Equal(t, models.NotificationMention, got[0].Type)
	assert.Equal(t, `John Smith mentioned you in "Launch checklist"`, got[0].Message)
	assert.Equal(t, "/tasks/t1", got[0].Link)
	assert.False(t, got[0].IsRead)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEmpty(t, got[0].CreatedAt)
}

func TestAssignmentNotificationsOnlyForNewAssignees(t *testing.T) {
	task := models.Task{ID: "t1", Title: "Launch checklist"}
	actor := models.TeamMember{ID: "m1", Name: "Jane Doe"}

	got := AssignmentNotifications([]string{"m2"}, []string{"m1", "m2", "m3"}, task, actor)

	// m2 was already assigned, m1 is the actor, only m3 is notified
	require.Len(t, got, 1)
	assert.Equal(t, "m3", got[0].UserID)
	assert.Equal(t, models.NotificationAssigned, got[0].Type)
	assert.Equal(t, `Jane Doe assigned you to "Launch checklist"`, got[0].Message)
}

func TestAssignmentNotificationsNoChanges(t *testing.T) {
	task := models.Task{ID: "t1"}
	actor := models.TeamMember{ID: "m1"}

	assert.Empty(t, AssignmentNotifications([]string{"m2"}, []string{"m2"}, task, actor))
	assert.Empty(t, AssignmentNotifications(nil, nil, task, actor))
}

func TestSegments(t *testing.T) {
	got := Segments("Great work @Jane Doe and thanks")

	require.Len(t, got, 2)
	assert.Equal(t, Segment{Text: "Great work "}, got[0])
	assert.True(t, got[1].Mention)
	assert.Equal(t, "@Jane Doe and thanks", got[1].Text)
}

func TestSegmentsPlainTextOnly(t *testing.T) {
	got := Segments("no mentions here")

	require.Len(t, got, 1)
	assert.False(t, got[0].Mention)
}

func TestSegmentsTokenStopsAtPunctuation(t *testing.T) {
	got := Segments("cc @Jane Doe, thanks!")

	require.Len(t, got, 3)
	assert.Equal(t, "cc ", got[0].Text)
	assert.Equal(t, "@Jane Doe", got[1].Text)
	assert.True(t, got[1].Mention)
	assert.Equal(t, ", thanks!", got[2].Text)
}
