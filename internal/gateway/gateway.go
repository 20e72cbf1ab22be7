// Package gateway is the thin REST client for the remote collection store.
// It owns the translation between the in-memory entity shape and the wire
// shape, and nothing else: no caching, no retries beyond the single
// bucket-autocreate retry on upload.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"taskflow/internal/models"
)

// ErrBucketNotFound is reported when an upload's destination bucket does not
// exist and could not be auto-created. Callers surface a configuration remedy
// instead of a generic failure.
var ErrBucketNotFound = errors.New("bucket not found")

// DefaultBucket is where task attachments live unless a caller says otherwise.
const DefaultBucket = "task-attachments"

type Client struct {
	StoreBase   string // e.g. http://localhost:5030/store/v1
	StorageBase string // e.g. http://localhost:5030/storage/v1
	HTTP        *http.Client
}

func NewClient(storeBase, storageBase string) *Client {
	return &Client{
		StoreBase:   storeBase,
		StorageBase: storageBase,
		HTTP:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("collection store %s %s -> %d: %s", method, url, resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// --- members ---

func (c *Client) GetMembers(ctx context.Context) ([]models.TeamMember, error) {
	var records []memberRecord
	if err := c.doJSON(ctx, http.MethodGet, c.StoreBase+"/team_members", nil, &records); err != nil {
		return nil, err
	}

	out := make([]models.TeamMember, 0, len(records))
	for _, r := range records {
		out = append(out, memberFromWire(r))
	}

	return out, nil
}

func (c *Client) CreateMember(ctx context.Context, m models.TeamMember) error {
	return c.doJSON(ctx, http.MethodPost, c.StoreBase+"/team_members", memberToWire(m), nil)
}

func (c *Client) UpdateMember(ctx context.Context, m models.TeamMember) error {
	return c.doJSON(ctx, http.MethodPut, c.StoreBase+"/team_members/"+m.ID, memberToWire(m), nil)
}

func (c *Client) DeleteMember(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.StoreBase+"/team_members/"+id, nil, nil)
}

// --- projects ---

func (c *Client) GetProjects(ctx context.Context) ([]models.Project, error) {
	var records []projectRecord
	if err := c.doJSON(ctx, http.MethodGet, c.StoreBase+"/projects", nil, &records); err != nil {
		return nil, err
	}

	out := make([]models.Project, 0, len(records))
	for _, r := range records {
		out = append(out, projectFromWire(r))
	}

	return out, nil
}

func (c *Client) CreateProject(ctx context.Context, p models.Project) error {
	return c.doJSON(ctx, http.MethodPost, c.StoreBase+"/projects", projectToWire(p), nil)
}

func (c *Client) UpdateProject(ctx context.Context, p models.Project) error {
	return c.doJSON(ctx, http.MethodPut, c.StoreBase+"/projects/"+p.ID, projectToWire(p), nil)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.StoreBase+"/projects/"+id, nil, nil)
}

// --- tasks ---

func (c *Client) GetTasks(ctx context.Context) ([]models.Task, error) {
	var records []taskRecord
	if err := c.doJSON(ctx, http.MethodGet, c.StoreBase+"/tasks", nil, &records); err != nil {
		return nil, err
	}

	out := make([]models.Task, 0, len(records))
	for _, r := range records {
		out = append(out, taskFromWire(r))
	}

	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, t models.Task) error {
	return c.doJSON(ctx, http.MethodPost, c.StoreBase+"/tasks", taskToWire(t), nil)
}

func (c *Client) UpdateTask(ctx context.Context, t models.Task) error {
	return c.doJSON(ctx, http.MethodPut, c.StoreBase+"/tasks/"+t.ID, taskToWire(t), nil)
}

// UpdateTaskField writes a single wire column of one task, leaving every other
// field untouched. This is the only write path for pomodoro_sessions.
func (c *Client) UpdateTaskField(ctx context.Context, taskID, field string, value any) error {
	patch := map[string]any{field: value}

	return c.doJSON(ctx, http.MethodPatch, c.StoreBase+"/tasks/"+taskID, patch, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.StoreBase+"/tasks/"+id, nil, nil)
}

// --- notifications ---

func (c *Client) GetNotifications(ctx context.Context) ([]models.Notification, error) {
	var records []notificationRecord
	if err := c.doJSON(ctx, http.MethodGet, c.StoreBase+"/notifications", nil, &records); err != nil {
		return nil, err
	}

	out := make([]models.Notification, 0, len(records))
	for _, r := range records {
		out = append(out, notificationFromWire(r))
	}

	return out, nil
}

func (c *Client) CreateNotification(ctx context.Context, n models.Notification) error {
	return c.doJSON(ctx, http.MethodPost, c.StoreBase+"/notifications", notificationToWire(n), nil)
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	patch := map[string]any{"is_read": true}

	return c.doJSON(ctx, http.MethodPatch, c.StoreBase+"/notifications/"+id, patch, nil)
}

// --- storage ---

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// objectName builds a collision-resistant object name from the original file
// name: millisecond timestamp prefix plus the sanitized original.
func objectName(name string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), unsafeNameChars.ReplaceAllString(name, "_"))
}

// UploadFile stores a binary object in the given bucket and returns its public
// URL. A missing bucket is auto-created as public and the upload retried once;
// if creation is refused the distinguished ErrBucketNotFound comes back.
func (c *Client) UploadFile(ctx context.Context, name, contentType string, data []byte, bucket string) (string, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	objName := objectName(name)

	status, err := c.putObject(ctx, bucket, objName, contentType, data)
	if status == http.StatusNotFound {
		log.Printf("bucket %q not found, attempting to auto-create", bucket)

		if cerr := c.createBucket(ctx, bucket); cerr != nil {
			log.Printf("failed to auto-create bucket %q: %v", bucket, cerr)

			return "", ErrBucketNotFound
		}

		status, err = c.putObject(ctx, bucket, objName, contentType, data)
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/object/public/%s/%s", c.StorageBase, bucket, objName), nil
}

func (c *Client) putObject(ctx context.Context, bucket, name, contentType string, data []byte) (int, error) {
	url := fmt.Sprintf("%s/object/%s/%s", c.StorageBase, bucket, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)

		return resp.StatusCode, fmt.Errorf("storage upload %s -> %d: %s", url, resp.StatusCode, string(b))
	}

	return resp.StatusCode, nil
}

func (c *Client) createBucket(ctx context.Context, bucket string) error {
	payload := map[string]any{"name": bucket, "public": true}

	return c.doJSON(ctx, http.MethodPost, c.StorageBase+"/bucket", payload, nil)
}
