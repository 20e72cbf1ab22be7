// Package store owns the authoritative in-memory snapshot of the four remote
// collections. Every mutation follows the same contract: apply the change to
// the snapshot first, then issue the remote write; if the write fails the
// snapshot is re-synchronized from the store via Refresh and the original
// error is returned to the caller. The snapshot is never left silently
// diverged from confirmed remote state.
package store

import (
	"context"
	"log"
	"sync"

	"taskflow/internal/models"
)

// Gateway is the remote collection store surface the Store depends on.
type Gateway interface {
	GetMembers(ctx context.Context) ([]models.TeamMember, error)
	CreateMember(ctx context.Context, m models.TeamMember) error
	UpdateMember(ctx context.Context, m models.TeamMember) error
	DeleteMember(ctx context.Context, id string) error

	GetProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) error
	UpdateProject(ctx context.Context, p models.Project) error
	DeleteProject(ctx context.Context, id string) error

	GetTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, t models.Task) error
	UpdateTask(ctx context.Context, t models.Task) error
	UpdateTaskField(ctx context.Context, taskID, field string, value any) error
	DeleteTask(ctx context.Context, id string) error

	GetNotifications(ctx context.Context) ([]models.Notification, error)
	CreateNotification(ctx context.Context, n models.Notification) error
	MarkNotificationRead(ctx context.Context, id string) error
}

type Store struct {
	gw Gateway

	mu            sync.RWMutex
	members       []models.TeamMember
	projects      []models.Project
	tasks         []models.Task
	notifications []models.Notification

	memberIdx  map[string]int
	projectIdx map[string]int
	taskIdx    map[string]int
}

func New(gw Gateway) *Store {
	return &Store{
		gw:            gw,
		members:       []models.TeamMember{},
		projects:      []models.Project{},
		tasks:         []models.Task{},
		notifications: []models.Notification{},
		memberIdx:     map[string]int{},
		projectIdx:    map[string]int{},
		taskIdx:       map[string]int{},
	}
}

// Refresh reloads all four collections from the gateway. The fetches run in
// parallel and independently: a failed collection degrades to empty with a
// diagnostic while the others still replace their in-memory counterparts.
// This is the store's only load path, called at startup and as the
// reconciliation fallback after a failed mutation.
func (s *Store) Refresh(ctx context.Context) {
	var (
		wg            sync.WaitGroup
		members       []models.TeamMember
		projects      []models.Project
		tasks         []models.Task
		notifications []models.Notification
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		var err error
		if members, err = s.gw.GetMembers(ctx); err != nil {
			log.Printf("refresh: failed to fetch members: %v", err)
			members = []models.TeamMember{}
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if projects, err = s.gw.GetProjects(ctx); err != nil {
			log.Printf("refresh: failed to fetch projects: %v", err)
			projects = []models.Project{}
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if tasks, err = s.gw.GetTasks(ctx); err != nil {
			log.Printf("refresh: failed to fetch tasks: %v", err)
			tasks = []models.Task{}
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if notifications, err = s.gw.GetNotifications(ctx); err != nil {
			log.Printf("refresh: failed to fetch notifications: %v", err)
			notifications = []models.Notification{}
		}
	}()
	wg.Wait()

	s.mu.Lock()
	s.members = members
	s.projects = projects
	s.tasks = tasks
	s.notifications = notifications
	s.reindex()
	s.mu.Unlock()
}

// reindex rebuilds the id lookup maps. Callers hold the write lock.
func (s *Store) reindex() {
	s.memberIdx = make(map[string]int, len(s.members))
	for i, m := range s.members {
		s.memberIdx[m.ID] = i
	}
	s.projectIdx = make(map[string]int, len(s.projects))
	for i, p := range s.projects {
		s.projectIdx[p.ID] = i
	}
	s.taskIdx = make(map[string]int, len(s.tasks))
	for i, t := range s.tasks {
		s.taskIdx[t.ID] = i
	}
}

// reconcile is the failure branch of every mutation: log, reload the full
// snapshot, hand the original error back to the caller.
func (s *Store) reconcile(ctx context.Context, op string, err error) error {
	log.Printf("store: %s failed, re-syncing snapshot: %v", op, err)
	s.Refresh(ctx)

	return err
}

// --- reads ---

func (s *Store) Members() []models.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TeamMember, len(s.members))
	copy(out, s.members)

	return out
}

func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)

	return out
}

func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)

	return out
}

func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)

	return out
}

func (s *Store) MemberByID(id string) (models.TeamMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.memberIdx[id]
	if !ok {
		return models.TeamMember{}, false
	}

	return s.members[i], true
}

func (s *Store) ProjectByID(id string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.projectIdx[id]
	if !ok {
		return models.Project{}, false
	}

	return s.projects[i], true
}

func (s *Store) TaskByID(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.taskIdx[id]
	if !ok {
		return models.Task{}, false
	}

	return s.tasks[i], true
}

// --- projects ---

func (s *Store) AddProject(ctx context.Context, p models.Project) error {
	s.mu.Lock()
	projects := make([]models.Project, len(s.projects), len(s.projects)+1)
	copy(projects, s.projects)
	s.projects = append(projects, p)
	s.reindex()
	s.mu.Unlock()

	if err := s.gw.CreateProject(ctx, p); err != nil {
		return s.reconcile(ctx, "create project", err)
	}

	return nil
}

func (s *Store) UpdateProject(ctx context.Context, p models.Project) error {
	s.mu.Lock()
	projects := make([]models.Project, len(s.projects))
	copy(projects, s.projects)
	if i, ok := s.projectIdx[p.ID]; ok {
		projects[i] = p
	}
	s.projects = projects
	s.mu.Unlock()

	if err := s.gw.UpdateProject(ctx, p); err != nil {
		return s.reconcile(ctx, "update project", err)
	}

	return nil
}

// DeleteProject removes the project and, in the same snapshot swap, every
// task that referenced it. The task rows themselves are owned by the backend's
// cascade; the in-memory removal keeps the snapshot coherent immediately.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	projects := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if p.ID != id {
			projects = append(projects, p)
		}
	}
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ProjectID != id {
			tasks = append(tasks, t)
		}
	}
	s.projects = projects
	s.tasks = tasks
	s.reindex()
	s.mu.Unlock()

	if err := s.gw.DeleteProject(ctx, id); err != nil {
		return s.reconcile(ctx, "delete project", err)
	}

	return nil
}

// --- tasks ---

func (s *Store) AddTask(ctx context.Context, t models.Task) error {
	s.mu.Lock()
	tasks := make([]models.Task, len(s.tasks), len(s.tasks)+1)
	copy(tasks, s.tasks)
	s.tasks = append(tasks, t)
	s.reindex()
	s.mu.Unlock()

	if err := s.gw.CreateTask(ctx, t); err != nil {
		return s.reconcile(ctx, "create task", err)
	}

	return nil
}

func (s *Store) UpdateTask(ctx context.Context, t models.Task) error {
	s.mu.Lock()
	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	if i, ok := s.taskIdx[t.ID]; ok {
		tasks[i] = t
	}
	s.tasks = tasks
	s.mu.Unlock()

	if err := s.gw.UpdateTask(ctx, t); err != nil {
		return s.reconcile(ctx, "update task", err)
	}

	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	s.tasks = tasks
	s.reindex()
	s.mu.Unlock()

	if err := s.gw.DeleteTask(ctx, id); err != nil {
		return s.reconcile(ctx, "delete task", err)
	}

	return nil
}

// IncrementTaskSessions bumps a task's completed-focus-session counter and
// persists it through the dedicated single-field update, so concurrent edits
// to the rest of the task are never clobbered. Returns the new counter value.
func (s *Store) IncrementTaskSessions(ctx context.Context, taskID string) (int, error) {
	var sessions int

	s.mu.Lock()
	i, ok := s.taskIdx[taskID]
	if !ok {
		s.mu.Unlock()

		return 0, nil
	}
	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	tasks[i].PomodoroSessions++
	sessions = tasks[i].PomodoroSessions
	s.tasks = tasks
	s.mu.Unlock()

	if err := s.gw.UpdateTaskField(ctx, taskID, "pomodoro_sessions", sessions); err != nil {
		return sessions, s.reconcile(ctx, "record focus session", err)
	}

	return sessions, nil
}

// --- members ---

func (s *Store) AddMember(ctx context.Context, m models.TeamMember) error {
	s.mu.Lock()
	members := make([]models.TeamMember, len(s.members), len(s.members)+1)
	copy(members, s.members)
	s.members = append(members, m)
	s.reindex()
	s.mu.Unlock()

	if err := s.gw.CreateMember(ctx, m); err != nil {
		return s.reconcile(ctx, "create member", err)
	}

	return nil
}

func (s *Store) UpdateMember(ctx context.Context, m models.TeamMember) error {
	s.mu.Lock()
	members := make([]models.TeamMember, len(s.members))
	copy(members, s.members)
	if i, ok := s.memberIdx[m.ID]; ok {
		members[i] = m
	}
	s.members = members
	s.mu.Unlock()

	if err := s.gw.UpdateMember(ctx, m); err != nil {
		return s.reconcile(ctx, "update member", err)
	}

	return nil
}

func (s *Store) DeleteMember(ctx context.Context, id string) error {
	s.mu.Lock()
	members := make([]models.TeamMember, 0, len(s.members))
	for _, m := range s.members {
		if m.ID != id {
			members = append(members, m)
		}
	}
	s.members = members
	s.reindex()
	s.mu.Unlock()

	if err := s.gw.DeleteMember(ctx, id); err != nil {
		return s.reconcile(ctx, "delete member", err)
	}

	return nil
}

// --- notifications ---

// AddNotification prepends, so the feed stays newest-first without a sort.
func (s *Store) AddNotification(ctx context.Context, n models.Notification) error {
	s.mu.Lock()
	notifications := make([]models.Notification, 0, len(s.notifications)+1)
	notifications = append(notifications, n)
	notifications = append(notifications, s.notifications...)
	s.notifications = notifications
	s.mu.Unlock()

	if err := s.gw.CreateNotification(ctx, n); err != nil {
		return s.reconcile(ctx, "create notification", err)
	}

	return nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	notifications := make([]models.Notification, len(s.notifications))
	copy(notifications, s.notifications)
	for i := range notifications {
		if notifications[i].ID == id {
			notifications[i].IsRead = true
		}
	}
	s.notifications = notifications
	s.mu.Unlock()

	if err := s.gw.MarkNotificationRead(ctx, id); err != nil {
		return s.reconcile(ctx, "mark notification read", err)
	}

	return nil
}
