// Package views computes the derived working sets the presentation renders:
// multi-predicate filtering over the project and task collections and the
// kanban grouping. Everything here is a pure function over a snapshot.
package views

import (
	"strconv"
	"strings"

	"taskflow/internal/models"
	"taskflow/internal/utils"
)

// Mode selects how per-predicate results combine: ALL is logical AND, ANY is
// logical OR.
type Mode string

const (
	MatchAll Mode = "ALL"
	MatchAny Mode = "ANY"
)

// NumericOp applies to the budget predicate only.
type NumericOp string

const (
	OpEquals      NumericOp = "eq"
	OpGreaterThan NumericOp = "gt"
	OpLessThan    NumericOp = "lt"
)

type ProjectField string

const (
	ProjectByName    ProjectField = "name"
	ProjectByStatus  ProjectField = "status"
	ProjectByBudget  ProjectField = "budget"
	ProjectByDueDate ProjectField = "dueDate"
	ProjectByLead    ProjectField = "lead"
)

// ProjectPredicate is one row of the projects filter bar. A predicate with an
// empty value is vacuously true and never excludes anything.
type ProjectPredicate struct {
	Field ProjectField `json:"field"`
	Op    NumericOp    `json:"operator,omitempty"`
	Value string       `json:"value"`
}

type TaskField string

const (
	TaskByTitle    TaskField = "title"
	TaskByStatus   TaskField = "status"
	TaskByPriority TaskField = "priority"
	TaskByProject  TaskField = "project"
	TaskByAssignee TaskField = "assignee"
)

// TaskPredicate is one row of the tasks filter bar. Status and priority carry
// a value set in Values; an empty set means "no constraint", not "match none".
type TaskPredicate struct {
	Field  TaskField `json:"field"`
	Value  string    `json:"value,omitempty"`
	Values []string  `json:"values,omitempty"`
}

// FilterProjects returns the projects matching the predicates under the given
// mode. Archived projects are excluded up front, before any user predicate
// runs: they never appear on the projects list.
func FilterProjects(projects []models.Project, preds []ProjectPredicate, mode Mode) []models.Project {
	active := utils.Filter(projects, func(p models.Project) bool {
		return p.Status != models.ProjectArchived
	})

	if len(preds) == 0 {
		return active
	}

	return utils.Filter(active, func(p models.Project) bool {
		return combine(preds, mode, func(f ProjectPredicate) bool {
			return matchProject(p, f)
		})
	})
}

// FilterTasks returns the tasks matching the predicates under the given mode.
func FilterTasks(tasks []models.Task, preds []TaskPredicate, mode Mode) []models.Task {
	if len(preds) == 0 {
		return tasks
	}

	return utils.Filter(tasks, func(t models.Task) bool {
		return combine(preds, mode, func(f TaskPredicate) bool {
			return matchTask(t, f)
		})
	})
}

func combine[P any](preds []P, mode Mode, match func(P) bool) bool {
	if mode == MatchAny {
		for _, f := range preds {
			if match(f) {
				return true
			}
		}

		return false
	}

	for _, f := range preds {
		if !match(f) {
			return false
		}
	}

	return true
}

func matchProject(p models.Project, f ProjectPredicate) bool {
	if f.Value == "" {
		return true
	}

	switch f.Field {
	case ProjectByName:
		return strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Value))
	case ProjectByStatus:
		return string(p.Status) == f.Value
	case ProjectByBudget:
		n, err := strconv.ParseFloat(f.Value, 64)
		if err != nil {
			return false
		}
		switch f.Op {
		case OpGreaterThan:
			return p.Budget > n
		case OpLessThan:
			return p.Budget < n
		default:
			return p.Budget == n
		}
	case ProjectByDueDate:
		return strings.Contains(p.DueDate, f.Value)
	case ProjectByLead:
		return p.LeadID == f.Value
	default:
		return true
	}
}

func matchTask(t models.Task, f TaskPredicate) bool {
	switch f.Field {
	case TaskByTitle:
		if f.Value == "" {
			return true
		}

		return strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Value))
	case TaskByStatus:
		if len(f.Values) == 0 {
			return true
		}

		return utils.Contains(f.Values, string(t.Status))
	case TaskByPriority:
		if len(f.Values) == 0 {
			return true
		}

		return utils.Contains(f.Values, string(t.Priority))
	case TaskByProject:
		if f.Value == "" {
			return true
		}

		return t.ProjectID == f.Value
	case TaskByAssignee:
		if f.Value == "" {
			return true
		}

		return utils.Contains(t.AssigneeIDs, f.Value)
	default:
		return true
	}
}

// KanbanGroups partitions an already-filtered task sequence into one bucket
// per board column, preserving relative order. Archived tasks never reach the
// board, whatever the filters said.
func KanbanGroups(tasks []models.Task) map[models.TaskStatus][]models.Task {
	groups := make(map[models.TaskStatus][]models.Task, len(models.BoardStatuses()))
	for _, status := range models.BoardStatuses() {
		groups[status] = []models.Task{}
	}

	for _, t := range tasks {
		if t.Status == models.TaskArchived {
			continue
		}
		groups[t.Status] = append(groups[t.Status], t)
	}

	return groups
}
