package collections

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func respondDBError(c *gin.Context, op string, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "row not found"})

		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		// integrity constraint violations are the client's fault
		c.JSON(http.StatusConflict, gin.H{"error": pgErr.Message})

		return
	}

	log.Printf("%s failed: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
}

// --- team_members ---

func handleListMembers(c *gin.Context) {
	items, err := ListMembers(c.Request.Context())
	if err != nil {
		respondDBError(c, "list members", err)

		return
	}

	c.JSON(http.StatusOK, items)
}

func handleCreateMember(c *gin.Context) {
	var row MemberRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}

	if err := InsertMember(c.Request.Context(), row); err != nil {
		respondDBError(c, "create member", err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func handleUpdateMember(c *gin.Context) {
	var row MemberRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	row.ID = c.Param("id")

	if err := UpdateMember(c.Request.Context(), row); err != nil {
		respondDBError(c, "update member", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func handleDeleteMember(c *gin.Context) {
	if err := DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		respondDBError(c, "delete member", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- projects ---

func handleListProjects(c *gin.Context) {
	items, err := ListProjects(c.Request.Context())
	if err != nil {
		respondDBError(c, "list projects", err)

		return
	}

	c.JSON(http.StatusOK, items)
}

func handleCreateProject(c *gin.Context) {
	var row ProjectRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}

	if err := InsertProject(c.Request.Context(), row); err != nil {
		respondDBError(c, "create project", err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func handleUpdateProject(c *gin.Context) {
	var row ProjectRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	row.ID = c.Param("id")

	if err := UpdateProject(c.Request.Context(), row); err != nil {
		respondDBError(c, "update project", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func handleDeleteProject(c *gin.Context) {
	if err := DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondDBError(c, "delete project", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- tasks ---

func handleListTasks(c *gin.Context) {
	items, err := ListTasks(c.Request.Context())
	if err != nil {
		respondDBError(c, "list tasks", err)

		return
	}

	c.JSON(http.StatusOK, items)
}

func handleCreateTask(c *gin.Context) {
	var row TaskRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}

	if err := InsertTask(c.Request.Context(), row); err != nil {
		respondDBError(c, "create task", err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func handleUpdateTask(c *gin.Context) {
	var row TaskRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}
	row.ID = c.Param("id")

	if err := UpdateTask(c.Request.Context(), row); err != nil {
		respondDBError(c, "update task", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func handleDeleteTask(c *gin.Context) {
	if err := DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondDBError(c, "delete task", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --- notifications ---

func handleListNotifications(c *gin.Context) {
	items, err := ListNotifications(c.Request.Context())
	if err != nil {
		respondDBError(c, "list notifications", err)

		return
	}

	c.JSON(http.StatusOK, items)
}

func handleCreateNotification(c *gin.Context) {
	var row NotificationRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}

	if err := InsertNotification(c.Request.Context(), row); err != nil {
		respondDBError(c, "create notification", err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func handleDeleteNotification(c *gin.Context) {
	if err := DeleteNotification(c.Request.Context(), c.Param("id")); err != nil {
		respondDBError(c, "delete notification", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePatch applies a single-column update to one row of the given table.
// The body is a one-entry JSON object, column name to value.
func handlePatch(table string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch map[string]any
		if err := c.ShouldBindJSON(&patch); err != nil || len(patch) != 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "patch body must hold exactly one column"})

			return
		}

		for column, value := range patch {
			if err := PatchRow(c.Request.Context(), table, c.Param("id"), column, value); err != nil {
				if strings.Contains(err.Error(), "not patchable") {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

					return
				}
				respondDBError(c, "patch "+table, err)

				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// --- storage ---

func handleCreateBucket(c *gin.Context) {
	if !config.AllowBucketCreate {
		c.JSON(http.StatusForbidden, gin.H{"error": "bucket creation disabled"})

		return
	}

	var req CreateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})

		return
	}

	if err := CreateBucket(c.Request.Context(), req.Name, req.Public); err != nil {
		respondDBError(c, "create bucket", err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func handlePutObject(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read object body"})

		return
	}

	obj := StoredObject{
		Bucket:      c.Param("bucket"),
		Name:        c.Param("name"),
		ContentType: c.ContentType(),
		Data:        data,
	}

	if err := PutObject(c.Request.Context(), obj); err != nil {
		if errors.Is(err, errBucketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bucket not found"})

			return
		}
		respondDBError(c, "put object", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"key": obj.Bucket + "/" + obj.Name})
}

func handleGetPublicObject(c *gin.Context) {
	obj, err := GetPublicObject(c.Request.Context(), c.Param("bucket"), c.Param("name"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})

			return
		}
		respondDBError(c, "get object", err)

		return
	}

	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}
