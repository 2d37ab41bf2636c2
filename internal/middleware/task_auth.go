package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// RequireTaskID validates the :id path parameter. An ID that cannot exist is
// answered like a missing task.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			apierrors.NotFound(c, "Task not found.")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTaskID, id.String())
		c.Next()
	}
}

// GetTaskID retrieves the task ID stored by RequireTaskID
func GetTaskID(c *gin.Context) (string, bool) {
	id := c.GetString(constants.ContextKeyTaskID)
	return id, id != ""
}
