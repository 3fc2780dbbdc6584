package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// CommonError writes the envelope for the error kinds every package shares and reports
// whether it recognised err. Unrecognised errors are left to the caller.
func CommonError(c *gin.Context, err error) bool {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Fields) > 0 {
			ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message, verr.Fields)
		} else {
			Error(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
		}
		return true
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		return true
	}
	return false
}

// Internal records err on the gin context for the error logger and writes a 500.
func Internal(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
