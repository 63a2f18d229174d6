package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizsim/internal/apperr"
)

// respondError maps the error taxonomy onto HTTP status codes:
// validation and invalid-state failures are caller errors, missing
// references are 404, anything else is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindInvalidState:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
