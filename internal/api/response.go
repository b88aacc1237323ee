// ABOUTME: JSON response helpers shared by the HTTP handlers
// ABOUTME: Errors are always {"error": "..."} with a matching status code
package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harper/letterkit/internal/storage/sqlite"
)

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

func notFound(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, message)
}

// storageError maps a storage failure to 400, 404 or 500
func storageError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		notFound(c, err.Error())
		return
	case errors.Is(err, sqlite.ErrInvalidTemplate):
		badRequest(c, err.Error())
		return
	}
	log.Printf("Warning: failed to %s: %v", action, err)
	respondError(c, http.StatusInternalServerError, "failed to "+action+": "+err.Error())
}
