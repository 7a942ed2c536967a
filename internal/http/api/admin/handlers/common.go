// Package handlers implements the admin API endpoints.
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pms-parking/parkwash/internal/apperr"
	"github.com/pms-parking/parkwash/internal/security"
	log "github.com/sirupsen/logrus"
)

// PrincipalKey is the gin context key holding the authenticated security.Principal.
const PrincipalKey = "principal"

// statusFor maps a failure kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindAlreadyParked:
		return http.StatusConflict
	case apperr.KindInvalidInput, apperr.KindNotParked, apperr.KindNoRateConfigured, apperr.KindNoActiveShift:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the status and message for err.
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("admin api: request failed")
	}
	c.JSON(status, gin.H{"error": apperr.Message(err), "kind": kind.String()})
}

// principal returns the caller set by the auth middleware.
func principal(c *gin.Context) security.Principal {
	value, ok := c.Get(PrincipalKey)
	if !ok {
		return security.Principal{}
	}
	p, _ := value.(security.Principal)
	return p
}

// bindJSON decodes the body into dst and responds 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if errBind := c.ShouldBindJSON(dst); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return false
	}
	return true
}

// uintParam parses a positive id path parameter and responds 400 on failure.
func uintParam(c *gin.Context, name string) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// dateQuery parses a YYYY-MM-DD query value, returning fallback when absent.
func dateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	parsed, errParse := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return time.Time{}, false
	}
	return parsed, true
}
