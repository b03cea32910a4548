package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/mapper"
	"github.com/habitbuilder/internal/mergepatch"
	"github.com/habitbuilder/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// bindJSON decodes the body into dst, runs prepare hooks and validates the
// result. Validation failures answer 400 with a field -> message object, other
// decoding failures with {"error": ...}.
func bindJSON(c *gin.Context, dst any, prepare ...func()) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "Malformed request body: empty body")
		return false
	}
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed request body: "+err.Error())
		return false
	}

	for _, fn := range prepare {
		fn()
	}

	fields, err := validateBody(dst)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return false
	}
	if fields != nil {
		c.JSON(http.StatusBadRequest, fields)
		return false
	}
	return true
}

func dedupPolicy(c *gin.Context, fallback dto.DedupPolicy) (dto.DedupPolicy, bool) {
	policy, err := dto.ParseDedupPolicy(c.Query("dedup"), fallback)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return fallback, false
	}
	return policy, true
}

// handleServiceError 将服务层错误转换为 HTTP 状态码
func (a *API) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound), errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrHabitAlreadyExists), errors.Is(err, service.ErrUserAlreadyExists):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, mapper.ErrMapping), errors.Is(err, mergepatch.ErrPatch):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		c.Error(err)
		a.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "Internal Server error",
			"endpoint": c.FullPath(),
			"contact":  a.supportContact,
		})
	}
}

func isMergePatchContentType(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch mediaType {
	case "", "application/json", "application/merge-patch+json":
		return true
	}
	return false
}
