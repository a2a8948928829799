package recruitmenthttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/domain/recruitment"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/scheduler"
	apperrors "github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/errors"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/middleware"
)

// getUserIDFromContext returns the acting user or writes a 401.
func getUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		respond(c, apperrors.Unauthorized("User not authenticated"))
		return uuid.Nil, false
	}
	return userID, true
}

// parseUUIDParam parses a path parameter or writes a 400.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respond(c, apperrors.BadRequest("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func getQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// bindError reports a malformed request body.
func bindError(c *gin.Context, err error) {
	respond(c, apperrors.ValidationError(err.Error()))
}

// handleError maps recruitment domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	respond(c, appErr)
}

func respond(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
}

func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch kind := recruitment.Kind(err); kind {
	case recruitment.KindInvalidRequest:
		return apperrors.ValidationError(err.Error())
	case recruitment.KindNotFound:
		return apperrors.NotFound(notFoundResource(err))
	case recruitment.KindNotAuthorized:
		return apperrors.Forbidden(kind, err.Error())
	case recruitment.KindSelfApplication:
		return apperrors.Refused(kind, http.StatusUnprocessableEntity, err.Error())
	case recruitment.KindPostingClosed,
		recruitment.KindDuplicateApplication,
		recruitment.KindAlreadyMember,
		recruitment.KindAlreadyProcessed,
		recruitment.KindCapacityExceeded,
		recruitment.KindDoubleBooking,
		recruitment.KindConflict:
		return apperrors.Refused(kind, http.StatusConflict, err.Error())
	case recruitment.KindTimeout:
		return apperrors.Timeout("")
	default:
		return apperrors.Internal("internal server error", err)
	}
}

func notFoundResource(err error) string {
	switch {
	case errors.Is(err, recruitment.ErrApplicationNotFound):
		return "application"
	case errors.Is(err, recruitment.ErrPodNotFound):
		return "pod"
	default:
		return "posting"
	}
}

// jobError maps scheduler errors to HTTP responses.
func jobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrUnknownJob):
		respond(c, apperrors.NotFound("job"))
	case errors.Is(err, scheduler.ErrJobRunning), errors.Is(err, scheduler.ErrLockHeld):
		respond(c, apperrors.Conflict(err.Error()))
	case errors.Is(err, scheduler.ErrNotAccepting):
		respond(c, apperrors.Unavailable(err.Error()))
	default:
		handleError(c, err)
	}
}
