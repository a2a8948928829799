package recruitmenthttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/inbound"
)

// CreatePosting handles POST /postings.
//
//	@Summary	Open a recruitment posting
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		inbound.CreatePostingInput	true	"Posting"
//	@Success	201		{object}	inbound.PostingOutput
//	@Failure	409		{object}	apperrors.ErrorResponse
//	@Failure	422		{object}	apperrors.ErrorResponse
//	@Router		/postings [post]
func (h *Handler) CreatePosting(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	var input inbound.CreatePostingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	output, err := h.domain.CreatePosting(c.Request.Context(), userID, &input)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, output)
}

// GetPosting handles GET /postings/:id.
//
//	@Summary	Get a posting with its lifecycle state
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Posting ID"
//	@Success	200	{object}	inbound.PostingOutput
//	@Failure	404	{object}	apperrors.ErrorResponse
//	@Router		/postings/{id} [get]
func (h *Handler) GetPosting(c *gin.Context) {
	postingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	output, err := h.domain.GetPosting(c.Request.Context(), postingID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

// ListEventPostings handles GET /events/:event_id/postings.
//
//	@Summary	List active postings for an event
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Produce	json
//	@Param		event_id	path		string	true	"Event ID"
//	@Success	200			{object}	map[string][]inbound.PostingOutput
//	@Router		/events/{event_id}/postings [get]
func (h *Handler) ListEventPostings(c *gin.Context) {
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	postings, err := h.domain.ListEventPostings(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err)
		return
	}
	if postings == nil {
		postings = []*inbound.PostingOutput{}
	}

	c.JSON(http.StatusOK, gin.H{"postings": postings})
}

// DeletePosting handles DELETE /postings/:id.
//
//	@Summary	Withdraw a posting
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Posting ID"
//	@Success	204
//	@Failure	403	{object}	apperrors.ErrorResponse
//	@Failure	409	{object}	apperrors.ErrorResponse
//	@Router		/postings/{id} [delete]
func (h *Handler) DeletePosting(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	postingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.domain.DeletePosting(c.Request.Context(), postingID, userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAvailability handles GET /events/:event_id/availability.
// The user defaults to the caller.
//
//	@Summary	Check whether a user is free to join a team for an event
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Produce	json
//	@Param		event_id	path		string	true	"Event ID"
//	@Param		user_id		query		string	false	"User ID"
//	@Success	200			{object}	inbound.AvailabilityOutput
//	@Router		/events/{event_id}/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	callerID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(c, "event_id")
	if !ok {
		return
	}

	userID := callerID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			bindError(c, err)
			return
		}
		userID = parsed
	}

	available, err := h.domain.IsAvailable(c.Request.Context(), eventID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, inbound.AvailabilityOutput{
		EventID:   &eventID,
		UserID:    userID,
		Available: available,
	})
}
