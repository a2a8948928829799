package recruitmenthttp

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/inbound"
)

// Apply handles POST /postings/:id/applications.
//
//	@Summary	Apply to join a posting
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Posting ID"
//	@Param		body	body		inbound.ApplyInput	false	"Application"
//	@Success	201		{object}	model.RecruitmentApplication
//	@Failure	409		{object}	apperrors.ErrorResponse
//	@Failure	422		{object}	apperrors.ErrorResponse
//	@Router		/postings/{id}/applications [post]
func (h *Handler) Apply(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	postingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input inbound.ApplyInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	app, err := h.domain.Apply(c.Request.Context(), postingID, userID, input.Message)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// Accept handles POST /postings/:id/applications/:application_id/accept.
//
//	@Summary	Accept a pending application
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id				path		string	true	"Posting ID"
//	@Param		application_id	path		string	true	"Application ID"
//	@Success	200				{object}	model.RecruitmentApplication
//	@Failure	403				{object}	apperrors.ErrorResponse
//	@Failure	409				{object}	apperrors.ErrorResponse
//	@Router		/postings/{id}/applications/{application_id}/accept [post]
func (h *Handler) Accept(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	postingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	applicationID, ok := parseUUIDParam(c, "application_id")
	if !ok {
		return
	}

	app, err := h.domain.Accept(c.Request.Context(), postingID, applicationID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// Reject handles POST /postings/:id/applications/:application_id/reject.
//
//	@Summary	Reject a pending application
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id				path		string				true	"Posting ID"
//	@Param		application_id	path		string				true	"Application ID"
//	@Param		body			body		inbound.RejectInput	false	"Reason"
//	@Success	200				{object}	model.RecruitmentApplication
//	@Failure	403				{object}	apperrors.ErrorResponse
//	@Failure	409				{object}	apperrors.ErrorResponse
//	@Router		/postings/{id}/applications/{application_id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	postingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	applicationID, ok := parseUUIDParam(c, "application_id")
	if !ok {
		return
	}

	var input inbound.RejectInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	app, err := h.domain.Reject(c.Request.Context(), postingID, applicationID, userID, input.Reason, input.Note)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// ListPostingApplications handles GET /postings/:id/applications.
//
//	@Summary	List applications to a posting (author only)
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Posting ID"
//	@Success	200	{object}	map[string][]model.RecruitmentApplication
//	@Failure	403	{object}	apperrors.ErrorResponse
//	@Router		/postings/{id}/applications [get]
func (h *Handler) ListPostingApplications(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	postingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	apps, err := h.domain.ListPostingApplications(c.Request.Context(), postingID, userID)
	if err != nil {
		handleError(c, err)
		return
	}
	if apps == nil {
		apps = []*model.RecruitmentApplication{}
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// ListMyApplications handles GET /me/applications.
//
//	@Summary	List the caller's applications
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Produce	json
//	@Param		page		query		int	false	"Page"
//	@Param		page_size	query		int	false	"Page size"
//	@Success	200			{object}	map[string]any
//	@Router		/me/applications [get]
func (h *Handler) ListMyApplications(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	page := model.NewPage(getQueryInt(c, "page", 1), getQueryInt(c, "page_size", model.DefaultPageSize))

	apps, err := h.domain.ListMyApplications(c.Request.Context(), userID, page.Limit(), page.Offset())
	if err != nil {
		handleError(c, err)
		return
	}
	if apps == nil {
		apps = []*model.RecruitmentApplication{}
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"page":         page.Number,
		"page_size":    page.Size,
	})
}
