package recruitmenthttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPod handles GET /pods/:id.
//
//	@Summary	Get a pod
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Pod ID"
//	@Success	200	{object}	model.Pod
//	@Failure	404	{object}	apperrors.ErrorResponse
//	@Router		/pods/{id} [get]
func (h *Handler) GetPod(c *gin.Context) {
	podID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	pod, err := h.domain.GetPod(c.Request.Context(), podID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, pod)
}

// DeletePod handles DELETE /pods/:id.
// Deleting a pod removes its messages and the posting it came from.
//
//	@Summary	Delete a pod (owner only)
//	@Tags		Recruitment
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Pod ID"
//	@Success	204
//	@Failure	403	{object}	apperrors.ErrorResponse
//	@Failure	404	{object}	apperrors.ErrorResponse
//	@Router		/pods/{id} [delete]
func (h *Handler) DeletePod(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	podID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.domain.DeletePod(c.Request.Context(), podID, userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
