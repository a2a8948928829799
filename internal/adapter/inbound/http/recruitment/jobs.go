package recruitmenthttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListJobs handles GET /internal/jobs.
//
//	@Summary	List background jobs
//	@Tags		Jobs
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	map[string][]string
//	@Router		/internal/jobs [get]
func (h *Handler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.jobs.Jobs()})
}

// TriggerJob handles POST /internal/jobs/:name/trigger.
// The job runs synchronously; the request returns once it finishes.
//
//	@Summary	Run a background job now
//	@Tags		Jobs
//	@Security	BearerAuth
//	@Param		name	path	string	true	"Job name"
//	@Success	202
//	@Failure	404	{object}	apperrors.ErrorResponse
//	@Failure	409	{object}	apperrors.ErrorResponse
//	@Router		/internal/jobs/{name}/trigger [post]
func (h *Handler) TriggerJob(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		return
	}

	name := c.Param("name")
	if err := h.jobs.Trigger(c.Request.Context(), name); err != nil {
		jobError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"job": name, "status": "completed"})
}
