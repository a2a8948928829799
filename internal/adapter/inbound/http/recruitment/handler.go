package recruitmenthttp

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/inbound"
)

// JobTrigger runs a named background job on demand.
type JobTrigger interface {
	Trigger(ctx context.Context, name string) error
	Jobs() []string
}

// Handler handles recruitment HTTP requests.
type Handler struct {
	domain inbound.RecruitmentDomain
	jobs   JobTrigger
}

// NewHandler creates a new recruitment handler. jobs may be nil, in which
// case the job trigger endpoint is not registered.
func NewHandler(domain inbound.RecruitmentDomain, jobs JobTrigger) *Handler {
	return &Handler{
		domain: domain,
		jobs:   jobs,
	}
}

var _ inbound.RecruitmentHttpPort = (*Handler)(nil)

// RegisterRoutes registers recruitment routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	postings := r.Group("/postings")
	postings.Use(authMiddleware)
	{
		postings.POST("", h.CreatePosting)
		postings.GET("/:id", h.GetPosting)
		postings.DELETE("/:id", h.DeletePosting)

		// Applications
		postings.POST("/:id/applications", h.Apply)
		postings.GET("/:id/applications", h.ListPostingApplications)
		postings.POST("/:id/applications/:application_id/accept", h.Accept)
		postings.POST("/:id/applications/:application_id/reject", h.Reject)
	}

	events := r.Group("/events")
	events.Use(authMiddleware)
	{
		events.GET("/:event_id/postings", h.ListEventPostings)
		events.GET("/:event_id/availability", h.GetAvailability)
	}

	me := r.Group("/me")
	me.Use(authMiddleware)
	{
		me.GET("/applications", h.ListMyApplications)
	}

	pods := r.Group("/pods")
	pods.Use(authMiddleware)
	{
		pods.GET("/:id", h.GetPod)
		pods.DELETE("/:id", h.DeletePod)
	}

	if h.jobs != nil {
		internal := r.Group("/internal/jobs")
		internal.Use(authMiddleware)
		{
			internal.GET("", h.ListJobs)
			internal.POST("/:name/trigger", h.TriggerJob)
		}
	}
}
