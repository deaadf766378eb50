package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"corgi/internal/auth"
	"corgi/internal/config"
	"corgi/internal/timeline"
	"corgi/internal/worker"

	"github.com/gin-gonic/gin"
)

// TimelineHandler handles HTTP requests for assembled timelines
type TimelineHandler struct {
	service       *timeline.Service
	workerService *worker.Service
	cfg           *config.Config
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(service *timeline.Service, workerService *worker.Service, cfg *config.Config) *TimelineHandler {
	return &TimelineHandler{
		service:       service,
		workerService: workerService,
		cfg:           cfg,
	}
}

// GetHomeTimeline handles GET /timeline and GET /api/v1/timelines/home.
// A missing or unrecognized bearer routes the request through the anonymous
// cold-start path instead of rejecting it.
func (h *TimelineHandler) GetHomeTimeline(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.cfg.DefaultLimit)))
	if limit > h.cfg.MaxLimit {
		limit = h.cfg.MaxLimit
	}
	if limit < 1 {
		limit = h.cfg.DefaultLimit
	}

	inject := true
	if v := c.Query("inject_recommendations"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			inject = parsed
		}
	}

	req := timeline.Request{
		Bearer: auth.ExtractBearer(c.GetHeader("Authorization")),
		UserID: c.Query("user_id"),
		Inject: inject,
		Page: timeline.Page{
			Limit:   limit,
			MaxID:   c.Query("max_id"),
			SinceID: c.Query("since_id"),
		},
	}

	statuses, err := h.service.HomeTimeline(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, timeline.ErrUpstreamRejected) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Upstream instance rejected the stored credential; re-authentication required",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to assemble timeline",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, statuses)
}

// HealthCheck handles GET /health
func (h *TimelineHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "corgi",
	})
}

// WorkerStatus handles GET /api/worker/status
func (h *TimelineHandler) WorkerStatus(c *gin.Context) {
	status := h.workerService.GetStatus()
	c.JSON(http.StatusOK, gin.H{
		"worker_status": status,
	})
}
