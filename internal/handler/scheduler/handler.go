// Package scheduler exposes the admin surface for inspecting and driving
// the reminder schedulers.
package scheduler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/clinichq/reminder-engine/pkg/errors"
	"github.com/clinichq/reminder-engine/pkg/httputil"
	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/scheduler"
)

type Handler struct {
	registry *scheduler.Registry
	logger   *logger.Logger
}

func NewHandler(registry *scheduler.Registry, log *logger.Logger) *Handler {
	return &Handler{registry: registry, logger: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	schedulers := r.Group("/schedulers")
	{
		schedulers.GET("", h.List)
		schedulers.GET("/:name", h.Get)
		schedulers.POST("/:name/run", h.Run)
		schedulers.POST("/:name/start", h.Start)
		schedulers.POST("/:name/stop", h.Stop)
	}
}

// List returns the status of every registered scheduler.
func (h *Handler) List(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.registry.Statuses())
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.registry.Get(c.Param("name"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, s.Status())
}

// Run triggers an immediate execution. A run already in flight yields 409.
func (h *Handler) Run(c *gin.Context) {
	s, err := h.registry.Get(c.Param("name"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	result, err := s.RunNow(c.Request.Context())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrAlreadyProcessing) {
			httputil.RespondWithError(c, apperrors.NewConflict("a run is already in progress", err))
			return
		}
		h.logger.Error(err, "manual run failed", "scheduler", s.Name())
		httputil.RespondWithError(c, apperrors.NewInternal(err))
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Start(c *gin.Context) {
	s, err := h.registry.Get(c.Param("name"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	s.Start()
	httputil.RespondWithSuccess(c, s.Status())
}

func (h *Handler) Stop(c *gin.Context) {
	s, err := h.registry.Get(c.Param("name"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	s.Stop()
	httputil.RespondWithSuccess(c, s.Status())
}
