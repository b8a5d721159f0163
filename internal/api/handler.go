package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-dashboard/internal/dashboard"
	"github.com/mr1hm/go-disaster-dashboard/internal/models"
	"github.com/mr1hm/go-disaster-dashboard/internal/observability"
	"github.com/mr1hm/go-disaster-dashboard/internal/session"
)

// Sessions is the session surface the HTTP API drives; *session.Manager
// satisfies it.
type Sessions interface {
	Create(ctx context.Context) (string, *dashboard.View, error)
	View(ctx context.Context, id string) (*dashboard.View, error)
	Update(ctx context.Context, id string, p session.Patch) (*dashboard.View, error)
	Reset(ctx context.Context, id string) (*dashboard.View, error)
	Delete(ctx context.Context, id string) error
	Records(ctx context.Context, id string) ([]models.Record, error)
	Subscribe(id string) (uint64, <-chan *dashboard.View)
	Unsubscribe(subID uint64)
}

type OptionsProvider interface {
	Options(continents, subregions []string) dashboard.Options
}

type Handler struct {
	sessions Sessions
	options  OptionsProvider
	metrics  *observability.Metrics
}

func NewHandler(sessions Sessions, options OptionsProvider, metrics *observability.Metrics) *Handler {
	return &Handler{
		sessions: sessions,
		options:  options,
		metrics:  metrics,
	}
}

type sessionResponse struct {
	ID   string          `json:"id"`
	View *dashboard.View `json:"view"`
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/options", h.getOptions)

	sessions := api.Group("/sessions")
	sessions.POST("", h.createSession)
	sessions.GET("/:id", h.getSession)
	sessions.PATCH("/:id/criteria", h.updateCriteria)
	sessions.POST("/:id/reset", h.resetSession)
	sessions.DELETE("/:id", h.deleteSession)
	sessions.GET("/:id/records", h.getRecords)
	sessions.GET("/:id/stream", h.streamSession)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getOptions answers cascading dropdown queries without a session.
func (h *Handler) getOptions(c *gin.Context) {
	opts := h.options.Options(c.QueryArray("continents"), c.QueryArray("subregions"))
	c.JSON(http.StatusOK, opts)
}

func (h *Handler) createSession(c *gin.Context) {
	id, view, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{ID: id, View: view})
}

func (h *Handler) getSession(c *gin.Context) {
	id := c.Param("id")
	view, err := h.sessions.View(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, View: view})
}

func (h *Handler) updateCriteria(c *gin.Context) {
	var patch session.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := patch.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	view, err := h.sessions.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, View: view})
}

func (h *Handler) resetSession(c *gin.Context) {
	id := c.Param("id")
	view, err := h.sessions.Reset(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, View: view})
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getRecords(c *gin.Context) {
	limit := defaultPageSize
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxPageSize {
			limit = lim
		}
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		if off, err := strconv.Atoi(o); err == nil && off >= 0 {
			offset = off
		}
	}

	records, err := h.sessions.Records(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRecordPage(records, offset, limit))
}

// streamSession sends the current view, then every recomputed view, as
// server-sent events until the client leaves or the session ends.
func (h *Handler) streamSession(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	current, err := h.sessions.View(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	subID, ch := h.sessions.Subscribe(id)
	defer h.sessions.Unsubscribe(subID)

	if h.metrics != nil {
		h.metrics.StreamSubscriptions.Inc()
		defer h.metrics.StreamSubscriptions.Dec()
	}
	slog.Info("client subscribed to session stream", "session_id", id, "subscriber_id", subID)

	c.SSEvent("view", current)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			slog.Info("client disconnected from session stream", "session_id", id, "subscriber_id", subID)
			return false
		case v, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("view", v)
			return true
		}
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
