package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-console/internal/domain/models"
	"github.com/mamadbah2/inventory-console/internal/service/console"
)

// IndexTemplate is the name the console page is registered under.
const IndexTemplate = "index.tmpl"

// ConsoleService is what the HTTP layer needs from the console core.
type ConsoleService interface {
	SetForm(fields models.FormFields) error
	Perform(ctx context.Context, op models.Operation) error
	Snapshot() (console.Snapshot, error)
}

// StatusProvider exposes the last backend health status.
type StatusProvider interface {
	Status() models.BackendStatus
}

// ConsoleHandler adapts browser form posts to console operations.
type ConsoleHandler struct {
	svc    ConsoleService
	status StatusProvider
	logger *zap.Logger
}

// NewConsoleHandler constructs the HTTP handler adapter.
func NewConsoleHandler(svc ConsoleService, status StatusProvider, logger *zap.Logger) *ConsoleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleHandler{svc: svc, status: status, logger: logger}
}

type pageData struct {
	console.Snapshot
	Backend    models.BackendStatus
	Conditions []string
}

type stateResponse struct {
	console.Snapshot
	Backend models.BackendStatus `json:"backend"`
}

// Index renders the console page.
func (h *ConsoleHandler) Index(c *gin.Context) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		h.unavailable(c, err)
		return
	}

	c.HTML(http.StatusOK, IndexTemplate, pageData{
		Snapshot:   snap,
		Backend:    h.backendStatus(),
		Conditions: []string{models.ConditionNew, models.ConditionOpened, models.ConditionUsed},
	})
}

// State returns the console state as JSON.
func (h *ConsoleHandler) State(c *gin.Context) {
	snap, err := h.svc.Snapshot()
	if err != nil {
		h.unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, stateResponse{Snapshot: snap, Backend: h.backendStatus()})
}

// Action copies the posted fields into the form and runs the named operation to completion.
func (h *ConsoleHandler) Action(c *gin.Context) {
	op, err := models.ParseOperation(c.Param("action"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unsupported operation"})
		return
	}

	if op != models.OperationClear {
		var fields models.FormFields
		if err := c.ShouldBind(&fields); err != nil {
			h.logger.Warn("invalid console form", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
			return
		}
		if err := h.svc.SetForm(fields); err != nil {
			h.unavailable(c, err)
			return
		}
	}

	err = h.svc.Perform(c.Request.Context(), op)
	switch {
	case errors.Is(err, console.ErrClosed):
		h.unavailable(c, err)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Info("operator stopped waiting", zap.String("operation", string(op)))
		return
	case err != nil:
		// Already reflected in the flash slot.
		h.logger.Debug("operation reported error", zap.String("operation", string(op)), zap.Error(err))
	}

	if wantsJSON(c) {
		h.State(c)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Healthz reports console liveness plus the last backend status.
func (h *ConsoleHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": h.backendStatus()})
}

func (h *ConsoleHandler) backendStatus() models.BackendStatus {
	if h.status == nil {
		return models.BackendStatus{Message: "unknown"}
	}
	return h.status.Status()
}

func (h *ConsoleHandler) unavailable(c *gin.Context, err error) {
	h.logger.Error("console unavailable", zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "console unavailable"})
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
