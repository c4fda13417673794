package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
	"github.com/venturalabs/ventura/internal/service/actions"
)

// ActionHandler exposes the propose/confirm/execute pipeline over HTTP.
type ActionHandler struct {
	proposer *actions.Proposer
	executor *actions.Executor
	logger   *zap.Logger
}

// NewActionHandler constructs the action pipeline handler adapter.
func NewActionHandler(proposer *actions.Proposer, executor *actions.Executor, logger *zap.Logger) *ActionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionHandler{proposer: proposer, executor: executor, logger: logger}
}

type proposeRequest struct {
	Query string `json:"query"`
}

// Propose converts a free-text query into one proposal awaiting
// confirmation.
func (h *ActionHandler) Propose(c *gin.Context) {
	var req proposeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query not provided"})
		return
	}

	proposal, err := h.proposer.Propose(c.Request.Context(), req.Query)
	if err != nil {
		h.respondProposeError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// Execute applies a confirmed proposal echoed back by the reviewer.
func (h *ActionHandler) Execute(c *gin.Context) {
	var confirmed models.Proposal
	if err := c.ShouldBindJSON(&confirmed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action object"})
		return
	}

	result, err := h.executor.Execute(c.Request.Context(), confirmed)
	if err != nil {
		h.respondExecuteError(c, err)
		return
	}

	status := http.StatusOK
	if confirmed.Action == string(models.ActionCreate) {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *ActionHandler) respondProposeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, actions.ErrMalformedModelOutput):
		h.logger.Warn("model output unusable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid or unexpected JSON response from the model."})
	case errors.Is(err, actions.ErrBackendUnavailable):
		h.logger.Error("reasoning backend unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the language model backend."})
	default:
		h.logger.Error("propose failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process the request"})
	}
}

func (h *ActionHandler) respondExecuteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, actions.ErrInvalidAction), errors.Is(err, mongodb.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("execute failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute the action"})
	}
}
