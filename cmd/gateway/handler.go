// In file: cmd/gateway/handler.go
package main

import (
	"log"
	"net/http"
	"strconv"

	"calc-gateway/internal/api"
	"calc-gateway/internal/calc"
	"calc-gateway/internal/history"
	"calc-gateway/internal/suggest"

	"github.com/gin-gonic/gin"
)

// GatewayHandler carries the core services into the HTTP layer. The resolver
// and stats may be nil when no suggestion provider or Redis is configured;
// the corresponding endpoints degrade instead of the gateway refusing to boot.
type GatewayHandler struct {
	registry *calc.Registry
	executor *calc.Executor
	ledger   history.Ledger
	resolver *suggest.Resolver
	stats    *suggest.Stats
}

func NewGatewayHandler(registry *calc.Registry, executor *calc.Executor, ledger history.Ledger, resolver *suggest.Resolver, stats *suggest.Stats) *GatewayHandler {
	return &GatewayHandler{
		registry: registry,
		executor: executor,
		ledger:   ledger,
		resolver: resolver,
		stats:    stats,
	}
}

// HandleCalculate executes an explicitly named operation.
func (h *GatewayHandler) HandleCalculate(c *gin.Context) {
	var req api.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}
	if req.Operation == "" {
		h.respondError(c, api.NewError(api.KindInvalidOperand, "operation name is required"))
		return
	}
	h.executeAndRespond(c, req.UserID, req.Operation, *req.OperandA, *req.OperandB, "")
}

// MakeOperationHandler returns a handler bound to one fixed operation name,
// serving the per-operation routes (/add, /subtract, ...).
func (h *GatewayHandler) MakeOperationHandler(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req api.CalculationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBindingError(c, err)
			return
		}
		h.executeAndRespond(c, req.UserID, name, *req.OperandA, *req.OperandB, "")
	}
}

// HandleSuggest resolves a free-text query to an operation, then executes it.
func (h *GatewayHandler) HandleSuggest(c *gin.Context) {
	var req api.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindingError(c, err)
		return
	}

	if h.resolver == nil {
		h.respondError(c, api.NewError(api.KindSuggestionUnavailable, "no suggestion provider is configured"))
		return
	}

	resolution, err := h.resolver.Resolve(c.Request.Context(), req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	log.Printf("💡 Suggestion resolved: %q -> %s (cached=%v)", req.Query, resolution.Operation, resolution.Cached)

	h.executeAndRespond(c, req.UserID, resolution.Operation, *req.OperandA, *req.OperandB, resolution.Reply)
}

// executeAndRespond is the shared tail of every calculation path.
func (h *GatewayHandler) executeAndRespond(c *gin.Context, owner, name string, a, b float64, explanation string) {
	record, err := h.executor.Execute(c.Request.Context(), owner, name, a, b)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := api.ResponseFromRecord(record)
	resp.Explanation = explanation
	c.JSON(http.StatusOK, resp)
}

// HandleHistory returns an owner's records, oldest first. Optional limit and
// offset query parameters page through long histories.
func (h *GatewayHandler) HandleHistory(c *gin.Context) {
	owner := c.Param("owner")
	limit := parseIntQuery(c, "limit", 0)
	offset := parseIntQuery(c, "offset", 0)

	records, err := h.ledger.List(c.Request.Context(), owner, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.HistoryResponse{Owner: owner, Count: len(records), Records: records})
}

// HandleUndo removes the owner's most recent record. An empty history is a
// benign 200 with undone=false, never an error.
func (h *GatewayHandler) HandleUndo(c *gin.Context) {
	owner := c.Param("owner")

	record, err := h.ledger.Undo(c.Request.Context(), owner)
	if err != nil {
		if kind, ok := api.KindOf(err); ok && kind == api.KindUndoEmpty {
			c.JSON(http.StatusOK, api.UndoResponse{Owner: owner, Undone: false, Status: "nothing to undo"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.UndoResponse{Owner: owner, Undone: true, Record: record})
}

// HandleClear removes all of an owner's records.
func (h *GatewayHandler) HandleClear(c *gin.Context) {
	owner := c.Param("owner")

	removed, err := h.ledger.Clear(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ClearResponse{Owner: owner, Removed: removed})
}

// HandleStatus reports build info, the registered operations, and suggestion
// service counters when stats are configured.
func (h *GatewayHandler) HandleStatus(c *gin.Context) {
	body := gin.H{
		"build":      GetBuildInfo(),
		"operations": h.registry.Names(),
	}
	if h.stats != nil {
		if snap, err := h.stats.Read(c.Request.Context()); err == nil {
			body["suggestions"] = snap
		} else {
			log.Printf("WARNING: Failed to read suggestion stats: %v", err)
		}
	}
	c.JSON(http.StatusOK, body)
}

// --- error responses ---

func (h *GatewayHandler) respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, api.ErrorBody{Error: api.ErrorDetail{
		Kind:    api.KindInvalidOperand,
		Message: "invalid request: " + err.Error(),
	}})
}

// respondError maps a classified error to its HTTP status. Anything that
// reaches here unclassified is an internal fault.
func (h *GatewayHandler) respondError(c *gin.Context, err error) {
	kind, ok := api.KindOf(err)
	if !ok {
		log.Printf("ERROR: Unclassified failure on %s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, api.ErrorBody{Error: api.ErrorDetail{
			Kind:    "internal",
			Message: "internal server error",
		}})
		return
	}
	log.Printf("Request failed on %s: %v", c.Request.URL.Path, err)
	c.JSON(kind.HTTPStatus(), api.ErrorBody{Error: api.ErrorDetail{
		Kind:    kind,
		Message: err.Error(),
	}})
}

// parseIntQuery reads a non-negative integer query parameter, falling back on
// absence or garbage.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return fallback
	}
	return val
}
