// In file: internal/api/types.go
package api

import "time"

// OperationRecord is one completed calculation in an owner's history.
// Records are immutable once created by the executor; the ledger removes
// them only through undo (pop) or clear (bulk).
type OperationRecord struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Operation string    `json:"operation"`
	OperandA  float64   `json:"operand_a"`
	OperandB  float64   `json:"operand_b"`
	Result    float64   `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// CalculationRequest is the inbound body for an explicit calculation.
// Operands are pointers so that a literal 0 still satisfies the required
// binding; the per-operation routes leave Operation empty and take the name
// from the route itself.
type CalculationRequest struct {
	UserID    string   `json:"user_id" binding:"required"`
	Operation string   `json:"operation"`
	OperandA  *float64 `json:"a" binding:"required"`
	OperandB  *float64 `json:"b" binding:"required"`
}

// SuggestionRequest is the inbound body for a free-text calculation: the
// query is resolved to an operation name first, then executed.
type SuggestionRequest struct {
	UserID   string   `json:"user_id" binding:"required"`
	Query    string   `json:"query" binding:"required"`
	OperandA *float64 `json:"a" binding:"required"`
	OperandB *float64 `json:"b" binding:"required"`
}

// CalculationResponse is the outbound success shape for both the explicit and
// the suggestion-driven paths. Explanation carries the model's raw reply on
// the suggestion path and is empty otherwise.
type CalculationResponse struct {
	RecordID    string    `json:"record_id"`
	Operation   string    `json:"operation"`
	OperandA    float64   `json:"operand_a"`
	OperandB    float64   `json:"operand_b"`
	Result      float64   `json:"result"`
	Timestamp   time.Time `json:"timestamp"`
	Explanation string    `json:"explanation,omitempty"`
	CacheStatus string    `json:"cache_status,omitempty"`
}

// HistoryResponse is the ordered history for one owner, oldest first.
type HistoryResponse struct {
	Owner   string            `json:"owner"`
	Count   int               `json:"count"`
	Records []OperationRecord `json:"records"`
}

// UndoResponse reports the outcome of an undo. When nothing was there to
// undo, Undone is false and Status explains why; that case is a 200, not an
// error.
type UndoResponse struct {
	Owner  string           `json:"owner"`
	Undone bool             `json:"undone"`
	Status string           `json:"status,omitempty"`
	Record *OperationRecord `json:"record,omitempty"`
}

// ClearResponse reports how many records a clear removed. Zero means the
// history was already empty; clearing twice is fine.
type ClearResponse struct {
	Owner   string `json:"owner"`
	Removed int64  `json:"removed"`
}

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ErrorBody wraps ErrorDetail under the "error" key.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ResponseFromRecord copies the fields the response needs out of a record.
func ResponseFromRecord(rec *OperationRecord) CalculationResponse {
	return CalculationResponse{
		RecordID:  rec.ID,
		Operation: rec.Operation,
		OperandA:  rec.OperandA,
		OperandB:  rec.OperandB,
		Result:    rec.Result,
		Timestamp: rec.Timestamp,
	}
}
