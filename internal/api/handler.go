package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/change-maker/internal/change"
	"github.com/eugenenazirov/change-maker/internal/history"
	"github.com/eugenenazirov/change-maker/internal/metrics"
	"github.com/eugenenazirov/change-maker/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxTarget    = change.MaxTarget
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Handler wires solver, storage, history and metrics dependencies into HTTP handlers.
type Handler struct {
	storage   storage.Storage
	history   history.Store
	metrics   *metrics.Metrics
	logger    *zap.Logger
	maxTarget int

	clock func() time.Time

	mu                     sync.RWMutex
	denominationsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithHistory records every successful comparison in store.
func WithHistory(store history.Store) HandlerOption {
	return func(h *Handler) {
		if store != nil {
			h.history = store
		}
	}
}

// WithMetrics records solver outcomes and durations in m.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets the logger used for non-fatal handler errors.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMaxTarget lowers the target accepted by the change endpoint below
// change.MaxTarget. Larger values are ignored.
func WithMaxTarget(limit int) HandlerOption {
	return func(h *Handler) {
		if limit > 0 && limit < change.MaxTarget {
			h.maxTarget = limit
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:   store,
		history:   history.Nop{},
		logger:    zap.NewNop(),
		maxTarget: defaultMaxTarget,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.denominationsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDenominations(w http.ResponseWriter, r *http.Request) {
	_ = r
	coins, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := denominationsResponse{
		Denominations: coins,
		UpdatedAt:     h.currentDenominationsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutDenominations(w http.ResponseWriter, r *http.Request) {
	var req denominationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Denominations) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid denominations", "denominations must contain at least one value")
		return
	}

	if err := h.storage.SetDenominations(req.Denominations); err != nil {
		if errors.Is(err, storage.ErrInvalidDenominations) {
			writeError(w, http.StatusBadRequest, "Invalid denominations", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markDenominationsUpdated()

	coins, err := h.storage.GetDenominations()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := denominationsResponse{
		Denominations: coins,
		UpdatedAt:     h.currentDenominationsUpdatedAt(),
		Message:       "Denominations updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleChange(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Target == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "target is required")
		return
	}
	target := *req.Target
	if target > h.maxTarget {
		writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("target must not exceed %d", h.maxTarget))
		return
	}

	var coins []int
	if req.Denominations != nil {
		coins = *req.Denominations
	} else {
		stored, err := h.storage.GetDenominations()
		if err != nil {
			writeInternalError(w, err)
			return
		}
		coins = stored
	}

	start := time.Now()
	cmp, solveErr := change.Compare(coins, target)
	elapsed := time.Since(start)

	if h.metrics != nil {
		h.metrics.Observe(cmp, solveErr, elapsed)
	}

	if solveErr != nil {
		switch {
		case errors.Is(solveErr, change.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Invalid request", solveErr.Error())
		case errors.Is(solveErr, change.ErrNoSolution):
			suggestion := fmt.Sprintf("Add a denomination of 1 or one that divides %d", target)
			writeError(w, http.StatusUnprocessableEntity, "No solution", solveErr.Error(), suggestion)
		case errors.Is(solveErr, change.ErrReconstructionFailure):
			h.logger.Error("solver invariant violated",
				zap.Int("target", target),
				zap.Ints("denominations", coins),
				zap.Error(solveErr),
			)
			writeInternalError(w, solveErr)
		default:
			writeInternalError(w, solveErr)
		}
		return
	}

	if err := h.history.Record(r.Context(), history.NewEntry(cmp, h.clock())); err != nil {
		h.logger.Warn("failed to record solve history",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err),
		)
	}

	resp := changeResponse{
		Target:        cmp.Target,
		Denominations: cmp.Denominations,
		Optimal: resultBody{
			Count: cmp.Optimal.Count,
			Coins: cmp.Optimal.Coins,
		},
		Greedy: greedyBody{
			Count:     cmp.Greedy.Count,
			Coins:     cmp.Greedy.Coins,
			Remainder: cmp.Greedy.Remainder,
			Exact:     cmp.GreedyExact(),
		},
		GreedySuboptimal:  cmp.GreedySuboptimal(),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 || value > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("limit must be an integer between 1 and %d", maxHistoryLimit))
			return
		}
		limit = value
	}

	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		History: entries,
		Count:   len(entries),
	})
}

func (h *Handler) currentDenominationsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.denominationsUpdatedAt
}

func (h *Handler) markDenominationsUpdated() {
	h.mu.Lock()
	h.denominationsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type denominationsRequest struct {
	Denominations []int `json:"denominations"`
}

type changeRequest struct {
	Target        *int   `json:"target"`
	Denominations *[]int `json:"denominations,omitempty"`
}

type resultBody struct {
	Count int   `json:"count"`
	Coins []int `json:"coins"`
}

type greedyBody struct {
	Count     int   `json:"count"`
	Coins     []int `json:"coins"`
	Remainder int   `json:"remainder"`
	Exact     bool  `json:"exact"`
}

type changeResponse struct {
	Target            int        `json:"target"`
	Denominations     []int      `json:"denominations"`
	Optimal           resultBody `json:"optimal"`
	Greedy            greedyBody `json:"greedy"`
	GreedySuboptimal  bool       `json:"greedySuboptimal"`
	CalculationTimeMs int64      `json:"calculationTimeMs"`
}

type denominationsResponse struct {
	Denominations []int     `json:"denominations"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Message       string    `json:"message,omitempty"`
}

type historyResponse struct {
	History []history.Entry `json:"history"`
	Count   int             `json:"count"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
