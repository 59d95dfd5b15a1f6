package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"playcheck/internal/agent"
	"playcheck/internal/models"
)

const maxCheckBody = 64 << 10

type CheckHandler struct {
	runner  agent.Runner
	timeout time.Duration
}

// NewCheckHandler builds the handler. A positive timeout bounds each
// exchange so the error turn is written before the server cuts the response.
func NewCheckHandler(runner agent.Runner, timeout time.Duration) *CheckHandler {
	return &CheckHandler{runner: runner, timeout: timeout}
}

// Check runs one exchange for the posted message and returns its final turn.
func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req models.CheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCheckBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	state := h.runner.Run(ctx, models.NewSessionState(message))

	last, ok := state.Last()
	if !ok || !last.Renderable() {
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Failed to get AI response", r))
		return
	}

	writeJSON(w, http.StatusOK, models.CheckResponse{
		SessionID: state.ID,
		Reply:     last.Content,
		Role:      last.Role,
		Turns:     state.Turns,
	})
}
