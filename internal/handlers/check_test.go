package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playcheck/internal/models"
)

type fakeRunner struct {
	calls    int
	final    *models.Turn
	deadline time.Time
	bounded  bool
}

func (f *fakeRunner) Run(ctx context.Context, state *models.SessionState) *models.SessionState {
	f.calls++
	f.deadline, f.bounded = ctx.Deadline()
	if f.final != nil {
		state.Append(*f.final)
	}
	return state
}

func postCheck(t *testing.T, h *CheckHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-1")
	rr := httptest.NewRecorder()
	h.Check(rr, req)
	return rr
}

func TestCheck_ReturnsFinalTurn(t *testing.T) {
	final := models.NewAssistantTurn("You can run Hades on High.")
	runner := &fakeRunner{final: &final}

	rr := postCheck(t, NewCheckHandler(runner, 0), `{"message":"Can I run Hades on a GTX 1650?"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp models.CheckResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "You can run Hades on High.", resp.Reply)
	assert.Equal(t, models.RoleAssistant, resp.Role)
	require.Len(t, resp.Turns, 2)
	assert.Equal(t, "Can I run Hades on a GTX 1650?", resp.Turns[0].Content)
	assert.Equal(t, 1, runner.calls)
}

func TestCheck_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty message", `{"message":"   "}`, "Message is required"},
		{"missing message", `{}`, "Message is required"},
		{"malformed json", `{"message":`, "Invalid request body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{}

			rr := postCheck(t, NewCheckHandler(runner, 0), tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			assert.Equal(t, tc.message, resp.Error.Message)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.Zero(t, runner.calls)
		})
	}
}

func TestCheck_NoRenderableTurn(t *testing.T) {
	rr := postCheck(t, NewCheckHandler(&fakeRunner{}, 0), `{"message":"Hades?"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCheck_BoundsExchangeWithTimeout(t *testing.T) {
	final := models.NewAssistantTurn("done")
	runner := &fakeRunner{final: &final}

	started := time.Now()
	rr := postCheck(t, NewCheckHandler(runner, 90*time.Second), `{"message":"Hades?"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, runner.bounded)
	assert.WithinDuration(t, started.Add(90*time.Second), runner.deadline, 5*time.Second)
}

func TestCheck_NoTimeoutLeavesContextUnbounded(t *testing.T) {
	final := models.NewAssistantTurn("done")
	runner := &fakeRunner{final: &final}

	postCheck(t, NewCheckHandler(runner, 0), `{"message":"Hades?"}`)

	assert.False(t, runner.bounded)
}
