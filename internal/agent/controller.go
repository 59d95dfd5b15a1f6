package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"playcheck/internal/metrics"
	"playcheck/internal/models"
	"playcheck/internal/tools"
)

const iterationLimitReply = "I was unable to complete this request: the requirements lookup did not settle after several attempts. Please try rephrasing with the exact game title."

var ErrInvalidIterationCap = errors.New("iteration cap must be at least 1")

// Reasoner asks the language model what to do next given the turns so far.
type Reasoner interface {
	Reason(ctx context.Context, turns []models.Turn) (models.Turn, error)
}

// ToolExecutor runs one tool call and returns its flat output.
type ToolExecutor interface {
	Execute(ctx context.Context, call models.ToolCall) map[string]string
}

// TurnObserver is notified of every turn the Controller appends.
type TurnObserver interface {
	TurnAppended(ctx context.Context, sessionID uuid.UUID, index int, turn models.Turn)
}

type step int

const (
	stepReason step = iota
	stepAct
	stepDone
)

// Controller drives the reason/act loop for one exchange.
type Controller struct {
	reasoner      Reasoner
	tools         ToolExecutor
	maxIterations int
	logger        *slog.Logger
	observer      TurnObserver
	metrics       *metrics.Metrics
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

func WithObserver(observer TurnObserver) Option {
	return func(c *Controller) { c.observer = observer }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// NewController builds a Controller. maxIterations bounds the number of act
// phases in one run.
func NewController(reasoner Reasoner, executor ToolExecutor, maxIterations int, opts ...Option) (*Controller, error) {
	if maxIterations < 1 {
		return nil, ErrInvalidIterationCap
	}
	c := &Controller{
		reasoner:      reasoner,
		tools:         executor,
		maxIterations: maxIterations,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run alternates reason and act until the model stops requesting tools. It
// always appends exactly one renderable final turn: the model's answer, an
// error turn, or the iteration-limit turn.
func (c *Controller) Run(ctx context.Context, state *models.SessionState) *models.SessionState {
	if c.observer != nil {
		for i, t := range state.Turns {
			c.observer.TurnAppended(ctx, state.ID, i, t)
		}
	}

	acts := 0
	next := stepReason
	for next != stepDone {
		switch next {
		case stepReason:
			next = c.reason(ctx, state, acts)
		case stepAct:
			acts++
			c.act(ctx, state)
			next = stepReason
		}
	}
	return state
}

func (c *Controller) reason(ctx context.Context, state *models.SessionState, acts int) step {
	reply, err := c.reasoner.Reason(ctx, state.Turns)
	c.metrics.ObserveReason(err)
	if err != nil {
		c.logger.Error("reasoning call failed", "session_id", state.ID, "error", err)
		c.append(ctx, state, models.NewAssistantTurn(
			fmt.Sprintf("Sorry, I could not reach the reasoning service for this request: %v", err)))
		c.metrics.ObserveExchange("reason_error")
		return stepDone
	}

	c.append(ctx, state, reply)
	if !reply.HasToolCalls() {
		c.metrics.ObserveExchange("answered")
		return stepDone
	}

	if acts >= c.maxIterations {
		c.logger.Warn("tool call limit reached", "session_id", state.ID, "max_iterations", c.maxIterations)
		c.append(ctx, state, models.NewAssistantTurn(iterationLimitReply))
		c.metrics.ObserveExchange("iteration_limit")
		return stepDone
	}
	return stepAct
}

func (c *Controller) act(ctx context.Context, state *models.SessionState) {
	last, _ := state.Last()
	for _, call := range last.ToolCalls {
		started := time.Now()
		out := c.tools.Execute(ctx, call)
		_, failed := out["error"]
		c.metrics.ObserveTool(call.Name, failed, time.Since(started))

		c.logger.Info("tool executed", "session_id", state.ID, "tool", call.Name, "failed", failed)

		if call.Name == tools.SteamRequirementsName {
			c.recordRequirements(state, call, out)
		}
		c.append(ctx, state, models.NewToolTurn(call, models.OutputJSON(out), out))
	}
}

func (c *Controller) recordRequirements(state *models.SessionState, call models.ToolCall, out map[string]string) {
	if name, ok := call.Args["game_name"].(string); ok && name != "" {
		state.GameName = &name
	}
	res := models.RequirementResultFromMap(out)
	state.GameRequirement = &res
}

func (c *Controller) append(ctx context.Context, state *models.SessionState, turn models.Turn) {
	state.Append(turn)
	if c.observer != nil {
		c.observer.TurnAppended(ctx, state.ID, len(state.Turns)-1, turn)
	}
}
