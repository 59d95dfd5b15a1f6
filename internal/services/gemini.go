package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"playcheck/internal/models"
	"playcheck/internal/tools"
)

const emptyReplyFallback = "I could not produce an answer for that request. The response was empty or blocked by safety filters."

var errEmptyHistory = errors.New("no turns to send")

// GeminiService is the reasoning step of the agent: it sends the turn
// history, the system instruction and the bound tool schemas to Gemini.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	logger   *slog.Logger
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(
	apiKey string,
	modelName string,
	systemPrompt string,
	concurrentReqs int,
	specs []tools.Spec,
	logger *slog.Logger,
) (*GeminiService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	if len(specs) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: functionDeclarations(specs)}}
	}

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		logger:   logger,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Reason sends the conversation so far and returns the model's reply as an
// assistant turn, which may carry tool calls.
func (s *GeminiService) Reason(ctx context.Context, turns []models.Turn) (models.Turn, error) {
	history := toGenaiContents(turns)
	if len(history) == 0 {
		return models.Turn{}, errEmptyHistory
	}

	if err := s.acquireRate(ctx); err != nil {
		return models.Turn{}, err
	}
	defer s.releaseRate()

	cs := s.model.StartChat()
	cs.History = history[:len(history)-1]
	last := history[len(history)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return models.Turn{}, fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
			s.logger.Warn("Gemini stopped early", "candidate", i, "finish_reason", cand.FinishReason.String())
		}
	}

	turn := responseTurn(resp)
	if turn.HasToolCalls() {
		s.logger.Info("Gemini requested a tool call", "calls", toolCallNames(turn.ToolCalls))
	} else {
		s.logger.Info("No tool was called by Gemini")
	}
	return turn, nil
}

// toGenaiContents maps turns onto Gemini roles. Consecutive tool turns are
// merged so that every function call of one reply is answered in one content.
func toGenaiContents(turns []models.Turn) []*genai.Content {
	var out []*genai.Content
	for _, t := range turns {
		switch t.Role {
		case models.RoleUser:
			out = append(out, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(t.Content)}})

		case models.RoleAssistant:
			var parts []genai.Part
			if t.Content != "" || len(t.ToolCalls) == 0 {
				parts = append(parts, genai.Text(t.Content))
			}
			for _, call := range t.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: call.Name, Args: call.Args})
			}
			out = append(out, &genai.Content{Role: "model", Parts: parts})

		case models.RoleTool:
			part := genai.FunctionResponse{Name: t.Name, Response: toolResponse(t)}
			if n := len(out); n > 0 && isFunctionResponses(out[n-1]) {
				out[n-1].Parts = append(out[n-1].Parts, part)
				continue
			}
			out = append(out, &genai.Content{Role: "user", Parts: []genai.Part{part}})
		}
	}
	return out
}

func isFunctionResponses(c *genai.Content) bool {
	if c.Role != "user" || len(c.Parts) == 0 {
		return false
	}
	for _, p := range c.Parts {
		if _, ok := p.(genai.FunctionResponse); !ok {
			return false
		}
	}
	return true
}

func toolResponse(t models.Turn) map[string]any {
	if t.Output == nil {
		return map[string]any{"content": t.Content}
	}
	resp := make(map[string]any, len(t.Output))
	for k, v := range t.Output {
		resp[k] = v
	}
	return resp
}

// responseTurn converts the first candidate into an assistant turn.
func responseTurn(resp *genai.GenerateContentResponse) models.Turn {
	var calls []models.ToolCall
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, models.ToolCall{
					ID:   uuid.NewString(),
					Name: fc.Name,
					Args: fc.Args,
				})
			}
		}
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" && len(calls) == 0 {
		text = emptyReplyFallback
	}
	return models.NewAssistantTurn(text, calls...)
}

func functionDeclarations(specs []tools.Spec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		schema := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: make(map[string]*genai.Schema, len(spec.Parameters)),
		}
		for _, p := range spec.Parameters {
			schema.Properties[p.Name] = &genai.Schema{
				Type:        schemaType(p.Type),
				Description: p.Description,
			}
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  schema,
		})
	}
	return decls
}

func schemaType(t string) genai.Type {
	switch t {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

func toolCallNames(calls []models.ToolCall) []string {
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}
	return names
}

// Helper functions

// extractText joins the text parts of the first candidate, the same reply
// responseTurn reads tool calls from.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}
