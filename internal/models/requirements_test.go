package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirementResult_MapFailure(t *testing.T) {
	res := RequirementsFailed(ErrGameNotFound)

	assert.True(t, res.Failed())
	assert.Equal(t, map[string]string{"error": "Game not found on Steam"}, res.Map())
}

func TestRequirementResult_MapSuccess(t *testing.T) {
	res := RequirementsFound(Requirements{
		Game:        "Hades",
		SourceURL:   "https://store.steampowered.com/app/1145360/Hades/",
		Minimum:     "OS: Windows 7",
		Recommended: FieldNotFound,
	})

	m := res.Map()
	assert.False(t, res.Failed())
	assert.Len(t, m, 4)
	assert.NotContains(t, m, "error")
	assert.Equal(t, "Not found", m["recommended"])
	assert.Equal(t, "OS: Windows 7", m["minimum"])
}

func TestOutputJSON(t *testing.T) {
	out := OutputJSON(map[string]string{"error": "boom"})

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "boom", decoded["error"])
}

func TestSessionState_FreshPerUtterance(t *testing.T) {
	s := NewSessionState("Can I run Hades?")

	require.Len(t, s.Turns, 1)
	assert.Equal(t, RoleUser, s.Turns[0].Role)
	assert.Nil(t, s.GameName)
	assert.Nil(t, s.UserSpecs)
	assert.Nil(t, s.GameRequirement)

	last, ok := s.Last()
	require.True(t, ok)
	assert.False(t, last.Renderable())

	other := NewSessionState("again")
	assert.NotEqual(t, s.ID, other.ID)
}

func TestTurn_HasToolCalls(t *testing.T) {
	call := ToolCall{ID: "c1", Name: "scrape_steam_requirements", Args: map[string]any{"game_name": "Hades"}}

	assert.True(t, NewAssistantTurn("", call).HasToolCalls())
	assert.False(t, NewAssistantTurn("done").HasToolCalls())

	toolTurn := NewToolTurn(call, "{}", map[string]string{})
	assert.False(t, toolTurn.HasToolCalls())
	assert.True(t, toolTurn.Renderable())
	assert.Equal(t, "c1", toolTurn.ToolCallID)
	assert.Equal(t, "scrape_steam_requirements", toolTurn.Name)
}

func TestRequirementResultFromMap(t *testing.T) {
	found := RequirementsFound(Requirements{Game: "Hades", SourceURL: "u", Minimum: "a", Recommended: "b"})
	assert.Equal(t, found, RequirementResultFromMap(found.Map()))

	failed := RequirementResultFromMap(map[string]string{"error": "timeout"})
	assert.True(t, failed.Failed())
	assert.Equal(t, "timeout", failed.Error)
}
