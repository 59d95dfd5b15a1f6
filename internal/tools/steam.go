package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"playcheck/internal/models"
)

const SteamRequirementsName = "scrape_steam_requirements"

// RequirementsFetcher looks up the system requirements of a game.
type RequirementsFetcher interface {
	FetchRequirements(ctx context.Context, gameName string) models.RequirementResult
}

type steamArgs struct {
	GameName string `mapstructure:"game_name"`
}

// SteamRequirements exposes a RequirementsFetcher as a tool.
type SteamRequirements struct {
	fetcher RequirementsFetcher
}

func NewSteamRequirements(fetcher RequirementsFetcher) *SteamRequirements {
	return &SteamRequirements{fetcher: fetcher}
}

func (t *SteamRequirements) Spec() Spec {
	return Spec{
		Name:        SteamRequirementsName,
		Description: "Scrape system requirements for a PC game from Steam Store page.",
		Parameters: []ParameterDef{
			{
				Name:        "game_name",
				Type:        "string",
				Description: "Title of the game to look up on the Steam store",
				Required:    true,
			},
		},
	}
}

func (t *SteamRequirements) Call(ctx context.Context, args map[string]any) map[string]string {
	var in steamArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return map[string]string{"error": fmt.Sprintf("invalid arguments: %v", err)}
	}
	if strings.TrimSpace(in.GameName) == "" {
		return map[string]string{"error": "game_name is required"}
	}
	return t.fetcher.FetchRequirements(ctx, in.GameName).Map()
}
