package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumilabs/lumi/pkg/storage"
)

// SongTool recommends a track for a mood.
type SongTool struct {
	store storage.Store
}

func NewSongTool(store storage.Store) *SongTool {
	return &SongTool{store: store}
}

func (t *SongTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "recommend_song",
		Description: "Recommend one of Lumi's songs matching the listener's mood.",
		Parameters: []ToolParameter{
			{
				Name:        "mood",
				Type:        "string",
				Description: "The listener's current mood",
				Required:    true,
				Enum:        []string{"happy", "sad", "energetic", "calm"},
			},
		},
	}
}

func (t *SongTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	mood := stringArg(args, "mood")

	songs, err := t.store.GetSongsByMood(ctx, mood)
	if err != nil {
		return ToolResult{}, err
	}
	if len(songs) == 0 {
		return ToolResult{Content: "No songs found for that mood."}, nil
	}

	payload, err := json.Marshal(songs)
	if err != nil {
		return ToolResult{}, fmt.Errorf("failed to encode songs: %w", err)
	}

	return ToolResult{Content: string(payload)}, nil
}
