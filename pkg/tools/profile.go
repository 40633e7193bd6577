package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumilabs/lumi/pkg/storage"
)

// ProfileTool returns the idol's public profile card.
type ProfileTool struct {
	store storage.Store
}

func NewProfileTool(store storage.Store) *ProfileTool {
	return &ProfileTool{store: store}
}

func (t *ProfileTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "get_profile",
		Description: "Get Lumi's profile: debut date, fan name, hobbies and favorites.",
		Parameters:  []ToolParameter{},
	}
}

func (t *ProfileTool) Execute(ctx context.Context, _ map[string]any) (ToolResult, error) {
	profile, err := t.store.GetProfile(ctx)
	if err != nil {
		return ToolResult{}, err
	}

	payload, err := json.Marshal(profile)
	if err != nil {
		return ToolResult{}, fmt.Errorf("failed to encode profile: %w", err)
	}

	return ToolResult{Content: string(payload)}, nil
}
