package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumilabs/lumi/pkg/storage"
)

// FanLetterTool saves a message from a fan.
type FanLetterTool struct {
	store storage.Store
}

func NewFanLetterTool(store storage.Store) *FanLetterTool {
	return &FanLetterTool{store: store}
}

func (t *FanLetterTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "save_fan_letter",
		Description: "Save a fan letter so it can be read on a future free-talk stream.",
		Parameters: []ToolParameter{
			{
				Name:        "author",
				Type:        "string",
				Description: "Name or nickname of the fan",
				Required:    true,
			},
			{
				Name:        "content",
				Type:        "string",
				Description: "The letter text",
				Required:    true,
			},
		},
	}
}

func (t *FanLetterTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	author := strings.TrimSpace(stringArg(args, "author"))
	content := strings.TrimSpace(stringArg(args, "content"))

	if content == "" {
		return ToolResult{}, fmt.Errorf("letter content is empty")
	}
	if author == "" {
		author = "anonymous"
	}

	letter, err := t.store.SaveFanLetter(ctx, author, content)
	if err != nil {
		return ToolResult{}, err
	}

	return ToolResult{
		Content: fmt.Sprintf("Letter from %s saved (id %s). It will be read on the next free-talk stream.", letter.Author, letter.ID),
	}, nil
}
