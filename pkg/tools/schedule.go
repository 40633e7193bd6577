package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumilabs/lumi/pkg/storage"
)

// ScheduleTool looks up calendar entries for a date.
type ScheduleTool struct {
	store storage.Store
}

func NewScheduleTool(store storage.Store) *ScheduleTool {
	return &ScheduleTool{store: store}
}

func (t *ScheduleTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        "get_schedule",
		Description: "Look up scheduled streams, recordings and events for a date. Defaults to today when no date is given.",
		Parameters: []ToolParameter{
			{
				Name:        "date",
				Type:        "string",
				Description: "Date in YYYY-MM-DD format",
			},
		},
	}
}

func (t *ScheduleTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	date := stringArg(args, "date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return ToolResult{}, fmt.Errorf("date %q is not in YYYY-MM-DD format", date)
	}

	entries, err := t.store.GetSchedule(ctx, date)
	if err != nil {
		return ToolResult{}, err
	}

	if len(entries) == 0 {
		return ToolResult{Content: fmt.Sprintf("Nothing scheduled on %s.", date)}, nil
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return ToolResult{}, fmt.Errorf("failed to encode schedule: %w", err)
	}

	return ToolResult{Content: string(payload)}, nil
}
