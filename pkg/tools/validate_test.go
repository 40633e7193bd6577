package tools

import "testing"

func TestValidateArgs(t *testing.T) {
	info := ToolInfo{
		Name: "test_tool",
		Parameters: []ToolParameter{
			{Name: "name", Type: "string", Required: true},
			{Name: "count", Type: "integer"},
			{Name: "ratio", Type: "number"},
			{Name: "flag", Type: "boolean"},
			{Name: "mood", Type: "string", Enum: []string{"happy", "sad"}},
		},
	}

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
	}{
		{"all valid", map[string]any{"name": "x", "count": float64(3), "ratio": 1.5, "flag": true, "mood": "happy"}, false},
		{"only required", map[string]any{"name": "x"}, false},
		{"missing required", map[string]any{"count": float64(1)}, true},
		{"wrong string type", map[string]any{"name": 42}, true},
		{"wrong integer type", map[string]any{"name": "x", "count": 1.5}, true},
		{"wrong boolean type", map[string]any{"name": "x", "flag": "yes"}, true},
		{"enum violation", map[string]any{"name": "x", "mood": "angry"}, true},
		{"extra args tolerated", map[string]any{"name": "x", "unexpected": "value"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArgs(info, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
