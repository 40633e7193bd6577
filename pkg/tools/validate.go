package tools

import (
	"fmt"
	"strings"
)

// ValidateArgs checks call arguments against a tool's declared parameters.
// Unknown extra arguments are tolerated and ignored by tools.
func ValidateArgs(info ToolInfo, args map[string]any) error {
	for _, p := range info.Parameters {
		value, present := args[p.Name]

		if !present {
			if p.Required {
				return fmt.Errorf("missing required argument %q", p.Name)
			}
			continue
		}

		if err := checkType(p, value); err != nil {
			return err
		}

		if len(p.Enum) > 0 {
			str, _ := value.(string)
			if !contains(p.Enum, str) {
				return fmt.Errorf("argument %q must be one of [%s], got %q",
					p.Name, strings.Join(p.Enum, ", "), str)
			}
		}
	}

	return nil
}

func checkType(p ToolParameter, value any) error {
	switch p.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("argument %q must be a string", p.Name)
		}
	case "number":
		// JSON numbers decode as float64.
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("argument %q must be a number", p.Name)
		}
	case "integer":
		f, ok := value.(float64)
		if !ok || f != float64(int64(f)) {
			return fmt.Errorf("argument %q must be an integer", p.Name)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean", p.Name)
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// stringArg reads an optional string argument.
func stringArg(args map[string]any, name string) string {
	if v, ok := args[name].(string); ok {
		return v
	}
	return ""
}
