package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
)

// RenderCase is one golden render scenario: the classes an admin saves for a
// widget and the wrapper markup expected afterwards.
type RenderCase struct {
	Name         string `json:"name"`
	WidgetID     string `json:"widget_id"`
	Classes      string `json:"classes"`
	BeforeWidget string `json:"before_widget"`
	Want         string `json:"want"`
}

// LoadGolden decodes the JSON document at path into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("testsupport: read golden %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("testsupport: decode golden %s: %w", path, err)
	}
	return nil
}

// LoadRenderCases reads a list of RenderCase values from path.
func LoadRenderCases(path string) ([]RenderCase, error) {
	var cases []RenderCase
	if err := LoadGolden(path, &cases); err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("testsupport: %s holds no render cases", path)
	}
	return cases, nil
}
