package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Group is one experimental group: a school growing plants at a fixed
// nutrient-solution EC target. The set of groups is explicit configuration
// handed to whichever component needs it, never a package-level table.
type Group struct {
	ID       string  `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	ECTarget float64 `yaml:"ec_target" json:"ec_target"`
	Plants   int     `yaml:"plants" json:"plants"`
	Color    string  `yaml:"color" json:"color"`
}

// EnvironmentPattern is the logical filename of this group's environment CSV.
func (g Group) EnvironmentPattern() string {
	return g.Name + "_환경데이터.csv"
}

// GrowthWorkbookPattern is the logical filename of the combined growth
// workbook (one sheet per group, named after the group).
const GrowthWorkbookPattern = "4개교_생육결과데이터.xlsx"

// DefaultGroups returns the four school groups of the polar-plant EC study.
func DefaultGroups() []Group {
	return []Group{
		{ID: "songdo", Name: "송도고", ECTarget: 1.0, Plants: 29, Color: "lightblue"},
		{ID: "haneul", Name: "하늘고", ECTarget: 2.0, Plants: 45, Color: "lightgreen"},
		{ID: "ara", Name: "아라고", ECTarget: 4.0, Plants: 106, Color: "lightcoral"},
		{ID: "dongsan", Name: "동산고", ECTarget: 8.0, Plants: 58, Color: "lightgoldenrodyellow"},
	}
}

// LoadGroups reads group definitions from a YAML file. A missing file yields
// the built-in defaults so a bare checkout still serves the study.
func LoadGroups(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGroups(), nil
		}
		return nil, fmt.Errorf("read groups file %s: %w", path, err)
	}

	var f struct {
		Groups []Group `yaml:"groups"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse groups file %s: %w", path, err)
	}
	if len(f.Groups) == 0 {
		return nil, fmt.Errorf("groups file %s: no groups defined", path)
	}

	seen := make(map[string]bool, len(f.Groups))
	for _, g := range f.Groups {
		if g.ID == "" || g.Name == "" {
			return nil, fmt.Errorf("groups file %s: group missing id or name", path)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("groups file %s: duplicate group id %q", path, g.ID)
		}
		seen[g.ID] = true
		if g.ECTarget <= 0 {
			return nil, fmt.Errorf("groups file %s: group %s: ec_target must be positive", path, g.ID)
		}
	}
	return f.Groups, nil
}
