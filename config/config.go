package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"perfstat/core"
)

const (
	LayoutMean    = "mean"
	LayoutSummary = "summary"

	DivisionExact = "exact"
	DivisionFloor = "floor"
)

// Config describes the report layouts and the optional run archive
type Config struct {
	Layouts map[string]*LayoutConfig `yaml:"layouts"`
	Archive ArchiveConfig            `yaml:"archive"`
}

// LayoutConfig describes one input shape and how it is reported
type LayoutConfig struct {
	Arity      int           `yaml:"arity"`
	Numeric    string        `yaml:"numeric"`
	Division   string        `yaml:"division,omitempty"`
	Records    int           `yaml:"records,omitempty"`
	Summary    bool          `yaml:"summary,omitempty"`
	Total      bool          `yaml:"total,omitempty"`
	TitleWidth int           `yaml:"title_width,omitempty"`
	LabelWidth int           `yaml:"label_width,omitempty"`
	ValueWidth int           `yaml:"value_width,omitempty"`
	Precision  *int          `yaml:"precision,omitempty"`
	Groups     []GroupConfig `yaml:"groups"`
}

// GroupConfig names a pair of columns
type GroupConfig struct {
	Label      string `yaml:"label"`
	Left       int    `yaml:"left"`
	Right      int    `yaml:"right"`
	LeftLabel  string `yaml:"left_label,omitempty"`
	RightLabel string `yaml:"right_label,omitempty"`
}

// ArchiveConfig locates the run archive. An empty path disables archiving.
type ArchiveConfig struct {
	Path  string `yaml:"path,omitempty"`
	Cache bool   `yaml:"cache"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path when it exists and falls back to the default
// configuration otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return GetDefaultConfig(), nil
	}
	return LoadConfig(path)
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateDefaultConfig writes the default configuration to path
func GenerateDefaultConfig(path string) error {
	return SaveConfig(GetDefaultConfig(), path)
}

func validateConfig(config *Config) error {
	if len(config.Layouts) == 0 {
		return fmt.Errorf("layouts configuration is required")
	}

	for name, layout := range config.Layouts {
		if layout == nil {
			return fmt.Errorf("layout %s is empty", name)
		}
		if err := layout.validate(); err != nil {
			return fmt.Errorf("layout %s: %w", name, err)
		}
	}

	return nil
}

func (layout *LayoutConfig) validate() error {
	if layout.Arity <= 0 {
		return fmt.Errorf("arity must be positive, got %d", layout.Arity)
	}
	if _, err := core.ParseNumericKind(layout.Numeric); err != nil {
		return err
	}
	switch layout.Division {
	case "", DivisionExact, DivisionFloor:
	default:
		return fmt.Errorf("unknown division %q", layout.Division)
	}
	if layout.Records < 0 {
		return fmt.Errorf("records must not be negative")
	}
	return layout.LabelSpec("").Validate(layout.Arity)
}

// Layout returns the named layout
func (config *Config) Layout(name string) (*LayoutConfig, error) {
	layout, ok := config.Layouts[name]
	if !ok || layout == nil {
		return nil, fmt.Errorf("no layout named %q", name)
	}
	return layout, nil
}

func (layout *LayoutConfig) Kind() core.NumericKind {
	kind, _ := core.ParseNumericKind(layout.Numeric)
	return kind
}

// NewAggregate returns an empty aggregate shaped for this layout
func (layout *LayoutConfig) NewAggregate() *core.Aggregate {
	return core.NewAggregate(layout.Arity, layout.Kind()).
		SetFloor(layout.Division == DivisionFloor)
}

// LabelSpec converts the layout into a render spec with the given title
func (layout *LayoutConfig) LabelSpec(title string) *core.LabelSpec {
	groups := make([]core.Group, len(layout.Groups))
	for i, group := range layout.Groups {
		groups[i] = core.Group{
			Label:      group.Label,
			Left:       group.Left,
			Right:      group.Right,
			LeftLabel:  group.LeftLabel,
			RightLabel: group.RightLabel,
		}
	}
	return &core.LabelSpec{
		Groups:     groups,
		Summary:    layout.Summary,
		Title:      title,
		Total:      layout.Total,
		TitleWidth: layout.TitleWidth,
		LabelWidth: layout.LabelWidth,
		ValueWidth: layout.ValueWidth,
		Precision:  layout.Precision,
	}
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".perfstat", "config.yaml")
}

// counters are the object types reported by the runtime's perf output, each
// as a (bytes, consumed) column pair after the two timing columns.
var counters = []struct {
	pair    string
	summary string
}{
	{"conses", "conses"},
	{"except", "exceptions"},
	{"functions", "functions"},
	{"streams", "streams"},
	{"symbols", "symbols"},
	{"vectors", "vectors"},
}

// GetDefaultConfig returns the layouts of the perf mean and summary reports
func GetDefaultConfig() *Config {
	meanGroups := []GroupConfig{{
		Label:      "time",
		Left:       0,
		Right:      1,
		LeftLabel:  "time(system)",
		RightLabel: "time(process)",
	}}
	summaryGroups := make([]GroupConfig, 0, len(counters))
	for i, counter := range counters {
		left, right := 2+2*i, 3+2*i
		meanGroups = append(meanGroups, GroupConfig{
			Label:      counter.pair,
			Left:       left,
			Right:      right,
			LeftLabel:  counter.pair + "(bytes)",
			RightLabel: counter.pair + "(consumed)",
		})
		summaryGroups = append(summaryGroups, GroupConfig{
			Label: counter.summary,
			Left:  left,
			Right: right,
		})
	}

	return &Config{
		Layouts: map[string]*LayoutConfig{
			LayoutMean: {
				Arity:    14,
				Numeric:  "float",
				Division: DivisionExact,
				Groups:   meanGroups,
			},
			LayoutSummary: {
				Arity:      14,
				Numeric:    "integer",
				Records:    1,
				Summary:    true,
				Total:      true,
				TitleWidth: core.DefaultTitleWidth,
				Groups:     summaryGroups,
			},
		},
		Archive: ArchiveConfig{
			Cache: true,
		},
	}
}
