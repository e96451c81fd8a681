package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no cutboard board found (run 'cutboard init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version    int            `yaml:"version"`
	Board      BoardConfig    `yaml:"board"`
	TasksDir   string         `yaml:"tasks_dir"`
	Columns    []ColumnConfig `yaml:"columns"`
	Stages     StagesConfig   `yaml:"stages"`
	Priorities []string       `yaml:"priorities"`
	Defaults   DefaultsConfig `yaml:"defaults"`
	Policy     PolicyConfig   `yaml:"policy"`
	Audit      AuditConfig    `yaml:"audit,omitempty"`
	Feed       FeedConfig     `yaml:"feed,omitempty"`
	TUI        TUIConfig      `yaml:"tui,omitempty"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// ColumnConfig is one entry of the column registry.
type ColumnConfig struct {
	ID          string `yaml:"id" json:"id"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// UnmarshalYAML allows a column to be given as a plain id ("todo"), in which
// case the id doubles as the display name.
func (c *ColumnConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.ID = value.Value
		c.DisplayName = value.Value
		return nil
	}
	type plain ColumnConfig
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	if c.DisplayName == "" {
		c.DisplayName = c.ID
	}
	return nil
}

// StagesConfig names the columns that carry lifecycle meaning.
type StagesConfig struct {
	Intake  string `yaml:"intake"`
	Review  string `yaml:"review"`
	Settled string `yaml:"settled"`
}

// DefaultsConfig holds default values for new tasks and records.
type DefaultsConfig struct {
	Currency     string `yaml:"currency"`
	DeadlineTime string `yaml:"deadline_time"`
	Actor        string `yaml:"actor"`
	Title        string `yaml:"title,omitempty"`
	Priority     string `yaml:"priority"`
}

// PolicyConfig holds the tunable constants of the gesture and retention rules.
type PolicyConfig struct {
	// Retention is how long a paid task in the settled column stays visible.
	Retention string `yaml:"retention"`
	// ActivationDistance is the pointer travel before a press turns into a drag.
	ActivationDistance float64 `yaml:"activation_distance"`
	// TieBreak picks between equidistant drop candidates.
	TieBreak string `yaml:"tie_break"`
}

// AuditConfig controls the activity.jsonl audit sink.
type AuditConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries,omitempty"`
}

// FeedConfig controls the optional redis activity feed.
type FeedConfig struct {
	Addr    string `yaml:"addr,omitempty"`
	Channel string `yaml:"channel,omitempty"`
	MaxLen  int    `yaml:"max_len,omitempty"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	CardWidth int `yaml:"card_width,omitempty"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// TasksPath returns the absolute path to the seed tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// RegistriesPath returns the absolute path to the registries file.
func (c *Config) RegistriesPath() string {
	return filepath.Join(c.dir, RegistriesFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:    CurrentVersion,
		Board:      BoardConfig{Name: name},
		TasksDir:   DefaultTasksDir,
		Columns:    append([]ColumnConfig{}, DefaultColumns...),
		Stages:     DefaultStages,
		Priorities: append([]string{}, DefaultPriorities...),
		Defaults: DefaultsConfig{
			Currency:     DefaultCurrency,
			DeadlineTime: DefaultDeadlineTime,
			Actor:        DefaultActor,
			Title:        DefaultTitle,
			Priority:     DefaultPriority,
		},
		Policy: PolicyConfig{
			Retention:          DefaultRetention,
			ActivationDistance: DefaultActivationDistance,
			TieBreak:           TieBreakRegistration,
		},
		Audit: AuditConfig{Enabled: true, MaxEntries: DefaultAuditMaxEntries},
		Feed:  FeedConfig{Channel: DefaultFeedChannel, MaxLen: DefaultFeedMaxLen},
		TUI:   TUIConfig{CardWidth: DefaultCardWidth},
	}
}

// ColumnIDs returns the ordered list of column ids.
func (c *Config) ColumnIDs() []string {
	ids := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		ids[i] = col.ID
	}
	return ids
}

// Column returns the registry entry for id.
func (c *Config) Column(id string) (ColumnConfig, bool) {
	for _, col := range c.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return ColumnConfig{}, false
}

// HasColumn reports whether id names a registered column.
func (c *Config) HasColumn(id string) bool {
	_, ok := c.Column(id)
	return ok
}

// DisplayName returns the display name of a column, or the id if unknown.
func (c *Config) DisplayName(id string) string {
	if col, ok := c.Column(id); ok {
		return col.DisplayName
	}
	return id
}

// ColumnIndex returns the index of a column in the configured order, or -1.
func (c *Config) ColumnIndex(id string) int {
	return IndexOf(c.ColumnIDs(), id)
}

// IsSettled reports whether id is the settled column.
func (c *Config) IsSettled(id string) bool {
	return id == c.Stages.Settled
}

// RetentionDuration parses policy.retention. Falls back to the default on
// an unparseable value, which Validate rejects anyway.
func (c *Config) RetentionDuration() time.Duration {
	d, err := time.ParseDuration(c.Policy.Retention)
	if err != nil {
		d, _ = time.ParseDuration(DefaultRetention)
	}
	return d
}

// ActivationDistance returns policy.activation_distance or the default.
func (c *Config) ActivationDistance() float64 {
	if c.Policy.ActivationDistance <= 0 {
		return DefaultActivationDistance
	}
	return c.Policy.ActivationDistance
}

// CardWidth returns the configured TUI column width.
func (c *Config) CardWidth() int {
	if c.TUI.CardWidth == 0 {
		return DefaultCardWidth
	}
	return c.TUI.CardWidth
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if err := c.validateColumns(); err != nil {
		return err
	}
	if len(c.Priorities) < 1 {
		return fmt.Errorf("%w: at least 1 priority is required", ErrInvalid)
	}
	if hasDuplicates(c.Priorities) {
		return fmt.Errorf("%w: priorities contain duplicates", ErrInvalid)
	}
	if c.Defaults.Priority != "" && !contains(c.Priorities, c.Defaults.Priority) {
		return fmt.Errorf("%w: default priority %q not in priorities list", ErrInvalid, c.Defaults.Priority)
	}
	if c.Defaults.DeadlineTime != "" {
		if _, err := time.Parse("15:04", c.Defaults.DeadlineTime); err != nil {
			return fmt.Errorf("%w: defaults.deadline_time %q must be HH:MM", ErrInvalid, c.Defaults.DeadlineTime)
		}
	}
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if c.Audit.MaxEntries < 0 {
		return fmt.Errorf("%w: audit.max_entries must be >= 0", ErrInvalid)
	}
	if c.Feed.MaxLen < 0 {
		return fmt.Errorf("%w: feed.max_len must be >= 0", ErrInvalid)
	}
	const minCardWidth = 12
	if c.TUI.CardWidth != 0 && c.TUI.CardWidth < minCardWidth {
		return fmt.Errorf("%w: tui.card_width must be >= %d", ErrInvalid, minCardWidth)
	}
	return nil
}

func (c *Config) validateColumns() error {
	ids := c.ColumnIDs()
	if len(ids) < 2 { //nolint:mnd // a board needs somewhere to move to
		return fmt.Errorf("%w: at least 2 columns are required", ErrInvalid)
	}
	if hasDuplicates(ids) {
		return fmt.Errorf("%w: columns contain duplicates", ErrInvalid)
	}
	for _, col := range c.Columns {
		if col.ID == "" {
			return fmt.Errorf("%w: column id is required", ErrInvalid)
		}
	}
	stages := []struct{ key, id string }{
		{"stages.intake", c.Stages.Intake},
		{"stages.review", c.Stages.Review},
		{"stages.settled", c.Stages.Settled},
	}
	for _, s := range stages {
		if !contains(ids, s.id) {
			return fmt.Errorf("%w: %s %q not in columns list", ErrInvalid, s.key, s.id)
		}
	}
	return nil
}

func (c *Config) validatePolicy() error {
	d, err := time.ParseDuration(c.Policy.Retention)
	if err != nil {
		return fmt.Errorf("%w: invalid policy.retention %q: %w", ErrInvalid, c.Policy.Retention, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: policy.retention must be positive", ErrInvalid)
	}
	if c.Policy.ActivationDistance < 0 {
		return fmt.Errorf("%w: policy.activation_distance must be >= 0", ErrInvalid)
	}
	switch c.Policy.TieBreak {
	case TieBreakRegistration, TieBreakLatest:
	default:
		return fmt.Errorf("%w: policy.tie_break %q must be %q or %q",
			ErrInvalid, c.Policy.TieBreak, TieBreakRegistration, TieBreakLatest)
	}
	return nil
}

// Init creates a new board in the given directory with default settings.
// It creates the board directory, the seed tasks subdirectory, the config
// file and the registries file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	if err := NewDefaultRegistries().Save(cfg.RegistriesPath()); err != nil {
		return nil, fmt.Errorf("writing registries: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.dir = absDir
	return cfg, nil
}

// Parse decodes, migrates and validates config bytes. Migrated configs are
// not written back; the board directory is treated as read-only input.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no cutboard board found (run 'cutboard init' to create one)")
		}
		dir = parent
	}
}

// PriorityIndex returns the index of a priority in the configured order, or -1.
func (c *Config) PriorityIndex(priority string) int {
	return IndexOf(c.Priorities, priority)
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
