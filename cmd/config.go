package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/date"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func stringKey(get func(*config.Config) *string) configAccessor {
	return configAccessor{
		get:      func(c *config.Config) any { return *get(c) },
		set:      func(c *config.Config, v string) error { *get(c) = v; return nil },
		writable: true,
	}
}

func intKey(key string, get func(*config.Config) *int) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *get(c) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be an integer", key, v)
			}
			*get(c) = n
			return nil // validation handles range check
		},
		writable: true,
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version":           {get: func(c *config.Config) any { return c.Version }},
		"tasks_dir":         {get: func(c *config.Config) any { return c.TasksDir }},
		"columns":           {get: func(c *config.Config) any { return c.ColumnIDs() }},
		"priorities":        {get: func(c *config.Config) any { return c.Priorities }},
		"stages.intake":     {get: func(c *config.Config) any { return c.Stages.Intake }},
		"stages.review":     {get: func(c *config.Config) any { return c.Stages.Review }},
		"stages.settled":    {get: func(c *config.Config) any { return c.Stages.Settled }},
		"board.name":        stringKey(func(c *config.Config) *string { return &c.Board.Name }),
		"board.description": stringKey(func(c *config.Config) *string { return &c.Board.Description }),
		"defaults.currency": stringKey(func(c *config.Config) *string { return &c.Defaults.Currency }),
		"defaults.actor":    stringKey(func(c *config.Config) *string { return &c.Defaults.Actor }),
		"defaults.title":    stringKey(func(c *config.Config) *string { return &c.Defaults.Title }),
		"defaults.priority": stringKey(func(c *config.Config) *string { return &c.Defaults.Priority }),
		"defaults.deadline_time": {
			get: func(c *config.Config) any { return c.Defaults.DeadlineTime },
			set: func(c *config.Config, v string) error {
				if _, _, err := date.ParseClock(v); err != nil {
					return clierr.Newf(clierr.InvalidTime, "invalid defaults.deadline_time %q: expected HH:MM", v)
				}
				c.Defaults.DeadlineTime = v
				return nil
			},
			writable: true,
		},
		"policy.retention": {
			get: func(c *config.Config) any { return c.Policy.Retention },
			set: func(c *config.Config, v string) error {
				if _, err := time.ParseDuration(v); err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid policy.retention %q: %v", v, err)
				}
				c.Policy.Retention = v
				return nil
			},
			writable: true,
		},
		"policy.activation_distance": {
			get: func(c *config.Config) any { return c.Policy.ActivationDistance },
			set: func(c *config.Config, v string) error {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid policy.activation_distance %q: must be a number", v)
				}
				c.Policy.ActivationDistance = f
				return nil
			},
			writable: true,
		},
		"policy.tie_break": stringKey(func(c *config.Config) *string { return &c.Policy.TieBreak }),
		"audit.enabled": {
			get: func(c *config.Config) any { return c.Audit.Enabled },
			set: func(c *config.Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid audit.enabled %q: must be true or false", v)
				}
				c.Audit.Enabled = b
				return nil
			},
			writable: true,
		},
		"audit.max_entries": intKey("audit.max_entries", func(c *config.Config) *int { return &c.Audit.MaxEntries }),
		"feed.addr":         stringKey(func(c *config.Config) *string { return &c.Feed.Addr }),
		"feed.channel":      stringKey(func(c *config.Config) *string { return &c.Feed.Channel }),
		"feed.max_len":      intKey("feed.max_len", func(c *config.Config) *int { return &c.Feed.MaxLen }),
		"tui.card_width":    intKey("tui.card_width", func(c *config.Config) *int { return &c.TUI.CardWidth }),
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"tasks_dir",
		"columns",
		"stages.intake",
		"stages.review",
		"stages.settled",
		"priorities",
		"defaults.currency",
		"defaults.deadline_time",
		"defaults.actor",
		"defaults.title",
		"defaults.priority",
		"policy.retention",
		"policy.activation_distance",
		"policy.tie_break",
		"audit.enabled",
		"audit.max_entries",
		"feed.addr",
		"feed.channel",
		"feed.max_len",
		"tui.card_width",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-28s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, ok := configAccessors()[args[0]]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", args[0])
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
