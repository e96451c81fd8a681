package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/date"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new board",
	Long: `Creates a board directory with config.yml, registries.yml and a tasks/
subdirectory of seed files. Use --samples to add a few example projects.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().Bool("samples", false, "write example seed tasks")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.BoardAlreadyExists, "board already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg, err := config.Init(absDir, name)
	if err != nil {
		return err
	}

	var written []string
	if samples, _ := cmd.Flags().GetBool("samples"); samples {
		written, err = writeSamples(cfg, time.Now())
		if err != nil {
			return err
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":     "initialized",
			"dir":        absDir,
			"name":       name,
			"config":     cfg.ConfigPath(),
			"registries": cfg.RegistriesPath(),
			"tasks":      cfg.TasksPath(),
			"columns":    cfg.ColumnIDs(),
			"samples":    written,
		})
	}

	output.Messagef(os.Stdout, "Initialized board %q in %s", name, absDir)
	output.Messagef(os.Stdout, "  Config:     %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Registries: %s", cfg.RegistriesPath())
	output.Messagef(os.Stdout, "  Tasks:      %s", cfg.TasksPath())
	output.Messagef(os.Stdout, "  Columns:    %s", strings.Join(cfg.ColumnIDs(), ", "))
	if len(written) > 0 {
		output.Messagef(os.Stdout, "  Samples:    %d seed tasks", len(written))
	}
	return nil
}

// writeSamples writes a handful of example projects spread over the columns.
func writeSamples(cfg *config.Config, now time.Time) ([]string, error) {
	day := func(offset int) *date.Date {
		d := date.Of(now.AddDate(0, 0, offset))
		return &d
	}
	at := func(d *date.Date) *time.Time {
		t, err := d.At(cfg.Defaults.DeadlineTime, now.Location())
		if err != nil {
			return nil
		}
		return &t
	}
	created := func(t *task.Task, content string) {
		t.Activities = []task.Activity{{
			ID:        fmt.Sprintf("seed-%d", t.ID),
			Kind:      task.KindCreate,
			Content:   content,
			Timestamp: t.Created,
			Actor:     cfg.Defaults.Actor,
		}}
	}

	samples := []*task.Task{
		{ID: 1, Column: cfg.Stages.Intake, Title: "Summer Campaign Reel", Client: "Nova Studios", Tag: "EDITING",
			Priority: "urgent", Urgency: task.UrgencyUrgent, Payment: task.Unbilled, Currency: cfg.Defaults.Currency},
		{ID: 2, Column: cfg.ColumnIDs()[1], Title: "Product Launch Ad", Client: "Brightline", Tag: "COLOR",
			Priority: "medium", Urgency: task.UrgencyWarning, Payment: task.Pending, Currency: cfg.Defaults.Currency},
		{ID: 3, Column: cfg.Stages.Review, Title: "Travel Vlog Ep. 12", Client: "Wanderlust Co", Tag: "REVISION",
			Priority: "low", Urgency: task.UrgencyNormal, Payment: task.Pending, Currency: cfg.Defaults.Currency},
		{ID: 4, Column: cfg.Stages.Settled, Title: "Music Video Final", Client: "Echo Records", Tag: "FINAL",
			Priority: "medium", Urgency: task.UrgencyInfo, Payment: task.Paid, Currency: cfg.Defaults.Currency},
	}
	offsets := []int{0, 3, -1, -10}
	for i, t := range samples {
		t.Created = now.AddDate(0, 0, offsets[i]-7) //nolint:mnd // created a week before the due date
		t.Due = day(offsets[i])
		t.Deadline = at(t.Due)
		created(t, "Project created")
	}
	paid := now.AddDate(0, 0, -9) //nolint:mnd // older than the retention window
	samples[3].PaidAt = &paid
	samples[2].Revisions = []task.Revision{{
		ID: "seed-rev-1", Number: 1, Content: "Tighten the intro and swap the music bed",
		Created: now.AddDate(0, 0, -2), Status: task.RevisionReviewing, //nolint:mnd // two days ago
	}}
	samples[0].Notes = "Raw footage arrives on the shared drive.\n\n- 9:16 and 16:9 cuts\n- captions burned in"

	paths := make([]string, 0, len(samples))
	for _, t := range samples {
		path := filepath.Join(cfg.TasksPath(), task.Filename(t.ID, t.Title))
		if err := task.Write(path, t); err != nil {
			return paths, fmt.Errorf("writing sample task: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
