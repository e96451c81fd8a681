package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add", "new"},
	Short:   "Create a new project",
	Long: `Adds a project to the intake column with a "Project created" record.

Title can be provided as a positional argument or via --title; an empty title
becomes the configured default. The deadline time defaults to defaults.deadline_time.
The tag is picked from the tag registry by category.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "project title (alternative to positional argument)")
	createCmd.Flags().String("client", "", "client name")
	createCmd.Flags().String("category", "", "project category (picks the tag)")
	createCmd.Flags().String("date", "", "deadline date (YYYY-MM-DD)")
	createCmd.Flags().String("time", "", "deadline time (HH:MM)")
	createCmd.Flags().String("priority", "", "priority (default from config)")
	createCmd.Flags().Float64("budget", 0, "agreed budget")
	createCmd.Flags().String("currency", "", "budget currency (default from config)")
	createCmd.Flags().String("notes", "", "markdown notes")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "due", "deadline":
			name = "date"
		case "description", "body":
			name = "notes"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	req := board.CreateRequest{Title: title}
	req.Client, _ = cmd.Flags().GetString("client")
	req.Category, _ = cmd.Flags().GetString("category")
	req.DeadlineDate, _ = cmd.Flags().GetString("date")
	req.DeadlineTime, _ = cmd.Flags().GetString("time")
	req.Currency, _ = cmd.Flags().GetString("currency")
	req.Notes, _ = cmd.Flags().GetString("notes")
	req.Priority = s.cfg.Defaults.Priority
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		if err := task.ValidatePriority(v, s.cfg.Priorities); err != nil {
			return err
		}
		req.Priority = v
	}
	if cmd.Flags().Changed("budget") {
		v, _ := cmd.Flags().GetFloat64("budget")
		req.Budget = &v
	}
	if req.DeadlineTime != "" && req.DeadlineDate == "" {
		return clierr.New(clierr.InvalidInput, "--time needs --date")
	}
	if req.Category != "" && !s.store.Registries().HasCategory(req.Category) {
		log.WithField("category", req.Category).Warn("category is not registered; using the default tag")
	}

	t, err := s.store.Create(req)
	if err != nil {
		return err
	}
	return printTask(s, t, true, fmt.Sprintf("Created task #%d: %s", t.ID, t.Title))
}

// resolveCreateTitle returns the title from either the positional arg or --title.
// Both may be absent; the store substitutes the default title.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", nil
	}
}

var commentCmd = &cobra.Command{
	Use:   "comment ID TEXT",
	Short: "Add a comment to a task's journal",
	Long:  `Prepends a comment record to the task's activity journal. Blank text is ignored.`,
	Args:  cobra.ExactArgs(2), //nolint:mnd // id and text
	RunE:  runComment,
}

func init() {
	commentCmd.Flags().String("actor", "", "who is commenting (default from config)")
	rootCmd.AddCommand(commentCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	t, err := s.task(args[0])
	if err != nil {
		return err
	}

	actor, _ := cmd.Flags().GetString("actor")
	a, ok := s.store.Append(t.ID, task.KindComment, args[1], actor)
	if !ok {
		return printSkipped(t.ID, fmt.Sprintf("Blank comment on #%d ignored", t.ID))
	}

	t, _ = s.store.Task(t.ID)
	return printTask(s, t, true, fmt.Sprintf("%s commented on #%d", a.Actor, t.ID))
}
