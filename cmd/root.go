// Package cmd implements the cutboard CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/feed"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cutboard",
	Short: "Kanban board for video editing projects",
	Long: `cutboard tracks editing projects across a board of columns.
Drag cards between columns with the mouse or keyboard, bill clients and keep
an activity journal per project. Run cutboard without arguments to open the board.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		log.SetOutput(os.Stderr)
		log.SetLevel(log.WarnLevel)
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to board directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log diagnostics to stderr")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("CUTBOARD_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the board directory from --dir or by walking upward.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return config.FindDir(cwd)
}

// loadConfig finds and loads the board config.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		return nil, clierr.New(clierr.BoardNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	return cfg, err
}

// session is one CLI invocation's view of a board: the store seeded from the
// board directory and the sinks its journal feeds.
type session struct {
	cfg   *config.Config
	store *board.Store
	feed  *feed.Publisher
}

// openStore loads the config, reads the seed tasks and registries and wires the
// audit log and, when configured, the redis feed as journal sinks.
func openStore(extra ...board.Option) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	seed, warnings, err := task.ReadAllLenient(cfg.TasksPath(), cfg.ColumnIDs())
	if err != nil {
		return nil, err
	}
	printWarnings(warnings)

	reg, err := config.LoadRegistries(cfg.RegistriesPath())
	if err != nil {
		log.WithError(err).Warn("using default registries")
		reg = config.NewDefaultRegistries()
	}

	opts := []board.Option{
		board.WithLogger(log.StandardLogger()),
		board.WithRegistries(reg),
	}
	if cfg.Audit.Enabled {
		opts = append(opts, board.WithSink(board.NewAuditLog(cfg.Dir(), cfg.Audit.MaxEntries)))
	}

	s := &session{cfg: cfg}
	if pub := feedPublisher(cfg); pub != nil {
		s.feed = pub
		opts = append(opts, board.WithSink(pub))
	}
	s.store = board.New(cfg, seed, append(opts, extra...)...)
	return s, nil
}

// Close releases the session's feed connection, if any.
func (s *session) Close() {
	if s.feed == nil {
		return
	}
	if err := s.feed.Close(); err != nil {
		log.WithError(err).Debug("closing feed client")
	}
}

// feedPublisher returns the redis publisher when a feed address is configured.
func feedPublisher(cfg *config.Config) *feed.Publisher {
	addr := cfg.Feed.Addr
	if env := os.Getenv("CUTBOARD_FEED_ADDR"); env != "" {
		addr = env
	}
	if addr == "" {
		return nil
	}
	return feed.NewPublisher(feed.Dial(addr), cfg.Feed.Channel, cfg.Feed.MaxLen)
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes seed read warnings to stderr.
func printWarnings(warnings []task.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", w.File, w.Err)
	}
}

// task parses a task id argument and returns a copy of that task.
func (s *session) task(arg string) (*task.Task, error) {
	id, err := board.ParseID(arg)
	if err != nil {
		return nil, err
	}
	t, ok := s.store.Task(id)
	if !ok {
		return nil, task.NotFound(id)
	}
	return t, nil
}

// printSkipped reports a request the board ignored. It is not an error: the
// command exits 0 with applied set to false.
func printSkipped(id int, detail string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.MutationResult{ID: id, Applied: false, Detail: detail})
	}
	output.Messagef(os.Stdout, "%s", detail)
	return nil
}

// printTask renders a task after a mutation.
func printTask(s *session, t *task.Task, applied bool, detail string) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, output.MutationResult{ID: t.ID, Applied: applied, Detail: detail, Task: t})
	case output.FormatCompact:
		output.Messagef(os.Stdout, "%s", detail)
		output.TaskDetailCompact(os.Stdout, t, s.store.Now())
	default:
		output.Messagef(os.Stdout, "%s", detail)
		output.TaskDetail(os.Stdout, t, s.cfg, s.store.Now(), output.TerminalWidth(os.Stdout, 80)) //nolint:mnd // fallback width
	}
	return nil
}
