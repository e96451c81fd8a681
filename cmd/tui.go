package cmd

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/tui"
	"github.com/twiced-technology-gmbh/cutboard/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board",
	Long: `Opens the board in the terminal. Drag cards with the mouse, or pick one up
with space, nudge it with the arrow keys and drop it with enter.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	model := tui.NewBoard(s.store)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())

	// Diagnostics would tear the alt screen.
	log.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, s.cfg, model, p)

	_, err = p.Run()
	return err
}

// startTUIWatcher reloads the tag and category registries when they change.
func startTUIWatcher(ctx context.Context, cfg *config.Config, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), watcher.Files(config.RegistriesFileName), func() {
		reg, err := config.LoadRegistries(cfg.RegistriesPath())
		if err != nil {
			p.Send(tui.ErrMsg(err))
			return
		}
		p.Send(tui.ReloadMsg{Registries: reg})
	})
	if err != nil {
		return // non-fatal: the board works without live reload
	}
	defer w.Close()
	w.Run(ctx, func(err error) { p.Send(tui.ErrMsg(err)) })
}
