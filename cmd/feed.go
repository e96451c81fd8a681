package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Read the redis activity feed",
	Long: `Journal records are published to redis when feed.addr (or CUTBOARD_FEED_ADDR)
is set. The feed keeps the newest feed.max_len records.`,
}

var feedTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print recent records and optionally follow new ones",
	RunE:  runFeedTail,
}

func init() {
	feedTailCmd.Flags().IntP("lines", "n", 20, "number of recent records") //nolint:mnd // default tail length
	feedTailCmd.Flags().BoolP("follow", "f", false, "keep printing new records")
	feedCmd.AddCommand(feedTailCmd)
	rootCmd.AddCommand(feedCmd)
}

func runFeedTail(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pub := feedPublisher(cfg)
	if pub == nil {
		return clierr.New(clierr.FeedUnavailable, "no feed configured; set feed.addr or CUTBOARD_FEED_ADDR")
	}
	defer pub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n, _ := cmd.Flags().GetInt("lines")
	recent, err := pub.Recent(ctx, n)
	if err != nil {
		return clierr.Newf(clierr.FeedUnavailable, "reading feed: %v", err)
	}

	jsonMode := outputFormat() == output.FormatJSON
	emit := func(e board.Entry) {
		if jsonMode {
			_ = output.JSON(os.Stdout, e)
			return
		}
		output.EntryCompact(os.Stdout, e)
	}

	// Recent is newest first; print oldest first like a log.
	for i := len(recent) - 1; i >= 0; i-- {
		emit(recent[i])
	}

	if follow, _ := cmd.Flags().GetBool("follow"); !follow {
		return nil
	}
	if err := pub.Follow(ctx, emit); err != nil && ctx.Err() == nil {
		return clierr.Newf(clierr.FeedUnavailable, "following feed: %v", err)
	}
	return nil
}
