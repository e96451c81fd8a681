package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

var revisionCmd = &cobra.Command{
	Use:     "revision",
	Aliases: []string{"rev"},
	Short:   "Manage review revisions",
	Long:    `Add revision notes to a task in the review column or change a revision's status.`,
}

var revisionAddCmd = &cobra.Command{
	Use:   "add ID CONTENT",
	Short: "Add a revision to a task in review",
	Args:  cobra.ExactArgs(2), //nolint:mnd // id and content
	RunE:  runRevisionAdd,
}

var revisionStatusCmd = &cobra.Command{
	Use:   "status ID NUMBER STATUS",
	Short: "Set the status of a revision",
	Args:  cobra.ExactArgs(3), //nolint:mnd // id, number and status
	RunE:  runRevisionStatus,
}

func init() {
	revisionAddCmd.Flags().String("link", "", "link to the reviewed cut")
	revisionAddCmd.Flags().String("status", string(task.RevisionCreating), "initial status")
	revisionCmd.AddCommand(revisionAddCmd)
	revisionCmd.AddCommand(revisionStatusCmd)
	rootCmd.AddCommand(revisionCmd)
}

func runRevisionAdd(cmd *cobra.Command, args []string) error {
	statusArg, _ := cmd.Flags().GetString("status")
	status, err := task.ValidateRevisionStatus(statusArg)
	if err != nil {
		return err
	}
	link, _ := cmd.Flags().GetString("link")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	id, err := board.ParseID(args[0])
	if err != nil {
		return err
	}

	rev, err := s.store.AddRevision(id, args[1], link, status)
	if err != nil {
		return err
	}
	t, _ := s.store.Task(id)
	return printTask(s, t, true, fmt.Sprintf("Added revision %d to task #%d", rev.Number, id))
}

func runRevisionStatus(_ *cobra.Command, args []string) error {
	status, err := task.ValidateRevisionStatus(args[2])
	if err != nil {
		return err
	}
	number, err := strconv.Atoi(args[1])
	if err != nil || number < 1 {
		return clierr.Newf(clierr.InvalidInput, "invalid revision number %q", args[1])
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	id, err := board.ParseID(args[0])
	if err != nil {
		return err
	}

	rev, ok := s.store.RevisionByNumber(id, number)
	if !ok {
		if _, exists := s.store.Task(id); !exists {
			return task.NotFound(id)
		}
		return clierr.Newf(clierr.RevisionNotFound, "task #%d has no revision %d", id, number).
			WithDetails(map[string]any{"id": id, "number": number})
	}
	if err := s.store.SetRevisionStatus(id, rev.ID, status); err != nil {
		return err
	}
	t, _ := s.store.Task(id)
	return printTask(s, t, true, fmt.Sprintf("Revision %d of task #%d is now %s", number, id, status))
}

var deliverCmd = &cobra.Command{
	Use:   "deliver ID",
	Short: "Attach a delivered video or project file link",
	Long: `Stores a delivery link on the task and journals an upload record.
Give exactly one of --video or --project.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeliver,
}

func init() {
	deliverCmd.Flags().String("video", "", "link to the exported video")
	deliverCmd.Flags().String("project", "", "link to the project file")
	deliverCmd.MarkFlagsMutuallyExclusive("video", "project")
	deliverCmd.MarkFlagsOneRequired("video", "project")
	rootCmd.AddCommand(deliverCmd)
}

func runDeliver(cmd *cobra.Command, args []string) error {
	kind, link := board.DeliverableVideo, ""
	if v, _ := cmd.Flags().GetString("video"); cmd.Flags().Changed("video") {
		link = v
	} else {
		kind = board.DeliverableProject
		link, _ = cmd.Flags().GetString("project")
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	id, err := board.ParseID(args[0])
	if err != nil {
		return err
	}

	a, err := s.store.AttachDeliverable(id, kind, link)
	if err != nil {
		return err
	}
	t, _ := s.store.Task(id)
	return printTask(s, t, true, a.Content)
}
