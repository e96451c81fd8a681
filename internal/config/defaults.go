// Package config handles cutboard board configuration and registries.
package config

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "cutboard"
	// DefaultTasksDir is the default seed tasks subdirectory name.
	DefaultTasksDir = "tasks"
	// DefaultCurrency is applied to new tasks created without one.
	DefaultCurrency = "INR"
	// DefaultDeadlineTime is the wall-clock time used when a deadline date has no time.
	DefaultDeadlineTime = "17:00"
	// DefaultActor is recorded on activity records produced by the local user.
	DefaultActor = "You"
	// DefaultPriority is the priority assumed when none is supplied.
	DefaultPriority = "medium"
	// DefaultTitle is used for tasks created without a title.
	DefaultTitle = "Untitled Project"
	// DefaultRetention is how long a paid, settled task stays visible.
	DefaultRetention = "168h"
	// DefaultActivationDistance is the pointer travel (in cells) before a press becomes a drag.
	DefaultActivationDistance = 5
	// DefaultAuditMaxEntries caps the audit log.
	DefaultAuditMaxEntries = 10000
	// DefaultFeedChannel is the redis channel activity records are published on.
	DefaultFeedChannel = "cutboard:activity"
	// DefaultFeedMaxLen caps the redis recent-activity list.
	DefaultFeedMaxLen = 500
	// DefaultCardWidth is the TUI column width in cells.
	DefaultCardWidth = 30

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"
	// RegistriesFileName holds the tag and category registries.
	RegistriesFileName = "registries.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 3
)

// Tie-break policies for drop candidates at equal distance.
const (
	TieBreakRegistration = "registration"
	TieBreakLatest       = "latest"
)

// Default slice values for a new board (slices cannot be const).
var (
	DefaultColumns = []ColumnConfig{
		{ID: "todo", DisplayName: "To-Do", Icon: "movie_edit"},
		{ID: "in-progress", DisplayName: "In Progress", Icon: "video_settings"},
		{ID: "revision", DisplayName: "In Revision", Icon: "rate_review"},
		{ID: "exported", DisplayName: "Exported", Icon: "check_circle"},
	}

	DefaultStages = StagesConfig{
		Intake:  "todo",
		Review:  "revision",
		Settled: "exported",
	}

	DefaultPriorities = []string{
		"low",
		"medium",
		"urgent",
	}

	DefaultTags = []TagConfig{
		{Label: "EDITING", Color: "blue"},
		{Label: "COLOR", Color: "pink"},
		{Label: "VFX", Color: "purple"},
		{Label: "ASSEMBLY", Color: "green"},
		{Label: "INGEST", Color: "cyan"},
		{Label: "REVISION", Color: "amber"},
		{Label: "FINAL", Color: "green"},
		{Label: "RUSH", Color: "red"},
	}

	DefaultCategories = []string{
		"Reel",
		"Ad",
		"Vlog",
		"Tutorial",
		"Gaming",
		"Documentary",
		"Music Video",
	}
)
