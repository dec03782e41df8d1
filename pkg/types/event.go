package types

// EventKind identifies a step the installer reports
type EventKind string

const (
	EventPackageStart    EventKind = "package_start"
	EventPackageDone     EventKind = "package_done"
	EventPackageFailed   EventKind = "package_failed"
	EventPreCommand      EventKind = "pre_command"
	EventPostCommand     EventKind = "post_command"
	EventCommandFailed   EventKind = "command_failed"
	EventDestCreated     EventKind = "dest_created"
	EventBackupCreated   EventKind = "backup_created"
	EventFileCopied      EventKind = "file_copied"
	EventDirCopied       EventKind = "dir_copied"
	EventExtraFileCopied EventKind = "extra_file_copied"
	EventEnvVarWritten   EventKind = "env_var_written"
	EventProfileAppended EventKind = "profile_appended"
)

// Event describes one installer step.
//
// Subject is what the step acts on (a file, command or variable name) and
// Target where it lands. Both are empty when irrelevant to the kind.
type Event struct {
	Kind    EventKind
	Package string
	Subject string
	Target  string
	DryRun  bool
	Err     error
}

// Reporter receives installer events
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(Event)

// Report calls f(e)
func (f ReporterFunc) Report(e Event) { f(e) }

// Discard ignores every event
var Discard Reporter = ReporterFunc(func(Event) {})
