package notify

import (
	"fmt"
	"log"
	"os/exec"
)

// Notifier surfaces meeting lifecycle events to the user.
type Notifier interface {
	RecordingStarted(title string)
	RecordingStopped(title string)
	NotesReady(title string)
	NotesFailed(title string)
	Error(msg string)
}

// New returns a notifier for the configured type. Unknown types fall
// back to log output.
func New(notifierType string) Notifier {
	switch notifierType {
	case "desktop":
		return Desktop{}
	case "none":
		return Nop{}
	case "log", "":
		return Log{}
	default:
		return Log{}
	}
}

// Desktop sends notifications via notify-send.
type Desktop struct{}

func (Desktop) send(msg string, critical bool) {
	args := []string{"-a", "MINT"}
	if critical {
		args = append(args, "-u", "critical")
	}
	args = append(args, msg)
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		log.Printf("notify: failed to send notification: %v", err)
	}
}

func (d Desktop) RecordingStarted(title string) {
	d.send(fmt.Sprintf("Recording started: %s", title), false)
}

func (d Desktop) RecordingStopped(title string) {
	d.send(fmt.Sprintf("Recording stopped: %s", title), false)
}

func (d Desktop) NotesReady(title string) {
	d.send(fmt.Sprintf("Notes ready: %s", title), false)
}

func (d Desktop) NotesFailed(title string) {
	d.send(fmt.Sprintf("Notes generation failed: %s", title), true)
}

func (d Desktop) Error(msg string) {
	d.send(msg, true)
}

// Log writes notifications to the process log. Useful for headless
// setups without a notification daemon.
type Log struct{}

func (Log) RecordingStarted(title string) { log.Printf("notify: recording started: %s", title) }
func (Log) RecordingStopped(title string) { log.Printf("notify: recording stopped: %s", title) }
func (Log) NotesReady(title string)       { log.Printf("notify: notes ready: %s", title) }
func (Log) NotesFailed(title string)      { log.Printf("notify: notes generation failed: %s", title) }
func (Log) Error(msg string)              { log.Printf("notify: error: %s", msg) }

// Nop does nothing. Used in tests.
type Nop struct{}

func (Nop) RecordingStarted(title string) {}
func (Nop) RecordingStopped(title string) {}
func (Nop) NotesReady(title string)       {}
func (Nop) NotesFailed(title string)      {}
func (Nop) Error(msg string)              {}
