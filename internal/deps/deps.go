package deps

import (
	"os/exec"
	"strings"
)

// Status represents the installation status of a dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

func check(binary string, versionArgs ...string) Status {
	path, err := exec.LookPath(binary)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	if len(versionArgs) > 0 {
		output, err := exec.Command(path, versionArgs...).Output()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				status.Version = strings.TrimSpace(lines[0])
			}
		}
	}

	return status
}

// CheckPwRecord reports whether the PipeWire capture tool is available.
// Recording is impossible without it.
func CheckPwRecord() Status {
	return check("pw-record", "--version")
}

// CheckPwCli reports whether pw-cli is available; used to probe that
// the PipeWire daemon is actually running.
func CheckPwCli() Status {
	return check("pw-cli", "--version")
}

// CheckPactl reports whether pactl is available. Needed for listing
// audio sources and finding the system-audio monitor.
func CheckPactl() Status {
	return check("pactl", "--version")
}

// CheckNotifySend reports whether desktop notifications can be sent.
// Optional; the log notifier works without it.
func CheckNotifySend() Status {
	return check("notify-send", "--version")
}
