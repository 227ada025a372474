package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Device describes one PipeWire audio source.
type Device struct {
	ID      string
	Name    string
	Monitor bool // true for loopback/monitor sources (system audio)
}

// ListDevices enumerates PipeWire audio sources via pactl. Monitor
// sources carry the system-audio loopback.
func ListDevices(ctx context.Context) ([]Device, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	listCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	cmd := exec.CommandContext(listCtx, "pactl", "list", "short", "sources")
	output, err := cmd.Output()
	if err != nil {
		return nil, NewDeviceError(fmt.Errorf("list sources: %w", err))
	}

	var devices []Device
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{
			ID:      fields[0],
			Name:    fields[1],
			Monitor: strings.Contains(fields[1], ".monitor"),
		})
	}
	return devices, nil
}

// DefaultMonitorSource finds the first monitor source, used for
// system-audio capture when no explicit target is configured.
func DefaultMonitorSource(ctx context.Context) (string, error) {
	devices, err := ListDevices(ctx)
	if err != nil {
		return "", err
	}
	for _, d := range devices {
		if d.Monitor {
			return d.Name, nil
		}
	}
	return "", NewDeviceError(fmt.Errorf("no monitor source found"))
}
