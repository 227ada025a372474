// Package daemon runs the long-lived mint process: it owns the meeting
// orchestrator, watches the config file, and serves the control socket.
package daemon

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mintapp/mint/internal/bus"
	"github.com/mintapp/mint/internal/config"
	"github.com/mintapp/mint/internal/meeting"
	"github.com/mintapp/mint/internal/notify"
	"github.com/mintapp/mint/internal/session"
	"github.com/mintapp/mint/internal/store"
)

type Daemon struct {
	manager  *config.Manager
	orch     *meeting.Orchestrator
	notifier notify.Notifier

	ctx    context.Context
	cancel context.CancelFunc
}

// New wires the production daemon: config manager, store, orchestrator.
func New() (*Daemon, error) {
	manager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := manager.GetConfig()
	notifier := notify.New(cfg.Notifications.Type)
	st := store.New(cfg.StoragePath())
	orch := meeting.New(manager.GetConfig, st, notifier)

	return newDaemon(manager, orch, notifier), nil
}

// NewWithOrchestrator builds a daemon around a preassembled
// orchestrator. Used by tests; manager may be nil, which disables
// config watching.
func NewWithOrchestrator(manager *config.Manager, orch *meeting.Orchestrator, notifier notify.Notifier) *Daemon {
	return newDaemon(manager, orch, notifier)
}

func newDaemon(manager *config.Manager, orch *meeting.Orchestrator, notifier notify.Notifier) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		manager:  manager,
		orch:     orch,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	if d.manager != nil {
		if err := d.manager.StartWatching(d.ctx); err != nil {
			log.Printf("daemon: config watching disabled: %v", err)
		}
		defer d.manager.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		log.Printf("daemon: received signal %v, shutting down", sig)
		d.cancel()
	}()

	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	log.Printf("daemon: listening on control socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				d.shutdown()
				return nil
			}
			log.Printf("daemon: accept error: %v", err)
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

// shutdown stops any active recording so no meeting is left stranded in
// status recording when the daemon exits.
func (d *Daemon) shutdown() {
	if _, active := d.orch.Active(); active {
		log.Printf("daemon: stopping active recording before exit")
		if err := d.orch.Stop(context.Background()); err != nil {
			log.Printf("daemon: stop during shutdown: %v", err)
		}
	}
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("daemon: client read error: %v", err)
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}

	line = strings.TrimRight(line, "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fmt.Fprint(c, "ERR empty\n")
		return
	}

	switch fields[0] {
	case "start":
		title := strings.TrimSpace(strings.TrimPrefix(line, "start"))
		id, err := d.orch.Start(d.ctx, title)
		if err != nil {
			fmt.Fprintf(c, "ERR start_failed: %v\n", err)
			return
		}
		fmt.Fprintf(c, "OK %s\n", id)

	case "stop":
		if err := d.orch.Stop(d.ctx); err != nil {
			fmt.Fprintf(c, "ERR stop_failed: %v\n", err)
			return
		}
		fmt.Fprint(c, "OK stopped\n")

	case "status":
		if id, active := d.orch.Active(); active {
			fmt.Fprintf(c, "STATUS state=recording meeting=%s\n", id)
		} else {
			fmt.Fprint(c, "STATUS state=idle\n")
		}

	case "regenerate":
		if len(fields) < 2 {
			fmt.Fprint(c, "ERR missing_meeting_id\n")
			return
		}
		if err := d.orch.Regenerate(d.ctx, fields[1]); err != nil {
			fmt.Fprintf(c, "ERR regenerate_failed: %v\n", err)
			return
		}
		fmt.Fprint(c, "OK regenerated\n")

	case "watch":
		d.watch(c)

	case "version":
		fmt.Fprintf(c, "STATUS proto=%s\n", bus.ProtoVer)

	case "quit":
		fmt.Fprint(c, "OK quitting\n")
		d.cancel()

	default:
		log.Printf("daemon: unknown command: %q", fields[0])
		fmt.Fprintf(c, "ERR unknown=%q\n", fields[0])
	}
}

// watch streams the live transcript feed until the client hangs up or
// the recording ends.
func (d *Daemon) watch(c net.Conn) {
	feed, unsubscribe, err := d.orch.Subscribe()
	if err != nil {
		fmt.Fprintf(c, "ERR not_recording: %v\n", err)
		return
	}
	defer unsubscribe()

	fmt.Fprint(c, "OK watching\n")

	for fe := range feed {
		if _, err := fmt.Fprintf(c, "%s\n", formatEventLine(fe.Event)); err != nil {
			return // client gone
		}
	}
	fmt.Fprint(c, "END recording_stopped\n")
}

func formatEventLine(ev session.Event) string {
	kind := "INTERIM"
	if ev.IsFinal {
		kind = "FINAL"
	}
	speaker := ev.Speaker
	if speaker == "" {
		speaker = "Unknown"
	}
	total := int(ev.TimestampStart)
	return fmt.Sprintf("%s [%02d:%02d] %s: %s", kind, total/60, total%60, speaker, ev.Content)
}
