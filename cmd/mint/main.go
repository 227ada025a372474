package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mintapp/mint/internal/bus"
	"github.com/mintapp/mint/internal/config"
	"github.com/mintapp/mint/internal/daemon"
	"github.com/mintapp/mint/internal/deps"
	"github.com/mintapp/mint/internal/meeting"
	"github.com/mintapp/mint/internal/notify"
	"github.com/mintapp/mint/internal/store"
	"github.com/mintapp/mint/internal/tui"
	"github.com/mintapp/mint/internal/version"
)

func main() {
	_ = rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "mint",
	Short: "Meeting capture, live transcription and structured notes",
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		startCmd(),
		stopCmd(),
		statusCmd(),
		watchCmd(),
		listCmd(),
		showCmd(),
		renameCmd(),
		tagCmd(),
		deleteCmd(),
		regenerateCmd(),
		configureCmd(),
		doctorCmd(),
		quitCmd(),
		versionCmd(),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := daemon.New()
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}
			return d.Run()
		},
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [title...]",
		Short: "Start recording a meeting",
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			resp, err := bus.SendCommand(strings.TrimSpace("start " + title))
			if err != nil {
				return fmt.Errorf("failed to start recording (is the daemon running?): %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active recording and generate notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand("stop")
			if err != nil {
				return fmt.Errorf("failed to stop recording: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get current recording status",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand("status")
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream the live transcript of the active recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, reader, err := bus.OpenStream("watch")
			if err != nil {
				return fmt.Errorf("failed to watch: %w", err)
			}
			defer conn.Close()

			for {
				line, err := reader.ReadString('\n')
				if err != nil {
					if err == io.EOF {
						return nil
					}
					return err
				}
				fmt.Print(line)
			}
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded meetings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meetings, err := st.Meetings()
			if err != nil {
				return err
			}
			if len(meetings) == 0 {
				fmt.Println("No meetings yet.")
				return nil
			}
			for _, m := range meetings {
				line := fmt.Sprintf("%-10s %s  %s", m.Status, m.StartedAt, m.Title)
				if len(m.Tags) > 0 {
					line += fmt.Sprintf("  [%s]", strings.Join(m.Tags, ", "))
				}
				fmt.Println(line)
				fmt.Printf("           id: %s\n", m.ID)
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	var transcriptOnly bool

	cmd := &cobra.Command{
		Use:   "show <meeting-id>",
		Short: "Show a meeting's transcript and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return runShow(st, args[0], transcriptOnly)
		},
	}

	cmd.Flags().BoolVar(&transcriptOnly, "transcript", false, "show only the transcript")
	return cmd
}

func runShow(st *store.Store, id string, transcriptOnly bool) error {
	meta, err := st.Meeting(id)
	if err != nil {
		return fmt.Errorf("unknown meeting: %w", err)
	}

	fmt.Printf("%s (%s)\n", meta.Title, meta.Status)
	fmt.Printf("started: %s", meta.StartedAt)
	if meta.EndedAt != nil {
		fmt.Printf("  ended: %s", *meta.EndedAt)
	}
	fmt.Println()
	if len(meta.Tags) > 0 {
		fmt.Printf("tags: %s\n", strings.Join(meta.Tags, ", "))
	}
	fmt.Println()

	entries, err := st.Entries(id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("(empty transcript)")
	}
	for _, e := range entries {
		total := int(e.TimestampStart)
		fmt.Printf("[%02d:%02d] %s: %s\n", total/60, total%60, e.Speaker, e.Content)
	}

	if transcriptOnly {
		return nil
	}

	n, err := st.Note(id)
	if err != nil {
		return err
	}
	if n == nil {
		return nil
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Println(n.Summary)
	fmt.Println()
	fmt.Println("Decisions:")
	if len(n.Decisions) == 0 {
		fmt.Println("- None")
	}
	for _, d := range n.Decisions {
		fmt.Printf("- %s\n", d)
	}
	fmt.Println()
	fmt.Println("Action Items:")
	if len(n.ActionItems) == 0 {
		fmt.Println("- None")
	}
	for _, item := range n.ActionItems {
		line := "- " + item.Task
		if item.Assignee != "" {
			line += " (" + item.Assignee
			if item.DueDate != "" {
				line += ", due " + item.DueDate
			}
			line += ")"
		} else if item.DueDate != "" {
			line += " (due " + item.DueDate + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <meeting-id> <new-title...>",
		Short: "Rename a meeting",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			if err := st.Rename(args[0], title); err != nil {
				return err
			}
			fmt.Printf("renamed to %q\n", title)
			return nil
		},
	}
}

func tagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <meeting-id> [tags...]",
		Short: "Set a meeting's tags (no tags clears them)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			if err := st.SetTags(args[0], args[1:]); err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Println("tags cleared")
			} else {
				fmt.Printf("tags set: %s\n", strings.Join(args[1:], ", "))
			}
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <meeting-id>",
		Short: "Delete a meeting and everything stored for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			if err := st.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func regenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <meeting-id>",
		Short: "Re-run notes generation for a finished meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// prefer the daemon; fall back to doing it in-process
			if resp, err := bus.SendCommand("regenerate " + args[0]); err == nil {
				fmt.Println(resp)
				return nil
			}
			return regenerateLocal(cmd.Context(), args[0])
		},
	}
}

func regenerateLocal(ctx context.Context, id string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st := store.New(cfg.StoragePath())
	orch := meeting.New(func() *config.Config { return cfg }, st, notify.New(cfg.Notifications.Type))

	if err := orch.Regenerate(ctx, id); err != nil {
		return err
	}
	fmt.Println("OK regenerated")
	return nil
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard for mint.
This will guide you through setting up:
- Provider API keys (Deepgram, OpenAI, Gemini)
- Transcription and notes settings
- Recording devices and storage location`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
	return nil
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external dependencies and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := []struct {
				name     string
				status   deps.Status
				required bool
			}{
				{"pw-record", deps.CheckPwRecord(), true},
				{"pw-cli", deps.CheckPwCli(), true},
				{"pactl", deps.CheckPactl(), false},
				{"notify-send", deps.CheckNotifySend(), false},
			}

			allRequired := true
			for _, c := range checks {
				mark := "[x]"
				if !c.status.Installed {
					mark = "[ ]"
					if c.required {
						allRequired = false
					}
				}
				line := fmt.Sprintf("%s %s", mark, c.name)
				if c.status.Version != "" {
					line += " - " + c.status.Version
				}
				if !c.status.Installed && !c.required {
					line += " (optional)"
				}
				fmt.Println(line)
			}

			cfg, err := config.Load()
			if err != nil {
				fmt.Printf("[ ] config: %v\n", err)
				return nil
			}
			if err := cfg.Validate(); err != nil {
				fmt.Printf("[ ] config: %v\n", err)
			} else {
				fmt.Println("[x] config valid")
			}

			if !allRequired {
				fmt.Println()
				fmt.Println("Recording requires the PipeWire tools (install pipewire-utils).")
			}
			return nil
		},
	}
}

func quitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Stop the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand("quit")
			if err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.String())
			if resp, err := bus.SendCommand("version"); err == nil {
				fmt.Println(resp)
			}
			return nil
		},
	}
}

func openStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return store.New(cfg.StoragePath()), nil
}
