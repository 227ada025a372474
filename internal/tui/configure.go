// Package tui holds the interactive configuration wizard.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mintapp/mint/internal/config"
)

// ConfigureResult holds the configuration result from the wizard
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents one configuration menu entry
type ConfigSection string

const (
	SectionProviders     ConfigSection = "providers"
	SectionTranscription ConfigSection = "transcription"
	SectionNotes         ConfigSection = "notes"
	SectionRecording     ConfigSection = "recording"
	SectionStorage       ConfigSection = "storage"
	SectionNotifications ConfigSection = "notifications"
	SectionSaveExit      ConfigSection = "save_exit"
	SectionDiscardExit   ConfigSection = "discard_exit"
)

// AllProviders lists every external provider an API key can be set for.
var AllProviders = []string{"deepgram", "openai", "gemini"}

var providerDisplayNames = map[string]string{
	"deepgram": "Deepgram",
	"openai":   "OpenAI",
	"gemini":   "Gemini",
}

// Run starts the configuration wizard on a copy of the given config and
// returns the edited result. The caller decides whether to save.
func Run(existing *config.Config) (*ConfigureResult, error) {
	cfg := existing
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]config.ProviderConfig)
	}

	for {
		clearScreen()
		fmt.Println(Logo())
		fmt.Println()

		section, err := selectSection(cfg)
		if err != nil {
			return &ConfigureResult{Cancelled: true}, nil
		}

		switch section {
		case SectionSaveExit:
			if err := cfg.Validate(); err != nil {
				fmt.Println(StyleError.Render(fmt.Sprintf("Invalid configuration: %v", err)))
				if !confirm("Keep editing?") {
					return &ConfigureResult{Cancelled: true}, nil
				}
				continue
			}
			return &ConfigureResult{Config: cfg, Cancelled: false}, nil

		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil

		case SectionProviders:
			editProviders(cfg)

		case SectionTranscription:
			editTranscription(cfg)

		case SectionNotes:
			editNotes(cfg)

		case SectionRecording:
			editRecording(cfg)

		case SectionStorage:
			editStorage(cfg)

		case SectionNotifications:
			editNotifications(cfg)
		}
	}
}

func selectSection(cfg *config.Config) (ConfigSection, error) {
	options := []huh.Option[ConfigSection]{
		huh.NewOption(formatProvidersLabel(cfg), SectionProviders),
		huh.NewOption(fmt.Sprintf("Transcription (%s / %s)", cfg.Transcription.Provider, cfg.Transcription.Model), SectionTranscription),
		huh.NewOption(fmt.Sprintf("Notes (%s)", cfg.Notes.Provider), SectionNotes),
		huh.NewOption("Recording & Devices", SectionRecording),
		huh.NewOption(fmt.Sprintf("Storage (%s)", cfg.StoragePath()), SectionStorage),
		huh.NewOption(formatNotificationsLabel(cfg), SectionNotifications),
		huh.NewOption("Save & Exit", SectionSaveExit),
		huh.NewOption("Discard & Exit", SectionDiscardExit),
	}

	var selected ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration Menu").
				Description("↑/↓ navigate • enter select • esc cancel").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}

func editProviders(cfg *config.Config) {
	for {
		var options []huh.Option[string]
		for _, name := range AllProviders {
			label := providerDisplayName(name)
			if key := cfg.Providers[name].APIKey; key != "" {
				label = fmt.Sprintf("%s (%s)", label, maskAPIKey(key))
			}
			options = append(options, huh.NewOption(label, name))
		}
		options = append(options, huh.NewOption("Done", ""))

		var selected string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("API Keys").
					Options(options...).
					Value(&selected),
			),
		).WithTheme(getTheme())
		if err := form.Run(); err != nil || selected == "" {
			return
		}

		key := cfg.Providers[selected].APIKey
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(fmt.Sprintf("%s API key", providerDisplayName(selected))).
					EchoMode(huh.EchoModePassword).
					Value(&key),
			),
		).WithTheme(getTheme())
		if err := form.Run(); err != nil {
			continue
		}
		cfg.Providers[selected] = config.ProviderConfig{APIKey: key}
	}
}

func editTranscription(cfg *config.Config) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Model").
				Description("Deepgram live model, e.g. nova-2").
				Value(&cfg.Transcription.Model),
			huh.NewInput().
				Title("Language").
				Description("BCP-47 code, empty for auto-detect").
				Value(&cfg.Transcription.Language),
			huh.NewInput().
				Title("Microphone speaker label").
				Value(&cfg.Transcription.MicLabel),
			huh.NewInput().
				Title("System-audio speaker label").
				Value(&cfg.Transcription.SystemLabel),
		),
	).WithTheme(getTheme())
	_ = form.Run()
}

func editNotes(cfg *config.Config) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Notes provider").
				Options(
					huh.NewOption("OpenAI", "openai"),
					huh.NewOption("Gemini", "gemini"),
					huh.NewOption("Ollama (local)", "ollama"),
				).
				Value(&cfg.Notes.Provider),
			huh.NewInput().
				Title("Model").
				Description("Empty uses the provider default").
				Value(&cfg.Notes.Model),
			huh.NewInput().
				Title("Base URL").
				Description("Only for Ollama / OpenAI-compatible backends").
				Value(&cfg.Notes.BaseURL),
		),
	).WithTheme(getTheme())
	_ = form.Run()
}

func editRecording(cfg *config.Config) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Microphone target").
				Description("PipeWire target; empty uses the default source").
				Value(&cfg.Recording.Device),
			huh.NewConfirm().
				Title("Capture system audio").
				Description("Also transcribe the other meeting participants").
				Value(&cfg.Recording.SystemAudio),
			huh.NewInput().
				Title("System-audio target").
				Description("Monitor source; empty auto-detects").
				Value(&cfg.Recording.SystemDevice),
		),
	).WithTheme(getTheme())
	_ = form.Run()
}

func editStorage(cfg *config.Config) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Storage path").
				Description("Meeting folders live here; empty uses ~/Documents/MINT").
				Value(&cfg.Storage.Path),
		),
	).WithTheme(getTheme())
	_ = form.Run()
}

func editNotifications(cfg *config.Config) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications").
				Value(&cfg.Notifications.Enabled),
			huh.NewSelect[string]().
				Title("Notification type").
				Options(
					huh.NewOption("Desktop (notify-send)", "desktop"),
					huh.NewOption("Log only", "log"),
					huh.NewOption("None", "none"),
				).
				Value(&cfg.Notifications.Type),
		),
	).WithTheme(getTheme())
	_ = form.Run()
}

func confirm(title string) bool {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Value(&ok),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return false
	}
	return ok
}

func formatProvidersLabel(cfg *config.Config) string {
	configured := 0
	for _, pc := range cfg.Providers {
		if pc.APIKey != "" {
			configured++
		}
	}
	return fmt.Sprintf("API Keys (%d/%d configured)", configured, len(AllProviders))
}

func formatNotificationsLabel(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "Notifications (off)"
	}
	return fmt.Sprintf("Notifications (%s)", cfg.Notifications.Type)
}

func providerDisplayName(name string) string {
	if display, ok := providerDisplayNames[name]; ok {
		return display
	}
	return name
}

// maskAPIKey returns a masked version of an API key for display
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
