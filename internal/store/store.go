// Package store persists meetings as folders under a storage root. Each
// meeting folder holds metadata.json, an append-only transcript.md, and
// an optional notes.md. The markdown files are the durable format: the
// store can reconstruct the transcript from disk alone.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mintapp/mint/internal/notes"
)

type Status string

const (
	StatusRecording  Status = "recording"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Metadata is the per-meeting metadata.json record. EndedAt stays null
// until the meeting stops.
type Metadata struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Status    Status   `json:"status"`
	StartedAt string   `json:"startedAt"`
	EndedAt   *string  `json:"endedAt"`
	Tags      []string `json:"tags,omitempty"`
}

// Entry is one finalized transcript segment. Speaker "" means unknown
// and is persisted as the literal "Unknown". Timestamps are seconds on
// the provider clock; the durable format keeps whole seconds only.
type Entry struct {
	Speaker        string
	Content        string
	TimestampStart float64
	TimestampEnd   float64
}

var transcriptLinePattern = regexp.MustCompile(`^\[(\d{2}):(\d{2})\]\s\*\*(.+?)\*\*:\s(.+)$`)

// Store manages meeting folders under a single root. The in-memory
// transcript buffers exist so notes generation can skip re-parsing
// disk; disk stays the source of truth.
type Store struct {
	path string

	mu      sync.Mutex
	buffers map[string][]Entry
}

func New(path string) *Store {
	return &Store{
		path:    path,
		buffers: make(map[string][]Entry),
	}
}

func (s *Store) Path() string {
	return s.path
}

// CreateMeeting allocates a meeting folder, writes initial metadata in
// status recording, and seeds the transcript file with its header.
// Returns the meeting id, which doubles as the folder name.
func (s *Store) CreateMeeting(title string) (string, error) {
	if err := os.MkdirAll(s.path, 0755); err != nil {
		return "", NewPersistenceError(fmt.Errorf("create storage dir: %w", err))
	}

	now := time.Now().UTC()
	id := meetingID(now, title)
	meetingPath := filepath.Join(s.path, id)

	if err := os.MkdirAll(meetingPath, 0755); err != nil {
		return "", NewPersistenceError(fmt.Errorf("create meeting dir: %w", err))
	}

	meta := Metadata{
		ID:        id,
		Title:     title,
		Status:    StatusRecording,
		StartedAt: now.Format("2006-01-02T15:04:05.000Z07:00"),
		EndedAt:   nil,
	}
	if err := s.writeMetadata(id, &meta); err != nil {
		return "", err
	}

	header := fmt.Sprintf("# Transcript — %s\n\n", title)
	if err := os.WriteFile(filepath.Join(meetingPath, "transcript.md"), []byte(header), 0644); err != nil {
		return "", NewPersistenceError(fmt.Errorf("write transcript header: %w", err))
	}

	s.mu.Lock()
	s.buffers[id] = []Entry{}
	s.mu.Unlock()

	return id, nil
}

// UpdateStatus rewrites the meeting's status. A non-empty endedAt also
// stamps the end time; pass "" to leave it untouched.
func (s *Store) UpdateStatus(id string, status Status, endedAt string) error {
	meta, err := s.Meeting(id)
	if err != nil {
		return err
	}
	meta.Status = status
	if endedAt != "" {
		meta.EndedAt = &endedAt
	}
	return s.writeMetadata(id, meta)
}

// AppendEntry persists one finalized entry: a transcript.md line plus
// an in-memory buffer append. The buffer append happens even when the
// disk write fails, so the live transcript survives disk trouble.
func (s *Store) AppendEntry(id string, e Entry) error {
	s.mu.Lock()
	s.buffers[id] = append(s.buffers[id], e)
	s.mu.Unlock()

	speaker := e.Speaker
	if speaker == "" {
		speaker = "Unknown"
	}
	line := fmt.Sprintf("[%s] **%s**: %s\n", formatTimestamp(e.TimestampStart), speaker, e.Content)

	transcriptPath := filepath.Join(s.path, id, "transcript.md")
	f, err := os.OpenFile(transcriptPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return NewPersistenceError(fmt.Errorf("open transcript: %w", err))
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return NewPersistenceError(fmt.Errorf("append transcript line: %w", err))
	}
	return nil
}

// FullTranscript returns the meeting transcript as "Speaker: content"
// lines, preferring the in-memory buffer and falling back to re-parsing
// transcript.md. Both paths yield equivalent text (whole-second
// timestamps never appear in this representation).
func (s *Store) FullTranscript(id string) (string, error) {
	s.mu.Lock()
	buffer := s.buffers[id]
	s.mu.Unlock()

	entries := buffer
	if len(entries) == 0 {
		var err error
		entries, err = s.Entries(id)
		if err != nil {
			return "", err
		}
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		speaker := e.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, e.Content))
	}
	return strings.Join(lines, "\n"), nil
}

// ClearBuffer drops the in-memory transcript buffer for a meeting.
// Called after the full transcript has been consumed for notes
// generation; subsequent reads fall back to disk.
func (s *Store) ClearBuffer(id string) {
	s.mu.Lock()
	delete(s.buffers, id)
	s.mu.Unlock()
}

// SaveNotes writes (or overwrites) the meeting's notes.md.
func (s *Store) SaveNotes(id string, n *notes.Notes) error {
	meta, err := s.Meeting(id)
	if err != nil {
		return err
	}

	decisionLines := make([]string, 0, len(n.Decisions))
	for _, d := range n.Decisions {
		decisionLines = append(decisionLines, "- "+d)
	}
	decisions := strings.Join(decisionLines, "\n")
	if decisions == "" {
		decisions = "- None"
	}

	actionLines := make([]string, 0, len(n.ActionItems))
	for _, item := range n.ActionItems {
		line := "- [ ] " + item.Task
		if item.Assignee != "" {
			line += " — " + item.Assignee
		}
		if item.DueDate != "" {
			line += fmt.Sprintf(" (due: %s)", item.DueDate)
		}
		actionLines = append(actionLines, line)
	}
	actions := strings.Join(actionLines, "\n")
	if actions == "" {
		actions = "- [ ] None"
	}

	content := strings.Join([]string{
		"# Notes — " + meta.Title,
		"",
		"## Summary",
		n.Summary,
		"",
		"## Decisions",
		decisions,
		"",
		"## Action Items",
		actions,
		"",
	}, "\n")

	notesPath := filepath.Join(s.path, id, "notes.md")
	if err := os.WriteFile(notesPath, []byte(content), 0644); err != nil {
		return NewPersistenceError(fmt.Errorf("write notes: %w", err))
	}
	return nil
}

// Note reads notes.md back into structured form. Returns (nil, nil)
// when no notes exist yet.
func (s *Store) Note(id string) (*notes.Notes, error) {
	data, err := os.ReadFile(filepath.Join(s.path, id, "notes.md"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, NewPersistenceError(fmt.Errorf("read notes: %w", err))
	}
	return parseNotesMarkdown(string(data)), nil
}

// Entries re-parses transcript.md into the ordered entry sequence.
// Sub-second precision is lost; TimestampEnd collapses onto the start.
func (s *Store) Entries(id string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(s.path, id, "transcript.md"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, NewPersistenceError(fmt.Errorf("read transcript: %w", err))
	}

	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		m := transcriptLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		ts := float64(minutes*60 + seconds)
		entries = append(entries, Entry{
			Speaker:        m[3],
			Content:        m[4],
			TimestampStart: ts,
			TimestampEnd:   ts,
		})
	}
	return entries, nil
}

// Meetings lists all meetings, newest first. Folders without valid
// metadata are skipped.
func (s *Store) Meetings() ([]Metadata, error) {
	if err := os.MkdirAll(s.path, 0755); err != nil {
		return nil, NewPersistenceError(fmt.Errorf("create storage dir: %w", err))
	}

	dirEntries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, NewPersistenceError(fmt.Errorf("read storage dir: %w", err))
	}

	var meetings []Metadata
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		meta, err := s.Meeting(de.Name())
		if err != nil {
			continue
		}
		meetings = append(meetings, *meta)
	}

	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].StartedAt > meetings[j].StartedAt
	})
	return meetings, nil
}

func (s *Store) Meeting(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.path, id, "metadata.json"))
	if err != nil {
		return nil, NewPersistenceError(fmt.Errorf("read metadata: %w", err))
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, NewPersistenceError(fmt.Errorf("parse metadata: %w", err))
	}
	return &meta, nil
}

func (s *Store) Rename(id, newTitle string) error {
	meta, err := s.Meeting(id)
	if err != nil {
		return err
	}
	meta.Title = newTitle
	return s.writeMetadata(id, meta)
}

func (s *Store) SetTags(id string, tags []string) error {
	meta, err := s.Meeting(id)
	if err != nil {
		return err
	}
	meta.Tags = tags
	return s.writeMetadata(id, meta)
}

func (s *Store) Delete(id string) error {
	if err := os.RemoveAll(filepath.Join(s.path, id)); err != nil {
		return NewPersistenceError(fmt.Errorf("delete meeting: %w", err))
	}
	s.mu.Lock()
	delete(s.buffers, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) writeMetadata(id string, meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return NewPersistenceError(fmt.Errorf("marshal metadata: %w", err))
	}
	metadataPath := filepath.Join(s.path, id, "metadata.json")
	if err := os.WriteFile(metadataPath, data, 0644); err != nil {
		return NewPersistenceError(fmt.Errorf("write metadata: %w", err))
	}
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// meetingID builds the folder name: a colon-free second-precision UTC
// timestamp plus a lowercased title slug.
func meetingID(now time.Time, title string) string {
	ts := now.Format("2006-01-02T15-04-05")
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	return ts + "_" + slug
}

// formatTimestamp renders seconds as zero-padded MM:SS, flooring
// sub-second precision.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// parseNotesMarkdown reconstructs structured notes from notes.md.
// "- None" placeholders parse back to empty lists.
func parseNotesMarkdown(content string) *notes.Notes {
	n := &notes.Notes{
		Decisions:   []string{},
		ActionItems: []notes.ActionItem{},
	}

	actionItemPattern := regexp.MustCompile(`^-\s*\[[ x]\]\s*(.+)$`)
	dueDatePattern := regexp.MustCompile(`\(due:\s*(.+?)\)`)

	for _, section := range strings.Split(content, "\n## ") {
		switch {
		case strings.HasPrefix(section, "Summary"):
			n.Summary = strings.TrimSpace(strings.TrimPrefix(section, "Summary\n"))
		case strings.HasPrefix(section, "Decisions"):
			body := strings.TrimSpace(strings.TrimPrefix(section, "Decisions\n"))
			for _, line := range strings.Split(body, "\n") {
				cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
				if cleaned != "" && cleaned != "None" {
					n.Decisions = append(n.Decisions, cleaned)
				}
			}
		case strings.HasPrefix(section, "Action Items"):
			body := strings.TrimSpace(strings.TrimPrefix(section, "Action Items\n"))
			for _, line := range strings.Split(body, "\n") {
				m := actionItemPattern.FindStringSubmatch(strings.TrimSpace(line))
				if m == nil || m[1] == "None" {
					continue
				}
				raw := m[1]

				var dueDate string
				if dm := dueDatePattern.FindStringSubmatch(raw); dm != nil {
					dueDate = dm[1]
					raw = strings.TrimSpace(dueDatePattern.ReplaceAllString(raw, ""))
				}

				task := raw
				var assignee string
				if idx := strings.Index(raw, " — "); idx >= 0 {
					task = strings.TrimSpace(raw[:idx])
					assignee = strings.TrimSpace(raw[idx+len(" — "):])
				}

				n.ActionItems = append(n.ActionItems, notes.ActionItem{
					Task:     task,
					Assignee: assignee,
					DueDate:  dueDate,
				})
			}
		}
	}
	return n
}
