package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mintapp/mint/internal/notes"
)

func TestCreateMeeting(t *testing.T) {
	s := New(t.TempDir())

	id, err := s.CreateMeeting("Weekly Sync")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	if !strings.HasSuffix(id, "_weekly-sync") {
		t.Errorf("expected slug suffix in id, got %q", id)
	}
	if strings.Contains(id, ":") {
		t.Errorf("meeting id must be colon-free, got %q", id)
	}

	meta, err := s.Meeting(id)
	if err != nil {
		t.Fatalf("Meeting failed: %v", err)
	}
	if meta.ID != id || meta.Title != "Weekly Sync" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Status != StatusRecording {
		t.Errorf("new meeting should be recording, got %s", meta.Status)
	}
	if meta.EndedAt != nil {
		t.Errorf("endedAt should start null, got %v", *meta.EndedAt)
	}

	transcript, err := os.ReadFile(filepath.Join(s.Path(), id, "transcript.md"))
	if err != nil {
		t.Fatalf("transcript file missing: %v", err)
	}
	if string(transcript) != "# Transcript — Weekly Sync\n\n" {
		t.Errorf("unexpected transcript header: %q", string(transcript))
	}
}

func TestMetadataEndedAtStaysNullOnDisk(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Test")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(s.Path(), id, "metadata.json"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("parse metadata: %v", err)
	}
	if string(fields["endedAt"]) != "null" {
		t.Errorf("endedAt should serialize as null, got %s", fields["endedAt"])
	}
	if _, ok := fields["tags"]; ok {
		t.Error("tags should be omitted when unset")
	}
}

func TestAppendEntryFormat(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Format Check")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	entries := []Entry{
		{Speaker: "Me", Content: "Hello there", TimestampStart: 0.48, TimestampEnd: 1.2},
		{Speaker: "", Content: "Who is this?", TimestampStart: 65.9, TimestampEnd: 67.0},
		{Speaker: "Them", Content: "It's me", TimestampStart: 125.0, TimestampEnd: 126.5},
	}
	for _, e := range entries {
		if err := s.AppendEntry(id, e); err != nil {
			t.Fatalf("AppendEntry failed: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(s.Path(), id, "transcript.md"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}

	expected := "# Transcript — Format Check\n\n" +
		"[00:00] **Me**: Hello there\n" +
		"[01:05] **Unknown**: Who is this?\n" +
		"[02:05] **Them**: It's me\n"
	if string(data) != expected {
		t.Errorf("transcript mismatch:\ngot:\n%s\nwant:\n%s", data, expected)
	}
}

func TestTranscriptRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Round Trip")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	written := []Entry{
		{Speaker: "Me", Content: "First point", TimestampStart: 3.7, TimestampEnd: 5.1},
		{Speaker: "Them", Content: "Second point", TimestampStart: 62.2, TimestampEnd: 64.0},
		{Speaker: "", Content: "Unattributed remark", TimestampStart: 130.9, TimestampEnd: 131.4},
	}
	for _, e := range written {
		if err := s.AppendEntry(id, e); err != nil {
			t.Fatalf("AppendEntry failed: %v", err)
		}
	}

	parsed, err := s.Entries(id)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(parsed) != len(written) {
		t.Fatalf("expected %d entries, got %d", len(written), len(parsed))
	}

	for i, got := range parsed {
		want := written[i]
		wantSpeaker := want.Speaker
		if wantSpeaker == "" {
			wantSpeaker = "Unknown"
		}
		if got.Speaker != wantSpeaker {
			t.Errorf("entry %d speaker = %q, want %q", i, got.Speaker, wantSpeaker)
		}
		if got.Content != want.Content {
			t.Errorf("entry %d content = %q, want %q", i, got.Content, want.Content)
		}
		// durable format keeps whole seconds only
		if int(got.TimestampStart) != int(want.TimestampStart) {
			t.Errorf("entry %d timestamp = %v, want second bucket of %v", i, got.TimestampStart, want.TimestampStart)
		}
	}
}

func TestFullTranscriptBufferAndDiskAgree(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Agreement")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	for _, e := range []Entry{
		{Speaker: "Me", Content: "Buffered line", TimestampStart: 1},
		{Speaker: "", Content: "From nowhere", TimestampStart: 2},
	} {
		if err := s.AppendEntry(id, e); err != nil {
			t.Fatalf("AppendEntry failed: %v", err)
		}
	}

	fromBuffer, err := s.FullTranscript(id)
	if err != nil {
		t.Fatalf("FullTranscript (buffer) failed: %v", err)
	}

	s.ClearBuffer(id)

	fromDisk, err := s.FullTranscript(id)
	if err != nil {
		t.Fatalf("FullTranscript (disk) failed: %v", err)
	}

	expected := "Me: Buffered line\nUnknown: From nowhere"
	if fromBuffer != expected {
		t.Errorf("buffer transcript = %q, want %q", fromBuffer, expected)
	}
	if fromDisk != expected {
		t.Errorf("disk transcript = %q, want %q", fromDisk, expected)
	}
}

func TestUpdateStatus(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Lifecycle")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	if err := s.UpdateStatus(id, StatusProcessing, ""); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	meta, _ := s.Meeting(id)
	if meta.Status != StatusProcessing {
		t.Errorf("status = %s, want processing", meta.Status)
	}
	if meta.EndedAt != nil {
		t.Errorf("endedAt should still be null, got %v", *meta.EndedAt)
	}

	if err := s.UpdateStatus(id, StatusCompleted, "2026-08-31T10:00:00.000Z"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	meta, _ = s.Meeting(id)
	if meta.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", meta.Status)
	}
	if meta.EndedAt == nil || *meta.EndedAt != "2026-08-31T10:00:00.000Z" {
		t.Errorf("unexpected endedAt: %v", meta.EndedAt)
	}
}

func TestSaveNotesAndReadBack(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Notes Meeting")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	n := &notes.Notes{
		Summary:   "We agreed on the rollout plan.",
		Decisions: []string{"Ship Friday", "Skip the beta"},
		ActionItems: []notes.ActionItem{
			{Task: "Write changelog", Assignee: "Sam", DueDate: "Thursday"},
			{Task: "Update docs"},
		},
	}
	if err := s.SaveNotes(id, n); err != nil {
		t.Fatalf("SaveNotes failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Path(), id, "notes.md"))
	if err != nil {
		t.Fatalf("read notes: %v", err)
	}
	expected := "# Notes — Notes Meeting\n" +
		"\n" +
		"## Summary\n" +
		"We agreed on the rollout plan.\n" +
		"\n" +
		"## Decisions\n" +
		"- Ship Friday\n" +
		"- Skip the beta\n" +
		"\n" +
		"## Action Items\n" +
		"- [ ] Write changelog — Sam (due: Thursday)\n" +
		"- [ ] Update docs\n"
	if string(data) != expected {
		t.Errorf("notes.md mismatch:\ngot:\n%s\nwant:\n%s", data, expected)
	}

	parsed, err := s.Note(id)
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	if parsed.Summary != n.Summary {
		t.Errorf("summary = %q, want %q", parsed.Summary, n.Summary)
	}
	if len(parsed.Decisions) != 2 || parsed.Decisions[0] != "Ship Friday" {
		t.Errorf("unexpected decisions: %v", parsed.Decisions)
	}
	if len(parsed.ActionItems) != 2 {
		t.Fatalf("expected 2 action items, got %d", len(parsed.ActionItems))
	}
	if parsed.ActionItems[0].Assignee != "Sam" || parsed.ActionItems[0].DueDate != "Thursday" {
		t.Errorf("unexpected first action item: %+v", parsed.ActionItems[0])
	}
	if parsed.ActionItems[1].Task != "Update docs" || parsed.ActionItems[1].Assignee != "" {
		t.Errorf("unexpected second action item: %+v", parsed.ActionItems[1])
	}
}

func TestSaveNotesEmptySections(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Quiet Meeting")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	if err := s.SaveNotes(id, &notes.Notes{Summary: "Nothing decided."}); err != nil {
		t.Fatalf("SaveNotes failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(s.Path(), id, "notes.md"))
	if !strings.Contains(string(data), "## Decisions\n- None\n") {
		t.Errorf("empty decisions should render as '- None':\n%s", data)
	}
	if !strings.Contains(string(data), "## Action Items\n- [ ] None\n") {
		t.Errorf("empty action items should render as '- [ ] None':\n%s", data)
	}

	parsed, err := s.Note(id)
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	if len(parsed.Decisions) != 0 || len(parsed.ActionItems) != 0 {
		t.Errorf("None placeholders should parse to empty lists, got %+v", parsed)
	}
}

func TestNoteMissingReturnsNil(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("No Notes Yet")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	n, err := s.Note(id)
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	if n != nil {
		t.Errorf("expected nil notes for meeting without notes.md, got %+v", n)
	}
}

func TestMeetingsListsAndSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if _, err := s.CreateMeeting("First"); err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	if _, err := s.CreateMeeting("Second"); err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	// a stray folder without metadata must not break listing
	if err := os.MkdirAll(filepath.Join(dir, "not-a-meeting"), 0755); err != nil {
		t.Fatal(err)
	}

	meetings, err := s.Meetings()
	if err != nil {
		t.Fatalf("Meetings failed: %v", err)
	}
	if len(meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(meetings))
	}
	if meetings[0].StartedAt < meetings[1].StartedAt {
		t.Error("meetings should be sorted newest first")
	}
}

func TestRenameAndTags(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Old Title")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}

	if err := s.Rename(id, "New Title"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if err := s.SetTags(id, []string{"planning", "q3"}); err != nil {
		t.Fatalf("SetTags failed: %v", err)
	}

	meta, _ := s.Meeting(id)
	if meta.Title != "New Title" {
		t.Errorf("title = %q, want New Title", meta.Title)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "planning" {
		t.Errorf("unexpected tags: %v", meta.Tags)
	}
	if meta.ID != id {
		t.Errorf("rename must not change the id, got %q", meta.ID)
	}
}

func TestDelete(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.CreateMeeting("Doomed")
	if err != nil {
		t.Fatalf("CreateMeeting failed: %v", err)
	}
	if err := s.AppendEntry(id, Entry{Speaker: "Me", Content: "gone soon"}); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.Path(), id)); !os.IsNotExist(err) {
		t.Error("meeting folder should be removed")
	}
	if _, err := s.Meeting(id); err == nil {
		t.Error("expected error reading deleted meeting")
	}

	// buffer must be gone too
	transcript, err := s.FullTranscript(id)
	if err != nil {
		t.Fatalf("FullTranscript failed: %v", err)
	}
	if transcript != "" {
		t.Errorf("expected empty transcript after delete, got %q", transcript)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00"},
		{0.9, "00:00"},
		{59.99, "00:59"},
		{60, "01:00"},
		{61.5, "01:01"},
		{3599, "59:59"},
		{3661, "61:01"},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.seconds); got != tt.expected {
			t.Errorf("formatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.expected)
		}
	}
}
