package ui

import (
	"strings"
	"testing"
	"time"

	"tarsterm/internal/model/chat"
	"tarsterm/internal/model/settings"
)

func sampleSessions() []chat.Session {
	return []chat.Session{
		{ID: "s1", Name: "Quiet Gargantua", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{ID: "s2", Name: "Docking Attempt", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
}

func TestBuildCommandsIncludesSessionsAndPresets(t *testing.T) {
	cmds := buildCommands(sampleSessions(), settings.Presets())

	var haveLoad, haveDelete, havePreset bool
	for _, c := range cmds {
		switch {
		case c.ID == cmdLoadPrefix+"s2":
			haveLoad = true
		case c.ID == cmdDeletePrefix+"s1":
			haveDelete = true
		case strings.HasPrefix(c.ID, cmdPresetPrefix):
			havePreset = true
		}
	}
	if !haveLoad {
		t.Fatal("expected a load entry per session")
	}
	if !haveDelete {
		t.Fatal("expected a delete entry per session")
	}
	if !havePreset {
		t.Fatal("expected preset entries")
	}
}

func TestFilterCommandsEmptyQueryKeepsOrder(t *testing.T) {
	cmds := buildCommands(nil, nil)

	got := filterCommands(cmds, "")
	if len(got) != len(cmds) {
		t.Fatalf("expected all %d commands, got %d", len(cmds), len(got))
	}
	if got[0].ID != cmds[0].ID {
		t.Fatalf("expected original order, got %q first", got[0].ID)
	}
}

func TestFilterCommandsFuzzyMatches(t *testing.T) {
	cmds := buildCommands(sampleSessions(), nil)

	got := filterCommands(cmds, "dock")
	if len(got) == 0 {
		t.Fatal("expected a match for 'dock'")
	}
	if !strings.Contains(got[0].Title, "Docking Attempt") {
		t.Fatalf("expected Docking Attempt first, got %q", got[0].Title)
	}
}

func TestFilterCommandsNoMatch(t *testing.T) {
	cmds := buildCommands(nil, nil)

	if got := filterCommands(cmds, "zzzzqqqq"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}
