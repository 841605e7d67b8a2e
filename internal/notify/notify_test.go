package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"spottheai/internal/core"
	"spottheai/internal/i18n"
)

type recordingRunner struct {
	scripts []string
	args    [][]any
	err     error
}

func (r *recordingRunner) RunScript(_ context.Context, js string, args ...any) error {
	r.scripts = append(r.scripts, js)
	r.args = append(r.args, args)
	return r.err
}

func TestBannerNotifier_NotifySkipped(t *testing.T) {
	runner := &recordingRunner{}
	notifier := NewBannerNotifier(runner, "#FF0000", 3*time.Second, i18n.NewLocalizer(i18n.DefaultLanguage))

	snapshot := core.TrackSnapshot{Artist: "Artist B", Track: "Song"}
	if err := notifier.NotifySkipped(context.Background(), snapshot, "list1"); err != nil {
		t.Fatalf("NotifySkipped() error: %v", err)
	}

	if len(runner.args) != 1 {
		t.Fatalf("Expected one script run, got %d", len(runner.args))
	}
	if !strings.Contains(runner.scripts[0], "existing.remove()") {
		t.Error("Expected banner script to replace an existing banner")
	}

	args := runner.args[0]
	expected := []any{BannerElementID, "#FF0000", "Skipped AI artist (list1):", "Artist B - Song", int64(3000)}
	if len(args) != len(expected) {
		t.Fatalf("Expected %d script args, got %d", len(expected), len(args))
	}
	for i := range expected {
		if args[i] != expected[i] {
			t.Errorf("Arg %d = %v, want %v", i, args[i], expected[i])
		}
	}
}

func TestBannerNotifier_Defaults(t *testing.T) {
	runner := &recordingRunner{}
	notifier := NewBannerNotifier(runner, "", 0, i18n.NewLocalizer(i18n.French))

	if err := notifier.NotifySkipped(context.Background(), core.TrackSnapshot{Artist: "A", Track: "T"}, ""); err != nil {
		t.Fatalf("NotifySkipped() error: %v", err)
	}

	args := runner.args[0]
	if args[1] != DefaultBannerColor {
		t.Errorf("Expected default colour, got %v", args[1])
	}
	if args[2] != "Artiste IA ignoré (liste noire) :" {
		t.Errorf("Expected French title with unknown source, got %v", args[2])
	}
	if args[4] != int64(core.DefaultBannerDurationMs) {
		t.Errorf("Expected default duration, got %v", args[4])
	}
}

func TestBannerNotifier_ScriptError(t *testing.T) {
	runner := &recordingRunner{err: errors.New("page closed")}
	notifier := NewBannerNotifier(runner, "", time.Second, nil)

	if err := notifier.NotifySkipped(context.Background(), core.TrackSnapshot{Artist: "A", Track: "T"}, "x"); err == nil {
		t.Error("Expected script error to be returned")
	}
}

func TestLogNotifier_NotifySkipped(t *testing.T) {
	observedCore, logs := observer.New(zap.InfoLevel)
	notifier := NewLogNotifier(zap.New(observedCore), nil)

	if err := notifier.NotifySkipped(context.Background(), core.TrackSnapshot{Artist: "A", Track: "T"}, "list1"); err != nil {
		t.Fatalf("NotifySkipped() error: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected one log entry, got %d", len(entries))
	}
	if entries[0].Message != "Skipped AI artist (list1): A - T" {
		t.Errorf("Unexpected message %q", entries[0].Message)
	}
	if entries[0].ContextMap()["source"] != "list1" {
		t.Errorf("Expected source field, got %v", entries[0].ContextMap())
	}
}

func TestMulti_NotifySkipped(t *testing.T) {
	failing := &recordingRunner{err: errors.New("page closed")}
	ok := &recordingRunner{}

	multi := Multi{
		NewBannerNotifier(failing, "", time.Second, nil),
		NewBannerNotifier(ok, "", time.Second, nil),
	}

	if err := multi.NotifySkipped(context.Background(), core.TrackSnapshot{Artist: "A", Track: "T"}, "x"); err == nil {
		t.Error("Expected first error to be returned")
	}
	if len(ok.args) != 1 {
		t.Error("Expected later notifiers to run after an error")
	}
}
