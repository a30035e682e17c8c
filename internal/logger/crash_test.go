package logger

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func newTestRecorder() (*Recorder, *bytes.Buffer, *int) {
	var stderr bytes.Buffer
	code := -1
	r := &Recorder{
		fs:      afero.NewMemMapFs(),
		dir:     "/logs",
		version: "1.0.0-test",
		stderr:  &stderr,
		exit:    func(c int) { code = c },
	}
	return r, &stderr, &code
}

func TestRecorder_CloseRunsClosersOnceInReverse(t *testing.T) {
	r, _, _ := newTestRecorder()

	var order []string
	r.OnExit("store", func() error { order = append(order, "store"); return nil })
	r.OnExit("cache", func() error { order = append(order, "cache"); return errors.New("flush failed") })

	err := r.Close()
	if err == nil || !strings.Contains(err.Error(), "cache: flush failed") {
		t.Fatalf("Close() error = %v, want cache failure", err)
	}
	if got := strings.Join(order, ","); got != "cache,store" {
		t.Errorf("closer order = %s, want cache,store", got)
	}

	if err := r.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if len(order) != 2 {
		t.Errorf("closers ran %d times, want 2", len(order))
	}
}

func TestRecorder_HandlePanicReleasesResources(t *testing.T) {
	r, stderr, code := newTestRecorder()
	r.SetCommand("verse")
	r.SetLastInput("  VR-KJV-010101-AA  ")

	disconnected := 0
	r.OnExit("store", func() error { disconnected++; return nil })

	func() {
		defer r.HandlePanic()
		panic("boom")
	}()

	if disconnected != 1 {
		t.Errorf("store disconnected %d times, want 1", disconnected)
	}
	if *code != 1 {
		t.Errorf("exit code = %d, want 1", *code)
	}
	if !strings.Contains(stderr.String(), "crash log has been saved") {
		t.Errorf("stderr missing crash notice: %s", stderr.String())
	}

	logs, err := r.ListCrashLogs()
	if err != nil || len(logs) != 1 {
		t.Fatalf("ListCrashLogs() = %v, %v; want one log", logs, err)
	}
	content, _ := afero.ReadFile(r.fs, logs[0])
	for _, want := range []string{"PANIC VALUE\n", "boom", "Command:   verse", "VR-KJV-010101-AA\n"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("crash log missing %q", want)
		}
	}

	// A later normal shutdown must not disconnect again.
	_ = r.Close()
	if disconnected != 1 {
		t.Errorf("store disconnected %d times after Close, want 1", disconnected)
	}
}

func TestRecorder_NoPanicIsNoop(t *testing.T) {
	r, _, code := newTestRecorder()
	func() {
		defer r.HandlePanic()
	}()
	if *code != -1 {
		t.Errorf("exit called with %d on normal return", *code)
	}
}

func TestRecorder_CleanOldCrashLogs(t *testing.T) {
	r, _, _ := newTestRecorder()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxCrashLogs+3; i++ {
		name := fmt.Sprintf("/logs/crash_%s.log", base.Add(time.Duration(i)*time.Minute).Format("20060102_150405"))
		if err := afero.WriteFile(r.fs, name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := r.cleanOldCrashLogs("/logs"); err != nil {
		t.Fatalf("cleanOldCrashLogs() = %v", err)
	}
	logs, _ := r.ListCrashLogs()
	if len(logs) != MaxCrashLogs-1 {
		t.Fatalf("kept %d logs, want %d", len(logs), MaxCrashLogs-1)
	}
	if !strings.HasSuffix(logs[len(logs)-1], "crash_20250101_001200.log") {
		t.Errorf("newest log removed: %v", logs)
	}
}

func TestRecorder_SetDir(t *testing.T) {
	r, _, _ := newTestRecorder()
	r.SetDir("/state/biblewing")

	func() {
		defer r.HandlePanic()
		panic("late config")
	}()

	logs, err := r.ListCrashLogs()
	if err != nil || len(logs) != 1 {
		t.Fatalf("ListCrashLogs() = %v, %v; want one log", logs, err)
	}
	if !strings.HasPrefix(logs[0], "/state/biblewing/") {
		t.Errorf("crash log written to %s", logs[0])
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := truncateForLog("short", 10); got != "short" {
		t.Errorf("truncateForLog(short) = %q", got)
	}
	got := truncateForLog(strings.Repeat("a", 20), 10)
	if got != strings.Repeat("a", 10)+"... [truncated]" {
		t.Errorf("truncateForLog(long) = %q", got)
	}
}
