// Package logger sets up structured logging and records crashes, making sure
// open resources are released before the process exits.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// MaxCrashLogs is the maximum number of crash logs to keep.
const MaxCrashLogs = 10

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	LastInput  string    `json:"last_input,omitempty"`
	CloseErrs  []string  `json:"close_errors,omitempty"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

type closer struct {
	name string
	fn   func() error
}

// Recorder owns the shutdown path of one command run. Closers registered
// with OnExit run exactly once, whether the run ends normally through Close
// or abnormally through HandlePanic.
type Recorder struct {
	fs      afero.Fs
	dir     string
	version string
	stderr  io.Writer
	exit    func(int)

	mu        sync.Mutex
	command   string
	lastInput string
	closers   []closer
	closed    bool
}

// NewRecorder writes crash logs into dir on the OS filesystem.
func NewRecorder(dir, version string) *Recorder {
	return &Recorder{
		fs:      afero.NewOsFs(),
		dir:     dir,
		version: version,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// SetDir changes where crash logs are written. Config is read after the
// recorder is armed, so the final location is only known later.
func (r *Recorder) SetDir(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dir = dir
}

// SetCommand sets the current command being executed.
func (r *Recorder) SetCommand(cmd string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.command = cmd
}

// SetLastInput sets the last user input for crash context.
func (r *Recorder) SetLastInput(input string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastInput = truncateForLog(strings.TrimSpace(input), 500)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// OnExit registers fn to run at shutdown. Closers run in reverse order of
// registration.
func (r *Recorder) OnExit(name string, fn func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, closer{name: name, fn: fn})
}

// Close runs every registered closer once. Later calls return nil.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	closers := r.closers
	r.closers = nil
	r.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// HandlePanic is a deferred function that recovers from panics, releases
// registered resources and writes a crash log before exiting.
// Usage: defer rec.HandlePanic()
func (r *Recorder) HandlePanic() {
	p := recover()
	if p == nil {
		return
	}
	r.crash(p, debug.Stack())
}

func (r *Recorder) crash(panicValue any, stack []byte) {
	var closeErrs []string
	if err := r.Close(); err != nil {
		closeErrs = strings.Split(err.Error(), "\n")
	}

	r.mu.Lock()
	dir := r.dir
	log := CrashLog{
		Timestamp:  time.Now(),
		Version:    r.version,
		Command:    r.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(stack),
		LastInput:  r.lastInput,
		CloseErrs:  closeErrs,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
	r.mu.Unlock()

	path, err := r.writeCrashLog(dir, log)
	if err != nil {
		fmt.Fprintf(r.stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(r.stderr, "[CRASH] Panic: %v\n%s\n", panicValue, stack)
	}

	fmt.Fprintf(r.stderr, "\n")
	fmt.Fprintf(r.stderr, "╭──────────────────────────────────────────────────────╮\n")
	fmt.Fprintf(r.stderr, "│ 🔴 BibleWing encountered an unexpected error         │\n")
	fmt.Fprintf(r.stderr, "╰──────────────────────────────────────────────────────╯\n")
	if path != "" {
		fmt.Fprintf(r.stderr, "\nA crash log has been saved to:\n  %s\n\n", path)
	}

	r.exit(1)
}

func (r *Recorder) writeCrashLog(dir string, log CrashLog) (string, error) {
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	if err := r.cleanOldCrashLogs(dir); err != nil {
		fmt.Fprintf(r.stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("crash_%s.log", log.Timestamp.Format("20060102_150405")))
	if err := afero.WriteFile(r.fs, path, []byte(formatCrashLog(log)), 0644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

// formatCrashLog formats a CrashLog as human-readable text.
func formatCrashLog(log CrashLog) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 80) + "\n"
	section := func(title, body string) {
		sb.WriteString("\n" + strings.Repeat("-", 80) + "\n")
		sb.WriteString(title + "\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			sb.WriteString("\n")
		}
	}

	sb.WriteString(rule)
	sb.WriteString("BIBLEWING CRASH LOG\n")
	sb.WriteString(rule + "\n")

	sb.WriteString(fmt.Sprintf("Timestamp: %s\n", log.Timestamp.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Version:   %s\n", log.Version))
	sb.WriteString(fmt.Sprintf("Command:   %s\n", log.Command))
	sb.WriteString(fmt.Sprintf("Go:        %s\n", log.GoVersion))
	sb.WriteString(fmt.Sprintf("OS/Arch:   %s/%s\n", log.OS, log.Arch))

	section("PANIC VALUE", log.PanicValue)
	section("STACK TRACE", log.StackTrace)
	if log.LastInput != "" {
		section("LAST USER INPUT", log.LastInput)
	}
	if len(log.CloseErrs) > 0 {
		section("SHUTDOWN ERRORS", strings.Join(log.CloseErrs, "\n"))
	}

	sb.WriteString("\n" + rule)
	sb.WriteString("END OF CRASH LOG\n")
	sb.WriteString(rule)
	return sb.String()
}

// cleanOldCrashLogs keeps room for one more log under MaxCrashLogs.
func (r *Recorder) cleanOldCrashLogs(dir string) error {
	logs, err := r.listCrashLogs(dir)
	if err != nil {
		return err
	}
	for len(logs) >= MaxCrashLogs {
		if err := r.fs.Remove(logs[0]); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", filepath.Base(logs[0]), err)
		}
		logs = logs[1:]
	}
	return nil
}

// ListCrashLogs returns crash log paths, oldest first.
func (r *Recorder) ListCrashLogs() ([]string, error) {
	r.mu.Lock()
	dir := r.dir
	r.mu.Unlock()
	return r.listCrashLogs(dir)
}

func (r *Recorder) listCrashLogs(dir string) ([]string, error) {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(logs)
	return logs, nil
}
