package repwatch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeLogger struct {
	mu    sync.Mutex
	calls []int
	ok    bool
}

func (f *fakeLogger) LogSessionSummary(ctx context.Context, repCount int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, repCount)
	return f.ok
}

func (f *fakeLogger) reported() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCountRows(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pushup_log.csv")

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "header only", content: "timestamp,rep\n", want: 0},
		{name: "header and rows", content: "timestamp,rep\n2025-06-01T07:00:00Z,1\n2025-06-01T07:00:02Z,2\n", want: 2},
		{name: "empty file", content: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeCSV(t, path, tt.content)
			w := New(path, time.Second, &fakeLogger{}, zerolog.Nop())
			got, err := w.countRows()
			if err != nil {
				t.Fatalf("countRows() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("countRows() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountRowsMissingFile(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope.csv"), time.Second, &fakeLogger{}, zerolog.Nop())
	if _, err := w.countRows(); err == nil {
		t.Error("countRows() expected error for missing file")
	}
}

func TestFlushPostsDelta(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pushup_log.csv")
	writeCSV(t, path, "timestamp,rep\n1,1\n2,2\n3,3\n")

	fl := &fakeLogger{ok: true}
	w := New(path, time.Second, fl, zerolog.Nop())
	w.logged = 1 // one row reported earlier

	w.flush(context.Background())

	if len(fl.calls) != 1 || fl.calls[0] != 2 {
		t.Errorf("calls = %v, want [2]", fl.calls)
	}
	if w.logged != 3 {
		t.Errorf("logged = %d, want 3", w.logged)
	}
}

func TestFlushNoGrowth(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pushup_log.csv")
	writeCSV(t, path, "timestamp,rep\n1,1\n")

	fl := &fakeLogger{ok: true}
	w := New(path, time.Second, fl, zerolog.Nop())
	w.logged = 1

	w.flush(context.Background())

	if len(fl.calls) != 0 {
		t.Errorf("calls = %v, want none", fl.calls)
	}
}

func TestFlushKeepsWatermarkOnFailure(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pushup_log.csv")
	writeCSV(t, path, "timestamp,rep\n1,1\n2,2\n")

	fl := &fakeLogger{ok: false}
	w := New(path, time.Second, fl, zerolog.Nop())

	w.flush(context.Background())

	if len(fl.calls) != 1 || fl.calls[0] != 2 {
		t.Errorf("calls = %v, want [2]", fl.calls)
	}
	if w.logged != 0 {
		t.Errorf("logged = %d, want 0 (rejected session is not marked reported)", w.logged)
	}
}

func TestRunReportsAppendedReps(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pushup_log.csv")
	writeCSV(t, path, "timestamp,rep\n1,1\n")

	fl := &fakeLogger{ok: true}
	w := New(path, 50*time.Millisecond, fl, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give Run time to snapshot the pre-existing row.
	time.Sleep(100 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("2,2\n3,3\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	deadline := time.After(3 * time.Second)
	for len(fl.reported()) == 0 {
		select {
		case <-deadline:
			t.Fatal("no session reported before deadline")
		case <-time.After(20 * time.Millisecond):
		}
	}

	if got := fl.reported(); got[0] != 2 {
		t.Errorf("reported %d reps, want 2", got[0])
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
