package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "Processing date",
			fields:  Fields{"date": "2024-03-05"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "Token classified",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "Fetch failed",
			err:     errors.New("unexpected status code: 500"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(LevelInfo, &buf)

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Fatalf("log() logged = %v, want %v", logged, tt.want)
			}
			if !logged {
				return
			}

			entries := decodeLines(t, &buf)
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if entries[0].Message != tt.message {
				t.Errorf("Message = %q, want %q", entries[0].Message, tt.message)
			}
			if entries[0].Level != string(tt.level) {
				t.Errorf("Level = %q, want %q", entries[0].Level, tt.level)
			}
			if tt.err != nil && entries[0].Error != tt.err.Error() {
				t.Errorf("Error = %q, want %q", entries[0].Error, tt.err.Error())
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := New(LevelDebug, &buf)
	child := base.With(Fields{"division": 1, "run_id": "abc"})

	child.Info("Saved case", Fields{"case": "123456", "division": 2})
	base.Info("No fields", nil)

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	f := entries[0].Fields
	if f["run_id"] != "abc" {
		t.Errorf("run_id = %v, want abc", f["run_id"])
	}
	if f["case"] != "123456" {
		t.Errorf("case = %v, want 123456", f["case"])
	}
	// Per-call fields override inherited ones; JSON numbers decode as float64
	if f["division"] != float64(2) {
		t.Errorf("division = %v, want 2", f["division"])
	}
	if len(entries[1].Fields) != 0 {
		t.Errorf("parent logger picked up child fields: %v", entries[1].Fields)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"verbose", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOpenRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	start := time.Date(2024, 3, 5, 14, 30, 9, 0, time.UTC)

	f, err := OpenRunLog(dir, "scrape", start)
	if err != nil {
		t.Fatalf("OpenRunLog failed: %v", err)
	}
	defer f.Close() // nolint:errcheck

	want := filepath.Join(dir, "scrape_20240305_143009.log")
	if f.Name() != want {
		t.Errorf("log path = %q, want %q", f.Name(), want)
	}

	var console bytes.Buffer
	l := New(LevelInfo, Tee(&console, f))
	l.Info("Run started", nil)

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "Run started") {
		t.Errorf("log file missing entry: %s", data)
	}
	if !strings.Contains(console.String(), "Run started") {
		t.Errorf("console missing entry: %s", console.String())
	}

	if got := RunLogName("opinions", start); got != "opinions_20240305_143009.log" {
		t.Errorf("RunLogName() = %q", got)
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("cases.saved")
	m.IncrCounter("cases.saved")
	m.AddCounter("cases.saved", 3)

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)

	if counters["cases.saved"] != 5 {
		t.Errorf("Counter = %v, want 5", counters["cases.saved"])
	}
	if m.Counter("cases.saved") != 5 {
		t.Errorf("Counter() = %v, want 5", m.Counter("cases.saved"))
	}
	if m.Counter("missing") != 0 {
		t.Errorf("Counter(missing) = %v, want 0", m.Counter("missing"))
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("dates.remaining", 30)
	m.SetGauge("dates.remaining", 12)

	snapshot := m.GetSnapshot()
	gauges := snapshot["gauges"].(map[string]float64)

	if gauges["dates.remaining"] != 12 {
		t.Errorf("Gauge = %v, want 12", gauges["dates.remaining"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("page.fetch", 100*time.Millisecond)
	m.RecordTiming("page.fetch", 200*time.Millisecond)
	m.RecordTiming("page.fetch", 150*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	fetch := timings["page.fetch"]
	if fetch["count"].(int) != 3 {
		t.Errorf("Timing count = %v, want 3", fetch["count"])
	}
	if fetch["min"].(string) != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", fetch["min"])
	}
	if fetch["max"].(string) != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", fetch["max"])
	}
	if fetch["average"].(string) != "150ms" {
		t.Errorf("Average timing = %v, want 150ms", fetch["average"])
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(LevelDebug, &buf))

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	if got := len(decodeLines(t, &buf)); got != 4 {
		t.Errorf("got %d entries, want 4", got)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic
	Discard().Error("ignored", nil, errors.New("x"))
}
