package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   zapcore.Level
		wantOK bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"INFO", zapcore.InfoLevel, true},
		{" warn ", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"fatal", zapcore.InfoLevel, false},
		{"verbose", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseLevel(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := wrap(zap.New(core)).With(String("backend", "memory"))

	log.Warn("save failed", Error(errors.New("boom")), Int("ids", 2))
	log.Debugf("reloaded %d", 3)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["backend"] != "memory" || ctx["error"] != "boom" || ctx["ids"] != int64(2) {
		t.Errorf("unexpected context %v", ctx)
	}
	if entries[1].Message != "reloaded 3" || entries[1].ContextMap()["backend"] != "memory" {
		t.Errorf("sugared entry lost child fields: %+v", entries[1])
	}
}

func TestNewNopDiscards(t *testing.T) {
	log := NewNop()
	log.Error("ignored", Bool("x", true))
	if err := log.Sync(); err != nil {
		t.Errorf("Sync() error = %v", err)
	}
}
