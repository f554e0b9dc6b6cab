package logger

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestNew(t *testing.T) {
	l := New("ipc")
	if l.GetPrefix() != "ipc" {
		t.Errorf("prefix = %q, want ipc", l.GetPrefix())
	}
}

func TestNewWithConfig(t *testing.T) {
	l := NewWithConfig("cli", log.DebugLevel, false, false, log.TextFormatter)
	if l.GetPrefix() != "cli" {
		t.Errorf("prefix = %q, want cli", l.GetPrefix())
	}
	if l.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", l.GetLevel())
	}
}
