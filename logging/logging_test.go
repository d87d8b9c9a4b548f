package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLoggerUpdatesSharedLevel(t *testing.T) {
	l := InitLogger(logrus.DebugLevel)
	if GetLogger() != l {
		t.Fatal("expected GetLogger to return the initialised logger")
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", l.GetLevel())
	}

	InitLogger(logrus.WarnLevel)
	if GetLogger().GetLevel() != logrus.WarnLevel {
		t.Errorf("expected warn level after re-init, got %s", GetLogger().GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	if err != nil || lvl != logrus.InfoLevel {
		t.Fatalf("empty level: got %s, %v", lvl, err)
	}
	lvl, err = ParseLevel("debug")
	if err != nil || lvl != logrus.DebugLevel {
		t.Fatalf("debug level: got %s, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
