package dashboard

import (
	"testing"
	"time"
)

func TestManager_StartAndStop(t *testing.T) {
	m := NewManager("sleep", []string{"60"}, nil)

	if err := m.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !m.Running() {
		t.Fatal("Running() = false after Start")
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if m.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestManager_StartEmptyCommand(t *testing.T) {
	m := NewManager("", nil, nil)

	if err := m.Start(); err == nil {
		t.Error("Start with empty command succeeded")
	}
}

func TestManager_StartMissingBinary(t *testing.T) {
	m := NewManager("definitely-not-a-real-binary-xyz", nil, nil)

	if err := m.Start(); err == nil {
		t.Error("Start with missing binary succeeded")
	}
}

func TestManager_DoubleStart(t *testing.T) {
	m := NewManager("sleep", []string{"60"}, nil)

	if err := m.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer func() { _ = m.Stop() }()

	if err := m.Start(); err == nil {
		t.Error("second Start succeeded")
	}
}

func TestManager_StopWithoutStart(t *testing.T) {
	m := NewManager("sleep", []string{"60"}, nil)

	if err := m.Stop(); err != nil {
		t.Errorf("Stop on unstarted manager returned error: %v", err)
	}
}

func TestManager_StopAfterExit(t *testing.T) {
	m := NewManager("true", nil, nil)

	if err := m.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// Wait for the short-lived process to finish on its own.
	deadline := time.Now().Add(5 * time.Second)
	for m.Running() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if m.Running() {
		t.Fatal("process still running past deadline")
	}

	if err := m.Stop(); err != nil {
		t.Errorf("Stop after exit returned error: %v", err)
	}
}

func TestManager_StopAfterUnobservedExit(t *testing.T) {
	m := NewManager("true", nil, nil)

	if err := m.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// Consume the exit directly so Stop cannot learn about it from the
	// done channel and has to signal a process that is already gone.
	select {
	case <-m.done:
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}

	if err := m.Stop(); err != nil {
		t.Errorf("Stop after unobserved exit returned error: %v", err)
	}
}
