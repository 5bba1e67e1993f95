package monitoring

import (
	"testing"
)

func TestStatus_Snapshot(t *testing.T) {
	s := NewStatus()
	s.Bump("turns")
	s.Bump("turns")

	snapshot := s.Snapshot()

	value, exists := snapshot["turns"]
	if !exists {
		t.Fatalf("Expected 'turns' to be present in snapshot, but it was not")
	}
	if value != int64(2) {
		t.Errorf("Expected 'turns' to be 2, but got %v", value)
	}

	// Check uptime presence
	_, exists = snapshot["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in snapshot, but it was not")
	}
}

func TestStatus_AddNegativeDelta(t *testing.T) {
	s := NewStatus()
	s.Bump("sessions_open")
	s.Add("sessions_open", -1)

	value, exists := s.Get("sessions_open")
	if !exists {
		t.Fatalf("Expected 'sessions_open' to be present, but it was not")
	}
	if value != 0 {
		t.Errorf("Expected 'sessions_open' to be 0 after open and close, but got %v", value)
	}
}

func TestStatus_Reset(t *testing.T) {
	s := NewStatus()
	s.Bump("turns")

	s.Reset()

	snapshot := s.Snapshot()

	// The counter should be gone, but uptime should still be there
	_, exists := snapshot["turns"]
	if exists {
		t.Errorf("Expected 'turns' to be removed after Reset(), but it was present")
	}
	_, exists = snapshot["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in snapshot, but it was not")
	}
}
