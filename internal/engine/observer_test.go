package engine

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// MockObserver is a test observer that records events
type MockObserver struct {
	Events []Event
}

func (m *MockObserver) OnEvent(event Event) {
	m.Events = append(m.Events, event)
}

func TestAddObserver(t *testing.T) {
	eng := New(nil)
	observer := &MockObserver{}

	eng.AddObserver(observer)

	if len(eng.observers) != 1 {
		t.Errorf("Expected 1 observer, got %d", len(eng.observers))
	}
}

func TestRemoveObserver(t *testing.T) {
	eng := New(nil)
	observer := &MockObserver{}

	eng.AddObserver(observer)
	eng.RemoveObserver(observer)

	if len(eng.observers) != 0 {
		t.Errorf("Expected 0 observers, got %d", len(eng.observers))
	}
}

func TestNotifyWithNoObservers(t *testing.T) {
	eng := New(nil)

	// Should not panic
	eng.notify(Event{Type: EventLexStart, TxID: "test-tx"})
}

func TestNotifyWithMultipleObservers(t *testing.T) {
	eng := New(nil)
	observer1 := &MockObserver{}
	observer2 := &MockObserver{}

	eng.AddObserver(observer1)
	eng.AddObserver(observer2)

	testEvent := Event{Type: EventLexStart, TxID: "test-tx", Data: "SELECT * FROM test"}
	eng.notify(testEvent)

	if len(observer1.Events) != 1 {
		t.Errorf("Observer1: Expected 1 event, got %d", len(observer1.Events))
	}
	if len(observer2.Events) != 1 {
		t.Errorf("Observer2: Expected 1 event, got %d", len(observer2.Events))
	}

	if observer1.Events[0].Type != EventLexStart {
		t.Errorf("Observer1: Expected EventLexStart, got %v", observer1.Events[0].Type)
	}
}

func TestEventTimestamp(t *testing.T) {
	eng := New(nil)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	eng.notify(Event{Type: EventLexStart, TxID: "test-tx"})

	if observer.Events[0].Timestamp.IsZero() {
		t.Error("Expected timestamp to be set, got zero value")
	}
}

func TestExecuteEmitsLifecycle(t *testing.T) {
	eng := New(nil)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	if _, err := eng.Execute("CREATE TABLE t (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := []EventType{EventLexStart, EventLexEnd, EventParseStart, EventParseEnd, EventExecStart, EventExecEnd}
	if len(observer.Events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(observer.Events))
	}
	txID := observer.Events[0].TxID
	for i, ev := range observer.Events {
		if ev.Type != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], ev.Type)
		}
		if ev.TxID != txID {
			t.Errorf("Event %d: tx id changed from %s to %s", i, txID, ev.TxID)
		}
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	lo := NewLoggingObserver(logger)

	lo.OnEvent(Event{Type: EventLexStart, TxID: "tx-1"})
	if buf.Len() != 0 {
		t.Errorf("Expected intermediate events below Info to be dropped, got %q", buf.String())
	}

	lo.OnEvent(Event{Type: EventExecEnd, TxID: "tx-1"})
	if !strings.Contains(buf.String(), "event=exec_end") || !strings.Contains(buf.String(), "tx_id=tx-1") {
		t.Errorf("Unexpected log output %q", buf.String())
	}
}
