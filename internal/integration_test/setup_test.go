package integration

import (
	"testing"

	"github.com/leengari/minidb/internal/engine"
	"github.com/leengari/minidb/internal/executor"
)

// MockObserver is a test observer that records events
type MockObserver struct {
	Events []engine.Event
}

func (m *MockObserver) OnEvent(event engine.Event) {
	m.Events = append(m.Events, event)
}

// setupTestEngine returns an engine holding the users table:
//
//	id | name    | team
//	1  | 'ada'   | 'core'
//	2  | 'bob'   | NULL
//	3  | 'cy'    | 'core'
func setupTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.New(nil)
	mustExec(t, eng, "CREATE TABLE users (id INTEGER PRIMARY KEY, name STRING, team STRING DEFAULT NULL INDEX)")
	mustExec(t, eng, "INSERT INTO users VALUES (1, 'ada', 'core'), (2, 'bob', NULL), (3, 'cy', 'core')")
	return eng
}

func mustExec(t *testing.T, eng *engine.Engine, sql string) *executor.Result {
	t.Helper()
	result, err := eng.Execute(sql)
	if err != nil {
		t.Fatalf("%s: %v", sql, err)
	}
	return result
}
