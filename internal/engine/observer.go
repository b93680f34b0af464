package engine

import "time"

// EventType is a phase of statement execution
type EventType string

const (
	EventLexStart   EventType = "lex_start"
	EventLexEnd     EventType = "lex_end"
	EventParseStart EventType = "parse_start"
	EventParseEnd   EventType = "parse_end"
	EventExecStart  EventType = "exec_start"
	EventExecEnd    EventType = "exec_end"
)

// Event is emitted once per phase. Every event of one statement carries
// the same TxID.
type Event struct {
	Type      EventType
	TxID      string
	Timestamp time.Time
	// Data depends on Type: the SQL text for lex_start, the token count for
	// lex_end, the node type for parse_end, the statement description for
	// exec_start and a summary map for exec_end
	Data interface{}
}

// Observer receives lifecycle events. OnEvent is called synchronously on
// the executing goroutine and must not call back into the engine.
type Observer interface {
	OnEvent(event Event)
}
