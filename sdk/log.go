package sdk

import (
	"io"
	"sync"

	"github.com/CosmWasm/tinyjson/jwriter"
	"go.uber.org/zap"
)

// Event is one terse log line emitted by a committed call, e.g. "v|id:3|by:0xAb..|c:true|w:2".
type Event struct {
	TxID      string
	Action    string
	Sender    Address
	Timestamp int64
	Line      string
}

// EventSink receives events after the call that produced them committed.
type EventSink interface {
	Publish(ev Event)
}

// NopSink drops everything.
type NopSink struct{}

func (NopSink) Publish(Event) {}

// ZapSink writes each event as a structured log entry so explorers can tail the node log.
type ZapSink struct {
	Logger *zap.Logger
}

func (s ZapSink) Publish(ev Event) {
	if s.Logger == nil {
		return
	}
	s.Logger.Info("event",
		zap.String("tx", ev.TxID),
		zap.String("action", ev.Action),
		zap.String("by", ev.Sender.String()),
		zap.Int64("ts", ev.Timestamp),
		zap.String("line", ev.Line),
	)
}

// JournalSink appends events as json lines, one object per event.
type JournalSink struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewJournalSink wraps w. Write failures are kept and reported by Err.
func NewJournalSink(w io.Writer) *JournalSink {
	return &JournalSink{w: w}
}

func (s *JournalSink) Publish(ev Event) {
	data, err := EncodeEvent(ev)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.setErr(err)
		return
	}
	if _, err := s.w.Write(data); err != nil {
		s.setErr(err)
	}
}

// Err returns the first write failure, if any.
func (s *JournalSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *JournalSink) setErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

// EncodeEvent renders the journal form of an event including the trailing newline.
// Example payload: {"tx":"..","action":"faucet","by":"0x..","ts":1735689600,"line":"fc|to:0x.."}
func EncodeEvent(ev Event) ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"tx":`)
	w.String(ev.TxID)
	w.RawString(`,"action":`)
	w.String(ev.Action)
	w.RawString(`,"by":`)
	w.String(ev.Sender.String())
	w.RawString(`,"ts":`)
	w.Int64(ev.Timestamp)
	w.RawString(`,"line":`)
	w.String(ev.Line)
	w.RawByte('}')
	w.RawByte('\n')
	return w.BuildBytes()
}

// MemorySink collects events, used by tests and the api's recent events view.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (s *MemorySink) Publish(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

// Events returns a copy of everything published so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Lines is Events reduced to the raw log lines.
func (s *MemorySink) Lines() []string {
	evs := s.Events()
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = ev.Line
	}
	return out
}

// MultiSink fans out to several sinks in order.
type MultiSink []EventSink

func (m MultiSink) Publish(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(ev)
		}
	}
}
