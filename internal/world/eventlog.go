package world

import (
	"fmt"
	"strings"

	"github.com/Garsondee/radar/internal/grid"
)

// EventKind classifies a logged world event.
type EventKind uint8

const (
	EventPlayerJoined EventKind = iota
	EventUnitSpawned
	EventUnitMoved // only kept by verbose logs
	EventUnitRemoved
	EventCloak
	EventViewpoint
	EventPing
	EventContact // a player first sees an enemy unit
	numEventKinds
)

var eventKindNames = [numEventKinds]string{
	"joined", "spawned", "moved", "removed", "cloak", "viewpoint", "ping", "contact",
}

func (k EventKind) String() string {
	if k < numEventKinds {
		return eventKindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Event is one recorded world event. Unit is -1 when no unit is involved.
type Event struct {
	Tick   int
	Player string // acting or observing player, "--" for none
	Kind   EventKind
	Unit   int
	Cell   grid.CPos
	Detail string
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] red      contact   unit 7 at (31,30)
func (e Event) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[T=%03d] %-8s %-9s", e.Tick, e.Player, e.Kind)
	if e.Unit >= 0 {
		fmt.Fprintf(&sb, " unit %d at (%d,%d)", e.Unit, e.Cell.X, e.Cell.Y)
	}
	if e.Detail != "" {
		sb.WriteByte(' ')
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

// EventLog is the append-only record of a world's events, read by reports,
// hosts and tests. Consumers that poll it keep their own offset and call
// Since.
type EventLog struct {
	entries []Event
	counts  [numEventKinds]int
	verbose bool
}

// NewEventLog creates an EventLog. Verbose logs also keep unit movement.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

func (el *EventLog) record(e Event) {
	if e.Kind == EventUnitMoved && !el.verbose {
		return
	}
	el.entries = append(el.entries, e)
	if e.Kind < numEventKinds {
		el.counts[e.Kind]++
	}
}

// Len is the number of recorded entries.
func (el *EventLog) Len() int { return len(el.entries) }

// Since returns the entries recorded at or after offset. The slice aliases
// the log and must not be modified.
func (el *EventLog) Since(offset int) []Event {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(el.entries) {
		return nil
	}
	return el.entries[offset:]
}

// Count returns how many entries of kind were recorded.
func (el *EventLog) Count(kind EventKind) int {
	if kind >= numEventKinds {
		return 0
	}
	return el.counts[kind]
}

// CountFor returns how many entries of kind name player.
func (el *EventLog) CountFor(kind EventKind, player string) int {
	n := 0
	for _, e := range el.entries {
		if e.Kind == kind && e.Player == player {
			n++
		}
	}
	return n
}

// First returns the earliest entry of kind naming player.
func (el *EventLog) First(kind EventKind, player string) (Event, bool) {
	for _, e := range el.entries {
		if e.Kind == kind && e.Player == player {
			return e, true
		}
	}
	return Event{}, false
}

// Latest returns the most recent entry, if any.
func (el *EventLog) Latest() (Event, bool) {
	if len(el.entries) == 0 {
		return Event{}, false
	}
	return el.entries[len(el.entries)-1], true
}

// Format returns the full log, one entry per line.
func (el *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range el.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
