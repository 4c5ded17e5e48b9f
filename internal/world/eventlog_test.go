package world

import (
	"strings"
	"testing"

	"github.com/Garsondee/radar/internal/grid"
)

func TestEventLog_MovesOnlyWhenVerbose(t *testing.T) {
	quiet := NewEventLog(false)
	quiet.record(Event{Kind: EventUnitMoved, Unit: 1})
	quiet.record(Event{Kind: EventPing, Unit: -1})
	if quiet.Len() != 1 || quiet.Count(EventUnitMoved) != 0 {
		t.Fatalf("quiet log len=%d moved=%d, want 1/0", quiet.Len(), quiet.Count(EventUnitMoved))
	}

	verbose := NewEventLog(true)
	verbose.record(Event{Kind: EventUnitMoved, Unit: 1})
	if verbose.Count(EventUnitMoved) != 1 {
		t.Fatalf("verbose moved=%d, want 1", verbose.Count(EventUnitMoved))
	}
}

func TestEventLog_SinceAndFirst(t *testing.T) {
	el := NewEventLog(false)
	el.record(Event{Tick: 1, Player: "red", Kind: EventPing, Unit: -1})
	el.record(Event{Tick: 2, Player: "blue", Kind: EventContact, Unit: 4})
	el.record(Event{Tick: 5, Player: "red", Kind: EventContact, Unit: 3})
	el.record(Event{Tick: 6, Player: "red", Kind: EventContact, Unit: 4})

	if got := el.Since(2); len(got) != 2 || got[0].Tick != 5 {
		t.Fatalf("since(2)=%v", got)
	}
	if got := el.Since(4); got != nil {
		t.Fatalf("since(end)=%v, want nil", got)
	}
	e, ok := el.First(EventContact, "red")
	if !ok || e.Tick != 5 || e.Unit != 3 {
		t.Fatalf("first red contact=%v ok=%v", e, ok)
	}
	if _, ok := el.First(EventContact, "green"); ok {
		t.Fatal("green has no contacts")
	}
	if n := el.CountFor(EventContact, "red"); n != 2 {
		t.Fatalf("red contacts=%d, want 2", n)
	}
	if last, _ := el.Latest(); last.Tick != 6 {
		t.Fatalf("latest=%v", last)
	}
}

func TestEvent_String(t *testing.T) {
	e := Event{Tick: 42, Player: "red", Kind: EventContact, Unit: 7, Cell: grid.CPos{X: 31, Y: 30}}
	want := "[T=042] red      contact   unit 7 at (31,30)"
	if got := e.String(); got != want {
		t.Fatalf("string=%q, want %q", got, want)
	}
	p := Event{Tick: 3, Player: "--", Kind: EventPing, Unit: -1, Detail: "at (1,2)"}
	if got := p.String(); !strings.HasSuffix(got, "ping      at (1,2)") {
		t.Fatalf("ping string=%q", got)
	}
}

func TestWorld_LogsFirstContactOnce(t *testing.T) {
	w := NewScenario(
		WithMapSize(32, 32),
		WithPlayer("red", red, 1),
		WithPlayer("blue", blue, 2),
		WithUnit("red", UnitVehicle, 5, 5),
		WithUnit("blue", UnitInfantry, 8, 5),
		WithUnit("blue", UnitBuilding, 25, 25),
	)
	scout, near := w.Units[0], w.Units[1]

	w.RunTicks(3)
	rp, bp := w.Player("red"), w.Player("blue")
	if w.Contacts(rp) != 1 || w.Contacts(bp) != 1 {
		t.Fatalf("contacts red=%d blue=%d, want 1/1\n%s", w.Contacts(rp), w.Contacts(bp), w.Log.Format())
	}
	e, ok := w.Log.First(EventContact, "red")
	if !ok || e.Unit != near.ID || e.Tick != 1 {
		t.Fatalf("red contact=%v ok=%v, want unit %d on tick 1", e, ok, near.ID)
	}
	if e, _ := w.Log.First(EventContact, "blue"); e.Unit != scout.ID {
		t.Fatalf("blue contact unit=%d, want %d", e.Unit, scout.ID)
	}
}

func TestWorld_CloakedUnitIsNoContact(t *testing.T) {
	w := NewScenario(
		WithMapSize(32, 32),
		WithPlayer("red", red, 1),
		WithPlayer("blue", blue, 2),
		WithUnit("red", UnitVehicle, 5, 5),
		WithUnit("blue", UnitInfantry, 8, 5),
	)
	w.SetCloaked(w.Units[1], true)
	w.RunTicks(2)
	if n := w.Contacts(w.Player("red")); n != 0 {
		t.Fatalf("red contacts=%d with the enemy cloaked, want 0", n)
	}
}
