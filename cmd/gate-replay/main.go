package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/statemux/gated/pkg/gate"
	"github.com/statemux/gated/pkg/journal"
	"github.com/statemux/gated/pkg/middleware"
	"github.com/statemux/gated/pkg/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	dbPath := flag.String("db", "", "path to action journal DB (journal mode)")
	recordPath := flag.String("record", "", "journal DB to record admitted actions into (fixture mode)")
	mode := flag.String("mode", replay.ModeByAction, "gating mode for journal mode: by_action or by_state")
	initial := flag.String("initial", "active", "initial gate state for journal mode")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if (*fixturePath == "" && *dbPath == "") || (*fixturePath != "" && *dbPath != "") {
		fmt.Fprintln(os.Stderr, "usage: gate-replay --fixture path/to/fixture.json [--record out.db] [--json]")
		fmt.Fprintln(os.Stderr, "       gate-replay --db path/to/journal.db [--mode by_action|by_state] [--initial active|bypass] [--json]")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath, *recordPath, *jsonOut)
	} else {
		exitCode = runJournalMode(*dbPath, *mode, *initial, *jsonOut)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path, recordPath string, jsonOut bool) int {
	fixture, err := replay.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	outcomes, err := fixture.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "run fixture: %v\n", err)
		return 1
	}

	if jsonOut {
		if err := json.NewEncoder(os.Stdout).Encode(outcomes); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			return 1
		}
	} else {
		printOutcomes(fixture, outcomes)
	}

	if recordPath != "" {
		handled, dispatched, err := recordFixture(fixture, recordPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "record: %v\n", err)
			return 1
		}
		fmt.Printf("recorded %d handled / %d dispatched actions to %s\n", handled, dispatched, recordPath)
	}

	if !replay.Passed(outcomes) {
		return 1
	}
	return 0
}

func printOutcomes(fixture replay.Fixture, outcomes []replay.StepOutcome) {
	if fixture.Description != "" {
		fmt.Printf("%s (%s, initial %s)\n", fixture.Description, fixture.Mode, fixture.InitialGate)
	}
	fmt.Printf("%-5s %-24s %-8s %-9s %-10s %s\n", "step", "kind", "handled", "deferred", "dispatched", "result")
	passCount := 0
	for _, o := range outcomes {
		result := "FAIL"
		if o.Pass {
			result = "ok"
			passCount++
		}
		fmt.Printf("%-5d %-24s %-8v %-9v %-10d %s\n", o.Index, o.Kind, o.Handled, o.Deferred, o.Dispatched, result)
	}
	fmt.Printf("%d/%d steps passed\n", passCount, len(outcomes))
}

// #endregion fixture-mode

// #region record

// recordFixture replays the fixture's steps through a gated journaling
// middleware, so the resulting DB holds exactly the actions the gate
// admitted and the emissions it let out.
func recordFixture(fixture replay.Fixture, dbPath string) (int, int, error) {
	store, err := journal.Open(dbPath)
	if err != nil {
		return 0, 0, err
	}
	defer store.Close()

	inner := journal.New[replay.Action, replay.Action, replay.AppState](store)
	inner.Kind = func(a replay.Action) string { return a.Kind }

	m, err := gatedJournal(fixture.Mode, fixture.InitialGate, inner)
	if err != nil {
		return 0, 0, err
	}

	state := replay.AppState{Gate: fixture.InitialGate}
	m.ReceiveContext(
		func() replay.AppState { return state },
		journal.Sink[replay.Action](store, middleware.OutputFunc[replay.Action](func(replay.Action, middleware.ActionSource) {})),
	)

	for _, step := range fixture.Steps {
		after := m.Handle(step.Action, middleware.Source("gate-replay"))
		state = replay.Reduce(state, step.Action)
		if after != nil {
			after()
		}
	}

	handled, err := store.Count(journal.PhaseHandled)
	if err != nil {
		return 0, 0, err
	}
	dispatched, err := store.Count(journal.PhaseDispatched)
	if err != nil {
		return 0, 0, err
	}
	return handled, dispatched, nil
}

func gatedJournal(mode string, initial gate.State, inner middleware.Middleware[replay.Action, replay.Action, replay.AppState]) (middleware.Middleware[replay.Action, replay.Action, replay.AppState], error) {
	switch mode {
	case replay.ModeByAction:
		return middleware.GatedByAction[replay.Action, replay.Action, replay.AppState](inner, replay.ControlOf, "on", "off", initial), nil
	case replay.ModeByState:
		return middleware.GatedByState[replay.Action, replay.Action](inner, replay.GateOf), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// #endregion record

// #region journal-mode

// journalRow is the per-step JSON output for journal mode.
type journalRow struct {
	Index      int    `json:"index"`
	Kind       string `json:"kind"`
	Handled    bool   `json:"handled"`
	Dispatched int    `json:"dispatched"`
}

// runJournalMode replays previously journaled actions back through a freshly
// configured gate and reports what would pass today.
func runJournalMode(dbPath, mode, initial string, jsonOut bool) int {
	initialGate, err := gate.ParseState(initial)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse initial: %v\n", err)
		return 2
	}

	store, err := journal.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	entries, err := store.List(journal.PhaseHandled, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list journal: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "journal has no handled actions")
		return 1
	}

	probe := &replay.Probe{Echo: true}
	m, err := gatedJournalProbe(mode, initialGate, probe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	h := replay.NewHarness[replay.Action, replay.Action, replay.AppState](m, replay.Reduce, replay.AppState{Gate: initialGate})

	var rows []journalRow
	admitted := 0
	for i, e := range entries {
		var action replay.Action
		if e.Payload != "" {
			if err := json.Unmarshal([]byte(e.Payload), &action); err != nil {
				fmt.Fprintf(os.Stderr, "entry %d: parse payload: %v\n", e.Seq, err)
				return 1
			}
		}
		if action.Kind == "" {
			action.Kind = e.Kind
		}

		before := probe.HandledCount
		res := h.Step(action, middleware.Source("journal"))
		row := journalRow{
			Index:      i,
			Kind:       action.Kind,
			Handled:    probe.HandledCount > before,
			Dispatched: len(res.Dispatched),
		}
		if row.Handled {
			admitted++
		}
		rows = append(rows, row)
	}

	if jsonOut {
		if err := json.NewEncoder(os.Stdout).Encode(rows); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf("%-5s %-24s %-8s %s\n", "step", "kind", "handled", "dispatched")
	for _, r := range rows {
		fmt.Printf("%-5d %-24s %-8v %d\n", r.Index, r.Kind, r.Handled, r.Dispatched)
	}
	fmt.Printf("%d/%d actions admitted (mode %s, initial %s)\n", admitted, len(rows), mode, initialGate)
	return 0
}

func gatedJournalProbe(mode string, initial gate.State, probe *replay.Probe) (middleware.Middleware[replay.Action, replay.Action, replay.AppState], error) {
	switch mode {
	case replay.ModeByAction:
		return middleware.GatedByAction[replay.Action, replay.Action, replay.AppState](probe, replay.ControlOf, "on", "off", initial), nil
	case replay.ModeByState:
		return middleware.GatedByState[replay.Action, replay.Action](probe, replay.GateOf), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// #endregion journal-mode
