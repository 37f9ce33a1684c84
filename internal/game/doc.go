// Package game implements the quantum hold'em rules engine: seats, the
// betting ledger, side pots, and the Table state machine that runs hands
// from the deal to the showdown.
//
// # Basic Usage
//
//	players := []game.PlayerInfo{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}}
//	t, err := game.NewTable(players, game.WithBlinds(5, 10))
//	if err != nil {
//	    return err
//	}
//	if err := t.StartHand(); err != nil {
//	    return err
//	}
//	_, err = t.Act(t.Actor(), game.Call, 0)
//
// Between actions, seats may apply gates to their own hole cards with
// ApplyGate; the Table enforces the per-round and per-hand allowance. Once a
// round completes, DealNextStreet advances the hand and ForceShowdown runs it
// out when no more betting is possible.
//
// # Deterministic Testing
//
// Inject a seeded source so shuffles and CNOT qubit choices repeat:
//
//	t, _ := game.NewTable(players, game.WithRNG(randutil.New(42)))
//
// # Errors
//
// Rejected calls return errors wrapping ErrIllegalAction or ErrBudgetExceeded
// and leave the table unchanged. Deck failures abort the hand, refund every
// committed chip and mark the HandResult as Aborted. Classify maps any error
// to its category.
//
// # Concurrency
//
// A Table performs no locking. Callers serialize access per table; separate
// tables share nothing and may run in parallel.
package game
