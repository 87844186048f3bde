package stv

import (
	"fmt"
	"sort"

	"github.com/opavote/stv-engine/arith"
)

// Status is a candidate's single current state. Exactly one status holds
// at a time; derived sets (hopeful, elected, ...) are computed by
// filtering a Round's candidate-state vector rather than maintained as
// parallel collections.
type Status int

const (
	StatusWithdrawn Status = iota
	StatusHopeful
	StatusPending
	StatusElected
	StatusDefeated
)

func (s Status) String() string {
	switch s {
	case StatusWithdrawn:
		return "withdrawn"
	case StatusHopeful:
		return "hopeful"
	case StatusPending:
		return "pending"
	case StatusElected:
		return "elected"
	case StatusDefeated:
		return "defeated"
	default:
		return "unknown"
	}
}

// ActionKind tags one log entry.
type ActionKind string

const (
	ActionElect    ActionKind = "elect"
	ActionDefeat   ActionKind = "defeat"
	ActionPend     ActionKind = "pend"
	ActionUnpend   ActionKind = "unpend"
	ActionTransfer ActionKind = "transfer"
	ActionTie      ActionKind = "tie"
	ActionLog      ActionKind = "log"
)

// LogEntry is one action record in a round's ordered log.
type LogEntry struct {
	Kind    ActionKind
	Message string
}

// CandidateState is one candidate's snapshot within a single round: the
// value-typed vector the Design Notes prefer over a shared, mutated object
// graph. Rounds are append-only; within a round this is mutated in place
// until the round closes.
type CandidateState struct {
	Cid         int
	Name        string
	BallotOrder int
	TieOrder    int
	Status      Status
	Vote        arith.Value
	// KF is the Meek/Warren keep factor. Unused (left nil) by the WIGM
	// counter.
	KF arith.Value
}

// Round is one immutable-once-closed snapshot: index, quota, aggregate
// votes/surplus/residual, the full candidate-state vector, and the
// ordered action log produced while this round was open. Round 0 is the
// initialization snapshot.
type Round struct {
	N        int
	Quota    arith.Value
	Votes    arith.Value
	Surplus  arith.Value
	Residual arith.Value // meaningful for Meek/Warren only
	States   []CandidateState
	Log      []LogEntry
}

func (r *Round) indexOf(cid int) int {
	for i := range r.States {
		if r.States[i].Cid == cid {
			return i
		}
	}
	panic(fmt.Sprintf("stv: candidate %d not in round %d", cid, r.N))
}

// State returns the candidate state for cid in this round.
func (r *Round) State(cid int) *CandidateState {
	return &r.States[r.indexOf(cid)]
}

func (r *Round) logf(kind ActionKind, format string, a ...any) {
	r.Log = append(r.Log, LogEntry{Kind: kind, Message: fmt.Sprintf(format, a...)})
}

// Elect transitions a candidate to elected, logging msg.
func (r *Round) Elect(cid int, msg string) {
	r.State(cid).Status = StatusElected
	r.logf(ActionElect, "%s", msg)
}

// Defeat transitions a candidate to defeated, logging msg.
func (r *Round) Defeat(cid int, msg string) {
	r.State(cid).Status = StatusDefeated
	r.logf(ActionDefeat, "%s", msg)
}

// Pend transitions a hopeful candidate to pending (WIGM: elected with
// surplus-transfer pending), logging msg.
func (r *Round) Pend(cid int, msg string) {
	r.State(cid).Status = StatusPending
	r.logf(ActionPend, "%s", msg)
}

// Unpend transitions a pending candidate back to elected once its surplus
// has been transferred, logging msg.
func (r *Round) Unpend(cid int, msg string) {
	r.State(cid).Status = StatusElected
	r.logf(ActionUnpend, "%s", msg)
}

func (r *Round) filter(pred func(Status) bool) []CandidateState {
	var out []CandidateState
	for _, cs := range r.States {
		if pred(cs.Status) {
			out = append(out, cs)
		}
	}
	return out
}

func (r *Round) Hopeful() []CandidateState  { return r.filter(func(s Status) bool { return s == StatusHopeful }) }
func (r *Round) Elected() []CandidateState  { return r.filter(func(s Status) bool { return s == StatusElected }) }
func (r *Round) Pending() []CandidateState  { return r.filter(func(s Status) bool { return s == StatusPending }) }
func (r *Round) Defeated() []CandidateState { return r.filter(func(s Status) bool { return s == StatusDefeated }) }
func (r *Round) Withdrawn() []CandidateState {
	return r.filter(func(s Status) bool { return s == StatusWithdrawn })
}
func (r *Round) HopefulOrElected() []CandidateState {
	return r.filter(func(s Status) bool { return s == StatusHopeful || s == StatusElected })
}
func (r *Round) HopefulOrPending() []CandidateState {
	return r.filter(func(s Status) bool { return s == StatusHopeful || s == StatusPending })
}

// SeatsLeftToFill is S minus the candidates already elected or pending.
func (r *Round) SeatsLeftToFill(seats int) int {
	return seats - len(r.Elected()) - len(r.Pending())
}

// Terminated is the shared termination predicate: either too few hopefuls
// remain to matter, or there are no seats left to contest.
func (r *Round) Terminated(seats int) bool {
	left := r.SeatsLeftToFill(seats)
	return len(r.Hopeful()) <= left || left <= 0
}

// sortByVote sorts a copy of cs ascending by vote, ties broken by ballot order.
func sortByVote(cs []CandidateState) []CandidateState {
	out := append([]CandidateState(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		c := out[i].Vote.Cmp(out[j].Vote)
		if c != 0 {
			return c < 0
		}
		return out[i].BallotOrder < out[j].BallotOrder
	})
	return out
}

// sortByOrder sorts a copy of cs by ballot-file order.
func sortByOrder(cs []CandidateState) []CandidateState {
	out := append([]CandidateState(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].BallotOrder < out[j].BallotOrder })
	return out
}

// byTieOrder sorts a copy of cs by tie-breaking order. Identical to
// sortByOrder under spec.md's fixed ballot-order tie rule; kept distinct so
// a future rule with a non-ballot-order tiebreak wouldn't have to touch
// sortByOrder's callers.
func byTieOrder(cs []CandidateState) []CandidateState {
	out := append([]CandidateState(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TieOrder < out[j].TieOrder })
	return out
}
