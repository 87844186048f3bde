package stv_test

import (
	"testing"

	stv "github.com/opavote/stv-engine"
)

// TestWigmSurplusTransferFillsSecondSeat exercises B.3 (surplus transfer) on
// a 2-seat, 3-candidate profile: 6 A>B, 2 B, 1 C. N=9, quota = 9/3+epsilon =
// 3.0001. A clears quota on first preferences alone (vote 6); A's 2.9999
// surplus transfers down the 6 A>B ballots at weight truncated to 0.4999,
// handing B (2 + 0.4999*6 = 4.9994) a clear lead over quota, electing B via
// a second surplus transfer. C is defeated at finalization.
func TestWigmSurplusTransferFillsSecondSeat(t *testing.T) {
	p, err := stv.NewProfile(2,
		[]stv.Candidate{
			{Cid: 1, Name: "A", BallotOrder: 1},
			{Cid: 2, Name: "B", BallotOrder: 2},
			{Cid: 3, Name: "C", BallotOrder: 3},
		},
		[]stv.Ballot{
			{Multiplicity: 6, Ranking: []int{1, 2}},
			{Multiplicity: 2, Ranking: []int{2}},
			{Multiplicity: 1, Ranking: []int{3}},
		}, nil, nil)
	if err != nil {
		t.Fatalf("NewProfile() error: %v", err)
	}

	e, err := stv.Count(t.Context(), p, stv.Options{Rule: "wigm-prf"})
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}

	out := e.Outcome()
	if len(out.Elected) != 2 {
		t.Fatalf("len(Outcome().Elected) = %d, want 2", len(out.Elected))
	}
	names := map[string]bool{}
	for _, c := range out.Elected {
		names[c.Name] = true
	}
	if !names["A"] || !names["B"] {
		t.Fatalf("Outcome().Elected = %+v, want A and B", out.Elected)
	}
}

func TestWigmBatchVariantDefeatsSureLosers(t *testing.T) {
	p, err := stv.NewProfile(1,
		[]stv.Candidate{
			{Cid: 1, Name: "A", BallotOrder: 1},
			{Cid: 2, Name: "B", BallotOrder: 2},
			{Cid: 3, Name: "C", BallotOrder: 3},
			{Cid: 4, Name: "D", BallotOrder: 4},
			{Cid: 5, Name: "E", BallotOrder: 5},
		},
		[]stv.Ballot{
			{Multiplicity: 1, Ranking: []int{1}},
			{Multiplicity: 1, Ranking: []int{2}},
			{Multiplicity: 10, Ranking: []int{3}},
			{Multiplicity: 20, Ranking: []int{4}},
			{Multiplicity: 30, Ranking: []int{5}},
		}, nil, nil)
	if err != nil {
		t.Fatalf("NewProfile() error: %v", err)
	}

	e, err := stv.Count(t.Context(), p, stv.Options{Rule: "wigm-prf-batch"})
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	out := e.Outcome()
	if len(out.Elected) != 1 || out.Elected[0].Name != "E" {
		t.Fatalf("Outcome().Elected = %+v, want [E]", out.Elected)
	}

	var sawBatchDefeat bool
	for _, r := range e.Rounds {
		for _, entry := range r.Log {
			if entry.Kind == stv.ActionDefeat && entry.Message == "Defeat sure loser" {
				sawBatchDefeat = true
			}
		}
	}
	if !sawBatchDefeat {
		t.Fatalf("expected at least one 'Defeat sure loser' log entry")
	}
}

func TestWigmRejectsNilProfile(t *testing.T) {
	_, err := stv.Count(t.Context(), nil, stv.Options{Rule: "wigm-prf"})
	if err == nil {
		t.Fatalf("Count(nil profile): want error, got nil")
	}
}
