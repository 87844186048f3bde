package stv_test

import (
	"errors"
	"testing"

	stv "github.com/opavote/stv-engine"
)

func TestNewProfileValidation(t *testing.T) {
	baseCands := []stv.Candidate{
		{Cid: 1, Name: "A", BallotOrder: 1},
		{Cid: 2, Name: "B", BallotOrder: 2},
	}
	baseBallots := []stv.Ballot{{Multiplicity: 1, Ranking: []int{1, 2}}}

	for _, tt := range []struct {
		name      string
		seats     int
		cands     []stv.Candidate
		ballots   []stv.Ballot
		withdrawn []int
		wantErr   error
	}{
		{
			name:  "valid profile",
			seats: 1, cands: baseCands, ballots: baseBallots,
		},
		{
			name:    "zero seats rejected",
			seats:   0,
			cands:   baseCands,
			ballots: baseBallots,
			wantErr: stv.ErrElection,
		},
		{
			name:    "no candidates rejected",
			seats:   1,
			cands:   nil,
			ballots: baseBallots,
			wantErr: stv.ErrProfile,
		},
		{
			name:  "duplicate candidate id rejected",
			seats: 1,
			cands: []stv.Candidate{
				{Cid: 1, Name: "A", BallotOrder: 1},
				{Cid: 1, Name: "A2", BallotOrder: 2},
			},
			ballots: baseBallots,
			wantErr: stv.ErrProfile,
		},
		{
			name:    "withdrawn unknown candidate rejected",
			seats:   1,
			cands:   baseCands,
			ballots: baseBallots,
			withdrawn: []int{99},
			wantErr:   stv.ErrProfile,
		},
		{
			name:  "ballot ranking unknown candidate rejected",
			seats: 1,
			cands: baseCands,
			ballots: []stv.Ballot{
				{Multiplicity: 1, Ranking: []int{1, 99}},
			},
			wantErr: stv.ErrProfile,
		},
		{
			name:  "ballot ranking duplicate candidate rejected",
			seats: 1,
			cands: baseCands,
			ballots: []stv.Ballot{
				{Multiplicity: 1, Ranking: []int{1, 1}},
			},
			wantErr: stv.ErrProfile,
		},
		{
			name:  "zero multiplicity rejected",
			seats: 1,
			cands: baseCands,
			ballots: []stv.Ballot{
				{Multiplicity: 0, Ranking: []int{1}},
			},
			wantErr: stv.ErrProfile,
		},
		{
			name:      "all candidates withdrawn rejected",
			seats:     1,
			cands:     baseCands,
			ballots:   baseBallots,
			withdrawn: []int{1, 2},
			wantErr:   stv.ErrElection,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stv.NewProfile(tt.seats, tt.cands, tt.ballots, tt.withdrawn, nil)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewProfile() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewProfile() = %v, want error wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestTieOrderDefaultsToBallotOrder(t *testing.T) {
	p, err := stv.NewProfile(1,
		[]stv.Candidate{{Cid: 1, Name: "A", BallotOrder: 3}},
		[]stv.Ballot{{Multiplicity: 1, Ranking: []int{1}}},
		nil, nil)
	if err != nil {
		t.Fatalf("NewProfile() error: %v", err)
	}
	c, ok := p.Candidate(1)
	if !ok {
		t.Fatalf("candidate 1 not found")
	}
	if c.TieOrder != c.BallotOrder {
		t.Fatalf("TieOrder = %d, want %d (BallotOrder)", c.TieOrder, c.BallotOrder)
	}
}

func TestTopCandSkipsWithdrawn(t *testing.T) {
	p, err := stv.NewProfile(1,
		[]stv.Candidate{
			{Cid: 1, Name: "A", BallotOrder: 1},
			{Cid: 2, Name: "B", BallotOrder: 2},
		},
		[]stv.Ballot{{Multiplicity: 1, Ranking: []int{1, 2}}},
		[]int{1}, nil)
	if err != nil {
		t.Fatalf("NewProfile() error: %v", err)
	}
	cid, ok := p.TopCand(p.Ballots[0])
	if !ok || cid != 2 {
		t.Fatalf("TopCand() = (%d, %v), want (2, true)", cid, ok)
	}
}
