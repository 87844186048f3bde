package stv

// Candidate is immutable ballot-profile metadata for one candidate. Status,
// vote, and keep factor are not part of Candidate: those are round-scoped
// and live in CandidateState (see round.go), so a Candidate never changes
// after the profile is built.
type Candidate struct {
	Cid int
	Name string
	// BallotOrder is the candidate's position in the ballot file, the
	// total order every tie-break reduces to.
	BallotOrder int
	// TieOrder is the order used specifically to break ties. It defaults
	// to BallotOrder; kept distinct only so a future rule with a
	// randomized or otherwise independent tie order would not need to
	// change the Candidate shape (see droop's Candidate.order vs
	// .tieOrder, exercised by test/test_count.py).
	TieOrder  int
	Withdrawn bool
}

// Ballot is an immutable ranked ballot with a multiplicity (the number of
// voters who cast this exact ranking). Ranking lists candidate ids with no
// duplicates, most-preferred first.
type Ballot struct {
	Multiplicity int
	Ranking      []int
}

// Profile is the immutable input to a count: seats, candidates, ballots,
// and any option directives embedded in the ballot file by the (external)
// parser. A Profile is shared read-only and may back any number of
// concurrent Elections.
type Profile struct {
	Seats      int
	Candidates []Candidate
	Ballots    []Ballot
	// Directives holds option overrides embedded in the ballot file
	// itself (e.g. a BLT "[droop ...]" comment), merged by
	// NormalizeOptions the way Droop.py merges CLI options with profile
	// directives: an option the caller sets always wins, and a directive
	// only fills an option the caller left unset.
	Directives map[string]string

	byCid map[int]*Candidate
	n     int // total ballot count, sum of multiplicities
}

// NewProfile validates and constructs a Profile. withdrawn lists the cids
// to mark withdrawn before counting.
func NewProfile(seats int, candidates []Candidate, ballots []Ballot, withdrawn []int, directives map[string]string) (*Profile, error) {
	if seats < 1 {
		return nil, electionErrorf("seats must be at least 1, got %d", seats)
	}
	if len(candidates) == 0 {
		return nil, profileErrorf("profile has no candidates")
	}

	cands := make([]Candidate, len(candidates))
	copy(cands, candidates)
	byCid := make(map[int]*Candidate, len(cands))
	for i := range cands {
		c := &cands[i]
		if c.TieOrder == 0 && c.BallotOrder != 0 {
			c.TieOrder = c.BallotOrder
		}
		if _, dup := byCid[c.Cid]; dup {
			return nil, profileErrorf("duplicate candidate id %d", c.Cid)
		}
		byCid[c.Cid] = c
	}
	for _, cid := range withdrawn {
		c, ok := byCid[cid]
		if !ok {
			return nil, profileErrorf("withdrawn candidate %d is not in the candidate list", cid)
		}
		c.Withdrawn = true
	}

	n := 0
	for _, b := range ballots {
		if b.Multiplicity < 1 {
			return nil, profileErrorf("ballot multiplicity must be at least 1, got %d", b.Multiplicity)
		}
		seen := make(map[int]bool, len(b.Ranking))
		for _, cid := range b.Ranking {
			if seen[cid] {
				return nil, profileErrorf("ballot ranks candidate %d more than once", cid)
			}
			seen[cid] = true
			if _, ok := byCid[cid]; !ok {
				return nil, profileErrorf("ballot ranks unknown candidate %d", cid)
			}
		}
		n += b.Multiplicity
	}
	if n < 1 {
		return nil, profileErrorf("profile has no valid ballots")
	}

	nonWithdrawn := 0
	for _, c := range cands {
		if !c.Withdrawn {
			nonWithdrawn++
		}
	}
	if nonWithdrawn == 0 {
		return nil, electionErrorf("all candidates are withdrawn")
	}

	return &Profile{
		Seats:      seats,
		Candidates: cands,
		Ballots:    ballots,
		Directives: directives,
		byCid:      byCid,
		n:          n,
	}, nil
}

// NBallots is N, the total ballot count (sum of multiplicities).
func (p *Profile) NBallots() int { return p.n }

// Candidate looks up a candidate by id.
func (p *Profile) Candidate(cid int) (Candidate, bool) {
	c, ok := p.byCid[cid]
	if !ok {
		return Candidate{}, false
	}
	return *c, true
}

// TopCand returns the first candidate in the ballot's ranking that is not
// withdrawn, or false if every ranked candidate is withdrawn (or the
// ranking is empty). Used for the Meek counter's round-0 first-preference
// reporting; the WIGM counter places its ballot cursors with its own assign.
func (p *Profile) TopCand(b Ballot) (int, bool) {
	for _, cid := range b.Ranking {
		if c, ok := p.byCid[cid]; ok && !c.Withdrawn {
			return cid, true
		}
	}
	return 0, false
}
