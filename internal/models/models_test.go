package models

import (
	"encoding/json"
	"testing"
)

func TestRatingJSON(t *testing.T) {
	var p struct {
		Rating Rating `json:"rating"`
	}
	tests := []struct {
		in      string
		defined bool
		value   int
	}{
		{`{"rating":1500}`, true, 1500},
		{`{"rating":null}`, false, 0},
		{`{}`, false, 0},
	}
	for _, tt := range tests {
		p.Rating = Rating{}
		if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
		}
		if v, ok := p.Rating.Get(); ok != tt.defined || v != tt.value {
			t.Errorf("Unmarshal(%s) = (%d, %v), want (%d, %v)", tt.in, v, ok, tt.value, tt.defined)
		}
	}

	out, _ := json.Marshal(Problem{ContestID: 1, Index: "A"})
	if got := string(out); got != `{"contest_id":1,"index":"A","name":"","rating":null,"tags":null}` {
		t.Errorf("Marshal = %s", got)
	}
}

func TestRatingString(t *testing.T) {
	if got := RatingOf(800).String(); got != "800" {
		t.Errorf("String() = %q", got)
	}
	if got := (Rating{}).String(); got != UnratedLabel {
		t.Errorf("unrated String() = %q", got)
	}
}

func TestVerdictAccepted(t *testing.T) {
	for v, want := range map[Verdict]bool{
		VerdictOK:          true,
		VerdictWrongAnswer: false,
		VerdictPending:     false,
		Verdict("HACKED"):  false,
	} {
		if got := v.Accepted(); got != want {
			t.Errorf("%q.Accepted() = %v, want %v", v, got, want)
		}
	}
}

func TestProblemIdentity(t *testing.T) {
	a := Problem{ContestID: 1, Index: "A", Name: "x"}
	b := Problem{ContestID: 1, Index: "A", Name: "renamed"}
	c := Problem{ContestID: 11, Index: "A"}
	if a.ID() != b.ID() {
		t.Error("same contest and index should share an identity")
	}
	if a.ID() == c.ID() || a.ID().String() != "1A" {
		t.Errorf("IDs %v and %v", a.ID(), c.ID())
	}
}

func TestContestEntryVariants(t *testing.T) {
	entries := []ContestEntry{
		PastContest{ID: 1, Name: "Round 1", OldRating: 1500, NewRating: 1420},
		UpcomingContest{ID: 2, Name: "Round 2"},
	}
	for _, e := range entries {
		switch c := e.(type) {
		case PastContest:
			if c.Delta() != -80 {
				t.Errorf("Delta() = %d", c.Delta())
			}
		case UpcomingContest:
			if c.ContestName() != "Round 2" {
				t.Errorf("ContestName() = %q", c.ContestName())
			}
		}
	}
}
