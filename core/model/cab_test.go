package model

import "testing"

func TestStateStrings(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"signed out", SignedOut.String(), "signed-out"},
		{"signed in", SignedIn.String(), "signed-in"},
		{"none", MinorNone.String(), ""},
		{"available", Available.String(), "available"},
		{"committed", Committed.String(), "committed"},
		{"giving ride", GivingRide.String(), "giving-ride"},
		{"interested", Interested.String(), "interested"},
		{"not interested", NotInterested.String(), "not-interested"},
		{"busy", Busy.String(), "busy"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s: got %q want %q", c.name, c.got, c.want)
		}
	}
}

func TestCacheEntries(t *testing.T) {
	out := SignedOutEntry("c1")
	if out.Bookable() || out.Position != NoRide || out.RideID != NoRide {
		t.Fatalf("unexpected signed out entry %#v", out)
	}
	in := AvailableEntry("c1", 5)
	if !in.Bookable() || in.Position != 5 {
		t.Fatalf("unexpected available entry %#v", in)
	}
	in.Minor = Committed
	if in.Bookable() {
		t.Fatalf("committed cab reported bookable")
	}
}

func TestRejected(t *testing.T) {
	r := Rejected()
	if r.OK() || r.CabID != "" || r.Fare != -1 || r.RideID != -1 {
		t.Fatalf("bad sentinel %#v", r)
	}
	if !(RideResponse{RideID: 11, CabID: "c", Fare: 10}).OK() {
		t.Fatalf("arranged ride not OK")
	}
}

func TestOnRide(t *testing.T) {
	for s, want := range map[MinorState]bool{MinorNone: false, Available: false, Committed: true, GivingRide: true} {
		if s.OnRide() != want {
			t.Errorf("%v: got %v", s, !want)
		}
	}
}
