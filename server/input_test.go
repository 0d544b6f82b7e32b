package server

import "testing"

func TestUpdatedVelocityDirections(t *testing.T) {
	cases := []struct {
		keyCode int
		want    Velocity
	}{
		{keyLeft, Velocity{X: -1}},
		{keyUp, Velocity{Y: -1}},
		{keyRight, Velocity{X: 1}},
		{keyDown, Velocity{Y: 1}},
	}
	for _, c := range cases {
		got := UpdatedVelocity(Velocity{}, c.keyCode)
		if got != c.want {
			t.Fatalf("keyCode %d: got %+v want %+v", c.keyCode, got, c.want)
		}
	}
}

func TestUpdatedVelocityRejectsReversal(t *testing.T) {
	cases := []struct {
		cur     Velocity
		keyCode int
	}{
		{Velocity{X: 1}, keyLeft},
		{Velocity{X: -1}, keyRight},
		{Velocity{Y: 1}, keyUp},
		{Velocity{Y: -1}, keyDown},
	}
	for _, c := range cases {
		got := UpdatedVelocity(c.cur, c.keyCode)
		if got != c.cur {
			t.Fatalf("cur %+v keyCode %d: reversal not rejected, got %+v", c.cur, c.keyCode, got)
		}
	}
}

func TestUpdatedVelocityPerpendicularTurn(t *testing.T) {
	got := UpdatedVelocity(Velocity{X: 1}, keyUp)
	if (got != Velocity{Y: -1}) {
		t.Fatalf("perpendicular turn blocked: got %+v", got)
	}
}

func TestUpdatedVelocityUnknownKeyKeepsCurrent(t *testing.T) {
	cur := Velocity{X: 1}
	if got := UpdatedVelocity(cur, 65); got != cur {
		t.Fatalf("unknown key changed velocity: got %+v", got)
	}
}

func TestUpdatedVelocityFirstMoveFromRest(t *testing.T) {
	// 静止时没有"反方向"，四个方向都允许作为第一步
	for _, key := range []int{keyLeft, keyUp, keyRight, keyDown} {
		got := UpdatedVelocity(Velocity{}, key)
		if (got == Velocity{}) {
			t.Fatalf("keyCode %d rejected from rest", key)
		}
	}
}
