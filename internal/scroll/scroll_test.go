package scroll

import (
	"math"
	"testing"
)

func TestStepConverges(t *testing.T) {
	for _, ease := range []float64{0.01, 0.1, 0.5, 0.9, 1} {
		s := NewState(Options{Ease: ease})
		s.Target = 500

		const eps = 1e-6
		steps := 0
		for math.Abs(s.Target-s.Current) > eps {
			prev := s.Current
			s.Step()
			if s.Current > s.Target {
				t.Fatalf("ease %v: overshoot, current %v target %v", ease, s.Current, s.Target)
			}
			if s.Current < prev {
				t.Fatalf("ease %v: moved backwards from %v to %v", ease, prev, s.Current)
			}
			s.Settle()
			steps++
			if steps > 10000 {
				t.Fatalf("ease %v: did not converge, current %v", ease, s.Current)
			}
		}
	}
}

func TestStepEaseOneJumps(t *testing.T) {
	s := NewState(Options{Ease: 1})
	s.Target = 42
	s.Step()
	if s.Current != 42 {
		t.Fatalf("current = %v, want 42", s.Current)
	}
}

func TestNewStateRejectsBadEase(t *testing.T) {
	for _, ease := range []float64{0, -1, 1.5} {
		if got := NewState(Options{Ease: ease}).Ease; got != DefaultEase {
			t.Errorf("ease %v: got %v, want default", ease, got)
		}
	}
}

func TestDirectionFollowsMovement(t *testing.T) {
	s := NewState(Options{Ease: 0.5, Bias: 1.5})

	s.Target = 100
	s.Step()
	if s.Direction() != Down || s.Speed() != 1.5 {
		t.Fatalf("after forward move: dir %v speed %v", s.Direction(), s.Speed())
	}
	s.Settle()

	s.Target = -100
	s.Step()
	if s.Direction() != Up || s.Speed() != -1.5 {
		t.Fatalf("after backward move: dir %v speed %v", s.Direction(), s.Speed())
	}
}

func TestDirectionStableAtRest(t *testing.T) {
	s := NewState(Options{Ease: 1})
	s.Target = -10
	s.Step()
	s.Settle()
	if s.Direction() != Up {
		t.Fatalf("dir = %v, want up", s.Direction())
	}

	// No bias and no input: Current == Last on every following frame.
	for i := 0; i < 10; i++ {
		s.Step()
		if s.Current != s.Last {
			t.Fatalf("frame %d: expected rest, current %v last %v", i, s.Current, s.Last)
		}
		if s.Direction() != Up {
			t.Fatalf("frame %d: direction flipped to %v", i, s.Direction())
		}
		s.Settle()
	}
}

func TestAutoscrollKeepsMoving(t *testing.T) {
	s := NewState(DefaultOptions())
	for i := 0; i < 100; i++ {
		s.Step()
		if s.Velocity() <= 0 {
			t.Fatalf("frame %d: velocity %v, want forward autoscroll", i, s.Velocity())
		}
		s.Settle()
	}
	if s.Direction() != Down {
		t.Fatalf("dir = %v, want down", s.Direction())
	}
}

func TestSetBiasKeepsSign(t *testing.T) {
	s := NewState(Options{Ease: 1, Bias: 1.5})
	s.Target = -5
	s.Step()
	s.SetBias(3)
	if s.Speed() != -3 {
		t.Fatalf("speed = %v, want -3", s.Speed())
	}
	s.SetBias(0)
	if s.Speed() != 0 {
		t.Fatalf("speed = %v, want 0", s.Speed())
	}
}

func TestReset(t *testing.T) {
	s := NewState(DefaultOptions())
	s.Target = 50
	s.Step()
	s.Reset(7)
	if s.Current != 7 || s.Target != 7 || s.Last != 7 || s.Velocity() != 0 {
		t.Fatalf("reset left %+v", s)
	}
}
