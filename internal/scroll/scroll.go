// Package scroll holds the damped scroll value that drives the gallery.
package scroll

// Direction is the sign of the most recent non-zero scroll movement.
type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

const (
	DefaultEase         = 0.1
	DefaultInitialSpeed = 0.5
	DefaultBias         = 1.5
)

// Options configures a State.
type Options struct {
	Ease float64
	// InitialSpeed is added to Target every frame until the first movement
	// assigns a direction.
	InitialSpeed float64
	// Bias is the autoscroll nudge applied in the current direction.
	// Zero disables autoscroll.
	Bias float64
}

// DefaultOptions returns the stock easing and autoscroll settings.
func DefaultOptions() Options {
	return Options{
		Ease:         DefaultEase,
		InitialSpeed: DefaultInitialSpeed,
		Bias:         DefaultBias,
	}
}

// State is the scroll offset shared by input handlers and the frame tick.
// Input only writes Target; Current moves exclusively through Step.
type State struct {
	Ease    float64
	Current float64
	Target  float64
	Last    float64

	direction Direction
	speed     float64
	bias      float64
}

// NewState creates a State at offset zero heading Down.
func NewState(opts Options) *State {
	if opts.Ease <= 0 || opts.Ease > 1 {
		opts.Ease = DefaultEase
	}
	return &State{
		Ease:      opts.Ease,
		direction: Down,
		speed:     opts.InitialSpeed,
		bias:      opts.Bias,
	}
}

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Step advances one frame: applies the autoscroll speed to Target, eases
// Current toward it and re-evaluates the direction. Equal Current and Last
// keep the previous direction and speed.
func (s *State) Step() {
	s.Target += s.speed
	s.Current = Lerp(s.Current, s.Target, s.Ease)

	switch {
	case s.Current > s.Last:
		s.direction = Down
		s.speed = s.bias
	case s.Current < s.Last:
		s.direction = Up
		s.speed = -s.bias
	}
}

// Settle rolls Current over into Last once every consumer of the frame's
// velocity has run.
func (s *State) Settle() {
	s.Last = s.Current
}

// Velocity is the movement applied during the current frame.
func (s *State) Velocity() float64 {
	return s.Current - s.Last
}

// Direction returns the last assigned direction.
func (s *State) Direction() Direction {
	return s.direction
}

// Speed returns the autoscroll amount that the next Step adds to Target.
func (s *State) Speed() float64 {
	return s.speed
}

// Bias returns the configured autoscroll magnitude.
func (s *State) Bias() float64 {
	return s.bias
}

// SetBias changes the autoscroll magnitude. The pending speed keeps its sign.
func (s *State) SetBias(bias float64) {
	s.bias = bias
	if s.direction == Up {
		s.speed = -bias
	} else {
		s.speed = bias
	}
}

// Reset jumps every offset to v. This is the only discontinuous write.
func (s *State) Reset(v float64) {
	s.Current = v
	s.Target = v
	s.Last = v
}
