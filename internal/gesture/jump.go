// Package gesture turns a stream of vertical hand positions into discrete
// jump events for the game.
package gesture

import (
	"time"
)

// State is the jump detector's state machine state.
type State int

const (
	// StateIdle means no qualifying upward motion is in progress.
	StateIdle State = iota
	// StateRising means upward motion has started but has not yet lasted
	// the required number of confirmation ticks.
	StateRising
	// StateCooldown means a jump was just emitted and the detector is
	// waiting for the hand to come back down.
	StateCooldown
)

// String returns the state name for debug display.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRising:
		return "rising"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Config holds the jump detector tuning knobs. All values are fixed at
// construction; there is no runtime reconfiguration.
type Config struct {
	// Smoothing is the EMA weight applied to new position samples (0-1).
	// Higher values track the raw signal more closely.
	Smoothing float64

	// JumpThreshold is the upward speed, in position units per reference
	// tick, that must be exceeded to count a tick toward a jump. Upward
	// motion has negative velocity (screen Y grows downward).
	JumpThreshold float64

	// OnsetThreshold is the looser speed that keeps the rising state
	// alive between qualifying ticks. Dropping below it reverts to idle
	// and discards the partial confirmation count.
	OnsetThreshold float64

	// ReleaseThreshold is the downward speed the hand must reach, after
	// the cooldown tick floor has elapsed, before the next jump can arm.
	ReleaseThreshold float64

	// CooldownTicks is the minimum number of ticks after a jump before
	// the release condition is even considered.
	CooldownTicks int

	// RequiredUpwardFrames is how many consecutive qualifying ticks are
	// needed to emit a jump. Minimum 1.
	RequiredUpwardFrames int

	// HistorySize caps the smoothed sample history.
	HistorySize int

	// ReferenceTickMs normalizes velocity to a fixed tick duration so
	// thresholds hold regardless of the actual frame rate.
	ReferenceTickMs float64
}

// DefaultConfig returns the tuned defaults: responsive smoothing, a jump
// threshold reachable with a deliberate hand pump, and an 8-tick cooldown.
func DefaultConfig() Config {
	return Config{
		Smoothing:            0.5,
		JumpThreshold:        8.0,
		OnsetThreshold:       4.0,
		ReleaseThreshold:     1.0,
		CooldownTicks:        8,
		RequiredUpwardFrames: 1,
		HistorySize:          10,
		ReferenceTickMs:      1000.0 / 60.0,
	}
}

// velocityIntervals is how many smoothed intervals feed the velocity
// estimate. The estimator is a weighted average over the last three
// intervals with the most recent weighted heaviest, which suppresses
// single-frame detector jitter better than a two-point difference.
// Velocity reads as zero until a full window has accumulated.
const velocityIntervals = 3

// velocityWeights are oldest-to-newest; they sum to 1.
var velocityWeights = [velocityIntervals]float64{0.2, 0.3, 0.5}

// sample is one smoothed position reading.
type sample struct {
	y  float64
	at time.Time
}

// DebugInfo is a read-only snapshot of the detector for diagnostics.
type DebugInfo struct {
	State     string  `json:"state"`
	Velocity  float64 `json:"velocity"`
	RawY      float64 `json:"rawY"`
	SmoothedY float64 `json:"smoothedY"`
	Cooldown  int     `json:"cooldown"`
	Samples   int     `json:"samples"`
}

// JumpDetector converts a per-tick vertical position into at most one jump
// event per upward-motion episode. It is not safe for concurrent use; the
// pipeline calls it from a single goroutine.
type JumpDetector struct {
	config Config

	positions    []sample
	smoothed     float64
	seeded       bool
	velocity     float64
	state        State
	cooldown     int
	upwardFrames int
	rawY         float64
}

// NewJumpDetector creates a JumpDetector with the given configuration.
// Out-of-range values fall back to the defaults.
func NewJumpDetector(config Config) *JumpDetector {
	def := DefaultConfig()
	if config.Smoothing <= 0 || config.Smoothing > 1 {
		config.Smoothing = def.Smoothing
	}
	if config.JumpThreshold <= 0 {
		config.JumpThreshold = def.JumpThreshold
	}
	if config.OnsetThreshold <= 0 || config.OnsetThreshold > config.JumpThreshold {
		config.OnsetThreshold = config.JumpThreshold / 2
	}
	if config.ReleaseThreshold <= 0 {
		config.ReleaseThreshold = def.ReleaseThreshold
	}
	if config.CooldownTicks <= 0 {
		config.CooldownTicks = def.CooldownTicks
	}
	if config.RequiredUpwardFrames < 1 {
		config.RequiredUpwardFrames = def.RequiredUpwardFrames
	}
	if config.HistorySize < velocityIntervals+1 {
		config.HistorySize = def.HistorySize
	}
	if config.ReferenceTickMs <= 0 {
		config.ReferenceTickMs = def.ReferenceTickMs
	}

	return &JumpDetector{
		config: config,
		state:  StateIdle,
	}
}

// Update feeds one vertical position sample and reports whether a jump
// event fired this tick. It returns true exactly once per qualifying
// upward episode; the cooldown must fully release before the next.
func (d *JumpDetector) Update(y float64, now time.Time) bool {
	d.rawY = y

	if !d.seeded {
		d.smoothed = y
		d.seeded = true
	} else {
		a := d.config.Smoothing
		d.smoothed = a*y + (1-a)*d.smoothed
	}

	if len(d.positions) >= d.config.HistorySize {
		d.positions = d.positions[1:]
	}
	d.positions = append(d.positions, sample{y: d.smoothed, at: now})

	d.velocity = d.estimateVelocity()

	return d.step()
}

// UpdateMissing is the tick with no resolvable hand position. It never
// emits an event and leaves all internal state untouched, so smoothing
// and the state machine survive brief occlusions.
func (d *JumpDetector) UpdateMissing() bool {
	return false
}

// estimateVelocity returns the weighted per-tick velocity over the last
// few smoothed intervals, normalized to the reference tick duration.
// Returns 0 until a full window of samples exists.
func (d *JumpDetector) estimateVelocity() float64 {
	if len(d.positions) < velocityIntervals+1 {
		return 0
	}

	window := d.positions[len(d.positions)-velocityIntervals-1:]

	var v float64
	for i := 0; i < velocityIntervals; i++ {
		dy := window[i+1].y - window[i].y
		dt := window[i+1].at.Sub(window[i].at).Seconds() * 1000.0
		if dt <= 0 {
			// Zero or backwards clock: fall back to the reference tick
			// so the estimate stays finite.
			dt = d.config.ReferenceTickMs
		}
		v += velocityWeights[i] * (dy / dt * d.config.ReferenceTickMs)
	}

	return v
}

// step advances the state machine for the current velocity estimate.
func (d *JumpDetector) step() bool {
	switch d.state {
	case StateCooldown:
		if d.cooldown > 0 {
			d.cooldown--
		}
		// The tick floor alone is not enough: the hand must be moving
		// back down before the next pump can arm.
		if d.cooldown == 0 && d.velocity > d.config.ReleaseThreshold {
			d.state = StateIdle
		}
		return false

	default: // StateIdle, StateRising
		if d.velocity <= -d.config.JumpThreshold {
			d.upwardFrames++
			if d.upwardFrames >= d.config.RequiredUpwardFrames {
				d.state = StateCooldown
				d.cooldown = d.config.CooldownTicks
				d.upwardFrames = 0
				return true
			}
			d.state = StateRising
			return false
		}

		if d.state == StateRising && d.velocity <= -d.config.OnsetThreshold {
			// Still moving up, just below confirmation speed. Hold the
			// partial count without advancing it.
			return false
		}

		// Motion stopped or reversed: discard any partial confirmation.
		d.state = StateIdle
		d.upwardFrames = 0
		return false
	}
}

// Reset returns the detector to the state of a freshly constructed
// instance, for example at the start of a new round.
func (d *JumpDetector) Reset() {
	d.positions = nil
	d.smoothed = 0
	d.seeded = false
	d.velocity = 0
	d.state = StateIdle
	d.cooldown = 0
	d.upwardFrames = 0
	d.rawY = 0
}

// Debug returns a read-only snapshot of the detector internals.
func (d *JumpDetector) Debug() DebugInfo {
	return DebugInfo{
		State:     d.state.String(),
		Velocity:  d.velocity,
		RawY:      d.rawY,
		SmoothedY: d.smoothed,
		Cooldown:  d.cooldown,
		Samples:   len(d.positions),
	}
}
