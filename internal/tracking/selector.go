// Package tracking decides, per frame, which detected hand is the player's
// intentional input and keeps that choice stable across brief detection
// gaps.
package tracking

import (
	"github.com/ayusman/handhop/internal/detector"
)

// slots is the fixed number of hand slots the selector tracks.
const slots = 2

// noActiveHand marks the sticky active-hand index as undecided.
const noActiveHand = -1

// Config holds the hand selector tuning knobs.
type Config struct {
	// HistorySize caps each slot's vertical-position history.
	HistorySize int

	// ScoreWindow is how many recent history samples feed the motion
	// score when two hands compete.
	ScoreWindow int

	// MinScoreSamples is the minimum history length before a slot gets a
	// non-zero motion score.
	MinScoreSamples int

	// SwitchRatio is the hysteresis multiplier: a challenger slot only
	// takes over when its motion score exceeds the incumbent's by more
	// than this factor.
	SwitchRatio float64

	// MaxLostFrames is how many consecutive empty frames the last valid
	// hand keeps being served before the selector reports no hand.
	// 8 frames is roughly 250 ms at 30 fps.
	MaxLostFrames int
}

// DefaultConfig returns the tuned selector defaults.
func DefaultConfig() Config {
	return Config{
		HistorySize:     10,
		ScoreWindow:     5,
		MinScoreSamples: 3,
		SwitchRatio:     1.5,
		MaxLostFrames:   8,
	}
}

// Point is a 2D hand center position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is the selector's per-tick output: the hand chosen as the
// player's input and its center. Interpolated is true when the hand is
// the persisted last-valid detection served across a detection gap.
type Result struct {
	Hand         detector.HandLandmarks
	Center       Point
	Interpolated bool
}

// Selector tracks up to two hand slots and picks the intentionally moving
// one. Not safe for concurrent use; the pipeline calls it from a single
// goroutine.
type Selector struct {
	config Config

	histories [slots][]float64
	active    int

	lastHand   detector.HandLandmarks
	lastCenter Point
	haveLast   bool
	lostFrames int
}

// NewSelector creates a Selector with the given configuration.
// Out-of-range values fall back to the defaults.
func NewSelector(config Config) *Selector {
	def := DefaultConfig()
	if config.HistorySize <= 0 {
		config.HistorySize = def.HistorySize
	}
	if config.ScoreWindow <= 0 {
		config.ScoreWindow = def.ScoreWindow
	}
	if config.MinScoreSamples <= 0 {
		config.MinScoreSamples = def.MinScoreSamples
	}
	if config.SwitchRatio <= 1 {
		config.SwitchRatio = def.SwitchRatio
	}
	if config.MaxLostFrames < 0 {
		config.MaxLostFrames = def.MaxLostFrames
	}

	return &Selector{
		config: config,
		active: noActiveHand,
	}
}

// Track consumes this frame's detections (0-2 hands) and returns the hand
// to treat as the player's input. ok is false when no hand is resolvable,
// which happens only after the persistence window is exhausted.
func (s *Selector) Track(hands []detector.HandLandmarks) (Result, bool) {
	if len(hands) > slots {
		hands = hands[:slots]
	}

	// Landmark-less detections are dropped rather than given a fabricated
	// zero-coordinate center.
	kept := make([]detector.HandLandmarks, 0, len(hands))
	centers := make([]Point, 0, len(hands))
	for i := range hands {
		c, ok := HandCenter(hands[i].Points[:])
		if !ok {
			continue
		}
		kept = append(kept, hands[i])
		centers = append(centers, c)
	}
	hands = kept

	s.updateHistories(centers)

	if len(hands) == 0 {
		s.lostFrames++
		if s.haveLast && s.lostFrames <= s.config.MaxLostFrames {
			return Result{Hand: s.lastHand, Center: s.lastCenter, Interpolated: true}, true
		}
		s.haveLast = false
		return Result{}, false
	}

	idx := s.selectActive(len(hands))

	s.lostFrames = 0
	s.haveLast = true
	s.lastHand = hands[idx]
	s.lastCenter = centers[idx]

	return Result{Hand: hands[idx], Center: centers[idx]}, true
}

// updateHistories appends each detected slot's vertical position and
// clears the history of any slot with no detection this frame. Histories
// deliberately do not survive a missing detection; only the persisted
// last-valid hand does.
func (s *Selector) updateHistories(centers []Point) {
	for slot := 0; slot < slots; slot++ {
		if slot >= len(centers) {
			s.histories[slot] = s.histories[slot][:0]
			continue
		}
		if len(s.histories[slot]) >= s.config.HistorySize {
			copy(s.histories[slot], s.histories[slot][1:])
			s.histories[slot] = s.histories[slot][:len(s.histories[slot])-1]
		}
		s.histories[slot] = append(s.histories[slot], centers[slot].Y)
	}
}

// selectActive picks the slot to serve given n detected hands (n >= 1).
func (s *Selector) selectActive(n int) int {
	if n == 1 {
		return 0
	}

	v0 := s.motionScore(0)
	v1 := s.motionScore(1)

	challenger, challengerScore, incumbentScore := 0, v0, v1
	if v1 > v0 {
		challenger, challengerScore, incumbentScore = 1, v1, v0
	}

	switch {
	case s.active == noActiveHand:
		s.active = challenger
	case challenger != s.active && challengerScore > s.config.SwitchRatio*incumbentScore:
		// Hysteresis: only steal the active slot on a clear margin, so
		// two similarly still hands don't flicker the selection.
		s.active = challenger
	}

	idx := s.active
	if idx >= n {
		// Stale index after a hand disappeared.
		idx = n - 1
	}
	return idx
}

// motionScore is the variance of the slot's most recent history samples,
// or 0 when too few samples exist to be meaningful.
func (s *Selector) motionScore(slot int) float64 {
	h := s.histories[slot]
	if len(h) < s.config.MinScoreSamples {
		return 0
	}
	if len(h) > s.config.ScoreWindow {
		h = h[len(h)-s.config.ScoreWindow:]
	}

	var mean float64
	for _, y := range h {
		mean += y
	}
	mean /= float64(len(h))

	var variance float64
	for _, y := range h {
		d := y - mean
		variance += d * d
	}
	return variance / float64(len(h))
}

// ActiveSlot returns the sticky active-hand slot index (-1 when undecided).
func (s *Selector) ActiveSlot() int {
	return s.active
}

// LostFrames returns the current consecutive empty-frame count.
func (s *Selector) LostFrames() int {
	return s.lostFrames
}

// Reset returns the selector to the state of a freshly constructed
// instance.
func (s *Selector) Reset() {
	for slot := 0; slot < slots; slot++ {
		s.histories[slot] = nil
	}
	s.active = noActiveHand
	s.lastHand = detector.HandLandmarks{}
	s.lastCenter = Point{}
	s.haveLast = false
	s.lostFrames = 0
}

// HandCenter averages the stable landmarks (wrist and the four knuckle
// bases) present in points. ok is false when none of them are available,
// so an empty landmark set never yields a fabricated zero coordinate.
func HandCenter(points []detector.Point3D) (Point, bool) {
	var sumX, sumY float64
	n := 0
	for _, idx := range detector.StableLandmarks {
		if idx >= len(points) {
			continue
		}
		sumX += points[idx].X
		sumY += points[idx].Y
		n++
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{X: sumX / float64(n), Y: sumY / float64(n)}, true
}
