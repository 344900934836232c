package gesture

import (
	"math"
	"testing"
	"time"
)

// tick is the nominal 60 Hz frame interval used by the tests.
const tick = 16667 * time.Microsecond

// feed runs a sequence of y samples through the detector at the nominal
// tick rate and returns the per-tick results.
func feed(d *JumpDetector, start time.Time, ys []float64) []bool {
	results := make([]bool, len(ys))
	for i, y := range ys {
		results[i] = d.Update(y, start.Add(time.Duration(i)*tick))
	}
	return results
}

func TestJumpDetector_FastUpwardMotion(t *testing.T) {
	d := NewJumpDetector(DefaultConfig())
	start := time.Unix(1000, 0)

	got := feed(d, start, []float64{200, 170, 140, 100})
	want := []bool{false, false, false, true}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tick %d: Update = %v, want %v", i, got[i], want[i])
		}
	}

	// A fifth upward sample inside the cooldown window must not fire.
	if d.Update(60, start.Add(4*tick)) {
		t.Error("Update inside cooldown window returned true")
	}
	if d.Debug().State != "cooldown" {
		t.Errorf("state = %s, want cooldown", d.Debug().State)
	}
}

func TestJumpDetector_ExactlyOncePerEpisode(t *testing.T) {
	d := NewJumpDetector(DefaultConfig())
	start := time.Unix(1000, 0)

	// Sustained fast upward motion for 20 ticks.
	ys := make([]float64, 20)
	for i := range ys {
		ys[i] = 800 - float64(i)*40
	}

	results := feed(d, start, ys)

	fired := 0
	for _, r := range results {
		if r {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("jump fired %d times over one sustained episode, want 1", fired)
	}
}

func TestJumpDetector_DownwardMotionNeverFires(t *testing.T) {
	d := NewJumpDetector(DefaultConfig())
	start := time.Unix(1000, 0)

	ys := make([]float64, 30)
	for i := range ys {
		ys[i] = 100 + float64(i)*35
	}

	for i, r := range feed(d, start, ys) {
		if r {
			t.Errorf("tick %d: downward motion produced a jump", i)
		}
	}
}

func TestJumpDetector_SlowMotionNeverFires(t *testing.T) {
	d := NewJumpDetector(DefaultConfig())
	start := time.Unix(1000, 0)

	// Upward, but well under the jump threshold (~2 units/tick).
	ys := make([]float64, 30)
	for i := range ys {
		ys[i] = 400 - float64(i)*2
	}

	for i, r := range feed(d, start, ys) {
		if r {
			t.Errorf("tick %d: slow drift produced a jump", i)
		}
	}
}

func TestJumpDetector_UpdateMissing(t *testing.T) {
	d := NewJumpDetector(DefaultConfig())
	start := time.Unix(1000, 0)

	feed(d, start, []float64{300, 280, 260})
	before := d.Debug()

	for i := 0; i < 5; i++ {
		if d.UpdateMissing() {
			t.Fatal("UpdateMissing returned true")
		}
	}

	if after := d.Debug(); after != before {
		t.Errorf("UpdateMissing mutated detector state: before %+v, after %+v", before, after)
	}
}

func TestJumpDetector_CooldownNeedsDownwardRelease(t *testing.T) {
	cfg := DefaultConfig()
	d := NewJumpDetector(cfg)
	start := time.Unix(1000, 0)
	n := 0
	next := func(y float64) bool {
		r := d.Update(y, start.Add(time.Duration(n)*tick))
		n++
		return r
	}

	// Trigger a jump.
	fired := false
	y := 500.0
	for i := 0; i < 8; i++ {
		if next(y) {
			fired = true
			break
		}
		y -= 40
	}
	if !fired {
		t.Fatal("setup: jump did not fire")
	}

	// Hold the hand still for well past the cooldown tick floor. The
	// timer alone must not release the cooldown.
	for i := 0; i < cfg.CooldownTicks*3; i++ {
		if next(y) {
			t.Fatal("jump fired while hand was holding still in cooldown")
		}
	}
	if d.Debug().State != "cooldown" {
		t.Errorf("state = %s after still hold, want cooldown", d.Debug().State)
	}

	// Move the hand back down: now the cooldown releases.
	for i := 0; i < 10; i++ {
		y += 30
		next(y)
	}
	if d.Debug().State != "idle" {
		t.Errorf("state = %s after downward release, want idle", d.Debug().State)
	}

	// A second pump fires again.
	fired = false
	for i := 0; i < 10; i++ {
		y -= 40
		if next(y) {
			fired = true
			break
		}
	}
	if !fired {
		t.Error("second pump after cooldown release did not fire")
	}
}

func TestJumpDetector_Reset(t *testing.T) {
	d := NewJumpDetector(DefaultConfig())
	start := time.Unix(1000, 0)

	feed(d, start, []float64{400, 350, 300, 250, 200})
	d.Reset()

	fresh := NewJumpDetector(DefaultConfig())
	if d.Debug() != fresh.Debug() {
		t.Errorf("Reset() state %+v != fresh state %+v", d.Debug(), fresh.Debug())
	}

	// Behaves like a fresh instance afterwards.
	got := feed(d, start.Add(time.Minute), []float64{200, 170, 140, 100})
	want := []bool{false, false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tick %d after reset: Update = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestJumpDetector_ZeroElapsedTimeStaysFinite(t *testing.T) {
	d := NewJumpDetector(DefaultConfig())
	now := time.Unix(1000, 0)

	// Same timestamp on every sample: the divisor guard must keep the
	// velocity finite.
	for i := 0; i < 10; i++ {
		d.Update(500-float64(i)*40, now)
		v := d.Debug().Velocity
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("tick %d: velocity is not finite: %f", i, v)
		}
	}
}

func TestJumpDetector_NegativeCoordinates(t *testing.T) {
	d := NewJumpDetector(DefaultConfig())
	start := time.Unix(1000, 0)

	// Same motion as the positive-coordinate scenario, shifted below zero.
	got := feed(d, start, []float64{-300, -330, -360, -400})
	want := []bool{false, false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tick %d: Update = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestJumpDetector_RequiredUpwardFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequiredUpwardFrames = 2
	d := NewJumpDetector(cfg)
	start := time.Unix(1000, 0)

	// First qualifying tick enters rising, the second confirms.
	ys := []float64{500, 460, 420, 380, 340, 300}
	results := feed(d, start, ys)

	fired := -1
	for i, r := range results {
		if r {
			fired = i
			break
		}
	}
	if fired != 4 {
		t.Errorf("jump fired at tick %d, want 4 (one confirmation tick after onset)", fired)
	}
}

func TestJumpDetector_RisingRevertsOnReversal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequiredUpwardFrames = 3
	d := NewJumpDetector(cfg)
	start := time.Unix(1000, 0)

	// The rise aborts before the third confirmation tick: the partial
	// count must be discarded and no event emitted.
	ys := []float64{500, 460, 420, 380, 430, 480, 530, 580}
	for i, r := range feed(d, start, ys) {
		if r {
			t.Errorf("tick %d: aborted rise produced a jump", i)
		}
	}
	if d.Debug().State != "idle" {
		t.Errorf("state = %s after reversal, want idle", d.Debug().State)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateRising, "rising"},
		{StateCooldown, "cooldown"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
