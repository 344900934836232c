package game

import (
	"reflect"
	"testing"
)

func TestWorld_Lifecycle(t *testing.T) {
	w := NewWorld(DefaultConfig())

	if w.Status() != StatusReady {
		t.Errorf("new world status = %v, want ready", w.Status())
	}

	// Stepping before Start is a no-op.
	if w.Step(false) {
		t.Error("Step before Start returned true")
	}
	if snap := w.Snapshot(); snap.Tick != 0 {
		t.Errorf("tick advanced before Start: %d", snap.Tick)
	}

	w.Start()
	if w.Status() != StatusRunning {
		t.Errorf("status after Start = %v, want running", w.Status())
	}
	if !w.Step(false) {
		t.Error("Step on a fresh round returned false")
	}

	w.Reset()
	if w.Status() != StatusReady {
		t.Errorf("status after Reset = %v, want ready", w.Status())
	}
	if snap := w.Snapshot(); snap.Tick != 0 || snap.Score != 0 {
		t.Errorf("Reset did not clear tick/score: %+v", snap)
	}
}

func TestWorld_Deterministic(t *testing.T) {
	script := make([]bool, 600)
	for i := range script {
		script[i] = i%97 == 0
	}

	run := func() Snapshot {
		w := NewWorld(DefaultConfig())
		w.Start()
		for _, jump := range script {
			if !w.Step(jump) {
				break
			}
		}
		return w.Snapshot()
	}

	first := run()
	second := run()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical jump scripts diverged:\n%+v\n%+v", first, second)
	}
}

func TestWorld_JumpPhysics(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.Start()

	w.Step(true)
	if w.grounded {
		t.Fatal("player still grounded after jump tick")
	}
	if w.playerY <= 0 {
		t.Errorf("playerY = %f after jump, want > 0", w.playerY)
	}

	// Jump input while airborne is ignored: vertical speed keeps
	// decaying under gravity instead of being re-impulsed.
	prevVY := w.playerVY
	for i := 0; i < 5; i++ {
		w.Step(true)
		if w.playerVY >= prevVY {
			t.Fatalf("tick %d: airborne jump re-impulsed the player (vy %f -> %f)", i, prevVY, w.playerVY)
		}
		prevVY = w.playerVY
	}

	// Gravity brings the player back to the ground eventually.
	for i := 0; i < 200 && !w.grounded; i++ {
		w.Step(false)
	}
	if !w.grounded {
		t.Error("player never landed")
	}
	if w.playerY != 0 {
		t.Errorf("landed playerY = %f, want 0", w.playerY)
	}
}

func TestWorld_ScoreOnObstacleCleared(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.Start()

	// An obstacle already behind the player banks a point on the next
	// tick without any collision risk.
	w.obstacles = append(w.obstacles, Obstacle{
		X:      w.config.PlayerX - w.config.ObstacleWidth - 1,
		Width:  w.config.ObstacleWidth,
		Height: w.config.ObstacleHeight,
	})

	w.Step(false)

	if w.Score() != 1 {
		t.Errorf("score = %d, want 1", w.Score())
	}
	if w.Status() != StatusRunning {
		t.Errorf("status = %v, want running", w.Status())
	}

	// A cleared obstacle is not banked twice.
	w.Step(false)
	if w.Score() != 1 {
		t.Errorf("score = %d after second tick, want 1", w.Score())
	}
}

func TestWorld_CollisionEndsRound(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.Start()

	// Obstacle overlapping a grounded player.
	w.obstacles = append(w.obstacles, Obstacle{
		X:      w.config.PlayerX + 1,
		Width:  w.config.ObstacleWidth,
		Height: w.config.ObstacleHeight,
	})

	if w.Step(false) {
		t.Error("Step returned true on a colliding tick")
	}
	if w.Status() != StatusOver {
		t.Errorf("status = %v, want over", w.Status())
	}

	// The round stays over until restarted.
	if w.Step(true) {
		t.Error("Step on a finished round returned true")
	}
}

func TestWorld_AirbornePlayerClearsObstacle(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.Start()

	// Put the player well above obstacle height: no collision even with
	// an obstacle in the player's column.
	w.playerY = w.config.ObstacleHeight + 10
	w.grounded = false
	w.playerVY = 0
	w.obstacles = append(w.obstacles, Obstacle{
		X:      w.config.PlayerX,
		Width:  w.config.ObstacleWidth,
		Height: w.config.ObstacleHeight,
	})

	if !w.Step(false) {
		t.Error("airborne player collided with an obstacle below it")
	}
}

func TestWorld_DifficultyRamp(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.Start()

	base := w.Speed()
	baseInterval := w.spawnInterval()

	w.score = 20

	if w.Speed() <= base {
		t.Errorf("speed at score 20 = %f, want > %f", w.Speed(), base)
	}
	if w.spawnInterval() >= baseInterval {
		t.Errorf("spawn interval at score 20 = %d, want < %d", w.spawnInterval(), baseInterval)
	}

	// Both ramps are capped.
	w.score = 100000
	if w.Speed() != w.config.MaxScrollSpeed {
		t.Errorf("speed = %f, want cap %f", w.Speed(), w.config.MaxScrollSpeed)
	}
	if w.spawnInterval() != w.config.MinSpawnInterval {
		t.Errorf("spawn interval = %d, want floor %d", w.spawnInterval(), w.config.MinSpawnInterval)
	}
}

func TestWorld_SpawnsObstacles(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.Start()

	for i := 0; i < w.config.BaseSpawnInterval+1; i++ {
		w.Step(false)
	}

	if len(w.obstacles) == 0 {
		t.Fatal("no obstacle spawned after the base spawn interval")
	}
	if got := w.obstacles[0].X; got >= w.config.WorldWidth {
		t.Errorf("spawned obstacle X = %f, want < %f (already scrolling)", got, w.config.WorldWidth)
	}
}
