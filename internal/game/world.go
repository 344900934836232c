// Package game runs the deterministic side-scroller simulation: player
// physics, obstacle spawning, difficulty ramp, and scoring. It contains no
// rendering; the browser UI draws whatever Snapshot reports.
package game

// Status is the round lifecycle state.
type Status int

const (
	// StatusReady means no round is in progress.
	StatusReady Status = iota
	// StatusRunning means a round is being simulated.
	StatusRunning
	// StatusOver means the player collided and the round ended.
	StatusOver
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusOver:
		return "over"
	default:
		return "unknown"
	}
}

// Config holds the simulation constants. Coordinates are world units with
// the ground at y=0 and up positive; all rates are per tick so the
// simulation is frame-rate independent and fully deterministic.
type Config struct {
	// Gravity pulls the player down, in units per tick squared.
	Gravity float64

	// JumpVelocity is the upward speed applied when a grounded player
	// jumps, in units per tick.
	JumpVelocity float64

	// PlayerX is the player's fixed horizontal position.
	PlayerX float64

	// PlayerWidth and PlayerHeight are the player's collision box.
	PlayerWidth  float64
	PlayerHeight float64

	// WorldWidth is where newly spawned obstacles enter.
	WorldWidth float64

	// BaseScrollSpeed is the obstacle scroll speed at score 0, in units
	// per tick. Each point adds SpeedRamp, capped at MaxScrollSpeed.
	BaseScrollSpeed float64
	SpeedRamp       float64
	MaxScrollSpeed  float64

	// BaseSpawnInterval is the tick gap between obstacles at score 0.
	// Every SpawnRampEvery points the gap shrinks by one tick, down to
	// MinSpawnInterval.
	BaseSpawnInterval int
	MinSpawnInterval  int
	SpawnRampEvery    int

	// ObstacleWidth and ObstacleHeight are the obstacle collision box.
	ObstacleWidth  float64
	ObstacleHeight float64
}

// DefaultConfig returns the simulation defaults, tuned for a 60-tick
// second: a jump clears one obstacle with a little room to spare.
func DefaultConfig() Config {
	return Config{
		Gravity:           0.6,
		JumpVelocity:      11.0,
		PlayerX:           120,
		PlayerWidth:       34,
		PlayerHeight:      44,
		WorldWidth:        800,
		BaseScrollSpeed:   5.0,
		SpeedRamp:         0.12,
		MaxScrollSpeed:    12.0,
		BaseSpawnInterval: 90,
		MinSpawnInterval:  45,
		SpawnRampEvery:    5,
		ObstacleWidth:     26,
		ObstacleHeight:    38,
	}
}

// Obstacle is one scrolling hazard. Cleared flips once it passes the
// player and the point is banked.
type Obstacle struct {
	X       float64 `json:"x"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Cleared bool    `json:"-"`
}

// Snapshot is a read-only copy of the world for broadcast and display.
type Snapshot struct {
	Status    string     `json:"status"`
	Tick      int64      `json:"tick"`
	Score     int        `json:"score"`
	PlayerY   float64    `json:"playerY"`
	PlayerVY  float64    `json:"playerVY"`
	Speed     float64    `json:"speed"`
	Obstacles []Obstacle `json:"obstacles"`
}

// World is the simulation state. Not safe for concurrent use; the
// pipeline steps it from a single goroutine and hands out Snapshots.
type World struct {
	config Config

	status     Status
	tick       int64
	score      int
	playerY    float64
	playerVY   float64
	grounded   bool
	obstacles  []Obstacle
	spawnTimer int
}

// NewWorld creates a World with the given configuration. Zero-valued
// fields fall back to the defaults.
func NewWorld(config Config) *World {
	def := DefaultConfig()
	if config.Gravity <= 0 {
		config.Gravity = def.Gravity
	}
	if config.JumpVelocity <= 0 {
		config.JumpVelocity = def.JumpVelocity
	}
	if config.PlayerWidth <= 0 {
		config.PlayerWidth = def.PlayerWidth
	}
	if config.PlayerHeight <= 0 {
		config.PlayerHeight = def.PlayerHeight
	}
	if config.PlayerX <= 0 {
		config.PlayerX = def.PlayerX
	}
	if config.WorldWidth <= 0 {
		config.WorldWidth = def.WorldWidth
	}
	if config.BaseScrollSpeed <= 0 {
		config.BaseScrollSpeed = def.BaseScrollSpeed
	}
	if config.MaxScrollSpeed < config.BaseScrollSpeed {
		config.MaxScrollSpeed = def.MaxScrollSpeed
	}
	if config.BaseSpawnInterval <= 0 {
		config.BaseSpawnInterval = def.BaseSpawnInterval
	}
	if config.MinSpawnInterval <= 0 || config.MinSpawnInterval > config.BaseSpawnInterval {
		config.MinSpawnInterval = def.MinSpawnInterval
	}
	if config.SpawnRampEvery <= 0 {
		config.SpawnRampEvery = def.SpawnRampEvery
	}
	if config.ObstacleWidth <= 0 {
		config.ObstacleWidth = def.ObstacleWidth
	}
	if config.ObstacleHeight <= 0 {
		config.ObstacleHeight = def.ObstacleHeight
	}

	w := &World{config: config}
	w.reset()
	return w
}

func (w *World) reset() {
	w.status = StatusReady
	w.tick = 0
	w.score = 0
	w.playerY = 0
	w.playerVY = 0
	w.grounded = true
	w.obstacles = w.obstacles[:0]
	w.spawnTimer = w.config.BaseSpawnInterval
}

// Start begins a new round, clearing any previous one.
func (w *World) Start() {
	w.reset()
	w.status = StatusRunning
}

// Reset returns the world to the ready state.
func (w *World) Reset() {
	w.reset()
}

// Status returns the round lifecycle state.
func (w *World) Status() Status {
	return w.status
}

// Score returns the obstacles cleared this round.
func (w *World) Score() int {
	return w.score
}

// Speed returns the current scroll speed, after the difficulty ramp.
func (w *World) Speed() float64 {
	speed := w.config.BaseScrollSpeed + float64(w.score)*w.config.SpeedRamp
	if speed > w.config.MaxScrollSpeed {
		speed = w.config.MaxScrollSpeed
	}
	return speed
}

// spawnInterval returns the current tick gap between obstacles, after the
// difficulty ramp.
func (w *World) spawnInterval() int {
	interval := w.config.BaseSpawnInterval - w.score/w.config.SpawnRampEvery
	if interval < w.config.MinSpawnInterval {
		interval = w.config.MinSpawnInterval
	}
	return interval
}

// Step advances the simulation one tick. jump is the gesture pipeline's
// trigger for this tick; it only takes effect while the player is
// grounded. Returns true while the round keeps running.
func (w *World) Step(jump bool) bool {
	if w.status != StatusRunning {
		return false
	}

	w.tick++

	// Player physics.
	if jump && w.grounded {
		w.playerVY = w.config.JumpVelocity
		w.grounded = false
	}
	if !w.grounded {
		w.playerVY -= w.config.Gravity
		w.playerY += w.playerVY
		if w.playerY <= 0 {
			w.playerY = 0
			w.playerVY = 0
			w.grounded = true
		}
	}

	// Scroll obstacles and bank cleared ones.
	speed := w.Speed()
	live := w.obstacles[:0]
	for _, o := range w.obstacles {
		o.X -= speed
		if !o.Cleared && o.X+o.Width < w.config.PlayerX {
			o.Cleared = true
			w.score++
		}
		if o.X+o.Width > 0 {
			live = append(live, o)
		}
	}
	w.obstacles = live

	// Spawn.
	w.spawnTimer--
	if w.spawnTimer <= 0 {
		w.obstacles = append(w.obstacles, Obstacle{
			X:      w.config.WorldWidth,
			Width:  w.config.ObstacleWidth,
			Height: w.config.ObstacleHeight,
		})
		w.spawnTimer = w.spawnInterval()
	}

	// Collision ends the round.
	if w.collides() {
		w.status = StatusOver
		return false
	}

	return true
}

// collides reports whether the player's box overlaps any obstacle.
func (w *World) collides() bool {
	px1 := w.config.PlayerX
	px2 := px1 + w.config.PlayerWidth
	py1 := w.playerY
	py2 := py1 + w.config.PlayerHeight

	for _, o := range w.obstacles {
		if px1 < o.X+o.Width && px2 > o.X && py1 < o.Height && py2 > 0 {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the world state for broadcast.
func (w *World) Snapshot() Snapshot {
	obstacles := make([]Obstacle, len(w.obstacles))
	copy(obstacles, w.obstacles)

	return Snapshot{
		Status:    w.status.String(),
		Tick:      w.tick,
		Score:     w.score,
		PlayerY:   w.playerY,
		PlayerVY:  w.playerVY,
		Speed:     w.Speed(),
		Obstacles: obstacles,
	}
}
