// Package app provides the main application logic for the HandHop game:
// it runs the camera pipeline, turns hand motion into jump events, advances
// the game world, and fans state out to subscribers.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/handhop/internal/capture"
	"github.com/ayusman/handhop/internal/detector"
	"github.com/ayusman/handhop/internal/game"
	"github.com/ayusman/handhop/internal/gesture"
	"github.com/ayusman/handhop/internal/store"
	"github.com/ayusman/handhop/internal/tracking"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while no round is running and no motion is seen.
	IdleFPS = 5
	// ActiveFPS is the frame rate during a round or active detection.
	ActiveFPS = 30
	// IdleTimeoutMs is the time in milliseconds without motion before
	// dropping back to idle mode. Ignored while a round is running.
	IdleTimeoutMs = 2000
	// snapshotBuffer is the per-subscriber channel depth. Slow subscribers
	// miss snapshots rather than stalling the pipeline.
	snapshotBuffer = 8
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
}

// HandState describes the tracked hand for one pipeline tick.
type HandState struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Visible      bool    `json:"visible"`
	Interpolated bool    `json:"interpolated"`
	Slot         int     `json:"slot"`
}

// Snapshot is one tick of combined pipeline and game state, broadcast to
// subscribers and serialized to WebSocket clients as-is.
type Snapshot struct {
	Game      game.Snapshot     `json:"game"`
	Hand      HandState         `json:"hand"`
	Detector  gesture.DebugInfo `json:"detector"`
	Jump      bool              `json:"jump"`
	Timestamp int64             `json:"timestamp"`
}

// App orchestrates the capture pipeline, gesture detection and the game loop.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionGate
	detector detector.Detector

	// gameMu guards the round state: selector, jump detector, world and
	// the open session ID. The pipeline goroutine and HTTP/tray callers
	// both touch these.
	gameMu    sync.Mutex
	selector  *tracking.Selector
	jump      *gesture.JumpDetector
	world     *game.World
	sessionID string

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	subsMu sync.RWMutex
	subs   map[chan Snapshot]struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		motion:   capture.NewMotionGate(motionThreshold),
		selector: tracking.NewSelector(tracking.DefaultConfig()),
		jump:     gesture.NewJumpDetector(gesture.DefaultConfig()),
		world:    game.NewWorld(game.DefaultConfig()),
		enabled:  false,
		stopCh:   nil,
		subs:     make(map[chan Snapshot]struct{}),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables the detection pipeline. Disabling does not
// reset the running round; ticks simply stop until re-enabled.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the detection pipeline is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionGate returns the motion gate instance.
func (a *App) MotionGate() *capture.MotionGate {
	return a.motion
}

// Store returns the backing store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// StartRound starts a new round. If a round is already running it is
// abandoned without being recorded. The gesture state is reset so a jump
// in progress from the menu cannot fire into the fresh round.
func (a *App) StartRound() error {
	a.gameMu.Lock()
	defer a.gameMu.Unlock()

	a.sessionID = ""
	a.selector.Reset()
	a.jump.Reset()
	a.world.Reset()
	a.world.Start()

	if a.config.Store != nil {
		session, err := a.config.Store.Sessions().Create(time.Now())
		if err != nil {
			return err
		}
		a.sessionID = session.ID
	}

	return nil
}

// ResetRound abandons any running round and returns to the ready state.
func (a *App) ResetRound() {
	a.gameMu.Lock()
	defer a.gameMu.Unlock()

	a.sessionID = ""
	a.selector.Reset()
	a.jump.Reset()
	a.world.Reset()
}

// GameSnapshot returns the current game state.
func (a *App) GameSnapshot() game.Snapshot {
	a.gameMu.Lock()
	defer a.gameMu.Unlock()
	return a.world.Snapshot()
}

// BestScore returns the highest recorded score, or 0 without a store.
func (a *App) BestScore() (int, error) {
	if a.config.Store == nil {
		return 0, nil
	}
	return a.config.Store.Sessions().BestScore()
}

// Subscribe registers a snapshot channel. The returned cancel function
// unsubscribes and closes the channel; it is safe to call more than once.
func (a *App) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, snapshotBuffer)

	a.subsMu.Lock()
	a.subs[ch] = struct{}{}
	a.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			a.subsMu.Lock()
			delete(a.subs, ch)
			a.subsMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish fans a snapshot out to all subscribers, dropping it for any
// subscriber whose buffer is full.
func (a *App) publish(snap Snapshot) {
	a.subsMu.RLock()
	defer a.subsMu.RUnlock()
	for ch := range a.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion gate
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}
