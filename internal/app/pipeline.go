package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/handhop/internal/detector"
	"github.com/ayusman/handhop/internal/game"
	"github.com/ayusman/handhop/internal/store"
)

// runPipeline is the main loop that processes frames from the camera.
// It manages the transitions between idle and active frame rates.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS=5)
// 2. On motion, or while a round runs, switch to active mode (ActiveFPS=30)
// 3. Run hand detection and pick the player's hand
// 4. Feed the hand's vertical position to the jump detector
// 5. Advance the game world with this tick's jump event
// 6. After 2s without motion and no running round, drop back to idle mode
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			// A running round pins the pipeline in active mode so the game
			// keeps scrolling even while the player holds still.
			if motionDetected || a.roundRunning() {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				frameInterval = time.Second / time.Duration(IdleFPS)
				ticker.Reset(frameInterval)
				log.Println("Switched to idle mode")
			}

			d := a.Detector()
			if !activeMode || d == nil {
				frame.Close()
				continue
			}

			hands, err := d.Detect(frame)
			frame.Close() // Done with the frame
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			a.publish(a.tick(hands))
		}
	}
}

// roundRunning reports whether a round is currently in progress.
func (a *App) roundRunning() bool {
	a.gameMu.Lock()
	defer a.gameMu.Unlock()
	return a.world.Status() == game.StatusRunning
}

// tick runs one pipeline step over this frame's detections: resolve the
// player's hand, derive the jump event and advance the game world. The
// returned snapshot reflects the world after the step.
func (a *App) tick(hands []detector.HandLandmarks) Snapshot {
	a.gameMu.Lock()
	defer a.gameMu.Unlock()

	var (
		jumped bool
		hand   HandState
	)

	if res, ok := a.selector.Track(hands); ok {
		jumped = a.jump.Update(res.Center.Y, time.Now())
		hand = HandState{
			X:            res.Center.X,
			Y:            res.Center.Y,
			Visible:      true,
			Interpolated: res.Interpolated,
			Slot:         a.selector.ActiveSlot(),
		}
	} else {
		a.jump.UpdateMissing()
		hand = HandState{Slot: a.selector.ActiveSlot()}
	}

	if a.world.Status() == game.StatusRunning {
		a.world.Step(jumped)
		if a.world.Status() == game.StatusOver {
			a.finishSessionLocked()
		}
	}

	return Snapshot{
		Game:      a.world.Snapshot(),
		Hand:      hand,
		Detector:  a.jump.Debug(),
		Jump:      jumped,
		Timestamp: time.Now().UnixMilli(),
	}
}

// finishSessionLocked records the finished round. Callers hold gameMu.
func (a *App) finishSessionLocked() {
	if a.sessionID == "" || a.config.Store == nil {
		return
	}

	snap := a.world.Snapshot()
	err := a.config.Store.Sessions().Finish(a.sessionID, time.Now(), snap.Score, snap.Tick)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("Error recording session: %v", err)
	}
	a.sessionID = ""
}
