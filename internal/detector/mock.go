package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, either as a fixed
// result or as a scripted per-frame sequence.
type MockDetector struct {
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	seqIndex int
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.sequence = nil
	m.seqIndex = 0
}

// SetSequence sets a per-frame script of detection results. Each Detect
// call consumes one entry; the last entry repeats once the script runs out.
func (m *MockDetector) SetSequence(frames [][]HandLandmarks) {
	m.sequence = frames
	m.seqIndex = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		hands := m.sequence[m.seqIndex]
		if m.seqIndex < len(m.sequence)-1 {
			m.seqIndex++
		}
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HandAt returns a synthetic open-palm HandLandmarks whose stable landmarks
// (wrist and four knuckle bases) average to exactly (x, y). Useful for
// driving the hand tracker with known centers in tests.
func HandAt(x, y float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Stable landmarks arranged symmetrically around (x, y) so the
	// averaged center lands on the requested point.
	lm.Points[Wrist] = Point3D{X: x, Y: y + 40}
	lm.Points[IndexMCP] = Point3D{X: x + 20, Y: y - 10}
	lm.Points[MiddleMCP] = Point3D{X: x + 5, Y: y - 10}
	lm.Points[RingMCP] = Point3D{X: x - 5, Y: y - 10}
	lm.Points[PinkyMCP] = Point3D{X: x - 20, Y: y - 10}

	// Fingertips above the knuckles, roughly open-palm proportions.
	lm.Points[ThumbCMC] = Point3D{X: x + 25, Y: y + 25}
	lm.Points[ThumbMCP] = Point3D{X: x + 32, Y: y + 10}
	lm.Points[ThumbIP] = Point3D{X: x + 38, Y: y - 2}
	lm.Points[ThumbTip] = Point3D{X: x + 42, Y: y - 12}

	lm.Points[IndexPIP] = Point3D{X: x + 22, Y: y - 35}
	lm.Points[IndexDIP] = Point3D{X: x + 23, Y: y - 55}
	lm.Points[IndexTip] = Point3D{X: x + 23, Y: y - 72}

	lm.Points[MiddlePIP] = Point3D{X: x + 5, Y: y - 38}
	lm.Points[MiddleDIP] = Point3D{X: x + 5, Y: y - 60}
	lm.Points[MiddleTip] = Point3D{X: x + 5, Y: y - 80}

	lm.Points[RingPIP] = Point3D{X: x - 8, Y: y - 36}
	lm.Points[RingDIP] = Point3D{X: x - 9, Y: y - 56}
	lm.Points[RingTip] = Point3D{X: x - 10, Y: y - 74}

	lm.Points[PinkyPIP] = Point3D{X: x - 24, Y: y - 30}
	lm.Points[PinkyDIP] = Point3D{X: x - 26, Y: y - 46}
	lm.Points[PinkyTip] = Point3D{X: x - 27, Y: y - 60}

	return lm
}
