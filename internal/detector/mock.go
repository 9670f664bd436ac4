package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns queued frames in order, then repeats the configured hands.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	queue  [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned once the queue is empty.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-frame results consumed one per Detect call.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued result, the configured hands, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// OpenPalmLandmarks returns an upright right hand with every finger extended.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	// Thumb extended to the side and slightly up
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42}

	return landmarks
}

// CurledLandmarks returns OpenPalmLandmarks with the given fingers folded so
// that their tip and DIP joints drop below the PIP joint. Fingers are given by
// chain index: 0 thumb, 1 index, 2 middle, 3 ring, 4 pinky.
func CurledLandmarks(fingers ...int) HandLandmarks {
	landmarks := OpenPalmLandmarks()
	for _, f := range fingers {
		if f < 0 || f >= len(FingerChains) {
			continue
		}
		chain := FingerChains[f]
		pip := landmarks.Points[chain[2]]
		landmarks.Points[chain[3]] = Point3D{X: pip.X - 0.02, Y: pip.Y + 0.03, Z: pip.Z - 0.04}
		landmarks.Points[chain[4]] = Point3D{X: pip.X - 0.04, Y: pip.Y + 0.06, Z: pip.Z - 0.02}
	}
	return landmarks
}

// TiltedCurlLandmarks returns a hand rotated sideways with the index finger
// folded toward the palm. The fold is horizontal, so the tip stays above its
// PIP joint in image space.
func TiltedCurlLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()
	for i := range landmarks.Points {
		p := landmarks.Points[i]
		// Rotate a quarter turn about the wrist.
		dx, dy := p.X-0.5, p.Y-0.8
		landmarks.Points[i] = Point3D{X: 0.5 - dy, Y: 0.8 + dx, Z: p.Z}
	}
	pip := landmarks.Points[IndexPIP]
	landmarks.Points[IndexDIP] = Point3D{X: pip.X - 0.03, Y: pip.Y - 0.01}
	landmarks.Points[IndexTip] = Point3D{X: pip.X - 0.06, Y: pip.Y - 0.02}
	return landmarks
}
