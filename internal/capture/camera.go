// Package capture provides camera capture functionality using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrNoCamera is returned when no capture device exists for the requested ID.
	ErrNoCamera = errors.New("no camera found")
	// ErrPermissionDenied is returned when the capture device exists but cannot be opened.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrFrameUnavailable is returned when the device delivers no image.
	ErrFrameUnavailable = errors.New("frame unavailable")
)

// devicePath is the V4L2 node checked to classify open failures on Linux.
var devicePath = func(id int) string { return fmt.Sprintf("/dev/video%d", id) }

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
type cameraImpl struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int
}

// NewCamera creates a new Camera with the given device ID.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{
		deviceID: deviceID,
		fps:      DefaultFPS,
		running:  false,
		capture:  nil,
	}
}

// Open opens the camera for capturing frames.
// It sets the resolution to 640x480 for performance.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err == nil && !capture.IsOpened() {
		capture.Close()
		err = errors.New("device did not open")
	}
	if err != nil {
		return classifyOpenError(c.deviceID, err)
	}

	// Set resolution for performance
	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, fmt.Errorf("%w: read failed", ErrFrameUnavailable)
	}

	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: empty frame", ErrFrameUnavailable)
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// classifyOpenError maps a failed open to ErrNoCamera or ErrPermissionDenied
// when the device node tells us which; other failures are returned wrapped.
func classifyOpenError(id int, err error) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("open camera %d: %w", id, err)
	}
	f, statErr := os.Open(devicePath(id))
	switch {
	case statErr == nil:
		f.Close()
		return fmt.Errorf("open camera %d: %w", id, err)
	case os.IsNotExist(statErr):
		return fmt.Errorf("%w: device %d", ErrNoCamera, id)
	case os.IsPermission(statErr):
		return fmt.Errorf("%w: device %d", ErrPermissionDenied, id)
	default:
		return fmt.Errorf("open camera %d: %w", id, err)
	}
}
