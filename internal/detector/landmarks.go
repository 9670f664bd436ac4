// Package detector provides hand detection interfaces and landmark types.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position. X and Y are in image space with Y growing
// downward; Z is relative depth and may be zero for 2D models.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// FingerChains lists the landmark chain of each finger from the wrist to the
// tip, thumb first. Used to draw hand overlays.
var FingerChains = [5][5]int{
	{Wrist, ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
	{Wrist, IndexMCP, IndexPIP, IndexDIP, IndexTip},
	{Wrist, MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
	{Wrist, RingMCP, RingPIP, RingDIP, RingTip},
	{Wrist, PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
}
