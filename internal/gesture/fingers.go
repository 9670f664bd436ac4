// Package gesture turns a hand-landmark stream into debounced navigation intents.
package gesture

import "github.com/ayusman/brochure/internal/detector"

// Finger identifies one digit of a detected hand.
type Finger int

// Fingers in landmark order.
const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

var fingerNames = [NumFingers]string{"thumb", "index", "middle", "ring", "pinky"}

func (f Finger) String() string {
	if f < 0 || f >= NumFingers {
		return "unknown"
	}
	return fingerNames[f]
}

// joints holds the fingertip and proximal joint landmark of each finger.
// The thumb has no PIP joint; its IP joint plays that role.
var joints = [NumFingers]struct{ tip, pip int }{
	Thumb:  {detector.ThumbTip, detector.ThumbIP},
	Index:  {detector.IndexTip, detector.IndexPIP},
	Middle: {detector.MiddleTip, detector.MiddlePIP},
	Ring:   {detector.RingTip, detector.RingPIP},
	Pinky:  {detector.PinkyTip, detector.PinkyPIP},
}

// IsCurled reports whether the fingertip sits below its proximal joint in
// image space, where y grows downward. This only holds for an upright hand;
// a tilted or sideways hand is misclassified.
func IsCurled(hand *detector.HandLandmarks, f Finger) bool {
	if hand == nil || f < 0 || f >= NumFingers {
		return false
	}
	j := joints[f]
	return hand.Points[j.tip].Y > hand.Points[j.pip].Y
}

// Classify returns the curl state of every finger.
func Classify(hand *detector.HandLandmarks) [NumFingers]bool {
	var curled [NumFingers]bool
	for f := Thumb; f < NumFingers; f++ {
		curled[f] = IsCurled(hand, f)
	}
	return curled
}
