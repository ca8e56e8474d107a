package icon

import "fmt"

// AnimationType names one of the supported icon animations.
type AnimationType string

const (
	AnimationFade   AnimationType = "fade"
	AnimationSlide  AnimationType = "slide"
	AnimationBounce AnimationType = "bounce"
	AnimationRotate AnimationType = "rotate"
	AnimationScale  AnimationType = "scale"
	AnimationShake  AnimationType = "shake"
	AnimationPulse  AnimationType = "pulse"
	AnimationWiggle AnimationType = "wiggle"
	AnimationFlip   AnimationType = "flip"
	AnimationNone   AnimationType = "none"
)

// AnimationConfig carries animation timing. Durations and delays are in
// milliseconds; Repeat of -1 means infinite.
type AnimationConfig struct {
	Type      AnimationType `json:"type" yaml:"type"`
	Duration  int           `json:"duration" yaml:"duration"`
	Delay     int           `json:"delay" yaml:"delay"`
	Repeat    int           `json:"repeat" yaml:"repeat"`
	Ease      string        `json:"ease,omitempty" yaml:"ease,omitempty"`
	Direction string        `json:"direction,omitempty" yaml:"direction,omitempty"`
}

var animationDefaults = map[AnimationType]AnimationConfig{
	AnimationFade:   {Type: AnimationFade, Duration: 1000, Repeat: -1, Ease: "ease-in-out", Direction: "alternate"},
	AnimationSlide:  {Type: AnimationSlide, Duration: 800, Repeat: -1, Ease: "ease-in-out", Direction: "alternate"},
	AnimationBounce: {Type: AnimationBounce, Duration: 1000, Repeat: -1, Ease: "cubic-bezier(0.68, -0.55, 0.265, 1.55)", Direction: "normal"},
	AnimationRotate: {Type: AnimationRotate, Duration: 2000, Repeat: -1, Ease: "linear", Direction: "normal"},
	AnimationScale:  {Type: AnimationScale, Duration: 600, Repeat: -1, Ease: "ease-in-out", Direction: "alternate"},
	AnimationShake:  {Type: AnimationShake, Duration: 500, Repeat: -1, Ease: "ease-in-out", Direction: "normal"},
	AnimationPulse:  {Type: AnimationPulse, Duration: 1500, Repeat: -1, Ease: "ease-in-out", Direction: "alternate"},
	AnimationWiggle: {Type: AnimationWiggle, Duration: 1000, Repeat: -1, Ease: "ease-in-out", Direction: "alternate"},
	AnimationFlip:   {Type: AnimationFlip, Duration: 1200, Repeat: -1, Ease: "ease-in-out", Direction: "alternate"},
	AnimationNone:   {Type: AnimationNone, Ease: "linear", Direction: "normal"},
}

// AnimationTypes lists the supported animation types.
var AnimationTypes = []AnimationType{
	AnimationFade, AnimationSlide, AnimationBounce, AnimationRotate, AnimationScale,
	AnimationShake, AnimationPulse, AnimationWiggle, AnimationFlip, AnimationNone,
}

// ParseAnimationType validates s as an AnimationType.
func ParseAnimationType(s string) (AnimationType, error) {
	t := AnimationType(s)
	if _, ok := animationDefaults[t]; !ok {
		return "", fmt.Errorf("invalid animation type %q: must be one of %v", s, AnimationTypes)
	}
	return t, nil
}

// AnimationDefaults returns the default timing for t.
func AnimationDefaults(t AnimationType) (AnimationConfig, bool) {
	cfg, ok := animationDefaults[t]
	return cfg, ok
}
