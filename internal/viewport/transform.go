// Package viewport keeps screen pixels, reference-image pixels and normalized
// plot coordinates consistent while the masterplan is panned and zoomed.
//
// The transform functions are pure: they take a State value and return a new
// one. Engine wires them to pointer gestures and the catalog lifecycle.
package viewport

import "math"

const (
	MinScale    = 0.35
	MaxScale    = 6
	MaxFitScale = 2

	// ZoomStep is the multiplicative factor of one zoom button/key press.
	ZoomStep = 1.14
	// WheelIntensity converts wheel deltaY into a relative scale change.
	WheelIntensity = 0.0015
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Empty reports a container that has not been laid out or an image without dimensions.
func (s Size) Empty() bool {
	return !(s.W > 0) || !(s.H > 0)
}

func (s Size) Center() Point {
	return Point{X: s.W / 2, Y: s.H / 2}
}

// State places the image inside the container: the image's top-left corner
// sits at (TX, TY) screen pixels and every image pixel is Scale screen pixels.
type State struct {
	Scale float64 `json:"scale"`
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
}

// Identity is an unscaled image at the container origin.
var Identity = State{Scale: 1}

type Direction int

const (
	ZoomIn Direction = iota
	ZoomOut
)

func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func ClampScale(v float64) float64 {
	return Clamp(v, MinScale, MaxScale)
}

// Fit scales the image to fit the container (bounded to [MinScale, MaxFitScale])
// and centres it. ok is false when either size is empty.
func Fit(container, image Size) (State, bool) {
	if container.Empty() || image.Empty() {
		return State{}, false
	}
	scale := Clamp(math.Min(container.W/image.W, container.H/image.H), MinScale, MaxFitScale)
	return State{
		Scale: scale,
		TX:    (container.W - image.W*scale) / 2,
		TY:    (container.H - image.H*scale) / 2,
	}, true
}

// ZoomAt rescales to next while keeping the image point under anchor fixed.
// Callers clamp next with ClampScale.
func ZoomAt(s State, next float64, anchor Point) State {
	if !(s.Scale > 0) || !(next > 0) {
		return s
	}
	base := ScreenToImage(s, anchor)
	return State{
		Scale: next,
		TX:    anchor.X - base.X*next,
		TY:    anchor.Y - base.Y*next,
	}
}

// ZoomByStep zooms one step about the container centre.
func ZoomByStep(s State, container Size, dir Direction) (State, bool) {
	if container.Empty() {
		return s, false
	}
	factor := ZoomStep
	if dir == ZoomOut {
		factor = 1 / ZoomStep
	}
	return ZoomAt(s, ClampScale(s.Scale*factor), container.Center()), true
}

// ZoomByWheel zooms about the pointer. Positive deltaY (scrolling down) zooms out.
func ZoomByWheel(s State, deltaY float64, anchor Point) State {
	return ZoomAt(s, ClampScale(s.Scale*(1-deltaY*WheelIntensity)), anchor)
}

// PanGesture remembers where a pan started. The offset is never bounded, so
// the image may be dragged fully out of view.
type PanGesture struct {
	Start   Point
	StartTX float64
	StartTY float64
}

func BeginPan(s State, p Point) PanGesture {
	return PanGesture{Start: p, StartTX: s.TX, StartTY: s.TY}
}

// At returns s moved by the screen delta between the gesture start and p.
func (g PanGesture) At(s State, p Point) State {
	s.TX = g.StartTX + (p.X - g.Start.X)
	s.TY = g.StartTY + (p.Y - g.Start.Y)
	return s
}

func ScreenToImage(s State, p Point) Point {
	return Point{X: (p.X - s.TX) / s.Scale, Y: (p.Y - s.TY) / s.Scale}
}

func ImageToScreen(s State, p Point) Point {
	return Point{X: p.X*s.Scale + s.TX, Y: p.Y*s.Scale + s.TY}
}

// ScreenToNormalized maps a screen point to plot coordinates, each axis
// clamped to [0,1]. ok is false for an empty image or degenerate scale.
func ScreenToNormalized(s State, image Size, p Point) (Point, bool) {
	if image.Empty() || !(s.Scale > 0) {
		return Point{}, false
	}
	ip := ScreenToImage(s, p)
	return Point{
		X: Clamp(ip.X, 0, image.W) / image.W,
		Y: Clamp(ip.Y, 0, image.H) / image.H,
	}, true
}

// Project maps normalized plot coordinates to a screen point.
func Project(s State, image Size, n Point) Point {
	return ImageToScreen(s, Point{X: n.X * image.W, Y: n.Y * image.H})
}

// LabelScale counter-scales plot labels so they stay readable at any zoom.
func LabelScale(scale float64) float64 {
	if !(scale > 0) {
		return 1
	}
	return Clamp((1/scale)*0.85, 0.9, 2.4)
}
