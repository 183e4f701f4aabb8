// Package viewport keeps the pan/zoom camera of the tree view.
package viewport

import (
	"fmt"
	"time"
)

// Transform maps model coordinates to screen coordinates: screen = model*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform with no pan and scale 1.
func Identity() Transform { return Transform{K: 1} }

// Apply maps a model point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back to the model.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.K, (y - t.Y) / t.K
}

// String renders the transform as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

// Transition moves the camera to To over Duration. A zero duration is instantaneous.
type Transition struct {
	From     Transform     `json:"from"`
	To       Transform     `json:"to"`
	Duration time.Duration `json:"-"`
	// DurationMS mirrors Duration for JSON clients.
	DurationMS int64 `json:"durationMs"`
}

func newTransition(from, to Transform, d time.Duration) Transition {
	return Transition{From: from, To: to, Duration: d, DurationMS: d.Milliseconds()}
}

// Config bounds the camera.
type Config struct {
	MinScale     float64
	MaxScale     float64
	Step         float64
	StepDuration time.Duration
	// DoubleClickZoom is off by default so clicking nodes quickly does not zoom.
	DoubleClickZoom bool
}

// DefaultConfig returns a 0.3x to 3x range with 0.2 steps over 200ms.
func DefaultConfig() Config {
	return Config{
		MinScale:     0.3,
		MaxScale:     3,
		Step:         0.2,
		StepDuration: 200 * time.Millisecond,
	}
}

// Zoom is the camera over a viewer of a given size. Every change returns the
// Transition that clients animate; the new transform is applied immediately.
type Zoom struct {
	cfg           Config
	t             Transform
	width, height float64
}

// New returns a camera at the identity transform.
func New(cfg Config, width, height float64) *Zoom {
	return &Zoom{cfg: cfg, t: Identity(), width: width, height: height}
}

func (z *Zoom) Transform() Transform { return z.t }

func (z *Zoom) Scale() float64 { return z.t.K }

func (z *Zoom) Width() float64 { return z.width }

func (z *Zoom) Height() float64 { return z.height }

func (z *Zoom) Config() Config { return z.cfg }

// Resize records a new viewer size. It does not move the camera.
func (z *Zoom) Resize(width, height float64) {
	z.width, z.height = width, height
}

func (z *Zoom) clamp(k float64) float64 {
	return min(max(k, z.cfg.MinScale), z.cfg.MaxScale)
}

func (z *Zoom) set(to Transform, d time.Duration) Transition {
	tr := newTransition(z.t, to, d)
	z.t = to
	return tr
}

// ZoomIn raises the scale by one step, keeping the pan offset.
func (z *Zoom) ZoomIn() Transition {
	return z.set(Transform{X: z.t.X, Y: z.t.Y, K: min(z.t.K+z.cfg.Step, z.cfg.MaxScale)}, z.cfg.StepDuration)
}

// ZoomOut lowers the scale by one step, keeping the pan offset.
func (z *Zoom) ZoomOut() Transition {
	return z.set(Transform{X: z.t.X, Y: z.t.Y, K: max(z.t.K-z.cfg.Step, z.cfg.MinScale)}, z.cfg.StepDuration)
}

// ResetScale returns to scale 1 around the middle of the viewer.
func (z *Zoom) ResetScale() Transition {
	return z.scaleAround(1, z.width/2, z.height/2, 0)
}

// ZoomAt multiplies the scale by factor around the screen point (px, py), as a wheel does.
func (z *Zoom) ZoomAt(px, py, factor float64) Transition {
	return z.scaleAround(z.t.K*factor, px, py, 0)
}

// DoubleClick handles a double click at (px, py). It is a no-op unless enabled.
func (z *Zoom) DoubleClick(px, py float64) (Transition, bool) {
	if !z.cfg.DoubleClickZoom {
		return Transition{}, false
	}
	return z.scaleAround(z.t.K*2, px, py, z.cfg.StepDuration), true
}

func (z *Zoom) scaleAround(k, px, py float64, d time.Duration) Transition {
	k = z.clamp(k)
	mx, my := z.t.Invert(px, py)
	return z.set(Transform{X: px - mx*k, Y: py - my*k, K: k}, d)
}

// Pan moves the camera by a screen delta, as a drag does.
func (z *Zoom) Pan(dx, dy float64) Transition {
	return z.set(Transform{X: z.t.X + dx, Y: z.t.Y + dy, K: z.t.K}, 0)
}

// Center places the model point (x, y) in the middle of the viewer at the current scale.
func (z *Zoom) Center(x, y float64, d time.Duration) Transition {
	k := z.t.K
	return z.set(Transform{X: -x*k + z.width/2, Y: -y*k + z.height/2, K: k}, d)
}
