package arbor

import (
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimationSettings describes how a node animation runs.
type AnimationSettings struct {
	Duration float64 // milliseconds
	Easing   string
}

// Animation is a requested, not yet started, property animation.
type Animation interface {
	Start()
}

// easings maps easing names to gween functions. Names are matched
// case-insensitively; CSS-style names map to their closest curve.
var easings = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"ease":           ease.InOutQuad,
	"ease-in":        ease.InCubic,
	"ease-out":       ease.OutCubic,
	"ease-in-out":    ease.InOutCubic,
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-back":        ease.InBack,
	"out-back":       ease.OutBack,
	"in-out-back":    ease.InOutBack,
	"in-elastic":     ease.InElastic,
	"out-elastic":    ease.OutElastic,
	"in-out-elastic": ease.InOutElastic,
	"in-bounce":      ease.InBounce,
	"out-bounce":     ease.OutBounce,
	"in-out-bounce":  ease.InOutBounce,
}

// EasingFunc returns the easing registered under name, falling back to
// "ease" for unknown names.
func EasingFunc(name string) ease.TweenFunc {
	if fn, ok := easings[strings.ToLower(strings.TrimSpace(name))]; ok {
		return fn
	}
	return easings[DefaultTransitionEasing]
}

// tweenChannel drives one scalar with one gween tween.
type tweenChannel struct {
	prop  string
	tween *gween.Tween
	write func(v float64)
}

// TweenGroup animates a set of node properties together. Numeric properties
// each get their own tween; color animates its four components. Properties
// that cannot be interpolated are written when the group starts.
//
// A started group is advanced by its node's Scene. Groups on nodes outside a
// scene can be driven by calling Update directly. If the target node is
// disposed, the group stops immediately.
type TweenGroup struct {
	target   *Node
	props    Props
	settings AnimationSettings
	channels []tweenChannel
	color    Color
	started  bool
	Done     bool
}

// Animate prepares a TweenGroup moving n towards props. Nothing changes until
// Start is called.
func (n *Node) Animate(props Props, settings AnimationSettings) Animation {
	return &TweenGroup{target: n, props: props.Clone(), settings: settings}
}

// Start captures the current values, writes non-numeric properties and
// hands the group to the node's scene. Starting twice is a no-op.
func (g *TweenGroup) Start() {
	if g.started {
		return
	}
	g.started = true
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	duration := float32(g.settings.Duration / 1000)
	fn := EasingFunc(g.settings.Easing)
	n := g.target

	for _, prop := range g.props.Keys() {
		to := g.props.Value(prop)
		if prop == "color" {
			g.addColorChannels(to, duration, fn)
			continue
		}
		from, fromOK := n.Get(prop).(float64)
		target, err := toFloat(to)
		if _, known := nodeProperties[prop]; !known || !fromOK || err != nil {
			_ = n.Set(prop, to)
			continue
		}
		prop := prop
		g.channels = append(g.channels, tweenChannel{
			prop:  prop,
			tween: gween.New(float32(from), float32(target), duration, fn),
			write: func(v float64) { _ = n.Set(prop, v) },
		})
	}

	if len(g.channels) == 0 {
		g.Done = true
		return
	}
	if n.scene != nil {
		n.scene.startTween(g)
	}
}

func (g *TweenGroup) addColorChannels(to any, duration float32, fn ease.TweenFunc) {
	n := g.target
	packed, err := NormalizeColor(to)
	if err != nil {
		return
	}
	from := ColorFromPacked(n.Color)
	dest := ColorFromPacked(packed)
	g.color = from
	comps := [4]struct {
		from, to float64
		field    *float64
	}{
		{from.R, dest.R, &g.color.R},
		{from.G, dest.G, &g.color.G},
		{from.B, dest.B, &g.color.B},
		{from.A, dest.A, &g.color.A},
	}
	for _, c := range comps {
		field := c.field
		g.channels = append(g.channels, tweenChannel{
			prop:  "color",
			tween: gween.New(float32(c.from), float32(c.to), duration, fn),
			write: func(v float64) {
				*field = v
				n.Color = g.color.Packed()
			},
		})
	}
}

// Update advances all tweens by dt seconds and writes values to the target.
// If the target node has been disposed, Done is set and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done || !g.started {
		return
	}
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := range g.channels {
		val, finished := g.channels[i].tween.Update(dt)
		g.channels[i].write(float64(val))
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Stop ends the group where it is.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// Target returns the animated node.
func (g *TweenGroup) Target() *Node {
	return g.target
}

// animates reports whether g drives prop.
func (g *TweenGroup) animates(prop string) bool {
	for _, c := range g.channels {
		if c.prop == prop {
			return true
		}
	}
	return false
}
