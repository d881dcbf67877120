package arbor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree, the node index,
// running animations, the frame clock and the texture cache. It implements
// Renderer and Clock.
type Scene struct {
	root   *Node
	nodes  map[uint32]*Node
	tweens []*TweenGroup
	clock  frameClock
	logger *slog.Logger
	debug  bool

	textures   map[string]*ebiten.Image
	updateFunc func() error

	// ClearColor fills the screen before drawing when its alpha is non-zero.
	ClearColor Color
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	s := &Scene{
		nodes:    make(map[uint32]*Node),
		textures: make(map[string]*ebiten.Image),
		logger:   slog.Default(),
	}
	s.root = NewContainer("root")
	s.register(s.root)
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() RenderNode {
	return s.root
}

// RootNode returns the root as a *Node.
func (s *Scene) RootNode() *Node {
	return s.root
}

// NodeByID returns the live node with the given id, or nil.
func (s *Scene) NodeByID(id uint32) RenderNode {
	if n, ok := s.nodes[id]; ok {
		return n
	}
	return nil
}

// CreateNode creates a quad from props. A "parent" entry attaches the node;
// the remaining entries are written in order.
func (s *Scene) CreateNode(props Props) (RenderNode, error) {
	return s.create(NewQuad(""), props)
}

// CreateTextNode creates a text node from props.
func (s *Scene) CreateTextNode(props Props) (RenderNode, error) {
	return s.create(NewTextNode("", ""), props)
}

func (s *Scene) create(n *Node, props Props) (RenderNode, error) {
	s.register(n)
	if err := n.apply(props); err != nil {
		n.Dispose()
		return nil, err
	}
	if name, ok := n.attrs["name"].(string); ok {
		n.Name = name
	}
	s.logger.Debug("created node", "id", n.ID, "type", n.Type.String(), "props", props.Len())
	return n, nil
}

func (s *Scene) register(n *Node) {
	n.scene = s
	s.nodes[n.ID] = n
}

func (s *Scene) unregister(n *Node) {
	delete(s.nodes, n.ID)
}

// NumNodes returns how many live nodes the scene indexes, root included.
func (s *Scene) NumNodes() int {
	return len(s.nodes)
}

// AfterFunc schedules fn on the scene's frame clock. It runs from Update
// once enough frame time has passed.
func (s *Scene) AfterFunc(d time.Duration, fn func()) Timer {
	return s.clock.AfterFunc(d, fn)
}

// Now returns the frame time accumulated by Update and Advance.
func (s *Scene) Now() time.Duration {
	return s.clock.Now()
}

// startTween registers g, stopping older groups that drive the same
// properties of the same node.
func (s *Scene) startTween(g *TweenGroup) {
	for _, old := range s.tweens {
		if old.Done || old.target != g.target {
			continue
		}
		for _, c := range g.channels {
			if old.animates(c.prop) {
				old.Stop()
				break
			}
		}
	}
	s.tweens = append(s.tweens, g)
}

// NumTweens returns how many animations are still running.
func (s *Scene) NumTweens() int {
	n := 0
	for _, g := range s.tweens {
		if !g.Done {
			n++
		}
	}
	return n
}

// Update advances the scene by one tick at ebiten's TPS and runs the update
// callback, if any.
func (s *Scene) Update() error {
	s.Advance(1.0 / float64(ebiten.TPS()))
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

// Advance moves running animations forward by dt seconds, then fires due
// clock timers. Animations started by those timers begin on the next call.
func (s *Scene) Advance(dt float64) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(float32(dt))
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live

	s.clock.advance(time.Duration(dt * float64(time.Second)))
}

// SetUpdateFunc sets a callback run after each Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetLogger replaces the scene logger. A nil logger restores slog.Default().
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.logger = l
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame draw stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	debugLogger = s.logger
}

// ApplySettings reads scene-level keys from settings.
func (s *Scene) ApplySettings(settings *Settings) {
	s.SetDebugMode(settings.GetBool("debug", false))
	if c := settings.Get("clearColor", nil); c != nil {
		packed, err := NormalizeColor(c)
		if err != nil {
			s.logger.Warn("ignoring clearColor setting", "value", fmt.Sprint(c), "err", err)
			return
		}
		s.ClearColor = ColorFromPacked(packed)
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene.
var globalDebug bool
