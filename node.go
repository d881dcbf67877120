package arbor

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic; arbor is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the render-tree element every Element drives. A single flat struct
// is used for all node types; properties addressed by name through Get and
// Set map onto its fields.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node
	scene    *Scene

	// Transform (local). Pivot is a fraction of W/H.
	X, Y           float64
	W, H           float64
	ScaleX, ScaleY float64
	Rotation       float64
	PivotX, PivotY float64

	// Computed during traversal
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Appearance
	Alpha   float64
	Color   uint32 // 0xRRGGBBAA
	ZIndex  int
	Text    string
	Src     string
	Texture *ebiten.Image
	Shader  any

	// Properties without a dedicated field.
	attrs map[string]any

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorOpaqueWhite
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewQuad creates a rectangle node drawn with its color or texture.
func NewQuad(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeQuad}
	nodeDefaults(n)
	return n
}

// NewTextNode creates a node that renders content.
func NewTextNode(name string, content string) *Node {
	n := &Node{Name: name, Type: NodeTypeText, Text: content}
	nodeDefaults(n)
	return n
}

// NodeID returns the node's identifier.
func (n *Node) NodeID() uint32 {
	return n.ID
}

// --- Named properties ---

type nodeProperty struct {
	get func(n *Node) any
	set func(n *Node, v any) error
}

func floatProperty(field func(n *Node) *float64, dirty bool) nodeProperty {
	return nodeProperty{
		get: func(n *Node) any { return *field(n) },
		set: func(n *Node, v any) error {
			f, err := toFloat(v)
			if err != nil {
				return err
			}
			*field(n) = f
			if dirty {
				n.transformDirty = true
			}
			return nil
		},
	}
}

var nodeProperties map[string]nodeProperty

func init() {
	nodeProperties = map[string]nodeProperty{
		"x":        floatProperty(func(n *Node) *float64 { return &n.X }, true),
		"y":        floatProperty(func(n *Node) *float64 { return &n.Y }, true),
		"w":        floatProperty(func(n *Node) *float64 { return &n.W }, true),
		"h":        floatProperty(func(n *Node) *float64 { return &n.H }, true),
		"scaleX":   floatProperty(func(n *Node) *float64 { return &n.ScaleX }, true),
		"scaleY":   floatProperty(func(n *Node) *float64 { return &n.ScaleY }, true),
		"rotation": floatProperty(func(n *Node) *float64 { return &n.Rotation }, true),
		"pivotX":   floatProperty(func(n *Node) *float64 { return &n.PivotX }, true),
		"pivotY":   floatProperty(func(n *Node) *float64 { return &n.PivotY }, true),
		"alpha":    floatProperty(func(n *Node) *float64 { return &n.Alpha }, true),
		"scale": {
			get: func(n *Node) any { return n.ScaleX },
			set: func(n *Node, v any) error {
				f, err := toFloat(v)
				if err != nil {
					return err
				}
				n.SetScale(f, f)
				return nil
			},
		},
		"pivot": {
			get: func(n *Node) any { return n.PivotX },
			set: func(n *Node, v any) error {
				f, err := toFloat(v)
				if err != nil {
					return err
				}
				n.SetPivot(f, f)
				return nil
			},
		},
		"color": {
			get: func(n *Node) any { return n.Color },
			set: func(n *Node, v any) error {
				c, err := NormalizeColor(v)
				if err != nil {
					return err
				}
				n.Color = c
				return nil
			},
		},
		"zIndex": {
			get: func(n *Node) any { return float64(n.ZIndex) },
			set: func(n *Node, v any) error {
				f, err := toFloat(v)
				if err != nil {
					return err
				}
				n.SetZIndex(int(f))
				return nil
			},
		},
		"text": {
			get: func(n *Node) any { return n.Text },
			set: func(n *Node, v any) error { n.Text = toText(v); return nil },
		},
		"src": {
			get: func(n *Node) any { return n.Src },
			set: func(n *Node, v any) error { n.Src = toText(v); return nil },
		},
		"texture": {
			get: func(n *Node) any {
				if n.Texture == nil {
					return nil
				}
				return n.Texture
			},
			set: func(n *Node, v any) error {
				switch img := v.(type) {
				case nil:
					n.Texture = nil
				case *ebiten.Image:
					n.Texture = img
				case string:
					n.Src = img
				default:
					return fmt.Errorf("%w: texture must be *ebiten.Image or a path, got %T", ErrInvalidValue, v)
				}
				return nil
			},
		},
		"shader": {
			get: func(n *Node) any { return n.Shader },
			set: func(n *Node, v any) error { n.Shader = v; return nil },
		},
		"parent": {
			get: func(n *Node) any {
				if n.Parent == nil {
					return nil
				}
				return n.Parent
			},
			set: func(n *Node, v any) error {
				if v == nil {
					n.SetParent(nil)
					return nil
				}
				p, ok := v.(RenderNode)
				if !ok {
					return fmt.Errorf("%w: parent must be a node, got %T", ErrInvalidValue, v)
				}
				n.SetParent(p)
				return nil
			},
		},
	}
	nodeProperties["width"] = nodeProperties["w"]
	nodeProperties["height"] = nodeProperties["h"]
}

// Get returns the named property. Properties without a dedicated field
// return whatever was last stored with Set, or nil.
func (n *Node) Get(prop string) any {
	if p, ok := nodeProperties[prop]; ok {
		return p.get(n)
	}
	return n.attrs[prop]
}

// Set writes the named property. Unknown properties are stored as-is.
func (n *Node) Set(prop string, v any) error {
	if p, ok := nodeProperties[prop]; ok {
		if err := p.set(n, v); err != nil {
			return fmt.Errorf("node %d set %s: %w", n.ID, prop, err)
		}
		return nil
	}
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[prop] = v
	return nil
}

// apply writes every key of props in order.
func (n *Node) apply(props Props) error {
	for _, k := range props.Keys() {
		if err := n.Set(k, props.Value(k)); err != nil {
			return err
		}
	}
	return nil
}

// SetParent attaches n to parent, or detaches it when parent is nil.
// Panics if parent is not a *Node.
func (n *Node) SetParent(parent RenderNode) {
	p, ok := parent.(*Node)
	if parent == nil || (ok && p == nil) {
		n.RemoveFromParent()
		return
	}
	if !ok {
		panic(fmt.Sprintf("arbor: parent must be a *Node, got %T", parent))
	}
	if n.Parent == p {
		return
	}
	p.AddChild(n)
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("arbor: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// drawOrder returns the children sorted by ZIndex, stable on insertion order.
func (n *Node) drawOrder() []*Node {
	if n.childrenSorted && len(n.sortedChildren) == len(n.children) {
		return n.sortedChildren
	}
	n.sortedChildren = append(n.sortedChildren[:0], n.children...)
	sort.SliceStable(n.sortedChildren, func(i, j int) bool {
		return n.sortedChildren[i].ZIndex < n.sortedChildren[j].ZIndex
	})
	n.childrenSorted = true
	return n.sortedChildren
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Running animations on disposed
// nodes stop on their next update.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	if n.scene != nil {
		n.scene.unregister(n)
	}
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.Texture = nil
	n.Shader = nil
	n.attrs = nil
	n.scene = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
