package arbor

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorFromPacked unpacks a 0xRRGGBBAA value.
func ColorFromPacked(v uint32) Color {
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}
}

// Packed returns c as 0xRRGGBBAA, clamping each component to [0, 1].
func (c Color) Packed() uint32 {
	return uint32(clamp01(c.R)*255+0.5)<<24 |
		uint32(clamp01(c.G)*255+0.5)<<16 |
		uint32(clamp01(c.B)*255+0.5)<<8 |
		uint32(clamp01(c.A)*255+0.5)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap. Boxes that only touch
// along an edge count as overlapping.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // root and grouping node, no visual output
	NodeTypeQuad                      // colored rectangle or texture
	NodeTypeText                      // renders its text property
)

// String returns the lower-case type name used in logs and metric labels.
func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeQuad:
		return "quad"
	case NodeTypeText:
		return "text"
	default:
		return "unknown"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
