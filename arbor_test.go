package arbor

import (
	"math"
	"testing"
)

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Rect.Intersects ---

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, true},
		{"disjoint right", Rect{111, 10, 50, 50}, false},
		{"disjoint above", Rect{10, -100, 50, 50}, false},
		{"disjoint below", Rect{10, 111, 50, 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expect {
				t.Errorf("Rect%v.Intersects(Rect%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

// --- WorldBounds ---

func TestWorldBoundsRotated(t *testing.T) {
	root := NewContainer("root")
	n := NewQuad("q")
	n.X, n.Y = 100, 100
	n.W, n.H = 20, 10
	n.PivotX, n.PivotY = 0.5, 0.5
	n.Rotation = math.Pi / 2
	root.AddChild(n)
	updateWorldTransform(root, identityTransform, 1, false)

	// A 20x10 box turned a quarter around its centre (110, 105) is 10x20.
	b := n.WorldBounds()
	assertNear(t, "X", b.X, 105)
	assertNear(t, "Y", b.Y, 95)
	assertNear(t, "Width", b.Width, 10)
	assertNear(t, "Height", b.Height, 20)
}

// --- Enums and colors ---

func TestNodeTypeString(t *testing.T) {
	tests := []struct {
		typ  NodeType
		want string
	}{
		{NodeTypeContainer, "container"},
		{NodeTypeQuad, "quad"},
		{NodeTypeText, "text"},
		{NodeType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("NodeType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestElementStateValues(t *testing.T) {
	if ElementUninitialized != 0 || ElementPopulated != 1 || ElementDeleted != 2 {
		t.Error("element states should be ordered uninitialized < populated < deleted")
	}
}

func TestColorWhite(t *testing.T) {
	if ColorWhite.R != 1 || ColorWhite.G != 1 || ColorWhite.B != 1 || ColorWhite.A != 1 {
		t.Errorf("ColorWhite = %v, want {1,1,1,1}", ColorWhite)
	}
	if ColorWhite.Packed() != ColorOpaqueWhite {
		t.Errorf("ColorWhite.Packed() = %#x, want %#x", ColorWhite.Packed(), ColorOpaqueWhite)
	}
}

// --- Benchmarks (verify zero allocations) ---

func BenchmarkRectContains(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Contains(50, 40)
	}
}

func BenchmarkRectIntersects(b *testing.B) {
	r := Rect{10, 20, 100, 50}
	other := Rect{50, 40, 80, 60}
	b.ReportAllocs()
	for b.Loop() {
		_ = r.Intersects(other)
	}
}
