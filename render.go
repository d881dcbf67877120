package arbor

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// whitePixel is a 1x1 white image scaled to draw solid color quads. Created
// on first draw so that building scenes never touches the graphics driver.
var whitePixel *ebiten.Image

func solidPixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorFromPacked(ColorOpaqueWhite).toRGBA())
	}
	return whitePixel
}

// Draw refreshes world transforms and draws the tree to screen in ZIndex
// order. Quads use their texture (or src image) tinted by color, else a
// solid color box; text nodes use the debug font.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	var stats drawStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	updateWorldTransform(s.root, identityTransform, 1.0, false)

	if s.debug {
		stats.traverseTime = time.Since(t0)
		t0 = time.Now()
	}

	var op ebiten.DrawImageOptions
	s.drawNode(screen, s.root, &op, &stats)

	if s.debug {
		stats.drawTime = time.Since(t0)
		s.debugLog(stats)
	}
}

func (s *Scene) drawNode(target *ebiten.Image, n *Node, op *ebiten.DrawImageOptions, stats *drawStats) {
	if n.worldAlpha <= 0 {
		return
	}
	stats.nodesVisited++

	switch n.Type {
	case NodeTypeQuad:
		if s.drawQuad(target, n, op) {
			stats.drawCalls++
		}
	case NodeTypeText:
		if n.Text != "" {
			x, y := n.LocalToWorld(0, 0)
			ebitenutil.DebugPrintAt(target, n.Text, int(x), int(y))
			stats.drawCalls++
		}
	}

	for _, child := range n.drawOrder() {
		s.drawNode(target, child, op, stats)
	}
}

// drawQuad draws n and reports whether anything was submitted.
func (s *Scene) drawQuad(target *ebiten.Image, n *Node, op *ebiten.DrawImageOptions) bool {
	c := ColorFromPacked(n.Color)
	if c.A == 0 {
		return false
	}
	img := n.Texture
	if img == nil && n.Src != "" {
		img = s.texture(n.Src)
	}

	op.GeoM.Reset()
	if img != nil {
		b := img.Bounds()
		if n.W > 0 && n.H > 0 && b.Dx() > 0 && b.Dy() > 0 {
			op.GeoM.Scale(n.W/float64(b.Dx()), n.H/float64(b.Dy()))
		}
	} else {
		if n.W <= 0 || n.H <= 0 {
			return false
		}
		img = solidPixel()
		op.GeoM.Scale(n.W, n.H)
	}
	if n.W > 0 && n.H > 0 && !n.WorldBounds().Intersects(screenRect(target)) {
		return false
	}
	m := n.worldTransform
	var world ebiten.GeoM
	world.SetElement(0, 0, m[0])
	world.SetElement(1, 0, m[1])
	world.SetElement(0, 1, m[2])
	world.SetElement(1, 1, m[3])
	world.SetElement(0, 2, m[4])
	world.SetElement(1, 2, m[5])
	op.GeoM.Concat(world)

	a := float32(c.A * n.worldAlpha)
	op.ColorScale.Reset()
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	target.DrawImage(img, op)
	return true
}

func screenRect(target *ebiten.Image) Rect {
	b := target.Bounds()
	return Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// texture returns the cached image for path, loading it on first use.
// Failed loads are cached as nil and logged once.
func (s *Scene) texture(path string) *ebiten.Image {
	if img, ok := s.textures[path]; ok {
		return img
	}
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		s.logger.Warn("failed to load texture", "src", path, "err", err)
		img = nil
	}
	s.textures[path] = img
	return img
}

// toRGBA converts c to premultiplied 8-bit components for image.Fill.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

// RGBA implements color.Color.
func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = uint32(c.A)
	a |= a << 8
	return
}
