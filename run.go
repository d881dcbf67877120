package arbor

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable lets the user resize the window; the layout follows it.
	Resizable bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene         *Scene
	width, height int
	resizable     bool
}

func (g *game) Update() error {
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	if g.resizable {
		return outsideW, outsideH
	}
	return g.width, g.height
}

// Run opens a window and drives scene until the window closes or the update
// callback returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&game{scene: scene, width: cfg.Width, height: cfg.Height, resizable: cfg.Resizable})
}
