// Package ebiten provides an Ebiten-based windowed host: it ticks the
// curator once per frame and draws the whole population.
package ebiten

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"mapcurator/pkg/game/curator"
	"mapcurator/pkg/game/i18n"
)

// statusBarHeight is the pixel strip reserved for text under the board
const statusBarHeight = 36

// EbitenRenderer drives and draws a curator population
type EbitenRenderer struct {
	cur *curator.Curator

	windowWidth  int
	windowHeight int

	// thumbs holds one image per candidate, sized to its grid
	thumbs []*ebiten.Image
	pixels []byte

	status             string
	windowOpenedLogged bool
}

// New creates a new Ebiten renderer for cur
func New(cur *curator.Curator) *EbitenRenderer {
	return &EbitenRenderer{
		cur:          cur,
		windowWidth:  900,
		windowHeight: 900 + statusBarHeight,
	}
}

// Init sets up the window
func (e *EbitenRenderer) Init() {
	ebiten.SetWindowSize(e.windowWidth, e.windowHeight)
	ebiten.SetWindowTitle(i18n.Get("APP_TITLE"))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
}

// Run starts the Ebiten game loop and blocks until the window closes
func (e *EbitenRenderer) Run() error {
	e.Init()
	err := ebiten.RunGame(e)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	if err != nil {
		log.Printf("ebiten: %v", err)
	}
	return err
}
