package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ghiculescu/rustyboy/internal/emu"
	"github.com/ghiculescu/rustyboy/internal/ppu"
)

// App presents delivered frames in an ebiten window. It is the consumer
// side of the frame hand-off: each Update paces the machine by exactly one
// frame, which is what keeps emulation and display in step.
type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	rgba   []byte
	paused bool
}

func NewApp(cfg Config, m *emu.Machine) *App {
	if cfg.Scale <= 0 {
		cfg.Scale = 3
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(ppu.ScreenWidth*cfg.Scale, ppu.ScreenHeight*cfg.Scale)
	return &App{
		cfg:  cfg,
		m:    m,
		tex:  ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight),
		rgba: make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4),
	}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if !a.paused {
		a.m.StepFrame()
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	fb := a.m.Framebuffer()
	for i, j := 0, 0; i < len(fb); i, j = i+3, j+4 {
		a.rgba[j] = fb[i]
		a.rgba[j+1] = fb[i+1]
		a.rgba[j+2] = fb[i+2]
		a.rgba[j+3] = 0xFF
	}
	a.tex.WritePixels(a.rgba)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(a.cfg.Scale), float64(a.cfg.Scale))
	screen.DrawImage(a.tex, op)
}

func (a *App) Layout(_, _ int) (int, int) {
	return ppu.ScreenWidth * a.cfg.Scale, ppu.ScreenHeight * a.cfg.Scale
}
