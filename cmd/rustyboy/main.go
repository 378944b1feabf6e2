package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/ghiculescu/rustyboy/internal/emu"
	"github.com/ghiculescu/rustyboy/internal/ppu"
	"github.com/ghiculescu/rustyboy/internal/ui"
)

type cliFlags struct {
	ROMPath string
	Scale   int
	Title   string

	Headless bool
	Frames   int
	PNGOut   string
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to cartridge image (.gb)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "rustyboy", "window title")
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.Parse()
	if f.ROMPath == "" {
		f.ROMPath = flag.Arg(0)
	}
	return f
}

func runHeadless(m *emu.Machine, frames int, pngPath string) error {
	if frames <= 0 {
		frames = 1
	}
	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)
	fps := float64(frames) / dur.Seconds()
	log.Printf("headless: frames=%d elapsed=%s fps=%.2f", frames, dur.Truncate(time.Millisecond), fps)

	if pngPath != "" {
		if err := saveFramePNG(m.Framebuffer(), pngPath); err != nil {
			return err
		}
		log.Printf("wrote %s", pngPath)
	}
	return nil
}

func saveFramePNG(fb []byte, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for i, j := 0, 0; i < len(fb); i, j = i+3, j+4 {
		img.Pix[j] = fb[i]
		img.Pix[j+1] = fb[i+1]
		img.Pix[j+2] = fb[i+2]
		img.Pix[j+3] = 0xFF
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func main() {
	f := parseFlags()
	if f.ROMPath == "" {
		log.Fatal("you must pass a cartridge path (-rom or first argument)")
	}
	rom, err := os.ReadFile(f.ROMPath)
	if err != nil {
		log.Fatalf("read %s: %v", f.ROMPath, err)
	}
	log.Printf("ROM loaded from %s (%d bytes)", f.ROMPath, len(rom))

	m := emu.New(emu.Config{})
	if err := m.LoadCartridge(rom); err != nil {
		log.Fatalf("load cart: %v", err)
	}

	if f.Headless {
		if err := runHeadless(m, f.Frames, f.PNGOut); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := ui.NewApp(ui.Config{Title: f.Title, Scale: f.Scale}, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
