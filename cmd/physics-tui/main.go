// Command physics-tui runs a scene in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"physics2d/internal/audio"
	"physics2d/internal/camera"
	"physics2d/internal/geom"
	"physics2d/internal/physics"
	"physics2d/internal/scene"
	"physics2d/internal/tui"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

const timestep = 1.0 / 60

type app struct {
	screen tcell.Screen
	sound  *audio.Manager
	logger *log.Logger

	sceneName string
	count     int
	seed      int64

	world    *physics.World
	cam      *camera.Camera
	frame    tui.Frame
	paused   bool
	contacts bool
	status   string
}

func (a *app) load() error {
	f, err := scene.Builtin(a.sceneName, a.count, a.seed)
	if err != nil {
		return err
	}
	w, err := f.Build(a.logger)
	if err != nil {
		return err
	}
	w.ContactBegan.AddListener(func(e physics.ContactEvent) {
		cols, _ := a.frame.Size()
		pan := 0.0
		if cols > 0 {
			pan = a.cam.WorldToScreen(e.Point).X()/float64(cols)*2 - 1
		}
		a.sound.PlayImpact(e.Speed, pan)
	})
	a.world = w
	a.fit()
	a.status = fmt.Sprintf("%s: %d bodies", a.sceneName, w.Len())
	return nil
}

func (a *app) resize() {
	cols, rows := a.screen.Size()
	rows-- // status line
	a.frame = tui.NewFrame(cols, rows)
	a.cam = tui.NewCamera(cols, rows, 1)
	if a.world != nil {
		a.fit()
	}
}

func (a *app) fit() {
	var bounds geom.AABB
	empty := true
	a.world.Each(func(b *physics.Body) {
		if empty {
			bounds, empty = b.AABB(), false
			return
		}
		bounds = bounds.Union(b.AABB())
	})
	if !empty {
		a.cam.Fit(bounds.Expand(1), 1)
	}
}

func (a *app) draw() {
	tui.Rasterize(a.frame, a.world, a.cam, a.contacts)

	a.screen.Clear()
	base := tcell.StyleDefault
	for r, row := range a.frame {
		for c, cell := range row {
			if cell.Rune == 0 {
				continue
			}
			style := base.Foreground(tcell.ColorWhite)
			if cell.Color != "" {
				style = base.Foreground(tcell.GetColor(cell.Color))
			}
			if cell.Asleep {
				style = style.Dim(true)
			}
			a.screen.SetContent(c, r, cell.Rune, nil, style)
		}
	}

	st := a.world.Stats()
	line := fmt.Sprintf(" %s | bodies %d awake %d contacts %d | step %v | space pause, r reset, c contacts, +/- zoom, arrows pan, 1-9 scenes, q quit",
		a.status, st.Bodies, st.Awake, st.Contacts, st.LastStep.Round(time.Microsecond))
	if a.paused {
		line = " PAUSED" + line
	}
	_, rows := a.screen.Size()
	for i, ch := range line {
		a.screen.SetContent(i, rows-1, ch, nil, base.Reverse(true))
	}
	a.screen.Show()
}

// handleInput returns false when the app should quit.
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			a.cam.Pan(-4, 0)
		case tcell.KeyRight:
			a.cam.Pan(4, 0)
		case tcell.KeyUp:
			a.cam.Pan(0, -4)
		case tcell.KeyDown:
			a.cam.Pan(0, 4)
		case tcell.KeyRune:
			switch r := ev.Rune(); {
			case r == 'q':
				return false
			case r == ' ':
				a.paused = !a.paused
			case r == 'r':
				a.reload()
			case r == 'c':
				a.contacts = !a.contacts
			case r == '+' || r == '=':
				a.zoom(1.25)
			case r == '-':
				a.zoom(0.8)
			case r == 'n' && a.paused:
				a.world.Step(timestep)
			case r >= '1' && r <= '9':
				names := scene.Names()
				if i := int(r - '1'); i < len(names) {
					a.sceneName = names[i]
					a.reload()
				}
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	}
	return true
}

func (a *app) zoom(factor float64) {
	a.cam.ZoomAt(mgl64.Vec2{a.cam.Width / 2, a.cam.Height / 2}, factor)
}

func (a *app) reload() {
	if err := a.load(); err != nil {
		a.status = err.Error()
	}
}

func (a *app) run() error {
	ticker := time.NewTicker(time.Duration(timestep * float64(time.Second)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			events <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-events:
			if ev == nil || !a.handleInput(ev) {
				return nil
			}
		case <-ticker.C:
			if !a.paused {
				if err := a.world.Step(timestep); err != nil {
					return err
				}
			}
			a.draw()
		}
	}
}

func main() {
	sceneName := flag.String("scene", "rain", "built-in scene")
	count := flag.Int("count", 60, "number of bodies in generated scenes")
	seed := flag.Int64("seed", 1, "random seed")
	mute := flag.Bool("mute", false, "disable impact sounds")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *logPath != "" {
		lf, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("open log: %v", err)
		}
		defer lf.Close()
		logger.SetOutput(lf)
	} else {
		// stderr would scribble over the screen
		logger = nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}

	a := &app{
		screen:    screen,
		sound:     audio.NewManager(),
		logger:    logger,
		sceneName: *sceneName,
		count:     *count,
		seed:      *seed,
		contacts:  true,
	}
	if !*mute {
		if err := a.sound.Initialize(); err != nil && logger != nil {
			logger.Printf("audio disabled: %v", err)
		}
	}
	a.resize()

	err = a.load()
	if err == nil {
		err = a.run()
	}
	a.sound.Close()
	screen.Fini()
	if err != nil {
		log.Fatal(err)
	}
}
