// Command stagedemo runs the engine headless on the noop GPU device.
//
// It builds a small 3D scene and a 2D screen, runs a number of frames
// through the services update loop and reports renderer statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/mesh"
	"github.com/gogpu/stage/module"
	"github.com/gogpu/stage/render"
	"github.com/gogpu/stage/scene"
	"github.com/gogpu/stage/screen"
	"github.com/gogpu/stage/services"
	"github.com/gogpu/stage/sound"
	"github.com/gogpu/stage/tween"
)

const filterWGSL = `@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}`

func main() {
	var (
		width    = flag.Int("width", 800, "viewport width")
		height   = flag.Int("height", 600, "viewport height")
		frames   = flag.Int("frames", 120, "frames to run")
		cfgPath  = flag.String("config", "", "optional TOML config file")
		saveMesh = flag.String("save-mesh", "", "write the sphere mesh to this file")
		verbose  = flag.Bool("v", false, "log at debug level")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	stage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*width, *height, *frames, *cfgPath, *saveMesh); err != nil {
		log.Fatalf("stagedemo: %v", err)
	}
}

func run(width, height, frames int, cfgPath, saveMesh string) error {
	dev, err := render.OpenNoopDevice()
	if err != nil {
		return err
	}
	defer dev.Close()

	r, err := render.NewGPURenderer(dev, width, height)
	if err != nil {
		return err
	}
	defer r.Close()

	svc := services.New(services.WithRenderer(r))
	defer func() { _ = svc.Close() }()

	cfg := svc.Config()
	cfg.SetNumber("demo", "rings", 12)
	cfg.SetNumber("demo", "segments", 24)
	if cfgPath != "" {
		if err := cfg.Load(cfgPath); err != nil {
			return err
		}
	}

	if err := svc.InstallModule(module.NewShader("tint", filterWGSL)); err != nil {
		return err
	}
	if _, err := svc.Materials().CreateMaterial("tint", "tint"); err != nil {
		return err
	}

	sphere, err := buildScene(svc, int(cfg.Number("demo", "rings")), int(cfg.Number("demo", "segments")))
	if err != nil {
		return err
	}
	if saveMesh != "" {
		if err := sphere.SaveToFile(saveMesh); err != nil {
			return err
		}
		stage.Logger().Info("stagedemo: mesh saved", "path", saveMesh)
	}
	if err := buildScreen(svc); err != nil {
		return err
	}
	if _, err := svc.Fonts().Register("go", goregular.TTF); err != nil {
		return err
	}
	m, err := svc.Fonts().Metrics("go", 16)
	if err != nil {
		return err
	}
	stage.Logger().Info("stagedemo: font", "ascent", m.Ascent, "line", m.LineHeight)

	svc.Sound().Play(beep.Take(sound.SampleRate.N(time.Second), tone(440)), 0.5)
	audio := make([][2]float64, sound.SampleRate.N(time.Second/60))

	const step = time.Second / 60
	for i := range frames {
		if err := svc.Update(step); err != nil {
			stage.Logger().Warn("stagedemo: frame failed", "frame", i, "err", err)
		}
		svc.Sound().Stream(audio)
	}

	st := r.Stats()
	fmt.Printf("%d frames: %d draws, %d vertices, %d uploads (%d bytes), %d filter passes\n",
		frames, st.DrawCalls, st.Vertices, st.Uploads, st.UploadBytes, st.FilterPasses)
	return nil
}

func buildScene(svc *services.CoreServices, rings, segments int) (*mesh.Mesh, error) {
	sphere := mesh.New(mesh.TriMesh)
	if err := sphere.CreateSphere(1, rings, segments); err != nil {
		return nil, err
	}
	if err := svc.Resources().AddMesh("sphere", sphere); err != nil {
		return nil, err
	}

	sc := svc.NewScene()
	sc.FarDistance = 50
	root := scene.NewEntity(sphere)
	root.Position = stage.V3(0, 0, -5)
	moon := scene.NewEntity(sphere)
	moon.Scale = stage.V3(0.3, 0.3, 0.3)
	moon.Position = stage.V3(2, 0, 0)
	root.AddChild(moon)
	root.OnUpdate = func(e *scene.Entity, elapsed time.Duration) {
		e.Rotation.Y += float32(elapsed.Seconds()) * 45
	}
	sc.AddEntity(root)

	svc.Timers().Add(time.Second, true, func() {
		moon.Visible = !moon.Visible
	})
	return sphere, nil
}

func buildScreen(svc *services.CoreServices) error {
	scr := svc.NewScreen()
	if err := scr.SetScreenShader("tint"); err != nil {
		return err
	}

	panel, err := screen.NewRect(200, 60)
	if err != nil {
		return err
	}
	panel.SetPosition(20, 20)
	panel.Color = stage.RGBA(0.1, 0.1, 0.1, 0.8)
	scr.AddChild(panel)

	dot, err := screen.NewCircle(32, 32, 24)
	if err != nil {
		return err
	}
	dot.ZIndex = 1
	dot.SetPosition(30, 34)
	scr.AddChild(dot)
	svc.Tweens().Add(&dot.Position.X, 180, 2*time.Second, tween.SineInOut)

	icon, err := screen.NewImage(16, 16)
	if err != nil {
		return err
	}
	icon.ZIndex = 2
	icon.SetPosition(196, 42)
	scr.AddChild(icon)
	return nil
}

// tone is an endless sine wave at freq Hz.
func tone(freq float64) beep.Streamer {
	var pos int
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := 0.2 * math.Sin(2*math.Pi*freq*float64(pos)/float64(sound.SampleRate))
			samples[i] = [2]float64{v, v}
			pos++
		}
		return len(samples), true
	})
}
