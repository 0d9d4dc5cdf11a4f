package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/airmouse/internal/actuator"
	"github.com/ayusman/airmouse/internal/app"
	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/control"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/geom"
	"github.com/ayusman/airmouse/internal/server"
	"github.com/ayusman/airmouse/internal/source"
	"github.com/ayusman/airmouse/internal/store"
	"github.com/ayusman/airmouse/internal/tray"
)

type options struct {
	camera  int
	dbPath  string
	addr    string
	replay  string
	record  string
	noTray  bool
	dryRun  bool
	width   int
	height  int
	webDir  string
	script  string
	replayI time.Duration
}

func parseFlags(args []string) (options, error) {
	defaults := config.Default()
	var o options
	fs := flag.NewFlagSet("airmouse", flag.ContinueOnError)
	fs.IntVar(&o.camera, "camera", defaults.CameraID, "camera device id")
	fs.StringVar(&o.dbPath, "db", "", "settings database (default ~/.airmouse/airmouse.db)")
	fs.StringVar(&o.addr, "addr", "127.0.0.1:8080", "status server listen address, empty to disable")
	fs.StringVar(&o.replay, "replay", "", "replay observations from a JSON-lines trace instead of the camera")
	fs.DurationVar(&o.replayI, "replay-interval", time.Second/config.DefaultActiveFPS, "delay between replayed observations")
	fs.StringVar(&o.record, "record", "", "write every observation to a JSON-lines trace")
	fs.BoolVar(&o.noTray, "no-tray", false, "run without the system tray")
	fs.BoolVar(&o.dryRun, "dry-run", false, "log pointer intents instead of moving the pointer")
	fs.IntVar(&o.width, "width", defaults.SurfaceWidth, "surface width override")
	fs.IntVar(&o.height, "height", defaults.SurfaceHeight, "surface height override")
	fs.StringVar(&o.webDir, "web", "", "static files for the status page")
	fs.StringVar(&o.script, "hands-script", "", "path to hands_service.py")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.width < 0 || o.height < 0 {
		return o, fmt.Errorf("%w: negative surface size", config.ErrInvalidConfig)
	}
	return o, nil
}

func main() {
	fmt.Println("Airmouse - Hand Pointer Control")

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stop, opts); err != nil {
		log.Fatalf("airmouse: %v", err)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, opts options) error {
	dbPath, err := resolveDBPath(opts.dbPath)
	if err != nil {
		return err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	tuning, err := loadTuning(st)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(opts, tuning)
	if err != nil {
		return err
	}

	act, width, height, err := newActuator(opts)
	if err != nil {
		return err
	}

	src, err := newSource(opts, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	var t *tray.Tray
	if !opts.noTray {
		t = tray.New()
	}

	hub := server.NewHub()
	loop, err := app.New(app.Config{
		Source:        src,
		Actuator:      act,
		SurfaceWidth:  width,
		SurfaceHeight: height,
		Tuning:        cfg.Tuning,
		Store:         st,
		Events:        hub,
		OnAction: func(a control.Action) {
			if t != nil {
				t.SetLastAction(a.String())
			}
		},
		OnEnabled: followEnabled(t),
	})
	if err != nil {
		return err
	}
	log.Printf("Controlling a %dx%d surface", width, height)

	if opts.addr != "" {
		srv := server.New(server.Config{
			StaticDir: findWebDir(opts.webDir),
			Store:     st,
			Runtime:   loop,
			Events:    hub,
		})
		go func() {
			log.Printf("Starting server on %s", opts.addr)
			if err := srv.ListenAndServe(ctx, opts.addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	loop.Start(ctx)
	go func() {
		// A finished replay ends the program.
		<-loop.Done()
		cancel()
	}()

	if t != nil {
		bindToggle(t, loop)
		t.OnSettings(func() {
			if opts.addr != "" {
				openBrowser("http://" + browseAddr(opts.addr))
			}
		})
		t.OnQuit(cancel)
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		// systray needs the main goroutine on macOS.
		t.Run()
	} else {
		<-ctx.Done()
	}

	return loop.Stop()
}

// bindToggle makes the tray toggle flip the loop's state. The loop reports the
// result back through OnEnabled, so API changes and tray clicks stay in step.
func bindToggle(t *tray.Tray, loop *app.App) {
	t.OnToggle(func(bool) {
		loop.Toggle()
	})
}

// followEnabled logs state changes and mirrors them in the tray, if any.
func followEnabled(t *tray.Tray) func(bool) {
	return func(enabled bool) {
		log.Printf("Pointer control enabled: %v", enabled)
		if t != nil {
			t.SetEnabled(enabled)
		}
	}
}

// buildConfig applies the flag overrides and saved tuning to the defaults.
func buildConfig(opts options, tuning config.Tuning) (config.Config, error) {
	cfg := config.Default()
	cfg.CameraID = opts.camera
	cfg.SurfaceWidth = opts.width
	cfg.SurfaceHeight = opts.height
	cfg.Tuning = tuning
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadTuning applies the persisted overrides to the defaults.
func loadTuning(st *store.Store) (config.Tuning, error) {
	saved, err := st.Settings().All()
	if err != nil {
		return config.Tuning{}, fmt.Errorf("load settings: %w", err)
	}
	tuning, err := config.Default().Tuning.Apply(saved)
	if err != nil {
		return config.Tuning{}, fmt.Errorf("saved settings: %w", err)
	}
	return tuning, nil
}

func newActuator(opts options) (actuator.Actuator, int, int, error) {
	width, height := opts.width, opts.height
	if opts.dryRun {
		if width == 0 || height == 0 {
			width, height = 1920, 1080
		}
		return &logActuator{pos: geom.SurfacePoint{X: width / 2, Y: height / 2}}, width, height, nil
	}

	sys, err := actuator.NewSystem()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("pointer actuator: %w", err)
	}
	if width == 0 || height == 0 {
		width, height = sys.Size()
	}
	return sys, width, height, nil
}

func newSource(opts options, cfg config.Config) (source.Source, error) {
	var src source.Source
	if opts.replay != "" {
		r, err := source.OpenReplay(opts.replay, opts.replayI)
		if err != nil {
			return nil, err
		}
		log.Printf("Replaying observations from %s", opts.replay)
		src = r
	} else {
		detCfg := detector.DefaultConfig()
		detCfg.ScriptPath = opts.script
		det, err := detector.NewMediaPipeDetector(detCfg)
		if err != nil {
			return nil, fmt.Errorf("hand detector: %w", err)
		}
		camOpts := capture.DefaultOptions(cfg.CameraID)
		camOpts.Width, camOpts.Height, camOpts.FPS = cfg.FrameWidth, cfg.FrameHeight, cfg.ActiveFPS
		cam, err := source.NewCamera(
			capture.NewCamera(camOpts),
			det,
			capture.NewMotionDetector(cfg.MotionThreshold),
			capture.NewPacer(cfg.ActiveFPS, cfg.IdleFPS, capture.DefaultCooldown),
		)
		if err != nil {
			det.Close()
			return nil, err
		}
		log.Printf("Using camera %d with MediaPipe hand landmarks", cfg.CameraID)
		src = cam
	}

	if opts.record == "" {
		return src, nil
	}
	f, err := os.Create(opts.record)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("create trace: %w", err)
	}
	log.Printf("Recording observations to %s", opts.record)
	return &recording{Recorder: source.NewRecorder(src, f), file: f}, nil
}

// recording closes the trace file after the wrapped source.
type recording struct {
	*source.Recorder
	file *os.File
}

func (r *recording) Close() error {
	return errors.Join(r.Recorder.Close(), r.file.Close())
}

// logActuator logs intents and tracks where the pointer would be.
type logActuator struct {
	pos geom.SurfacePoint
}

func (l *logActuator) Position() geom.SurfacePoint { return l.pos }

func (l *logActuator) MoveTo(p geom.SurfacePoint) error {
	log.Printf("move %d,%d", p.X, p.Y)
	l.pos = p
	return nil
}

func (l *logActuator) Click(b control.Button) error {
	log.Printf("click %s", b)
	return nil
}

func (l *logActuator) Scroll(amount int) error {
	log.Printf("scroll %d", amount)
	return nil
}

func resolveDBPath(path string) (string, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".airmouse", "airmouse.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return path, nil
}

// findWebDir returns dir when set, otherwise the first of "web", "../web"
// and ~/.airmouse/web that exists, or "".
func findWebDir(dir string) string {
	candidates := []string{"web", "../web"}
	if dir != "" {
		candidates = []string{dir}
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".airmouse", "web"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func browseAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
