package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spaghettifunk/rtx/engine/assets"
	"github.com/spaghettifunk/rtx/engine/containers"
	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/engine/renderer"
	"github.com/spaghettifunk/rtx/engine/renderer/metadata"
	"github.com/spaghettifunk/rtx/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

var ErrWrongStage = errors.New("engine is in the wrong stage")

// StdoutOutput as the output path writes the packed scene to stdout.
const StdoutOutput = "-"

// number of builds kept by History
const historySize = 16

// permissions of the written output
const outputMode = 0o644

// BuildReport describes one attempt at building the output.
type BuildReport struct {
	At       time.Time
	Duration time.Duration
	Objects  int
	Vertices int
	Faces    int
	Err      error
}

type Engine struct {
	mutex         sync.Mutex
	currentStage  Stage
	gameInstance  *Game
	systemManager *systems.SystemManager
	watcher       *assets.Watcher
	clock         *core.Clock
	builds        int
	history       *containers.RingQueue[BuildReport]
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	if g.FnBuildScene == nil {
		err := fmt.Errorf("game has no scene builder")
		core.LogError(err.Error())
		return nil, err
	}
	core.SetLogLevel(core.ParseLogLevel(g.ApplicationConfig.LogLevel))

	sm, err := systems.NewSystemManager(g.ApplicationConfig.geometrySystemConfig())
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		systemManager: sm,
		clock:         core.NewClock(),
		history:       containers.NewRingQueue[BuildReport](historySize),
	}, nil
}

func (e *Engine) Stage() Stage {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.currentStage
}

// History returns the latest build attempts, oldest first.
func (e *Engine) History() []BuildReport {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.history.Items()
}

// Builds returns how many times the output has been written.
func (e *Engine) Builds() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.builds
}

func (e *Engine) transition(from, to Stage) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if e.currentStage != from {
		return fmt.Errorf("%w: %s, want %s", ErrWrongStage, e.currentStage, from)
	}
	e.currentStage = to
	return nil
}

func (e *Engine) Initialize() error {
	if err := e.transition(EngineStageUninitialized, EngineStageInitialized); err != nil {
		return err
	}
	cfg := e.gameInstance.ApplicationConfig
	if cfg.Watch {
		w, err := assets.NewWatcher(cfg.Path())
		if err != nil {
			core.LogError(err.Error())
			return err
		}
		e.watcher = w
	}
	core.MetricsReset()
	core.LogInfo("%s initialized: %d workers, on_error=%s", cfg.Name, cfg.Workers, cfg.OnError)
	return nil
}

/**
 * @brief Builds the output once. In watch mode it reloads the config file on
 * every change and rebuilds until ctx is done; failed reloads and rebuilds
 * are logged and the previous output is kept.
 */
func (e *Engine) Run(ctx context.Context) error {
	if err := e.transition(EngineStageInitialized, EngineStageRunning); err != nil {
		return err
	}
	e.clock.Start()
	defer e.clock.Stop()

	if _, err := e.Build(ctx); err != nil {
		if e.watcher == nil {
			return err
		}
		core.LogError("build failed, waiting for changes: %s", err)
	}
	if e.watcher == nil {
		return nil
	}

	core.LogInfo("watching %s", e.watcher.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-e.watcher.Reload():
			if !ok {
				return nil
			}
			core.LogInfo("%s changed, rebuilding", e.watcher.Path())
			if err := e.reloadConfig(); err != nil {
				core.LogError("reload failed: %s", err)
				continue
			}
			if _, err := e.Build(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				core.LogError("rebuild failed: %s", err)
			}
		case err, ok := <-e.watcher.Errors():
			if !ok {
				return nil
			}
			core.LogWarn("watcher: %s", err)
		}
	}
}

// Build builds, packs and writes the scene once.
func (e *Engine) Build(ctx context.Context) (*metadata.PackedScene, error) {
	if stage := e.Stage(); stage != EngineStageInitialized && stage != EngineStageRunning {
		return nil, fmt.Errorf("%w: cannot build while %s", ErrWrongStage, stage)
	}
	report := BuildReport{At: time.Now()}
	ps, err := e.build(ctx)
	report.Duration = time.Since(report.At)
	report.Err = err
	if ps != nil {
		report.Objects = len(ps.Objects)
		report.Vertices = len(ps.Vertices)
		report.Faces = len(ps.Faces)
	}

	e.mutex.Lock()
	e.history.Push(report)
	if err == nil {
		e.builds++
	}
	e.mutex.Unlock()

	if err != nil {
		return nil, err
	}
	e.clock.Update()
	core.LogInfo("packed %d objects, %d vertices, %d faces in %s (avg pack %.3f ms, up %s)",
		report.Objects, report.Vertices, report.Faces, report.Duration, core.MetricsPackTime(), e.clock.Elapsed())
	return ps, nil
}

func (e *Engine) build(ctx context.Context) (*metadata.PackedScene, error) {
	s, err := e.gameInstance.FnBuildScene(e.gameInstance.ApplicationConfig)
	if err != nil {
		return nil, err
	}
	ps, err := e.systemManager.PackScene(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := e.writeOutput(ps); err != nil {
		return nil, err
	}
	if e.gameInstance.FnOnPacked != nil {
		if err := e.gameInstance.FnOnPacked(ps); err != nil {
			return nil, err
		}
	}
	return ps, nil
}

// reloadConfig applies the settings that can change while running. The
// worker pool keeps its size until the next start.
func (e *Engine) reloadConfig() error {
	current := e.gameInstance.ApplicationConfig
	next, err := LoadApplicationConfig(current.Path())
	if err != nil {
		return err
	}
	if next.Workers != current.Workers || next.QueueSize != current.QueueSize || next.OnError != current.OnError {
		core.LogWarn("workers, queue_size and on_error changes apply on restart")
	}
	if !next.Watch {
		core.LogWarn("watch cannot be turned off while running")
	}
	current.Output = next.Output
	current.Testbed = next.Testbed
	if next.LogLevel != current.LogLevel {
		current.LogLevel = next.LogLevel
		core.SetLogLevel(core.ParseLogLevel(current.LogLevel))
	}
	return nil
}

// writeOutput replaces the output file in one rename so a reader never sees
// a partial scene.
func (e *Engine) writeOutput(ps *metadata.PackedScene) error {
	out := e.gameInstance.ApplicationConfig.Output
	if out == StdoutOutput {
		return renderer.Encode(os.Stdout, ps)
	}

	f, err := os.CreateTemp(filepath.Dir(out), ".rtxs-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := renderer.Encode(f, ps); err != nil {
		f.Close()
		return err
	}
	// CreateTemp opens with 0600
	if err := f.Chmod(outputMode); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), out)
}

func (e *Engine) Shutdown() error {
	e.mutex.Lock()
	if e.currentStage == EngineStageShuttingDown {
		e.mutex.Unlock()
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.mutex.Unlock()

	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			return err
		}
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	core.LogInfo("%s shut down after %d builds", e.gameInstance.ApplicationConfig.Name, e.Builds())
	return nil
}
