/*
rtx packs a generated block scene of unit boxes and light panels into the
vertex, face and object buffers read by the trace kernel.
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/rtx/engine"
	"github.com/spaghettifunk/rtx/engine/core"
	"github.com/spaghettifunk/rtx/testbed"
)

func main() {
	configPath := flag.String("config", "", "TOML or YAML application config")
	out := flag.String("out", "", "output file, - for stdout")
	watch := flag.Bool("watch", false, "rebuild whenever the config file changes")
	blocks := flag.Int("blocks", 0, "number of blocks in the generated scene")
	seed := flag.Uint64("seed", 0, "seed of the generated scene")
	flag.Parse()

	cfg := engine.DefaultApplicationConfig()
	if *configPath != "" {
		var err error
		if cfg, err = engine.LoadApplicationConfig(*configPath); err != nil {
			core.LogFatal(err.Error())
		}
	}
	// flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output = *out
		case "watch":
			cfg.Watch = *watch
		case "blocks":
			cfg.Testbed.Blocks = *blocks
		case "seed":
			cfg.Testbed.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		core.LogFatal(err.Error())
	}

	e, err := engine.New(testbed.NewTestGame(cfg))
	if err != nil {
		panic(err)
	}

	if err := e.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	// run engine
	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogError(runErr.Error())
		os.Exit(1)
	}
}
