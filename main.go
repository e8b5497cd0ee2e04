/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/orbit/engine"
	"github.com/spaghettifunk/orbit/engine/config"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/testbed"
)

func main() {
	configPath := flag.String("config", "assets/config/engine.toml", "path to the engine configuration")
	flag.Parse()

	os.Exit(run(*configPath))
}

func run(configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		core.LogError("failed to load configuration: %s", err)
		return 1
	}

	tb := testbed.NewTestGame(cfg)

	e, err := engine.New(tb.Game, cfg)
	if err != nil {
		core.LogError("failed to create engine: %s", err)
		return 1
	}
	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError("shutdown: %s", err)
		}
	}()

	if err := e.Initialize(); err != nil {
		core.LogError("failed to initialize engine: %s", err)
		return 1
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	// the window lives on the main thread, so the signal only asks the loop to stop
	done := make(chan struct{})
	defer close(done)
	go stopOnSignal(sigCh, done, e.Stop)

	if err := e.Run(); err != nil {
		core.LogError("engine stopped with error: %s", err)
		return 1
	}
	return 0
}

// stopOnSignal calls stop on the first signal. It returns without calling
// stop once done is closed.
func stopOnSignal(sigCh <-chan os.Signal, done <-chan struct{}, stop func()) {
	select {
	case <-sigCh:
		stop()
	case <-done:
	}
}
