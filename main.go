/*
citymesh decodes CityJSON documents into per-object meshes grouped in one
scene per geometry variant.

	citymesh [-config file] [-watch] [path.json]
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spaghettifunk/citymesh/engine"
	"github.com/spaghettifunk/citymesh/engine/core"
	"github.com/spaghettifunk/citymesh/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	watch := flag.Bool("watch", false, "keep running and re-import documents of the watch directory as they change")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] [-watch] [path.json]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		core.LogWarn("cannot read .env: %s", err.Error())
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		core.LogFatal(err.Error())
	}
	if flag.NArg() == 0 && !*watch {
		flag.Usage()
		os.Exit(2)
	}
	if *watch && cfg.WatchDir == "" {
		cfg.WatchDir = "."
	}

	tb, err := testbed.NewTestHost()
	if err != nil {
		core.LogFatal(err.Error())
	}

	e, err := engine.New(cfg, tb.Host)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		cancel()
	}()

	exitCode := 0
	for _, path := range flag.Args() {
		if _, err := e.Import(path); err != nil {
			exitCode = 1
		}
	}

	if *watch {
		if err := e.Watch(ctx); err != nil {
			core.LogError(err.Error())
			exitCode = 1
		}
	}

	cancel()
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
		exitCode = 1
	}
	os.Exit(exitCode)
}

// loadConfig picks the configuration file from the flag or the environment
// and applies environment overrides.
func loadConfig(path string) (*engine.Config, error) {
	if path == "" {
		path = os.Getenv(engine.EnvConfigPath)
	}
	cfg := engine.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = engine.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}
