// Command hellowindow opens a window and renders into it, renders the same
// frames headless into an image file, or prints media file metadata.
//
// Usage:
//
//	hellowindow [-config file] [-log-level level] <command> [flags]
//
// Commands:
//
//	window       clear a GPU surface to blue
//	mandelbrot   draw the Mandelbrot set on the CPU and blit it
//	render       render headless into an image file
//	probe FILE   print container and stream metadata
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/hellowindow"
	"github.com/gogpu/hellowindow/config"

	_ "github.com/gogpu/hellowindow/backend/offscreen"
	_ "github.com/gogpu/hellowindow/backend/software"
	_ "github.com/gogpu/hellowindow/backend/webgpu"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type command struct {
	name    string
	summary string
	base    func() config.Config
	run     func(ctx context.Context, env *env, args []string) error
}

// env is what every command receives.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

var commands = []command{
	{"window", "clear a GPU surface to blue", config.Default, runWindow},
	{"mandelbrot", "draw the Mandelbrot set on the CPU", config.Mandelbrot, runWindow},
	{"render", "render headless into an image file", config.Mandelbrot, runRender},
	{"probe", "print media file metadata", config.Default, runProbe},
}

// errUsage marks errors already reported with usage text.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hellowindow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cmd, ok := lookup(fs.Arg(0))
	if !ok {
		fmt.Fprintf(stderr, "hellowindow: unknown command %q\n", fs.Arg(0))
		fs.Usage()
		return exitUsage
	}

	cfg := cmd.base()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath, cfg); err != nil {
			fmt.Fprintf(stderr, "hellowindow: %v\n", err)
			return exitError
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	hellowindow.SetLogger(logger)
	defer hellowindow.SetLogger(nil)

	e := &env{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, e, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		logger.Error(cmd.name+" failed", "err", err)
		return exitError
	}
	return exitOK
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: hellowindow [flags] <command> [command flags]")
	fmt.Fprintln(w, "\ncommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}
