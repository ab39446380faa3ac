// Command pyoscope plots a growing data file live in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/jlazear/pyoscope/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (default ~/.config/pyoscope/config.toml)")
	logPath := flag.String("log", "", "write watcher diagnostics to this file")
	delimiter := flag.String("delimiter", "", "field delimiter (default: any whitespace)")
	columns := flag.StringSlice("columns", nil, "explicit column names, overriding any header")
	poll := flag.Duration("poll", 0, "file polling interval (default 100ms)")
	hex := flag.Bool("hex", false, "parse fields as base-16 integers")
	wait := flag.Bool("wait", false, "tolerate a missing file and wait for acquisition to start")
	x := flag.String("x", "", "x-axis column name or index (default: row index)")
	ys := flag.StringSlice("y", nil, "series column names or indexes (default: all columns)")
	window := flag.Int("window", -1, "points to keep on screen, 0 for full history")
	legend := flag.Bool("legend", true, "show a legend of column names")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pyoscope [flags] <datafile>")
		flag.PrintDefaults()
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		File:       flag.Arg(0),
		ConfigPath: *configPath,
		LogPath:    *logPath,
		Delimiter:  *delimiter,
		Columns:    *columns,
		Poll:       *poll,
		Hex:        *hex,
		WaitFile:   *wait,
		X:          *x,
		Ys:         *ys,
		Window:     *window,
		Legend:     *legend,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pyoscope: %v\n", err)
		return 1
	}
	return 0
}
