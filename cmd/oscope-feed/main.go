// Command oscope-feed writes fake instrument samples to a file, one
// flushed row at a time, for exercising the pyoscope viewer.
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	count := flag.Int("count", 0, "rows to write, 0 for unlimited")
	interval := flag.Duration("interval", 100*time.Millisecond, "delay between rows")
	delimiter := flag.String("delimiter", " ", "field delimiter")
	columns := flag.StringSlice("columns", []string{"t", "sin", "noise"}, "column names")
	header := flag.Bool("header", true, "write a '# columns: [...]' comment header")
	hex := flag.Bool("hex", false, "write bare base-16 integers instead of floats")
	appendMode := flag.Bool("append", false, "append to the file instead of truncating")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: oscope-feed [flags] <datafile>")
		flag.PrintDefaults()
		return 2
	}

	mode := os.O_CREATE | os.O_WRONLY
	if *appendMode {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}
	f, err := os.OpenFile(flag.Arg(0), mode, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oscope-feed: %v\n", err)
		return 1
	}
	defer f.Close()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	if *header && !*appendMode {
		fmt.Fprintf(f, "# mode: demo\n# columns: [%s]\n", strings.Join(*columns, ", "))
		if err := f.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "oscope-feed: %v\n", err)
			return 1
		}
	}

	for i := 0; *count == 0 || i < *count; i++ {
		fields := make([]string, len(*columns))
		for j := range fields {
			fields[j] = sample(i, j, *hex)
		}
		if _, err := fmt.Fprintln(f, strings.Join(fields, *delimiter)); err != nil {
			fmt.Fprintf(os.Stderr, "oscope-feed: %v\n", err)
			return 1
		}
		// Flush per row so the viewer sees samples as they happen.
		if err := f.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "oscope-feed: %v\n", err)
			return 1
		}

		select {
		case <-sigs:
			return 0
		case <-time.After(*interval):
		}
	}
	return 0
}

// sample produces field j of row i: the first column counts rows, the
// second follows a sine sweep, the rest are noise.
func sample(i, j int, hex bool) string {
	if hex {
		return strconv.FormatUint(uint64(rand.Intn(0x10000)), 16)
	}
	switch j {
	case 0:
		return strconv.Itoa(i)
	case 1:
		return strconv.FormatFloat(math.Sin(float64(i)/20), 'f', 5, 64)
	default:
		return strconv.FormatFloat(rand.NormFloat64(), 'f', 5, 64)
	}
}
