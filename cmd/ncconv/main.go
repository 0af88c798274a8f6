// Command ncconv converts a step store container into a NetCDF dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/robert-malhotra/go-ncconv/internal/progress"
	"github.com/robert-malhotra/go-ncconv/ncconv"
	"github.com/robert-malhotra/go-ncconv/ncfile"
	"github.com/robert-malhotra/go-ncconv/stepfile"
)

// ranksEnv selects the process-group size. Unset or 1 runs serially.
const ranksEnv = "NCCONV_RANKS"

func main() {
	input := flag.String("input", "", "input: step store container")
	output := flag.String("output", "", "output: NetCDF file")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: ncconv --input <container> --output <file.nc>")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	bar := progress.New(os.Stderr)
	opts := []ncconv.Option{
		ncconv.WithLogger(logger),
		ncconv.WithProgress(func(done, total int, name string) {
			bar.Update(done, total, name)
		}),
	}

	dst, err := ncfile.Create(*output)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	if size := groupSize(); size > 1 {
		err = ncconv.ConvertParallel(ctx, func() (ncconv.Source, error) {
			return stepfile.Open(*input)
		}, dst, size, opts...)
	} else {
		var src ncconv.Source
		src, err = stepfile.Open(*input)
		if err == nil {
			err = ncconv.Convert(ctx, src, dst, opts...)
		}
	}
	bar.Done()
	if err != nil {
		fatal(err)
	}
}

func groupSize() int {
	v := os.Getenv(ranksEnv)
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "ncconv: %v\n", err)
	os.Exit(1)
}
