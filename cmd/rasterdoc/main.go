// Command rasterdoc builds a layered document from a YAML job, applies the
// job's edit steps and writes the flattened result as PNG.
//
// Usage:
//
//	rasterdoc --job job.yaml --out result.png [--snapshot doc.snap]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/gogpu/rasterdoc"
	"github.com/gogpu/rasterdoc/resample"
	"github.com/gogpu/rasterdoc/snapshot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	var (
		jobPath      string
		outPath      string
		snapshotPath string
		logLevel     string
		compression  string
		channels     int
	)
	flagSet := pflag.NewFlagSet("rasterdoc", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&jobPath, "job", "", "YAML job file (required)")
	flagSet.StringVarP(&outPath, "out", "o", "", "write the flattened document to this PNG file")
	flagSet.StringVar(&snapshotPath, "snapshot", "", "write a document snapshot to this file")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flagSet.StringVar(&compression, "compression", "zstd", "snapshot pixel compression: none, lz4 or zstd")
	flagSet.IntVar(&channels, "channels", 4, "channel count of the flattened output")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if jobPath == "" {
		return fmt.Errorf("--job is required")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	rasterdoc.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer rasterdoc.SetLogger(nil)

	comp, err := snapshot.ParseCompression(compression)
	if err != nil {
		return fmt.Errorf("--compression: %w", err)
	}

	j, err := loadJob(jobPath)
	if err != nil {
		return err
	}
	doc, err := j.build()
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}
	doc.SetResampler(resample.New())

	if err := j.setup(ctx, doc); err != nil {
		return err
	}
	if err := j.run(ctx, doc); err != nil {
		return err
	}

	if outPath != "" {
		flat, err := doc.Flatten(channels)
		if err != nil {
			return fmt.Errorf("flatten: %w", err)
		}
		if err := flat.SavePNG(outPath); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		rasterdoc.Logger().Info("rasterdoc: image written", "path", outPath, "canvas", doc.Canvas().String())
	}
	if snapshotPath != "" {
		if err := writeSnapshot(snapshotPath, doc, comp); err != nil {
			return err
		}
	}
	return nil
}

func writeSnapshot(path string, doc *rasterdoc.Document, comp snapshot.Compression) error {
	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := snapshot.Encode(f, doc, snapshot.WithCompression(comp)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	rasterdoc.Logger().Info("rasterdoc: snapshot written", "path", path, "compression", comp.String())
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Usage: rasterdoc --job FILE [flags]

Builds the document described by a YAML job, runs its steps and writes
the flattened image.

Flags:
%s`, flagSet.FlagUsages())
}
