// Package main provides postrender-generate, which renders a blog source
// tree into an output directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/byte4ever/postrender/buildinfo"
	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/internal/cli"
	"github.com/byte4ever/postrender/location"
	"github.com/byte4ever/postrender/post"
	"github.com/byte4ever/postrender/stamper"
)

type options struct {
	force          bool
	verbose        bool
	stampFiles     []string
	feedParagraphs int
	parallelism    int
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "postrender-generate IN_DIR OUT_DIR",
		Short:         "Generate a blog from a source tree",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.SetVersionTemplate(buildinfo.Template())

	fl := cmd.Flags()
	fl.BoolVarP(&opts.force, "force", "f", false, "allow the output directory to exist")
	fl.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	fl.StringArrayVar(&opts.stampFiles, "stamp-info-file", nil,
		"file of KEY VALUE lines, usable as {KEY} and {data-KEY} (repeatable)")
	fl.IntVar(&opts.feedParagraphs, "feed-paragraphs", post.DefaultFeedParagraphs,
		"body paragraphs kept in feed items")
	fl.IntVar(&opts.parallelism, "parallelism", 1, "posts rendered at once")

	return cmd
}

func run(ctx context.Context, in, out string, opts *options) error {
	const errCtx = "postrender-generate"

	slog.SetDefault(cli.NewLogger(os.Stderr, opts.verbose))

	st, err := os.Stat(in)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, fault.NotFound("input directory", in))
	}

	if !st.IsDir() {
		return fmt.Errorf("%s: %w", errCtx, fault.WrongState("a directory", in))
	}

	if err := prepareOutput(out, opts.force); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	stamps, err := stamper.LoadStamps(opts.stampFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := post.Run(ctx, post.Config{
		In:             location.New(displayDir(in), in),
		Out:            location.New(displayDir(out), out),
		Version:        buildinfo.Version,
		Generator:      buildinfo.Generator(),
		Stamps:         stamps,
		FeedParagraphs: &opts.feedParagraphs,
		Parallelism:    opts.parallelism,
	}); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info("done", "out", out)

	return nil
}

// prepareOutput creates the output directory. An existing one is only
// accepted with force; unchanged files in it are left untouched.
func prepareOutput(out string, force bool) error {
	st, err := os.Stat(out)

	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fault.NewIO("stat", "output directory", err)
	case !st.IsDir():
		return fault.WrongState("a directory", out)
	case !force:
		return fault.WrongState(
			"absent, pass --force to generate into it", out,
		)
	}

	if err := os.MkdirAll(out, 0o750); err != nil {
		return fault.NewIO("create", "output directory", err)
	}

	return nil
}

// displayDir is the form a directory argument is shown in: as given,
// with a trailing separator.
func displayDir(dir string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}

	return dir + "/"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		slog.Error(err.Error())
		os.Exit(fault.ExitCode(err))
	}
}
