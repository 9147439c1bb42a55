// Package main provides postrender-template, which renders one template
// file against data given on the command line.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/byte4ever/postrender/buildinfo"
	"github.com/byte4ever/postrender/element"
	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/internal/cli"
	"github.com/byte4ever/postrender/location"
	"github.com/byte4ever/postrender/templating"
)

type options struct {
	template string
	output   string
	base     string
	data     []string
	tags     []string
	styles   []string
	scripts  []string
	date     string
	verbose  bool

	rc templating.Context
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "postrender-template",
		Short:         "Render a page template from command-line data",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.InOrStdin(), cmd.OutOrStdout(), &opts)
		},
	}

	cmd.SetVersionTemplate(buildinfo.Template())

	fl := cmd.Flags()
	fl.StringVar(&opts.template, "template", "", "template file (default: stdin)")
	fl.StringVar(&opts.output, "output", "", "output file (default: stdout)")
	fl.StringVar(&opts.base, "base", ".", "directory file: elements are resolved against")
	fl.StringArrayVar(&opts.data, "data", nil, "KEY=VALUE for {data-KEY} (repeatable)")
	fl.StringArrayVar(&opts.tags, "tag", nil, "post tag (repeatable)")
	fl.StringArrayVar(&opts.styles, "style", nil, "style element, class:data (repeatable)")
	fl.StringArrayVar(&opts.scripts, "script", nil, "script element, class:data (repeatable)")
	fl.StringVar(&opts.date, "date", "", "post date, RFC 3339 (default: now)")
	fl.StringVar(&opts.rc.Title, "title", "", "post title")
	fl.StringVar(&opts.rc.Author, "author", "", "post author")
	fl.StringVar(&opts.rc.BlogName, "blog-name", "", "blog name")
	fl.StringVar(&opts.rc.Language, "language", "en-GB", "BCP 47 language tag")
	fl.IntVar(&opts.rc.Number, "number", 0, "post number")
	fl.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func run(stdin io.Reader, stdout io.Writer, opts *options) error {
	const errCtx = "postrender-template"

	logger := cli.NewLogger(os.Stderr, opts.verbose)

	rc, err := buildContext(opts)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tpl, err := readTemplate(stdin, opts.template)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	en := templating.Engine{Version: buildinfo.Version}

	var buf bytes.Buffer
	if err := en.Render(tpl, rc, &buf); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	logger.Debug(
		"rendered template",
		"template", opts.template,
		"bytes", buf.Len(),
	)

	if opts.output == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("%s: %w", errCtx, fault.Write("stdout", err))
		}

		return nil
	}

	if err := atomic.WriteFile(opts.output, &buf); err != nil {
		return fmt.Errorf(
			"%s: %w", errCtx, fault.NewIO("create", opts.output, err),
		)
	}

	logger.Info("wrote output", "path", opts.output)

	return nil
}

func buildContext(opts *options) (*templating.Context, error) {
	const errCtx = "building context"

	rc := opts.rc
	rc.Output = "template"

	if opts.output != "" {
		rc.Output = filepath.Base(opts.output)
	}

	data, err := cli.ParsePairs(opts.data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	rc.LocalData = data
	rc.Tags = opts.tags

	rc.PostDate = time.Now()
	if opts.date != "" {
		rc.PostDate, err = time.Parse(time.RFC3339, opts.date)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx,
				fault.NewParse("RFC 3339 date", "--date", err.Error()),
			)
		}
	}

	base := location.New(opts.base, opts.base)

	for _, s := range opts.styles {
		e, err := element.ParseCompact(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		rc.Styles = append(rc.Styles, element.Style{Element: e})
	}

	for _, s := range opts.scripts {
		e, err := element.ParseCompact(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		rc.Scripts = append(rc.Scripts, element.Script{Element: e})
	}

	if rc.Styles, err = element.ResolveAll(rc.Styles, base); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if rc.Scripts, err = element.ResolveAll(rc.Scripts, base); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &rc, nil
}

func readTemplate(stdin io.Reader, path string) (string, error) {
	if path != "" {
		return location.New(path, path).ReadText("template")
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fault.NewIO("read", "template from stdin", err)
	}

	return string(content), nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(fault.ExitCode(err))
	}
}
