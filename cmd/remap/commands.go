package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zoobzio/remap"
	"github.com/zoobzio/remap/bson"
	"github.com/zoobzio/remap/builtin"
	"github.com/zoobzio/remap/bundle"
	"github.com/zoobzio/remap/json"
	"github.com/zoobzio/remap/msgpack"
	"github.com/zoobzio/remap/yaml"
)

// errMismatch is returned by check when the output differs from the
// expected document.
var errMismatch = errors.New("output does not match expected")

// options holds the flags shared by every command.
type options struct {
	bundlePath string
	schema     string
	in         string
	format     string
	outFormat  string
	expect     string
	logLevel   string
	trace      bool
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Declarative JSON mapping",
		Long: `remap transforms documents with declarative schemas.

Schemas, dictionaries, variables, filters and transformers are read from
a YAML bundle. Without a bundle, --schema names a single schema file and
only builtin transformers and filters are available.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.bundlePath, "bundle", "b", "", "Bundle file path (YAML)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.trace, "trace", false, "Log every formula evaluation at debug level")

	cmd.AddCommand(runCmd(opts), checkCmd(opts), schemasCmd(opts), versionCmd())

	return cmd
}

// addTransformFlags registers the flags of commands that transform a document.
func addTransformFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.schema, "schema", "s", "", "Schema name in the bundle, or schema file without a bundle")
	flags.StringVarP(&opts.in, "in", "i", "-", "Input file, - for stdin")
	flags.StringVarP(&opts.format, "format", "f", "json", "Input format (json, yaml, msgpack, bson)")
	flags.StringVarP(&opts.outFormat, "out-format", "o", "", "Output format, defaults to --format")
}

func runCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transform a document and write the result to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := transform(cmd, opts)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			if err == nil && isText(opts.output()) {
				_, err = io.WriteString(cmd.OutOrStdout(), "\n")
			}
			return err
		},
	}
	addTransformFlags(cmd, opts)
	return cmd
}

func checkCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Transform a document and compare the result with an expected document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.expect == "" {
				return errors.New("--expect is required")
			}
			out, err := transform(cmd, opts)
			if err != nil {
				return err
			}
			want, err := os.ReadFile(opts.expect)
			if err != nil {
				return fmt.Errorf("read expected: %w", err)
			}
			codec, err := codecFor(opts.output())
			if err != nil {
				return err
			}
			same, err := compare(cmd.OutOrStdout(), codec, want, out)
			if err != nil {
				return err
			}
			if !same {
				return errMismatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	addTransformFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.expect, "expect", "e", "", "Expected output file")
	return cmd
}

func schemasCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the schemas of a bundle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.bundlePath == "" {
				return errors.New("--bundle is required")
			}
			catalog, err := loadCatalog(opts, newLogger(cmd.ErrOrStderr(), opts))
			if err != nil {
				return err
			}
			for _, name := range catalog.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}

func (o *options) output() string {
	if o.outFormat == "" {
		return o.format
	}
	return o.outFormat
}

// newLogger builds the stderr logger. --trace forces debug level.
func newLogger(w io.Writer, opts *options) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(opts.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if opts.trace {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// codecFor returns the codec registered for a format name.
func codecFor(format string) (remap.Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return json.New(json.WithIndent("  ")), nil
	case "yaml", "yml":
		return yaml.New(), nil
	case "msgpack":
		return msgpack.New(), nil
	case "bson":
		return bson.New(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func isText(format string) bool {
	switch strings.ToLower(format) {
	case "json":
		return true
	default:
		return false
	}
}

// loadCatalog compiles the bundle, or the single schema file when no
// bundle is given.
func loadCatalog(opts *options, logger *slog.Logger) (*remap.Catalog, error) {
	var extra []remap.Option
	if opts.trace {
		extra = append(extra, remap.WithObserver(remap.LogObserver(logger)))
	}

	if opts.bundlePath == "" {
		return loadSchemaFile(opts.schema, extra, logger)
	}

	b, err := bundle.LoadFile(opts.bundlePath)
	if err != nil {
		return nil, err
	}
	catalog, err := b.Catalog(extra...)
	if err != nil {
		return nil, fmt.Errorf("compile bundle: %w", err)
	}
	logger.Debug("bundle loaded", "path", opts.bundlePath, "schemas", len(catalog.Names()))
	return catalog, nil
}

func loadSchemaFile(path string, extra []remap.Option, logger *slog.Logger) (*remap.Catalog, error) {
	if path == "" {
		return nil, errors.New("--schema is required without --bundle")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var schema any
	if err := yaml.New().Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	b := &bundle.Bundle{Version: bundle.Version, Schemas: map[string]any{path: schema}}
	catalog, err := b.Catalog(append(builtinOptions(), extra...)...)
	if err != nil {
		return nil, err
	}
	logger.Debug("schema loaded", "path", path)
	return catalog, nil
}

// builtinOptions exposes the builtin transformers and filters to schemas
// loaded without a bundle.
func builtinOptions() []remap.Option {
	return []remap.Option{
		remap.WithTransformers(builtin.Transformers()),
		remap.WithFilters(builtin.Filters()),
	}
}

// transform runs the selected schema over the input document and returns
// the encoded output.
func transform(cmd *cobra.Command, opts *options) ([]byte, error) {
	logger := newLogger(cmd.ErrOrStderr(), opts)

	catalog, err := loadCatalog(opts, logger)
	if err != nil {
		return nil, err
	}
	name, err := selectSchema(catalog, opts)
	if err != nil {
		return nil, err
	}
	adapter, _ := catalog.Get(name)

	data, err := readInput(cmd.InOrStdin(), opts.in)
	if err != nil {
		return nil, err
	}
	in, err := codecFor(opts.format)
	if err != nil {
		return nil, err
	}
	out, err := codecFor(opts.output())
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger.Debug("transform", "schema", name, "format", opts.format, "out_format", opts.output())

	if strings.EqualFold(opts.format, opts.output()) {
		return adapter.TransformBytes(ctx, in, data)
	}

	var source any
	if err := in.Unmarshal(data, &source); err != nil {
		return nil, &remap.CodecError{Err: remap.ErrUnmarshal, Cause: err}
	}
	target, err := adapter.Transform(ctx, source)
	if err != nil {
		return nil, err
	}
	encoded, err := out.Marshal(target)
	if err != nil {
		return nil, &remap.CodecError{Err: remap.ErrMarshal, Cause: err}
	}
	return encoded, nil
}

// selectSchema resolves --schema against the catalog. A catalog holding a
// single schema needs no name.
func selectSchema(catalog *remap.Catalog, opts *options) (string, error) {
	names := catalog.Names()
	if opts.bundlePath == "" {
		return names[0], nil
	}
	if opts.schema == "" {
		if len(names) == 1 {
			return names[0], nil
		}
		return "", fmt.Errorf("--schema is required, bundle has %d schemas: %s", len(names), strings.Join(names, ", "))
	}
	if _, ok := catalog.Get(opts.schema); !ok {
		return "", fmt.Errorf("%w: %q", remap.ErrUnknownSchema, opts.schema)
	}
	return opts.schema, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
