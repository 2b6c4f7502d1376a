package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pterm/pterm"

	"github.com/mcncl/json2struct/internal/config"
	"github.com/mcncl/json2struct/internal/errors"
	"github.com/mcncl/json2struct/internal/formatter"
	"github.com/mcncl/json2struct/internal/generator"
	"github.com/mcncl/json2struct/internal/logger"
	"github.com/mcncl/json2struct/internal/mcpserver"
	"github.com/mcncl/json2struct/internal/models"
	"github.com/mcncl/json2struct/internal/parser"
	"github.com/mcncl/json2struct/internal/schema"
	"github.com/mcncl/json2struct/internal/tokenizer"
	"github.com/mcncl/json2struct/internal/watcher"
)

// Version information
const (
	Version = "0.2.0"
)

// cli defines the command-line interface
type cli struct {
	Config   string           `help:"Path to a config file. Defaults to the nearest .json2struct.yml." short:"c" type:"path"`
	Debug    bool             `help:"Enable debug logging." short:"d"`
	JSONLogs bool             `help:"Write logs as JSON." name:"json-logs"`
	Version  kong.VersionFlag `help:"Show version information." short:"v"`

	Convert ConvertCmd `cmd:"" default:"withargs" help:"Convert JSON documents to type declarations (default)."`
	Serve   ServeCmd   `cmd:"" help:"Run the MCP server on stdio."`
	Init    InitCmd    `cmd:"" help:"Write a default config file."`
}

// CLI holds the parsed command line
var CLI cli

// Context holds the runtime context shared by every command
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("json2struct"),
		kong.Description("Describe the structure of JSON documents as TypeScript, Python, Julia or Rust types"),
		kong.UsageOnError(),
		kong.Vars{"version": "json2struct version " + Version},
	)

	cfg, err := setup(CLI.Config, CLI.Debug, CLI.JSONLogs)
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = kctx.Run(&Context{
		Ctx:    sigCtx,
		Config: cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	stop()
	logger.Sync()

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes logging. Flags win over the
// dev section of the config file.
func setup(configPath string, debug, jsonLogs bool) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(debug || cfg.Dev.Debug, jsonLogs || cfg.Dev.JSONLogs); err != nil {
		return nil, errors.NewConfigError("failed to initialize logger", err)
	}
	return cfg, nil
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, pterm.Red(errors.UserFriendlyError(err)))
}

// ConvertCmd converts input documents and prints the generated declarations
type ConvertCmd struct {
	Inputs    []string `arg:"" optional:"" help:"Input files or glob patterns (JSON, YAML or TOML). Reads JSON from stdin when omitted."`
	Language  string   `help:"Target language: typescript, python, julia or rust." short:"l"`
	Output    string   `help:"Also write the generated code to this file (appends unless --overwrite)." short:"o" type:"path"`
	Overwrite bool     `help:"Replace the output file instead of appending to it."`
	Schema    bool     `help:"Treat inputs as JSON Schema documents."`
	Watch     bool     `help:"Regenerate whenever an input file changes." short:"w"`
}

// Run executes the conversion
func (c *ConvertCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	cfg.ApplyCLI(c.Language, c.Overwrite)

	if c.Overwrite && c.Output == "" {
		return errors.NewInputError("--overwrite requires --output", nil)
	}

	gen, err := generator.New(cfg.Language, cfg.GeneratorOptions())
	if err != nil {
		return err
	}

	paths, err := expandInputs(c.Inputs)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		if c.Watch {
			return errors.NewInputError("--watch requires at least one input file", errors.ErrInvalidFilePath)
		}
		return c.convertStdin(ctx, gen)
	}

	if err := c.convertAll(ctx, gen, paths); err != nil {
		return err
	}
	if !c.Watch {
		return nil
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	w, err := watcher.New(paths, debounce, func(string) {
		if err := c.convertAll(ctx, gen, paths); err != nil {
			printError(ctx.Stderr, err)
		}
	})
	if err != nil {
		return err
	}
	return w.Run(ctx.Ctx)
}

// convertAll converts every path in order. The output file, when set, is
// truncated once per pass with --overwrite and appended to otherwise.
func (c *ConvertCmd) convertAll(ctx *Context, gen generator.Generator, paths []string) error {
	sink := &outputSink{path: c.Output, overwrite: ctx.Config.Output.Overwrite}
	for _, path := range paths {
		tok, err := c.fileToken(path)
		if err != nil {
			return err
		}
		if err := c.emit(ctx, gen, path, tok, sink); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConvertCmd) convertStdin(ctx *Context, gen generator.Generator) error {
	if f, ok := ctx.Stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			_, _ = fmt.Fprintln(ctx.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")
		}
	}

	var tok *models.Token
	if c.Schema {
		data, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return errors.NewInputError("failed to read from stdin", err)
		}
		doc, err := schema.ParseBytes(data)
		if err != nil {
			return err
		}
		if tok, err = schema.ToToken(doc); err != nil {
			return err
		}
	} else {
		ir, err := parser.ParseStdin(ctx.Stdin)
		if err != nil {
			return err
		}
		tok = tokenizer.Tokenize(ir.Root)
	}

	return c.emit(ctx, gen, "stdin", tok, &outputSink{path: c.Output, overwrite: ctx.Config.Output.Overwrite})
}

func (c *ConvertCmd) fileToken(path string) (*models.Token, error) {
	if c.Schema {
		doc, err := schema.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return schema.ToToken(doc)
	}

	ir, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return tokenizer.Tokenize(ir.Root), nil
}

// emit generates code for tok, prints it and writes it to the sink.
func (c *ConvertCmd) emit(ctx *Context, gen generator.Generator, source string, tok *models.Token, sink *outputSink) error {
	start := time.Now()
	_, _ = fmt.Fprintln(ctx.Stderr, pterm.Green(fmt.Sprintf("json2struct: Converting %s to %s:", source, gen.Language())))

	code, err := gen.Generate(tok)
	if err != nil {
		return errors.NewGenerateError(fmt.Sprintf("failed to generate %s for %s", gen.Language(), source), err)
	}

	code, err = formatter.NewFormatter(gen.CommentPrefix(), ctx.Config.Output.FileHeader).Format(code)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(ctx.Stdout, code); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	if err := sink.write(code); err != nil {
		return err
	}

	logger.Logger.Debugw("Converted input",
		logger.FieldFile, source,
		logger.FieldLanguage, gen.Language(),
		logger.FieldOutput, sink.path,
		logger.FieldSize, len(code),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}

// outputSink writes generated code to the --output file, if any.
type outputSink struct {
	path      string
	overwrite bool
	written   bool
}

func (s *outputSink) write(code string) error {
	if s.path == "" {
		return nil
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if s.overwrite && !s.written {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	f, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to open output file '%s'", s.path), err)
	}
	if _, err := f.WriteString(code); err != nil {
		_ = f.Close()
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", s.path), err)
	}
	if err := f.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", s.path), err)
	}
	s.written = true
	return nil
}

// expandInputs resolves glob patterns. Plain paths are passed through so the
// parser can report a missing file; a pattern that matches nothing is an
// error.
func expandInputs(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			if _, dup := seen[pattern]; !dup {
				seen[pattern] = struct{}{}
				paths = append(paths, pattern)
			}
			continue
		}

		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.NewInputError(fmt.Sprintf("invalid glob pattern '%s'", pattern), errors.ErrInvalidFilePath)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.NewInputError(fmt.Sprintf("failed to expand '%s'", pattern), err)
		}
		if len(matches) == 0 {
			return nil, errors.NewInputError(fmt.Sprintf("no files match '%s'", pattern), errors.ErrFileNotFound)
		}
		for _, m := range matches {
			if _, dup := seen[m]; !dup {
				seen[m] = struct{}{}
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// ServeCmd runs the MCP server
type ServeCmd struct{}

// Run serves MCP requests on stdin/stdout until the client disconnects
func (s *ServeCmd) Run(ctx *Context) error {
	return mcpserver.NewServer(ctx.Config.GeneratorOptions(), Version).ServeStdio()
}

// InitCmd writes a default config file
type InitCmd struct {
	Path  string `arg:"" optional:"" default:".json2struct.yml" help:"Where to write the config file." type:"path"`
	Force bool   `help:"Replace an existing file." short:"f"`
}

// Run writes the file
func (i *InitCmd) Run(ctx *Context) error {
	if err := config.WriteDefault(i.Path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.Stderr, pterm.Green("Wrote "+i.Path))
	return nil
}
