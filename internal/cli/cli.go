// Package cli is the grader command: it parses flags, picks the document
// source and prints the report.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/pagegrader/internal/checks"
	"github.com/hamed0406/pagegrader/internal/config"
	"github.com/hamed0406/pagegrader/internal/document"
	"github.com/hamed0406/pagegrader/internal/grader"
	"github.com/hamed0406/pagegrader/internal/logging"
)

// ExitError carries the process exit code. An empty Message means the
// failure was already reported (or is meant to be silent).
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

type Options struct {
	Config  config.Config
	Stdout  io.Writer
	Stderr  io.Writer
	Version string
}

type app struct {
	opts     Options
	log      *zap.Logger
	checks   string
	file     string
	url      string
	logLevel string
}

// Execute runs the grader with args. A non-nil error is always an *ExitError.
func Execute(ctx context.Context, args []string, opts Options) error {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(bindOptionalValues(args))
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

func NewRootCommand(opts Options) *cobra.Command {
	a := &app{opts: opts, log: zap.NewNop()}
	cmd := &cobra.Command{
		Use:   "grader",
		Short: "Check an HTML page for elements matching CSS selectors",
		Long: `grader reports, for every selector in the checks file, whether the
page contains at least one matching element. The report is printed to
stdout as JSON.`,
		Example: `  grader --checks checks.json --file index.html
  grader -c checks.json -u http://example.com`,
		Version:           opts.Version,
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.prepare,
		RunE:              a.run,
	}
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)

	f := cmd.Flags()
	f.StringVarP(&a.checks, "checks", "c", checks.DefaultFile, "Path to checks.json")
	f.StringVarP(&a.file, "file", "f", "", "Path to index.html")
	f.StringVarP(&a.url, "url", "u", "", "url to the website")
	f.StringVar(&a.logLevel, "log-level", defaultLogLevel(opts.Config), "log level: debug, info, warn, error")
	f.Lookup("file").NoOptDefVal = document.DefaultFile
	f.Lookup("url").NoOptDefVal = document.DefaultURL
	f.SortFlags = false
	return cmd
}

// prepare builds the logger and guards the checks file before any source
// is chosen.
func (a *app) prepare(cmd *cobra.Command, _ []string) error {
	log, err := logging.NewLogger(logging.Options{
		Dir:     a.opts.Config.LogDir,
		Level:   a.logLevel,
		Console: a.opts.Stderr,
	})
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("logger: %v", err)}
	}
	a.log = log

	if _, err := checks.EnsureExists(a.checks); err != nil {
		return missing(a.checks, err)
	}
	return nil
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	defer func() { _ = a.log.Sync() }()
	if len(args) > 0 {
		a.log.Warn("ignored_args", zap.Strings("args", args))
	}

	flags := cmd.Flags()
	switch {
	case flags.Changed("file"):
		return a.gradeFile(a.file)
	case flags.Changed("url"):
		return a.gradeURL(cmd.Context(), a.url)
	default:
		return &ExitError{Code: 1}
	}
}

func (a *app) gradeFile(path string) error {
	if _, err := checks.EnsureExists(path); err != nil {
		return missing(path, err)
	}
	sels, err := checks.Load(a.checks)
	if err != nil {
		return err
	}
	doc, err := document.FromFile(path)
	if err != nil {
		return err
	}
	a.log.Info("document_loaded", zap.String("source", "file"), zap.String("path", path))
	return a.emit(doc, sels)
}

func (a *app) gradeURL(ctx context.Context, rawURL string) error {
	sels, err := checks.Load(a.checks)
	if err != nil {
		return err
	}

	f := document.NewFetcher(document.Config{
		Timeout:   a.opts.Config.HTTPTimeout,
		MaxBytes:  a.opts.Config.MaxBodyBytes,
		UserAgent: a.opts.Config.UserAgent,
	})
	res, err := f.FetchDocument(ctx, rawURL)
	if err != nil {
		a.log.Error("fetch_failed", zap.String("url", rawURL), zap.Error(err))
		return &ExitError{Code: 1}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		a.log.Warn("fetch_non_2xx", zap.String("url", res.URL), zap.Int("status", res.StatusCode))
	}
	a.log.Info("fetch_done",
		zap.String("url", res.URL),
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", res.Bytes),
		zap.Float64("latency_ms", res.LatencyMS),
	)
	return a.emit(res.Doc, sels)
}

func (a *app) emit(doc *goquery.Document, sels []string) error {
	report, err := grader.Evaluate(doc, sels)
	if err != nil {
		return err
	}
	a.log.Info("grade_done", zap.Int("selectors", report.Len()), zap.Strings("missing", report.Missing()))
	return report.WriteJSON(a.opts.Stdout)
}

var (
	optionalFlags = map[string]bool{"-f": true, "--file": true, "-u": true, "--url": true}
	valueFlags    = map[string]bool{"-c": true, "--checks": true, "--log-level": true}
)

// bindOptionalValues rewrites "-f page.html" to "-f=page.html". pflag never
// takes the next argument as the value of a flag with a NoOptDefVal, so
// without this the value would be left over as a positional argument.
func bindOptionalValues(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		tok := args[i]
		switch {
		case tok == "--":
			return append(out, args[i:]...)
		case valueFlags[tok] && i+1 < len(args):
			out = append(out, tok, args[i+1])
			i++
		case optionalFlags[tok] && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-"):
			out = append(out, tok+"="+args[i+1])
			i++
		default:
			out = append(out, tok)
		}
	}
	return out
}

// defaultLogLevel keeps stderr quiet on success unless LOG_LEVEL asks
// for more.
func defaultLogLevel(cfg config.Config) string {
	if cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	return "warn"
}

func missing(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%s does not exist. Exiting.", path)}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}
