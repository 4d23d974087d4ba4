package application

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/eugenenazirov/confighelper/internal/config"
	"github.com/eugenenazirov/confighelper/internal/document"
	"github.com/eugenenazirov/confighelper/internal/loader"
	"github.com/eugenenazirov/confighelper/internal/serializer"
)

// App runs confighelper commands and writes their output.
type App struct {
	settings config.Settings
	loader   *loader.Loader
	logger   *zap.Logger
	out      io.Writer
	readFile func(string) ([]byte, error)
}

// New initializes the application from the provided settings. Results are
// written to out.
func New(settings config.Settings, logger *zap.Logger, out io.Writer) *App {
	return &App{
		settings: settings,
		loader: loader.New(
			loader.WithLogger(logger),
			loader.WithMaxPasses(settings.MaxPasses),
			loader.WithMaxIncludeDepth(settings.MaxIncludeDepth),
			loader.WithStrict(settings.Strict),
		),
		logger:   logger,
		out:      out,
		readFile: os.ReadFile,
	}
}

// Load loads and expands a single configuration file. An empty format is
// inferred from the file name.
func (a *App) Load(path, format string) error {
	f, err := inputFormat(format)
	if err != nil {
		return err
	}
	res, err := a.loader.Load(path, f)
	if err != nil {
		return err
	}
	a.report(res)
	return a.write(res.Document)
}

// Run merges args with the configuration named by their --config option,
// using the docopt-style usage document stored at usagePath.
func (a *App) Run(usagePath string, args []string) error {
	usage, err := a.readFile(usagePath)
	if err != nil {
		return fmt.Errorf("read usage: %w", err)
	}
	res, err := a.loader.Config(string(usage), args)
	if err != nil {
		return err
	}
	a.report(res)
	return a.write(res.Document)
}

// Dump converts a file to the output format without expanding anything.
func (a *App) Dump(path, format string) error {
	f, err := inputFormat(format)
	if err != nil {
		return err
	}
	if f == "" {
		if f, err = serializer.FormatFromFilename(path); err != nil {
			return err
		}
	}
	data, err := a.readFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	n, err := serializer.Decode(data, f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return a.write(n)
}

func (a *App) report(res *loader.Result) {
	a.logger.Info("configuration loaded",
		zap.Int("keys", res.Document.Len()),
		zap.Int("passes", res.Passes),
		zap.Bool("stable", res.Stable),
		zap.Int("unresolved_env", len(res.UnresolvedEnv)),
		zap.Int("unresolved_locals", len(res.UnresolvedLocals)),
	)
}

func (a *App) write(n document.Node) error {
	text, err := serializer.Encode(n, a.settings.OutputFormat, serializer.WithIndent(a.settings.Indent))
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if _, err := a.out.Write(text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func inputFormat(name string) (serializer.Format, error) {
	if name == "" {
		return "", nil
	}
	return serializer.ParseFormat(name)
}
