package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eugenenazirov/confighelper/internal/cli"
	"github.com/eugenenazirov/confighelper/internal/document"
	"github.com/eugenenazirov/confighelper/internal/expand"
	"github.com/eugenenazirov/confighelper/internal/expression"
	"github.com/eugenenazirov/confighelper/internal/merge"
	"github.com/eugenenazirov/confighelper/internal/serializer"
)

// ConfigKey is the command-line option naming the configuration file.
const ConfigKey = "config"

var (
	// ErrPassLimit is returned in strict mode when local expansion does not
	// settle within the pass cap.
	ErrPassLimit = errors.New("local expansion did not settle within the pass limit")
	// ErrConfigPath is returned when the config option does not hold a file name.
	ErrConfigPath = errors.New("config option must be a file name")
)

// Result is a fully merged and expanded configuration.
type Result struct {
	Document *document.Mapping
	// UnresolvedEnv lists environment references left in place.
	UnresolvedEnv []string
	// UnresolvedLocals lists local references left in place.
	UnresolvedLocals []string
	// Passes and Stable describe the local expansion.
	Passes int
	Stable bool
}

// Loader merges command-line arguments with configuration files.
// A Loader holds no per-load state and may be reused.
type Loader struct {
	logger          *zap.Logger
	env             expand.EnvLookup
	readFile        func(string) ([]byte, error)
	maxPasses       int
	maxIncludeDepth int
	strict          bool
	workingDir      string

	envSyntax     expression.Syntax
	localSyntax   expression.Syntax
	includeSyntax expression.Syntax
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithEnv sets the environment lookup. The default is the process environment.
func WithEnv(lookup expand.EnvLookup) Option {
	return func(l *Loader) {
		if lookup != nil {
			l.env = lookup
		}
	}
}

// WithMaxPasses caps local expansion passes.
func WithMaxPasses(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxPasses = n
		}
	}
}

// WithMaxIncludeDepth caps include nesting.
func WithMaxIncludeDepth(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxIncludeDepth = n
		}
	}
}

// WithStrict makes an unsettled local expansion an error instead of a warning.
func WithStrict(strict bool) Option {
	return func(l *Loader) {
		l.strict = strict
	}
}

// WithWorkingDir sets the directory searched for includes after the
// including file's own directory.
func WithWorkingDir(dir string) Option {
	return func(l *Loader) {
		if dir != "" {
			l.workingDir = dir
		}
	}
}

// WithSyntaxes replaces the environment, local and include expression syntaxes.
func WithSyntaxes(env, local, include expression.Syntax) Option {
	return func(l *Loader) {
		l.envSyntax = env
		l.localSyntax = local
		l.includeSyntax = include
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger:          zap.NewNop(),
		env:             expand.OSEnv(),
		readFile:        os.ReadFile,
		maxPasses:       expand.DefaultMaxPasses,
		maxIncludeDepth: expand.DefaultMaxIncludeDepth,
		workingDir:      ".",
		envSyntax:       expression.Environment(),
		localSyntax:     expression.Local(),
		includeSyntax:   expression.Include(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config parses args against a docopt-style usage document, loads the file
// named by --config when given, merges command-line values over it and
// expands local references.
func (l *Loader) Config(usageDoc string, args []string) (*Result, error) {
	usage, err := cli.ParseUsage(usageDoc)
	if err != nil {
		return nil, fmt.Errorf("parse usage: %w", err)
	}
	return l.ConfigWithUsage(usage, args)
}

// ConfigWithUsage is Config for an already parsed usage.
func (l *Loader) ConfigWithUsage(usage cli.Usage, args []string) (*Result, error) {
	raw, err := cli.Parse(usage, args)
	if err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	cargs, err := cli.Reinterpret(cli.StripMarkers(raw))
	if err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	parent := cargs
	var unresolvedEnv []string
	path, ok, err := configPath(cargs)
	if err != nil {
		return nil, err
	}
	if ok {
		file, unresolved, err := l.loadRaw(path, "")
		if err != nil {
			return nil, err
		}
		unresolvedEnv = unresolved
		parent = merge.Merge(cargs, file)
		l.logger.Debug("merged command line over config file",
			zap.String("file", path),
			zap.Int("cli_keys", cargs.Len()),
			zap.Int("file_keys", file.Len()),
		)
	}

	res, err := l.Expand(parent)
	if err != nil {
		return nil, err
	}
	res.UnresolvedEnv = unresolvedEnv
	return res, nil
}

// Load reads, expands and parses a single configuration file. An empty format
// is inferred from the file extension.
func (l *Loader) Load(path string, format serializer.Format) (*Result, error) {
	parent, unresolved, err := l.loadRaw(path, format)
	if err != nil {
		return nil, err
	}
	res, err := l.Expand(parent)
	if err != nil {
		return nil, err
	}
	res.UnresolvedEnv = unresolved
	return res, nil
}

// Expand resolves local references in m against m's own top-level keys and
// returns the re-parsed document.
func (l *Loader) Expand(m *document.Mapping) (*Result, error) {
	text, err := serializer.Encode(m, serializer.YAML)
	if err != nil {
		return nil, fmt.Errorf("serialize config: %w", err)
	}

	expanded, report, err := expand.LocalsFixedPointWith(string(text), l.localSyntax, m, l.maxPasses)
	if err != nil {
		return nil, fmt.Errorf("expand local references: %w", err)
	}
	if !report.Stable {
		if l.strict {
			return nil, fmt.Errorf("%w (%d passes)", ErrPassLimit, report.Passes)
		}
		l.logger.Warn("local expansion hit the pass limit",
			zap.Int("passes", report.Passes),
			zap.Strings("pending", report.Unresolved),
		)
	}
	if len(report.Unresolved) > 0 {
		l.logger.Warn("unresolved local references left in place", zap.Strings("names", report.Unresolved))
	}

	final, err := serializer.DecodeMapping([]byte(expanded), serializer.YAML)
	if err != nil {
		return nil, fmt.Errorf("parse expanded config: %w", err)
	}

	return &Result{
		Document:         final,
		UnresolvedLocals: report.Unresolved,
		Passes:           report.Passes,
		Stable:           report.Stable,
	}, nil
}

// loadRaw reads path, expands environment references and includes, and
// parses the result without touching local references.
func (l *Loader) loadRaw(path string, format serializer.Format) (*document.Mapping, []string, error) {
	var err error
	if format == "" {
		format, err = serializer.FormatFromFilename(path)
	} else {
		format, err = serializer.ParseFormat(string(format))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}

	data, err := l.readFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}

	unresolved := newNameSet()
	text, missing := expand.EnvironmentWith(string(data), l.envSyntax, l.env)
	unresolved.add(missing...)

	searchPaths := []string{filepath.Dir(path), l.workingDir}
	text, err = expand.Includes(text, expand.IncludeOptions{
		SearchPaths: searchPaths,
		MaxDepth:    l.maxIncludeDepth,
		Syntax:      &l.includeSyntax,
		ReadFile:    l.readFile,
		Transform: func(_ string, included string) string {
			out, missing := expand.EnvironmentWith(included, l.envSyntax, l.env)
			unresolved.add(missing...)
			return out
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}

	m, err := serializer.DecodeMapping([]byte(text), format)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}

	if len(unresolved.names) > 0 {
		l.logger.Warn("unresolved environment references left in place",
			zap.String("file", path),
			zap.Strings("names", unresolved.names),
		)
	}
	l.logger.Debug("loaded config file", zap.String("file", path), zap.String("format", string(format)), zap.Int("keys", m.Len()))
	return m, unresolved.names, nil
}

func configPath(cargs *document.Mapping) (string, bool, error) {
	v, ok := cargs.Get(ConfigKey)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(document.Scalar)
	if !ok {
		return "", false, fmt.Errorf("%w, got %s", ErrConfigPath, document.TypeName(v))
	}
	if s.IsNull() || s.Text() == "" {
		return "", false, nil
	}
	if s.Kind() == document.KindBool {
		return "", false, fmt.Errorf("%w, got a switch", ErrConfigPath)
	}
	return s.Text(), true, nil
}

type nameSet struct {
	names []string
	seen  map[string]struct{}
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]struct{})}
}

func (s *nameSet) add(names ...string) {
	for _, name := range names {
		if _, ok := s.seen[name]; ok {
			continue
		}
		s.seen[name] = struct{}{}
		s.names = append(s.names, name)
	}
}
