package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/confighelper/internal/application"
	"github.com/eugenenazirov/confighelper/internal/config"
	"github.com/eugenenazirov/confighelper/internal/logging"
)

const (
	commandLoad = "load"
	commandRun  = "run"
	commandDump = "dump"
)

type commandLine struct {
	command   string
	file      string
	format    string
	args      []string
	overrides *config.CLIOverrides
}

func main() {
	kingpinApp := kingpin.New("confighelper", "Merge command-line arguments with YAML/JSON configuration files")
	cl, err := parseCommandLine(kingpinApp, os.Args[1:])
	kingpinApp.FatalIfError(err, "")

	settings, err := config.Load(cl.overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load settings: %v", err))
	}

	logger, err := logging.New(settings.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app := application.New(settings, logger, os.Stdout)
	if err := execute(app, cl); err != nil {
		logger.Fatal("command failed", zap.String("command", cl.command), zap.Error(err))
	}
}

func parseCommandLine(kingpinApp *kingpin.Application, args []string) (*commandLine, error) {
	var maxPassesSet, maxDepthSet, strictSet, indentSet bool
	maxPasses := kingpinApp.Flag("max-passes", "Maximum local expansion passes").IsSetByUser(&maxPassesSet).Int()
	maxDepth := kingpinApp.Flag("max-include-depth", "Maximum include nesting depth").IsSetByUser(&maxDepthSet).Int()
	strict := kingpinApp.Flag("strict", "Fail when local expansion does not settle").IsSetByUser(&strictSet).Bool()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	output := kingpinApp.Flag("output", "Output format (yaml, json)").Short('o').String()
	indent := kingpinApp.Flag("indent", "Output indentation; 0 writes compact JSON").IsSetByUser(&indentSet).Int()

	load := kingpinApp.Command(commandLoad, "Load and expand a configuration file")
	loadFile := load.Arg("file", "Configuration file").Required().String()
	loadFormat := load.Flag("format", "Input format; inferred from the extension when empty").String()

	run := kingpinApp.Command(commandRun, "Merge arguments with the file named by their --config option; pass arguments after --")
	runUsage := run.Arg("usage", "File holding a docopt-style usage document").Required().String()
	runArgs := run.Arg("args", "Arguments matched against the usage document").Strings()

	dump := kingpinApp.Command(commandDump, "Convert a configuration file without expanding it")
	dumpFile := dump.Arg("file", "Configuration file").Required().String()
	dumpFormat := dump.Flag("format", "Input format; inferred from the extension when empty").String()

	command, err := kingpinApp.Parse(args)
	if err != nil {
		return nil, err
	}

	overrides := &config.CLIOverrides{}
	if maxPassesSet {
		overrides.MaxPasses = maxPasses
	}
	if maxDepthSet {
		overrides.MaxIncludeDepth = maxDepth
	}
	if strictSet {
		overrides.Strict = strict
	}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}
	if *output != "" {
		overrides.OutputFormat = output
	}
	if indentSet {
		overrides.Indent = indent
	}

	cl := &commandLine{command: command, overrides: overrides}
	switch command {
	case commandLoad:
		cl.file, cl.format = *loadFile, *loadFormat
	case commandRun:
		cl.file, cl.args = *runUsage, *runArgs
	case commandDump:
		cl.file, cl.format = *dumpFile, *dumpFormat
	}
	return cl, nil
}

func execute(app *application.App, cl *commandLine) error {
	switch cl.command {
	case commandLoad:
		return app.Load(cl.file, cl.format)
	case commandRun:
		return app.Run(cl.file, cl.args)
	case commandDump:
		return app.Dump(cl.file, cl.format)
	default:
		return fmt.Errorf("unknown command %q", cl.command)
	}
}
