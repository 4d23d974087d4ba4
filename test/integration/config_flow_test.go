package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/confighelper/internal/application"
	"github.com/eugenenazirov/confighelper/internal/config"
	"github.com/eugenenazirov/confighelper/internal/serializer"
)

const usageDoc = `service docstring in docopt format

	Usage:
	service [--config=<file>] [--data-dir=<dir>] [--workers=<n>]

	Options:
		-c, --config=<file>  configuration file
		--data-dir=<dir>     data directory
		--workers=<n>        worker count
		--tags=<list>        tags as a YAML list
`

type serviceConfig struct {
	DataDir string   `yaml:"data-dir"`
	LogDir  string   `yaml:"log-dir"`
	Workers int      `yaml:"workers"`
	Tags    []string `yaml:"tags"`
	DB      struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		User string `yaml:"user"`
	} `yaml:"db"`
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func runService(t *testing.T, settings config.Settings, usagePath string, args ...string) serviceConfig {
	t.Helper()

	var out bytes.Buffer
	app := application.New(settings, zaptest.NewLogger(t), &out)
	if err := app.Run(usagePath, args); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	var cfg serviceConfig
	if err := yaml.Unmarshal(out.Bytes(), &cfg); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out.String())
	}
	return cfg
}

func TestIntegrationConfigFlow(t *testing.T) {
	t.Setenv("CONFIGHELPER_IT_DB_USER", "svc")

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"usage.txt": usageDoc,
		"conf/service.yaml": "data-dir: /data\n" +
			"log-dir: '%(data-dir)/logs'\n" +
			"workers: 2\n" +
			"db: %[db.yaml]\n",
		"conf/db.yaml": "host: localhost\nport: 5432\nuser: $(CONFIGHELPER_IT_DB_USER)\n",
	})
	usagePath := filepath.Join(root, "usage.txt")
	configPath := filepath.Join(root, "conf", "service.yaml")

	settings := config.Settings{
		MaxPasses:       10,
		MaxIncludeDepth: 32,
		LogLevel:        "debug",
		OutputFormat:    serializer.YAML,
		Indent:          2,
	}

	cfg := runService(t, settings, usagePath, "--config", configPath)
	if cfg.DataDir != "/data" || cfg.LogDir != "/data/logs" || cfg.Workers != 2 {
		t.Fatalf("unexpected file values: %+v", cfg)
	}
	if cfg.DB.Host != "localhost" || cfg.DB.Port != 5432 || cfg.DB.User != "svc" {
		t.Fatalf("unexpected included db section: %+v", cfg.DB)
	}

	cfg = runService(t, settings, usagePath, "-c", configPath, "--data-dir=/srv", "--workers=8", "--tags=[a, b]")
	if cfg.DataDir != "/srv" || cfg.LogDir != "/srv/logs" {
		t.Fatalf("expected command line to drive local references, got %+v", cfg)
	}
	if cfg.Workers != 8 {
		t.Fatalf("expected workers 8 from the command line, got %d", cfg.Workers)
	}
	if len(cfg.Tags) != 2 || cfg.Tags[0] != "a" || cfg.Tags[1] != "b" {
		t.Fatalf("expected tags [a b], got %v", cfg.Tags)
	}
}

func TestIntegrationJSONRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"usage.txt":    usageDoc,
		"service.json": `{"data-dir": "/data", "log-dir": "%(data-dir)/logs", "workers": 3}`,
	})

	settings := config.Settings{
		MaxPasses:       10,
		MaxIncludeDepth: 32,
		LogLevel:        "info",
		OutputFormat:    serializer.JSON,
		Indent:          0,
	}

	var out bytes.Buffer
	app := application.New(settings, zaptest.NewLogger(t), &out)
	if err := app.Run(filepath.Join(root, "usage.txt"), []string{"--config=" + filepath.Join(root, "service.json")}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := `{"data-dir":"/data","log-dir":"/data/logs","workers":3,"config":"` + filepath.Join(root, "service.json") + `","tags":null}` + "\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
}
