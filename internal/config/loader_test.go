package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reefscout/reefscout/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "json")
				convey.So(cfg.IngestQueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("REEFSCOUT_ADDR", ":8080")
			_ = os.Setenv("REEFSCOUT_INGEST_QUEUE_SIZE", "500")
			_ = os.Setenv("REEFSCOUT_INGEST_WORKERS", "3")
			_ = os.Setenv("REEFSCOUT_STORE_BACKEND", "sqlite")
			_ = os.Setenv("REEFSCOUT_TBA_RATE_PER_SEC", "2.5")
			_ = os.Setenv("REEFSCOUT_MCP_ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.IngestQueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.IngestWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "sqlite")
				convey.So(cfg.TBARatePerSec, convey.ShouldEqual, 2.5)
				convey.So(cfg.MCPEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# event day settings
addr: ":9090"  # inline comment
data_dir: /var/lib/reefscout
ingest_workers: 8
default_mode: top50
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("REEFSCOUT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/var/lib/reefscout")
				convey.So(cfg.IngestWorkers, convey.ShouldEqual, 8)
				convey.So(cfg.DefaultMode, convey.ShouldEqual, "top50")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\ningest_workers: 8\n")
			_ = os.Setenv("REEFSCOUT_CONFIG", tmpFile)
			_ = os.Setenv("REEFSCOUT_INGEST_WORKERS", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.IngestWorkers, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("REEFSCOUT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("REEFSCOUT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("REEFSCOUT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("REEFSCOUT_INGEST_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown store backend", func() {
			_ = os.Setenv("REEFSCOUT_STORE_BACKEND", "mongo")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLoadDotEnv(t *testing.T) {
	convey.Convey("Given a .env file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		convey.So(os.WriteFile(path, []byte("REEFSCOUT_ADDR=:7070\n"), 0o600), convey.ShouldBeNil)
		defer clearConfigEnvVars()

		convey.Convey("When loading it before Load", func() {
			clearConfigEnvVars()
			convey.So(config.LoadDotEnv(path), convey.ShouldBeNil)
			cfg, err := config.Load(context.Background())

			convey.Convey("Then its values reach the config", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the file is missing", func() {
			convey.So(config.LoadDotEnv(filepath.Join(dir, "absent.env")), convey.ShouldBeNil)
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, k := range []string{
		"REEFSCOUT_CONFIG", "REEFSCOUT_ADDR", "REEFSCOUT_INGEST_QUEUE_SIZE",
		"REEFSCOUT_INGEST_WORKERS", "REEFSCOUT_STORE_BACKEND",
		"REEFSCOUT_TBA_RATE_PER_SEC", "REEFSCOUT_MCP_ENABLED",
	} {
		_ = os.Unsetenv(k)
	}
}
