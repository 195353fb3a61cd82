package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/reefscout/reefscout/internal/app"
	"github.com/reefscout/reefscout/internal/config"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
)

func get(h http.Handler, target string) int {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return w.Code
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.DataDir = t.TempDir()
		cfg.StoreBackend = config.BackendMemory
		cfg.IngestWorkers = 1

		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("REEFSCOUT_ADDR", ":8080")
			_ = os.Setenv("REEFSCOUT_INGEST_QUEUE_SIZE", "1000")
			defer func() {
				_ = os.Unsetenv("REEFSCOUT_ADDR")
				_ = os.Unsetenv("REEFSCOUT_INGEST_QUEUE_SIZE")
			}()

			loaded, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(loaded.Addr, convey.ShouldEqual, ":8080")
			convey.So(loaded.IngestQueueSize, convey.ShouldEqual, 1000)
		})

		convey.Convey("When the service and routes are built", func() {
			cfg.DefaultMode = "best"
			svc, err := service.FromConfig(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Defaults().Mode, convey.ShouldEqual, types.ModeBest)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			mux := newMux(ctx, cfg, svc, logger.Nop())

			convey.Convey("Then operational and docs routes respond", func() {
				convey.So(get(mux, "/healthz"), convey.ShouldEqual, http.StatusOK)
				convey.So(get(mux, "/metrics"), convey.ShouldEqual, http.StatusOK)
				convey.So(get(mux, "/stats"), convey.ShouldEqual, http.StatusOK)
				convey.So(get(mux, "/openapi.yaml"), convey.ShouldEqual, http.StatusOK)
				convey.So(get(mux, "/rankings"), convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("Then the MCP endpoint is mounted", func() {
				convey.So(get(mux, "/mcp"), convey.ShouldNotEqual, http.StatusNotFound)
			})

			convey.Convey("Then the MCP endpoint can be disabled", func() {
				cfg.MCPEnabled = false
				convey.So(get(newMux(ctx, cfg, svc, logger.Nop()), "/mcp"), convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
