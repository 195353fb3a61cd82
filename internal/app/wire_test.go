package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/reefscout/reefscout/internal/adapters/repository"
	"github.com/reefscout/reefscout/internal/adapters/tba"
	service "github.com/reefscout/reefscout/internal/app"
	"github.com/reefscout/reefscout/internal/config"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
)

func TestFromConfig(t *testing.T) {
	Convey("Given a process config", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.DataDir = t.TempDir()

		Convey("Each store backend opens", func() {
			cfg.StoreBackend = config.BackendMemory
			st, err := service.OpenStore(ctx, cfg, logger.Nop())
			So(err, ShouldBeNil)
			_, ok := st.(*repository.MemoryStore)
			So(ok, ShouldBeTrue)

			cfg.StoreBackend = config.BackendJSON
			st, err = service.OpenStore(ctx, cfg, logger.Nop())
			So(err, ShouldBeNil)
			js, ok := st.(*repository.JSONStore)
			So(ok, ShouldBeTrue)
			So(js.Path(types.SourceLive), ShouldEqual, cfg.LivePath())
			So(js.Path(types.SourcePrescout), ShouldEqual, cfg.PrescoutPath())

			cfg.StoreBackend = config.BackendSQLite
			cfg.SQLitePath = filepath.Join(cfg.DataDir, "scout.db")
			st, err = service.OpenStore(ctx, cfg, logger.Nop())
			So(err, ShouldBeNil)
			sq, ok := st.(*repository.SQLiteStore)
			So(ok, ShouldBeTrue)
			So(sq.Close(), ShouldBeNil)
		})

		Convey("Configured defaults become the default query", func() {
			cfg.DefaultMode = "top50"
			cfg.DefaultZeroHandling = "exclude"
			svc, err := service.FromConfig(ctx, cfg, nil)
			So(err, ShouldBeNil)
			So(svc.Defaults().Mode, ShouldEqual, types.ModeTop50)
			So(svc.Defaults().Zero, ShouldEqual, types.ZeroExclude)
		})

		Convey("An invalid default mode is rejected", func() {
			cfg.DefaultMode = "median"
			_, err := service.FromConfig(ctx, cfg, nil)
			So(errors.Is(err, types.ErrInvalidSelector), ShouldBeTrue)
		})

		Convey("Schedule lookups need an event code in the settings document", func() {
			svc, err := service.FromConfig(ctx, cfg, nil)
			So(err, ShouldBeNil)
			_, err = svc.MatchSummary(ctx, 1, "qm", types.SourceLive)
			So(errors.Is(err, tba.ErrPrecondition), ShouldBeTrue)
		})
	})
}
