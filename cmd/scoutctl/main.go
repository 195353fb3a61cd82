// Command scoutctl runs scouting analytics against the local data
// directory and seeds a running service with synthetic records.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	service "github.com/reefscout/reefscout/internal/app"
	"github.com/reefscout/reefscout/internal/config"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
)

// Globals are flags shared by every command.
type Globals struct {
	DataDir    string `help:"Data directory. Overrides REEFSCOUT_DATA_DIR." type:"path"`
	Store      string `help:"Store backend: json, sqlite or memory. Overrides REEFSCOUT_STORE_BACKEND."`
	SQLitePath string `help:"SQLite database path." name:"sqlite-path" type:"path"`
	LogLevel   string `help:"Log level." default:"warn"`
	Output     string `help:"Output format." enum:"table,json" default:"table" short:"o"`

	Out io.Writer `kong:"-"`
}

// selectors are the aggregation flags shared by analytics commands.
type selectors struct {
	Source string `help:"Record source: live or prescout." short:"s"`
	Mode   string `help:"Aggregation: average, top50 or best." short:"m"`
	Zero   string `help:"Zero handling: include or exclude." short:"z"`
}

func (f selectors) query(base types.Query, metric string) (types.Query, error) {
	return types.ParseQuery(base, f.Source, f.Mode, f.Zero, metric)
}

// cli is the scoutctl command tree.
type cli struct {
	Globals

	Rank    rankCmd    `cmd:"" help:"Rank teams overall, by phase or by defense."`
	Team    teamCmd    `cmd:"" help:"Show one team's aggregate and abilities."`
	Predict predictCmd `cmd:"" help:"Project a red vs blue line-up."`
	Plan    planCmd    `cmd:"" help:"List matches to scout before a team's next matches."`
	Summary summaryCmd `cmd:"" help:"Brief every team in a scheduled match."`
	Import  importCmd  `cmd:"" help:"Import a CSV scouting sheet."`
	Export  exportCmd  `cmd:"" help:"Export rankings as an xlsx workbook."`
	Config  struct {
		Get configGetCmd `cmd:"" help:"Show the app config with the API key masked."`
		Set configSetCmd `cmd:"" help:"Update app config fields."`
	} `cmd:"" help:"Read or update the app config document."`
	Seed seedCmd `cmd:"" help:"Submit synthetic records to a running service."`
}

func newParser(c *cli, opts ...kong.Option) (*kong.Kong, error) {
	return kong.New(c, append([]kong.Option{
		kong.Name("scoutctl"),
		kong.Description("FRC scouting analytics."),
		kong.UsageOnError(),
	}, opts...)...)
}

func main() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	c := cli{Globals: Globals{Out: os.Stdout}}
	parser, err := newParser(&c)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	parser.FatalIfErrorf(ctx.Run(&c.Globals))
}

// loadConfig loads process config and applies flag overrides.
func (g *Globals) loadConfig(ctx context.Context) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if g.DataDir != "" {
		cfg.DataDir = g.DataDir
	}
	if g.Store != "" {
		cfg.StoreBackend = g.Store
	}
	if g.SQLitePath != "" {
		cfg.SQLitePath = g.SQLitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(g.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// service builds a Service over the configured store. Commands that only
// read or import do not start the ingest workers.
func (g *Globals) service(ctx context.Context) (*service.Service, func(), error) {
	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc, err := service.FromConfig(ctx, cfg, logger.Get().Named("scoutctl"))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if c, ok := svc.Store().(io.Closer); ok {
			_ = c.Close()
		}
	}
	return svc, closeFn, nil
}

func (g *Globals) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// emit writes v as JSON when -o json, otherwise calls table.
func (g *Globals) emit(v any, table func(io.Writer)) error {
	if g.Output == "json" {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	table(g.out())
	return nil
}
