package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/reefscout/reefscout/internal/adapters/csvimport"
	"github.com/reefscout/reefscout/internal/adapters/settings"
	"github.com/reefscout/reefscout/internal/domain/ranking"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/internal/seed"
	"github.com/reefscout/reefscout/pkg/logger"
)

var errNothingToSet = errors.New("no config fields given")

type rankCmd struct {
	selectors
	Metric string `help:"Ranking metric: epa or count." default:"epa"`
	Limit  int    `help:"Teams per list (0 = configured maximum)." short:"n"`
	Board  string `help:"Which list to show." enum:"overall,auton,teleop,defense" default:"overall"`
}

func (c *rankCmd) Run(g *Globals) error {
	ctx := context.Background()
	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	q, err := c.query(svc.Defaults(), c.Metric)
	if err != nil {
		return err
	}
	b, err := svc.Rankings(ctx, q, c.Limit)
	if err != nil {
		return err
	}
	entries := map[string][]ranking.Entry{
		"overall": b.Overall, "auton": b.Auton, "teleop": b.Teleop, "defense": b.Defense,
	}[c.Board]
	return g.emit(entries, func(w io.Writer) { renderEntries(w, c.Board, q, entries) })
}

type teamCmd struct {
	selectors
	Team int `arg:"" help:"Team number."`
}

func (c *teamCmd) Run(g *Globals) error {
	ctx := context.Background()
	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	q, err := c.query(svc.Defaults(), "")
	if err != nil {
		return err
	}
	rep, err := svc.TeamReport(ctx, c.Team, q)
	if err != nil {
		return err
	}
	return g.emit(rep, func(w io.Writer) { renderTeam(w, rep) })
}

type predictCmd struct {
	selectors
	Red  []int `help:"Red alliance teams, comma separated." required:""`
	Blue []int `help:"Blue alliance teams, comma separated." required:""`
}

func (c *predictCmd) Run(g *Globals) error {
	ctx := context.Background()
	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	q, err := c.query(svc.Defaults(), "")
	if err != nil {
		return err
	}
	res, err := svc.ProjectTeams(ctx, c.Red, c.Blue, q)
	if err != nil {
		return err
	}
	return g.emit(res, func(w io.Writer) { renderProjection(w, res) })
}

type planCmd struct {
	Team      int `arg:"" help:"Our team number."`
	Match     int `arg:"" help:"Selected qualification match."`
	Lookahead int `help:"Upcoming matches to plan for (0 = default)."`
}

func (c *planCmd) Run(g *Globals) error {
	ctx := context.Background()
	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	plan, err := svc.Plan(ctx, c.Team, c.Match, c.Lookahead)
	if err != nil {
		return err
	}
	return g.emit(plan, func(w io.Writer) { renderPlan(w, plan) })
}

type summaryCmd struct {
	Match  int    `arg:"" help:"Match number."`
	Level  string `help:"Competition level: qm, sf or f." default:"qm"`
	Source string `help:"Record source: live or prescout." short:"s"`
}

func (c *summaryCmd) Run(g *Globals) error {
	ctx := context.Background()
	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	src := svc.Defaults().Source
	if c.Source != "" {
		if src, err = types.ParseSource(c.Source); err != nil {
			return err
		}
	}
	sum, err := svc.MatchSummary(ctx, c.Match, c.Level, src)
	if err != nil {
		return err
	}
	return g.emit(sum, func(w io.Writer) { renderSummary(w, sum) })
}

type importCmd struct {
	File       string `arg:"" help:"CSV file with a header row." type:"existingfile"`
	Source     string `help:"Record source: live or prescout." short:"s" default:"live"`
	Mode       string `help:"replace the source or append to it." enum:"replace,append" default:"replace"`
	NoProgress bool   `help:"Hide the progress bar."`
}

func (c *importCmd) Run(g *Globals) error {
	ctx := context.Background()
	src, err := types.ParseSource(c.Source)
	if err != nil {
		return err
	}
	mode, err := csvimport.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.File, err)
	}
	defer f.Close()

	var r io.Reader = f
	if !c.NoProgress {
		if fi, err := f.Stat(); err == nil {
			bar := progressbar.NewOptions64(fi.Size(),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("importing"),
				progressbar.OptionShowBytes(true),
				progressbar.OptionClearOnFinish(),
			)
			pr := progressbar.NewReader(f, bar)
			r = &pr
		}
	}

	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	rep, err := svc.Import(ctx, src, mode, r)
	if err != nil {
		return err
	}
	return g.emit(rep, func(w io.Writer) { renderImport(w, rep) })
}

type exportCmd struct {
	selectors
	File   string `arg:"" help:"Output xlsx path." type:"path"`
	Metric string `help:"Ranking metric: epa or count." default:"epa"`
}

func (c *exportCmd) Run(g *Globals) error {
	ctx := context.Background()
	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	q, err := c.query(svc.Defaults(), c.Metric)
	if err != nil {
		return err
	}
	f, err := os.Create(c.File)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.File, err)
	}
	if err := svc.ExportRankings(ctx, f, q); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.File, err)
	}
	fmt.Fprintf(g.out(), "wrote %s\n", c.File)
	return nil
}

type configGetCmd struct{}

func (c *configGetCmd) Run(g *Globals) error {
	ctx := context.Background()
	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	cfg, err := svc.Config(ctx)
	if err != nil {
		return err
	}
	return g.emit(cfg, func(w io.Writer) { renderConfig(w, cfg) })
}

type configSetCmd struct {
	APIKey        string `help:"The Blue Alliance read key." name:"api-key"`
	EventCode     string `help:"Event code, e.g. 2025casj."`
	DataDirectory string `help:"Match data directory."`
	DataFile      string `help:"Match data file name."`
}

func (c *configSetCmd) partial() settings.Partial {
	var p settings.Partial
	set := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	set(&p.APIKey, c.APIKey)
	set(&p.EventCode, c.EventCode)
	set(&p.DataDirectory, c.DataDirectory)
	set(&p.DataFile, c.DataFile)
	return p
}

func (c *configSetCmd) Run(g *Globals) error {
	p := c.partial()
	if p.IsEmpty() {
		return errNothingToSet
	}
	ctx := context.Background()
	svc, closeFn, err := g.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	cfg, err := svc.UpdateConfig(ctx, p)
	if err != nil {
		return err
	}
	return g.emit(cfg, func(w io.Writer) { renderConfig(w, cfg) })
}

type seedCmd struct {
	URL        string        `help:"Service base URL." default:"http://localhost:9080"`
	Event      string        `help:"Event code written into records." default:"2025seed"`
	Source     string        `help:"Record source: live or prescout." short:"s" default:"live"`
	Teams      int           `help:"Number of teams." default:"24"`
	Matches    int           `help:"Number of qualification matches." default:"12"`
	Workers    int           `help:"Concurrent submitters (0 = 2 x CPU)."`
	Seed       uint64        `help:"Random seed." default:"1"`
	Timeout    time.Duration `help:"Per-request timeout." default:"10s"`
	NoProgress bool          `help:"Hide the progress bar."`
}

func (c *seedCmd) Run(g *Globals) error {
	if err := logger.SetLevelString(g.LogLevel); err != nil {
		return err
	}
	cfg := seed.Config{
		BaseURL: c.URL,
		Event:   c.Event,
		Source:  c.Source,
		Teams:   c.Teams,
		Matches: c.Matches,
		Workers: c.Workers,
		Seed:    c.Seed,
		Timeout: c.Timeout,
	}
	if !c.NoProgress {
		cfg.Progress = os.Stderr
	}
	st, err := seed.New(cfg, seed.WithLogger(logger.Get().Named("seed"))).Run(context.Background())
	if err != nil {
		return err
	}
	return g.emit(st, func(w io.Writer) { renderSeed(w, st) })
}
