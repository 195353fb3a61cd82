package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/reefscout/reefscout/internal/adapters/csvimport"
	"github.com/reefscout/reefscout/internal/adapters/settings"
	service "github.com/reefscout/reefscout/internal/app"
	"github.com/reefscout/reefscout/internal/domain/planning"
	"github.com/reefscout/reefscout/internal/domain/projection"
	"github.com/reefscout/reefscout/internal/domain/ranking"
	"github.com/reefscout/reefscout/internal/domain/summary"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/internal/seed"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func f2(v float64) string { return fmt.Sprintf("%0.2f", v) }

func teams(ts []int) string {
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = fmt.Sprint(t)
	}
	return strings.Join(s, ", ")
}

func renderEntries(w io.Writer, board string, q types.Query, entries []ranking.Entry) {
	t := newTable(w, fmt.Sprintf("%s (%s, %s, zeros %s, %s)", board, q.Source, q.Mode, q.Zero, q.Metric))
	t.AppendHeader(table.Row{"Rank", "Team", "Value", "Auton", "Teleop", "Climb", "Coral", "Matches"})
	for _, e := range entries {
		a := e.Aggregate
		t.AppendRow(table.Row{
			e.Rank, e.TeamNumber, f2(e.Value),
			f2(a.AutonPoints), f2(a.TeleopPoints), f2(a.ClimbPoints), f2(a.TotalCoral), a.MatchCount,
		})
	}
	t.Render()
}

func renderTeam(w io.Writer, rep service.TeamReport) {
	a := rep.Aggregate
	t := newTable(w, fmt.Sprintf("Team %d (%s, %s)", rep.TeamNumber, rep.Query.Source, rep.Query.Mode))
	t.AppendHeader(table.Row{"Stat", "Value"})
	t.AppendRows([]table.Row{
		{"Matches", a.MatchCount},
		{"Total points", f2(a.TotalPoints)},
		{"Auton points", f2(a.AutonPoints)},
		{"Teleop points", f2(a.TeleopPoints)},
		{"Climb points", f2(a.ClimbPoints)},
		{"Algae points", f2(a.AlgaePoints)},
		{"Coral (auton / teleop)", f2(a.AutonCoral) + " / " + f2(a.TeleopCoral)},
		{"Predicted climb", string(rep.PredictedClimb)},
		{"Driver skill", f2(a.DriverSkill)},
		{"Defense rating", f2(a.DefenseRating)},
		{"Died / tipped", fmt.Sprintf("%d / %d", rep.Reliability.Died, rep.Reliability.Tipped)},
		{"Reliability", f2(rep.Reliability.Rate)},
	})
	t.Render()
	renderAbilities(w, []summary.Team{rep.Abilities})
}

func renderAbilities(w io.Writer, ts []summary.Team) {
	t := newTable(w, "")
	t.AppendHeader(table.Row{"Team", "Alliance", "Ability", "Has", "Detail"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 2, AutoMerge: true},
	})
	for _, tm := range ts {
		names := make([]string, 0, len(tm.Abilities))
		for n := range tm.Abilities {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			ab := tm.Abilities[n]
			t.AppendRow(table.Row{tm.TeamNumber, tm.Alliance, n, ab.Has, ab.Detail})
		}
		t.AppendSeparator()
	}
	t.Render()
}

func renderProjection(w io.Writer, res projection.Result) {
	t := newTable(w, fmt.Sprintf("Projection (momentum %s)", f2(res.Momentum)))
	t.AppendHeader(table.Row{"Alliance", "Teams", "Auton", "Teleop", "Endgame", "Total", "Win %"})
	for _, side := range []struct {
		name string
		a    projection.Alliance
	}{{"red", res.Red}, {"blue", res.Blue}} {
		t.AppendRow(table.Row{
			side.name, teams(side.a.Teams),
			f2(side.a.Auton), f2(side.a.Teleop), f2(side.a.Endgame), f2(side.a.Total), f2(side.a.WinPercent),
		})
	}
	t.Render()
}

func renderPlan(w io.Writer, plan planning.Plan) {
	t := newTable(w, fmt.Sprintf("Team %d after %s", plan.Team, plan.Selected.Key))
	t.AppendHeader(table.Row{"Target", "Watch match", "Teams"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
	for _, as := range plan.Assignments {
		if len(as.ToScout) == 0 {
			t.AppendRow(table.Row{as.Target.Key, "-", ""})
		}
		for _, wch := range as.ToScout {
			t.AppendRow(table.Row{as.Target.Key, wch.Match.Number, teams(wch.Teams)})
		}
		t.AppendSeparator()
	}
	t.Render()

	c := newTable(w, "Consolidated")
	c.AppendHeader(table.Row{"Match", "Teams"})
	for _, row := range plan.Consolidated {
		c.AppendRow(table.Row{row.MatchNumber, teams(row.Teams)})
	}
	c.Render()
}

func renderSummary(w io.Writer, m summary.Match) {
	fmt.Fprintf(w, "%s: red %s vs blue %s\n", m.Match.Key, teams(m.Match.Red), teams(m.Match.Blue))
	renderAbilities(w, append(append([]summary.Team(nil), m.Red...), m.Blue...))
}

func renderImport(w io.Writer, rep csvimport.Report) {
	t := newTable(w, "Import "+rep.BatchID)
	t.AppendHeader(table.Row{"Source", "Mode", "Rows", "Stored"})
	t.AppendRow(table.Row{rep.Source, rep.Mode, rep.Rows, rep.Stored})
	t.Render()
	if len(rep.UnknownHeaders) == 0 {
		return
	}
	u := newTable(w, "Unknown headers")
	u.AppendHeader(table.Row{"Header", "Did you mean"})
	for _, h := range rep.UnknownHeaders {
		u.AppendRow(table.Row{h, rep.Suggestions[h]})
	}
	u.Render()
}

func renderConfig(w io.Writer, cfg settings.AppConfig) {
	t := newTable(w, "")
	t.AppendHeader(table.Row{"Key", "Value"})
	t.AppendRows([]table.Row{
		{"tbaApiKey", cfg.APIKey},
		{"eventCode", cfg.EventCode},
		{"matchDataDirectory", cfg.DataDirectory},
		{"matchDataFile", cfg.DataFile},
	})
	t.Render()
}

func renderSeed(w io.Writer, st seed.Stats) {
	t := newTable(w, "Seed run")
	t.AppendHeader(table.Row{"Generated", "Accepted", "Duplicate", "Failed", "Ranked", "Duration"})
	t.AppendRow(table.Row{st.Generated, st.Accepted, st.Duplicate, st.Failed, st.Ranked, st.Duration.Round(time.Millisecond)})
	t.Render()
}
