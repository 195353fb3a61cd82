// Package export renders ranking boards as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/reefscout/reefscout/internal/domain/ranking"
)

// Sheet names, in workbook order.
const (
	SheetOverall = "Overall"
	SheetAuton   = "Auton"
	SheetTeleop  = "Teleop"
	SheetDefense = "Defense"
)

var columns = []string{
	"Rank", "Team", "Value", "Matches",
	"Auton Pts", "Teleop Pts", "Climb Pts", "Total Pts",
	"Total Coral", "Driver Skill", "Defense", "Predicted Climb",
}

// RankingsWorkbook builds one sheet per board ranking.
func RankingsWorkbook(b ranking.Board) (*excelize.File, error) {
	f := excelize.NewFile()
	first := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(first, SheetOverall); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	sheets := []struct {
		name    string
		entries []ranking.Entry
	}{
		{SheetOverall, b.Overall},
		{SheetAuton, b.Auton},
		{SheetTeleop, b.Teleop},
		{SheetDefense, b.Defense},
	}
	for _, s := range sheets {
		if s.name != SheetOverall {
			if _, err := f.NewSheet(s.name); err != nil {
				return nil, fmt.Errorf("add sheet %s: %w", s.name, err)
			}
		}
		if err := writeEntries(f, s.name, s.entries); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteRankings writes the board workbook as xlsx to w.
func WriteRankings(w io.Writer, b ranking.Board) error {
	f, err := RankingsWorkbook(b)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeEntries(f *excelize.File, sheet string, entries []ranking.Entry) error {
	for col, h := range columns {
		if err := setCell(f, sheet, col, 0, h); err != nil {
			return err
		}
	}
	for i, e := range entries {
		a := e.Aggregate
		row := []any{
			e.Rank, e.TeamNumber, e.Value, a.MatchCount,
			a.AutonPoints, a.TeleopPoints, a.ClimbPoints, a.TotalPoints,
			a.TotalCoral, a.DriverSkill, a.DefenseRating, string(a.PredictedClimb),
		}
		for col, v := range row {
			if err := setCell(f, sheet, col, i+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}
