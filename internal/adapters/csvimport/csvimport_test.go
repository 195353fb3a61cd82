package csvimport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefscout/reefscout/internal/adapters/repository"
	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/types"
)

const sheetCSV = "Scouter,Event,Match-Level,Match-Number,Robot,Team-Number,TeleOp-Coral-L4,Climb-Status,Defence-Ratng\n" +
	"ab,2025casj,qm,1,red1,254,5,d,e\n" +
	",,,,,,,,\n" +
	"cd,2025casj,qm,2,blue2,1678,\"3\",s\n"

func TestParse(t *testing.T) {
	sheet, err := Parse(strings.NewReader(sheetCSV))
	require.NoError(t, err)
	assert.Len(t, sheet.Headers, 9)
	require.Len(t, sheet.Rows, 2, "blank row skipped")
	assert.Equal(t, "", sheet.Rows[1]["Defence-Ratng"], "short row padded")

	recs := sheet.Records()
	assert.Equal(t, 254, recs[0].TeamNumber)
	assert.Equal(t, 5, recs[0].Teleop.L4)
	assert.Equal(t, model.ClimbDeep, recs[0].Climb)
	assert.Equal(t, model.ClimbShallow, recs[1].Climb)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Parse(strings.NewReader("Team-Number,Match-Number\n"))
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = Parse(strings.NewReader("Team-Number\n\"254\n"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDiagnose(t *testing.T) {
	unknown, sugg := Diagnose([]string{"Team-Number", "Defence-Ratng", "zzzzzzzzzzzz"})
	assert.Equal(t, []string{"Defence-Ratng", "zzzzzzzzzzzz"}, unknown)
	assert.Equal(t, map[string]string{"Defence-Ratng": "Defense-Rating"}, sugg)
}

func TestImporter(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Append(ctx, types.SourceLive, model.Record{TeamNumber: 9999}))

	imp := New(store)

	rep, err := imp.Import(ctx, types.SourceLive, ModeAppend, strings.NewReader(sheetCSV))
	require.NoError(t, err)
	assert.NotEmpty(t, rep.BatchID)
	assert.Equal(t, 2, rep.Stored)
	assert.Contains(t, rep.UnknownHeaders, "Defence-Ratng")
	n, err := store.Count(ctx, types.SourceLive)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rep, err = imp.Import(ctx, types.SourceLive, ModeReplace, strings.NewReader(sheetCSV))
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, rep.Mode)
	n, err = store.Count(ctx, types.SourceLive)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = imp.Import(ctx, types.SourceLive, Mode("merge"), strings.NewReader(sheetCSV))
	assert.ErrorIs(t, err, ErrMode)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, m)
	m, err = ParseMode("APPEND")
	require.NoError(t, err)
	assert.Equal(t, ModeAppend, m)
	_, err = ParseMode("x")
	assert.ErrorIs(t, err, ErrMode)
}
