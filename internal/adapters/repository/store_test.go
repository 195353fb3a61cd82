package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefscout/reefscout/internal/adapters/repository"
	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/types"
)

func sample(team, match int, scouter string) model.Record {
	return model.Record{
		Scouter:     scouter,
		Event:       "2025onosh",
		Level:       model.LevelQualification,
		MatchNumber: match,
		Robot:       "red1",
		TeamNumber:  team,
		Auton:       model.PhaseCounts{L4: 1},
		Teleop:      model.PhaseCounts{L2: 3, Net: 1},
		Climb:       model.ClimbShallow,
		DriverSkill: 2,
	}
}

func backends(t *testing.T) map[string]repository.Store {
	t.Helper()
	sqlite, err := repository.NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]repository.Store{
		"memory": repository.NewMemoryStore(),
		"json":   repository.NewJSONStore(t.TempDir()),
		"sqlite": sqlite,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			n, err := store.Count(ctx, types.SourceLive)
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			require.NoError(t, store.Append(ctx, types.SourceLive, sample(254, 1, "ana"), sample(118, 1, "ben")))
			require.NoError(t, store.Append(ctx, types.SourceLive, sample(254, 2, "ana")))
			require.NoError(t, store.Append(ctx, types.SourcePrescout, sample(971, 0, "pit")))

			all, err := store.ListMatches(ctx, types.SourceLive)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, sample(254, 1, "ana"), all[0])
			assert.Equal(t, 2, all[2].MatchNumber)

			team, err := store.ListMatchesForTeam(ctx, 254, types.SourceLive)
			require.NoError(t, err)
			assert.Len(t, team, 2)

			none, err := store.ListMatchesForTeam(ctx, 9999, types.SourceLive)
			require.NoError(t, err)
			assert.Empty(t, none)

			pre, err := store.Count(ctx, types.SourcePrescout)
			require.NoError(t, err)
			assert.Equal(t, 1, pre)

			require.NoError(t, store.Replace(ctx, types.SourceLive, []model.Record{sample(1114, 5, "cam")}))
			all, err = store.ListMatches(ctx, types.SourceLive)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, 1114, all[0].TeamNumber)

			pre, err = store.Count(ctx, types.SourcePrescout)
			require.NoError(t, err)
			assert.Equal(t, 1, pre, "replace must not touch other sources")

			_, err = store.ListMatches(ctx, types.Source("archive"))
			assert.True(t, errors.Is(err, repository.ErrUnknownSource))
		})
	}
}

func TestJSONStore_ReadsSheetExport(t *testing.T) {
	dir := t.TempDir()
	doc := `{"matches":[
	  {"Scouter":"Ana","Event":"2025onosh","Match-Level":"qm","Match-Number":"3","Robot":"blue1",
	   "Team-Number":"1114","Teleop-Coral-L4":"4","Climb-Status":"d","Died-YN":"n","Extra":"ignored"},
	  {"Team-Number":254,"Teleop-Coral-L4":2,"Tipped-YN":true}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scouting-data.json"), []byte(doc), 0o600))

	store := repository.NewJSONStore(dir)
	recs, err := store.ListMatches(context.Background(), types.SourceLive)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, 1114, recs[0].TeamNumber)
	assert.Equal(t, 4, recs[0].Teleop.L4)
	assert.Equal(t, model.ClimbDeep, recs[0].Climb)
	assert.Equal(t, 254, recs[1].TeamNumber)
	assert.Equal(t, 2, recs[1].Teleop.L4)
	assert.True(t, recs[1].Tipped)
}

func TestJSONStore_MissingAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store := repository.NewJSONStore(dir, repository.WithFile(types.SourcePrescout, "pre.json"))

	recs, err := store.ListMatches(context.Background(), types.SourcePrescout)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre.json"), []byte("{not json"), 0o600))
	_, err = store.ListMatches(context.Background(), types.SourcePrescout)
	assert.True(t, errors.Is(err, repository.ErrCorrupt))
}

func TestJSONStore_WritesCanonicalHeaders(t *testing.T) {
	dir := t.TempDir()
	store := repository.NewJSONStore(dir)
	require.NoError(t, store.Append(context.Background(), types.SourceLive, sample(254, 1, "ana")))

	data, err := os.ReadFile(store.Path(types.SourceLive))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Team-Number": "254"`)
	assert.Contains(t, string(data), `"Climb-Status": "s"`)
}

func TestUpdateMetrics(t *testing.T) {
	store := repository.NewMemoryStore()
	require.NoError(t, store.Append(context.Background(), types.SourceLive, sample(1, 1, "a")))
	assert.NotPanics(t, func() { repository.UpdateMetrics(context.Background(), store) })
}
