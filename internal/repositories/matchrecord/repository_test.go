package matchrecord

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// fakeDB satisfies database.DB and hands back canned rows.
type fakeDB struct {
	row    row
	rows   []row
	getErr error
	query  string
	args   []any
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.query = query
	f.args = args
	return nil, nil
}

func (f *fakeDB) GetContext(_ context.Context, dest any, query string, args ...any) error {
	f.query = query
	f.args = args
	if f.getErr != nil {
		return f.getErr
	}
	*dest.(*row) = f.row
	return nil
}

func (f *fakeDB) SelectContext(_ context.Context, dest any, query string, args ...any) error {
	f.query = query
	f.args = args
	*dest.(*[]row) = f.rows
	return nil
}

func TestRepository_Get(t *testing.T) {
	t.Run("prediction carries its run id", func(t *testing.T) {
		db := &fakeDB{row: row{
			MatchID:     "m1",
			RunID:       "run-42",
			LeftID:      "aero-club",
			RightID:     "aero-club-malaga",
			Probability: 0.97,
			Label:       models.LabelMatch,
		}}
		repo := NewRepository(db, testLogger())

		pred, err := repo.Get(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, "run-42", pred.RunID)
		assert.Equal(t, "aero-club", pred.LeftID)
		assert.Equal(t, models.LabelMatch, pred.Label)
	})

	t.Run("missing match maps to not found", func(t *testing.T) {
		db := &fakeDB{getErr: errors.New("sql: no rows in result set")}
		repo := NewRepository(db, testLogger())

		pred, err := repo.Get(context.Background(), "nope")
		assert.Error(t, err)
		assert.Nil(t, pred)
	})
}

func TestRepository_ListByRun(t *testing.T) {
	db := &fakeDB{rows: []row{
		{MatchID: "m1", RunID: "run-42", LeftID: "a", RightID: "b", Probability: 0.97, Label: models.LabelMatch},
		{MatchID: "m2", RunID: "run-42", LeftID: "c", RightID: "d", Probability: 0.05, Label: models.LabelReject},
	}}
	repo := NewRepository(db, testLogger())

	preds, err := repo.ListByRun(context.Background(), "run-42", 100)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "run-42", preds[0].RunID)
	assert.Equal(t, models.LabelReject, preds[1].Label)
}

func TestRepository_CreateBatch(t *testing.T) {
	t.Run("upserts on match id", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewRepository(db, testLogger())

		err := repo.CreateBatch(context.Background(), "run-42", []models.MatchPrediction{
			{MatchID: "m1", LeftID: "a", RightID: "b", Probability: 0.97, Label: models.LabelMatch},
			{MatchID: "m2", LeftID: "c", RightID: "d", Probability: 0.05, Label: models.LabelReject},
		})
		require.NoError(t, err)
		assert.True(t, strings.Contains(db.query, "ON CONFLICT (match_id) DO UPDATE"))
		assert.Len(t, db.args, 14)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		db := &fakeDB{}
		repo := NewRepository(db, testLogger())

		require.NoError(t, repo.CreateBatch(context.Background(), "run-42", nil))
		assert.Empty(t, db.query)
	})
}
