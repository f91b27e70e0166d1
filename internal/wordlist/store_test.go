package wordlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestImportLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	n, err := s.Import(ctx, "mini", []string{"Crane", "least", "# skip", "bad", "leapt", "least"})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, err := s.Words(ctx, "mini")
	require.NoError(t, err)
	assert.Equal(t, []string{"crane", "least", "leapt", "least"}, got)

	d, err := s.Load(ctx, "mini")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Len())
	assert.True(t, d.Contains("leapt"))
}

func TestImportReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Import(ctx, "mini", []string{"crane", "slate"})
	require.NoError(t, err)
	_, err = s.Import(ctx, "mini", []string{"leapt"})
	require.NoError(t, err)

	got, err := s.Words(ctx, "mini")
	require.NoError(t, err)
	assert.Equal(t, []string{"leapt"}, got)

	lists, err := s.Lists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "mini", lists[0].Name)
	assert.Equal(t, 1, lists[0].Count)
}

func TestListNames(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Import(ctx, BuiltinList, []string{"crane"})
	assert.ErrorIs(t, err, ErrReserved)
	_, err = s.Import(ctx, "Bad Name", []string{"crane"})
	assert.ErrorIs(t, err, ErrBadName)
	_, err = s.Import(ctx, "", []string{"crane"})
	assert.ErrorIs(t, err, ErrBadName)
}

func TestDeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Import(ctx, "gone", []string{"crane"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "gone"))

	_, err = s.Words(ctx, "gone")
	assert.ErrorIs(t, err, ErrListNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "gone"), ErrListNotFound)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	fsys, err := assets.Migrations()
	require.NoError(t, err)
	require.NoError(t, Migrate(s.db, fsys))
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	lists, err := words.New([]string{"crane", "slate"}, nil)
	require.NoError(t, err)

	r := &Resolver{Lists: lists}
	d, err := r.Dictionary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"crane", "slate"}, d.Words())

	_, err = r.Dictionary(ctx, "mini")
	assert.ErrorIs(t, err, ErrListNotFound)

	r.Store = openTestStore(t)
	_, err = r.Store.Import(ctx, "mini", []string{"leapt"})
	require.NoError(t, err)
	d, err = r.Dictionary(ctx, "mini")
	require.NoError(t, err)
	assert.Equal(t, []string{"leapt"}, d.Words())

	all, err := r.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, BuiltinList, all[0].Name)
	assert.True(t, all[0].Builtin)
	assert.Equal(t, 2, all[0].Count)
	assert.Equal(t, "mini", all[1].Name)
}
