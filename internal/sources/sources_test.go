package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockcast/internal/config"
	apperrors "stockcast/internal/errors"
	"stockcast/internal/shared/testutil"
)

func keys(plan Plan) []string {
	out := make([]string, len(plan.Sources))
	for i, s := range plan.Sources {
		out[i] = s.Key
	}
	return out
}

func TestDirectoryDiscoverer(t *testing.T) {
	dataDir := t.TempDir()
	for _, name := range []string{"TSCO.csv", "FLTR.csv", "GSK.csv", "notes.txt"} {
		testutil.WriteFile(t, filepath.Join(dataDir, "LSE"), name, "")
	}
	testutil.WriteFile(t, filepath.Join(dataDir, "NYSE"), "IBM.csv", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "NASDAQ"), 0755))
	testutil.WriteFile(t, dataDir, "TSE", "not a directory")

	d := NewDirectoryDiscoverer(dataDir, []string{"LSE", "NASDAQ", "NYSE", "HKEX", "TSE"})
	assert.Equal(t, config.ModeDirectory, d.Mode())

	t.Run("first n per exchange in name order", func(t *testing.T) {
		plan, err := d.Discover(context.Background(), 2)
		require.NoError(t, err)

		assert.Equal(t, []string{"LSE/FLTR.csv", "LSE/GSK.csv", "NYSE/IBM.csv"}, keys(plan))

		first := plan.Sources[0]
		assert.Equal(t, "LSE", first.Category)
		assert.Equal(t, filepath.Join(dataDir, "LSE", "FLTR.csv"), first.Path)
		assert.Equal(t, "LSE_predicted_FLTR.csv", first.OutputName)
	})

	t.Run("empty and missing exchanges are skipped", func(t *testing.T) {
		plan, err := d.Discover(context.Background(), 1)
		require.NoError(t, err)

		require.Len(t, plan.Skipped, 3)
		assert.Equal(t, "NASDAQ", plan.Skipped[0].Category)
		assert.ErrorIs(t, plan.Skipped[0].Reason, ErrNoFiles)
		assert.Equal(t, "HKEX", plan.Skipped[1].Category)
		assert.ErrorIs(t, plan.Skipped[1].Reason, apperrors.ErrSourceNotFound)
		assert.ErrorIs(t, plan.Skipped[1].Reason, os.ErrNotExist)
		assert.Equal(t, "TSE", plan.Skipped[2].Category)
		assert.ErrorIs(t, plan.Skipped[2].Reason, apperrors.ErrSourceNotFound)
	})

	t.Run("limit larger than available", func(t *testing.T) {
		plan, err := d.Discover(context.Background(), 10)
		require.NoError(t, err)
		assert.Len(t, plan.Sources, 4)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := d.Discover(context.Background(), 0)
		assert.ErrorIs(t, err, apperrors.ErrConfig)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := d.Discover(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExplicitDiscoverer(t *testing.T) {
	entries := []config.NamedSource{
		{Name: "LSE_FLTR", Path: "data/LSE/FLTR.csv"},
		{Name: "NYSE_IBM", Path: "data/NYSE/IBM.csv"},
		{Name: "NASDAQ_AAPL", Path: "data/NASDAQ/AAPL.xlsx"},
	}
	e := NewExplicitDiscoverer(entries)
	assert.Equal(t, config.ModeExplicit, e.Mode())

	plan, err := e.Discover(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"LSE_FLTR", "NYSE_IBM"}, keys(plan))
	assert.Equal(t, "LSE_FLTR.csv", plan.Sources[0].OutputName)
	assert.Equal(t, "data/LSE/FLTR.csv", plan.Sources[0].Path)
	assert.Empty(t, plan.Sources[0].Category)
	assert.Empty(t, plan.Skipped)

	plan, err = e.Discover(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, plan.Sources, 3)

	// entries are copied on construction
	entries[0].Name = "changed"
	plan, err = e.Discover(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "LSE_FLTR", plan.Sources[0].Key)

	_, err = e.Discover(context.Background(), -1)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
}

func TestNew(t *testing.T) {
	base := t.TempDir()

	t.Run("directory mode", func(t *testing.T) {
		cfg := config.Default()
		paths, err := config.ResolvePaths(cfg, base)
		require.NoError(t, err)

		d, err := New(cfg, paths)
		require.NoError(t, err)
		require.IsType(t, &DirectoryDiscoverer{}, d)
		assert.Equal(t, filepath.Join(base, "data"), d.(*DirectoryDiscoverer).dataDir)
	})

	t.Run("explicit mode resolves relative paths", func(t *testing.T) {
		cfg := config.Default()
		cfg.Sources.Mode = config.ModeExplicit
		cfg.Sources.Files = []config.NamedSource{
			{Name: "rel", Path: "in/rel.csv"},
			{Name: "abs", Path: filepath.Join(base, "abs.csv")},
		}
		paths, err := config.ResolvePaths(cfg, base)
		require.NoError(t, err)

		d, err := New(cfg, paths)
		require.NoError(t, err)

		plan, err := d.Discover(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "in", "rel.csv"), plan.Sources[0].Path)
		assert.Equal(t, filepath.Join(base, "abs.csv"), plan.Sources[1].Path)
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := config.Default()
		cfg.Sources.Mode = "ftp"
		_, err := New(cfg, &config.Paths{})
		assert.ErrorIs(t, err, apperrors.ErrConfig)
	})
}
