package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etekin/blade"
)

func TestDecodeAllRunsEveryImageAndPreservesOrder(t *testing.T) {
	images := []*blade.Image{
		blade.NewImage(50, 50),
		blade.NewImage(60, 60),
		blade.NewImage(70, 70),
	}

	newEngine := func(img *blade.Image) (*blade.Engine, error) {
		return blade.New(img, blade.DefaultOptions(), nil)
	}

	results, err := DecodeAll(context.Background(), newEngine, images, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.NoError(t, r.Err)
		assert.Empty(t, r.Barcodes) // blank images locate nothing
	}
}

func TestDecodeAllRecordsPerImageConstructionError(t *testing.T) {
	images := []*blade.Image{blade.NewImage(0, 0)}
	newEngine := func(img *blade.Image) (*blade.Engine, error) {
		return blade.New(img, blade.DefaultOptions(), nil)
	}

	results, err := DecodeAll(context.Background(), newEngine, images, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.True(t, errors.Is(results[0].Err, blade.ErrEmptyImage))
}

func TestDecodeAllDefaultsWorkersToOne(t *testing.T) {
	images := []*blade.Image{blade.NewImage(30, 30)}
	newEngine := func(img *blade.Image) (*blade.Engine, error) {
		return blade.New(img, blade.DefaultOptions(), nil)
	}
	results, err := DecodeAll(context.Background(), newEngine, images, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}
