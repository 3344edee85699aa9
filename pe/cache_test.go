package pe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lynxkite/lynxkite/posenc/feature"
)

func TestCachePath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "pe_dim178_cora.parquet"), CachePath("data/adj_cora.parquet", 178))
	assert.Equal(t, filepath.Join("/x", "pe_dim5_big_graph.arrow"), CachePath("/x/adj_big_graph.arrow", 5))
	assert.Equal(t, "pe_dim3_", CachePath("adjacency.parquet", 3))
	assert.Equal(t, CachePath("a/adj_g.parquet", 7), CachePath("a/adj_g.parquet", 7))
}

func TestCacheRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	adj := filepath.Join(t.TempDir(), "adj_g.parquet")
	want := randomBlock(6, 3, 1)
	compute := NewMockComputer(ctrl)
	compute.EXPECT().Compute(gomock.Any(), adj).Return(want, nil).Times(1)

	cache := &Cache{UseCached: true}
	first, err := cache.LoadOrCompute(context.Background(), adj, 3, compute)
	require.NoError(t, err)
	second, err := cache.LoadOrCompute(context.Background(), adj, 3, compute)
	require.NoError(t, err)
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)

	onDisk, err := HasOnDisk(adj, 3)
	require.NoError(t, err)
	assert.True(t, onDisk)
	_, err = os.Stat(CachePath(adj, 3) + inprogressSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestCacheKeyIncludesDimension(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	adj := filepath.Join(t.TempDir(), "adj_g.arrow")
	compute := NewMockComputer(ctrl)
	compute.EXPECT().Compute(gomock.Any(), adj).Return(randomBlock(4, 2, 1), nil)
	compute.EXPECT().Compute(gomock.Any(), adj).Return(randomBlock(4, 3, 2), nil)

	cache := &Cache{UseCached: true}
	_, err := cache.LoadOrCompute(context.Background(), adj, 2, compute)
	require.NoError(t, err)
	m, err := cache.LoadOrCompute(context.Background(), adj, 3, compute)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Cols)
}

func TestCacheRecomputesWithoutUseCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	adj := filepath.Join(t.TempDir(), "adj_g.parquet")
	compute := NewMockComputer(ctrl)
	compute.EXPECT().Compute(gomock.Any(), adj).Return(randomBlock(3, 2, 1), nil).Times(2)

	cache := &Cache{}
	for i := 0; i < 2; i++ {
		_, err := cache.LoadOrCompute(context.Background(), adj, 2, compute)
		require.NoError(t, err)
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	adj := filepath.Join(t.TempDir(), "adj_g.arrow")
	require.NoError(t, os.WriteFile(CachePath(adj, 2), []byte("not a table"), 0644))
	want := randomBlock(3, 2, 1)
	compute := NewMockComputer(ctrl)
	compute.EXPECT().Compute(gomock.Any(), adj).Return(want, nil).Times(1)

	cache := &Cache{UseCached: true}
	m, err := cache.LoadOrCompute(context.Background(), adj, 2, compute)
	require.NoError(t, err)
	assert.Equal(t, want, m)
	// The corrupt entry was replaced.
	m, err = cache.LoadOrCompute(context.Background(), adj, 2, compute)
	require.NoError(t, err)
	assert.Equal(t, want, m)
}

func TestFailedComputeWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	adj := filepath.Join(t.TempDir(), "adj_g.parquet")
	failure := fmt.Errorf("encoder failed")
	compute := NewMockComputer(ctrl)
	compute.EXPECT().Compute(gomock.Any(), adj).Return(feature.Matrix{}, failure)

	_, err := (&Cache{UseCached: true}).LoadOrCompute(context.Background(), adj, 2, compute)
	assert.Equal(t, failure, err)
	onDisk, err := HasOnDisk(adj, 2)
	require.NoError(t, err)
	assert.False(t, onDisk)
}

func TestZeroWidthIsNotCached(t *testing.T) {
	adj := filepath.Join(t.TempDir(), "adj_g.parquet")
	compute := ComputerFunc(func(ctx context.Context, path string) (feature.Matrix, error) {
		return feature.Empty(4), nil
	})
	m, err := (&Cache{UseCached: true}).LoadOrCompute(context.Background(), adj, 0, compute)
	require.NoError(t, err)
	assert.Equal(t, feature.Empty(4), m)
	onDisk, err := HasOnDisk(adj, 0)
	require.NoError(t, err)
	assert.False(t, onDisk)
}

func TestRemove(t *testing.T) {
	adj := filepath.Join(t.TempDir(), "adj_g.parquet")
	require.NoError(t, Remove(adj, 2))
	compute := ComputerFunc(func(ctx context.Context, path string) (feature.Matrix, error) {
		return randomBlock(2, 2, 1), nil
	})
	_, err := (&Cache{}).LoadOrCompute(context.Background(), adj, 2, compute)
	require.NoError(t, err)
	require.NoError(t, Remove(adj, 2))
	onDisk, err := HasOnDisk(adj, 2)
	require.NoError(t, err)
	assert.False(t, onDisk)
}
