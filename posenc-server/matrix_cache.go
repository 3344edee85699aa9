// This file contains code controlling the matrix cache.

package main

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/lynxkite/lynxkite/posenc/feature"
	"github.com/lynxkite/lynxkite/posenc/pe"
)

var cachedMatricesMaxMem = pe.NumericEnv("POSENC_CACHED_MAX_MEM_MB", 1*1024) * 1024 * 1024

type MatrixCache struct {
	sync.Mutex
	cache         map[GUID]cacheEntry
	totalMemUsage int
	maxMem        int
}

func NewMatrixCache(maxMem int) *MatrixCache {
	return &MatrixCache{
		cache:  make(map[GUID]cacheEntry),
		maxMem: maxMem,
	}
}

type cacheEntry struct {
	matrix    feature.Matrix
	timestamp int64 // The last time this matrix was accessed
	memUsage  int
}

func (matrixCache *MatrixCache) Get(guid GUID) (feature.Matrix, bool) {
	ts := ourTimestamp()
	matrixCache.Lock()
	defer matrixCache.Unlock()
	entry, exists := matrixCache.cache[guid]
	if exists {
		fresh := entry
		fresh.timestamp = ts
		matrixCache.cache[guid] = fresh
		return entry.matrix, true
	}
	return feature.Matrix{}, false
}

// Set puts the matrix in the cache, replacing an older one with the same guid.
// It also drops the least recently used items if the total memory usage of
// cached items exceeds maxMem.
func (matrixCache *MatrixCache) Set(guid GUID, m feature.Matrix) {
	memUsage := m.EstimatedMemUsage()
	matrixCache.Lock()
	defer matrixCache.Unlock()
	if old, exists := matrixCache.cache[guid]; exists {
		matrixCache.totalMemUsage -= old.memUsage
	}
	matrixCache.cache[guid] = cacheEntry{
		matrix:    m,
		timestamp: ourTimestamp(),
		memUsage:  memUsage,
	}
	matrixCache.totalMemUsage += memUsage
	if matrixCache.totalMemUsage > matrixCache.maxMem {
		memEvicted := matrixCache.evictUntilEnoughEvicted(matrixCache.totalMemUsage - matrixCache.maxMem)
		matrixCache.totalMemUsage -= memEvicted
	}
}

func (matrixCache *MatrixCache) Clear() {
	matrixCache.Lock()
	defer matrixCache.Unlock()
	matrixCache.cache = make(map[GUID]cacheEntry)
	matrixCache.totalMemUsage = 0
}

type matrixEvictionItem struct {
	guid      GUID
	timestamp int64
	memUsage  int
}

func (matrixCache *MatrixCache) evictUntilEnoughEvicted(howMuchMemoryToRecycle int) int {
	start := ourTimestamp()
	evictionCandidates := make([]matrixEvictionItem, 0, len(matrixCache.cache))
	for guid, e := range matrixCache.cache {
		evictionCandidates = append(evictionCandidates, matrixEvictionItem{
			guid:      guid,
			timestamp: e.timestamp,
			memUsage:  e.memUsage,
		})
	}
	sort.Slice(evictionCandidates, func(i, j int) bool {
		return evictionCandidates[i].timestamp < evictionCandidates[j].timestamp
	})

	memEvicted := 0
	itemsEvicted := 0
	for i := 0; i < len(evictionCandidates) && memEvicted < howMuchMemoryToRecycle; i++ {
		guid := evictionCandidates[i].guid
		log.Printf("Evicting: %v", evictionCandidates[i])
		delete(matrixCache.cache, guid)
		memEvicted += evictionCandidates[i].memUsage
		itemsEvicted++
	}
	log.Printf("Evicted %d matrices (out of %d), estimated size: %d time: %d",
		itemsEvicted, len(evictionCandidates), memEvicted, timestampDiff(ourTimestamp(), start))
	return memEvicted
}

func ourTimestamp() int64 {
	// This must be precise
	return time.Now().UnixNano()
}

func timestampDiff(ts1 int64, ts2 int64) int64 {
	return (ts1 - ts2) / 1000000
}
