package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evidenceFor(name string) assessment.AdditiveEvidence {
	return assessment.AdditiveEvidence{Name: name, Severity: assessment.SeverityModerate}
}

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemoryEvidenceCache(10)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "sodium benzoate", evidenceFor("sodium benzoate"), time.Minute))

	ev, ok, err := c.Get(ctx, "sodium benzoate")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sodium benzoate", ev.Name)

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryEvidenceCache(10)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "pectin", evidenceFor("pectin"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := c.Get(ctx, "pectin")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry reads as absent")
}

func TestMemoryCacheOverwriteRefreshes(t *testing.T) {
	c := NewMemoryEvidenceCache(10)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "bha", evidenceFor("bha"), time.Minute))
	updated := evidenceFor("bha")
	updated.Severity = assessment.SeverityHigh
	require.NoError(t, c.Put(ctx, "bha", updated, time.Minute))

	ev, ok, err := c.Get(ctx, "bha")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, assessment.SeverityHigh, ev.Severity)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryEvidenceCache(3)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, c.Put(ctx, name, evidenceFor(name), time.Minute))
	}

	// Touch "a" so "b" becomes the least recently used.
	_, _, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, "d", evidenceFor("d"), time.Minute))

	_, ok, _ := c.Get(ctx, "b")
	assert.False(t, ok, "least recently used entry evicted")
	for _, name := range []string{"a", "c", "d"} {
		_, ok, _ := c.Get(ctx, name)
		assert.True(t, ok, "entry %q survives", name)
	}
}

func TestMemoryCacheConcurrentGetPutSameKey(t *testing.T) {
	c := NewMemoryEvidenceCache(10)
	ctx := context.Background()

	high := assessment.AdditiveEvidence{Name: "bha", Severity: assessment.SeverityHigh, Summary: "possible carcinogen"}
	moderate := assessment.AdditiveEvidence{Name: "bha", Severity: assessment.SeverityModerate, Summary: "under review"}
	require.NoError(t, c.Put(ctx, "bha", high, time.Minute))

	var torn atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if (i+j)%2 == 0 {
					_ = c.Put(ctx, "bha", high, time.Minute)
				} else {
					_ = c.Put(ctx, "bha", moderate, time.Minute)
				}
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				ev, ok, err := c.Get(ctx, "bha")
				if err != nil || !ok {
					continue
				}
				// A read must return one record in full, never a blend of
				// two writes.
				whole := (ev.Severity == assessment.SeverityHigh && ev.Summary == "possible carcinogen") ||
					(ev.Severity == assessment.SeverityModerate && ev.Summary == "under review")
				if !whole {
					torn.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, torn.Load(), "reader observed a partially written record")
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryEvidenceCache(100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				name := fmt.Sprintf("additive-%d", j%20)
				_ = c.Put(ctx, name, evidenceFor(name), time.Minute)
				_, _, _ = c.Get(ctx, name)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 100)
}
