package planecache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/fsefeed/internal/records"
)

func planes(regs ...string) []records.Airplane {
	out := make([]records.Airplane, 0, len(regs))
	for _, r := range regs {
		out = append(out, records.Airplane{Registration: r, MakeModel: "Cessna 172 Skyhawk"})
	}
	return out
}

func registrations(rows []records.Airplane) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Registration)
	}
	return out
}

func TestCache_MissUntilPopulated(t *testing.T) {
	var c Cache

	rows, ok := c.Get("C172")
	assert.False(t, ok)
	assert.Nil(t, rows)

	_, ok = c.State("C172")
	assert.False(t, ok)
}

func TestCache_PutThenGetReturnsExactRows(t *testing.T) {
	c := New()
	before := time.Now()

	n := c.Put("C172", planes("N1", "N2", "N3"))
	assert.Equal(t, 3, n)

	rows, ok := c.Get("C172")
	require.True(t, ok)
	assert.Equal(t, []string{"N1", "N2", "N3"}, registrations(rows))

	st, ok := c.State("C172")
	require.True(t, ok)
	assert.True(t, st.Valid)
	assert.Equal(t, 3, st.Size)
	assert.False(t, st.FetchedAt.Before(before))
}

func TestCache_PutDedupesByRegistration(t *testing.T) {
	c := New()
	in := planes("N1", "N2", "N1", "N3", "N2")
	in[2].Owner = "second copy"

	n := c.Put("C172", in)
	assert.Equal(t, 3, n)

	rows, _ := c.Get("C172")
	assert.Equal(t, []string{"N1", "N2", "N3"}, registrations(rows))
	assert.Empty(t, rows[0].Owner, "first occurrence wins")
}

func TestCache_PutReplacesWholesale(t *testing.T) {
	c := New()
	c.Put("C172", planes("N1", "N2"))
	c.Put("C172", planes("N3"))

	rows, ok := c.Get("C172")
	require.True(t, ok)
	assert.Equal(t, []string{"N3"}, registrations(rows))
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c := New()
	c.Put("C172", planes("N1"))
	c.Put("TBM 930", planes("N930"))

	c.Put("C172", planes("N2"))
	rows, ok := c.Get("TBM 930")
	require.True(t, ok)
	assert.Equal(t, []string{"N930"}, registrations(rows))

	c.Invalidate("C172")
	_, ok = c.Get("C172")
	assert.False(t, ok)
	rows, ok = c.Get("TBM 930")
	require.True(t, ok)
	assert.Equal(t, []string{"N930"}, registrations(rows))
}

func TestCache_InvalidateAll(t *testing.T) {
	c := New()
	c.Put("A", planes("N1"))
	c.Put("B", planes("N2"))
	assert.Equal(t, []string{"A", "B"}, c.Keys())

	c.InvalidateAll()
	assert.Zero(t, c.Len())
	_, ok := c.Get("A")
	assert.False(t, ok)
}

func TestCache_EmptyBucketIsAHit(t *testing.T) {
	c := New()
	c.Put("Rare Type", nil)

	rows, ok := c.Get("Rare Type")
	assert.True(t, ok)
	assert.Empty(t, rows)
}

func TestCache_GetReturnsCopy(t *testing.T) {
	c := New()
	c.Put("C172", planes("N1"))

	rows, _ := c.Get("C172")
	rows[0].Registration = "CHANGED"

	again, _ := c.Get("C172")
	assert.Equal(t, "N1", again[0].Registration)
}

func TestCache_PutDoesNotAliasCallerSlice(t *testing.T) {
	c := New()
	in := planes("N1")
	c.Put("C172", in)
	in[0].Registration = "CHANGED"

	rows, _ := c.Get("C172")
	assert.Equal(t, "N1", rows[0].Registration)
}

func TestCache_ConcurrentReadersSeeWholeBuckets(t *testing.T) {
	c := New()
	small := planes("N1")
	large := planes("N1", "N2", "N3", "N4")
	c.Put("C172", small)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if (i+j)%2 == 0 {
					c.Put("C172", large)
				} else {
					c.Put("C172", small)
				}
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				rows, ok := c.Get("C172")
				if ok && len(rows) != 1 && len(rows) != 4 {
					t.Errorf("observed partial bucket of %d rows", len(rows))
					return
				}
			}
		}()
	}
	wg.Wait()
}
