package spectrice

/*------------------------------------------------------------------
 *
 * Purpose:	Process-wide twiddle tables for the DCT-IV/DCT-II kernel.
 *
 *		cos((n+1/2)*pi/(2N)) and its sine companion, keyed by N.
 *		Tables are immutable once built; a size is built at most
 *		once and cached forever (the process only ever sees a
 *		handful of distinct block sizes).
 *
 *----------------------------------------------------------------*/

import (
	"math"
	"sync"
)

type trigTable struct {
	cos []float64
	sin []float64
}

var (
	trigMu    sync.Mutex
	trigCache = map[int]*trigTable{}
)

// trigTableFor returns the twiddle table for transform size n, building it
// on first use. Concurrent first-use from multiple goroutines is safe:
// trigMu is held for the whole lookup-or-build, so each size is built
// exactly once and every caller gets the same table.
func trigTableFor(n int) *trigTable {
	trigMu.Lock()
	defer trigMu.Unlock()

	if t, ok := trigCache[n]; ok {
		return t
	}

	t := &trigTable{
		cos: make([]float64, n),
		sin: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		angle := (float64(i) + 0.5) * math.Pi / (2 * float64(n))
		t.cos[i] = math.Cos(angle)
		t.sin[i] = math.Sin(angle)
	}

	trigCache[n] = t

	return t
}
