package precode

import (
	"sync"

	"golang.org/x/xerrors"
)

// The systematic index J(K) seeds the tuple generator such that the
// constraint matrix with LT rows for the identifiers 0..K-1 is invertible.
// That makes the code systematic: intermediate symbols derived from exactly
// the K source symbols exist and are unique, and re-encoding identifier i
// reproduces source symbol i.
//
// The index is found by deterministic search, trying candidates in
// ascending order, and cached for the lifetime of the process. Searches for
// the same K from concurrent contexts are coalesced.

// sysIndexCache maps K to the cached search result.
var sysIndexCache sync.Map // int -> *sysIndexEntry

type sysIndexEntry struct {
	once sync.Once
	j    int
	err  error
}

// maxSystematicCandidates bounds the index search. Random binary matrices
// are invertible with probability around 0.29, so candidates in the
// hundreds are already astronomically unlikely.
const maxSystematicCandidates = 1024

func systematicIndex(p Params) (int, error) {
	v, _ := sysIndexCache.LoadOrStore(p.K, &sysIndexEntry{})
	e := v.(*sysIndexEntry)
	e.once.Do(func() {
		e.j, e.err = searchSystematicIndex(p)
	})
	return e.j, e.err
}

func searchSystematicIndex(p Params) (int, error) {
	probe := make([]Symbol, p.K)
	for i := range probe {
		probe[i].ISI = uint32(i)
	}
	for j := 0; j < maxSystematicCandidates; j++ {
		p.J = j
		if _, err := p.Solve(probe, 0); err == nil {
			return j, nil
		}
	}
	return 0, xerrors.Errorf(
		"precode: no systematic index found for K=%d", p.K)
}
