// Package selection implements Component I: the four block-assembly
// strategies contracted by spec §4.I, all sharing the same Result shape.
package selection

import (
	"sort"

	"ledgerscript.dev/engine/mempool"
)

// Result is the common contract every strategy returns: the selected
// transaction ids, and their aggregate fee and size.
type Result struct {
	Selected  []string
	TotalFee  uint64
	TotalSize uint64
}

func feePerByte(item *mempool.MempoolTransaction) float64 {
	if item.Size == 0 {
		return 0
	}
	return float64(item.Fee) / float64(item.Size)
}

// sortedIDs returns m's transaction ids in a stable, deterministic order
// (ascending id) so strategies that iterate "all transactions" behave
// identically across runs given the same mempool contents.
func sortedIDs(m *mempool.Mempool) []string {
	ids := m.IDs()
	sort.Strings(ids)
	return ids
}

// parentsOf resolves every direct parent id of txID present in m.
func parentsOf(m *mempool.Mempool, txID string) []string {
	item, ok := m.Lookup(txID)
	if !ok {
		return nil
	}
	parents := make([]string, 0, len(item.Parents))
	for p := range item.Parents {
		parents = append(parents, p)
	}
	sort.Strings(parents)
	return parents
}

// closure returns the topological closure of txID's ancestors (not
// including txID itself) needed before txID can be selected: every parent,
// transitively, that is not already in selected.
func closure(m *mempool.Mempool, txID string, selected map[string]bool) []string {
	var need []string
	seen := map[string]bool{}
	var visit func(id string)
	visit = func(id string) {
		if seen[id] || selected[id] {
			return
		}
		seen[id] = true
		need = append(need, id)
		for _, p := range parentsOf(m, id) {
			visit(p)
		}
	}
	for _, p := range parentsOf(m, txID) {
		visit(p)
	}
	return need
}

func buildResult(m *mempool.Mempool, ids []string) Result {
	sort.Strings(ids)
	var r Result
	r.Selected = ids
	for _, id := range ids {
		if item, ok := m.Lookup(id); ok {
			r.TotalFee += item.Fee
			r.TotalSize += item.Size
		}
	}
	return r
}

// Greedy sorts by fee/size descending and includes a transaction whenever
// its parents are already selected and it fits the remaining budget (spec
// §4.I). It is a valid selection but can miss CPFP packages that
// ancestor-set selection catches (spec §8 invariant 6).
func Greedy(m *mempool.Mempool, budget uint64) Result {
	ids := sortedIDs(m)
	sort.SliceStable(ids, func(i, j int) bool {
		ti, _ := m.Lookup(ids[i])
		tj, _ := m.Lookup(ids[j])
		return feePerByte(ti) > feePerByte(tj)
	})

	selected := map[string]bool{}
	var size uint64
	var out []string
	for _, id := range ids {
		item, ok := m.Lookup(id)
		if !ok {
			continue
		}
		allParentsIn := true
		for p := range item.Parents {
			if !selected[p] {
				allParentsIn = false
				break
			}
		}
		if !allParentsIn {
			continue
		}
		if size+item.Size > budget {
			continue
		}
		selected[id] = true
		size += item.Size
		out = append(out, id)
	}
	return buildResult(m, out)
}
