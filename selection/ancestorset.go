package selection

import (
	"sort"

	"ledgerscript.dev/engine/mempool"
)

// ancestorSet is the transitive closure of txID's parents, including txID
// itself, per spec §3. Results are memoized in cache across calls within
// one strategy run.
func ancestorSet(m *mempool.Mempool, txID string, cache map[string][]string) []string {
	if cached, ok := cache[txID]; ok {
		return cached
	}
	seen := map[string]bool{txID: true}
	var walk func(id string)
	walk = func(id string) {
		for _, p := range parentsOf(m, id) {
			if !seen[p] {
				seen[p] = true
				walk(p)
			}
		}
	}
	walk(txID)

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	cache[txID] = ids
	return ids
}

func ancestorScore(m *mempool.Mempool, ids []string) float64 {
	var fee, size uint64
	for _, id := range ids {
		if item, ok := m.Lookup(id); ok {
			fee += item.Fee
			size += item.Size
		}
	}
	if size == 0 {
		return 0
	}
	return float64(fee) / float64(size)
}

// AncestorSet implements spec §4.I's package-aware selector: every
// transaction's ancestor set is memoized, sets are visited in descending
// score order, and each visit admits whatever ancestors aren't already
// selected if they all still fit the remaining budget. This is what lets a
// high-fee child lift a low-fee parent into the block (CPFP, spec §8
// scenario S5).
func AncestorSet(m *mempool.Mempool, budget uint64) Result {
	ids := sortedIDs(m)
	cache := make(map[string][]string, len(ids))

	type scored struct {
		id    string
		aset  []string
		score float64
	}
	scoredList := make([]scored, 0, len(ids))
	for _, id := range ids {
		aset := ancestorSet(m, id, cache)
		scoredList = append(scoredList, scored{id: id, aset: aset, score: ancestorScore(m, aset)})
	}
	sort.SliceStable(scoredList, func(i, j int) bool {
		if scoredList[i].score != scoredList[j].score {
			return scoredList[i].score > scoredList[j].score
		}
		return scoredList[i].id < scoredList[j].id
	})

	selected := map[string]bool{}
	var size uint64
	var out []string
	for _, s := range scoredList {
		if selected[s.id] {
			continue
		}
		var toAdd []string
		var addSize uint64
		for _, id := range s.aset {
			if selected[id] {
				continue
			}
			item, ok := m.Lookup(id)
			if !ok {
				continue
			}
			toAdd = append(toAdd, id)
			addSize += item.Size
		}
		if size+addSize > budget {
			continue
		}
		for _, id := range toAdd {
			selected[id] = true
		}
		size += addSize
		out = append(out, toAdd...)
	}
	return buildResult(m, out)
}
