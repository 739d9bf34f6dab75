package selection

import (
	"math/rand"
	"sort"

	"ledgerscript.dev/engine/chainconfig"
	"ledgerscript.dev/engine/mempool"
)

// descendantsWithin returns every descendant of txID that is currently a
// member of selected, transitively, via the mempool's Children edges.
func descendantsWithin(m *mempool.Mempool, txID string, selected map[string]bool) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		item, ok := m.Lookup(id)
		if !ok {
			return
		}
		for ch := range item.Children {
			if !selected[ch] || seen[ch] {
				continue
			}
			seen[ch] = true
			out = append(out, ch)
			walk(ch)
		}
	}
	walk(txID)
	return out
}

func sumFeeSize(m *mempool.Mempool, ids map[string]bool) (fee, size uint64) {
	for id := range ids {
		if item, ok := m.Lookup(id); ok {
			fee += item.Fee
			size += item.Size
		}
	}
	return
}

// SimulatedAnnealing implements spec §4.I's local-search strategy: seeded
// with the greedy selection, it repeatedly tries to drop a selected
// transaction (and its selected descendants) or add an unselected one (and
// its parent closure). Moves that do not lower the fee are always accepted.
// A worsening move is accepted only if a uniform draw falls below
// delta/temperature; that ratio is negative for any worsening move, so such
// a move is never accepted. The temperature still cools every iteration.
// The best valid selection seen is what's returned.
func SimulatedAnnealing(m *mempool.Mempool, budget uint64, cfg AnnealingConfig) Result {
	rng := rand.New(rand.NewSource(cfg.Seed))

	greedy := Greedy(m, budget)
	selected := map[string]bool{}
	for _, id := range greedy.Selected {
		selected[id] = true
	}
	currentFee, currentSize := sumFeeSize(m, selected)

	best := cloneSelection(selected)
	bestFee := currentFee

	allIDs := sortedIDs(m)
	temperature := cfg.StartTemp

	for iter := 0; iter < cfg.Iterations; iter++ {
		if len(allIDs) == 0 {
			break
		}

		var candidateSelected map[string]bool
		var candidateFee, candidateSize uint64
		moved := false

		if rng.Float64() < 0.5 {
			selectedIDs := idsFromSet(selected)
			if len(selectedIDs) > 0 {
				pick := selectedIDs[rng.Intn(len(selectedIDs))]
				toRemove := append([]string{pick}, descendantsWithin(m, pick, selected)...)
				candidateSelected = cloneSelection(selected)
				for _, id := range toRemove {
					delete(candidateSelected, id)
				}
				candidateFee, candidateSize = sumFeeSize(m, candidateSelected)
				moved = true
			}
		} else {
			unselected := make([]string, 0, len(allIDs))
			for _, id := range allIDs {
				if !selected[id] {
					unselected = append(unselected, id)
				}
			}
			if len(unselected) > 0 {
				pick := unselected[rng.Intn(len(unselected))]
				need := closure(m, pick, selected)
				need = append(need, pick)
				var addSize uint64
				for _, id := range need {
					if item, ok := m.Lookup(id); ok {
						addSize += item.Size
					}
				}
				if currentSize+addSize <= budget {
					candidateSelected = cloneSelection(selected)
					for _, id := range need {
						candidateSelected[id] = true
					}
					candidateFee, candidateSize = sumFeeSize(m, candidateSelected)
					moved = true
				}
			}
		}

		if !moved {
			temperature *= cfg.CoolingRate
			continue
		}

		delta := float64(candidateFee) - float64(currentFee)
		accept := delta >= 0
		if !accept && temperature > 0 {
			accept = rng.Float64() < delta/temperature
		}
		if accept {
			selected = candidateSelected
			currentFee = candidateFee
			currentSize = candidateSize
			if currentFee > bestFee {
				bestFee = currentFee
				best = cloneSelection(selected)
			}
		}

		temperature *= cfg.CoolingRate
	}

	return buildResult(m, idsFromSet(best))
}

// AnnealingConfig is SimulatedAnnealing's tuning input. Callers normally
// derive it from a chainconfig.Config via ConfigFromChain rather than
// building one by hand, so the annealing knobs have a single source of
// truth instead of duplicating chainconfig's Annealing* fields.
type AnnealingConfig struct {
	Iterations  int
	CoolingRate float64
	StartTemp   float64
	Seed        int64
}

// ConfigFromChain derives an AnnealingConfig from cfg's Annealing* fields,
// the only sanctioned path from chainconfig.Config to this package's own
// config type.
func ConfigFromChain(cfg chainconfig.Config) AnnealingConfig {
	return AnnealingConfig{
		Iterations:  cfg.AnnealingIterations,
		CoolingRate: cfg.AnnealingCoolingRate,
		StartTemp:   cfg.AnnealingStartTemp,
		Seed:        cfg.AnnealingSeed,
	}
}

func cloneSelection(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func idsFromSet(s map[string]bool) []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
