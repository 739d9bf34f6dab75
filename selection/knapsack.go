package selection

import (
	"sort"

	"ledgerscript.dev/engine/mempool"
)

const knapsackScale = 1000
const knapsackMaxItems = 100

// Knapsack is the reference 0/1-knapsack selector for the no-dependency
// subset of the mempool (spec §4.I): only parentless transactions are
// considered, so the result trivially satisfies the "parents already
// selected" invariant. Sizes are scaled down by knapsackScale to bound the
// DP table, and the candidate set is capped at knapsackMaxItems (highest
// fee-per-byte first) to keep it bounded when the mempool is larger.
func Knapsack(m *mempool.Mempool, budget uint64) Result {
	ids := sortedIDs(m)
	type candidate struct {
		id         string
		fee        uint64
		size       uint64
		scaledSize int
	}
	var candidates []candidate
	for _, id := range ids {
		item, ok := m.Lookup(id)
		if !ok || len(item.Parents) != 0 {
			continue
		}
		scaled := int(item.Size / knapsackScale)
		if item.Size%knapsackScale != 0 {
			scaled++
		}
		if scaled == 0 {
			scaled = 1
		}
		candidates = append(candidates, candidate{id: id, fee: item.Fee, size: item.Size, scaledSize: scaled})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		fi := float64(candidates[i].fee) / float64(candidates[i].size)
		fj := float64(candidates[j].fee) / float64(candidates[j].size)
		return fi > fj
	})
	if len(candidates) > knapsackMaxItems {
		candidates = candidates[:knapsackMaxItems]
	}

	capacity := int(budget / knapsackScale)
	n := len(candidates)
	if n == 0 || capacity == 0 {
		return buildResult(m, nil)
	}

	// dp[i][c] = best total fee achievable using the first i candidates
	// within scaled capacity c.
	dp := make([][]uint64, n+1)
	for i := range dp {
		dp[i] = make([]uint64, capacity+1)
	}
	for i := 1; i <= n; i++ {
		c := candidates[i-1]
		for cap := 0; cap <= capacity; cap++ {
			dp[i][cap] = dp[i-1][cap]
			if c.scaledSize <= cap {
				alt := dp[i-1][cap-c.scaledSize] + c.fee
				if alt > dp[i][cap] {
					dp[i][cap] = alt
				}
			}
		}
	}

	var out []string
	cap := capacity
	for i := n; i > 0; i-- {
		if dp[i][cap] != dp[i-1][cap] {
			c := candidates[i-1]
			out = append(out, c.id)
			cap -= c.scaledSize
		}
	}
	return buildResult(m, out)
}
