package tx

// Outpoint identifies one output of one transaction.
type Outpoint struct {
	TxHash string
	Index  uint32
}

// UTXOSet is the mapping from outpoint to the output it still holds
// unspent, per spec §3.
type UTXOSet struct {
	entries map[Outpoint]TxOutput
}

// NewUTXOSet returns an empty set.
func NewUTXOSet() *UTXOSet {
	return &UTXOSet{entries: make(map[Outpoint]TxOutput)}
}

// Add records out as unspent at point.
func (s *UTXOSet) Add(point Outpoint, out TxOutput) {
	s.entries[point] = out
}

// Remove deletes point from the set, e.g. because it was just spent.
func (s *UTXOSet) Remove(point Outpoint) {
	delete(s.entries, point)
}

// Get returns the output at point, if unspent.
func (s *UTXOSet) Get(point Outpoint) (TxOutput, bool) {
	out, ok := s.entries[point]
	return out, ok
}

// BalanceOf sums every unspent output paying address.
func (s *UTXOSet) BalanceOf(address string) uint64 {
	var total uint64
	for _, out := range s.entries {
		if out.RecipientAddress == address {
			total += out.AmountSatoshis
		}
	}
	return total
}

// UTXOsOf returns every outpoint currently paying address.
func (s *UTXOSet) UTXOsOf(address string) []Outpoint {
	var points []Outpoint
	for point, out := range s.entries {
		if out.RecipientAddress == address {
			points = append(points, point)
		}
	}
	return points
}

// ApplyTransaction deletes every outpoint t's non-coinbase inputs reference,
// then inserts one entry per output of t, per spec §4.E.
func (s *UTXOSet) ApplyTransaction(t Transaction) {
	for _, in := range t.Inputs {
		if in.IsCoinbase() {
			continue
		}
		s.Remove(Outpoint{TxHash: in.PrevTxHash, Index: in.PrevOutputIndex})
	}
	for i, out := range t.Outputs {
		s.Add(Outpoint{TxHash: t.TxHash, Index: uint32(i)}, out)
	}
}
