// Package chain implements Component G: per-transaction and per-block
// validation, the UTXO state transition, and chain-wide invariants.
package chain

import (
	"strings"
	"time"

	"ledgerscript.dev/engine/block"
	"ledgerscript.dev/engine/chainconfig"
	"ledgerscript.dev/engine/hash"
	"ledgerscript.dev/engine/ledgerror"
	"ledgerscript.dev/engine/tx"
)

// Chain is an append-only sequence of blocks plus the UTXO set and pending
// pool it owns. The zero value is not usable; build one with New. Callers
// must serialize access externally — Chain keeps no internal locks (spec §5).
type Chain struct {
	Blocks  []block.Block
	Pending []tx.Transaction
	UTXO    *tx.UTXOSet

	cfg      chainconfig.Config
	verifier hash.Signer
}

// New builds a chain whose genesis block funds genesisAddress with
// genesisAmount satoshis, per spec §3 ("the first block...funds a
// distinguished genesis output"). The genesis block is exempt from PoW:
// IsChainValid only checks blocks at index > 0.
func New(cfg chainconfig.Config, verifier hash.Signer, genesisAddress string, genesisAmount uint64, now uint32) *Chain {
	genesisTx := tx.NewCoinbase(genesisAddress, genesisAmount, now)
	genesis := block.Block{
		Index:        0,
		Timestamp:    uint64(now),
		PreviousHash: strings.Repeat("0", 64),
		Difficulty:   0,
		Transactions: []tx.Transaction{genesisTx},
	}
	genesis.Hash = block.HashHex(genesis)

	c := &Chain{
		Blocks: []block.Block{genesis},
		UTXO:   tx.NewUTXOSet(),
		cfg:    cfg,
		verifier: verifier,
	}
	c.UTXO.ApplyTransaction(genesisTx)
	return c
}

// Tip returns the most recently appended block.
func (c *Chain) Tip() block.Block {
	return c.Blocks[len(c.Blocks)-1]
}

// AddTransaction implements spec §4.G's add_transaction: a coinbase-shaped
// transaction bypasses input validation; otherwise every input's UTXO must
// exist, outputs must not exceed referenced input amounts, and
// verify_signatures must pass. On success t is appended to the pending pool.
func (c *Chain) AddTransaction(t tx.Transaction) error {
	if !isCoinbaseShaped(t) {
		var inputTotal uint64
		for _, in := range t.Inputs {
			point := tx.Outpoint{TxHash: in.PrevTxHash, Index: in.PrevOutputIndex}
			out, ok := c.UTXO.Get(point)
			if !ok {
				return ledgerror.TxMonetaryf(ledgerror.CodeMissingUTXO,
					"input references unknown utxo %s:%d", in.PrevTxHash, in.PrevOutputIndex)
			}
			if c.pendingSpends(point) {
				return ledgerror.TxMonetaryf(ledgerror.CodeDuplicateSpend,
					"input %s:%d is already spent by a pending transaction", point.TxHash, point.Index)
			}
			inputTotal += out.AmountSatoshis
		}
		var outputTotal uint64
		for _, out := range t.Outputs {
			outputTotal += out.AmountSatoshis
		}
		if outputTotal > inputTotal {
			return ledgerror.TxMonetaryf(ledgerror.CodeOutputsExceedInputs,
				"outputs %d exceed inputs %d", outputTotal, inputTotal)
		}
		if !tx.VerifySignatures(t, c.UTXO, c.verifier) {
			return ledgerror.TxSignaturef(ledgerror.CodeSignatureRejected, "signature verification failed")
		}
	}
	c.Pending = append(c.Pending, t)
	return nil
}

func isCoinbaseShaped(t tx.Transaction) bool {
	return len(t.Inputs) == 1 && t.Inputs[0].IsCoinbase()
}

// pendingSpends reports whether point is already referenced by an input of
// some transaction sitting in the pending pool, so a second spend of the
// same utxo is rejected before it can ever reach MinePending.
func (c *Chain) pendingSpends(point tx.Outpoint) bool {
	for _, t := range c.Pending {
		for _, in := range t.Inputs {
			if in.PrevTxHash == point.TxHash && in.PrevOutputIndex == point.Index {
				return true
			}
		}
	}
	return false
}

// MinePending implements spec §4.G's mine_pending: prepend a coinbase
// paying the mining reward to minerAddress, assemble a block over it plus
// the current pending pool, seal it with PoW, then append it and apply
// every included transaction to the UTXO set. Either the whole block is
// appended and applied, or no state changes at all (spec §7).
func (c *Chain) MinePending(minerAddress string) (block.Block, error) {
	now := uint32(time.Now().Unix())
	coinbase := tx.NewCoinbase(minerAddress, c.cfg.MiningReward, now)
	txs := append([]tx.Transaction{coinbase}, c.Pending...)

	b := block.Block{
		Index:        uint32(len(c.Blocks)),
		Timestamp:    uint64(now),
		Transactions: txs,
		PreviousHash: c.Tip().Hash,
		Difficulty:   c.cfg.Difficulty,
	}
	if _, _, err := block.Mine(&b, c.cfg.MaxMineAttempts); err != nil {
		return block.Block{}, err
	}

	c.Blocks = append(c.Blocks, b)
	for _, t := range txs {
		c.UTXO.ApplyTransaction(t)
	}
	c.Pending = nil
	return b, nil
}

// IsChainValid implements spec §4.G's is_chain_valid: for every block past
// genesis, its recomputed hash must match its stored hash, its
// previous_hash must link to the prior block's hash, and its stored hash
// must meet its own difficulty. The first failing index is reported and no
// later block is checked (spec §8 scenario S6).
func (c *Chain) IsChainValid() (bool, error) {
	for i := 1; i < len(c.Blocks); i++ {
		b := c.Blocks[i]
		if b.Index != uint32(i) {
			return false, ledgerror.Blockf(ledgerror.CodeStructuralBlock, "block %d: stored index %d does not match position", i, b.Index)
		}
		if block.HashHex(b) != b.Hash {
			return false, ledgerror.Blockf(ledgerror.CodeHashMismatch, "block %d: stored hash does not match recomputed hash", i)
		}
		if b.PreviousHash != c.Blocks[i-1].Hash {
			return false, ledgerror.Blockf(ledgerror.CodeBadLink, "block %d: previous_hash does not link to block %d", i, i-1)
		}
		if !block.MeetsDifficulty(b.Hash, b.Difficulty) {
			return false, ledgerror.Blockf(ledgerror.CodeInsufficientPoW, "block %d: hash does not meet difficulty %d", i, b.Difficulty)
		}
	}
	return true, nil
}
