package chain

import (
	"testing"

	"ledgerscript.dev/engine/chainconfig"
	"ledgerscript.dev/engine/hash"
	"ledgerscript.dev/engine/ledgerror"
	"ledgerscript.dev/engine/tx"
)

func TestChainMonetaryConservation(t *testing.T) {
	var signer hash.MACSigner
	cfg := chainconfig.Default()
	cfg.Difficulty = 0
	c := New(cfg, signer, "G", 100*100_000_000, 1000)

	if got := c.UTXO.BalanceOf("G"); got != 100*100_000_000 {
		t.Fatalf("genesis balance for G = %d, want %d", got, 100*100_000_000)
	}

	if _, err := c.MinePending("A"); err != nil {
		t.Fatalf("MinePending(A): %v", err)
	}
	if got := c.UTXO.BalanceOf("A"); got != 50*100_000_000 {
		t.Fatalf("A balance after first reward = %d, want %d", got, 50*100_000_000)
	}

	aPoints := c.UTXO.UTXOsOf("A")
	if len(aPoints) != 1 {
		t.Fatalf("A should own exactly one utxo, got %d", len(aPoints))
	}
	spend := tx.Transaction{
		Timestamp: 2000,
		Inputs: []tx.TxInput{{
			PrevTxHash:      aPoints[0].TxHash,
			PrevOutputIndex: aPoints[0].Index,
		}},
		Outputs: []tx.TxOutput{
			{AmountSatoshis: 10 * 100_000_000, RecipientAddress: "B"},
			{AmountSatoshis: 40 * 100_000_000, RecipientAddress: "A"},
		},
	}
	wallet := tx.Wallet{Address: "A", PrivateKey: []byte("a-priv")}
	tx.SignInputs(&spend, wallet, c.UTXO, signer)

	if err := c.AddTransaction(spend); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if _, err := c.MinePending("C"); err != nil {
		t.Fatalf("MinePending(C): %v", err)
	}

	if got := c.UTXO.BalanceOf("A"); got != 40*100_000_000 {
		t.Fatalf("final A balance = %d, want %d", got, 40*100_000_000)
	}
	if got := c.UTXO.BalanceOf("B"); got != 10*100_000_000 {
		t.Fatalf("final B balance = %d, want %d", got, 10*100_000_000)
	}
	if got := c.UTXO.BalanceOf("C"); got != 50*100_000_000 {
		t.Fatalf("final C balance = %d, want %d", got, 50*100_000_000)
	}

	total := c.UTXO.BalanceOf("A") + c.UTXO.BalanceOf("B") + c.UTXO.BalanceOf("C") + c.UTXO.BalanceOf("G")
	if total != 200*100_000_000 {
		t.Fatalf("total supply = %d, want %d", total, 200*100_000_000)
	}

	valid, err := c.IsChainValid()
	if !valid || err != nil {
		t.Fatalf("IsChainValid() = %v, %v; want true, nil", valid, err)
	}
}

func TestChainValidityTamperDetection(t *testing.T) {
	var signer hash.MACSigner
	cfg := chainconfig.Default()
	cfg.Difficulty = 1
	c := New(cfg, signer, "G", 100*100_000_000, 1)

	for _, addr := range []string{"A", "B", "C"} {
		if _, err := c.MinePending(addr); err != nil {
			t.Fatalf("MinePending(%s): %v", addr, err)
		}
	}

	valid, err := c.IsChainValid()
	if !valid || err != nil {
		t.Fatalf("chain should be valid before tampering: %v, %v", valid, err)
	}

	c.Blocks[1].Nonce ^= 1

	valid, err = c.IsChainValid()
	if valid || err == nil {
		t.Fatal("tampering with block 1's nonce must invalidate the chain")
	}
	ledErr, ok := err.(interface{ Error() string })
	if !ok || ledErr.Error() == "" {
		t.Fatal("expected a diagnostic error")
	}
}

func TestAddTransactionRejectsDuplicateSpend(t *testing.T) {
	var signer hash.MACSigner
	cfg := chainconfig.Default()
	cfg.Difficulty = 0
	c := New(cfg, signer, "G", 100*100_000_000, 1000)

	if _, err := c.MinePending("A"); err != nil {
		t.Fatalf("MinePending(A): %v", err)
	}
	aPoints := c.UTXO.UTXOsOf("A")
	if len(aPoints) != 1 {
		t.Fatalf("A should own exactly one utxo, got %d", len(aPoints))
	}
	wallet := tx.Wallet{Address: "A", PrivateKey: []byte("a-priv")}

	first := tx.Transaction{
		Timestamp: 2000,
		Inputs:    []tx.TxInput{{PrevTxHash: aPoints[0].TxHash, PrevOutputIndex: aPoints[0].Index}},
		Outputs:   []tx.TxOutput{{AmountSatoshis: 10 * 100_000_000, RecipientAddress: "B"}},
	}
	tx.SignInputs(&first, wallet, c.UTXO, signer)
	if err := c.AddTransaction(first); err != nil {
		t.Fatalf("AddTransaction(first): %v", err)
	}

	second := tx.Transaction{
		Timestamp: 2001,
		Inputs:    []tx.TxInput{{PrevTxHash: aPoints[0].TxHash, PrevOutputIndex: aPoints[0].Index}},
		Outputs:   []tx.TxOutput{{AmountSatoshis: 5 * 100_000_000, RecipientAddress: "C"}},
	}
	tx.SignInputs(&second, wallet, c.UTXO, signer)
	err := c.AddTransaction(second)
	if err == nil {
		t.Fatal("expected an error spending a utxo already referenced by a pending transaction")
	}
	ledErr, ok := err.(*ledgerror.Error)
	if !ok || ledErr.Code != ledgerror.CodeDuplicateSpend {
		t.Fatalf("expected a CodeDuplicateSpend ledgerror.Error, got %v", err)
	}
}

func TestIsChainValidDetectsIndexTampering(t *testing.T) {
	var signer hash.MACSigner
	cfg := chainconfig.Default()
	cfg.Difficulty = 1
	c := New(cfg, signer, "G", 100*100_000_000, 1)

	for _, addr := range []string{"A", "B"} {
		if _, err := c.MinePending(addr); err != nil {
			t.Fatalf("MinePending(%s): %v", addr, err)
		}
	}

	c.Blocks[1].Index = 7

	valid, err := c.IsChainValid()
	if valid || err == nil {
		t.Fatal("a block whose stored index does not match its position must invalidate the chain")
	}
	ledErr, ok := err.(*ledgerror.Error)
	if !ok || ledErr.Code != ledgerror.CodeStructuralBlock {
		t.Fatalf("expected a CodeStructuralBlock ledgerror.Error, got %v", err)
	}
}

func TestAddTransactionRejectsMissingUTXO(t *testing.T) {
	var signer hash.MACSigner
	cfg := chainconfig.Default()
	c := New(cfg, signer, "G", 1, 1)

	bad := tx.Transaction{
		Inputs:  []tx.TxInput{{PrevTxHash: "nonexistent", PrevOutputIndex: 0}},
		Outputs: []tx.TxOutput{{AmountSatoshis: 1, RecipientAddress: "X"}},
	}
	if err := c.AddTransaction(bad); err == nil {
		t.Fatal("expected an error for a transaction spending a nonexistent utxo")
	}
}
