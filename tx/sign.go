package tx

import "ledgerscript.dev/engine/hash"

// Wallet is the minimal key-holding identity needed to sign inputs: an
// address used to recognize owned UTXOs, and the private key material
// handed to the pluggable Signer.
type Wallet struct {
	Address    string
	PrivateKey []byte
}

// SignInputs implements spec §4.E's sign_inputs(wallet): the message signed
// is the transaction's own canonical serialization, computed once before
// any input is touched. For every input whose referenced UTXO belongs to
// wallet, set its signature and public key, then recompute TxHash.
func SignInputs(t *Transaction, wallet Wallet, utxos *UTXOSet, signer hash.Signer) {
	msg := SerializeForHashing(*t)
	for i := range t.Inputs {
		in := &t.Inputs[i]
		if in.IsCoinbase() {
			continue
		}
		out, ok := utxos.Get(Outpoint{TxHash: in.PrevTxHash, Index: in.PrevOutputIndex})
		if !ok || out.RecipientAddress != wallet.Address {
			continue
		}
		in.PublicKey = hash.DerivePublicKey(wallet.PrivateKey)
		in.Signature = signer.Sign(wallet.PrivateKey, msg)
	}
	t.TxHash = HashHex(*t)
}

// VerifySignatures implements spec §4.E's verify_signatures(utxo_set): every
// non-coinbase input must carry a non-empty signature and public key, its
// referenced UTXO must exist, and the verifier must accept the signature
// over the transaction's canonical serialization.
func VerifySignatures(t Transaction, utxos *UTXOSet, verifier hash.Signer) bool {
	msg := SerializeForHashing(t)
	for _, in := range t.Inputs {
		if in.IsCoinbase() {
			continue
		}
		if len(in.Signature) == 0 || len(in.PublicKey) == 0 {
			return false
		}
		if _, ok := utxos.Get(Outpoint{TxHash: in.PrevTxHash, Index: in.PrevOutputIndex}); !ok {
			return false
		}
		if !verifier.Verify(in.PublicKey, msg, in.Signature) {
			return false
		}
	}
	return true
}
