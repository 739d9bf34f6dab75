// Package tx implements Component E: transactions, their canonical hashing
// serialization, and the UTXO set they spend from and create.
package tx

import (
	"encoding/binary"
	"strings"

	"ledgerscript.dev/engine/hash"
)

// ZeroHash is the 64 zero-nibble placeholder used by a coinbase input's
// PrevTxHash (spec §3).
var ZeroHash = strings.Repeat("0", 64)

// CoinbasePrevVout is the distinguished prev_output_index of a coinbase
// input (0xFFFFFFFF).
const CoinbasePrevVout uint32 = 0xFFFFFFFF

// TxInput is one spend reference, per spec §3.
type TxInput struct {
	PrevTxHash     string
	PrevOutputIndex uint32
	Signature      []byte
	PublicKey      []byte
	Sequence       uint32
}

// IsCoinbase reports whether in is the distinguished coinbase input shape.
func (in TxInput) IsCoinbase() bool {
	return in.PrevTxHash == ZeroHash && in.PrevOutputIndex == CoinbasePrevVout
}

// TxOutput is one spendable amount assigned to an address, per spec §3.
type TxOutput struct {
	AmountSatoshis   uint64
	RecipientAddress string
}

// Transaction is the unit applied to a UTXOSet and included in blocks.
type Transaction struct {
	Inputs    []TxInput
	Outputs   []TxOutput
	Timestamp uint32
	TxHash    string
}

// NewCoinbase builds the single-input, reward-paying transaction prepended
// to every mined block (spec §4.G step 1).
func NewCoinbase(minerAddress string, reward uint64, timestamp uint32) Transaction {
	t := Transaction{
		Inputs: []TxInput{{
			PrevTxHash:      ZeroHash,
			PrevOutputIndex: CoinbasePrevVout,
		}},
		Outputs:   []TxOutput{{AmountSatoshis: reward, RecipientAddress: minerAddress}},
		Timestamp: timestamp,
	}
	t.TxHash = HashHex(t)
	return t
}

// SerializeForHashing implements the canonical layout of spec §4.E:
//
//	timestamp:u32 | input_count:u32 | ∀in: prev_tx_hash_ascii | prev_output_index:u32
//	| output_count:u32 | ∀out: amount:u64 | recipient_ascii
//
// Fields are length-prefixed where they are variable-length ascii, so the
// encoding is unambiguous without being a registered wire format — only
// round-trip stability and determinism are required (spec §4.E).
func SerializeForHashing(t Transaction) []byte {
	var buf []byte
	buf = appendU32(buf, t.Timestamp)
	buf = appendU32(buf, uint32(len(t.Inputs)))
	for _, in := range t.Inputs {
		buf = appendString(buf, in.PrevTxHash)
		buf = appendU32(buf, in.PrevOutputIndex)
	}
	buf = appendU32(buf, uint32(len(t.Outputs)))
	for _, out := range t.Outputs {
		buf = appendU64(buf, out.AmountSatoshis)
		buf = appendString(buf, out.RecipientAddress)
	}
	return buf
}

// HashHex returns the transaction's tx_hash: double_sha256(serialize_for_hashing()),
// as a lowercase hex string.
func HashHex(t Transaction) string {
	sum := hash.DoubleSHA256(SerializeForHashing(t))
	return hexEncode(sum[:])
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendU32(buf, uint32(len(s)))
	return append(buf, s...)
}

const hexDigits = "0123456789abcdef"

func hexEncode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0x0f])
	}
	return sb.String()
}
