// Package block implements Component F: block header/body serialization,
// hash linkage, and the leading-zero-hex proof-of-work mining loop.
package block

import (
	"encoding/binary"
	"strings"
	"time"

	"ledgerscript.dev/engine/hash"
	"ledgerscript.dev/engine/ledgerror"
	"ledgerscript.dev/engine/tx"
)

// Block is one entry in the chain, per spec §3.
type Block struct {
	Index        uint32
	Timestamp    uint64
	Transactions []tx.Transaction
	PreviousHash string
	Nonce        uint32
	Difficulty   uint32
	Hash         string
}

// Serialize implements the header/body layout of spec §6:
//
//	index (u32 LE) ∥ timestamp (u64 LE) ∥ previous_hash (ascii hex 64 bytes)
//	∥ nonce (u32 LE) ∥ difficulty (u32 LE) ∥ concatenated transaction hashes (ascii hex, 64 bytes each)
func Serialize(b Block) []byte {
	var buf []byte
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], b.Index)
	buf = append(buf, idx[:]...)

	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], b.Timestamp)
	buf = append(buf, ts[:]...)

	buf = append(buf, []byte(b.PreviousHash)...)

	var nonce [4]byte
	binary.LittleEndian.PutUint32(nonce[:], b.Nonce)
	buf = append(buf, nonce[:]...)

	var diff [4]byte
	binary.LittleEndian.PutUint32(diff[:], b.Difficulty)
	buf = append(buf, diff[:]...)

	for _, t := range b.Transactions {
		buf = append(buf, []byte(t.TxHash)...)
	}
	return buf
}

// HashHex returns double_sha256(serialize(b)) as lowercase hex.
func HashHex(b Block) string {
	sum := hash.DoubleSHA256(Serialize(b))
	return hexEncode(sum[:])
}

// MeetsDifficulty reports whether hexHash starts with `difficulty` hex
// zero characters, measured in printable hex form (spec §3, §9).
func MeetsDifficulty(hexHash string, difficulty uint32) bool {
	if uint32(len(hexHash)) < difficulty {
		return false
	}
	return strings.Count(hexHash[:difficulty], "0") == int(difficulty)
}

// DefaultMaxMineAttempts bounds the PoW search loop so it is always
// interruptible (spec §5): a safety cap, not a protocol parameter.
const DefaultMaxMineAttempts = 50_000_000

// Mine searches nonces starting at 0 until b's hash meets b.Difficulty or
// maxAttempts is exhausted, per spec §4.F. On success it sets b.Nonce and
// b.Hash and returns the winning nonce and elapsed wall time.
func Mine(b *Block, maxAttempts int) (nonce uint32, elapsed time.Duration, err error) {
	start := time.Now()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		b.Nonce = uint32(attempt)
		h := HashHex(*b)
		if MeetsDifficulty(h, b.Difficulty) {
			b.Hash = h
			return b.Nonce, time.Since(start), nil
		}
	}
	return 0, time.Since(start), ledgerror.Blockf(ledgerror.CodeInsufficientPoW,
		"no nonce under %d attempts met difficulty %d", maxAttempts, b.Difficulty)
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
