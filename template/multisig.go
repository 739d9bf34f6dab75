package template

import (
	"fmt"

	"ledgerscript.dev/engine/script"
)

// LockMultisig builds `OP_M <pub1>...<pubN> OP_N OP_CHECKMULTISIG`. M and N
// are encoded via OP_1..OP_16 per spec §4.D, so 1 <= m <= n <= 16.
func LockMultisig(m int, pubKeys [][]byte) (script.Script, error) {
	n := len(pubKeys)
	mOp, ok := script.EncodeSmallInt(m)
	if !ok {
		return nil, fmt.Errorf("multisig: m=%d out of range 1..16", m)
	}
	nOp, ok := script.EncodeSmallInt(n)
	if !ok {
		return nil, fmt.Errorf("multisig: n=%d out of range 1..16", n)
	}
	if m > n {
		return nil, fmt.Errorf("multisig: m=%d exceeds n=%d", m, n)
	}

	s := script.Script{script.PushOp(mOp)}
	for _, pub := range pubKeys {
		s = append(s, script.PushBytes(pub))
	}
	s = append(s, script.PushOp(nOp), script.PushOp(script.OP_CHECKMULTISIG))
	return s, nil
}

// UnlockMultisig builds `OP_0 <sig1>...<sigK>`. The leading OP_0 is bug
// compatibility for OP_CHECKMULTISIG's extra pop (spec §4.D); sigs must be
// supplied in ascending key order for the lock to be satisfied (spec §8
// invariant 8).
func UnlockMultisig(sigs [][]byte) script.Script {
	s := script.Script{script.PushOp(script.OP_0)}
	for _, sig := range sigs {
		s = append(s, script.PushBytes(sig))
	}
	return s
}
