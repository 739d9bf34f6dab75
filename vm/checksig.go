package vm

import "ledgerscript.dev/engine/ledgerror"

func (m *Machine) opCheckSig(ctx *TxContext) error {
	pub, ok1 := m.main.pop()
	sig, ok2 := m.main.pop()
	if !ok1 || !ok2 {
		return underflow()
	}
	ok := ctx.Verifier != nil && ctx.Verifier.Verify(pub, ctx.TxData, sig)
	return m.pushChecked(EncodeBool(ok))
}

// opCheckMultisig implements OP_CHECKMULTISIG exactly as spec §4.C requires,
// including the well-known "extra pop" bug: one additional stack element is
// popped and discarded after the signature count, for compatibility with
// how real Bitcoin Script got the opcode's stack accounting wrong and then
// had to keep it that way forever.
func (m *Machine) opCheckMultisig(ctx *TxContext) error {
	nRaw, ok := m.main.pop()
	if !ok {
		return underflow()
	}
	n := int(DecodeNum(nRaw))
	if n < 0 {
		return ledgerror.Scriptf(ledgerror.CodeStackUnderflow, "OP_CHECKMULTISIG: negative key count")
	}
	pubkeys := make([][]byte, n)
	for i := n - 1; i >= 0; i-- {
		pk, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		pubkeys[i] = pk
	}

	mRaw, ok := m.main.pop()
	if !ok {
		return underflow()
	}
	numSigs := int(DecodeNum(mRaw))
	if numSigs < 0 {
		return ledgerror.Scriptf(ledgerror.CodeStackUnderflow, "OP_CHECKMULTISIG: negative sig count")
	}
	sigs := make([][]byte, numSigs)
	for i := numSigs - 1; i >= 0; i-- {
		sig, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		sigs[i] = sig
	}
	if numSigs > len(pubkeys) {
		return ledgerror.ScriptSemanticf(ledgerror.CodeMultisigMismatch,
			"OP_CHECKMULTISIG: %d sigs requested against %d keys", numSigs, len(pubkeys))
	}

	// Bug-compatible extra pop.
	if _, ok := m.main.pop(); !ok {
		return underflow()
	}

	if ctx.Verifier == nil {
		return m.pushChecked(EncodeBool(false))
	}

	// Both pubkeys and sigs are stored here in their original push order
	// (index 0 = bottom of stack = first listed). The real opcode walks
	// both groups from the top of the stack down, so we mirror that by
	// walking keyIdx and sigPos down from their high ends; sigPos only
	// advances on a match, keyIdx advances every step. A signature can
	// therefore "skip" unmatched keys but never be matched out of the
	// order its pubkeys appear in.
	sigPos := len(sigs) - 1
	matched := 0
	for keyIdx := len(pubkeys) - 1; keyIdx >= 0 && sigPos >= 0; keyIdx-- {
		if ctx.Verifier.Verify(pubkeys[keyIdx], ctx.TxData, sigs[sigPos]) {
			sigPos--
			matched++
		}
	}

	return m.pushChecked(EncodeBool(matched == len(sigs)))
}

func (m *Machine) opCheckLockTimeVerify(ctx *TxContext) error {
	top, ok := m.main.peek(0)
	if !ok {
		return underflow()
	}
	locktime := DecodeNum(top)
	if locktime < 0 {
		return ledgerror.ScriptTimelockf(ledgerror.CodeLocktimeNotMet, "OP_CHECKLOCKTIMEVERIFY: negative locktime")
	}

	threshold := ctx.LocktimeThreshold
	if threshold == 0 {
		threshold = chainDefaults.LocktimeThreshold
	}
	var current int64
	if locktime >= threshold {
		current = int64(ctx.CurrentTime)
	} else {
		current = int64(ctx.BlockHeight)
	}
	if current < locktime {
		return ledgerror.ScriptTimelockf(ledgerror.CodeLocktimeNotMet, "CLTV: lock %d not yet satisfied by %d", locktime, current)
	}
	return nil
}

func (m *Machine) opCheckSequenceVerify(ctx *TxContext) error {
	top, ok := m.main.peek(0)
	if !ok {
		return underflow()
	}
	relLock := DecodeNum(top)
	if relLock < 0 {
		return ledgerror.ScriptTimelockf(ledgerror.CodeSequenceBad, "OP_CHECKSEQUENCEVERIFY: negative relative lock")
	}
	if relLock > int64(ctx.Sequence) {
		return ledgerror.ScriptTimelockf(ledgerror.CodeSequenceBad, "CSV: relative lock %d exceeds sequence %d", relLock, ctx.Sequence)
	}
	return nil
}
