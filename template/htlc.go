package template

import (
	"ledgerscript.dev/engine/script"
	"ledgerscript.dev/engine/vm"
)

// LockHTLC builds a hash-and-time-locked contract: the receiver can spend by
// revealing a preimage of hashLock (this branch has no time check), the
// sender can reclaim once lockTime is reached. Resolved per the open question of spec §9: rather than
// drop the template, the VM gained a conditional-execution stack
// (OP_IF/OP_ELSE/OP_ENDIF) so this shape actually dispatches.
//
//	OP_IF
//	  OP_HASH256 <hashLock> OP_EQUALVERIFY
//	  OP_DUP OP_HASH160 <receiverPubKeyHash> OP_EQUALVERIFY OP_CHECKSIG
//	OP_ELSE
//	  <lockTime> OP_CHECKLOCKTIMEVERIFY OP_DROP
//	  OP_DUP OP_HASH160 <senderPubKeyHash> OP_EQUALVERIFY OP_CHECKSIG
//	OP_ENDIF
func LockHTLC(hashLock []byte, receiverPubKeyHash []byte, senderPubKeyHash []byte, lockTime int64) script.Script {
	s := script.Script{script.PushOp(script.OP_IF)}
	s = append(s,
		script.PushOp(script.OP_HASH256),
		script.PushBytes(hashLock),
		script.PushOp(script.OP_EQUALVERIFY),
	)
	s = append(s, LockP2PKH(receiverPubKeyHash)...)
	s = append(s, script.PushOp(script.OP_ELSE))
	s = append(s,
		script.PushBytes(vm.EncodeNum(lockTime)),
		script.PushOp(script.OP_CHECKLOCKTIMEVERIFY),
		script.PushOp(script.OP_DROP),
	)
	s = append(s, LockP2PKH(senderPubKeyHash)...)
	s = append(s, script.PushOp(script.OP_ENDIF))
	return s
}

// UnlockHTLCPreimage builds `<sig> <pubKey> <preimage> OP_1`, taking the
// hash-preimage spend path.
func UnlockHTLCPreimage(sig, pubKey, preimage []byte) script.Script {
	return script.Script{
		script.PushBytes(sig),
		script.PushBytes(pubKey),
		script.PushBytes(preimage),
		script.PushOp(script.OP_1),
	}
}

// UnlockHTLCTimeout builds `<sig> <pubKey> OP_0`, taking the timeout
// reclaim path.
func UnlockHTLCTimeout(sig, pubKey []byte) script.Script {
	return script.Script{
		script.PushBytes(sig),
		script.PushBytes(pubKey),
		script.PushOp(script.OP_0),
	}
}
