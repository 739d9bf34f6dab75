// Package template builds canonical locking and unlocking scripts for the
// standard spending conditions of Component D. Every function here is a pure
// constructor — none of them touch the VM or a key store.
package template

import (
	"ledgerscript.dev/engine/script"
	"ledgerscript.dev/engine/vm"
)

// LockP2PKH builds `OP_DUP OP_HASH160 <pubKeyHash> OP_EQUALVERIFY OP_CHECKSIG`.
func LockP2PKH(pubKeyHash []byte) script.Script {
	return script.Script{
		script.PushOp(script.OP_DUP),
		script.PushOp(script.OP_HASH160),
		script.PushBytes(pubKeyHash),
		script.PushOp(script.OP_EQUALVERIFY),
		script.PushOp(script.OP_CHECKSIG),
	}
}

// UnlockP2PKH builds `<sig> <pubKey>`.
func UnlockP2PKH(sig, pubKey []byte) script.Script {
	return script.Script{script.PushBytes(sig), script.PushBytes(pubKey)}
}

// LockP2SH builds `OP_HASH160 <scriptHash> OP_EQUAL`. Redemption of the
// hashed script itself is out of scope (spec §1 excludes full P2SH
// redeem-script evaluation); this template only covers the lock shape.
func LockP2SH(scriptHash []byte) script.Script {
	return script.Script{
		script.PushOp(script.OP_HASH160),
		script.PushBytes(scriptHash),
		script.PushOp(script.OP_EQUAL),
	}
}

// LockP2WPKH builds `OP_0 <pubKeyHash>`, the witness-program form of P2PKH.
func LockP2WPKH(pubKeyHash []byte) script.Script {
	return script.Script{script.PushOp(script.OP_0), script.PushBytes(pubKeyHash)}
}

// LockP2WSH builds `OP_0 <scriptHash32>`, the witness-program form of P2SH
// using a 32-byte SHA-256 script hash instead of HASH160.
func LockP2WSH(scriptHash32 []byte) script.Script {
	return script.Script{script.PushOp(script.OP_0), script.PushBytes(scriptHash32)}
}

// LockCLTV wraps a P2PKH lock with an absolute timelock: the spender cannot
// satisfy the script until lockTime is reached (spec §4.D/§3).
func LockCLTV(lockTime int64, pubKeyHash []byte) script.Script {
	s := script.Script{
		script.PushBytes(vm.EncodeNum(lockTime)),
		script.PushOp(script.OP_CHECKLOCKTIMEVERIFY),
		script.PushOp(script.OP_DROP),
	}
	return append(s, LockP2PKH(pubKeyHash)...)
}

// LockCSV wraps a P2PKH lock with a relative timelock compared against the
// spending input's sequence field.
func LockCSV(relLock int64, pubKeyHash []byte) script.Script {
	s := script.Script{
		script.PushBytes(vm.EncodeNum(relLock)),
		script.PushOp(script.OP_CHECKSEQUENCEVERIFY),
		script.PushOp(script.OP_DROP),
	}
	return append(s, LockP2PKH(pubKeyHash)...)
}
