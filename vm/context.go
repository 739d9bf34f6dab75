package vm

import "ledgerscript.dev/engine/chainconfig"

// chainDefaults backs every bound this package uses in the absence of an
// explicit override, so the VM's safety limits and locktime boundary are
// never a second, disconnected copy of chainconfig.Config's values.
var chainDefaults = chainconfig.Default()

// TxContext is the transaction context passed to Execute, per spec §3/§6.
// Build one with NewContext to pick up chainconfig's locktime threshold, or
// set fields explicitly (including CurrentTime) for a context with the
// package default threshold — LocktimeThreshold's zero value is treated as
// "use chainDefaults.LocktimeThreshold" by opCheckLockTimeVerify.
type TxContext struct {
	TxData            []byte
	CurrentTime       uint64
	BlockHeight       uint32
	Sequence          uint32
	Verifier          Verifier
	LocktimeThreshold int64
}

// NewContext builds a TxContext whose LocktimeThreshold is sourced from cfg,
// per spec §3/§4.C.
func NewContext(cfg chainconfig.Config, txData []byte, currentTime uint64, blockHeight uint32, sequence uint32, verifier Verifier) *TxContext {
	return &TxContext{
		TxData:            txData,
		CurrentTime:       currentTime,
		BlockHeight:       blockHeight,
		Sequence:          sequence,
		Verifier:          verifier,
		LocktimeThreshold: cfg.LocktimeThreshold,
	}
}

// Verifier is the signature capability the VM calls for OP_CHECKSIG and
// OP_CHECKMULTISIG. hash.Signer satisfies this interface.
type Verifier interface {
	Verify(pub, msg, sig []byte) bool
}
