package vm

import (
	"bytes"
	"testing"

	"ledgerscript.dev/engine/chainconfig"
	"ledgerscript.dev/engine/hash"
	"ledgerscript.dev/engine/ledgerror"
	"ledgerscript.dev/engine/script"
)

func ctxWith(signer hash.MACSigner) *TxContext {
	return &TxContext{TxData: []byte("msg"), Verifier: signer}
}

func TestNumericRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 127, 128, -128, 255, -255, 32767, -32767} {
		got := DecodeNum(EncodeNum(n))
		if got != n {
			t.Fatalf("n=%d: round trip got %d", n, got)
		}
	}
}

func TestIsTrue(t *testing.T) {
	cases := []struct {
		b    []byte
		want bool
	}{
		{nil, false},
		{[]byte{0x80}, false},
		{[]byte{0x01}, true},
		{[]byte{0x00}, true},
	}
	for _, c := range cases {
		if got := IsTrue(c.b); got != c.want {
			t.Fatalf("IsTrue(%v) = %v, want %v", c.b, got, c.want)
		}
	}
}

func TestExecuteStackOps(t *testing.T) {
	s := script.Script{
		script.PushBytes([]byte{1}),
		script.PushBytes([]byte{1}),
		script.PushOp(script.OP_EQUAL),
	}
	if !Execute(s, &TxContext{}) {
		t.Fatal("expected equal bytes to succeed")
	}
}

func TestExecuteArithmetic(t *testing.T) {
	s := script.Script{
		script.PushOp(script.OP_1),
		script.PushOp(script.OP_1ADD),
		script.PushOp(script.OP_2),
		script.PushOp(script.OP_EQUAL),
	}
	if !Execute(s, &TxContext{}) {
		t.Fatal("1 + 1 should equal 2")
	}
}

func TestExecuteHashing(t *testing.T) {
	data := []byte("hello")
	want := hash.Hash160(data)
	s := script.Script{
		script.PushBytes(data),
		script.PushOp(script.OP_HASH160),
		script.PushBytes(want[:]),
		script.PushOp(script.OP_EQUAL),
	}
	if !Execute(s, &TxContext{}) {
		t.Fatal("HASH160 mismatch")
	}
}

func TestExecuteCheckSig(t *testing.T) {
	var signer hash.MACSigner
	priv := []byte("priv1")
	pub := hash.DerivePublicKey(priv)
	msg := []byte("tx-data")
	sig := signer.Sign(priv, msg)

	s := script.Script{
		script.PushBytes(sig),
		script.PushBytes(pub),
		script.PushOp(script.OP_CHECKSIG),
	}
	ctx := &TxContext{TxData: msg, Verifier: signer}
	if !Execute(s, ctx) {
		t.Fatal("valid signature should verify")
	}

	mutated := append([]byte(nil), sig...)
	mutated[0] ^= 0xff
	s2 := script.Script{
		script.PushBytes(mutated),
		script.PushBytes(pub),
		script.PushOp(script.OP_CHECKSIG),
	}
	if Execute(s2, ctx) {
		t.Fatal("mutated signature must not verify")
	}
}

// multisigScript builds OP_0 <unlockSigs...> OP_M <pubkeys...> OP_N OP_CHECKMULTISIG.
func multisigScript(sigs [][]byte, pubs [][]byte, m, n int) script.Script {
	s := script.Script{script.PushOp(script.OP_0)}
	for _, sig := range sigs {
		s = append(s, script.PushBytes(sig))
	}
	mOp, _ := script.EncodeSmallInt(m)
	s = append(s, script.PushOp(mOp))
	for _, pub := range pubs {
		s = append(s, script.PushBytes(pub))
	}
	nOp, _ := script.EncodeSmallInt(n)
	s = append(s, script.PushOp(nOp))
	s = append(s, script.PushOp(script.OP_CHECKMULTISIG))
	return s
}

func TestExecuteCheckMultisig(t *testing.T) {
	var signer hash.MACSigner
	msg := []byte("tx-data")
	priv1, priv2, priv3 := []byte("priv1"), []byte("priv2"), []byte("priv3")
	pub1 := hash.DerivePublicKey(priv1)
	pub2 := hash.DerivePublicKey(priv2)
	pub3 := hash.DerivePublicKey(priv3)
	sig1 := signer.Sign(priv1, msg)
	sig2 := signer.Sign(priv2, msg)

	pubs := [][]byte{pub1, pub2, pub3}
	ctx := &TxContext{TxData: msg, Verifier: signer}

	// (sig1, sig2) in order: succeeds.
	if !Execute(multisigScript([][]byte{sig1, sig2}, pubs, 2, 3), ctx) {
		t.Fatal("ordered 2-of-3 signatures should succeed")
	}

	// Only one signature: not enough sigs, fails.
	if Execute(multisigScript([][]byte{sig1}, pubs, 2, 3), ctx) {
		t.Fatal("single signature against a 2-of-3 should fail")
	}

	// (sig2, sig1) out of order: fails.
	if Execute(multisigScript([][]byte{sig2, sig1}, pubs, 2, 3), ctx) {
		t.Fatal("out-of-order signatures should fail")
	}
}

func TestExecuteCheckLockTimeVerify(t *testing.T) {
	s := script.Script{
		script.PushBytes(EncodeNum(100)),
		script.PushOp(script.OP_CHECKLOCKTIMEVERIFY),
		script.PushOp(script.OP_DROP),
		script.PushOp(script.OP_1),
	}
	if !Execute(s, &TxContext{BlockHeight: 150}) {
		t.Fatal("CLTV satisfied by a later block height should succeed")
	}
	if Execute(s, &TxContext{BlockHeight: 50}) {
		t.Fatal("CLTV not yet reached should fail")
	}

	wallClock := script.Script{
		script.PushBytes(EncodeNum(chainDefaults.LocktimeThreshold + 10)),
		script.PushOp(script.OP_CHECKLOCKTIMEVERIFY),
		script.PushOp(script.OP_DROP),
		script.PushOp(script.OP_1),
	}
	if !Execute(wallClock, &TxContext{CurrentTime: uint64(chainDefaults.LocktimeThreshold + 20)}) {
		t.Fatal("CLTV wall-clock lock satisfied should succeed")
	}
	if Execute(wallClock, &TxContext{CurrentTime: uint64(chainDefaults.LocktimeThreshold + 5)}) {
		t.Fatal("CLTV wall-clock lock not yet satisfied should fail")
	}

	// A TxContext built via NewContext carries cfg's locktime threshold
	// instead of the package default, so a lowered threshold in cfg moves
	// which branch (block-height vs. wall-clock) a given lock value takes.
	cfg := chainconfig.Default()
	cfg.LocktimeThreshold = 1000
	lowThreshold := script.Script{
		script.PushBytes(EncodeNum(1000)),
		script.PushOp(script.OP_CHECKLOCKTIMEVERIFY),
		script.PushOp(script.OP_DROP),
		script.PushOp(script.OP_1),
	}
	ctx := NewContext(cfg, nil, 1000, 0, 0, nil)
	if !Execute(lowThreshold, ctx) {
		t.Fatal("CLTV with a cfg-lowered threshold should treat 1000 as a wall-clock lock and succeed")
	}
}

func TestExecuteCheckSequenceVerify(t *testing.T) {
	s := script.Script{
		script.PushBytes(EncodeNum(10)),
		script.PushOp(script.OP_CHECKSEQUENCEVERIFY),
		script.PushOp(script.OP_DROP),
		script.PushOp(script.OP_1),
	}
	if !Execute(s, &TxContext{Sequence: 20}) {
		t.Fatal("CSV satisfied sequence should succeed")
	}
	if Execute(s, &TxContext{Sequence: 5}) {
		t.Fatal("CSV insufficient sequence should fail")
	}
}

func TestExecuteConditional(t *testing.T) {
	trueBranch := script.Script{
		script.PushOp(script.OP_1),
		script.PushOp(script.OP_IF),
		script.PushOp(script.OP_1),
		script.PushOp(script.OP_ELSE),
		script.PushOp(script.OP_0),
		script.PushOp(script.OP_ENDIF),
	}
	if !Execute(trueBranch, &TxContext{}) {
		t.Fatal("true branch of OP_IF should leave true on the stack")
	}

	falseBranch := script.Script{
		script.PushOp(script.OP_0),
		script.PushOp(script.OP_IF),
		script.PushOp(script.OP_1),
		script.PushOp(script.OP_ELSE),
		script.PushOp(script.OP_1),
		script.PushOp(script.OP_ENDIF),
	}
	if !Execute(falseBranch, &TxContext{}) {
		t.Fatal("else branch of OP_IF should leave true on the stack")
	}
}

func TestExecuteUnbalancedConditional(t *testing.T) {
	s := script.Script{
		script.PushOp(script.OP_1),
		script.PushOp(script.OP_IF),
		script.PushOp(script.OP_1),
	}
	if Execute(s, &TxContext{}) {
		t.Fatal("unterminated OP_IF must fail")
	}
}

func TestExecuteOpReturn(t *testing.T) {
	s := script.Script{script.PushOp(script.OP_RETURN)}
	if Execute(s, &TxContext{}) {
		t.Fatal("OP_RETURN must fail the script")
	}
}

func TestExecuteStackUnderflow(t *testing.T) {
	s := script.Script{script.PushOp(script.OP_DUP)}
	if Execute(s, &TxContext{}) {
		t.Fatal("OP_DUP on an empty stack must fail")
	}
}

func TestExecuteMaxOpCount(t *testing.T) {
	s := make(script.Script, 0, 300)
	for i := 0; i < 300; i++ {
		s = append(s, script.PushOp(script.OP_NOP))
	}
	if Execute(s, &TxContext{}) {
		t.Fatal("exceeding the op count bound must fail")
	}
}

func TestExecuteMaxOpCountFromChainconfig(t *testing.T) {
	cfg := chainconfig.Default()
	cfg.MaxScriptOps = 3

	s := script.Script{
		script.PushOp(script.OP_NOP),
		script.PushOp(script.OP_NOP),
		script.PushOp(script.OP_1),
	}
	if !Execute(s, &TxContext{}, WithMaxOpCount(cfg.MaxScriptOps)) {
		t.Fatal("a 3-op script should fit exactly within the override")
	}

	tooLong := append(append(script.Script{}, s...), script.PushOp(script.OP_NOP))
	if Execute(tooLong, &TxContext{}, WithMaxOpCount(cfg.MaxScriptOps)) {
		t.Fatal("a chainconfig-derived op count override should reject a 4-op script")
	}
}

func TestRunOpCountExceededReportsCode(t *testing.T) {
	m := New(WithMaxOpCount(2))
	s := script.Script{
		script.PushOp(script.OP_NOP),
		script.PushOp(script.OP_NOP),
		script.PushOp(script.OP_NOP),
	}
	ok, err := m.run(s, &TxContext{})
	if ok || err == nil {
		t.Fatal("exceeding maxOpCount should fail with a non-nil error")
	}
	ledErr, isLedgerErr := err.(*ledgerror.Error)
	if !isLedgerErr || ledErr.Code != ledgerror.CodeOpCountExceeded {
		t.Fatalf("expected a CodeOpCountExceeded ledgerror.Error, got %v", err)
	}
}

func TestSwapDropOverRot2Drop(t *testing.T) {
	s := script.Script{
		script.PushBytes([]byte{1}),
		script.PushBytes([]byte{2}),
		script.PushOp(script.OP_SWAP), // [2, 1]
		script.PushOp(script.OP_DROP), // [2]
		script.PushBytes([]byte{3}),
		script.PushOp(script.OP_OVER), // [2, 3, 2]
		script.PushOp(script.OP_DROP), // [2, 3]
		script.PushBytes([]byte{1}),
		script.PushOp(script.OP_ROT),   // [3, 1, 2]... rotates bottom 3
		script.PushOp(script.OP_2DROP), // drop top two
		script.PushOp(script.OP_DROP),
		script.PushOp(script.OP_1),
	}
	if !Execute(s, &TxContext{}) {
		t.Fatal("stack manipulation sequence should leave a truthy value")
	}
}

func TestScriptSerializeDeserializeIntegration(t *testing.T) {
	data := []byte("payload")
	s := script.Script{script.PushBytes(data), script.PushOp(script.OP_DROP), script.PushOp(script.OP_1)}
	wire := script.Serialize(s)
	back, err := script.Deserialize(wire)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if !bytes.Equal(script.Serialize(back), wire) {
		t.Fatal("re-serialized script does not match original wire bytes")
	}
	if !Execute(back, &TxContext{}) {
		t.Fatal("round-tripped script should execute identically")
	}
}
