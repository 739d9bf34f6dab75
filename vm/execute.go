package vm

import (
	"ledgerscript.dev/engine/hash"
	"ledgerscript.dev/engine/ledgerror"
	"ledgerscript.dev/engine/script"
)

// Machine is the stack-based interpreter of Component C. A zero Machine is
// not usable; use New.
type Machine struct {
	main      stack
	alt       stack
	condStack []bool
	opCount   int

	maxStackDepth int
	maxOpCount    int
}

// Option configures a Machine's safety bounds (spec §5).
type Option func(*Machine)

// WithMaxStackDepth overrides chainconfig.Config.MaxStackDepth.
func WithMaxStackDepth(n int) Option { return func(m *Machine) { m.maxStackDepth = n } }

// WithMaxOpCount overrides chainconfig.Config.MaxScriptOps.
func WithMaxOpCount(n int) Option { return func(m *Machine) { m.maxOpCount = n } }

// New builds a Machine with bounds sourced from chainconfig.Default(), or the
// overrides in opts.
func New(opts ...Option) *Machine {
	m := &Machine{maxStackDepth: chainDefaults.MaxStackDepth, maxOpCount: chainDefaults.MaxScriptOps}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs s against ctx and reports whether the script succeeds:
// no error was raised, and the top of the main stack casts to true at the
// end of the program (spec §4.C). opts overrides the safety bounds New
// would otherwise derive from chainconfig.Default() — callers enforcing a
// chain's own chainconfig.Config pass WithMaxStackDepth/WithMaxOpCount built
// from it. Script-level errors are never returned to the caller — they're
// converted to a false result here, per §7's policy; call Machine.run
// directly (package-internal) to observe the underlying ledgerror.Error.
func Execute(s script.Script, ctx *TxContext, opts ...Option) bool {
	m := New(opts...)
	ok, _ := m.run(s, ctx)
	return ok
}

func (m *Machine) run(s script.Script, ctx *TxContext) (bool, error) {
	for _, item := range s {
		m.opCount++
		if m.opCount > m.maxOpCount {
			return false, ledgerror.Scriptf(ledgerror.CodeOpCountExceeded, "script exceeds %d ops", m.maxOpCount)
		}

		if item.IsPush {
			if m.executing() {
				if err := m.pushChecked(item.Data); err != nil {
					return false, err
				}
			}
			continue
		}

		if err := m.dispatch(item.Op, ctx); err != nil {
			return false, err
		}
	}

	if len(m.condStack) != 0 {
		return false, nil // unbalanced IF/ELSE/ENDIF
	}

	top, ok := m.main.pop()
	if !ok {
		return false, nil
	}
	return IsTrue(top), nil
}

func (m *Machine) executing() bool {
	for _, taken := range m.condStack {
		if !taken {
			return false
		}
	}
	return true
}

func (m *Machine) pushChecked(v []byte) error {
	if m.main.len() >= m.maxStackDepth {
		return ledgerror.Scriptf(ledgerror.CodeStackOverflow, "main stack exceeds %d elements", m.maxStackDepth)
	}
	m.main.push(v)
	return nil
}

func (m *Machine) dispatch(op script.Opcode, ctx *TxContext) error {
	// Conditional-execution opcodes run regardless of the current branch
	// state so nesting stays balanced inside a disabled branch.
	switch op {
	case script.OP_IF, script.OP_NOTIF:
		if m.executing() {
			cond, ok := m.main.pop()
			if !ok {
				return underflow()
			}
			taken := IsTrue(cond)
			if op == script.OP_NOTIF {
				taken = !taken
			}
			m.condStack = append(m.condStack, taken)
		} else {
			m.condStack = append(m.condStack, false)
		}
		return nil
	case script.OP_ELSE:
		if len(m.condStack) == 0 {
			return ledgerror.ScriptSemanticf(ledgerror.CodeVerifyFailed, "OP_ELSE without matching OP_IF")
		}
		m.condStack[len(m.condStack)-1] = !m.condStack[len(m.condStack)-1]
		return nil
	case script.OP_ENDIF:
		if len(m.condStack) == 0 {
			return ledgerror.ScriptSemanticf(ledgerror.CodeVerifyFailed, "OP_ENDIF without matching OP_IF")
		}
		m.condStack = m.condStack[:len(m.condStack)-1]
		return nil
	}

	if !m.executing() {
		return nil
	}

	return m.dispatchExecuting(op, ctx)
}

func (m *Machine) dispatchExecuting(op script.Opcode, ctx *TxContext) error {
	switch op {
	case script.OP_0:
		return m.pushChecked(nil)

	case script.OP_1NEGATE:
		return m.pushChecked(EncodeNum(-1))

	case script.OP_1, script.OP_2, script.OP_3, script.OP_4, script.OP_5, script.OP_6, script.OP_7,
		script.OP_8, script.OP_9, script.OP_10, script.OP_11, script.OP_12, script.OP_13, script.OP_14,
		script.OP_15, script.OP_16:
		n, _ := script.DecodeSmallInt(op)
		return m.pushChecked(EncodeNum(int64(n)))

	case script.OP_NOP, script.OP_NOP1, script.OP_NOP4, script.OP_NOP5, script.OP_NOP6,
		script.OP_NOP7, script.OP_NOP8, script.OP_NOP9, script.OP_NOP10:
		return nil

	case script.OP_VERIFY:
		top, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		if !IsTrue(top) {
			return ledgerror.ScriptSemanticf(ledgerror.CodeVerifyFailed, "OP_VERIFY: top of stack is false")
		}
		return nil

	case script.OP_RETURN:
		return ledgerror.ScriptSemanticf(ledgerror.CodeReturnHit, "OP_RETURN")

	case script.OP_DUP:
		top, ok := m.main.peek(0)
		if !ok {
			return underflow()
		}
		return m.pushChecked(append([]byte(nil), top...))

	case script.OP_2DUP:
		a, ok1 := m.main.peek(1)
		b, ok2 := m.main.peek(0)
		if !ok1 || !ok2 {
			return underflow()
		}
		if err := m.pushChecked(append([]byte(nil), a...)); err != nil {
			return err
		}
		return m.pushChecked(append([]byte(nil), b...))

	case script.OP_3DUP:
		a, ok1 := m.main.peek(2)
		b, ok2 := m.main.peek(1)
		c, ok3 := m.main.peek(0)
		if !ok1 || !ok2 || !ok3 {
			return underflow()
		}
		for _, v := range [][]byte{a, b, c} {
			if err := m.pushChecked(append([]byte(nil), v...)); err != nil {
				return err
			}
		}
		return nil

	case script.OP_OVER:
		v, ok := m.main.peek(1)
		if !ok {
			return underflow()
		}
		return m.pushChecked(append([]byte(nil), v...))

	case script.OP_DROP:
		if _, ok := m.main.pop(); !ok {
			return underflow()
		}
		return nil

	case script.OP_2DROP:
		if _, ok := m.main.pop(); !ok {
			return underflow()
		}
		if _, ok := m.main.pop(); !ok {
			return underflow()
		}
		return nil

	case script.OP_SWAP:
		b, ok1 := m.main.pop()
		a, ok2 := m.main.pop()
		if !ok1 || !ok2 {
			return underflow()
		}
		m.main.push(b)
		m.main.push(a)
		return nil

	case script.OP_ROT:
		c, ok1 := m.main.pop()
		b, ok2 := m.main.pop()
		a, ok3 := m.main.pop()
		if !ok1 || !ok2 || !ok3 {
			return underflow()
		}
		m.main.push(b)
		m.main.push(c)
		m.main.push(a)
		return nil

	case script.OP_EQUAL:
		b, ok1 := m.main.pop()
		a, ok2 := m.main.pop()
		if !ok1 || !ok2 {
			return underflow()
		}
		return m.pushChecked(EncodeBool(equalBytes(a, b)))

	case script.OP_EQUALVERIFY:
		b, ok1 := m.main.pop()
		a, ok2 := m.main.pop()
		if !ok1 || !ok2 {
			return underflow()
		}
		if !equalBytes(a, b) {
			return ledgerror.ScriptSemanticf(ledgerror.CodeVerifyFailed, "OP_EQUALVERIFY: values differ")
		}
		return nil

	case script.OP_1ADD:
		a, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		return m.pushChecked(EncodeNum(DecodeNum(a) + 1))

	case script.OP_1SUB:
		a, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		return m.pushChecked(EncodeNum(DecodeNum(a) - 1))

	case script.OP_ADD:
		b, ok1 := m.main.pop()
		a, ok2 := m.main.pop()
		if !ok1 || !ok2 {
			return underflow()
		}
		return m.pushChecked(EncodeNum(DecodeNum(a) + DecodeNum(b)))

	case script.OP_SUB:
		b, ok1 := m.main.pop()
		a, ok2 := m.main.pop()
		if !ok1 || !ok2 {
			return underflow()
		}
		return m.pushChecked(EncodeNum(DecodeNum(a) - DecodeNum(b)))

	case script.OP_SHA256:
		a, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		sum := hash.SHA256(a)
		return m.pushChecked(sum[:])

	case script.OP_HASH160:
		a, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		sum := hash.Hash160(a)
		return m.pushChecked(sum[:])

	case script.OP_HASH256:
		a, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		sum := hash.DoubleSHA256(a)
		return m.pushChecked(sum[:])

	case script.OP_CHECKSIG:
		return m.opCheckSig(ctx)

	case script.OP_CHECKSIGVERIFY:
		if err := m.opCheckSig(ctx); err != nil {
			return err
		}
		top, ok := m.main.pop()
		if !ok {
			return underflow()
		}
		if !IsTrue(top) {
			return ledgerror.ScriptSemanticf(ledgerror.CodeVerifyFailed, "OP_CHECKSIGVERIFY: signature check failed")
		}
		return nil

	case script.OP_CHECKMULTISIG:
		return m.opCheckMultisig(ctx)

	case script.OP_CHECKLOCKTIMEVERIFY:
		return m.opCheckLockTimeVerify(ctx)

	case script.OP_CHECKSEQUENCEVERIFY:
		return m.opCheckSequenceVerify(ctx)

	default:
		return ledgerror.Scriptf(ledgerror.CodeUnknownOpcode, "unknown opcode 0x%02x", byte(op))
	}
}

func underflow() error {
	return ledgerror.Scriptf(ledgerror.CodeStackUnderflow, "stack underflow")
}
