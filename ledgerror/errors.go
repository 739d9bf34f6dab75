// Package ledgerror defines the one error taxonomy shared by every
// subsystem (script VM, transaction/UTXO model, chain validator).
package ledgerror

import "fmt"

// Kind groups error codes into the families named in the design notes.
type Kind string

const (
	KindScriptStructural Kind = "SCRIPT_STRUCTURAL"
	KindScriptSemantic   Kind = "SCRIPT_SEMANTIC"
	KindScriptTimelock   Kind = "SCRIPT_TIMELOCK"
	KindTxMonetary       Kind = "TX_MONETARY"
	KindTxSignature      Kind = "TX_SIGNATURE"
	KindBlockInvalid     Kind = "BLOCK_INVALID"
)

// Code is a short, stable diagnostic tag within a Kind.
type Code string

const (
	CodeTruncatedPush   Code = "TRUNCATED_PUSH"
	CodeUnknownOpcode   Code = "UNKNOWN_OPCODE"
	CodeStackUnderflow  Code = "STACK_UNDERFLOW"
	CodeStackOverflow   Code = "STACK_OVERFLOW"
	CodeOpCountExceeded Code = "OP_COUNT_EXCEEDED"

	CodeVerifyFailed    Code = "VERIFY_FAILED"
	CodeReturnHit       Code = "RETURN_HIT"
	CodeMultisigMismatch Code = "MULTISIG_MISMATCH"

	CodeLocktimeNotMet Code = "LOCKTIME_NOT_MET"
	CodeSequenceBad    Code = "SEQUENCE_BAD"

	CodeOutputsExceedInputs Code = "OUTPUTS_EXCEED_INPUTS"
	CodeMissingUTXO         Code = "MISSING_UTXO"
	CodeDuplicateSpend      Code = "DUPLICATE_SPEND"

	CodeSignatureRejected Code = "SIGNATURE_REJECTED"

	CodeHashMismatch     Code = "HASH_MISMATCH"
	CodeBadLink          Code = "BAD_LINK"
	CodeInsufficientPoW  Code = "INSUFFICIENT_POW"
	CodeStructuralBlock  Code = "STRUCTURAL_BLOCK"
)

// Error is the concrete error type surfaced by every subsystem. Script
// errors are caught at vm.Execute and turned into a false return; everything
// else propagates to the caller wrapping this type.
type Error struct {
	Kind Kind
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s/%s", e.Kind, e.Code)
	}
	return fmt.Sprintf("%s/%s: %s", e.Kind, e.Code, e.Msg)
}

func New(kind Kind, code Code, msg string) error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

func Scriptf(code Code, format string, args ...any) error {
	return New(KindScriptStructural, code, fmt.Sprintf(format, args...))
}

func ScriptSemanticf(code Code, format string, args ...any) error {
	return New(KindScriptSemantic, code, fmt.Sprintf(format, args...))
}

func ScriptTimelockf(code Code, format string, args ...any) error {
	return New(KindScriptTimelock, code, fmt.Sprintf(format, args...))
}

func TxMonetaryf(code Code, format string, args ...any) error {
	return New(KindTxMonetary, code, fmt.Sprintf(format, args...))
}

func TxSignaturef(code Code, format string, args ...any) error {
	return New(KindTxSignature, code, fmt.Sprintf(format, args...))
}

func Blockf(code Code, format string, args ...any) error {
	return New(KindBlockInvalid, code, fmt.Sprintf(format, args...))
}
