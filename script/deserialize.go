package script

import (
	"encoding/binary"

	"ledgerscript.dev/engine/ledgerror"
)

// Deserialize inverts Serialize, failing with a structural error on any
// truncation (spec §4.B: "any truncation fails with a structural error").
// A zero-length push serializes to the 0x00 byte, which comes back as the
// OP_0 opcode item rather than an empty push item; both push an empty value.
func Deserialize(b []byte) (Script, error) {
	var out Script
	i := 0
	for i < len(b) {
		op := b[i]
		i++

		switch {
		case IsPushN(op):
			n := int(op)
			if i+n > len(b) {
				return nil, ledgerror.Scriptf(ledgerror.CodeTruncatedPush, "inline push of %d bytes truncated at offset %d", n, i)
			}
			out = append(out, PushBytes(b[i:i+n]))
			i += n

		case op == byte(OP_PUSHDATA1):
			if i+1 > len(b) {
				return nil, ledgerror.Scriptf(ledgerror.CodeTruncatedPush, "PUSHDATA1 length byte truncated at offset %d", i)
			}
			n := int(b[i])
			i++
			if i+n > len(b) {
				return nil, ledgerror.Scriptf(ledgerror.CodeTruncatedPush, "PUSHDATA1 payload of %d bytes truncated at offset %d", n, i)
			}
			out = append(out, PushBytes(b[i:i+n]))
			i += n

		case op == byte(OP_PUSHDATA2):
			if i+2 > len(b) {
				return nil, ledgerror.Scriptf(ledgerror.CodeTruncatedPush, "PUSHDATA2 length field truncated at offset %d", i)
			}
			n := int(binary.LittleEndian.Uint16(b[i : i+2]))
			i += 2
			if i+n > len(b) {
				return nil, ledgerror.Scriptf(ledgerror.CodeTruncatedPush, "PUSHDATA2 payload of %d bytes truncated at offset %d", n, i)
			}
			out = append(out, PushBytes(b[i:i+n]))
			i += n

		case op == byte(OP_PUSHDATA4):
			if i+4 > len(b) {
				return nil, ledgerror.Scriptf(ledgerror.CodeTruncatedPush, "PUSHDATA4 length field truncated at offset %d", i)
			}
			n := int(binary.LittleEndian.Uint32(b[i : i+4]))
			i += 4
			if i+n > len(b) {
				return nil, ledgerror.Scriptf(ledgerror.CodeTruncatedPush, "PUSHDATA4 payload of %d bytes truncated at offset %d", n, i)
			}
			out = append(out, PushBytes(b[i:i+n]))
			i += n

		default:
			out = append(out, PushOp(Opcode(op)))
		}
	}
	return out, nil
}
