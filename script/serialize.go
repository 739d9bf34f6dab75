package script

import "encoding/binary"

// Serialize encodes s using the push-data rules of spec §4.B.
func Serialize(s Script) []byte {
	out := make([]byte, 0, 32)
	for _, item := range s {
		if !item.IsPush {
			out = append(out, byte(item.Op))
			continue
		}
		out = append(out, encodePushHeader(len(item.Data))...)
		out = append(out, item.Data...)
	}
	return out
}

func encodePushHeader(l int) []byte {
	switch {
	case l < 76:
		return []byte{byte(l)}
	case l <= 0xff:
		return []byte{byte(OP_PUSHDATA1), byte(l)}
	case l <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = byte(OP_PUSHDATA2)
		binary.LittleEndian.PutUint16(buf[1:], uint16(l))
		return buf
	default:
		buf := make([]byte, 5)
		buf[0] = byte(OP_PUSHDATA4)
		binary.LittleEndian.PutUint32(buf[1:], uint32(l))
		return buf
	}
}
