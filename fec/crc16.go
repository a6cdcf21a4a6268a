package fec

import "github.com/ftl/tetra-downlink/pdu"

// crc16Poly is the CRC16-CCITT polynomial 0x1021 (x^16+x^12+x^5+1).
const crc16Poly = 0x1021
const crc16Init = 0xFFFF

// crc16 computes the CRC16-CCITT checksum over the given bits, MSB first,
// no reflection, no final XOR.
func crc16(data pdu.Bits) uint16 {
	reg := uint16(crc16Init)
	for _, bit := range data {
		top := (reg >> 15) & 1
		reg <<= 1
		if top^uint16(bit) != 0 {
			reg ^= crc16Poly
		}
	}
	return reg
}

// CRC16Check returns true iff the CRC16-CCITT of block[0:len] matches the
// trailing 16 bits at block[len:len+16], per §4.2.
func CRC16Check(block pdu.Bits, payloadLen int) bool {
	if block.Size() < payloadLen+16 {
		return false
	}
	computed := crc16(block.Slice(0, payloadLen))
	received := uint16(block.GetValue(payloadLen, 16))
	return computed == received
}

// CRC16Append computes the CRC16-CCITT of payload and returns payload with
// the 16-bit checksum appended, used by tests to build valid fixtures.
func CRC16Append(payload pdu.Bits) pdu.Bits {
	sum := crc16(payload)
	crcBits := make(pdu.Bits, 16)
	for i := 0; i < 16; i++ {
		crcBits[i] = byte((sum >> uint(15-i)) & 1)
	}
	return payload.Append(crcBits)
}
