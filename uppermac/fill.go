package uppermac

import "github.com/ftl/tetra-downlink/pdu"

// stripFillBits removes the trailing fill-bit pattern of §23.4.3.2: if the
// final bit is 1, drop it; otherwise drop the trailing run of zeros and the
// 1 bit preceding them. It only acts when apply is true, which is what
// makes a second call against already-stripped data (apply now false)
// a no-op — the idempotence required by §8 invariant 7.
func stripFillBits(bits pdu.Bits, apply bool) pdu.Bits {
	if !apply || bits.Size() == 0 {
		return bits
	}
	n := bits.Size()
	if bits.GetBit(n-1) == 1 {
		return bits.Slice(0, n-1)
	}
	end := n
	for end > 0 && bits.GetBit(end-1) == 0 {
		end--
	}
	if end == 0 {
		return bits.Slice(0, 0)
	}
	return bits.Slice(0, end-1)
}
