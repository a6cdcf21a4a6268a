// Package cellctx holds the cell-wide context shared by every slot:
// frequency, MCC/MNC, colour code, and the derived scrambling code, per §3
// CellContext and §4.6.
package cellctx

// DuplexOffset maps the 2-bit offset field from SYSINFO to a frequency
// offset in Hz, per §4.4 SYSINFO.
var DuplexOffset = [4]int64{0, 6250, -6250, 12500}

// Context holds the latest cell parameters. It is owned exclusively by the
// decoder and mutated only from the ingestion path (§5).
type Context struct {
	DownlinkFrequency int64
	MCC               uint16
	MNC               uint16
	ColorCode         uint8
	ScramblingCode    uint32
}

// New returns a zero-valued Context; ScramblingCode is not meaningful until
// UpdateScramblingCode has been called at least once (typically by the
// first decoded SYNC).
func New() *Context {
	return &Context{}
}

// UpdateScramblingCode stores the cell identifiers and recomputes the
// scrambling code from them on every call. The code is a pure function of
// its three inputs (§8 invariant 10); see ScramblingCodeFor.
func (c *Context) UpdateScramblingCode(mcc, mnc uint16, colorCode uint8) {
	c.MCC = mcc
	c.MNC = mnc
	c.ColorCode = colorCode
	c.ScramblingCode = ScramblingCodeFor(mcc, mnc, colorCode)
}

// UpdateFrequency records the downlink frequency decoded from SYSINFO.
func (c *Context) UpdateFrequency(hz int64) {
	c.DownlinkFrequency = hz
}

// ScramblingCodeFor computes the scrambling code seed from the cell
// identity triple. It packs mcc (10 bits), mnc (14 bits) and colorCode
// (6 bits) into one word, XORs that word with itself rotated right by 15,
// and maps a zero result to 1, giving the 32-bit PRBS seed used by
// fec.Descramble. This is not the seed layout of EN 300 392-2 §8.2.5.2
// (see DESIGN.md).
func ScramblingCodeFor(mcc, mnc uint16, colorCode uint8) uint32 {
	var code uint32
	code = uint32(mcc) & 0x3FF
	code |= (uint32(mnc) & 0x3FFF) << 10
	code |= (uint32(colorCode) & 0x3F) << 24
	code ^= code>>15 | code<<17
	if code == 0 {
		code = 1
	}
	return code
}
