package macaddr

import "github.com/ftl/tetra-downlink/pdu"

// Parse reads a 3-bit address type followed by its type-specific fields
// from c, per §3 MacAddress / §21.4.3.1. It returns the parsed Address and
// a Cursor advanced past the fields it consumed.
func Parse(c pdu.Cursor) (Address, pdu.Cursor) {
	typeValue, c := c.Read(3)
	addrType := AddressType(typeValue)

	var addr Address
	addr.Type = addrType

	switch addrType {
	case Null:
		// no further fields; caller applies the NULL PDU rule.
	case SSITypeAddr:
		var ssi uint32
		ssi, c = c.Read(24)
		addr.SSI = ssi
	case SSIWithUsageMarkerAddr:
		var ssi, marker uint32
		ssi, c = c.Read(24)
		marker, c = c.Read(6)
		addr.SSI = ssi
		addr.UsageMarker = byte(marker)
	case EventLabelAddr:
		var label uint32
		label, c = c.Read(10)
		addr.EventLabel = uint16(label)
	case USSIAddr:
		var ussi uint32
		ussi, c = c.Read(24)
		addr.USSI = ussi
	case SMIAddr:
		var smi uint32
		smi, c = c.Read(24)
		addr.SMI = smi
	case SSIWithUsageMarkerAndEncryptionAddr:
		var ssi, marker, enc uint32
		ssi, c = c.Read(24)
		marker, c = c.Read(6)
		enc, c = c.Read(2)
		addr.SSI = ssi
		addr.UsageMarker = byte(marker)
		addr.EncryptionMode = byte(enc)
	case SMIWithEncryptionAddr:
		var smi, enc uint32
		smi, c = c.Read(24)
		enc, c = c.Read(2)
		addr.SMI = smi
		addr.EncryptionMode = byte(enc)
	}

	return addr, c
}
