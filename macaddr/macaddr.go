// Package macaddr implements the MAC address tagged union used on the
// downlink, per EN 300 392-2 §21 table 21.26 / §23.
package macaddr

import "fmt"

// AddressType enum, address-type field values per §21.4.3.1 / table 21.56.
type AddressType byte

// All defined MAC address types.
const (
	Null AddressType = iota
	SSITypeAddr
	SSIWithUsageMarkerAddr
	EventLabelAddr
	USSIAddr
	SMIAddr
	SSIWithUsageMarkerAndEncryptionAddr
	SMIWithEncryptionAddr
)

func (t AddressType) String() string {
	switch t {
	case Null:
		return "NULL"
	case SSITypeAddr:
		return "SSI"
	case SSIWithUsageMarkerAddr:
		return "SSI+USAGE_MARKER"
	case EventLabelAddr:
		return "EVENT_LABEL"
	case USSIAddr:
		return "USSI"
	case SMIAddr:
		return "SMI"
	case SSIWithUsageMarkerAndEncryptionAddr:
		return "SSI+USAGE_MARKER+ENCRYPTION"
	case SMIWithEncryptionAddr:
		return "SMI+ENCRYPTION"
	default:
		return "UNKNOWN"
	}
}

// Address is a tagged union carrying exactly the fields valid for its Type,
// per §3 MacAddress. Do not read a field that Type does not define; the
// zero value of an unset field is not a meaningful default.
type Address struct {
	Type AddressType

	SSI            uint32 // 24 bits, valid for SSITypeAddr, SSIWithUsageMarkerAddr, SSIWithUsageMarkerAndEncryptionAddr
	USSI           uint32 // 24 bits, valid for USSIAddr
	SMI            uint32 // 24 bits, valid for SMIAddr, SMIWithEncryptionAddr
	EventLabel     uint16 // 10 bits, valid for EventLabelAddr
	UsageMarker    byte   // 6 bits, valid for *WithUsageMarker* types
	EncryptionMode byte   // 2 bits, valid for *WithEncryption* types
}

// IsNull reports whether this is the NULL PDU address (§4.4 NULL PDU rule).
func (a Address) IsNull() bool {
	return a.Type == Null
}

func (a Address) String() string {
	switch a.Type {
	case Null:
		return "null"
	case SSITypeAddr:
		return fmt.Sprintf("ssi:%06X", a.SSI)
	case SSIWithUsageMarkerAddr:
		return fmt.Sprintf("ssi:%06X/marker:%d", a.SSI, a.UsageMarker)
	case SSIWithUsageMarkerAndEncryptionAddr:
		return fmt.Sprintf("ssi:%06X/marker:%d/enc:%d", a.SSI, a.UsageMarker, a.EncryptionMode)
	case EventLabelAddr:
		return fmt.Sprintf("event:%d", a.EventLabel)
	case USSIAddr:
		return fmt.Sprintf("ussi:%06X", a.USSI)
	case SMIAddr:
		return fmt.Sprintf("smi:%06X", a.SMI)
	case SMIWithEncryptionAddr:
		return fmt.Sprintf("smi:%06X/enc:%d", a.SMI, a.EncryptionMode)
	default:
		return "unknown"
	}
}

// SameSubscriber reports whether two addresses identify the same
// subscriber for the purpose of the defragmenter's SSI check (§4.5).
// Only SSI-bearing address types are compared; anything else never matches.
func SameSubscriber(a, b Address) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case SSITypeAddr, SSIWithUsageMarkerAddr, SSIWithUsageMarkerAndEncryptionAddr:
		return a.SSI == b.SSI
	default:
		return false
	}
}
