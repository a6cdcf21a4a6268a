package uppermac

import "github.com/ftl/tetra-downlink/pdu"

// extendedCarrierNumberingFields are the optional sub-fields appended to a
// channel allocation element's carrier number when its extended-numbering
// flag is set, table 21.82.
var extendedCarrierNumberingFields = []int{
	4, // frequency band
	2, // offset
	3, // duplex spacing
	1, // reverse operation
}

// skipChannelAllocationResource consumes the channel-allocation element of a
// MAC-RESOURCE PDU starting at c, table 21.82. The augmented allocation
// block is present only when up/downlink-assigned selects a downlink
// assignment (ul_dl == 0); fn18 gates the extra 2-bit monitoring-pattern
// exception that applies only on frame 18.
func skipChannelAllocationResource(c pdu.Cursor, fn18 bool) pdu.Cursor {
	present, c := c.Read(1)
	if present == 0 {
		return c
	}
	c = c.Skip(2) // channel allocation type
	c = c.Skip(4) // timeslot assigned
	upDownAssigned, c := c.Read(2)
	c = c.Skip(1)  // CLCH permission
	c = c.Skip(1)  // cell change flag
	c = c.Skip(12) // carrier number

	extended, c := c.Read(1)
	if extended != 0 {
		for _, bits := range extendedCarrierNumberingFields {
			c = c.Skip(bits)
		}
	}

	monitoringPattern, c := c.Read(2)
	if monitoringPattern == 0 && fn18 {
		c = c.Skip(2)
	}

	if upDownAssigned != 0 {
		return c
	}
	return skipAugmentedChannelAllocation(c)
}

// skipChannelAllocationMacEnd consumes the channel-allocation element of a
// MAC-END PDU, table 341: the same leading fields as a MAC-RESOURCE's, but
// without the augmented allocation block, which MAC-END never carries.
func skipChannelAllocationMacEnd(c pdu.Cursor, fn18 bool) pdu.Cursor {
	present, c := c.Read(1)
	if present == 0 {
		return c
	}
	c = c.Skip(2)  // channel allocation type
	c = c.Skip(4)  // timeslot assigned
	c = c.Skip(2)  // up/downlink assigned
	c = c.Skip(1)  // CLCH permission
	c = c.Skip(1)  // cell change flag
	c = c.Skip(12) // carrier number

	extended, c := c.Read(1)
	if extended != 0 {
		for _, bits := range extendedCarrierNumberingFields {
			c = c.Skip(bits)
		}
	}

	monitoringPattern, c := c.Read(2)
	if monitoringPattern == 0 && fn18 {
		c = c.Skip(2)
	}
	return c
}

// skipAugmentedChannelAllocation consumes the augmented channel allocation
// element, table 21.82, §21.5.2c. Its napping_sts, bi-linear and
// cell-reselection sub-fields are each conditional on a flag read in-line,
// so it can't be modelled as a flat field table the way the leading fields
// above can.
func skipAugmentedChannelAllocation(c pdu.Cursor) pdu.Cursor {
	c = c.Skip(2)
	c = c.Skip(3)
	c = c.Skip(3)
	c = c.Skip(3)
	c = c.Skip(3)
	c = c.Skip(3)
	c = c.Skip(4)
	c = c.Skip(5)

	nappingSts, c := c.Read(2)
	if nappingSts == 1 {
		c = c.Skip(11) // 21.5.2c
	}
	c = c.Skip(4)

	biLinear, c := c.Read(1)
	if biLinear != 0 {
		c = c.Skip(16)
	}

	cellReselection, c := c.Read(1)
	if cellReselection != 0 {
		c = c.Skip(16)
	}

	return c.Skip(1)
}
