package authcore

import "github.com/coreswitch/babeld-hmac/wire"

// tspcResult is the outcome of scanning for the first TS/PC TLV.
type tspcResult struct {
	PCOffset int // offset of the pc field within the packet
	TS       uint32
	PC       uint16
}

// firstTSPC returns the first TS/PC TLV's (offset, ts, pc) iff that
// pair is strictly greater than (storedTS, storedPC) under
// lexicographic order on (ts, pc).
//
// A malformed TS/PC TLV (value length != 6) and a packet with no TS/PC
// TLV at all are both treated as "missing" (see DESIGN.md). Only the
// first TS/PC TLV is consulted; later ones are ignored.
func firstTSPC(packet []byte, storedTS uint32, storedPC uint16) (tspcResult, error) {
	var found *tspcResult
	seenFirst := false
	err := wire.Walk(packet, func(t wire.TLV) error {
		if seenFirst || t.Type != wire.TypeTSPC {
			return nil
		}
		seenFirst = true
		if t.Length != wire.TSPCValueLen {
			// Malformed-length TS/PC TLV: treated as absent, and still
			// counts as "the first" — later TS/PC TLVs are not consulted.
			return nil
		}
		value := packet[t.ValueOffset : t.ValueOffset+int(t.Length)]
		pc, ts, decErr := wire.DecodeTSPC(value)
		if decErr != nil {
			return nil
		}
		found = &tspcResult{PCOffset: t.ValueOffset, TS: ts, PC: pc}
		return nil
	})
	if err != nil {
		return tspcResult{}, ErrMalformedTLV
	}
	if found == nil {
		return tspcResult{}, ErrMissingTSPC
	}
	if !greater(found.TS, found.PC, storedTS, storedPC) {
		return tspcResult{}, ErrStaleTSPC
	}
	return *found, nil
}

// greater reports whether (ts, pc) > (storedTS, storedPC) under
// lexicographic order, i.e. ts wins ties on pc.
func greater(ts uint32, pc uint16, storedTS uint32, storedPC uint16) bool {
	if ts != storedTS {
		return ts > storedTS
	}
	return pc > storedPC
}
