package authcore

// bump advances the interface's (auth_ts, auth_pc) pair so each emitted
// value is strictly greater than the last, returning the new pair.
//
// In UNIX mode, a stalled clock (now <= ifp.sendTS) falls back to the
// same pc-increment-with-carry step that ZERO mode always uses; the
// two branches below are written out explicitly rather than relying on
// fallthrough, since Go switch statements don't fall through implicitly.
func (ifp *Interface) bump(now uint32, base TSBase) (uint32, uint16) {
	if base == TSBaseUnix && now > ifp.sendTS {
		ifp.sendTS = now
		ifp.sendPC = 0
		return ifp.sendTS, ifp.sendPC
	}

	// ZERO mode, or UNIX mode whose clock has stalled: advance pc only,
	// carrying into ts on wraparound. ts-base zero therefore starts pc
	// at 1 on the very first bump, since the initial value is 0.
	ifp.sendPC++
	if ifp.sendPC == 0 {
		ifp.sendTS++
	}
	return ifp.sendTS, ifp.sendPC
}

// SendState reports the interface's current (auth_ts, auth_pc) without
// advancing it.
func (ifp *Interface) SendState() (ts uint32, pc uint16) {
	return ifp.sendTS, ifp.sendPC
}
