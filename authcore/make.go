package authcore

import (
	"github.com/coreswitch/babeld-hmac/esa"
	"github.com/coreswitch/babeld-hmac/stats"
	"github.com/coreswitch/babeld-hmac/wire"
)

// MakePacket signs body in place with every configured authentication
// mode on ifp, appending TS/PC and HMAC TLVs. body must have capacity
// for at least bodyLen+wire.MaxAuthSpace bytes; MakePacket returns the
// new body length, which is bodyLen unchanged on every failure path —
// outbound errors are absorbed rather than propagated, since a Babel
// speaker has no sensible way to abort sending a periodic update.
func (c *Context) MakePacket(ifp *Interface, body []byte, bodyLen int) int {
	c.LastErr = nil
	now := c.now()
	tier := ifp.tier(c)

	if len(ifp.CSAs) == 0 {
		tier.Bump(stats.PlainSent)
		return bodyLen
	}

	addr, ok := c.Addresser.LinkLocal(ifp.Name)
	if !ok {
		c.LastErr = ErrNoLinkLocal
		tier.Bump(stats.InternalErr)
		return bodyLen
	}

	esas, buildErr := esa.Build(ifp.CSAs, c.Store, now, esa.SendFilter, c.Logger)
	if buildErr != nil {
		c.LastErr = buildErr
	}
	if len(esas) == 0 {
		c.LastErr = ErrNoValidKeys
		tier.Bump(stats.AuthSentNgNokeys)
		c.Logger.Warn().Str("interface", ifp.Name).Msg("babel auth: no valid send keys")
	}
	if len(esas) > wire.MaxDigestsOut {
		esas = esas[:wire.MaxDigestsOut]
	}

	buf := make([]byte, 0, bodyLen+wire.MaxAuthSpace)
	buf = append(buf, make([]byte, wire.HeaderLen)...)
	buf = append(buf, body[:bodyLen]...)

	ts, pc := ifp.bump(uint32(now.Unix()), c.TSBase)
	buf = append(buf, wire.EncodeTSPC(pc, ts)...)

	type digestSlot struct {
		offset int
		algo   esa.ESA
	}
	var slots []digestSlot
	for _, e := range esas {
		algo, algoOK := c.Algos.Lookup(e.HashAlgo)
		if !algoOK {
			tier.Bump(stats.InternalErr)
			return bodyLen
		}
		tlv, err := wire.EncodeHMACPlaceholder(e.KeyID, algo.DigestLength(), addr)
		if err != nil {
			tier.Bump(stats.InternalErr)
			return bodyLen
		}
		digestOffset := len(buf) + 2 + wire.HMACKeyIDLen
		buf = append(buf, tlv...)
		slots = append(slots, digestSlot{offset: digestOffset, algo: e})
	}

	if err := wire.WriteHeader(buf, uint16(len(buf)-wire.HeaderLen)); err != nil {
		tier.Bump(stats.InternalErr)
		return bodyLen
	}

	// buf is already in padded form by construction (step 5 pre-filled
	// every digest field with addr || zeros), so it doubles as the HMAC
	// input directly.
	padded := buf
	for _, slot := range slots {
		algo, _ := c.Algos.Lookup(slot.algo.HashAlgo)
		digest, err := algo.HMAC(slot.algo.Secret, padded)
		if err != nil {
			tier.Bump(stats.InternalErr)
			return bodyLen
		}
		copy(buf[slot.offset:slot.offset+len(digest)], digest)
	}

	appended := buf[wire.HeaderLen+bodyLen:]
	full := body[:cap(body)]
	copy(full[bodyLen:bodyLen+len(appended)], appended)
	newBodyLen := bodyLen + len(appended)

	tier.Bump(stats.AuthSent)
	return newBodyLen
}
