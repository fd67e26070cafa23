package authcore

import (
	"errors"
	"time"

	"github.com/coreswitch/babeld-hmac/esa"
	"github.com/coreswitch/babeld-hmac/stats"
	"github.com/coreswitch/babeld-hmac/wire"
)

// CheckPacket validates that packet, received from link-local source
// from on ifp, is fresh and authentic, updates the ANM and statistics
// as a side effect, and reports the verdict. The return value is
// always OK when ifp.RxAuthRequired is false, regardless of the
// underlying verdict: an interface not yet requiring authentication
// must still accept plain neighbors.
func (c *Context) CheckPacket(ifp *Interface, from [16]byte, packet []byte) bool {
	c.LastErr = nil
	now := c.now()
	tier := ifp.tier(c)

	if len(ifp.CSAs) == 0 {
		tier.Bump(stats.PlainRecv)
		return true
	}

	storedTS, storedPC := uint32(0), uint16(0)
	if rec, ok := c.ANM.Lookup(from, ifp.Name); ok {
		storedTS, storedPC = rec.LastTS, rec.LastPC
	}

	gateResult, gateErr := firstTSPC(packet, storedTS, storedPC)
	if gateErr != nil {
		c.LastErr = gateErr
		if gateErr == ErrMissingTSPC {
			tier.Bump(stats.AuthRecvNgNoTspc)
		} else {
			tier.Bump(stats.AuthRecvNgTspc)
		}
		return c.verdict(ifp, false)
	}

	padded, padErr := wire.Pad(packet, from)
	if padErr != nil {
		c.LastErr = padErr
		tier.Bump(stats.AuthRecvNgHmac)
		return c.verdict(ifp, false)
	}

	esas, buildErr := esa.Build(ifp.CSAs, c.Store, now, esa.AcceptFilter, c.Logger)
	if buildErr != nil {
		c.LastErr = buildErr
	}
	if len(esas) == 0 {
		c.LastErr = ErrNoValidKeys
		tier.Bump(stats.AuthRecvNgNokeys)
		c.Logger.Warn().Str("interface", ifp.Name).Msg("babel auth: no valid accept keys")
	}

	ok := false
	digestsDone := 0
	for _, e := range esas {
		matched, err := tryHMAC(packet, padded, e, &digestsDone, c.Algos)
		if err != nil {
			c.LastErr = err
			if !errors.Is(err, ErrDigestMismatch) {
				tier.Bump(stats.InternalErr)
			}
			continue
		}
		if matched {
			ok = true
			c.LastErr = nil
			break
		}
	}

	if ok {
		c.ANM.Upsert(from, ifp.Name, gateResult.TS, gateResult.PC, now)
		tier.Bump(stats.AuthRecvOk)
	} else {
		if c.LastErr == nil {
			c.LastErr = ErrDigestMismatch
		}
		tier.Bump(stats.AuthRecvNgHmac)
	}

	return c.verdict(ifp, ok)
}

// verdict applies the RxAuthRequired override: an interface that does
// not yet require authentication accepts every packet regardless of ok.
func (c *Context) verdict(ifp *Interface, ok bool) bool {
	if !ifp.RxAuthRequired {
		return true
	}
	return ok
}

func (c *Context) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}
