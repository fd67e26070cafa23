package authcore

import (
	"github.com/coreswitch/babeld-hmac/keychain"
	"github.com/coreswitch/babeld-hmac/stats"
)

// Interface holds the per-interface authentication state: the
// operator-configured CSA list and RxAuthRequired flag, the
// (auth_ts, auth_pc) send state advanced by the TS/PC Bumper, and this
// interface's tier of statistics counters.
type Interface struct {
	Name           string
	CSAs           []keychain.CSA
	RxAuthRequired bool

	sendTS uint32
	sendPC uint16

	Stats stats.Counters
}

// NewInterface returns an Interface with zeroed send state: the TS/PC
// Bumper's initial values for both fields are 0.
func NewInterface(name string) *Interface {
	return &Interface{Name: name}
}

func (ifp *Interface) tier(c *Context) stats.Tier {
	return stats.Tier{Process: &c.Stats, Interface: &ifp.Stats}
}
