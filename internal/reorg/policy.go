package reorg

import "github.com/goran-ethernal/StateIndexor/pkg/config"

// Policy decides when the indexing loop runs a reorg check.
type Policy struct {
	cfg config.ReorgConfig
}

// NewPolicy creates a policy from the reorg configuration.
func NewPolicy(cfg config.ReorgConfig) Policy {
	return Policy{cfg: cfg}
}

// ShouldCheck reports whether a check is due before indexing next.
// upstreamTip is the height upstream has reached and sinceLast the number
// of blocks committed since the previous check.
//
// In catch-up mode checks run only while behind upstream and within the
// watch distance of its tip. Always mode additionally checks on every poll
// once caught up.
func (p Policy) ShouldCheck(next, upstreamTip, sinceLast uint64) bool {
	caughtUp := next > upstreamTip

	switch p.cfg.Mode {
	case config.ReorgModeNever:
		return false
	case config.ReorgModeAlways:
		if caughtUp {
			return true
		}
	default:
		if caughtUp {
			return false
		}
	}

	if upstreamTip-next > p.cfg.WatchDistance {
		return false
	}
	return sinceLast >= p.cfg.CheckInterval
}
