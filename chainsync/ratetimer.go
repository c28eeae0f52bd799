package chainsync

import (
	"time"

	"github.com/mlmikael/libbitcoin-node/network"
)

// oneSecond is the header-sync phase's tick period (spec.md C5); the
// block-sync companion arms its RateTimer with oneMinute instead.
const (
	oneSecond = time.Second
	oneMinute = time.Minute
)

// RateTimer is the periodic tick shared by HeaderSyncProtocol (1 second) and
// the block-sync companion (1 minute) for their rate-floor liveness check.
// It is a thin, re-armable wrapper over the channel's own network.Timer
// capability — the only caller of Start/Stop is the owning protocol (its
// Start, its tick handler and its completion), never the session.
type RateTimer struct {
	timer  network.Timer
	period time.Duration
}

// NewRateTimer binds a RateTimer to period over the given channel timer
// capability.
func NewRateTimer(timer network.Timer, period time.Duration) *RateTimer {
	return &RateTimer{timer: timer, period: period}
}

// Start arms one tick; handler is invoked with nil on a legitimate timeout,
// or with a non-nil error if the channel stopped first. The caller
// re-arms by calling Start again from within handler.
func (r *RateTimer) Start(handler func(error)) {
	r.timer.Start(r.period, handler)
}

// Stop cancels any pending tick.
func (r *RateTimer) Stop() {
	r.timer.Stop()
}
