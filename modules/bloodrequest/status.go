package bloodrequest

import (
	"context"
	"time"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/statemachine"
)

type statusEvent string

const (
	eventCancel  statusEvent = "cancel"
	eventFulfill statusEvent = "fulfill"
	eventReopen  statusEvent = "reopen"
)

// Active requests can be cancelled or fulfilled; both are final.
var lifecycle = statemachine.NewBuilder[core.RequestStatus, statusEvent]().
	From(core.RequestActive).On(eventCancel).To(core.RequestCancelled).Add().
	From(core.RequestActive).On(eventFulfill).To(core.RequestFulfilled).Add().
	MustBuild()

var eventFor = map[core.RequestStatus]statusEvent{
	core.RequestCancelled: eventCancel,
	core.RequestFulfilled: eventFulfill,
	core.RequestActive:    eventReopen,
}

// transition returns the status reached by moving from current to target.
// Asking for the current status is a no-op.
func transition(ctx context.Context, current, target core.RequestStatus) (core.RequestStatus, error) {
	if current == target {
		return current, nil
	}
	next, err := lifecycle.Fire(ctx, current, eventFor[target], nil)
	if statemachine.IsNoTransition(err) || statemachine.IsRejected(err) {
		return current, ErrInvalidTransition
	}
	return next, err
}

// FulfillmentOffset is how far ahead of creation a timeframe places the
// expected fulfillment date. Unknown timeframes get a day.
func FulfillmentOffset(tf core.Timeframe) time.Duration {
	switch tf {
	case core.TimeframeWithin2h:
		return 2 * time.Hour
	case core.TimeframeWithin6h:
		return 6 * time.Hour
	case core.TimeframeWithin24h:
		return 24 * time.Hour
	case core.TimeframeWithin3d:
		return 72 * time.Hour
	case core.TimeframeWithinWeek:
		return 168 * time.Hour
	}
	return 24 * time.Hour
}
