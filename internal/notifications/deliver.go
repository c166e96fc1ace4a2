package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/metrics"
)

// deliverer runs one delivery attempt with a timeout, recovering panics and
// recording the outcome.
type deliverer struct {
	sink    Sink
	logg    *logger.Logger
	metrics *metrics.NotificationMetrics
	timeout time.Duration
}

func (d deliverer) deliver(ctx context.Context, msg Message) (err error) {
	channel := msg.Channel.String()
	start := time.Now()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notification sink panic: %v", r)
		}
		d.metrics.ObserveDuration(channel, time.Since(start))
		if err != nil {
			d.metrics.IncFailed(channel)
			logCtx := d.logg.WithFields(ctx, map[string]any{"channel": channel, "recipient": msg.Recipient})
			d.logg.Error(logCtx, "notifications.delivery.failed", err)
			return
		}
		d.metrics.IncDelivered(channel)
	}()

	if err := msg.validate(); err != nil {
		return err
	}
	return d.sink.Deliver(ctx, msg)
}
