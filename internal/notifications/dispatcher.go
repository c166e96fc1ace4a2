package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/metrics"
)

var (
	// ErrQueueFull is returned by Enqueue when every buffered slot is taken.
	ErrQueueFull = errors.New("notifications: queue is full")
	// ErrClosed is returned by Enqueue after Shutdown.
	ErrClosed = errors.New("notifications: dispatcher is closed")
)

// AsyncOptions sizes the in-process dispatcher.
type AsyncOptions struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// AsyncDispatcher delivers messages on a fixed set of worker goroutines fed
// by a bounded channel.
type AsyncDispatcher struct {
	queue    chan Message
	deliver  deliverer
	logg     *logger.Logger
	metrics  *metrics.NotificationMetrics
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	shutdown sync.Once
}

// NewAsyncDispatcher starts opts.Workers goroutines draining a queue of
// opts.QueueSize messages.
func NewAsyncDispatcher(sink Sink, opts AsyncOptions, logg *logger.Logger, m *metrics.NotificationMetrics) (*AsyncDispatcher, error) {
	if sink == nil {
		return nil, fmt.Errorf("notification sink required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = opts.Workers * 2
	}

	d := &AsyncDispatcher{
		queue:   make(chan Message, opts.QueueSize),
		deliver: deliverer{sink: sink, logg: logg, metrics: m, timeout: opts.SendTimeout},
		logg:    logg,
		metrics: m,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d, nil
}

// Enqueue never blocks. A full queue drops the message with a warning.
func (d *AsyncDispatcher) Enqueue(ctx context.Context, msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.metrics.IncDropped(msg.Channel.String())
		return ErrClosed
	}
	select {
	case d.queue <- msg:
		return nil
	default:
		d.metrics.IncDropped(msg.Channel.String())
		logCtx := d.logg.WithFields(ctx, map[string]any{"channel": msg.Channel, "recipient": msg.Recipient})
		d.logg.Warn(logCtx, "notifications.queue.full")
		return ErrQueueFull
	}
}

// Shutdown stops accepting messages and waits for queued ones to be
// delivered, or for ctx to end.
func (d *AsyncDispatcher) Shutdown(ctx context.Context) error {
	d.shutdown.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain notifications: %w", ctx.Err())
	}
}

func (d *AsyncDispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		_ = d.deliver.deliver(context.Background(), msg)
	}
}
