package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const invoiceMaxRetry = 5

type Options struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// Client enqueues background tasks. A disabled client accepts every call and
// does nothing.
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

func NewClient(opts Options) *Client {
	if !opts.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}
	}
	return &Client{
		client:       asynq.NewClient(buildRedisOpt(opts)),
		enabled:      true,
		defaultQueue: DefaultQueue,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleInvoice enqueues invoice generation for a paid order. The task id
// is derived from the order, so repeated completions collapse into one task
// while it is still queued.
func (c *Client) ScheduleInvoice(ctx context.Context, userID, orderID int64) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewInvoiceGenerateTask(InvoiceGeneratePayload{OrderID: orderID, UserID: userID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.defaultQueue),
		asynq.TaskID(fmt.Sprintf("invoice:%d", orderID)),
		asynq.MaxRetry(invoiceMaxRetry),
		asynq.Timeout(30*time.Second),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// BuildServerConfig returns the redis and server settings for the worker.
func BuildServerConfig(opts Options) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 10
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}
	return buildRedisOpt(opts), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
}

func buildRedisOpt(opts Options) asynq.RedisClientOpt {
	addr := opts.RedisAddr
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	return asynq.RedisClientOpt{
		Addr:     addr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	}
}
