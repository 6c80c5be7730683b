package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WorkQueue is the FIFO handoff between the intake API and the
// evaluation workers. Delivery is at-least-once: a worker crash after
// a pop loses no queued items beyond the one in flight.
type WorkQueue interface {
	Push(ctx context.Context, item string) error
	// BlockingPop waits up to timeout for work. An empty string with a
	// nil error means no work arrived; callers just poll again.
	BlockingPop(ctx context.Context, timeout time.Duration) (string, error)
}

type workQueue struct {
	client    *redis.Client
	queueName string
}

func NewWorkQueue(client *redis.Client, queueName string) WorkQueue {
	return &workQueue{client: client, queueName: queueName}
}

// Push implements WorkQueue.
func (q *workQueue) Push(ctx context.Context, item string) error {
	if err := q.client.LPush(ctx, q.queueName, item).Err(); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", item, err)
	}
	return nil
}

// BlockingPop implements WorkQueue. LPUSH + BRPOP keeps submissions
// strictly first-in first-out.
func (q *workQueue) BlockingPop(ctx context.Context, timeout time.Duration) (string, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to pop from queue: %w", err)
	}

	// BRPop returns [queueName, value]
	if len(result) < 2 {
		return "", nil
	}
	return result[1], nil
}
