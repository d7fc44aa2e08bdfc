package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	runLockPrefix = "datastream_run_lock:"
	runLockTTL    = 15 * time.Minute
)

// ErrTableLocked means another pipeline run currently holds the
// canonical table.
var ErrTableLocked = errors.New("canonical table locked by another run")

// RunLock serializes the watermark-read/append sequence per canonical
// table through a redis advisory lock. With a nil client every acquire
// succeeds, which restores the plain single-writer assumption.
type RunLock struct {
	client *redis.Client
	holder string
}

func NewRunLock(client *redis.Client) *RunLock {
	return &RunLock{
		client: client,
		holder: uuid.NewString(),
	}
}

// Acquire takes the lock for one canonical table and returns a release
// function. The TTL bounds how long a crashed run can block the table.
func (l *RunLock) Acquire(ctx context.Context, table string) (func(), error) {
	if l.client == nil {
		return func() {}, nil
	}

	key := runLockPrefix + table
	ok, err := l.client.SetNX(ctx, key, l.holder, runLockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrTableLocked, "table %s", table)
	}

	return func() {
		// Only delete the lock if this run still owns it.
		current, err := l.client.Get(context.Background(), key).Result()
		if err == nil && current == l.holder {
			l.client.Del(context.Background(), key)
		}
	}, nil
}
