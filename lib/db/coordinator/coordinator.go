package coordinator

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/ckampfe/kvqlite/lib/db/util"
	"github.com/ckampfe/kvqlite/lib/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logger.GetLogger("coordinator")

// operation metrics, shared across all coordinator instances
var (
	opsAccepted = metrics.GetOrCreateCounter(`kvqlite_coordinator_ops_total{result="accepted"}`)
	opsRejected = metrics.GetOrCreateCounter(`kvqlite_coordinator_ops_total{result="rejected"}`)
	opsFailed   = metrics.GetOrCreateCounter(`kvqlite_coordinator_ops_total{result="failed"}`)
)

// ErrClosed is returned for operations submitted after Close
var ErrClosed = errors.New("coordinator closed")

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Op is a unit of work executed against the backing connection.
// Ops never run concurrently with each other.
type Op func(ctx context.Context, conn *sql.Conn) (interface{}, error)

// result carries an op's outcome back to its submitter
type result struct {
	value interface{}
	err   error
}

// request is one queued operation
type request struct {
	ctx  context.Context
	op   Op
	done chan result // buffered, the worker never blocks on delivery
}

// Coordinator owns the sole backing database connection. SQLite cannot
// safely execute two statements concurrently on one handle, so all
// operations are funneled through a multi-producer single-consumer queue
// and executed one at a time by a single worker goroutine.
//
// Guarantees:
//   - FIFO: effects are applied in the order operations were accepted
//   - Isolation: no op observes a partially-applied effect of another
//   - Failure isolation: an op's error reaches only its submitter, the
//     worker keeps serving the queue
//   - Cancellation: a context cancelled before acceptance prevents
//     execution; once accepted, the op runs to completion even if its
//     submitter stopped listening
type Coordinator struct {
	conn            *sql.Conn
	queue           *util.LockFreeMPSC[request]
	inFlight        *xsync.Counter
	closed          atomic.Bool
	slowOpThreshold time.Duration
}

// --------------------------------------------------------------------------
// Construction
// --------------------------------------------------------------------------

// New creates a coordinator owning the given connection and starts its
// worker. The connection must not be used by anything else afterwards;
// Close releases it.
//
// slowOpThreshold enables warn-logging for operations that held the
// connection longer than the threshold (0 disables the check).
func New(conn *sql.Conn, slowOpThreshold time.Duration) *Coordinator {
	c := &Coordinator{
		conn:            conn,
		queue:           util.NewLockFreeMPSC[request](),
		inFlight:        xsync.NewCounter(),
		slowOpThreshold: slowOpThreshold,
	}

	go c.work()

	return c
}

// --------------------------------------------------------------------------
// Submission
// --------------------------------------------------------------------------

// submit enqueues op and waits for its result.
// If ctx is cancelled before the op is accepted into the queue the op is
// never executed and ctx.Err() is returned. If ctx is cancelled after
// acceptance, submit returns ctx.Err() but the op still runs to completion.
func (c *Coordinator) submit(ctx context.Context, op Op) (interface{}, error) {
	if c.closed.Load() {
		opsRejected.Inc()
		return nil, ErrClosed
	}

	// abandoned before acceptance, must not execute
	select {
	case <-ctx.Done():
		opsRejected.Inc()
		return nil, ctx.Err()
	default:
	}

	req := request{
		ctx:  ctx,
		op:   op,
		done: make(chan result, 1),
	}

	if !c.queue.Push(&req) {
		opsRejected.Inc()
		return nil, ErrClosed
	}

	opsAccepted.Inc()
	c.inFlight.Inc()

	select {
	case res := <-req.done:
		return res.value, res.err
	case <-ctx.Done():
		// the op is already accepted and will run; nobody is listening
		// for its result anymore
		return nil, ctx.Err()
	}
}

// Do submits op and waits for its typed result.
// It is the only way operations reach the backing connection.
func Do[T any](c *Coordinator, ctx context.Context, op func(ctx context.Context, conn *sql.Conn) (T, error)) (T, error) {
	value, err := c.submit(ctx, func(ctx context.Context, conn *sql.Conn) (interface{}, error) {
		return op(ctx, conn)
	})
	if err != nil || value == nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}

// InFlight returns the number of operations accepted but not yet completed
func (c *Coordinator) InFlight() int64 {
	return c.inFlight.Value()
}

// --------------------------------------------------------------------------
// Worker
// --------------------------------------------------------------------------

// work drains the queue and executes one op at a time against the connection
func (c *Coordinator) work() {
	for req := range c.queue.Recv() {
		// accepted ops run to completion: detach from the submitter's
		// cancellation while keeping its values
		execCtx := context.WithoutCancel(req.ctx)

		start := time.Now()
		value, err := req.op(execCtx, c.conn)
		elapsed := time.Since(start)

		if err != nil {
			opsFailed.Inc()
		}

		c.inFlight.Dec()
		req.done <- result{value: value, err: err}

		if c.slowOpThreshold > 0 && elapsed > c.slowOpThreshold {
			log.Warningf("operation held the connection for %.2fms", float64(elapsed)/float64(time.Millisecond))
		}
	}
}

// --------------------------------------------------------------------------
// Teardown
// --------------------------------------------------------------------------

// Close stops accepting operations, waits for the queue to drain and
// releases the backing connection.
func (c *Coordinator) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	c.queue.Close()
	c.queue.Wait()

	return c.conn.Close()
}
