package coordinator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// newTestConn opens a dedicated connection to a fresh in-memory database
func newTestConn(t *testing.T) *sql.Conn {
	t.Helper()

	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	sqldb.SetMaxOpenConns(1)

	conn, err := sqldb.Conn(context.Background())
	if err != nil {
		t.Fatalf("Failed to acquire connection: %v", err)
	}

	return conn
}

// TestFIFOOrder verifies sequentially accepted ops execute in order
func TestFIFOOrder(t *testing.T) {
	c := New(newTestConn(t), 0)
	defer c.Close()

	ctx := context.Background()
	const numOps = 100

	var order []int
	done := make([]chan struct{}, numOps)
	for i := range done {
		done[i] = make(chan struct{})
	}

	// submit from many goroutines, but one at a time: each submission is
	// only released after the previous one was accepted
	for i := 0; i < numOps; i++ {
		i := i
		go func() {
			defer close(done[i])
			_, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (int, error) {
				order = append(order, i) // worker goroutine only, no race
				return i, nil
			})
			if err != nil {
				t.Errorf("Op %d failed: %v", i, err)
			}
		}()
		<-done[i]
	}

	for i, got := range order {
		if got != i {
			t.Fatalf("Out of order execution at position %d: got op %d", i, got)
		}
	}
}

// TestConcurrentSubmitters verifies no op is lost under contention
func TestConcurrentSubmitters(t *testing.T) {
	c := New(newTestConn(t), 0)
	defer c.Close()

	ctx := context.Background()
	const numSubmitters = 32
	const opsPerSubmitter = 50

	executed := make(map[string]bool)

	var wg sync.WaitGroup
	for s := 0; s < numSubmitters; s++ {
		wg.Add(1)
		go func(submitter int) {
			defer wg.Done()
			for i := 0; i < opsPerSubmitter; i++ {
				id := fmt.Sprintf("%d/%d", submitter, i)
				_, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
					executed[id] = true // worker goroutine only, no race
					return struct{}{}, nil
				})
				if err != nil {
					t.Errorf("Op %s failed: %v", id, err)
				}
			}
		}(s)
	}
	wg.Wait()

	if len(executed) != numSubmitters*opsPerSubmitter {
		t.Errorf("Expected %d executed ops, got %d", numSubmitters*opsPerSubmitter, len(executed))
	}

	if c.InFlight() != 0 {
		t.Errorf("Expected no in-flight ops after completion, got %d", c.InFlight())
	}
}

// TestFailureIsolation verifies a failing op does not affect later ops
func TestFailureIsolation(t *testing.T) {
	c := New(newTestConn(t), 0)
	defer c.Close()

	ctx := context.Background()
	boom := errors.New("boom")

	_, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		return struct{}{}, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected the op's own error, got %v", err)
	}

	value, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (string, error) {
		return "still alive", nil
	})
	if err != nil {
		t.Errorf("Op after failure should succeed, got %v", err)
	}
	if value != "still alive" {
		t.Errorf("Unexpected value: %q", value)
	}
}

// TestCancelBeforeAcceptance verifies an abandoned op never executes
func TestCancelBeforeAcceptance(t *testing.T) {
	c := New(newTestConn(t), 0)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executed := false
	_, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		executed = true
		return struct{}{}, nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	// drain: run one more op to make sure the worker moved past any queued work
	_, _ = Do(c, context.Background(), func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		return struct{}{}, nil
	})

	if executed {
		t.Error("Op with pre-cancelled context must not execute")
	}
}

// TestAcceptedOpRunsToCompletion verifies cancellation after acceptance
// stops the wait but not the execution
func TestAcceptedOpRunsToCompletion(t *testing.T) {
	c := New(newTestConn(t), 0)
	defer c.Close()

	blocker := make(chan struct{})
	executed := make(chan struct{})

	// occupy the worker so the next op queues behind it
	go func() {
		_, _ = Do(c, context.Background(), func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
			<-blocker
			return struct{}{}, nil
		})
	}()

	// give the blocking op time to reach the worker
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
			close(executed)
			return struct{}{}, nil
		})
		errCh <- err
	}()

	// the second op is accepted and queued; cancel its submitter
	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled for the abandoned wait, got %v", err)
	}

	// unblock the worker; the abandoned op must still execute
	close(blocker)

	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Error("Accepted op should run to completion after its submitter left")
	}
}

// TestSQLThroughCoordinator verifies real statements flow through the connection
func TestSQLThroughCoordinator(t *testing.T) {
	c := New(newTestConn(t), 0)
	defer c.Close()

	ctx := context.Background()

	_, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		_, err := conn.ExecContext(ctx, "create table t (n integer)")
		return struct{}{}, err
	})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	for i := 0; i < 10; i++ {
		_, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
			_, err := conn.ExecContext(ctx, "insert into t (n) values (?)", i)
			return struct{}{}, err
		})
		if err != nil {
			t.Fatalf("Failed to insert row: %v", err)
		}
	}

	count, err := Do(c, ctx, func(ctx context.Context, conn *sql.Conn) (int64, error) {
		var n int64
		err := conn.QueryRowContext(ctx, "select count(*) from t").Scan(&n)
		return n, err
	})
	if err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != 10 {
		t.Errorf("Expected 10 rows, got %d", count)
	}
}

// TestClosedCoordinator verifies submissions after Close are rejected
func TestClosedCoordinator(t *testing.T) {
	c := New(newTestConn(t), 0)

	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, err := Do(c, context.Background(), func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		return struct{}{}, nil
	})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}

	// double close is a no-op
	if err := c.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}
}
