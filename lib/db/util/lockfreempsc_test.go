package util

import (
	"sync"
	"testing"
	"time"
)

// TestBasicOperations tests basic push and consume functionality
func TestBasicOperations(t *testing.T) {
	q := NewLockFreeMPSC[int]()
	defer q.Close()

	values := make([]int, 10)
	for i := 0; i < 10; i++ {
		values[i] = i
		if !q.Push(&values[i]) {
			t.Fatalf("Failed to push item %d", i)
		}
	}

	for i := 0; i < 10; i++ {
		select {
		case val := <-q.Recv():
			if *val != i {
				t.Errorf("Expected %d, got %v", i, *val)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for item %d", i)
		}
	}

	// queue must now be empty
	select {
	case val := <-q.Recv():
		t.Errorf("Queue should be empty, but got %v", val)
	case <-time.After(10 * time.Millisecond):
	}
}

// TestSingleProducerFIFO verifies acceptance order is delivery order
func TestSingleProducerFIFO(t *testing.T) {
	q := NewLockFreeMPSC[int]()

	const numItems = 10_000

	go func() {
		for i := 0; i < numItems; i++ {
			v := i
			if !q.Push(&v) {
				t.Errorf("Failed to push item %d", i)
				return
			}
		}
		q.Close()
	}()

	expected := 0
	for val := range q.Recv() {
		if *val != expected {
			t.Fatalf("Out of order delivery: expected %d, got %d", expected, *val)
		}
		expected++
	}

	if expected != numItems {
		t.Errorf("Expected %d items, got %d", numItems, expected)
	}
}

// TestConcurrentProducers verifies no item is lost with many producers
func TestConcurrentProducers(t *testing.T) {
	q := NewLockFreeMPSC[int]()

	const numProducers = 10
	const itemsPerProducer = 1000
	totalItems := numProducers * itemsPerProducer

	received := make(map[int]bool, totalItems)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for val := range q.Recv() {
			if received[*val] {
				t.Errorf("Duplicate delivery of item %d", *val)
			}
			received[*val] = true
		}
	}()

	var producers sync.WaitGroup
	for p := 0; p < numProducers; p++ {
		producers.Add(1)
		go func(producer int) {
			defer producers.Done()
			for i := 0; i < itemsPerProducer; i++ {
				v := producer*itemsPerProducer + i
				if !q.Push(&v) {
					t.Errorf("Failed to push item %d", v)
					return
				}
			}
		}(p)
	}

	producers.Wait()
	q.Close()
	<-done

	if len(received) != totalItems {
		t.Errorf("Expected %d items, received %d", totalItems, len(received))
	}
}

// TestCloseSemantics verifies pushes fail after close but accepted items drain
func TestCloseSemantics(t *testing.T) {
	q := NewLockFreeMPSC[string]()

	v1 := "before"
	if !q.Push(&v1) {
		t.Fatal("Push before close should succeed")
	}

	q.Close()

	if !q.IsClosed() {
		t.Error("IsClosed should report true after Close")
	}

	v2 := "after"
	if q.Push(&v2) {
		t.Error("Push after close should fail")
	}

	select {
	case val := <-q.Recv():
		if val == nil || *val != "before" {
			t.Errorf("Expected item accepted before close, got %v", val)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for item accepted before close")
	}

	q.Wait()

	if _, ok := <-q.Recv(); ok {
		t.Error("Recv channel should be closed after drain")
	}
}
