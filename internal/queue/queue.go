package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"revpulse/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// ObservationQueue represents an in-memory queue for scraped observation
// batches on their way to the database.
type ObservationQueue struct {
	items    chan []*models.AvailabilityObservation
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.AvailabilityObservation) error
}

// NewObservationQueue creates a new queue with the specified buffer size
func NewObservationQueue(bufferSize int, logger *logrus.Logger) *ObservationQueue {
	return &ObservationQueue{
		items:    make(chan []*models.AvailabilityObservation, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.AvailabilityObservation) error, 0),
	}
}

// Push adds a batch of observations to the queue
func (q *ObservationQueue) Push(batch []*models.AvailabilityObservation) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", len(batch)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *ObservationQueue) Subscribe(handler func([]*models.AvailabilityObservation) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *ObservationQueue) Start() {
	go q.process()
}

func (q *ObservationQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *ObservationQueue) processBatch(batch []*models.AvailabilityObservation) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added
func (q *ObservationQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of batches in the queue
func (q *ObservationQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *ObservationQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
