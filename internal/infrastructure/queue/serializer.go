package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"runtime/debug"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/medcourier/tracking/internal/pkg/metrics"
)

const (
	defaultWorkers = 32
	channelBuffer  = 256
)

// ErrStopped is returned by Do once the serializer has been shut down.
var ErrStopped = errors.New("serializer stopped")

type job struct {
	ctx  context.Context
	key  string
	fn   func(context.Context) error
	done chan error
}

// Serializer runs work on a fixed set of workers using consistent hashing on
// a key, so work for one shipment never runs concurrently and runs in
// submission order.
type Serializer struct {
	workers []chan job
	stopped chan struct{}
	log     zerolog.Logger
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan job, numWorkers),
		stopped: make(chan struct{}),
		log:     log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan job, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(s.stopped)
	}()
}

// Do runs fn on the worker owning key and waits for its result. If ctx ends
// before fn starts, fn is skipped.
func (s *Serializer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	select {
	case <-s.stopped:
		return ErrStopped
	default:
	}

	idx := s.shardIndex(key)
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}

	select {
	case s.workers[idx] <- j:
		metrics.SerializerQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(s.workers[idx])))
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

// shardIndex maps a key deterministically to a worker index.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan job) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			metrics.SerializerQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			j.done <- s.execute(id, j)
		}
	}
}

func (s *Serializer) execute(id int, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Interface("recover", r).
				Bytes("stack", debug.Stack()).
				Str("key", j.key).
				Int("worker_id", id).
				Msg("serialized job panic")
			err = fmt.Errorf("serialized job panic: %v", r)
		}
	}()
	return j.fn(j.ctx)
}
