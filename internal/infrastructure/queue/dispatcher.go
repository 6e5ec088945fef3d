package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cosechaencope/marketplace/internal/api/metrics"
	"github.com/cosechaencope/marketplace/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the entity key, guaranteeing per-entity ordering in the trail.
type Dispatcher struct {
	workers []chan ports.AuditInput
	service ports.AuditService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its entity.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(in ports.AuditInput) {
	i := d.shardIndex(entityKey(in))
	d.workers[i] <- in
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps an entity key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func entityKey(in ports.AuditInput) string {
	return fmt.Sprintf("%s:%d", in.EntityType, in.EntityID)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, in); err != nil {
				metrics.AuditErrorsTotal.WithLabelValues("process_failed").Inc()
				d.log.Error().Err(err).
					Str("entity", entityKey(in)).
					Int("worker_id", id).
					Msg("audit processing failed")
			} else {
				metrics.AuditProcessedTotal.WithLabelValues(in.EntityType, in.Action).Inc()
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
