package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/api/metrics"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes refresh jobs to a fixed set of workers using consistent
// hashing on the shipment id, so jobs for one shipment never run in parallel.
type Dispatcher struct {
	workers []chan ports.RefreshJob
	service ports.TrackingService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.RefreshQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.TrackingService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.RefreshJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RefreshJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after draining their channel once Close is called.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for its shipment. It never
// blocks: a full worker channel or a closed dispatcher drops the job.
func (d *Dispatcher) Enqueue(job ports.RefreshJob) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	idx := d.shardIndex(job.ShipmentID)
	select {
	case d.workers[idx] <- job:
		metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		metrics.RefreshJobsTotal.WithLabelValues(string(job.Kind), "dropped").Inc()
		d.log.Warn().Str("shipment_id", job.ShipmentID).Int("worker_id", idx).Msg("refresh queue full, job dropped")
		return false
	}
}

// Close stops accepting jobs. Queued jobs are still processed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// shardIndex maps a shipment id deterministically to a worker index.
func (d *Dispatcher) shardIndex(shipmentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(shipmentID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RefreshJob) {
	defer d.wg.Done()
	depth := metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.process(ctx, id, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, job ports.RefreshJob) {
	var err error
	switch job.Kind {
	case ports.RefreshPings:
		_, err = d.service.RefreshPing(ctx, job.ShipmentID)
	default:
		_, err = d.service.RefreshCrossings(ctx, job.ShipmentID)
	}
	if err != nil {
		metrics.RefreshJobsTotal.WithLabelValues(string(job.Kind), "error").Inc()
		d.log.Warn().Err(err).
			Str("shipment_id", job.ShipmentID).
			Str("kind", string(job.Kind)).
			Int("worker_id", id).
			Msg("refresh job failed")
		return
	}
	metrics.RefreshJobsTotal.WithLabelValues(string(job.Kind), "ok").Inc()
}
