package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/anonexchange/anonexchange-api/internal/api/metrics"
	"github.com/anonexchange/anonexchange-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Sender delivers one verification email; implemented by email.SMTPSender.
type Sender interface {
	Send(job ports.VerificationEmail) error
}

// Dispatcher routes verification emails to a fixed set of workers using
// consistent hashing on the recipient address, so repeated sends to the same
// address stay ordered while delivery runs off the request path.
type Dispatcher struct {
	workers []chan ports.VerificationEmail
	sender  Sender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.VerificationEmail, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.VerificationEmail, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an email to the worker responsible for its recipient.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.VerificationEmail) {
	idx := d.shardIndex(job.To)
	d.workers[idx] <- job
	metrics.EmailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a recipient address deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.VerificationEmail) {
	gauge := metrics.EmailQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			gauge.Set(float64(len(ch)))
			if err := d.sender.Send(job); err != nil {
				// a lost email is retried by the user signing up again
				metrics.VerificationEmailsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("to", job.To).
					Int("worker_id", id).
					Msg("verification email delivery failed")
				continue
			}
			metrics.VerificationEmailsTotal.WithLabelValues("sent").Inc()
			d.log.Info().Str("to", job.To).Msg("verification email sent")
		}
	}
}
