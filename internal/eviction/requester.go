package eviction

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"boundary-cache-service/internal/observability"
	"boundary-cache-service/internal/registry"
	pb "boundary-cache-service/proto"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	// ErrNoEntities is returned for requests with nothing to evict.
	ErrNoEntities = errors.New("eviction: no entities set to trigger eviction on")

	// ErrClosed is returned once the requester has been shut down.
	ErrClosed = errors.New("eviction: requester is closed")
)

// Lister exposes the cluster membership the requester fans out to.
type Lister interface {
	Instances() []registry.Instance
	Locate(key string) (registry.Instance, bool)
}

// DialFunc opens an EvictionService client to a daemon. The returned func
// releases the connection.
type DialFunc func(target string) (pb.EvictionServiceClient, func() error, error)

func defaultDial(target string) (pb.EvictionServiceClient, func() error, error) {
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(pb.Codec{})),
	)
	if err != nil {
		return nil, nil, err
	}
	return pb.NewEvictionServiceClient(conn), conn.Close, nil
}

// Requester is the coordinator side of proactive eviction. Accepted requests
// are queued and delivered by a single background worker: one RPC per
// instance, fixed timeout, failures logged and dropped.
type Requester struct {
	log     hclog.Logger
	cluster Lister
	dial    DialFunc
	timeout time.Duration

	tasks chan *Request
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// Option configures a Requester.
type Option func(*Requester)

// WithDial replaces the grpc dialer, mainly for tests.
func WithDial(dial DialFunc) Option {
	return func(r *Requester) { r.dial = dial }
}

// WithTimeout sets the per-instance delivery timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Requester) { r.timeout = d }
}

// NewRequester creates a Requester and starts its delivery worker.
func NewRequester(log hclog.Logger, cluster Lister, opts ...Option) *Requester {
	r := &Requester{
		log:     log,
		cluster: cluster,
		dial:    defaultDial,
		timeout: 10 * time.Second,
		tasks:   make(chan *Request, 64),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Evict queues the request for delivery and returns immediately. A full
// queue drops the request: losing one is acceptable, the buffers age out
// anyway.
func (r *Requester) Evict(req *Request) error {
	if req == nil || req.IsEmpty() {
		return ErrNoEntities
	}
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	select {
	case r.tasks <- req:
		return nil
	default:
		r.log.Warn("eviction request queue full, dropping request")
		observability.EvictionRequestsTotal.WithLabelValues("dropped").Inc()
		return nil
	}
}

// Close delivers any queued requests and stops the worker.
func (r *Requester) Close() {
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
}

func (r *Requester) run() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			r.drain()
			return
		case req := <-r.tasks:
			r.send(req)
		}
	}
}

func (r *Requester) drain() {
	for {
		select {
		case req := <-r.tasks:
			r.send(req)
		default:
			return
		}
	}
}

func (r *Requester) send(req *Request) {
	targets := r.targets(req)
	if len(targets) == 0 {
		// Not running with any daemons registered.
		r.log.Debug("no instances registered, skipping eviction request")
		return
	}
	protoReqs := req.ToProto()

	var g errgroup.Group
	for _, inst := range targets {
		g.Go(func() error {
			if err := r.deliver(inst, protoReqs); err != nil {
				r.log.Warn("eviction request failed",
					"instance", inst.ID, "addr", inst.RPCAddr, "error", err)
				observability.EvictionRequestsTotal.WithLabelValues("error").Inc()
				return nil
			}
			observability.EvictionRequestsTotal.WithLabelValues("ok").Inc()
			return nil
		})
	}
	_ = g.Wait()
	r.log.Info("requested proactive eviction", "instances", len(targets))
}

func (r *Requester) deliver(inst registry.Instance, reqs []*pb.EvictEntityRequest) error {
	timer := prometheus.NewTimer(observability.EvictionDurationSeconds.WithLabelValues("request"))
	defer timer.ObserveDuration()

	client, release, err := r.dial(inst.RPCAddr)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	for _, req := range reqs {
		if _, err := client.EvictEntity(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// targets resolves the instances a request must reach. Single-partition
// requests go to the owning instance only; everything else is broadcast,
// since any instance may hold buffers of a db- or table-wide entity.
func (r *Requester) targets(req *Request) []registry.Instance {
	if db, table, spec, ok := req.SinglePartition(); ok {
		if inst, found := r.cluster.Locate(placementKey(db, table, spec)); found {
			return []registry.Instance{inst}
		}
	}
	return r.cluster.Instances()
}

func placementKey(db, table string, spec map[string]string) string {
	cols := make([]string, 0, len(spec))
	for col := range spec {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var sb strings.Builder
	sb.WriteString(db)
	sb.WriteByte('.')
	sb.WriteString(table)
	for _, col := range cols {
		sb.WriteByte('/')
		sb.WriteString(col)
		sb.WriteByte('=')
		sb.WriteString(spec[col])
	}
	return sb.String()
}
