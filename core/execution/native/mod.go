// Package native implements the host service that executes the contracts
// packaged with the application.
//
// The service is an explicit registration table built at startup: each
// contract is registered with its identifier and the commands and queries are
// routed by identifier. The service linearizes the calls so that a query
// always observes the state either before or after a command, never during.
//
// Documentation Last Review: 16.10.2026
//
package native

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.dedis.ch/confidential"
	"go.dedis.ch/confidential/core"
	"go.dedis.ch/confidential/core/account"
	"go.dedis.ch/confidential/core/execution"
	"go.dedis.ch/confidential/core/origin"
	"go.dedis.ch/confidential/core/store/kv"
	"go.dedis.ch/confidential/core/txn"
	"go.dedis.ch/confidential/serde"
	"go.dedis.ch/confidential/serde/json"
	"golang.org/x/xerrors"
)

const (
	bucketPrefix = "contract:"

	originSigned    = "signed"
	originAnonymous = "anonymous"
)

// defines prometheus metrics
var (
	promCommands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "confidential_native_commands_total",
		Help: "total number of commands executed by contract and status",
	}, []string{"contract", "status"})

	promQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "confidential_native_queries_total",
		Help: "total number of queries executed by contract and origin",
	}, []string{"contract", "origin"})
)

func init() {
	confidential.PromCollectors = append(confidential.PromCollectors,
		promCommands, promQueries)
}

// Service is the execution service of the native contracts.
type Service struct {
	sync.RWMutex

	contracts map[execution.ContractID]execution.Contract
	context   serde.Context
	tracer    opentracing.Tracer
	watcher   *core.Watcher
	verifier  *origin.Verifier
	logger    zerolog.Logger
}

type config struct {
	context  serde.Context
	tracer   opentracing.Tracer
	verifier *origin.Verifier
}

// ServiceOption is the type of option to change the default configuration of
// the service.
type ServiceOption func(*config)

// WithContext sets the serialization context of the messages. The default is
// JSON.
func WithContext(ctx serde.Context) ServiceOption {
	return func(cfg *config) {
		cfg.context = ctx
	}
}

// WithTracer sets the tracer used to record a span per command and query. The
// default is the global tracer of opentracing.
func WithTracer(tracer opentracing.Tracer) ServiceOption {
	return func(cfg *config) {
		cfg.tracer = tracer
	}
}

// WithVerifier sets the verifier of the signed queries. The default accepts
// each signed envelope once before its expiry.
func WithVerifier(v *origin.Verifier) ServiceOption {
	return func(cfg *config) {
		cfg.verifier = v
	}
}

// NewExecution returns a new native execution without any contract.
func NewExecution(opts ...ServiceOption) *Service {
	cfg := config{
		context:  json.NewContext(),
		tracer:   opentracing.GlobalTracer(),
		verifier: origin.NewVerifier(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Service{
		contracts: map[execution.ContractID]execution.Contract{},
		context:   cfg.context,
		tracer:    cfg.tracer,
		watcher:   core.NewWatcher(),
		verifier:  cfg.verifier,
		logger:    confidential.Logger.With().Str("role", "native").Logger(),
	}
}

// GetContext returns the serialization context of the service.
func (ns *Service) GetContext() serde.Context {
	return ns.context
}

// Set registers the contract with its identifier. Registering two contracts
// with the same identifier is a programming error and it panics.
func (ns *Service) Set(contract execution.Contract) {
	ns.Lock()
	defer ns.Unlock()

	id := contract.ID()

	_, found := ns.contracts[id]
	if found {
		panic(xerrors.Errorf("contract '%v' already registered", id))
	}

	ns.contracts[id] = contract
}

// Watch adds an observer notified of every executed command, after the
// command has been applied. The observer must not call the service back.
func (ns *Service) Watch(obs core.Observer) {
	ns.watcher.Add(obs)
}

// Unwatch removes the observer.
func (ns *Service) Unwatch(obs core.Observer) {
	ns.watcher.Remove(obs)
}

// Get returns the contract registered with the identifier, or nil.
func (ns *Service) Get(id execution.ContractID) execution.Contract {
	ns.RLock()
	defer ns.RUnlock()

	return ns.contracts[id]
}

// Execute applies the command of the origin to the contract. A command for an
// unknown contract is rejected with a status so that the transaction log
// records it.
func (ns *Service) Execute(origin account.ID, ref txn.Ref, id execution.ContractID,
	data []byte) execution.Result {

	ns.Lock()
	defer ns.Unlock()

	span := ns.tracer.StartSpan("native.command")
	span.SetTag("contract", id.String())
	span.SetTag("txref", ref.String())
	defer span.Finish()

	res := execution.Result{}

	contract := ns.contracts[id]
	if contract == nil {
		res.Status = execution.StatusBadContract
		res.Message = fmt.Sprintf("unknown contract '%v'", id)
	} else {
		res.Status = contract.HandleCommand(ns.context, origin, ref, data)
		if !res.Status.Accepted() {
			res.Message = fmt.Sprintf("command rejected: %v", res.Status)
		}
	}

	span.SetTag("status", res.Status.String())
	promCommands.WithLabelValues(label(id), res.Status.String()).Inc()

	ns.logger.Debug().
		Stringer("contract", id).
		Stringer("txref", ref).
		Stringer("status", res.Status).
		Msg("command executed")

	ns.watcher.Notify(execution.Event{
		Contract: id,
		Origin:   origin,
		Ref:      ref,
		Result:   res,
	})

	return res
}

// Query runs the request of the optional origin on the contract and returns
// the response.
func (ns *Service) Query(origin *account.ID, id execution.ContractID, data []byte) ([]byte, error) {
	ns.RLock()
	defer ns.RUnlock()

	span := ns.tracer.StartSpan("native.query")
	span.SetTag("contract", id.String())
	defer span.Finish()

	contract := ns.contracts[id]
	if contract == nil {
		return nil, xerrors.Errorf("unknown contract '%v'", id)
	}

	kind := originAnonymous
	if origin != nil {
		kind = originSigned
	}

	span.SetTag("origin", kind)
	promQueries.WithLabelValues(label(id), kind).Inc()

	resp, err := contract.HandleQuery(ns.context, origin, data)
	if err != nil {
		return nil, xerrors.Errorf("query failed: %v", err)
	}

	return resp, nil
}

// QuerySigned verifies the origin of the envelope and runs the query. An
// unsigned envelope runs as an anonymous query. A signed envelope is rejected
// once expired or when it has already been used.
func (ns *Service) QuerySigned(env origin.Envelope) ([]byte, error) {
	from, err := ns.verifier.Verify(env)
	if err != nil {
		return nil, xerrors.Errorf("failed to authenticate: %v", err)
	}

	return ns.Query(from, env.Contract, env.Payload)
}

// Checkpoint saves the state of every persistent contract to the database.
// Each contract is written in its own bucket, replaced atomically.
func (ns *Service) Checkpoint(db kv.DB) error {
	ns.RLock()
	defer ns.RUnlock()

	for _, id := range ns.sortedIDs() {
		p, ok := ns.contracts[id].(execution.Persistent)
		if !ok {
			continue
		}

		err := db.Reset(bucketName(id), func(b kv.Bucket) error {
			return p.Save(b)
		})
		if err != nil {
			return xerrors.Errorf("failed to checkpoint '%v': %v", id, err)
		}

		ns.logger.Debug().Stringer("contract", id).Msg("checkpoint saved")
	}

	return nil
}

// Restore loads the state of every persistent contract from the database. A
// contract without checkpoint keeps its current state.
func (ns *Service) Restore(db kv.DB) error {
	ns.Lock()
	defer ns.Unlock()

	for _, id := range ns.sortedIDs() {
		p, ok := ns.contracts[id].(execution.Persistent)
		if !ok {
			continue
		}

		name := bucketName(id)

		found, err := db.HasBucket(name)
		if err != nil {
			return xerrors.Errorf("failed to read database: %v", err)
		}

		if !found {
			continue
		}

		err = db.View(name, func(b kv.Bucket) error {
			return p.Load(b)
		})
		if err != nil {
			return xerrors.Errorf("failed to restore '%v': %v", id, err)
		}

		ns.logger.Debug().Stringer("contract", id).Msg("checkpoint restored")
	}

	return nil
}

func (ns *Service) sortedIDs() []execution.ContractID {
	ids := make([]execution.ContractID, 0, len(ns.contracts))
	for id := range ns.contracts {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func bucketName(id execution.ContractID) []byte {
	name := make([]byte, len(bucketPrefix)+4)
	copy(name, bucketPrefix)
	binary.BigEndian.PutUint32(name[len(bucketPrefix):], uint32(id))

	return name
}

func label(id execution.ContractID) string {
	return strconv.FormatUint(uint64(id), 10)
}
