// Package actor implements the Actor runtime (spec section 4.3): the
// lifecycle state machine, consumer/background task supervision, queue
// wiring, template parameter rendering, and per-queue function chains that
// every Wishbone module is built from. Grounded on the teacher's
// infrastructure/service.BaseService (worker/ticker-worker supervision,
// StopChan closed once via sync.Once) generalized from an HTTP service
// lifecycle to an event-pipeline actor lifecycle.
package actor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wishbone-run/wishbone/internal/event"
	"github.com/wishbone-run/wishbone/internal/queue"
	"github.com/wishbone-run/wishbone/internal/wberrors"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

// State is one of the three actor lifecycle states (spec section 4.3).
type State int32

const (
	StateInitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "INITIALIZED"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// backoff is the fixed restart delay for a failing background task (spec
// section 4.3, sendToBackground). A var, not a const, so tests can shrink
// it instead of sleeping for the real 2s.
var backoff = 2 * time.Second

// submitRetryDelay is the short sleep backpressured Submit waits between
// retries while the target queue reports QueueFull (spec section 5:
// "~100 ms sleep when the downstream queue is full").
const submitRetryDelay = 100 * time.Millisecond

// ConsumerFunc is the user-supplied per-event handler passed to
// RegisterConsumer.
type ConsumerFunc func(ctx context.Context, e *event.Event) error

// BackgroundFunc is a supervised long-running task passed to
// SendToBackground. It should return promptly when ctx is cancelled.
type BackgroundFunc func(ctx context.Context) error

// FunctionChainEntry is one step of a per-queue function chain (spec
// section 4.3 step 3): a named, already-resolved transform applied to an
// event's payload before the consumer's ConsumerFunc runs.
type FunctionChainEntry struct {
	Name string
	Fn   func(value any) (any, error)
}

// Protocol is the decode/encode collaborator shape an input/output module's
// configured protocol satisfies (spec section 4.4). Declared locally,
// rather than imported from internal/registry, because registry itself
// imports actor for the Module/ModuleFactory shapes; any registry.Protocol
// implementation satisfies this interface structurally without either
// package importing the other.
type Protocol interface {
	Decode(data []byte) ([]map[string]any, error)
	Encode(payload any) ([]byte, error)
}

type consumerRegistration struct {
	queueName string
	fn        ConsumerFunc
}

// Config bundles the construction-time settings of an actor: name, metrics
// frequency, the raw (pre-render) parameter record, function chains,
// lookups, and the resolved protocol. It carries no queue capacity: the
// reserved queues, and queues Connect or Submit create on demand, use
// queue.DefaultCapacity.
type Config struct {
	Name                     string
	MetricsFrequency         time.Duration
	Parameters               map[string]any
	DisableExceptionHandling bool
	FunctionChains           map[string][]FunctionChainEntry
	Lookups                  map[string]LookupFunc

	// ProtocolName, Protocol, and ProtocolEvent are the resolved form of a
	// module's `protocol:` declaration (spec section 4.4/4.8 step 2): the
	// router looks the name up against its instantiated protocols and hands
	// the instance plus its event-flag down here. Protocol is nil when the
	// module declared none, in which case DecodeInput/EncodeOutput fall back
	// to the passthrough-equivalent single {"raw": data} mapping.
	ProtocolName  string
	Protocol      Protocol
	ProtocolEvent bool
}

// Actor is the runtime unit every Wishbone module embeds: a QueuePool, a
// Logging handle bound to the `logs` queue, concurrent consumer/background
// tasks, and the INITIALIZED/RUNNING/STOPPED lifecycle.
type Actor struct {
	name   string
	pool   *queue.Pool
	logger *wblog.Logger

	cfg            Config
	compiledParams map[string]*Template

	state atomic.Int32

	mu               sync.Mutex
	consumers        []consumerRegistration
	backgroundTasks  []BackgroundFunc
	connectedSources map[string]bool

	runCtx    context.Context
	runCancel context.CancelFunc
	wg        sync.WaitGroup

	preHook  func() error
	postHook func() error

	collectors *wbmetrics.Collectors
}

// New constructs an Actor in the INITIALIZED state with its QueuePool
// pre-populated with the reserved logs/metrics/failed/success queues (spec
// section 4.2).
func New(cfg Config, logger *wblog.Logger, collectors *wbmetrics.Collectors) *Actor {
	if cfg.MetricsFrequency <= 0 {
		cfg.MetricsFrequency = 10 * time.Second
	}
	a := &Actor{
		name:             cfg.Name,
		pool:             queue.NewPool(cfg.Name),
		logger:           logger,
		cfg:              cfg,
		compiledParams:   CompileParams(cfg.Parameters),
		connectedSources: make(map[string]bool),
		collectors:       collectors,
	}
	a.state.Store(int32(StateInitialized))
	return a
}

// Name returns the actor's configured name.
func (a *Actor) Name() string { return a.name }

// Pool exposes the actor's QueuePool for router wiring and introspection.
func (a *Actor) Pool() *queue.Pool { return a.pool }

// State returns the actor's current lifecycle state.
func (a *Actor) State() State { return State(a.state.Load()) }

// SetHooks installs the preHook/postHook override points (spec section
// 4.3). Must be called before Start.
func (a *Actor) SetHooks(pre, post func() error) {
	a.preHook, a.postHook = pre, post
}

// RegisterConsumer starts a dedicated task, once the actor is running, that
// drains queueName and applies fn to each event (spec section 4.3). Must be
// called before Start.
func (a *Actor) RegisterConsumer(queueName string, fn ConsumerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.consumers = append(a.consumers, consumerRegistration{queueName: queueName, fn: fn})
}

// SendToBackground registers a supervised long-running task. Must be
// called before Start.
func (a *Actor) SendToBackground(fn BackgroundFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.backgroundTasks = append(a.backgroundTasks, fn)
}

// Connect wires localQueueName (an output queue owned by a) into other's
// named slot otherQueueName, implementing queue adoption (spec section
// 4.4/4.3). The local queue is auto-created on demand; per design-note open
// question (a) the destination queue is NOT auto-created -- it must already
// exist on other, or Connect fails. Each endpoint may be used in at most
// one connection (spec section 8 invariant 4): reusing a local source queue
// a second time, or adopting into an already-adopted destination name,
// returns QueueConnected.
func (a *Actor) Connect(localQueueName string, other *Actor, otherQueueName string) error {
	a.mu.Lock()
	if a.connectedSources[localQueueName] {
		a.mu.Unlock()
		return wberrors.QueueConnected(a.name, localQueueName)
	}
	a.connectedSources[localQueueName] = true
	a.mu.Unlock()

	localQueue := a.pool.CreateQueue(localQueueName, queue.DefaultCapacity)

	if !other.pool.HasQueue(otherQueueName) {
		a.mu.Lock()
		delete(a.connectedSources, localQueueName)
		a.mu.Unlock()
		return fmt.Errorf("actor %s: connect target %s.%s does not exist (explicit creation required)", a.name, other.name, otherQueueName)
	}

	if err := other.pool.Adopt(otherQueueName, localQueue); err != nil {
		a.mu.Lock()
		delete(a.connectedSources, localQueueName)
		a.mu.Unlock()
		return err
	}
	return nil
}

// emitLog pushes a LogRecord event onto this actor's logs queue, in addition
// to writing through the direct logrus logger, so the implicit _logs funnel
// (spec section 4.7) sees every diagnostic a module emits while it runs.
// The logs queue is fall-through (see queue.NewPool), so a stalled sink
// never backs up a consumer's hot path.
func (a *Actor) emitLog(sev event.Severity, message string) {
	q := a.pool.GetQueue("logs")
	if q != nil {
		_ = q.Put(event.New(event.NewLogRecord(sev, a.name, message).AsPayload()))
	}
}

// Submit is the producer-side backpressured send described in spec section
// 4.3: retries while the target queue reports QueueFull, sleeping briefly
// between attempts, and gives up once the actor has left the running state
// (bounding shutdown).
func (a *Actor) Submit(ctx context.Context, e *event.Event, queueName string) error {
	q := a.pool.GetQueue(queueName)
	if q == nil {
		q = a.pool.CreateQueue(queueName, queue.DefaultCapacity)
	}
	for {
		err := q.Put(e)
		if err == nil {
			return nil
		}
		if !wberrors.IsCode(err, wberrors.CodeQueueFull) {
			return err
		}
		if a.State() != StateRunning {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(submitRetryDelay):
		}
	}
}

// DecodeInput turns wire bytes into zero or more Events through the
// actor's configured protocol (spec section 4.4): when the protocol
// carries full-event payloads (ProtocolEvent), each decoded mapping is
// slurped into an Event as-is, failing with InvalidEventFormat on an
// invalid shape; otherwise each decoded mapping is wrapped fresh under
// "data". With no protocol configured, decode falls back to the
// passthrough-equivalent single {"raw": data} mapping.
func (a *Actor) DecodeInput(data []byte) ([]*event.Event, error) {
	var payloads []map[string]any
	if a.cfg.Protocol != nil {
		var err error
		payloads, err = a.cfg.Protocol.Decode(data)
		if err != nil {
			return nil, err
		}
	} else {
		payloads = []map[string]any{{"raw": data}}
	}

	events := make([]*event.Event, 0, len(payloads))
	for _, p := range payloads {
		if a.cfg.ProtocolEvent {
			e, err := event.Slurp(p)
			if err != nil {
				return nil, err
			}
			events = append(events, e)
		} else {
			events = append(events, event.New(p))
		}
	}
	return events, nil
}

// EncodeOutput is the symmetric output-side operation (spec section 4.4):
// it encodes e's full reserved-key mapping when ProtocolEvent, otherwise
// just its "data" value, through the configured protocol. With no protocol
// configured, encode falls back to the passthrough-equivalent unwrap of a
// {"raw": ...} mapping.
func (a *Actor) EncodeOutput(e *event.Event) ([]byte, error) {
	var payload any
	if a.cfg.ProtocolEvent {
		payload = e.Dump()
	} else {
		payload, _ = e.Get("data")
	}

	if a.cfg.Protocol != nil {
		return a.cfg.Protocol.Encode(payload)
	}

	m, ok := payload.(map[string]any)
	if !ok {
		return nil, wberrors.ProtocolError("encode", nil).WithDetail("reason", "payload is not a mapping")
	}
	switch raw := m["raw"].(type) {
	case []byte:
		return raw, nil
	case string:
		return []byte(raw), nil
	default:
		return nil, wberrors.ProtocolError("encode", nil).WithDetail("reason", "payload has no \"raw\" bytes")
	}
}

// Start transitions the actor from INITIALIZED to RUNNING: it validates
// that every queue referenced by a per-queue function chain has a
// registered consumer (failing fatally with ModuleInitFailure otherwise),
// fires preHook, then spawns the consumer tasks, background tasks, and
// metric producer.
func (a *Actor) Start(ctx context.Context) error {
	if a.State() != StateInitialized {
		return fmt.Errorf("actor %s: start called from state %s", a.name, a.State())
	}

	if err := a.validateFunctionChains(); err != nil {
		return err
	}

	if a.preHook != nil {
		if err := a.preHook(); err != nil {
			return wberrors.ModuleInitFailure(a.name, err.Error())
		}
	}

	a.runCtx, a.runCancel = context.WithCancel(ctx)
	a.state.Store(int32(StateRunning))
	if a.collectors != nil {
		a.collectors.SetActorState(a.name, wbmetrics.ActorStateRunning)
	}

	a.mu.Lock()
	consumers := append([]consumerRegistration(nil), a.consumers...)
	background := append([]BackgroundFunc(nil), a.backgroundTasks...)
	a.mu.Unlock()

	for _, c := range consumers {
		a.wg.Add(1)
		go a.runConsumer(c)
	}
	for _, fn := range background {
		a.wg.Add(1)
		go a.runBackground(fn)
	}

	a.wg.Add(1)
	go a.runMetricProducer()

	return nil
}

func (a *Actor) validateFunctionChains() error {
	consumerQueues := make(map[string]bool, len(a.consumers))
	for _, c := range a.consumers {
		consumerQueues[c.queueName] = true
	}
	for queueName := range a.cfg.FunctionChains {
		if !consumerQueues[queueName] {
			return wberrors.ModuleInitFailure(a.name, fmt.Sprintf("function chain declared on queue %q with no registered consumer", queueName))
		}
	}
	return nil
}

// Stop transitions the actor to STOPPED: it clears the run flag so
// consumers and background tasks exit at their next check, cancels the run
// context so blocked queue.Get calls unblock, waits for every task to
// return, then fires postHook.
func (a *Actor) Stop() error {
	if a.State() != StateRunning {
		return nil
	}
	a.state.Store(int32(StateStopped))
	if a.collectors != nil {
		a.collectors.SetActorState(a.name, wbmetrics.ActorStateStopped)
	}
	if a.runCancel != nil {
		a.runCancel()
	}
	a.wg.Wait()

	if a.postHook != nil {
		return a.postHook()
	}
	return nil
}
