package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/internal/model"
)

// Session states.
const (
	StateIdle       = "idle"
	StateConnecting = "connecting"
	StateJoined     = "joined"
	StateClosed     = "closed"
)

const (
	eventStart  = "start"
	eventJoined = "joined"
	eventDrop   = "drop"
	eventStop   = "stop"
)

// ClientFactory builds the client for an identity. The session installs
// its own OnJoined and OnDrop hooks.
type ClientFactory func(id model.Identity, opts ClientOptions) *Client

// Session owns one identity's connection: it is created once the identity
// is known and torn down on identity change or logout.
type Session struct {
	newClient ClientFactory
	base      ClientOptions
	logger    *zap.Logger
	machine   *fsm.FSM

	mu       sync.Mutex
	handlers map[string]Handler
	identity *model.Identity
	client   *Client
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSession returns an idle Session. base is copied into every client;
// Rooms is filled from the identity.
func NewSession(base ClientOptions, factory ClientFactory, logger *zap.Logger) *Session {
	if factory == nil {
		factory = func(_ model.Identity, opts ClientOptions) *Client { return NewClient(opts, logger) }
	}
	s := &Session{
		newClient: factory,
		base:      base,
		logger:    logger.Named("notify.session"),
		handlers:  make(map[string]Handler),
	}
	s.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventStart, Src: []string{StateIdle, StateClosed}, Dst: StateConnecting},
			{Name: eventJoined, Src: []string{StateConnecting}, Dst: StateJoined},
			{Name: eventDrop, Src: []string{StateJoined}, Dst: StateConnecting},
			{Name: eventStop, Src: []string{StateConnecting, StateJoined}, Dst: StateClosed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.logger.Debug("session state", zap.String("from", e.Src), zap.String("to", e.Dst))
			},
		},
	)
	return s
}

// State is the current lifecycle state.
func (s *Session) State() string { return s.machine.Current() }

// Identity returns the identity the session was started for, if any.
func (s *Session) Identity() (model.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return model.Identity{}, false
	}
	return *s.identity, true
}

// Start connects for id. Calling Start on a running session is an error;
// use Switch.
func (s *Session) Start(ctx context.Context, id model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Event(ctx, eventStart); err != nil {
		return err
	}

	opts := s.base
	opts.Rooms = RoomsFor(id)
	opts.OnJoined = func() { s.fire(eventJoined) }
	opts.OnDrop = func(error) { s.fire(eventDrop) }

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	client := s.newClient(id, opts)
	for event, h := range s.handlers {
		client.On(event, h)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = client.Run(runCtx)
	}()

	s.identity = &id
	s.client = client
	s.cancel = cancel
	s.done = done
	return nil
}

// Switch tears the current connection down and starts one for id.
func (s *Session) Switch(ctx context.Context, id model.Identity) error {
	if err := s.Stop(); err != nil {
		return err
	}
	return s.Start(ctx, id)
}

// Stop closes the connection. Stopping an idle or closed session is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return nil
	}
	err := s.machine.Event(context.Background(), eventStop)
	s.cancel()
	<-s.done

	s.identity = nil
	s.client = nil
	s.cancel = nil
	s.done = nil

	var nte fsm.NoTransitionError
	if errors.As(err, &nte) {
		return nil
	}
	return err
}

// Emit sends a frame upstream while joined.
func (s *Session) Emit(event string, data interface{}) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil || s.State() != StateJoined {
		return ErrNotConnected
	}
	return client.Emit(event, data)
}

// On registers a handler for this and every later connection.
func (s *Session) On(event string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = h
	if s.client != nil {
		s.client.On(event, h)
	}
}

func (s *Session) fire(event string) {
	if err := s.machine.Event(context.Background(), event); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return // late hook after stop
		}
		s.logger.Debug("session event ignored", zap.String("event", event), zap.Error(err))
	}
}
