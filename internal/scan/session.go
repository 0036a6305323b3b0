package scan

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/domain"
)

// Verifier confirms a volunteer's attendance by id.
type Verifier interface {
	Verify(ctx context.Context, id string) (domain.Verification, error)
}

// Session is one camera-active period, from start to the first decode or
// teardown. Only the first decode is processed.
type Session struct {
	ID        string
	StartedAt time.Time

	verifier Verifier
	logger   *slog.Logger
	onSettle func(Outcome)

	ctx    context.Context
	cancel context.CancelFunc

	// claimed is set by whichever of decode, camera failure or teardown
	// gets there first; everything after it is dropped.
	claimed atomic.Bool
	handle  *Handle

	mu      sync.Mutex
	state   State
	outcome Outcome
	done    chan struct{}
}

func newSession(ctx context.Context, id string, v Verifier, logger *slog.Logger, onSettle func(Outcome)) *Session {
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
		verifier:  v,
		logger:    logger.With("scan_session", id),
		onSettle:  onSettle,
		ctx:       ctx,
		cancel:    cancel,
		state:     StateIdle,
		done:      make(chan struct{}),
	}
}

// start acquires the device. A camera that cannot be started settles the
// session with a camera failure.
func (s *Session) start(dev Device) error {
	s.handle = newHandle(dev, s.logger)
	s.setState(StateScanning)
	if err := s.handle.acquire(s.ctx, s.handleDecode); err != nil {
		s.logger.Error("Scanner start failed", "error", err)
		if s.claimed.CompareAndSwap(false, true) {
			s.settle(Outcome{Kind: FailureCamera, Message: MsgCameraError})
		}
		return err
	}
	return nil
}

// FailCamera settles a session whose camera was refused after start, such
// as a browser denying permission.
func (s *Session) FailCamera(reason string) {
	if !s.claimed.CompareAndSwap(false, true) {
		return
	}
	s.logger.Warn("Camera reported failure", "reason", reason)
	if s.handle != nil {
		s.handle.Release()
	}
	s.settle(Outcome{Kind: FailureCamera, Message: MsgCameraError})
}

func (s *Session) handleDecode(text string) {
	if !s.claimed.CompareAndSwap(false, true) {
		return
	}
	s.setState(StateDecoding)
	s.handle.Release()

	id, err := ExtractID(text)
	if err != nil {
		msg := MsgInvalidQRCode
		var fe *FormatError
		if errors.As(err, &fe) {
			msg = fe.Message
		}
		s.logger.Warn("Decoded text is not a volunteer link", "error", err)
		s.settle(Outcome{Kind: FailureFormat, Message: msg})
		return
	}

	s.setState(StateVerifying)
	v, err := s.verifier.Verify(s.ctx, id)
	switch {
	case err == nil:
		s.settle(Outcome{OK: true, Kind: FailureNone, Message: v.Message, VolunteerID: id})
	case s.ctx.Err() != nil:
		s.settle(Outcome{Kind: FailureCancelled, Message: MsgCancelled, VolunteerID: id})
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			s.settle(Outcome{Kind: FailureVerification, Message: backend.MessageOf(err, MsgVerificationFailed), VolunteerID: id})
			return
		}
		s.logger.Error("Verification request failed", "error", err)
		s.settle(Outcome{Kind: FailureNetwork, Message: MsgNetworkError, VolunteerID: id})
	}
}

// Close tears the session down. The device is released if it has not been
// already, and a session that never decoded settles as cancelled.
func (s *Session) Close() {
	claimed := s.claimed.CompareAndSwap(false, true)
	if s.handle != nil {
		s.handle.Release()
	}
	s.cancel()
	if claimed {
		s.settle(Outcome{Kind: FailureCancelled, Message: MsgCancelled})
	}
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) settle(o Outcome) {
	o.SessionID = s.ID
	o.At = time.Now()
	s.mu.Lock()
	if s.state == StateSettled {
		s.mu.Unlock()
		return
	}
	s.state = StateSettled
	s.outcome = o
	close(s.done)
	s.mu.Unlock()

	s.logger.Info("Scan settled", "ok", o.OK, "kind", o.Kind.String(), "volunteer_id", o.VolunteerID)
	if s.onSettle != nil {
		s.onSettle(o)
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome returns the result once the session has settled.
func (s *Session) Outcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome, s.state == StateSettled
}

// Done is closed when the session settles.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session settles or ctx ends.
func (s *Session) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-s.done:
		o, _ := s.Outcome()
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Released reports whether the device has been given up.
func (s *Session) Released() bool {
	return s.handle != nil && s.handle.Released()
}
