package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nfrund/vrcadmin/internal/domain"
)

// Device is a camera capable of reporting decoded QR text. Decodes may be
// reported from any goroutine and more than once.
type Device interface {
	Start(ctx context.Context, onDecode func(text string)) error
	Stop() error
	Clear() error
}

// Handle owns a started device. Release stops and clears the device at most
// once no matter how many paths call it.
type Handle struct {
	dev    Device
	logger *slog.Logger
	once   sync.Once
	mu     sync.Mutex
	done   bool
}

func newHandle(dev Device, logger *slog.Logger) *Handle {
	return &Handle{dev: dev, logger: logger}
}

// acquire starts the device. A start failure means the camera could not be
// opened; the handle is then already considered released.
func (h *Handle) acquire(ctx context.Context, onDecode func(string)) error {
	if err := h.dev.Start(ctx, onDecode); err != nil {
		h.once.Do(h.markDone)
		return fmt.Errorf("%w: %v", domain.ErrCameraUnavailable, err)
	}
	return nil
}

// Release stops then clears the device. Failures are logged, not returned.
func (h *Handle) Release() {
	h.once.Do(func() {
		if err := h.dev.Stop(); err != nil {
			h.logger.Warn("Scanner stop failed", "error", err)
		}
		if err := h.dev.Clear(); err != nil {
			h.logger.Warn("Scanner clear failed", "error", err)
		}
		h.markDone()
	})
}

func (h *Handle) markDone() {
	h.mu.Lock()
	h.done = true
	h.mu.Unlock()
}

// Released reports whether the device has been given up.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}
