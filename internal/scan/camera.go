package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/afero"
)

// ErrCameraStopped is returned when frames arrive after the camera stopped.
var ErrCameraStopped = errors.New("camera stopped")

// FrameCamera is a device fed by frames pushed from outside, typically
// images captured by the browser and posted to the server.
type FrameCamera struct {
	decoder FrameDecoder

	mu       sync.Mutex
	onDecode func(string)
	running  bool
	cleared  bool
}

// NewFrameCamera creates a camera that decodes pushed frames with d.
func NewFrameCamera(d FrameDecoder) *FrameCamera {
	return &FrameCamera{decoder: d}
}

// Start implements Device.
func (c *FrameCamera) Start(ctx context.Context, onDecode func(string)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cleared {
		return errors.New("camera already released")
	}
	c.onDecode = onDecode
	c.running = true
	return nil
}

// Push decodes one frame. A frame without a QR code is not an error; the
// camera keeps scanning.
func (c *FrameCamera) Push(frame []byte) error {
	c.mu.Lock()
	running, cb := c.running, c.onDecode
	c.mu.Unlock()
	if !running || cb == nil {
		return ErrCameraStopped
	}

	text, err := DecodeFrame(c.decoder, frame)
	if errors.Is(err, ErrNoCode) {
		return nil
	}
	if err != nil {
		return err
	}
	cb(text)
	return nil
}

// Stop implements Device.
func (c *FrameCamera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return errors.New("camera is not running")
	}
	c.running = false
	return nil
}

// Clear implements Device.
func (c *FrameCamera) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDecode = nil
	c.cleared = true
	return nil
}

// FileCamera replays image files as camera frames. It backs the CLI scan
// command and tests.
type FileCamera struct {
	fs      afero.Fs
	paths   []string
	decoder FrameDecoder
	logger  *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewFileCamera creates a camera over the given image paths.
func NewFileCamera(fs afero.Fs, d FrameDecoder, paths ...string) *FileCamera {
	return &FileCamera{
		fs:      fs,
		paths:   paths,
		decoder: d,
		logger:  slog.Default(),
		stop:    make(chan struct{}),
	}
}

// Start implements Device. Every path must exist before any frame is read.
func (c *FileCamera) Start(ctx context.Context, onDecode func(string)) error {
	if len(c.paths) == 0 {
		return errors.New("no frames to read")
	}
	for _, p := range c.paths {
		ok, err := afero.Exists(c.fs, p)
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		if !ok {
			return fmt.Errorf("frame %s does not exist", p)
		}
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for _, p := range c.paths {
			select {
			case <-c.stop:
				return
			case <-ctx.Done():
				return
			default:
			}
			data, err := afero.ReadFile(c.fs, p)
			if err != nil {
				c.logger.Warn("Failed to read frame", "path", p, "error", err)
				continue
			}
			text, err := DecodeFrame(c.decoder, data)
			if err != nil {
				c.logger.Debug("No code in frame", "path", p, "error", err)
				continue
			}
			onDecode(text)
		}
	}()
	return nil
}

// Stop implements Device.
func (c *FileCamera) Stop() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// Clear implements Device.
func (c *FileCamera) Clear() error {
	return nil
}

// Wait blocks until the frame reader has exited.
func (c *FileCamera) Wait() {
	c.wg.Wait()
}
