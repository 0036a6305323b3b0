package scan

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeDevice struct {
	startErr error
	stopErr  error
	starts   atomic.Int32
	stops    atomic.Int32
	clears   atomic.Int32

	mu       sync.Mutex
	onDecode func(string)
}

func (d *fakeDevice) Start(ctx context.Context, onDecode func(string)) error {
	d.starts.Add(1)
	if d.startErr != nil {
		return d.startErr
	}
	d.mu.Lock()
	d.onDecode = onDecode
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) Stop() error {
	d.stops.Add(1)
	return d.stopErr
}

func (d *fakeDevice) Clear() error {
	d.clears.Add(1)
	return nil
}

func (d *fakeDevice) fire(text string) {
	d.mu.Lock()
	cb := d.onDecode
	d.mu.Unlock()
	cb(text)
}

type fakeVerifier struct {
	mu    sync.Mutex
	ids   []string
	reply domain.Verification
	err   error
}

func (v *fakeVerifier) Verify(ctx context.Context, id string) (domain.Verification, error) {
	v.mu.Lock()
	v.ids = append(v.ids, id)
	v.mu.Unlock()
	return v.reply, v.err
}

func (v *fakeVerifier) calls() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.ids...)
}

func waitOutcome(t *testing.T, s *Session) Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	o, err := s.Wait(ctx)
	require.NoError(t, err)
	return o
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantMsg string
	}{
		{name: "verify link", text: "https://vrc.example.com/verify/abc123", want: "abc123"},
		{name: "query ignored", text: "https://vrc.example.com/u/abc123?src=badge", want: "abc123"},
		{name: "escaped slash stays in id", text: "https://vrc.example.com/verify/a%2Fb", want: "a/b"},
		{name: "escaped space", text: "https://vrc.example.com/verify/abc%20123", want: "abc 123"},
		{name: "not a url", text: "just some text", wantMsg: MsgInvalidQRCode},
		{name: "trailing slash", text: "https://vrc.example.com/verify/", wantMsg: MsgInvalidQRFormat},
		{name: "host only", text: "https://vrc.example.com", wantMsg: MsgInvalidQRFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractID(tt.text)
			if tt.wantMsg != "" {
				var fe *FormatError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantMsg, fe.Message)
				assert.ErrorIs(t, err, domain.ErrInvalidQRCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSession_VerifiesFirstDecodeOnce(t *testing.T) {
	dev := &fakeDevice{}
	ver := &fakeVerifier{reply: domain.Verification{Message: "Attendance marked for Rama"}}
	m := NewManager(ver)
	defer m.CloseAll()

	s, err := m.Open(dev)
	require.NoError(t, err)
	assert.Equal(t, StateScanning, s.State())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dev.fire("https://vrc.example.com/verify/abc123")
		}()
	}
	wg.Wait()

	o := waitOutcome(t, s)
	assert.True(t, o.OK)
	assert.Equal(t, "Attendance marked for Rama", o.Message)
	assert.Equal(t, []string{"abc123"}, ver.calls())
	assert.EqualValues(t, 1, dev.stops.Load())
	assert.EqualValues(t, 1, dev.clears.Load())
	assert.True(t, s.Released())
}

func TestSession_InvalidTextSkipsVerification(t *testing.T) {
	dev := &fakeDevice{}
	ver := &fakeVerifier{}
	m := NewManager(ver)
	defer m.CloseAll()

	s, err := m.Open(dev)
	require.NoError(t, err)
	dev.fire("not a url at all")

	o := waitOutcome(t, s)
	assert.False(t, o.OK)
	assert.Equal(t, FailureFormat, o.Kind)
	assert.Equal(t, MsgInvalidQRCode, o.Message)
	assert.Empty(t, ver.calls())
	assert.Equal(t, StateSettled, s.State())
}

func TestSession_CameraStartFailure(t *testing.T) {
	dev := &fakeDevice{startErr: errors.New("permission denied")}
	ver := &fakeVerifier{}
	m := NewManager(ver)
	defer m.CloseAll()

	s, err := m.Open(dev)
	require.NoError(t, err)

	o := waitOutcome(t, s)
	assert.Equal(t, FailureCamera, o.Kind)
	assert.Equal(t, MsgCameraError, o.Message)
	assert.EqualValues(t, 0, dev.stops.Load())

	s.Close()
	assert.EqualValues(t, 0, dev.stops.Load(), "a camera that never started is never stopped")
}

func TestSession_FailCamera(t *testing.T) {
	dev := &fakeDevice{}
	m := NewManager(&fakeVerifier{})
	defer m.CloseAll()

	s, err := m.Open(dev)
	require.NoError(t, err)
	s.FailCamera("NotAllowedError")
	s.FailCamera("again")

	o := waitOutcome(t, s)
	assert.Equal(t, FailureCamera, o.Kind)
	assert.EqualValues(t, 1, dev.stops.Load())
}

func TestSession_VerificationOutcomes(t *testing.T) {
	t.Run("server rejects", func(t *testing.T) {
		dev := &fakeDevice{}
		ver := &fakeVerifier{err: &backend.APIError{Status: http.StatusNotFound, Message: "Volunteer not found"}}
		m := NewManager(ver)
		defer m.CloseAll()

		s, err := m.Open(dev)
		require.NoError(t, err)
		dev.fire("https://vrc.example.com/verify/zzz")

		o := waitOutcome(t, s)
		assert.Equal(t, FailureVerification, o.Kind)
		assert.Equal(t, "Volunteer not found", o.Message)
		assert.Equal(t, "zzz", o.VolunteerID)
	})

	t.Run("server rejects without message", func(t *testing.T) {
		dev := &fakeDevice{}
		ver := &fakeVerifier{err: &backend.APIError{Status: http.StatusBadRequest}}
		m := NewManager(ver)
		defer m.CloseAll()

		s, err := m.Open(dev)
		require.NoError(t, err)
		dev.fire("https://vrc.example.com/verify/zzz")

		assert.Equal(t, MsgVerificationFailed, waitOutcome(t, s).Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		dev := &fakeDevice{}
		ver := &fakeVerifier{err: errors.New("dial tcp: connection refused")}
		m := NewManager(ver)
		defer m.CloseAll()

		s, err := m.Open(dev)
		require.NoError(t, err)
		dev.fire("https://vrc.example.com/verify/zzz")

		o := waitOutcome(t, s)
		assert.Equal(t, FailureNetwork, o.Kind)
		assert.Equal(t, MsgNetworkError, o.Message)
	})
}

func TestSession_StopFailureIsNotFatal(t *testing.T) {
	dev := &fakeDevice{stopErr: errors.New("already stopped")}
	ver := &fakeVerifier{reply: domain.Verification{Message: "ok"}}
	m := NewManager(ver)
	defer m.CloseAll()

	s, err := m.Open(dev)
	require.NoError(t, err)
	dev.fire("https://vrc.example.com/verify/abc123")

	o := waitOutcome(t, s)
	assert.True(t, o.OK)
	assert.EqualValues(t, 1, dev.clears.Load())
}

func TestSession_TeardownReleasesOnce(t *testing.T) {
	dev := &fakeDevice{}
	ver := &fakeVerifier{}
	var settled atomic.Int32
	m := NewManager(ver, WithSettleHook(func(Outcome) { settled.Add(1) }))
	defer m.CloseAll()

	s, err := m.Open(dev)
	require.NoError(t, err)
	require.NoError(t, m.Close(s.ID))

	dev.fire("https://vrc.example.com/verify/abc123")
	s.Close()

	o := waitOutcome(t, s)
	assert.Equal(t, FailureCancelled, o.Kind)
	assert.Empty(t, ver.calls())
	assert.EqualValues(t, 1, dev.stops.Load())
	assert.EqualValues(t, 1, dev.clears.Load())
	assert.EqualValues(t, 1, settled.Load())

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

type blockingVerifier struct {
	entered chan struct{}
	release chan struct{}
}

func (v *blockingVerifier) Verify(ctx context.Context, id string) (domain.Verification, error) {
	close(v.entered)
	select {
	case <-v.release:
		return domain.Verification{Message: "ok"}, nil
	case <-ctx.Done():
		return domain.Verification{}, ctx.Err()
	}
}

func TestManager_EvictsAbandonedSession(t *testing.T) {
	ver := &fakeVerifier{}
	m := NewManager(ver, WithMaxSessions(1))
	defer m.CloseAll()

	dev := &fakeDevice{}
	first, err := m.Open(dev)
	require.NoError(t, err)

	second, err := m.Open(&fakeDevice{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, m.Len())

	o := waitOutcome(t, first)
	assert.Equal(t, FailureCancelled, o.Kind)
	assert.True(t, first.Released())
	assert.EqualValues(t, 1, dev.stops.Load())
	assert.Empty(t, ver.calls())

	_, err = m.Get(first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_PrefersSettledSessionForEviction(t *testing.T) {
	m := NewManager(&fakeVerifier{}, WithMaxSessions(2))
	defer m.CloseAll()

	scanning, err := m.Open(&fakeDevice{})
	require.NoError(t, err)
	done := &fakeDevice{}
	settled, err := m.Open(done)
	require.NoError(t, err)
	done.fire("bad")
	waitOutcome(t, settled)

	_, err = m.Open(&fakeDevice{})
	require.NoError(t, err)

	_, err = m.Get(scanning.ID)
	assert.NoError(t, err)
	_, err = m.Get(settled.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, StateScanning, scanning.State())
}

func TestManager_BusyWhileVerifying(t *testing.T) {
	ver := &blockingVerifier{entered: make(chan struct{}), release: make(chan struct{})}
	m := NewManager(ver, WithMaxSessions(1))
	defer m.CloseAll()

	dev := &fakeDevice{}
	first, err := m.Open(dev)
	require.NoError(t, err)
	go dev.fire("https://vrc.example.com/verify/abc123")
	<-ver.entered

	_, err = m.Open(&fakeDevice{})
	assert.ErrorIs(t, err, ErrTooManySessions)

	close(ver.release)
	o := waitOutcome(t, first)
	assert.True(t, o.OK)

	_, err = m.Open(&fakeDevice{})
	assert.NoError(t, err)
}

func TestManager_CloseAll(t *testing.T) {
	m := NewManager(&fakeVerifier{})
	devs := []*fakeDevice{{}, {}, {}}
	var sessions []*Session
	for _, d := range devs {
		s, err := m.Open(d)
		require.NoError(t, err)
		sessions = append(sessions, s)
	}

	m.CloseAll()

	assert.Equal(t, 0, m.Len())
	for i, s := range sessions {
		assert.Equal(t, StateSettled, s.State())
		assert.EqualValues(t, 1, devs[i].stops.Load())
	}
}

func qrPNG(t *testing.T, text string) []byte {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))
	return buf.Bytes()
}

func blankPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFrameCamera_DecodesPushedFrames(t *testing.T) {
	cam := NewFrameCamera(NewQRDecoder())
	ver := &fakeVerifier{reply: domain.Verification{Message: "verified"}}
	m := NewManager(ver)
	defer m.CloseAll()

	s, err := m.Open(cam)
	require.NoError(t, err)

	require.NoError(t, cam.Push(blankPNG(t)))
	assert.Equal(t, StateScanning, s.State())

	require.NoError(t, cam.Push(qrPNG(t, "https://vrc.example.com/verify/abc123")))
	o := waitOutcome(t, s)
	assert.True(t, o.OK)
	assert.Equal(t, []string{"abc123"}, ver.calls())

	assert.ErrorIs(t, cam.Push(qrPNG(t, "https://vrc.example.com/verify/other")), ErrCameraStopped)
	assert.Len(t, ver.calls(), 1)
}

func TestFileCamera(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "frames/0.png", blankPNG(t), 0o644))
	require.NoError(t, afero.WriteFile(fs, "frames/1.png", qrPNG(t, "https://vrc.example.com/verify/abc123"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "frames/2.png", qrPNG(t, "https://vrc.example.com/verify/abc123"), 0o644))

	t.Run("first code wins", func(t *testing.T) {
		cam := NewFileCamera(fs, NewQRDecoder(), "frames/0.png", "frames/1.png", "frames/2.png")
		ver := &fakeVerifier{reply: domain.Verification{Message: "verified"}}
		m := NewManager(ver)
		defer m.CloseAll()

		s, err := m.Open(cam)
		require.NoError(t, err)
		o := waitOutcome(t, s)
		cam.Wait()

		assert.True(t, o.OK)
		assert.Equal(t, []string{"abc123"}, ver.calls())
	})

	t.Run("missing frame is a camera failure", func(t *testing.T) {
		cam := NewFileCamera(fs, NewQRDecoder(), "frames/missing.png")
		m := NewManager(&fakeVerifier{})
		defer m.CloseAll()

		s, err := m.Open(cam)
		require.NoError(t, err)
		assert.Equal(t, FailureCamera, waitOutcome(t, s).Kind)
	})
}
