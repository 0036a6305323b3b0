package scanner

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/registry"
	"github.com/nfrund/vrcadmin/internal/scan"
	"github.com/nfrund/vrcadmin/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textDecoder reports the same QR text for every readable frame.
type textDecoder string

func (d textDecoder) Decode(image.Image) (string, error) {
	if d == "" {
		return "", scan.ErrNoCode
	}
	return string(d), nil
}

var sessionPattern = regexp.MustCompile(`data-session="([^"]+)"`)

func pngFrame(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func setup(t *testing.T, decoder scan.FrameDecoder) (*Module, *testutils.FakeBackend, http.Handler) {
	t.Helper()
	fake := testutils.NewFakeBackend(t)
	fake.JSON("GET /verify/abc123", http.StatusOK, domain.Verification{Message: "Attendance verified"})

	scans := scan.NewManager(fake.Client(t), scan.WithMaxSessions(2))
	m := New(Dependencies{Scans: scans, Decoder: decoder, MaxFrameBytes: 1 << 16})
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	e := testutils.NewEcho()
	require.NoError(t, m.Boot(context.Background(), e.Group(""), nil))
	return m, fake, e
}

func openSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, basePath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/scan.js")
	match := sessionPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2)
	return match[1]
}

func postFrame(h http.Handler, id string, frame []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, basePath+"/"+id+"/frame", bytes.NewReader(frame))
	req.Header.Set("Content-Type", "image/png")
	h.ServeHTTP(rec, req)
	return rec
}

func TestScanVerifiesFirstCode(t *testing.T) {
	_, fake, h := setup(t, textDecoder("https://vrc.example/verify/abc123"))
	id := openSession(t, h)

	rec := postFrame(h, id, pngFrame(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Scan Successful")
	assert.Contains(t, rec.Body.String(), "Attendance verified")
	assert.Contains(t, rec.Body.String(), "Scan Another")

	rec = postFrame(h, id, pngFrame(t))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fake.Count(http.MethodGet, "/verify/abc123"))
}

func TestScanKeepsScanningWithoutCode(t *testing.T) {
	_, fake, h := setup(t, textDecoder(""))
	id := openSession(t, h)

	rec := postFrame(h, id, pngFrame(t))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = postFrame(h, id, []byte("not an image"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, fake.Count(http.MethodGet, "/verify/abc123"))
}

func TestScanRejectsBadLink(t *testing.T) {
	_, fake, h := setup(t, textDecoder("hello"))
	id := openSession(t, h)

	rec := postFrame(h, id, pngFrame(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid QR Code")
	assert.Equal(t, 0, fake.Count(http.MethodGet, "/verify/hello"))
}

func TestScanCameraError(t *testing.T) {
	m, _, h := setup(t, textDecoder("https://vrc.example/verify/abc123"))
	id := openSession(t, h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, basePath+"/"+id+"/camera-error", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), scan.MsgCameraError)

	rec = postFrame(h, id, pngFrame(t))
	assert.Contains(t, rec.Body.String(), "Camera Error")
	assert.Nil(t, m.camera(id))
}

func TestScanClose(t *testing.T) {
	m, _, h := setup(t, textDecoder(""))
	id := openSession(t, h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, basePath+"/"+id+"/close", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, m.deps.Scans.Len())

	rec = postFrame(h, id, pngFrame(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanReclaimsAbandonedSession(t *testing.T) {
	m, _, h := setup(t, textDecoder(""))
	first := openSession(t, h)
	second := openSession(t, h)

	third := openSession(t, h)
	assert.NotEqual(t, second, third)
	assert.Equal(t, 2, m.deps.Scans.Len())
	assert.Nil(t, m.camera(first), "the oldest unfinished session gives up its slot")

	rec := postFrame(h, first, pngFrame(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = postFrame(h, second, pngFrame(t))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestScanUsesRegisteredManager(t *testing.T) {
	fake := testutils.NewFakeBackend(t)
	scans := scan.NewManager(fake.Client(t), scan.WithMaxSessions(2))
	reg := registry.New(nil)
	registry.Set(reg, registry.ScanManagerKey, scans)

	m := New(Dependencies{Decoder: textDecoder("")})
	e := testutils.NewEcho()
	require.NoError(t, m.Boot(context.Background(), e.Group(""), reg))

	openSession(t, e)
	assert.Equal(t, 1, scans.Len())

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 0, scans.Len())
}

func TestScanNeedsManager(t *testing.T) {
	e := testutils.NewEcho()
	assert.Error(t, New(Dependencies{}).Boot(context.Background(), e.Group(""), nil))
}
