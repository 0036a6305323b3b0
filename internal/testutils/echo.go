package testutils

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/rendering"
)

// NewEcho returns an echo instance wired like the server: renderer,
// validator, error handler and cookie sessions.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(e)
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))
	return e
}

// Do serves one request against e. A non-nil form is sent url-encoded.
func Do(e *echo.Echo, method, target string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// HTMX is the header pair marking a request as issued by htmx.
var HTMX = []string{"HX-Request", "true"}

// StatusOf is a readability helper for redirects.
func StatusOf(rec *httptest.ResponseRecorder) (int, string) {
	return rec.Code, rec.Header().Get("Location")
}
