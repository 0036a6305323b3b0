package scan

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nfrund/vrcadmin/internal/domain"
)

// ExtractID parses decoded QR text as an absolute URL and returns its last
// path segment. The path is split before unescaping, so an escaped slash
// stays inside the id. Text that is not an absolute URL fails with
// MsgInvalidQRCode; a URL whose last segment is empty fails with
// MsgInvalidQRFormat.
func ExtractID(text string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil || u.Scheme == "" {
		return "", &FormatError{Message: MsgInvalidQRCode, Text: text}
	}
	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}
	parts := strings.Split(path, "/")
	id, err := url.PathUnescape(parts[len(parts)-1])
	if err != nil || id == "" {
		return "", &FormatError{Message: MsgInvalidQRFormat, Text: text}
	}
	return id, nil
}

// FormatError reports decoded text that does not carry a volunteer id.
type FormatError struct {
	Message string
	Text    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s (%q)", e.Message, e.Text)
}

func (e *FormatError) Unwrap() error { return domain.ErrInvalidQRCode }
