package partials

import (
	"bytes"
	"context"
	"testing"

	"github.com/nfrund/vrcadmin/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlash(t *testing.T) {
	var buf bytes.Buffer
	err := Flash(view.FlashData{Success: []string{"Saved"}, Error: []string{"<b>bad</b>"}}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `id="flash"`)
	assert.Contains(t, out, "Saved")
	assert.Contains(t, out, `data-flash="success"`)
	assert.Contains(t, out, "&lt;b&gt;bad&lt;/b&gt;")
	assert.NotContains(t, out, "hx-swap-oob")

	buf.Reset()
	require.NoError(t, FlashOOB(view.FlashData{Error: []string{"x"}}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `hx-swap-oob="true"`)
}
