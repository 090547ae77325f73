package photostore

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyIsUniquePerSave(t *testing.T) {
	a := Key("stock", "image/jpeg")
	b := Key("stock", "image/jpeg")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "stock_"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.Equal(t, ".png", path.Ext(Key("player", "image/png")))
}

func TestMIMERoundTrip(t *testing.T) {
	for _, m := range []string{"image/png", "image/gif", "image/webp", "image/jpeg"} {
		assert.Equal(t, m, MIMEForKey("x"+ExtForMIME(m)))
	}
	assert.Equal(t, "image/jpeg", MIMEForKey("noext"))
}
