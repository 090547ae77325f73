package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedImageMIME(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		wantMIME     string
		wantDetected bool
	}{
		{
			name:         "JPEG",
			data:         []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
			wantMIME:     "image/jpeg",
			wantDetected: true,
		},
		{
			name:         "PNG",
			data:         []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
			wantMIME:     "image/png",
			wantDetected: true,
		},
		{
			name:         "GIF",
			data:         []byte("GIF89a"),
			wantMIME:     "image/gif",
			wantDetected: true,
		},
		{
			name:         "WebP",
			data:         append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...),
			wantMIME:     "image/webp",
			wantDetected: true,
		},
		{
			name:         "RIFF but not WebP",
			data:         append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 10)...),
			wantMIME:     "",
			wantDetected: false,
		},
		{
			name:         "PDF disguised as image",
			data:         []byte("%PDF-1.4 malicious content"),
			wantMIME:     "",
			wantDetected: false,
		},
		{
			name:         "empty",
			data:         []byte{},
			wantMIME:     "",
			wantDetected: false,
		},
		{
			name:         "too short for WebP check",
			data:         []byte("RIFF"),
			wantMIME:     "",
			wantDetected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMIME, gotDetected := allowedImageMIME(tt.data)
			assert.Equal(t, tt.wantDetected, gotDetected)
			assert.Equal(t, tt.wantMIME, gotMIME)
		})
	}
}

func formRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, parseForm(httptest.NewRecorder(), r))
	return r
}

func TestFormInt(t *testing.T) {
	r := formRequest(t, url.Values{"quantity": {" 12 "}, "bad": {"1.5"}})

	n, err := formInt(r, "quantity")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = formInt(r, "bad")
	assert.ErrorContains(t, err, "bad: must be a whole number")

	_, err = formInt(r, "missing")
	assert.Error(t, err)
}

func TestFormDate(t *testing.T) {
	r := formRequest(t, url.Values{"date": {"2025-04-09"}, "bad": {"09/04/2025"}})

	d, err := formDate(r, "date")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-09", d.Format("2006-01-02"))

	d, err = formDate(r, "missing")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = formDate(r, "bad")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestParseID(t *testing.T) {
	tests := []struct {
		value string
		want  int64
		ok    bool
	}{
		{"7", 7, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodDelete, "/", nil)
			r.SetPathValue("id", tt.value)
			got, err := parseID(r)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormRejectsOversizedBody(t *testing.T) {
	body := "note=" + strings.Repeat("a", maxUploadSize+1)
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	err := parseForm(httptest.NewRecorder(), r)
	assert.ErrorContains(t, err, "request too large")
}
