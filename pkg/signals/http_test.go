package signals

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?"+datastarQuery(`{"count":4,"label":"a b"}`), nil)

	var c counter
	require.NoError(t, Read(req, &c))
	assert.Equal(t, counter{Count: 4, Label: "a b"}, c)
}

func TestReadPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":11}`))

	var c counter
	require.NoError(t, Read(req, &c))
	assert.Equal(t, 11, c.Count)
}

func TestReadGetDoesNotConsumeBody(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(`{"count":1}`)}
	req := httptest.NewRequest(http.MethodGet, "/?"+datastarQuery(`{"count":2}`), nil)
	req.Body = body

	var c counter
	require.NoError(t, Read(req, &c))
	assert.Equal(t, 2, c.Count)
	assert.False(t, body.read)
}

func TestReadBodyTooLarge(t *testing.T) {
	rd := NewReader(&Config{MaxBodyBytes: 8})
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":123456789}`))

	var c counter
	err := rd.Read(req, &c)
	require.ErrorIs(t, err, ErrBodyTooLarge)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status())
}

func TestReadBodyError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Body = io.NopCloser(failingReader{})

	var c counter
	assert.ErrorIs(t, Read(req, &c), ErrBodyRead)
}

func TestReadOptional(t *testing.T) {
	t.Run("not_datastar", func(t *testing.T) {
		body := &trackingBody{Reader: strings.NewReader(`garbage`)}
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Body = body

		var c counter
		ok, err := ReadOptional(req, &c)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, body.read)
	})

	t.Run("datastar", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":3}`))
		req.Header.Set("datastar-request", "true")

		var c counter
		ok, err := ReadOptional(req, &c)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, c.Count)
	})

	t.Run("datastar_rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("datastar-request", "true")

		var c counter
		ok, err := ReadOptional(req, &c)
		assert.True(t, ok)
		assert.ErrorIs(t, err, ErrMissingParam)
	})
}

func TestIsDatastarRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, IsDatastarRequest(req))

	req.Header.Set("Datastar-Request", "true")
	assert.True(t, IsDatastarRequest(req))
}

func TestWriteError(t *testing.T) {
	t.Run("rejection", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, newError(KindMissingParam, "Missing datastar query parameter", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing datastar query parameter\n", rec.Body.String())
	})

	t.Run("other", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
	})
}

func TestReaderLogsRejections(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rd := NewReader(&Config{Logger: logger})

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	var c counter
	require.Error(t, rd.Read(req, &c))

	out := buf.String()
	assert.Contains(t, out, "signals rejected")
	assert.Contains(t, out, "kind=missing_param")
	assert.Contains(t, out, "path=/feed")
}

func TestReaderOnReject(t *testing.T) {
	var kinds []Kind
	rd := NewReader(&Config{OnReject: func(r *http.Request, err *Error) {
		assert.Equal(t, "/feed", r.URL.Path)
		kinds = append(kinds, err.Kind)
	}})

	var c counter
	require.Error(t, rd.Read(httptest.NewRequest(http.MethodGet, "/feed", nil), &c))
	require.Error(t, rd.Read(httptest.NewRequest(http.MethodPost, "/feed", strings.NewReader(`{`)), &c))
	require.NoError(t, rd.Read(httptest.NewRequest(http.MethodPost, "/feed", strings.NewReader(`{"count":1}`)), &c))

	assert.Equal(t, []Kind{KindMissingParam, KindInvalidJSON}, kinds)
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.MaxBodyBytes = 1

	assert.Equal(t, DefaultMaxBodyBytes, cfg.MaxBodyBytes)
	assert.Nil(t, (*Config)(nil).Clone())
}

type trackingBody struct {
	io.Reader
	read bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	b.read = true
	return b.Reader.Read(p)
}

func (b *trackingBody) Close() error { return nil }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
