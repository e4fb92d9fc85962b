package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWriter(t *testing.T) {
	t.Run("body within the limit is buffered whole", func(t *testing.T) {
		rec := httptest.NewRecorder()
		cw := &captureWriter{ResponseWriter: rec, status: 200, limit: 64}

		_, err := cw.Write([]byte(`{"data":`))
		require.NoError(t, err)
		_, err = cw.Write([]byte(`[]}`))
		require.NoError(t, err)

		assert.Equal(t, `{"data":[]}`, cw.buf.String())
		assert.Equal(t, `{"data":[]}`, rec.Body.String(), "client still gets everything")
	})

	t.Run("oversized body is never cached, not even a tail fragment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		cw := &captureWriter{ResponseWriter: rec, status: 200, limit: 16}

		big := strings.Repeat("x", 32)
		_, err := cw.Write([]byte(big))
		require.NoError(t, err)
		// Later chunks fit the limit on their own but must stay out of
		// the buffer once the response went over budget.
		_, err = cw.Write([]byte("tail"))
		require.NoError(t, err)

		assert.Zero(t, cw.buf.Len())
		assert.Equal(t, big+"tail", rec.Body.String(), "forwarding is unaffected")
	})

	t.Run("zero limit means unbounded buffering", func(t *testing.T) {
		rec := httptest.NewRecorder()
		cw := &captureWriter{ResponseWriter: rec, status: 200}

		_, err := cw.Write([]byte(strings.Repeat("y", 128)))
		require.NoError(t, err)
		assert.Equal(t, 128, cw.buf.Len())
	})
}
