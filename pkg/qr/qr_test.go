package qr

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAttendeeTokenFormat(t *testing.T) {
	before := time.Now().UnixMilli()
	token, err := NewAttendeeToken()
	require.NoError(t, err)

	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)
	require.Equal(t, TokenPrefix, parts[0])

	millis, err := strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
	require.GreaterOrEqual(t, millis, before)
	require.LessOrEqual(t, millis, time.Now().UnixMilli())

	require.Len(t, parts[2], 8)
}

func TestNewAttendeeTokenUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		token, err := NewAttendeeToken()
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token %s", token)
		seen[token] = struct{}{}
	}
}

func TestDataURL(t *testing.T) {
	url, err := DataURL("ATTENDEE:1700000000000:abc123de")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	require.Greater(t, len(url), len("data:image/png;base64,"))
}
