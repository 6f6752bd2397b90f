package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	return &Client{Client: db}, mock
}

// ============== Redis Config Tests ==============

func TestRedisConfig_RedisAddr(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.RedisConfig
		expected string
	}{
		{
			name:     "default localhost",
			cfg:      config.RedisConfig{Host: "localhost", Port: "6379"},
			expected: "localhost:6379",
		},
		{
			name:     "custom host and port",
			cfg:      config.RedisConfig{Host: "redis.example.com", Port: "6380"},
			expected: "redis.example.com:6380",
		},
		{
			name:     "empty values",
			cfg:      config.RedisConfig{Host: "", Port: ""},
			expected: ":",
		},
		{
			name:     "IP address",
			cfg:      config.RedisConfig{Host: "192.168.1.100", Port: "6379"},
			expected: "192.168.1.100:6379",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.cfg.RedisAddr())
		})
	}
}

// ============== Client Wrapper Tests ==============

func TestSetWithExpiration(t *testing.T) {
	client, mock := newTestClient(t)
	mock.ExpectSet("code:INF-ABCD-2345", "pending", time.Minute).SetVal("OK")

	err := client.SetWithExpiration(context.Background(), "code:INF-ABCD-2345", "pending", time.Minute)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetString(t *testing.T) {
	client, mock := newTestClient(t)
	mock.ExpectGet("code:INF-ABCD-2345").SetVal("pending")

	value, err := client.GetString(context.Background(), "code:INF-ABCD-2345")

	require.NoError(t, err)
	assert.Equal(t, "pending", value)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetString_Missing(t *testing.T) {
	client, mock := newTestClient(t)
	mock.ExpectGet("missing").RedisNil()

	_, err := client.GetString(context.Background(), "missing")

	assert.ErrorIs(t, err, goredis.Nil)
}

func TestDelete(t *testing.T) {
	client, mock := newTestClient(t)
	mock.ExpectDel("a", "b").SetVal(2)

	err := client.Delete(context.Background(), "a", "b")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		expected bool
	}{
		{"key present", 1, true},
		{"key absent", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, mock := newTestClient(t)
			mock.ExpectExists("some-key").SetVal(tc.count)

			found, err := client.Exists(context.Background(), "some-key")

			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}
