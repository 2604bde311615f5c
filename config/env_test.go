package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOr(t *testing.T) {
	t.Setenv("CONTACTS_TEST_VALUE", "  configured  ")
	assert.Equal(t, "configured", GetEnvOr("CONTACTS_TEST_VALUE", "fallback"))

	t.Setenv("CONTACTS_TEST_VALUE", "")
	assert.Equal(t, "fallback", GetEnvOr("CONTACTS_TEST_VALUE", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 7},
		{name: "valid", value: "25", want: 25},
		{name: "malformed", value: "ten", want: 7},
		{name: "negative", value: "-3", want: 7},
		{name: "zero", value: "0", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONTACTS_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("CONTACTS_TEST_INT", 7))
		})
	}
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDRESS", "")
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("REDIS_DB", "")

	opts := RedisOptions()
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Empty(t, opts.Password)
	assert.Equal(t, 0, opts.DB)

	t.Setenv("REDIS_ADDRESS", "redis:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")

	opts = RedisOptions()
	assert.Equal(t, "redis:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
}
