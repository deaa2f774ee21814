package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cli.Close() })
	return NewRedis(cli), mr
}

func TestRedisIssueValidateRevoke(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	token, err := s.Issue(ctx, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	valid, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, s.Revoke(ctx, token))
	valid, err = s.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestRedisExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	token, err := s.Issue(ctx, time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	valid, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestRedisUnavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)
	mr.Close()

	_, err := s.Issue(ctx, time.Hour)
	assert.Error(t, err)

	_, err = s.Validate(ctx, "whatever")
	assert.Error(t, err)
}
