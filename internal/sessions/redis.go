package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyNameTemplate = "_paneld_sess_%s"

// Redis stores session tokens as keys with a server-side TTL, so sessions
// survive a panel restart and are shared across replicas.
type Redis struct {
	cli *redis.Client
}

func NewRedis(cli *redis.Client) *Redis {
	return &Redis{cli: cli}
}

func (s *Redis) Issue(ctx context.Context, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	out := s.cli.Set(ctx, getSessionKey(token), "1", ttl)
	if out.Err() != nil {
		return "", out.Err()
	}
	return token, nil
}

func (s *Redis) Validate(ctx context.Context, token string) (bool, error) {
	out := s.cli.Exists(ctx, getSessionKey(token))
	if out.Err() != nil {
		return false, out.Err()
	}
	return out.Val() > 0, nil
}

func (s *Redis) Revoke(ctx context.Context, token string) error {
	out := s.cli.Del(ctx, getSessionKey(token))
	return out.Err()
}

func getSessionKey(token string) string {
	return fmt.Sprintf(sessionKeyNameTemplate, token)
}
