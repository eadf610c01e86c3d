//go:build integration

package runlock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type RedisLockIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcredis.RedisContainer
	client    *redis.Client
}

func (s *RedisLockIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcredis.Run(s.ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
	s.Require().NoError(s.client.Ping(s.ctx).Err())
}

func (s *RedisLockIntegrationSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *RedisLockIntegrationSuite) SetupTest() {
	s.Require().NoError(s.client.FlushDB(s.ctx).Err())
}

func TestRedisLockIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RedisLockIntegrationSuite))
}

func (s *RedisLockIntegrationSuite) TestAcquireRelease() {
	lock := NewRedis(s.client)

	token, err := lock.Acquire(s.ctx, "owner-1", time.Minute)
	s.Require().NoError(err)

	_, err = lock.Acquire(s.ctx, "owner-1", time.Minute)
	s.ErrorIs(err, ErrLocked)

	ttl, err := s.client.PTTL(s.ctx, keyPrefix+"owner-1").Result()
	s.NoError(err)
	s.Greater(ttl, time.Duration(0))

	s.NoError(lock.Release(s.ctx, "owner-1", token))
	_, err = lock.Acquire(s.ctx, "owner-1", time.Minute)
	s.NoError(err)
}

func (s *RedisLockIntegrationSuite) TestReleaseWithWrongTokenKeepsLock() {
	lock := NewRedis(s.client)

	_, err := lock.Acquire(s.ctx, "owner-1", time.Minute)
	s.Require().NoError(err)

	s.NoError(lock.Release(s.ctx, "owner-1", "not-the-token"))
	_, err = lock.Acquire(s.ctx, "owner-1", time.Minute)
	s.ErrorIs(err, ErrLocked)
}

func (s *RedisLockIntegrationSuite) TestLockExpires() {
	lock := NewRedis(s.client)

	_, err := lock.Acquire(s.ctx, "owner-1", 100*time.Millisecond)
	s.Require().NoError(err)

	s.Eventually(func() bool {
		_, err := lock.Acquire(s.ctx, "owner-1", time.Minute)
		return err == nil
	}, 2*time.Second, 50*time.Millisecond)
}
