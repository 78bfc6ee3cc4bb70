package redislock_test

import (
	"context"
	"testing"
	"time"

	"pickup/internal/adapters/out/redislock"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisBatchLockTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
}

func (suite *RedisBatchLockTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.client = redis.NewClient(&redis.Options{Addr: endpoint})
	suite.Require().NoError(suite.client.Ping(ctx).Err())
}

func (suite *RedisBatchLockTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushDB(context.Background()).Err())
}

func (suite *RedisBatchLockTestSuite) TearDownSuite() {
	if suite.client != nil {
		_ = suite.client.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RedisBatchLockTestSuite) TestAcquireIsExclusive() {
	ctx := context.Background()
	first := redislock.NewRedisBatchLock(suite.client, "test:")
	second := redislock.NewRedisBatchLock(suite.client, "test:")

	ok, err := first.Acquire(ctx, "sync", time.Minute)
	suite.Require().NoError(err)
	suite.True(ok)

	ok, err = second.Acquire(ctx, "sync", time.Minute)
	suite.Require().NoError(err)
	suite.False(ok)

	ttl, err := suite.client.TTL(ctx, "test:sync").Result()
	suite.Require().NoError(err)
	suite.Positive(ttl)
}

func (suite *RedisBatchLockTestSuite) TestReleaseOnlyOwnLock() {
	ctx := context.Background()
	owner := redislock.NewRedisBatchLock(suite.client, "test:")
	other := redislock.NewRedisBatchLock(suite.client, "test:")

	ok, err := owner.Acquire(ctx, "sync", time.Minute)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Require().NoError(other.Release(ctx, "sync"))
	exists, err := suite.client.Exists(ctx, "test:sync").Result()
	suite.Require().NoError(err)
	suite.Equal(int64(1), exists, "a foreign release leaves the key")

	suite.Require().NoError(owner.Release(ctx, "sync"))
	ok, err = other.Acquire(ctx, "sync", time.Minute)
	suite.Require().NoError(err)
	suite.True(ok)
}

func TestRedisBatchLockSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBatchLockTestSuite))
}
