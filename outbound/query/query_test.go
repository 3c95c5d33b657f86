package query

import (
	"context"
	"errors"
	"eventdesk/common/constant"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type vendorRow struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type QueryStoreTestSuite struct {
	suite.Suite

	Cache     *redis.Client
	CacheMock redismock.ClientMock
	store     *Store
}

func (s *QueryStoreTestSuite) SetupTest() {
	rdb, mock := redismock.NewClientMock()
	s.Cache = rdb
	s.CacheMock = mock
	s.store = NewStore(rdb, time.Minute)

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *QueryStoreTestSuite) TearDownTest() {
	if err := s.Cache.Close(); err != nil {
		s.T().Fatalf("failed to close redis mock: %v", err)
	}
}

func TestQueryStoreTestSuite(t *testing.T) {
	suite.Run(t, new(QueryStoreTestSuite))
}

func (s *QueryStoreTestSuite) TestKeyString() {
	s.Equal("vendors", NewKey(constant.QueryVendors, nil).String())
	s.Equal("vendors?search=acme&status=active", NewKey(constant.QueryVendors, url.Values{
		"status": {"active"},
		"search": {"acme"},
	}).String())
}

func (s *QueryStoreTestSuite) TestFetch() {
	key := NewKey(constant.QueryVendors, url.Values{"status": {"active"}})
	generationKey := fmt.Sprintf(constant.QueryGenerationKey, constant.QueryVendors)

	tests := []struct {
		name          string
		setupMock     func()
		fetchErr      error
		expected      []vendorRow
		expectedErr   string
		expectedCalls int32
	}{
		{
			name: "cache hit",
			setupMock: func() {
				s.CacheMock.ExpectGet(generationKey).SetVal("2")
				s.CacheMock.ExpectGet("query:vendors:2:status=active").SetVal(`[{"id":1,"name":"Cached"}]`)
			},
			expected:      []vendorRow{{ID: 1, Name: "Cached"}},
			expectedCalls: 0,
		},
		{
			name: "cache miss stores result",
			setupMock: func() {
				s.CacheMock.ExpectGet(generationKey).RedisNil()
				s.CacheMock.ExpectGet("query:vendors:0:status=active").RedisNil()
				s.CacheMock.ExpectSet("query:vendors:0:status=active", `[{"id":7,"name":"Fresh"}]`, time.Minute).SetVal("OK")
			},
			expected:      []vendorRow{{ID: 7, Name: "Fresh"}},
			expectedCalls: 1,
		},
		{
			name: "corrupt entry is refetched",
			setupMock: func() {
				s.CacheMock.ExpectGet(generationKey).SetVal("1")
				s.CacheMock.ExpectGet("query:vendors:1:status=active").SetVal(`not json`)
				s.CacheMock.ExpectSet("query:vendors:1:status=active", `[{"id":7,"name":"Fresh"}]`, time.Minute).SetVal("OK")
			},
			expected:      []vendorRow{{ID: 7, Name: "Fresh"}},
			expectedCalls: 1,
		},
		{
			name: "redis down falls back to upstream",
			setupMock: func() {
				s.CacheMock.ExpectGet(generationKey).SetErr(redis.ErrClosed)
			},
			expected:      []vendorRow{{ID: 7, Name: "Fresh"}},
			expectedCalls: 1,
		},
		{
			name: "store failure is not fatal",
			setupMock: func() {
				s.CacheMock.ExpectGet(generationKey).RedisNil()
				s.CacheMock.ExpectGet("query:vendors:0:status=active").RedisNil()
				s.CacheMock.ExpectSet("query:vendors:0:status=active", `[{"id":7,"name":"Fresh"}]`, time.Minute).SetErr(redis.ErrClosed)
			},
			expected:      []vendorRow{{ID: 7, Name: "Fresh"}},
			expectedCalls: 1,
		},
		{
			name: "fetch error is not cached",
			setupMock: func() {
				s.CacheMock.ExpectGet(generationKey).RedisNil()
				s.CacheMock.ExpectGet("query:vendors:0:status=active").RedisNil()
			},
			fetchErr:      errors.New("upstream down"),
			expectedErr:   "upstream down",
			expectedCalls: 1,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupMock()

			var calls atomic.Int32
			got, err := Fetch(context.Background(), s.store, key, func(ctx context.Context) ([]vendorRow, error) {
				calls.Add(1)
				if tc.fetchErr != nil {
					return nil, tc.fetchErr
				}
				return []vendorRow{{ID: 7, Name: "Fresh"}}, nil
			})

			if tc.expectedErr != "" {
				s.EqualError(err, tc.expectedErr)
			} else {
				s.NoError(err)
				s.Equal(tc.expected, got)
			}
			s.Equal(tc.expectedCalls, calls.Load())
			s.NoError(s.CacheMock.ExpectationsWereMet())
		})
	}
}

func (s *QueryStoreTestSuite) TestInvalidate() {
	tests := []struct {
		name        string
		names       []string
		setupMock   func()
		expectError bool
	}{
		{
			name:      "no names",
			names:     nil,
			setupMock: func() {},
		},
		{
			name:  "bumps every generation",
			names: []string{constant.QueryVendorReferrals, constant.QueryPaymentStatistics},
			setupMock: func() {
				s.CacheMock.ExpectTxPipeline()
				s.CacheMock.ExpectIncr("query:vendor-referrals:generation").SetVal(3)
				s.CacheMock.ExpectIncr("query:payment-statistics:generation").SetVal(1)
				s.CacheMock.ExpectTxPipelineExec()
			},
		},
		{
			name:  "pipeline error",
			names: []string{constant.QueryVendors},
			setupMock: func() {
				s.CacheMock.ExpectTxPipeline()
				s.CacheMock.ExpectIncr("query:vendors:generation").SetVal(1)
				s.CacheMock.ExpectTxPipelineExec().SetErr(redis.ErrClosed)
			},
			expectError: true,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setupMock()

			err := s.store.Invalidate(context.Background(), tc.names...)

			if tc.expectError {
				s.Error(err)
			} else {
				s.NoError(err)
			}
			s.NoError(s.CacheMock.ExpectationsWereMet())
		})
	}
}

func TestFetchWithoutCacheDeduplicates(t *testing.T) {
	store := NewStore(nil, 0)
	key := NewKey(constant.QueryPayments, url.Values{"status": {"pending"}})

	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), store, key, func(ctx context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
			if err == nil {
				results[i] = v
			}
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []int{42, 42, 42, 42, 42}, results)
}

func TestFetchSharedFlightSurvivesLeaderCancel(t *testing.T) {
	store := NewStore(nil, 0)
	key := NewKey(constant.QueryVendors, nil)

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		calls.Add(1)
		close(started)
		select {
		case <-release:
			return 7, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := Fetch(leaderCtx, store, key, fetch)
		leaderErr <- err
	}()
	<-started

	type result struct {
		value int
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		v, err := Fetch(context.Background(), store, key, fetch)
		follower <- result{v, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	assert.NoError(t, got.err)
	assert.Equal(t, 7, got.value)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchFlightTimeout(t *testing.T) {
	store := NewStore(nil, 0)
	store.FlightTimeout = 20 * time.Millisecond

	_, err := Fetch(context.Background(), store, NewKey(constant.QueryForms, nil), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
