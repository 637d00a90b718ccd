package sessions

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/logging"
	"github.com/dmitrijs2005/gestiongasto/internal/server/services"
)

type stubStore struct {
	services.FileStore
	token string
}

func tokenExpiring(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func countingFactory(calls *int32) Factory {
	return func(_ context.Context, token string) (services.FileStore, error) {
		atomic.AddInt32(calls, 1)
		return &stubStore{token: token}, nil
	}
}

func TestGet_ReusesSession(t *testing.T) {
	var calls int32
	r := NewRegistry(countingFactory(&calls), time.Hour, logging.Discard())

	a, err := r.Get(context.Background(), "opaque-a")
	require.NoError(t, err)
	b, err := r.Get(context.Background(), "opaque-a")
	require.NoError(t, err)
	c, err := r.Get(context.Background(), "opaque-b")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Equal(t, 2, r.Len())
}

func TestGet_ConcurrentCallsShareInit(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	r := NewRegistry(func(ctx context.Context, token string) (services.FileStore, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &stubStore{token: token}, nil
	}, time.Hour, logging.Discard())

	var wg sync.WaitGroup
	stores := make([]services.FileStore, 8)
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Get(context.Background(), "tok")
			assert.NoError(t, err)
			stores[i] = s
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, s := range stores[1:] {
		assert.Same(t, stores[0], s)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Equal(t, 1, r.Len())
}

func TestGet_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	r := NewRegistry(func(ctx context.Context, token string) (services.FileStore, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
		}
		return &stubStore{token: token}, nil
	}, time.Hour, logging.Discard())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := r.Get(ctxA, "tok")
		errA <- err
	}()
	<-started

	type result struct {
		store services.FileStore
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		s, err := r.Get(context.Background(), "tok")
		resB <- result{s, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.NotNil(t, b.store)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Equal(t, 1, r.Len())
}

func TestGet_InitTimeout(t *testing.T) {
	r := NewRegistry(func(ctx context.Context, token string) (services.FileStore, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, time.Hour, logging.Discard())
	r.initTimeout = 10 * time.Millisecond

	_, err := r.Get(context.Background(), "tok")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, r.Len())
}

func TestGet_RejectsExpiredToken(t *testing.T) {
	var calls int32
	r := NewRegistry(countingFactory(&calls), time.Hour, logging.Discard())

	_, err := r.Get(context.Background(), tokenExpiring(t, time.Now().Add(-time.Minute)))
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestGet_EvictsOnExpiry(t *testing.T) {
	var calls int32
	r := NewRegistry(countingFactory(&calls), time.Hour, logging.Discard())

	base := time.Now()
	r.now = func() time.Time { return base }
	tok := tokenExpiring(t, base.Add(10*time.Minute))
	_, err := r.Get(context.Background(), tok)
	require.NoError(t, err)

	// an opaque token's session outlives the JWT's
	_, err = r.Get(context.Background(), "opaque")
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	r.now = func() time.Time { return base.Add(11 * time.Minute) }
	_, err = r.Get(context.Background(), tok)
	require.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = r.Get(context.Background(), "opaque")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	r.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = r.Get(context.Background(), "opaque")
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGet_FactoryErrorNotCached(t *testing.T) {
	fail := true
	boom := errors.New("site not reachable")
	r := NewRegistry(func(ctx context.Context, token string) (services.FileStore, error) {
		if fail {
			return nil, boom
		}
		return &stubStore{}, nil
	}, 0, logging.Discard())

	_, err := r.Get(context.Background(), "tok")
	require.ErrorIs(t, err, boom)
	assert.Zero(t, r.Len())

	fail = false
	_, err = r.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	r.Evict("tok")
	assert.Zero(t, r.Len())
}
