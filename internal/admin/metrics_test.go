package admin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lekturahq/lektura/internal/platform/apperr"
	"github.com/lekturahq/lektura/internal/users/session"
)

type fakeSessions struct {
	snapshot   session.Snapshot
	credential string
}

func (sessions *fakeSessions) Snapshot() session.Snapshot {
	return sessions.snapshot
}

func (sessions *fakeSessions) SessionCredential() (string, bool) {
	return sessions.credential, sessions.credential != ""
}

type fakeUserCounter struct {
	count      int
	err        error
	credential string
}

func (counter *fakeUserCounter) AdminUserCount(_ context.Context, accessToken string) (int, error) {
	counter.credential = accessToken
	return counter.count, counter.err
}

type fakeListCounter struct {
	count int
	err   error
}

func (counter *fakeListCounter) Count(_ context.Context) (int, error) {
	return counter.count, counter.err
}

func newTestService(sessions *fakeSessions, users *fakeUserCounter, lists *fakeListCounter) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(sessions, users, lists, logger)
}

/*
TestService_UserCount verifies the metric is served with the service
account credential once its session is resolved.
*/
func TestService_UserCount(t *testing.T) {
	sessions := &fakeSessions{
		snapshot:   session.Snapshot{IsAuthenticated: true, IsAdmin: true, User: &session.Identity{UserID: "svc"}},
		credential: "svc-token",
	}
	users := &fakeUserCounter{count: 42}
	service := newTestService(sessions, users, &fakeListCounter{})

	metric, err := service.UserCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, metric.Count)
	assert.Equal(t, "svc-token", users.credential)
}

/*
TestService_UserCount_Unavailable verifies unresolved or signed-out service
account sessions make the metric unavailable instead of wrong.
*/
func TestService_UserCount_Unavailable(t *testing.T) {
	// 1. still resolving
	sessions := &fakeSessions{snapshot: session.Snapshot{IsLoading: true}}
	service := newTestService(sessions, &fakeUserCounter{}, &fakeListCounter{})

	_, err := service.UserCount(context.Background())
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "SERVICE_UNAVAILABLE", appErr.Code)

	// 2. resolved but anonymous
	sessions = &fakeSessions{snapshot: session.Snapshot{}}
	service = newTestService(sessions, &fakeUserCounter{}, &fakeListCounter{})

	_, err = service.UserCount(context.Background())
	require.Error(t, err)

	// 3. provider failures pass through
	sessions = &fakeSessions{
		snapshot:   session.Snapshot{IsAuthenticated: true, User: &session.Identity{}},
		credential: "svc-token",
	}
	service = newTestService(sessions, &fakeUserCounter{err: errors.New("provider down")}, &fakeListCounter{})

	_, err = service.UserCount(context.Background())
	require.Error(t, err)
}

/*
TestService_ReadingListCount verifies the database-backed metric.
*/
func TestService_ReadingListCount(t *testing.T) {
	service := newTestService(&fakeSessions{}, &fakeUserCounter{}, &fakeListCounter{count: 7})

	metric, err := service.ReadingListCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, metric.Count)
	assert.Equal(t, "reading_lists", metric.Name)
}
