/*
Package admin serves the operational metrics behind the administration
dashboard: the registered-user count from the identity provider and the
reading-list count from the database.

The user count needs a privileged provider credential. The service does not
hold one itself; it borrows the service account session owned by the
resolver, so a signed-out or still-resolving service account makes the
metric temporarily unavailable instead of silently wrong.
*/
package admin

import (
	"context"
	"log/slog"

	"github.com/lekturahq/lektura/internal/platform/apperr"
	"github.com/lekturahq/lektura/internal/users/session"
)

// sessionSource exposes the service account session owned by the resolver.
type sessionSource interface {
	Snapshot() session.Snapshot
	SessionCredential() (string, bool)
}

// userCounter is the privileged provider operation behind the user metric.
type userCounter interface {
	AdminUserCount(context context.Context, accessToken string) (int, error)
}

// listCounter counts stored reading lists.
type listCounter interface {
	Count(context context.Context) (int, error)
}

// Metric is a single named dashboard value.
type Metric struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Service aggregates the dashboard metrics.
type Service struct {
	sessions sessionSource
	users    userCounter
	lists    listCounter
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(sessions sessionSource, users userCounter, lists listCounter, logger *slog.Logger) *Service {
	return &Service{
		sessions: sessions,
		users:    users,
		lists:    lists,
		logger:   logger,
	}
}

/*
UserCount returns the number of accounts registered at the identity
provider.

Description: Requires the service account session. While that session is
still resolving, or after it failed to establish, the metric is reported
as unavailable; the caller should retry later rather than cache a zero.

Returns:
  - *Metric: The user count
  - error: ServiceUnavailable or provider errors
*/
func (service *Service) UserCount(context context.Context) (*Metric, error) {
	if service.sessions.Snapshot().IsLoading {
		return nil, apperr.ServiceUnavailable("Service account session is still resolving")
	}

	credential, ok := service.sessions.SessionCredential()
	if !ok {
		return nil, apperr.ServiceUnavailable("Service account is not signed in")
	}

	count, err := service.users.AdminUserCount(context, credential)
	if err != nil {
		return nil, err
	}

	return &Metric{Name: "users", Count: count}, nil
}

// ReadingListCount returns the number of reading lists across all users.
func (service *Service) ReadingListCount(context context.Context) (*Metric, error) {
	count, err := service.lists.Count(context)
	if err != nil {
		return nil, err
	}

	return &Metric{Name: "reading_lists", Count: count}, nil
}
