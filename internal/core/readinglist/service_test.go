package readinglist_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lekturahq/lektura/internal/core/readinglist"
	"github.com/lekturahq/lektura/internal/platform/apperr"
	"github.com/lekturahq/lektura/internal/platform/dberr"
)

type memoryRepository struct {
	lists map[string]*readinglist.ReadingList
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{lists: map[string]*readinglist.ReadingList{}}
}

func (repository *memoryRepository) ListByUser(_ context.Context, userID string) ([]*readinglist.ReadingList, error) {
	result := make([]*readinglist.ReadingList, 0)
	for _, list := range repository.lists {
		if list.UserID == userID {
			copied := *list
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*readinglist.ReadingList, error) {
	list, ok := repository.lists[id]
	if !ok {
		return nil, apperr.NotFound("Reading list")
	}
	copied := *list
	return &copied, nil
}

func (repository *memoryRepository) Create(_ context.Context, list *readinglist.ReadingList) error {
	copied := *list
	repository.lists[list.ID] = &copied
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, list *readinglist.ReadingList) error {
	if _, ok := repository.lists[list.ID]; !ok {
		return dberr.ErrNotFound
	}
	copied := *list
	repository.lists[list.ID] = &copied
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	delete(repository.lists, id)
	return nil
}

func (repository *memoryRepository) Count(_ context.Context) (int, error) {
	return len(repository.lists), nil
}

func newTestService() (*readinglist.Service, *memoryRepository) {
	repository := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return readinglist.NewService(repository, logger), repository
}

/*
TestService_CreateAndList verifies list creation and owner-scoped listing.
*/
func TestService_CreateAndList(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	// 1. create two lists for one user, one for another
	_, err := service.Create(ctx, "user-1", "To Read", "")
	require.NoError(t, err)
	_, err = service.Create(ctx, "user-1", "Favorites", "the best ones")
	require.NoError(t, err)
	_, err = service.Create(ctx, "user-2", "Other", "")
	require.NoError(t, err)

	// 2. listing is scoped to the owner
	lists, err := service.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, lists, 2)

	// 3. a nameless list is rejected
	_, err = service.Create(ctx, "user-1", "", "")
	require.Error(t, err)
}

/*
TestService_OwnershipScoping verifies that another user's list is reported
as not found, never as forbidden.
*/
func TestService_OwnershipScoping(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	list, err := service.Create(ctx, "user-1", "Private", "")
	require.NoError(t, err)

	_, err = service.Get(ctx, "user-2", list.ID)
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

/*
TestService_AddBook verifies ordered appends and duplicate rejection.
*/
func TestService_AddBook(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	list, err := service.Create(ctx, "user-1", "To Read", "")
	require.NoError(t, err)

	// 1. books append in order
	_, err = service.AddBook(ctx, "user-1", list.ID, "book-a")
	require.NoError(t, err)
	updated, err := service.AddBook(ctx, "user-1", list.ID, "book-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"book-a", "book-b"}, updated.BookIDs)

	// 2. duplicates are rejected with a conflict
	_, err = service.AddBook(ctx, "user-1", list.ID, "book-a")
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	// 3. the failed add left the list untouched
	current, err := service.Get(ctx, "user-1", list.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"book-a", "book-b"}, current.BookIDs)
}

/*
TestService_RemoveBook verifies removal keeps the remaining order and that
removing an absent book is a no-op.
*/
func TestService_RemoveBook(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	list, err := service.Create(ctx, "user-1", "To Read", "")
	require.NoError(t, err)
	for _, bookID := range []string{"a", "b", "c"} {
		_, err = service.AddBook(ctx, "user-1", list.ID, bookID)
		require.NoError(t, err)
	}

	// 1. removing the middle entry keeps the order of the rest
	updated, err := service.RemoveBook(ctx, "user-1", list.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, updated.BookIDs)

	// 2. removing an absent book changes nothing and does not fail
	updated, err = service.RemoveBook(ctx, "user-1", list.ID, "zzz")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, updated.BookIDs)
}

/*
TestService_RenameAndDelete verifies metadata updates and deletion.
*/
func TestService_RenameAndDelete(t *testing.T) {
	service, repository := newTestService()
	ctx := context.Background()

	list, err := service.Create(ctx, "user-1", "Old Name", "")
	require.NoError(t, err)

	// 1. rename
	updated, err := service.Rename(ctx, "user-1", list.ID, "New Name", "fresh")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "fresh", updated.Description)

	// 2. another user cannot delete it
	err = service.Delete(ctx, "user-2", list.ID)
	require.Error(t, err)
	assert.Len(t, repository.lists, 1)

	// 3. the owner can
	require.NoError(t, service.Delete(ctx, "user-1", list.ID))
	assert.Empty(t, repository.lists)
}
