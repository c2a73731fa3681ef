package channels

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profileCols = []string{"fullname", "username", "email", "avatar", "cover_image",
	"subscribers_count", "channels_subscribed_to_count", "is_subscribed"}

var historyCols = []string{"id", "video_file", "thumbnail", "title", "description", "duration",
	"views", "is_published", "created_at", "updated_at",
	"owner.fullname", "owner.username", "owner.avatar"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestChannelProfile_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+u\.fullname.*count\(\*\)\s+FROM\s+subscriptions\s+s\s+WHERE\s+s\.channel\s*=\s*u\.id.*WHERE\s+lower\(u\.username\)\s*=\s*lower\(\$1\)`

	mock.ExpectQuery(q).
		WithArgs("AB1", "viewer-1").
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow("A B", "ab1", "a@b.com", "http://a", "", int64(3), int64(1), true))

	got, err := repo.ChannelProfile(context.Background(), "AB1", "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, "ab1", got.Username)
	assert.EqualValues(t, 3, got.SubscribersCount)
	assert.EqualValues(t, 1, got.ChannelsSubscribedToCount)
	assert.True(t, got.IsSubscribed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelProfile_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+u\.fullname`).
		WithArgs("ghost", "viewer-1").
		WillReturnRows(sqlmock.NewRows(profileCols))

	_, err := repo.ChannelProfile(context.Background(), "ghost", "viewer-1")
	assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)
}

func TestChannelProfile_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+u\.fullname`).WillReturnError(errors.New("db down"))

	_, err := repo.ChannelProfile(context.Background(), "ab1", "v")
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestWatchHistory_Ordered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)FROM\s+watch_history\s+h\s+JOIN\s+videos\s+v.*WHERE\s+h\.user_id\s*=\s*\$1\s+ORDER\s+BY\s+h\.position\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(historyCols).
			AddRow("v-2", "f2", "t2", "Second", "", 12.5, int64(7), true, now, now, "Owner Two", "own2", "http://o2").
			AddRow("v-1", "f1", "t1", "First", "d", 3.0, int64(1), true, now, now, "Owner One", "own1", "http://o1"))

	got, err := repo.WatchHistory(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "v-2", got[0].ID)
	assert.Equal(t, "own2", got[0].Owner.Username)
	assert.Equal(t, "Owner One", got[1].Owner.FullName)
	assert.Equal(t, "http://o1", got[1].Owner.Avatar)
}

func TestWatchHistory_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+watch_history`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(historyCols))

	got, err := repo.WatchHistory(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
