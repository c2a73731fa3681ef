package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/media"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/channels"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeStore is an in-memory stand-in for the users, subscriptions and
// watch_history tables.
type fakeStore struct {
	mu      sync.Mutex
	nextID  int
	users   map[string]*models.User
	subs    [][2]string // subscriber, channel
	history map[string][]models.WatchedVideo
	locked  int // GetForUpdate calls

	getErr    error
	createErr error
	saveErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*models.User{}, history: map[string][]models.WatchedVideo{}}
}

func (s *fakeStore) byID(id string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	c := *u
	return &c
}

type fakeUsersRepo struct{ s *fakeStore }

func (r *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createErr != nil {
		return nil, r.s.createErr
	}
	for _, e := range r.s.users {
		if e.Username == u.Username || e.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	r.s.nextID++
	u.ID = fmt.Sprintf("u-%d", r.s.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	c := *u
	r.s.users[u.ID] = &c
	return u, nil
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	if u := r.s.byID(id); u != nil {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) update(id string, fn func(u *models.User) error) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	c := *u
	return &c, nil
}

func (r *fakeUsersRepo) UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error) {
	return r.update(id, func(u *models.User) error {
		for _, e := range r.s.users {
			if e.ID != id && e.Email == email {
				return common.ErrorConflict
			}
		}
		u.FullName, u.Email = fullName, email
		return nil
	})
}

func (r *fakeUsersRepo) UpdateAvatar(ctx context.Context, id, url string) (*models.User, error) {
	return r.update(id, func(u *models.User) error { u.Avatar = url; return nil })
}

func (r *fakeUsersRepo) UpdateCoverImage(ctx context.Context, id, url string) (*models.User, error) {
	return r.update(id, func(u *models.User) error { u.CoverImage = url; return nil })
}

func (r *fakeUsersRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := r.update(id, func(u *models.User) error { u.Password = hash; return nil })
	return err
}

type fakeRefreshRepo struct{ s *fakeStore }

func (r *fakeRefreshRepo) Save(ctx context.Context, userID, token string) error {
	if r.s.saveErr != nil {
		return r.s.saveErr
	}
	_, err := (&fakeUsersRepo{r.s}).update(userID, func(u *models.User) error { u.RefreshToken = token; return nil })
	return err
}

func (r *fakeRefreshRepo) Get(ctx context.Context, userID string) (string, error) {
	u := r.s.byID(userID)
	if u == nil {
		return "", common.ErrorNotFound
	}
	return u.RefreshToken, nil
}

func (r *fakeRefreshRepo) GetForUpdate(ctx context.Context, userID string) (string, error) {
	r.s.mu.Lock()
	r.s.locked++
	r.s.mu.Unlock()
	return r.Get(ctx, userID)
}

func (r *fakeRefreshRepo) Clear(ctx context.Context, userID string) error {
	_, err := (&fakeUsersRepo{r.s}).update(userID, func(u *models.User) error { u.RefreshToken = ""; return nil })
	return err
}

type fakeChannelsRepo struct{ s *fakeStore }

func (r *fakeChannelsRepo) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if !strings.EqualFold(u.Username, username) {
			continue
		}
		p := &models.ChannelProfile{
			FullName: u.FullName, Username: u.Username, Email: u.Email,
			Avatar: u.Avatar, CoverImage: u.CoverImage,
		}
		for _, e := range r.s.subs {
			if e[1] == u.ID {
				p.SubscribersCount++
				if e[0] == viewerID {
					p.IsSubscribed = true
				}
			}
			if e[0] == u.ID {
				p.ChannelsSubscribedToCount++
			}
		}
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (r *fakeChannelsRepo) WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error) {
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]models.WatchedVideo{}, r.s.history[userID]...), nil
}

type fakeRepoManager struct{ s *fakeStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error         { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return &fakeUsersRepo{m.s} }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return &fakeRefreshRepo{m.s} }
func (m *fakeRepoManager) Channels(db dbx.DBTX) channels.Repository           { return &fakeChannelsRepo{m.s} }

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	failOn   map[string]bool
}

func (u *fakeUploader) Upload(ctx context.Context, localPath string) (*media.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failOn[localPath] {
		return nil, errBoom{}
	}
	u.uploaded = append(u.uploaded, localPath)
	key := "images/" + filepath.Base(localPath)
	return &media.UploadResult{Key: key, URL: "http://cdn/" + key}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:            "access",
		RefreshTokenSecret:           "refresh",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

type fixture struct {
	store    *fakeStore
	uploader *fakeUploader
	tokens   *TokenService
	users    *UserService
	channels *ChannelService
}

// newFixture wires services over the fakes. db may be nil unless the test
// exercises a transactional path.
func newFixture(t *testing.T, db *sql.DB) *fixture {
	t.Helper()
	store := newFakeStore()
	rm := &fakeRepoManager{store}
	up := &fakeUploader{failOn: map[string]bool{}}
	tokens := NewTokenService(db, rm, testConfig())
	return &fixture{
		store:    store,
		uploader: up,
		tokens:   tokens,
		users:    NewUserService(db, rm, tokens, up, logging.Nop{}),
		channels: NewChannelService(db, rm),
	}
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func (f *fixture) register(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		FullName: "Full " + username, Email: email, Username: username, Password: password,
		AvatarPath: "/tmp/" + username + ".png",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}
