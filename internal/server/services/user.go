package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/dbx"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/media"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is a var so tests can use bcrypt.MinCost.
var bcryptCost = bcrypt.DefaultCost

// RegisterInput carries the registration form. AvatarPath and
// CoverImagePath are local staged files, empty when not supplied.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// LoginInput identifies the account by username or email.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// UserService implements account operations: registration, login/logout,
// token refresh, password and profile changes, avatar and cover updates.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	uploader    media.Uploader
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService,
	uploader media.Uploader, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		uploader:    uploader,
		logger:      logger.With("module", "users"),
	}
}

// Register creates an account. The avatar is mandatory and must upload
// successfully; the cover image is best effort and defaults to "".
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))

	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, common.BadRequest("All fields are required")
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil:
		return nil, common.Conflict("User with email or username already exists")
	case !errors.Is(err, common.ErrorNotFound):
		return nil, common.Internal("Something went wrong while registering the user", err)
	}

	if in.AvatarPath == "" {
		return nil, common.BadRequest("Avatar file is required")
	}
	avatar, err := s.uploader.Upload(ctx, in.AvatarPath)
	if err != nil {
		s.logger.Warn(ctx, "avatar upload failed", "error", err)
		return nil, common.BadRequest("Avatar file is required")
	}

	coverImage := ""
	if in.CoverImagePath != "" {
		if cover, err := s.uploader.Upload(ctx, in.CoverImagePath); err != nil {
			s.logger.Warn(ctx, "cover image upload failed", "error", err)
		} else {
			coverImage = cover.URL
		}
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := repo.Create(ctx, &models.User{
		FullName:   fullName,
		Email:      email,
		Username:   username,
		Password:   hash,
		Avatar:     avatar.URL,
		CoverImage: coverImage,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.Conflict("User with email or username already exists")
		}
		return nil, common.Internal("Something went wrong while registering the user", err)
	}

	user, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		return nil, common.Internal("Something went wrong while registering the user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return user.Sanitized(), nil
}

// Login checks credentials and issues a fresh token pair. Either username or
// email identifies the account.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" && email == "" {
		return nil, common.BadRequest("username or email is required")
	}
	if in.Password == "" {
		return nil, common.BadRequest("password is required")
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("User does not exist")
		}
		return nil, common.Internal("Something went wrong while logging in", err)
	}

	if !checkPassword(user.Password, in.Password) {
		return nil, common.Unauthorized("Invalid user credentials", nil)
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	loggedIn, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, common.Internal("Something went wrong while logging in", err)
	}

	return &LoginResult{
		User:         loggedIn.Sanitized(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout drops the stored refresh token of userID.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	err := s.repomanager.RefreshTokens(s.db).Clear(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return common.Internal("Something went wrong while logging out", err)
	}
	return nil
}

// RefreshToken exchanges a valid, current refresh token for a new pair.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.tokens.Rotate(ctx, refreshToken)
}

// Authenticate resolves the user behind an access token. The returned
// record is sanitized.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	id, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Unauthorized("Invalid Access Token", err)
		}
		return nil, common.Internal("Something went wrong while verifying access token", err)
	}

	return user.Sanitized(), nil
}

// CurrentUser returns the sanitized record of userID.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("User does not exist")
		}
		return nil, common.Internal("Something went wrong while fetching user", err)
	}
	return user.Sanitized(), nil
}

// ChangePassword replaces the password after verifying the old one. On a
// wrong old password the stored hash is left untouched.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return common.BadRequest("oldPassword and newPassword are required")
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound("User does not exist")
		}
		return common.Internal("Something went wrong while changing password", err)
	}

	if !checkPassword(user.Password, oldPassword) {
		return common.BadRequest("Invalid old password")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return common.Internal("Something went wrong while changing password", err)
	}

	return nil
}

// UpdateProfile sets full name and email; the email must not belong to
// another account.
func (s *UserService) UpdateProfile(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" || email == "" {
		return nil, common.BadRequest("All fields are required")
	}

	user, err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, fullName, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorConflict):
			return nil, common.Conflict("User with this email already exists")
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.NotFound("User does not exist")
		}
		return nil, common.Internal("Something went wrong while updating account details", err)
	}

	return user.Sanitized(), nil
}

// UpdateAvatar uploads the staged file and stores its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, common.BadRequest("Avatar file is missing")
	}

	res, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		s.logger.Warn(ctx, "avatar upload failed", "error", err)
		return nil, common.BadRequest("Error while uploading avatar")
	}

	user, err := s.repomanager.Users(s.db).UpdateAvatar(ctx, userID, res.URL)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("User does not exist")
		}
		return nil, common.Internal("Something went wrong while updating avatar", err)
	}

	return user.Sanitized(), nil
}

// UpdateCoverImage uploads the staged file and stores its URL.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, common.BadRequest("Cover image file is missing")
	}

	res, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		s.logger.Warn(ctx, "cover image upload failed", "error", err)
		return nil, common.BadRequest("Error while uploading cover image")
	}

	user, err := s.repomanager.Users(s.db).UpdateCoverImage(ctx, userID, res.URL)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("User does not exist")
		}
		return nil, common.Internal("Something went wrong while updating cover image", err)
	}

	return user.Sanitized(), nil
}

// ResetPassword sets a new password for username and signs the account out
// everywhere by clearing its refresh token. Used by the admin tool.
func (s *UserService) ResetPassword(ctx context.Context, username, newPassword string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || newPassword == "" {
		return common.BadRequest("username and password are required")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByUsernameOrEmail(ctx, username, "")
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NotFound("User does not exist")
			}
			return common.Internal("Something went wrong while resetting password", err)
		}

		if err := s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, hash); err != nil {
			return common.Internal("Something went wrong while resetting password", err)
		}

		if err := s.repomanager.RefreshTokens(tx).Clear(ctx, user.ID); err != nil {
			return common.Internal("Something went wrong while resetting password", err)
		}

		s.logger.Info(ctx, "password reset", "user_id", user.ID)
		return nil
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.BadRequest("password is too long")
		}
		return "", common.Internal("Something went wrong while hashing password", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
