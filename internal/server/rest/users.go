package rest

import (
	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
)

func (s *Server) register(r *Request) (*Response, error) {
	f, err := fields(r.Request, "fullname", "email", "username", "password")
	if err != nil {
		return nil, err
	}

	var st staged
	defer st.cleanup()

	avatar, err := s.stageFile(r.Request, "avatar", &st)
	if err != nil {
		return nil, err
	}
	cover, err := s.stageFile(r.Request, "coverImage", &st)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Register(r.Context(), services.RegisterInput{
		FullName:       f["fullname"],
		Email:          f["email"],
		Username:       f["username"],
		Password:       f["password"],
		AvatarPath:     avatar,
		CoverImagePath: cover,
	})
	if err != nil {
		return nil, err
	}

	return Created(user, "User registered Successfully"), nil
}

func (s *Server) login(r *Request) (*Response, error) {
	f, err := fields(r.Request, "username", "email", "password")
	if err != nil {
		return nil, err
	}

	res, err := s.users.Login(r.Context(), services.LoginInput{
		Username: f["username"],
		Email:    f["email"],
		Password: f["password"],
	})
	if err != nil {
		return nil, err
	}

	return OK(res, "User logged in Successfully").
		WithCookies(s.authCookies(res.AccessToken, res.RefreshToken)...), nil
}

func (s *Server) logout(r *Request) (*Response, error) {
	if err := s.users.Logout(r.Context(), r.User.ID); err != nil {
		return nil, err
	}

	return OK(struct{}{}, "User logged out").WithCookies(s.clearedAuthCookies()...), nil
}

func (s *Server) refreshToken(r *Request) (*Response, error) {
	token := ""
	if c, err := r.Cookie(common.RefreshTokenCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		f, err := fields(r.Request, "refreshToken")
		if err != nil {
			return nil, err
		}
		token = f["refreshToken"]
	}

	pair, err := s.users.RefreshToken(r.Context(), token)
	if err != nil {
		return nil, err
	}

	return OK(pair, "Access token refreshed").
		WithCookies(s.authCookies(pair.AccessToken, pair.RefreshToken)...), nil
}

func (s *Server) changePassword(r *Request) (*Response, error) {
	f, err := fields(r.Request, "oldPassword", "newPassword")
	if err != nil {
		return nil, err
	}

	if err := s.users.ChangePassword(r.Context(), r.User.ID, f["oldPassword"], f["newPassword"]); err != nil {
		return nil, err
	}

	return OK(struct{}{}, "Password changed successfully"), nil
}

func (s *Server) currentUser(r *Request) (*Response, error) {
	return OK(r.User, "Current user fetched successfully"), nil
}

func (s *Server) updateAccount(r *Request) (*Response, error) {
	f, err := fields(r.Request, "fullname", "email")
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(r.Context(), r.User.ID, f["fullname"], f["email"])
	if err != nil {
		return nil, err
	}

	return OK(user, "Account details updated successfully"), nil
}

func (s *Server) updateAvatar(r *Request) (*Response, error) {
	var st staged
	defer st.cleanup()

	path, err := s.stageFile(r.Request, "avatar", &st)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateAvatar(r.Context(), r.User.ID, path)
	if err != nil {
		return nil, err
	}

	return OK(user, "Avatar image updated successfully"), nil
}

func (s *Server) updateCoverImage(r *Request) (*Response, error) {
	var st staged
	defer st.cleanup()

	path, err := s.stageFile(r.Request, "coverImage", &st)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateCoverImage(r.Context(), r.User.ID, path)
	if err != nil {
		return nil, err
	}

	return OK(user, "Cover image updated successfully"), nil
}
