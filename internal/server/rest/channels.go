package rest

import "github.com/go-chi/chi/v5"

func (s *Server) channelProfile(r *Request) (*Response, error) {
	profile, err := s.channels.ChannelProfile(r.Context(), chi.URLParam(r.Request, "username"), r.User.ID)
	if err != nil {
		return nil, err
	}

	return OK(profile, "User channel fetched successfully"), nil
}

func (s *Server) watchHistory(r *Request) (*Response, error) {
	videos, err := s.channels.WatchHistory(r.Context(), r.User.ID)
	if err != nil {
		return nil, err
	}

	return OK(videos, "Watch history fetched successfully"), nil
}
