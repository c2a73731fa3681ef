package models

// ChannelProfile is the public view of a user's channel together with its
// subscription counters, as seen by a particular viewer.
type ChannelProfile struct {
	FullName                  string `db:"fullname" json:"fullname"`
	Username                  string `db:"username" json:"username"`
	Email                     string `db:"email" json:"email"`
	Avatar                    string `db:"avatar" json:"avatar"`
	CoverImage                string `db:"cover_image" json:"coverImage"`
	SubscribersCount          int64  `db:"subscribers_count" json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `db:"channels_subscribed_to_count" json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `db:"is_subscribed" json:"isSubscribed"`
}
