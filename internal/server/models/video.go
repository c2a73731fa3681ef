package models

import "time"

// VideoOwner is the reduced view of a video's uploader shown in listings.
type VideoOwner struct {
	FullName string `db:"fullname" json:"fullname"`
	Username string `db:"username" json:"username"`
	Avatar   string `db:"avatar" json:"avatar"`
}

// WatchedVideo is one entry of a user's watch history.
type WatchedVideo struct {
	ID          string     `db:"id" json:"_id"`
	VideoFile   string     `db:"video_file" json:"videoFile"`
	Thumbnail   string     `db:"thumbnail" json:"thumbnail"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Duration    float64    `db:"duration" json:"duration"`
	Views       int64      `db:"views" json:"views"`
	IsPublished bool       `db:"is_published" json:"isPublished"`
	Owner       VideoOwner `db:"owner" json:"owner"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
