package models

import (
	"time"
)

type VideoType string

const (
	VideoYouTube VideoType = "youtube"
	VideoUpload  VideoType = "upload"
)

func (t VideoType) Valid() bool {
	return t == VideoYouTube || t == VideoUpload
}

type CourseVideo struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CourseID    uint      `json:"course_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	VideoType   VideoType `json:"video_type" gorm:"not null;size:20"`
	VideoURL    string    `json:"video_url" gorm:"not null;size:500"`
	Description *string   `json:"description" gorm:"type:text"`
	Order       int       `json:"order" gorm:"column:display_order;not null;default:0"` // display hint only

	CreatedAt time.Time `json:"created_at"`
}

func (CourseVideo) TableName() string {
	return "course_videos"
}
