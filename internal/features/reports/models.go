package reports

import "time"

// Report — жалоба пользователя на историю. На пару (история,
// пользователь) допускается не больше одной жалобы.
type Report struct {
	ID               int64
	StoryID          int64
	StoryTitle       string
	StoryAuthorID    int64
	StoryAuthorLogin string
	ReporterID       int64
	ReporterLogin    string
	Reason           string
	Details          string
	CreatedAt        time.Time
}
