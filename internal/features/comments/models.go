package comments

import "time"

// Comment — комментарий к истории.
type Comment struct {
	ID          int64
	StoryID     int64
	AuthorID    int64
	AuthorLogin string
	Content     string
	CreatedAt   time.Time
}
