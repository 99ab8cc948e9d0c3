package parts

import "time"

// Part — часть истории. Порядковые номера частей внутри истории
// идут плотно: 1..N без дыр.
type Part struct {
	ID          int64
	StoryID     int64
	AuthorID    int64
	AuthorLogin string
	Order       int
	Content     string
	CreatedAt   time.Time
}
