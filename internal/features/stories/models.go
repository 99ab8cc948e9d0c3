package stories

import "time"

// Story — совместная история.
type Story struct {
	ID         int64
	AuthorID   int64
	Title      string
	Annotation string
	CoverImage string
	Editable   bool
	Private    bool
	CreatedAt  time.Time
}

// StoryDetails — история с агрегатами для выдачи наружу.
type StoryDetails struct {
	Story
	AuthorLogin   string
	Tags          []string
	PartsCount    int
	LikesCount    int
	CommentsCount int
}

// StoryUpdate — частичное обновление истории. nil-поля не трогаются.
type StoryUpdate struct {
	Title      *string
	Annotation *string
	CoverImage *string
	Editable   *bool
	Private    *bool
	Tags       []string // nil — теги не меняются, пустой срез — очистить
}
