package reports

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fictionhub/internal/common"
)

type reportKey struct {
	storyID, reporterID int64
}

type fakeStorage struct {
	stories  map[int64]bool
	reports  map[int64]*Report
	nextID   int64
	existing map[reportKey]bool
}

func newFakeStorage(storyIDs ...int64) *fakeStorage {
	s := &fakeStorage{
		stories:  make(map[int64]bool),
		reports:  make(map[int64]*Report),
		existing: make(map[reportKey]bool),
		nextID:   1,
	}
	for _, id := range storyIDs {
		s.stories[id] = true
	}
	return s
}

func (s *fakeStorage) StoryExists(_ context.Context, storyID int64) (bool, error) {
	return s.stories[storyID], nil
}

func (s *fakeStorage) Create(_ context.Context, rep *Report) error {
	key := reportKey{rep.StoryID, rep.ReporterID}
	if s.existing[key] {
		return common.ErrAlreadyExists
	}
	s.existing[key] = true
	rep.ID = s.nextID
	s.nextID++
	saved := *rep
	s.reports[rep.ID] = &saved
	return nil
}

func (s *fakeStorage) GetByID(_ context.Context, id int64) (*Report, error) {
	rep, ok := s.reports[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	full := *rep
	full.StoryTitle = "The Hollow City"
	full.StoryAuthorLogin = "author"
	full.ReporterLogin = "reader"
	return &full, nil
}

func (s *fakeStorage) Recent(_ context.Context, limit int) ([]*Report, error) {
	list := make([]*Report, 0, limit)
	for _, rep := range s.reports {
		list = append(list, rep)
	}
	return list, nil
}

type fakeNotifier struct {
	received []*Report
}

func (n *fakeNotifier) NotifyNewReport(rep *Report) {
	n.received = append(n.received, rep)
}

func TestCreateReport(t *testing.T) {
	store := newFakeStorage(5)
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier)

	rep, err := svc.Create(context.Background(), 5, 7, "spam", "copied from elsewhere")
	require.NoError(t, err)
	assert.Equal(t, "spam", rep.Reason)
	assert.Equal(t, "copied from elsewhere", rep.Details)
	assert.Equal(t, "reader", rep.ReporterLogin)

	require.Len(t, notifier.received, 1)
	assert.Equal(t, rep.ID, notifier.received[0].ID)
	assert.Equal(t, "author", notifier.received[0].StoryAuthorLogin)
}

func TestCreateReportUnknownStory(t *testing.T) {
	store := newFakeStorage(5)
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier)

	_, err := svc.Create(context.Background(), 42, 7, "spam", "")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, store.reports)
	assert.Empty(t, notifier.received)
}

func TestCreateReportEmptyReason(t *testing.T) {
	svc := NewService(newFakeStorage(5), nil)

	_, err := svc.Create(context.Background(), 5, 7, "   ", "details")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateReportOverlongFields(t *testing.T) {
	svc := NewService(newFakeStorage(5), nil)

	_, err := svc.Create(context.Background(), 5, 7, strings.Repeat("x", maxReasonLen+1), "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Create(context.Background(), 5, 7, "spam", strings.Repeat("x", maxDetailsLen+1))
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateReportDuplicate(t *testing.T) {
	store := newFakeStorage(5)
	svc := NewService(store, nil)

	_, err := svc.Create(context.Background(), 5, 7, "spam", "")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 5, 7, "spam again", "")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}
