package usecase

import (
	"context"
	"testing"
	"time"

	"video-bot/domain/dto"
	"video-bot/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestSubmissionUsecase(repo *MockSubmissionRepository, client *MockRedditClient, cred *MockCredentialUsecase) *submissionUsecase {
	return &submissionUsecase{
		submissionRepo: repo,
		redditClient:   client,
		credentials:    cred,
		now:            func() time.Time { return fixedNow },
	}
}

func watchFeed(videoID, title string) *dto.VideoFeed {
	return &dto.VideoFeed{
		Entry: dto.Entry{
			ID:        "yt:video:" + videoID,
			VideoID:   videoID,
			ChannelID: "UCx",
			Title:     title,
			Link:      dto.Link{Rel: "alternate", Href: "https://www.youtube.com/watch?v=" + videoID},
			Published: fixedNow.Add(-time.Minute),
			Updated:   fixedNow,
		},
	}
}

func TestSubmissionUsecase_RecordAndRotate_MovesSticky(t *testing.T) {
	repo := new(MockSubmissionRepository)
	client := new(MockRedditClient)
	cred := new(MockCredentialUsecase)

	oldest := &model.Submission{ID: 1, VideoID: "v1", PostID: "t3_p1", Timestamp: 100, Stickied: true}
	previous := &model.Submission{ID: 2, VideoID: "v2", PostID: "t3_p2", Timestamp: 200, Stickied: false}

	var order []string
	record := func(step string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, step) }
	}

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(s *model.Submission) bool {
		return s.VideoID == "v3" && s.PostID == "t3_p3" && !s.Stickied && s.Timestamp == fixedNow.Unix()
	})).Return(nil).Once()
	repo.On("OldestStickied", mock.Anything).Return(oldest, nil).Once()
	repo.On("LatestExcept", mock.Anything, "v3").Return(previous, nil).Once()
	repo.On("SetStickied", mock.Anything, int64(2), true).Run(record("ledger-pin")).Return(nil).Once()
	repo.On("SetStickied", mock.Anything, int64(1), false).Run(record("ledger-unpin")).Return(nil).Once()
	cred.On("FreshToken", mock.Anything).Return(&model.OauthToken{AccessToken: "tok"}, nil).Once()
	client.On("SetSticky", mock.Anything, "tok", "t3_p1", false).Run(record("unpin")).Return(nil).Once()
	client.On("SetSticky", mock.Anything, "tok", "t3_p2", true).Run(record("pin")).Return(nil).Once()

	u := newTestSubmissionUsecase(repo, client, cred)
	result, err := u.RecordAndRotate(context.Background(), "v3", "t3_p3")

	assert.NoError(t, err)
	assert.Equal(t, "t3_p1", result.PreviousPinnedPostID)
	assert.Equal(t, "t3_p2", result.NewlyPinnedPostID)
	// The old pin must come off before the new one goes on.
	assert.Equal(t, []string{"ledger-pin", "ledger-unpin", "unpin", "pin"}, order)
	repo.AssertExpectations(t)
	client.AssertExpectations(t)
	cred.AssertExpectations(t)
}

func TestSubmissionUsecase_RecordAndRotate_NothingStickiedYet(t *testing.T) {
	repo := new(MockSubmissionRepository)
	client := new(MockRedditClient)
	cred := new(MockCredentialUsecase)

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("OldestStickied", mock.Anything).Return(nil, nil).Once()

	u := newTestSubmissionUsecase(repo, client, cred)
	result, err := u.RecordAndRotate(context.Background(), "v1", "t3_p1")

	assert.NoError(t, err)
	assert.Empty(t, result.PreviousPinnedPostID)
	assert.Empty(t, result.NewlyPinnedPostID)
	repo.AssertNotCalled(t, "SetStickied", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "SetSticky", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSubmissionUsecase_RecordAndRotate_PreviousAlreadyStickied(t *testing.T) {
	repo := new(MockSubmissionRepository)
	client := new(MockRedditClient)
	cred := new(MockCredentialUsecase)

	oldest := &model.Submission{ID: 2, VideoID: "v2", PostID: "t3_p2", Timestamp: 200, Stickied: true}

	repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("OldestStickied", mock.Anything).Return(oldest, nil).Once()
	repo.On("LatestExcept", mock.Anything, "v3").Return(oldest, nil).Once()

	u := newTestSubmissionUsecase(repo, client, cred)
	result, err := u.RecordAndRotate(context.Background(), "v3", "t3_p3")

	assert.NoError(t, err)
	assert.Empty(t, result.NewlyPinnedPostID)
	repo.AssertNotCalled(t, "SetStickied", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "SetSticky", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSubmissionUsecase_HandleVideoUpdate_SkipsDuplicates(t *testing.T) {
	repo := new(MockSubmissionRepository)
	client := new(MockRedditClient)
	cred := new(MockCredentialUsecase)

	repo.On("Exists", mock.Anything, "v1").Return(true, nil).Once()

	u := newTestSubmissionUsecase(repo, client, cred)
	err := u.HandleVideoUpdate(context.Background(), watchFeed("v1", "A video"))

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cred.AssertNotCalled(t, "FreshToken", mock.Anything)
	repo.AssertExpectations(t)
}

func TestSubmissionUsecase_HandleVideoUpdate_SubmitsAndRotates(t *testing.T) {
	repo := new(MockSubmissionRepository)
	client := new(MockRedditClient)
	cred := new(MockCredentialUsecase)

	oldest := &model.Submission{ID: 1, VideoID: "v1", PostID: "t3_p1", Timestamp: 100, Stickied: true}
	previous := &model.Submission{ID: 2, VideoID: "v2", PostID: "t3_p2", Timestamp: 200, Stickied: false}

	repo.On("Exists", mock.Anything, "v3").Return(false, nil).Once()
	cred.On("FreshToken", mock.Anything).Return(&model.OauthToken{AccessToken: "tok"}, nil).Twice()
	client.On("Submit", mock.Anything, "tok", "A new video", "https://www.youtube.com/watch?v=v3").
		Return(&model.SubmitData{ID: "p3", Name: "t3_p3", URL: "https://reddit.example/p3"}, nil).
		Once()
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(s *model.Submission) bool {
		return s.VideoID == "v3" && s.PostID == "t3_p3"
	})).Return(nil).Once()
	repo.On("OldestStickied", mock.Anything).Return(oldest, nil).Once()
	repo.On("LatestExcept", mock.Anything, "v3").Return(previous, nil).Once()
	repo.On("SetStickied", mock.Anything, int64(2), true).Return(nil).Once()
	repo.On("SetStickied", mock.Anything, int64(1), false).Return(nil).Once()
	client.On("SetSticky", mock.Anything, "tok", "t3_p1", false).Return(nil).Once()
	client.On("SetSticky", mock.Anything, "tok", "t3_p2", true).Return(nil).Once()

	u := newTestSubmissionUsecase(repo, client, cred)
	err := u.HandleVideoUpdate(context.Background(), watchFeed("v3", "A new video"))

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	client.AssertExpectations(t)
	cred.AssertExpectations(t)
}

func TestSubmissionUsecase_SeedFromReddit_SkipsPopulatedLedger(t *testing.T) {
	repo := new(MockSubmissionRepository)
	client := new(MockRedditClient)
	cred := new(MockCredentialUsecase)

	repo.On("Count", mock.Anything).Return(int64(7), nil).Once()

	u := newTestSubmissionUsecase(repo, client, cred)
	err := u.SeedFromReddit(context.Background())

	assert.NoError(t, err)
	client.AssertNotCalled(t, "UserSubmissions", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSubmissionUsecase_SeedFromReddit_PaginatesAndFilters(t *testing.T) {
	repo := new(MockSubmissionRepository)
	client := new(MockRedditClient)
	cred := new(MockCredentialUsecase)

	cursor := "t3_b"
	page1 := &model.RedditListing{Data: model.ListingData{
		Children: []model.ListingChild{
			{Data: model.ListingChildData{Name: "t3_a", URL: "https://www.youtube.com/watch?v=vidA", TimestampUTC: 1700000000, Stickied: true}},
			{Data: model.ListingChildData{Name: "t3_b", URL: "https://example.com/not-a-video", TimestampUTC: 1700000100}},
		},
		After: &cursor,
	}}
	page2 := &model.RedditListing{Data: model.ListingData{
		Children: []model.ListingChild{
			{Data: model.ListingChildData{Name: "t3_c", URL: "https://www.youtube.com/watch?v=vidC", TimestampUTC: 1700000200}},
		},
		After: nil,
	}}

	repo.On("Count", mock.Anything).Return(int64(0), nil).Once()
	client.On("UserSubmissions", mock.Anything, "").Return(page1, nil).Once()
	client.On("UserSubmissions", mock.Anything, "t3_b").Return(page2, nil).Once()
	repo.On("BulkInsert", mock.Anything, mock.MatchedBy(func(subs []*model.Submission) bool {
		return len(subs) == 2 &&
			subs[0].VideoID == "vidA" && subs[0].Stickied &&
			subs[1].VideoID == "vidC" && !subs[1].Stickied
	})).Return(nil).Once()

	u := newTestSubmissionUsecase(repo, client, cred)
	err := u.SeedFromReddit(context.Background())

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	client.AssertExpectations(t)
}
