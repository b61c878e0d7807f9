package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"video-bot/domain/dto"
	"video-bot/domain/model"
	"video-bot/domain/repository"
	"video-bot/infrastructure/logger"
	"video-bot/infrastructure/utils"
)

// ISubmissionUsecase drives the submission pipeline: de-duplication, posting
// the video to Reddit and rotating the sticky submission afterwards.
type ISubmissionUsecase interface {
	HandleVideoUpdate(ctx context.Context, feed *dto.VideoFeed) error
	IsDuplicate(ctx context.Context, videoID string) (bool, error)
	RecordAndRotate(ctx context.Context, videoID, postID string) (*model.RotationResult, error)
	// SeedFromReddit imports the account's existing submissions into an empty
	// ledger. One-time reconciliation, not part of steady-state operation.
	SeedFromReddit(ctx context.Context) error
}

type submissionUsecase struct {
	submissionRepo repository.ISubmission
	redditClient   repository.IReddit
	credentials    ICredentialUsecase
	// rotateMu keeps at most one rotation in flight so the pin/unpin targets
	// are never computed from an inconsistent snapshot.
	rotateMu sync.Mutex
	now      func() time.Time
}

func NewSubmissionUsecase(submissionRepo repository.ISubmission, redditClient repository.IReddit, credentials ICredentialUsecase) ISubmissionUsecase {
	return &submissionUsecase{
		submissionRepo: submissionRepo,
		redditClient:   redditClient,
		credentials:    credentials,
		now:            utils.GetCurrentTime,
	}
}

func (u *submissionUsecase) IsDuplicate(ctx context.Context, videoID string) (bool, error) {
	return u.submissionRepo.Exists(ctx, videoID)
}

func (u *submissionUsecase) HandleVideoUpdate(ctx context.Context, feed *dto.VideoFeed) error {
	entry := feed.Entry
	duplicate, err := u.submissionRepo.Exists(ctx, entry.VideoID)
	if err != nil {
		return err
	}
	if duplicate {
		logger.GetLogger().WithField("videoId", entry.VideoID).Info("The Youtube video already exists in the database, skipping the Reddit submission")
		return nil
	}

	token, err := u.credentials.FreshToken(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot submit video without a valid Reddit Oauth token")
		return err
	}

	logger.GetLogger().WithField("title", entry.Title).Info("Submitting video to Reddit")
	data, err := u.redditClient.Submit(ctx, token.AccessToken, entry.Title, entry.Link.Href)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to submit video to Reddit")
		return err
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"redditId": data.Name,
		"url":      entry.Link.Href,
	}).Info("Successfully submitted video to Reddit")

	result, err := u.RecordAndRotate(ctx, entry.VideoID, data.Name)
	if err != nil {
		return err
	}
	if result.NewlyPinnedPostID != "" {
		logger.GetLogger().WithFields(map[string]interface{}{
			"unstickied": result.PreviousPinnedPostID,
			"stickied":   result.NewlyPinnedPostID,
		}).Info("Successfully finished moderation of Reddit submissions")
	}
	return nil
}

// RecordAndRotate appends the new submission to the ledger and moves the
// sticky flag from the oldest stickied submission to the previous newest one.
// The brand-new submission is never the pin target: sticking a post right
// after submitting it down-ranks it in the Reddit algorithm.
func (u *submissionUsecase) RecordAndRotate(ctx context.Context, videoID, postID string) (*model.RotationResult, error) {
	u.rotateMu.Lock()
	defer u.rotateMu.Unlock()

	newest := &model.Submission{
		VideoID:   videoID,
		PostID:    postID,
		Timestamp: u.now().Unix(),
		Stickied:  false,
	}
	if err := u.submissionRepo.Insert(ctx, newest); err != nil {
		return nil, err
	}

	result := &model.RotationResult{}

	oldest, err := u.submissionRepo.OldestStickied(ctx)
	if err != nil {
		return nil, err
	}
	if oldest == nil {
		// Nothing is stickied yet; the first submissions never pin anything.
		return result, nil
	}

	previous, err := u.submissionRepo.LatestExcept(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if previous == nil || previous.Stickied {
		// Already rotated for this position; re-pinning is avoided.
		return result, nil
	}

	if err := u.submissionRepo.SetStickied(ctx, previous.ID, true); err != nil {
		return nil, err
	}
	if err := u.submissionRepo.SetStickied(ctx, oldest.ID, false); err != nil {
		return nil, err
	}

	token, err := u.credentials.FreshToken(ctx)
	if err != nil {
		return nil, err
	}

	// Unpin before pin so the subreddit never carries two bot stickies.
	if err := u.redditClient.SetSticky(ctx, token.AccessToken, oldest.PostID, false); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":    err,
			"redditId": oldest.PostID,
		}).Warn("Failed to unsticky the old Reddit submission, it now has to be corrected manually")
	}
	if err := u.redditClient.SetSticky(ctx, token.AccessToken, previous.PostID, true); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":    err,
			"redditId": previous.PostID,
		}).Warn("Failed to sticky the new Reddit submission, it now has to be stickied manually")
	}

	result.PreviousPinnedPostID = oldest.PostID
	result.NewlyPinnedPostID = previous.PostID
	return result, nil
}

func (u *submissionUsecase) SeedFromReddit(ctx context.Context) error {
	count, err := u.submissionRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.GetLogger().Info("Submission ledger already populated, skipping Reddit import")
		return nil
	}

	logger.GetLogger().Info("Getting existing submissions from Reddit")
	var submissions []*model.Submission
	after := ""
	page := 1
	for {
		listing, err := u.redditClient.UserSubmissions(ctx, after)
		if err != nil {
			return err
		}
		for _, child := range listing.Data.Children {
			videoID := videoIDFromURL(child.Data.URL)
			if videoID == "" {
				continue
			}
			submissions = append(submissions, &model.Submission{
				VideoID:   videoID,
				PostID:    child.Data.Name,
				Timestamp: int64(child.Data.TimestampUTC),
				Stickied:  child.Data.Stickied,
			})
		}
		if listing.Data.After == nil || *listing.Data.After == "" {
			break
		}
		after = *listing.Data.After
		page++
		logger.GetLogger().WithField("page", page).Info("There are more than 25 submissions, getting next page of Reddit submissions")
	}

	if err := u.submissionRepo.BulkInsert(ctx, submissions); err != nil {
		return err
	}
	logger.GetLogger().WithField("count", len(submissions)).Info("Successfully imported existing Reddit submissions")
	return nil
}

// videoIDFromURL extracts the YouTube video id from a watch URL.
func videoIDFromURL(url string) string {
	parts := strings.Split(url, "?v=")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
