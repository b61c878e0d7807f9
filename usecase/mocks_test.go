package usecase

import (
	"context"

	"video-bot/domain/model"

	"github.com/stretchr/testify/mock"
)

// Mock implementations

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Exists(ctx context.Context, videoID string) (bool, error) {
	args := m.Called(ctx, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) Insert(ctx context.Context, submission *model.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) OldestStickied(ctx context.Context) (*model.Submission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) LatestExcept(ctx context.Context, videoID string) (*model.Submission, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) SetStickied(ctx context.Context, id int64, stickied bool) error {
	args := m.Called(ctx, id, stickied)
	return args.Error(0)
}

func (m *MockSubmissionRepository) BulkInsert(ctx context.Context, submissions []*model.Submission) error {
	args := m.Called(ctx, submissions)
	return args.Error(0)
}

type MockRedditClient struct {
	mock.Mock
}

func (m *MockRedditClient) ExchangeCode(ctx context.Context, code string) (*model.OauthToken, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OauthToken), args.Error(1)
}

func (m *MockRedditClient) RefreshToken(ctx context.Context, refreshToken string) (*model.OauthToken, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OauthToken), args.Error(1)
}

func (m *MockRedditClient) Submit(ctx context.Context, accessToken, title, url string) (*model.SubmitData, error) {
	args := m.Called(ctx, accessToken, title, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubmitData), args.Error(1)
}

func (m *MockRedditClient) SetSticky(ctx context.Context, accessToken, fullname string, state bool) error {
	args := m.Called(ctx, accessToken, fullname, state)
	return args.Error(0)
}

func (m *MockRedditClient) UserSubmissions(ctx context.Context, after string) (*model.RedditListing, error) {
	args := m.Called(ctx, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RedditListing), args.Error(1)
}

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) GetToken(ctx context.Context) (*model.OauthToken, int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*model.OauthToken), args.Get(1).(int64), args.Error(2)
}

func (m *MockCredentialRepository) SaveToken(ctx context.Context, token *model.OauthToken, expiresAt int64) error {
	args := m.Called(ctx, token, expiresAt)
	return args.Error(0)
}

type MockCredentialUsecase struct {
	mock.Mock
}

func (m *MockCredentialUsecase) ExchangeAuthorizationCode(ctx context.Context, code string) (*model.OauthToken, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OauthToken), args.Error(1)
}

func (m *MockCredentialUsecase) CurrentToken(ctx context.Context) (*model.OauthToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OauthToken), args.Error(1)
}

func (m *MockCredentialUsecase) IsExpired(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockCredentialUsecase) Refresh(ctx context.Context) (*model.OauthToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OauthToken), args.Error(1)
}

func (m *MockCredentialUsecase) FreshToken(ctx context.Context) (*model.OauthToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OauthToken), args.Error(1)
}

type MockHubClient struct {
	mock.Mock
}

func (m *MockHubClient) Subscribe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
