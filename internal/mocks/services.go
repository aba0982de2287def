package mocks

import (
	"context"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/service"
)

// MockCommentService is a mock implementation of CommentService.
// Unset Func fields return zero values.
type MockCommentService struct {
	ListByPostFunc  func(ctx context.Context, postID int64) ([]*models.Comment, error)
	ListFunc        func(ctx context.Context) ([]*models.Comment, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*models.Comment, error)
	CreateFunc      func(ctx context.Context, in *models.CommentInput) (*models.Comment, error)
	UpdateFunc      func(ctx context.Context, id int64, upd *models.CommentUpdate) (*models.Comment, error)
	DeleteFunc      func(ctx context.Context, id int64) (bool, error)
	VoteFunc        func(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error)
	UpdateScoreFunc func(ctx context.Context, id int64, score int) (*models.Comment, error)
	Scores          bool
	Created         []*models.CommentInput
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	if m.ListByPostFunc != nil {
		return m.ListByPostFunc(ctx, postID)
	}
	return []*models.Comment{}, nil
}

func (m *MockCommentService) List(ctx context.Context) ([]*models.Comment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Comment{}, nil
}

func (m *MockCommentService) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, service.ErrCommentNotFound
}

func (m *MockCommentService) Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
	m.Created = append(m.Created, in)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &models.Comment{ID: int64(len(m.Created)), Content: in.Content, PostID: in.PostID}, nil
}

func (m *MockCommentService) Update(ctx context.Context, id int64, upd *models.CommentUpdate) (*models.Comment, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return &models.Comment{ID: id}, nil
}

func (m *MockCommentService) Delete(ctx context.Context, id int64) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *MockCommentService) Vote(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error) {
	if m.VoteFunc != nil {
		return m.VoteFunc(ctx, id, voteType)
	}
	return &models.Comment{ID: id}, nil
}

func (m *MockCommentService) UpdateScore(ctx context.Context, id int64, score int) (*models.Comment, error) {
	if m.UpdateScoreFunc != nil {
		return m.UpdateScoreFunc(ctx, id, score)
	}
	if !m.Scores {
		return nil, service.ErrUnsupported
	}
	return &models.Comment{ID: id, Score: score}, nil
}

func (m *MockCommentService) SupportsScores() bool {
	return m.Scores
}

// MockCommunityService is a mock implementation of CommunityService
type MockCommunityService struct {
	SearchFunc    func(ctx context.Context, query string) ([]*models.CommunitySearchResult, error)
	ListFunc      func(ctx context.Context) ([]*models.Community, error)
	GetByIDFunc   func(ctx context.Context, id int64) (*models.Community, error)
	GetByNameFunc func(ctx context.Context, name string) (*models.Community, error)
	CreateFunc    func(ctx context.Context, in *models.CommunityInput) (*models.Community, error)
	UpdateFunc    func(ctx context.Context, id int64, upd *models.CommunityUpdate) (*models.Community, error)
	DeleteFunc    func(ctx context.Context, id int64) (bool, error)
}

// Verify interface compliance
var _ service.CommunityService = (*MockCommunityService)(nil)

func NewMockCommunityService() *MockCommunityService {
	return &MockCommunityService{}
}

func (m *MockCommunityService) Search(ctx context.Context, query string) ([]*models.CommunitySearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return []*models.CommunitySearchResult{}, nil
}

func (m *MockCommunityService) List(ctx context.Context) ([]*models.Community, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Community{}, nil
}

func (m *MockCommunityService) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, service.ErrCommunityNotFound
}

func (m *MockCommunityService) GetByName(ctx context.Context, name string) (*models.Community, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, service.ErrCommunityNotFound
}

func (m *MockCommunityService) Create(ctx context.Context, in *models.CommunityInput) (*models.Community, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &models.Community{ID: 1, Key: models.CommunityKey(1), Name: in.Name}, nil
}

func (m *MockCommunityService) Update(ctx context.Context, id int64, upd *models.CommunityUpdate) (*models.Community, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return &models.Community{ID: id, Key: models.CommunityKey(id)}, nil
}

func (m *MockCommunityService) Delete(ctx context.Context, id int64) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	ListFunc    func(ctx context.Context) ([]*models.User, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.User, error)
	CreateFunc  func(ctx context.Context, in *models.UserInput) (*models.User, error)
	UpdateFunc  func(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error)
	DeleteFunc  func(ctx context.Context, id int64) (bool, error)
	SearchFunc  func(ctx context.Context, query string) ([]*models.User, error)
}

// Verify interface compliance
var _ service.UserService = (*MockUserService)(nil)

func NewMockUserService() *MockUserService {
	return &MockUserService{}
}

func (m *MockUserService) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, service.ErrUserNotFound
}

func (m *MockUserService) Create(ctx context.Context, in *models.UserInput) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	return &models.User{ID: 1, Name: in.Name, Email: in.Email}, nil
}

func (m *MockUserService) Update(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return &models.User{ID: id}, nil
}

func (m *MockUserService) Delete(ctx context.Context, id int64) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *MockUserService) Search(ctx context.Context, query string) ([]*models.User, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return []*models.User{}, nil
}
