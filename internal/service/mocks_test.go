package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/studyplan-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев
// ============================================================================

// MockPerformanceRepo реализует repository.PerformanceRepository
type MockPerformanceRepo struct {
	mock.Mock
}

func (m *MockPerformanceRepo) ListByUser(ctx context.Context, userID uint) ([]entity.TopicPerformance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TopicPerformance), args.Error(1)
}

func (m *MockPerformanceRepo) GetByTopic(ctx context.Context, userID uint, subject, topic string) (*entity.TopicPerformance, error) {
	args := m.Called(ctx, userID, subject, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TopicPerformance), args.Error(1)
}

func (m *MockPerformanceRepo) Save(ctx context.Context, perf *entity.TopicPerformance) error {
	args := m.Called(ctx, perf)
	return args.Error(0)
}

// MockProfileRepo реализует repository.ProfileRepository
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID uint) (*entity.StudentProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StudentProfile), args.Error(1)
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *entity.StudentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepo) UpdateStreak(ctx context.Context, profile *entity.StudentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepo) UpdateSettings(ctx context.Context, profile *entity.StudentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepo) AddPoints(ctx context.Context, userID uint, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

// MockAchievementRepo реализует repository.AchievementRepository
type MockAchievementRepo struct {
	mock.Mock
}

func (m *MockAchievementRepo) ListUnlockedIDs(ctx context.Context, userID uint) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAchievementRepo) Unlock(ctx context.Context, userID uint, ids []string, at time.Time) error {
	args := m.Called(ctx, userID, ids, at)
	return args.Error(0)
}

// MockTaskCompletionRepo реализует repository.TaskCompletionRepository
type MockTaskCompletionRepo struct {
	mock.Mock
}

func (m *MockTaskCompletionRepo) ListByDates(ctx context.Context, userID uint, dates []string) ([]entity.TaskCompletion, error) {
	args := m.Called(ctx, userID, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TaskCompletion), args.Error(1)
}

func (m *MockTaskCompletionRepo) Create(ctx context.Context, completion *entity.TaskCompletion) error {
	args := m.Called(ctx, completion)
	return args.Error(0)
}

func (m *MockTaskCompletionRepo) Delete(ctx context.Context, userID uint, taskID string) (*entity.TaskCompletion, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TaskCompletion), args.Error(1)
}

func (m *MockTaskCompletionRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepo) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepo) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// MockEmailSender реализует EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
