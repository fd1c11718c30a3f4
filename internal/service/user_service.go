package service

import (
	"context"
	"errors"
	"time"

	"app/internal/model"
	"app/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	// Usage reports the user's generation allowance for the current UTC day.
	Usage(ctx context.Context, id int64) (*model.UserUsage, error)
	History(ctx context.Context, id int64, limit, offset int) ([]model.HistoryEntry, error)
}

type userService struct {
	users      repository.UserRepository
	history    repository.HistoryRepository
	dailyLimit int
	now        func() time.Time
}

func NewUserService(users repository.UserRepository, history repository.HistoryRepository, dailyLimit int) UserService {
	return &userService{users: users, history: history, dailyLimit: dailyLimit, now: time.Now}
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) Usage(ctx context.Context, id int64) (*model.UserUsage, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	start, end := DayWindow(s.now())
	count, err := s.history.CountInWindow(ctx, id, start, end)
	if err != nil {
		return nil, err
	}
	return &model.UserUsage{
		UserID:      id,
		CountToday:  count,
		DailyLimit:  s.dailyLimit,
		Premium:     u.Premium,
		MayGenerate: MayGenerate(u.Premium, count, s.dailyLimit),
	}, nil
}

func (s *userService) History(ctx context.Context, id int64, limit, offset int) ([]model.HistoryEntry, error) {
	return s.history.ListByUser(ctx, id, limit, offset)
}
