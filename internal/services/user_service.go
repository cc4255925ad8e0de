package services

import (
	"context"

	"social-app/internal/models"
	"social-app/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUserNotFound = repositories.ErrUserNotFound

type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Register(ctx context.Context, user *models.User) (*models.SafeUserResponse, error) {
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	resp := created.ToSafeResponse()
	return &resp, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.SafeUserResponse, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToSafeResponse()
	return &resp, nil
}

func (s *UserService) Search(ctx context.Context, name string) ([]models.SafeUserResponse, error) {
	users, err := s.users.SearchUsers(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]models.SafeUserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToSafeResponse())
	}
	return out, nil
}
