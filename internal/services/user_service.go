package services

import (
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/repositories"
	"tranzit_backend/internal/services/dto"
	"tranzit_backend/pkg/apperrors"
)

type UserService interface {
	ListUsers(filter *dto.AdminUserFilter) ([]dto.UserResponse, int64, error)
	GetUser(userID string) (*dto.UserResponse, error)
	ReviewUser(adminID, userID string, req *dto.ApprovalRequest) (*dto.UserResponse, error)
	DeleteUser(adminID, userID string) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

// ListUsers - админский список пользователей с фильтрами
func (s *UserServiceImpl) ListUsers(filter *dto.AdminUserFilter) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.FindWithFilter(repositories.UserFilter{
		Role:     filter.Role,
		Status:   filter.Status,
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return out, total, nil
}

// GetUser - пользователь по id
func (s *UserServiceImpl) GetUser(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// ReviewUser - решение админа по аккаунту: approve / reject / suspend / pending.
// Собственный аккаунт админ модерировать не может.
func (s *UserServiceImpl) ReviewUser(adminID, userID string, req *dto.ApprovalRequest) (*dto.UserResponse, error) {
	if adminID == userID {
		return nil, apperrors.ErrCannotModifySelf
	}

	if !models.ValidApprovalStatus(req.Status) {
		return nil, apperrors.NewBadRequestError("invalid approval status: " + string(req.Status))
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	user.ApplyApproval(req.Status, adminID, req.Notes)

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// DeleteUser - удаление пользователя вместе с токенами и профилем водителя
func (s *UserServiceImpl) DeleteUser(adminID, userID string) error {
	if adminID == userID {
		return apperrors.ErrCannotModifySelf
	}

	if err := s.userRepo.Delete(userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
