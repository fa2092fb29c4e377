package service

import (
	"errors"

	"go-bookstore-api/internal/apperr"
	"go-bookstore-api/internal/model"
	"go-bookstore-api/internal/repository"
	"go-bookstore-api/pkg/validator"

	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=ADMIN STAFF"`
}

// UserPatch updates account fields. Nil fields are left alone.
type UserPatch struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type UserService interface {
	CreateUser(actor model.Identity, req *CreateUserRequest) (*model.User, error)
	GetUser(id uint) (*model.User, error)
	ListUsers() ([]model.User, error)
	UpdateUser(actor model.Identity, id uint, patch *UserPatch) (*model.User, error)
	DeactivateUser(actor model.Identity, id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(actor model.Identity, req *CreateUserRequest) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("user", validator.FirstError(errs))
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperr.Validationf("email", "email %s already registered", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr(err)
	}

	user := &model.User{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, storageErr(err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, storageErr(err)
	}
	return user, nil
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return user, nil
}

func (s *userService) ListUsers() ([]model.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, storageErr(err)
	}
	return users, nil
}

func (s *userService) UpdateUser(actor model.Identity, id uint, patch *UserPatch) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}

	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Role != nil {
		if *patch.Role != model.RoleAdmin && *patch.Role != model.RoleStaff {
			return nil, apperr.Validationf("role", "unknown role %q", *patch.Role)
		}
		user.Role = *patch.Role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, storageErr(err)
	}
	return user, nil
}

func (s *userService) DeactivateUser(actor model.Identity, id uint) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return notFoundOr(err, "user", id)
	}
	return storageErr(s.userRepo.Deactivate(id))
}
