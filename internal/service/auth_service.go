package service

import (
	"errors"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/model"
	"github.com/MahounanRomain/barflowbj-22-sub000/internal/repository"
	"github.com/MahounanRomain/barflowbj-22-sub000/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or PIN")
	ErrAccountInactive    = errors.New("staff account is inactive")
)

type LoginResponse struct {
	Token string              `json:"token"`
	Staff model.StaffResponse `json:"staff"`
}

type AuthService interface {
	Login(name, pin string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*model.StaffResponse, error)
}

type authService struct {
	staffRepo repository.StaffRepository
}

func NewAuthService(staffRepo repository.StaffRepository) AuthService {
	return &authService{staffRepo: staffRepo}
}

// Login authenticates a staff member by name and PIN.
func (s *authService) Login(name, pin string) (*LoginResponse, error) {
	member, err := s.staffRepo.FindByName(name)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !member.IsActive {
		return nil, ErrAccountInactive
	}
	if !member.CheckPIN(pin) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(member.ID, member.Name, member.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		Staff: member.ToResponse(),
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*model.StaffResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	member, err := s.staffRepo.FindByID(claims.StaffID)
	if err != nil {
		return nil, ErrStaffNotFound
	}
	if !member.IsActive {
		return nil, ErrAccountInactive
	}
	resp := member.ToResponse()
	return &resp, nil
}
