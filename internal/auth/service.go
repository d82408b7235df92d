package auth

import (
	"errors"

	"gorm.io/gorm"

	"discord-clone/pkg/chat"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

func (s *AuthService) Register(username, email, password string) (*chat.User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	var existing chat.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := HashString(password)
	if err != nil {
		return nil, err
	}

	user := chat.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	return &user, s.db.Create(&user).Error
}

func (s *AuthService) Login(email, password string) (*chat.User, error) {
	var user chat.User

	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("incorrect email or password")
		}
		return nil, err
	}

	if !VerifyHashedString(password, user.Password) {
		return nil, errors.New("incorrect email or password")
	}

	return &user, nil
}
