package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/model"
	"github.com/lshigami/Kindred/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenSigner issues a session token for a profile.
type TokenSigner interface {
	Sign(profile *model.Profile) (token string, expiresAt time.Time, err error)
}

type AuthService interface {
	SignUp(req dto.SignUpRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	SignOut(tokenID string, expiresAt time.Time) error
	CurrentProfile(profileID uint) (*dto.ProfileResponseDTO, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	tokenRepo   repository.TokenRepository
	signer      TokenSigner
	hashCost    int
}

func NewAuthService(profileRepo repository.ProfileRepository, tokenRepo repository.TokenRepository, signer TokenSigner) AuthService {
	return &authService{
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		signer:      signer,
		hashCost:    bcrypt.DefaultCost,
	}
}

func (s *authService) SignUp(req dto.SignUpRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrInvalid)
	}

	_, err := s.profileRepo.FindByEmail(email)
	if err == nil {
		return nil, fmt.Errorf("an account with this email already exists: %w", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lookupErr("profile", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := model.Profile{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
	}
	if err := s.profileRepo.Create(&profile); err != nil {
		log.Error().Err(err).Str("email", email).Msg("SignUp: failed to create profile")
		return nil, fmt.Errorf("create profile: %w", err)
	}
	log.Info().Uint("profileID", profile.ID).Msg("SignUp: profile created")

	return s.issue(&profile)
}

func (s *authService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	profile, err := s.profileRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, lookupErr("profile", err)
	}
	if err := bcrypt.CompareHashAndPassword(profile.PasswordHash, []byte(req.Password)); err != nil {
		log.Warn().Uint("profileID", profile.ID).Msg("Login: password mismatch")
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}
	return s.issue(profile)
}

func (s *authService) SignOut(tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("token has no id: %w", ErrInvalid)
	}
	if err := s.tokenRepo.Revoke(tokenID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) CurrentProfile(profileID uint) (*dto.ProfileResponseDTO, error) {
	profile, err := s.profileRepo.FindByID(profileID)
	if err != nil {
		return nil, lookupErr("profile", err)
	}
	var resp dto.ProfileResponseDTO
	if err := copier.Copy(&resp, profile); err != nil {
		return nil, fmt.Errorf("error preparing profile response: %w", err)
	}
	return &resp, nil
}

func (s *authService) issue(profile *model.Profile) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.signer.Sign(profile)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	resp := dto.AuthResponse{Token: token, ExpiresAt: expiresAt}
	if err := copier.Copy(&resp.Profile, profile); err != nil {
		return nil, fmt.Errorf("error preparing profile response: %w", err)
	}
	return &resp, nil
}
