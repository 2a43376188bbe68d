package service

import (
	"context"
	"errors"

	commoncrypto "github.com/vlasovdm/taskdeck/backend/internal/common/crypto"
	commonerrors "github.com/vlasovdm/taskdeck/backend/internal/common/errors"
	"github.com/vlasovdm/taskdeck/backend/internal/common/logger"
	userdomain "github.com/vlasovdm/taskdeck/backend/internal/user/domain"
	userrepo "github.com/vlasovdm/taskdeck/backend/internal/user/repository"
)

type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	issuer      *TokenIssuer
	log         *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	issuer *TokenIssuer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		issuer:      issuer,
		log:         log,
	}
}

type RegisterInput struct {
	Username string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	User        userdomain.Public
	AccessToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.Public, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		incrementRegistration("validation_failed")
		return userdomain.Public{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		incrementRegistration("error")
		return userdomain.Public{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		incrementRegistration("error")
		return userdomain.Public{}, err
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.issuer.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, commonerrors.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			incrementRegistration("conflict")
			return userdomain.Public{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		incrementRegistration("error")
		return userdomain.Public{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")
	incrementRegistration("success")

	return user.Public(), nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.validate(ctx, input.Username, input.Password)
	if err != nil {
		return LoginResult{}, err
	}

	accessToken, _, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		incrementLoginAttempt("error")
		return LoginResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")
	incrementLoginAttempt("success")

	return LoginResult{
		User:        user.Public(),
		AccessToken: accessToken,
	}, nil
}

// Profile resolves the authenticated user behind a verified token. A
// token whose subject no longer exists is treated as invalid.
func (s *AuthService) Profile(ctx context.Context, userID string) (userdomain.Public, error) {
	user, err := s.repo.FindByID(ctx, userdomain.ID(userID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": userID,
				"action":  "profile_user_not_found",
			}).Warn("profile lookup failed: not found")
			return userdomain.Public{}, commonerrors.ErrInvalidToken
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "profile_fetch_failed",
		}).Errorf("profile lookup failed: %v", err)
		return userdomain.Public{}, commonerrors.ErrInternalError.WithCause(err)
	}

	return user.Public(), nil
}

// dummyPasswordHash is a cost-12 bcrypt hash compared against on the
// unknown-username branch so both login failure paths cost the same.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// validate fails closed: an unknown username and a wrong password are
// indistinguishable to the caller, in response shape and in timing.
func (s *AuthService) validate(ctx context.Context, username, password string) (userdomain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			_ = s.hasher.Compare(dummyPasswordHash, password)
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			incrementLoginAttempt("invalid_credentials")
			return userdomain.User{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		incrementLoginAttempt("error")
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		incrementLoginAttempt("invalid_credentials")
		return userdomain.User{}, ErrInvalidCredentials
	}

	return user, nil
}
