package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"templatehub-backend-go/internal/auth"
	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/models"
)

// Account errors.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidStatusAction = errors.New("invalid account status action")
	ErrFirebaseToken       = errors.New("invalid firebase token")
)

// Account status actions accepted by SetStatus.
const (
	ActionBan   = "ban"
	ActionUnban = "unban"
)

const defaultRating = 4.8

type userService struct {
	userRepo     db.UserRepository
	templateRepo db.TemplateRepository
	cart         CartService
	activity     ActivityService
	verifier     FirebaseVerifier
	fbAdmin      FirebaseUserAdmin
	logger       *zap.Logger
}

// NewUserService creates a UserService. verifier and fbAdmin may be nil when
// Firebase federation is not configured; FirebaseLogin then fails and status
// changes are not mirrored.
func NewUserService(
	ur db.UserRepository,
	tr db.TemplateRepository,
	cs CartService,
	as ActivityService,
	verifier FirebaseVerifier,
	fbAdmin FirebaseUserAdmin,
	logger *zap.Logger,
) UserService {
	return &userService{
		userRepo:     ur,
		templateRepo: tr,
		cart:         cs,
		activity:     as,
		verifier:     verifier,
		fbAdmin:      fbAdmin,
		logger:       logger,
	}
}

// Register creates a local-credential account. Only buyer and seller are
// self-assignable; an empty role defaults to buyer.
func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("userService: userRepo not initialized")
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleBuyer
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRole, req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email '%s': %w", email, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       models.UserActive,
		Rating:       defaultRating,
		Cart:         []models.CartItem{},
		Templates:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	s.activity.Record(ctx, fmt.Sprintf("New user registered: %s", user.Username), user.ID)
	return user, nil
}

// Login checks local credentials and returns the account.
func (s *userService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("userService: userRepo not initialized")
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: email '%s'", ErrUserNotFound, email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	// Federated accounts have no local password and are invisible to
	// password login.
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: email '%s'", ErrUserNotFound, email)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

// FirebaseLogin verifies a Firebase ID token and gets-or-creates the local
// account matching its email, defaulting new accounts to the buyer role.
func (s *userService) FirebaseLogin(ctx context.Context, idToken string) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("userService: userRepo not initialized")
	}
	if s.verifier == nil {
		return nil, errors.New("userService: firebase verifier not configured")
	}

	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFirebaseToken, err)
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email claim", ErrFirebaseToken)
	}
	email = strings.ToLower(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if user.FirebaseUID == "" {
			user.FirebaseUID = token.UID
			user.UpdatedAt = time.Now().UTC()
			if err := s.userRepo.Update(ctx, user); err != nil {
				s.logger.Warn("failed to link firebase uid",
					zap.String("userID", user.ID), zap.Error(err))
			}
		}
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	username, _ := token.Claims["name"].(string)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	now := time.Now().UTC()
	user = &models.User{
		Username:    username,
		Email:       email,
		FirebaseUID: token.UID,
		Role:        models.RoleBuyer,
		Status:      models.UserActive,
		Rating:      defaultRating,
		Cart:        []models.CartItem{},
		Templates:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}
	user.ID = id

	s.activity.Record(ctx, fmt.Sprintf("New user registered: %s", user.Username), user.ID)
	return user, nil
}

// GetByID fetches one account.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("userService: userRepo not initialized")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

// Profile assembles the /users/me payload: the account, its approved and
// pending templates and the populated cart.
func (s *userService) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	approved, err := s.templateRepo.ListByOwnerAndStatus(ctx, userID, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved templates for '%s': %w", userID, err)
	}
	pending, err := s.templateRepo.ListByOwnerAndStatus(ctx, userID, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending templates for '%s': %w", userID, err)
	}
	cart, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for '%s': %w", userID, err)
	}

	return &models.UserProfile{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Role:             user.Role,
		Bio:              user.Bio,
		Location:         user.Location,
		Website:          user.Website,
		Twitter:          user.Twitter,
		Github:           user.Github,
		Rating:           user.Rating,
		ReviewCount:      user.ReviewCount,
		JoinDate:         user.CreatedAt,
		PublicTemplates:  approved,
		PendingTemplates: pending,
		Cart:             cart,
	}, nil
}

// UpdateProfile applies the editable profile fields only.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Website != nil {
		user.Website = *req.Website
	}
	if req.Twitter != nil {
		user.Twitter = *req.Twitter
	}
	if req.Github != nil {
		user.Github = *req.Github
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile for '%s': %w", userID, err)
	}
	return user, nil
}

// SetStatus bans or unbans an account and mirrors the flag into Firebase
// Auth when the account is federated. The mirror is best effort.
func (s *userService) SetStatus(ctx context.Context, adminID, userID, action string) (*models.User, error) {
	var status models.UserStatus
	switch action {
	case ActionBan:
		status = models.UserBanned
	case ActionUnban:
		status = models.UserActive
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidStatusAction, action)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to set status for '%s': %w", userID, err)
	}

	if s.fbAdmin != nil && user.FirebaseUID != "" {
		update := (&fbauth.UserToUpdate{}).Disabled(status == models.UserBanned)
		if _, err := s.fbAdmin.UpdateUser(ctx, user.FirebaseUID, update); err != nil {
			s.logger.Warn("failed to mirror account status to firebase",
				zap.String("userID", userID), zap.Error(err))
		}
	}

	s.activity.Record(ctx, fmt.Sprintf("User %sned: %s", action, user.Username), adminID)
	return user, nil
}

// ListAll returns every account, for the admin users table.
func (s *userService) ListAll(ctx context.Context) ([]*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("userService: userRepo not initialized")
	}
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
