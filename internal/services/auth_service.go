package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hfrat/hfrat-backend/internal/models"
	"github.com/hfrat/hfrat-backend/internal/token"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrFacilityNotAllowed = errors.New("facility allowed only for reporter role")
	ErrFacilityRequired   = errors.New("facility is required for reporter")
)

type AuthService struct {
	db     *gorm.DB
	issuer *token.Issuer
}

func NewAuthService(db *gorm.DB, issuer *token.Issuer) *AuthService {
	return &AuthService{db: db, issuer: issuer}
}

// Register creates a user and returns it together with a signed access
// token. Reporters must be linked to an existing facility; any other role
// must not carry one.
func (s *AuthService) Register(email, password string, role models.Role, facilityID *uint) (*models.User, string, error) {
	if role == models.RoleReporter {
		if facilityID == nil {
			return nil, "", ErrFacilityRequired
		}
	} else if facilityID != nil {
		return nil, "", ErrFacilityNotAllowed
	}

	if facilityID != nil {
		var facility models.Facility
		if err := s.db.First(&facility, *facilityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrFacilityNotFound
			}
			return nil, "", fmt.Errorf("look up facility: %w", err)
		}
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", ErrEmailTaken
	}

	user := models.User{Email: email, Role: role, FacilityID: facilityID}
	if err := user.SetPassword(password); err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The unique index closes the gap between the pre-check and the
		// insert under concurrent registration.
		if isDuplicateKey(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	tok, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return &user, tok, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return &user, tok, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return s.issuer.Issue(token.Identity{
		ID:         user.ID,
		Role:       user.Role,
		FacilityID: user.FacilityID,
	})
}
