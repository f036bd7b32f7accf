package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/popupcity/portal_api/internal/cache"
	"github.com/popupcity/portal_api/internal/metrics"
	"github.com/popupcity/portal_api/internal/models"
	"github.com/popupcity/portal_api/internal/utils"
)

// maxLoginAttempts is how many wrong codes burn a pending login.
const maxLoginAttempts = 5

// AuthService implements magic-link login for citizens.
type AuthService struct {
	citizens     CitizenStore
	codes        LoginCodeStore
	mailer       Mailer
	jwt          *utils.JWTManager
	magicLinkURL string
	bcryptCost   int
}

// NewAuthService constructs an AuthService.
func NewAuthService(citizens CitizenStore, codes LoginCodeStore, mailer Mailer, jwt *utils.JWTManager, magicLinkURL string) *AuthService {
	return &AuthService{
		citizens:     citizens,
		codes:        codes,
		mailer:       mailer,
		jwt:          jwt,
		magicLinkURL: magicLinkURL,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

// LoginRequest starts a magic-link login.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}

// AuthenticateRequest completes a login with either the emailed code or the
// token carried by the magic link.
type AuthenticateRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
	Token string `json:"token"`
}

// AuthResult is returned on successful authentication.
type AuthResult struct {
	Token   string          `json:"token"`
	Citizen *models.Citizen `json:"citizen"`
}

// Login registers the citizen if needed and emails a login code and link.
// Requesting a new code replaces any pending one.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}

	citizen, err := s.citizens.Upsert(email)
	if err != nil {
		return fmt.Errorf("upsert citizen: %w", err)
	}

	code, err := utils.GenerateLoginCode()
	if err != nil {
		return err
	}
	token, err := utils.GenerateLoginToken()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.bcryptCost)
	if err != nil {
		return err
	}

	pending := &cache.LoginCode{
		Email:     email,
		CitizenID: citizen.ID,
		CodeHash:  string(hash),
		Token:     token,
		IssuedAt:  time.Now().UTC(),
	}
	if err := s.codes.Set(ctx, pending); err != nil {
		return fmt.Errorf("store login code: %w", err)
	}

	if err := s.mailer.Send(ctx, Mail{
		To:      email,
		Subject: "Your login code",
		Body:    s.loginMailBody(email, code, token),
	}); err != nil {
		return err
	}

	metrics.LoginCodesIssued.Inc()
	log.Info().Int("citizen_id", citizen.ID).Msg("Login code issued")
	return nil
}

func (s *AuthService) loginMailBody(email, code, token string) string {
	link := s.magicLinkURL + "?" + url.Values{"token": {token}, "email": {email}}.Encode()
	return fmt.Sprintf(
		"Your login code is %s.\n\nOr sign in directly with this link:\n%s\n\nThe code expires in %s.\n",
		code, link, s.codes.TTL(),
	)
}

// Authenticate verifies a login code or magic-link token and issues a JWT.
// A pending login is single use.
func (s *AuthService) Authenticate(ctx context.Context, req *AuthenticateRequest) (*AuthResult, error) {
	var pending *cache.LoginCode
	var err error

	if req.Token != "" {
		pending, err = s.codes.GetByToken(ctx, req.Token)
		if err != nil {
			return nil, s.lookupError(err)
		}
	} else {
		email, err := normalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		pending, err = s.codes.GetByEmail(ctx, email)
		if err != nil {
			return nil, s.lookupError(err)
		}
		if bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(strings.TrimSpace(req.Code))) != nil {
			return nil, s.rejectCode(ctx, pending)
		}
	}

	if err := s.codes.Delete(ctx, pending); err != nil {
		log.Warn().Err(err).Str("email", pending.Email).Msg("Failed to delete used login code")
	}

	citizen, err := s.citizens.GetByID(pending.CitizenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrCitizenNotFound
		}
		return nil, err
	}

	token, err := s.jwt.GenerateJWT(citizen.ID, citizen.Email)
	if err != nil {
		return nil, err
	}

	log.Info().Int("citizen_id", citizen.ID).Msg("Citizen authenticated")
	return &AuthResult{Token: token, Citizen: citizen}, nil
}

func (s *AuthService) lookupError(err error) error {
	if cache.IsMiss(err) {
		return utils.ErrInvalidLoginCode
	}
	return err
}

func (s *AuthService) rejectCode(ctx context.Context, pending *cache.LoginCode) error {
	n, err := s.codes.RecordAttempt(ctx, pending.Email)
	if err != nil {
		log.Warn().Err(err).Str("email", pending.Email).Msg("Failed to record login attempt")
		return utils.ErrInvalidLoginCode
	}
	if n >= maxLoginAttempts {
		log.Warn().Str("email", pending.Email).Int64("attempts", n).Msg("Too many wrong login codes, code revoked")
		if err := s.codes.Delete(ctx, pending); err != nil {
			log.Warn().Err(err).Msg("Failed to revoke login code")
		}
	}
	return utils.ErrInvalidLoginCode
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", utils.ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// Me returns the authenticated citizen.
func (s *AuthService) Me(citizenID int) (*models.Citizen, error) {
	c, err := s.citizens.GetByID(citizenID)
	if err != nil {
		return nil, notFound(err, utils.ErrCitizenNotFound)
	}
	return c, nil
}
