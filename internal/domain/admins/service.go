package admins

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/pankhokiudaan/server/internal/auth"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgNoToken            = "No token provided"
	msgInvalidToken       = "Invalid or expired token"
	msgInactive           = "Admin account not found or inactive"
	msgDuplicate          = "Admin with this username or email already exists"
)

// Tokens issues and checks admin session tokens.
type Tokens interface {
	Generate(id, username, role string) (string, time.Time, error)
	Validate(token string) (*auth.Claims, error)
}

// LoginObserver is notified of every login attempt outcome.
type LoginObserver interface {
	ObserveLogin(result string)
}

type Service struct {
	repo     Repository
	tokens   Tokens
	validate *validator.Validate
	observer LoginObserver
	now      func() time.Time
	logger   zerolog.Logger
}

func NewService(repo Repository, tokens Tokens, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		logger:   logger.With().Str("component", "admins").Logger(),
	}
}

// WithLoginObserver attaches a metrics sink for login outcomes.
func (s *Service) WithLoginObserver(observer LoginObserver) *Service {
	s.observer = observer
	return s
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     Summary
}

func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		s.observe("invalid")
		return LoginResult{}, apperr.Validation("Username and password are required")
	}

	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			auth.SimulatePasswordCheck(password)
			s.observe("failure")
			return LoginResult{}, apperr.Unauthenticated(msgInvalidCredentials)
		}
		return LoginResult{}, apperr.Internal("Login failed. Please try again.", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, password) || !admin.IsActive {
		s.observe("failure")
		return LoginResult{}, apperr.Unauthenticated(msgInvalidCredentials)
	}

	if err := s.repo.TouchLastLogin(ctx, admin.ID, s.now()); err != nil {
		return LoginResult{}, apperr.Internal("Login failed. Please try again.", err)
	}

	token, expiresAt, err := s.tokens.Generate(admin.ID, admin.Username, admin.Role)
	if err != nil {
		return LoginResult{}, apperr.Internal("Login failed. Please try again.", err)
	}

	s.observe("success")
	s.logger.Info().Str("admin_id", admin.ID).Msg("admin logged in")
	return LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin.Summary()}, nil
}

// Verify resolves a bearer token to the admin it was issued for. The admin
// must still exist and be active.
func (s *Service) Verify(ctx context.Context, token string) (Summary, error) {
	if strings.TrimSpace(token) == "" {
		return Summary{}, apperr.Unauthenticated(msgNoToken)
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			return Summary{}, apperr.Unauthenticated(msgNoToken)
		}
		return Summary{}, apperr.Forbidden(msgInvalidToken)
	}

	admin, err := s.repo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Summary{}, apperr.Forbidden(msgInactive)
		}
		return Summary{}, apperr.Internal("Token verification failed", err)
	}
	if !admin.IsActive {
		return Summary{}, apperr.Forbidden(msgInactive)
	}
	return admin.Summary(), nil
}

type RegisterParams struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=6"`
	Role     string
}

// Register creates a new active admin over the API. caller is the
// authenticated admin making the request, or nil when registration is open;
// only a superadmin caller may create superadmin accounts.
func (s *Service) Register(ctx context.Context, params RegisterParams, caller *Summary) (Summary, error) {
	return s.register(ctx, params, caller, false)
}

// Provision creates an admin of any role without a caller. It backs the
// admin CLI and the start-up bootstrap, which run with operator access.
func (s *Service) Provision(ctx context.Context, params RegisterParams) (Summary, error) {
	return s.register(ctx, params, nil, true)
}

func (s *Service) register(ctx context.Context, params RegisterParams, caller *Summary, trusted bool) (Summary, error) {
	params.Username = strings.ToLower(strings.TrimSpace(params.Username))
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))

	if params.Username == "" || params.Email == "" || params.Password == "" {
		return Summary{}, apperr.Validation("Username, email, and password are required")
	}
	if err := s.validate.Struct(params); err != nil {
		return Summary{}, apperr.Wrap(apperr.KindValidation, registerValidationMessage(err), err)
	}
	if len(params.Password) > auth.MaxPasswordBytes {
		return Summary{}, apperr.Validation("Password must be at most 72 bytes")
	}

	role, ok := auth.ParseRole(params.Role)
	if !ok {
		return Summary{}, apperr.Validation("Role must be admin or superadmin")
	}
	if role == auth.RoleSuperAdmin && !trusted && (caller == nil || !auth.IsSuperAdmin(caller.Role)) {
		return Summary{}, apperr.Forbidden("Only a superadmin can create superadmin accounts")
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, params.Username, params.Email)
	if err != nil {
		return Summary{}, apperr.Internal("Failed to create admin", err)
	}
	if exists {
		return Summary{}, apperr.Conflict(msgDuplicate)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return Summary{}, apperr.Internal("Failed to create admin", err)
	}

	created, err := s.repo.Create(ctx, CreateParams{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         string(role),
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return Summary{}, apperr.Conflict(msgDuplicate)
		}
		return Summary{}, apperr.Internal("Failed to create admin", err)
	}

	event := s.logger.Info().Str("admin_id", created.ID).Str("role", created.Role)
	if caller != nil {
		event = event.Str("created_by", caller.ID)
	}
	event.Msg("admin created")
	return created.Summary(), nil
}

// SetActive activates or deactivates an admin by username. Deactivated
// admins keep their record and can no longer log in or use issued tokens.
func (s *Service) SetActive(ctx context.Context, username string, active bool) (Summary, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return Summary{}, apperr.Validation("Username is required")
	}
	admin, err := s.repo.SetActive(ctx, username, active)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Summary{}, apperr.NotFound("Admin not found")
		}
		return Summary{}, apperr.Internal("Failed to update admin", err)
	}
	s.logger.Info().Str("admin_id", admin.ID).Bool("active", active).Msg("admin state changed")
	return admin.Summary(), nil
}

func (s *Service) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveLogin(result)
	}
}

func registerValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid admin details"
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Username":
			messages = append(messages, "Username must be between 3 and 50 characters")
		case "Email":
			messages = append(messages, "Please provide a valid email address")
		case "Password":
			messages = append(messages, "Password must be at least 6 characters")
		default:
			messages = append(messages, fe.Field()+" is invalid")
		}
	}
	return strings.Join(messages, ", ")
}
