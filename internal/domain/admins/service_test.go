package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/pankhokiudaan/server/internal/auth"
)

type stubRepo struct {
	mu        sync.Mutex
	admins    map[string]*Admin
	touched   map[string]time.Time
	createErr error
	nextID    int
}

func newStubRepo() *stubRepo {
	return &stubRepo{admins: map[string]*Admin{}, touched: map[string]time.Time{}}
}

func (r *stubRepo) add(t *testing.T, username, email, password, role string, active bool) *Admin {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	r.nextID++
	admin := &Admin{
		ID:           fmt.Sprintf("00000000-0000-0000-0000-%012d", r.nextID),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	r.admins[admin.ID] = admin
	return admin
}

func (r *stubRepo) GetByUsername(_ context.Context, username string) (*Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username {
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username || a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRepo) Create(_ context.Context, params CreateParams) (*Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	admin := &Admin{
		ID:           fmt.Sprintf("10000000-0000-0000-0000-%012d", r.nextID),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		IsActive:     true,
	}
	r.admins[admin.ID] = admin
	clone := *admin
	return &clone, nil
}

func (r *stubRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched[id] = at
	return nil
}

func (r *stubRepo) SetActive(_ context.Context, username string, active bool) (*Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username {
			a.IsActive = active
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

type countingObserver struct {
	results []string
}

func (o *countingObserver) ObserveLogin(result string) {
	o.results = append(o.results, result)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, auth.NewJWTManager("test-secret", 24*time.Hour, "test"), zerolog.Nop())
}

func TestLoginSuccess(t *testing.T) {
	repo := newStubRepo()
	admin := repo.add(t, "asha", "asha@example.org", "s3cret!", "admin", true)
	observer := &countingObserver{}
	svc := newTestService(repo).WithLoginObserver(observer)

	result, err := svc.Login(context.Background(), "  ASHA ", "s3cret!")

	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, Summary{ID: admin.ID, Username: "asha", Email: "asha@example.org", Role: "admin"}, result.Admin)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), result.ExpiresAt, time.Minute)
	require.Contains(t, repo.touched, admin.ID)
	require.Equal(t, []string{"success"}, observer.results)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newStubRepo()
	repo.add(t, "asha", "asha@example.org", "s3cret!", "admin", true)
	repo.add(t, "ravi", "ravi@example.org", "s3cret!", "admin", false)
	svc := newTestService(repo)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "s3cret!"},
		{"wrong password", "asha", "wrong"},
		{"inactive user", "ravi", "s3cret!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.username, tc.password)
			require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
			require.Equal(t, "Invalid credentials", apperr.MessageOf(err, ""))
		})
	}
	require.Empty(t, repo.touched)
}

func TestLoginMissingFields(t *testing.T) {
	svc := newTestService(newStubRepo())

	_, err := svc.Login(context.Background(), "", "pw")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), "asha", "")
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Equal(t, "Username and password are required", apperr.MessageOf(err, ""))
}

func TestVerify(t *testing.T) {
	repo := newStubRepo()
	repo.add(t, "asha", "asha@example.org", "s3cret!", "superadmin", true)
	svc := newTestService(repo)

	login, err := svc.Login(context.Background(), "asha", "s3cret!")
	require.NoError(t, err)

	summary, err := svc.Verify(context.Background(), login.Token)
	require.NoError(t, err)
	require.Equal(t, login.Admin, summary)
}

func TestVerifyFailures(t *testing.T) {
	repo := newStubRepo()
	admin := repo.add(t, "asha", "asha@example.org", "s3cret!", "admin", true)
	tokens := auth.NewJWTManager("test-secret", 24*time.Hour, "test")
	svc := NewService(repo, tokens, zerolog.Nop())

	_, err := svc.Verify(context.Background(), "")
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	require.Equal(t, "No token provided", apperr.MessageOf(err, ""))

	_, err = svc.Verify(context.Background(), "garbage")
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	require.Equal(t, "Invalid or expired token", apperr.MessageOf(err, ""))

	foreign, _, err := auth.NewJWTManager("other-secret", time.Hour, "test").Generate(admin.ID, admin.Username, admin.Role)
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), foreign)
	require.Equal(t, "Invalid or expired token", apperr.MessageOf(err, ""))

	ghost, _, err := tokens.Generate("99999999-0000-0000-0000-000000000000", "ghost", "admin")
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), ghost)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	require.Equal(t, "Admin account not found or inactive", apperr.MessageOf(err, ""))

	valid, _, err := tokens.Generate(admin.ID, admin.Username, admin.Role)
	require.NoError(t, err)
	_, err = svc.SetActive(context.Background(), "asha", false)
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), valid)
	require.Equal(t, "Admin account not found or inactive", apperr.MessageOf(err, ""))
}

func TestRegister(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)

	summary, err := svc.Register(context.Background(), RegisterParams{
		Username: " NewAdmin ",
		Email:    "New@Example.org",
		Password: "longenough",
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "newadmin", summary.Username)
	require.Equal(t, "new@example.org", summary.Email)
	require.Equal(t, "admin", summary.Role)

	stored, err := repo.GetByID(context.Background(), summary.ID)
	require.NoError(t, err)
	require.NotEqual(t, "longenough", stored.PasswordHash)
	require.True(t, auth.CheckPassword(stored.PasswordHash, "longenough"))
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newStubRepo())

	cases := []struct {
		name    string
		params  RegisterParams
		message string
	}{
		{"missing email", RegisterParams{Username: "abc", Password: "secret1"}, "Username, email, and password are required"},
		{"bad email", RegisterParams{Username: "abc", Email: "nope", Password: "secret1"}, "Please provide a valid email address"},
		{"short password", RegisterParams{Username: "abc", Email: "a@b.org", Password: "123"}, "Password must be at least 6 characters"},
		{"long password", RegisterParams{Username: "abc", Email: "a@b.org", Password: strings.Repeat("x", 73)}, "Password must be at most 72 bytes"},
		{"unknown role", RegisterParams{Username: "abc", Email: "a@b.org", Password: "secret1", Role: "editor"}, "Role must be admin or superadmin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.params, nil)
			require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			require.Equal(t, tc.message, apperr.MessageOf(err, ""))
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newStubRepo()
	repo.add(t, "asha", "asha@example.org", "s3cret!", "admin", true)
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{Username: "ASHA", Email: "other@example.org", Password: "secret1"}, nil)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Admin with this username or email already exists", apperr.MessageOf(err, ""))

	_, err = svc.Register(context.Background(), RegisterParams{Username: "other", Email: "ASHA@example.org", Password: "secret1"}, nil)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterStoreConflictIsConflict(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = ErrConflict
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{Username: "race", Email: "race@example.org", Password: "secret1"}, nil)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterStoreFailureIsInternal(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = errors.New("connection reset")
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{Username: "race", Email: "race@example.org", Password: "secret1"}, nil)
	require.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestRegisterSuperadminRequiresSuperadminCaller(t *testing.T) {
	svc := newTestService(newStubRepo())
	params := RegisterParams{Username: "boss", Email: "boss@example.org", Password: "secret1", Role: "superadmin"}

	_, err := svc.Register(context.Background(), params, &Summary{ID: "a", Role: "admin"})
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	created, err := svc.Register(context.Background(), params, &Summary{ID: "b", Role: "superadmin"})
	require.NoError(t, err)
	require.Equal(t, "superadmin", created.Role)
}

func TestRegisterAnonymousCannotCreateSuperadmin(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo)
	params := RegisterParams{Username: "boss", Email: "boss@example.org", Password: "secret1", Role: "superadmin"}

	_, err := svc.Register(context.Background(), params, nil)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	exists, err := repo.ExistsByUsernameOrEmail(context.Background(), "boss", "boss@example.org")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestProvisionCreatesAnyRole(t *testing.T) {
	svc := newTestService(newStubRepo())

	created, err := svc.Provision(context.Background(), RegisterParams{
		Username: "root", Email: "root@example.org", Password: "secret1", Role: "superadmin",
	})
	require.NoError(t, err)
	require.Equal(t, "superadmin", created.Role)

	_, err = svc.Provision(context.Background(), RegisterParams{Username: "root", Email: "x@example.org", Password: "secret1"})
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestSetActiveUnknown(t *testing.T) {
	svc := newTestService(newStubRepo())

	_, err := svc.SetActive(context.Background(), "ghost", true)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
