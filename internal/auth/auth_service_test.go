package auth

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "go-timesheet/internal/auth/errors"
	"go-timesheet/internal/employee"
)

type fakeUserRepo struct {
	byEmail map[string]*User
	byID    map[uuid.UUID]*User
	created []*User
}

func newFakeUserRepo(users ...*User) *fakeUserRepo {
	r := &fakeUserRepo{
		byEmail: make(map[string]*User),
		byID:    make(map[uuid.UUID]*User),
	}
	for _, u := range users {
		r.byEmail[u.Email] = u
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *User) error {
	if _, exists := r.byEmail[user.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	r.created = append(r.created, user)
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEmployeeRepo struct {
	employee.Repository
	known map[string]bool
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	if r.known[id] {
		return &employee.Employee{ID: uuid.MustParse(id)}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testUser(t *testing.T, password string) *User {
	t.Helper()
	pw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	employeeID := uuid.New()
	return &User{
		ID:         uuid.New(),
		EmployeeID: &employeeID,
		Email:      "ana@example.com",
		Name:       "Ana",
		Password:   string(pw),
		Role:       "EMPLOYEE",
		IsActive:   true,
	}
}

func TestLogin(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	user := testUser(t, "password123")
	service := NewService(newFakeUserRepo(user), &fakeEmployeeRepo{})

	t.Run("success", func(t *testing.T) {
		token, refresh, resp, err := service.Login(context.Background(), user.Email, "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, "EMPLOYEE", resp.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := service.Login(context.Background(), user.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := service.Login(context.Background(), "ghost@example.com", "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		inactive := testUser(t, "password123")
		inactive.Email = "gone@example.com"
		inactive.IsActive = false
		svc := NewService(newFakeUserRepo(inactive), &fakeEmployeeRepo{})

		_, _, _, err := svc.Login(context.Background(), inactive.Email, "password123")
		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestRefreshToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	user := testUser(t, "password123")
	service := NewService(newFakeUserRepo(user), &fakeEmployeeRepo{})

	_, refresh, _, err := service.Login(context.Background(), user.Email, "password123")
	require.NoError(t, err)

	newAccess, newRefresh, resp, err := service.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.Equal(t, user.Email, resp.Email)

	_, _, _, err = service.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}

func TestRegister(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	employeeID := uuid.New()
	repo := newFakeUserRepo()
	service := NewService(repo, &fakeEmployeeRepo{known: map[string]bool{employeeID.String(): true}})

	t.Run("success defaults role", func(t *testing.T) {
		resp, err := service.Register(context.Background(), RegisterRequest{
			EmployeeID: employeeID.String(),
			Email:      "novo@example.com",
			Name:       "Novo",
			Password:   "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "EMPLOYEE", resp.Role)
		require.Len(t, repo.created, 1)
		// Password must never be stored in the clear.
		assert.NotEqual(t, "secret123", repo.created[0].Password)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := service.Register(context.Background(), RegisterRequest{
			EmployeeID: uuid.NewString(),
			Email:      "x@example.com",
			Name:       "X",
			Password:   "secret123",
		})
		assert.Error(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.Register(context.Background(), RegisterRequest{
			EmployeeID: employeeID.String(),
			Email:      "novo@example.com",
			Name:       "Novo",
			Password:   "secret123",
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestGetMe(t *testing.T) {
	user := testUser(t, "password123")
	service := NewService(newFakeUserRepo(user), &fakeEmployeeRepo{})

	resp, err := service.GetMe(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.Email, resp.Email)

	_, err = service.GetMe(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)

	_, err = service.GetMe(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
}
