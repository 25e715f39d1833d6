package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadflow/internal/errors"
	"leadflow/internal/model"
)

func newUserFixture() (UserService, *MockUserRepository, *MockLeadRepository) {
	users := new(MockUserRepository)
	leads := new(MockLeadRepository)
	return NewUserService(users, leads, nil, 0, zap.NewNop()), users, leads
}

func TestUserService_CreateUser(t *testing.T) {
	t.Run("manager creates agent", func(t *testing.T) {
		svc, users, _ := newUserFixture()
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleAgent && u.Status == model.UserStatusActive && u.Email == "new@x.com"
		})).Return(nil)

		user, err := svc.CreateUser(context.Background(), managerP, CreateUserInput{
			Name: "New Agent", Email: "NEW@x.com", Password: "secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, model.RoleAgent, user.Role)
		assert.NotEqual(t, "secret123", user.PasswordHash)
	})

	t.Run("manager cannot create manager", func(t *testing.T) {
		svc, users, _ := newUserFixture()

		_, err := svc.CreateUser(context.Background(), managerP, CreateUserInput{
			Name: "Boss", Email: "b@x.com", Password: "secret123", Role: "manager",
		})

		assert.ErrorIs(t, err, errors.ErrForbidden)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("agent cannot create anyone", func(t *testing.T) {
		svc, _, _ := newUserFixture()
		_, err := svc.CreateUser(context.Background(), agentP, CreateUserInput{Name: "x", Email: "x@x.com", Password: "secret123"})
		assert.ErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc, _, _ := newUserFixture()
		_, err := svc.CreateUser(context.Background(), adminP, CreateUserInput{Name: "x", Email: "x@x.com", Password: "secret123", Role: "owner"})

		var verr *errors.ValidationError
		require.True(t, stderrors.As(err, &verr))
		assert.Contains(t, verr.Fields, "role")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, users, _ := newUserFixture()
		users.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := svc.CreateUser(context.Background(), adminP, CreateUserInput{Name: "x", Email: "a1@x.com", Password: "secret123"})
		assert.ErrorIs(t, err, errors.ErrConflict)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("agent renames self", func(t *testing.T) {
		svc, users, _ := newUserFixture()
		self := *agentUser
		users.On("FindByID", mock.Anything, self.ID).Return(&self, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.Name == "Renamed" })).Return(nil)

		user, err := svc.UpdateUser(context.Background(), agentP, self.ID, UpdateUserInput{Name: strPtr(" Renamed ")})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", user.Name)
	})

	t.Run("agent cannot change own role", func(t *testing.T) {
		svc, users, _ := newUserFixture()

		_, err := svc.UpdateUser(context.Background(), agentP, agentUser.ID, UpdateUserInput{Role: strPtr("admin")})

		assert.ErrorIs(t, err, errors.ErrForbidden)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("manager cannot edit another user", func(t *testing.T) {
		svc, _, _ := newUserFixture()
		_, err := svc.UpdateUser(context.Background(), managerP, agentUser.ID, UpdateUserInput{Name: strPtr("x")})
		assert.ErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("demoting an agent releases their leads", func(t *testing.T) {
		svc, users, leads := newUserFixture()
		target := *agentUserB
		users.On("FindByID", mock.Anything, target.ID).Return(&target, nil)
		users.On("Update", mock.Anything, mock.Anything).Return(nil)
		leads.On("UnassignAll", mock.Anything, target.ID).Return(int64(4), nil)

		user, err := svc.UpdateUser(context.Background(), adminP, target.ID, UpdateUserInput{Role: strPtr("manager")})

		require.NoError(t, err)
		assert.Equal(t, model.RoleManager, user.Role)
		leads.AssertExpectations(t)
	})

	t.Run("deactivation keeps leads assigned", func(t *testing.T) {
		svc, users, leads := newUserFixture()
		target := *agentUserB
		users.On("FindByID", mock.Anything, target.ID).Return(&target, nil)
		users.On("Update", mock.Anything, mock.Anything).Return(nil)

		user, err := svc.UpdateUser(context.Background(), adminP, target.ID, UpdateUserInput{Status: strPtr("inactive")})

		require.NoError(t, err)
		assert.Equal(t, model.UserStatusInactive, user.Status)
		leads.AssertNotCalled(t, "UnassignAll", mock.Anything, mock.Anything)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Run("admin deletes agent", func(t *testing.T) {
		svc, users, leads := newUserFixture()
		users.On("FindByID", mock.Anything, agentUserB.ID).Return(agentUserB, nil)
		users.On("Delete", mock.Anything, agentUserB.ID).Return(int64(2), nil)

		require.NoError(t, svc.DeleteUser(context.Background(), adminP, agentUserB.ID))
		users.AssertExpectations(t)
		leads.AssertNotCalled(t, "UnassignAll", mock.Anything, mock.Anything)
	})

	t.Run("failed delete is reported", func(t *testing.T) {
		svc, users, _ := newUserFixture()
		users.On("FindByID", mock.Anything, agentUserB.ID).Return(agentUserB, nil)
		users.On("Delete", mock.Anything, agentUserB.ID).Return(int64(0), stderrors.New("connection reset"))

		err := svc.DeleteUser(context.Background(), adminP, agentUserB.ID)
		require.Error(t, err)
		assert.True(t, errors.Internal(err))
	})

	t.Run("admin cannot delete self", func(t *testing.T) {
		svc, _, _ := newUserFixture()
		err := svc.DeleteUser(context.Background(), adminP, adminUser.ID)

		var verr *errors.ValidationError
		assert.True(t, stderrors.As(err, &verr))
	})

	t.Run("manager cannot delete", func(t *testing.T) {
		svc, _, _ := newUserFixture()
		assert.ErrorIs(t, svc.DeleteUser(context.Background(), managerP, agentUser.ID), errors.ErrForbidden)
	})

	t.Run("missing user", func(t *testing.T) {
		svc, users, _ := newUserFixture()
		id := uuid.New()
		users.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)
		assert.ErrorIs(t, svc.DeleteUser(context.Background(), adminP, id), errors.ErrNotFound)
	})
}

func TestUserService_ListAndGet(t *testing.T) {
	svc, users, _ := newUserFixture()
	users.On("List", mock.Anything).Return([]model.User{*adminUser, *agentUser}, nil)
	users.On("FindByID", mock.Anything, agentUser.ID).Return(agentUser, nil)

	list, err := svc.ListUsers(context.Background(), managerP)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.ListUsers(context.Background(), agentP)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	me, err := svc.GetUser(context.Background(), agentP, agentUser.ID)
	require.NoError(t, err)
	assert.Equal(t, agentUser.Email, me.Email)

	_, err = svc.GetUser(context.Background(), agentP, adminUser.ID)
	assert.ErrorIs(t, err, errors.ErrForbidden)
}
