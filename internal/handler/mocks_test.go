package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"leadflow/internal/auth"
	"leadflow/internal/model"
	"leadflow/internal/service"
)

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) ListLeads(ctx context.Context, p auth.Principal) ([]model.Lead, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *MockLeadService) GetLead(ctx context.Context, p auth.Principal, id uuid.UUID) (*model.Lead, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) CreateLead(ctx context.Context, p auth.Principal, in service.CreateLeadInput) (*model.Lead, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) UpdateLead(ctx context.Context, p auth.Principal, id uuid.UUID, in service.UpdateLeadInput) (*model.Lead, error) {
	args := m.Called(ctx, p, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lead), args.Error(1)
}

func (m *MockLeadService) DeleteLead(ctx context.Context, p auth.Principal, id uuid.UUID) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) ListNotes(ctx context.Context, p auth.Principal, leadID uuid.UUID) ([]model.Note, error) {
	args := m.Called(ctx, p, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

func (m *MockNoteService) CreateNote(ctx context.Context, p auth.Principal, leadID uuid.UUID, content string) (*model.Note, error) {
	args := m.Called(ctx, p, leadID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, p auth.Principal) (*service.NotificationFeed, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NotificationFeed), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, p auth.Principal, id *uuid.UUID) (int64, error) {
	args := m.Called(ctx, p, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*model.User, *auth.IssuedToken, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*auth.IssuedToken), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.User, *auth.IssuedToken, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(*auth.IssuedToken), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, identity *service.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}
