package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wanksy/events"
	"wanksy/models"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetLinkedPage(ctx context.Context, offset, limit int) ([]*models.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetRanked(ctx context.Context, team *models.Team, excluded []int64) ([]*models.User, error) {
	args := m.Called(ctx, team, excluded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) GetZeroPointUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) SetPoints(ctx context.Context, discordID int64, points int64) error {
	args := m.Called(ctx, discordID, points)
	return args.Error(0)
}

func (m *MockUserRepository) SumTeamPoints(ctx context.Context, team models.Team) (int64, error) {
	args := m.Called(ctx, team)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountLinked(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockLinkTokenRepository is a mock implementation of LinkTokenRepository
type MockLinkTokenRepository struct {
	mock.Mock
}

func (m *MockLinkTokenRepository) Create(ctx context.Context, token *models.LinkToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockLinkTokenRepository) InvalidateUnused(ctx context.Context, discordID int64) error {
	args := m.Called(ctx, discordID)
	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetWLMinimum(ctx context.Context) (*int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockSettingsRepository) SetWLMinimum(ctx context.Context, minimum int64) error {
	args := m.Called(ctx, minimum)
	return args.Error(0)
}

// RecordingEventPublisher captures published events for assertions
type RecordingEventPublisher struct {
	Events []events.Event
}

func (p *RecordingEventPublisher) Publish(e events.Event) {
	p.Events = append(p.Events, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo      UserRepository
	linkTokenRepo LinkTokenRepository
	settingsRepo  SettingsRepository
	eventBus      *RecordingEventPublisher
}

// SetRepositories wires the repositories the unit of work hands out
func (m *MockUnitOfWork) SetRepositories(user UserRepository, token LinkTokenRepository, settings SettingsRepository) {
	m.userRepo = user
	m.linkTokenRepo = token
	m.settingsRepo = settings
	m.eventBus = &RecordingEventPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) LinkTokenRepository() LinkTokenRepository {
	return m.linkTokenRepo
}

func (m *MockUnitOfWork) SettingsRepository() SettingsRepository {
	return m.settingsRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// PublishedEvents returns the events captured by the transactional bus stand-in
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.eventBus.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockMembershipGateway is a mock implementation of MembershipGateway
type MockMembershipGateway struct {
	mock.Mock
}

func (m *MockMembershipGateway) ResolveMember(ctx context.Context, discordID int64) (*Member, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockMembershipGateway) AddRole(ctx context.Context, discordID int64, roleID string) error {
	args := m.Called(ctx, discordID, roleID)
	return args.Error(0)
}

func (m *MockMembershipGateway) RemoveRole(ctx context.Context, discordID int64, roleID string) error {
	args := m.Called(ctx, discordID, roleID)
	return args.Error(0)
}

func (m *MockMembershipGateway) RoleName(ctx context.Context, roleID string) (string, error) {
	args := m.Called(ctx, roleID)
	return args.String(0), args.Error(1)
}
