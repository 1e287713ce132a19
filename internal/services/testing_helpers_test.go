package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"the-code-sage/guildhall/internal/constants"
	"the-code-sage/guildhall/internal/db/repositories"
	"the-code-sage/guildhall/internal/metrics"
	"the-code-sage/guildhall/internal/models/entities"
	gormModels "the-code-sage/guildhall/internal/models/gorm"
)

// Prometheus collectors register globally, so the whole package shares one
// registry.
var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.MetricsRegistry
)

func testMetricsRegistry() *metrics.MetricsRegistry {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.NewMetricsRegistry()
	})
	return testMetrics
}

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&gormModels.User{},
		&gormModels.Mission{},
		&gormModels.MissionEvaluator{},
		&gormModels.Item{},
		&gormModels.LevelReward{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

// Mock MembershipGateway
type mockGateway struct {
	getMemberFunc   func(ctx context.Context, userID int64) (*entities.GuildMember, error)
	addRolesFunc    func(ctx context.Context, userID int64, roleIDs []int64) error
	removeRolesFunc func(ctx context.Context, userID int64, roleIDs []int64) error
}

func (m *mockGateway) GetMember(ctx context.Context, userID int64) (*entities.GuildMember, error) {
	if m.getMemberFunc != nil {
		return m.getMemberFunc(ctx, userID)
	}
	return &entities.GuildMember{ID: userID}, nil
}

func (m *mockGateway) AddRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if m.addRolesFunc != nil {
		return m.addRolesFunc(ctx, userID, roleIDs)
	}
	return nil
}

func (m *mockGateway) RemoveRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if m.removeRolesFunc != nil {
		return m.removeRolesFunc(ctx, userID, roleIDs)
	}
	return nil
}

// noCache is a pass-through cache so tests always hit the repositories.
type noCache struct{}

func (noCache) Set(string, interface{}, time.Duration) {}
func (noCache) Get(string) (interface{}, bool)         { return nil, false }
func (noCache) Delete(string)                          {}
func (noCache) Close() error                           { return nil }
func (noCache) GetOrSet(key string, d time.Duration, loader func() (any, error)) (interface{}, error) {
	return loader()
}

type testEnv struct {
	db          *gorm.DB
	userRepo    *repositories.UserRepository
	missionRepo *repositories.MissionRepository
	itemRepo    *repositories.ItemRepository
	rewardRepo  *repositories.LevelRewardRepository
	gateway     *mockGateway
	leveling    *LevelingService
	mission     *MissionService
	user        *UserService
}

func setupServices(t *testing.T) *testEnv {
	db := setupTestDB(t)

	env := &testEnv{
		db:          db,
		userRepo:    repositories.NewUserRepository(db),
		missionRepo: repositories.NewMissionRepository(db),
		itemRepo:    repositories.NewItemRepository(db),
		rewardRepo:  repositories.NewLevelRewardRepository(db),
		gateway:     &mockGateway{},
	}

	env.leveling = NewLevelingService(
		env.userRepo, env.rewardRepo, env.itemRepo, env.gateway, noCache{}, testMetricsRegistry())
	env.mission = NewMissionService(
		env.missionRepo, env.userRepo, env.leveling, testMetricsRegistry())
	env.user = NewUserService(
		env.userRepo, env.itemRepo, env.leveling, env.gateway, testMetricsRegistry())

	return env
}

func (e *testEnv) createUser(t *testing.T, id int64, username string) *gormModels.User {
	user := &gormModels.User{
		ID:       id,
		Username: username,
		Status:   constants.UserActive,
		JoinedAt: time.Now(),
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func (e *testEnv) createMission(t *testing.T, id, creatorID int64) *gormModels.Mission {
	mission := &gormModels.Mission{
		ID:        id,
		Title:     "How do I reverse a linked list?",
		CreatorID: creatorID,
		Status:    constants.MissionOpen,
		CreatedAt: time.Now(),
	}
	if err := e.db.Create(mission).Error; err != nil {
		t.Fatalf("Failed to create mission: %v", err)
	}
	return mission
}

func (e *testEnv) fetchUser(t *testing.T, id int64) *gormModels.User {
	user, err := e.userRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to fetch user: %v", err)
	}
	if user == nil {
		t.Fatalf("User %d not found", id)
	}
	return user
}
