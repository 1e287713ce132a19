package api

import (
	"os"

	"the-code-sage/guildhall/internal/common"
	"the-code-sage/guildhall/internal/db"
	"the-code-sage/guildhall/internal/db/repositories"
	"the-code-sage/guildhall/internal/jobs"
	"the-code-sage/guildhall/internal/metrics"
	"the-code-sage/guildhall/internal/platform"
	"the-code-sage/guildhall/internal/services"
)

type Repositories struct {
	User        *repositories.UserRepository
	Mission     *repositories.MissionRepository
	Item        *repositories.ItemRepository
	LevelReward *repositories.LevelRewardRepository
	Leaderboard *repositories.LeaderboardRepository
}

type Services struct {
	Cache       common.CacheInterface
	RoleQueue   *common.RoleQueueService
	Signer      *common.TokenSigner
	Leveling    *services.LevelingService
	Mission     *services.MissionService
	User        *services.UserService
	Leaderboard *services.LeaderboardService
}

type Dependencies struct {
	Repo      *Repositories
	Services  *Services
	Scheduler *jobs.AutoCloseScheduler
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		User:        repositories.NewUserRepository(db.PgDB),
		Mission:     repositories.NewMissionRepository(db.PgDB),
		Item:        repositories.NewItemRepository(db.PgDB),
		LevelReward: repositories.NewLevelRewardRepository(db.PgDB),
		Leaderboard: repositories.NewLeaderboardRepository(db.DB),
	}

	cacheSvc := common.NewCacheService(600, 600)
	roleQueue := common.NewRoleQueueService(common.NewRedisClient())
	signer := common.NewTokenSigner([]byte(os.Getenv("GUILDHALL_TOKEN_SECRET")))

	gateway := platform.NewQueueGateway(repos.User, roleQueue)

	levelingSvc := services.NewLevelingService(
		repos.User, repos.LevelReward, repos.Item, gateway, cacheSvc, metricsReg)
	missionSvc := services.NewMissionService(
		repos.Mission, repos.User, levelingSvc, metricsReg)
	userSvc := services.NewUserService(
		repos.User, repos.Item, levelingSvc, gateway, metricsReg)
	leaderboardSvc := services.NewLeaderboardService(repos.Leaderboard, cacheSvc)

	scheduler := jobs.NewAutoCloseScheduler(missionSvc.CloseMission)

	svcs := &Services{
		Cache:       cacheSvc,
		RoleQueue:   roleQueue,
		Signer:      signer,
		Leveling:    levelingSvc,
		Mission:     missionSvc,
		User:        userSvc,
		Leaderboard: leaderboardSvc,
	}

	return &Dependencies{
		Repo:      repos,
		Services:  svcs,
		Scheduler: scheduler,
	}, nil
}
