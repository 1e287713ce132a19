package workers

import (
	"the-code-sage/guildhall/internal/metrics"
	"the-code-sage/guildhall/internal/services"
)

// InitWorkers starts the background consumers.
func InitWorkers(userSvc *services.UserService, metricsReg *metrics.MetricsRegistry) {
	go MemberSyncWorker(userSvc, metricsReg)
}
