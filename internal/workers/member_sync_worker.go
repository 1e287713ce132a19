package workers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"the-code-sage/guildhall/internal/logging"
	"the-code-sage/guildhall/internal/metrics"
	"the-code-sage/guildhall/internal/models/entities"
	"the-code-sage/guildhall/internal/services"
)

const syncChunkSize = 100

// MemberSyncQueue receives member batches from the sync endpoint. Backfilling
// a large guild takes a while, so the handler enqueues and returns instead of
// holding the request open.
var MemberSyncQueue = make(chan []entities.GuildMember, 16)

// MemberSyncWorker drains the sync queue. Each batch is split into chunks and
// the chunks are backfilled concurrently.
func MemberSyncWorker(userSvc *services.UserService, metricsReg *metrics.MetricsRegistry) {
	logging.Info("Member sync worker started")

	for batch := range MemberSyncQueue {
		start := time.Now()

		created, ignored, err := syncBatch(context.Background(), userSvc, batch)
		metricsReg.MemberSyncDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			logging.Error("Member sync batch failed",
				"batch_size", len(batch), "error", err.Error())
			continue
		}

		logging.Info("Member sync batch finished",
			"batch_size", len(batch), "created", created, "ignored", ignored,
			"took", time.Since(start).String())
	}
}

func syncBatch(ctx context.Context, userSvc *services.UserService, batch []entities.GuildMember) (int, int, error) {
	var (
		g, gctx = errgroup.WithContext(ctx)
		results = make(chan [2]int, (len(batch)/syncChunkSize)+1)
	)
	g.SetLimit(4)

	for offset := 0; offset < len(batch); offset += syncChunkSize {
		end := offset + syncChunkSize
		if end > len(batch) {
			end = len(batch)
		}
		chunk := batch[offset:end]

		g.Go(func() error {
			resp, err := userSvc.SyncGuildMembers(gctx, chunk)
			if err != nil {
				return err
			}
			results <- [2]int{resp.Created, resp.Ignored}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	close(results)

	created, ignored := 0, 0
	for r := range results {
		created += r[0]
		ignored += r[1]
	}
	return created, ignored, nil
}
