package cron

import (
	"context"
	"log"
	"time"

	"medibook/config"
	"medibook/services/scheduling"

	"github.com/hibiken/asynq"
)

const TypeNoShowSweep = "appointment:noshow_sweep"

// InitNoShowWorker runs the async worker and its periodic schedule in the
// background. The sweep moves stale pending/confirmed appointments to
// no_show once their slot has passed the configured grace period, which
// also releases their slots for rebooking.
func InitNoShowWorker(engine *scheduling.DefaultSchedulingEngine) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNoShowSweep, handleNoShowSweep(engine))

	go func() {
		log.Println("[NoShowWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[NoShowWorker] failed to start worker: %v", err)
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.Local})
	spec := config.AppConfig.NoShowSweepSpec
	if spec == "" {
		spec = "*/15 * * * *"
	}
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeNoShowSweep, nil)); err != nil {
		log.Fatalf("[NoShowWorker] failed to register sweep schedule: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[NoShowWorker] failed to start scheduler: %v", err)
		}
	}()
}

func handleNoShowSweep(engine *scheduling.DefaultSchedulingEngine) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		grace := config.AppConfig.NoShowGraceMinutes
		if grace <= 0 {
			grace = 120
		}
		_, err := engine.SweepNoShows(ctx, time.Now(), grace)
		return err
	}
}
