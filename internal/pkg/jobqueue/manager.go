package jobqueue

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gopherairtime/gopherairtime/app/repository"
	"github.com/gopherairtime/gopherairtime/internal/pkg/env"
	"github.com/gopherairtime/gopherairtime/internal/pkg/hotsocket"
	"github.com/gopherairtime/gopherairtime/internal/pkg/notify"
	"github.com/gopherairtime/gopherairtime/internal/pkg/recharge"
)

// Manager owns the global job queue and the scheduler tickers that stand
// in for cron: the pipeline fan-out, the balance check and the stuck
// submission recovery.
type Manager struct {
	queue         *Queue
	pipeline      *recharge.Pipeline
	queriesTicker *time.Ticker
	balanceTicker *time.Ticker
	stuckTicker   *time.Ticker
	stopCh        chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	running       bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		// Workers have no recover, so a client that cannot be built must
		// stop the process at boot, not when the first job runs.
		api, err := hotsocket.NewClientFromEnv(nil)
		if err != nil {
			panic(fmt.Sprintf("hotsocket client misconfigured: %v", err))
		}

		workerCount := envIntDefault("JOBQUEUE_WORKERS", 5)
		queue := NewQueue(workerCount)

		cfg := recharge.LoadConfig()
		repos := repository.GetGlobalFactory().GetRepositories()
		tokens := recharge.NewAuthManager(api, repos.Token, cfg.Codes, cfg.TokenDuration)
		pipeline := recharge.NewPipeline(cfg, api, tokens, repos.Recharge, repos.Balance,
			NewQueueDispatcher(queue), notify.NewVumiGatewayFromEnv(nil))
		queue.SetPipeline(pipeline)

		globalManager = &Manager{
			queue:    queue,
			pipeline: pipeline,
			stopCh:   make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and the scheduler tickers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and schedulers")

	m.queue.Start()

	queriesInterval := time.Duration(envIntDefault("RUN_QUERIES_INTERVAL_MINUTES", 5)) * time.Minute
	balanceInterval := time.Duration(envIntDefault("BALANCE_CHECK_INTERVAL_MINUTES", 60)) * time.Minute
	stuckInterval := time.Duration(envIntDefault("STUCK_RECOVERY_INTERVAL_MINUTES", 10)) * time.Minute

	m.queriesTicker = time.NewTicker(queriesInterval)
	m.wg.Add(1)
	go m.queriesWorker()

	m.balanceTicker = time.NewTicker(balanceInterval)
	m.wg.Add(1)
	go m.balanceWorker()

	m.stuckTicker = time.NewTicker(stuckInterval)
	m.wg.Add(1)
	go m.stuckWorker()
}

// Stop stops the schedulers and the job queue
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping schedulers and job queue")
	close(m.stopCh)
	m.running = false

	m.queriesTicker.Stop()
	m.balanceTicker.Stop()
	m.stuckTicker.Stop()
	m.wg.Wait()
	m.queue.Stop()
}

// queriesWorker periodically dispatches the pipeline fan-out job.
func (m *Manager) queriesWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			return
		case <-m.queriesTicker.C:
			if _, err := m.queue.EnqueueJob(JobTypeRunQueries, nil); err != nil {
				log.Errorf("[JobQueue Manager] Enqueueing run_queries failed: %v", err)
			}
		}
	}
}

// balanceWorker periodically dispatches the balance check job.
func (m *Manager) balanceWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			return
		case <-m.balanceTicker.C:
			if _, err := m.queue.EnqueueJob(JobTypeBalanceCheck, nil); err != nil {
				log.Errorf("[JobQueue Manager] Enqueueing balance_check failed: %v", err)
			}
		}
	}
}

// stuckWorker periodically frees recharges stranded in the submitting state.
func (m *Manager) stuckWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			return
		case <-m.stuckTicker.C:
			if err := m.pipeline.RecoverStuck(context.Background()); err != nil {
				log.Errorf("[JobQueue Manager] Stuck recharge recovery failed: %v", err)
			}
		}
	}
}

func envIntDefault(key string, def int) int {
	if v, err := strconv.Atoi(env.GetEnv(key, "")); err == nil {
		return v
	}
	return def
}
