package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/pkg/config"
)

// Maintenance runs periodic WAL checkpoints and VACUUM on a database
// while keeping them out of the way of in-flight write scopes.
type Maintenance interface {
	// Start begins background maintenance if enabled.
	Start(ctx context.Context) error
	// Stop stops background maintenance and waits for completion.
	Stop() error
	// AcquireOperationLock acquires a shared lock held for the lifetime of a write scope.
	// The returned function releases it.
	AcquireOperationLock() func()
	// GetMetrics returns current maintenance metrics.
	GetMetrics() MaintenanceMetrics
	// RunMaintenance performs one maintenance pass.
	RunMaintenance(ctx context.Context) error
}

// NoOpMaintenance is used when maintenance is not configured.
type NoOpMaintenance struct{}

func (m *NoOpMaintenance) Start(ctx context.Context) error          { return nil }
func (m *NoOpMaintenance) Stop() error                              { return nil }
func (m *NoOpMaintenance) RunMaintenance(ctx context.Context) error { return nil }
func (m *NoOpMaintenance) AcquireOperationLock() func()             { return func() {} }
func (m *NoOpMaintenance) GetMetrics() MaintenanceMetrics           { return MaintenanceMetrics{} }

// MaintenanceMetrics provides visibility into maintenance operations.
type MaintenanceMetrics struct {
	LastMaintenanceTime  time.Time
	MaintenanceCount     uint64
	LastMaintenanceError error
}

// MaintenanceCoordinator serializes maintenance against normal operations.
// Operations hold the read side of opLock, maintenance takes the write side.
type MaintenanceCoordinator struct {
	db     *sql.DB
	config config.MaintenanceConfig
	dbPath string
	label  string
	log    *logger.Logger

	opLock sync.RWMutex

	cancel context.CancelFunc
	wg     sync.WaitGroup

	metricsLock sync.Mutex
	metrics     MaintenanceMetrics
}

// NewMaintenanceCoordinator returns a NoOpMaintenance when cfg is nil.
func NewMaintenanceCoordinator(
	dbPath string,
	db *sql.DB,
	cfg *config.MaintenanceConfig,
	log *logger.Logger,
) Maintenance {
	if cfg == nil {
		return &NoOpMaintenance{}
	}

	return newMaintenanceCoordinator(dbPath, db, *cfg, log)
}

func newMaintenanceCoordinator(
	dbPath string,
	db *sql.DB,
	cfg config.MaintenanceConfig,
	log *logger.Logger,
) *MaintenanceCoordinator {
	return &MaintenanceCoordinator{
		db:     db,
		config: cfg,
		dbPath: dbPath,
		label:  strings.TrimSuffix(filepath.Base(dbPath), filepath.Ext(dbPath)),
		log:    log.WithComponent(common.ComponentMaintenance),
	}
}

// Start begins background maintenance if enabled.
func (m *MaintenanceCoordinator) Start(ctx context.Context) error {
	if !m.config.Enabled {
		m.log.Infow("background maintenance is disabled", "db", m.label)
		return nil
	}

	ctx, m.cancel = context.WithCancel(ctx)

	if m.config.VacuumOnStartup {
		if err := m.RunMaintenance(ctx); err != nil {
			m.log.Warnw("startup maintenance failed", "db", m.label, "error", err)
		}
	}

	interval := m.config.CheckInterval.Duration
	m.wg.Add(1)
	go m.maintenanceWorker(ctx, interval)

	m.log.Infow("background maintenance started",
		"db", m.label, "interval", interval, "checkpoint_mode", m.config.WALCheckpointMode)

	return nil
}

// Stop stops background maintenance and waits for completion.
func (m *MaintenanceCoordinator) Stop() error {
	if m.cancel == nil {
		return nil
	}

	m.cancel()
	m.wg.Wait()
	m.log.Infow("background maintenance stopped", "db", m.label)

	return nil
}

// maintenanceWorker panics on a non-positive interval, like time.NewTicker.
func (m *MaintenanceCoordinator) maintenanceWorker(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.RunMaintenance(ctx); err != nil {
				m.log.Warnw("periodic maintenance failed", "db", m.label, "error", err)
			}
		}
	}
}

// RunMaintenance checkpoints the WAL and vacuums the database. It waits
// for every open operation to release its lock first.
func (m *MaintenanceCoordinator) RunMaintenance(ctx context.Context) error {
	m.opLock.Lock()
	defer m.opLock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	sizeBefore, _ := DBTotalSize(m.dbPath)

	var runErr error
	if err := m.walCheckpoint(); err != nil {
		runErr = fmt.Errorf("WAL checkpoint failed: %w", err)
	}
	if err := m.vacuum(); err != nil && runErr == nil {
		runErr = fmt.Errorf("VACUUM failed: %w", err)
	}

	sizeAfter, _ := DBTotalSize(m.dbPath)
	duration := time.Since(start)

	m.metricsLock.Lock()
	m.metrics.LastMaintenanceTime = time.Now().UTC()
	m.metrics.MaintenanceCount++
	m.metrics.LastMaintenanceError = runErr
	m.metricsLock.Unlock()

	maintenanceOutcome(m.label, runErr, duration)
	dbSizeLog(m.label, sizeAfter)

	if runErr != nil {
		m.log.Warnw("maintenance completed with errors", "db", m.label, "duration", duration, "error", runErr)
		return runErr
	}

	if sizeBefore > sizeAfter {
		reclaimed := uint64(sizeBefore - sizeAfter)
		spaceReclaimedLog(m.label, reclaimed)
		m.log.Infow("maintenance reclaimed space", "db", m.label, "mb", common.BytesToMB(reclaimed))
	}

	m.log.Debugw("maintenance completed", "db", m.label, "duration", duration)

	return nil
}

func (m *MaintenanceCoordinator) walCheckpoint() error {
	var mode string
	if err := m.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		return fmt.Errorf("failed to check journal mode: %w", err)
	}
	if !strings.EqualFold(mode, "wal") {
		return nil
	}

	var busy, logFrames, checkpointed int
	query := fmt.Sprintf("PRAGMA wal_checkpoint(%s)", m.config.WALCheckpointMode)
	if err := m.db.QueryRow(query).Scan(&busy, &logFrames, &checkpointed); err != nil {
		return fmt.Errorf("failed to execute WAL checkpoint: %w", err)
	}

	walCheckpointInc(m.label, strings.ToLower(m.config.WALCheckpointMode))

	if busy > 0 {
		m.log.Warnw("WAL checkpoint left busy pages", "db", m.label, "busy", busy)
	}
	m.log.Debugw("WAL checkpoint complete",
		"db", m.label, "mode", m.config.WALCheckpointMode, "log_frames", logFrames, "checkpointed", checkpointed)

	return nil
}

func (m *MaintenanceCoordinator) vacuum() error {
	err := Vacuum(m.db)
	if err != nil && strings.Contains(err.Error(), "database is locked") {
		return fmt.Errorf("cannot vacuum: database is locked (retry later)")
	}
	return err
}

// AcquireOperationLock acquires the shared side of the maintenance lock.
func (m *MaintenanceCoordinator) AcquireOperationLock() func() {
	m.opLock.RLock()
	return m.opLock.RUnlock
}

// GetMetrics returns current maintenance metrics.
func (m *MaintenanceCoordinator) GetMetrics() MaintenanceMetrics {
	m.metricsLock.Lock()
	defer m.metricsLock.Unlock()

	return m.metrics
}
