package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
)

const (
	// DefaultUndoWindow is the number of trailing blocks kept reversible.
	DefaultUndoWindow = 100
	// MinUndoWindow is the smallest accepted undo window.
	MinUndoWindow = 6

	EnginePebble = "pebble"
	EngineBadger = "badger"

	ReorgModeCatchUp = "catch-up"
	ReorgModeAlways  = "always"
	ReorgModeNever   = "never"

	BlockSourceBitcoind = "bitcoind"
)

// Config represents the complete configuration for the StateIndexor.
type Config struct {
	// Upstream describes the append-only store this indexer reads
	Upstream UpstreamConfig `yaml:"upstream" json:"upstream" toml:"upstream"`

	// Store configures the primary key-value store
	Store StoreConfig `yaml:"store" json:"store" toml:"store"`

	// Undo configures the write-ahead undo log
	Undo UndoConfig `yaml:"undo" json:"undo" toml:"undo"`

	// Indexing configures the indexing loop
	Indexing IndexingConfig `yaml:"indexing" json:"indexing" toml:"indexing"`

	// Reorg configures reorg detection policy
	Reorg ReorgConfig `yaml:"reorg" json:"reorg" toml:"reorg"`

	// BlockSource configures where raw blocks are fetched from
	BlockSource BlockSourceConfig `yaml:"block_source" json:"block_source" toml:"block_source"`

	// Consumers lists the consumers to run, foundational consumers are ordered first
	Consumers []ConsumerConfig `yaml:"consumers" json:"consumers" toml:"consumers"`

	// API configures the read-only HTTP API
	API *APIConfig `yaml:"api,omitempty" json:"api,omitempty" toml:"api,omitempty"`

	// Logging contains logging configuration
	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`

	// Metrics contains Prometheus metrics configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" toml:"metrics,omitempty"`
}

// UpstreamConfig describes the upstream append-only store.
type UpstreamConfig struct {
	// Path is the upstream store directory. It is never written to.
	Path string `yaml:"path" json:"path" toml:"path"`

	// SecondaryPath is a locally owned directory holding the secondary handle's files
	SecondaryPath string `yaml:"secondary_path" json:"secondary_path" toml:"secondary_path"`

	// Label optionally namespaces every upstream key as "{label}://{key}"
	Label string `yaml:"label,omitempty" json:"label,omitempty" toml:"label,omitempty"`

	// TipKey is the versioned key holding upstream's indexed height
	TipKey string `yaml:"tip_key" json:"tip_key" toml:"tip_key"`

	// HashNamespace is the prefix of upstream's height to block hash versioned keys
	HashNamespace string `yaml:"hash_namespace" json:"hash_namespace" toml:"hash_namespace"`

	// Retry controls backoff when the upstream store is unavailable
	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`
}

// ApplyDefaults sets default values for optional upstream configuration fields.
func (u *UpstreamConfig) ApplyDefaults() {
	if u.TipKey == "" {
		u.TipKey = "__INTERNAL/height"
	}
	if u.HashNamespace == "" {
		u.HashNamespace = "/blockhash/byheight/"
	}
	if u.Retry == nil {
		u.Retry = &RetryConfig{}
	}
	u.Retry.ApplyDefaults()
}

// StoreConfig configures the primary key-value store.
type StoreConfig struct {
	// Path is the primary store directory
	Path string `yaml:"path" json:"path" toml:"path"`

	// Engine selects the storage engine: "pebble" or "badger"
	Engine string `yaml:"engine" json:"engine" toml:"engine"`

	// CacheSizeMB is the block cache size of the engine
	CacheSizeMB uint64 `yaml:"cache_size_mb" json:"cache_size_mb" toml:"cache_size_mb"`
}

// ApplyDefaults sets default values for optional store configuration fields.
func (s *StoreConfig) ApplyDefaults() {
	if s.Engine == "" {
		s.Engine = EnginePebble
	}
	if s.CacheSizeMB == 0 {
		s.CacheSizeMB = 64
	}
}

// UndoConfig configures the undo log.
type UndoConfig struct {
	// Window is the number of trailing blocks that can be rolled back
	Window uint64 `yaml:"window" json:"window" toml:"window"`

	// CompressThreshold is the prior value size in bytes above which values are zstd compressed
	CompressThreshold int `yaml:"compress_threshold" json:"compress_threshold" toml:"compress_threshold"`

	// DB contains the undo log database configuration
	DB DatabaseConfig `yaml:"db" json:"db" toml:"db"`

	// Maintenance contains optional database maintenance settings
	Maintenance *MaintenanceConfig `yaml:"maintenance,omitempty" json:"maintenance,omitempty" toml:"maintenance,omitempty"`
}

// ApplyDefaults sets default values for optional undo configuration fields.
func (u *UndoConfig) ApplyDefaults() {
	if u.Window == 0 {
		u.Window = DefaultUndoWindow
	}
	if u.CompressThreshold == 0 {
		u.CompressThreshold = 256
	}
	if u.DB.Synchronous == "" {
		u.DB.Synchronous = "FULL"
	}
	u.DB.ApplyDefaults()

	if u.Maintenance != nil {
		u.Maintenance.ApplyDefaults()
	}
}

// IndexingConfig configures the indexing loop.
type IndexingConfig struct {
	// StartHeight is the first height to index on an empty store
	StartHeight uint64 `yaml:"start_height" json:"start_height" toml:"start_height"`

	// ViewOnly disables the indexing loop while keeping read access available
	ViewOnly bool `yaml:"view_only" json:"view_only" toml:"view_only"`

	// BlockDelay is slept after every committed block to throttle catch-up
	BlockDelay common.Duration `yaml:"block_delay" json:"block_delay" toml:"block_delay"`

	// PollInterval is how long to wait for new blocks once caught up
	PollInterval common.Duration `yaml:"poll_interval" json:"poll_interval" toml:"poll_interval"`
}

// ApplyDefaults sets default values for optional indexing configuration fields.
func (i *IndexingConfig) ApplyDefaults() {
	if i.PollInterval.Duration == 0 {
		i.PollInterval = common.NewDuration(5 * time.Second) //nolint:mnd
	}
}

// ReorgConfig configures when reorg detection runs.
type ReorgConfig struct {
	// Mode is one of "catch-up", "always" or "never"
	Mode string `yaml:"mode" json:"mode" toml:"mode"`

	// WatchDistance enables checks before a block once next is within this many blocks of the upstream tip
	WatchDistance uint64 `yaml:"watch_distance" json:"watch_distance" toml:"watch_distance"`

	// CheckInterval runs a check every N committed blocks while catching up
	CheckInterval uint64 `yaml:"check_interval" json:"check_interval" toml:"check_interval"`
}

// ApplyDefaults sets default values for optional reorg configuration fields.
func (r *ReorgConfig) ApplyDefaults() {
	if r.Mode == "" {
		r.Mode = ReorgModeCatchUp
	}
	if r.WatchDistance == 0 {
		r.WatchDistance = DefaultUndoWindow
	}
	if r.CheckInterval == 0 {
		r.CheckInterval = 1
	}
}

// Validate checks if the reorg configuration is valid.
func (r *ReorgConfig) Validate() error {
	validModes := []string{ReorgModeCatchUp, ReorgModeAlways, ReorgModeNever}
	if !slices.Contains(validModes, r.Mode) {
		return fmt.Errorf("reorg.mode: must be one of: catch-up, always, never")
	}
	return nil
}

// BlockSourceConfig configures the external block source.
type BlockSourceConfig struct {
	// Type selects the block source implementation
	Type string `yaml:"type" json:"type" toml:"type"`

	// Host is the node RPC host:port
	Host string `yaml:"host" json:"host" toml:"host"`

	// User is the RPC user
	User string `yaml:"user" json:"user" toml:"user"`

	// Password is the RPC password
	Password string `yaml:"password" json:"password" toml:"password"`

	// DisableTLS talks plain HTTP to the node
	DisableTLS bool `yaml:"disable_tls" json:"disable_tls" toml:"disable_tls"`

	// Retry contains RPC retry configuration with exponential backoff
	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`
}

// ApplyDefaults sets default values for optional block source configuration fields.
func (b *BlockSourceConfig) ApplyDefaults() {
	if b.Type == "" {
		b.Type = BlockSourceBitcoind
	}
	if b.Retry != nil {
		b.Retry.ApplyDefaults()
	}
}

// ConsumerConfig selects one consumer.
type ConsumerConfig struct {
	// Name is a unique identifier for this consumer, also used in its height key
	Name string `yaml:"name" json:"name" toml:"name"`

	// Type is the registered consumer type
	Type string `yaml:"type" json:"type" toml:"type"`

	// GenesisHeight is the first height this consumer processes
	GenesisHeight uint64 `yaml:"genesis_height" json:"genesis_height" toml:"genesis_height"`

	// Options holds type specific settings
	Options map[string]string `yaml:"options,omitempty" json:"options,omitempty" toml:"options,omitempty"`
}

// RetryConfig represents retry configuration with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial request)
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts"`

	// InitialBackoff is the initial backoff duration before first retry
	InitialBackoff common.Duration `yaml:"initial_backoff" json:"initial_backoff" toml:"initial_backoff"`

	// MaxBackoff is the maximum backoff duration
	MaxBackoff common.Duration `yaml:"max_backoff" json:"max_backoff" toml:"max_backoff"`

	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64 `yaml:"backoff_multiplier" json:"backoff_multiplier" toml:"backoff_multiplier"`
}

// ApplyDefaults sets default values for retry configuration.
func (r *RetryConfig) ApplyDefaults() {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 5
	}
	if r.InitialBackoff.Duration == 0 {
		r.InitialBackoff = common.NewDuration(1 * time.Second)
	}
	if r.MaxBackoff.Duration == 0 {
		r.MaxBackoff = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if r.BackoffMultiplier == 0 {
		r.BackoffMultiplier = 2.0
	}
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	// Path is the file path to the SQLite database
	Path string `yaml:"path" json:"path" toml:"path"`

	// JournalMode sets the SQLite journal mode (e.g., "WAL", "DELETE")
	JournalMode string `yaml:"journal_mode" json:"journal_mode" toml:"journal_mode"`

	// Synchronous sets the synchronization level ("EXTRA", "FULL", "NORMAL", "OFF")
	Synchronous string `yaml:"synchronous" json:"synchronous" toml:"synchronous"`

	// BusyTimeout is the time in milliseconds to wait when the database is locked
	BusyTimeout int `yaml:"busy_timeout" json:"busy_timeout" toml:"busy_timeout"`

	// CacheSize is the size of the page cache (negative = KB, positive = pages)
	CacheSize int `yaml:"cache_size" json:"cache_size" toml:"cache_size"`

	// MaxOpenConnections is the maximum number of open database connections
	MaxOpenConnections int `yaml:"max_open_connections" json:"max_open_connections" toml:"max_open_connections"`

	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections int `yaml:"max_idle_connections" json:"max_idle_connections" toml:"max_idle_connections"`
}

// ApplyDefaults sets default values for optional database configuration fields.
func (d *DatabaseConfig) ApplyDefaults() {
	if d.JournalMode == "" {
		d.JournalMode = "WAL"
	}
	if d.Synchronous == "" {
		d.Synchronous = "NORMAL"
	}
	if d.BusyTimeout == 0 {
		d.BusyTimeout = 5000
	}
	if d.CacheSize == 0 {
		d.CacheSize = 10000
	}
	if d.MaxOpenConnections == 0 {
		d.MaxOpenConnections = 25
	}
	if d.MaxIdleConnections == 0 {
		d.MaxIdleConnections = 5
	}
}

// Validate checks journal and synchronous settings.
func (d *DatabaseConfig) Validate() error {
	validJournal := []string{"WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY"}
	if !slices.Contains(validJournal, d.JournalMode) {
		return fmt.Errorf("journal_mode must be one of: WAL, DELETE, TRUNCATE, PERSIST, MEMORY")
	}

	validSync := []string{"EXTRA", "FULL", "NORMAL", "OFF"}
	if !slices.Contains(validSync, d.Synchronous) {
		return fmt.Errorf("synchronous must be one of: EXTRA, FULL, NORMAL, OFF")
	}

	return nil
}

// MaintenanceConfig configures database maintenance behavior.
type MaintenanceConfig struct {
	// Enabled controls whether background maintenance runs
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// CheckInterval is how often to run maintenance (e.g., "30m", "1h")
	CheckInterval common.Duration `yaml:"check_interval" json:"check_interval" toml:"check_interval"`

	// VacuumOnStartup runs maintenance immediately on startup
	VacuumOnStartup bool `yaml:"vacuum_on_startup" json:"vacuum_on_startup" toml:"vacuum_on_startup"`

	// WALCheckpointMode controls the WAL checkpoint aggressiveness
	// Options: PASSIVE, FULL, RESTART, TRUNCATE
	WALCheckpointMode string `yaml:"wal_checkpoint_mode" json:"wal_checkpoint_mode" toml:"wal_checkpoint_mode"`
}

// ApplyDefaults sets default values for optional maintenance configuration fields.
func (m *MaintenanceConfig) ApplyDefaults() {
	if m.CheckInterval.Duration == 0 {
		m.CheckInterval = common.NewDuration(30 * time.Minute) //nolint:mnd
	}
	if m.WALCheckpointMode == "" {
		m.WALCheckpointMode = "TRUNCATE"
	}
}

// Validate checks if the maintenance configuration is valid.
func (m *MaintenanceConfig) Validate() error {
	if m.WALCheckpointMode != "" {
		validModes := []string{"PASSIVE", "FULL", "RESTART", "TRUNCATE"}
		if !slices.Contains(validModes, m.WALCheckpointMode) {
			return fmt.Errorf("maintenance.wal_checkpoint_mode: must be one of: PASSIVE, FULL, RESTART, TRUNCATE")
		}
	}

	return nil
}

// APIConfig configures the read-only HTTP API.
type APIConfig struct {
	// Enabled controls whether the API server runs
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the API server to
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout common.Duration `yaml:"read_timeout" json:"read_timeout" toml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout common.Duration `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout common.Duration `yaml:"idle_timeout" json:"idle_timeout" toml:"idle_timeout"`

	// CORS configures cross-origin requests
	CORS CORSConfig `yaml:"cors" json:"cors" toml:"cors"`
}

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled" toml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" toml:"allowed_origins"`
}

// ApplyDefaults sets default values for optional API configuration fields.
func (a *APIConfig) ApplyDefaults() {
	if a.ListenAddress == "" {
		a.ListenAddress = ":8080"
	}
	if a.ReadTimeout.Duration == 0 {
		a.ReadTimeout = common.NewDuration(5 * time.Second) //nolint:mnd
	}
	if a.WriteTimeout.Duration == 0 {
		a.WriteTimeout = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if a.IdleTimeout.Duration == 0 {
		a.IdleTimeout = common.NewDuration(60 * time.Second) //nolint:mnd
	}
	if a.CORS.Enabled && len(a.CORS.AllowedOrigins) == 0 {
		a.CORS.AllowedOrigins = []string{"*"}
	}
}

// LoggingConfig configures logging behavior with per-component log levels.
type LoggingConfig struct {
	// DefaultLevel is the default log level for all components
	// Options: "debug", "info", "warn", "error"
	DefaultLevel string `yaml:"default_level" json:"default_level" toml:"default_level"`

	// Development enables development mode (stack traces, console encoder)
	Development bool `yaml:"development" json:"development" toml:"development"`

	// ComponentLevels sets log levels for specific components
	// Available components:
	//   - indexer: indexing loop
	//   - upstream: versioned store reader
	//   - undo-log: undo log
	//   - store: primary key-value store
	//   - reorg: reorg coordinator
	//   - block-source: block fetching
	//   - maintenance: database maintenance
	//   - api: HTTP API
	//   - consumer: built-in consumers
	ComponentLevels map[string]string `yaml:"component_levels,omitempty" json:"component_levels,omitempty" toml:"component_levels,omitempty"` //nolint:lll

	// File optionally mirrors logs into a rotating file
	File *LogFileConfig `yaml:"file,omitempty" json:"file,omitempty" toml:"file,omitempty"`
}

// LogFileConfig configures a rotating log file.
type LogFileConfig struct {
	Path       string `yaml:"path" json:"path" toml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" json:"compress" toml:"compress"`
}

// ApplyDefaults sets default values for optional logging configuration fields.
func (l *LoggingConfig) ApplyDefaults() {
	if l.DefaultLevel == "" {
		l.DefaultLevel = "info"
	}
	if l.ComponentLevels == nil {
		l.ComponentLevels = make(map[string]string)
	}
	if l.File != nil && l.File.MaxSizeMB == 0 {
		l.File.MaxSizeMB = 100
	}
}

// Validate checks if the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	if l.DefaultLevel != "" {
		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(l.DefaultLevel)]; !valid {
			return fmt.Errorf("logging.default_level: must be one of: debug, info, warn, error")
		}
	}

	for component, level := range l.ComponentLevels {
		if _, validComponent := common.AllComponents[common.ToLowerWithTrim(component)]; !validComponent {
			return fmt.Errorf("logging.component_levels: unknown component '%s'", component)
		}

		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(level)]; !valid {
			return fmt.Errorf("logging.component_levels[%s]: must be one of: debug, info, warn, error", component)
		}
	}

	if l.File != nil && l.File.Path == "" {
		return fmt.Errorf("logging.file.path is required when logging.file is set")
	}

	return nil
}

// GetComponentLevel returns the log level for a specific component.
// Falls back to DefaultLevel if no component-specific level is set.
func (l *LoggingConfig) GetComponentLevel(component string) string {
	if level, ok := l.ComponentLevels[component]; ok {
		return common.ToLowerWithTrim(level)
	}
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// GetDefaultLevel returns the default log level.
func (l *LoggingConfig) GetDefaultLevel() string {
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// IsDevelopment returns whether development mode is enabled.
func (l *LoggingConfig) IsDevelopment() bool {
	return l.Development
}

// GetFileOutput returns the rotating file sink, if configured.
func (l *LoggingConfig) GetFileOutput() *logger.FileOutput {
	if l.File == nil {
		return nil
	}
	return &logger.FileOutput{
		Path:       l.File.Path,
		MaxSizeMB:  l.File.MaxSizeMB,
		MaxBackups: l.File.MaxBackups,
		MaxAgeDays: l.File.MaxAgeDays,
		Compress:   l.File.Compress,
	}
}

// MetricsConfig configures Prometheus metrics exposition.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP endpoint are active
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the metrics HTTP server to
	// Format: "host:port" or ":port"
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path where metrics are exposed
	Path string `yaml:"path" json:"path" toml:"path"`
}

// ApplyDefaults sets default values for optional metrics configuration fields.
func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
}

// Validate checks if the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.ListenAddress == "" {
			return fmt.Errorf("listen_address is required when metrics are enabled")
		}
		if m.Path == "" {
			return fmt.Errorf("path is required when metrics are enabled")
		}
		if m.Path[0] != '/' {
			return fmt.Errorf("path must start with '/'")
		}
	}
	return nil
}

// ApplyDefaults sets default values for optional configuration fields.
func (c *Config) ApplyDefaults() {
	c.Upstream.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Undo.ApplyDefaults()
	c.Indexing.ApplyDefaults()
	c.Reorg.ApplyDefaults()
	c.BlockSource.ApplyDefaults()

	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.ApplyDefaults()

	if c.API != nil {
		c.API.ApplyDefaults()
	}

	if c.Metrics != nil {
		c.Metrics.ApplyDefaults()
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Upstream.Path == "" {
		return fmt.Errorf("upstream.path is required")
	}
	if c.Upstream.SecondaryPath == "" {
		return fmt.Errorf("upstream.secondary_path is required")
	}
	if c.Upstream.SecondaryPath == c.Upstream.Path {
		return fmt.Errorf("upstream.secondary_path must differ from upstream.path")
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Store.Engine != EnginePebble && c.Store.Engine != EngineBadger {
		return fmt.Errorf("store.engine must be one of: 'pebble', 'badger'")
	}

	if c.Undo.Window < MinUndoWindow {
		return fmt.Errorf("undo.window must be at least %d, got %d", MinUndoWindow, c.Undo.Window)
	}
	if c.Undo.DB.Path == "" {
		return fmt.Errorf("undo.db.path is required")
	}
	if err := c.Undo.DB.Validate(); err != nil {
		return fmt.Errorf("undo.db: %w", err)
	}
	if c.Undo.DB.Synchronous != "FULL" && c.Undo.DB.Synchronous != "EXTRA" {
		return fmt.Errorf("undo.db.synchronous must be FULL or EXTRA for durable commits")
	}
	if c.Undo.Maintenance != nil {
		if err := c.Undo.Maintenance.Validate(); err != nil {
			return fmt.Errorf("undo.maintenance: %w", err)
		}
	}

	if err := c.Reorg.Validate(); err != nil {
		return err
	}

	if !c.Indexing.ViewOnly {
		if c.BlockSource.Type != BlockSourceBitcoind {
			return fmt.Errorf("block_source.type must be 'bitcoind'")
		}
		if c.BlockSource.Host == "" {
			return fmt.Errorf("block_source.host is required")
		}
		if len(c.Consumers) == 0 {
			return fmt.Errorf("at least one consumer must be configured")
		}
	}

	names := make(map[string]bool)
	for i, consumer := range c.Consumers {
		if consumer.Name == "" {
			return fmt.Errorf("consumer[%d]: name is required", i)
		}
		if consumer.Type == "" {
			return fmt.Errorf("consumer[%d] (%s): type is required", i, consumer.Name)
		}
		if names[consumer.Name] {
			return fmt.Errorf("consumer[%d]: duplicate consumer name '%s'", i, consumer.Name)
		}
		names[consumer.Name] = true
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return err
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	return nil
}
