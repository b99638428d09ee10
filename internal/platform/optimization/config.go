// Package optimization centralizes the load-dependent knobs of the salon
// server: WebSocket buffer sizes and storage connection pools. Every field
// here is consumed at boot; gameplay tunables live in platform/config.
package optimization

import (
	"runtime"
)

// Config holds the concurrency knobs for one server process.
type Config struct {
	// WebSocket hub buffers
	BroadcastChannelBuffer int // hub fan-out queue
	ClientSendBuffer       int // per-connection send queue

	// SQLite event store
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Optional redis snapshot mirror
	RedisPoolSize int
}

// DefaultConfig returns the production profile, scaled to the host CPU.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		BroadcastChannelBuffer: 256,
		ClientSendBuffer:       64,

		DBMaxOpenConns: numCPU * 4,
		DBMaxIdleConns: numCPU * 2,

		RedisPoolSize: numCPU * 2,
	}
}

// StressTestConfig returns the profile the agitator load tool runs against.
func StressTestConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		BroadcastChannelBuffer: 512,
		ClientSendBuffer:       128,

		DBMaxOpenConns: numCPU * 8,
		DBMaxIdleConns: numCPU * 4,

		RedisPoolSize: numCPU * 4,
	}
}

// LowResourceConfig returns minimal settings for local development.
func LowResourceConfig() *Config {
	return &Config{
		BroadcastChannelBuffer: 16,
		ClientSendBuffer:       8,

		DBMaxOpenConns: 5,
		DBMaxIdleConns: 2,

		RedisPoolSize: 5,
	}
}

// Recommendations is the outcome of one metrics pass.
type Recommendations struct {
	IncreaseBroadcastBuffer bool
	IncreaseDBConnections   bool
	Notes                   []string
}

// Analyze reads the metrics snapshot (the /metrics payload shape) and flags
// the knobs that look undersized.
func Analyze(metrics map[string]interface{}) *Recommendations {
	rec := &Recommendations{
		Notes: make([]string, 0),
	}

	if events, ok := metrics["events"].(map[string]interface{}); ok {
		if maxLat, ok := events["max_write_lat_ms"].(float64); ok && maxLat > 50 {
			rec.IncreaseDBConnections = true
			rec.Notes = append(rec.Notes, "Event write latency exceeds 50ms - increase DB connections")
		}
		if errors, ok := events["errors"].(int64); ok && errors > 0 {
			rec.IncreaseDBConnections = true
			rec.Notes = append(rec.Notes, "Event write errors detected - check DB connection pool")
		}
	}

	// Dropped broadcasts show up as WebSocket errors in the hub.
	if ws, ok := metrics["websocket"].(map[string]interface{}); ok {
		if errors, ok := ws["errors"].(int64); ok && errors > 0 {
			rec.IncreaseBroadcastBuffer = true
			rec.Notes = append(rec.Notes, "WebSocket errors detected - increase client send buffer")
		}
	}

	return rec
}

// ApplyRecommendations scales the flagged knobs in place.
func ApplyRecommendations(config *Config, rec *Recommendations) *Config {
	if rec.IncreaseBroadcastBuffer {
		config.BroadcastChannelBuffer *= 2
		config.ClientSendBuffer *= 2
	}
	if rec.IncreaseDBConnections {
		config.DBMaxOpenConns = int(float64(config.DBMaxOpenConns) * 1.5)
		config.DBMaxIdleConns = int(float64(config.DBMaxIdleConns) * 1.5)
	}
	return config
}
