package optimization

import "testing"

func TestAnalyzeFlagsSlowEventWrites(t *testing.T) {
	rec := Analyze(map[string]interface{}{
		"events": map[string]interface{}{"max_write_lat_ms": 75.0},
	})

	if !rec.IncreaseDBConnections {
		t.Error("Expected slow event writes to flag the DB pool")
	}
	if rec.IncreaseBroadcastBuffer {
		t.Error("Expected hub buffers untouched by a DB-side signal")
	}
}

func TestAnalyzeFlagsHubBackpressure(t *testing.T) {
	rec := Analyze(map[string]interface{}{
		"websocket": map[string]interface{}{"errors": int64(3)},
	})

	if !rec.IncreaseBroadcastBuffer {
		t.Error("Expected WebSocket errors to flag the hub buffers")
	}
}

func TestApplyRecommendationsScalesFlaggedKnobs(t *testing.T) {
	cfg := &Config{
		BroadcastChannelBuffer: 256,
		ClientSendBuffer:       64,
		DBMaxOpenConns:         8,
		DBMaxIdleConns:         4,
	}
	rec := &Recommendations{IncreaseBroadcastBuffer: true, IncreaseDBConnections: true}

	ApplyRecommendations(cfg, rec)

	if cfg.BroadcastChannelBuffer != 512 || cfg.ClientSendBuffer != 128 {
		t.Errorf("Expected hub buffers doubled, got %d/%d", cfg.BroadcastChannelBuffer, cfg.ClientSendBuffer)
	}
	if cfg.DBMaxOpenConns != 12 || cfg.DBMaxIdleConns != 6 {
		t.Errorf("Expected DB pool scaled 1.5x, got %d/%d", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
}
