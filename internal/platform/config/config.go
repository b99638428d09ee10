// Package config loads the gameplay tunables.
// Every value has a documented hard-coded default; a missing file or key
// falls back silently to that default and is logged exactly once.
package config

import (
	"github.com/spf13/viper"

	"github.com/MRamiBalles/SalonMascotasJuego/server/internal/platform/logger"
)

// Tunables holds every adjustable gameplay constant of the rules engine.
type Tunables struct {
	// Capture
	CaptureRange float64 `mapstructure:"capture_range"`

	// Struggle / escape
	StruggleInterval   float64 `mapstructure:"struggle_interval"`
	ReductionPerStep   float64 `mapstructure:"reduction_per_step"`
	TeleportDistance   float64 `mapstructure:"teleport_distance"`
	FleeDetectionRange float64 `mapstructure:"flee_detection_range"`

	// Wander cycle
	WanderWaitSeconds float64 `mapstructure:"wander_wait_seconds"`
	WanderMoveSeconds float64 `mapstructure:"wander_move_seconds"`

	// Mischief increments
	ShelfItemMischief    int `mapstructure:"shelf_item_mischief"`
	CleaningCartMischief int `mapstructure:"cleaning_cart_mischief"`
	SkillHitMischief     int `mapstructure:"skill_hit_mischief"`

	// Alert escalation
	AlertOffset      int     `mapstructure:"alert_offset"`
	AlertSpeedBonus  float64 `mapstructure:"alert_speed_bonus"`
	CarrySpeedFactor float64 `mapstructure:"carry_speed_factor"`

	// Containment cage
	CageMaxStorageSeconds float64 `mapstructure:"cage_max_storage_seconds"`
	CageWarningSeconds    float64 `mapstructure:"cage_warning_seconds"`
	ReleaseInvulnSeconds  float64 `mapstructure:"release_invuln_seconds"`

	// Groomer
	GroomerBaseSpeed float64 `mapstructure:"groomer_base_speed"`

	// Playable bounds (XZ plane)
	BoundsMinX float64 `mapstructure:"bounds_min_x"`
	BoundsMaxX float64 `mapstructure:"bounds_max_x"`
	BoundsMinZ float64 `mapstructure:"bounds_min_z"`
	BoundsMaxZ float64 `mapstructure:"bounds_max_z"`

	// Simulation
	RandomSeed int64 `mapstructure:"random_seed"` // 0 = derive from clock
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("capture_range", 1.5)
	v.SetDefault("struggle_interval", 1.0)
	v.SetDefault("reduction_per_step", 0.1)
	v.SetDefault("teleport_distance", 3.0)
	v.SetDefault("flee_detection_range", 5.0)
	v.SetDefault("wander_wait_seconds", 2.0)
	v.SetDefault("wander_move_seconds", 4.0)
	v.SetDefault("shelf_item_mischief", 50)
	v.SetDefault("cleaning_cart_mischief", 80)
	v.SetDefault("skill_hit_mischief", 30)
	v.SetDefault("alert_offset", 100)
	v.SetDefault("alert_speed_bonus", 0.1)
	v.SetDefault("carry_speed_factor", 0.85)
	v.SetDefault("cage_max_storage_seconds", 60.0)
	v.SetDefault("cage_warning_seconds", 10.0)
	v.SetDefault("release_invuln_seconds", 3.0)
	v.SetDefault("groomer_base_speed", 5.5)
	v.SetDefault("bounds_min_x", -25.0)
	v.SetDefault("bounds_max_x", 25.0)
	v.SetDefault("bounds_min_z", -25.0)
	v.SetDefault("bounds_max_z", 25.0)
	v.SetDefault("random_seed", int64(0))
}

// Defaults returns the documented hard-coded tunables without touching disk.
func Defaults() Tunables {
	v := viper.New()
	setDefaults(v)
	var t Tunables
	_ = v.Unmarshal(&t)
	return t
}

// Load reads salon.yaml from the given directory. A missing or unreadable
// file is not an error: defaults apply and the condition is logged once.
func Load(dir string, log *logger.Logger) Tunables {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("salon")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		log.Warn("Tunables file not loaded, using built-in defaults: " + err.Error())
	} else {
		log.Info("Tunables loaded from " + v.ConfigFileUsed())
	}

	var t Tunables
	if err := v.Unmarshal(&t); err != nil {
		log.Warn("Tunables unmarshal failed, using built-in defaults: " + err.Error())
		return Defaults()
	}
	return t
}
