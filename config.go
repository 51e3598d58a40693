package main

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds process-level settings plus the gameplay rules.
type Config struct {
	Addr         string        `mapstructure:"addr"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
	ClientDir    string        `mapstructure:"client_dir"`
	PublicURL    string        `mapstructure:"public_url"`
	DatabaseDSN  string        `mapstructure:"database_dsn"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	AdminKeyHash string        `mapstructure:"admin_key_hash"`
	Moderators   []string      `mapstructure:"moderators"`
	Rules        Rules         `mapstructure:"rules"`
}

// Rules is the single source of every gameplay constant. Distances are
// world units, speeds are units per physics tick, durations are seconds.
type Rules struct {
	TickRate    int     `mapstructure:"tick_rate"`
	WorldWidth  float64 `mapstructure:"world_width"`
	WorldHeight float64 `mapstructure:"world_height"`
	SpawnX      float64 `mapstructure:"spawn_x"`
	SpawnY      float64 `mapstructure:"spawn_y"`

	InitialSize  float64 `mapstructure:"initial_size"`
	HeightRatio  float64 `mapstructure:"height_ratio"`
	HitboxInset  float64 `mapstructure:"hitbox_inset"`
	GrowthAmount float64 `mapstructure:"growth_amount"`
	ZombieDecay  float64 `mapstructure:"zombie_decay"`

	BaseSpeed        float64 `mapstructure:"base_speed"`
	MaxSpeed         float64 `mapstructure:"max_speed"`
	ZombieMinSpeed   float64 `mapstructure:"zombie_min_speed"`
	SpeedPerPixel    float64 `mapstructure:"speed_per_pixel"`
	ZombieSpeedBoost float64 `mapstructure:"zombie_speed_boost"`
	SprintMultiplier float64 `mapstructure:"sprint_multiplier"`
	AntSizeFactor    float64 `mapstructure:"ant_size_factor"`
	AntSpeedFactor   float64 `mapstructure:"ant_speed_factor"`

	WaitingTime         int `mapstructure:"waiting_time"`
	RoundDuration       int `mapstructure:"round_duration"`
	CoinsPerSecond      int `mapstructure:"coins_per_second"`
	MinPlayersZombieWin int `mapstructure:"min_players_zombie_win"`

	BoxFriction      float64 `mapstructure:"box_friction"`
	AngularFriction  float64 `mapstructure:"angular_friction"`
	BoxPushForce     float64 `mapstructure:"box_push_force"`
	CollisionDamping float64 `mapstructure:"collision_damping"`
	TorqueFactor     float64 `mapstructure:"torque_factor"`
	ImpactTorque     float64 `mapstructure:"impact_torque"`

	ArrowSpeed     float64 `mapstructure:"arrow_speed"`
	ArrowSize      float64 `mapstructure:"arrow_size"`
	ArrowKnockback float64 `mapstructure:"arrow_knockback"`

	SkateboardSpeed  float64 `mapstructure:"skateboard_speed"`
	SkateboardWidth  float64 `mapstructure:"skateboard_width"`
	SkateboardHeight float64 `mapstructure:"skateboard_height"`
	SkateboardReach  float64 `mapstructure:"skateboard_reach"`

	DuctTravelTime float64 `mapstructure:"duct_travel_time"`
	ChatMaxLen     int     `mapstructure:"chat_max_len"`

	// An override replaces the whole entry for that ability.
	Abilities map[AbilityKind]AbilitySpec `mapstructure:"abilities"`
}

// DefaultRules returns the canonical ruleset.
func DefaultRules() Rules {
	return Rules{
		TickRate:    60,
		WorldWidth:  6000,
		WorldHeight: 2000,
		SpawnX:      3500,
		SpawnY:      1000,

		InitialSize:  60,
		HeightRatio:  1.25,
		HitboxInset:  0.2,
		GrowthAmount: 0.2,
		ZombieDecay:  0.25,

		BaseSpeed:        2,
		MaxSpeed:         5,
		ZombieMinSpeed:   1.5,
		SpeedPerPixel:    0.05,
		ZombieSpeedBoost: 1.15,
		SprintMultiplier: 2,
		AntSizeFactor:    0.1,
		AntSpeedFactor:   0.7,

		WaitingTime:         60,
		RoundDuration:       120,
		CoinsPerSecond:      1,
		MinPlayersZombieWin: 2,

		BoxFriction:      0.94,
		AngularFriction:  0.80,
		BoxPushForce:     0.15,
		CollisionDamping: 0.80,
		TorqueFactor:     0.0008,
		ImpactTorque:     0.002,

		ArrowSpeed:     20,
		ArrowSize:      10,
		ArrowKnockback: 30,

		SkateboardSpeed:  7,
		SkateboardWidth:  90,
		SkateboardHeight: 35,
		SkateboardReach:  100,

		DuctTravelTime: 0.05,
		ChatMaxLen:     150,

		Abilities: DefaultAbilitySpecs(),
	}
}

// Validate rejects rules the simulation cannot run with.
func (r Rules) Validate() error {
	if r.TickRate <= 0 {
		return errors.New("tick_rate must be positive")
	}
	if r.WorldWidth <= 0 || r.WorldHeight <= 0 {
		return errors.New("world size must be positive")
	}
	if r.InitialSize <= 0 {
		return errors.New("initial_size must be positive")
	}
	if r.HitboxInset < 0 || r.HitboxInset >= 0.5 {
		return fmt.Errorf("hitbox_inset %.2f out of range [0, 0.5)", r.HitboxInset)
	}
	if r.ZombieMinSpeed > r.MaxSpeed || r.BaseSpeed > r.MaxSpeed {
		return errors.New("speed floor above max_speed")
	}
	for kind := range r.Abilities {
		if !kind.Valid() {
			return fmt.Errorf("unknown ability %q", kind)
		}
	}
	return nil
}

// TickDuration is the wall-clock length of one physics tick.
func (r Rules) TickDuration() time.Duration {
	return time.Second / time.Duration(r.TickRate)
}

// setRuleDefaults registers every scalar rule as "rules.<key>". Viper only
// consults the environment for keys it already knows, so this is what makes
// INFESTATION_RULES_* variables visible. Ability overrides come from a file.
func setRuleDefaults(v *viper.Viper, r Rules) {
	rv := reflect.ValueOf(r)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("mapstructure")
		if key == "" || f.Type.Kind() == reflect.Map {
			continue
		}
		v.SetDefault("rules."+key, rv.Field(i).Interface())
	}
}

// LoadConfig merges defaults, an optional .env file, an optional config
// file and INFESTATION_* environment variables.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("INFESTATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("client_dir", "")
	v.SetDefault("public_url", "http://localhost:8080/")
	v.SetDefault("database_dsn", ":memory:")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 7*24*time.Hour)
	v.SetDefault("admin_key_hash", "")
	v.SetDefault("moderators", []string{})
	setRuleDefaults(v, DefaultRules())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{Rules: DefaultRules()}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	// Comma-separated lists arrive from the environment as a single entry.
	if len(cfg.Moderators) == 1 && strings.Contains(cfg.Moderators[0], ",") {
		cfg.Moderators = strings.Split(cfg.Moderators[0], ",")
	}
	for i, m := range cfg.Moderators {
		cfg.Moderators[i] = strings.ToLower(strings.TrimSpace(m))
	}
	if err := cfg.Rules.Validate(); err != nil {
		return Config{}, fmt.Errorf("rules: %w", err)
	}
	return cfg, nil
}
