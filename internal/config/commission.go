package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/naxum/tsa-backend/internal/tier"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// TierRule is the file/config representation of one commission tier.
// A nil Max marks the open-ended top tier.
type TierRule struct {
	Min        int  `mapstructure:"min"`
	Max        *int `mapstructure:"max"`
	Percentage int  `mapstructure:"percentage"`
}

// CommissionConfig carries the tunable commission and leaderboard settings.
type CommissionConfig struct {
	DistributorCategoryID int64      `mapstructure:"distributorCategoryId"`
	CustomerCategoryID    int64      `mapstructure:"customerCategoryId"`
	TopDistributorsLimit  int        `mapstructure:"topDistributorsLimit"`
	DefaultPerPage        int        `mapstructure:"defaultPerPage"`
	MaxPerPage            int        `mapstructure:"maxPerPage"`
	Tiers                 []TierRule `mapstructure:"tiers"`
}

func DefaultCommissionConfig() CommissionConfig {
	return CommissionConfig{
		DistributorCategoryID: 1,
		CustomerCategoryID:    2,
		TopDistributorsLimit:  200,
		DefaultPerPage:        10,
		MaxPerPage:            250,
		Tiers: []TierRule{
			{Min: 0, Max: intPtr(4), Percentage: 5},
			{Min: 5, Max: intPtr(10), Percentage: 10},
			{Min: 11, Max: intPtr(20), Percentage: 15},
			{Min: 21, Max: intPtr(29), Percentage: 20},
			{Min: 30, Max: nil, Percentage: 30},
		},
	}
}

func intPtr(v int) *int { return &v }

type commissionSnapshot struct {
	cfg      CommissionConfig
	resolver *tier.Resolver
}

// CommissionConfigHolder serves a consistent view of the commission
// settings and the tier resolver built from them.
type CommissionConfigHolder struct {
	current atomic.Value // holds commissionSnapshot
}

// NewCommissionHolder reads commission.yml (falling back to built-in
// defaults) and watches the file for hot reload. Invalid updates are
// ignored and the previous snapshot stays active.
func NewCommissionHolder() (*CommissionConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("commission")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/tsa/config") // Volume-mounted config
	v.AddConfigPath("/etc/tsa")            // System config
	v.AddConfigPath(".")                   // Current directory (dev mode)

	v.SetEnvPrefix("TSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultCommissionConfig()
		v.SetDefault("commission.distributorCategoryId", defaults.DistributorCategoryID)
		v.SetDefault("commission.customerCategoryId", defaults.CustomerCategoryID)
		v.SetDefault("commission.topDistributorsLimit", defaults.TopDistributorsLimit)
		v.SetDefault("commission.defaultPerPage", defaults.DefaultPerPage)
		v.SetDefault("commission.maxPerPage", defaults.MaxPerPage)
		v.SetDefault("commission.tiers", defaults.Tiers)
	}

	var cfg CommissionConfig
	if err := v.UnmarshalKey("commission", &cfg); err != nil {
		return nil, err
	}

	holder, err := NewCommissionHolderFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CommissionConfig
		if err := v.UnmarshalKey("commission", &updated); err != nil {
			zap.L().Warn("commission config reload failed", zap.Error(err))
			return
		}
		if err := holder.store(updated); err != nil {
			zap.L().Warn("invalid commission config ignored", zap.Error(err))
			return
		}
		zap.L().Info("commission config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewCommissionHolderFromConfig builds a holder from an in-memory config.
// Used at startup and by tests that substitute alternate tier tables.
func NewCommissionHolderFromConfig(cfg CommissionConfig) (*CommissionConfigHolder, error) {
	holder := &CommissionConfigHolder{}
	if err := holder.store(cfg); err != nil {
		return nil, err
	}
	return holder, nil
}

func (h *CommissionConfigHolder) store(cfg CommissionConfig) error {
	if err := validateCommissionConfig(cfg); err != nil {
		return err
	}
	resolver, err := tier.NewResolver(tierTable(cfg.Tiers))
	if err != nil {
		return err
	}
	h.current.Store(commissionSnapshot{cfg: cfg, resolver: resolver})
	return nil
}

// Get returns the active commission settings.
func (h *CommissionConfigHolder) Get() CommissionConfig {
	return h.current.Load().(commissionSnapshot).cfg
}

// Resolver returns the tier resolver built from the active settings.
func (h *CommissionConfigHolder) Resolver() *tier.Resolver {
	return h.current.Load().(commissionSnapshot).resolver
}

func validateCommissionConfig(cfg CommissionConfig) error {
	if cfg.DistributorCategoryID <= 0 {
		return errors.New("commission.distributorCategoryId must be positive")
	}
	if cfg.CustomerCategoryID <= 0 {
		return errors.New("commission.customerCategoryId must be positive")
	}
	if cfg.TopDistributorsLimit <= 0 {
		return errors.New("commission.topDistributorsLimit must be positive")
	}
	if cfg.DefaultPerPage <= 0 {
		return errors.New("commission.defaultPerPage must be positive")
	}
	if cfg.MaxPerPage < cfg.DefaultPerPage {
		return errors.New("commission.maxPerPage must be >= defaultPerPage")
	}
	if len(cfg.Tiers) == 0 {
		return errors.New("commission.tiers cannot be empty")
	}
	return nil
}

func tierTable(rules []TierRule) []tier.Tier {
	out := make([]tier.Tier, 0, len(rules))
	for _, r := range rules {
		out = append(out, tier.Tier{Min: r.Min, Max: r.Max, Percentage: r.Percentage})
	}
	return out
}
