package config

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/spf13/viper"
)

// DefaultListen is the HTTP address used when none is configured.
const DefaultListen = ":3000"

// Config holds all application configuration.
type Config struct {
	Verbose bool
	Server  ServerConfig
	Orders  OrdersConfig
	Journal JournalConfig
	Admin   AdminConfig
	Mock    MockData
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Listen string
}

// OrdersConfig holds order lifecycle settings.
type OrdersConfig struct {
	TTL           time.Duration // pending orders older than this expire
	SweepInterval time.Duration
}

// JournalConfig holds event journal settings.
type JournalConfig struct {
	Path string // sqlite DSN
}

// AdminConfig restricts the operator API.
type AdminConfig struct {
	Allow []string // IPs or CIDRs; empty allows everyone
}

// MockData is the operator-facing data set. It is read once and never mutated.
type MockData struct {
	Aliases    []Alias     `mapstructure:"aliases"`
	QuickUsers []QuickUser `mapstructure:"quick-users"`
	FirstNames []string    `mapstructure:"first-names"`
	LastNames  []string    `mapstructure:"last-names"`
}

// Alias is a friendly name for an origin address.
type Alias struct {
	IP   string     `mapstructure:"ip"`
	Name string     `mapstructure:"name"`
	Addr netip.Addr `mapstructure:"-"`
}

// QuickUser is a one-click completion preset.
type QuickUser struct {
	Label string `mapstructure:"label" json:"label"`
	SSN   string `mapstructure:"ssn" json:"ssn"`
	Name  string `mapstructure:"name" json:"name"`
}

// Load reads configuration from Viper and returns a Config struct.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Verbose: v.GetBool("verbose"),
		Server: ServerConfig{
			Listen: v.GetString("server.listen"),
		},
		Orders: OrdersConfig{
			TTL:           v.GetDuration("orders.ttl"),
			SweepInterval: v.GetDuration("orders.sweep_interval"),
		},
		Journal: JournalConfig{
			Path: v.GetString("journal.path"),
		},
		Admin: AdminConfig{
			Allow: v.GetStringSlice("admin.allow"),
		},
	}

	for key, dst := range map[string]any{
		"aliases":     &cfg.Mock.Aliases,
		"quick-users": &cfg.Mock.QuickUsers,
		"first-names": &cfg.Mock.FirstNames,
		"last-names":  &cfg.Mock.LastNames,
	} {
		if err := v.UnmarshalKey(key, dst); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
	}

	for i, a := range cfg.Mock.Aliases {
		addr, err := netip.ParseAddr(a.IP)
		if err != nil {
			return nil, fmt.Errorf("alias %q: invalid ip %q: %w", a.Name, a.IP, err)
		}
		cfg.Mock.Aliases[i].Addr = addr.Unmap()
	}

	// Apply defaults
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
	}
	if cfg.Orders.TTL <= 0 {
		cfg.Orders.TTL = 50 * time.Second
	}
	if cfg.Orders.SweepInterval <= 0 {
		cfg.Orders.SweepInterval = 10 * time.Second
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = ":memory:"
	}

	return cfg, nil
}

// AliasFor returns the alias name configured for addr, if any.
func (m MockData) AliasFor(addr netip.Addr) (string, bool) {
	for _, a := range m.Aliases {
		if a.Addr == addr {
			return a.Name, true
		}
	}
	return "", false
}

// AliasAddr resolves an alias name to its address.
func (m MockData) AliasAddr(name string) (netip.Addr, bool) {
	for _, a := range m.Aliases {
		if a.Name == name {
			return a.Addr, true
		}
	}
	return netip.Addr{}, false
}

// QuickUser looks up a preset by label.
func (m MockData) QuickUser(label string) (QuickUser, bool) {
	for _, q := range m.QuickUsers {
		if q.Label == label {
			return q, true
		}
	}
	return QuickUser{}, false
}
