package config

import (
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

const sampleTOML = `
verbose = true
first-names = ["Anna", "Erik"]
last-names = ["Andersson"]

[server]
listen = ":8080"

[orders]
ttl = "30s"
sweep_interval = "2s"

[admin]
allow = ["127.0.0.1", "10.0.0.0/8"]

[[aliases]]
ip = "10.0.0.5"
name = "office"

[[aliases]]
ip = "192.168.1.20"
name = "lab"

[[quick-users]]
label = "Test user"
ssn = "199001011234"
name = "Test Testsson"
`

func loadTOML(t *testing.T, src string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(src)); err != nil {
		t.Fatalf("reading config: %v", err)
	}
	return LoadFrom(v)
}

func TestLoadFrom(t *testing.T) {
	cfg, err := loadTOML(t, sampleTOML)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Server.Listen)
	}
	if cfg.Orders.TTL != 30*time.Second || cfg.Orders.SweepInterval != 2*time.Second {
		t.Errorf("Orders = %+v", cfg.Orders)
	}
	if len(cfg.Admin.Allow) != 2 {
		t.Errorf("Admin.Allow = %v", cfg.Admin.Allow)
	}
	if cfg.Journal.Path != ":memory:" {
		t.Errorf("Journal.Path = %q, want :memory:", cfg.Journal.Path)
	}

	if len(cfg.Mock.Aliases) != 2 {
		t.Fatalf("got %d aliases, want 2", len(cfg.Mock.Aliases))
	}
	if cfg.Mock.Aliases[0].Name != "office" || cfg.Mock.Aliases[0].Addr != netip.MustParseAddr("10.0.0.5") {
		t.Errorf("aliases[0] = %+v", cfg.Mock.Aliases[0])
	}
	if len(cfg.Mock.QuickUsers) != 1 || cfg.Mock.QuickUsers[0].SSN != "199001011234" {
		t.Errorf("QuickUsers = %+v", cfg.Mock.QuickUsers)
	}
	if len(cfg.Mock.FirstNames) != 2 || len(cfg.Mock.LastNames) != 1 {
		t.Errorf("name pools = %v / %v", cfg.Mock.FirstNames, cfg.Mock.LastNames)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Server.Listen != ":3000" {
		t.Errorf("Listen = %q, want :3000", cfg.Server.Listen)
	}
	if cfg.Orders.TTL != 50*time.Second {
		t.Errorf("TTL = %s, want 50s", cfg.Orders.TTL)
	}
	if cfg.Orders.SweepInterval != 10*time.Second {
		t.Errorf("SweepInterval = %s, want 10s", cfg.Orders.SweepInterval)
	}
	if len(cfg.Mock.Aliases) != 0 || len(cfg.Mock.QuickUsers) != 0 {
		t.Errorf("expected empty mock data, got %+v", cfg.Mock)
	}
}

func TestLoadFrom_InvalidAliasIP(t *testing.T) {
	_, err := loadTOML(t, `
[[aliases]]
ip = "not-an-ip"
name = "broken"
`)
	if err == nil {
		t.Fatal("expected error for invalid alias ip")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q should name the alias", err)
	}
}

func TestMockDataLookups(t *testing.T) {
	cfg, err := loadTOML(t, sampleTOML)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	m := cfg.Mock

	if name, ok := m.AliasFor(netip.MustParseAddr("192.168.1.20")); !ok || name != "lab" {
		t.Errorf("AliasFor(192.168.1.20) = %q, %v", name, ok)
	}
	if _, ok := m.AliasFor(netip.MustParseAddr("10.9.9.9")); ok {
		t.Error("AliasFor(unknown) should miss")
	}
	if addr, ok := m.AliasAddr("office"); !ok || addr != netip.MustParseAddr("10.0.0.5") {
		t.Errorf("AliasAddr(office) = %s, %v", addr, ok)
	}
	if q, ok := m.QuickUser("Test user"); !ok || q.Name != "Test Testsson" {
		t.Errorf("QuickUser(Test user) = %+v, %v", q, ok)
	}
	if _, ok := m.QuickUser("nobody"); ok {
		t.Error("QuickUser(nobody) should miss")
	}
}
