// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// PositionType tells how a pool's leases are collateralized: Long pools
// lend LPN against a bought asset, Short pools lend the asset itself.
type PositionType string

const (
	Long  PositionType = "Long"
	Short PositionType = "Short"
)

func ParsePositionType(s string) (PositionType, error) {
	switch s {
	case string(Long):
		return Long, nil
	case string(Short):
		return Short, nil
	}
	return "", fmt.Errorf("unknown position type %q", s)
}

// Currency is one entry of SUPPORTED_CURRENCIES: the oracle ticker, the
// number of on-chain decimals and the bank denom (IBC hash, uppercased).
type Currency struct {
	Ticker    string
	Decimals  int32
	BankDenom string
}

// Pool is one entry of LP_POOLS.
type Pool struct {
	PoolID       string
	Currency     string
	PositionType PositionType
	Active       bool
}

// Config carries every environment-derived setting. It is immutable after
// Load returns.
type Config struct {
	Host                    string
	WebSocketHost           string
	GRPCHost                string
	DatabaseURL             string
	SyncThreads             int
	AggregationInterval     time.Duration
	MPAssetInterval         time.Duration
	CacheStateInterval      time.Duration
	MaxTasks                int
	AdminContract           string
	TreasuryContract        string
	IgnoreProtocols         []string
	InitialProtocol         string
	SocketReconnectInterval time.Duration
	EventsSubscribe         []string
	EnableSync              bool
	TasksInterval           time.Duration
	GRPCConnections         int
	GRPCPermits             int
	NativeCurrency          string

	SupportedCurrencies []Currency
	Pools               []Pool

	// Derived lookup maps, keyed by ticker and pool id respectively.
	Currencies     map[string]Currency
	PoolCurrencies map[string]Currency
	PoolsByID      map[string]Pool

	// Database pool knobs.
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxIdleTime  time.Duration
	DBAcquireTimeout   time.Duration
	DBStatementTimeout time.Duration

	// Optional Prometheus listen address; empty disables the endpoint.
	MetricsListen string
}

// Load reads .env and etl.conf from the working directory (when present),
// then assembles the configuration from the environment. WEBSOCKET_HOST may
// reference the plain host as $0.
func Load() (*Config, error) {
	for _, f := range []string{".env", "etl.conf"} {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Overload(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	c := &Config{
		Host:                    v.GetString("HOST"),
		GRPCHost:                v.GetString("GRPC_HOST"),
		DatabaseURL:             v.GetString("DATABASE_URL"),
		SyncThreads:             v.GetInt("SYNC_THREADS"),
		AggregationInterval:     time.Duration(v.GetInt("AGGREGATION_INTERVAL")) * time.Hour,
		MPAssetInterval:         time.Duration(v.GetInt("MP_ASSET_INTERVAL")) * time.Minute,
		CacheStateInterval:      time.Duration(v.GetInt("CACHE_STATE_INTERVAL")) * time.Minute,
		MaxTasks:                v.GetInt("MAX_TASKS"),
		AdminContract:           v.GetString("ADMIN_CONTRACT"),
		TreasuryContract:        v.GetString("TREASURY_CONTRACT"),
		InitialProtocol:         v.GetString("INITIAL_PROTOCOL"),
		SocketReconnectInterval: time.Duration(v.GetInt("SOCKET_RECONNECT_INTERVAL")) * time.Second,
		EnableSync:              v.GetBool("ENABLE_SYNC"),
		TasksInterval:           time.Duration(v.GetInt("TASKS_INTERVAL")) * time.Millisecond,
		GRPCConnections:         v.GetInt("GRPC_CONNECTIONS"),
		GRPCPermits:             v.GetInt("GRPC_PERMITS"),
		NativeCurrency:          v.GetString("NATIVE_CURRENCY"),
		DBMaxOpenConns:          intOr(v, "DB_MAX_OPEN_CONNS", 16),
		DBMaxIdleConns:          intOr(v, "DB_MAX_IDLE_CONNS", 4),
		DBConnMaxIdleTime:       time.Duration(intOr(v, "DB_IDLE_TIMEOUT", 300)) * time.Second,
		DBAcquireTimeout:        time.Duration(intOr(v, "DB_ACQUIRE_TIMEOUT", 10)) * time.Second,
		DBStatementTimeout:      time.Duration(intOr(v, "DB_STATEMENT_TIMEOUT", 30)) * time.Second,
		MetricsListen:           v.GetString("METRICS_LISTEN"),
	}

	c.WebSocketHost = strings.ReplaceAll(v.GetString("WEBSOCKET_HOST"), "$0", c.Host)
	c.IgnoreProtocols = splitList(v.GetString("IGNORE_PROTOCOLS"))
	c.EventsSubscribe = splitList(v.GetString("EVENTS_SUBSCRIBE"))

	var err error
	if c.SupportedCurrencies, err = parseCurrencies(v.GetString("SUPPORTED_CURRENCIES")); err != nil {
		return nil, err
	}
	if c.Pools, err = parsePools(v.GetString("LP_POOLS")); err != nil {
		return nil, err
	}
	c.buildLookups()

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) buildLookups() {
	c.Currencies = make(map[string]Currency, len(c.SupportedCurrencies))
	for _, cur := range c.SupportedCurrencies {
		c.Currencies[cur.Ticker] = cur
	}

	c.PoolCurrencies = make(map[string]Currency, len(c.Pools))
	c.PoolsByID = make(map[string]Pool, len(c.Pools))
	for _, p := range c.Pools {
		if cur, ok := c.Currencies[p.Currency]; ok {
			c.PoolCurrencies[p.PoolID] = cur
		}
		c.PoolsByID[p.PoolID] = p
	}
}

func (c *Config) validate() error {
	switch {
	case c.WebSocketHost == "":
		return fmt.Errorf("WEBSOCKET_HOST is required")
	case c.GRPCHost == "":
		return fmt.Errorf("GRPC_HOST is required")
	case c.DatabaseURL == "":
		return fmt.Errorf("DATABASE_URL is required")
	case c.SyncThreads < 1:
		return fmt.Errorf("SYNC_THREADS must be at least 1")
	case c.GRPCConnections < 1:
		return fmt.Errorf("GRPC_CONNECTIONS must be at least 1")
	case c.GRPCPermits < 1:
		return fmt.Errorf("GRPC_PERMITS must be at least 1")
	case c.MaxTasks < 1:
		return fmt.Errorf("MAX_TASKS must be at least 1")
	}
	return nil
}

func parseCurrencies(raw string) ([]Currency, error) {
	tuples, err := ParseTuples(raw)
	if err != nil {
		return nil, fmt.Errorf("SUPPORTED_CURRENCIES: %w", err)
	}
	out := make([]Currency, 0, len(tuples))
	for _, t := range tuples {
		if len(t) != 3 {
			return nil, fmt.Errorf("SUPPORTED_CURRENCIES: want 3 fields, got %d in %v", len(t), t)
		}
		dec, err := cast.ToInt32E(t[1])
		if err != nil {
			return nil, fmt.Errorf("SUPPORTED_CURRENCIES: decimals of %s: %w", t[0], err)
		}
		out = append(out, Currency{
			Ticker:    t[0],
			Decimals:  dec,
			BankDenom: strings.ToUpper(t[2]),
		})
	}
	return out, nil
}

func parsePools(raw string) ([]Pool, error) {
	tuples, err := ParseTuples(raw)
	if err != nil {
		return nil, fmt.Errorf("LP_POOLS: %w", err)
	}
	out := make([]Pool, 0, len(tuples))
	for _, t := range tuples {
		if len(t) != 4 {
			return nil, fmt.Errorf("LP_POOLS: want 4 fields, got %d in %v", len(t), t)
		}
		pt, err := ParsePositionType(t[2])
		if err != nil {
			return nil, fmt.Errorf("LP_POOLS: %w", err)
		}
		active, err := cast.ToBoolE(t[3])
		if err != nil {
			return nil, fmt.Errorf("LP_POOLS: status of %s: %w", t[0], err)
		}
		out = append(out, Pool{
			PoolID:       t[0],
			Currency:     t[1],
			PositionType: pt,
			Active:       active,
		})
	}
	return out, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intOr(v *viper.Viper, key string, def int) int {
	if raw, ok := os.LookupEnv(key); !ok || raw == "" {
		return def
	}
	return v.GetInt(key)
}
