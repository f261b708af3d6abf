package config

import (
	"fmt"
	"time"
)

const (
	// LogFormatPlain is a format for colored text.
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output.
	LogFormatJSON = "json"

	// DefaultConfigFileName is the name of the config file inside the home
	// directory.
	DefaultConfigFileName = "config.toml"
)

// Duration wraps time.Duration so TOML files can carry values like "10s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config defines the top level configuration for a mojave-rpc node.
type Config struct {
	// Output format: 'plain' (colored text) or 'json'.
	LogFormat string `toml:"log_format"`

	// When true, Debug level log lines are emitted.
	LogDebug bool `toml:"log_debug"`

	// Chain id reported by moj_chainId.
	ChainID uint64 `toml:"chain_id"`

	RPC             *RPCConfig             `toml:"rpc"`
	Instrumentation *InstrumentationConfig `toml:"instrumentation"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogFormat:       LogFormatPlain,
		LogDebug:        false,
		ChainID:         1,
		RPC:             DefaultRPCConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if cfg.LogFormat != LogFormatPlain && cfg.LogFormat != LogFormatJSON {
		return ErrUnknownLogFormat
	}
	if err := cfg.RPC.ValidateBasic(); err != nil {
		return ErrInSection{Section: "rpc", Err: err}
	}
	return nil
}

// -----------------------------------------------------------------------------
// RPCConfig

// RPCConfig defines the configuration for the JSON-RPC server.
type RPCConfig struct {
	// TCP or UNIX socket address for the server to listen on.
	ListenAddress string `toml:"laddr"`

	// Address of the upstream execution-layer node that namespace fallbacks
	// forward to. Empty disables forwarding.
	Upstream string `toml:"upstream"`

	// Namespaces resolved through the upstream when no exact handler is
	// registered (e.g. eth, net, web3).
	ForwardNamespaces []string `toml:"forward_namespaces"`

	// A list of origins a cross-domain request can be executed from.
	// An empty list means CORS is disabled; '*' allows any origin.
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`

	// Maximum number of simultaneous connections (0 means unlimited).
	MaxOpenConnections int `toml:"max_open_connections"`

	// Maximum size of a request body, in bytes.
	MaxBodyBytes int64 `toml:"max_body_bytes"`

	// Maximum number of requests in a batch request (0 means no limit).
	MaxRequestBatchSize int `toml:"max_request_batch_size"`

	// HTTP read and write timeouts.
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`

	// Bound on a single handler invocation; on expiry the item is answered
	// with an internal error (0 means no bound).
	HandlerTimeout Duration `toml:"handler_timeout"`

	// Path to the TLS certificate and key files. When both are set the
	// server is served over TLS.
	TLSCertFile string `toml:"tls_cert_file"`
	TLSKeyFile  string `toml:"tls_key_file"`
}

// DefaultRPCConfig returns a default configuration for the JSON-RPC server.
func DefaultRPCConfig() *RPCConfig {
	return &RPCConfig{
		ListenAddress:       "tcp://127.0.0.1:8545",
		Upstream:            "",
		ForwardNamespaces:   []string{"eth", "net", "web3", "txpool", "debug"},
		CORSAllowedOrigins:  []string{},
		MaxOpenConnections:  0, // unlimited
		MaxBodyBytes:        1000000,
		MaxRequestBatchSize: 10,
		ReadTimeout:         Duration(10 * time.Second),
		WriteTimeout:        Duration(10 * time.Second),
		HandlerTimeout:      Duration(10 * time.Second),
	}
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *RPCConfig) ValidateBasic() error {
	if cfg.ListenAddress == "" {
		return ErrEmptyListenAddress
	}
	if cfg.MaxOpenConnections < 0 {
		return fmt.Errorf("max_open_connections can't be negative")
	}
	if cfg.MaxBodyBytes < 1 {
		return fmt.Errorf("max_body_bytes can't be less than 1")
	}
	if cfg.MaxRequestBatchSize < 0 {
		return fmt.Errorf("max_request_batch_size can't be negative")
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.HandlerTimeout < 0 {
		return fmt.Errorf("timeouts can't be negative")
	}
	return nil
}

// IsCorsEnabled returns true if cross-origin resource sharing is enabled.
func (cfg *RPCConfig) IsCorsEnabled() bool {
	return len(cfg.CORSAllowedOrigins) != 0
}

// IsTLSEnabled returns true if both a certificate and a key file are set.
func (cfg *RPCConfig) IsTLSEnabled() bool {
	return cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
}

// IsUpstreamEnabled returns true if an upstream node is configured.
func (cfg *RPCConfig) IsUpstreamEnabled() bool {
	return cfg.Upstream != ""
}

// -----------------------------------------------------------------------------
// InstrumentationConfig

// InstrumentationConfig defines the configuration for metrics reporting.
type InstrumentationConfig struct {
	// When true, Prometheus metrics are served under /metrics on
	// PrometheusListenAddr.
	Prometheus bool `toml:"prometheus"`

	// Address to listen for Prometheus collector(s) connections.
	PrometheusListenAddr string `toml:"prometheus_listen_addr"`

	// Instrumentation namespace.
	Namespace string `toml:"namespace"`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus:           false,
		PrometheusListenAddr: ":26660",
		Namespace:            "mojave",
	}
}
