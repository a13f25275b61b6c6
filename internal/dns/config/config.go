package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from defaults, environment
// variables and command-line flags, in that order of precedence.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Address is the UDP ip:port the relay listens on.
	Address string `koanf:"address" validate:"required,ip_port"`

	// Resolver is the upstream resolver in ip:port format. When empty the
	// relay answers every question itself with the stub record.
	Resolver string `koanf:"resolver" validate:"omitempty,ip_port"`

	// UpstreamTimeout bounds each upstream read. Zero waits forever.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout" validate:"gte=0"`

	// StubAddress is the IPv4 address returned in stub mode.
	StubAddress string `koanf:"stub_address" validate:"required,ipv4"`

	// StubTTL is the TTL, in seconds, of stub answers.
	StubTTL uint32 `koanf:"stub_ttl"`
}

// Forwarding reports whether an upstream resolver is configured.
func (c *AppConfig) Forwarding() bool {
	return c.Resolver != ""
}

// DEFAULT_APP_CONFIG defines the default application configuration settings for the relay.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:             "prod",
	LogLevel:        "info",
	Address:         "127.0.0.1:2053",
	Resolver:        "",
	UpstreamTimeout: 0,
	StubAddress:     "8.8.8.8",
	StubTTL:         60,
}

// envPrefix is the prefix of every environment variable the relay reads.
const envPrefix = "RELAY_"

// validIPPort validates whether the provided field value is a valid IP address and port combination.
// It expects the value to be in the format "IP:Port". The function returns true if the IP address
// is valid and both the IP and port are non-empty; otherwise, it returns false.
func validIPPort(fl validator.FieldLevel) bool {
	// stringify the field value to get the IP:Port format.
	addr := fl.Field().String()
	// Split the address into IP and port.
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	// Check if the IP address is valid.
	if net.ParseIP(ip) == nil {
		return false
	}
	// Check if the port is a valid number between 1 and 65535.
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// envLoader loads environment variables with the prefix "RELAY_",
// lowercasing the keys and removing the prefix.
// It can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf instance
// using the structs provider and the DEFAULT_APP_CONFIG struct. It returns an error
// if loading fails.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// flagLoader parses command-line arguments and copies explicitly set flags
// over whatever defaults and environment produced.
var flagLoader = func(k *koanf.Koanf, args []string) error {
	fs := flag.NewFlagSet("rr-relayd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.String("resolver", "", "upstream DNS resolver in ip:port format; omit for stub answers")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if err := k.Set(f.Name, f.Value.String()); err != nil {
			setErr = errors.Join(setErr, err)
		}
	})
	return setErr
}

// registerValidation registers a custom validation function "ip_port" with the provided validator.
// It associates the "ip_port" tag with the validIPPort validation logic.
// Returns an error if registration fails.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("ip_port", validIPPort)
}

// Load builds an AppConfig from defaults, RELAY_* environment variables and
// args (typically os.Args[1:]), then validates it.
func Load(args []string) (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	err = flagLoader(k, args)
	if err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	var cfg AppConfig

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
