package server

import (
	"github.com/0xPolygonHermez/zkevm-node/config/types"
)

// Config struct
type Config struct {
	// Host is the interface to listen on, 127.0.0.1 when empty. Use 0.0.0.0 to expose the server.
	Host string `mapstructure:"Host"`
	// HTTPPort is TCP port to listen by the REST and SSE server
	HTTPPort string `mapstructure:"HTTPPort"`
	// AllowedOrigin is the only browser origin allowed to call the API, "*" allows any.
	// When empty no cross origin request is accepted.
	AllowedOrigin string `mapstructure:"AllowedOrigin"`
	// AuthToken, when set, is the bearer token required by the deposit, withdraw and refetch routes
	AuthToken string `mapstructure:"AuthToken"`
	// ReadTimeout is the maximum duration for reading an entire request
	ReadTimeout types.Duration `mapstructure:"ReadTimeout"`
	// HeartbeatInterval is the time between two keep alive comments on a state stream
	HeartbeatInterval types.Duration `mapstructure:"HeartbeatInterval"`
}
