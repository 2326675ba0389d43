package etherman

import "github.com/ethereum/go-ethereum/common"

// Config represents the configuration of the etherman
type Config struct {
	// URL is the JSON-RPC endpoint of the node, http(s) or ws(s)
	URL string `mapstructure:"URL"`
	// VaultAddress is the UniDonate vault contract
	VaultAddress common.Address `mapstructure:"VaultAddress"`
	// TokenAddress is the vault asset token. If it's not set, it's read from the vault
	TokenAddress common.Address `mapstructure:"TokenAddress"`
}
