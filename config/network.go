package config

import (
	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/pkg/errors"
)

//NetworkConfig is the configuration struct for the different environments
type NetworkConfig struct {
	// Name of the network, informative
	Name string
	// ChainID the node must report before signing txs
	ChainID uint64
}

const (
	mainnet = "mainnet"
	sepolia = "sepolia"
	local   = "local"
)

//nolint:gomnd
var (
	mainnetConfig = NetworkConfig{
		Name:    mainnet,
		ChainID: 1,
	}
	sepoliaConfig = NetworkConfig{
		Name:    sepolia,
		ChainID: 11155111,
	}
	localConfig = NetworkConfig{
		Name:    local,
		ChainID: 1337,
	}
)

func (cfg *Config) loadNetworkConfig(network string) error {
	switch network {
	case mainnet:
		log.Debug("Mainnet network selected")
		cfg.NetworkConfig = mainnetConfig
	case sepolia:
		log.Debug("Sepolia network selected")
		cfg.NetworkConfig = sepoliaConfig
	case local:
		log.Debug("Local network selected")
		cfg.NetworkConfig = localConfig
	default:
		return errors.Errorf("unknown network %q, valid values are %s, %s and %s", network, mainnet, sepolia, local)
	}
	return nil
}
