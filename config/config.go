package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	zkevmtypes "github.com/0xPolygonHermez/zkevm-node/config/types"
	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/unidonate/unidonate-vault/etherman"
	"github.com/unidonate/unidonate-vault/messagepush"
	"github.com/unidonate/unidonate-vault/metrics"
	"github.com/unidonate/unidonate-vault/server"
	"github.com/unidonate/unidonate-vault/synchronizer"
	"github.com/unidonate/unidonate-vault/txman"
	"github.com/unidonate/unidonate-vault/vaulthook"
	"github.com/unidonate/unidonate-vault/yieldsource"
)

const (
	envPrefix  = "UNIDONATE"
	dotEnvFile = ".env"
)

// Config struct
type Config struct {
	Log          log.Config
	Etherman     etherman.Config
	Wallet       WalletConfig
	TxMonitor    txman.Config
	Synchronizer synchronizer.Config
	Vault        vaulthook.Config
	Yield        yieldsource.Config
	Server       server.Config
	Metrics      metrics.Config
	MessagePush  messagepush.Config
	NetworkConfig
}

// WalletConfig selects the account of the session
type WalletConfig struct {
	// Keystore is used to sign txs. Without it the session is view only.
	Keystore zkevmtypes.KeystoreFileConfig `mapstructure:"Keystore"`
	// Account is the address watched by a view only session
	Account common.Address `mapstructure:"Account"`
}

// addressEnvs are the variables that override the contract addresses. The NEXT_PUBLIC ones
// are the names used by the web frontend .env files.
var addressEnvs = map[string][]string{
	"Etherman.VaultAddress": {envPrefix + "_VAULT_ADDRESS", "NEXT_PUBLIC_VAULT_ADDRESS"},
	"Etherman.TokenAddress": {envPrefix + "_TOKEN_ADDRESS", "NEXT_PUBLIC_TOKEN_ADDRESS"},
}

// Load loads the configuration
func Load(configFilePath string, network string) (*Config, error) {
	var cfg Config
	v := viper.New()
	v.SetConfigType("toml")

	err := v.ReadConfig(bytes.NewBuffer([]byte(DefaultValues)))
	if err != nil {
		return nil, err
	}
	err = v.Unmarshal(&cfg, decodeHooks())
	if err != nil {
		return nil, err
	}

	dotEnvPaths := []string{dotEnvFile}
	if configFilePath != "" {
		dirName, fileName := filepath.Split(configFilePath)

		fileExtension := strings.TrimPrefix(filepath.Ext(fileName), ".")
		fileNameWithoutExtension := strings.TrimSuffix(fileName, "."+fileExtension)

		v.AddConfigPath(dirName)
		v.SetConfigName(fileNameWithoutExtension)
		v.SetConfigType(fileExtension)
		if dirName != "" {
			dotEnvPaths = append(dotEnvPaths, filepath.Join(dirName, dotEnvFile))
		}
	}
	if err := loadDotEnv(dotEnvPaths...); err != nil {
		return nil, err
	}

	v.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.SetEnvPrefix(envPrefix)
	for key, envs := range addressEnvs {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}
	if configFilePath != "" {
		err = v.ReadInConfig()
		if err != nil {
			_, ok := err.(viper.ConfigFileNotFoundError)
			if ok {
				log.Infof("config file not found")
			} else {
				log.Infof("error reading config file: %v", err)
				return nil, err
			}
		}
	}

	err = v.Unmarshal(&cfg, decodeHooks())
	if err != nil {
		return nil, err
	}

	networkInFile := configFilePath != "" && v.IsSet("NetworkConfig")
	if networkInFile && network != "" {
		return nil, errors.New("Network details are provided in the config file (the [NetworkConfig] section) and as a flag (the --network or -n). Configure it only once and try again please.")
	}
	if !networkInFile && network == "" {
		return nil, errors.New("Network details are not provided. Please configure the [NetworkConfig] section in your config file, or provide a --network flag.")
	}
	if !networkInFile {
		if err := cfg.loadNetworkConfig(network); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func decodeHooks() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// loadDotEnv exports the variables of the existing files. Variables already in the
// environment are not overwritten.
func loadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "loading %s", path)
		}
		log.Debugf("environment loaded from %s", path)
	}
	return nil
}
