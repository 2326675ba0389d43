package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/unidonate/unidonate-vault/config"
	"github.com/unidonate/unidonate-vault/etherman"
	"github.com/unidonate/unidonate-vault/messagepush"
	"github.com/unidonate/unidonate-vault/metrics"
	"github.com/unidonate/unidonate-vault/pushtask"
	"github.com/unidonate/unidonate-vault/server"
	"github.com/unidonate/unidonate-vault/synchronizer"
	"github.com/unidonate/unidonate-vault/txman"
	"github.com/unidonate/unidonate-vault/utils"
	"github.com/unidonate/unidonate-vault/vaulthook"
	"github.com/unidonate/unidonate-vault/yieldsource"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func start(cliCtx *cli.Context) error {
	configFilePath := cliCtx.String(flagCfg)
	network := cliCtx.String(flagNetwork)
	c, err := config.Load(configFilePath, network)
	if err != nil {
		return err
	}
	setupLog(c.Log)
	log.Infof("starting %s on %s (chain id %d)", appName, c.NetworkConfig.Name, c.NetworkConfig.ChainID)

	client, err := etherman.NewClient(c.Etherman)
	if err != nil {
		log.Error(err)
		return err
	}

	session, err := newSession(*c, client)
	if err != nil {
		log.Error(err)
		return err
	}

	// newHeads subscriptions need a websocket endpoint
	syncCfg := c.Synchronizer
	if isWebsocket(c.Etherman.URL) {
		syncCfg.UseSubscription = true
	}

	hook := vaulthook.New(c.Vault, session, client, client,
		txman.NewMonitorTxs(client, c.TxMonitor, nil),
		synchronizer.NewHeadWatcher(syncCfg, client),
		yieldsource.NewPlaceholder(c.Yield.PlaceholderAPY),
		vaulthook.WithVaultAddress(client.VaultAddress()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Metrics.Enabled {
		metrics.Init(prometheus.DefaultRegisterer, c.Metrics.Env)
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return metrics.StartMetricsHttpServer(gCtx, c.Metrics)
	})

	if err := hook.Start(gCtx); err != nil {
		log.Error(err)
		return err
	}
	defer func() {
		hook.Close()
		hook.Wait()
	}()

	if c.MessagePush.Enabled {
		producer, err := messagepush.NewKafkaProducer(c.MessagePush)
		if err != nil {
			log.Error(err)
			return err
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Warnf("closing kafka producer: %v", err)
			}
		}()
		pushHandler := pushtask.NewVaultPushHandler(hook, client.VaultAddress(), producer)
		g.Go(func() error {
			pushHandler.Start(gCtx)
			return nil
		})
	}

	srv := server.NewServer(c.Server, hook)
	g.Go(func() error {
		return srv.Run(gCtx)
	})

	err = g.Wait()
	if err != nil {
		log.Error(err)
	}
	log.Info("service stopped")
	return err
}

func setupLog(c log.Config) {
	log.Init(c)
}

func newSession(c config.Config, client *etherman.Client) (utils.Session, error) {
	if c.Wallet.Keystore.Path == "" {
		log.Warnf("no keystore configured, the session is read only")
		return utils.NewReadOnlySession(c.Wallet.Account), nil
	}
	session, err := utils.NewKeystoreSession(c.Wallet.Keystore, c.NetworkConfig.ChainID, client)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func isWebsocket(url string) bool {
	return strings.HasPrefix(url, "ws://") || strings.HasPrefix(url, "wss://")
}
