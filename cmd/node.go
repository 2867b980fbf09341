package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"mygov_dao/contract"
	"mygov_dao/contract/dao"
	"mygov_dao/internal/config"
	"mygov_dao/internal/logging"
	"mygov_dao/internal/metrics"
	"mygov_dao/sdk"
)

// node is one opened engine with everything wired around it.
type node struct {
	cfg      config.Config
	log      *zap.Logger
	dao      *contract.DAO
	registry *prometheus.Registry
	journal  *sdk.JournalSink
	closers  []io.Closer
}

func openNode(cfg config.Config, console io.Writer) (*node, error) {
	log, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Console:    console,
	})
	if err != nil {
		return nil, err
	}
	n := &node{cfg: cfg, log: log}
	// nothing else owns the logger yet, so failures below flush it themselves
	fail := func(err error) (*node, error) {
		log.Error("open node", zap.Error(err))
		_ = log.Sync()
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return fail(err)
	}

	sinks := sdk.MultiSink{sdk.ZapSink{Logger: log.Named("events")}}
	if cfg.EventsFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.EventsFile), 0o700); err != nil {
			_ = store.Close()
			return fail(fmt.Errorf("create events dir: %w", err))
		}
		w := &lumberjack.Logger{
			Filename:   cfg.EventsFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
		}
		n.journal = sdk.NewJournalSink(w)
		n.closers = append(n.closers, w)
		sinks = append(sinks, n.journal)
	}

	opts := []contract.Option{contract.WithLogger(log.Named("contract")), contract.WithSink(sinks)}
	if cfg.MetricsEnabled {
		n.registry = prometheus.NewRegistry()
		n.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, contract.WithObserver(metrics.NewCalls(n.registry)))
	}
	n.dao = contract.New(store, opts...)
	if n.registry != nil {
		n.registry.MustRegister(metrics.NewStatsCollector(n.dao, log.Named("metrics")))
	}
	return n, nil
}

func openStore(cfg config.Config) (sdk.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		return sdk.NewMemoryStore(), nil
	case "file":
		if err := os.MkdirAll(cfg.StoreDir, 0o700); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		return sdk.NewFileStore(filepath.Join(cfg.StoreDir, "state.json"))
	default:
		return sdk.OpenBadgerStore(cfg.StoreDir, cfg.StoreInMemory)
	}
}

func (n *node) Close() error {
	errs := []error{n.dao.Close()}
	if n.journal != nil {
		errs = append(errs, n.journal.Err())
	}
	for _, c := range n.closers {
		errs = append(errs, c.Close())
	}
	_ = n.log.Sync()
	return errors.Join(errs...)
}

// sender resolves --from, falling back to the configured deployer.
func (n *node) sender(from string) (sdk.Address, error) {
	if from == "" {
		from = n.cfg.Deployer
	}
	if from == "" {
		return "", errors.New("no sender: pass --from or set contract.deployer")
	}
	addr, err := sdk.ParseAddress(from)
	if err != nil {
		return "", fmt.Errorf("sender %q: %w", from, err)
	}
	return addr, nil
}

// initArgs turns the whole-token config values into base units.
func initArgs(cfg config.Config) (contract.InitArgs, error) {
	args := contract.InitArgs{
		InitialSupply:   dao.MyGov(cfg.InitialSupply),
		ProjectFeeTL:    dao.TL(cfg.ProjectFeeTL),
		ProjectFeeMyGov: dao.MyGov(cfg.ProjectFeeMyGov),
		SurveyFeeTL:     dao.TL(cfg.SurveyFeeTL),
		SurveyFeeMyGov:  dao.MyGov(cfg.SurveyFeeMyGov),
		FaucetAmount:    dao.MyGov(cfg.FaucetAmount),
		OpenTLMint:      cfg.OpenTLMint,
	}
	if cfg.Treasury != "" {
		t, err := sdk.ParseAddress(cfg.Treasury)
		if err != nil {
			return args, fmt.Errorf("contract.treasury: %w", err)
		}
		args.Treasury = t
	}
	return args, nil
}

// initialize runs Initialize as from at the current time.
func (n *node) initialize(from string) (sdk.Address, error) {
	deployer, err := n.sender(from)
	if err != nil {
		return "", err
	}
	args, err := initArgs(n.cfg)
	if err != nil {
		return "", err
	}
	if err := n.dao.Initialize(sdk.NewEnv(deployer, time.Now().Unix()), args); err != nil {
		return "", err
	}
	return n.dao.Treasury()
}
