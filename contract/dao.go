package contract

import (
	"errors"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"mygov_dao/contract/dao"
	"mygov_dao/sdk"
)

// Observer is told about every finished call, metrics hook in here.
type Observer interface {
	ObserveCall(action string, err error, elapsed time.Duration)
}

// DAO is the governance engine. Each exported entry point is one atomic unit of work
// against the store; calls are serialized by a mutex and never run foreign code while
// holding it.
type DAO struct {
	mu       sync.Mutex
	store    sdk.Store
	log      *zap.Logger
	sink     sdk.EventSink
	observer Observer
}

// Option tweaks a DAO on construction.
type Option func(*DAO)

// WithLogger sets the logger used for call outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(d *DAO) {
		if l != nil {
			d.log = l
		}
	}
}

// WithSink routes committed events to s.
func WithSink(s sdk.EventSink) Option {
	return func(d *DAO) {
		if s != nil {
			d.sink = s
		}
	}
}

// WithObserver registers a call observer.
func WithObserver(o Observer) Option {
	return func(d *DAO) { d.observer = o }
}

// New wraps store. The contract still has to be initialized before anything but Initialize works.
func New(store sdk.Store, opts ...Option) *DAO {
	d := &DAO{
		store: store,
		log:   zap.NewNop(),
		sink:  sdk.NopSink{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Close releases the underlying store.
func (d *DAO) Close() error {
	return d.store.Close()
}

// exec runs fn as one committed call. Events are published and observers notified only
// after the store committed and the lock was released, so a sink may call back into the DAO.
func (d *DAO) exec(env sdk.Env, action string, requireInit bool, fn func(c *call) error) error {
	start := time.Now()
	var events []sdk.Event

	d.mu.Lock()
	err := d.store.Update(func(st sdk.State) error {
		sender, err := canonical(env.Sender)
		if err != nil {
			return err
		}
		env.Sender = sender
		c := &call{st: st, env: env, action: action}
		cfg, err := loadConfig(st)
		if err != nil {
			return err
		}
		if requireInit {
			if cfg == nil {
				return ErrNotInitialized
			}
			if sameAddress(sender, cfg.Treasury) {
				return ErrTreasuryCaller
			}
			c.cfg = cfg
		} else if cfg != nil {
			return ErrAlreadyInitialized
		}
		if err := fn(c); err != nil {
			return err
		}
		events = c.events
		return nil
	})
	d.mu.Unlock()

	err = normalizeErr(err)
	elapsed := time.Since(start)
	if err != nil {
		d.log.Info("call rejected",
			zap.String("action", action),
			zap.String("tx", env.TxID),
			zap.String("sender", env.Sender.String()),
			zap.String("code", CodeOf(err)),
			zap.String("kind", KindOf(err).String()),
			zap.Error(err),
		)
	} else {
		d.log.Debug("call committed",
			zap.String("action", action),
			zap.String("tx", env.TxID),
			zap.String("sender", env.Sender.String()),
			zap.Int("events", len(events)),
			zap.Duration("elapsed", elapsed),
		)
		for _, ev := range events {
			d.sink.Publish(ev)
		}
	}
	if d.observer != nil {
		d.observer.ObserveCall(action, err, elapsed)
	}
	return err
}

// view runs fn against a read-only snapshot of an initialized contract.
func (d *DAO) view(fn func(c *call) error) error {
	err := d.store.View(func(st sdk.State) error {
		cfg, err := loadConfig(st)
		if err != nil {
			return err
		}
		if cfg == nil {
			return ErrNotInitialized
		}
		return fn(&call{st: st, cfg: cfg, action: "view"})
	})
	return normalizeErr(err)
}

// normalizeErr turns storage failures into Internal errors so callers only ever see *Error.
func normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return internalError("store", err)
}

// canonical validates an address argument and returns its checksummed form.
func canonical(a sdk.Address) (sdk.Address, error) {
	if a == "" {
		return "", ErrZeroAddress
	}
	parsed, err := sdk.ParseAddress(a.String())
	if err != nil {
		return "", ErrInvalidAddress.withf("%q", a.String())
	}
	if parsed.IsZero() {
		return "", ErrZeroAddress
	}
	return parsed, nil
}

// sameAddress compares two addresses regardless of spelling.
func sameAddress(a, b sdk.Address) bool {
	return a.Common() == b.Common()
}

// -----------------------------------------------------------------------------
// Initialization
// -----------------------------------------------------------------------------

// InitArgs configure the one-off Initialize call. Amounts are base units.
type InitArgs struct {
	Treasury        sdk.Address
	InitialSupply   *uint256.Int
	ProjectFeeTL    *uint256.Int
	ProjectFeeMyGov *uint256.Int
	SurveyFeeTL     *uint256.Int
	SurveyFeeMyGov  *uint256.Int
	FaucetAmount    *uint256.Int
	OpenTLMint      bool
}

// DefaultInitArgs returns the stock MyGov parameters with a derived treasury.
func DefaultInitArgs() InitArgs {
	return InitArgs{
		InitialSupply:   dao.MyGov(DefaultInitialSupply),
		ProjectFeeTL:    dao.TL(DefaultProjectFeeTL),
		ProjectFeeMyGov: dao.MyGov(DefaultProjectFeeMyGov),
		SurveyFeeTL:     dao.TL(DefaultSurveyFeeTL),
		SurveyFeeMyGov:  dao.MyGov(DefaultSurveyFeeMyGov),
		FaucetAmount:    dao.MyGov(DefaultFaucetAmount),
	}
}

// fill replaces nil amounts with the defaults.
func (a InitArgs) fill() InitArgs {
	def := DefaultInitArgs()
	if a.InitialSupply == nil {
		a.InitialSupply = def.InitialSupply
	}
	if a.ProjectFeeTL == nil {
		a.ProjectFeeTL = def.ProjectFeeTL
	}
	if a.ProjectFeeMyGov == nil {
		a.ProjectFeeMyGov = def.ProjectFeeMyGov
	}
	if a.SurveyFeeTL == nil {
		a.SurveyFeeTL = def.SurveyFeeTL
	}
	if a.SurveyFeeMyGov == nil {
		a.SurveyFeeMyGov = def.SurveyFeeMyGov
	}
	if a.FaucetAmount == nil {
		a.FaucetAmount = def.FaucetAmount
	}
	return a
}

// Initialize stores the contract config and mints the initial MyGov supply to the deployer,
// who is the sender. It can only run once.
func (d *DAO) Initialize(env sdk.Env, args InitArgs) error {
	return d.exec(env, "init", false, func(c *call) error {
		args = args.fill()
		deployer := c.sender()
		treasury := args.Treasury
		if treasury == "" || treasury.IsZero() {
			treasury = sdk.ContractAddress(deployer, 0)
		}
		treasury, err := canonical(treasury)
		if err != nil {
			return err
		}
		if sameAddress(treasury, deployer) {
			return ErrInvalidConfig.withf("treasury must differ from deployer")
		}
		if args.FaucetAmount.IsZero() {
			return ErrInvalidConfig.withf("faucet amount must be positive")
		}
		c.cfg = &dao.ContractConfig{
			Deployer:        deployer,
			Treasury:        treasury,
			ProjectFeeTL:    args.ProjectFeeTL.Clone(),
			ProjectFeeMyGov: args.ProjectFeeMyGov.Clone(),
			SurveyFeeTL:     args.SurveyFeeTL.Clone(),
			SurveyFeeMyGov:  args.SurveyFeeMyGov.Clone(),
			FaucetAmount:    args.FaucetAmount.Clone(),
			OpenTLMint:      args.OpenTLMint,
			InitializedAt:   c.now(),
			Tx:              c.env.TxID,
		}
		saveConfig(c.st, c.cfg)
		c.setCount(ProjectsCount, 0)
		c.setCount(SurveysCount, 0)
		c.setCount(FundedCount, 0)
		c.setCount(MembersCount, 0)
		if !args.InitialSupply.IsZero() {
			if err := c.mint(sdk.AssetMyGov, deployer, args.InitialSupply); err != nil {
				return err
			}
		}
		c.emitInit(deployer, treasury, args.InitialSupply)
		return nil
	})
}

func loadConfig(st sdk.State) (*dao.ContractConfig, error) {
	ptr := st.Get(contractConfigKey())
	if ptr == nil {
		return nil, nil
	}
	cfg, err := dao.DecodeContractConfig([]byte(*ptr))
	if err != nil {
		return nil, internalError("decode contract config", err)
	}
	return cfg, nil
}

func saveConfig(st sdk.State, cfg *dao.ContractConfig) {
	st.Set(contractConfigKey(), string(dao.EncodeContractConfig(cfg)))
}

// Config returns the stored contract config.
func (d *DAO) Config() (*dao.ContractConfig, error) {
	var out *dao.ContractConfig
	err := d.view(func(c *call) error {
		out = c.cfg
		return nil
	})
	return out, err
}

// Treasury is the address holding fees, donations and reserved grants.
func (d *DAO) Treasury() (sdk.Address, error) {
	cfg, err := d.Config()
	if err != nil {
		return "", err
	}
	return cfg.Treasury, nil
}

// Initialized reports whether Initialize already ran.
func (d *DAO) Initialized() bool {
	_, err := d.Config()
	return err == nil
}

// -----------------------------------------------------------------------------
// Stats
// -----------------------------------------------------------------------------

// Stats is a point-in-time summary used by the metrics collector and /v1/stats.
type Stats struct {
	Members        uint64
	Projects       uint64
	FundedProjects uint64
	Surveys        uint64
	SupplyTL       *uint256.Int
	SupplyMyGov    *uint256.Int
	TreasuryTL     *uint256.Int
	ReservedTL     *uint256.Int
}

// Stats gathers the counters in one snapshot.
func (d *DAO) Stats() (Stats, error) {
	var s Stats
	err := d.view(func(c *call) error {
		var err error
		if s.Members, err = c.getCount(MembersCount); err != nil {
			return err
		}
		if s.Projects, err = c.getCount(ProjectsCount); err != nil {
			return err
		}
		if s.FundedProjects, err = c.getCount(FundedCount); err != nil {
			return err
		}
		if s.Surveys, err = c.getCount(SurveysCount); err != nil {
			return err
		}
		if s.SupplyTL, err = c.getAmount(supplyKey(sdk.AssetTL)); err != nil {
			return err
		}
		if s.SupplyMyGov, err = c.getAmount(supplyKey(sdk.AssetMyGov)); err != nil {
			return err
		}
		if s.TreasuryTL, err = c.balance(sdk.AssetTL, c.treasury()); err != nil {
			return err
		}
		s.ReservedTL, err = c.getAmount(reservedKey())
		return err
	})
	return s, err
}
