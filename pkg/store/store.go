package store

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/huanfeng/storesim/pkg/simulator"
	"github.com/huanfeng/storesim/pkg/utils"
)

// Client is the app store surface an application talks to. The live store
// client and the simulator both implement it.
type Client interface {
	AppID() uuid.UUID
	LinkURI() *url.URL
	CurrentMarket() string
	LicenseInformation() *models.LicenseInformation
	LoadListingInformation(ctx context.Context) (*models.ListingInformation, error)
	RequestAppPurchase(ctx context.Context, includeReceipt bool) (string, error)
	RequestProductPurchase(ctx context.Context, productID string, includeReceipt bool) (string, error)
	GetAppReceipt(ctx context.Context) (string, error)
	GetProductReceipt(ctx context.Context, productID string) (string, error)
}

var _ Client = (*simulator.Simulator)(nil)

// Mode selects which Client backs the façade
type Mode string

const (
	ModeSimulator Mode = "simulator"
	ModeLive      Mode = "live"
)

// ParseMode parses a configured mode name. An empty name selects the simulator.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeSimulator:
		return ModeSimulator, nil
	case ModeLive:
		return ModeLive, nil
	default:
		return "", errors.NewInvalidModeError(name, "unknown mode")
	}
}

type options struct {
	live   Client
	logger utils.Logger
	locale *simulator.Locale
}

// Option configures Open
type Option func(*options)

// WithLiveClient supplies the client used in live mode
func WithLiveClient(client Client) Option {
	return func(o *options) {
		o.live = client
	}
}

// WithLogger sets the logger handed to the simulator
func WithLogger(logger utils.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLocale sets the host culture used by the simulator
func WithLocale(loc simulator.Locale) Option {
	return func(o *options) {
		o.locale = &loc
	}
}

// Open returns the Client selected by cfg.Mode
func Open(cfg models.StoreConfig, opts ...Option) (Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeLive:
		if o.live == nil {
			return nil, errors.NewInvalidModeError(cfg.Mode, "no live store client is available")
		}
		return o.live, nil
	default:
		return OpenSimulator(cfg, opts...)
	}
}

// OpenSimulator builds a simulator from cfg. The manifest, when set, provides
// the default state; the simulator document, when set, replaces it.
func OpenSimulator(cfg models.StoreConfig, opts ...Option) (*simulator.Simulator, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.Manifest == "" && cfg.SimulatorConfig == "" {
		return nil, errors.NewInvalidModeError(string(ModeSimulator),
			"neither store.manifest nor store.simulator_config is set")
	}

	simOpts := []simulator.Option{simulator.WithStoreLinkFormat(cfg.LinkFormat)}
	if o.logger != nil {
		simOpts = append(simOpts, simulator.WithLogger(o.logger))
	}
	if o.locale != nil {
		simOpts = append(simOpts, simulator.WithLocale(*o.locale))
	}
	sim := simulator.New(simOpts...)

	if cfg.Manifest != "" {
		if err := sim.InitializeDefault(simulator.ManifestSourceFor(cfg.Manifest)); err != nil {
			return nil, err
		}
	}

	if cfg.SimulatorConfig != "" {
		if err := sim.ReloadFile(cfg.SimulatorConfig); err != nil {
			return nil, err
		}
	}

	return sim, nil
}
