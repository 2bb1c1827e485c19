package simulator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/huanfeng/storesim/pkg/utils"
	"github.com/shopspring/decimal"
)

// DefaultStoreLinkFormat builds the store link for an app id when the
// simulator is initialized from a manifest
const DefaultStoreLinkFormat = "https://store.windows.com/en-US/%s"

// Simulator serves simulated store queries from the current snapshot.
// Reads are lock-free; every reload installs a complete new snapshot.
type Simulator struct {
	current    atomic.Pointer[Snapshot]
	locale     Locale
	logger     utils.Logger
	linkFormat string
	now        func() time.Time
}

// Option configures a Simulator
type Option func(*Simulator)

// WithLocale sets the host culture and region
func WithLocale(loc Locale) Option {
	return func(s *Simulator) {
		s.locale = loc.withDefaults()
	}
}

// WithLogger sets the logger
func WithLogger(logger utils.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreLinkFormat sets the fmt pattern used to build the store link from
// the app id in InitializeDefault
func WithStoreLinkFormat(format string) Option {
	return func(s *Simulator) {
		if format != "" {
			s.linkFormat = format
		}
	}
}

// New creates an uninitialized simulator
func New(opts ...Option) *Simulator {
	s := &Simulator{
		locale:     DefaultLocale(),
		logger:     utils.GetGlobalLogger(),
		linkFormat: DefaultStoreLinkFormat,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("component", "simulator")
	return s
}

// InitializeDefault installs a fallback snapshot built from the host app
// manifest: the app's id, title and description with a zero price in the
// host currency and a default license.
func (s *Simulator) InitializeDefault(src ManifestSource) error {
	manifest, err := src.ReadManifest()
	if err != nil {
		return err
	}

	link, err := url.Parse(fmt.Sprintf(s.linkFormat, manifest.ProductID.String()))
	if err != nil {
		return errors.NewMalformedFieldError("store.link_format", s.linkFormat, err)
	}

	listing := models.NewListingInformation()
	listing.Name = manifest.Title
	listing.Description = manifest.Description
	listing.CurrentMarket = s.locale.RegionCode()
	listing.FormattedPrice = s.locale.FormatPrice(s.locale.CurrencyCode(), decimal.Zero)

	s.current.Store(&Snapshot{
		Listing: &models.StoreListing{
			AppID:   manifest.ProductID,
			LinkURI: link,
			Listing: listing,
		},
		License: models.DefaultLicenseInformation(),
		Methods: models.DefaultMethodResults(),
	})

	s.logger.Info("Initialized simulator from manifest %v (app %s)", src, manifest.ProductID)
	return nil
}

// Reload parses a simulator document and makes it the current snapshot.
// When parsing fails the previous snapshot stays current.
func (s *Simulator) Reload(r io.Reader) error {
	snapshot, err := newParser(s.locale, s.logger).parse(r)
	if err != nil {
		s.logger.Warn("Simulator reload rejected: %v", err)
		return err
	}

	s.current.Store(snapshot)
	s.logger.Info("Simulator reloaded: app %s, %d products, market %s",
		snapshot.Listing.AppID, snapshot.ProductCount(), snapshot.Listing.Listing.CurrentMarket)
	return nil
}

// ReloadBytes reloads the simulator from an in-memory document
func (s *Simulator) ReloadBytes(data []byte) error {
	return s.Reload(bytes.NewReader(data))
}

// ReloadFile reloads the simulator from a document on disk
func (s *Simulator) ReloadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open simulator config: %w", err)
	}
	defer file.Close()

	if err := s.Reload(file); err != nil {
		if storeErr, ok := errors.As(err); ok {
			storeErr.WithContext("file", path)
		}
		return err
	}
	return nil
}

// Loaded reports whether a snapshot has been installed
func (s *Simulator) Loaded() bool {
	return s.current.Load() != nil
}

// Snapshot returns a copy of the current snapshot, or nil before initialization
func (s *Simulator) Snapshot() *Snapshot {
	return s.current.Load().Clone()
}

// AppID returns the simulated app id
func (s *Simulator) AppID() uuid.UUID {
	snap := s.current.Load()
	if snap == nil {
		return uuid.Nil
	}
	return snap.Listing.AppID
}

// LinkURI returns the simulated store link for the app
func (s *Simulator) LinkURI() *url.URL {
	snap := s.current.Load()
	if snap == nil || snap.Listing.LinkURI == nil {
		return nil
	}
	link := *snap.Listing.LinkURI
	return &link
}

// CurrentMarket returns the two-letter region code of the simulated market
func (s *Simulator) CurrentMarket() string {
	snap := s.current.Load()
	if snap == nil {
		return ""
	}
	return snap.Listing.Listing.CurrentMarket
}

// LicenseInformation returns a copy of the simulated license state
func (s *Simulator) LicenseInformation() *models.LicenseInformation {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.License.Clone()
}

// LoadListingInformation returns the listing for the app and its products,
// unless the current snapshot programs the call to fail. The simulator does
// not observe ctx; it is accepted so the live and simulated clients share a
// signature.
func (s *Simulator) LoadListingInformation(ctx context.Context) (*models.ListingInformation, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, errors.NewNotInitializedError()
	}

	if !snap.Methods.Succeeds(models.MethodLoadListingInformation) {
		s.logger.Debug("%s programmed to fail", models.MethodLoadListingInformation)
		return nil, errors.NewSimulatedFailureError(models.MethodLoadListingInformation)
	}

	return snap.Listing.Listing.Clone(), nil
}

// update derives a new snapshot from the current one and installs it. When a
// concurrent reload or purchase swapped the snapshot first, fn runs again
// against the newer snapshot.
func (s *Simulator) update(fn func(*Snapshot) (*Snapshot, error)) (*Snapshot, error) {
	for {
		cur := s.current.Load()
		if cur == nil {
			return nil, errors.NewNotInitializedError()
		}

		next, err := fn(cur)
		if err != nil {
			return nil, err
		}

		if s.current.CompareAndSwap(cur, next) {
			return next, nil
		}
	}
}
