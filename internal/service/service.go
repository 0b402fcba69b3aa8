// Package service implements the GlobalHaven domain operations shared by the
// user-facing routes and the machine-client facade.
package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/pkg/geocode"
	"github.com/lc3t35/GlobalHaven/pkg/jwtutil"
	"github.com/lc3t35/GlobalHaven/pkg/validate"
)

const (
	// MachineSearchLimit caps machine-client search results
	MachineSearchLimit = 100

	// DefaultUsageDays is the usage window when the caller names none
	DefaultUsageDays = 30
	// MaxUsageDays caps the usage window
	MaxUsageDays = 365
)

// Service holds the dependencies every operation needs
type Service struct {
	store    repository.Store
	tokens   *jwtutil.JWTUtil
	geocoder geocode.Geocoder
	validate *validate.Validator
	log      *zap.Logger
	now      func() time.Time
}

// New wires a Service. A nil logger is replaced by a no-op one.
func New(store repository.Store, tokens *jwtutil.JWTUtil, geocoder geocode.Geocoder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		tokens:   tokens,
		geocoder: geocoder,
		validate: validate.New(),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// check validates in against its struct tags
func (s *Service) check(in interface{}) error {
	if err := s.validate.Validate(in); err != nil {
		return invalid(validate.Detail(err))
	}
	return nil
}
