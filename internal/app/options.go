package service

import (
	"github.com/okian/contestboard/internal/adapters/repository"
	"github.com/okian/contestboard/internal/domain/elo"
	"github.com/okian/contestboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the in-memory contest cache.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithFetchConcurrency bounds parallel contest fetches within one refresh.
// One means fetches run strictly one after another.
func WithFetchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

// WithIncludeLate sets the initial late-submission setting.
func WithIncludeLate(include bool) Option {
	return func(s *Service) {
		s.includeLate = include
	}
}

// WithEloOptions customizes the Elo ladder constants.
func WithEloOptions(opts ...elo.Option) Option {
	return func(s *Service) {
		s.ladder = elo.New(opts...)
	}
}
