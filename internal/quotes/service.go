package quotes

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"

	"habitd/internal/model"
	"habitd/internal/storage"
)

const refreshBatchSize = 20

// Fetcher is the remote side of the service. *Client satisfies it.
type Fetcher interface {
	Random(ctx context.Context, count int) ([]model.Quote, error)
	ByCategory(ctx context.Context, category string, count int) ([]model.Quote, error)
}

// Store is the subset of the repository the service needs.
type Store interface {
	InsertQuotes(ctx context.Context, quotes []model.Quote) error
	RandomQuote(ctx context.Context) (model.Quote, error)
	RandomQuoteByCategory(ctx context.Context, category string) (model.Quote, error)
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
}

// Service resolves a daily quote with three fallbacks in order: remote
// API, local cache, built-in set. A fetch that succeeds also refreshes
// the cache so later offline runs keep working.
type Service struct {
	fetcher Fetcher
	store   Store
	logger  *slog.Logger
	pick    func(n int) int
}

func NewService(fetcher Fetcher, store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		pick:    rand.Intn,
	}
}

func (s *Service) Daily(ctx context.Context) (model.Quote, error) {
	return s.daily(ctx, "")
}

func (s *Service) DailyByCategory(ctx context.Context, category string) (model.Quote, error) {
	return s.daily(ctx, category)
}

func (s *Service) daily(ctx context.Context, category string) (model.Quote, error) {
	if quote, ok := s.fromRemote(ctx, category); ok {
		s.rememberShown(ctx, quote)
		return quote, nil
	}
	if quote, ok := s.fromCache(ctx, category); ok {
		s.rememberShown(ctx, quote)
		return quote, nil
	}
	quote := s.fromBuiltin(ctx)
	s.rememberShown(ctx, quote)
	return quote, nil
}

func (s *Service) fromRemote(ctx context.Context, category string) (model.Quote, bool) {
	if s.fetcher == nil {
		return model.Quote{}, false
	}
	var fetched []model.Quote
	var err error
	if category == "" {
		fetched, err = s.fetcher.Random(ctx, refreshBatchSize)
	} else {
		fetched, err = s.fetcher.ByCategory(ctx, category, refreshBatchSize)
	}
	if err != nil {
		s.logger.Warn("remote quote fetch failed, falling back to cache", "error", err)
		return model.Quote{}, false
	}
	if len(fetched) == 0 {
		return model.Quote{}, false
	}
	if err := s.store.InsertQuotes(ctx, fetched); err != nil {
		s.logger.Warn("quote cache refresh failed", "error", err)
	}
	return fetched[s.pick(len(fetched))], true
}

func (s *Service) fromCache(ctx context.Context, category string) (model.Quote, bool) {
	var quote model.Quote
	var err error
	if category == "" {
		quote, err = s.store.RandomQuote(ctx)
	} else {
		quote, err = s.store.RandomQuoteByCategory(ctx, category)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("quote cache lookup failed", "error", err)
		}
		return model.Quote{}, false
	}
	return quote, true
}

// fromBuiltin avoids repeating the last shown quote when it can.
func (s *Service) fromBuiltin(ctx context.Context) model.Quote {
	lastID, _ := s.store.GetPreference(ctx, storage.PrefLastQuoteID)
	quote := builtinQuotes[s.pick(len(builtinQuotes))]
	if quote.ID == lastID && len(builtinQuotes) > 1 {
		for _, candidate := range builtinQuotes {
			if candidate.ID != lastID {
				quote = candidate
				break
			}
		}
	}
	return quote
}

func (s *Service) rememberShown(ctx context.Context, quote model.Quote) {
	if err := s.store.SetPreference(ctx, storage.PrefLastQuoteID, quote.ID); err != nil {
		s.logger.Warn("saving last quote id failed", "error", err)
	}
}

var builtinQuotes = []model.Quote{
	{ID: "builtin-1", Text: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Author: "Will Durant", Category: "motivation"},
	{ID: "builtin-2", Text: "Success is the sum of small efforts, repeated day in and day out.", Author: "Robert Collier", Category: "motivation"},
	{ID: "builtin-3", Text: "Motivation is what gets you started. Habit is what keeps you going.", Author: "Jim Ryun", Category: "motivation"},
	{ID: "builtin-4", Text: "The secret of your future is hidden in your daily routine.", Author: "Mike Murdock", Category: "motivation"},
	{ID: "builtin-5", Text: "First we make our habits, then our habits make us.", Author: "John Dryden", Category: "motivation"},
	{ID: "builtin-6", Text: "Small daily improvements over time lead to stunning results.", Author: "Robin Sharma", Category: "motivation"},
	{ID: "builtin-7", Text: "You do not rise to the level of your goals. You fall to the level of your systems.", Author: "James Clear", Category: "motivation"},
	{ID: "builtin-8", Text: "Discipline is choosing between what you want now and what you want most.", Author: "Abraham Lincoln", Category: "motivation"},
	{ID: "builtin-9", Text: "It is not what we do once in a while that shapes our lives, but what we do consistently.", Author: "Tony Robbins", Category: "motivation"},
	{ID: "builtin-10", Text: "A year from now you may wish you had started today.", Author: "Karen Lamb", Category: "motivation"},
}
