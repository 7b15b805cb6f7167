package location

import (
	"context"
	"sync"

	"github.com/i474232898/skyweather/internal/common"
)

// SearchSession serializes searches per key: starting a search cancels the previous
// in-flight search for the same key, and a superseded search always reports Cancelled
// even if its upstream call had already completed.
type SearchSession struct {
	svc *Service

	mu       sync.Mutex
	inflight map[string]*searchToken
}

type searchToken struct {
	cancel context.CancelFunc
}

func NewSearchSession(svc *Service) *SearchSession {
	return &SearchSession{
		svc:      svc,
		inflight: make(map[string]*searchToken),
	}
}

func (s *SearchSession) Search(ctx context.Context, key, query string, lang common.Language, pref Provider) SearchResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tok := &searchToken{cancel: cancel}
	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}
	s.inflight[key] = tok
	s.mu.Unlock()

	res := s.svc.Search(ctx, query, lang, pref)

	s.mu.Lock()
	current := s.inflight[key] == tok
	if current {
		delete(s.inflight, key)
	}
	s.mu.Unlock()

	if !current {
		return SearchResult{Places: []Place{}, Cancelled: true}
	}
	return res
}

// InFlight returns the number of keys with a search in progress.
func (s *SearchSession) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}
