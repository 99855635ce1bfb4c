package services

import (
	"log"
	"sort"
	"sync"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"
)

// DispatchEntry is one rider marker on the dispatch map.
type DispatchEntry struct {
	RiderID    uint      `json:"riderId"`
	Label      string    `json:"label"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recordedAt"`
}

// DispatchService keeps a live "latest position per active rider" map. It is
// seeded from the database and then maintained from feed pushes without
// reloading the roster.
type DispatchService struct {
	users     *repository.UserRepository
	positions *PositionService
	feed      *PositionFeed

	mu      sync.Mutex
	roster  map[uint]string // rider id -> label
	entries map[uint]entity.RiderPosition
	cancel  func()
}

func NewDispatchService(users *repository.UserRepository, positions *PositionService, feed *PositionFeed) *DispatchService {
	return &DispatchService{
		users:     users,
		positions: positions,
		feed:      feed,
		roster:    make(map[uint]string),
		entries:   make(map[uint]entity.RiderPosition),
	}
}

// Start loads the roster, reconciles latest positions, and begins consuming
// the live feed. Call Close when the dispatch view goes away.
func (s *DispatchService) Start() error {
	if err := s.Resync(); err != nil {
		return err
	}

	ch, cancel := s.feed.Subscribe(64)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		for p := range ch {
			s.apply(p)
		}
	}()
	return nil
}

// apply merges one live push. Unknown riders (not on the active roster) are
// dropped and logged; a stale push never overwrites a newer entry.
func (s *DispatchService) apply(p entity.RiderPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roster[p.RiderID]; !ok {
		log.Printf("dispatch: dropping position for unknown rider %d", p.RiderID)
		return
	}
	cur, ok := s.entries[p.RiderID]
	if ok && (cur.RecordedAt.After(p.RecordedAt) || (cur.RecordedAt.Equal(p.RecordedAt) && cur.ID > p.ID)) {
		return
	}
	s.entries[p.RiderID] = p
}

// Resync reloads the roster and the latest position per rider from the
// database. Used at startup and after a feed reconnect so no update is lost
// for good.
func (s *DispatchService) Resync() error {
	riders, err := s.users.ActiveRiders(200)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(riders))
	roster := make(map[uint]string, len(riders))
	for _, r := range riders {
		ids = append(ids, r.ID)
		label := r.Email
		if r.FullName != "" {
			label = r.FullName
		}
		roster[r.ID] = label
	}

	latest, err := s.positions.LatestFor(ids)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.roster = roster
	s.entries = latest
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current map entries, riders without a position
// omitted, ordered by rider id for stable output.
func (s *DispatchService) Snapshot(actor Actor) ([]DispatchEntry, error) {
	if !CanViewDispatch(actor) {
		return nil, apperr.Forbidden("forbidden")
	}

	s.mu.Lock()
	out := make([]DispatchEntry, 0, len(s.entries))
	for riderID, p := range s.entries {
		out = append(out, DispatchEntry{
			RiderID:    riderID,
			Label:      s.roster[riderID],
			Lat:        p.Lat,
			Lng:        p.Lng,
			RecordedAt: p.RecordedAt,
		})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].RiderID < out[j].RiderID })
	return out, nil
}

func (s *DispatchService) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
