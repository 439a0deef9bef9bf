package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"pairup/internal/apperrors"
	"pairup/internal/models"
	"pairup/internal/repository"
)

// MatchingService pairs eligible users into new partnerships. A cycle runs
// over active users holding no active partnership, buckets them by
// compatibility category, shuffles each bucket and pairs neighbours.
type MatchingService struct {
	repo         *repository.Repository
	partnerships *PartnershipService
	exclusions   *ExclusionService
	termMonths   int
	rng          *rand.Rand
	runMu        sync.Mutex
}

// NewMatchingService wires the matching engine. A nil rng seeds one from the
// clock; passing a fixed-seed source makes the permutation reproducible.
func NewMatchingService(repo *repository.Repository, partnerships *PartnershipService, exclusions *ExclusionService, termMonths int, rng *rand.Rand) *MatchingService {
	if termMonths < 1 {
		termMonths = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MatchingService{
		repo:         repo,
		partnerships: partnerships,
		exclusions:   exclusions,
		termMonths:   termMonths,
		rng:          rng,
	}
}

// RunMatchingCycle executes one full matching run and returns the
// partnerships it created. Only one cycle may run at a time; a second
// invocation while one is in flight fails fast instead of double-matching
// the same pool.
func (s *MatchingService) RunMatchingCycle(ctx context.Context, currentDate time.Time) ([]*models.Partnership, error) {
	if !s.runMu.TryLock() {
		return nil, apperrors.Conflictf("a matching cycle is already running")
	}
	defer s.runMu.Unlock()

	users, err := s.repo.GetEligibleUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible users: %w", err)
	}

	start := currentDate
	end := currentDate.AddDate(0, s.termMonths, 0)

	buckets := bucketByCategory(users)

	// Buckets are walked in a fixed order so a seeded rng produces the
	// same pairing on every run over the same pool.
	categories := make([]string, 0, len(buckets))
	for category := range buckets {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	created := make([]*models.Partnership, 0)
	for _, category := range categories {
		bucket := buckets[models.MatchCategory(category)]
		for _, pair := range pairConsecutive(shuffleUsers(bucket, s.rng)) {
			a, b := pair[0], pair[1]

			blocked, err := s.exclusions.EitherExcludes(ctx, a.ID, b.ID)
			if err != nil {
				log.Printf("Matching: exclusion check failed for users %d/%d: %v", a.ID, b.ID, err)
				continue
			}
			if blocked {
				// Both stay unmatched this cycle; no re-pairing is attempted
				log.Printf("Matching: users %d and %d skipped by exclusion", a.ID, b.ID)
				continue
			}

			p, err := s.partnerships.Create(ctx, a.ID, b.ID, start, end)
			if err != nil {
				// Each pair commits independently; one failure must not
				// sink the rest of the run
				log.Printf("Matching: failed to create partnership for users %d/%d: %v", a.ID, b.ID, err)
				continue
			}
			created = append(created, p)
		}
	}

	log.Printf("Matching cycle complete: %d eligible users, %d partnerships created", len(users), len(created))
	return created, nil
}

// bucketByCategory partitions users by compatibility category. Buckets only
// ever match within themselves, so the unspecified bucket is never merged
// into a gendered one.
func bucketByCategory(users []*models.User) map[models.MatchCategory][]*models.User {
	buckets := make(map[models.MatchCategory][]*models.User)
	for _, u := range users {
		buckets[u.MatchCategory] = append(buckets[u.MatchCategory], u)
	}
	return buckets
}

// shuffleUsers returns a uniformly random permutation of bucket without
// mutating it.
func shuffleUsers(bucket []*models.User, rng *rand.Rand) []*models.User {
	shuffled := make([]*models.User, len(bucket))
	copy(shuffled, bucket)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// pairConsecutive walks an ordered bucket two at a time. An odd bucket
// leaves its last entry unmatched for the cycle.
func pairConsecutive(ordered []*models.User) [][2]*models.User {
	pairs := make([][2]*models.User, 0, len(ordered)/2)
	for i := 0; i+1 < len(ordered); i += 2 {
		pairs = append(pairs, [2]*models.User{ordered[i], ordered[i+1]})
	}
	return pairs
}
