package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"lumenstudio/api/internal/repository"
)

// orphanGrace is how long an unreferenced asset may linger before the sweep
// deletes it. It covers the window between uploading an image and saving the
// post that references it.
const orphanGrace = 24 * time.Hour

// AssetStore is the slice of the object store the sweep needs.
type AssetStore interface {
	ListObjects(ctx context.Context) (map[string]time.Time, error)
	KeyFromRef(ref string) string
	Remove(ctx context.Context, key string) error
}

// Scheduler runs the nightly orphaned-asset sweep: any object in the asset
// bucket that no post references and that is older than the grace period is
// removed.
type Scheduler struct {
	cron  *cron.Cron
	posts repository.PostStore
	store AssetStore
	log   zerolog.Logger
}

func NewScheduler(posts repository.PostStore, store AssetStore, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		posts: posts,
		store: store,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.store == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 3 * * *", s.runSweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits up to five seconds for a running sweep to
// finish.
func (s *Scheduler) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	removed, err := s.SweepOrphans(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("orphan sweep failed")
		return
	}
	s.log.Info().Int("removed", removed).Msg("orphan sweep completed")
}

// SweepOrphans deletes unreferenced assets older than the grace period
// relative to now. Returns how many objects were removed.
func (s *Scheduler) SweepOrphans(ctx context.Context, now time.Time) (int, error) {
	refs, err := s.posts.FeaturedImages(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if key := s.store.KeyFromRef(ref); key != "" {
			referenced[key] = struct{}{}
		}
	}

	objects, err := s.store.ListObjects(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for key, lastModified := range objects {
		if _, ok := referenced[key]; ok {
			continue
		}
		if now.Sub(lastModified) < orphanGrace {
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("orphan removal failed")
			continue
		}
		removed++
	}
	return removed, nil
}
