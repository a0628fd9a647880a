package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/repository/memory"
)

type fakeAssetStore struct {
	baseURL string
	objects map[string]time.Time
	removed []string
}

func (f *fakeAssetStore) ListObjects(ctx context.Context) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(f.objects))
	for k, v := range f.objects {
		out[k] = v
	}
	return out, nil
}

func (f *fakeAssetStore) KeyFromRef(ref string) string {
	if !strings.HasPrefix(ref, f.baseURL+"/") {
		return ""
	}
	return strings.TrimPrefix(ref, f.baseURL+"/")
}

func (f *fakeAssetStore) Remove(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func TestSweepOrphansRemovesOnlyStaleUnreferencedAssets(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)

	store := &fakeAssetStore{
		baseURL: "https://assets.lumen.studio/lumen-assets",
		objects: map[string]time.Time{
			"2026/08/01/referenced.png": now.Add(-72 * time.Hour),
			"2026/08/01/orphan.png":     now.Add(-72 * time.Hour),
			"2026/08/28/fresh.png":      now.Add(-time.Hour),
		},
	}

	posts := memory.NewPosts()
	ref := store.baseURL + "/2026/08/01/referenced.png"
	require.NoError(t, posts.Create(ctx, models.BlogPost{
		ID: "p1", Slug: "p1", Title: "P1", FeaturedImage: &ref,
		Status: models.PostStatusPublished, CreatedAt: now,
	}))

	// An external image URL must never map to a deletable key.
	external := "https://cdn.elsewhere.example/image.png"
	require.NoError(t, posts.Create(ctx, models.BlogPost{
		ID: "p2", Slug: "p2", Title: "P2", FeaturedImage: &external,
		Status: models.PostStatusPublished, CreatedAt: now,
	}))

	s := NewScheduler(posts, store, zerolog.Nop())

	removed, err := s.SweepOrphans(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"2026/08/01/orphan.png"}, store.removed)

	// Referenced and fresh objects survive.
	assert.Contains(t, store.objects, "2026/08/01/referenced.png")
	assert.Contains(t, store.objects, "2026/08/28/fresh.png")
}

func TestSweepOrphansIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	store := &fakeAssetStore{
		baseURL: "https://assets.lumen.studio/lumen-assets",
		objects: map[string]time.Time{"old/orphan.png": now.Add(-48 * time.Hour)},
	}
	s := NewScheduler(memory.NewPosts(), store, zerolog.Nop())

	removed, err := s.SweepOrphans(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = s.SweepOrphans(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
