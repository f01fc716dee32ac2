package storage

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchforge/internal/model"
)

func testDeck() *model.Deck {
	return &model.Deck{
		ID:      "6f1c7a52-8f38-4b7e-9d57-2f3a1e0f4c11",
		Idea:    "A SaaS platform for small businesses that automates inventory management using computer vision.",
		UseCase: model.UseCaseStartup,
		Theme:   model.ThemeCorporate,
		Slides: []model.Slide{
			{ID: "slide-1", Title: "Problem", Content: "Stockouts cost \"retailers\" $1T.", Origin: model.OriginGenerated},
			{ID: "slide-2", Title: "Solution", Content: "Vision + prediction.\nTwo lines.", Origin: model.OriginGenerated},
			{ID: "slide-3", Title: "Market", Content: "Big market.", Origin: model.OriginFallback},
			{ID: "slide-4", Title: "Product", Content: "ünïcødé ✓", Origin: model.OriginGenerated},
			{ID: "slide-5", Title: "Team", Content: "Seasoned.", Origin: model.OriginFallback},
		},
		CreatedAt: time.Date(2026, 10, 17, 12, 30, 0, 0, time.UTC),
	}
}

// stores 返回所有可用后端，redis 需要 REDIS_ADDR
func stores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	out := map[string]Store{"memory": NewMemoryStore()}

	sq, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	out["sqlite"] = sq

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		rs, err := OpenRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), db)
		require.NoError(t, err)
		out["redis"] = rs
	}

	t.Cleanup(func() {
		for _, s := range out {
			s.Close()
		}
	})
	return out
}

func TestDeckRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ns := "roundtrip-" + name
			want := testDeck()
			require.NoError(t, SaveDeck(ctx, s, ns, want))

			got, err := LoadDeck(ctx, s, ns)
			require.NoError(t, err)
			assert.Equal(t, want.Slides, got.Slides)
			assert.Equal(t, want.Idea, got.Idea)
			assert.Equal(t, want.UseCase, got.UseCase)
			assert.Equal(t, want.Theme, got.Theme)
			assert.Equal(t, want.ID, got.ID)
			assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

			require.NoError(t, s.Delete(ctx, ns))
		})
	}
}

func TestSaveDeckReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ns := "replace-" + name
			require.NoError(t, s.Set(ctx, ns, "stale", "x"))
			require.NoError(t, SaveDeck(ctx, s, ns, testDeck()))

			_, err := s.Get(ctx, ns, "stale")
			assert.ErrorIs(t, err, ErrNotFound)

			second := testDeck()
			second.Idea = "another idea"
			second.Slides = second.Slides[:1]
			require.NoError(t, SaveDeck(ctx, s, ns, second))

			got, err := LoadDeck(ctx, s, ns)
			require.NoError(t, err)
			assert.Equal(t, "another idea", got.Idea)
			assert.Len(t, got.Slides, 1)

			require.NoError(t, s.Delete(ctx, ns))
		})
	}
}

func TestReplaceClearsSession(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			r, ok := s.(Replacer)
			require.True(t, ok)

			ns := "swap-" + name
			require.NoError(t, s.Set(ctx, ns, "stale", "x"))
			require.NoError(t, r.Replace(ctx, ns, map[string]string{KeyIdea: "new", KeyTheme: "minimal"}))

			_, err := s.Get(ctx, ns, "stale")
			assert.ErrorIs(t, err, ErrNotFound)
			v, err := s.Get(ctx, ns, KeyIdea)
			require.NoError(t, err)
			assert.Equal(t, "new", v)

			require.NoError(t, s.Delete(ctx, ns))
		})
	}
}

// 保存期间并发读取不应看到空会话
func TestLoadDuringSaveSeesWholeDeck(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ns := "concurrent-" + name
			first := testDeck()
			require.NoError(t, SaveDeck(ctx, s, ns, first))

			second := testDeck()
			second.Idea = "another idea"
			second.Slides = second.Slides[:2]

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					d := first
					if i%2 == 1 {
						d = second
					}
					assert.NoError(t, SaveDeck(ctx, s, ns, d))
				}
			}()
			for i := 0; i < 50; i++ {
				got, err := LoadDeck(ctx, s, ns)
				require.NoError(t, err)
				assert.NotEmpty(t, got.Slides)
			}
			wg.Wait()

			require.NoError(t, s.Delete(ctx, ns))
		})
	}
}

// plainStore 隐藏 Replace，走逐项写入路径
type plainStore struct {
	Store
	keys []string
}

func (p *plainStore) Set(ctx context.Context, ns, key, value string) error {
	p.keys = append(p.keys, key)
	return p.Store.Set(ctx, ns, key, value)
}

func TestSaveDeckWritesSlidesLast(t *testing.T) {
	ctx := context.Background()
	s := &plainStore{Store: NewMemoryStore()}
	_, ok := Store(s).(Replacer)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "ns", "stale", "x"))
	s.keys = nil
	require.NoError(t, SaveDeck(ctx, s, "ns", testDeck()))

	require.Len(t, s.keys, 6)
	assert.Equal(t, KeySlides, s.keys[len(s.keys)-1])
	_, err := s.Get(ctx, "ns", "stale")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := LoadDeck(ctx, s, "ns")
	require.NoError(t, err)
	assert.Equal(t, testDeck().Slides, got.Slides)
}

func TestLoadMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := LoadDeck(ctx, s, "nobody-"+name)
			assert.ErrorIs(t, err, ErrNotFound)

			ns := "corrupt-" + name
			require.NoError(t, s.Set(ctx, ns, KeySlides, "{not json"))
			_, err = LoadDeck(ctx, s, ns)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Delete(ctx, ns))
		})
	}
}

func TestLoadTolerantOfMissingParams(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "ns", KeySlides, `[{"id":"slide-1","title":"Problem","content":"c"}]`))

	got, err := LoadDeck(ctx, s, "ns")
	require.NoError(t, err)
	assert.Equal(t, []model.Slide{{ID: "slide-1", Title: "Problem", Content: "c"}}, got.Slides)
	assert.Empty(t, got.Idea)
	assert.True(t, got.CreatedAt.IsZero())
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "a", KeyIdea, "alpha"))
	require.NoError(t, s.Set(ctx, "b", KeyIdea, "beta"))
	require.NoError(t, s.Delete(ctx, "a"))

	_, err := s.Get(ctx, "a", KeyIdea)
	assert.ErrorIs(t, err, ErrNotFound)
	v, err := s.Get(ctx, "b", KeyIdea)
	require.NoError(t, err)
	assert.Equal(t, "beta", v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.Error(t, err)
}
