package session

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/engine"
)

func testLoader(loadCount *int32) SchemaLoader {
	return func(schemaID string) (EngineBuilder, error) {
		atomic.AddInt32(loadCount, 1)
		return func() *engine.Engine {
			ctx := composition.New()
			return engine.New(ctx, nil, &engine.TableSegmentor{}, nil, nil, nil, nil)
		}, nil
	}
}

func TestCreateAndGetSession(t *testing.T) {
	var loads int32
	svc := New(testLoader(&loads))

	id, err := svc.CreateSession("pinyin_simp")
	require.NoError(t, err)

	sess, ok := svc.GetSession(id)
	require.True(t, ok)
	require.Equal(t, "pinyin_simp", sess.SchemaID())
	require.Equal(t, int32(1), loads)
}

func TestDestroySession(t *testing.T) {
	var loads int32
	svc := New(testLoader(&loads))
	id, err := svc.CreateSession("s1")
	require.NoError(t, err)

	require.True(t, svc.DestroySession(id))
	_, ok := svc.GetSession(id)
	require.False(t, ok)
	require.False(t, svc.DestroySession(id))
}

func TestCleanupStaleSessions(t *testing.T) {
	var loads int32
	svc := New(testLoader(&loads))
	id, err := svc.CreateSession("s1")
	require.NoError(t, err)

	sess, _ := svc.GetSession(id)
	sess.lastActive = time.Now().Add(-time.Hour)

	removed := svc.CleanupStaleSessions(time.Minute)
	require.Equal(t, 1, removed)
	require.Equal(t, 0, svc.SessionCount())
}

func TestCleanupAllSessions(t *testing.T) {
	var loads int32
	svc := New(testLoader(&loads))
	svc.CreateSession("s1")
	svc.CreateSession("s2")
	require.Equal(t, 2, svc.CleanupAllSessions())
	require.Equal(t, 0, svc.SessionCount())
}

func TestNotificationHandlerFiresOnCreate(t *testing.T) {
	var loads int32
	svc := New(testLoader(&loads))

	var gotType NotificationType
	var gotValue string
	svc.SetNotificationHandler(func(_ ID, eventType NotificationType, value string) {
		gotType = eventType
		gotValue = value
	})

	_, err := svc.CreateSession("wubi")
	require.NoError(t, err)
	require.Equal(t, NotifySchema, gotType)
	require.Equal(t, "wubi", gotValue)
}

// TestConcurrentSessionsForSameSchemaDoNotShareEngine pins the fix for
// singleflight over-sharing: when many CreateSession calls for the same
// schema id race, the expensive loader call is deduplicated (loads==1)
// but every session still gets its own Engine/Context — composing in
// one must never be visible in another.
func TestConcurrentSessionsForSameSchemaDoNotShareEngine(t *testing.T) {
	var loads int32
	svc := New(testLoader(&loads))

	const n = 8
	ids := make([]ID, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			id, err := svc.CreateSession("pinyin_simp")
			require.NoError(t, err)
			ids[i] = id
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), loads)

	seen := make(map[*engine.Engine]bool, n)
	for _, id := range ids {
		sess, ok := svc.GetSession(id)
		require.True(t, ok)
		require.False(t, seen[sess.Engine()], "two sessions shared one Engine")
		seen[sess.Engine()] = true
	}

	sess0, _ := svc.GetSession(ids[0])
	sess1, _ := svc.GetSession(ids[1])
	sess0.Engine().Context().PushInput("n")
	require.Equal(t, "n", sess0.Engine().Context().Input())
	require.Equal(t, "", sess1.Engine().Context().Input())
}

func TestResourceResolverPrefersUserDir(t *testing.T) {
	userDir := t.TempDir()
	sharedDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sharedDir, "pinyin.schema.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "pinyin.schema.yaml"), []byte("y"), 0o644))

	r := ResourceResolver{UserDataDir: userDir, SharedDataDir: sharedDir}
	p, err := r.Resolve("pinyin.schema.yaml")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(userDir, "pinyin.schema.yaml"), p)
}

func TestResourceResolverFallsBackToShared(t *testing.T) {
	userDir := t.TempDir()
	sharedDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sharedDir, "wubi.schema.yaml"), []byte("x"), 0o644))

	r := ResourceResolver{UserDataDir: userDir, SharedDataDir: sharedDir}
	p, err := r.Resolve("wubi.schema.yaml")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(sharedDir, "wubi.schema.yaml"), p)
}

func TestResourceResolverMissingFails(t *testing.T) {
	r := ResourceResolver{UserDataDir: t.TempDir(), SharedDataDir: t.TempDir()}
	_, err := r.Resolve("missing.yaml")
	require.Error(t, err)
}
