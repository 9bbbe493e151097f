package backgrounds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func TestScan_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.png", "a.jpg", "c.txt")

	urls, err := NewLister([]string{dir}, nil).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/backgrounds/a.jpg", "/backgrounds/b.png"}, urls)
}

func TestScan_SkipsDirectoriesAndMatchesExtensionCase(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Photo.JPEG", "anim.gif", "x.avif", "y.webp", "notes.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	urls, err := NewLister([]string{dir}, nil).Scan(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"/backgrounds/Photo.JPEG",
		"/backgrounds/anim.gif",
		"/backgrounds/x.avif",
		"/backgrounds/y.webp",
	}, urls)
}

func TestSortNames_Numeric(t *testing.T) {
	names := []string{"bg10.png", "bg2.png", "bg1.png"}
	SortNames(names)
	assert.Equal(t, []string{"bg1.png", "bg2.png", "bg10.png"}, names)
}

func TestDir_UsesFirstExisting(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	first := t.TempDir()
	second := t.TempDir()

	dir, err := NewLister([]string{missing, first, second}, nil).Dir()
	require.NoError(t, err)
	assert.Equal(t, first, dir)
}

func TestDir_SkipsRegularFile(t *testing.T) {
	parent := t.TempDir()
	writeFiles(t, parent, "backgrounds")
	dir := t.TempDir()

	got, err := NewLister([]string{filepath.Join(parent, "backgrounds"), dir}, nil).Dir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestList_Fallbacks(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		l := NewLister([]string{filepath.Join(t.TempDir(), "nope")}, nil)
		assert.Equal(t, []string{"/backgrounds/image.png"}, l.List(context.Background()))
	})

	t.Run("no images", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "readme.txt")
		assert.Equal(t, Fallback(), NewLister([]string{dir}, nil).List(context.Background()))
	})
}

func TestCandidateDirs(t *testing.T) {
	dirs := CandidateDirs("/srv/bg")
	require.Len(t, dirs, 4)
	assert.Equal(t, "/srv/bg", dirs[0])
	assert.Equal(t, "backgrounds", filepath.Base(dirs[1]))

	assert.Len(t, CandidateDirs(""), 3)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("lists images", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "b.png", "a.jpg", "c.txt")

		router := gin.New()
		NewHandler(NewLister([]string{dir}, nil)).Register(router.Group("/api"))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/backgrounds", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Cache-Control"))

		var body struct {
			Images []string `json:"images"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, []string{"/backgrounds/a.jpg", "/backgrounds/b.png"}, body.Images)
	})

	t.Run("missing directory still 200", func(t *testing.T) {
		router := gin.New()
		NewHandler(NewLister([]string{filepath.Join(t.TempDir(), "nope")}, nil)).Register(router)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/backgrounds", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"images":["/backgrounds/image.png"]}`, rr.Body.String())
	})
}
