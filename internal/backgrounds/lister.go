package backgrounds

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/reagent-systems/site-backend/internal/logging"
	"github.com/reagent-systems/site-backend/internal/metrics"
)

// PublicPrefix is the URL path the static backgrounds directory is served under.
const PublicPrefix = "/backgrounds"

// ErrNoDirectory is returned when none of the candidate directories exists.
var ErrNoDirectory = errors.New("no backgrounds directory found")

// knownBackgrounds is served when the directory cannot be read, for deployments
// where the static tree is not on the function's filesystem.
var knownBackgrounds = []string{"image.png"}

var allowedExt = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
	".avif": {},
}

// Lister resolves the backgrounds directory and lists the images in it.
type Lister struct {
	candidates []string
	logger     *zap.Logger
}

// NewLister creates a Lister over the given candidate directories, tried in order.
func NewLister(candidates []string, logger *zap.Logger) *Lister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lister{candidates: candidates, logger: logger}
}

// CandidateDirs returns the directories a deployment may keep its backgrounds in.
// An explicit directory, when set, goes first.
func CandidateDirs(explicit string) []string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	dirs := make([]string, 0, 4)
	if strings.TrimSpace(explicit) != "" {
		dirs = append(dirs, explicit)
	}
	return append(dirs,
		filepath.Join(cwd, "static", "backgrounds"),
		filepath.Join(cwd, "..", "static", "backgrounds"),
		filepath.Join(cwd, ".vercel", "output", "static", "backgrounds"),
	)
}

// Dir returns the first candidate that exists and is a directory.
func (l *Lister) Dir() (string, error) {
	for _, dir := range l.candidates {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", ErrNoDirectory
}

// Scan reads the backgrounds directory and returns public URLs of the images
// in it, in numeric-aware collation order.
func (l *Lister) Scan(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := l.Dir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && IsImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	SortNames(names)

	return toURLs(names), nil
}

// List returns the image URLs, or the known fallback list when the directory
// is missing, unreadable or holds no images.
func (l *Lister) List(ctx context.Context) []string {
	log := logging.FromContext(ctx, l.logger)

	urls, err := l.Scan(ctx)
	switch {
	case errors.Is(err, ErrNoDirectory):
		log.Debug("backgrounds directory not found, serving fallback", zap.Strings("candidates", l.candidates))
		metrics.RecordFallback(metrics.EndpointBackgrounds, metrics.ReasonNotFound)
	case err != nil:
		log.Warn("read backgrounds failed, serving fallback", zap.Error(err))
		metrics.RecordFallback(metrics.EndpointBackgrounds, metrics.ReasonRead)
	case len(urls) == 0:
		metrics.RecordFallback(metrics.EndpointBackgrounds, metrics.ReasonEmpty)
	default:
		return urls
	}
	return Fallback()
}

// Fallback returns the URLs of the known backgrounds.
func Fallback() []string {
	return toURLs(knownBackgrounds)
}

// IsImage reports whether name has an allowed image extension, ignoring case.
func IsImage(name string) bool {
	_, ok := allowedExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

// SortNames sorts names in place so that embedded numbers compare by value.
func SortNames(names []string) {
	// A Collator keeps scratch buffers, so each call gets its own.
	col := collate.New(language.Und, collate.Numeric)
	slices.SortStableFunc(names, col.CompareString)
}

func toURLs(names []string) []string {
	urls := make([]string, 0, len(names))
	for _, n := range names {
		urls = append(urls, path.Join(PublicPrefix, n))
	}
	return urls
}
