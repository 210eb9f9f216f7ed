package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/logging"
)

var ErrUnsupportedAsset = errors.New("unsupported asset")

// Loader turns an opaque asset identifier into a tile grid.
type Loader interface {
	Load(assetID string) (*geometry.Grid, error)
}

// Registry picks a loader by the asset's file extension.
type Registry struct {
	loaders map[string]Loader
	log     logrus.FieldLogger
}

func NewRegistry(log logrus.FieldLogger) *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
		log:     logging.OrDiscard(log).WithField("component", "assets"),
	}
}

// NewDefaultRegistry registers the raster and board loaders for dir.
func NewDefaultRegistry(dir string, tileWidth, tileHeight int, log logrus.FieldLogger) *Registry {
	r := NewRegistry(log)
	raster := &RasterLoader{Dir: dir, TileWidth: tileWidth, TileHeight: tileHeight}
	for _, ext := range []string{".png", ".bmp", ".webp"} {
		r.Register(ext, raster)
	}
	r.Register(".json", &BoardLoader{Dir: dir})
	return r
}

func (r *Registry) Register(ext string, l Loader) {
	r.loaders[strings.ToLower(ext)] = l
}

func (r *Registry) Supports(assetID string) bool {
	_, ok := r.loaders[strings.ToLower(filepath.Ext(assetID))]
	return ok
}

func (r *Registry) Load(assetID string) (*geometry.Grid, error) {
	ext := strings.ToLower(filepath.Ext(assetID))
	l, ok := r.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAsset, assetID)
	}
	g, err := l.Load(assetID)
	if err != nil {
		return nil, err
	}
	r.log.WithFields(logrus.Fields{
		"asset":  assetID,
		"width":  g.Width,
		"height": g.Height,
	}).Debug("asset loaded")
	return g, nil
}

// Discover lists the supported assets in dir, sorted by name. A missing
// directory yields nothing.
func (r *Registry) Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read asset dir: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() && r.Supports(e.Name()) {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
