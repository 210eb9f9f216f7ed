package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ko-stant/battlemap/internal/asset"
	"github.com/Ko-stant/battlemap/internal/config"
	"github.com/Ko-stant/battlemap/internal/entity"
	"github.com/Ko-stant/battlemap/internal/geometry"
	"github.com/Ko-stant/battlemap/internal/layout"
	"github.com/Ko-stant/battlemap/internal/logging"
	"github.com/Ko-stant/battlemap/internal/protocol"
	"github.com/Ko-stant/battlemap/internal/scene"
	"github.com/Ko-stant/battlemap/internal/session"
	"github.com/Ko-stant/battlemap/internal/visibility"
	"github.com/Ko-stant/battlemap/internal/ws"
)

const (
	staticDir           = "internal/web/static"
	defaultVisionRadius = 30.0
	devGridWidth        = 26
	devGridHeight       = 19
	metricsInterval     = time.Minute
	shutdownTimeout     = 5 * time.Second
)

func main() {
	path := flag.String("config", "battlemap.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopProfiling := StartProfiling(cfg.Profiling, log)
	defer stopProfiling()

	world, err := buildWorld(cfg.Assets, log)
	if err != nil {
		return err
	}
	roster, err := buildRoster(cfg.Entities)
	if err != nil {
		return err
	}

	engine := visibility.NewEngine(world, visibility.Config{
		RayStepDegrees: cfg.Vision.RayStepDegrees,
		Subpixels:      cfg.Vision.Subpixels,
	}, log)
	editor := layout.NewEditor(world, cfg.Layout.SnapTolerance, log)
	sess := session.New(world, roster, engine, editor, session.Config{
		RepairRadius: cfg.Pathing.RepairRadius,
		MaxSteps:     cfg.Pathing.MaxSteps,
		Policy:       observerPolicy(cfg.Server.Observers),
	}, log)
	if first := roster.Get(0); first != nil {
		sess.SetTurn(first.ID)
	}

	bc := newHubBroadcaster(log,
		ws.NewHub(protocol.ViewPlayer, log),
		ws.NewHub(protocol.ViewOperator, log),
	)
	metrics := NewMetrics()
	host := NewHost(sess, scene.NewFileStore(cfg.Scenes.Path, log), bc, metrics, log)

	if name := cfg.Scenes.Default; name != "" {
		switch err := host.LoadScene(name); {
		case errors.Is(err, scene.ErrSceneNotFound):
			log.WithField("scene", name).Debug("default scene not stored yet")
		case err != nil:
			log.WithError(err).WithField("scene", name).Warn("failed to load default scene")
		}
	}

	go host.Run(ctx, cfg.Server.Tick)
	if cfg.Profiling.Enabled {
		StartMetricsReporting(ctx, metrics, metricsInterval, log)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: newMux(host, bc, staticDir, log),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("http shutdown")
		}
	}()

	log.WithField("port", cfg.Server.Port).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	log.Info("shut down")
	return nil
}

func observerPolicy(name string) session.ObserverPolicy {
	if name == "selected" {
		return session.SelectedObservers
	}
	return session.AllObservers
}

// buildWorld loads the configured segments, or every asset found in the
// asset directory stacked at the origin. With no assets at all it falls back
// to a generated corridors-and-rooms grid.
func buildWorld(cfg config.AssetsConfig, log logrus.FieldLogger) (*geometry.World, error) {
	reg := asset.NewDefaultRegistry(cfg.Dir, cfg.TileWidth, cfg.TileHeight, log)
	world := geometry.NewWorld(log)

	if len(cfg.Segments) > 0 {
		for _, sc := range cfg.Segments {
			grid, err := reg.Load(sc.Asset)
			if err != nil {
				return nil, fmt.Errorf("segment %q: %w", sc.Asset, err)
			}
			seg := geometry.NewSegment(sc.Name, sc.Asset, grid, sc.OffsetX, sc.OffsetY)
			seg.Active = sc.IsActive()
			world.Add(seg)
		}
		return world, nil
	}

	ids, err := reg.Discover(cfg.Dir)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		grid, err := reg.Load(id)
		if err != nil {
			log.WithError(err).WithField("asset", id).Warn("skipping unreadable asset")
			continue
		}
		world.Add(geometry.NewSegment(fmt.Sprintf("Segment %d", i+1), id, grid, 0, 0))
	}
	if len(world.Segments()) > 0 {
		return world, nil
	}

	log.WithField("dir", cfg.Dir).Warn("no segment assets found; using generated map")
	grid, err := geometry.CorridorsAndRooms(devGridWidth, devGridHeight)
	if err != nil {
		return nil, err
	}
	world.Add(geometry.NewSegment("Generated", "generated", grid, 0, 0))
	return world, nil
}

// buildRoster creates the configured entities. An entity gets vision when
// either a radius or a mode is configured.
func buildRoster(entities []config.EntityConfig) (*entity.Roster, error) {
	if len(entities) == 0 {
		radius := 8.0
		entities = []config.EntityConfig{{Name: "Scout", X: 1, Y: 1, VisionRadius: &radius}}
	}

	roster := entity.NewRoster()
	for _, ec := range entities {
		var vision *entity.Vision
		if ec.VisionRadius != nil || ec.VisionMode != "" {
			mode, err := visibility.ParseMode(ec.VisionMode)
			if err != nil {
				return nil, fmt.Errorf("entity %q: %w", ec.Name, err)
			}
			radius := defaultVisionRadius
			if ec.VisionRadius != nil {
				radius = *ec.VisionRadius
			}
			if vision, err = entity.NewVision(radius, mode); err != nil {
				return nil, fmt.Errorf("entity %q: %w", ec.Name, err)
			}
		}
		roster.Add(entity.New(ec.Name, ec.X, ec.Y, vision))
	}
	return roster, nil
}
