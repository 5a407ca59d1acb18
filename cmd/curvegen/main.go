// Command curvegen runs one model script against an in-memory or SQLite
// model, prints its report and writes the optional geometry outputs.
//
//	curvegen -script spiral-mass -settings '{"bulge":{"factor":2}}' -stl mass.stl
//	curvegen -config run.json -preview house.png
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/config"
	"github.com/paracore/curvegen/internal/monitoring"
	"github.com/paracore/curvegen/kernel"
	"github.com/paracore/curvegen/kernel/ruled"
	"github.com/paracore/curvegen/kernel/sdfx"
	"github.com/paracore/curvegen/model"
	"github.com/paracore/curvegen/render"
	"github.com/paracore/curvegen/script"
	"github.com/paracore/curvegen/store"
	"github.com/paracore/curvegen/tabular"
)

var (
	configPath = flag.String("config", "", "JSON run configuration")
	list       = flag.Bool("list", false, "List the available scripts and exit")
	quiet      = flag.Bool("quiet", false, "Suppress progress logging")
)

func main() {
	var flags config.Flags
	flag.StringVar(&flags.Database, "db", "", "SQLite model file (default in-memory model)")
	flag.StringVar(&flags.Script, "script", "", "Script to run")
	flag.StringVar(&flags.Settings, "settings", "", "Script settings as inline JSON")
	flag.StringVar(&flags.Kernel, "kernel", "", "Loft kernel: ruled or sdfx")
	flag.StringVar(&flags.STL, "stl", "", "Write the generated geometry as binary STL")
	flag.StringVar(&flags.Plan, "plan", "", "Write a plan view PNG of the generated segments")
	flag.StringVar(&flags.Preview, "preview", "", "Write a shaded preview PNG of the generated geometry")
	flag.StringVar(&flags.Mesh, "mesh", "", "Write the generated geometry as JSON mesh")
	flag.StringVar(&flags.Params, "params", "", "Write the parameters of all walls as CSV")
	flag.Parse()
	log.SetFlags(0)

	if *list {
		for _, s := range script.All() {
			fmt.Printf("%-20s %s\n", s.Name(), s.Description())
		}
		return
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// modelRepo is what run needs from a model.
type modelRepo interface {
	model.Repository
	model.Seeder
}

func run(ctx context.Context, cfg config.Config, w io.Writer) error {
	var k kernel.Kernel = ruled.Kernel{}
	if cfg.Kernel == config.KernelSDFX {
		k = sdfx.New(cfg.Cells)
	}

	var repo modelRepo
	if cfg.Database == "" {
		m := model.NewMemory()
		m.Kernel = k
		repo = m
	} else {
		st, err := store.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open model %s: %w", cfg.Database, err)
		}
		defer st.Close()
		st.Kernel = k
		repo = st
	}
	if err := seed(ctx, repo, cfg); err != nil {
		return err
	}

	res, err := script.Run(ctx, repo, cfg.Script, cfg.Settings)
	if err != nil {
		return err
	}
	if _, err := res.Report.WriteTo(w); err != nil {
		return err
	}
	if t := res.Table; t != nil {
		if err := tabular.Show(w, t.Title, t.Header, t.Rows); err != nil {
			return err
		}
	}
	return writeOutputs(ctx, cfg, k, repo, res)
}

// seed adds the configured levels and wall types that are not in the
// model yet.
func seed(ctx context.Context, repo modelRepo, cfg config.Config) error {
	for _, l := range cfg.Levels {
		_, err := repo.Level(ctx, l.Name)
		if errors.Is(err, curvegen.ErrNotFound) {
			_, err = repo.AddLevel(ctx, l.Name, l.Elevation)
		}
		if err != nil {
			return fmt.Errorf("seed level %q: %w", l.Name, err)
		}
	}
	for _, t := range cfg.WallTypes {
		_, err := repo.ElementType(ctx, model.KindWall, t.Name)
		if errors.Is(err, curvegen.ErrNotFound) {
			_, err = repo.AddElementType(ctx, model.ElementType{
				Kind:   model.KindWall,
				Name:   t.Name,
				Family: t.Family,
				Width:  t.Width,
			})
		}
		if err != nil {
			return fmt.Errorf("seed wall type %q: %w", t.Name, err)
		}
	}
	return nil
}

// defaultWallThickness is used to draw walls of types without a width.
const defaultWallThickness = 0.2

// triangles returns the solid geometry of res: the lofted mass if the
// script produced profiles, otherwise boxes along its walls.
func triangles(k kernel.Kernel, res *script.Result) ([]render.Triangle3, error) {
	switch {
	case len(res.Profiles) >= 2:
		solid, err := k.Loft(res.Profiles)
		if err != nil {
			return nil, err
		}
		return k.Mesh(solid)
	case res.WallHeight > 0 && len(res.Segments) > 0:
		t := res.WallThickness
		if !(t > 0) {
			t = defaultWallThickness
		}
		return render.Walls(res.Segments, res.WallHeight, t), nil
	}
	return nil, nil
}

func writeOutputs(ctx context.Context, cfg config.Config, k kernel.Kernel, repo model.Repository, res *script.Result) error {
	out := cfg.Output
	if out.Plan != "" && len(res.Segments) > 0 {
		err := writeFile(out.Plan, func(w io.Writer) error {
			return render.PlanPNG(w, res.Segments, render.PlanOptions{Title: cfg.Script})
		})
		if err != nil {
			return err
		}
	}

	if out.STL != "" || out.Preview != "" || out.Mesh != "" {
		tris, err := triangles(k, res)
		if err != nil {
			return fmt.Errorf("mesh %s result: %w", cfg.Script, err)
		}
		if len(tris) == 0 {
			monitoring.Logf("curvegen: %s produced no solid geometry, skipping STL, preview and mesh", cfg.Script)
		} else {
			if out.STL != "" {
				if err := mkdirFor(out.STL); err != nil {
					return err
				}
				if err := render.CreateSTL(out.STL, render.NewMeshRenderer(tris)); err != nil {
					return err
				}
			}
			if out.Preview != "" {
				err := writeFile(out.Preview, func(w io.Writer) error {
					return render.Preview(w, tris, render.PreviewOptions{Width: out.ImageSize, Height: out.ImageSize, Scale: 2})
				})
				if err != nil {
					return err
				}
			}
			if out.Mesh != "" {
				err := writeFile(out.Mesh, func(w io.Writer) error {
					return json.NewEncoder(w).Encode(kernel.NewMesh(cfg.Script, tris))
				})
				if err != nil {
					return err
				}
			}
		}
	}

	if out.Parameters != "" {
		var walls []model.Element
		err := repo.Transact(ctx, "Export Wall Parameters", func(tx model.Tx) error {
			var err error
			walls, err = tx.Elements(model.CategoryWalls)
			return err
		})
		if err != nil {
			return err
		}
		err = writeFile(out.Parameters, func(w io.Writer) error {
			return tabular.WriteParameters(w, walls, curvegen.Meter)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func mkdirFor(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := mkdirFor(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	monitoring.Logf("curvegen: wrote %s", path)
	return nil
}
