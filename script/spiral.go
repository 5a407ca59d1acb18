package script

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/form"
	"github.com/paracore/curvegen/internal/monitoring"
	"github.com/paracore/curvegen/model"
	"gonum.org/v1/gonum/spatial/r2"
)

// MinWallLength is the shortest spiral segment turned into a wall, in metres.
const MinWallLength = 0.03

func init() {
	register("spiral-lines", "Sketches an Archimedean spiral with model lines on a level.", runSpiralLines)
	register("spiral-walls", "Builds an Archimedean spiral of straight walls on a level.", runSpiralWalls)
	register("spiral-house", "Builds a rectangle of walls on every level, each level rotated further.", runSpiralHouse)
	register("spiral-mass", "Lofts a tapered, twisted and bulged mass between two levels.", runSpiralMass)
}

// SpiralLinesSettings configure spiral-lines.
type SpiralLinesSettings struct {
	Level string `json:"level"`
	// MaxRadius is in Unit.
	MaxRadius  float64       `json:"maxRadius"`
	Unit       curvegen.Unit `json:"unit"`
	Turns      int           `json:"turns"`
	Resolution float64       `json:"resolutionDegrees"`
}

func (s *SpiralLinesSettings) Validate() error {
	if err := required("level", s.Level); err != nil {
		return err
	}
	return positive("max radius", s.MaxRadius)
}

// DefaultSpiralLines returns the spiral-lines defaults.
func DefaultSpiralLines() SpiralLinesSettings {
	return SpiralLinesSettings{
		Level:      "Level 1",
		MaxRadius:  2400,
		Unit:       curvegen.Centimeter,
		Turns:      10,
		Resolution: 20,
	}
}

func runSpiralLines(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DefaultSpiralLines()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	level, err := repo.Level(ctx, s.Level)
	if err != nil {
		return nil, err
	}
	segs, err := form.Spiral(curvegen.SpiralParams{
		MaxRadius:         curvegen.ToInternalLength(s.MaxRadius, s.Unit),
		Turns:             s.Turns,
		ResolutionDegrees: s.Resolution,
		Elevation:         level.Elevation,
	})
	if err != nil {
		return nil, err
	}
	monitoring.Logf("script: sketching %d spiral lines on %q", len(segs), level.Name)

	var b model.Batch
	err = repo.Transact(ctx, "Create Spiral", func(tx model.Tx) error {
		for i, seg := range segs {
			id, err := tx.CreateModelLine(seg, level.ID)
			if err != nil && !perElement(err) {
				return err
			}
			b.Add(segmentItem(i), id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Report: model.NewReport("model lines created", &b), Segments: segs}, nil
}

// SpiralWallsSettings configure spiral-walls.
type SpiralWallsSettings struct {
	Level string `json:"level"`
	// WallType falls back to the first basic wall type when empty or absent.
	WallType string `json:"wallType"`
	// MaxRadius and Height are in Unit.
	MaxRadius  float64       `json:"maxRadius"`
	Height     float64       `json:"height"`
	Unit       curvegen.Unit `json:"unit"`
	Turns      int           `json:"turns"`
	Resolution float64       `json:"resolutionDegrees"`
}

func (s *SpiralWallsSettings) Validate() error {
	if err := required("level", s.Level); err != nil {
		return err
	}
	if err := positive("max radius", s.MaxRadius); err != nil {
		return err
	}
	return positive("height", s.Height)
}

// DefaultSpiralWalls returns the spiral-walls defaults.
func DefaultSpiralWalls() SpiralWallsSettings {
	return SpiralWallsSettings{
		Level:      "Level 1",
		MaxRadius:  24,
		Height:     3,
		Unit:       curvegen.Meter,
		Turns:      5,
		Resolution: 30,
	}
}

func runSpiralWalls(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DefaultSpiralWalls()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	level, err := repo.Level(ctx, s.Level)
	if err != nil {
		return nil, err
	}
	var notes []string
	wt, err := wallType(ctx, repo, s.WallType, true, &notes)
	if err != nil {
		return nil, err
	}
	all, err := form.Spiral(curvegen.SpiralParams{
		MaxRadius:         curvegen.ToInternalLength(s.MaxRadius, s.Unit),
		Turns:             s.Turns,
		ResolutionDegrees: s.Resolution,
		Elevation:         level.Elevation,
	})
	if err != nil {
		return nil, err
	}
	segs := make([]curvegen.Segment, 0, len(all))
	for _, seg := range all {
		if seg.Length() > MinWallLength {
			segs = append(segs, seg)
		}
	}
	if short := len(all) - len(segs); short > 0 {
		notes = append(notes, fmt.Sprintf("%d segment(s) shorter than %g m left out", short, MinWallLength))
	}
	height := curvegen.ToInternalLength(s.Height, s.Unit)

	var b model.Batch
	err = repo.Transact(ctx, "Create Spiral Walls", func(tx model.Tx) error {
		return buildWalls(tx, &b, segs, segmentItem, wt, level.ID, height)
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Report:        newReport("walls created", &b, notes),
		Segments:      segs,
		WallHeight:    height,
		WallThickness: wt.Width,
	}, nil
}

// SpiralHouseSettings configure spiral-house.
type SpiralHouseSettings struct {
	WallType string `json:"wallType"`
	// Width, Depth and Height are in Unit.
	Width  float64       `json:"width"`
	Depth  float64       `json:"depth"`
	Height float64       `json:"height"`
	Unit   curvegen.Unit `json:"unit"`
	// Increment is the extra rotation of each level over the one below.
	Increment float64 `json:"incrementDegrees"`
}

func (s *SpiralHouseSettings) Validate() error {
	return positive("height", s.Height)
}

// DefaultSpiralHouse returns the spiral-house defaults.
func DefaultSpiralHouse() SpiralHouseSettings {
	return SpiralHouseSettings{
		WallType:  "Generic - 200mm",
		Width:     10,
		Depth:     20,
		Height:    3,
		Unit:      curvegen.Meter,
		Increment: 5,
	}
}

func runSpiralHouse(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DefaultSpiralHouse()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	levels, err := repo.Levels(ctx)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels: %w", curvegen.ErrNotFound)
	}
	var notes []string
	wt, err := wallType(ctx, repo, s.WallType, true, &notes)
	if err != nil {
		return nil, err
	}
	elevations := make([]float64, len(levels))
	for i, l := range levels {
		elevations[i] = l.Elevation
	}
	rings, err := form.Stack(curvegen.StackParams{
		Elevations:       elevations,
		Width:            curvegen.ToInternalLength(s.Width, s.Unit),
		Depth:            curvegen.ToInternalLength(s.Depth, s.Unit),
		IncrementDegrees: s.Increment,
	})
	if err != nil {
		return nil, err
	}
	for _, r := range rings {
		if r.Skipped > 0 {
			notes = append(notes, fmt.Sprintf("level %q: %d wall(s) skipped, segment too short", levels[r.Index].Name, r.Skipped))
		}
	}
	height := curvegen.ToInternalLength(s.Height, s.Unit)

	var b model.Batch
	err = repo.Transact(ctx, "Create Spiral House", func(tx model.Tx) error {
		for _, r := range rings {
			level := levels[r.Index]
			item := func(i int) string { return fmt.Sprintf("level %q side %d", level.Name, i+1) }
			if err := buildWalls(tx, &b, r.Ring, item, wt, level.ID, height); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	notes = append(notes, fmt.Sprintf("%d level(s) using %q", len(levels), wt.Name))
	segs := make([]curvegen.Ring, len(rings))
	for i, r := range rings {
		segs[i] = r.Ring
	}
	return &Result{
		Report:        newReport("walls created", &b, notes),
		Segments:      curvegen.Segments(segs...),
		WallHeight:    height,
		WallThickness: wt.Width,
	}, nil
}

// SpiralMassSettings configure spiral-mass.
type SpiralMassSettings struct {
	BaseLevel string `json:"baseLevel"`
	TopLevel  string `json:"topLevel"`
	Segments  int    `json:"segments"`
	// BaseSide and TopSide are in Unit.
	BaseSide        float64       `json:"baseSide"`
	TopSide         float64       `json:"topSide"`
	Unit            curvegen.Unit `json:"unit"`
	Rotation        float64       `json:"rotationDegrees"`
	Clockwise       bool          `json:"clockwise"`
	Twist           float64       `json:"twistDegrees"`
	SegmentsPerSide int           `json:"segmentsPerSide"`
	Bulge           struct {
		Factor      float64 `json:"factor"`
		CenterRatio float64 `json:"centerRatio"`
		RadiusRatio float64 `json:"radiusRatio"`
	} `json:"bulge"`
	// CenterX and CenterY position the mass in metres.
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
}

func (s *SpiralMassSettings) Validate() error {
	if err := required("base level", s.BaseLevel); err != nil {
		return err
	}
	return required("top level", s.TopLevel)
}

// DefaultSpiralMass returns the spiral-mass defaults.
func DefaultSpiralMass() SpiralMassSettings {
	s := SpiralMassSettings{
		BaseLevel:       "Level 1",
		TopLevel:        "Level 42",
		Segments:        82,
		BaseSide:        1000,
		TopSide:         1000,
		Unit:            curvegen.Centimeter,
		Rotation:        360,
		Clockwise:       true,
		SegmentsPerSide: 2,
	}
	s.Bulge.Factor = 3
	s.Bulge.CenterRatio = 0.2
	s.Bulge.RadiusRatio = 0.3
	return s
}

func runSpiralMass(ctx context.Context, repo model.Repository, raw json.RawMessage) (*Result, error) {
	s := DefaultSpiralMass()
	if err := decode(raw, &s); err != nil {
		return nil, err
	}
	base, err := repo.Level(ctx, s.BaseLevel)
	if err != nil {
		return nil, err
	}
	top, err := repo.Level(ctx, s.TopLevel)
	if err != nil {
		return nil, err
	}
	p := curvegen.LoftParams{
		BaseElevation:   base.Elevation,
		TopElevation:    top.Elevation,
		Segments:        s.Segments,
		BaseSide:        curvegen.ToInternalLength(s.BaseSide, s.Unit),
		TopSide:         curvegen.ToInternalLength(s.TopSide, s.Unit),
		RotationDegrees: s.Rotation,
		Clockwise:       s.Clockwise,
		TwistDegrees:    s.Twist,
		SegmentsPerSide: s.SegmentsPerSide,
		Bulge: curvegen.BulgeParams{
			Factor:      s.Bulge.Factor,
			CenterRatio: s.Bulge.CenterRatio,
			RadiusRatio: s.Bulge.RadiusRatio,
		},
		Center: r2.Vec{X: s.CenterX, Y: s.CenterY},
	}
	stack, err := form.Loft(p)
	if err != nil {
		return nil, err
	}
	notes := []string{
		fmt.Sprintf("base %q at %.2f m, top %q at %.2f m", base.Name, base.Elevation, top.Name, top.Elevation),
		fmt.Sprintf("%d segments, %d profiles", len(stack)-1, len(stack)),
	}
	if s.Segments < curvegen.MinLoftSegments {
		notes = append(notes, fmt.Sprintf("segments raised from %d to %d", s.Segments, curvegen.MinLoftSegments))
	}

	var b model.Batch
	err = repo.Transact(ctx, "Create Spiral Mass", func(tx model.Tx) error {
		id, err := tx.CreateLoft(model.LoftSpec{Stack: stack, Base: base.ID, Top: top.ID})
		if err != nil && !perElement(err) {
			return err
		}
		b.Add("loft", id, err)
		return nil
	})
	if err != nil {
		return nil, err
	}
	var segs []curvegen.Segment
	for _, pr := range stack {
		segs = append(segs, pr.Ring...)
	}
	return &Result{
		Report:   newReport("masses created", &b, notes),
		Segments: segs,
		Profiles: stack,
	}, nil
}
