package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/paracore/curvegen"
	"github.com/paracore/curvegen/internal/monitoring"
	"github.com/paracore/curvegen/model"
)

// wallType resolves the wall type called name. With fallback set, a missing
// or empty name falls back to the first basic wall type that is not stacked
// and the substitution is noted in notes.
func wallType(ctx context.Context, repo model.Repository, name string, fallback bool, notes *[]string) (model.ElementType, error) {
	if name != "" {
		t, err := repo.ElementType(ctx, model.KindWall, name)
		if err == nil || !fallback {
			return t, err
		}
	}
	if !fallback {
		return model.ElementType{}, curvegen.Errorf("wall type", "required")
	}
	types, err := repo.ElementTypes(ctx, model.KindWall)
	if err != nil {
		return model.ElementType{}, err
	}
	for _, t := range types {
		if t.Basic() && !strings.Contains(t.Name, "Stacked") {
			if name != "" {
				*notes = append(*notes, fmt.Sprintf("wall type %q not found, using %q", name, t.Name))
				monitoring.Logf("script: wall type %q not found, using %q", name, t.Name)
			}
			return t, nil
		}
	}
	return model.ElementType{}, fmt.Errorf("no basic wall type: %w", curvegen.ErrNotFound)
}

// buildWalls creates one wall per segment. Refused walls are recorded in b.
func buildWalls(tx model.Tx, b *model.Batch, segs []curvegen.Segment, item func(i int) string, t model.ElementType, level model.ElementID, height float64) error {
	for i, s := range segs {
		id, err := tx.CreateWall(model.WallSpec{Curve: s, Type: t.ID, Level: level, Height: height})
		if err != nil && !perElement(err) {
			return err
		}
		b.Add(item(i), id, err)
	}
	return nil
}

func segmentItem(i int) string { return fmt.Sprintf("segment %d", i) }

func newReport(action string, b *model.Batch, notes []string) *model.Report {
	r := model.NewReport(action, b)
	r.Notes = append(notes, r.Notes...)
	return r
}
