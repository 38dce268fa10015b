package organizer

import (
	"context"

	"photosort/internal/location"
	"photosort/internal/logging"
)

// PreviewItem is one planned relocation.
type PreviewItem struct {
	Source   string
	Target   string
	Location string
	HasGPS   bool
	HasDate  bool
}

// Preview plans up to limit files without touching the filesystem and
// returns them with the total number of candidate files. Coordinates are
// classified so the preview shows real folder names; planned targets are
// reserved so later entries see earlier collisions.
func (o *Organizer) Preview(ctx context.Context, limit int) ([]PreviewItem, int, error) {
	scan, err := o.opts.Scanner.Scan(ctx, o.opts.Source)
	if err != nil {
		return nil, 0, err
	}
	files := scan.Files
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	defer o.opts.Planner.ResetReservations()

	items := make([]PreviewItem, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return items, len(scan.Files), err
		}
		item, err := o.opts.Extractor.Extract(ctx, path)
		if err != nil {
			o.logger.Debug("preview skipped file", logging.String(logging.FieldFile, path), logging.Error(err))
			continue
		}
		name := ""
		if item.HasGPS() && o.opts.Classifier != nil {
			result, err := o.opts.Classifier.Classify(ctx, item.GPS.Latitude, item.GPS.Longitude)
			if err != nil {
				return items, len(scan.Files), err
			}
			name = result.Name
		}
		plan := o.opts.Planner.Plan(item, name)
		target, err := o.opts.Planner.ResolveCollision(plan.Path(), item)
		if err != nil {
			continue
		}
		o.opts.Planner.Reserve(target)
		if name == "" {
			name = location.Unknown
		}
		items = append(items, PreviewItem{
			Source:   path,
			Target:   o.opts.Planner.RelativePath(target),
			Location: name,
			HasGPS:   item.HasGPS(),
			HasDate:  item.HasDate(),
		})
	}
	return items, len(scan.Files), nil
}
