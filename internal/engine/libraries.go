package engine

import (
	"context"

	"github.com/droidaudit/droidaudit/internal/detectors"
	"github.com/droidaudit/droidaudit/internal/types"
)

// DetectLibraries walks the sources tree once and records, per catalog
// entry, the files referencing it and its import statements. Advertising
// and tracking SDKs also keep up to MaxEvidence context snippets. Only
// detected entries are returned, in catalog order.
func DetectLibraries(ctx context.Context, p *Provider, libs []detectors.Library, width int) ([]types.LibraryDetection, error) {
	if width <= 0 {
		width = DefaultContextWidth
	}
	acc := make([]types.LibraryDetection, len(libs))
	for i, l := range libs {
		acc[i] = types.LibraryDetection{Name: l.Name, Kind: string(l.Kind)}
	}
	for u, err := range p.Units(ctx, detectors.SourcesTree) {
		if err != nil {
			return nil, err
		}
		for i, l := range libs {
			d := &acc[i]
			if l.Kind == detectors.KindLibrary {
				if !l.Pattern.MatchString(u.Content) {
					continue
				}
			} else {
				locs := l.Pattern.FindAllStringIndex(u.Content, -1)
				if len(locs) == 0 {
					continue
				}
				for _, loc := range locs {
					if len(d.Evidence) >= types.MaxEvidence {
						break
					}
					d.Evidence = append(d.Evidence, types.Evidence{File: u.Path, Context: Window(u.Content, loc[0], loc[1], width)})
				}
			}
			d.Detected = true
			d.Files = append(d.Files, u.Path)
			d.ImportCount += len(l.Import.FindAllStringIndex(u.Content, -1))
		}
	}
	var out []types.LibraryDetection
	for _, d := range acc {
		if d.Detected {
			out = append(out, d)
		}
	}
	return out, nil
}
