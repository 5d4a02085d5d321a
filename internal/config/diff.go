package config

import (
	"reflect"

	"github.com/dshills/draftsnap/internal/config/notify"
)

type field struct {
	path  string
	value any
}

func (s Settings) fields() []field {
	return []field{
		{"snap.distance", s.Snap.Distance},
		{"snap.featureDistance", s.Snap.FeatureDistance},
		{"snap.types", s.Snap.Types},
		{"view.scale", s.View.Scale},
		{"view.pickTolerance", s.View.PickTolerance},
		{"visual.markerSize", s.Visual.MarkerSize},
		{"visual.markerColor", s.Visual.MarkerColor},
		{"visual.vertexSize", s.Visual.VertexSize},
		{"visual.vertexColor", s.Visual.VertexColor},
		{"history.maxEntries", s.History.MaxEntries},
		{"logging.level", s.Logging.Level},
		{"logging.format", s.Logging.Format},
		{"logging.output", s.Logging.Output},
		{"plugins.validators", s.Plugins.Validators},
	}
}

// Diff returns one change per setting that differs between old and cur,
// in declaration order.
func Diff(old, cur Settings, source string) []notify.Change {
	before, after := old.fields(), cur.fields()
	var out []notify.Change
	for i := range after {
		if reflect.DeepEqual(before[i].value, after[i].value) {
			continue
		}
		out = append(out, notify.Change{
			Path:     after[i].path,
			Type:     notify.ChangeSet,
			OldValue: before[i].value,
			NewValue: after[i].value,
			Source:   source,
		})
	}
	return out
}
