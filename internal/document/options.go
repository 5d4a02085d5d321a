package document

import (
	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/notice"
	"github.com/dshills/draftsnap/internal/view"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithName sets the document name.
func WithName(name string) Option {
	return func(d *Document) {
		d.name = name
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(d *Document) {
		if max > 0 {
			d.maxUndoEntries = max
		}
	}
}

// WithNotices shares an existing notice channel.
func WithNotices(c *notice.Channel) Option {
	return func(d *Document) {
		if c != nil {
			d.notices = c
		}
	}
}

// WithViewer shares an existing viewer.
func WithViewer(v *view.Viewer) Option {
	return func(d *Document) {
		if v != nil {
			d.viewer = v
		}
	}
}

// WithLogger sets the document logger.
func WithLogger(l hclog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}
