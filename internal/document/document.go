package document

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/engine/history"
	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/notice"
	"github.com/dshills/draftsnap/internal/view"
)

// PointValidator accepts or rejects a picked point for every point step of
// the document.
type PointValidator func(p geom.Point) bool

// ChangeCallback is called after models were added, removed or changed.
type ChangeCallback func()

// Document is the set of models of one drafting session.
//
// Document is safe for concurrent reads; edits are expected on the UI
// goroutine.
type Document struct {
	mu sync.RWMutex

	id   uuid.UUID
	name string

	models map[string]*Model
	tx     *Transaction

	selection *Selection
	viewer    *view.Viewer
	notices   *notice.Channel
	history   *history.History
	logger    hclog.Logger

	validators []PointValidator
	callbacks  []ChangeCallback

	maxUndoEntries int
}

// New creates an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		id:             uuid.New(),
		name:           "untitled",
		models:         make(map[string]*Model),
		selection:      &Selection{},
		logger:         hclog.NewNullLogger(),
		maxUndoEntries: history.DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.viewer == nil {
		d.viewer = view.NewViewer(nil)
	}
	if d.notices == nil {
		d.notices = notice.NewChannel()
	}
	d.history = history.NewHistory(d.maxUndoEntries)
	d.logger = d.logger.With("document", d.id.String())
	return d
}

// ID returns the document identifier.
func (d *Document) ID() uuid.UUID { return d.id }

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// Selection returns the document selection.
func (d *Document) Selection() *Selection { return d.selection }

// Viewer returns the viewer that routes input for this document.
func (d *Document) Viewer() *view.Viewer { return d.viewer }

// Notices returns the notice channel.
func (d *Document) Notices() *notice.Channel { return d.notices }

// History returns the undo history.
func (d *Document) History() *history.History { return d.history }

// Logger returns the document logger.
func (d *Document) Logger() hclog.Logger { return d.logger }

// Models returns the models in creation order.
func (d *Document) Models() []*Model {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Model, 0, len(d.models))
	for _, m := range d.models {
		out = append(out, m)
	}
	// Model ids are time-ordered.
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Model returns the model with the given id.
func (d *Document) Model(id string) (*Model, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.models[id]
	return m, ok
}

// Len returns the number of models.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.models)
}

// Contains reports whether m is part of the document.
func (d *Document) Contains(m *Model) bool {
	if m == nil {
		return false
	}
	got, ok := d.Model(m.id)
	return ok && got == m
}

// Shapes returns the placed shapes of every model, for display.
func (d *Document) Shapes() []geom.Shape {
	models := d.Models()
	out := make([]geom.Shape, 0, len(models))
	for _, m := range models {
		if s := m.Shape(); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// ModelOfShape returns the model that owns s, either as its whole shape or
// as one of its edges.
func (d *Document) ModelOfShape(s geom.Shape) (*Model, bool) {
	if s == nil {
		return nil, false
	}
	for _, m := range d.Models() {
		if m.Owns(s.ID()) {
			return m, true
		}
	}
	return nil, false
}

// AddModel creates a model from body.
func (d *Document) AddModel(name string, body Body) (*Model, error) {
	if body == nil {
		return nil, ErrEmptyBody
	}
	m := newModel(name, body)
	shape, err := m.state.build()
	if err != nil {
		return nil, fmt.Errorf("add %s %q: %w", body.Kind(), name, err)
	}
	d.record("add "+name, history.NewAddOperation(m.id, m.state))
	m.shape = shape
	return m, nil
}

// RemoveModel deletes m from the document and the selection.
func (d *Document) RemoveModel(m *Model) error {
	if !d.Contains(m) {
		return fmt.Errorf("remove %s: %w", m, ErrUnknownModel)
	}
	d.record("remove "+m.Name(), history.NewRemoveOperation(m.id, m.state))
	return nil
}

// TranslateModel moves m by offset.
func (d *Document) TranslateModel(m *Model, offset geom.Point) error {
	if !d.Contains(m) {
		return fmt.Errorf("translate %s: %w", m, ErrUnknownModel)
	}
	after := m.state
	after.offset = geom.Add(after.offset, offset)
	if _, err := after.build(); err != nil {
		return fmt.Errorf("translate %s: %w", m, err)
	}
	d.record("move "+m.Name(), history.NewReplaceOperation(m.id, m.state, after))
	return nil
}

// SetBody replaces the definition of m.
func (d *Document) SetBody(m *Model, body Body) error {
	if !d.Contains(m) {
		return fmt.Errorf("edit %s: %w", m, ErrUnknownModel)
	}
	after := m.state
	after.body = body
	if _, err := after.build(); err != nil {
		return fmt.Errorf("edit %s: %w", m, err)
	}
	d.record("edit "+m.Name(), history.NewReplaceOperation(m.id, m.state, after))
	return nil
}

// AddPointValidator registers a validator applied by every point step.
func (d *Document) AddPointValidator(fn PointValidator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.validators = append(d.validators, fn)
}

// PointValidators returns the registered point validators.
func (d *Document) PointValidators() []PointValidator {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]PointValidator(nil), d.validators...)
}

// OnChanged registers a callback run after every committed change, undo
// and redo.
func (d *Document) OnChanged(cb ChangeCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = append(d.callbacks, cb)
}

// Undo reverts the last committed transaction.
func (d *Document) Undo() error {
	if d.InTransaction() {
		return ErrTransactionActive
	}
	if err := d.history.Undo(modelStore{d}); err != nil {
		return err
	}
	d.notifyChanged()
	return nil
}

// Redo reapplies the last undone transaction.
func (d *Document) Redo() error {
	if d.InTransaction() {
		return ErrTransactionActive
	}
	if err := d.history.Redo(modelStore{d}); err != nil {
		return err
	}
	d.notifyChanged()
	return nil
}

// record applies op and pushes it to the history. Inside a transaction the
// history is grouping, so the change joins the transaction's entry.
func (d *Document) record(label string, op *history.Operation) {
	op.Apply(modelStore{d})
	d.history.Push(history.NewChangeCommand(label, op))

	d.mu.Lock()
	tx := d.tx
	if tx != nil {
		tx.ops = append(tx.ops, op)
	}
	d.mu.Unlock()

	if tx == nil {
		d.notifyChanged()
	}
}

func (d *Document) restore(key string, state any) {
	if state == nil {
		d.mu.Lock()
		m := d.models[key]
		delete(d.models, key)
		d.mu.Unlock()
		if m != nil {
			d.selection.Remove(m)
		}
		return
	}

	s := state.(modelState)
	d.mu.Lock()
	s.model.restore(s)
	d.models[key] = s.model
	d.mu.Unlock()
}

func (d *Document) notifyChanged() {
	d.mu.RLock()
	callbacks := append([]ChangeCallback(nil), d.callbacks...)
	d.mu.RUnlock()
	for _, cb := range callbacks {
		cb()
	}
}

// modelStore applies history operations to the document.
type modelStore struct {
	d *Document
}

func (s modelStore) Restore(key string, state any) {
	s.d.restore(key, state)
}
