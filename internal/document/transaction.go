package document

import (
	"fmt"

	"github.com/dshills/draftsnap/internal/engine/history"
)

// Transaction records the model changes of one undoable edit.
type Transaction struct {
	label string
	ops   history.OperationList
}

// Label returns the transaction name shown in the undo history.
func (t *Transaction) Label() string { return t.label }

// Len returns the number of recorded changes.
func (t *Transaction) Len() int { return len(t.ops) }

// Execute runs mutation as one transaction named label. Every change the
// mutation makes is committed as a single undo entry. When the mutation
// returns an error or panics, the changes are rolled back and no entry is
// created. A nested call joins the enclosing transaction.
func Execute(doc *Document, label string, mutation func() error) error {
	doc.mu.Lock()
	if doc.tx != nil {
		doc.mu.Unlock()
		return mutation()
	}
	tx := &Transaction{label: label}
	doc.tx = tx
	doc.mu.Unlock()
	doc.history.BeginGroup(label)

	defer func() {
		if r := recover(); r != nil {
			doc.rollback(tx)
			panic(r)
		}
	}()

	if err := mutation(); err != nil {
		doc.rollback(tx)
		doc.logger.Debug("transaction rolled back", "label", label, "changes", tx.Len(), "error", err)
		return fmt.Errorf("%s: %w", label, err)
	}
	doc.commit(tx)
	return nil
}

// InTransaction reports whether a transaction is recording.
func (d *Document) InTransaction() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tx != nil
}

// commit closes the history group; the recorded changes become one entry.
func (d *Document) commit(tx *Transaction) {
	d.mu.Lock()
	d.tx = nil
	d.mu.Unlock()

	d.history.EndGroup()
	if tx.Len() == 0 {
		return
	}
	d.logger.Debug("transaction committed", "label", tx.label, "changes", tx.Len())
	d.notifyChanged()
}

func (d *Document) rollback(tx *Transaction) {
	d.mu.Lock()
	d.tx = nil
	d.mu.Unlock()

	d.history.CancelGroup()
	store := modelStore{d}
	for _, op := range tx.ops.Invert() {
		op.Apply(store)
	}
}
