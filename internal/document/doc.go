// Package document holds the models a drafting session edits.
//
// A Document owns its models, the current selection, the viewer that routes
// input to pick handlers, the notice channel those handlers publish on, and
// an undo history. Every change to the model set is recorded as a history
// operation; changes made inside Execute are committed as one undo entry or
// rolled back together when the mutation fails.
//
//	err := document.Execute(doc, "execute line", func() error {
//	    _, err := doc.AddModel("line", document.Line{Start: a, End: b})
//	    return err
//	})
//
// Models keep a stable identity across undo and redo: undoing a removal
// brings back the same *Model value.
package document
