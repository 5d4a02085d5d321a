// Package command sequences the inputs of a drafting command and commits
// its edit.
//
// A Definition lists the steps a command needs and the mutation it applies
// once every step resolved. The Driver runs the steps one after the other,
// keeps their results in order, and executes the mutation inside a single
// document transaction named "execute <command>". Cancelling any step
// aborts the command without touching the document.
//
// A Definition may also implement Restarter to continue from an earlier
// step after a commit. The line command uses this to chain segments:
//
//	d := command.NewDriver(doc, command.NewLine())
//	d.Start(func(o command.Outcome, err error) { ... })
//
// Commands are looked up by name through a Registry.
package command
