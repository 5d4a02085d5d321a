package history

import (
	"fmt"
)

// Command represents an edit that can be executed and undone.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute(s Store) error

	// Undo reverses the command and returns an error if it fails.
	Undo(s Store) error

	// Description returns a human-readable description of the command.
	Description() string
}

// ChangeCommand replays a recorded list of operations.
type ChangeCommand struct {
	Name       string
	Operations OperationList
}

// NewChangeCommand creates a change command from recorded operations.
func NewChangeCommand(name string, ops ...*Operation) *ChangeCommand {
	return &ChangeCommand{Name: name, Operations: ops}
}

// Execute applies every operation in order.
func (c *ChangeCommand) Execute(s Store) error {
	for _, op := range c.Operations {
		op.Apply(s)
	}
	return nil
}

// Undo applies the inverse operations in reverse order.
func (c *ChangeCommand) Undo(s Store) error {
	for _, op := range c.Operations.Invert() {
		op.Apply(s)
	}
	return nil
}

// Description returns the command name, or a summary of the changes.
func (c *ChangeCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Operations) == 1 {
		return fmt.Sprintf("Change %s", c.Operations[0].Key)
	}
	return fmt.Sprintf("Change %d entries", len(c.Operations.Keys()))
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute(s Store) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(s); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(s)
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo(s Store) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(s); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d changes", len(c.Commands))
}
