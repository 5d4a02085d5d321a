// Package key defines the keyboard events delivered to viewport handlers.
//
// An Event is either a special key (Escape, Enter, Backspace, ...) or a
// character carried in Rune. Scenario files and the terminal backend both
// produce Events; Parse accepts the textual form used in scenarios:
//
//   - Simple keys: "a", "5", "-", "Enter", "Esc"
//   - With modifiers: "Ctrl+Z", "Shift+Tab"
package key
