// Package scenario replays scripted drawing sessions against an
// application without a terminal.
//
// A scenario is a YAML or JSON file:
//
//	name: endpoint snap
//	view: {width: 800, height: 600}
//	snap:
//	  types: [endpoint]
//	setup:
//	  - name: edge
//	    line: {start: [0, 0], end: [10, 0]}
//	command: create.line
//	events:
//	  - move: [503, 300]
//	    expectTip: End point
//	  - key: Esc
//	expect:
//	  outcome: cancelled
//	  outstanding: 0
//
// Move and click take view pixels; hover and pick take world points that
// are projected through the view. A click or pick is a move followed by a
// left press and release. Type submits text to the open input field.
//
// Runner.Run feeds the events through the document's viewer, records the
// prompts and tips after each one and checks the expectations.
package scenario
