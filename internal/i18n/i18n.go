// Package i18n holds the message keys shown to the user and their English
// text. Components pass keys around; only the presentation layer translates.
package i18n

import (
	"fmt"
	"sort"
)

// Key identifies a localizable message.
type Key string

// Snap captions.
const (
	SnapEndPoint     Key = "snap.endPoint"
	SnapMidPoint     Key = "snap.midPoint"
	SnapCenter       Key = "snap.center"
	SnapIntersection Key = "snap.intersection"
	SnapPlane        Key = "snap.plane"
	SnapAxis         Key = "snap.axis"
	SnapFeature      Key = "snap.feature"
)

// Prompts.
const (
	PromptPickFirstPoint  Key = "prompt.pickFirstPoint"
	PromptPickNextPoint   Key = "prompt.pickNextPoint"
	PromptPickCorner      Key = "prompt.pickCorner"
	PromptPickOpposite    Key = "prompt.pickOpposite"
	PromptPickHeight      Key = "prompt.pickHeight"
	PromptPickBasePoint   Key = "prompt.pickBasePoint"
	PromptPickTargetPoint Key = "prompt.pickTargetPoint"
	PromptSelectModels    Key = "prompt.selectModels"
	PromptSelectEdges     Key = "prompt.selectEdges"
	PromptSelectShapes    Key = "prompt.selectShapes"
	PromptConfirmPick     Key = "prompt.confirmPick"
)

// Tips.
const (
	TipDistance Key = "tip.distance"
	TipLength   Key = "tip.length"
)

// Input and command errors.
const (
	ErrInputInvalidNumber Key = "error.input.invalidNumber"
	ErrInputValueCount    Key = "error.input.valueCount"
	ErrInputNoReference   Key = "error.input.noReference"
	ErrInputNoDirection   Key = "error.input.noDirection"
	ErrInputZeroLength    Key = "error.input.zeroLength"
	ErrInputRejected      Key = "error.input.rejected"
	ErrCommandDegenerate  Key = "error.command.degenerate"
	ErrCommandFailed      Key = "error.command.failed"
)

var english = map[Key]string{
	SnapEndPoint:          "End point",
	SnapMidPoint:          "Mid point",
	SnapCenter:            "Center",
	SnapIntersection:      "Intersection",
	SnapPlane:             "Plane",
	SnapAxis:              "Axis",
	SnapFeature:           "Feature point",
	PromptPickFirstPoint:  "Pick the first point",
	PromptPickNextPoint:   "Pick the next point",
	PromptPickCorner:      "Pick the first corner",
	PromptPickOpposite:    "Pick the opposite corner",
	PromptPickHeight:      "Pick the height",
	PromptPickBasePoint:   "Pick the base point",
	PromptPickTargetPoint: "Pick the target point",
	PromptSelectModels:    "Select models",
	PromptSelectEdges:     "Select edges",
	PromptSelectShapes:    "Select shapes",
	PromptConfirmPick:     "Press Enter to confirm",
	TipDistance:           "Distance: %s",
	TipLength:             "Length: %s",
	ErrInputInvalidNumber: "Invalid number",
	ErrInputValueCount:    "Unexpected number of values",
	ErrInputNoReference:   "A reference point is required",
	ErrInputNoDirection:   "Move the pointer to set a direction",
	ErrInputZeroLength:    "Length must not be zero",
	ErrInputRejected:      "Point rejected",
	ErrCommandDegenerate:  "Geometry is degenerate",
	ErrCommandFailed:      "Command failed: %s",
}

// Translate returns the English text for k, formatted with args.
// Unknown keys translate to themselves.
func Translate(k Key, args ...any) string {
	text, ok := english[k]
	if !ok {
		text = string(k)
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}

// Known reports whether k has a translation.
func Known(k Key) bool {
	_, ok := english[k]
	return ok
}

// Keys returns every known key, sorted.
func Keys() []Key {
	keys := make([]Key, 0, len(english))
	for k := range english {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
