package snap

import (
	"math"
	"strconv"
	"strings"

	"github.com/dshills/draftsnap/internal/geom"
	"github.com/dshills/draftsnap/internal/i18n"
	"github.com/dshills/draftsnap/internal/view"
)

// InputParser converts typed text into a point. InputError is always called
// first; PointFromInput is only called when it returned "".
// last is the candidate under the cursor when the text was submitted.
type InputParser interface {
	InputError(text string, last *Candidate) i18n.Key
	PointFromInput(v view.View, text string, last *Candidate) geom.Point
}

// parseNumbers splits text on commas. Every field must be a finite number.
func parseNumbers(text string) ([]float64, bool) {
	fields := strings.Split(text, ",")
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		nums = append(nums, n)
	}
	return nums, true
}

// PointParser reads comma separated numbers:
//
//	1 value:  distance from the reference point toward the cursor
//	2 values: x, y offset in the workplane from the reference point (or workplane origin)
//	3 values: x, y, z offset from the reference point (or the world origin)
type PointParser struct {
	Dimension Dimension
	RefPoint  *geom.Point
}

// InputError implements InputParser.
func (p PointParser) InputError(text string, last *Candidate) i18n.Key {
	nums, ok := parseNumbers(text)
	if !ok {
		return i18n.ErrInputInvalidNumber
	}
	switch len(nums) {
	case 1:
		if !p.Dimension.Has(D1) {
			return i18n.ErrInputValueCount
		}
		if p.RefPoint == nil {
			return i18n.ErrInputNoReference
		}
		if last == nil || geom.Equal(last.Point, *p.RefPoint, geom.Tolerance) {
			return i18n.ErrInputNoDirection
		}
		if nums[0] == 0 {
			return i18n.ErrInputZeroLength
		}
	case 2:
		if !p.Dimension.Has(D2) {
			return i18n.ErrInputValueCount
		}
	case 3:
		if !p.Dimension.Has(D3) {
			return i18n.ErrInputValueCount
		}
	default:
		return i18n.ErrInputValueCount
	}
	return ""
}

// PointFromInput implements InputParser.
func (p PointParser) PointFromInput(v view.View, text string, last *Candidate) geom.Point {
	nums, _ := parseNumbers(text)
	plane := v.Workplane()
	switch len(nums) {
	case 1:
		dir := geom.Normalize(geom.Sub(last.Point, *p.RefPoint))
		return geom.Add(*p.RefPoint, geom.Scale(dir, nums[0]))
	case 2:
		base := plane.Origin
		if p.RefPoint != nil {
			base = *p.RefPoint
		}
		return plane.Translate(base).World(nums[0], nums[1], 0)
	default:
		base := geom.Origin
		if p.RefPoint != nil {
			base = *p.RefPoint
		}
		return geom.Add(base, geom.XYZ(nums[0], nums[1], nums[2]))
	}
}

// AxisParser reads one signed length along an axis.
type AxisParser struct {
	Origin    geom.Point
	Direction geom.Point
}

// InputError implements InputParser.
func (p AxisParser) InputError(text string, _ *Candidate) i18n.Key {
	nums, ok := parseNumbers(text)
	if !ok {
		return i18n.ErrInputInvalidNumber
	}
	if len(nums) != 1 {
		return i18n.ErrInputValueCount
	}
	if nums[0] == 0 {
		return i18n.ErrInputZeroLength
	}
	return ""
}

// PointFromInput implements InputParser.
func (p AxisParser) PointFromInput(_ view.View, text string, _ *Candidate) geom.Point {
	nums, _ := parseNumbers(text)
	return geom.Add(p.Origin, geom.Scale(geom.Normalize(p.Direction), nums[0]))
}
