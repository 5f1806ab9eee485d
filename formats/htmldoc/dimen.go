package htmldoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/tyse/core/dimen"
	"github.com/npillmayer/tyse/core/percent"
)

const (
	dimenNone     uint32 = 0
	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	kindMask      uint32 = 0x000f
	dimenPercent  uint32 = 0x0100
)

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d       dimen.DU
	percent percent.Percent
	flags   uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| JustDimen dimen
	| Percentage Percent
*/

// Auto is the CSS dimension 'auto'.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// Inherit is the CSS dimension 'inherit'.
func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

// Initial is the CSS dimension 'initial'.
func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n percent.Percent) DimenT {
	return DimenT{percent: n, flags: dimenPercent}
}

func (d DimenT) String() string {
	switch {
	case d.flags&dimenPercent > 0:
		return fmt.Sprintf("%v", d.percent)
	case d.flags&kindMask == dimenAbsolute:
		return fmt.Sprintf("%v", d.d)
	case d.flags&kindMask == dimenAuto:
		return "auto"
	case d.flags&kindMask == dimenInherit:
		return "inherit"
	case d.flags&kindMask == dimenInitial:
		return "initial"
	}
	return "<none>"
}

// points per CSS unit of absolute length
var unitPoints = map[string]float64{
	"pt": 1,
	"px": 0.75,
	"pc": 12,
	"in": 72,
	"cm": 72 / 2.54,
	"mm": 7.2 / 2.54,
}

// ParseDimen parses a CSS length. Supported are the keywords auto,
// inherit and initial, absolute lengths and percentages. Lengths relative
// to fonts or to the viewport are not supported.
func ParseDimen(s string) (DimenT, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	case "0":
		return JustDimen(0), nil
	}
	if strings.HasSuffix(s, "%") {
		x, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return DimenT{}, fmt.Errorf("invalid percentage %q", s)
		}
		return Percentage(percent.FromInt(int(math.Round(x)))), nil
	}
	if len(s) < 3 {
		return DimenT{}, fmt.Errorf("invalid length %q", s)
	}
	unit := s[len(s)-2:]
	factor, ok := unitPoints[unit]
	if !ok {
		return DimenT{}, fmt.Errorf("unsupported unit in %q", s)
	}
	x, err := strconv.ParseFloat(s[:len(s)-2], 64)
	if err != nil {
		return DimenT{}, fmt.Errorf("invalid length %q", s)
	}
	return JustDimen(dimen.DU(math.Round(x * factor * float64(dimen.PT)))), nil
}

// ---------------------------------------------------------------------------

// Match starts matching a dimension:
//
//    switch m := d.Match(); m {
//    case m.Just(&du): …
//    case m.Percentage(&p): …
//    case m.IsKind(Auto()): …
//    }
//
func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

// Matcher matches kinds of dimensions. Non-matching cases return nil.
type Matcher struct {
	dimen DimenT
}

// IsKind matches dimensions of the same kind as d.
func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case d.flags == dimenNone:
		return nil
	case (m.dimen.flags&dimenPercent > 0) != (d.flags&dimenPercent > 0):
		return nil
	case (m.dimen.flags & kindMask) == (d.flags & kindMask):
		return m
	}
	return nil
}

// Just matches fixed dimensions and extracts their value.
func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.flags&kindMask == dimenAbsolute {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

// Percentage matches relative dimensions and extracts their percentage.
func (m *Matcher) Percentage(p *percent.Percent) *Matcher {
	if m.dimen.flags&dimenPercent > 0 {
		if p != nil {
			*p = m.dimen.percent
		}
		return m
	}
	return nil
}
