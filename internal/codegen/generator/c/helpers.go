package cgen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/geappliances/erdgen/internal/codegen/common"
	"github.com/geappliances/erdgen/internal/codegen/erd"
	"github.com/geappliances/erdgen/internal/codegen/meta"
	"github.com/geappliances/erdgen/internal/codegen/scanner"
)

// erdsPerLine matches the layout of the hand-written lists in the bridge.
const erdsPerLine = 8

func tplFuncs() template.FuncMap {
	return template.FuncMap{
		"cstring":     common.CString,
		"upper":       func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
		"erdValues":   erdValues,
		"seriesArray": seriesArray,
		"seriesCount": seriesCount,
		"seriesIndex": seriesIndex,
		"hex4":        func(e erd.ERD) string { return e.String() },
		"hex2":        func(v int) string { return fmt.Sprintf("0x%02X", v) },
		"lookupCases": lookupCases,
		"millis":      func(b meta.Build) int64 { return b.PollingInterval.Milliseconds() },
		"defaultName": func() string { return scanner.DefaultApplianceName },
	}
}

// erdValues renders the body of an ERD array initializer. An empty list gets a
// single placeholder element since C++ forbids zero-length arrays; its count
// constant stays 0.
func erdValues(erds []erd.ERD) string {
	if len(erds) == 0 {
		return "  0x0000 /* empty */"
	}
	var b strings.Builder
	for i, e := range erds {
		if i%erdsPerLine == 0 {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("  ")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(e.String())
		if i < len(erds)-1 {
			b.WriteString(",")
		}
	}
	return b.String()
}

// seriesArray names the array holding one feature's registers in one series,
// e.g. "dishwasherSeries1000Erds".
func seriesArray(f meta.Feature, g erd.Group) string {
	return fmt.Sprintf("%sSeries%04XErds", f.Ident, uint16(g.Series))
}

func seriesCount(f meta.Feature, g erd.Group) string {
	return fmt.Sprintf("%sSeries%04XErdCount", f.Ident, uint16(g.Series))
}

func seriesIndex(f meta.Feature) string {
	return f.Ident + "ErdSeries"
}

// lookupCases renders one case per appliance type in ascending order.
// Types whose name sanitized to nothing fall through to the default.
func lookupCases(types scanner.ApplianceTypes) string {
	var b strings.Builder
	for _, k := range common.SortedKeys(types) {
		name := types[k]
		if name == "" {
			continue
		}
		fmt.Fprintf(&b, "    case %d: return %s;\n", k, common.CString(name))
	}
	return b.String()
}
