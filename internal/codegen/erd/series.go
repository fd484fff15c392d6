package erd

import "slices"

// Group is one series and its members in ascending order.
type Group struct {
	Series  ERD
	Members []ERD
}

// Categorize groups register tokens by series. Groups come back ordered by
// series; malformed tokens are skipped and duplicates collapse.
func Categorize(tokens []string) []Group {
	s := make(Set, len(tokens))
	for _, tok := range tokens {
		e, err := Parse(tok)
		if err != nil {
			continue
		}
		s.Add(e)
	}
	return CategorizeSet(s)
}

// CategorizeSet is Categorize over already parsed identifiers.
func CategorizeSet(s Set) []Group {
	bySeries := map[ERD][]ERD{}
	for e := range s {
		bySeries[e.Series()] = append(bySeries[e.Series()], e)
	}
	groups := make([]Group, 0, len(bySeries))
	for series, members := range bySeries {
		slices.Sort(members)
		groups = append(groups, Group{Series: series, Members: members})
	}
	slices.SortFunc(groups, func(a, b Group) int { return int(a.Series) - int(b.Series) })
	return groups
}

// SplitEnergy extracts the energy/diagnostics series from the union of all
// feature sets so it can be emitted once instead of per feature.
func SplitEnergy(features map[string]Set) (energy Set) {
	energy = Set{}
	for _, s := range features {
		for e := range s {
			if e.Series() == EnergySeries {
				energy.Add(e)
			}
		}
	}
	return energy
}

// FeatureGroups returns the series groups of a feature set that are emitted
// per feature, i.e. everything outside the common and energy series.
func FeatureGroups(s Set) []Group {
	all := CategorizeSet(s)
	out := all[:0]
	for _, g := range all {
		if g.Series == CommonSeries || g.Series == EnergySeries {
			continue
		}
		out = append(out, g)
	}
	return out
}
