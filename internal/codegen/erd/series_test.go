package erd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geappliances/erdgen/internal/codegen/erd"
)

func TestCategorize(t *testing.T) {
	groups := erd.Categorize([]string{"0xD010", "0x1003", "0x1001", "garbage", "0x1001", "0x0002"})
	assert.Equal(t, []erd.Group{
		{Series: 0x0000, Members: []erd.ERD{0x0002}},
		{Series: 0x1000, Members: []erd.ERD{0x1001, 0x1003}},
		{Series: 0xD000, Members: []erd.ERD{0xD010}},
	}, groups)
}

func TestCategorizeEmpty(t *testing.T) {
	assert.Empty(t, erd.Categorize(nil))
	assert.Empty(t, erd.Categorize([]string{"0x", "zz"}))
}

func TestFeatureGroupsElidesCommonAndEnergy(t *testing.T) {
	dishwasher := erd.NewSet(0x1003, 0xD010, 0x0001)
	groups := erd.FeatureGroups(dishwasher)
	assert.Equal(t, []erd.Group{{Series: 0x1000, Members: []erd.ERD{0x1003}}}, groups)
}

func TestSplitEnergy(t *testing.T) {
	features := map[string]erd.Set{
		"dishwasher":    erd.NewSet(0x1003, 0xD010),
		"refrigeration": erd.NewSet(0x2000, 0xD010, 0xD004),
	}
	energy := erd.SplitEnergy(features)
	assert.Equal(t, []string{"0xD004", "0xD010"}, energy.Tokens())
}

func TestSetUnion(t *testing.T) {
	s := erd.NewSet(0x0002)
	s.Union(erd.NewSet(0x0001, 0x0002))
	assert.Equal(t, []erd.ERD{0x0001, 0x0002}, s.Sorted())
	assert.True(t, s.Has(0x0001))
	assert.False(t, s.Has(0x0003))
}
