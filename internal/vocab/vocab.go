// Package vocab holds the controlled vocabularies for categories, sizes,
// staff roles and memo categories, plus the validator tags that enforce them.
package vocab

import (
	"slices"
	"strconv"
)

// AllCategories is the filter value meaning "no category filter". It is never
// a valid category for a stock line.
const AllCategories = "전체보기"

// ShoeCategory is the category whose items are sized with ShoeSizes.
const ShoeCategory = "신발"

var (
	ClothingSizes  = []string{"S", "M", "L", "XL", "2XL", "3XL", "4XL", "Free"}
	ShoeSizes      = shoeSizes(250, 320, 5)
	Categories     = []string{"하계용품", "동계용품", "연습복", "유니폼", "양말", ShoeCategory}
	StaffRoles     = []string{"감독", "수석코치", "코치", "트레이너", "전력분석", "통역", "매니저", "닥터"}
	MemoCategories = []string{"팀 연혁", "드래프트", "트레이드", "입/퇴사", "부상/재활", "기타 비고"}
	TargetTypes    = []string{"player", "staff"}
)

func shoeSizes(from, to, step int) []string {
	sizes := make([]string, 0, (to-from)/step+1)
	for s := from; s <= to; s += step {
		sizes = append(sizes, strconv.Itoa(s))
	}
	return sizes
}

func IsCategory(s string) bool { return slices.Contains(Categories, s) }
func IsClothingSize(s string) bool { return slices.Contains(ClothingSizes, s) }
func IsShoeSize(s string) bool { return slices.Contains(ShoeSizes, s) }
func IsStaffRole(s string) bool { return slices.Contains(StaffRoles, s) }
func IsMemoCategory(s string) bool { return slices.Contains(MemoCategories, s) }
func IsTargetType(s string) bool { return slices.Contains(TargetTypes, s) }
func IsCategoryFilter(s string) bool { return s == "" || s == AllCategories || IsCategory(s) }

// SizesFor returns the size vocabulary used by items of category.
func SizesFor(category string) []string {
	if category == ShoeCategory {
		return ShoeSizes
	}
	return ClothingSizes
}

// ValidSize reports whether size belongs to the vocabulary of category.
func ValidSize(category, size string) bool {
	return slices.Contains(SizesFor(category), size)
}

// Snapshot is the serialisable form of every vocabulary.
type Snapshot struct {
	ClothingSizes  []string `json:"clothing_sizes"`
	ShoeSizes      []string `json:"shoe_sizes"`
	Categories     []string `json:"categories"`
	AllCategories  string   `json:"all_categories"`
	StaffRoles     []string `json:"staff_roles"`
	MemoCategories []string `json:"memo_categories"`
	TargetTypes    []string `json:"target_types"`
}

func Current() Snapshot {
	return Snapshot{
		ClothingSizes:  slices.Clone(ClothingSizes),
		ShoeSizes:      slices.Clone(ShoeSizes),
		Categories:     slices.Clone(Categories),
		AllCategories:  AllCategories,
		StaffRoles:     slices.Clone(StaffRoles),
		MemoCategories: slices.Clone(MemoCategories),
		TargetTypes:    slices.Clone(TargetTypes),
	}
}
