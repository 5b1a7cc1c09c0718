package keyword

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// GroupMode selects the shape of a grouping projection.
type GroupMode string

const (
	// ModePlain yields a list of groups, each a list of {id, word} items.
	ModePlain GroupMode = "plain"
	// ModeWithIndex yields one record per group carrying its group index.
	ModeWithIndex GroupMode = "with_index"
	// ModeWithReport yields one record per (report, group) link pair.
	ModeWithReport GroupMode = "with_report"
)

// IsValid reports whether m is a known mode.
func (m GroupMode) IsValid() bool {
	switch m {
	case ModePlain, ModeWithIndex, ModeWithReport:
		return true
	}
	return false
}

// Item is the minimal keyword projection used in all grouping shapes.
type Item struct {
	ID   common.ID `json:"id"`
	Word string    `json:"word"`
}

// IndexedGroup is one keyword cluster with its group index.
type IndexedGroup struct {
	GroupIndex int    `json:"group_index"`
	KeyWords   []Item `json:"key_words"`
}

// ReportGroup is one keyword cluster as linked to one report.
type ReportGroup struct {
	ReportID   common.ID `json:"report_id"`
	ReportName string    `json:"report_name"`
	GroupIndex int       `json:"group_index"`
	KeyWords   []Item    `json:"key_words"`
}

// Group dispatches to the typed grouping function for the given mode.  The
// result is one of [][]Item, []IndexedGroup, or []ReportGroup.
func Group(keywords []*Keyword, mode GroupMode) (interface{}, error) {
	switch mode {
	case ModePlain:
		return GroupPlain(keywords), nil
	case ModeWithIndex:
		return GroupWithIndex(keywords), nil
	case ModeWithReport:
		return GroupWithReport(keywords), nil
	default:
		return nil, errors.InvalidParam("unknown grouping mode: " + string(mode))
	}
}

// GroupPlain partitions keywords into clusters by group index.  Clusters
// appear in order of first occurrence in the input and keep the input order
// of their members.
func GroupPlain(keywords []*Keyword) [][]Item {
	var order []int
	byIndex := make(map[int][]Item)
	for _, k := range keywords {
		if _, seen := byIndex[k.GroupIndex]; !seen {
			order = append(order, k.GroupIndex)
		}
		byIndex[k.GroupIndex] = append(byIndex[k.GroupIndex], Item{ID: k.BaseEntity.ID, Word: k.Word})
	}

	out := make([][]Item, 0, len(order))
	for _, gi := range order {
		out = append(out, byIndex[gi])
	}
	return out
}

// GroupWithIndex is GroupPlain with the group index carried alongside each
// cluster.
func GroupWithIndex(keywords []*Keyword) []IndexedGroup {
	var order []int
	byIndex := make(map[int][]Item)
	for _, k := range keywords {
		if _, seen := byIndex[k.GroupIndex]; !seen {
			order = append(order, k.GroupIndex)
		}
		byIndex[k.GroupIndex] = append(byIndex[k.GroupIndex], Item{ID: k.BaseEntity.ID, Word: k.Word})
	}

	out := make([]IndexedGroup, 0, len(order))
	for _, gi := range order {
		out = append(out, IndexedGroup{GroupIndex: gi, KeyWords: byIndex[gi]})
	}
	return out
}

// GroupWithReport emits one record per (report, group index) pair found via
// keyword-to-report links.  A pair is emitted exactly once even when several
// keywords of the group link to the same report; the record carries the whole
// group's keywords, not just the linked one.
func GroupWithReport(keywords []*Keyword) []ReportGroup {
	groups := make(map[int][]Item)
	for _, k := range keywords {
		groups[k.GroupIndex] = append(groups[k.GroupIndex], Item{ID: k.BaseEntity.ID, Word: k.Word})
	}

	type pairKey struct {
		reportID   common.ID
		groupIndex int
	}
	seen := make(map[pairKey]bool)

	var out []ReportGroup
	for _, k := range keywords {
		for _, ref := range k.Reports {
			key := pairKey{reportID: ref.ID, groupIndex: k.GroupIndex}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, ReportGroup{
				ReportID:   ref.ID,
				ReportName: ref.Name,
				GroupIndex: k.GroupIndex,
				KeyWords:   groups[k.GroupIndex],
			})
		}
	}
	return out
}

// SortByFirstLetter orders clusters by the lowercase first character of each
// cluster's first keyword.  Empty clusters sort first, keyed by the empty
// string.
func SortByFirstLetter(groups [][]Item) {
	sort.SliceStable(groups, func(i, j int) bool {
		return firstLetterKey(groups[i]) < firstLetterKey(groups[j])
	})
}

func firstLetterKey(group []Item) string {
	if len(group) == 0 || group[0].Word == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(group[0].Word)
	return strings.ToLower(string(r))
}
