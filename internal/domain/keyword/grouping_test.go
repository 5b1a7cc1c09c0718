package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radassist/report-engine/pkg/types/common"
)

func mustKeyword(t *testing.T, profileID common.ID, groupIndex, idx int, word string) *Keyword {
	t.Helper()
	k, err := NewKeyword(profileID, groupIndex, idx, word)
	require.NoError(t, err)
	return k
}

func TestGroupPlain(t *testing.T) {
	pid := common.NewID()
	ks := []*Keyword{
		mustKeyword(t, pid, 2, 0, "киста"),
		mustKeyword(t, pid, 1, 0, "отек"),
		mustKeyword(t, pid, 2, 1, "образование"),
	}

	groups := GroupPlain(ks)
	require.Len(t, groups, 2)
	// Clusters in first-occurrence order: group 2 then group 1.
	assert.Equal(t, "киста", groups[0][0].Word)
	assert.Equal(t, "образование", groups[0][1].Word)
	assert.Equal(t, "отек", groups[1][0].Word)
}

func TestGroupWithIndex(t *testing.T) {
	pid := common.NewID()
	ks := []*Keyword{
		mustKeyword(t, pid, 3, 0, "очаг"),
		mustKeyword(t, pid, 3, 1, "узел"),
		mustKeyword(t, pid, 5, 0, "грыжа"),
	}

	groups := GroupWithIndex(ks)
	require.Len(t, groups, 2)
	assert.Equal(t, 3, groups[0].GroupIndex)
	assert.Len(t, groups[0].KeyWords, 2)
	assert.Equal(t, 5, groups[1].GroupIndex)
}

func TestGroupWithReport_DedupsReportGroupPairs(t *testing.T) {
	pid := common.NewID()
	rep := ReportRef{ID: common.NewID(), Name: "МРТ головного мозга"}

	k1 := mustKeyword(t, pid, 1, 0, "отек")
	k2 := mustKeyword(t, pid, 1, 1, "киста")
	k1.LinkReport(rep)
	k2.LinkReport(rep) // same (report, group) pair via a second keyword

	out := GroupWithReport([]*Keyword{k1, k2})
	require.Len(t, out, 1)
	assert.Equal(t, rep.ID, out[0].ReportID)
	assert.Equal(t, rep.Name, out[0].ReportName)
	assert.Equal(t, 1, out[0].GroupIndex)
	// The record carries the whole group.
	assert.Len(t, out[0].KeyWords, 2)
}

func TestGroupWithReport_SeparateReports(t *testing.T) {
	pid := common.NewID()
	repA := ReportRef{ID: common.NewID(), Name: "КТ грудной клетки"}
	repB := ReportRef{ID: common.NewID(), Name: "КТ брюшной полости"}

	k := mustKeyword(t, pid, 4, 0, "инфильтрат")
	k.LinkReport(repA)
	k.LinkReport(repB)

	out := GroupWithReport([]*Keyword{k})
	require.Len(t, out, 2)
	assert.Equal(t, repA.ID, out[0].ReportID)
	assert.Equal(t, repB.ID, out[1].ReportID)
}

func TestGroupWithReport_UnlinkedKeywordsEmitNothing(t *testing.T) {
	pid := common.NewID()
	out := GroupWithReport([]*Keyword{mustKeyword(t, pid, 1, 0, "глобальное")})
	assert.Empty(t, out)
}

func TestGroup_Dispatch(t *testing.T) {
	pid := common.NewID()
	ks := []*Keyword{mustKeyword(t, pid, 1, 0, "отек")}

	plain, err := Group(ks, ModePlain)
	require.NoError(t, err)
	assert.IsType(t, [][]Item{}, plain)

	indexed, err := Group(ks, ModeWithIndex)
	require.NoError(t, err)
	assert.IsType(t, []IndexedGroup{}, indexed)

	_, err = Group(ks, GroupMode("bogus"))
	assert.Error(t, err)
}

func TestSortByFirstLetter(t *testing.T) {
	groups := [][]Item{
		{{Word: "Отек"}},
		{},
		{{Word: "грыжа"}},
	}

	SortByFirstLetter(groups)

	assert.Empty(t, groups[0])
	assert.Equal(t, "грыжа", groups[1][0].Word)
	assert.Equal(t, "Отек", groups[2][0].Word)
}

func TestLinkReport_IgnoresDuplicates(t *testing.T) {
	pid := common.NewID()
	rep := ReportRef{ID: common.NewID(), Name: "УЗИ почек"}

	k := mustKeyword(t, pid, 1, 0, "киста")
	k.LinkReport(rep)
	k.LinkReport(rep)

	assert.Len(t, k.Reports, 1)
}
