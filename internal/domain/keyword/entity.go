// Package keyword implements the Keyword bounded context: profile-scoped
// keyword records, their co-occurrence groups, and the grouping projections
// consumed by the report editor.
package keyword

import (
	"context"
	"strings"

	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// ReportRef is a lightweight link from a keyword to a report.
type ReportRef struct {
	ID   common.ID `json:"id"`
	Name string    `json:"name"`
}

// Keyword belongs to a profile.  Keywords sharing a GroupIndex co-occur as a
// cluster; IndexInGroup orders them within it.  A keyword with no report
// links is global to the profile.
type Keyword struct {
	common.BaseEntity

	ProfileID    common.ID   `json:"profile_id"`
	GroupIndex   int         `json:"group_index"`
	IndexInGroup int         `json:"index_in_group"`
	Word         string      `json:"word"`
	Reports      []ReportRef `json:"reports,omitempty"`
}

// NewKeyword constructs a Keyword.
func NewKeyword(profileID common.ID, groupIndex, indexInGroup int, word string) (*Keyword, error) {
	if strings.TrimSpace(word) == "" {
		return nil, errors.InvalidParam("keyword word must not be empty")
	}
	if profileID.IsZero() {
		return nil, errors.InvalidParam("profile_id must not be empty")
	}
	k := &Keyword{
		ProfileID:    profileID,
		GroupIndex:   groupIndex,
		IndexInGroup: indexInGroup,
		Word:         word,
	}
	k.BaseEntity.ID = common.NewID()
	k.Touch()
	return k, nil
}

// LinkReport attaches a report reference, ignoring duplicates.
func (k *Keyword) LinkReport(ref ReportRef) {
	for _, r := range k.Reports {
		if r.ID == ref.ID {
			return
		}
	}
	k.Reports = append(k.Reports, ref)
	k.Touch()
}

// Repository defines the persistence contract for keywords.
type Repository interface {
	Create(ctx context.Context, k *Keyword) error
	GetByID(ctx context.Context, id common.ID) (*Keyword, error)
	Update(ctx context.Context, k *Keyword) error
	Delete(ctx context.Context, id common.ID) error

	// ListByProfile returns the profile's keywords ordered by group index,
	// then index within group.
	ListByProfile(ctx context.Context, profileID common.ID) ([]*Keyword, error)

	// ListByReport returns keywords linked to the given report, same order.
	ListByReport(ctx context.Context, reportID common.ID) ([]*Keyword, error)

	// Words returns just the word strings for a profile, for the noise
	// stripper.
	Words(ctx context.Context, profileID common.ID) ([]string, error)
}
