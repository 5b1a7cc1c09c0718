// Package profile implements the Profile bounded context: the per-clinician
// configuration that scopes duplicate detection (language, similarity
// threshold, keyword and excluded-word lists).
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/radassist/report-engine/internal/textproc"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// Profile is the persisted configuration owner.
type Profile struct {
	common.BaseEntity

	Name                string              `json:"name"`
	Language            common.LanguageCode `json:"language"`
	SimilarityThreshold int                 `json:"similarity_threshold"`
	ExceptWords         []string            `json:"except_words,omitempty"`
}

// NewProfile constructs a Profile with the default similarity threshold.
func NewProfile(name string, language common.LanguageCode) (*Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidParam("profile name must not be empty")
	}
	if language == "" {
		return nil, errors.InvalidParam("profile language must not be empty")
	}
	p := &Profile{
		Name:                name,
		Language:            language,
		SimilarityThreshold: textproc.DefaultDuplicateThreshold,
	}
	p.BaseEntity.ID = common.NewID()
	p.Touch()
	return p, nil
}

// Context is the explicit value object handed to every core operation in
// place of ambient request state: everything duplicate detection needs to
// know about the calling profile, resolved once at the boundary.
type Context struct {
	ProfileID           common.ID           `json:"profile_id"`
	Language            common.LanguageCode `json:"language"`
	SimilarityThreshold int                 `json:"similarity_threshold"`
	ExceptWords         []string            `json:"except_words,omitempty"`
	Keywords            []string            `json:"keywords,omitempty"`
}

// Validate checks the context is usable for classification.
func (c Context) Validate() error {
	if c.ProfileID.IsZero() {
		return errors.InvalidParam("profile_id must not be empty")
	}
	if c.Language == "" {
		return errors.InvalidParam("language must not be empty")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		return errors.InvalidParam(
			fmt.Sprintf("similarity_threshold must be in [0,100], got %d", c.SimilarityThreshold))
	}
	return nil
}

// ContextOf projects a Profile plus its keyword list into a Context.
func ContextOf(p *Profile, keywords []string) Context {
	return Context{
		ProfileID:           p.BaseEntity.ID,
		Language:            p.Language,
		SimilarityThreshold: p.SimilarityThreshold,
		ExceptWords:         p.ExceptWords,
		Keywords:            keywords,
	}
}

// Repository defines the persistence contract for profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id common.ID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id common.ID) error
}

// ContextLoader resolves a full classification Context for a profile,
// typically combining the profile row with its keyword list and a cache in
// front of both.
type ContextLoader interface {
	Load(ctx context.Context, profileID common.ID) (Context, error)
}
