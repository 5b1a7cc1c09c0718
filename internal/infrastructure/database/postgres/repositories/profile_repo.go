package repositories

import (
	"context"
	"encoding/json"

	"github.com/radassist/report-engine/internal/domain/profile"
	"github.com/radassist/report-engine/internal/infrastructure/database/postgres"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

type postgresProfileRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresProfileRepo builds the profile repository.
func NewPostgresProfileRepo(conn *postgres.Connection, log logging.Logger) profile.Repository {
	return &postgresProfileRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	if p.BaseEntity.ID.IsZero() {
		p.BaseEntity.ID = common.NewID()
	}
	exceptJSON, _ := json.Marshal(p.ExceptWords)
	query := `
		INSERT INTO profiles (id, name, language, similarity_threshold, except_words)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		p.BaseEntity.ID, p.Name, p.Language, p.SimilarityThreshold, exceptJSON,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create profile")
	}
	return nil
}

func (r *postgresProfileRepo) GetByID(ctx context.Context, id common.ID) (*profile.Profile, error) {
	query := `
		SELECT id, name, language, similarity_threshold, except_words,
		       created_at, updated_at, version
		FROM profiles WHERE id = $1
	`
	var (
		p          profile.Profile
		exceptJSON []byte
	)
	err := r.executor.QueryRowContext(ctx, query, id).Scan(
		&p.BaseEntity.ID, &p.Name, &p.Language, &p.SimilarityThreshold, &exceptJSON,
		&p.CreatedAt, &p.UpdatedAt, &p.Version,
	)
	if err != nil {
		return nil, mapNotFound(err, errors.ErrCodeProfileNotFound, "profile not found: "+string(id))
	}
	if len(exceptJSON) > 0 {
		_ = json.Unmarshal(exceptJSON, &p.ExceptWords)
	}
	return &p, nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	exceptJSON, _ := json.Marshal(p.ExceptWords)
	query := `
		UPDATE profiles
		SET name = $2, language = $3, similarity_threshold = $4, except_words = $5,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.executor.ExecContext(ctx, query,
		p.BaseEntity.ID, p.Name, p.Language, p.SimilarityThreshold, exceptJSON)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update profile")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeProfileNotFound, "profile not found: "+string(p.BaseEntity.ID))
	}
	return nil
}

func (r *postgresProfileRepo) Delete(ctx context.Context, id common.ID) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete profile")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeProfileNotFound, "profile not found: "+string(id))
	}
	return nil
}
