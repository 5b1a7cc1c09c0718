package repositories

import (
	"context"

	"github.com/radassist/report-engine/internal/domain/keyword"
	"github.com/radassist/report-engine/internal/infrastructure/database/postgres"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

type postgresKeywordRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresKeywordRepo builds the keyword repository.
func NewPostgresKeywordRepo(conn *postgres.Connection, log logging.Logger) keyword.Repository {
	return &postgresKeywordRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *postgresKeywordRepo) Create(ctx context.Context, k *keyword.Keyword) error {
	if k.BaseEntity.ID.IsZero() {
		k.BaseEntity.ID = common.NewID()
	}
	query := `
		INSERT INTO keywords (id, profile_id, group_index, index_in_group, word)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		k.BaseEntity.ID, k.ProfileID, k.GroupIndex, k.IndexInGroup, k.Word,
	).Scan(&k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create keyword")
	}
	for _, ref := range k.Reports {
		if err := r.linkReport(ctx, k.BaseEntity.ID, ref.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresKeywordRepo) GetByID(ctx context.Context, id common.ID) (*keyword.Keyword, error) {
	query := `
		SELECT id, profile_id, group_index, index_in_group, word,
		       created_at, updated_at, version
		FROM keywords WHERE id = $1
	`
	k, err := scanKeyword(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err, errors.ErrCodeKeywordNotFound, "keyword not found: "+string(id))
	}
	if err := r.attachReports(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

func (r *postgresKeywordRepo) Update(ctx context.Context, k *keyword.Keyword) error {
	query := `
		UPDATE keywords
		SET group_index = $2, index_in_group = $3, word = $4,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.executor.ExecContext(ctx, query,
		k.BaseEntity.ID, k.GroupIndex, k.IndexInGroup, k.Word)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update keyword")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeKeywordNotFound, "keyword not found: "+string(k.BaseEntity.ID))
	}
	return nil
}

func (r *postgresKeywordRepo) Delete(ctx context.Context, id common.ID) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM keywords WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete keyword")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeKeywordNotFound, "keyword not found: "+string(id))
	}
	return nil
}

func (r *postgresKeywordRepo) ListByProfile(ctx context.Context, profileID common.ID) ([]*keyword.Keyword, error) {
	query := `
		SELECT id, profile_id, group_index, index_in_group, word,
		       created_at, updated_at, version
		FROM keywords WHERE profile_id = $1
		ORDER BY group_index ASC, index_in_group ASC
	`
	return r.list(ctx, query, profileID)
}

func (r *postgresKeywordRepo) ListByReport(ctx context.Context, reportID common.ID) ([]*keyword.Keyword, error) {
	query := `
		SELECT k.id, k.profile_id, k.group_index, k.index_in_group, k.word,
		       k.created_at, k.updated_at, k.version
		FROM keywords k
		JOIN keyword_reports kr ON kr.keyword_id = k.id
		WHERE kr.report_id = $1
		ORDER BY k.group_index ASC, k.index_in_group ASC
	`
	return r.list(ctx, query, reportID)
}

func (r *postgresKeywordRepo) Words(ctx context.Context, profileID common.ID) ([]string, error) {
	rows, err := r.executor.QueryContext(ctx,
		`SELECT word FROM keywords WHERE profile_id = $1
		 ORDER BY group_index ASC, index_in_group ASC`, profileID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list keyword words")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan keyword word")
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *postgresKeywordRepo) list(ctx context.Context, query string, args ...interface{}) ([]*keyword.Keyword, error) {
	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list keywords")
	}
	defer rows.Close()

	var out []*keyword.Keyword
	for rows.Next() {
		k, err := scanKeyword(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan keyword")
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate keywords")
	}
	for _, k := range out {
		if err := r.attachReports(ctx, k); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *postgresKeywordRepo) attachReports(ctx context.Context, k *keyword.Keyword) error {
	rows, err := r.executor.QueryContext(ctx, `
		SELECT rep.id, rep.name
		FROM keyword_reports kr
		JOIN reports rep ON rep.id = kr.report_id
		WHERE kr.keyword_id = $1
		ORDER BY rep.name ASC
	`, k.BaseEntity.ID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list keyword report links")
	}
	defer rows.Close()

	k.Reports = k.Reports[:0]
	for rows.Next() {
		var ref keyword.ReportRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan keyword report link")
		}
		k.Reports = append(k.Reports, ref)
	}
	return rows.Err()
}

func (r *postgresKeywordRepo) linkReport(ctx context.Context, keywordID, reportID common.ID) error {
	_, err := r.executor.ExecContext(ctx, `
		INSERT INTO keyword_reports (keyword_id, report_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, keywordID, reportID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to link keyword to report")
	}
	return nil
}

func scanKeyword(sc scanner) (*keyword.Keyword, error) {
	var k keyword.Keyword
	err := sc.Scan(
		&k.BaseEntity.ID, &k.ProfileID, &k.GroupIndex, &k.IndexInGroup, &k.Word,
		&k.CreatedAt, &k.UpdatedAt, &k.Version,
	)
	if err != nil {
		return nil, err
	}
	return &k, nil
}
