package repositories

import (
	"context"

	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/infrastructure/database/postgres"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

type postgresReportRepo struct {
	conn       *postgres.Connection
	log        logging.Logger
	executor   queryExecutor
	paragraphs report.ParagraphRepository
}

// NewPostgresReportRepo builds the report repository.  GetTree delegates the
// paragraph hierarchy load to the paragraph repository.
func NewPostgresReportRepo(conn *postgres.Connection, paragraphs report.ParagraphRepository, log logging.Logger) report.ReportRepository {
	return &postgresReportRepo{conn: conn, log: log, executor: conn.DB(), paragraphs: paragraphs}
}

const reportColumns = `id, name, profile_id, modality, language, created_at, updated_at, version`

func (r *postgresReportRepo) Create(ctx context.Context, rep *report.Report) error {
	if rep.BaseEntity.ID.IsZero() {
		rep.BaseEntity.ID = common.NewID()
	}
	query := `
		INSERT INTO reports (id, name, profile_id, modality, language)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		rep.BaseEntity.ID, rep.Name, rep.ProfileID, rep.Modality, rep.Language,
	).Scan(&rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create report")
	}
	return nil
}

func (r *postgresReportRepo) GetByID(ctx context.Context, id common.ID) (*report.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	rep, err := scanReport(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err, errors.ErrCodeNotFound, "report not found: "+string(id))
	}
	return rep, nil
}

func (r *postgresReportRepo) Update(ctx context.Context, rep *report.Report) error {
	query := `
		UPDATE reports
		SET name = $2, modality = $3, language = $4,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.executor.ExecContext(ctx, query,
		rep.BaseEntity.ID, rep.Name, rep.Modality, rep.Language)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update report")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeNotFound, "report not found: "+string(rep.BaseEntity.ID))
	}
	return nil
}

func (r *postgresReportRepo) GetTree(ctx context.Context, id common.ID) (*report.Report, error) {
	rep, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rep.Paragraphs, err = r.paragraphs.ListByReport(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, p := range rep.Paragraphs {
		p.TailGroup, err = r.paragraphs.GetTailGroup(ctx, p.BaseEntity.ID)
		if err != nil {
			return nil, err
		}
	}
	return rep, nil
}

func (r *postgresReportRepo) ListByProfile(ctx context.Context, profileID common.ID, page common.Pagination) ([]*report.Report, int64, error) {
	var total int64
	err := r.executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE profile_id = $1`, profileID).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count reports")
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + reportColumns + `
		FROM reports WHERE profile_id = $1
		ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.executor.QueryContext(ctx, query, profileID, limit, page.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list reports")
	}
	defer rows.Close()

	var out []*report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan report")
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate reports")
	}
	return out, total, nil
}

func scanReport(sc scanner) (*report.Report, error) {
	var rep report.Report
	err := sc.Scan(
		&rep.BaseEntity.ID, &rep.Name, &rep.ProfileID, &rep.Modality, &rep.Language,
		&rep.CreatedAt, &rep.UpdatedAt, &rep.Version,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
