package repositories

import (
	"context"
	"database/sql"

	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/infrastructure/database/postgres"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

type postgresParagraphRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresParagraphRepo builds the paragraph repository.
func NewPostgresParagraphRepo(conn *postgres.Connection, log logging.Logger) report.ParagraphRepository {
	return &postgresParagraphRepo{conn: conn, log: log, executor: conn.DB()}
}

const paragraphColumns = `id, report_id, paragraph_index, title, is_impression,
	is_additional, is_active, visible, bold, created_at, updated_at, version`

func (r *postgresParagraphRepo) Create(ctx context.Context, p *report.Paragraph) error {
	if p.BaseEntity.ID.IsZero() {
		p.BaseEntity.ID = common.NewID()
	}
	query := `
		INSERT INTO paragraphs (
			id, report_id, paragraph_index, title, is_impression,
			is_additional, is_active, visible, bold
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		p.BaseEntity.ID, p.ReportID, p.Index, p.Title,
		p.IsImpression, p.IsAdditional, p.IsActive, p.Visible, p.Bold,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create paragraph")
	}
	return nil
}

func (r *postgresParagraphRepo) GetByID(ctx context.Context, id common.ID) (*report.Paragraph, error) {
	query := `SELECT ` + paragraphColumns + ` FROM paragraphs WHERE id = $1`
	p, err := scanParagraph(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err, errors.ErrCodeParagraphNotFound, "paragraph not found: "+string(id))
	}
	if err := r.attachHeadGroups(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresParagraphRepo) Update(ctx context.Context, p *report.Paragraph) error {
	query := `
		UPDATE paragraphs
		SET paragraph_index = $2, title = $3, is_impression = $4, is_additional = $5,
		    is_active = $6, visible = $7, bold = $8,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.executor.ExecContext(ctx, query,
		p.BaseEntity.ID, p.Index, p.Title, p.IsImpression, p.IsAdditional,
		p.IsActive, p.Visible, p.Bold)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update paragraph")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeParagraphNotFound, "paragraph not found: "+string(p.BaseEntity.ID))
	}
	return nil
}

func (r *postgresParagraphRepo) Delete(ctx context.Context, id common.ID) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM paragraphs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete paragraph")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeParagraphNotFound, "paragraph not found: "+string(id))
	}
	return nil
}

func (r *postgresParagraphRepo) ListByReport(ctx context.Context, reportID common.ID) ([]*report.Paragraph, error) {
	query := `SELECT ` + paragraphColumns + `
		FROM paragraphs WHERE report_id = $1 ORDER BY paragraph_index ASC`
	rows, err := r.executor.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list paragraphs")
	}
	defer rows.Close()

	var out []*report.Paragraph
	for rows.Next() {
		p, err := scanParagraph(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan paragraph")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate paragraphs")
	}
	for _, p := range out {
		if err := r.attachHeadGroups(ctx, p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *postgresParagraphRepo) GetTailGroup(ctx context.Context, paragraphID common.ID) (*report.SentenceGroup, error) {
	var exists bool
	err := r.executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM paragraphs WHERE id = $1)`, paragraphID).Scan(&exists)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to resolve paragraph")
	}
	if !exists {
		return nil, errors.New(errors.ErrCodeParagraphNotFound, "paragraph not found: "+string(paragraphID))
	}

	var groupID string
	err = r.executor.QueryRowContext(ctx,
		`SELECT id FROM sentence_groups WHERE paragraph_id = $1 AND group_type = 'tail'`,
		paragraphID).Scan(&groupID)
	if err == sql.ErrNoRows {
		// No tail group yet: the caller treats the candidate as unique.
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load tail group")
	}

	group := &report.SentenceGroup{
		ID:          common.ID(groupID),
		ParagraphID: paragraphID,
		Type:        report.SentenceTail,
	}
	group.Sentences, err = r.groupSentences(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (r *postgresParagraphRepo) Renumber(ctx context.Context, reportID common.ID) error {
	query := `
		WITH ordered AS (
			SELECT id, ROW_NUMBER() OVER (ORDER BY paragraph_index ASC, created_at ASC) AS rn
			FROM paragraphs WHERE report_id = $1
		)
		UPDATE paragraphs p
		SET paragraph_index = o.rn, updated_at = NOW(), version = p.version + 1
		FROM ordered o
		WHERE p.id = o.id AND p.paragraph_index <> o.rn
	`
	if _, err := r.executor.ExecContext(ctx, query, reportID); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to renumber paragraphs")
	}
	return nil
}

func (r *postgresParagraphRepo) attachHeadGroups(ctx context.Context, p *report.Paragraph) error {
	rows, err := r.executor.QueryContext(ctx,
		`SELECT id FROM sentence_groups
		 WHERE paragraph_id = $1 AND group_type = 'head'
		 ORDER BY created_at ASC`, p.BaseEntity.ID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list head groups")
	}
	defer rows.Close()

	var ids []common.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan head group")
		}
		ids = append(ids, common.ID(id))
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate head groups")
	}

	p.HeadGroups = p.HeadGroups[:0]
	for _, id := range ids {
		group := &report.SentenceGroup{ID: id, ParagraphID: p.BaseEntity.ID, Type: report.SentenceHead}
		group.Sentences, err = r.groupSentences(ctx, id)
		if err != nil {
			return err
		}
		p.HeadGroups = append(p.HeadGroups, group)
	}
	return nil
}

func (r *postgresParagraphRepo) groupSentences(ctx context.Context, groupID common.ID) ([]*report.Sentence, error) {
	query := `SELECT ` + sentenceColumns + `
		FROM sentences WHERE group_id = $1
		ORDER BY weight DESC, created_at ASC`
	rows, err := r.executor.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list group sentences")
	}
	defer rows.Close()

	var out []*report.Sentence
	for rows.Next() {
		s, err := scanSentence(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan group sentence")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanParagraph(sc scanner) (*report.Paragraph, error) {
	var p report.Paragraph
	err := sc.Scan(
		&p.BaseEntity.ID, &p.ReportID, &p.Index, &p.Title, &p.IsImpression,
		&p.IsAdditional, &p.IsActive, &p.Visible, &p.Bold,
		&p.CreatedAt, &p.UpdatedAt, &p.Version,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
