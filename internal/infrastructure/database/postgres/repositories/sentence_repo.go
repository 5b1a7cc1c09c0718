package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/infrastructure/database/postgres"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

type postgresSentenceRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresSentenceRepo builds the sentence repository.
func NewPostgresSentenceRepo(conn *postgres.Connection, log logging.Logger) report.SentenceRepository {
	return &postgresSentenceRepo{conn: conn, log: log, executor: conn.DB()}
}

const sentenceColumns = `id, group_id, paragraph_id, head_sentence_id, text, cleaned_text,
	sentence_type, weight, tags, comment, modality, created_at, updated_at, version`

func (r *postgresSentenceRepo) Create(ctx context.Context, s *report.Sentence) error {
	if s.BaseEntity.ID.IsZero() {
		s.BaseEntity.ID = common.NewID()
	}
	tagsJSON, _ := json.Marshal(s.Tags)

	query := `
		INSERT INTO sentences (
			id, group_id, paragraph_id, head_sentence_id, text, cleaned_text,
			sentence_type, weight, tags, comment, modality
		) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		s.BaseEntity.ID, s.GroupID, s.ParagraphID, s.HeadSentenceID,
		s.Text, s.CleanedText, s.Type, s.Weight, tagsJSON, s.Comment, s.Modality,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create sentence")
	}
	return nil
}

func (r *postgresSentenceRepo) GetByID(ctx context.Context, id common.ID) (*report.Sentence, error) {
	query := `SELECT ` + sentenceColumns + ` FROM sentences WHERE id = $1`
	row := r.executor.QueryRowContext(ctx, query, id)
	s, err := scanSentence(row)
	if err != nil {
		return nil, mapNotFound(err, errors.ErrCodeSentenceNotFound, "sentence not found: "+string(id))
	}
	return s, nil
}

func (r *postgresSentenceRepo) Update(ctx context.Context, s *report.Sentence) error {
	tagsJSON, _ := json.Marshal(s.Tags)
	query := `
		UPDATE sentences
		SET text = $2, cleaned_text = $3, weight = $4, tags = $5, comment = $6,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.executor.ExecContext(ctx, query,
		s.BaseEntity.ID, s.Text, s.CleanedText, s.Weight, tagsJSON, s.Comment)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update sentence")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeSentenceNotFound, "sentence not found: "+string(s.BaseEntity.ID))
	}
	return nil
}

func (r *postgresSentenceRepo) Delete(ctx context.Context, id common.ID) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM sentences WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete sentence")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeSentenceNotFound, "sentence not found: "+string(id))
	}
	return nil
}

func (r *postgresSentenceRepo) ListByGroup(ctx context.Context, groupID common.ID) ([]*report.Sentence, error) {
	query := `SELECT ` + sentenceColumns + `
		FROM sentences WHERE group_id = $1
		ORDER BY weight DESC, created_at ASC`
	return r.list(ctx, query, groupID)
}

func (r *postgresSentenceRepo) ListBodiesByHead(ctx context.Context, headSentenceID common.ID) ([]*report.Sentence, error) {
	// The head must exist: a dangling reference is a content error the
	// classifier tallies, not an empty pool.
	var exists bool
	err := r.executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sentences WHERE id = $1 AND sentence_type = 'head')`,
		headSentenceID).Scan(&exists)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to resolve head sentence")
	}
	if !exists {
		return nil, errors.New(errors.ErrCodeHeadSentenceNotFound,
			"head sentence not found: "+string(headSentenceID))
	}

	query := `SELECT ` + sentenceColumns + `
		FROM sentences WHERE head_sentence_id = $1 AND sentence_type = 'body'
		ORDER BY weight DESC, created_at ASC`
	return r.list(ctx, query, headSentenceID)
}

func (r *postgresSentenceRepo) BatchCreate(ctx context.Context, sentences []*report.Sentence) (int, error) {
	created := 0
	for _, s := range sentences {
		if err := r.Create(ctx, s); err != nil {
			r.log.Warn("batch create: sentence skipped",
				logging.Err(err), logging.String("text", s.Text))
			continue
		}
		created++
	}
	return created, nil
}

func (r *postgresSentenceRepo) list(ctx context.Context, query string, args ...interface{}) ([]*report.Sentence, error) {
	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list sentences")
	}
	defer rows.Close()

	var out []*report.Sentence
	for rows.Next() {
		s, err := scanSentence(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan sentence")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate sentences")
	}
	return out, nil
}

func scanSentence(sc scanner) (*report.Sentence, error) {
	var (
		s                          report.Sentence
		groupID, paraID, headID    sql.NullString
		cleaned, comment, modality sql.NullString
		tagsJSON                   []byte
	)
	err := sc.Scan(
		&s.BaseEntity.ID, &groupID, &paraID, &headID, &s.Text, &cleaned,
		&s.Type, &s.Weight, &tagsJSON, &comment, &modality,
		&s.CreatedAt, &s.UpdatedAt, &s.Version,
	)
	if err != nil {
		return nil, err
	}
	s.GroupID = common.ID(groupID.String)
	s.ParagraphID = common.ID(paraID.String)
	s.HeadSentenceID = common.ID(headID.String)
	s.CleanedText = cleaned.String
	s.Comment = comment.String
	s.Modality = common.Modality(modality.String)
	if len(tagsJSON) > 0 {
		_ = json.Unmarshal(tagsJSON, &s.Tags)
	}
	return &s, nil
}
