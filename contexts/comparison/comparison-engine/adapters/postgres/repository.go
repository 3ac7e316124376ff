package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"patchbay/contexts/comparison/comparison-engine/domain/entities"
	domainerrors "patchbay/contexts/comparison/comparison-engine/domain/errors"
	"patchbay/contexts/comparison/comparison-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the answer ledger, response log, question registry and
// vote outbox in postgres.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ApplyVote serializes concurrent votes for the same ordered triple behind a
// row lock: an insert-or-ignore seeds the record, then counter increment,
// response insert and outbox append run under the lock in one transaction.
// A unique index on (question_id, entry_a, entry_b) keeps the triple unique.
func (r *Repository) ApplyVote(
	ctx context.Context,
	vote ports.VoteApplication,
	outbox ports.OutboxMessage,
) (entities.AnswerRecord, error) {
	var result entities.AnswerRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := answerModel{
			ID:         vote.AnswerID,
			QuestionID: vote.QuestionID,
			EntryA:     vote.EntryA,
			EntryB:     vote.EntryB,
			CreatedAt:  vote.Now,
			UpdatedAt:  vote.Now,
		}
		// Concurrent first votes race to create the row. DoNothing lets the
		// loser fall through to the row lock instead of aborting the
		// transaction on the unique index.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		row, err := lockAnswerRow(tx, vote.QuestionID, vote.EntryA, vote.EntryB)
		if err != nil {
			return err
		}

		if vote.SelectedA {
			row.CountA++
		} else {
			row.CountB++
		}
		row.UpdatedAt = vote.Now
		if err := tx.Model(&answerModel{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"count_a":    row.CountA,
				"count_b":    row.CountB,
				"updated_at": row.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		response := responseModel{
			ID:         vote.ResponseID,
			AnswerID:   row.ID,
			SelectedA:  vote.SelectedA,
			OriginHash: vote.OriginHash,
			CreatedAt:  vote.Now,
		}
		if err := tx.Create(&response).Error; err != nil {
			return err
		}

		outboxRow := outboxModel{
			ID:           outbox.OutboxID,
			EventType:    outbox.EventType,
			PartitionKey: outbox.PartitionKey,
			Payload:      outbox.Payload,
			Status:       outboxStatusPending,
			CreatedAt:    outbox.CreatedAt,
		}
		if err := tx.Create(&outboxRow).Error; err != nil {
			return err
		}

		result = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.AnswerRecord{}, r.logError("comparison_repo_apply_vote_failed", err,
			"question_id", vote.QuestionID,
			"entry_a", vote.EntryA,
			"entry_b", vote.EntryB,
		)
	}
	return result, nil
}

func (r *Repository) FindAnswer(
	ctx context.Context,
	questionID string,
	entryA string,
	entryB string,
) (entities.AnswerRecord, bool, error) {
	var row answerModel
	err := r.db.WithContext(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Where("entry_a = ?", strings.TrimSpace(entryA)).
		Where("entry_b = ?", strings.TrimSpace(entryB)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AnswerRecord{}, false, nil
		}
		return entities.AnswerRecord{}, false, r.logError("comparison_repo_find_answer_failed", err,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListAnswersByEntry(
	ctx context.Context,
	questionID string,
	entry string,
) ([]entities.AnswerRecord, error) {
	var rows []answerModel
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Where("entry_a = ? OR entry_b = ?", strings.TrimSpace(entry), strings.TrimSpace(entry)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("comparison_repo_list_answers_by_entry_failed", err,
			"question_id", strings.TrimSpace(questionID),
			"entry", strings.TrimSpace(entry),
		)
	}
	return toAnswerEntities(rows), nil
}

func (r *Repository) ListAnswersByQuestion(ctx context.Context, questionID string) ([]entities.AnswerRecord, error) {
	var rows []answerModel
	if err := r.db.WithContext(ctx).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("comparison_repo_list_answers_by_question_failed", err,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return toAnswerEntities(rows), nil
}

func (r *Repository) ListResponsesByAnswer(ctx context.Context, answerID string) ([]entities.ResponseDetail, error) {
	var rows []responseModel
	if err := r.db.WithContext(ctx).
		Where("answer_id = ?", strings.TrimSpace(answerID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("comparison_repo_list_responses_failed", err,
			"answer_id", strings.TrimSpace(answerID),
		)
	}
	items := make([]entities.ResponseDetail, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateQuestion(ctx context.Context, question entities.Question) error {
	row := questionModelFromEntity(question)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrQuestionExists
		}
		return r.logError("comparison_repo_create_question_failed", err,
			"slug", question.Slug,
		)
	}
	return nil
}

func (r *Repository) GetQuestion(ctx context.Context, questionID string) (entities.Question, error) {
	var row questionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(questionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Question{}, domainerrors.ErrQuestionNotFound
		}
		return entities.Question{}, r.logError("comparison_repo_get_question_failed", err,
			"question_id", strings.TrimSpace(questionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetQuestionBySlug(ctx context.Context, slug string) (entities.Question, error) {
	var row questionModel
	err := r.db.WithContext(ctx).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Question{}, domainerrors.ErrQuestionNotFound
		}
		return entities.Question{}, r.logError("comparison_repo_get_question_by_slug_failed", err,
			"slug", strings.TrimSpace(slug),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListQuestions(ctx context.Context) ([]entities.Question, error) {
	var rows []questionModel
	if err := r.db.WithContext(ctx).
		Order("slug ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("comparison_repo_list_questions_failed", err)
	}
	items := make([]entities.Question, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// EntryExists and ListEntryIDs read the catalog's entries table directly;
// the engine needs identity only.
func (r *Repository) EntryExists(ctx context.Context, entryID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("entries").
		Where("id = ?", strings.TrimSpace(entryID)).
		Count(&count).Error; err != nil {
		return false, r.logError("comparison_repo_entry_exists_failed", err,
			"entry_id", strings.TrimSpace(entryID),
		)
	}
	return count > 0, nil
}

func (r *Repository) ListEntryIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Table("entries").
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, r.logError("comparison_repo_list_entry_ids_failed", err)
	}
	return ids, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("comparison_repo_list_pending_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.ID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		}).Error; err != nil {
		return r.logError("comparison_repo_mark_outbox_published_failed", err,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func lockAnswerRow(tx *gorm.DB, questionID string, entryA string, entryB string) (answerModel, error) {
	var row answerModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("question_id = ?", strings.TrimSpace(questionID)).
		Where("entry_a = ?", strings.TrimSpace(entryA)).
		Where("entry_b = ?", strings.TrimSpace(entryB)).
		First(&row).
		Error
	return row, err
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "comparison/comparison-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("comparison repository operation failed", fields...)
	return err
}

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type questionModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	Prompt          string    `gorm:"column:prompt"`
	AnswerA         string    `gorm:"column:answer_a"`
	AnswerB         string    `gorm:"column:answer_b"`
	Slug            string    `gorm:"column:slug;uniqueIndex"`
	SelectionMethod int       `gorm:"column:selection_method"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (questionModel) TableName() string {
	return "binary_questions"
}

func questionModelFromEntity(question entities.Question) questionModel {
	return questionModel{
		ID:              strings.TrimSpace(question.QuestionID),
		Prompt:          question.Prompt,
		AnswerA:         question.AnswerA,
		AnswerB:         question.AnswerB,
		Slug:            strings.ToLower(strings.TrimSpace(question.Slug)),
		SelectionMethod: int(question.SelectionMethod),
		CreatedAt:       time.Now().UTC(),
	}
}

func (m questionModel) toEntity() entities.Question {
	return entities.Question{
		QuestionID:      m.ID,
		Prompt:          m.Prompt,
		AnswerA:         m.AnswerA,
		AnswerB:         m.AnswerB,
		Slug:            m.Slug,
		SelectionMethod: entities.SelectionMethod(m.SelectionMethod),
	}
}

type answerModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	QuestionID string    `gorm:"column:question_id;uniqueIndex:idx_answer_ordered_triple"`
	EntryA     string    `gorm:"column:entry_a;uniqueIndex:idx_answer_ordered_triple"`
	EntryB     string    `gorm:"column:entry_b;uniqueIndex:idx_answer_ordered_triple"`
	CountA     int       `gorm:"column:count_a"`
	CountB     int       `gorm:"column:count_b"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (answerModel) TableName() string {
	return "binary_answers"
}

func (m answerModel) toEntity() entities.AnswerRecord {
	return entities.AnswerRecord{
		AnswerID:   m.ID,
		QuestionID: m.QuestionID,
		EntryA:     m.EntryA,
		EntryB:     m.EntryB,
		CountA:     m.CountA,
		CountB:     m.CountB,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toAnswerEntities(rows []answerModel) []entities.AnswerRecord {
	items := make([]entities.AnswerRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type responseModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	AnswerID   string    `gorm:"column:answer_id;index"`
	SelectedA  bool      `gorm:"column:selected_a"`
	OriginHash string    `gorm:"column:origin_hash"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (responseModel) TableName() string {
	return "binary_response_details"
}

func (m responseModel) toEntity() entities.ResponseDetail {
	return entities.ResponseDetail{
		ResponseID: m.ID,
		AnswerID:   m.AnswerID,
		SelectedA:  m.SelectedA,
		OriginHash: m.OriginHash,
		CreatedAt:  m.CreatedAt,
	}
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "comparison_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.AnswerRepository = (*Repository)(nil)
var _ ports.QuestionRepository = (*Repository)(nil)
var _ ports.EntryDirectory = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
