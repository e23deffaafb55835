package db

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/eduflow/campus/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// TopicRepository provides topic-related database operations
type TopicRepository struct {
	*Repository
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(repo *Repository) *TopicRepository {
	return &TopicRepository{Repository: repo}
}

// GetByID retrieves a topic by ID with its owning category
func (r *TopicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).Preload("Category").First(&topic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &topic, nil
}

// Create creates a new topic
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

// ListByCategory retrieves a category's topics, newest first
func (r *TopicRepository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Topic, error) {
	var topics []models.Topic
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id_categoria = ?", categoryID).
		Order("data_criacao DESC").
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// ThreadRepository provides thread-related database operations
type ThreadRepository struct {
	*Repository
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(repo *Repository) *ThreadRepository {
	return &ThreadRepository{Repository: repo}
}

// GetByID retrieves a thread by ID. Hidden threads behave as missing.
func (r *ThreadRepository) GetByID(ctx context.Context, id int64) (*models.Thread, error) {
	var thread models.Thread
	if err := r.db.WithContext(ctx).
		Where("id_tema = ? AND oculto = false", id).
		First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &thread, nil
}

// Create creates a new thread
func (r *ThreadRepository) Create(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

// UpdateContent updates a thread's title and body
func (r *ThreadRepository) UpdateContent(ctx context.Context, id int64, title, body sql.NullString) error {
	return r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id_tema = ?", id).
		Updates(map[string]interface{}{"titulo": title, "texto": body}).Error
}

// Hide soft-deletes a thread. Returns false when the thread was already
// hidden (or missing), so callers can keep hide idempotent.
func (r *ThreadRepository) Hide(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id_tema = ? AND oculto = false", id).
		UpdateColumn("oculto", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByTopic retrieves a page of visible threads in a topic along with
// the total count of visible threads.
func (r *ThreadRepository) ListByTopic(ctx context.Context, topicID int64, sort string, offset, limit int) ([]models.Thread, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id_topico = ? AND oculto = false", topicID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var threads []models.Thread
	if err := q.Order(orderClause(sort, true)).
		Offset(offset).Limit(limit).
		Find(&threads).Error; err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID. Hidden comments behave as missing.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Where("id_comentario = ? AND oculto = false", id).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create inserts a comment and increments the parent thread's comment
// counter in the same transaction. The increment is a store-level
// expression, never a read-modify-write. Returns the thread's new
// comment count.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (int, error) {
	var comments int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Raw(
			`UPDATE forum_tema SET comentarios = comentarios + 1 WHERE id_tema = ? RETURNING comentarios`,
			comment.ThreadID,
		).Scan(&comments).Error
	})
	if err != nil {
		return 0, err
	}
	return comments, nil
}

// UpdateContent updates a comment's body
func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, body sql.NullString) error {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id_comentario = ?", id).
		UpdateColumn("texto", body).Error
}

// Hide soft-deletes a comment and decrements the parent thread's
// comment counter, floored at zero. The decrement only happens when the
// comment actually flipped from visible to hidden, so hiding twice
// decrements once. Returns whether the comment was hidden by this call
// and the thread's resulting comment count.
func (r *CommentRepository) Hide(ctx context.Context, id int64, threadID int64) (bool, int, error) {
	var hidden bool
	var comments int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Comment{}).
			Where("id_comentario = ? AND oculto = false", id).
			UpdateColumn("oculto", true)
		if res.Error != nil {
			return res.Error
		}
		hidden = res.RowsAffected > 0
		if !hidden {
			return nil
		}
		return tx.Raw(
			`UPDATE forum_tema SET comentarios = GREATEST(comentarios - 1, 0) WHERE id_tema = ? RETURNING comentarios`,
			threadID,
		).Scan(&comments).Error
	})
	if err != nil {
		return false, 0, err
	}
	return hidden, comments, nil
}

// ListByThread retrieves a page of visible comments in a thread along
// with the total count of visible comments.
func (r *CommentRepository) ListByThread(ctx context.Context, threadID int64, sort string, offset, limit int) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id_tema = ? AND oculto = false", threadID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	if err := q.Order(orderClause(sort, false)).
		Offset(offset).Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// orderClause maps a sort key to an ORDER BY clause. Unknown keys fall
// back to recency.
func orderClause(sort string, threads bool) string {
	switch sort {
	case models.SortLikes:
		return "likes DESC, data_criacao DESC"
	case models.SortDislikes:
		return "dislikes DESC, data_criacao DESC"
	case models.SortComments:
		if threads {
			return "comentarios DESC, data_criacao DESC"
		}
		return "data_criacao DESC"
	case models.SortOldest:
		return "data_criacao ASC"
	default:
		return "data_criacao DESC"
	}
}

// targetTable maps a vote/report target kind to its table and primary
// key column.
func targetTable(kind string) (table, pk string) {
	if kind == models.TargetComment {
		return "forum_comentario", "id_comentario"
	}
	return "forum_tema", "id_tema"
}
