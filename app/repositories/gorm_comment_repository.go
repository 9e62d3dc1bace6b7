package repositories

import (
	"gorm.io/gorm"

	"inkwell/app/models"
)

// GormCommentRepository implements CommentRepository on a SQL database.
type GormCommentRepository struct {
	db *gorm.DB
}

func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(comment *models.Comment) error {
	comment.BeforeSave()
	return r.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.Create(comment).Error
	})
}

func (r *GormCommentRepository) GetByID(id int) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, gormErr(err)
	}
	return &comment, nil
}

func (r *GormCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	return r.list(r.db.Where("post_id = ?", postID))
}

func (r *GormCommentRepository) ListActiveByPost(postID int) ([]*models.Comment, error) {
	return r.list(r.db.Where("post_id = ? AND active = ?", postID, true))
}

func (r *GormCommentRepository) list(q *gorm.DB) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	if err := q.Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Comment
		if err := tx.First(&existing, comment.ID).Error; err != nil {
			return gormErr(err)
		}
		comment.PostID = existing.PostID
		comment.CreatedAt = existing.CreatedAt
		comment.BeforeSave()
		return tx.Save(comment).Error
	})
}

func (r *GormCommentRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			return gormErr(err)
		}
		return tx.Delete(&comment).Error
	})
}
