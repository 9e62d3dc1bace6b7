package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/app/models"
)

// GormPostRepository implements PostRepository on PostgreSQL or SQLite.
type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) Create(post *models.Post) error {
	post.BeforeSave()
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := gormCheckSlugFree(tx, post.Slug, 0); err != nil {
			return err
		}
		if err := gormCheckUserExists(tx, post.AuthorID); err != nil {
			return err
		}
		if err := gormResolveTags(tx, post.Tags); err != nil {
			return err
		}
		return tx.Omit("Author", "Comments", "Tags.*").Create(post).Error
	})
}

func (r *GormPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations(r.db).First(&post, id).Error; err != nil {
		return nil, gormErr(err)
	}
	return &post, nil
}

func (r *GormPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations(r.db).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, gormErr(err)
	}
	return &post, nil
}

func (r *GormPostRepository) CountPublished(tagSlug string) (int, error) {
	var n int64
	if err := r.published(tagSlug).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *GormPostRepository) ListPublished(tagSlug string, limit, offset int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.withRelations(r.published(tagSlug)).
		Order("posts.publish DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListSimilar counts shared tags in SQL and loads the winning posts afterwards.
func (r *GormPostRepository) ListSimilar(post *models.Post, limit int) ([]*models.Post, error) {
	slugs := make([]string, 0, len(post.Tags))
	for _, t := range post.Tags {
		slugs = append(slugs, t.Slug)
	}
	if len(slugs) == 0 {
		return []*models.Post{}, nil
	}

	var rows []struct {
		ID       int
		SameTags int
	}
	err := r.db.Table("posts").
		Select("posts.id, COUNT(tags.id) AS same_tags").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("tags.slug IN ?", slugs).
		Where("posts.id <> ?", post.ID).
		Group("posts.id, posts.publish").
		Order("same_tags DESC, posts.publish DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	byID, err := r.loadByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SearchTitles scores titles with pg_trgm on PostgreSQL. SQLite has no trigram
// support, so there the scoring runs in process.
func (r *GormPostRepository) SearchTitles(query string, threshold float64) ([]*models.SearchResult, error) {
	if r.db.Dialector.Name() != "postgres" {
		posts := []*models.Post{}
		if err := r.withRelations(r.db).Find(&posts).Error; err != nil {
			return nil, err
		}
		return RankByTitle(posts, query, threshold), nil
	}

	var rows []struct {
		ID         int
		Similarity float64
	}
	err := r.db.Raw(
		"SELECT id, similarity(title, ?) AS similarity FROM posts WHERE similarity(title, ?) > ?",
		query, query, threshold,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	byID, err := r.loadByIDs(ids)
	if err != nil {
		return nil, err
	}
	results := make([]*models.SearchResult, 0, len(rows))
	for _, row := range rows {
		if p, ok := byID[row.ID]; ok {
			results = append(results, &models.SearchResult{Post: p, Similarity: row.Similarity})
		}
	}
	SortResults(results)
	return results, nil
}

func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Post
		if err := tx.First(&existing, post.ID).Error; err != nil {
			return gormErr(err)
		}

		post.CreatedAt = existing.CreatedAt
		post.BeforeSave()
		if err := gormCheckSlugFree(tx, post.Slug, post.ID); err != nil {
			return err
		}
		if err := gormCheckUserExists(tx, post.AuthorID); err != nil {
			return err
		}
		if err := gormResolveTags(tx, post.Tags); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(post.Tags)
	})
}

// Delete removes the post, its comments and its tag links.
func (r *GormPostRepository) Delete(id int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			return gormErr(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

func (r *GormPostRepository) withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.id")
	})
}

// published selects published posts, restricted to tagSlug when set.
func (r *GormPostRepository) published(tagSlug string) *gorm.DB {
	q := r.db.Model(&models.Post{}).Where("posts.status = ?", models.StatusPublished)
	if tagSlug != "" {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", tagSlug)
	}
	return q
}

func (r *GormPostRepository) loadByIDs(ids []int) (map[int]*models.Post, error) {
	byID := make(map[int]*models.Post, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var posts []*models.Post
	if err := r.withRelations(r.db).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	for _, p := range posts {
		byID[p.ID] = p
	}
	return byID, nil
}

// gormResolveTags replaces each tag with the stored row of the same slug,
// inserting the missing ones.
func gormResolveTags(tx *gorm.DB, tags []models.Tag) error {
	for i := range tags {
		var tag models.Tag
		err := tx.Where(models.Tag{Slug: tags[i].Slug}).
			Attrs(models.Tag{Name: tags[i].Name}).
			FirstOrCreate(&tag).Error
		if err != nil {
			return err
		}
		tags[i] = tag
	}
	return nil
}

func gormCheckSlugFree(tx *gorm.DB, slug string, selfID int) error {
	var n int64
	if err := tx.Model(&models.Post{}).Where("slug = ? AND id <> ?", slug, selfID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateSlug
	}
	return nil
}

func gormCheckUserExists(tx *gorm.DB, id int) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownAuthor
	}
	return nil
}
