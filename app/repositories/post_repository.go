package repositories

import (
	"errors"

	"inkwell/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	post.BeforeSave()
	return r.db.Update(func(txn *badger.Txn) error {
		if err := checkSlugFree(txn, post.Slug, 0); err != nil {
			return err
		}
		if err := checkUserExists(txn, post.AuthorID); err != nil {
			return err
		}

		// Get next ID
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		return putPost(txn, post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		post, err = loadPost(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetBySlug retrieves a post by its slug
func (r *BadgerPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, postSlugKey(slug))
		if err != nil {
			return err
		}
		post, err = loadPost(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *BadgerPostRepository) CountPublished(tagSlug string) (int, error) {
	posts, err := r.all()
	if err != nil {
		return 0, err
	}
	return len(FilterPublished(posts, tagSlug)), nil
}

// ListPublished retrieves a page of published posts
func (r *BadgerPostRepository) ListPublished(tagSlug string, limit, offset int) ([]*models.Post, error) {
	posts, err := r.all()
	if err != nil {
		return nil, err
	}
	return Window(FilterPublished(posts, tagSlug), limit, offset), nil
}

func (r *BadgerPostRepository) ListSimilar(post *models.Post, limit int) ([]*models.Post, error) {
	posts, err := r.all()
	if err != nil {
		return nil, err
	}
	return RankSimilar(post, posts, limit), nil
}

func (r *BadgerPostRepository) SearchTitles(query string, threshold float64) ([]*models.SearchResult, error) {
	posts, err := r.all()
	if err != nil {
		return nil, err
	}
	return RankByTitle(posts, query, threshold), nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Post
		if err := getEntity(txn, postKey(post.ID), &existing); err != nil {
			return err
		}

		post.CreatedAt = existing.CreatedAt
		post.BeforeSave()
		if post.Slug != existing.Slug {
			if err := checkSlugFree(txn, post.Slug, post.ID); err != nil {
				return err
			}
			if err := txn.Delete(postSlugKey(existing.Slug)); err != nil {
				return err
			}
		}
		if err := checkUserExists(txn, post.AuthorID); err != nil {
			return err
		}
		return putPost(txn, post)
	})
}

// Delete deletes a post by ID along with its comments
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var post models.Post
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}

		var keys [][]byte
		err := eachWithPrefix(txn, commentPrefix(id), func(key, _ []byte) error {
			keys = append(keys, key)
			return nil
		})
		if err != nil {
			return err
		}
		keys = append(keys, postSlugKey(post.Slug), postKey(id))
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// all loads every post with its author.
func (r *BadgerPostRepository) all() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return eachWithPrefix(txn, []byte(PostKeyPrefix), func(_, val []byte) error {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return err
			}
			if err := loadAuthor(txn, &post); err != nil {
				return err
			}
			posts = append(posts, &post)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func loadPost(txn *badger.Txn, id int) (*models.Post, error) {
	var post models.Post
	if err := getEntity(txn, postKey(id), &post); err != nil {
		return nil, err
	}
	if err := loadAuthor(txn, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func loadAuthor(txn *badger.Txn, post *models.Post) error {
	var user models.User
	err := getEntity(txn, userKey(post.AuthorID), &user)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	post.Author = &user
	return nil
}

// putPost stores the post, its slug index and any new tags. Author and comments
// are stored under their own keys.
func putPost(txn *badger.Txn, post *models.Post) error {
	if err := resolveTags(txn, post.Tags); err != nil {
		return err
	}
	stored := *post
	stored.Author = nil
	stored.Comments = nil
	if err := setEntity(txn, postKey(post.ID), &stored); err != nil {
		return err
	}
	return setIndex(txn, postSlugKey(post.Slug), post.ID)
}

// resolveTags replaces each tag with the stored tag of the same slug, creating
// the ones that do not exist yet.
func resolveTags(txn *badger.Txn, tags []models.Tag) error {
	for i := range tags {
		var stored models.Tag
		err := getEntity(txn, tagKey(tags[i].Slug), &stored)
		if err == nil {
			tags[i] = stored
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		id, err := getNextID(txn, TagSeqKey)
		if err != nil {
			return err
		}
		tags[i].ID = id
		if err := setEntity(txn, tagKey(tags[i].Slug), &tags[i]); err != nil {
			return err
		}
	}
	return nil
}

func checkSlugFree(txn *badger.Txn, slug string, selfID int) error {
	id, err := getIndex(txn, postSlugKey(slug))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if id != selfID {
		return ErrDuplicateSlug
	}
	return nil
}

func checkUserExists(txn *badger.Txn, id int) error {
	_, err := txn.Get(userKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrUnknownAuthor
	}
	return err
}
