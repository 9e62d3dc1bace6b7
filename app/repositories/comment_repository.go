package repositories

import (
	"errors"

	"inkwell/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	comment.BeforeSave()
	return r.db.Update(func(txn *badger.Txn) error {
		// Verify post exists
		if _, err := txn.Get(postKey(comment.PostID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Get next ID
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		// Save comment with post ID in key for efficient listing
		return setEntity(txn, commentKey(comment.PostID, comment.ID), comment)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id int) (*models.Comment, error) {
	var found *models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := findCommentKey(txn, id)
		if err != nil {
			return err
		}
		var comment models.Comment
		if err := getEntity(txn, key, &comment); err != nil {
			return err
		}
		found = &comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListByPost retrieves all comments for a post, oldest first
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		return eachWithPrefix(txn, commentPrefix(postID), func(_, val []byte) error {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return err
			}
			comments = append(comments, &comment)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	SortComments(comments)
	return comments, nil
}

// ListActiveByPost retrieves the comments of a post that passed moderation
func (r *BadgerCommentRepository) ListActiveByPost(postID int) ([]*models.Comment, error) {
	comments, err := r.ListByPost(postID)
	if err != nil {
		return nil, err
	}
	return ActiveOnly(comments), nil
}

// Update updates an existing comment. The post and creation time cannot change.
func (r *BadgerCommentRepository) Update(comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := findCommentKey(txn, comment.ID)
		if err != nil {
			return err
		}
		var existing models.Comment
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}

		comment.PostID = existing.PostID
		comment.CreatedAt = existing.CreatedAt
		comment.BeforeSave()
		return setEntity(txn, key, comment)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := findCommentKey(txn, id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// findCommentKey scans all comments for the one with the given ID, since the
// key is prefixed by the post ID.
func findCommentKey(txn *badger.Txn, id int) ([]byte, error) {
	var found []byte
	errFound := errors.New("found")
	err := eachWithPrefix(txn, []byte(CommentKeyPrefix), func(key, val []byte) error {
		var comment models.Comment
		if err := unmarshalEntity(val, &comment); err != nil {
			return err
		}
		if comment.ID == id {
			found = key
			return errFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFound) {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}
