package repositories

import (
	"sort"

	"inkwell/app/models"
	"inkwell/app/search"
)

// The helpers below implement listing, similarity and search over posts held in
// memory. Backends without a query engine (badger, the test mock) and SQLite,
// which lacks pg_trgm, share them.

// FilterPublished keeps published posts carrying tagSlug (any tag when empty),
// ordered by publish time descending.
func FilterPublished(posts []*models.Post, tagSlug string) []*models.Post {
	var out []*models.Post
	for _, p := range posts {
		if !p.IsPublished() {
			continue
		}
		if tagSlug != "" && !p.HasTag(tagSlug) {
			continue
		}
		out = append(out, p)
	}
	SortByPublish(out)
	return out
}

// SortByPublish orders posts newest first, ties by id descending.
func SortByPublish(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Publish.Equal(posts[j].Publish) {
			return posts[i].Publish.After(posts[j].Publish)
		}
		return posts[i].ID > posts[j].ID
	})
}

// Window returns posts[offset:offset+limit], clamped to the slice.
func Window(posts []*models.Post, limit, offset int) []*models.Post {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) || limit <= 0 {
		return []*models.Post{}
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

// RankSimilar picks the candidates sharing at least one tag with post, ranked by
// shared-tag count and publish time, both descending.
func RankSimilar(post *models.Post, candidates []*models.Post, limit int) []*models.Post {
	tags := post.TagSlugs()
	type scored struct {
		post   *models.Post
		shared int
	}
	var ranked []scored
	for _, c := range candidates {
		if c.ID == post.ID {
			continue
		}
		shared := 0
		for slug := range c.TagSlugs() {
			if _, ok := tags[slug]; ok {
				shared++
			}
		}
		if shared > 0 {
			ranked = append(ranked, scored{post: c, shared: shared})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].shared != ranked[j].shared {
			return ranked[i].shared > ranked[j].shared
		}
		return ranked[i].post.Publish.After(ranked[j].post.Publish)
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]*models.Post, len(ranked))
	for i, r := range ranked {
		out[i] = r.post
	}
	return out
}

// RankByTitle scores every post title against query and keeps those strictly
// above threshold, ordered by ascending similarity then publish time descending.
func RankByTitle(posts []*models.Post, query string, threshold float64) []*models.SearchResult {
	var results []*models.SearchResult
	for _, p := range posts {
		score := search.Similarity(p.Title, query)
		if score > threshold {
			results = append(results, &models.SearchResult{Post: p, Similarity: score})
		}
	}
	SortResults(results)
	return results
}

// SortResults orders results by ascending similarity, ties newest first.
func SortResults(results []*models.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity < results[j].Similarity
		}
		return results[i].Post.Publish.After(results[j].Post.Publish)
	})
}

// SortComments orders comments by creation time ascending, ties by id.
func SortComments(comments []*models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
}

// ActiveOnly drops comments hidden by moderation.
func ActiveOnly(comments []*models.Comment) []*models.Comment {
	out := make([]*models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}
