package share

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/store"
)

// cloneConcurrency bounds the bookmark-clone fan-out during category import.
const cloneConcurrency = 4

// CloneFailure records one bookmark that could not be cloned during a
// category import.
type CloneFailure struct {
	BookmarkID string
	Title      string
	Err        error
}

// ImportReport is the inspectable outcome of a category import. The
// category is always created; clone failures are partial and per-bookmark.
type ImportReport struct {
	Category *domain.Category
	Created  int
	Failed   []CloneFailure
}

// ImportBookmark copies a resolved shared bookmark into the current user's
// account: content fields carry over, identity and state fields reset.
func (s *Service) ImportBookmark(ctx context.Context, res Resolution) (*domain.Bookmark, error) {
	if res.State != StateResolvedBookmark || res.Bookmark == nil {
		return nil, ErrNotResolved
	}

	src := *res.Bookmark
	tags, err := s.adoptTags(ctx, domain.TagNames(src.Tags))
	if err != nil {
		return nil, err
	}
	src.Tags = tags

	return s.store.CloneBookmark(ctx, src, "")
}

// ImportCategory copies a resolved shared category into the current user's
// account. The shared tag names dedupe against the user's own tags via
// find-or-create, the category is created private, and every member
// bookmark is cloned concurrently. A clone failure never aborts the import;
// it is logged and surfaces in the report.
func (s *Service) ImportCategory(ctx context.Context, res Resolution) (*ImportReport, error) {
	if res.State != StateResolvedCategory || res.Category == nil {
		return nil, ErrNotResolved
	}

	tags, err := s.adoptTags(ctx, res.TagNames)
	if err != nil {
		return nil, err
	}

	category, err := s.store.AddCategory(ctx, store.CategoryInput{
		Title: res.Category.Title,
		Tags:  tags,
	})
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Category: category}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cloneConcurrency)
	for _, src := range res.Bookmarks {
		src := src
		g.Go(func() error {
			var err error
			// Each member's tags dedupe against the user's set the same
			// way the category's did, so clones reference real tag rows.
			src.Tags, err = s.adoptTags(ctx, domain.TagNames(src.Tags))
			if err == nil {
				_, err = s.store.CloneBookmark(ctx, src, category.ID)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("failed to clone shared bookmark",
					"bookmarkID", src.ID, "title", src.Title, "error", err)
				report.Failed = append(report.Failed, CloneFailure{
					BookmarkID: src.ID,
					Title:      src.Title,
					Err:        err,
				})
				return nil
			}
			report.Created++
			return nil
		})
	}
	_ = g.Wait()

	return report, nil
}

// adoptTags resolves shared tag names against the user's own tag set,
// creating the missing ones. Duplicate names collapse to one tag.
func (s *Service) adoptTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	var tags []domain.Tag
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if name == "" {
			continue
		}
		tag, err := s.store.FindOrCreateTag(ctx, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		tags = append(tags, *tag)
	}
	return tags, nil
}
