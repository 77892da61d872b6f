package sitedata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linkpage/service/internal/docstore"
)

// ErrInvalidCategory is returned when a submitted category has no usable id.
var ErrInvalidCategory = errors.New("category id is required")

// Service contains the business logic for site configuration.
type Service struct {
	store docstore.Store
	now   func() time.Time
}

// NewService creates a new sitedata Service.
func NewService(store docstore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SiteData returns the stored profile and background image URL, falling back
// to the documented defaults for anything not yet saved.
func (s *Service) SiteData(ctx context.Context) (*SiteData, error) {
	profile, err := s.store.Get(ctx, configCollection, profileDocID)
	if errors.Is(err, docstore.ErrNotFound) {
		profile = docstore.Clone(defaultProfile)
	} else if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	backgroundURL := defaultBackgroundURL
	background, err := s.store.Get(ctx, configCollection, backgroundDocID)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("get background: %w", err)
	}
	if url, ok := background["imageUrl"].(string); ok && url != "" {
		backgroundURL = url
	}

	return &SiteData{Profile: profile, BackgroundImage: backgroundURL}, nil
}

// Categories returns all stored categories sorted by createdAt ascending,
// with the submitted order as tie-breaker.
func (s *Service) Categories(ctx context.Context) ([]docstore.Document, error) {
	docs, err := s.store.List(ctx, categoriesCollection)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]docstore.Document, 0, len(docs))
	for id, doc := range docs {
		doc["id"] = id
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, _ := out[i]["createdAt"].(string)
		cj, _ := out[j]["createdAt"].(string)
		if ci != cj {
			return ci < cj
		}
		oi, oj := numberField(out[i], "order"), numberField(out[j], "order")
		if oi != oj {
			return oi < oj
		}
		idi, _ := out[i]["id"].(string)
		idj, _ := out[j]["id"].(string)
		return idi < idj
	})
	return out, nil
}

// Save applies the submitted sections of the site configuration. The three
// sections are independent: they are dispatched concurrently, a failure in one
// does not block or roll back the others, and the first failure is returned.
// The write timestamp stamped on every touched document is also returned.
func (s *Service) Save(ctx context.Context, req SaveRequest) (time.Time, error) {
	ts := s.now().UTC()

	// Validate before dispatching so a bad payload writes nothing.
	for i, cat := range req.Categories {
		if id, _ := cat["id"].(string); id == "" {
			return ts, fmt.Errorf("%w (index %d)", ErrInvalidCategory, i)
		}
	}

	var g errgroup.Group

	if req.Profile != nil {
		g.Go(func() error {
			doc := docstore.Clone(req.Profile)
			doc["updatedAt"] = ts.Format(time.RFC3339)
			if err := s.store.Set(ctx, configCollection, profileDocID, doc); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
			return nil
		})
	}

	if req.BackgroundImage != "" {
		g.Go(func() error {
			doc := docstore.Document{
				"imageUrl":  req.BackgroundImage,
				"updatedAt": ts.Format(time.RFC3339),
			}
			if err := s.store.Set(ctx, configCollection, backgroundDocID, doc); err != nil {
				return fmt.Errorf("save background: %w", err)
			}
			return nil
		})
	}

	if req.Categories != nil {
		g.Go(func() error {
			if err := s.replaceCategories(ctx, req.Categories, ts); err != nil {
				return fmt.Errorf("save categories: %w", err)
			}
			return nil
		})
	}

	return ts, g.Wait()
}

// replaceCategories replaces the entire category collection with cats. Every
// stored document gets createdAt = ts and order = its index in cats; nothing
// from the previous collection survives unless its id reappears.
//
// When the store can swap a collection atomically the whole replace happens in
// one step. Otherwise the fallback is delete-then-write: all deletions are
// dispatched concurrently and joined, then all writes. Readers may observe an
// empty or partially written collection during that window; there is no
// cross-document transaction to guard it.
func (s *Service) replaceCategories(ctx context.Context, cats []docstore.Document, ts time.Time) error {
	docs := make(map[string]docstore.Document, len(cats))
	for i, cat := range cats {
		doc := docstore.Clone(cat)
		doc["createdAt"] = ts.Format(time.RFC3339)
		doc["order"] = i
		id, _ := doc["id"].(string)
		docs[id] = doc
	}

	if ra, ok := s.store.(docstore.ReplaceAller); ok {
		return ra.ReplaceAll(ctx, categoriesCollection, docs)
	}

	existing, err := s.store.List(ctx, categoriesCollection)
	if err != nil {
		return fmt.Errorf("list existing categories: %w", err)
	}

	var deletes errgroup.Group
	for id := range existing {
		id := id
		deletes.Go(func() error {
			return s.store.Delete(ctx, categoriesCollection, id)
		})
	}
	if err := deletes.Wait(); err != nil {
		return fmt.Errorf("delete existing categories: %w", err)
	}

	var writes errgroup.Group
	for id, doc := range docs {
		id, doc := id, doc
		writes.Go(func() error {
			return s.store.Set(ctx, categoriesCollection, id, doc)
		})
	}
	return writes.Wait()
}

// numberField reads a numeric document field, tolerating the int/float64
// split between freshly written and JSON-decoded documents.
func numberField(doc docstore.Document, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
