package store

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/josephgoksu/BibleWing/internal/uid"
)

type resolveOptions struct {
	concurrency int
	logger      *slog.Logger
}

// ResolveOption tunes ResolveLinks.
type ResolveOption func(*resolveOptions)

// WithConcurrency fetches up to n entities at once. Output order is the same
// as the sequential walk.
func WithConcurrency(n int) ResolveOption {
	return func(o *resolveOptions) { o.concurrency = n }
}

// WithLogger sets the logger used for skipped links.
func WithLogger(l *slog.Logger) ResolveOption {
	return func(o *resolveOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// resolved holds the outcome for one link row. Exactly one field is set when
// the entity was found.
type resolved struct {
	named   *NamedEntity
	lexicon *LexiconEntry
}

// ResolveLinks gathers every entity a verse links to, grouped by category
// and kept in link-table order.
//
// A link whose target no longer exists, or whose declared type disagrees
// with the identifier prefix, is left out of the result. Any read error,
// for the link rows or for a single entity, is returned with an empty set.
func ResolveLinks(ctx context.Context, r EntityReader, verseUID string, opts ...ResolveOption) (LinkedEntitySet, error) {
	o := resolveOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	links, err := r.GetVerseLinks(ctx, verseUID)
	if err != nil {
		return LinkedEntitySet{}, err
	}

	results := make([]resolved, len(links))
	if o.concurrency > 1 && len(links) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.concurrency)
		for i, link := range links {
			g.Go(func() error {
				res, err := resolveOne(gctx, r, link, o.logger)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return LinkedEntitySet{}, err
		}
	} else {
		for i, link := range links {
			if ctx.Err() != nil {
				break
			}
			res, err := resolveOne(ctx, r, link, o.logger)
			if err != nil {
				return LinkedEntitySet{}, err
			}
			results[i] = res
		}
	}
	if err := ctx.Err(); err != nil {
		return LinkedEntitySet{}, err
	}

	set := NewLinkedEntitySet()
	for _, res := range results {
		switch {
		case res.named != nil:
			set.appendNamed(*res.named)
		case res.lexicon != nil:
			set.Lexicon = append(set.Lexicon, *res.lexicon)
		}
	}
	return set, nil
}

// resolveOne fetches the target of one link. A nil result with a nil error
// means the link is skipped.
func resolveOne(ctx context.Context, r EntityReader, link VerseLink, logger *slog.Logger) (resolved, error) {
	if c, ok := uid.CategoryOf(link.EntityUID); !ok || c != link.EntityType {
		logger.Debug("skipping link with mismatched entity type",
			"verse", link.VerseUID, "entity", link.EntityUID, "type", link.EntityType.String())
		return resolved{}, nil
	}

	if link.EntityType == uid.CategoryLexicon {
		entry, err := r.GetLexiconEntry(ctx, link.EntityUID)
		if err != nil {
			return resolved{}, err
		}
		if entry == nil {
			logger.Debug("skipping dangling link", "verse", link.VerseUID, "entity", link.EntityUID)
		}
		return resolved{lexicon: entry}, nil
	}

	e, err := r.GetNamedEntity(ctx, link.EntityType, link.EntityUID)
	if err != nil {
		return resolved{}, err
	}
	if e == nil {
		logger.Debug("skipping dangling link", "verse", link.VerseUID, "entity", link.EntityUID)
		return resolved{}, nil
	}
	e.Category = link.EntityType
	return resolved{named: e}, nil
}
