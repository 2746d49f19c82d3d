package out

import (
	"context"

	"siapkit/internal/modules/planner/domain"
)

// Finder queries elements below a document or element.
type Finder interface {
	All(ctx context.Context, sel domain.Selector) ([]Element, error)
}

// Document is a browsing context: the top window or a frame.
type Document interface {
	Finder
	EvalBool(ctx context.Context, js string) (bool, error)
	EvalString(ctx context.Context, js string) (string, error)
}

// Element is a live DOM handle. Calls on a handle invalidated by a page update
// return an error wrapping apperrors.ErrStaleElement.
type Element interface {
	Finder
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	Interactable(ctx context.Context) (bool, error)
	ScrollIntoView(ctx context.Context) error
	ScriptClick(ctx context.Context) error
	PointerClick(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	Frame(ctx context.Context) (Document, error)
}

type Browser interface {
	Navigate(ctx context.Context, url string) error
	Top() Document
	Close() error
}

type BrowserStrategy interface {
	Name() string
	Acquire(ctx context.Context) (Browser, error)
}

type Journal interface {
	Record(ctx context.Context, result domain.ClassResult) error
	Recent(ctx context.Context, limit int) ([]domain.ClassResult, error)
}
