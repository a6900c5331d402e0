package blocks

import (
	"context"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// Block container selectors, tried in order. Blocks are the classed divs
// directly inside a section.
var containerSelectors = []string{
	"main > div > div[class]",
	"body > div > div[class]",
}

// Registry binds block names to decorators and dispatches them over a
// document.
type Registry struct {
	decorators map[string]Decorator
	logger     *slog.Logger
	limit      int
}

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger used while dispatching.
func WithLogger(logger *slog.Logger) Option {
	return func(reg *Registry) {
		reg.logger = logger.With(slog.String("component", "blocks"))
	}
}

// WithConcurrency bounds the number of blocks decorated at once. A
// non-positive limit selects GOMAXPROCS.
func WithConcurrency(limit int) Option {
	return func(reg *Registry) {
		if limit > 0 {
			reg.limit = limit
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		decorators: make(map[string]Decorator),
		logger:     slog.New(slog.DiscardHandler),
		limit:      runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// Register binds name to decorator, replacing any previous binding.
func (r *Registry) Register(name string, decorator Decorator) {
	r.decorators[name] = decorator
}

// Lookup returns the decorator bound to name.
func (r *Registry) Lookup(name string) (Decorator, bool) {
	decorator, ok := r.decorators[name]
	return decorator, ok
}

// Names returns the registered block names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.decorators))
}

// DecorateAll decorates every block container under root exactly once.
// Containers already carrying a block status are skipped, as are blocks
// without a bound decorator. Blocks are decorated concurrently; each
// decorator only touches its own container. The only error is the context's.
func (r *Registry) DecorateAll(ctx context.Context, root *goquery.Selection) error {
	type job struct {
		name      string
		block     *goquery.Selection
		decorator Decorator
	}

	var jobs []job
	r.containers(root).Each(func(_ int, block *goquery.Selection) {
		if _, seen := block.Attr(AttrBlockStatus); seen {
			return
		}
		name := blockName(block)
		decorator, ok := r.Lookup(name)
		if !ok {
			r.logger.DebugContext(ctx, "no decorator for block", slog.String("block", name))
			return
		}
		appendClass(block, ClassBlock)
		block.SetAttr(AttrBlockName, name)
		block.SetAttr(AttrBlockStatus, StatusInitialized)
		jobs = append(jobs, job{name: name, block: block, decorator: decorator})
	})

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(r.limit)
	for _, j := range jobs {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			j.decorator.Decorate(j.block)
			j.block.SetAttr(AttrBlockStatus, StatusLoaded)
			r.logger.DebugContext(ctx, "decorated block", slog.String("block", j.name))
			return nil
		})
	}
	return grp.Wait()
}

func (r *Registry) containers(root *goquery.Selection) *goquery.Selection {
	for _, selector := range containerSelectors {
		if found := root.Find(selector); found.Length() > 0 {
			return found
		}
	}
	return root.Find(containerSelectors[0])
}

// blockName is the first class of a container.
func blockName(block *goquery.Selection) string {
	class, _ := block.Attr("class")
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
