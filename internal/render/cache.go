package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererCache pools glamour renderers per Options value. A TermRenderer
// must not run two Render calls at once, so callers check one out and put
// it back. Options only holds comparable fields and is the map key as is.
type rendererCache struct {
	mu    sync.RWMutex
	pools map[Options]*sync.Pool
}

var renderers = &rendererCache{pools: make(map[Options]*sync.Pool)}

func (c *rendererCache) pool(opts Options) *sync.Pool {
	c.mu.RLock()
	p, ok := c.pools[opts]
	c.mu.RUnlock()
	if ok {
		return p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pools[opts]; ok {
		return p
	}
	p = &sync.Pool{}
	c.pools[opts] = p
	return p
}

// checkout returns a pooled renderer for opts, building one when the pool is empty.
func (c *rendererCache) checkout(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := c.pool(opts).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	return createRenderer(opts)
}

func (c *rendererCache) release(opts Options, r *glamour.TermRenderer) {
	if r != nil {
		c.pool(opts).Put(r)
	}
}

// dropStyle forgets every pool built for style and reports how many went.
func (c *rendererCache) dropStyle(style string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for opts := range c.pools {
		if opts.Style == style {
			delete(c.pools, opts)
			n++
		}
	}
	return n
}

// createRenderer builds a TermRenderer. WithStylePath accepts both glamour's
// built-in style names and JSON style files.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ReleaseStyle drops the renderers of a style that is no longer shown, such
// as the previous theme after a toggle.
func ReleaseStyle(style string) int {
	return renderers.dropStyle(style)
}

// ClearCache drops every renderer pool.
func ClearCache() {
	renderers.mu.Lock()
	renderers.pools = make(map[Options]*sync.Pool)
	renderers.mu.Unlock()
}

// CacheSize returns the number of distinct renderer configurations.
func CacheSize() int {
	renderers.mu.RLock()
	defer renderers.mu.RUnlock()
	return len(renderers.pools)
}
