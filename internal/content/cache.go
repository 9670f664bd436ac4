package content

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/brochure/internal/logger"
)

// Painter turns a resolved page into an encoded image.
type Painter interface {
	Render(p *Page) ([]byte, error)
}

// Cache holds the texture of every page. Textures are resolved and drawn
// once; later lookups return the same bytes so a page keeps its face.
type Cache struct {
	engine  *Engine
	painter Painter
	log     *zap.Logger

	mu       sync.RWMutex
	pages    map[int]*Page
	textures map[int][]byte
}

// NewCache creates an empty Cache.
func NewCache(engine *Engine, painter Painter) *Cache {
	return &Cache{
		engine:   engine,
		painter:  painter,
		log:      logger.Named("content"),
		pages:    make(map[int]*Page),
		textures: make(map[int][]byte),
	}
}

// Warm renders pages 0..count-1 in parallel so that every texture exists
// before the first frame is drawn.
func (c *Cache) Warm(ctx context.Context, count int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.Texture(i)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("warm textures: %w", err)
	}
	c.log.Info("textures ready", zap.Int("pages", count))
	return nil
}

// Texture returns the encoded texture of page index, drawing it on first use.
func (c *Cache) Texture(index int) ([]byte, error) {
	c.mu.RLock()
	tex, ok := c.textures[index]
	c.mu.RUnlock()
	if ok {
		return tex, nil
	}

	page, err := c.engine.Page(index)
	if err != nil {
		return nil, err
	}
	tex, err = c.painter.Render(page)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent caller may have won; keep the first texture.
	if existing, ok := c.textures[index]; ok {
		return existing, nil
	}
	c.pages[index] = page
	c.textures[index] = tex
	c.log.Debug("texture rendered", zap.Int("page", index), zap.Int("bytes", len(tex)))
	return tex, nil
}

// Page returns the resolved page behind a cached texture.
func (c *Cache) Page(index int) (*Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pages[index]
	return p, ok
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures)
}

// Invalidate drops the cached texture of page index so the next lookup
// resolves and draws it again.
func (c *Cache) Invalidate(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, index)
	delete(c.textures, index)
	c.log.Debug("texture invalidated", zap.Int("page", index))
}
