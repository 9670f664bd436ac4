// Package content produces the printed face of each brochure page: the topic
// text, resolved from templates with random variants, and its texture image.
package content

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ayusman/brochure/internal/store"
)

// ErrInvalidColor is returned for theme colors that are not #RRGGBB.
var ErrInvalidColor = errors.New("invalid color")

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Source looks up page templates, typically the store's topic repository.
type Source interface {
	GetByIndex(index int) (*store.Topic, error)
}

// Page is a topic with every variant resolved, ready to draw.
type Page struct {
	Index    int        `json:"index"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Kind     string     `json:"kind"`
	Theme    color.RGBA `json:"-"`
	Art      string     `json:"art"`
	Body     []string   `json:"body"`
}

// Engine resolves page templates. It is safe for concurrent use.
type Engine struct {
	source  Source
	builtin map[int]*store.Topic

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an Engine reading from source, falling back to the
// built-in catalog for pages the source does not have. A nil rng is seeded
// from the clock.
func NewEngine(source Source, rng *rand.Rand) *Engine {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	builtin := make(map[int]*store.Topic)
	for _, t := range Catalog() {
		builtin[t.PageIndex] = t
	}
	return &Engine{source: source, builtin: builtin, rng: rng}
}

// Page resolves the page at index. Pages with no template get a blank face.
func (e *Engine) Page(index int) (*Page, error) {
	if index < 0 {
		return nil, fmt.Errorf("page %d: %w", index, store.ErrNotFound)
	}

	topic, err := e.lookup(index)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return Resolve(topic, e.rng)
}

func (e *Engine) lookup(index int) (*store.Topic, error) {
	if e.source != nil {
		t, err := e.source.GetByIndex(index)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load topic %d: %w", index, err)
		}
	}
	if t, ok := e.builtin[index]; ok {
		return t, nil
	}
	return &store.Topic{PageIndex: index, Kind: store.KindStandard, Theme: Gold, Art: ArtNone}, nil
}

// Resolve fills every {{pool}} reference of t with a random entry.
// References to unknown or empty pools resolve to an empty string.
func Resolve(t *store.Topic, rng *rand.Rand) (*Page, error) {
	theme, err := ParseColor(t.Theme)
	if err != nil {
		return nil, fmt.Errorf("topic %d: %w", t.PageIndex, err)
	}

	d := drawer{pools: t.Pools, rng: rng, used: make(map[string]map[int]bool)}
	page := &Page{
		Index:    t.PageIndex,
		Title:    d.fill(t.Title),
		Subtitle: d.fill(t.Subtitle),
		Kind:     t.Kind,
		Theme:    theme,
		Art:      t.Art,
		Body:     make([]string, len(t.Body)),
	}
	for i, line := range t.Body {
		page.Body[i] = d.fill(line)
	}
	return page, nil
}

type drawer struct {
	pools map[string]store.Pool
	rng   *rand.Rand
	used  map[string]map[int]bool
}

func (d *drawer) fill(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		return d.draw(placeholder.FindStringSubmatch(m)[1])
	})
}

func (d *drawer) draw(name string) string {
	pool, ok := d.pools[name]
	if !ok || len(pool.Entries) == 0 {
		return ""
	}
	if !pool.Distinct {
		return pool.Entries[d.rng.IntN(len(pool.Entries))]
	}

	used := d.used[name]
	if used == nil || len(used) == len(pool.Entries) {
		used = make(map[int]bool)
		d.used[name] = used
	}
	free := make([]int, 0, len(pool.Entries)-len(used))
	for i := range pool.Entries {
		if !used[i] {
			free = append(free, i)
		}
	}
	pick := free[d.rng.IntN(len(free))]
	used[pick] = true
	return pool.Entries[pick]
}

// ParseColor parses a #RRGGBB hex color.
func ParseColor(hex string) (color.RGBA, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
