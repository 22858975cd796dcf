package styling

import (
	"sort"
	"strings"
	"sync"
)

// StyleRegistry collects component styles for injection into a page
type StyleRegistry struct {
	mu     sync.RWMutex
	styles map[string]*ComponentStyle
}

// NewRegistry creates an empty registry
func NewRegistry() *StyleRegistry {
	return &StyleRegistry{styles: make(map[string]*ComponentStyle)}
}

// Register adds style, keyed by its hash
func (r *StyleRegistry) Register(style *ComponentStyle) {
	if style == nil || style.CSS == "" {
		return
	}
	r.mu.Lock()
	r.styles[style.Hash] = style
	r.mu.Unlock()
}

// CSS returns every registered scoped sheet in hash order
func (r *StyleRegistry) CSS() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hashes := make([]string, 0, len(r.styles))
	for h := range r.styles {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)

	var b strings.Builder
	for _, h := range hashes {
		b.WriteString(r.styles[h].Sheet())
		b.WriteString("\n")
	}
	return b.String()
}
