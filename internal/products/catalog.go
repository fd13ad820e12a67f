package product

import "sync"

// Catalog is the process-wide in-memory product list. It is rebuilt from the
// seed on every start and never persisted. Lookups scan in order and act on
// the first entry whose id matches.
//
// The mutex keeps individual operations memory safe; it does not make a
// catalog change and the matching database write atomic.
type Catalog struct {
	mu    sync.RWMutex
	items []ProductDTO
}

func NewCatalog(items []ProductDTO) *Catalog {
	cp := make([]ProductDTO, len(items))
	copy(cp, items)
	return &Catalog{items: cp}
}

// Items returns a snapshot in catalog order.
func (c *Catalog) Items() []ProductDTO {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]ProductDTO, len(c.items))
	copy(cp, c.items)
	return cp
}

func (c *Catalog) Contains(id int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(id) >= 0
}

// Replace swaps the first entry with the given id for p. p keeps its own id,
// which may differ from the one looked up.
func (c *Catalog) Replace(id int, p ProductDTO) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}
	c.items[idx] = p
	return true
}

// Remove drops the first entry with the given id.
func (c *Catalog) Remove(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return true
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Catalog) indexOf(id int) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
