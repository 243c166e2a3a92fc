package chat

import (
	"sync"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
)

// Selection is the ordered set of products the user picked as context for
// the next message. Products are identified by content.Product.ID.
type Selection struct {
	mu       sync.Mutex
	products []content.Product
}

func NewSelection() *Selection {
	return &Selection{}
}

// Toggle adds p, or removes it if already selected. It reports whether p
// is selected afterwards.
func (s *Selection) Toggle(p content.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(p.ID()); i >= 0 {
		s.products = append(s.products[:i], s.products[i+1:]...)
		return false
	}
	s.products = append(s.products, p)
	return true
}

// Remove drops the product with the given id. It reports whether anything
// was removed.
func (s *Selection) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return true
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
}

func (s *Selection) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// Products returns the selection in the order it was made.
func (s *Selection) Products() []content.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]content.Product(nil), s.products...)
}

func (s *Selection) indexOf(id string) int {
	for i, p := range s.products {
		if p.ID() == id {
			return i
		}
	}
	return -1
}
