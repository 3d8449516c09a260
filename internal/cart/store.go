package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice    = errors.New("invalid price")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrItemNotFound    = errors.New("item not found")
)

// Store holds the line items of one cart in first-add order.
// Product ids are unique within a Store. It is not safe for concurrent use;
// the owning session serializes access.
type Store struct {
	items []Item
}

func NewStore() *Store {
	return &Store{items: []Item{}}
}

// Add puts one unit of the product in the cart. A product already present
// keeps its first-seen name and price and only has its quantity bumped.
func (s *Store) Add(id, name, price string) (Item, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity++
			return s.items[i], nil
		}
	}

	unitPrice, err := ParsePrice(price)
	if err != nil {
		return Item{}, err
	}

	it := Item{ID: id, Name: name, UnitPrice: unitPrice, Quantity: 1}
	s.items = append(s.items, it)
	return it, nil
}

// RemoveAt drops the item at the given position. An out of range index
// leaves the cart untouched.
func (s *Store) RemoveAt(index int) (Item, error) {
	if index < 0 || index >= len(s.items) {
		return Item{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(s.items))
	}
	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	return removed, nil
}

func (s *Store) RemoveByID(id string) (Item, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return s.RemoveAt(i)
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func (s *Store) Clear() {
	s.items = []Item{}
}

// Total sums unit price times quantity over every item; zero when empty.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Empty() bool {
	return len(s.items) == 0
}
