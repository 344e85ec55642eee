package inventory

import (
	"context"
	"errors"
	"sync"
)

var ErrOutOfStock = errors.New("out of stock")

// Source: tempat ambil barang digital (akun/key) per product.
// TakeItem mengonsumsi satu item; ErrOutOfStock kalau kosong.
type Source interface {
	TakeItem(ctx context.Context, productKey string) (payload string, err error)
}

// StaticSource: stok in-memory, dipakai saat tidak ada database.
type StaticSource struct {
	mu    sync.Mutex
	items map[string][]string
}

func NewStaticSource(items map[string][]string) *StaticSource {
	if items == nil {
		items = make(map[string][]string)
	}
	return &StaticSource{items: items}
}

func (s *StaticSource) TakeItem(_ context.Context, productKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock := s.items[productKey]
	if len(stock) == 0 {
		return "", ErrOutOfStock
	}
	payload := stock[0]
	s.items[productKey] = stock[1:]
	return payload, nil
}
