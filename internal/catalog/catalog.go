package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ariefcatur/go-ticket-store.git/internal/orders"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Catalog: mapping product key -> produk, immutable setelah load.
// Harga yang dipakai order di-snapshot saat order dibuat, bukan dari sini.
type Catalog struct {
	byKey map[string]orders.Product
}

func New(products []orders.Product) (*Catalog, error) {
	byKey := make(map[string]orders.Product, len(products))
	for _, p := range products {
		if p.Key == "" {
			return nil, fmt.Errorf("product without key: %q", p.Name)
		}
		if p.PriceCents <= 0 {
			return nil, fmt.Errorf("product %s: price must be positive", p.Key)
		}
		if _, dup := byKey[p.Key]; dup {
			return nil, fmt.Errorf("duplicate product key: %s", p.Key)
		}
		byKey[p.Key] = p
	}
	return &Catalog{byKey: byKey}, nil
}

// FromFile: load dari file JSON (array of product), sekali di startup.
func FromFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []orders.Product
	if err := json.Unmarshal(b, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(products)
}

// FromDB: load dari table products, sekali di startup.
func FromDB(ctx context.Context, db *pgxpool.Pool) (*Catalog, error) {
	rows, err := db.Query(ctx, `SELECT key, name, price_cents, COALESCE(description,'')
	                            FROM products ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []orders.Product
	for rows.Next() {
		var p orders.Product
		if err := rows.Scan(&p.Key, &p.Name, &p.PriceCents, &p.Description); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return New(products)
}

func (c *Catalog) Get(key string) (orders.Product, bool) {
	p, ok := c.byKey[key]
	return p, ok
}

func (c *Catalog) List() []orders.Product {
	out := make([]orders.Product, 0, len(c.byKey))
	for _, p := range c.byKey {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
