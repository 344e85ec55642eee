package orders

import "context"

// Store: registry order. Transition adalah satu-satunya titik mutasi status,
// semantik compare-and-set: hanya sukses kalau status tersimpan == from.
// Implementasi: MemoryStore (default) dan PostgresStore, kontrak sama.
type Store interface {
	// Create menyimpan order baru (status harus PENDING).
	// ErrAlreadyExists kalau code sudah dipakai.
	Create(ctx context.Context, o Order) error

	// Get mengembalikan snapshot order. ErrNotFound kalau tidak ada.
	Get(ctx context.Context, code int64) (Order, error)

	// Transition: CAS from -> to. Kalau status saat ini != from,
	// return snapshot terkini + ErrConflict tanpa mutasi apa pun.
	// Caller butuh snapshot itu untuk memutuskan idempotensi webhook.
	Transition(ctx context.Context, code int64, from, to Status) (Order, error)
}
