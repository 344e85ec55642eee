package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VaultRepo: stok barang digital di postgres.
// Ambil satu row dengan FOR UPDATE SKIP LOCKED supaya dua pengambilan
// concurrent tidak pernah dapat item yang sama.
type VaultRepo struct{ DB *pgxpool.Pool }

func (r *VaultRepo) TakeItem(ctx context.Context, productKey string) (string, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	var payload string
	err = tx.QueryRow(ctx, `
		SELECT id, payload FROM item_vault
		WHERE product_key=$1 AND taken_at IS NULL
		ORDER BY id
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`, productKey).Scan(&id, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOutOfStock
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `UPDATE item_vault SET taken_at=now() WHERE id=$1`, id); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return payload, nil
}
