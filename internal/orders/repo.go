package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore: implementasi Store yang sama kontraknya dengan MemoryStore,
// CAS lewat conditional UPDATE (WHERE status = from) + cek RowsAffected.
type PostgresStore struct{ DB *pgxpool.Pool }

func (r *PostgresStore) Create(ctx context.Context, o Order) error {
	if o.Status == "" {
		o.Status = StatusPending
	}
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO ticket_orders(order_code, buyer_id, channel_id, product_key, amount_cents, status, checkout_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_code) DO NOTHING
	`, o.Code, o.BuyerID, o.ChannelID, o.ProductKey, o.AmountCents, string(o.Status), o.CheckoutURL)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *PostgresStore) Get(ctx context.Context, code int64) (Order, error) {
	return r.scanOne(ctx, code)
}

func (r *PostgresStore) Transition(ctx context.Context, code int64, from, to Status) (Order, error) {
	if !CanTransition(from, to) {
		o, err := r.scanOne(ctx, code)
		if err != nil {
			return Order{}, err
		}
		return o, ErrConflict
	}

	ct, err := r.DB.Exec(ctx, `
		UPDATE ticket_orders SET status=$3, updated_at=now()
		WHERE order_code=$1 AND status=$2
	`, code, string(from), string(to))
	if err != nil {
		return Order{}, err
	}
	// RowsAffected==0: code tidak ada, atau status sudah berubah (kalah CAS).
	// Bedakan lewat re-read supaya caller dapat snapshot terkini.
	if ct.RowsAffected() == 0 {
		o, err := r.scanOne(ctx, code)
		if err != nil {
			return Order{}, err
		}
		return o, ErrConflict
	}
	return r.scanOne(ctx, code)
}

func (r *PostgresStore) scanOne(ctx context.Context, code int64) (Order, error) {
	var o Order
	var status string
	err := r.DB.QueryRow(ctx, `
		SELECT order_code, buyer_id, channel_id, product_key, amount_cents, status, checkout_url, created_at, updated_at
		FROM ticket_orders WHERE order_code=$1
	`, code).Scan(&o.Code, &o.BuyerID, &o.ChannelID, &o.ProductKey, &o.AmountCents, &status, &o.CheckoutURL, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	return o, nil
}
