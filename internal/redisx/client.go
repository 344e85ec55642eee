package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Exists: cek key dedup tanpa menandai apa pun. rdb nil atau error redis
// dianggap belum pernah lihat; penjaga sebenarnya tetap CAS di store.
func Exists(ctx context.Context, rdb *redis.Client, key string) bool {
	if rdb == nil {
		return false
	}
	n, err := rdb.Exists(ctx, key).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// MarkOnce: set key dedup kalau belum ada. true = pertama kali terlihat.
// rdb nil = dedup dimatikan (selalu true); CAS di store tetap jadi pengaman utama.
func MarkOnce(ctx context.Context, rdb *redis.Client, key string) bool {
	if rdb == nil {
		return true
	}
	ok, err := rdb.SetNX(ctx, key, "1", TTLDedup).Result()
	if err != nil {
		return true
	}
	return ok
}
