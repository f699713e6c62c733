package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"virtualfit-backend/internal/domain/model"
	"virtualfit-backend/internal/domain/ports/repository"
	"virtualfit-backend/internal/infra/metrics"
	red "virtualfit-backend/internal/infra/redis"
)

var _ repository.VoucherRepository = (*voucherRepoCacheDecorator)(nil)

// voucherRepoCacheDecorator serves plain (non-transactional) code lookups from
// Redis. Transactional reads always go to the database because the charge flow
// relies on the row lock, and every write invalidates the cached entry.
type voucherRepoCacheDecorator struct {
	inner repository.VoucherRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewVoucherRepoCacheDecorator(inner repository.VoucherRepository, cache red.RedisClient, ttl time.Duration) repository.VoucherRepository {
	return &voucherRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func voucherKey(code string) string { return fmt.Sprintf("voucher:%s", code) }

func (d *voucherRepoCacheDecorator) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Voucher, error) {
	if inTx(tx) {
		return d.inner.FindByCode(ctx, tx, code)
	}

	// Redis being unavailable reads as a miss; lookups must not block on it.
	key := voucherKey(code)
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("voucher", "hit")
		var v model.Voucher
		if json.Unmarshal([]byte(val), &v) == nil {
			return &v, nil
		}
	}

	metrics.IncCacheRequest("voucher", "miss")
	v, err := d.inner.FindByCode(ctx, tx, code)
	if err != nil {
		return nil, err
	}
	if v != nil {
		if bytes, err := json.Marshal(v); err == nil {
			_ = d.cache.Set(ctx, key, bytes, d.ttl)
		}
	}
	return v, nil
}

func (d *voucherRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, v *model.Voucher) error {
	_ = d.cache.Del(ctx, voucherKey(v.Code))
	return d.inner.Save(ctx, tx, v)
}

// Redeem drops the cached entry before delegating so that the next plain
// lookup sees the incremented counter instead of a stale TimesUsed.
func (d *voucherRepoCacheDecorator) Redeem(ctx context.Context, tx repository.Tx, v *model.Voucher) (bool, error) {
	_ = d.cache.Del(ctx, voucherKey(v.Code))
	return d.inner.Redeem(ctx, tx, v)
}
