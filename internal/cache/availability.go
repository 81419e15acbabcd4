package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/clippr-app/clippr-api/internal/domain/booking"
)

// Availability guarda listas de slots livres no Redis. A geração de slots é
// pura e barata de cachear; o dado pode ficar levemente defasado porque a
// recheca de conflito na confirmação sempre lê o banco.
//
// Ponteiro nil desliga o cache (Redis é opcional em dev).
type Availability struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailability(rdb *redis.Client, ttl time.Duration) *Availability {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Availability{rdb: rdb, ttl: ttl}
}

func availabilityKey(barberID, serviceID uint, date string) string {
	return fmt.Sprintf("avail:%d:%s:%d", barberID, date, serviceID)
}

func (c *Availability) Get(
	ctx context.Context,
	barberID, serviceID uint,
	date string,
) ([]booking.TimeSlot, bool) {

	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, availabilityKey(barberID, serviceID, date)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Println("availability cache get:", err)
		}
		return nil, false
	}

	var slots []booking.TimeSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *Availability) Set(
	ctx context.Context,
	barberID, serviceID uint,
	date string,
	slots []booking.TimeSlot,
) {

	if c == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, availabilityKey(barberID, serviceID, date), raw, c.ttl).Err(); err != nil {
		log.Println("availability cache set:", err)
	}
}

// Invalidate remove as entradas do barbeiro na data, para todos os serviços.
// Falha aqui não quebra a reserva: o TTL curto resolve sozinho.
func (c *Availability) Invalidate(ctx context.Context, barberID uint, date string) {
	if c == nil {
		return
	}

	pattern := fmt.Sprintf("avail:%d:%s:*", barberID, date)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Println("availability cache del:", err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Println("availability cache scan:", err)
	}
}
