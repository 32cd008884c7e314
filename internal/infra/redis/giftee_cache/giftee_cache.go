package infra_redis_giftee_cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis"
	"github.com/sharuys/SecretSanta/internal/model"
)

type Driver struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func New(
	client *redis.Client,
	key string,
	ttl time.Duration,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

type gifteeDTO struct {
	RequesterName  string `json:"requester_name"`
	GifteeName     string `json:"giftee_name"`
	GifteeWishlist string `json:"giftee_wishlist"`
	Budget         string `json:"budget"`
}

func (d *Driver) Get(ctx context.Context, userCode string) (*model.Giftee, error) {
	raw, err := d.client.WithContext(ctx).Get(d.getFullKey(userCode)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var dto gifteeDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}
	return &model.Giftee{
		RequesterName:  dto.RequesterName,
		GifteeName:     dto.GifteeName,
		GifteeWishlist: dto.GifteeWishlist,
		Budget:         dto.Budget,
	}, nil
}

func (d *Driver) Set(ctx context.Context, userCode string, giftee model.Giftee) error {
	raw, err := json.Marshal(gifteeDTO{
		RequesterName:  giftee.RequesterName,
		GifteeName:     giftee.GifteeName,
		GifteeWishlist: giftee.GifteeWishlist,
		Budget:         giftee.Budget,
	})
	if err != nil {
		return err
	}

	return d.client.WithContext(ctx).Set(d.getFullKey(userCode), raw, d.ttl).Err()
}

func (d *Driver) getFullKey(userCode string) string {
	return d.key + ":" + userCode
}
