/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-23 17:01:17
 * @FilePath: \rental-desk\backend\internal\infra\ratelimit\limiter.go
 * @LastEditTime: 2026-09-23 17:01:21
 */
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Policy 描述固定窗口限流的阈值：Window 内最多 Limit 次。Limit <= 0 表示不限流。
type Policy struct {
	Limit  int
	Window time.Duration
}

func (p Policy) normalised() Policy {
	if p.Window <= 0 {
		p.Window = time.Minute
	}
	return p
}

// Decision 描述一次限流判定的结果。
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Remaining  int
}

var unlimited = Decision{Allowed: true, Remaining: -1}

// Limiter 定义限流器的通用能力，key 通常是客户端 IP 或员工 ID。
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter 使用 Redis 计数器实现固定窗口限流，多实例共享计数。
type RedisLimiter struct {
	client *redis.Client
	prefix string
	policy Policy
}

// NewRedisLimiter 根据 Redis 客户端构造限流器，可自定义 key 前缀。
func NewRedisLimiter(client *redis.Client, prefix string, policy Policy) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix, policy: policy.normalised()}
}

// Allow 对 key 计数，窗口从第一次请求开始计时，到期后自动重置。
func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if r == nil || r.client == nil || r.policy.Limit <= 0 {
		return unlimited, nil
	}

	namespaced := r.prefix + ":" + key
	count, err := r.client.Incr(ctx, namespaced).Result()
	if err != nil {
		return Decision{}, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, namespaced, r.policy.Window).Err(); err != nil {
			return Decision{}, err
		}
	}

	if int(count) > r.policy.Limit {
		ttl, err := r.client.TTL(ctx, namespaced).Result()
		if err != nil {
			return Decision{}, err
		}
		if ttl < 0 {
			// 计数键丢失了过期时间，补设一次避免永久封禁。
			_ = r.client.Expire(ctx, namespaced, r.policy.Window).Err()
			ttl = r.policy.Window
		}
		return Decision{Allowed: false, RetryAfter: ttl, Remaining: 0}, nil
	}

	return Decision{Allowed: true, Remaining: r.policy.Limit - int(count)}, nil
}

// MemoryLimiter 是 Redis 不可用时的替代方案，用于本地模式与单元测试。
type MemoryLimiter struct {
	mu     sync.Mutex
	store  map[string]entry
	policy Policy
	now    func() time.Time
}

type entry struct {
	count   int
	expires time.Time
}

// NewMemoryLimiter 构建内存版限流器。
func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		store:  make(map[string]entry),
		policy: policy.normalised(),
		now:    time.Now,
	}
}

// Allow 通过内存 map 统计请求次数，行为与 RedisLimiter 保持一致。
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	if m == nil || m.policy.Limit <= 0 {
		return unlimited, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ent, ok := m.store[key]
	if !ok || !now.Before(ent.expires) {
		m.sweep(now)
		m.store[key] = entry{count: 1, expires: now.Add(m.policy.Window)}
		return Decision{Allowed: true, Remaining: m.policy.Limit - 1}, nil
	}

	ent.count++
	m.store[key] = ent

	if ent.count > m.policy.Limit {
		return Decision{Allowed: false, RetryAfter: ent.expires.Sub(now), Remaining: 0}, nil
	}
	return Decision{Allowed: true, Remaining: m.policy.Limit - ent.count}, nil
}

// sweep 清理已过期的计数，防止 key 无限增长。
func (m *MemoryLimiter) sweep(now time.Time) {
	for key, ent := range m.store {
		if !now.Before(ent.expires) {
			delete(m.store, key)
		}
	}
}
