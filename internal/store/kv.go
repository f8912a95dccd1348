package store

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// KV est le magasin clé-valeur durable partagé par tous les utilisateurs.
// Chaque collection est stockée entière sous une clé plate ; Publish et
// Subscribe portent les notifications de changement externe (l'équivalent
// de l'événement `storage` d'un autre onglet).
type KV interface {
	// Get retourne "" sans erreur si la clé est absente
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Publish(ctx context.Context, channel, payload string) error
	// Subscribe retourne le flux de notifications et une fonction d'arrêt
	Subscribe(ctx context.Context, channel string) (<-chan string, func())
}

// RedisKV adosse le magasin durable à Redis : GET/SET de snapshots JSON
// entiers, pub/sub pour la propagation de changements.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	// Pas de TTL : le snapshot est durable, pas un cache
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Publish(ctx context.Context, channel, payload string) error {
	return r.client.Publish(ctx, channel, payload).Err()
}

func (r *RedisKV) Subscribe(ctx context.Context, channel string) (<-chan string, func()) {
	pubsub := r.client.Subscribe(ctx, channel)
	out := make(chan string)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { pubsub.Close() }
}

// MemoryKV est l'implémentation en mémoire du magasin durable, utilisée
// par les tests et comme repli quand aucun Redis n'est configuré.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
	subs map[string][]chan string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data: make(map[string]string),
		subs: make(map[string][]chan string),
	}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Publish(_ context.Context, channel, payload string) error {
	m.mu.Lock()
	subs := append([]chan string(nil), m.subs[channel]...)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- payload:
		default: // abonné lent, notification perdue comme en pub/sub Redis
		}
	}
	return nil
}

func (m *MemoryKV) Subscribe(_ context.Context, channel string) (<-chan string, func()) {
	ch := make(chan string, 8)

	m.mu.Lock()
	m.subs[channel] = append(m.subs[channel], ch)
	m.mu.Unlock()

	stop := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.subs[channel]
		for i, sub := range subs {
			if sub == ch {
				m.subs[channel] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	return ch, stop
}
