package checklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/alexanderramin/cadence/internal/domain"
)

// nextScript returns the head of the list and pops it only when more than
// one entry remains.
var nextScript = goredis.NewScript(`
local n = redis.call('LLEN', KEYS[1])
if n == 0 then
  return false
end
local head = redis.call('LINDEX', KEYS[1], 0)
if n > 1 then
  redis.call('LPOP', KEYS[1])
end
return head
`)

// seedScript writes every list and the marker in one step. ARGV[1] is the
// version; then, per list key, a count followed by that many entries.
var seedScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
local i = 2
for k = 2, #KEYS do
  local n = tonumber(ARGV[i])
  i = i + 1
  redis.call('DEL', KEYS[k])
  for j = 1, n do
    redis.call('RPUSH', KEYS[k], ARGV[i])
    i = i + 1
  end
end
redis.call('SET', KEYS[1], ARGV[1])
return 1
`)

// RedisStore keeps one Redis list per activity name. Each entry is a JSON
// encoded checklist.
type RedisStore struct {
	rdb    goredis.UniversalClient
	prefix string
}

func NewRedisStore(rdb goredis.UniversalClient, prefix string) *RedisStore {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "cadence:checklists"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (s *RedisStore) seededKey() string { return s.prefix + ":seeded" }

func (s *RedisStore) queueKey(name string) string { return s.prefix + ":queue:" + name }

func (s *RedisStore) Seeded(ctx context.Context) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.seededKey()).Result()
	if err != nil {
		return false, fmt.Errorf("checking checklist seed: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Seed(ctx context.Context, tpl Template) error {
	names := make([]string, 0, len(tpl.Queues))
	for name := range tpl.Queues {
		names = append(names, name)
	}
	sort.Strings(names)

	version := tpl.Version
	if version == "" {
		version = "unversioned"
	}
	keys := []string{s.seededKey()}
	args := []any{version}
	for _, name := range names {
		queue := tpl.Queues[name]
		keys = append(keys, s.queueKey(name))
		args = append(args, len(queue))
		for _, cl := range queue {
			b, err := json.Marshal(cl)
			if err != nil {
				return fmt.Errorf("encoding checklist for %q: %w", name, err)
			}
			args = append(args, string(b))
		}
	}
	if err := seedScript.Run(ctx, s.rdb, keys, args...).Err(); err != nil {
		return fmt.Errorf("seeding checklists: %w", err)
	}
	return nil
}

func (s *RedisStore) Next(ctx context.Context, name string) ([]domain.ChecklistItem, error) {
	raw, err := nextScript.Run(ctx, s.rdb, []string{s.queueKey(name)}).Text()
	if errors.Is(err, goredis.Nil) {
		return []domain.ChecklistItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dequeuing checklist %q: %w", name, err)
	}
	items := []domain.ChecklistItem{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decoding checklist %q: %w", name, err)
	}
	return items, nil
}
