package trailcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/hiking-guide/internal/domain/safetyform"
	"github.com/yanqian/hiking-guide/internal/domain/trail"
	apperrors "github.com/yanqian/hiking-guide/pkg/errors"
)

var errMiss = errors.New("trailcache: key not found")

// commander is the slice of Valkey the store issues. A ttl of 0 stores the
// value without expiry.
type commander interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ValkeyStore shares the trail listing across instances through Valkey.
type ValkeyStore struct {
	cmd    commander
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	return newValkeyStore(valkeyCommander{client: client}, prefix)
}

func newValkeyStore(cmd commander, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "hiking"
	}
	return &ValkeyStore{cmd: cmd, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context) ([]trail.Trail, bool, error) {
	payload, err := s.cmd.Get(ctx, s.trailsKey())
	if err != nil {
		if errors.Is(err, errMiss) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(apperrors.CodeCache, "read cached trails", err)
	}
	var trails []trail.Trail
	if err := json.Unmarshal([]byte(payload), &trails); err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeCache, "decode cached trails", err)
	}
	return trails, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, trails []trail.Trail, ttl time.Duration) error {
	payload, err := json.Marshal(trails)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeCache, "encode trails", err)
	}
	// EX takes whole seconds.
	if ttl > 0 && ttl < time.Second {
		ttl = time.Second
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.cmd.Set(ctx, s.trailsKey(), string(payload), ttl); err != nil {
		return apperrors.Wrap(apperrors.CodeCache, "write cached trails", err)
	}
	return nil
}

func (s *ValkeyStore) trailsKey() string {
	return fmt.Sprintf("%s:trails", s.prefix)
}

type valkeyCommander struct {
	client valkey.Client
}

func (v valkeyCommander) Get(ctx context.Context, key string) (string, error) {
	payload, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", errMiss
	}
	return payload, err
}

func (v valkeyCommander) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	builder := v.client.B().Set().Key(key).Value(value)
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return v.client.Do(ctx, cmd).Error()
}

var _ safetyform.TrailStore = (*ValkeyStore)(nil)
