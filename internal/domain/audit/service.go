package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Service appends and queries the operator audit trail.
type Service struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Record(ctx context.Context, actor, action, entityType, entityID, requestID string, before, after any) error {
	if s == nil || s.store == nil {
		return nil
	}
	beforeJSON, err := marshal(before)
	if err != nil {
		return fmt.Errorf("audit before: %w", err)
	}
	afterJSON, err := marshal(after)
	if err != nil {
		return fmt.Errorf("audit after: %w", err)
	}
	if strings.TrimSpace(actor) == "" {
		actor = ActorAnonymous
	}
	_, err = s.store.Insert(ctx, Event{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID,
		CreatedAt:  s.now().UTC(),
		Before:     beforeJSON,
		After:      afterJSON,
	})
	return err
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	return s.store.Count(ctx, filter)
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	return s.store.List(ctx, filter, includeDetails, limit, offset)
}

func marshal(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
