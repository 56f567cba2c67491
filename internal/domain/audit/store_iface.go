package audit

import "context"

type Store interface {
	Insert(ctx context.Context, event Event) (int64, error)
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error)
}
