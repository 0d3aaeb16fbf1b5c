package redisx

import "time"

const (
	// Catalog read cache: book:{book_id} -> BookDto JSON
	KeyBook = "book:%s"

	// Cache status order: order_status:{order_id} -> status string
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLBookCache   = 10 * time.Minute
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
