package store

import "context"

// ManagementStore is the read-only view of the gym management database.
// Lookups return ErrNotFound when the row does not exist.
type ManagementStore interface {
	ClientByCard(ctx context.Context, cardID string) (Client, error)
	SubscriptionsByClient(ctx context.Context, clientID int64) ([]Subscription, error)
	LocationByID(ctx context.Context, id int) (Location, error)
}
