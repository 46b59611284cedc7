package repo

import (
	"RegistrationBot/model"
	"context"
)

// Store persists registrations. Implementations must keep every previously
// appended record and return them in insertion order.
type Store interface {
	Append(ctx context.Context, record model.RegistrationRecord) error
	ListAll(ctx context.Context) ([]model.RegistrationRecord, error)
}
