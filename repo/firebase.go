package repo

import (
	"RegistrationBot/model"
	"context"
	"fmt"
	"os"
	"sort"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

const (
	registrationsRef = "registrations"
	emulatorHostEnv  = "FIREBASE_DATABASE_EMULATOR_HOST"
)

// FirebaseStore keeps registrations under a Realtime Database path. Push keys
// sort chronologically, so ListAll returns records in insertion order.
type FirebaseStore struct {
	app    *firebase.App
	client *db.Client
}

// NewFirebaseStore creates a store backed by the given database. The key
// path may be empty when FIREBASE_DATABASE_EMULATOR_HOST points at a local
// emulator.
func NewFirebaseStore(ctx context.Context, serviceAccountKeyPath string, databaseURL string) (*FirebaseStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("firebase database URL not set")
	}

	var opts []option.ClientOption
	switch {
	case serviceAccountKeyPath != "":
		opts = append(opts, option.WithCredentialsFile(serviceAccountKeyPath))
	case os.Getenv(emulatorHostEnv) == "":
		return nil, fmt.Errorf("firebase service account key path not set")
	}

	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %v", err)
	}

	return &FirebaseStore{
		app:    app,
		client: client,
	}, nil
}

// Append pushes a new registration
func (fs *FirebaseStore) Append(ctx context.Context, record model.RegistrationRecord) error {
	ref := fs.client.NewRef(registrationsRef)
	if _, err := ref.Push(ctx, record); err != nil {
		return fmt.Errorf("%w: pushing registration: %v", model.ErrPersistence, err)
	}
	return nil
}

// ListAll reads every registration
func (fs *FirebaseStore) ListAll(ctx context.Context) ([]model.RegistrationRecord, error) {
	ref := fs.client.NewRef(registrationsRef)
	var byKey map[string]model.RegistrationRecord
	if err := ref.Get(ctx, &byKey); err != nil {
		return nil, fmt.Errorf("%w: listing registrations: %v", model.ErrPersistence, err)
	}
	return recordsByKey(byKey), nil
}

// recordsByKey orders records by their push key.
func recordsByKey(byKey map[string]model.RegistrationRecord) []model.RegistrationRecord {
	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]model.RegistrationRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, byKey[key])
	}
	return records
}
