package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	driver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	es "github.com/terraskye/commerce/eventsourcing"
)

var _ es.EventStore = (*Store)(nil)

// storedEvent is the row shape for one appended event. The (stream, version)
// unique index is the backstop for optimistic concurrency: even if two
// writers race past the in-transaction version check, only one insert can
// win.
type storedEvent struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	EventID    string `gorm:"type:uuid;uniqueIndex"`
	Stream     string `gorm:"size:255;uniqueIndex:idx_stream_version,priority:1"`
	Version    uint64 `gorm:"uniqueIndex:idx_stream_version,priority:2"`
	EventType  string `gorm:"size:255"`
	Data       []byte `gorm:"type:jsonb"`
	Metadata   []byte `gorm:"type:jsonb"`
	OccurredAt time.Time
}

func (storedEvent) TableName() string { return "events" }

// Store persists streams in a single append-only postgres table. Events are
// serialized to JSON and rehydrated through the event registry, so every
// event type a stream can contain must be registered before loading.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an existing gorm handle. The handle is injected, never
// constructed here; connection settings belong to the host application.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to postgres with the given DSN and returns a store on top of
// the connection. TranslateError is enabled so unique-index violations map to
// gorm.ErrDuplicatedKey and can be reported as revision conflicts.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(driver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, es.WrapEventStoreError(err)
	}
	return NewStore(db), nil
}

// AutoMigrate creates the events table. Intended for tests and local
// development; production schemas are managed outside this package.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&storedEvent{})
}

func (s *Store) Save(ctx context.Context, events []es.Envelope, revision es.StreamState) (es.AppendResult, error) {
	if len(events) == 0 {
		return es.AppendResult{Successful: true}, nil
	}

	stream := events[0].StreamID
	for i, env := range events {
		if env.StreamID != stream {
			return es.AppendResult{}, fmt.Errorf(
				"save events to stream %q: %w: event %d has different stream ID %q",
				stream, es.ErrInvalidEventBatch, i, env.StreamID,
			)
		}
		if err := es.Validate(env.Event); err != nil {
			return es.AppendResult{}, err
		}
	}

	var next uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the stream head so two appenders serialize on the same
		// stream; FOR UPDATE cannot be combined with an aggregate, so the
		// newest row is read directly.
		var head storedEvent
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("stream = ?", stream).
			Order("version DESC").
			Limit(1).
			Take(&head).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return es.WrapEventStoreError(err)
		}
		currentVersion := head.Version

		switch rev := revision.(type) {
		case es.Any:
			// No concurrency check
		case es.NoStream:
			if currentVersion != 0 {
				return fmt.Errorf("stream %q: %w", stream, es.ErrStreamExists)
			}
		case es.StreamExists:
			if currentVersion == 0 {
				return fmt.Errorf("stream %q: %w", stream, es.ErrStreamNotFound)
			}
		case es.Revision:
			if currentVersion != uint64(rev) {
				return &es.StreamRevisionConflictError{
					Stream:           stream,
					ExpectedRevision: rev,
					ActualRevision:   es.Revision(currentVersion),
				}
			}
		default:
			return fmt.Errorf("stream %q: %w: %T", stream, es.ErrInvalidRevision, revision)
		}

		rows := make([]storedEvent, len(events))
		for i, env := range events {
			data, err := json.Marshal(env.Event)
			if err != nil {
				return es.WrapEventStoreError(fmt.Errorf("marshal %s: %w", env.Event.EventType(), err))
			}
			metadata, err := json.Marshal(env.Metadata)
			if err != nil {
				return es.WrapEventStoreError(fmt.Errorf("marshal metadata: %w", err))
			}
			rows[i] = storedEvent{
				EventID:    env.EventID.String(),
				Stream:     stream,
				Version:    env.Version,
				EventType:  env.Event.EventType(),
				Data:       data,
				Metadata:   metadata,
				OccurredAt: env.OccurredAt,
			}
			next = env.Version
		}

		if err := tx.Create(&rows).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &es.StreamRevisionConflictError{
					Stream:           stream,
					ExpectedRevision: es.Revision(events[0].Version - 1),
					ActualRevision:   es.Revision(currentVersion),
				}
			}
			return es.WrapEventStoreError(err)
		}
		return nil
	})
	if err != nil {
		return es.AppendResult{}, err
	}

	return es.AppendResult{Successful: true, NextExpectedVersion: next}, nil
}

func (s *Store) LoadStream(ctx context.Context, stream string) (*es.Iterator[*es.Envelope], error) {
	return s.LoadStreamFrom(ctx, stream, 0)
}

func (s *Store) LoadStreamFrom(ctx context.Context, stream string, version uint64) (*es.Iterator[*es.Envelope], error) {
	var rows []storedEvent
	err := s.db.WithContext(ctx).
		Where("stream = ? AND version > ?", stream, version).
		Order("version ASC").
		Find(&rows).Error
	if err != nil {
		return nil, es.WrapEventStoreError(err)
	}

	envelopes := make([]*es.Envelope, 0, len(rows))
	for _, row := range rows {
		env, err := rehydrate(row)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, env)
	}
	return es.NewSliceIterator(envelopes), nil
}

func rehydrate(row storedEvent) (*es.Envelope, error) {
	event, err := es.NewEventByName(row.EventType)
	if err != nil {
		return nil, es.WrapEventStoreError(fmt.Errorf("stream %q version %d: %w", row.Stream, row.Version, err))
	}
	if err := json.Unmarshal(row.Data, event); err != nil {
		return nil, es.WrapEventStoreError(fmt.Errorf("unmarshal %s: %w", row.EventType, err))
	}
	if err := es.Validate(event); err != nil {
		return nil, err
	}
	// Factories return pointers so the payload can be unmarshalled into
	// them; transitions match on value types, so unwrap before replay.
	if rv := reflect.ValueOf(event); rv.Kind() == reflect.Ptr {
		event = rv.Elem().Interface().(es.Event)
	}

	var metadata map[string]any
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			return nil, es.WrapEventStoreError(fmt.Errorf("unmarshal metadata: %w", err))
		}
	}

	env := &es.Envelope{
		StreamID:   row.Stream,
		Metadata:   metadata,
		Event:      event,
		Version:    row.Version,
		OccurredAt: row.OccurredAt,
	}
	if id, err := uuid.Parse(row.EventID); err == nil {
		env.EventID = id
	}
	return env, nil
}

// Close is a no-op; the lifetime of the underlying *gorm.DB belongs to the
// caller that injected it.
func (s *Store) Close() error { return nil }
