package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	kvTable            = "kv"
	sessionEventsTable = "session_events"
	eventSequenceTable = "event_sequence"
)

var (
	// KVColumns holds the columns for the "kv" table.
	KVColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// KVTable holds the schema information for the "kv" table.
	KVTable = &schema.Table{
		Name:       kvTable,
		Columns:    KVColumns,
		PrimaryKey: []*schema.Column{KVColumns[0]},
	}

	// SessionEventsColumns holds the columns for the "session_events" table.
	SessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "stage", Type: field.TypeString, Default: ""},
		{Name: "region", Type: field.TypeString, Default: ""},
		{Name: "stake", Type: field.TypeInt, Default: 0},
		{Name: "total_secs", Type: field.TypeInt, Default: 0},
		{Name: "elapsed_secs", Type: field.TypeInt, Default: 0},
	}
	// SessionEventsTable holds the schema information for the "session_events" table.
	SessionEventsTable = &schema.Table{
		Name:       sessionEventsTable,
		Columns:    SessionEventsColumns,
		PrimaryKey: []*schema.Column{SessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "sessionevent_session_id",
				Unique:  false,
				Columns: []*schema.Column{SessionEventsColumns[3]},
			},
			{
				Name:    "sessionevent_action",
				Unique:  false,
				Columns: []*schema.Column{SessionEventsColumns[4]},
			},
			{
				Name:    "sessionevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{SessionEventsColumns[2]},
			},
		},
	}

	// EventSequenceColumns holds the columns for the single-row "event_sequence" table.
	EventSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	// EventSequenceTable holds the schema information for the "event_sequence" table.
	EventSequenceTable = &schema.Table{
		Name:       eventSequenceTable,
		Columns:    EventSequenceColumns,
		PrimaryKey: []*schema.Column{EventSequenceColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		KVTable,
		SessionEventsTable,
		EventSequenceTable,
	}
)

// migrate creates or updates the tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("ent migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}
