package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

// StyleRecord holds the header fields extracted from one tech pack.
// Every field except the workspace link is optional: extraction is
// heuristic and absence is a legal outcome for each field.
type StyleRecord struct{ ent.Schema }

func (StyleRecord) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "style_records"},
	}
}

func (StyleRecord) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("workspace_id", uuid.UUID{}),
		field.String("style_ref").Optional().Nillable().MaxLen(120),
		field.String("buyer").Optional().Nillable().MaxLen(120),
		field.String("order_no").Optional().Nillable().MaxLen(120),
		field.String("season").Optional().Nillable().MaxLen(120),
		field.String("fit").Optional().Nillable().MaxLen(120),
		field.String("modified").Optional().Nillable().MaxLen(120),
		field.String("garment_type").Optional().Nillable().MaxLen(120),
		field.String("fabric_type").Optional().Nillable().MaxLen(120),
		field.String("wash_type").Optional().Nillable().MaxLen(120),
		field.Float("complexity").
			Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "numeric(6,2)"}),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (StyleRecord) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY styles -> ONE workspace (FK: style_records.workspace_id)
		edge.From("workspace", Workspace.Type).
			Ref("styles").
			Field("workspace_id").
			Required().
			Unique(),
		// ONE style -> MANY jobs
		edge.To("jobs", ParseJob.Type),
	}
}

func (StyleRecord) Indexes() []ent.Index {
	return []ent.Index{
		// not unique: the same style_ref may be re-analyzed across uploads
		index.Fields("workspace_id", "style_ref"),
		index.Fields("workspace_id", "updated_at"),
	}
}
