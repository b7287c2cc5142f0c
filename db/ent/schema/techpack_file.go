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

type TechpackFile struct {
	ent.Schema
}

func (TechpackFile) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "techpack_files"},
	}
}

func (TechpackFile) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		// explicit FKs so we can define a composite unique index
		field.UUID("workspace_id", uuid.UUID{}),
		field.String("source_path").NotEmpty(),
		field.Bytes("content_hash").NotEmpty().
			SchemaType(map[string]string{dialect.Postgres: "bytea"}),
		field.String("filename").NotEmpty(),
		field.String("file_ext").NotEmpty(),
		field.Int("file_size").NonNegative(),
		field.Int("page_count").Optional().Nillable(),
		field.Time("uploaded_at").Default(time.Now),
	}
}

func (TechpackFile) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY files -> ONE workspace
		edge.From("workspace", Workspace.Type).
			Ref("files").
			Field("workspace_id").
			Required().
			Unique(),
		// ONE file -> MANY jobs
		edge.To("jobs", ParseJob.Type),
	}
}

func (TechpackFile) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("workspace_id", "content_hash").Unique(),
		index.Fields("workspace_id", "uploaded_at"),
	}
}
