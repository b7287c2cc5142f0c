package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/db/ent/schema/utils"

	"github.com/google/uuid"
)

type ParseJob struct{ ent.Schema }

func (ParseJob) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "parse_job"},
	}
}

func (ParseJob) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		// explicit FKs
		field.UUID("file_id", uuid.UUID{}),
		field.UUID("workspace_id", uuid.UUID{}),
		field.UUID("style_id", uuid.UUID{}).Optional().Nillable(),
		field.String("format").NotEmpty().
			Validate(utils.EnumValidator(constants.FileFormats...)),
		field.Time("started_at").Default(time.Now),
		field.Time("finished_at").Optional().Nillable(),
		field.String("status").Optional().Nillable(),
		field.String("error_message").Optional().Nillable(),
		field.Bool("needs_review").Default(false),
		field.String("extracted_text").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.Int("page_count").Optional().Nillable(),
		field.JSON("trace_json", json.RawMessage{}).
			Optional(),
		field.JSON("analysis_json", json.RawMessage{}).
			Optional(),
		field.String("parser_name").Optional().Nillable(),
		field.JSON("parser_params", json.RawMessage{}).
			Optional(),
	}
}

func (ParseJob) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("file", TechpackFile.Type).
			Ref("jobs").
			Field("file_id").
			Unique().
			Required(),
		edge.From("workspace", Workspace.Type).
			Ref("jobs").
			Field("workspace_id").
			Unique().
			Required(),
		edge.From("style", StyleRecord.Type).
			Ref("jobs").
			Field("style_id").
			Unique(),
	}
}

func (ParseJob) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("workspace_id", "status", "started_at"),
		index.Fields("file_id"),
		index.Fields("style_id"),
	}
}
