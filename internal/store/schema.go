package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names.
const (
	tableSessions = "sessions"
	tableAnswers  = "answers"
	tableMastery  = "concept_mastery"
	tableStamps   = "question_stamps"
	tableLLM      = "llm_requests"
)

var (
	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "learner", Type: field.TypeString},
		{Name: "bank", Type: field.TypeString, Default: ""},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "ended_at", Type: field.TypeTime},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "answered", Type: field.TypeInt, Default: 0},
		{Name: "max_questions", Type: field.TypeInt},
		{Name: "initial_difficulty", Type: field.TypeFloat64},
		{Name: "final_difficulty", Type: field.TypeFloat64},
		{Name: "skill", Type: field.TypeFloat64},
		{Name: "spaced_repetition", Type: field.TypeBool},
	}
	sessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_learner_started_at", Columns: []*schema.Column{sessionsColumns[1], sessionsColumns[3]}},
		},
	}

	answersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString, Size: 36},
		{Name: "seq", Type: field.TypeInt},
		{Name: "question_id", Type: field.TypeString},
		{Name: "answer_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "time_spent_secs", Type: field.TypeFloat64},
		{Name: "difficulty", Type: field.TypeFloat64},
		{Name: "confidence", Type: field.TypeFloat64},
		{Name: "answered_at", Type: field.TypeTime},
	}
	answersTable = &schema.Table{
		Name:       tableAnswers,
		Columns:    answersColumns,
		PrimaryKey: []*schema.Column{answersColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "answers_sessions_answers",
				Columns:    []*schema.Column{answersColumns[1]},
				RefColumns: []*schema.Column{sessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "answer_session_id_seq", Unique: true, Columns: []*schema.Column{answersColumns[1], answersColumns[2]}},
			{Name: "answer_question_id", Columns: []*schema.Column{answersColumns[3]}},
		},
	}

	masteryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString, Size: 36},
		{Name: "concept", Type: field.TypeString},
		{Name: "mastery", Type: field.TypeFloat64},
	}
	masteryTable = &schema.Table{
		Name:       tableMastery,
		Columns:    masteryColumns,
		PrimaryKey: []*schema.Column{masteryColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "concept_mastery_sessions_mastery",
				Columns:    []*schema.Column{masteryColumns[1]},
				RefColumns: []*schema.Column{sessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "conceptmastery_session_id_concept", Unique: true, Columns: []*schema.Column{masteryColumns[1], masteryColumns[2]}},
		},
	}

	stampsColumns = []*schema.Column{
		{Name: "learner", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "last_correct_at", Type: field.TypeTime},
	}
	stampsTable = &schema.Table{
		Name:       tableStamps,
		Columns:    stampsColumns,
		PrimaryKey: []*schema.Column{stampsColumns[0], stampsColumns[1]},
	}

	llmColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "cost_usd", Type: field.TypeFloat64, Default: 0},
	}
	llmTable = &schema.Table{
		Name:       tableLLM,
		Columns:    llmColumns,
		PrimaryKey: []*schema.Column{llmColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequest_purpose", Columns: []*schema.Column{llmColumns[4]}},
		},
	}

	// tables lists every table in creation order.
	tables = []*schema.Table{
		sessionsTable,
		answersTable,
		masteryTable,
		stampsTable,
		llmTable,
	}
)

func init() {
	answersTable.ForeignKeys[0].RefTable = sessionsTable
	masteryTable.ForeignKeys[0].RefTable = sessionsTable
}
