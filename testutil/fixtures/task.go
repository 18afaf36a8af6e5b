package fixtures

import (
	"github.com/kosyan62/repka/repository"
)

// TasksTableName is the database table holding Task rows.
const TasksTableName = "tasks"

// Task represents a todo item whose priority is assigned by the database.
type Task struct {
	repository.Identity
	Title    string
	Priority int64
}

// BuildTask creates a new Task without an identity or a priority.
func BuildTask(title string) *Task {
	return &Task{
		Title: title,
	}
}

// TasksTable maps Task onto the tasks table. The priority column is fed by a
// database sequence, so it is excluded from INSERT statements and read back
// into the model where the connection supports it.
func TasksTable() repository.Table[*Task] {
	return repository.Table[*Task]{
		Name: TasksTableName,
		Columns: []repository.Column[*Task]{
			repository.ColumnOf("title", func(m *Task) *string { return &m.Title }),
			repository.ColumnOf("priority", func(m *Task) *int64 { return &m.Priority }),
		},
		IgnoreOnInsert: []string{"priority"},
		NewModel:       func() *Task { return new(Task) },
	}
}
