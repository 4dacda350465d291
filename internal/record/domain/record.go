package domain

import (
	"time"

	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

type ID string

type Variant string

const (
	VariantHabit Variant = "habit"
	VariantTask  Variant = "task"
	VariantGoal  Variant = "goal"
)

// Variants lists every variant in display order.
func Variants() []Variant {
	return []Variant{VariantHabit, VariantTask, VariantGoal}
}

func (v Variant) Valid() bool {
	switch v {
	case VariantHabit, VariantTask, VariantGoal:
		return true
	default:
		return false
	}
}

// Plural is the collection name used in routes and page titles.
func (v Variant) Plural() string {
	return string(v) + "s"
}

// Record is a habit, task or goal. DueDate is set only for tasks and
// TargetDate only for goals.
type Record struct {
	ID          ID
	OwnerID     userdomain.ID
	Variant     Variant
	Title       string
	Description string
	DueDate     *Date
	TargetDate  *Date
	CreatedAt   time.Time
}

// Fields is the untyped form of a record submission. Dates use the
// YYYY-MM-DD layout; fields a variant does not use are ignored.
type Fields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	TargetDate  string `json:"target_date"`
}

type Counts struct {
	Habits int `json:"habits"`
	Tasks  int `json:"tasks"`
	Goals  int `json:"goals"`
}

func (c Counts) Of(v Variant) int {
	switch v {
	case VariantHabit:
		return c.Habits
	case VariantTask:
		return c.Tasks
	case VariantGoal:
		return c.Goals
	default:
		return 0
	}
}

func (c *Counts) Add(v Variant, n int) {
	switch v {
	case VariantHabit:
		c.Habits += n
	case VariantTask:
		c.Tasks += n
	case VariantGoal:
		c.Goals += n
	}
}

func (c Counts) Total() int {
	return c.Habits + c.Tasks + c.Goals
}
