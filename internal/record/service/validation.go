package service

import (
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
)

type HabitInput struct {
	Title       string `json:"title" validate:"notblank,maxbytes=200"`
	Description string `json:"description" validate:"notblank,maxbytes=4000"`
}

type TaskInput struct {
	Title       string `json:"title" validate:"notblank,maxbytes=200"`
	Description string `json:"description" validate:"notblank,maxbytes=4000"`
	DueDate     string `json:"due_date" validate:"notblank,isodate"`
}

type GoalInput struct {
	Title       string `json:"title" validate:"notblank,maxbytes=200"`
	Description string `json:"description" validate:"notblank,maxbytes=4000"`
	TargetDate  string `json:"target_date" validate:"notblank,isodate"`
}

// inputFor selects the typed input a variant is validated against.
func inputFor(variant domain.Variant, fields domain.Fields) any {
	switch variant {
	case domain.VariantTask:
		return TaskInput{Title: fields.Title, Description: fields.Description, DueDate: fields.DueDate}
	case domain.VariantGoal:
		return GoalInput{Title: fields.Title, Description: fields.Description, TargetDate: fields.TargetDate}
	default:
		return HabitInput{Title: fields.Title, Description: fields.Description}
	}
}
