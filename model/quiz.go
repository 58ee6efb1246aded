package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type QuestionKind string

const (
	SingleChoice   QuestionKind = "single"
	MultipleChoice QuestionKind = "multiple"
)

type Question struct {
	Text           string       `json:"text" bson:"text"`
	Options        []string     `json:"options" bson:"options"`
	CorrectAnswers []int        `json:"correctAnswers" bson:"correctAnswers"`
	Kind           QuestionKind `json:"kind" bson:"kind"`
	Points         float64      `json:"points" bson:"points"`
}

type Quiz struct {
	Id           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	CourseId     primitive.ObjectID `json:"courseId" bson:"courseId"`
	Questions    []Question         `json:"questions" bson:"questions"`
	Duration     int                `json:"duration" bson:"duration"` // minutes
	AssignedDate time.Time          `json:"assignedDate" bson:"assignedDate"`
	DueDate      time.Time          `json:"dueDate" bson:"dueDate"`
}
