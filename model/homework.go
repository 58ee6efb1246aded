package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Homework struct {
	Id           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title        string               `json:"title" bson:"title"`
	Description  string               `json:"description" bson:"description"`
	CourseId     primitive.ObjectID   `json:"courseId" bson:"courseId"`
	DueDate      time.Time            `json:"dueDate" bson:"dueDate"`
	AssignedDate time.Time            `json:"assignedDate" bson:"assignedDate"`
	AssignedBy   []primitive.ObjectID `json:"assignedBy" bson:"assignedBy"`
	Submissions  []SubmissionEntry    `json:"submissions" bson:"submissions"`
}

// SubmissionEntry is the embedded marker on the assignment itself; the
// full submission lives in its own collection as model.Submission.
type SubmissionEntry struct {
	StudentId   primitive.ObjectID `json:"studentId" bson:"studentId"`
	SubmittedAt time.Time          `json:"submittedAt" bson:"submittedAt"`
}

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionGraded    SubmissionStatus = "graded"
)

type Submission struct {
	Id          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	HomeworkId  primitive.ObjectID `json:"homeworkId" bson:"homeworkId"`
	StudentId   primitive.ObjectID `json:"studentId" bson:"studentId"`
	FileURL     string             `json:"fileUrl" bson:"fileUrl"`
	Status      SubmissionStatus   `json:"status" bson:"status"`
	Marks       *float64           `json:"marks" bson:"marks,omitempty"`
	SubmittedAt time.Time          `json:"submittedAt" bson:"submittedAt"`
}
