package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
)

// Valid reports whether s is one of the two canonical statuses. The
// lowercase spellings are rejected on purpose; only the capitalized
// forms are stored and compared.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

type Student struct {
	Id                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name"`
	Email               string             `json:"email" bson:"email"`
	Password            string             `json:"-" bson:"password,omitempty"`
	Courses             []CourseEnrollment `json:"courses" bson:"courses"`
	HomeworkSubmissions []SubmissionRef    `json:"homeworkSubmissions" bson:"homeworkSubmissions"`
	Quizzes             []QuizAttempt      `json:"quizzes" bson:"quizzes"`
	Attendance          []AttendanceRecord `json:"attendance" bson:"attendance"`
}

type CourseEnrollment struct {
	CourseId primitive.ObjectID `json:"courseId" bson:"courseId"`
}

type SubmissionRef struct {
	SubmissionId primitive.ObjectID `json:"submissionId" bson:"submissionId"`
}

// QuizAttempt is the per-student record created for every enrolled
// student when a quiz is published. Students enrolling later never get
// one; the quiz roster is a snapshot of enrollment at creation time.
type QuizAttempt struct {
	QuizId      primitive.ObjectID `json:"quizId" bson:"quizId"`
	Attempted   bool               `json:"attempted" bson:"attempted"`
	Score       *float64           `json:"score" bson:"score,omitempty"`
	SubmittedAt *time.Time         `json:"submittedAt" bson:"submittedAt,omitempty"`
}

type AttendanceRecord struct {
	CourseId primitive.ObjectID `json:"courseId" bson:"courseId"`
	Date     time.Time          `json:"date" bson:"date"`
	Status   AttendanceStatus   `json:"status" bson:"status"`
}
