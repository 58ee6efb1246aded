// Package store defines the entity-store capabilities the school
// service consumes: point lookup, filtered find, insert, and guarded
// append/upsert. Implementations live in store/mongo (MongoDB) and
// store/inmem (tests).
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"edudesk-backend/model"
)

// ErrNotFound is returned by every Get/Find-one operation when no
// document matches.
var ErrNotFound = errors.New("store: not found")

type Store interface {
	// Admins
	FindAdminByEmail(ctx context.Context, email string) (model.Admin, error)

	// Students
	GetStudent(ctx context.Context, id primitive.ObjectID) (model.Student, error)
	FindStudentByEmail(ctx context.Context, email string) (model.Student, error)
	FindStudentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Student, error)
	FindStudentsByCourse(ctx context.Context, courseID primitive.ObjectID) ([]model.Student, error)
	InsertStudents(ctx context.Context, students []model.Student) ([]model.Student, error)
	// AppendAttendance atomically appends rec unless a record for the
	// same course and calendar day already exists. Returns false when
	// the duplicate guard rejected the append.
	AppendAttendance(ctx context.Context, studentID primitive.ObjectID, rec model.AttendanceRecord) (bool, error)
	// AddQuizAttempt adds an unattempted attempt record for quizID
	// unless the student already has one. Returns false when the
	// student already had the record.
	AddQuizAttempt(ctx context.Context, studentID, quizID primitive.ObjectID) (bool, error)
	// MarkQuizAttempt sets score and submittedAt on the student's
	// attempt record for quizID, only if it exists and is still
	// unattempted. Returns false otherwise.
	MarkQuizAttempt(ctx context.Context, studentID, quizID primitive.ObjectID, score float64, submittedAt time.Time) (bool, error)
	AddSubmissionRef(ctx context.Context, studentID, submissionID primitive.ObjectID) error

	// Teachers
	GetTeacher(ctx context.Context, id primitive.ObjectID) (model.Teacher, error)
	FindTeacherByEmail(ctx context.Context, email string) (model.Teacher, error)
	InsertTeachers(ctx context.Context, teachers []model.Teacher) ([]model.Teacher, error)

	// Courses
	GetCourse(ctx context.Context, id primitive.ObjectID) (model.Course, error)
	FindCoursesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Course, error)
	FindCoursesByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]model.Course, error)
	InsertCourses(ctx context.Context, courses []model.Course) ([]model.Course, error)
	// Add* on courses use set semantics: re-running never duplicates.
	AddCourseTeacher(ctx context.Context, courseID, teacherID primitive.ObjectID) error
	AddCourseStudent(ctx context.Context, courseID, studentID primitive.ObjectID) error
	AddCourseHomework(ctx context.Context, courseID, homeworkID primitive.ObjectID) error
	AddCourseQuiz(ctx context.Context, courseID, quizID primitive.ObjectID) error
	AddAnnouncement(ctx context.Context, courseID primitive.ObjectID, a model.Announcement) error

	// Homework
	GetHomework(ctx context.Context, id primitive.ObjectID) (model.Homework, error)
	FindHomeworkByCourses(ctx context.Context, courseIDs []primitive.ObjectID) ([]model.Homework, error)
	InsertHomework(ctx context.Context, hw model.Homework) (model.Homework, error)
	AddHomeworkSubmissionEntry(ctx context.Context, homeworkID primitive.ObjectID, entry model.SubmissionEntry) error

	// Submissions
	GetSubmission(ctx context.Context, id primitive.ObjectID) (model.Submission, error)
	FindSubmissionsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Submission, error)
	InsertSubmission(ctx context.Context, sub model.Submission) (model.Submission, error)
	GradeSubmission(ctx context.Context, id primitive.ObjectID, marks float64) error

	// Quizzes
	GetQuiz(ctx context.Context, id primitive.ObjectID) (model.Quiz, error)
	FindQuizzesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Quiz, error)
	InsertQuiz(ctx context.Context, quiz model.Quiz) (model.Quiz, error)
}
