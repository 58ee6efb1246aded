// Package mongodb implements store.Store on top of the MongoDB driver.
// Relationship arrays are maintained with $addToSet and guarded $push
// updates so that re-running a link operation never duplicates a
// reference and concurrent writers cannot both pass an existence check.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"edudesk-backend/model"
	"edudesk-backend/store"
)

const (
	adminCollection      = "admin"
	teacherCollection    = "teacher"
	studentCollection    = "student"
	courseCollection     = "course"
	homeworkCollection   = "homework"
	submissionCollection = "submission"
	quizCollection       = "quiz"
)

type Store struct {
	db *mongo.Database
}

var _ store.Store = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Connect dials the server and pings it once so a bad URI fails at
// startup instead of on the first request.
func Connect(ctx context.Context, client *mongo.Client, dbName string) (*Store, error) {
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return New(client.Database(dbName)), nil
}

// Admins

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	var admin model.Admin
	err := s.db.Collection(adminCollection).FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	return admin, mapErr(err)
}

// Students

func (s *Store) GetStudent(ctx context.Context, id primitive.ObjectID) (model.Student, error) {
	var student model.Student
	err := s.db.Collection(studentCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	return student, mapErr(err)
}

func (s *Store) FindStudentByEmail(ctx context.Context, email string) (model.Student, error) {
	var student model.Student
	err := s.db.Collection(studentCollection).FindOne(ctx, bson.M{"email": email}).Decode(&student)
	return student, mapErr(err)
}

func (s *Store) FindStudentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Student, error) {
	return s.findStudents(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) FindStudentsByCourse(ctx context.Context, courseID primitive.ObjectID) ([]model.Student, error) {
	return s.findStudents(ctx, bson.M{"courses.courseId": courseID})
}

func (s *Store) findStudents(ctx context.Context, filter bson.M) ([]model.Student, error) {
	cursor, err := s.db.Collection(studentCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var students []model.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *Store) InsertStudents(ctx context.Context, students []model.Student) ([]model.Student, error) {
	docs := make([]interface{}, len(students))
	for i := range students {
		if students[i].Id.IsZero() {
			students[i].Id = primitive.NewObjectID()
		}
		docs[i] = students[i]
	}
	if _, err := s.db.Collection(studentCollection).InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return students, nil
}

func (s *Store) AppendAttendance(ctx context.Context, studentID primitive.ObjectID, rec model.AttendanceRecord) (bool, error) {
	dayStart := time.Date(rec.Date.Year(), rec.Date.Month(), rec.Date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// The duplicate check is part of the update filter, so two
	// concurrent calls for the same (course, day) cannot both append.
	filter := bson.M{
		"_id": studentID,
		"attendance": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"courseId": rec.CourseId,
			"date":     bson.M{"$gte": dayStart, "$lt": dayEnd},
		}}},
	}
	res, err := s.db.Collection(studentCollection).UpdateOne(ctx, filter, bson.M{"$push": bson.M{"attendance": rec}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		if err := s.studentExists(ctx, studentID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (s *Store) AddQuizAttempt(ctx context.Context, studentID, quizID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":            studentID,
		"quizzes.quizId": bson.M{"$ne": quizID},
	}
	attempt := model.QuizAttempt{QuizId: quizID, Attempted: false}
	res, err := s.db.Collection(studentCollection).UpdateOne(ctx, filter, bson.M{"$push": bson.M{"quizzes": attempt}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		if err := s.studentExists(ctx, studentID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (s *Store) MarkQuizAttempt(ctx context.Context, studentID, quizID primitive.ObjectID, score float64, submittedAt time.Time) (bool, error) {
	filter := bson.M{
		"_id": studentID,
		"quizzes": bson.M{"$elemMatch": bson.M{
			"quizId":    quizID,
			"attempted": false,
		}},
	}
	update := bson.M{"$set": bson.M{
		"quizzes.$.attempted":   true,
		"quizzes.$.score":       score,
		"quizzes.$.submittedAt": submittedAt,
	}}
	res, err := s.db.Collection(studentCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) AddSubmissionRef(ctx context.Context, studentID, submissionID primitive.ObjectID) error {
	ref := model.SubmissionRef{SubmissionId: submissionID}
	res, err := s.db.Collection(studentCollection).UpdateOne(ctx,
		bson.M{"_id": studentID}, bson.M{"$addToSet": bson.M{"homeworkSubmissions": ref}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) studentExists(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.db.Collection(studentCollection).CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Teachers

func (s *Store) GetTeacher(ctx context.Context, id primitive.ObjectID) (model.Teacher, error) {
	var teacher model.Teacher
	err := s.db.Collection(teacherCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&teacher)
	return teacher, mapErr(err)
}

func (s *Store) FindTeacherByEmail(ctx context.Context, email string) (model.Teacher, error) {
	var teacher model.Teacher
	err := s.db.Collection(teacherCollection).FindOne(ctx, bson.M{"email": email}).Decode(&teacher)
	return teacher, mapErr(err)
}

func (s *Store) InsertTeachers(ctx context.Context, teachers []model.Teacher) ([]model.Teacher, error) {
	docs := make([]interface{}, len(teachers))
	for i := range teachers {
		if teachers[i].Id.IsZero() {
			teachers[i].Id = primitive.NewObjectID()
		}
		docs[i] = teachers[i]
	}
	if _, err := s.db.Collection(teacherCollection).InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return teachers, nil
}

// Courses

func (s *Store) GetCourse(ctx context.Context, id primitive.ObjectID) (model.Course, error) {
	var course model.Course
	err := s.db.Collection(courseCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	return course, mapErr(err)
}

func (s *Store) FindCoursesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Course, error) {
	return s.findCourses(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) FindCoursesByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]model.Course, error) {
	return s.findCourses(ctx, bson.M{"teachers": teacherID})
}

func (s *Store) findCourses(ctx context.Context, filter bson.M) ([]model.Course, error) {
	cursor, err := s.db.Collection(courseCollection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var courses []model.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *Store) InsertCourses(ctx context.Context, courses []model.Course) ([]model.Course, error) {
	docs := make([]interface{}, len(courses))
	for i := range courses {
		if courses[i].Id.IsZero() {
			courses[i].Id = primitive.NewObjectID()
		}
		docs[i] = courses[i]
	}
	if _, err := s.db.Collection(courseCollection).InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *Store) AddCourseTeacher(ctx context.Context, courseID, teacherID primitive.ObjectID) error {
	return s.addToCourseSet(ctx, courseID, "teachers", teacherID)
}

func (s *Store) AddCourseStudent(ctx context.Context, courseID, studentID primitive.ObjectID) error {
	return s.addToCourseSet(ctx, courseID, "students", studentID)
}

func (s *Store) AddCourseHomework(ctx context.Context, courseID, homeworkID primitive.ObjectID) error {
	return s.addToCourseSet(ctx, courseID, "homework", homeworkID)
}

func (s *Store) AddCourseQuiz(ctx context.Context, courseID, quizID primitive.ObjectID) error {
	return s.addToCourseSet(ctx, courseID, "quizzes", quizID)
}

func (s *Store) addToCourseSet(ctx context.Context, courseID primitive.ObjectID, field string, id primitive.ObjectID) error {
	res, err := s.db.Collection(courseCollection).UpdateOne(ctx,
		bson.M{"_id": courseID}, bson.M{"$addToSet": bson.M{field: id}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AddAnnouncement(ctx context.Context, courseID primitive.ObjectID, a model.Announcement) error {
	res, err := s.db.Collection(courseCollection).UpdateOne(ctx,
		bson.M{"_id": courseID}, bson.M{"$push": bson.M{"announcements": a}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Homework

func (s *Store) GetHomework(ctx context.Context, id primitive.ObjectID) (model.Homework, error) {
	var hw model.Homework
	err := s.db.Collection(homeworkCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&hw)
	return hw, mapErr(err)
}

func (s *Store) FindHomeworkByCourses(ctx context.Context, courseIDs []primitive.ObjectID) ([]model.Homework, error) {
	cursor, err := s.db.Collection(homeworkCollection).Find(ctx, bson.M{"courseId": bson.M{"$in": courseIDs}})
	if err != nil {
		return nil, err
	}
	var homework []model.Homework
	if err := cursor.All(ctx, &homework); err != nil {
		return nil, err
	}
	return homework, nil
}

func (s *Store) InsertHomework(ctx context.Context, hw model.Homework) (model.Homework, error) {
	if hw.Id.IsZero() {
		hw.Id = primitive.NewObjectID()
	}
	_, err := s.db.Collection(homeworkCollection).InsertOne(ctx, hw)
	return hw, err
}

func (s *Store) AddHomeworkSubmissionEntry(ctx context.Context, homeworkID primitive.ObjectID, entry model.SubmissionEntry) error {
	res, err := s.db.Collection(homeworkCollection).UpdateOne(ctx,
		bson.M{"_id": homeworkID}, bson.M{"$push": bson.M{"submissions": entry}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Submissions

func (s *Store) GetSubmission(ctx context.Context, id primitive.ObjectID) (model.Submission, error) {
	var sub model.Submission
	err := s.db.Collection(submissionCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	return sub, mapErr(err)
}

func (s *Store) FindSubmissionsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Submission, error) {
	cursor, err := s.db.Collection(submissionCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var subs []model.Submission
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *Store) InsertSubmission(ctx context.Context, sub model.Submission) (model.Submission, error) {
	if sub.Id.IsZero() {
		sub.Id = primitive.NewObjectID()
	}
	_, err := s.db.Collection(submissionCollection).InsertOne(ctx, sub)
	return sub, err
}

func (s *Store) GradeSubmission(ctx context.Context, id primitive.ObjectID, marks float64) error {
	update := bson.M{"$set": bson.M{"marks": marks, "status": model.SubmissionGraded}}
	res, err := s.db.Collection(submissionCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Quizzes

func (s *Store) GetQuiz(ctx context.Context, id primitive.ObjectID) (model.Quiz, error) {
	var quiz model.Quiz
	err := s.db.Collection(quizCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	return quiz, mapErr(err)
}

func (s *Store) FindQuizzesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Quiz, error) {
	cursor, err := s.db.Collection(quizCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var quizzes []model.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (s *Store) InsertQuiz(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	if quiz.Id.IsZero() {
		quiz.Id = primitive.NewObjectID()
	}
	_, err := s.db.Collection(quizCollection).InsertOne(ctx, quiz)
	return quiz, err
}

func mapErr(err error) error {
	if err == mongo.ErrNoDocuments {
		return store.ErrNotFound
	}
	return err
}
