// Package inmem is a mutex-guarded in-memory store.Store used by
// tests. Guarded appends follow the same duplicate rules as the
// MongoDB implementation.
package inmem

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"edudesk-backend/model"
	"edudesk-backend/store"
)

type Store struct {
	mu          sync.RWMutex
	admins      map[primitive.ObjectID]*model.Admin
	students    map[primitive.ObjectID]*model.Student
	teachers    map[primitive.ObjectID]*model.Teacher
	courses     map[primitive.ObjectID]*model.Course
	homework    map[primitive.ObjectID]*model.Homework
	submissions map[primitive.ObjectID]*model.Submission
	quizzes     map[primitive.ObjectID]*model.Quiz
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		admins:      make(map[primitive.ObjectID]*model.Admin),
		students:    make(map[primitive.ObjectID]*model.Student),
		teachers:    make(map[primitive.ObjectID]*model.Teacher),
		courses:     make(map[primitive.ObjectID]*model.Course),
		homework:    make(map[primitive.ObjectID]*model.Homework),
		submissions: make(map[primitive.ObjectID]*model.Submission),
		quizzes:     make(map[primitive.ObjectID]*model.Quiz),
	}
}

// SeedAdmin is a test helper; admins have no create operation.
func (s *Store) SeedAdmin(admin model.Admin) model.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	if admin.Id.IsZero() {
		admin.Id = primitive.NewObjectID()
	}
	s.admins[admin.Id] = &admin
	return admin
}

// Admins

func (s *Store) FindAdminByEmail(_ context.Context, email string) (model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, admin := range s.admins {
		if admin.Email == email {
			return *admin, nil
		}
	}
	return model.Admin{}, store.ErrNotFound
}

// Students

func (s *Store) GetStudent(_ context.Context, id primitive.ObjectID) (model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if student, ok := s.students[id]; ok {
		return *student, nil
	}
	return model.Student{}, store.ErrNotFound
}

func (s *Store) FindStudentByEmail(_ context.Context, email string) (model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, student := range s.students {
		if student.Email == email {
			return *student, nil
		}
	}
	return model.Student{}, store.ErrNotFound
}

func (s *Store) FindStudentsByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var students []model.Student
	for _, id := range ids {
		if student, ok := s.students[id]; ok {
			students = append(students, *student)
		}
	}
	return students, nil
}

func (s *Store) FindStudentsByCourse(_ context.Context, courseID primitive.ObjectID) ([]model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var students []model.Student
	for _, student := range s.students {
		for _, c := range student.Courses {
			if c.CourseId == courseID {
				students = append(students, *student)
				break
			}
		}
	}
	return students, nil
}

func (s *Store) InsertStudents(_ context.Context, students []model.Student) ([]model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range students {
		if students[i].Id.IsZero() {
			students[i].Id = primitive.NewObjectID()
		}
		cp := students[i]
		s.students[cp.Id] = &cp
	}
	return students, nil
}

func (s *Store) AppendAttendance(_ context.Context, studentID primitive.ObjectID, rec model.AttendanceRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[studentID]
	if !ok {
		return false, store.ErrNotFound
	}
	y, m, d := rec.Date.UTC().Date()
	for _, existing := range student.Attendance {
		ey, em, ed := existing.Date.UTC().Date()
		if existing.CourseId == rec.CourseId && ey == y && em == m && ed == d {
			return false, nil
		}
	}
	student.Attendance = append(student.Attendance, rec)
	return true, nil
}

func (s *Store) AddQuizAttempt(_ context.Context, studentID, quizID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[studentID]
	if !ok {
		return false, store.ErrNotFound
	}
	for _, attempt := range student.Quizzes {
		if attempt.QuizId == quizID {
			return false, nil
		}
	}
	student.Quizzes = append(student.Quizzes, model.QuizAttempt{QuizId: quizID})
	return true, nil
}

func (s *Store) MarkQuizAttempt(_ context.Context, studentID, quizID primitive.ObjectID, score float64, submittedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[studentID]
	if !ok {
		return false, nil
	}
	for i := range student.Quizzes {
		if student.Quizzes[i].QuizId == quizID && !student.Quizzes[i].Attempted {
			student.Quizzes[i].Attempted = true
			student.Quizzes[i].Score = &score
			at := submittedAt
			student.Quizzes[i].SubmittedAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) AddSubmissionRef(_ context.Context, studentID, submissionID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[studentID]
	if !ok {
		return store.ErrNotFound
	}
	for _, ref := range student.HomeworkSubmissions {
		if ref.SubmissionId == submissionID {
			return nil
		}
	}
	student.HomeworkSubmissions = append(student.HomeworkSubmissions, model.SubmissionRef{SubmissionId: submissionID})
	return nil
}

// Teachers

func (s *Store) GetTeacher(_ context.Context, id primitive.ObjectID) (model.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if teacher, ok := s.teachers[id]; ok {
		return *teacher, nil
	}
	return model.Teacher{}, store.ErrNotFound
}

func (s *Store) FindTeacherByEmail(_ context.Context, email string) (model.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, teacher := range s.teachers {
		if teacher.Email == email {
			return *teacher, nil
		}
	}
	return model.Teacher{}, store.ErrNotFound
}

func (s *Store) InsertTeachers(_ context.Context, teachers []model.Teacher) ([]model.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range teachers {
		if teachers[i].Id.IsZero() {
			teachers[i].Id = primitive.NewObjectID()
		}
		cp := teachers[i]
		s.teachers[cp.Id] = &cp
	}
	return teachers, nil
}

// Courses

func (s *Store) GetCourse(_ context.Context, id primitive.ObjectID) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if course, ok := s.courses[id]; ok {
		return *course, nil
	}
	return model.Course{}, store.ErrNotFound
}

func (s *Store) FindCoursesByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var courses []model.Course
	for _, id := range ids {
		if course, ok := s.courses[id]; ok {
			courses = append(courses, *course)
		}
	}
	return courses, nil
}

func (s *Store) FindCoursesByTeacher(_ context.Context, teacherID primitive.ObjectID) ([]model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var courses []model.Course
	for _, course := range s.courses {
		for _, t := range course.Teachers {
			if t == teacherID {
				courses = append(courses, *course)
				break
			}
		}
	}
	return courses, nil
}

func (s *Store) InsertCourses(_ context.Context, courses []model.Course) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range courses {
		if courses[i].Id.IsZero() {
			courses[i].Id = primitive.NewObjectID()
		}
		cp := courses[i]
		s.courses[cp.Id] = &cp
	}
	return courses, nil
}

func (s *Store) AddCourseTeacher(_ context.Context, courseID, teacherID primitive.ObjectID) error {
	return s.addToCourseSet(courseID, teacherID, func(c *model.Course) *[]primitive.ObjectID { return &c.Teachers })
}

func (s *Store) AddCourseStudent(_ context.Context, courseID, studentID primitive.ObjectID) error {
	return s.addToCourseSet(courseID, studentID, func(c *model.Course) *[]primitive.ObjectID { return &c.Students })
}

func (s *Store) AddCourseHomework(_ context.Context, courseID, homeworkID primitive.ObjectID) error {
	return s.addToCourseSet(courseID, homeworkID, func(c *model.Course) *[]primitive.ObjectID { return &c.Homework })
}

func (s *Store) AddCourseQuiz(_ context.Context, courseID, quizID primitive.ObjectID) error {
	return s.addToCourseSet(courseID, quizID, func(c *model.Course) *[]primitive.ObjectID { return &c.Quizzes })
}

func (s *Store) addToCourseSet(courseID, id primitive.ObjectID, field func(*model.Course) *[]primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[courseID]
	if !ok {
		return store.ErrNotFound
	}
	set := field(course)
	for _, existing := range *set {
		if existing == id {
			return nil
		}
	}
	*set = append(*set, id)
	return nil
}

func (s *Store) AddAnnouncement(_ context.Context, courseID primitive.ObjectID, a model.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[courseID]
	if !ok {
		return store.ErrNotFound
	}
	course.Announcements = append(course.Announcements, a)
	return nil
}

// Homework

func (s *Store) GetHomework(_ context.Context, id primitive.ObjectID) (model.Homework, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if hw, ok := s.homework[id]; ok {
		return *hw, nil
	}
	return model.Homework{}, store.ErrNotFound
}

func (s *Store) FindHomeworkByCourses(_ context.Context, courseIDs []primitive.ObjectID) ([]model.Homework, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var homework []model.Homework
	for _, hw := range s.homework {
		for _, id := range courseIDs {
			if hw.CourseId == id {
				homework = append(homework, *hw)
				break
			}
		}
	}
	return homework, nil
}

func (s *Store) InsertHomework(_ context.Context, hw model.Homework) (model.Homework, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hw.Id.IsZero() {
		hw.Id = primitive.NewObjectID()
	}
	cp := hw
	s.homework[cp.Id] = &cp
	return hw, nil
}

func (s *Store) AddHomeworkSubmissionEntry(_ context.Context, homeworkID primitive.ObjectID, entry model.SubmissionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hw, ok := s.homework[homeworkID]
	if !ok {
		return store.ErrNotFound
	}
	hw.Submissions = append(hw.Submissions, entry)
	return nil
}

// Submissions

func (s *Store) GetSubmission(_ context.Context, id primitive.ObjectID) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sub, ok := s.submissions[id]; ok {
		return *sub, nil
	}
	return model.Submission{}, store.ErrNotFound
}

func (s *Store) FindSubmissionsByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var subs []model.Submission
	for _, id := range ids {
		if sub, ok := s.submissions[id]; ok {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (s *Store) InsertSubmission(_ context.Context, sub model.Submission) (model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.Id.IsZero() {
		sub.Id = primitive.NewObjectID()
	}
	cp := sub
	s.submissions[cp.Id] = &cp
	return sub, nil
}

func (s *Store) GradeSubmission(_ context.Context, id primitive.ObjectID, marks float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return store.ErrNotFound
	}
	sub.Marks = &marks
	sub.Status = model.SubmissionGraded
	return nil
}

// Quizzes

func (s *Store) GetQuiz(_ context.Context, id primitive.ObjectID) (model.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[id]; ok {
		return *quiz, nil
	}
	return model.Quiz{}, store.ErrNotFound
}

func (s *Store) FindQuizzesByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var quizzes []model.Quiz
	for _, id := range ids {
		if quiz, ok := s.quizzes[id]; ok {
			quizzes = append(quizzes, *quiz)
		}
	}
	return quizzes, nil
}

func (s *Store) InsertQuiz(_ context.Context, quiz model.Quiz) (model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.Id.IsZero() {
		quiz.Id = primitive.NewObjectID()
	}
	cp := quiz
	s.quizzes[cp.Id] = &cp
	return quiz, nil
}
