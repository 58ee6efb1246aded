package school

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"edudesk-backend/model"
	"edudesk-backend/store"
)

// Bulk admin operations. Each batch is validated in full before any
// write: a bad entry anywhere rejects the whole batch with nothing
// persisted. Persistence itself is not transactional across documents;
// the relationship updates that follow are set-semantics and safe to
// re-run.

type NewCourse struct {
	Name string `json:"name" validate:"required"`
}

type NewTeacher struct {
	Name            string   `json:"name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=6"`
	AssignedCourses []string `json:"assignedCourses"`
}

type NewStudent struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"omitempty,min=6"`
	Courses  []string `json:"courses"`
}

func (s *Service) CreateCourses(ctx context.Context, batch []NewCourse) ([]model.Course, error) {
	if len(batch) == 0 {
		return nil, InvalidArgument("expected at least one course")
	}
	courses := make([]model.Course, 0, len(batch))
	for _, nc := range batch {
		if err := s.validate.Struct(nc); err != nil {
			return nil, InvalidArgument("course name is required")
		}
		courses = append(courses, model.Course{
			Name:          nc.Name,
			Teachers:      []primitive.ObjectID{},
			Students:      []primitive.ObjectID{},
			Announcements: []model.Announcement{},
			Homework:      []primitive.ObjectID{},
			Quizzes:       []primitive.ObjectID{},
		})
	}
	inserted, err := s.store.InsertCourses(ctx, courses)
	if err != nil {
		return nil, DependencyFailure("inserting courses", err)
	}
	return inserted, nil
}

func (s *Service) CreateTeachers(ctx context.Context, batch []NewTeacher) ([]model.Teacher, error) {
	if len(batch) == 0 {
		return nil, InvalidArgument("expected at least one teacher")
	}

	seen := make(map[string]bool, len(batch))
	teachers := make([]model.Teacher, 0, len(batch))
	for _, nt := range batch {
		if err := s.validate.Struct(nt); err != nil {
			return nil, InvalidArgument("teacher %q: name, email and password are required", nt.Email)
		}
		if seen[nt.Email] {
			return nil, Conflict("duplicate email in batch: %s", nt.Email)
		}
		seen[nt.Email] = true

		if _, err := s.store.FindTeacherByEmail(ctx, nt.Email); err == nil {
			return nil, Conflict("email already exists: %s", nt.Email)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, DependencyFailure("checking teacher email", err)
		}

		courseIDs, err := parseIDs("course id", nt.AssignedCourses)
		if err != nil {
			return nil, err
		}
		for _, courseID := range courseIDs {
			if _, err := s.store.GetCourse(ctx, courseID); err != nil {
				return nil, storeErr("course "+courseID.Hex(), err)
			}
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(nt.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, DependencyFailure("hashing password", err)
		}
		teachers = append(teachers, model.Teacher{
			Name:            nt.Name,
			Email:           nt.Email,
			Password:        string(hashed),
			AssignedCourses: courseIDs,
		})
	}

	inserted, err := s.store.InsertTeachers(ctx, teachers)
	if err != nil {
		return nil, DependencyFailure("inserting teachers", err)
	}

	// Back-reference pass: each teacher's id goes into exactly the
	// courses that teacher is assigned to.
	for _, teacher := range inserted {
		if err := s.linkTeacherToCourses(ctx, teacher); err != nil {
			return nil, err
		}
	}
	return inserted, nil
}

func (s *Service) CreateStudents(ctx context.Context, batch []NewStudent) ([]model.Student, error) {
	if len(batch) == 0 {
		return nil, InvalidArgument("expected at least one student")
	}

	seen := make(map[string]bool, len(batch))
	students := make([]model.Student, 0, len(batch))
	for _, ns := range batch {
		if err := s.validate.Struct(ns); err != nil {
			return nil, InvalidArgument("student %q: name and email are required", ns.Email)
		}
		if seen[ns.Email] {
			return nil, Conflict("duplicate email in batch: %s", ns.Email)
		}
		seen[ns.Email] = true

		if _, err := s.store.FindStudentByEmail(ctx, ns.Email); err == nil {
			return nil, Conflict("email already exists: %s", ns.Email)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, DependencyFailure("checking student email", err)
		}

		courseIDs, err := parseIDs("course id", ns.Courses)
		if err != nil {
			return nil, err
		}
		enrollments := make([]model.CourseEnrollment, 0, len(courseIDs))
		for _, courseID := range courseIDs {
			if _, err := s.store.GetCourse(ctx, courseID); err != nil {
				return nil, storeErr("course "+courseID.Hex(), err)
			}
			enrollments = append(enrollments, model.CourseEnrollment{CourseId: courseID})
		}

		password := ""
		if ns.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(ns.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, DependencyFailure("hashing password", err)
			}
			password = string(hashed)
		}

		students = append(students, model.Student{
			Name:                ns.Name,
			Email:               ns.Email,
			Password:            password,
			Courses:             enrollments,
			HomeworkSubmissions: []model.SubmissionRef{},
			Quizzes:             []model.QuizAttempt{},
			Attendance:          []model.AttendanceRecord{},
		})
	}

	inserted, err := s.store.InsertStudents(ctx, students)
	if err != nil {
		return nil, DependencyFailure("inserting students", err)
	}

	for _, student := range inserted {
		for _, enrollment := range student.Courses {
			if err := s.store.AddCourseStudent(ctx, enrollment.CourseId, student.Id); err != nil {
				return nil, storeErr("linking student to course", err)
			}
		}
	}
	return inserted, nil
}
