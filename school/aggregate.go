package school

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"edudesk-backend/model"
)

// Aggregation engine: read-side computations over the denormalized
// arrays. Everything here is derived on demand; nothing is cached or
// persisted.

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// unknownCourse is the display name used when an attendance record or
// enrollment points at a course that no longer resolves.
const unknownCourse = "Unknown"

type CourseAttendance struct {
	CourseId   string                   `json:"courseId"`
	CourseName string                   `json:"courseName"`
	Present    int                      `json:"present"`
	Absent     int                      `json:"absent"`
	Total      int                      `json:"total"`
	Percentage float64                  `json:"percentage"`
	Records    []model.AttendanceRecord `json:"records"`
}

// AttendancePercentageByCourse buckets a student's attendance records
// per course, in the order each course first appears in the record
// list. Courses with no records are not reported, so a percentage is
// never computed over an empty bucket.
func (s *Service) AttendancePercentageByCourse(ctx context.Context, studentID string) ([]CourseAttendance, error) {
	id, err := parseID("student id", studentID)
	if err != nil {
		return nil, err
	}
	student, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return nil, storeErr("student", err)
	}

	order := make([]primitive.ObjectID, 0)
	buckets := make(map[primitive.ObjectID]*CourseAttendance)
	for _, rec := range student.Attendance {
		b, ok := buckets[rec.CourseId]
		if !ok {
			b = &CourseAttendance{CourseId: rec.CourseId.Hex()}
			buckets[rec.CourseId] = b
			order = append(order, rec.CourseId)
		}
		b.Total++
		if rec.Status == model.AttendancePresent {
			b.Present++
		} else {
			b.Absent++
		}
		b.Records = append(b.Records, rec)
	}

	names, err := s.courseNames(ctx, order)
	if err != nil {
		return nil, err
	}
	out := make([]CourseAttendance, 0, len(order))
	for _, courseID := range order {
		b := buckets[courseID]
		b.CourseName = names[courseID]
		b.Percentage = round2(float64(b.Present) / float64(b.Total) * 100)
		out = append(out, *b)
	}
	return out, nil
}

// StudentAverageAttendance is the student's overall attendance
// percentage across every course. A student with no records at all
// averages 0.
func (s *Service) StudentAverageAttendance(ctx context.Context, studentID string) (float64, error) {
	id, err := parseID("student id", studentID)
	if err != nil {
		return 0, err
	}
	student, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return 0, storeErr("student", err)
	}
	return attendancePercentage(student.Attendance, nil), nil
}

// attendancePercentage computes Present/total over records, optionally
// restricted to the given course set. Empty input yields 0, never a
// division by zero.
func attendancePercentage(records []model.AttendanceRecord, courses map[primitive.ObjectID]bool) float64 {
	var present, total int
	for _, rec := range records {
		if courses != nil && !courses[rec.CourseId] {
			continue
		}
		total++
		if rec.Status == model.AttendancePresent {
			present++
		}
	}
	if total == 0 {
		return 0
	}
	return round2(float64(present) / float64(total) * 100)
}

// TeacherAverageAttendance averages the attendance percentages of the
// distinct students enrolled in the teacher's courses. Only records
// belonging to those courses count toward each student's percentage;
// attendance earned in other teachers' courses is excluded.
func (s *Service) TeacherAverageAttendance(ctx context.Context, teacherID string) (float64, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return 0, err
	}
	courses, err := s.store.FindCoursesByTeacher(ctx, id)
	if err != nil {
		return 0, storeErr("listing teacher courses", err)
	}

	courseSet := make(map[primitive.ObjectID]bool, len(courses))
	students := make(map[primitive.ObjectID]bool)
	for _, course := range courses {
		courseSet[course.Id] = true
		for _, studentID := range course.Students {
			students[studentID] = true
		}
	}
	if len(students) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, 0, len(students))
	for studentID := range students {
		ids = append(ids, studentID)
	}
	roster, err := s.store.FindStudentsByIDs(ctx, ids)
	if err != nil {
		return 0, storeErr("listing students", err)
	}
	// Enrollment refs that no longer resolve shrink the roster; it can
	// come back empty even when the id set was not.
	if len(roster) == 0 {
		return 0, nil
	}

	var sum float64
	for _, student := range roster {
		sum += attendancePercentage(student.Attendance, courseSet)
	}
	return round2(sum / float64(len(roster))), nil
}

type CourseGradeAverage struct {
	CourseId   string  `json:"courseId"`
	CourseName string  `json:"courseName"`
	Attempted  int     `json:"attempted"`
	Average    float64 `json:"average"`
}

type GradeReport struct {
	Courses []CourseGradeAverage `json:"courses"`
	Overall float64              `json:"overall"`
}

// TeacherAverageGrade averages, per course, the scores of every
// attempted quiz of the students enrolled there. The attempts are not
// restricted to this teacher's own quizzes. A course with no attempted
// quizzes reports 0 rather than being omitted; the overall figure
// averages every attempt across the courses.
func (s *Service) TeacherAverageGrade(ctx context.Context, teacherID string) (GradeReport, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return GradeReport{}, err
	}
	courses, err := s.store.FindCoursesByTeacher(ctx, id)
	if err != nil {
		return GradeReport{}, storeErr("listing teacher courses", err)
	}

	report := GradeReport{Courses: make([]CourseGradeAverage, 0, len(courses))}
	var totalSum float64
	var totalCount int
	for _, course := range courses {
		roster, err := s.store.FindStudentsByIDs(ctx, course.Students)
		if err != nil {
			return GradeReport{}, storeErr("listing students", err)
		}
		var sum float64
		var count int
		for _, student := range roster {
			for _, attempt := range student.Quizzes {
				if attempt.Attempted && attempt.Score != nil {
					sum += *attempt.Score
					count++
				}
			}
		}
		entry := CourseGradeAverage{
			CourseId:   course.Id.Hex(),
			CourseName: course.Name,
			Attempted:  count,
		}
		if count > 0 {
			entry.Average = round2(sum / float64(count))
		}
		report.Courses = append(report.Courses, entry)
		totalSum += sum
		totalCount += count
	}
	if totalCount > 0 {
		report.Overall = round2(totalSum / float64(totalCount))
	}
	return report, nil
}

type CourseAnnouncement struct {
	CourseId   string    `json:"courseId"`
	CourseName string    `json:"courseName"`
	Date       time.Time `json:"date"`
	Content    string    `json:"content"`
}

// AnnouncementsForStudent flattens the announcement arrays of every
// course the student is enrolled in, walking the courses in enrollment
// order. No sorting happens beyond that; within a course the append
// order stands.
func (s *Service) AnnouncementsForStudent(ctx context.Context, studentID string) ([]CourseAnnouncement, error) {
	id, err := parseID("student id", studentID)
	if err != nil {
		return nil, err
	}
	student, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return nil, storeErr("student", err)
	}
	ids := make([]primitive.ObjectID, 0, len(student.Courses))
	for _, enrollment := range student.Courses {
		ids = append(ids, enrollment.CourseId)
	}
	courses, err := s.store.FindCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("listing courses", err)
	}
	return flattenAnnouncements(orderCourses(ids, courses)), nil
}

// AnnouncementsForTeacher flattens announcements across the teacher's
// courses in course-iteration order.
func (s *Service) AnnouncementsForTeacher(ctx context.Context, teacherID string) ([]CourseAnnouncement, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCoursesByTeacher(ctx, id)
	if err != nil {
		return nil, storeErr("listing teacher courses", err)
	}
	return flattenAnnouncements(courses), nil
}

func flattenAnnouncements(courses []model.Course) []CourseAnnouncement {
	out := make([]CourseAnnouncement, 0)
	for _, course := range courses {
		for _, a := range course.Announcements {
			out = append(out, CourseAnnouncement{
				CourseId:   course.Id.Hex(),
				CourseName: course.Name,
				Date:       a.Date,
				Content:    a.Content,
			})
		}
	}
	return out
}

func (s *Service) StudentByID(ctx context.Context, studentID string) (model.Student, error) {
	id, err := parseID("student id", studentID)
	if err != nil {
		return model.Student{}, err
	}
	student, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return model.Student{}, storeErr("student", err)
	}
	return student, nil
}

func (s *Service) TeacherByID(ctx context.Context, teacherID string) (model.Teacher, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return model.Teacher{}, err
	}
	teacher, err := s.store.GetTeacher(ctx, id)
	if err != nil {
		return model.Teacher{}, storeErr("teacher", err)
	}
	return teacher, nil
}

// EnrolledCourses resolves a student's enrollment refs to full course
// documents, preserving the enrollment order.
func (s *Service) EnrolledCourses(ctx context.Context, studentID string) ([]model.Course, error) {
	student, err := s.StudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(student.Courses))
	for _, enrollment := range student.Courses {
		ids = append(ids, enrollment.CourseId)
	}
	courses, err := s.store.FindCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("listing courses", err)
	}
	return orderCourses(ids, courses), nil
}

// CoursesByTeacher lists the courses whose teacher set contains the
// teacher. A teacher with no courses at all gets NotFound rather than
// an empty list.
func (s *Service) CoursesByTeacher(ctx context.Context, teacherID string) ([]model.Course, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCoursesByTeacher(ctx, id)
	if err != nil {
		return nil, storeErr("listing teacher courses", err)
	}
	if len(courses) == 0 {
		return nil, NotFound("no courses found for this teacher")
	}
	return courses, nil
}

// StudentsByTeacher unions the student rosters of the teacher's
// courses into a deduplicated list.
func (s *Service) StudentsByTeacher(ctx context.Context, teacherID string) ([]model.Student, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCoursesByTeacher(ctx, id)
	if err != nil {
		return nil, storeErr("listing teacher courses", err)
	}
	seen := make(map[primitive.ObjectID]bool)
	ids := make([]primitive.ObjectID, 0)
	for _, course := range courses {
		for _, studentID := range course.Students {
			if !seen[studentID] {
				seen[studentID] = true
				ids = append(ids, studentID)
			}
		}
	}
	students, err := s.store.FindStudentsByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("listing students", err)
	}
	return students, nil
}

// AssignmentsByTeacher lists homework created by the teacher, across
// all of their courses.
func (s *Service) AssignmentsByTeacher(ctx context.Context, teacherID string) ([]model.Homework, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCoursesByTeacher(ctx, id)
	if err != nil {
		return nil, storeErr("listing teacher courses", err)
	}
	courseIDs := make([]primitive.ObjectID, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.Id)
	}
	homework, err := s.store.FindHomeworkByCourses(ctx, courseIDs)
	if err != nil {
		return nil, storeErr("listing homework", err)
	}
	out := make([]model.Homework, 0, len(homework))
	for _, hw := range homework {
		for _, by := range hw.AssignedBy {
			if by == id {
				out = append(out, hw)
				break
			}
		}
	}
	return out, nil
}

type HomeworkView struct {
	Homework   model.Homework    `json:"homework"`
	CourseName string            `json:"courseName"`
	Submission *model.Submission `json:"submission,omitempty"`
}

// HomeworkForStudent lists every assignment across the student's
// courses, each paired with the student's own submission when one
// exists.
func (s *Service) HomeworkForStudent(ctx context.Context, studentID string) ([]HomeworkView, error) {
	student, err := s.StudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	courseIDs := make([]primitive.ObjectID, 0, len(student.Courses))
	for _, enrollment := range student.Courses {
		courseIDs = append(courseIDs, enrollment.CourseId)
	}
	homework, err := s.store.FindHomeworkByCourses(ctx, courseIDs)
	if err != nil {
		return nil, storeErr("listing homework", err)
	}

	subIDs := make([]primitive.ObjectID, 0, len(student.HomeworkSubmissions))
	for _, ref := range student.HomeworkSubmissions {
		subIDs = append(subIDs, ref.SubmissionId)
	}
	subs, err := s.store.FindSubmissionsByIDs(ctx, subIDs)
	if err != nil {
		return nil, storeErr("listing submissions", err)
	}
	byHomework := make(map[primitive.ObjectID]model.Submission, len(subs))
	for _, sub := range subs {
		byHomework[sub.HomeworkId] = sub
	}

	names, err := s.courseNames(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	out := make([]HomeworkView, 0, len(homework))
	for _, hw := range homework {
		view := HomeworkView{Homework: hw, CourseName: names[hw.CourseId]}
		if sub, ok := byHomework[hw.Id]; ok {
			view.Submission = &sub
		}
		out = append(out, view)
	}
	return out, nil
}

// HomeworkForTeacher lists every assignment in the teacher's courses,
// regardless of who created it.
func (s *Service) HomeworkForTeacher(ctx context.Context, teacherID string) ([]model.Homework, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCoursesByTeacher(ctx, id)
	if err != nil {
		return nil, storeErr("listing teacher courses", err)
	}
	courseIDs := make([]primitive.ObjectID, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.Id)
	}
	homework, err := s.store.FindHomeworkByCourses(ctx, courseIDs)
	if err != nil {
		return nil, storeErr("listing homework", err)
	}
	return homework, nil
}

type QuizView struct {
	Quiz       model.Quiz `json:"quiz"`
	CourseName string     `json:"courseName"`
	Attempted  bool       `json:"attempted"`
	Score      *float64   `json:"score,omitempty"`
}

// QuizzesForStudent resolves the student's attempt records into full
// quizzes with attempt state. Correct answers are stripped from
// unattempted quizzes so the payload never leaks them before
// submission.
func (s *Service) QuizzesForStudent(ctx context.Context, studentID string) ([]QuizView, error) {
	student, err := s.StudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	quizIDs := make([]primitive.ObjectID, 0, len(student.Quizzes))
	for _, attempt := range student.Quizzes {
		quizIDs = append(quizIDs, attempt.QuizId)
	}
	quizzes, err := s.store.FindQuizzesByIDs(ctx, quizIDs)
	if err != nil {
		return nil, storeErr("listing quizzes", err)
	}
	byID := make(map[primitive.ObjectID]model.Quiz, len(quizzes))
	courseIDs := make([]primitive.ObjectID, 0, len(quizzes))
	for _, quiz := range quizzes {
		byID[quiz.Id] = quiz
		courseIDs = append(courseIDs, quiz.CourseId)
	}
	names, err := s.courseNames(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	out := make([]QuizView, 0, len(student.Quizzes))
	for _, attempt := range student.Quizzes {
		quiz, ok := byID[attempt.QuizId]
		if !ok {
			continue
		}
		if !attempt.Attempted {
			quiz.Questions = stripAnswers(quiz.Questions)
		}
		out = append(out, QuizView{
			Quiz:       quiz,
			CourseName: names[quiz.CourseId],
			Attempted:  attempt.Attempted,
			Score:      attempt.Score,
		})
	}
	return out, nil
}

func stripAnswers(questions []model.Question) []model.Question {
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		q.CorrectAnswers = nil
		out[i] = q
	}
	return out
}

type QuizRosterEntry struct {
	StudentId   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	Attempted   bool       `json:"attempted"`
	Score       *float64   `json:"score,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

type QuizRoster struct {
	Quiz       model.Quiz        `json:"quiz"`
	CourseName string            `json:"courseName"`
	Roster     []QuizRosterEntry `json:"roster"`
}

// QuizRostersForTeacher reports, for every quiz in the teacher's
// courses, which of the snapshot enrollees have attempted it and with
// what score.
func (s *Service) QuizRostersForTeacher(ctx context.Context, teacherID string) ([]QuizRoster, error) {
	id, err := parseID("teacher id", teacherID)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.FindCoursesByTeacher(ctx, id)
	if err != nil {
		return nil, storeErr("listing teacher courses", err)
	}

	quizIDs := make([]primitive.ObjectID, 0)
	nameByCourse := make(map[primitive.ObjectID]string, len(courses))
	for _, course := range courses {
		nameByCourse[course.Id] = course.Name
		quizIDs = append(quizIDs, course.Quizzes...)
	}
	quizzes, err := s.store.FindQuizzesByIDs(ctx, quizIDs)
	if err != nil {
		return nil, storeErr("listing quizzes", err)
	}
	quizzes = orderQuizzes(quizIDs, quizzes)

	out := make([]QuizRoster, 0, len(quizzes))
	for _, quiz := range quizzes {
		students, err := s.store.FindStudentsByCourse(ctx, quiz.CourseId)
		if err != nil {
			return nil, storeErr("listing enrolled students", err)
		}
		roster := make([]QuizRosterEntry, 0, len(students))
		for _, student := range students {
			for _, attempt := range student.Quizzes {
				if attempt.QuizId != quiz.Id {
					continue
				}
				roster = append(roster, QuizRosterEntry{
					StudentId:   student.Id.Hex(),
					StudentName: student.Name,
					Attempted:   attempt.Attempted,
					Score:       attempt.Score,
					SubmittedAt: attempt.SubmittedAt,
				})
				break
			}
		}
		out = append(out, QuizRoster{
			Quiz:       quiz,
			CourseName: nameByCourse[quiz.CourseId],
			Roster:     roster,
		})
	}
	return out, nil
}

// courseNames resolves course ids to display names; ids that no longer
// resolve map to "Unknown" instead of failing the whole aggregation.
func (s *Service) courseNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		names[id] = unknownCourse
	}
	if len(ids) == 0 {
		return names, nil
	}
	courses, err := s.store.FindCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("resolving course names", err)
	}
	for _, course := range courses {
		names[course.Id] = course.Name
	}
	return names, nil
}

// orderCourses reorders find results to match the requested id order,
// dropping ids that did not resolve.
func orderCourses(ids []primitive.ObjectID, courses []model.Course) []model.Course {
	byID := make(map[primitive.ObjectID]model.Course, len(courses))
	for _, course := range courses {
		byID[course.Id] = course
	}
	out := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		if course, ok := byID[id]; ok {
			out = append(out, course)
		}
	}
	return out
}

func orderQuizzes(ids []primitive.ObjectID, quizzes []model.Quiz) []model.Quiz {
	byID := make(map[primitive.ObjectID]model.Quiz, len(quizzes))
	for _, quiz := range quizzes {
		byID[quiz.Id] = quiz
	}
	out := make([]model.Quiz, 0, len(ids))
	for _, id := range ids {
		if quiz, ok := byID[id]; ok {
			out = append(out, quiz)
		}
	}
	return out
}
