package school_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"edudesk-backend/model"
	"edudesk-backend/school"
	"edudesk-backend/store"
	"edudesk-backend/store/inmem"
)

// memStorage keeps uploaded files in memory and hands back a fake URL.
type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (m *memStorage) Store(_ context.Context, key, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.files[key] = data
	return "https://files.test/" + key, nil
}

func newTestService(t *testing.T) (*school.Service, *inmem.Store) {
	t.Helper()
	st := inmem.New()
	return school.NewService(st, newMemStorage()), st
}

func createCourse(t *testing.T, svc *school.Service, name string) model.Course {
	t.Helper()
	courses, err := svc.CreateCourses(context.Background(), []school.NewCourse{{Name: name}})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	return courses[0]
}

func createTeacher(t *testing.T, svc *school.Service, email string, courseIDs ...string) model.Teacher {
	t.Helper()
	teachers, err := svc.CreateTeachers(context.Background(), []school.NewTeacher{{
		Name:            "Teacher " + email,
		Email:           email,
		Password:        "secret1",
		AssignedCourses: courseIDs,
	}})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	return teachers[0]
}

func createStudent(t *testing.T, svc *school.Service, email string, courseIDs ...string) model.Student {
	t.Helper()
	students, err := svc.CreateStudents(context.Background(), []school.NewStudent{{
		Name:     "Student " + email,
		Email:    email,
		Password: "secret1",
		Courses:  courseIDs,
	}})
	require.NoError(t, err)
	require.Len(t, students, 1)
	return students[0]
}

func TestCreateTeachersLinksCourses(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	math := createCourse(t, svc, "Math")
	physics := createCourse(t, svc, "Physics")

	teacher := createTeacher(t, svc, "t1@school.test", math.Id.Hex(), physics.Id.Hex())

	for _, courseID := range []primitive.ObjectID{math.Id, physics.Id} {
		course, err := st.GetCourse(ctx, courseID)
		require.NoError(t, err)
		require.Contains(t, course.Teachers, teacher.Id)
	}
}

func TestCreateTeachersRejectsWholeBatchOnDuplicateEmail(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTeachers(ctx, []school.NewTeacher{
		{Name: "A", Email: "dup@school.test", Password: "secret1"},
		{Name: "B", Email: "dup@school.test", Password: "secret1"},
	})
	require.Equal(t, school.KindConflict, school.KindOf(err))

	// Nothing from the batch may have been persisted.
	_, err = st.FindTeacherByEmail(ctx, "dup@school.test")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateStudentsEnrollsBothSides(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "History")
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	got, err := st.GetCourse(ctx, course.Id)
	require.NoError(t, err)
	require.Contains(t, got.Students, student.Id)

	stored, err := st.GetStudent(ctx, student.Id)
	require.NoError(t, err)
	require.Len(t, stored.Courses, 1)
	require.Equal(t, course.Id, stored.Courses[0].CourseId)
	require.NotEqual(t, "secret1", stored.Password)
}

func TestCreateStudentsRejectsUnknownCourse(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateStudents(context.Background(), []school.NewStudent{{
		Name:     "S",
		Email:    "s@school.test",
		Password: "secret1",
		Courses:  []string{"ffffffffffffffffffffffff"},
	}})
	require.Equal(t, school.KindNotFound, school.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("adminpw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := st.SeedAdmin(model.Admin{Name: "Root", Email: "admin@school.test", Password: string(hashed)})

	id, err := svc.Authenticate(ctx, school.RoleAdmin, school.Credentials{Email: "admin@school.test", Password: "adminpw"})
	require.NoError(t, err)
	require.Equal(t, admin.Id.Hex(), id)

	_, err = svc.Authenticate(ctx, school.RoleAdmin, school.Credentials{Email: "admin@school.test", Password: "wrong"})
	require.Equal(t, school.KindForbidden, school.KindOf(err))

	// Unknown email maps to the same error as a wrong password.
	_, err = svc.Authenticate(ctx, school.RoleAdmin, school.Credentials{Email: "ghost@school.test", Password: "adminpw"})
	require.Equal(t, school.KindForbidden, school.KindOf(err))
}

func TestRecordAttendanceDuplicateDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entry := school.AttendanceEntry{
		StudentId: student.Id.Hex(),
		CourseId:  course.Id.Hex(),
		Date:      day,
		Status:    "Present",
	}
	require.NoError(t, svc.RecordAttendance(ctx, entry))

	// Same calendar day, different clock time.
	entry.Date = day.Add(5 * time.Hour)
	entry.Status = "Absent"
	err := svc.RecordAttendance(ctx, entry)
	require.Equal(t, school.KindConflict, school.KindOf(err))

	// Next day is fine.
	entry.Date = day.AddDate(0, 0, 1)
	require.NoError(t, svc.RecordAttendance(ctx, entry))
}

func TestRecordAttendanceRejectsLowercaseStatus(t *testing.T) {
	svc, _ := newTestService(t)

	course := createCourse(t, svc, "Math")
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	err := svc.RecordAttendance(context.Background(), school.AttendanceEntry{
		StudentId: student.Id.Hex(),
		CourseId:  course.Id.Hex(),
		Date:      time.Now(),
		Status:    "present",
	})
	require.Equal(t, school.KindInvalidArgument, school.KindOf(err))
}

func TestAttendancePercentageByCourse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	math := createCourse(t, svc, "Math")
	physics := createCourse(t, svc, "Physics")
	student := createStudent(t, svc, "s1@school.test", math.Id.Hex(), physics.Id.Hex())

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	record := func(courseID, status string, offset int) {
		require.NoError(t, svc.RecordAttendance(ctx, school.AttendanceEntry{
			StudentId: student.Id.Hex(),
			CourseId:  courseID,
			Date:      day.AddDate(0, 0, offset),
			Status:    status,
		}))
	}
	record(math.Id.Hex(), "Present", 0)
	record(math.Id.Hex(), "Present", 1)
	record(math.Id.Hex(), "Absent", 2)

	buckets, err := svc.AttendancePercentageByCourse(ctx, student.Id.Hex())
	require.NoError(t, err)

	// Physics has no records, so no bucket and no zero-denominator
	// percentage for it.
	require.Len(t, buckets, 1)
	b := buckets[0]
	require.Equal(t, "Math", b.CourseName)
	require.Equal(t, 2, b.Present)
	require.Equal(t, 1, b.Absent)
	require.Equal(t, 3, b.Total)
	require.Equal(t, 66.67, b.Percentage)
	require.Len(t, b.Records, 3)
}

func TestStudentAverageAttendanceEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	course := createCourse(t, svc, "Math")
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	avg, err := svc.StudentAverageAttendance(context.Background(), student.Id.Hex())
	require.NoError(t, err)
	require.Equal(t, 0.0, avg)
}

func TestTeacherAverageAttendanceCountsOnlyOwnCourses(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mine := createCourse(t, svc, "Math")
	other := createCourse(t, svc, "Art")
	teacher := createTeacher(t, svc, "t1@school.test", mine.Id.Hex())
	student := createStudent(t, svc, "s1@school.test", mine.Id.Hex(), other.Id.Hex())

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	record := func(courseID, status string, offset int) {
		require.NoError(t, svc.RecordAttendance(ctx, school.AttendanceEntry{
			StudentId: student.Id.Hex(),
			CourseId:  courseID,
			Date:      day.AddDate(0, 0, offset),
			Status:    status,
		}))
	}
	// Perfect attendance in the teacher's course, zero in the other
	// course. Only the former may count.
	record(mine.Id.Hex(), "Present", 0)
	record(mine.Id.Hex(), "Present", 1)
	record(other.Id.Hex(), "Absent", 0)
	record(other.Id.Hex(), "Absent", 1)

	avg, err := svc.TeacherAverageAttendance(ctx, teacher.Id.Hex())
	require.NoError(t, err)
	require.Equal(t, 100.0, avg)
}

func TestTeacherAverageAttendanceNoStudents(t *testing.T) {
	svc, _ := newTestService(t)

	course := createCourse(t, svc, "Math")
	teacher := createTeacher(t, svc, "t1@school.test", course.Id.Hex())

	avg, err := svc.TeacherAverageAttendance(context.Background(), teacher.Id.Hex())
	require.NoError(t, err)
	require.Equal(t, 0.0, avg)
}

func TestTeacherAverageAttendanceOrphanedEnrollment(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	teacher := createTeacher(t, svc, "t1@school.test", course.Id.Hex())

	// The course's student set references a document that was never
	// created; the roster resolves empty and the average must still be
	// a plain 0, not a division by zero.
	require.NoError(t, st.AddCourseStudent(ctx, course.Id, primitive.NewObjectID()))

	avg, err := svc.TeacherAverageAttendance(ctx, teacher.Id.Hex())
	require.NoError(t, err)
	require.Equal(t, 0.0, avg)
}

func TestCreateQuizSnapshotsEnrollment(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	enrolled := createStudent(t, svc, "early@school.test", course.Id.Hex())

	quiz, err := svc.CreateQuiz(ctx, newQuizReq(course.Id.Hex()))
	require.NoError(t, err)

	late := createStudent(t, svc, "late@school.test", course.Id.Hex())

	early, err := st.GetStudent(ctx, enrolled.Id)
	require.NoError(t, err)
	require.Len(t, early.Quizzes, 1)
	require.Equal(t, quiz.Id, early.Quizzes[0].QuizId)
	require.False(t, early.Quizzes[0].Attempted)
	require.Nil(t, early.Quizzes[0].Score)

	// Enrolling after publication earns no attempt record.
	lateStored, err := st.GetStudent(ctx, late.Id)
	require.NoError(t, err)
	require.Empty(t, lateStored.Quizzes)

	got, err := st.GetCourse(ctx, course.Id)
	require.NoError(t, err)
	require.Contains(t, got.Quizzes, quiz.Id)
}

func TestQuizAttemptAppendIsIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	quiz, err := svc.CreateQuiz(ctx, newQuizReq(course.Id.Hex()))
	require.NoError(t, err)

	// Re-running the snapshot append, as a retry after a mid-loop
	// failure would, is rejected by the guard and leaves exactly one
	// attempt record behind.
	added, err := st.AddQuizAttempt(ctx, student.Id, quiz.Id)
	require.NoError(t, err)
	require.False(t, added)

	stored, err := st.GetStudent(ctx, student.Id)
	require.NoError(t, err)
	require.Len(t, stored.Quizzes, 1)
	require.Equal(t, quiz.Id, stored.Quizzes[0].QuizId)
	require.False(t, stored.Quizzes[0].Attempted)
}

func TestCreateQuizValidatesQuestions(t *testing.T) {
	svc, _ := newTestService(t)
	course := createCourse(t, svc, "Math")

	req := newQuizReq(course.Id.Hex())
	req.Questions[0].Options = []string{"a", "b"}
	_, err := svc.CreateQuiz(context.Background(), req)
	require.Equal(t, school.KindInvalidArgument, school.KindOf(err))

	req = newQuizReq(course.Id.Hex())
	req.Questions[0].Kind = "single"
	req.Questions[0].CorrectAnswers = []int{0, 1}
	_, err = svc.CreateQuiz(context.Background(), req)
	require.Equal(t, school.KindInvalidArgument, school.KindOf(err))
}

func TestSubmitQuizScoring(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	req := newQuizReq(course.Id.Hex())
	req.Questions = append(req.Questions, school.QuestionInput{
		Text:           "Pick the even numbers",
		Options:        []string{"1", "2", "3", "4"},
		CorrectAnswers: []int{1, 3},
		Kind:           "multiple",
		Points:         3,
	})
	quiz, err := svc.CreateQuiz(ctx, req)
	require.NoError(t, err)

	// First question (2 points) right, second (3 points) wrong because
	// the selected set does not match exactly.
	score, err := svc.SubmitQuiz(ctx, school.QuizAnswers{
		StudentId: student.Id.Hex(),
		QuizId:    quiz.Id.Hex(),
		Answers:   [][]int{{2}, {1}},
	})
	require.NoError(t, err)
	require.Equal(t, 40.0, score)

	stored, err := st.GetStudent(ctx, student.Id)
	require.NoError(t, err)
	require.True(t, stored.Quizzes[0].Attempted)
	require.NotNil(t, stored.Quizzes[0].Score)
	require.Equal(t, 40.0, *stored.Quizzes[0].Score)
	require.NotNil(t, stored.Quizzes[0].SubmittedAt)

	// A second submission is rejected.
	_, err = svc.SubmitQuiz(ctx, school.QuizAnswers{
		StudentId: student.Id.Hex(),
		QuizId:    quiz.Id.Hex(),
		Answers:   [][]int{{2}, {1, 3}},
	})
	require.Equal(t, school.KindConflict, school.KindOf(err))
}

func TestSubmitQuizRepeatedIndicesEarnNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	req := newQuizReq(course.Id.Hex())
	req.Questions = []school.QuestionInput{{
		Text:           "Pick the even numbers",
		Options:        []string{"1", "2", "3", "4"},
		CorrectAnswers: []int{1, 3},
		Kind:           "multiple",
		Points:         3,
	}}
	quiz, err := svc.CreateQuiz(ctx, req)
	require.NoError(t, err)

	// Repeating one correct index must not pass for selecting both.
	score, err := svc.SubmitQuiz(ctx, school.QuizAnswers{
		StudentId: student.Id.Hex(),
		QuizId:    quiz.Id.Hex(),
		Answers:   [][]int{{1, 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, score)
}

func TestSubmitQuizWithoutAttemptRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	quiz, err := svc.CreateQuiz(ctx, newQuizReq(course.Id.Hex()))
	require.NoError(t, err)

	// Enrolled after the quiz was published, so no attempt record.
	late := createStudent(t, svc, "late@school.test", course.Id.Hex())
	_, err = svc.SubmitQuiz(ctx, school.QuizAnswers{
		StudentId: late.Id.Hex(),
		QuizId:    quiz.Id.Hex(),
		Answers:   [][]int{{2}},
	})
	require.Equal(t, school.KindNotFound, school.KindOf(err))
}

func TestTeacherAverageGrade(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	teacher := createTeacher(t, svc, "t1@school.test", course.Id.Hex())
	s1 := createStudent(t, svc, "s1@school.test", course.Id.Hex())
	s2 := createStudent(t, svc, "s2@school.test", course.Id.Hex())

	// No attempted quizzes anywhere: the course reports 0, not an
	// error and not an omitted bucket.
	report, err := svc.TeacherAverageGrade(ctx, teacher.Id.Hex())
	require.NoError(t, err)
	require.Len(t, report.Courses, 1)
	require.Equal(t, 0, report.Courses[0].Attempted)
	require.Equal(t, 0.0, report.Courses[0].Average)
	require.Equal(t, 0.0, report.Overall)

	quiz, err := svc.CreateQuiz(ctx, newQuizReq(course.Id.Hex()))
	require.NoError(t, err)

	submit := func(studentID string, answers [][]int) {
		_, err := svc.SubmitQuiz(ctx, school.QuizAnswers{
			StudentId: studentID,
			QuizId:    quiz.Id.Hex(),
			Answers:   answers,
		})
		require.NoError(t, err)
	}
	submit(s1.Id.Hex(), [][]int{{2}}) // 100
	submit(s2.Id.Hex(), [][]int{{0}}) // 0

	report, err = svc.TeacherAverageGrade(ctx, teacher.Id.Hex())
	require.NoError(t, err)
	require.Len(t, report.Courses, 1)
	require.Equal(t, "Math", report.Courses[0].CourseName)
	require.Equal(t, 2, report.Courses[0].Attempted)
	require.Equal(t, 50.0, report.Courses[0].Average)
	require.Equal(t, 50.0, report.Overall)
}

func TestCreateAssignmentLinksCourse(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	teacher := createTeacher(t, svc, "t1@school.test", course.Id.Hex())

	hw, err := svc.CreateAssignment(ctx, school.NewAssignment{
		Title:      "Worksheet 1",
		CourseId:   course.Id.Hex(),
		DueDate:    time.Now().AddDate(0, 0, 7),
		AssignedBy: teacher.Id.Hex(),
	})
	require.NoError(t, err)

	got, err := st.GetCourse(ctx, course.Id)
	require.NoError(t, err)
	require.Contains(t, got.Homework, hw.Id)

	assignments, err := svc.AssignmentsByTeacher(ctx, teacher.Id.Hex())
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.Equal(t, hw.Id, assignments[0].Id)
}

func TestSubmitHomework(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	teacher := createTeacher(t, svc, "t1@school.test", course.Id.Hex())
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	hw, err := svc.CreateAssignment(ctx, school.NewAssignment{
		Title:      "Worksheet 1",
		CourseId:   course.Id.Hex(),
		DueDate:    time.Now().AddDate(0, 0, 7),
		AssignedBy: teacher.Id.Hex(),
	})
	require.NoError(t, err)

	sub, err := svc.SubmitHomework(ctx, school.HomeworkUpload{
		StudentId:  student.Id.Hex(),
		HomeworkId: hw.Id.Hex(),
		FileName:   "answers.pdf",
		File:       bytes.NewReader([]byte("%PDF-1.4")),
	})
	require.NoError(t, err)
	require.Equal(t, model.SubmissionSubmitted, sub.Status)
	require.NotEmpty(t, sub.FileURL)

	stored, err := st.GetStudent(ctx, student.Id)
	require.NoError(t, err)
	require.Len(t, stored.HomeworkSubmissions, 1)
	require.Equal(t, sub.Id, stored.HomeworkSubmissions[0].SubmissionId)

	gotHw, err := st.GetHomework(ctx, hw.Id)
	require.NoError(t, err)
	require.Len(t, gotHw.Submissions, 1)
	require.Equal(t, student.Id, gotHw.Submissions[0].StudentId)
}

func TestSubmitHomeworkRequiresEnrollment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	teacher := createTeacher(t, svc, "t1@school.test", course.Id.Hex())
	outsider := createStudent(t, svc, "out@school.test")

	hw, err := svc.CreateAssignment(ctx, school.NewAssignment{
		Title:      "Worksheet 1",
		CourseId:   course.Id.Hex(),
		DueDate:    time.Now().AddDate(0, 0, 7),
		AssignedBy: teacher.Id.Hex(),
	})
	require.NoError(t, err)

	_, err = svc.SubmitHomework(ctx, school.HomeworkUpload{
		StudentId:  outsider.Id.Hex(),
		HomeworkId: hw.Id.Hex(),
		FileName:   "answers.pdf",
		File:       bytes.NewReader([]byte("data")),
	})
	require.Equal(t, school.KindForbidden, school.KindOf(err))
}

func TestGradeSubmission(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	teacher := createTeacher(t, svc, "t1@school.test", course.Id.Hex())
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())

	hw, err := svc.CreateAssignment(ctx, school.NewAssignment{
		Title:      "Worksheet 1",
		CourseId:   course.Id.Hex(),
		DueDate:    time.Now().AddDate(0, 0, 7),
		AssignedBy: teacher.Id.Hex(),
	})
	require.NoError(t, err)

	sub, err := svc.SubmitHomework(ctx, school.HomeworkUpload{
		StudentId:  student.Id.Hex(),
		HomeworkId: hw.Id.Hex(),
		FileName:   "answers.pdf",
		File:       bytes.NewReader([]byte("data")),
	})
	require.NoError(t, err)

	require.NoError(t, svc.GradeSubmission(ctx, sub.Id.Hex(), 87.5))

	graded, err := st.GetSubmission(ctx, sub.Id)
	require.NoError(t, err)
	require.Equal(t, model.SubmissionGraded, graded.Status)
	require.NotNil(t, graded.Marks)
	require.Equal(t, 87.5, *graded.Marks)
}

func TestAnnouncementsFollowCourseOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	math := createCourse(t, svc, "Math")
	physics := createCourse(t, svc, "Physics")
	createTeacher(t, svc, "t1@school.test", math.Id.Hex(), physics.Id.Hex())
	student := createStudent(t, svc, "s1@school.test", math.Id.Hex(), physics.Id.Hex())

	// The newer announcement lands in the second enrolled course; the
	// flattened view still walks courses in enrollment order and must
	// not reorder by date.
	require.NoError(t, svc.PostAnnouncement(ctx, school.NewAnnouncement{CourseId: math.Id.Hex(), Content: "older-math"}))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, svc.PostAnnouncement(ctx, school.NewAnnouncement{CourseId: physics.Id.Hex(), Content: "newer-physics"}))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, svc.PostAnnouncement(ctx, school.NewAnnouncement{CourseId: math.Id.Hex(), Content: "newest-math"}))

	got, err := svc.AnnouncementsForStudent(ctx, student.Id.Hex())
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "older-math", got[0].Content)
	require.Equal(t, "Math", got[0].CourseName)
	require.Equal(t, "newest-math", got[1].Content)
	require.Equal(t, "newer-physics", got[2].Content)
	require.Equal(t, "Physics", got[2].CourseName)
}

func TestCoursesByTeacherNotFoundWhenNone(t *testing.T) {
	svc, _ := newTestService(t)

	teacher := createTeacher(t, svc, "t1@school.test")
	_, err := svc.CoursesByTeacher(context.Background(), teacher.Id.Hex())
	require.Equal(t, school.KindNotFound, school.KindOf(err))
}

func TestQuizzesForStudentHidesAnswersUntilAttempted(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	course := createCourse(t, svc, "Math")
	student := createStudent(t, svc, "s1@school.test", course.Id.Hex())
	quiz, err := svc.CreateQuiz(ctx, newQuizReq(course.Id.Hex()))
	require.NoError(t, err)

	views, err := svc.QuizzesForStudent(ctx, student.Id.Hex())
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.False(t, views[0].Attempted)
	require.Nil(t, views[0].Quiz.Questions[0].CorrectAnswers)

	_, err = svc.SubmitQuiz(ctx, school.QuizAnswers{
		StudentId: student.Id.Hex(),
		QuizId:    quiz.Id.Hex(),
		Answers:   [][]int{{2}},
	})
	require.NoError(t, err)

	views, err = svc.QuizzesForStudent(ctx, student.Id.Hex())
	require.NoError(t, err)
	require.True(t, views[0].Attempted)
	require.Equal(t, []int{2}, views[0].Quiz.Questions[0].CorrectAnswers)
}

func newQuizReq(courseID string) school.NewQuiz {
	return school.NewQuiz{
		Title:    "Quiz 1",
		CourseId: courseID,
		Questions: []school.QuestionInput{{
			Text:           "2+2?",
			Options:        []string{"2", "3", "4", "5"},
			CorrectAnswers: []int{2},
			Kind:           "single",
			Points:         2,
		}},
		Duration:     30,
		AssignedDate: time.Now(),
		DueDate:      time.Now().AddDate(0, 0, 3),
	}
}
