package school

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"edudesk-backend/model"
)

// Relationship maintainer: every operation here records a new linking
// fact and updates the cross-reference arrays on both sides. Writes
// use set semantics or guarded appends, so re-running an operation
// after a partial failure is safe.

// linkTeacherToCourses adds teacher.Id to each assigned course's
// teacher set, one update per distinct course.
func (s *Service) linkTeacherToCourses(ctx context.Context, teacher model.Teacher) error {
	seen := make(map[primitive.ObjectID]bool, len(teacher.AssignedCourses))
	for _, courseID := range teacher.AssignedCourses {
		if seen[courseID] {
			continue
		}
		seen[courseID] = true
		if err := s.store.AddCourseTeacher(ctx, courseID, teacher.Id); err != nil {
			return storeErr("linking teacher to course "+courseID.Hex(), err)
		}
	}
	return nil
}

type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	CourseId    string    `json:"courseId" validate:"required"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	AssignedBy  string    `json:"assignedBy" validate:"required"`
}

// CreateAssignment inserts a homework document and appends its id to
// the course's homework set.
func (s *Service) CreateAssignment(ctx context.Context, req NewAssignment) (model.Homework, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.Homework{}, InvalidArgument("title, courseId, dueDate and assignedBy are required")
	}
	courseID, err := parseID("course id", req.CourseId)
	if err != nil {
		return model.Homework{}, err
	}
	teacherID, err := parseID("teacher id", req.AssignedBy)
	if err != nil {
		return model.Homework{}, err
	}

	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return model.Homework{}, storeErr("course", err)
	}
	if _, err := s.store.GetTeacher(ctx, teacherID); err != nil {
		return model.Homework{}, storeErr("teacher", err)
	}

	hw, err := s.store.InsertHomework(ctx, model.Homework{
		Title:        req.Title,
		Description:  req.Description,
		CourseId:     courseID,
		DueDate:      req.DueDate,
		AssignedDate: time.Now().UTC(),
		AssignedBy:   []primitive.ObjectID{teacherID},
		Submissions:  []model.SubmissionEntry{},
	})
	if err != nil {
		return model.Homework{}, DependencyFailure("inserting homework", err)
	}
	if err := s.store.AddCourseHomework(ctx, courseID, hw.Id); err != nil {
		return model.Homework{}, storeErr("linking homework to course", err)
	}
	return hw, nil
}

type AttendanceEntry struct {
	StudentId string    `json:"studentId" validate:"required"`
	CourseId  string    `json:"courseId" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Status    string    `json:"status" validate:"required"`
}

// RecordAttendance appends one attendance record. At most one record
// may exist per (student, course, calendar day); a second call with
// the same day fails with Conflict. Only the canonical capitalized
// statuses are accepted.
func (s *Service) RecordAttendance(ctx context.Context, entry AttendanceEntry) error {
	if err := s.validate.Struct(entry); err != nil {
		return InvalidArgument("studentId, courseId, date and status are required")
	}
	status := model.AttendanceStatus(entry.Status)
	if !status.Valid() {
		return InvalidArgument("invalid attendance status %q (want %q or %q)",
			entry.Status, model.AttendancePresent, model.AttendanceAbsent)
	}
	studentID, err := parseID("student id", entry.StudentId)
	if err != nil {
		return err
	}
	courseID, err := parseID("course id", entry.CourseId)
	if err != nil {
		return err
	}
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return storeErr("course", err)
	}

	appended, err := s.store.AppendAttendance(ctx, studentID, model.AttendanceRecord{
		CourseId: courseID,
		Date:     entry.Date.UTC(),
		Status:   status,
	})
	if err != nil {
		return storeErr("recording attendance", err)
	}
	if !appended {
		return Conflict("attendance for student %s in course %s on %s already recorded",
			entry.StudentId, entry.CourseId, entry.Date.UTC().Format("2006-01-02"))
	}
	return nil
}

// RecordAttendanceBatch validates every entry before writing any of
// them; the writes themselves are sequential and individually guarded.
func (s *Service) RecordAttendanceBatch(ctx context.Context, entries []AttendanceEntry) error {
	if len(entries) == 0 {
		return InvalidArgument("expected at least one attendance entry")
	}
	for _, entry := range entries {
		if err := s.validate.Struct(entry); err != nil {
			return InvalidArgument("every attendance entry needs studentId, courseId, date and status")
		}
		if !model.AttendanceStatus(entry.Status).Valid() {
			return InvalidArgument("invalid attendance status %q", entry.Status)
		}
	}
	for _, entry := range entries {
		if err := s.RecordAttendance(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

type QuestionInput struct {
	Text           string   `json:"text" validate:"required"`
	Options        []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswers []int    `json:"correctAnswers" validate:"required,min=1,dive,gte=0,lte=3"`
	Kind           string   `json:"kind" validate:"required,oneof=single multiple"`
	Points         float64  `json:"points" validate:"required,gt=0"`
}

type NewQuiz struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description"`
	CourseId     string          `json:"courseId" validate:"required"`
	Questions    []QuestionInput `json:"questions" validate:"required,min=1,dive"`
	Duration     int             `json:"duration" validate:"required,gt=0"`
	AssignedDate time.Time       `json:"assignedDate" validate:"required"`
	DueDate      time.Time       `json:"dueDate" validate:"required"`
}

// CreateQuiz inserts the quiz, adds it to the course's quiz set and
// gives every currently enrolled student an unattempted attempt
// record. The roster is a snapshot: students who enroll later do not
// receive the record. Re-running after a mid-loop failure completes
// the roster without duplicating anything.
func (s *Service) CreateQuiz(ctx context.Context, req NewQuiz) (model.Quiz, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.Quiz{}, InvalidArgument("invalid quiz: %v", err)
	}
	for i, q := range req.Questions {
		if model.QuestionKind(q.Kind) == model.SingleChoice && len(q.CorrectAnswers) != 1 {
			return model.Quiz{}, InvalidArgument("question %d: single choice needs exactly one correct answer", i)
		}
	}
	courseID, err := parseID("course id", req.CourseId)
	if err != nil {
		return model.Quiz{}, err
	}
	if _, err := s.store.GetCourse(ctx, courseID); err != nil {
		return model.Quiz{}, storeErr("course", err)
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, model.Question{
			Text:           q.Text,
			Options:        q.Options,
			CorrectAnswers: q.CorrectAnswers,
			Kind:           model.QuestionKind(q.Kind),
			Points:         q.Points,
		})
	}
	quiz, err := s.store.InsertQuiz(ctx, model.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		CourseId:     courseID,
		Questions:    questions,
		Duration:     req.Duration,
		AssignedDate: req.AssignedDate,
		DueDate:      req.DueDate,
	})
	if err != nil {
		return model.Quiz{}, DependencyFailure("inserting quiz", err)
	}

	if err := s.store.AddCourseQuiz(ctx, courseID, quiz.Id); err != nil {
		return model.Quiz{}, storeErr("linking quiz to course", err)
	}
	if err := s.enrollQuiz(ctx, quiz.Id, courseID); err != nil {
		return model.Quiz{}, err
	}
	return quiz, nil
}

func (s *Service) enrollQuiz(ctx context.Context, quizID, courseID primitive.ObjectID) error {
	students, err := s.store.FindStudentsByCourse(ctx, courseID)
	if err != nil {
		return DependencyFailure("listing enrolled students", err)
	}
	for _, student := range students {
		// Already-present records are skipped, so a retry never
		// duplicates an attempt entry.
		if _, err := s.store.AddQuizAttempt(ctx, student.Id, quizID); err != nil {
			return storeErr("adding quiz attempt for student "+student.Id.Hex(), err)
		}
	}
	return nil
}

type HomeworkUpload struct {
	StudentId   string
	HomeworkId  string
	FileName    string
	ContentType string
	File        io.Reader
}

// SubmitHomework uploads the file, creates the submission record and
// links it from both the student and the assignment. The student must
// be enrolled in the assignment's course. The three writes are
// sequential; any failure surfaces immediately and the caller may
// resubmit.
func (s *Service) SubmitHomework(ctx context.Context, req HomeworkUpload) (model.Submission, error) {
	if req.File == nil || req.FileName == "" {
		return model.Submission{}, InvalidArgument("no file uploaded")
	}
	studentID, err := parseID("student id", req.StudentId)
	if err != nil {
		return model.Submission{}, err
	}
	homeworkID, err := parseID("homework id", req.HomeworkId)
	if err != nil {
		return model.Submission{}, err
	}

	student, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return model.Submission{}, storeErr("student", err)
	}
	hw, err := s.store.GetHomework(ctx, homeworkID)
	if err != nil {
		return model.Submission{}, storeErr("homework", err)
	}

	enrolled := false
	for _, enrollment := range student.Courses {
		if enrollment.CourseId == hw.CourseId {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return model.Submission{}, Forbidden("student not enrolled in this course")
	}

	ext := filepath.Ext(req.FileName)
	contentType := req.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	key := fmt.Sprintf("homework/%s/%s%s", hw.Id.Hex(), uuid.NewString(), ext)
	fileURL, err := s.files.Store(ctx, key, contentType, req.File)
	if err != nil {
		return model.Submission{}, DependencyFailure("uploading submission file", err)
	}

	now := time.Now().UTC()
	sub, err := s.store.InsertSubmission(ctx, model.Submission{
		HomeworkId:  homeworkID,
		StudentId:   studentID,
		FileURL:     fileURL,
		Status:      model.SubmissionSubmitted,
		SubmittedAt: now,
	})
	if err != nil {
		return model.Submission{}, DependencyFailure("inserting submission", err)
	}
	if err := s.store.AddSubmissionRef(ctx, studentID, sub.Id); err != nil {
		return model.Submission{}, storeErr("linking submission to student", err)
	}
	if err := s.store.AddHomeworkSubmissionEntry(ctx, homeworkID, model.SubmissionEntry{
		StudentId:   studentID,
		SubmittedAt: now,
	}); err != nil {
		return model.Submission{}, storeErr("linking submission to homework", err)
	}
	return sub, nil
}

type NewAnnouncement struct {
	CourseId string `json:"courseId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

func (s *Service) PostAnnouncement(ctx context.Context, req NewAnnouncement) error {
	if err := s.validate.Struct(req); err != nil {
		return InvalidArgument("courseId and content are required")
	}
	courseID, err := parseID("course id", req.CourseId)
	if err != nil {
		return err
	}
	if err := s.store.AddAnnouncement(ctx, courseID, model.Announcement{
		Date:    time.Now().UTC(),
		Content: req.Content,
	}); err != nil {
		return storeErr("posting announcement", err)
	}
	return nil
}

// GradeSubmission sets marks and flips the submission to graded; there
// is no richer lifecycle than that.
func (s *Service) GradeSubmission(ctx context.Context, submissionID string, marks float64) error {
	if marks < 0 {
		return InvalidArgument("marks must not be negative")
	}
	id, err := parseID("submission id", submissionID)
	if err != nil {
		return err
	}
	if err := s.store.GradeSubmission(ctx, id, marks); err != nil {
		return storeErr("grading submission", err)
	}
	return nil
}

type QuizAnswers struct {
	StudentId string  `json:"studentId" validate:"required"`
	QuizId    string  `json:"quizId" validate:"required"`
	Answers   [][]int `json:"answers" validate:"required"`
}

// SubmitQuiz scores the answers and marks the student's attempt
// record. A question earns its points only when the selected option
// set matches the correct set exactly. The attempt record must exist
// (late enrollees never have one) and must still be unattempted.
func (s *Service) SubmitQuiz(ctx context.Context, req QuizAnswers) (float64, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, InvalidArgument("studentId, quizId and answers are required")
	}
	studentID, err := parseID("student id", req.StudentId)
	if err != nil {
		return 0, err
	}
	quizID, err := parseID("quiz id", req.QuizId)
	if err != nil {
		return 0, err
	}

	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return 0, storeErr("quiz", err)
	}
	if len(req.Answers) != len(quiz.Questions) {
		return 0, InvalidArgument("expected %d answers, got %d", len(quiz.Questions), len(req.Answers))
	}

	student, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return 0, storeErr("student", err)
	}
	var attempt *model.QuizAttempt
	for i := range student.Quizzes {
		if student.Quizzes[i].QuizId == quizID {
			attempt = &student.Quizzes[i]
			break
		}
	}
	if attempt == nil {
		return 0, NotFound("no attempt record for this quiz")
	}
	if attempt.Attempted {
		return 0, Conflict("quiz already attempted")
	}

	score := scoreQuiz(quiz.Questions, req.Answers)
	marked, err := s.store.MarkQuizAttempt(ctx, studentID, quizID, score, time.Now().UTC())
	if err != nil {
		return 0, DependencyFailure("saving quiz attempt", err)
	}
	if !marked {
		// Lost the race against another submission of the same quiz.
		return 0, Conflict("quiz already attempted")
	}
	return score, nil
}

// scoreQuiz returns the earned share of total points as a 0-100
// percentage, rounded to two decimals.
func scoreQuiz(questions []model.Question, answers [][]int) float64 {
	var total, earned float64
	for i, q := range questions {
		total += q.Points
		if sameAnswerSet(q.CorrectAnswers, answers[i]) {
			earned += q.Points
		}
	}
	if total == 0 {
		return 0
	}
	return round2(earned / total * 100)
}

// sameAnswerSet compares as sets, so duplicate indices in the
// submission cannot pad the selection out to the right size.
func sameAnswerSet(correct, given []int) bool {
	correctSet := make(map[int]bool, len(correct))
	for _, c := range correct {
		correctSet[c] = true
	}
	givenSet := make(map[int]bool, len(given))
	for _, g := range given {
		givenSet[g] = true
	}
	if len(correctSet) != len(givenSet) {
		return false
	}
	for g := range givenSet {
		if !correctSet[g] {
			return false
		}
	}
	return true
}
