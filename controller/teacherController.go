package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"edudesk-backend/school"
	"edudesk-backend/token"
	"edudesk-backend/util"
)

type TeacherController struct {
	svc *school.Service
	ts  *token.Storage
}

func NewTeacherController(svc *school.Service, ts *token.Storage) *TeacherController {
	return &TeacherController{svc: svc, ts: ts}
}

func (tc *TeacherController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	handleLogin(tc.svc, tc.ts, school.RoleTeacher, w, r)
}

func (tc *TeacherController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	handleLogout(tc.ts, school.RoleTeacher, w, r)
}

// authorizeSelf lets a teacher act only on their own resources: the
// path id must match the account the token was issued for.
func (tc *TeacherController) authorizeSelf(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, err := util.Authorize(tc.ts, school.RoleTeacher, w, r)
	if err != nil {
		return "", false
	}
	pathID := chi.URLParam(r, "id")
	if pathID != accountID {
		util.WriteErrorResponse(w, http.StatusForbidden, "user does not have permission for this request")
		return "", false
	}
	return accountID, true
}

func (tc *TeacherController) HandleGetTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	teacher, err := tc.svc.TeacherByID(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, teacher)
}

func (tc *TeacherController) HandleGetStudents(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	students, err := tc.svc.StudentsByTeacher(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, students)
}

func (tc *TeacherController) HandleGetCourses(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	courses, err := tc.svc.CoursesByTeacher(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, courses)
}

type averageResponse struct {
	Average float64 `json:"average"`
}

// HandleAttendanceAverage reports the mean attendance percentage of
// the teacher's students, counting only records from the teacher's own
// courses.
func (tc *TeacherController) HandleAttendanceAverage(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	avg, err := tc.svc.TeacherAverageAttendance(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, averageResponse{Average: avg})
}

func (tc *TeacherController) HandleGradeAverage(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	report, err := tc.svc.TeacherAverageGrade(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, report)
}

func (tc *TeacherController) HandleGetAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	assignments, err := tc.svc.AssignmentsByTeacher(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, assignments)
}

func (tc *TeacherController) HandleGetHomework(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	homework, err := tc.svc.HomeworkForTeacher(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, homework)
}

func (tc *TeacherController) HandleGetAnnouncements(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	announcements, err := tc.svc.AnnouncementsForTeacher(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, announcements)
}

func (tc *TeacherController) HandleGetQuizRosters(w http.ResponseWriter, r *http.Request) {
	id, ok := tc.authorizeSelf(w, r)
	if !ok {
		return
	}
	rosters, err := tc.svc.QuizRostersForTeacher(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, rosters)
}

func (tc *TeacherController) HandleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	if _, err := util.Authorize(tc.ts, school.RoleTeacher, w, r); err != nil {
		return
	}
	var req school.NewAssignment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	hw, err := tc.svc.CreateAssignment(r.Context(), req)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusCreated, hw)
}

// HandleRecordAttendance accepts a JSON array of attendance entries
// for one class session. The whole batch is validated before any
// entry is written.
func (tc *TeacherController) HandleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	if _, err := util.Authorize(tc.ts, school.RoleTeacher, w, r); err != nil {
		return
	}
	var entries []school.AttendanceEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := tc.svc.RecordAttendanceBatch(r.Context(), entries); err != nil {
		util.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (tc *TeacherController) HandleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	if _, err := util.Authorize(tc.ts, school.RoleTeacher, w, r); err != nil {
		return
	}
	var req school.NewQuiz
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	quiz, err := tc.svc.CreateQuiz(r.Context(), req)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusCreated, quiz)
}

func (tc *TeacherController) HandlePostAnnouncement(w http.ResponseWriter, r *http.Request) {
	if _, err := util.Authorize(tc.ts, school.RoleTeacher, w, r); err != nil {
		return
	}
	var req school.NewAnnouncement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := tc.svc.PostAnnouncement(r.Context(), req); err != nil {
		util.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type gradeRequest struct {
	Marks float64 `json:"marks"`
}

func (tc *TeacherController) HandleGradeSubmission(w http.ResponseWriter, r *http.Request) {
	if _, err := util.Authorize(tc.ts, school.RoleTeacher, w, r); err != nil {
		return
	}
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := tc.svc.GradeSubmission(r.Context(), chi.URLParam(r, "id"), req.Marks); err != nil {
		util.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
