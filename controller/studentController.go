package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"edudesk-backend/school"
	"edudesk-backend/token"
	"edudesk-backend/util"
)

// maxUploadSize caps homework file uploads at 32 MB.
const maxUploadSize = 32 << 20

type StudentController struct {
	svc *school.Service
	ts  *token.Storage
}

func NewStudentController(svc *school.Service, ts *token.Storage) *StudentController {
	return &StudentController{svc: svc, ts: ts}
}

func (sc *StudentController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	handleLogin(sc.svc, sc.ts, school.RoleStudent, w, r)
}

func (sc *StudentController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	handleLogout(sc.ts, school.RoleStudent, w, r)
}

func (sc *StudentController) authorizeSelf(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, err := util.Authorize(sc.ts, school.RoleStudent, w, r)
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

func (sc *StudentController) HandleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := sc.authorizeSelf(w, r)
	if !ok {
		return
	}
	student, err := sc.svc.StudentByID(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, student)
}

func (sc *StudentController) HandleGetCourses(w http.ResponseWriter, r *http.Request) {
	id, ok := sc.authorizeSelf(w, r)
	if !ok {
		return
	}
	courses, err := sc.svc.EnrolledCourses(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, courses)
}

func (sc *StudentController) HandleGetHomework(w http.ResponseWriter, r *http.Request) {
	id, ok := sc.authorizeSelf(w, r)
	if !ok {
		return
	}
	homework, err := sc.svc.HomeworkForStudent(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, homework)
}

func (sc *StudentController) HandleGetQuizzes(w http.ResponseWriter, r *http.Request) {
	id, ok := sc.authorizeSelf(w, r)
	if !ok {
		return
	}
	quizzes, err := sc.svc.QuizzesForStudent(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, quizzes)
}

func (sc *StudentController) HandleGetAnnouncements(w http.ResponseWriter, r *http.Request) {
	id, ok := sc.authorizeSelf(w, r)
	if !ok {
		return
	}
	announcements, err := sc.svc.AnnouncementsForStudent(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, announcements)
}

// HandleGetAttendance returns the per-course attendance buckets with
// percentages and the raw records.
func (sc *StudentController) HandleGetAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := sc.authorizeSelf(w, r)
	if !ok {
		return
	}
	buckets, err := sc.svc.AttendancePercentageByCourse(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, buckets)
}

func (sc *StudentController) HandleAttendanceAverage(w http.ResponseWriter, r *http.Request) {
	id, ok := sc.authorizeSelf(w, r)
	if !ok {
		return
	}
	avg, err := sc.svc.StudentAverageAttendance(r.Context(), id)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, averageResponse{Average: avg})
}

// HandleSubmitHomework takes a multipart form with a homeworkId field
// and the file itself. The student id comes from the token, never from
// the form.
func (sc *StudentController) HandleSubmitHomework(w http.ResponseWriter, r *http.Request) {
	accountID, err := util.Authorize(sc.ts, school.RoleStudent, w, r)
	if err != nil {
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	sub, err := sc.svc.SubmitHomework(r.Context(), school.HomeworkUpload{
		StudentId:   accountID,
		HomeworkId:  r.FormValue("homeworkId"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		File:        file,
	})
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusCreated, sub)
}

type quizSubmission struct {
	Answers [][]int `json:"answers"`
}

type quizResult struct {
	Score float64 `json:"score"`
}

func (sc *StudentController) HandleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	accountID, err := util.Authorize(sc.ts, school.RoleStudent, w, r)
	if err != nil {
		return
	}
	var req quizSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	score, err := sc.svc.SubmitQuiz(r.Context(), school.QuizAnswers{
		StudentId: accountID,
		QuizId:    chi.URLParam(r, "id"),
		Answers:   req.Answers,
	})
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteSuccessResponse(w, http.StatusOK, quizResult{Score: score})
}
