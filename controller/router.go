package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edudesk-backend/school"
	"edudesk-backend/token"
)

// NewRouter mounts every endpoint. Auth is checked inside the handlers
// against the token storage, so the router itself carries no auth
// middleware.
func NewRouter(svc *school.Service, ts *token.Storage) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	ac := NewAdminController(svc, ts)
	tc := NewTeacherController(svc, ts)
	sc := NewStudentController(svc, ts)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/admin", func(r chi.Router) {
		r.Post("/login", ac.HandleLogin)
		r.Post("/logout", ac.HandleLogout)
		r.Post("/courses", ac.HandleCreateCourses)
		r.Post("/teachers", ac.HandleCreateTeachers)
		r.Post("/students", ac.HandleCreateStudents)
	})

	router.Route("/teacher", func(r chi.Router) {
		r.Post("/login", tc.HandleLogin)
		r.Post("/logout", tc.HandleLogout)
		r.Post("/assignments", tc.HandleCreateAssignment)
		r.Post("/attendance", tc.HandleRecordAttendance)
		r.Post("/quizzes", tc.HandleCreateQuiz)
		r.Post("/announcements", tc.HandlePostAnnouncement)
		r.Post("/submissions/{id}/grade", tc.HandleGradeSubmission)
		r.Get("/{id}", tc.HandleGetTeacher)
		r.Get("/{id}/students", tc.HandleGetStudents)
		r.Get("/{id}/courses", tc.HandleGetCourses)
		r.Get("/{id}/attendance-average", tc.HandleAttendanceAverage)
		r.Get("/{id}/grade-average", tc.HandleGradeAverage)
		r.Get("/{id}/assignments", tc.HandleGetAssignments)
		r.Get("/{id}/homework", tc.HandleGetHomework)
		r.Get("/{id}/announcements", tc.HandleGetAnnouncements)
		r.Get("/{id}/quiz-rosters", tc.HandleGetQuizRosters)
	})

	router.Route("/student", func(r chi.Router) {
		r.Post("/login", sc.HandleLogin)
		r.Post("/logout", sc.HandleLogout)
		r.Post("/homework", sc.HandleSubmitHomework)
		r.Post("/quizzes/{id}/submit", sc.HandleSubmitQuiz)
		r.Get("/{id}", sc.HandleGetStudent)
		r.Get("/{id}/courses", sc.HandleGetCourses)
		r.Get("/{id}/homework", sc.HandleGetHomework)
		r.Get("/{id}/quizzes", sc.HandleGetQuizzes)
		r.Get("/{id}/announcements", sc.HandleGetAnnouncements)
		r.Get("/{id}/attendance", sc.HandleGetAttendance)
		r.Get("/{id}/attendance-average", sc.HandleAttendanceAverage)
	})

	return router
}
