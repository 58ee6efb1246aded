package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"edudesk-backend/school"
	"edudesk-backend/token"
	"edudesk-backend/util"
)

type AdminController struct {
	svc *school.Service
	ts  *token.Storage
}

func NewAdminController(svc *school.Service, ts *token.Storage) *AdminController {
	return &AdminController{svc: svc, ts: ts}
}

func (ac *AdminController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	handleLogin(ac.svc, ac.ts, school.RoleAdmin, w, r)
}

func (ac *AdminController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	handleLogout(ac.ts, school.RoleAdmin, w, r)
}

// HandleCreateCourses accepts a JSON array of courses and creates them
// in one batch.
func (ac *AdminController) HandleCreateCourses(w http.ResponseWriter, r *http.Request) {
	if _, err := util.Authorize(ac.ts, school.RoleAdmin, w, r); err != nil {
		return
	}
	var batch []school.NewCourse
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	courses, err := ac.svc.CreateCourses(r.Context(), batch)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	log.Println("HandleCreateCourses: created", len(courses), "courses")
	util.WriteSuccessResponse(w, http.StatusCreated, courses)
}

// HandleCreateTeachers creates a batch of teacher accounts and links
// each into its assigned courses. A bad entry anywhere rejects the
// whole batch.
func (ac *AdminController) HandleCreateTeachers(w http.ResponseWriter, r *http.Request) {
	if _, err := util.Authorize(ac.ts, school.RoleAdmin, w, r); err != nil {
		return
	}
	var batch []school.NewTeacher
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	teachers, err := ac.svc.CreateTeachers(r.Context(), batch)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	log.Println("HandleCreateTeachers: created", len(teachers), "teachers")
	util.WriteSuccessResponse(w, http.StatusCreated, teachers)
}

func (ac *AdminController) HandleCreateStudents(w http.ResponseWriter, r *http.Request) {
	if _, err := util.Authorize(ac.ts, school.RoleAdmin, w, r); err != nil {
		return
	}
	var batch []school.NewStudent
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	students, err := ac.svc.CreateStudents(r.Context(), batch)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	log.Println("HandleCreateStudents: created", len(students), "students")
	util.WriteSuccessResponse(w, http.StatusCreated, students)
}

type loginResponse struct {
	Id    string `json:"id"`
	Token string `json:"token"`
}

// handleLogin is shared by the three role controllers; only the
// collection checked differs.
func handleLogin(svc *school.Service, ts *token.Storage, role string, w http.ResponseWriter, r *http.Request) {
	var creds school.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id, err := svc.Authenticate(r.Context(), role, creds)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	tok := ts.GenerateToken()
	ts.AddToken(id, tok, role)
	util.WriteSuccessResponse(w, http.StatusOK, loginResponse{Id: id, Token: tok})
}

func handleLogout(ts *token.Storage, role string, w http.ResponseWriter, r *http.Request) {
	accountID, err := util.Authorize(ts, role, w, r)
	if err != nil {
		return
	}
	tok, err := util.BearerToken(r)
	if err != nil {
		util.WriteErrorResponse(w, http.StatusBadRequest, "missing bearer token")
		return
	}
	if err := ts.DeleteToken(accountID, tok); err != nil {
		util.WriteErrorResponse(w, http.StatusUnauthorized, "token is invalid")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
