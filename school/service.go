// Package school holds the business core: the relationship maintainer
// that keeps the denormalized cross-reference arrays consistent, and
// the aggregation engine that derives statistics from them. HTTP
// concerns stay out of this package.
package school

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"edudesk-backend/store"
	"edudesk-backend/upload"
)

type Service struct {
	store    store.Store
	files    upload.Storage
	validate *validator.Validate
}

// NewService wires the entity store and file storage. The validator is
// constructed once here and shared; nothing in this package reaches
// for ambient globals.
func NewService(st store.Store, files upload.Storage) *Service {
	return &Service{
		store:    st,
		files:    files,
		validate: validator.New(),
	}
}

// Roles issued at login and checked by the HTTP layer.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Authenticate checks credentials against the collection for role and
// returns the account id. Wrong email and wrong password are not
// distinguished.
func (s *Service) Authenticate(ctx context.Context, role string, creds Credentials) (string, error) {
	if err := s.validate.Struct(creds); err != nil {
		return "", InvalidArgument("email and password are required")
	}

	var id primitive.ObjectID
	var hashed string
	switch role {
	case RoleAdmin:
		admin, err := s.store.FindAdminByEmail(ctx, creds.Email)
		if err != nil {
			return "", loginErr(err)
		}
		id, hashed = admin.Id, admin.Password
	case RoleTeacher:
		teacher, err := s.store.FindTeacherByEmail(ctx, creds.Email)
		if err != nil {
			return "", loginErr(err)
		}
		id, hashed = teacher.Id, teacher.Password
	case RoleStudent:
		student, err := s.store.FindStudentByEmail(ctx, creds.Email)
		if err != nil {
			return "", loginErr(err)
		}
		id, hashed = student.Id, student.Password
	default:
		return "", InvalidArgument("unknown role %q", role)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(creds.Password)); err != nil {
		return "", Forbidden("invalid email or password")
	}
	return id.Hex(), nil
}

func loginErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return Forbidden("invalid email or password")
	}
	return DependencyFailure("looking up account", err)
}

// parseID converts an opaque hex id from a request into an ObjectID.
func parseID(field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, InvalidArgument("invalid %s %q", field, raw)
	}
	return id, nil
}

func parseIDs(field string, raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(field, r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func storeErr(msg string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return NotFound("%s: not found", msg)
	}
	return DependencyFailure(msg, err)
}
