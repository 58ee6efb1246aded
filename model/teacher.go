package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type Teacher struct {
	Id              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name"`
	Email           string               `json:"email" bson:"email"`
	Password        string               `json:"-" bson:"password"`
	AssignedCourses []primitive.ObjectID `json:"assignedCourses" bson:"assignedCourses"`
}
