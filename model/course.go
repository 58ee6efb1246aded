package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Course struct {
	Id            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name          string               `json:"name" bson:"name"`
	Teachers      []primitive.ObjectID `json:"teachers" bson:"teachers"`
	Students      []primitive.ObjectID `json:"students" bson:"students"`
	Announcements []Announcement       `json:"announcements" bson:"announcements"`
	Homework      []primitive.ObjectID `json:"homework" bson:"homework"`
	Quizzes       []primitive.ObjectID `json:"quizzes" bson:"quizzes"`
}

type Announcement struct {
	Date    time.Time `json:"date" bson:"date"`
	Content string    `json:"content" bson:"content"`
}
