package models

import (
	"time"
)

type User struct {
	ID             string    `json:"id" dynamodbav:"id"`
	Name           string    `json:"name" dynamodbav:"name"`
	Surname        string    `json:"surname,omitempty" dynamodbav:"surname,omitempty"`
	Email          string    `json:"email" dynamodbav:"email"`
	PasswordHash   string    `json:"-" dynamodbav:"password_hash"`
	IsSpbsuStudent bool      `json:"is_spbsu_student" dynamodbav:"is_spbsu_student"`
	University     string    `json:"university,omitempty" dynamodbav:"university,omitempty"`
	Faculty        string    `json:"faculty,omitempty" dynamodbav:"faculty,omitempty"`
	Speciality     string    `json:"speciality,omitempty" dynamodbav:"speciality,omitempty"`
	Course         int       `json:"course,omitempty" dynamodbav:"course,omitempty"`
	Photo          string    `json:"photo,omitempty" dynamodbav:"photo,omitempty"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
}

func (u *User) GetPK() string {
	return "USER#" + u.ID
}

func (u *User) GetSK() string {
	return "METADATA"
}
