package models

import "time"

type Event struct {
	ID              string    `json:"id" dynamodbav:"id"`
	URL             string    `json:"url" dynamodbav:"url"`
	Category        string    `json:"category,omitempty" dynamodbav:"category,omitempty"`
	Format          string    `json:"format" dynamodbav:"format"`
	Name            string    `json:"name" dynamodbav:"name"`
	Description     string    `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Photo           string    `json:"photo,omitempty" dynamodbav:"photo,omitempty"`
	Banner          string    `json:"banner,omitempty" dynamodbav:"banner,omitempty"`
	Location        string    `json:"location,omitempty" dynamodbav:"location,omitempty"`
	Address         string    `json:"address,omitempty" dynamodbav:"address,omitempty"`
	Date            string    `json:"date" dynamodbav:"date"`
	StartTime       string    `json:"start_time" dynamodbav:"start_time"`
	MaxParticipants int       `json:"max_participants,omitempty" dynamodbav:"max_participants,omitempty"`
	Color           string    `json:"color,omitempty" dynamodbav:"color,omitempty"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
}

func (e *Event) GetPK() string {
	return "EVENT#" + e.ID
}

func (e *Event) GetSK() string {
	return "METADATA"
}
