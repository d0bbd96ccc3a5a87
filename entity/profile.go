package entity

import "time"

// Profile is a user's saved birth data, reused to pre-fill workflows.
type Profile struct {
	ChatId     int64     `json:"chat_id" bson:"chat_id" validate:"required"`
	Name       string    `json:"name" bson:"name" validate:"required,cyrname"`
	BirthDate  string    `json:"birth_date" bson:"birth_date" validate:"required,birthdate"`
	BirthTime  string    `json:"birth_time" bson:"birth_time" validate:"required,birthtime"`
	BirthPlace string    `json:"birth_place" bson:"birth_place" validate:"required,cyrname"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}
