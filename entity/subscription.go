package entity

import "time"

// Subscription is a daily-horoscope subscription for one chat.
type Subscription struct {
	ChatId    int64     `json:"chat_id" bson:"chat_id" validate:"required"`
	Zodiac    string    `json:"zodiac" bson:"zodiac" validate:"required,zodiac"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
