package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a single anonymous message embedded in a User document.
// Once embedded it never moves to another user.
type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// User is the identity aggregate: account credentials, the verification
// state machine, the message-acceptance flag, and the embedded inbox.
type User struct {
	ID                  primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username            string               `json:"username" bson:"username"`
	Email               string               `json:"email" bson:"email"`
	PasswordHash        string               `json:"-" bson:"password_hash"`
	VerifyCode          string               `json:"-" bson:"verify_code"`
	VerifyCodeExpiry    time.Time            `json:"-" bson:"verify_code_expiry"`
	IsVerified          bool                 `json:"is_verified" bson:"is_verified"`
	IsAcceptingMessages bool                 `json:"is_accepting_messages" bson:"is_accepting_messages"`
	Messages            []Message            `json:"messages" bson:"messages"`
	Products            []primitive.ObjectID `json:"products" bson:"products"`
	CreatedAt           time.Time            `json:"created_at" bson:"created_at"`
}

// CodeExpired reports whether the verification code is past its expiry.
func (u *User) CodeExpired(now time.Time) bool {
	return now.After(u.VerifyCodeExpiry)
}
