package domain

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is the star rating of a review. It is a closed string set; the
// values were never numeric in the stored documents and stay that way.
type Rating string

const (
	RatingOne   Rating = "1"
	RatingTwo   Rating = "2"
	RatingThree Rating = "3"
	RatingFour  Rating = "4"
	RatingFive  Rating = "5"
)

// Valid reports whether r is one of the five allowed values.
func (r Rating) Valid() bool {
	switch r {
	case RatingOne, RatingTwo, RatingThree, RatingFour, RatingFive:
		return true
	}
	return false
}

// imageURLPattern matches http(s) URLs pointing at an image file.
var imageURLPattern = regexp.MustCompile(`^https?://.+\.(jpg|jpeg|png|gif|webp)$`)

// ValidImageURL reports whether s is an acceptable product image URL.
// The empty string is not valid here; callers normalize "" to absent first.
func ValidImageURL(s string) bool {
	return imageURLPattern.MatchString(s)
}

// usernamePattern matches the public profile handle format.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{2,20}$`)

// ValidUsername reports whether s is an acceptable username.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// Review is a single anonymous star-rated review embedded in a Product
// document. Reviews are never edited or individually deleted.
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Rating    Rating             `json:"rating" bson:"rating"`
	Product   primitive.ObjectID `json:"product" bson:"product"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Product is owned by exactly one user and carries its reviews embedded.
// Image is empty when no image was supplied (normalized from "").
type Product struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title              string             `json:"title" bson:"title"`
	Description        string             `json:"description" bson:"description"`
	Price              *float64           `json:"price,omitempty" bson:"price,omitempty"`
	Image              string             `json:"image,omitempty" bson:"image,omitempty"`
	User               primitive.ObjectID `json:"user" bson:"user"`
	IsAcceptingReviews bool               `json:"is_accepting_reviews" bson:"is_accepting_reviews"`
	Reviews            []Review           `json:"reviews" bson:"reviews"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
}
