// models/user.go
package models

// Profile is the display information the booking API attaches to coaches and members.
// Profiles are owned by the account service; this service only reads them.
type Profile struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	FullName string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Role     Role   `bson:"role" json:"role"`
	TimeZone string `bson:"timeZone,omitempty" json:"timeZone,omitempty"`
}
