package auth

import "time"

// Account is an identity-store credential record.
type Account struct {
	UID       string    `json:"uid" bson:"uid"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// AdminEntry is a row in the admin registry, keyed by uid.
type AdminEntry struct {
	UID       string    `json:"uid" bson:"uid"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// SupervisorEntry is a row in the supervisor registry; Dept is always set.
type SupervisorEntry struct {
	UID       string    `json:"uid" bson:"uid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Dept      string    `json:"dept" bson:"dept"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Principal is an authenticated identity with its resolved role. Role is
// "admin", "supervisor" (with Dept set) or "" when the uid appears in neither
// registry. The empty role is access denied and stays that way until an
// operator grants a role out of band.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Dept  string `json:"dept,omitempty"`
}
