package accounts

import (
	"errors"
	"regexp"
	"time"

	"github.com/rs/xid"
)

// RoleAuditor is the only role with access to the audit listing.
// The role set is otherwise open; roles are compared case-sensitively.
const RoleAuditor = "Auditor"

type ID string

type Account struct {
	ID           ID         `bson:"_id" json:"id"`
	Username     string     `bson:"username" json:"username"`
	PasswordHash string     `bson:"hash" json:"-"`
	FirstName    string     `bson:"firstName" json:"firstName"`
	LastName     string     `bson:"lastName" json:"lastName"`
	IPAddress    string     `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	Role         string     `bson:"role" json:"role"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	LoginTime    *time.Time `bson:"loginTime,omitempty" json:"loginTime,omitempty"`
	LogoutTime   *time.Time `bson:"logoutTime,omitempty" json:"logoutTime,omitempty"`
}

// Session is what a successful authentication hands back: the account
// minus its hash, last-seen IP and logout marker, plus a bearer token.
type Session struct {
	ID        ID         `json:"id"`
	Username  string     `json:"username"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	LoginTime *time.Time `json:"loginTime,omitempty"`
	Token     string     `json:"token"`
}

// AuditEntry is one row of the audit listing. Password hash and IP
// address are deliberately absent.
type AuditEntry struct {
	ID         ID         `bson:"_id" json:"id"`
	Username   string     `bson:"username" json:"username"`
	Role       string     `bson:"role" json:"role"`
	LoginTime  *time.Time `bson:"loginTime,omitempty" json:"loginTime,omitempty"`
	LogoutTime *time.Time `bson:"logoutTime,omitempty" json:"logoutTime,omitempty"`
}

// auditFields is the projection handed to the repository for the
// audit listing; everything else stays out of the result.
var auditFields = []string{"_id", "username", "role", "loginTime", "logoutTime"}

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrMissingName        = errors.New("first and last name are required")
	ErrMissingRole        = errors.New("role is required")
	ErrMissingPassword    = errors.New("password is required")
	ErrExistingUsername   = errors.New("username in use")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("insufficient privilege")
)

var usernameRegexp = regexp.MustCompile(`^\w{1,24}$`)

//NewAccount validates the required account fields and returns a new
// Account if the arguments are valid. The password hash and timestamps
// are set by the service, the ID by the repository.
func NewAccount(username, firstName, lastName, role string) (*Account, error) {
	if !usernameRegexp.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	if firstName == "" || lastName == "" {
		return nil, ErrMissingName
	}

	if role == "" {
		return nil, ErrMissingRole
	}

	return &Account{Username: username, FirstName: firstName, LastName: lastName, Role: role}, nil
}

func NewID() ID {
	return ID(xid.New().String())
}

func isValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}
