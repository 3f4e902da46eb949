package accounts

type Service interface {
	Authenticate(req authenticateRequest) (*Session, error)
	Logout(username string) (*Account, error)
	Accounts() ([]Account, error)
	AccountByID(id ID) (*Account, error)
	CreateAccount(req accountRequest) (ID, error)
	UpdateAccount(id ID, req accountRequest) error
	DeleteAccount(id ID) error
	Audit(requesterID ID) ([]AuditEntry, error)
}

type Events interface {
	AccountCreated(id string, username string, role string)
	AccountAuthenticated(id string, username string, ip string)
}

// Repository is the credential store. Insert assigns the account ID
// and the store enforces username uniqueness with a unique index; the
// service-level duplicate check is an early exit, not the source of
// truth.
type Repository interface {
	FindByID(id ID) (*Account, error)
	FindByName(username string) (*Account, error)
	FindAll() ([]Account, error)
	Insert(acc *Account) error
	Update(acc *Account) error
	Delete(id ID) error
	ProjectAll(fields []string) ([]AuditEntry, error)
}

// Hasher verifies and produces password hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer produces an opaque bearer token bound to a subject id.
// Verification is the transport's concern, not the issuer's.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IP       string `json:"-"`
}

// accountRequest carries caller-supplied fields for create and
// update. On update, empty fields keep their stored values.
type accountRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}
