package accounts

import (
	"time"
)

type service struct {
	accounts Repository
	hasher   Hasher
	tokens   TokenIssuer
	events   Events
}

func NewService(accounts Repository, hasher Hasher, tokens TokenIssuer, events Events) Service {
	return &service{accounts: accounts, hasher: hasher, tokens: tokens, events: events}
}

// Authenticate does not distinguish an unknown username from a wrong
// password; both come back as ErrInvalidCredentials. A successful
// login also records the caller's IP and a login timestamp on the
// account so the audit listing can report them.
func (svc *service) Authenticate(req authenticateRequest) (*Session, error) {
	acc, err := svc.accounts.FindByName(req.Username)
	if err == ErrNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !svc.hasher.Verify(req.Password, acc.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	acc.IPAddress = req.IP
	acc.LoginTime = &now
	if err := svc.accounts.Update(acc); err != nil {
		return nil, err
	}

	token, err := svc.tokens.Issue(string(acc.ID))
	if err != nil {
		return nil, err
	}

	svc.events.AccountAuthenticated(string(acc.ID), acc.Username, req.IP)

	return &Session{
		ID:        acc.ID,
		Username:  acc.Username,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Role:      acc.Role,
		CreatedAt: acc.CreatedAt,
		LoginTime: acc.LoginTime,
		Token:     token,
	}, nil
}

// Logout stamps the logout time. It does not invalidate tokens issued
// earlier; those remain valid until their own expiry.
func (svc *service) Logout(username string) (*Account, error) {
	acc, err := svc.accounts.FindByName(username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acc.LogoutTime = &now
	if err := svc.accounts.Update(acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (svc *service) Accounts() ([]Account, error) {
	accs, err := svc.accounts.FindAll()
	if err != nil {
		return nil, err
	}

	for i := range accs {
		accs[i].PasswordHash = ""
	}
	return accs, nil
}

func (svc *service) AccountByID(id ID) (*Account, error) {
	acc, err := svc.accounts.FindByID(id)
	if err != nil {
		return nil, err
	}

	acc.PasswordHash = ""
	return acc, nil
}

func (svc *service) CreateAccount(req accountRequest) (ID, error) {
	acc, err := NewAccount(req.Username, req.FirstName, req.LastName, req.Role)
	if err != nil {
		return "", err
	}

	// An account with no hash could never authenticate, so an absent
	// password is rejected here rather than stored.
	if req.Password == "" {
		return "", ErrMissingPassword
	}

	if u, err := svc.accounts.FindByName(req.Username); u != nil && err == nil {
		return "", ErrExistingUsername
	}

	hash, err := svc.hasher.Hash(req.Password)
	if err != nil {
		return "", err
	}
	acc.PasswordHash = hash

	acc.CreatedAt = time.Now().UTC()
	if err := svc.accounts.Insert(acc); err != nil {
		return "", err
	}

	svc.events.AccountCreated(string(acc.ID), acc.Username, acc.Role)
	return acc.ID, nil
}

// UpdateAccount merges the supplied fields over the stored record;
// empty fields keep their stored values and CreatedAt is never
// touched. A username change re-checks uniqueness first.
func (svc *service) UpdateAccount(id ID, req accountRequest) error {
	acc, err := svc.accounts.FindByID(id)
	if err != nil {
		return err
	}

	if req.Username != "" && req.Username != acc.Username {
		if u, err := svc.accounts.FindByName(req.Username); u != nil && err == nil {
			return ErrExistingUsername
		}
		acc.Username = req.Username
	}

	if req.Password != "" {
		hash, err := svc.hasher.Hash(req.Password)
		if err != nil {
			return err
		}
		acc.PasswordHash = hash
	}

	if req.FirstName != "" {
		acc.FirstName = req.FirstName
	}
	if req.LastName != "" {
		acc.LastName = req.LastName
	}
	if req.Role != "" {
		acc.Role = req.Role
	}

	return svc.accounts.Update(acc)
}

// DeleteAccount is idempotent; deleting an absent id is not an error.
func (svc *service) DeleteAccount(id ID) error {
	return svc.accounts.Delete(id)
}

// Audit returns the identity and timestamp projection of every
// account. Only accounts whose role is exactly RoleAuditor may call
// it; there is no role hierarchy.
func (svc *service) Audit(requesterID ID) ([]AuditEntry, error) {
	requester, err := svc.accounts.FindByID(requesterID)
	if err != nil {
		return nil, err
	}

	if requester.Role != RoleAuditor {
		return nil, ErrForbidden
	}

	return svc.accounts.ProjectAll(auditFields)
}
