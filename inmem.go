package accounts

type accountRepository struct {
	accounts map[ID]*Account
}

// NewAccountRepository returns an in-memory Repository. Like the
// Mongo implementation it assigns ids on Insert and rejects duplicate
// usernames, so tests see the same contract the unique index gives.
func NewAccountRepository() Repository {
	return &accountRepository{accounts: map[ID]*Account{}}
}

func (repo *accountRepository) FindByID(id ID) (*Account, error) {
	if acc, ok := repo.accounts[id]; ok {
		c := *acc
		return &c, nil
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindByName(username string) (*Account, error) {
	for _, acc := range repo.accounts {
		if acc.Username == username {
			c := *acc
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *accountRepository) FindAll() ([]Account, error) {
	accs := make([]Account, 0, len(repo.accounts))
	for _, acc := range repo.accounts {
		accs = append(accs, *acc)
	}
	return accs, nil
}

func (repo *accountRepository) Insert(acc *Account) error {
	for _, existing := range repo.accounts {
		if existing.Username == acc.Username {
			return ErrExistingUsername
		}
	}

	if acc.ID == "" {
		acc.ID = NewID()
	}

	c := *acc
	repo.accounts[acc.ID] = &c
	return nil
}

func (repo *accountRepository) Update(acc *Account) error {
	if _, ok := repo.accounts[acc.ID]; !ok {
		return ErrNotFound
	}

	for _, existing := range repo.accounts {
		if existing.ID != acc.ID && existing.Username == acc.Username {
			return ErrExistingUsername
		}
	}

	c := *acc
	repo.accounts[acc.ID] = &c
	return nil
}

func (repo *accountRepository) Delete(id ID) error {
	delete(repo.accounts, id)
	return nil
}

func (repo *accountRepository) ProjectAll(fields []string) ([]AuditEntry, error) {
	entries := make([]AuditEntry, 0, len(repo.accounts))
	for _, acc := range repo.accounts {
		entries = append(entries, AuditEntry{
			ID:         acc.ID,
			Username:   acc.Username,
			Role:       acc.Role,
			LoginTime:  acc.LoginTime,
			LogoutTime: acc.LogoutTime,
		})
	}
	return entries, nil
}
