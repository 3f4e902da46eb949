package accounts

func duplicateAccount(repo Repository, acc Account, username string) *Account {
	acc.ID = ""
	acc.Username = username
	_ = repo.Insert(&acc)

	return &acc
}
