package models

// ReportRow is one denormalized movement line in a client statement.
// InitialBalance is the account balance before the movement was applied;
// Movement carries the signed effect.
type ReportRow struct {
	Date             string `json:"date"`
	Client           string `json:"client"`
	AccountNumber    string `json:"accountNumber"`
	AccountType      string `json:"accountType"`
	InitialBalance   string `json:"initialBalance"`
	Active           bool   `json:"active"`
	Movement         string `json:"movement"`
	AvailableBalance string `json:"availableBalance"`
}
