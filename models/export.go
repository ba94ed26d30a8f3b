package models

import "time"

type Preferences struct {
	Currency string `json:"currency"`
	DarkMode bool   `json:"darkMode"`
}

// ExportData — полный снимок данных для выгрузки в JSON и обратной загрузки.
type ExportData struct {
	Assets       []Asset       `json:"assets"`
	Transactions []Transaction `json:"transactions"`
	Budgets      []Budget      `json:"budgets"`
	Preferences  Preferences   `json:"preferences"`
	ExportDate   time.Time     `json:"exportDate"`
}
