package models

const (
	SearchSourceActive   = "active"
	SearchSourceArchived = "archived"
)

// SearchResult — транзакция, найденная поиском, с указанием источника:
// активный набор или архив.
type SearchResult struct {
	Source      string      `json:"source"`
	Transaction Transaction `json:"transaction"`
}
