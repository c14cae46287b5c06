package models

// Topic is the secret subject of a session: a keyword and its broader category
type Topic struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
}
