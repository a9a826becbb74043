// Package models contains data structures for the application's domain models.
package models

import "time"

// Location is a best-effort geolocation snapshot taken at submission time.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Region  string `json:"region"`
}

// UnknownLocation is the fallback used when geolocation fails.
var UnknownLocation = Location{Country: "Unknown", City: "Unknown", Region: "Unknown"}

// Vote is one answered question from one submission. An IP resubmitting
// replaces all of its rows; rows are never updated in place.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"not null;index:idx_votes_question_ip" json:"question"`
	Option    string    `gorm:"not null" json:"option"`
	IP        string    `gorm:"not null;index:idx_votes_question_ip;index" json:"-"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Region    string    `json:"region"`
	UserAgent string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats is the derived aggregate over all Vote rows: a count per allowed
// option per question, plus the number of distinct voting IPs. It is
// recomputed on demand and never stored.
type Stats struct {
	Questions   map[string]map[string]int64 `json:"stats"`
	TotalVoters int64                       `json:"totalVoters"`
}
