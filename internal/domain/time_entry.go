package domain

import "time"

// Credentials identify the account used against the Hubstaff API.
type Credentials struct {
	BaseURL  string
	Email    string
	Password string
	AppToken string
}

// Organization is a Hubstaff organization visible to the account.
type Organization struct {
	ID   int64
	Name string
}

// User is a member whose time is tracked.
type User struct {
	ID        int64
	Name      string
	FirstName string
	LastName  string
	Email     string
	TimeZone  string
	Status    string
}

// Project is a Hubstaff project.
type Project struct {
	ID       int64
	Name     string
	Status   string
	Billable bool
}

// TimeEntry is one daily activity record: time a user tracked on a project on a given day.
type TimeEntry struct {
	ID          int64
	Date        string
	UserID      int64
	ProjectID   int64
	TaskID      *int64
	TrackedSec  int64
	ManualSec   int64
	BillableSec int64
}

// Duration returns the tracked time of the entry.
func (e TimeEntry) Duration() time.Duration {
	return time.Duration(e.TrackedSec) * time.Second
}

// DailyActivities is everything fetched for one organization over a date range.
type DailyActivities struct {
	Entries  []TimeEntry
	Users    []User
	Projects []Project
}
