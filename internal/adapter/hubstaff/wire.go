package hubstaff

// rawAuthToken mirrors the signin response.
type rawAuthToken struct {
	AuthToken string `json:"auth_token"`
}

type rawPagination struct {
	NextPageStartID int64 `json:"next_page_start_id"`
}

type rawOrganization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawOrganizationsPage struct {
	Organizations []rawOrganization `json:"organizations"`
	Pagination    *rawPagination    `json:"pagination"`
}

type rawUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	TimeZone  string `json:"time_zone"`
	Status    string `json:"status"`
}

type rawProject struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Billable bool   `json:"billable"`
}

type rawDailyActivity struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	UserID    int64  `json:"user_id"`
	ProjectID int64  `json:"project_id"`
	TaskID    *int64 `json:"task_id"`
	Tracked   int64  `json:"tracked"`
	Manual    int64  `json:"manual"`
	Billable  int64  `json:"billable"`
}

type rawDailyActivitiesPage struct {
	DailyActivities []rawDailyActivity `json:"daily_activities"`
	Users           []rawUser          `json:"users"`
	Projects        []rawProject       `json:"projects"`
	Pagination      *rawPagination     `json:"pagination"`
}
