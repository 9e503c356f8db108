package domain

import (
	"fmt"
	"sort"
	"time"
)

// Summary is the project x user cross table of tracked time for one organization.
// Cells[i] of a row lines up with Users[i].
type Summary struct {
	Organization Organization
	Users        []string
	Rows         []SummaryRow
	UserTotals   []time.Duration
	Total        time.Duration
}

// SummaryRow holds one project's tracked time per user.
type SummaryRow struct {
	Project string
	Cells   []time.Duration
	Total   time.Duration
}

// Empty reports whether no time was tracked in the organization.
func (s Summary) Empty() bool { return s.Total == 0 }

// Summarize accumulates activities into a cross table. Every user and project named in
// the response gets a column or row, even with no tracked time. Activities pointing at
// ids missing from the response are kept under a placeholder name. Distinct ids that
// share a name are labelled "name (#id)" so they keep separate columns or rows.
func Summarize(org Organization, acts DailyActivities) Summary {
	userNames := make(map[int64]string, len(acts.Users))
	for _, u := range acts.Users {
		userNames[u.ID] = u.Name
	}
	disambiguate(userNames)
	projectNames := make(map[int64]string, len(acts.Projects))
	for _, p := range acts.Projects {
		projectNames[p.ID] = p.Name
	}
	disambiguate(projectNames)

	// project -> user -> tracked
	table := make(map[string]map[string]time.Duration)
	users := make(map[string]struct{})
	for _, name := range userNames {
		users[name] = struct{}{}
	}
	for _, name := range projectNames {
		table[name] = make(map[string]time.Duration)
	}

	for _, e := range acts.Entries {
		user, ok := userNames[e.UserID]
		if !ok {
			user = fmt.Sprintf("Unknown user #%d", e.UserID)
		}
		project, ok := projectNames[e.ProjectID]
		if !ok {
			project = fmt.Sprintf("Unknown project #%d", e.ProjectID)
		}
		users[user] = struct{}{}
		row, ok := table[project]
		if !ok {
			row = make(map[string]time.Duration)
			table[project] = row
		}
		row[user] += e.Duration()
	}

	s := Summary{Organization: org}
	for name := range users {
		s.Users = append(s.Users, name)
	}
	sort.Strings(s.Users)
	s.UserTotals = make([]time.Duration, len(s.Users))

	projects := make([]string, 0, len(table))
	for name := range table {
		projects = append(projects, name)
	}
	sort.Strings(projects)

	for _, project := range projects {
		row := SummaryRow{Project: project, Cells: make([]time.Duration, len(s.Users))}
		for i, user := range s.Users {
			d := table[project][user]
			row.Cells[i] = d
			row.Total += d
			s.UserTotals[i] += d
		}
		s.Total += row.Total
		s.Rows = append(s.Rows, row)
	}
	return s
}

func disambiguate(names map[int64]string) {
	count := make(map[string]int, len(names))
	for _, name := range names {
		count[name]++
	}
	for id, name := range names {
		if count[name] > 1 {
			names[id] = fmt.Sprintf("%s (#%d)", name, id)
		}
	}
}

// Report is the content of one rendered document.
type Report struct {
	Range         DateRange
	Organizations []Summary
}

// Total is the tracked time across all organizations.
func (r Report) Total() time.Duration {
	var total time.Duration
	for _, s := range r.Organizations {
		total += s.Total
	}
	return total
}

// Empty reports whether the report has no tracked time at all.
func (r Report) Empty() bool { return r.Total() == 0 }
