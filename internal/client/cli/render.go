package cli

import (
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/services"
)

func displayDepartment(d models.Department) string {
	if d == models.DepartmentUnset {
		return "No department"
	}
	return string(d)
}

func (a *App) printUsers(users []*models.User) {
	if len(users) == 0 {
		a.println("No employees")
		return
	}
	for _, u := range users {
		if u == nil {
			continue
		}
		id := u.ID
		if !u.HasIdentity() {
			id = "-"
		}
		a.printf("%s  %s  %s", id, u.Username, displayDepartment(u.Department))
		if u.HasDocument() {
			kind := "document"
			if u.HasImageDocument() {
				kind = "image"
			}
			a.printf("  %s: %s", kind, u.DocumentURL(a.config.APIBaseURL))
		}
		a.println()
	}
}

func (a *App) printSchedule() {
	if a.schedule == nil {
		return
	}
	upcoming, completed := a.schedule.Rows()
	a.printf("Upcoming tasks (%d)\n", len(upcoming))
	a.printRows(upcoming)
	a.printf("Completed tasks (%d)\n", len(completed))
	a.printRows(completed)
}

func (a *App) printRows(rows []services.TaskRow) {
	for _, r := range rows {
		id := r.Key
		if !r.CanRemove {
			id = "~" + r.Key
		}
		t := r.Task
		a.printf("  %s  %s  %s %s\n", id, t.DisplayDescription(), t.DisplayDate(), t.DisplayTime())
	}
}

func (a *App) printTaskDetails(t models.Task) {
	a.printf("Task:        %s\n", t.ID)
	a.printf("Description: %s\n", t.DisplayDescription())
	a.printf("Date:        %s\n", t.DisplayDate())
	a.printf("Time:        %s\n", t.DisplayTime())
	switch {
	case t.Address == "":
	case t.IsMapLink():
		a.printf("Location:    %s\n", t.Address)
	default:
		a.printf("Address:     %s\n", t.Address)
	}
	status := t.Status
	if status == "" {
		status = "pending"
	}
	a.printf("Status:      %s\n", status)
}
