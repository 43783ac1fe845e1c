package cli

import (
	"context"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/models"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/services"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
)

// Employees reloads and prints the roster. A failed load prints the banner
// above whatever roster was loaded before.
func (a *App) Employees(ctx context.Context) error {
	err := a.roster.Load(ctx)
	if banner := a.roster.Banner(); banner != "" {
		a.println(banner)
	}
	a.printUsers(a.roster.Employees())
	return err
}

// Search prints employees whose username contains the text.
func (a *App) Search(ctx context.Context, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	a.printUsers(a.roster.Search(query))
	return nil
}

// Filter prints the employees of a department, or everyone without one.
func (a *App) Filter(ctx context.Context, args []string) error {
	dept := models.DepartmentUnset
	if len(args) > 0 {
		d, err := models.ParseDepartment(args[0])
		if err != nil {
			return a.fail(common.InputError(err), services.MsgUpdateDepartment)
		}
		dept = d
	}
	a.printUsers(a.roster.ByDepartment(dept))
	return nil
}

// Dept moves an employee to a department: dept <id> <HR|Tech|Design>.
func (a *App) Dept(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: dept <employeeId> <HR|Tech|Design>")
		return nil
	}
	dept, err := models.ParseDepartment(args[1])
	if err != nil {
		return a.fail(common.InputError(err), services.MsgUpdateDepartment)
	}

	u, err := a.roster.UpdateDepartment(ctx, args[0], dept)
	if err != nil {
		return a.fail(err, services.MsgUpdateDepartment)
	}
	a.printf("%s is now in %s\n", u.Username, displayDepartment(u.Department))
	return nil
}

// Assign prompts for a task and assigns it: assign <employeeId>.
func (a *App) Assign(ctx context.Context, args []string) error {
	if len(args) < 1 {
		a.println("Usage: assign <employeeId>")
		return nil
	}
	employeeID := args[0]
	path, err := services.AssignTaskPath(employeeID)
	if err != nil {
		return a.fail(err, services.MsgAssignTaskFailed)
	}
	a.log.Debug(ctx, "navigate", "path", path)

	var draft models.TaskDraft
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Description", &draft.Description},
		{"Date (YYYY-MM-DD)", &draft.Date},
		{"Time (HH:MM)", &draft.Time},
		{"Address or map link (optional)", &draft.Address},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	task, err := a.roster.AssignTask(ctx, employeeID, draft)
	if err != nil {
		return a.fail(err, services.MsgAssignTaskFailed)
	}
	a.printf("Task %s assigned\n", task.ID)
	return nil
}
