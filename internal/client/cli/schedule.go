package cli

import (
	"context"
	"strings"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/services"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
)

// Schedule opens the task view of an employee: schedule <employeeId>.
// An auth failure closes the view again; it cannot recover without a login.
func (a *App) Schedule(ctx context.Context, args []string) error {
	if len(args) < 1 {
		a.println("Usage: schedule <employeeId>")
		return nil
	}
	path, err := services.SchedulePath(args[0])
	if err != nil {
		return a.fail(err, services.MsgFetchTasksFailed)
	}
	a.log.Debug(ctx, "navigate", "path", path)

	a.closeSchedule()
	s := services.NewSchedule(a.api, a.store, a.log, args[0])
	a.schedule = s

	if err := s.Load(ctx); err != nil {
		if common.IsKind(err, common.KindAuth) {
			a.closeSchedule()
		}
		return a.fail(err, services.MsgFetchTasksFailed)
	}
	a.printSchedule()
	return nil
}

// Refresh re-fetches the open schedule.
func (a *App) Refresh(ctx context.Context) error {
	if !a.requireSchedule() {
		return nil
	}
	if err := a.schedule.Refresh(ctx); err != nil {
		return a.fail(err, services.MsgRefreshTasksFailed)
	}
	a.printSchedule()
	return nil
}

// RemoveTask asks for confirmation before deleting a task.
func (a *App) RemoveTask(ctx context.Context, args []string) error {
	if !a.requireSchedule() {
		return nil
	}
	if len(args) < 1 {
		a.println("Usage: remove-task <taskId>")
		return nil
	}
	a.schedule.CancelRemoveUser()
	if err := a.schedule.InitiateRemoveTask(strings.TrimPrefix(args[0], "~")); err != nil {
		return a.fail(err, services.MsgRemoveTaskFailed)
	}
	a.printf("Remove task %s? Type yes or no\n", args[0])
	return nil
}

// RemoveUser asks for confirmation before deleting the open employee.
func (a *App) RemoveUser(ctx context.Context) error {
	if !a.requireSchedule() {
		return nil
	}
	a.schedule.CancelRemoveTask()
	if err := a.schedule.InitiateRemoveUser(); err != nil {
		return a.fail(err, services.MsgRemoveUserFailed)
	}
	a.printf("Remove user %s and all their tasks? Type yes or no\n", a.schedule.EmployeeID())
	return nil
}

// Confirm carries out the pending removal.
func (a *App) Confirm(ctx context.Context) error {
	if !a.requireSchedule() {
		return nil
	}
	s := a.schedule

	if employeeID, ok := s.PendingUserRemoval(); ok {
		if err := s.ConfirmRemoveUser(ctx); err != nil {
			return a.fail(err, services.MsgRemoveUserFailed)
		}
		a.printf("User %s removed\n", employeeID)
		a.schedule = nil
		return a.Employees(ctx)
	}

	taskID, ok := s.PendingTaskRemoval()
	if !ok {
		a.println("Nothing to confirm")
		return nil
	}
	if err := s.ConfirmRemoveTask(ctx); err != nil {
		return a.fail(err, services.MsgRemoveTaskFailed)
	}
	a.printf("Task %s removed\n", taskID)
	a.printSchedule()
	return nil
}

// Cancel drops the pending removal without contacting the server.
func (a *App) Cancel(ctx context.Context) error {
	if a.schedule == nil {
		return nil
	}
	a.schedule.CancelRemoveTask()
	a.schedule.CancelRemoveUser()
	a.println("Cancelled")
	return nil
}

// Logs prints one task of the open schedule: logs <taskId>.
func (a *App) Logs(ctx context.Context, args []string) error {
	if !a.requireSchedule() {
		return nil
	}
	if len(args) < 1 {
		a.println("Usage: logs <taskId>")
		return nil
	}
	task, ok := a.schedule.Task(args[0])
	if !ok {
		a.printf("Task %s not found\n", args[0])
		return nil
	}
	a.printTaskDetails(task)
	return nil
}

// Back leaves the schedule view.
func (a *App) Back(ctx context.Context) error {
	a.closeSchedule()
	return nil
}

func (a *App) closeSchedule() {
	if a.schedule != nil {
		a.schedule.Close()
		a.schedule = nil
	}
}

func (a *App) requireSchedule() bool {
	if a.schedule == nil || !a.schedule.Active() {
		a.schedule = nil
		a.println("Open a schedule first: schedule <employeeId>")
		return false
	}
	return true
}
