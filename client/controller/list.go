package controller

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"staffdesk/client/codec"
	"staffdesk/client/query"
)

// DefaultPageSize is the fixed page size of the list screen.
const DefaultPageSize = 10

// snapshot tags a fetch with the filter/pagination state it was initiated
// under. A resolved fetch is applied only while its snapshot is still
// current, so a late stale response can never overwrite a newer one.
type snapshot struct {
	page    int
	filters query.FilterState
}

// Row is a rendered list line with the derived display fields.
type Row struct {
	ID          string
	Name        string
	Mobile      string
	Email       string
	Role        string
	Department  string
	JoiningDate string
	Status      string
	CreatedAt   string
}

// ListController owns the list screen's state: records, reference data,
// pagination, filters and the loading flag.
type ListController struct {
	api      UsersAPI
	log      *logrus.Logger
	notifier Notifier

	mu          sync.Mutex
	users       []codec.UserRecord
	departments []codec.Department
	page        int
	pageSize    int
	total       int
	filters     query.FilterState
	inflight    int
}

// NewListController creates a list controller starting on page 1 with no
// active filters.
func NewListController(usersAPI UsersAPI, log *logrus.Logger, notifier Notifier) *ListController {
	return &ListController{
		api:      usersAPI,
		log:      log,
		notifier: notifier,
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// Mount loads the department reference list once, then fetches the first
// page of users.
func (c *ListController) Mount(ctx context.Context) error {
	departments, err := c.api.ListDepartments(ctx)
	if err != nil {
		// Department names degrade to "N/A"; the list itself still loads.
		c.log.WithError(err).Error("failed to fetch departments")
	} else {
		c.mu.Lock()
		c.departments = departments
		c.mu.Unlock()
	}

	return c.fetchUsers(ctx)
}

// ApplyFilters replaces the filter state, resets pagination to page 1 and
// refetches.
func (c *ListController) ApplyFilters(ctx context.Context, filters query.FilterState) error {
	c.mu.Lock()
	c.filters = filters
	c.page = 1
	c.mu.Unlock()

	return c.fetchUsers(ctx)
}

// SetPage moves to the given page and refetches with filters unchanged.
func (c *ListController) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.page = page
	c.mu.Unlock()

	return c.fetchUsers(ctx)
}

// Refresh refetches the current page with the current filters.
func (c *ListController) Refresh(ctx context.Context) error {
	return c.fetchUsers(ctx)
}

func (c *ListController) fetchUsers(ctx context.Context) error {
	c.mu.Lock()
	snap := snapshot{page: c.page, filters: c.filters}
	params := query.Params{Page: snap.page, Limit: c.pageSize, Filters: snap.filters}
	c.inflight++
	c.mu.Unlock()

	result, err := c.api.ListUsers(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	current := snapshot{page: c.page, filters: c.filters}
	if current != snap {
		// Superseded while in flight; a fresher fetch owns the state now.
		c.log.WithField("page", snap.page).Debug("discarding stale list response")
		return nil
	}

	if err != nil {
		// Keep the previous records on screen.
		c.log.WithError(err).Error("failed to fetch users")
		c.notifier.Error("Failed to fetch users")
		return err
	}

	c.users = result.Users
	c.total = result.TotalUsers
	return nil
}

// RemoveLocal drops a row from the in-memory list. This is a client-side
// only effect: no delete endpoint exists and the server copy is untouched.
func (c *ListController) RemoveLocal(id string) bool {
	c.mu.Lock()
	removed := false
	kept := c.users[:0]
	for _, user := range c.users {
		if user.ID == id {
			removed = true
			continue
		}
		kept = append(kept, user)
	}
	c.users = kept
	c.mu.Unlock()

	if removed {
		c.notifier.Success("User removed from list")
	}
	return removed
}

// Rows renders the current records with the derived display fields.
func (c *ListController) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := make([]Row, 0, len(c.users))
	for _, user := range c.users {
		department := "N/A"
		if user.Department != nil {
			department = user.Department.Name
		}

		status := "Inactive"
		if user.IsActive {
			status = "Active"
		}

		rows = append(rows, Row{
			ID:          user.ID,
			Name:        user.FirstName + " " + user.LastName,
			Mobile:      user.Phone,
			Email:       user.Email,
			Role:        user.Role,
			Department:  department,
			JoiningDate: user.JoiningDate,
			Status:      status,
			CreatedAt:   user.CreatedAt,
		})
	}
	return rows
}

// Users returns the current raw records.
func (c *ListController) Users() []codec.UserRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]codec.UserRecord(nil), c.users...)
}

// Departments returns the reference list fetched at mount.
func (c *ListController) Departments() []codec.Department {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]codec.Department(nil), c.departments...)
}

// Loading reports whether any fetch is still in flight.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Page returns the current 1-based page.
func (c *ListController) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Total returns the server-reported total record count.
func (c *ListController) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Filters returns the active filter state.
func (c *ListController) Filters() query.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}
