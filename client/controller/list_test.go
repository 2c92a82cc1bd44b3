package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/client/api"
	"staffdesk/client/codec"
	"staffdesk/client/query"
)

type fakeAPI struct {
	listUsers   func(ctx context.Context, params query.Params) (*api.ListResult, error)
	getUser     func(ctx context.Context, id string) (*codec.UserRecord, error)
	createUser  func(ctx context.Context, payload *codec.Payload) (*codec.UserRecord, error)
	updateUser  func(ctx context.Context, id string, payload *codec.Payload) (*codec.UserRecord, error)
	departments []codec.Department
	deptErr     error

	listCalls []query.Params
}

func (f *fakeAPI) ListUsers(ctx context.Context, params query.Params) (*api.ListResult, error) {
	f.listCalls = append(f.listCalls, params)
	return f.listUsers(ctx, params)
}

func (f *fakeAPI) GetUser(ctx context.Context, id string) (*codec.UserRecord, error) {
	return f.getUser(ctx, id)
}

func (f *fakeAPI) CreateUser(ctx context.Context, payload *codec.Payload) (*codec.UserRecord, error) {
	return f.createUser(ctx, payload)
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id string, payload *codec.Payload) (*codec.UserRecord, error) {
	return f.updateUser(ctx, id, payload)
}

func (f *fakeAPI) ListDepartments(ctx context.Context) ([]codec.Department, error) {
	return f.departments, f.deptErr
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *recordingNotifier) Error(message string)   { n.errors = append(n.errors, message) }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func listResult(ids ...string) *api.ListResult {
	result := &api.ListResult{TotalUsers: len(ids)}
	for _, id := range ids {
		result.Users = append(result.Users, codec.UserRecord{
			ID:        id,
			FirstName: "User",
			LastName:  id,
		})
	}
	return result
}

func TestMountFetchesFirstPage(t *testing.T) {
	backend := &fakeAPI{
		departments: []codec.Department{{ID: "d1", Name: "Engineering"}},
		listUsers: func(ctx context.Context, params query.Params) (*api.ListResult, error) {
			return listResult("u1", "u2"), nil
		},
	}

	list := NewListController(backend, testLogger(), NopNotifier{})
	require.NoError(t, list.Mount(context.Background()))

	assert.Equal(t, 1, list.Page())
	assert.Equal(t, 2, list.Total())
	assert.Len(t, list.Users(), 2)
	assert.Len(t, list.Departments(), 1)

	require.Len(t, backend.listCalls, 1)
	assert.Equal(t, 1, backend.listCalls[0].Page)
	assert.Equal(t, DefaultPageSize, backend.listCalls[0].Limit)
}

func TestMountSurvivesDepartmentFailure(t *testing.T) {
	backend := &fakeAPI{
		deptErr: errors.New("redis down"),
		listUsers: func(ctx context.Context, params query.Params) (*api.ListResult, error) {
			return listResult("u1"), nil
		},
	}

	list := NewListController(backend, testLogger(), NopNotifier{})
	require.NoError(t, list.Mount(context.Background()))

	assert.Len(t, list.Users(), 1)
	assert.Empty(t, list.Departments())

	rows := list.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "N/A", rows[0].Department)
}

func TestApplyFiltersResetsPage(t *testing.T) {
	backend := &fakeAPI{
		listUsers: func(ctx context.Context, params query.Params) (*api.ListResult, error) {
			return listResult("u1"), nil
		},
	}

	list := NewListController(backend, testLogger(), NopNotifier{})
	ctx := context.Background()
	require.NoError(t, list.Mount(ctx))
	require.NoError(t, list.SetPage(ctx, 3))
	require.Equal(t, 3, list.Page())

	require.NoError(t, list.ApplyFilters(ctx, query.FilterState{Name: "ravi"}))

	assert.Equal(t, 1, list.Page())
	last := backend.listCalls[len(backend.listCalls)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, "ravi", last.Filters.Name)
}

func TestSetPageClampsBelowOne(t *testing.T) {
	backend := &fakeAPI{
		listUsers: func(ctx context.Context, params query.Params) (*api.ListResult, error) {
			return listResult(), nil
		},
	}

	list := NewListController(backend, testLogger(), NopNotifier{})
	require.NoError(t, list.SetPage(context.Background(), 0))
	assert.Equal(t, 1, list.Page())
}

func TestFetchFailureKeepsPreviousRecords(t *testing.T) {
	failing := false
	backend := &fakeAPI{
		listUsers: func(ctx context.Context, params query.Params) (*api.ListResult, error) {
			if failing {
				return nil, errors.New("connection refused")
			}
			return listResult("u1", "u2"), nil
		},
	}

	notifier := &recordingNotifier{}
	list := NewListController(backend, testLogger(), notifier)
	ctx := context.Background()
	require.NoError(t, list.Mount(ctx))

	failing = true
	err := list.SetPage(ctx, 2)
	require.Error(t, err)

	assert.Len(t, list.Users(), 2, "previous records stay on screen")
	assert.Equal(t, []string{"Failed to fetch users"}, notifier.errors)
}

func TestStaleResponseDiscarded(t *testing.T) {
	var list *ListController
	reentered := false

	backend := &fakeAPI{}
	backend.listUsers = func(ctx context.Context, params query.Params) (*api.ListResult, error) {
		// While the first page is in flight the user moves to page 2. The
		// nested fetch settles first; the outer page-1 result arrives late
		// and stale.
		if params.Page == 1 && !reentered {
			reentered = true
			require.NoError(t, list.SetPage(ctx, 2))
			return listResult("stale-a", "stale-b", "stale-c"), nil
		}
		return listResult("fresh"), nil
	}

	list = NewListController(backend, testLogger(), NopNotifier{})
	require.NoError(t, list.Refresh(context.Background()))

	users := list.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "fresh", users[0].ID)
	assert.Equal(t, 1, list.Total())
	assert.Equal(t, 2, list.Page())
	assert.False(t, list.Loading())
}

func TestRemoveLocal(t *testing.T) {
	backend := &fakeAPI{
		listUsers: func(ctx context.Context, params query.Params) (*api.ListResult, error) {
			return listResult("u1", "u2", "u3"), nil
		},
	}

	notifier := &recordingNotifier{}
	list := NewListController(backend, testLogger(), notifier)
	require.NoError(t, list.Mount(context.Background()))

	calls := len(backend.listCalls)
	assert.True(t, list.RemoveLocal("u2"))

	assert.Len(t, list.Users(), 2)
	assert.Equal(t, []string{"User removed from list"}, notifier.successes)
	assert.Len(t, backend.listCalls, calls, "no server round trip on remove")

	assert.False(t, list.RemoveLocal("missing"))
	assert.Len(t, notifier.successes, 1)
}

func TestRowsDerivation(t *testing.T) {
	backend := &fakeAPI{
		listUsers: func(ctx context.Context, params query.Params) (*api.ListResult, error) {
			return &api.ListResult{
				Users: []codec.UserRecord{
					{
						ID:          "u1",
						FirstName:   "Ravi",
						LastName:    "Sharma",
						Phone:       "9876543210",
						Email:       "ravi@example.com",
						Role:        "developer",
						IsActive:    true,
						JoiningDate: "2023-04-17",
						Department:  &codec.Department{ID: "d1", Name: "Engineering"},
					},
					{
						ID:        "u2",
						FirstName: "Priya",
						LastName:  "Patel",
					},
				},
				TotalUsers: 2,
			}, nil
		},
	}

	list := NewListController(backend, testLogger(), NopNotifier{})
	require.NoError(t, list.Mount(context.Background()))

	rows := list.Rows()
	require.Len(t, rows, 2)

	assert.Equal(t, "Ravi Sharma", rows[0].Name)
	assert.Equal(t, "Engineering", rows[0].Department)
	assert.Equal(t, "Active", rows[0].Status)

	assert.Equal(t, "Priya Patel", rows[1].Name)
	assert.Equal(t, "N/A", rows[1].Department)
	assert.Equal(t, "Inactive", rows[1].Status)
}
