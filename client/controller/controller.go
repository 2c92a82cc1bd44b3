package controller

import (
	"context"

	"staffdesk/client/api"
	"staffdesk/client/codec"
	"staffdesk/client/query"
)

// UsersAPI is the backend surface the controllers depend on. *api.Client
// satisfies it; tests substitute fakes.
type UsersAPI interface {
	ListUsers(ctx context.Context, params query.Params) (*api.ListResult, error)
	GetUser(ctx context.Context, id string) (*codec.UserRecord, error)
	CreateUser(ctx context.Context, payload *codec.Payload) (*codec.UserRecord, error)
	UpdateUser(ctx context.Context, id string, payload *codec.Payload) (*codec.UserRecord, error)
	ListDepartments(ctx context.Context) ([]codec.Department, error)
}

// Notifier surfaces transient success and error messages to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards all messages.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}
