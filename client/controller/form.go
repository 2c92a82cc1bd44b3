package controller

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"staffdesk/client/api"
	"staffdesk/client/codec"
)

// State is the form lifecycle. NotFound is terminal: the edit target does
// not exist and the form never renders editable fields.
type State int

const (
	StateEmpty State = iota
	StatePopulated
	StateSubmitting
	StateSucceeded
	StateFailed
	StateNotFound
)

const (
	maxResumeSize  = 5 * 1024 * 1024
	maxPictureSize = 2 * 1024 * 1024
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

	pictureTypes = map[string]bool{
		"image/png":  true,
		"image/jpg":  true,
		"image/jpeg": true,
	}
)

// ValidationError reports field-scoped advisory rule violations. It is
// resolved locally and never reaches the network layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// FormController owns the create/edit form lifecycle.
type FormController struct {
	api      UsersAPI
	codec    *codec.Codec
	log      *logrus.Logger
	notifier Notifier
	onDone   func()

	mu          sync.Mutex
	state       State
	recordID    string
	model       codec.FormModel
	departments []codec.Department
	fieldErrors map[string]string
}

// NewFormController creates a form controller in create mode. onDone is
// invoked once after a successful submit; it may be nil.
func NewFormController(usersAPI UsersAPI, cdc *codec.Codec, log *logrus.Logger, notifier Notifier, onDone func()) *FormController {
	return &FormController{
		api:      usersAPI,
		codec:    cdc,
		log:      log,
		notifier: notifier,
		onDone:   onDone,
		model:    codec.FormModel{Tags: []string{}},
	}
}

// Mount loads the department reference list for the select options.
func (c *FormController) Mount(ctx context.Context) error {
	departments, err := c.api.ListDepartments(ctx)
	if err != nil {
		c.log.WithError(err).Error("failed to fetch departments")
		return err
	}

	c.mu.Lock()
	c.departments = departments
	c.mu.Unlock()
	return nil
}

// Load switches to edit mode: it fetches the record and populates every
// bound field in one atomic update. A 404 puts the form into the terminal
// NotFound state.
func (c *FormController) Load(ctx context.Context, id string) error {
	record, err := c.api.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			c.mu.Lock()
			c.state = StateNotFound
			c.mu.Unlock()
		}
		c.log.WithError(err).WithField("id", id).Error("failed to fetch user")
		return err
	}

	model, err := c.codec.Decode(record)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.recordID = id
	c.model = model
	c.state = StatePopulated
	c.mu.Unlock()
	return nil
}

// SetModel replaces the form's bound values. Attachments should be added
// through AttachResume and AttachProfilePicture so selection-time checks
// apply.
func (c *FormController) SetModel(model codec.FormModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if model.Tags == nil {
		model.Tags = []string{}
	}
	c.model = model
}

// AttachResume validates and attaches a resume file. Invalid files are
// rejected with a user-visible message and never enter the model.
func (c *FormController) AttachResume(name, contentType string, data []byte) error {
	if contentType != "application/pdf" {
		c.notifier.Error("Only PDF files are allowed")
		return fmt.Errorf("unsupported resume type: %s", contentType)
	}
	if len(data) > maxResumeSize {
		c.notifier.Error("PDF file must be smaller than 5MB")
		return fmt.Errorf("resume too large: %d bytes", len(data))
	}

	c.mu.Lock()
	c.model.Resume = codec.NewPendingAttachment(name, contentType, data)
	c.mu.Unlock()
	return nil
}

// AttachProfilePicture validates and attaches a profile picture.
func (c *FormController) AttachProfilePicture(name, contentType string, data []byte) error {
	if !pictureTypes[contentType] {
		c.notifier.Error("Only PNG, JPG, JPEG files are allowed")
		return fmt.Errorf("unsupported picture type: %s", contentType)
	}
	if len(data) > maxPictureSize {
		c.notifier.Error("Image file must be smaller than 2MB")
		return fmt.Errorf("picture too large: %d bytes", len(data))
	}

	c.mu.Lock()
	c.model.ProfilePicture = codec.NewPendingAttachment(name, contentType, data)
	c.mu.Unlock()
	return nil
}

// Validate evaluates the advisory per-field rules and returns the messages
// keyed by field name. An empty map means the form may be submitted.
func (c *FormController) Validate() map[string]string {
	c.mu.Lock()
	model := c.model
	c.mu.Unlock()

	fieldErrors := map[string]string{}

	if strings.TrimSpace(model.FirstName) == "" {
		fieldErrors["firstName"] = "First name is required"
	}
	if strings.TrimSpace(model.LastName) == "" {
		fieldErrors["lastName"] = "Last name is required"
	}

	if model.Email == "" {
		fieldErrors["email"] = "Email is required"
	} else if !emailPattern.MatchString(model.Email) {
		fieldErrors["email"] = "Please enter a valid email"
	}

	switch strings.ToLower(model.Gender) {
	case "male", "female", "other":
	case "":
		fieldErrors["gender"] = "Gender is required"
	default:
		fieldErrors["gender"] = "Gender must be male, female or other"
	}

	if model.Mobile == "" {
		fieldErrors["mobile"] = "Mobile number is required"
	} else if !mobilePattern.MatchString(model.Mobile) {
		fieldErrors["mobile"] = "Mobile must be exactly 10 digits and starting with 6-9"
	}

	if model.Age == 0 {
		fieldErrors["age"] = "Age is required"
	} else if model.Age < 18 || model.Age > 75 {
		fieldErrors["age"] = "Age must be between 18 and 75 years"
	}

	if model.Department == "" {
		fieldErrors["department"] = "Department is required"
	}
	if strings.TrimSpace(model.Role) == "" {
		fieldErrors["role"] = "Role is required"
	}
	if model.JoiningDate == nil {
		fieldErrors["joiningDate"] = "Joining date is required"
	}
	if !model.Agreement {
		fieldErrors["agreement"] = "You must agree to the terms and conditions"
	}

	return fieldErrors
}

// Submit validates, encodes and sends the form. Validation failures abort
// with per-field messages and no network call. On success the form resets
// and the done callback fires; on failure the entered values stay for
// correction.
func (c *FormController) Submit(ctx context.Context) error {
	if fieldErrors := c.Validate(); len(fieldErrors) > 0 {
		c.mu.Lock()
		c.fieldErrors = fieldErrors
		c.mu.Unlock()
		return &ValidationError{Fields: fieldErrors}
	}

	c.mu.Lock()
	c.state = StateSubmitting
	c.fieldErrors = nil
	recordID := c.recordID
	payload := c.codec.Encode(c.model)
	c.mu.Unlock()

	editing := recordID != ""

	var err error
	if editing {
		_, err = c.api.UpdateUser(ctx, recordID, payload)
	} else {
		_, err = c.api.CreateUser(ctx, payload)
	}

	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.mu.Unlock()

		c.log.WithError(err).Error("failed to submit user")
		c.notifier.Error(submitErrorMessage(editing, err))
		return err
	}

	c.mu.Lock()
	c.state = StateSucceeded
	c.model = codec.FormModel{Tags: []string{}}
	c.mu.Unlock()

	if editing {
		c.notifier.Success("User updated successfully!")
	} else {
		c.notifier.Success("User created successfully!")
	}

	if c.onDone != nil {
		c.onDone()
	}
	return nil
}

// submitErrorMessage prefers the server-reported message when one exists.
func submitErrorMessage(editing bool, err error) string {
	verb := "create"
	if editing {
		verb = "update"
	}

	var serverErr *api.ServerError
	if errors.As(err, &serverErr) {
		return fmt.Sprintf("Failed to %s user: %s", verb, serverErr.Message)
	}
	return fmt.Sprintf("Failed to %s user: %s", verb, err.Error())
}

// State returns the current lifecycle state.
func (c *FormController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Model returns the current form values.
func (c *FormController) Model() codec.FormModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// FieldErrors returns the messages from the last failed validation.
func (c *FormController) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrors
}

// Departments returns the reference list for the select options.
func (c *FormController) Departments() []codec.Department {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]codec.Department(nil), c.departments...)
}

// Editing reports whether the form targets an existing record.
func (c *FormController) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recordID != ""
}
