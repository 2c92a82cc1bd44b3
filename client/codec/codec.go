package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// TimeRange is an availability window. It is constructed whole: a partial
// pair never exists.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// FormModel is the richer client-side representation the form binds to.
type FormModel struct {
	FirstName        string
	LastName         string
	Email            string
	Gender           string
	Mobile           string
	Age              int
	Department       string
	Role             string
	JoiningDate      *time.Time
	AvailabilityTime *TimeRange
	Tags             []string
	Rate             int
	IsActive         bool
	Agreement        bool
	ProfileColor     Color
	Resume           *Attachment
	ProfilePicture   *Attachment
}

// Codec translates between the server record shape and the form model.
// Origin is the backend origin browsable file URLs are derived from.
type Codec struct {
	Origin string
}

// New returns a codec deriving preview URLs from the given backend origin.
func New(origin string) *Codec {
	return &Codec{Origin: origin}
}

// Decode maps a server record onto a fresh form model. Every form field is
// set from the record or left at its neutral default; nothing from a
// previous decode survives.
func (c *Codec) Decode(record *UserRecord) (FormModel, error) {
	if record == nil {
		return FormModel{}, ErrInvalidRecordShape
	}

	model := FormModel{
		FirstName:  record.FirstName,
		LastName:   record.LastName,
		Email:      record.Email,
		Gender:     record.Gender,
		Mobile:     record.Phone,
		Age:        record.Age,
		Department: record.DeptID,
		Role:       record.Role,
		Rate:       record.Rating,
		IsActive:   record.IsActive,
		Agreement:  record.Agreement,
		Tags:       []string{},
	}

	if record.JoiningDate != "" {
		if date, err := time.Parse(dateLayout, record.JoiningDate); err == nil {
			model.JoiningDate = &date
		}
	}

	// Both-or-neither: a half-filled availability window decodes to nil.
	if record.AvailabilityStart != "" && record.AvailabilityEnd != "" {
		start, errStart := time.Parse(timeLayout, record.AvailabilityStart)
		end, errEnd := time.Parse(timeLayout, record.AvailabilityEnd)
		if errStart == nil && errEnd == nil {
			model.AvailabilityTime = &TimeRange{Start: start, End: end}
		}
	}

	if record.Tags != "" {
		model.Tags = strings.Split(record.Tags, ",")
	}

	if record.ProfileColor != "" {
		model.ProfileColor = Hex(record.ProfileColor)
	}

	if record.Resume != "" {
		model.Resume = newUploadedAttachment(c.Origin, record.Resume)
	}
	if record.ProfilePicture != "" {
		model.ProfilePicture = newUploadedAttachment(c.Origin, record.ProfilePicture)
	}

	return model, nil
}

// UserUpsert is the outgoing flat body for create and update requests.
type UserUpsert struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Age               int    `json:"age"`
	Gender            string `json:"gender"`
	DeptID            string `json:"dept_id"`
	Role              string `json:"role"`
	JoiningDate       string `json:"joining_date,omitempty"`
	IsActive          bool   `json:"is_active"`
	Rating            int    `json:"rating"`
	ProfileColor      string `json:"profile_color,omitempty"`
	AvailabilityStart string `json:"availability_start,omitempty"`
	AvailabilityEnd   string `json:"availability_end,omitempty"`
	Tags              string `json:"tags"`
	Agreement         bool   `json:"agreement"`
}

// FilePart is a pending local payload included in a multipart submission.
type FilePart struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Payload is the encoded request representation: the flat user body plus
// any pending file payloads. With no pending files it travels as JSON,
// otherwise as multipart/form-data.
type Payload struct {
	User  UserUpsert
	Files []FilePart
}

// Multipart reports whether the payload has to be sent as multipart.
func (p *Payload) Multipart() bool {
	return len(p.Files) > 0
}

// Body serializes the payload and returns the content type and body bytes.
func (p *Payload) Body() (string, *bytes.Buffer, error) {
	if !p.Multipart() {
		data, err := json.Marshal(p.User)
		if err != nil {
			return "", nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		return "application/json", bytes.NewBuffer(data), nil
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for field, value := range p.User.formFields() {
		if err := writer.WriteField(field, value); err != nil {
			return "", nil, fmt.Errorf("failed to write form field %s: %w", field, err)
		}
	}
	for _, file := range p.Files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return "", nil, fmt.Errorf("failed to create file part %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return "", nil, fmt.Errorf("failed to write file part %s: %w", file.Field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return writer.FormDataContentType(), buf, nil
}

// formFields flattens the upsert body for multipart transmission, keeping
// the same present/omitted semantics as the JSON encoding.
func (u UserUpsert) formFields() map[string]string {
	fields := map[string]string{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"phone":      u.Phone,
		"age":        strconv.Itoa(u.Age),
		"gender":     u.Gender,
		"dept_id":    u.DeptID,
		"role":       u.Role,
		"is_active":  strconv.FormatBool(u.IsActive),
		"rating":     strconv.Itoa(u.Rating),
		"tags":       u.Tags,
		"agreement":  strconv.FormatBool(u.Agreement),
	}
	if u.JoiningDate != "" {
		fields["joining_date"] = u.JoiningDate
	}
	if u.ProfileColor != "" {
		fields["profile_color"] = u.ProfileColor
	}
	if u.AvailabilityStart != "" {
		fields["availability_start"] = u.AvailabilityStart
	}
	if u.AvailabilityEnd != "" {
		fields["availability_end"] = u.AvailabilityEnd
	}
	return fields
}

// Encode maps the form model back to an outgoing request representation.
// Already-uploaded attachments are omitted so the server keeps its stored
// file unless a pending payload replaces it.
func (c *Codec) Encode(model FormModel) *Payload {
	upsert := UserUpsert{
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Email:     model.Email,
		Phone:     model.Mobile,
		Age:       model.Age,
		Gender:    strings.ToLower(model.Gender),
		DeptID:    model.Department,
		Role:      model.Role,
		IsActive:  model.IsActive,
		Rating:    model.Rate,
		Tags:      strings.Join(model.Tags, ","),
		Agreement: model.Agreement,
	}

	if model.JoiningDate != nil {
		upsert.JoiningDate = model.JoiningDate.Format(dateLayout)
	}
	if model.AvailabilityTime != nil {
		upsert.AvailabilityStart = model.AvailabilityTime.Start.Format(timeLayout)
		upsert.AvailabilityEnd = model.AvailabilityTime.End.Format(timeLayout)
	}
	if model.ProfileColor != nil {
		upsert.ProfileColor = model.ProfileColor.ToHex()
	}

	payload := &Payload{User: upsert}
	if model.Resume.Pending() {
		payload.Files = append(payload.Files, FilePart{
			Field:       "resume",
			Name:        model.Resume.Name,
			ContentType: model.Resume.ContentType,
			Data:        model.Resume.Data,
		})
	}
	if model.ProfilePicture.Pending() {
		payload.Files = append(payload.Files, FilePart{
			Field:       "profilePicture",
			Name:        model.ProfilePicture.Name,
			ContentType: model.ProfilePicture.ContentType,
			Data:        model.ProfilePicture.Data,
		})
	}

	return payload
}
