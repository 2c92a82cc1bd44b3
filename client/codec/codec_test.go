package codec

import (
	"encoding/json"
	"mime"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://localhost:3001"

func fullRecord() *UserRecord {
	return &UserRecord{
		ID:                "7e0b6c9a-1111-2222-3333-444455556666",
		FirstName:         "Ravi",
		LastName:          "Sharma",
		Email:             "ravi.sharma@example.com",
		Gender:            "male",
		Phone:             "9876543210",
		Age:               29,
		DeptID:            "d1f4a2b8-aaaa-bbbb-cccc-ddddeeeeffff",
		Role:              "developer",
		JoiningDate:       "2023-04-17",
		IsActive:          true,
		Rating:            4,
		ProfileColor:      "#1677ff",
		AvailabilityStart: "09:00:00",
		AvailabilityEnd:   "17:30:00",
		Tags:              "golang,backend",
		Agreement:         true,
		Resume:            "uploads/resumes/abc.pdf",
		ProfilePicture:    "uploads/pictures/def.png",
	}
}

func TestDecodeFullRecord(t *testing.T) {
	model, err := New(testOrigin).Decode(fullRecord())
	require.NoError(t, err)

	assert.Equal(t, "Ravi", model.FirstName)
	assert.Equal(t, "Sharma", model.LastName)
	assert.Equal(t, "ravi.sharma@example.com", model.Email)
	assert.Equal(t, "9876543210", model.Mobile)
	assert.Equal(t, 29, model.Age)
	assert.Equal(t, "d1f4a2b8-aaaa-bbbb-cccc-ddddeeeeffff", model.Department)
	assert.Equal(t, "developer", model.Role)
	assert.Equal(t, 4, model.Rate)
	assert.True(t, model.IsActive)
	assert.True(t, model.Agreement)

	require.NotNil(t, model.JoiningDate)
	assert.Equal(t, "2023-04-17", model.JoiningDate.Format("2006-01-02"))

	require.NotNil(t, model.AvailabilityTime)
	assert.Equal(t, "09:00:00", model.AvailabilityTime.Start.Format("15:04:05"))
	assert.Equal(t, "17:30:00", model.AvailabilityTime.End.Format("15:04:05"))

	assert.Equal(t, []string{"golang", "backend"}, model.Tags)

	require.NotNil(t, model.ProfileColor)
	assert.Equal(t, "#1677ff", model.ProfileColor.ToHex())

	require.NotNil(t, model.Resume)
	assert.False(t, model.Resume.Pending())
	assert.Equal(t, testOrigin+"/uploads/resumes/abc.pdf", model.Resume.URL)

	require.NotNil(t, model.ProfilePicture)
	assert.Equal(t, testOrigin+"/uploads/pictures/def.png", model.ProfilePicture.URL)
}

func TestDecodeNilRecord(t *testing.T) {
	_, err := New(testOrigin).Decode(nil)
	assert.ErrorIs(t, err, ErrInvalidRecordShape)
}

func TestDecodeNeutralDefaults(t *testing.T) {
	model, err := New(testOrigin).Decode(&UserRecord{
		FirstName: "Priya",
		LastName:  "Patel",
		Email:     "priya@example.com",
	})
	require.NoError(t, err)

	assert.Nil(t, model.JoiningDate)
	assert.Nil(t, model.AvailabilityTime)
	assert.Nil(t, model.ProfileColor)
	assert.Nil(t, model.Resume)
	assert.Nil(t, model.ProfilePicture)
	require.NotNil(t, model.Tags)
	assert.Empty(t, model.Tags)
}

func TestDecodePartialAvailability(t *testing.T) {
	record := fullRecord()
	record.AvailabilityEnd = ""

	model, err := New(testOrigin).Decode(record)
	require.NoError(t, err)
	assert.Nil(t, model.AvailabilityTime, "a half-filled window must not surface")
}

func TestDecodeBackslashPath(t *testing.T) {
	record := fullRecord()
	record.Resume = `uploads\resumes\abc.pdf`

	model, err := New(testOrigin).Decode(record)
	require.NoError(t, err)
	require.NotNil(t, model.Resume)
	assert.Equal(t, testOrigin+"/uploads/resumes/abc.pdf", model.Resume.URL)
}

func TestParseRecordRejectsNonObject(t *testing.T) {
	_, err := ParseRecord([]byte(`[{"id":"x"}]`))
	assert.ErrorIs(t, err, ErrInvalidRecordShape)

	_, err = ParseRecord([]byte(`  "just a string"`))
	assert.ErrorIs(t, err, ErrInvalidRecordShape)

	_, err = ParseRecord(nil)
	assert.ErrorIs(t, err, ErrInvalidRecordShape)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cdc := New(testOrigin)

	model, err := cdc.Decode(fullRecord())
	require.NoError(t, err)

	payload := cdc.Encode(model)
	assert.False(t, payload.Multipart(), "stored attachments must not resend file bytes")

	user := payload.User
	assert.Equal(t, "Ravi", user.FirstName)
	assert.Equal(t, "Sharma", user.LastName)
	assert.Equal(t, "9876543210", user.Phone)
	assert.Equal(t, "d1f4a2b8-aaaa-bbbb-cccc-ddddeeeeffff", user.DeptID)
	assert.Equal(t, 4, user.Rating)
	assert.Equal(t, "2023-04-17", user.JoiningDate)
	assert.Equal(t, "09:00:00", user.AvailabilityStart)
	assert.Equal(t, "17:30:00", user.AvailabilityEnd)
	assert.Equal(t, "golang,backend", user.Tags)
	assert.Equal(t, "#1677ff", user.ProfileColor)
	assert.True(t, user.IsActive)
	assert.True(t, user.Agreement)
}

func TestEncodeLowercasesGender(t *testing.T) {
	payload := New(testOrigin).Encode(FormModel{Gender: "Male"})
	assert.Equal(t, "male", payload.User.Gender)
}

func TestEncodeJSONBodyOmission(t *testing.T) {
	payload := New(testOrigin).Encode(FormModel{
		FirstName: "Priya",
		LastName:  "Patel",
		Email:     "priya@example.com",
		Tags:      []string{},
	})

	contentType, body, err := payload.Body()
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body.Bytes(), &fields))

	assert.NotContains(t, fields, "joining_date")
	assert.NotContains(t, fields, "profile_color")
	assert.NotContains(t, fields, "availability_start")
	assert.NotContains(t, fields, "availability_end")

	// Always present even when zero-valued.
	assert.Contains(t, fields, "tags")
	assert.Contains(t, fields, "is_active")
	assert.Contains(t, fields, "rating")
	assert.Contains(t, fields, "agreement")
}

func TestEncodeMixedAttachments(t *testing.T) {
	cdc := New(testOrigin)

	model, err := cdc.Decode(fullRecord())
	require.NoError(t, err)

	// The user replaces the resume but keeps the stored picture.
	model.Resume = NewPendingAttachment("cv.pdf", "application/pdf", []byte("%PDF-1.4 fake"))

	payload := cdc.Encode(model)
	require.True(t, payload.Multipart())
	require.Len(t, payload.Files, 1)
	assert.Equal(t, "resume", payload.Files[0].Field)
	assert.Equal(t, "cv.pdf", payload.Files[0].Name)

	contentType, body, err := payload.Body()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(body, params["boundary"])
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	defer form.RemoveAll()

	require.Len(t, form.File["resume"], 1)
	assert.Empty(t, form.File["profilePicture"], "stored picture must not travel again")

	assert.Equal(t, []string{"Ravi"}, form.Value["first_name"])
	assert.Equal(t, []string{"true"}, form.Value["is_active"])
	assert.Equal(t, []string{"golang,backend"}, form.Value["tags"])
	assert.Equal(t, []string{"2023-04-17"}, form.Value["joining_date"])
}

func TestEncodeBothPendingAttachments(t *testing.T) {
	model := FormModel{
		Resume:         NewPendingAttachment("cv.pdf", "application/pdf", []byte("pdf")),
		ProfilePicture: NewPendingAttachment("me.png", "image/png", []byte("png")),
	}

	payload := New(testOrigin).Encode(model)
	require.Len(t, payload.Files, 2)
	assert.Equal(t, "resume", payload.Files[0].Field)
	assert.Equal(t, "profilePicture", payload.Files[1].Field)
}

func TestUploadedAttachmentStableIdentity(t *testing.T) {
	cdc := New(testOrigin)

	first, err := cdc.Decode(fullRecord())
	require.NoError(t, err)
	second, err := cdc.Decode(fullRecord())
	require.NoError(t, err)

	require.NotNil(t, first.Resume)
	require.NotNil(t, second.Resume)
	assert.Equal(t, first.Resume.UID, second.Resume.UID)
}

func TestRGBColor(t *testing.T) {
	assert.Equal(t, "#1677ff", RGB{R: 0x16, G: 0x77, B: 0xff}.ToHex())
}

func TestJoiningDatePointerIsolation(t *testing.T) {
	cdc := New(testOrigin)
	model, err := cdc.Decode(fullRecord())
	require.NoError(t, err)

	original := *model.JoiningDate
	*model.JoiningDate = original.AddDate(1, 0, 0)

	fresh, err := cdc.Decode(fullRecord())
	require.NoError(t, err)
	assert.Equal(t, original, *fresh.JoiningDate, "decodes must not share state")
}

func TestEncodeTimeRange(t *testing.T) {
	start, _ := time.Parse("15:04:05", "08:15:00")
	end, _ := time.Parse("15:04:05", "16:45:30")

	payload := New(testOrigin).Encode(FormModel{
		AvailabilityTime: &TimeRange{Start: start, End: end},
	})
	assert.Equal(t, "08:15:00", payload.User.AvailabilityStart)
	assert.Equal(t, "16:45:30", payload.User.AvailabilityEnd)
}
