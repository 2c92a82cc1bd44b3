package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"staffdesk/client/api"
	"staffdesk/client/codec"
	"staffdesk/client/controller"
	"staffdesk/client/query"
	"staffdesk/shared/config"
)

// consoleNotifier renders transient messages the way the web UI shows
// toasts.
type consoleNotifier struct{}

func (consoleNotifier) Success(message string) { fmt.Println("✅ " + message) }
func (consoleNotifier) Error(message string)   { fmt.Println("❌ " + message) }

func main() {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if os.Getenv("DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := config.APIBaseURL()
	client := api.NewClient(baseURL, log)
	notifier := consoleNotifier{}
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(ctx, client, log, notifier, os.Args[2:])
	case "get":
		err = runGet(ctx, client, log, notifier, os.Args[2:])
	case "create":
		err = runForm(ctx, client, log, notifier, "", os.Args[2:])
	case "edit":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: staffdesk edit <id> [flags]")
			os.Exit(2)
		}
		err = runForm(ctx, client, log, notifier, os.Args[2], os.Args[3:])
	case "rm":
		err = runRemove(ctx, client, log, notifier, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `staffdesk - user management admin client

Commands:
  list      List users (filter and pagination flags)
  get       Show one user by id
  create    Create a user
  edit      Edit an existing user
  rm        Remove a row from the fetched list (local only, the server
            record is untouched)`)
}

func runList(ctx context.Context, client *api.Client, log *logrus.Logger, notifier controller.Notifier, args []string) error {
	flags := flag.NewFlagSet("list", flag.ExitOnError)
	page := flags.Int("page", 1, "page number")
	name := flags.String("name", "", "filter by name")
	phone := flags.String("phone", "", "filter by phone")
	email := flags.String("email", "", "filter by email")
	role := flags.String("role", "", "filter by role")
	department := flags.String("department", "", "filter by department id")
	status := flags.String("status", "", "filter by status: true or false")
	joiningDate := flags.String("joining-date", "", "filter by joining date (YYYY-MM-DD)")
	flags.Parse(args)

	filters := query.FilterState{
		Name:        *name,
		Phone:       *phone,
		Email:       *email,
		Role:        *role,
		Department:  *department,
		JoiningDate: *joiningDate,
	}
	switch *status {
	case "true":
		filters.Status = query.StatusActive
	case "false":
		filters.Status = query.StatusInactive
	}

	list := controller.NewListController(client, log, notifier)
	if err := list.Mount(ctx); err != nil {
		return err
	}
	if filters != (query.FilterState{}) {
		if err := list.ApplyFilters(ctx, filters); err != nil {
			return err
		}
	}
	if *page > 1 {
		if err := list.SetPage(ctx, *page); err != nil {
			return err
		}
	}

	printRows(list)
	return nil
}

func printRows(list *controller.ListController) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tMOBILE\tEMAIL\tROLE\tDEPARTMENT\tJOINING DATE\tSTATUS")
	for _, row := range list.Rows() {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Name, row.Mobile, row.Email, row.Role, row.Department, row.JoiningDate, row.Status)
	}
	writer.Flush()
	fmt.Printf("Page %d, %d users total\n", list.Page(), list.Total())
}

func runGet(ctx context.Context, client *api.Client, log *logrus.Logger, notifier controller.Notifier, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: staffdesk get <id>")
		os.Exit(2)
	}

	cdc := codec.New(client.BaseURL())
	form := controller.NewFormController(client, cdc, log, notifier, nil)
	if err := form.Load(ctx, args[0]); err != nil {
		if form.State() == controller.StateNotFound {
			fmt.Println("User not found")
		}
		return err
	}

	printModel(form.Model())
	return nil
}

func printModel(model codec.FormModel) {
	fmt.Printf("Name:         %s %s\n", model.FirstName, model.LastName)
	fmt.Printf("Email:        %s\n", model.Email)
	fmt.Printf("Gender:       %s\n", model.Gender)
	fmt.Printf("Mobile:       %s\n", model.Mobile)
	fmt.Printf("Age:          %d\n", model.Age)
	fmt.Printf("Department:   %s\n", model.Department)
	fmt.Printf("Role:         %s\n", model.Role)
	if model.JoiningDate != nil {
		fmt.Printf("Joining date: %s\n", model.JoiningDate.Format("2006-01-02"))
	}
	if model.AvailabilityTime != nil {
		fmt.Printf("Available:    %s - %s\n",
			model.AvailabilityTime.Start.Format("15:04:05"),
			model.AvailabilityTime.End.Format("15:04:05"))
	}
	if len(model.Tags) > 0 {
		fmt.Printf("Tags:         %s\n", strings.Join(model.Tags, ", "))
	}
	fmt.Printf("Rate:         %d\n", model.Rate)
	fmt.Printf("Active:       %t\n", model.IsActive)
	if model.ProfileColor != nil {
		fmt.Printf("Color:        %s\n", model.ProfileColor.ToHex())
	}
	if model.Resume != nil {
		fmt.Printf("Resume:       %s\n", model.Resume.URL)
	}
	if model.ProfilePicture != nil {
		fmt.Printf("Picture:      %s\n", model.ProfilePicture.URL)
	}
}

func runForm(ctx context.Context, client *api.Client, log *logrus.Logger, notifier controller.Notifier, id string, args []string) error {
	flags := flag.NewFlagSet("form", flag.ExitOnError)
	firstName := flags.String("first-name", "", "first name")
	lastName := flags.String("last-name", "", "last name")
	email := flags.String("email", "", "email address")
	gender := flags.String("gender", "", "gender: male, female or other")
	mobile := flags.String("mobile", "", "10-digit mobile number")
	age := flags.Int("age", 0, "age in years")
	department := flags.String("department", "", "department id")
	role := flags.String("role", "", "role")
	joiningDate := flags.String("joining-date", "", "joining date (YYYY-MM-DD)")
	availStart := flags.String("avail-start", "", "availability start (HH:mm:ss)")
	availEnd := flags.String("avail-end", "", "availability end (HH:mm:ss)")
	tags := flags.String("tags", "", "comma separated tags")
	rate := flags.Int("rate", 0, "rating 0-5")
	active := flags.Bool("active", false, "active flag")
	agree := flags.Bool("agree", false, "accept the agreement")
	color := flags.String("color", "", "profile color hex string")
	resume := flags.String("resume", "", "path to a PDF resume")
	picture := flags.String("picture", "", "path to a PNG/JPG profile picture")
	flags.Parse(args)

	cdc := codec.New(client.BaseURL())
	form := controller.NewFormController(client, cdc, log, notifier, func() {
		fmt.Println("⬅️  Back to list")
	})

	if err := form.Mount(ctx); err != nil {
		return err
	}

	model := form.Model()
	if id != "" {
		if err := form.Load(ctx, id); err != nil {
			if form.State() == controller.StateNotFound {
				fmt.Println("User not found")
			}
			return err
		}
		model = form.Model()
	}

	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["first-name"] {
		model.FirstName = *firstName
	}
	if set["last-name"] {
		model.LastName = *lastName
	}
	if set["email"] {
		model.Email = *email
	}
	if set["gender"] {
		model.Gender = *gender
	}
	if set["mobile"] {
		model.Mobile = *mobile
	}
	if set["age"] {
		model.Age = *age
	}
	if set["department"] {
		model.Department = *department
	}
	if set["role"] {
		model.Role = *role
	}
	if set["joining-date"] {
		date, err := time.Parse("2006-01-02", *joiningDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid joining date: %v\n", err)
			os.Exit(2)
		}
		model.JoiningDate = &date
	}
	if set["avail-start"] != set["avail-end"] {
		fmt.Fprintln(os.Stderr, "avail-start and avail-end must be given together")
		os.Exit(2)
	}
	if set["avail-start"] {
		start, errStart := time.Parse("15:04:05", *availStart)
		end, errEnd := time.Parse("15:04:05", *availEnd)
		if errStart != nil || errEnd != nil {
			fmt.Fprintln(os.Stderr, "invalid availability time, expected HH:mm:ss")
			os.Exit(2)
		}
		model.AvailabilityTime = &codec.TimeRange{Start: start, End: end}
	}
	if set["tags"] {
		model.Tags = []string{}
		if *tags != "" {
			model.Tags = strings.Split(*tags, ",")
		}
	}
	if set["rate"] {
		model.Rate = *rate
	}
	if set["active"] {
		model.IsActive = *active
	}
	if set["agree"] {
		model.Agreement = *agree
	}
	if set["color"] {
		model.ProfileColor = codec.Hex(*color)
	}

	form.SetModel(model)

	if *resume != "" {
		if err := attachFile(form.AttachResume, *resume); err != nil {
			return err
		}
	}
	if *picture != "" {
		if err := attachFile(form.AttachProfilePicture, *picture); err != nil {
			return err
		}
	}

	if err := form.Submit(ctx); err != nil {
		var validationErr *controller.ValidationError
		if errors.As(err, &validationErr) {
			for field, message := range validationErr.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, message)
			}
		}
		return err
	}
	return nil
}

func attachFile(attach func(name, contentType string, data []byte) error, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return err
	}
	return attach(filepath.Base(path), contentTypeFor(path), data)
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

func runRemove(ctx context.Context, client *api.Client, log *logrus.Logger, notifier controller.Notifier, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: staffdesk rm <id>")
		os.Exit(2)
	}

	list := controller.NewListController(client, log, notifier)
	if err := list.Mount(ctx); err != nil {
		return err
	}

	if !list.RemoveLocal(args[0]) {
		fmt.Println("No matching row on the current page")
		return nil
	}

	fmt.Println("Note: the server record is untouched; no delete endpoint exists")
	printRows(list)
	return nil
}
