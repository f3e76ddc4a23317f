package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/usha-institute/exam-registry/internal/config"
	"github.com/usha-institute/exam-registry/internal/models"
	"github.com/usha-institute/exam-registry/internal/registry"
	"github.com/usha-institute/exam-registry/internal/services"
	"github.com/usha-institute/exam-registry/internal/storage/sqlite"
	"github.com/usha-institute/exam-registry/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// Initialize persistence
	store, err := sqlite.NewStore(cfg.DataPath)
	if err != nil {
		log.Fatalf("Failed to open data store: %v", err)
	}
	defer store.Close()

	// Initialize record registry
	reg := registry.New(store, logger)
	ctx := context.Background()
	if err := reg.Load(ctx); err != nil {
		log.Fatalf("Failed to load records: %v", err)
	}

	// Initialize notification bus. Publishing blocks until the toast printer
	// acks, so a command never exits with its notification still queued.
	bus := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NewSlogLogger(logger))

	toasts := startToastPrinter(ctx, bus)

	// Initialize services
	manager := services.NewServiceManager(reg, logger, validator.New(), bus, services.Branding{
		InstituteName: cfg.InstituteName,
		Tagline:       cfg.InstituteTagline,
	})

	err = runCommand(ctx, manager, cfg, os.Args[1:])

	if shutdownErr := manager.Shutdown(ctx); shutdownErr != nil {
		logger.Warn("shutdown", "error", shutdownErr)
	}
	toasts.Wait()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// startToastPrinter subscribes to every notification topic and prints each
// event as a toast line. The returned WaitGroup completes once the bus is
// closed and the pending toasts are printed.
func startToastPrinter(ctx context.Context, bus *gochannel.GoChannel) *sync.WaitGroup {
	var wg sync.WaitGroup
	topics := []string{
		services.TopicStudentSaved,
		services.TopicStudentDeleted,
		services.TopicExamSaved,
		services.TopicExamDeleted,
	}
	for _, topic := range topics {
		messages, err := bus.Subscribe(ctx, topic)
		if err != nil {
			log.Fatalf("Failed to subscribe to %s: %v", topic, err)
		}
		wg.Add(1)
		go func(messages <-chan *message.Message) {
			defer wg.Done()
			for msg := range messages {
				var ev services.RecordEvent
				if json.Unmarshal(msg.Payload, &ev) == nil {
					fmt.Printf("%s: %s\n", ev.Title, ev.Detail)
				}
				msg.Ack()
			}
		}(messages)
	}
	return &wg
}

func runCommand(ctx context.Context, manager services.ServiceManager, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}
	switch args[0] {
	case "student":
		return studentCommand(ctx, manager.Student(), args[1:])
	case "exam":
		return examCommand(ctx, manager.Exam(), args[1:])
	case "export":
		return exportCommand(ctx, manager.Export(), cfg, args[1:])
	case "hallticket":
		return hallTicketCommand(ctx, manager, cfg, args[1:])
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Println(`exam-registry manages student and exam records for the institute.

Usage:
  exam-registry student add|update|list|delete [flags]
  exam-registry exam add|update|list|delete [flags]
  exam-registry export csv|json|xlsx [flags]
  exam-registry hallticket --name NAME --dob YYYY-MM-DD [--out FILE]

Run a subcommand with -h for its flags.`)
}

func studentCommand(ctx context.Context, svc services.StudentService, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("student: missing subcommand (add, update, list, delete)")
	}
	switch args[0] {
	case "add", "update":
		fs := flag.NewFlagSet("student "+args[0], flag.ExitOnError)
		id := fs.String("id", "", "student id (update only)")
		name := fs.String("name", "", "student name")
		father := fs.String("father", "", "father's name")
		dob := fs.String("dob", "", "date of birth (YYYY-MM-DD)")
		join := fs.String("join", "", "join date (YYYY-MM-DD, defaults to today)")
		mobile := fs.String("mobile", "", "mobile number")
		course := fs.String("course", string(models.CourseDCA), "course name (ADCA or DCA)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		draft := &services.StudentDraft{
			StudentName:  *name,
			FatherName:   *father,
			DateOfBirth:  *dob,
			JoinDate:     *join,
			MobileNumber: *mobile,
			CourseName:   models.Course(*course),
		}
		if args[0] == "update" {
			if *id == "" {
				return fmt.Errorf("student update: --id is required")
			}
			student, err := svc.Update(ctx, *id, draft)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s (roll %d)\n", student.StudentName, student.RollNumber)
			return nil
		}
		student, err := svc.Register(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s (roll %d, id %s)\n", student.StudentName, student.RollNumber, student.ID)
		return nil

	case "list":
		students, err := svc.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROLL\tNAME\tFATHER\tCOURSE\tMOBILE\tUSERNAME\tEMAIL\tID")
		for _, s := range students {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.RollNumber, s.StudentName, s.FatherName, s.CourseName,
				s.MobileNumber, s.Username, s.Email, s.ID)
		}
		return w.Flush()

	case "delete":
		fs := flag.NewFlagSet("student delete", flag.ExitOnError)
		id := fs.String("id", "", "student id")
		yes := fs.Bool("yes", false, "confirm the deletion")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" {
			return fmt.Errorf("student delete: --id is required")
		}
		if !*yes {
			return fmt.Errorf("student delete: pass --yes to confirm deleting %s", *id)
		}
		return svc.Delete(ctx, *id)

	default:
		return fmt.Errorf("student: unknown subcommand %q", args[0])
	}
}

func examCommand(ctx context.Context, svc services.ExamService, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("exam: missing subcommand (add, update, list, delete)")
	}
	switch args[0] {
	case "add", "update":
		fs := flag.NewFlagSet("exam "+args[0], flag.ExitOnError)
		id := fs.String("id", "", "exam id (update only)")
		date := fs.String("date", "", "exam date (YYYY-MM-DD, defaults to today)")
		timeOfDay := fs.String("time", "", "exam time (e.g. 10:00 AM)")
		center := fs.String("center", "", "exam center")
		studentIDs := fs.String("students", "", "comma-separated student ids")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		draft := &services.ExamDraft{
			ExamDate:   *date,
			ExamTime:   *timeOfDay,
			ExamCenter: *center,
			StudentIDs: splitIDs(*studentIDs),
		}
		if args[0] == "update" {
			if *id == "" {
				return fmt.Errorf("exam update: --id is required")
			}
			exam, err := svc.Update(ctx, *id, draft)
			if err != nil {
				return err
			}
			fmt.Printf("Updated exam %s\n", exam.ExamCode)
			return nil
		}
		exam, err := svc.Create(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Printf("Created exam %s (id %s)\n", exam.ExamCode, exam.ID)
		return nil

	case "list":
		exams, err := svc.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tDATE\tTIME\tCENTER\tSTUDENTS\tID")
		for _, e := range exams {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ExamCode, e.ExamDate, e.ExamTime, e.ExamCenter,
				svc.AssignedNames(ctx, e), e.ID)
		}
		return w.Flush()

	case "delete":
		fs := flag.NewFlagSet("exam delete", flag.ExitOnError)
		id := fs.String("id", "", "exam id")
		yes := fs.Bool("yes", false, "confirm the deletion")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" {
			return fmt.Errorf("exam delete: --id is required")
		}
		if !*yes {
			return fmt.Errorf("exam delete: pass --yes to confirm deleting %s", *id)
		}
		return svc.Delete(ctx, *id)

	default:
		return fmt.Errorf("exam: unknown subcommand %q", args[0])
	}
}

func exportCommand(ctx context.Context, svc services.ExportService, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("export: missing subcommand (csv, json, xlsx)")
	}
	switch args[0] {
	case "csv", "xlsx":
		fs := flag.NewFlagSet("export "+args[0], flag.ExitOnError)
		examID := fs.String("exam", "", "exam id whose roster to export")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *examID == "" {
			return fmt.Errorf("export %s: --exam is required", args[0])
		}
		var (
			file *services.ExportFile
			err  error
		)
		if args[0] == "csv" {
			file, err = svc.StudentsCSV(ctx, *examID)
		} else {
			file, err = svc.RosterXLSX(ctx, *examID)
		}
		if err != nil {
			return err
		}
		return writeExport(cfg, file)

	case "json":
		fs := flag.NewFlagSet("export json", flag.ExitOnError)
		mode := fs.String("mode", string(services.JSONSummary), "projection mode (summary or full)")
		stdout := fs.Bool("stdout", false, "print the document instead of writing a file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		file, err := svc.StudentsJSON(ctx, services.JSONMode(*mode))
		if err != nil {
			return err
		}
		if *stdout {
			fmt.Println(string(file.Data))
			return nil
		}
		return writeExport(cfg, file)

	default:
		return fmt.Errorf("export: unknown subcommand %q", args[0])
	}
}

func hallTicketCommand(ctx context.Context, manager services.ServiceManager, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("hallticket", flag.ExitOnError)
	name := fs.String("name", "", "student name (case-insensitive)")
	dob := fs.String("dob", "", "date of birth (YYYY-MM-DD)")
	out := fs.String("out", "", "output file (defaults to HallTicket_{roll}.html in the export dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *dob == "" {
		return fmt.Errorf("hallticket: --name and --dob are required")
	}

	result, err := manager.Lookup().FindHallTicket(ctx, *name, *dob)
	if err != nil {
		return err
	}
	ticket := manager.Export().HallTicket(result.Student, result.Exam)
	html, err := manager.Export().RenderHallTicketHTML(ticket)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = filepath.Join(cfg.ExportDir, fmt.Sprintf("HallTicket_%d.html", ticket.RollNumber))
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("write hall ticket: %w", err)
	}
	fmt.Printf("Hall ticket for %s (roll %d) written to %s\n", ticket.StudentName, ticket.RollNumber, path)
	fmt.Println("Open the file in a browser and print it for the paper copy.")
	return nil
}

func writeExport(cfg *config.Config, file *services.ExportFile) error {
	path := filepath.Join(cfg.ExportDir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", file.Name, err)
	}
	fmt.Printf("Wrote %s (%s, %d bytes)\n", path, file.MIME, len(file.Data))
	return nil
}

func splitIDs(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
