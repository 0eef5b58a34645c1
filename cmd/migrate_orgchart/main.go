package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"strings"
	"time"

	"go-hrms/internal/config"
	"go-hrms/internal/database"
	"go-hrms/internal/features/user"

	"github.com/lib/pq"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

// legacyEmployee is one row of the legacy org chart export.
type legacyEmployee struct {
	EmployeeNo string
	FullName   string
	Email      string
	Title      string
	ManagerNo  sql.NullString
}

// loadLegacy reads the legacy employee table ordered so managers appear
// before their reports.
func loadLegacy(ctx context.Context, db *sql.DB) ([]legacyEmployee, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT employee_no, full_name, email, title, manager_no
		FROM employees
		WHERE active = true
		ORDER BY depth ASC, employee_no ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []legacyEmployee
	for rows.Next() {
		var e legacyEmployee
		if err := rows.Scan(&e.EmployeeNo, &e.FullName, &e.Email, &e.Title, &e.ManagerNo); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func migrate(ctx context.Context, source *sql.DB, gdb *database.GormDB) error {
	if err := gdb.DB.AutoMigrate(&user.Role{}, &user.Branch{}, &user.User{}); err != nil {
		return err
	}

	employees, err := loadLegacy(ctx, source)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d legacy employees", len(employees))

	// Imported accounts get a random password; people reset it on first
	// login.
	placeholder, err := bcrypt.GenerateFromPassword([]byte(time.Now().Format(time.RFC3339Nano)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	repo := user.NewUserRepository(gdb)
	idByEmployeeNo := make(map[string]uint, len(employees))

	imported := 0
	for _, e := range employees {
		u := &user.User{
			Name:         e.FullName,
			Email:        strings.ToLower(e.Email),
			PasswordHash: string(placeholder),
			Position:     e.Title,
			Active:       true,
		}
		if e.ManagerNo.Valid {
			if managerID, ok := idByEmployeeNo[e.ManagerNo.String]; ok {
				u.ManagerID = &managerID
			} else {
				log.Printf("Manager %s of %s not imported yet, leaving unset", e.ManagerNo.String, e.EmployeeNo)
			}
		}
		if err := repo.Create(ctx, u); err != nil {
			log.Printf("Skipping %s: %v", e.Email, err)
			continue
		}
		idByEmployeeNo[e.EmployeeNo] = u.ID
		imported++
	}

	log.Printf("Imported %d of %d employees", imported, len(employees))
	return nil
}

func main() {
	sourceDSN := flag.String("source", "", "postgres DSN of the legacy org chart database")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall migration timeout")
	flag.Parse()

	if *sourceDSN == "" {
		log.Fatal("-source is required")
	}

	connector, err := pq.NewConnector(*sourceDSN)
	if err != nil {
		log.Fatalf("Invalid source DSN: %v", err)
	}
	source := sql.OpenDB(connector)
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := source.PingContext(ctx); err != nil {
		log.Fatalf("Cannot reach legacy database: %v", err)
	}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.LoadConfig,
			database.NewGormDB,
		),
		fx.Invoke(func(gdb *database.GormDB, shutdowner fx.Shutdowner) {
			if err := migrate(ctx, source, gdb); err != nil {
				log.Printf("Migration failed: %v", err)
			}
			_ = shutdowner.Shutdown()
		}),
	)

	app.Run()
}
