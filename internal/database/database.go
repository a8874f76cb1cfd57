package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "pd_user")
	password := getEnv("DB_PASSWORD", "pd_password")
	dbname := getEnv("DB_NAME", "pd_assess")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(50) UNIQUE,
		password VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		experience_years INT NOT NULL DEFAULT 3,
		department VARCHAR(100) NOT NULL DEFAULT 'Physical Design',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS assignments (
		id          BIGSERIAL PRIMARY KEY,
		code        VARCHAR(100) UNIQUE NOT NULL,
		engineer_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		topic       VARCHAR(20) NOT NULL,
		questions   JSONB NOT NULL,
		created_by  BIGINT NOT NULL REFERENCES users(id),
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		due_date    TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_engineer ON assignments(engineer_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_assignments_topic ON assignments(topic);

	CREATE TABLE IF NOT EXISTS submissions (
		id               BIGSERIAL PRIMARY KEY,
		assignment_id    BIGINT UNIQUE NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
		engineer_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		answers          JSONB NOT NULL,
		auto_scores      JSONB NOT NULL,
		auto_total       DECIMAL(4,1) NOT NULL DEFAULT 0,
		final_score      DECIMAL(4,1),
		status           VARCHAR(20) NOT NULL DEFAULT 'submitted',
		reviewer_comment TEXT,
		submitted_at     TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		graded_at        TIMESTAMP WITH TIME ZONE,
		graded_by        BIGINT REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_engineer ON submissions(engineer_id, submitted_at DESC);
	CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id          BIGSERIAL PRIMARY KEY,
		event_type  VARCHAR(50) NOT NULL,
		user_id     BIGINT REFERENCES users(id) ON DELETE SET NULL,
		data        JSONB,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_analytics_user ON analytics_events(user_id);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Idempotent column additions for databases created before these fields
	// existed.
	alterStatements := []string{
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS is_admin BOOLEAN NOT NULL DEFAULT FALSE`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS experience_years INT NOT NULL DEFAULT 3`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS department VARCHAR(100) NOT NULL DEFAULT 'Physical Design'`,
		`ALTER TABLE users ADD COLUMN IF NOT EXISTS username VARCHAR(50) UNIQUE`,
		`ALTER TABLE submissions ADD COLUMN IF NOT EXISTS reviewer_comment TEXT`,
		`ALTER TABLE submissions ADD COLUMN IF NOT EXISTS graded_by BIGINT REFERENCES users(id)`,
	}

	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("alter table failed: %w", err)
		}
	}

	// Backfill usernames for users created before the column existed.
	var usersWithoutUsername int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE username IS NULL`).Scan(&usersWithoutUsername); err == nil && usersWithoutUsername > 0 {
		rows, err := db.Query(`SELECT id, name FROM users WHERE username IS NULL`)
		if err == nil {
			defer rows.Close()
			for rows.Next() {
				var id int64
				var name string
				if rows.Scan(&id, &name) == nil {
					base := generateUsernameBase(name)
					// Try up to 10 times with different random suffixes
					for attempt := 0; attempt < 10; attempt++ {
						candidate := fmt.Sprintf("%s%04d", base, randomInt(10000))
						_, err := db.Exec(
							`UPDATE users SET username = $1 WHERE id = $2 AND username IS NULL`,
							candidate, id,
						)
						if err == nil {
							break
						}
					}
				}
			}
		}
	}

	// Set NOT NULL on username (safe after backfill)
	db.Exec(`DO $$ BEGIN ALTER TABLE users ALTER COLUMN username SET NOT NULL; EXCEPTION WHEN others THEN NULL; END $$`)

	newIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_admin ON users(is_admin)`,
	}
	for _, stmt := range newIndexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index failed: %w", err)
		}
	}

	return nil
}

// Seed creates the bootstrap admin account if it doesn't exist yet. Regular
// engineers self-register; the admin is the only account created out of band.
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, adminEmail).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO users (email, name, username, password, is_admin, experience_years, department)
		 VALUES ($1, $2, $3, $4, TRUE, $5, $6)`,
		adminEmail, "Admin", GenerateUsername("Admin"), string(hash), 5, "Management",
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// generateUsernameBase creates a lowercase alphanumeric base from a user's name.
func generateUsernameBase(name string) string {
	var result []byte
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result = append(result, byte(c))
		}
	}
	if len(result) == 0 {
		return "user"
	}
	if len(result) > 12 {
		result = result[:12]
	}
	return string(result)
}

// rng is a seeded random source for username generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// randomInt returns a random integer in [0, max).
func randomInt(max int) int {
	return rng.Intn(max)
}

// GenerateUsername creates a unique username from a name by appending random digits.
// It tries up to 10 times to find a unique one. Caller should handle the unique constraint.
func GenerateUsername(name string) string {
	base := generateUsernameBase(name)
	return fmt.Sprintf("%s%04d", base, randomInt(10000))
}
