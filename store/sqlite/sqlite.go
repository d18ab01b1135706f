/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements all persistence interfaces (timeclock.PunchStore,
  timeclock.ZoneSource, payroll.EmployeeSource, payroll.PolicySource)
  using SQLite. In production, the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  The punch log is append-only:
  - No UPDATE statements on the punches table
  - No DELETE statements on the punches table
  - Administrative corrections happen outside this engine

KEY TABLES:
  punches:              Immutable attendance event log
  clock_state:          Denormalized latest-punch pointer per employee,
                        updated in the SAME transaction as each insert.
                        This is what makes the state check + insert atomic.
  employees:            Pay-policy snapshots
  geofences:            Circular zones
  geofence_assignments: Zone links, shop-level OR direct per-employee
  overtime_rules:       Weekly threshold + multiplier
  deductions:           Fixed / percentage deductions
  loan_advances:        Capped amortization records

CONCURRENCY:
  Two concurrent punches for the same employee serialize on the
  clock_state row: the transaction reads the latest punch id, compares it
  to the caller's expectation, and only then inserts. A mismatch rolls
  back with timeclock.ErrPunchConflict. The DSN uses _txlock=immediate so
  write transactions take the write lock up front.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/shopmule.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - timeclock/store.go: interface definitions and the CAS contract
  - timeclock/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/lazizbekravshanov/shopmule-sub004/geo"
	"github.com/lazizbekravshanov/shopmule-sub004/payroll"
	"github.com/lazizbekravshanov/shopmule-sub004/timeclock"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps SQLite's single-writer model honest.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	-- Punches (append-only attendance log)
	CREATE TABLE IF NOT EXISTS punches (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		employee_id TEXT NOT NULL,
		punch_type TEXT NOT NULL,
		at TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		accuracy REAL,
		zone_id TEXT,
		distance_meters REAL,
		break_minutes INTEGER,
		source_method TEXT,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_punches_employee_at
		ON punches(employee_id, at);
	CREATE INDEX IF NOT EXISTS idx_punches_employee_seq
		ON punches(employee_id, seq DESC);

	-- Denormalized current state, updated transactionally on each punch.
	CREATE TABLE IF NOT EXISTS clock_state (
		employee_id TEXT PRIMARY KEY,
		latest_punch_id TEXT NOT NULL,
		state TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Employees (pay policy snapshots)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pay_type TEXT NOT NULL,
		pay_rate TEXT NOT NULL,
		overtime_rate TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		shop_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_shop ON employees(shop_id);

	-- Geofences
	CREATE TABLE IF NOT EXISTS geofences (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		radius_meters REAL NOT NULL,
		required BOOLEAN NOT NULL DEFAULT FALSE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	-- Zone links: shop-level OR direct per-employee. Both paths feed the
	-- same candidate set; validation dedupes by geofence id.
	CREATE TABLE IF NOT EXISTS geofence_assignments (
		id TEXT PRIMARY KEY,
		geofence_id TEXT NOT NULL,
		shop_id TEXT,
		employee_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_shop ON geofence_assignments(shop_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_employee ON geofence_assignments(employee_id);

	-- Overtime rules (at most one active rule is considered)
	CREATE TABLE IF NOT EXISTS overtime_rules (
		id TEXT PRIMARY KEY,
		weekly_threshold_hours REAL NOT NULL,
		multiplier TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	-- Deductions
	CREATE TABLE IF NOT EXISTS deductions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount TEXT NOT NULL DEFAULT '0',
		percentage TEXT NOT NULL DEFAULT '0',
		recurring BOOLEAN NOT NULL DEFAULT FALSE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_deductions_employee ON deductions(employee_id);

	-- Loan advances
	CREATE TABLE IF NOT EXISTS loan_advances (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		name TEXT NOT NULL,
		monthly_payment TEXT NOT NULL,
		remaining_balance TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_loans_employee ON loan_advances(employee_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PUNCH STORE (timeclock.PunchStore interface)
// =============================================================================

const punchColumns = `id, employee_id, punch_type, at, latitude, longitude, accuracy,
	zone_id, distance_meters, break_minutes, source_method, note, created_at`

// Append inserts a punch if and only if the latest punch for the employee is
// still the one the caller saw. The check and the insert run in one write
// transaction, so two concurrent punches cannot both succeed.
func (s *Store) Append(ctx context.Context, ev timeclock.PunchEvent, expectLatestID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var latestID string
	err = tx.QueryRowContext(ctx,
		"SELECT latest_punch_id FROM clock_state WHERE employee_id = ?", ev.EmployeeID,
	).Scan(&latestID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read clock state: %w", err)
	}
	if latestID != expectLatestID {
		return timeclock.ErrPunchConflict
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO punches (`+punchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.EmployeeID, string(ev.Type), ev.At.UTC().Format(time.RFC3339Nano),
		ev.Latitude, ev.Longitude, ev.Accuracy,
		nullString(ev.ZoneID), ev.DistanceMeters, ev.BreakMinutes,
		nullString(ev.SourceMethod), nullString(ev.Note),
		ev.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append punch: %w", err)
	}

	state := timeclock.StateAfter(&ev)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO clock_state (employee_id, latest_punch_id, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			latest_punch_id = excluded.latest_punch_id,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		ev.EmployeeID, ev.ID, string(state), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to update clock state: %w", err)
	}

	return tx.Commit()
}

// Latest returns the most recent punch for an employee, nil for an empty log.
func (s *Store) Latest(ctx context.Context, employeeID string) (*timeclock.PunchEvent, error) {
	query := `SELECT ` + punchColumns + ` FROM punches
		WHERE employee_id = ? ORDER BY seq DESC LIMIT 1`

	punches, err := s.queryPunches(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	if len(punches) == 0 {
		return nil, nil
	}
	return &punches[0], nil
}

// ListRange returns punches with At in [from, to], insertion order.
func (s *Store) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]timeclock.PunchEvent, error) {
	query := `SELECT ` + punchColumns + ` FROM punches
		WHERE employee_id = ? AND at >= ? AND at <= ?
		ORDER BY seq ASC`
	return s.queryPunches(ctx, query, employeeID,
		from.UTC().Format(time.RFC3339Nano), to.UTC().Format(time.RFC3339Nano))
}

// ListSince returns punches with At >= from, insertion order.
func (s *Store) ListSince(ctx context.Context, employeeID string, from time.Time) ([]timeclock.PunchEvent, error) {
	query := `SELECT ` + punchColumns + ` FROM punches
		WHERE employee_id = ? AND at >= ?
		ORDER BY seq ASC`
	return s.queryPunches(ctx, query, employeeID, from.UTC().Format(time.RFC3339Nano))
}

func (s *Store) queryPunches(ctx context.Context, query string, args ...any) ([]timeclock.PunchEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query punches: %w", err)
	}
	defer rows.Close()

	var punches []timeclock.PunchEvent
	for rows.Next() {
		ev, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		punches = append(punches, ev)
	}
	return punches, rows.Err()
}

func scanPunch(rows *sql.Rows) (timeclock.PunchEvent, error) {
	var (
		ev           timeclock.PunchEvent
		punchType    string
		at           string
		zoneID       sql.NullString
		sourceMethod sql.NullString
		note         sql.NullString
		createdAt    string
	)

	err := rows.Scan(
		&ev.ID, &ev.EmployeeID, &punchType, &at,
		&ev.Latitude, &ev.Longitude, &ev.Accuracy,
		&zoneID, &ev.DistanceMeters, &ev.BreakMinutes,
		&sourceMethod, &note, &createdAt,
	)
	if err != nil {
		return ev, fmt.Errorf("failed to scan punch: %w", err)
	}

	ev.Type = timeclock.PunchType(punchType)
	ev.At, _ = time.Parse(time.RFC3339Nano, at)
	ev.ZoneID = zoneID.String
	ev.SourceMethod = sourceMethod.String
	ev.Note = note.String
	ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return ev, nil
}

// =============================================================================
// ZONE SOURCE (timeclock.ZoneSource interface)
// =============================================================================

// ZonesForEmployee unions shop-level and direct geofence assignments for the
// employee, active zones only, deduplicated by zone identity.
func (s *Store) ZonesForEmployee(ctx context.Context, employeeID string) ([]geo.Zone, error) {
	query := `
		SELECT DISTINCT g.id, g.name, g.latitude, g.longitude, g.radius_meters, g.required, g.active
		FROM geofences g
		JOIN geofence_assignments a ON a.geofence_id = g.id
		LEFT JOIN employees e ON e.id = ?
		WHERE g.active = TRUE
		  AND (a.employee_id = ? OR (a.shop_id IS NOT NULL AND a.shop_id = e.shop_id))
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones: %w", err)
	}
	defer rows.Close()

	var zones []geo.Zone
	for rows.Next() {
		var z geo.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Lat, &z.Lon, &z.RadiusMeters, &z.Required, &z.Active); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return geo.Dedupe(zones), rows.Err()
}

// SaveGeofence saves a geofence.
func (s *Store) SaveGeofence(ctx context.Context, z geo.Zone) error {
	query := `
		INSERT INTO geofences (id, name, latitude, longitude, radius_meters, required, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			radius_meters = excluded.radius_meters,
			required = excluded.required,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		z.ID, z.Name, z.Lat, z.Lon, z.RadiusMeters, z.Required, z.Active,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListGeofences returns all geofences.
func (s *Store) ListGeofences(ctx context.Context) ([]geo.Zone, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, latitude, longitude, radius_meters, required, active FROM geofences ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []geo.Zone
	for rows.Next() {
		var z geo.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Lat, &z.Lon, &z.RadiusMeters, &z.Required, &z.Active); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// GeofenceAssignment links a zone to a shop or directly to an employee.
type GeofenceAssignment struct {
	ID         string
	GeofenceID string
	ShopID     string
	EmployeeID string
}

// SaveAssignment saves a geofence assignment.
func (s *Store) SaveAssignment(ctx context.Context, a GeofenceAssignment) error {
	query := `
		INSERT INTO geofence_assignments (id, geofence_id, shop_id, employee_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			geofence_id = excluded.geofence_id,
			shop_id = excluded.shop_id,
			employee_id = excluded.employee_id
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.GeofenceID, nullString(a.ShopID), nullString(a.EmployeeID),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// EMPLOYEE STORE (payroll.EmployeeSource interface)
// =============================================================================

// SaveEmployee saves an employee pay-policy snapshot.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	var overtimeRate *string
	if emp.OvertimeRate != nil {
		v := emp.OvertimeRate.String()
		overtimeRate = &v
	}

	query := `
		INSERT INTO employees (id, name, pay_type, pay_rate, overtime_rate, active, shop_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			pay_type = excluded.pay_type,
			pay_rate = excluded.pay_rate,
			overtime_rate = excluded.overtime_rate,
			active = excluded.active,
			shop_id = excluded.shop_id
	`
	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, string(emp.PayType), emp.PayRate.String(),
		overtimeRate, emp.Active, nullString(emp.ShopID),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// EmployeeExists reports whether an employee id resolves to a stored record.
func (s *Store) EmployeeExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM employees WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetEmployee retrieves an employee. Returns timeclock.ErrEmployeeNotFound
// when the id is unknown.
func (s *Store) GetEmployee(ctx context.Context, id string) (*payroll.Employee, error) {
	var (
		emp          payroll.Employee
		payType      string
		payRate      string
		overtimeRate sql.NullString
		shopID       sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, pay_type, pay_rate, overtime_rate, active, shop_id FROM employees WHERE id = ?",
		id,
	).Scan(&emp.ID, &emp.Name, &payType, &payRate, &overtimeRate, &emp.Active, &shopID)

	if err == sql.ErrNoRows {
		return nil, timeclock.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	emp.PayType = payroll.PayType(payType)
	emp.PayRate = mustDecimal(payRate)
	if overtimeRate.Valid {
		d := mustDecimal(overtimeRate.String)
		emp.OvertimeRate = &d
	}
	emp.ShopID = shopID.String
	return &emp, nil
}

// ListEmployees returns all employees, active first.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, pay_type, pay_rate, overtime_rate, active, shop_id FROM employees ORDER BY active DESC, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		var (
			emp          payroll.Employee
			payType      string
			payRate      string
			overtimeRate sql.NullString
			shopID       sql.NullString
		)
		if err := rows.Scan(&emp.ID, &emp.Name, &payType, &payRate, &overtimeRate, &emp.Active, &shopID); err != nil {
			return nil, err
		}
		emp.PayType = payroll.PayType(payType)
		emp.PayRate = mustDecimal(payRate)
		if overtimeRate.Valid {
			d := mustDecimal(overtimeRate.String)
			emp.OvertimeRate = &d
		}
		emp.ShopID = shopID.String
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// =============================================================================
// POLICY STORE (payroll.PolicySource interface)
// =============================================================================

// SaveOvertimeRule saves an overtime rule.
func (s *Store) SaveOvertimeRule(ctx context.Context, r payroll.OvertimeRule) error {
	query := `
		INSERT INTO overtime_rules (id, weekly_threshold_hours, multiplier, active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			weekly_threshold_hours = excluded.weekly_threshold_hours,
			multiplier = excluded.multiplier,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.WeeklyThresholdHours, r.Multiplier.String(), r.Active,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ActiveOvertimeRule returns the most recently created active rule, nil when
// none exists.
func (s *Store) ActiveOvertimeRule(ctx context.Context) (*payroll.OvertimeRule, error) {
	var (
		r          payroll.OvertimeRule
		multiplier string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, weekly_threshold_hours, multiplier, active FROM overtime_rules
		WHERE active = TRUE ORDER BY created_at DESC LIMIT 1`,
	).Scan(&r.ID, &r.WeeklyThresholdHours, &multiplier, &r.Active)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Multiplier = mustDecimal(multiplier)
	return &r, nil
}

// SaveDeduction saves a deduction.
func (s *Store) SaveDeduction(ctx context.Context, d payroll.Deduction) error {
	query := `
		INSERT INTO deductions (id, employee_id, name, amount, percentage, recurring, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			percentage = excluded.percentage,
			recurring = excluded.recurring,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.EmployeeID, d.Name, d.Amount.String(), d.Percentage.String(),
		d.Recurring, d.Active, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ActiveDeductions returns the employee's active deductions.
func (s *Store) ActiveDeductions(ctx context.Context, employeeID string) ([]payroll.Deduction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, name, amount, percentage, recurring, active FROM deductions
		WHERE employee_id = ? AND active = TRUE ORDER BY created_at ASC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deductions []payroll.Deduction
	for rows.Next() {
		var (
			d                  payroll.Deduction
			amount, percentage string
		)
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.Name, &amount, &percentage, &d.Recurring, &d.Active); err != nil {
			return nil, err
		}
		d.Amount = mustDecimal(amount)
		d.Percentage = mustDecimal(percentage)
		deductions = append(deductions, d)
	}
	return deductions, rows.Err()
}

// SaveLoan saves a loan advance.
func (s *Store) SaveLoan(ctx context.Context, l payroll.LoanAdvance) error {
	query := `
		INSERT INTO loan_advances (id, employee_id, name, monthly_payment, remaining_balance, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			monthly_payment = excluded.monthly_payment,
			remaining_balance = excluded.remaining_balance,
			active = excluded.active
	`
	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.EmployeeID, l.Name, l.MonthlyPayment.String(), l.RemainingBalance.String(),
		l.Active, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ActiveLoans returns the employee's active loan advances.
func (s *Store) ActiveLoans(ctx context.Context, employeeID string) ([]payroll.LoanAdvance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, name, monthly_payment, remaining_balance, active FROM loan_advances
		WHERE employee_id = ? AND active = TRUE ORDER BY created_at ASC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []payroll.LoanAdvance
	for rows.Next() {
		var (
			l                payroll.LoanAdvance
			payment, balance string
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.Name, &payment, &balance, &l.Active); err != nil {
			return nil, err
		}
		l.MonthlyPayment = mustDecimal(payment)
		l.RemainingBalance = mustDecimal(balance)
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	tables := []string{"punches", "clock_state", "geofence_assignments", "geofences",
		"deductions", "loan_advances", "overtime_rules", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
