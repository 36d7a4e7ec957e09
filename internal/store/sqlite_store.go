package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ashu917/Car-rental/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dbPath, err := resolveDBPath(path)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func resolveDBPath(path string) (string, error) {
	abs := filepath.Clean(path)
	if strings.HasSuffix(abs, ".db") {
		if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
			return "", err
		}
		return abs, nil
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", err
	}
	return filepath.Join(abs, "rental.db"), nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA foreign_keys = ON;",
		"CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password_hash TEXT NOT NULL, data BLOB NOT NULL);",
		"CREATE TABLE IF NOT EXISTS cars (id TEXT PRIMARY KEY, owner_id TEXT NOT NULL, location TEXT NOT NULL, is_available INTEGER NOT NULL, data BLOB NOT NULL);",
		"CREATE TABLE IF NOT EXISTS bookings (id TEXT PRIMARY KEY, car_id TEXT NOT NULL, user_id TEXT NOT NULL, owner_id TEXT NOT NULL, status TEXT NOT NULL, pickup_day TEXT NOT NULL, return_day TEXT NOT NULL, data BLOB NOT NULL);",
		// One row per rented day per car; the primary key is what makes
		// concurrent overlapping creates impossible to both commit.
		"CREATE TABLE IF NOT EXISTS booking_days (car_id TEXT NOT NULL, day TEXT NOT NULL, booking_id TEXT NOT NULL, PRIMARY KEY (car_id, day));",
		"CREATE INDEX IF NOT EXISTS idx_bookings_car_days ON bookings(car_id, pickup_day, return_day);",
		"CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_bookings_owner ON bookings(owner_id);",
		"CREATE INDEX IF NOT EXISTS idx_cars_location ON cars(location, is_available);",
		"CREATE INDEX IF NOT EXISTS idx_booking_days_booking ON booking_days(booking_id);",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser persists the account. The password hash rides in its own
// column: the model redacts it from JSON, so it is absent from the blob.
func (s *SQLiteStore) CreateUser(user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO users (id, email, password_hash, data) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, data)
	if isUniqueViolation(err, "users.email") {
		return ErrDuplicateEmail
	}
	return err
}

func (s *SQLiteStore) GetUserByID(id string) (*models.User, error) {
	return s.getUser(`SELECT password_hash, data FROM users WHERE id = ?`, id)
}

func (s *SQLiteStore) GetUserByEmail(email string) (*models.User, error) {
	return s.getUser(`SELECT password_hash, data FROM users WHERE email = ?`, email)
}

func (s *SQLiteStore) getUser(query, arg string) (*models.User, error) {
	var hash string
	var raw []byte
	err := s.db.QueryRow(query, arg).Scan(&hash, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	return &user, nil
}

func (s *SQLiteStore) SaveCar(car *models.Car) error {
	data, err := json.Marshal(car)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO cars (id, owner_id, location, is_available, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET owner_id=excluded.owner_id, location=excluded.location, is_available=excluded.is_available, data=excluded.data`,
		car.ID, car.Owner, car.Location, boolToInt(car.IsAvailable), data)
	return err
}

func (s *SQLiteStore) GetCarByID(id string) (*models.Car, error) {
	var raw []byte
	err := s.db.QueryRow(`SELECT data FROM cars WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var car models.Car
	if err := json.Unmarshal(raw, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (s *SQLiteStore) ListAvailableCarsByLocation(location string) ([]*models.Car, error) {
	return s.listCars(`SELECT data FROM cars WHERE location = ? AND is_available = 1 ORDER BY rowid`, location)
}

func (s *SQLiteStore) ListCarsByOwner(ownerID string) ([]*models.Car, error) {
	return s.listCars(`SELECT data FROM cars WHERE owner_id = ? ORDER BY rowid`, ownerID)
}

func (s *SQLiteStore) listCars(query, arg string) ([]*models.Car, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var cars []*models.Car
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var car models.Car
		if err := json.Unmarshal(raw, &car); err != nil {
			return nil, err
		}
		cars = append(cars, &car)
	}
	return cars, rows.Err()
}

// SetCarBooked patches the flag with a compare-and-swap on the row blob,
// so a concurrent SaveCar can never be overwritten with stale data.
func (s *SQLiteStore) SetCarBooked(id string, booked bool) error {
	for {
		var raw []byte
		err := s.db.QueryRow(`SELECT data FROM cars WHERE id = ?`, id).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var car models.Car
		if err := json.Unmarshal(raw, &car); err != nil {
			return err
		}
		car.IsBooked = booked
		data, err := json.Marshal(&car)
		if err != nil {
			return err
		}

		res, err := s.db.Exec(`UPDATE cars SET owner_id = ?, location = ?, is_available = ?, data = ? WHERE id = ? AND data = ?`,
			car.Owner, car.Location, boolToInt(car.IsAvailable), data, id, raw)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 1 {
			return nil
		}
		// the row moved under us, reread and retry
	}
}

func (s *SQLiteStore) CreateBooking(booking *models.Booking, dayKeys []string) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`INSERT INTO bookings (id, car_id, user_id, owner_id, status, pickup_day, return_day, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID, booking.Car, booking.User, booking.Owner, string(booking.Status),
		booking.PickupDate.Format("2006-01-02"), booking.ReturnDate.Format("2006-01-02"), data)
	if err != nil {
		return err
	}

	if err := claimDays(tx, booking.Car, booking.ID, dayKeys); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetBookingByID(id string) (*models.Booking, error) {
	var raw []byte
	err := s.db.QueryRow(`SELECT data FROM bookings WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var booking models.Booking
	if err := json.Unmarshal(raw, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateBookingStatus persists the booking's current state. Cancelling
// releases its day claims so other renters can take the range.
func (s *SQLiteStore) UpdateBookingStatus(booking *models.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`UPDATE bookings SET status = ?, data = ? WHERE id = ?`,
		string(booking.Status), data, booking.ID); err != nil {
		return err
	}
	if booking.Status == models.StatusCancelled {
		if _, err := tx.Exec(`DELETE FROM booking_days WHERE booking_id = ?`, booking.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateBookingDates replaces the booking row and its day claims atomically.
func (s *SQLiteStore) UpdateBookingDates(booking *models.Booking, dayKeys []string) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`UPDATE bookings SET pickup_day = ?, return_day = ?, data = ? WHERE id = ?`,
		booking.PickupDate.Format("2006-01-02"), booking.ReturnDate.Format("2006-01-02"), data, booking.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM booking_days WHERE booking_id = ?`, booking.ID); err != nil {
		return err
	}
	if err := claimDays(tx, booking.Car, booking.ID, dayKeys); err != nil {
		return err
	}

	return tx.Commit()
}

func claimDays(tx *sql.Tx, carID, bookingID string, dayKeys []string) error {
	for _, day := range dayKeys {
		if _, err := tx.Exec(`INSERT INTO booking_days (car_id, day, booking_id) VALUES (?, ?, ?)`,
			carID, day, bookingID); err != nil {
			if isUniqueViolation(err, "booking_days") {
				return ErrDayConflict
			}
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ListBookingsByRenter(userID string) ([]*models.Booking, error) {
	return s.listBookings(`SELECT data FROM bookings WHERE user_id = ? ORDER BY rowid DESC`, userID)
}

func (s *SQLiteStore) ListBookingsByOwner(ownerID string) ([]*models.Booking, error) {
	return s.listBookings(`SELECT data FROM bookings WHERE owner_id = ? ORDER BY rowid DESC`, ownerID)
}

func (s *SQLiteStore) listBookings(query, arg string) ([]*models.Booking, error) {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var bookings []*models.Booking
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var booking models.Booking
		if err := json.Unmarshal(raw, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, &booking)
	}
	return bookings, rows.Err()
}

// CountOverlapping counts non-cancelled bookings for the car whose
// inclusive day interval intersects [startDay, endDay]. Day keys are
// "2006-01-02" strings, so lexicographic comparison is date order.
func (s *SQLiteStore) CountOverlapping(carID, startDay, endDay, excludeBookingID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM bookings
		WHERE car_id = ? AND status != 'cancelled' AND pickup_day <= ? AND return_day >= ? AND id != ?`,
		carID, endDay, startDay, excludeBookingID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// OccupiedCars answers the overlap question for many cars in one query,
// returning the set of car ids that have at least one overlapping
// non-cancelled booking in the range.
func (s *SQLiteStore) OccupiedCars(carIDs []string, startDay, endDay string) (map[string]bool, error) {
	occupied := make(map[string]bool)
	if len(carIDs) == 0 {
		return occupied, nil
	}

	placeholders := strings.Repeat("?,", len(carIDs)-1) + "?"
	args := make([]interface{}, 0, len(carIDs)+2)
	for _, id := range carIDs {
		args = append(args, id)
	}
	args = append(args, endDay, startDay)

	rows, err := s.db.Query(`SELECT DISTINCT car_id FROM bookings
		WHERE car_id IN (`+placeholders+`) AND status != 'cancelled' AND pickup_day <= ? AND return_day >= ?`, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		occupied[id] = true
	}
	return occupied, rows.Err()
}

func isUniqueViolation(err error, table string) bool {
	return err != nil &&
		strings.Contains(err.Error(), "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), table)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
