package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"business-dedup/internal/models"
	apperrors "business-dedup/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
)

const (
	sqlReadTimeout = 10 * time.Second

	selectColumns = `id, name, business_type, business_number, phone, email, website,
                     street, city, province, postal_code, description, industry, confidence`
)

// SQLStore reads business records from a MySQL `businesses` table. Prepared
// statements are built once at startup; the industry tag set is stored as a
// JSON column.
type SQLStore struct {
	conn    *sql.DB
	getStmt *sql.Stmt
}

var _ RecordStore = (*SQLStore)(nil)

func NewSQLStore(dsn string) (*SQLStore, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, apperrors.NewStore("store.NewSQLStore", "opening connection", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(10 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, apperrors.NewStore("store.NewSQLStore", "pinging database", err)
	}

	getStmt, err := conn.Prepare(fmt.Sprintf("SELECT %s FROM businesses WHERE id = ?", selectColumns))
	if err != nil {
		return nil, apperrors.NewStore("store.NewSQLStore", "preparing get statement", err)
	}

	return &SQLStore{conn: conn, getStmt: getStmt}, nil
}

func (s *SQLStore) Close() error {
	if s.getStmt != nil {
		s.getStmt.Close()
	}
	return s.conn.Close()
}

func (s *SQLStore) Get(ctx context.Context, id string) (*models.BusinessRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, sqlReadTimeout)
	defer cancel()

	rec, err := scanRecord(s.getStmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperrors.NewStore("store.Get", "querying record "+id, err)
	}
	return rec, nil
}

func (s *SQLStore) List(ctx context.Context) ([]models.BusinessRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, sqlReadTimeout)
	defer cancel()

	rows, err := s.conn.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM businesses ORDER BY id", selectColumns))
	if err != nil {
		return nil, apperrors.NewStore("store.List", "querying records", err)
	}
	defer rows.Close()

	var out []models.BusinessRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.NewStore("store.List", "scanning record", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStore("store.List", "iterating records", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.BusinessRecord, error) {
	var (
		rec          models.BusinessRecord
		businessType sql.NullString
		bn, phone    sql.NullString
		email, web   sql.NullString
		street, city sql.NullString
		prov, postal sql.NullString
		desc         sql.NullString
		industryJSON sql.NullString
		confidence   sql.NullFloat64
	)

	err := row.Scan(&rec.ID, &rec.Name, &businessType, &bn, &phone, &email, &web,
		&street, &city, &prov, &postal, &desc, &industryJSON, &confidence)
	if err != nil {
		return nil, err
	}

	rec.BusinessType = businessType.String
	rec.BusinessNumber = nullablePtr(bn)
	rec.Phone = nullablePtr(phone)
	rec.Email = nullablePtr(email)
	rec.Website = nullablePtr(web)
	rec.Description = nullablePtr(desc)

	if street.String != "" || city.String != "" || prov.String != "" || postal.String != "" {
		rec.Address = &models.Address{
			Street:     street.String,
			City:       city.String,
			Province:   prov.String,
			PostalCode: postal.String,
		}
	}
	if industryJSON.Valid && industryJSON.String != "" {
		if err := json.Unmarshal([]byte(industryJSON.String), &rec.Industry); err != nil {
			return nil, fmt.Errorf("decoding industry for %s: %w", rec.ID, err)
		}
	}
	if confidence.Valid {
		c := confidence.Float64
		rec.Confidence = &c
	}
	return &rec, nil
}

func nullablePtr(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}
