package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"pms_gateway/internal/domain"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) UpsertConnection(ctx context.Context, c domain.Connection) error {
	creds, err := json.Marshal(c.Credentials)
	if err != nil {
		return err
	}
	var lastSync any
	if c.LastSyncAt != nil {
		lastSync = c.LastSyncAt.UTC()
	}
	_, err = s.db.ExecContext(ctx, upsertConnectionSQL,
		c.ID,
		c.HotelID,
		string(c.ProviderType),
		string(creds),
		string(c.Environment),
		c.IsActive,
		c.CreatedAt.UTC(),
		lastSync,
	)
	return err
}

func (s *Store) ListConnections(ctx context.Context) ([]domain.Connection, error) {
	rows, err := s.db.QueryContext(ctx, listConnectionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Connection
	for rows.Next() {
		var (
			c        domain.Connection
			provider string
			creds    []byte
			env      string
			lastSync sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.HotelID, &provider, &creds, &env, &c.IsActive, &c.CreatedAt, &lastSync); err != nil {
			return nil, err
		}
		c.ProviderType = domain.ProviderType(provider)
		c.Environment = domain.Environment(env)
		if len(creds) > 0 {
			if err := json.Unmarshal(creds, &c.Credentials); err != nil {
				return nil, err
			}
		}
		if lastSync.Valid {
			t := lastSync.Time.UTC()
			c.LastSyncAt = &t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) DeactivateConnection(ctx context.Context, hotelID string) error {
	_, err := s.db.ExecContext(ctx, deactivateConnectionSQL, hotelID)
	return err
}

func (s *Store) TouchLastSync(ctx context.Context, hotelID string) error {
	_, err := s.db.ExecContext(ctx, touchLastSyncSQL, time.Now().UTC(), hotelID)
	return err
}

func (s *Store) UpsertAvailability(ctx context.Context, hotelID string, cells []domain.Availability) error {
	if len(cells) == 0 {
		return nil
	}
	values := make([]string, 0, len(cells))
	args := make([]any, 0, len(cells)*6)
	for _, c := range cells {
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args, hotelID, c.Date, c.RoomTypeID, c.Available, c.Rate, c.Currency)
	}
	sqlStr := insertAvailabilityPrefix + strings.Join(values, ",") + insertAvailabilityOnDup
	_, err := s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *Store) UpsertReservations(ctx context.Context, hotelID string, rs []domain.Reservation) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*9)
	for _, r := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?,?)")
		args = append(args,
			hotelID,
			r.ID,
			r.GuestName,
			r.RoomTypeID,
			nullDate(r.CheckIn),
			nullDate(r.CheckOut),
			r.Status,
			r.Total,
			r.Currency,
		)
	}
	sqlStr := insertReservationsPrefix + strings.Join(values, ",") + insertReservationsOnDup
	_, err := s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// nullDate keeps malformed or absent upstream dates out of DATE columns.
func nullDate(s string) any {
	if len(s) != 10 {
		return nil
	}
	return s
}
