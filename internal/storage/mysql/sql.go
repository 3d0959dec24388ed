package mysql

const upsertConnectionSQL = `
INSERT INTO connections
  (id, hotel_id, provider_type, credentials, environment, is_active, created_at, last_sync_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id            = VALUES(id),
  provider_type = VALUES(provider_type),
  credentials   = VALUES(credentials),
  environment   = VALUES(environment),
  is_active     = VALUES(is_active),
  last_sync_at  = VALUES(last_sync_at),
  updated_at    = CURRENT_TIMESTAMP
`

const listConnectionsSQL = `
SELECT id, hotel_id, provider_type, credentials, environment, is_active, created_at, last_sync_at
FROM connections
ORDER BY hotel_id
`

const deactivateConnectionSQL = `
UPDATE connections SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE hotel_id = ?
`

const touchLastSyncSQL = `
UPDATE connections SET last_sync_at = ?, updated_at = CURRENT_TIMESTAMP WHERE hotel_id = ?
`

const insertAvailabilityPrefix = "INSERT INTO availability_snapshots\n" +
	"  (hotel_id, stay_date, room_type_id, available, rate, currency)\nVALUES "

const insertAvailabilityOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  available  = VALUES(available),\n" +
	"  rate       = VALUES(rate),\n" +
	"  currency   = VALUES(currency),\n" +
	"  updated_at = CURRENT_TIMESTAMP\n"

const insertReservationsPrefix = "INSERT INTO reservation_snapshots\n" +
	"  (hotel_id, reservation_id, guest_name, room_type_id, check_in, check_out, status, total, currency)\nVALUES "

const insertReservationsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  guest_name   = VALUES(guest_name),\n" +
	"  room_type_id = VALUES(room_type_id),\n" +
	"  check_in     = COALESCE(VALUES(check_in), reservation_snapshots.check_in),\n" +
	"  check_out    = COALESCE(VALUES(check_out), reservation_snapshots.check_out),\n" +
	"  status       = VALUES(status),\n" +
	"  total        = VALUES(total),\n" +
	"  currency     = VALUES(currency),\n" +
	"  updated_at   = CURRENT_TIMESTAMP\n"
