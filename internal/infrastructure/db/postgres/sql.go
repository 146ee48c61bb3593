package postgres

const insertEventSQL = `
INSERT INTO calendar_events
  (id, title, description, start_time, end_time, location, type, user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

const getEventSQL = `
SELECT id, title, description, start_time, end_time, location, type, user_id, created_at, updated_at
FROM calendar_events
WHERE id = $1
`

const updateEventSQL = `
UPDATE calendar_events
SET title = $2,
    description = $3,
    start_time = $4,
    end_time = $5,
    location = $6,
    type = $7,
    updated_at = $8
WHERE id = $1
`

const deleteEventSQL = `
DELETE FROM calendar_events WHERE id = $1
`
