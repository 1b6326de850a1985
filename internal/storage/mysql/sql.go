package mysql

// -----------------------------------------------------------------------------
// TIERS
// -----------------------------------------------------------------------------

// Ascending requirement order is the catalog contract the resolver
// relies on.
const listTiersSQL = `
SELECT id, name, points_requirement
FROM loyalty_tiers
ORDER BY points_requirement ASC
`

// -----------------------------------------------------------------------------
// CUSTOMERS
// -----------------------------------------------------------------------------

const insertCustomerSQL = `
INSERT INTO customers (id, email, name, country, points, tier_id)
VALUES (?, ?, ?, ?, ?, ?)
`

const getCustomerSQL = `
SELECT id, email, name, country, points, tier_id, created_at
FROM customers
WHERE id = ?
`

const listCustomersSQL = `
SELECT id, email, name, country, points, tier_id, created_at
FROM customers
ORDER BY created_at, id
`

const searchCustomersSQL = `
SELECT id, email, name, country, points, tier_id, created_at
FROM customers
WHERE email LIKE CONCAT('%', ?, '%')
ORDER BY created_at, id
`

// COALESCE keeps the stored value when the caller passed nil.
const updateCustomerProfileSQL = `
UPDATE customers
SET email   = COALESCE(?, email),
    name    = COALESCE(?, name),
    country = COALESCE(?, country)
WHERE id = ?
`

// Points and tier move together; writing them in one statement is what
// keeps readers from seeing a balance with a stale tier.
const updateCustomerLoyaltySQL = `
UPDATE customers
SET points = ?, tier_id = ?
WHERE id = ?
`

const customerExistsSQL = `SELECT 1 FROM customers WHERE id = ?`

const deleteCustomerSQL = `DELETE FROM customers WHERE id = ?`

// -----------------------------------------------------------------------------
// RESERVATIONS
// -----------------------------------------------------------------------------

const insertReservationSQL = `
INSERT INTO reservations (customer_id, room_type_id, nights, checkin_date, checkout_date, points)
VALUES (?, ?, ?, ?, ?, ?)
`

const getReservationSQL = `
SELECT id, customer_id, room_type_id, nights, checkin_date, checkout_date, points
FROM reservations
WHERE id = ?
`

const listReservationsSQL = `
SELECT id, customer_id, room_type_id, nights, checkin_date, checkout_date, points
FROM reservations
ORDER BY id
`

const listReservationsByCustomerSQL = `
SELECT id, customer_id, room_type_id, nights, checkin_date, checkout_date, points
FROM reservations
WHERE customer_id = ?
ORDER BY id
`

// customer_id is deliberately absent: ownership is immutable.
const updateReservationSQL = `
UPDATE reservations
SET room_type_id  = COALESCE(?, room_type_id),
    nights        = COALESCE(?, nights),
    checkin_date  = COALESCE(?, checkin_date),
    checkout_date = COALESCE(?, checkout_date),
    points        = COALESCE(?, points)
WHERE id = ?
`

const deleteReservationSQL = `DELETE FROM reservations WHERE id = ?`

// The points ledger. Served by idx_reservations_customer.
const sumReservationPointsSQL = `
SELECT COALESCE(SUM(points), 0)
FROM reservations
WHERE customer_id = ?
`

// -----------------------------------------------------------------------------
// BENEFITS
// -----------------------------------------------------------------------------

const insertBenefitSQL = `
INSERT INTO benefits (tier_id, title, subtitle)
VALUES (?, ?, ?)
`

const getBenefitSQL = `
SELECT id, tier_id, title, subtitle
FROM benefits
WHERE id = ?
`

const listBenefitsSQL = `
SELECT id, tier_id, title, subtitle
FROM benefits
ORDER BY id
`

const listBenefitsByTierSQL = `
SELECT id, tier_id, title, subtitle
FROM benefits
WHERE tier_id = ?
ORDER BY id
`

const updateBenefitSQL = `
UPDATE benefits
SET title    = COALESCE(?, title),
    subtitle = COALESCE(?, subtitle)
WHERE id = ?
`

const deleteBenefitSQL = `DELETE FROM benefits WHERE id = ?`

// -----------------------------------------------------------------------------
// STATISTICS
// -----------------------------------------------------------------------------
// Nights come from a per-customer subaggregate so one customer with many
// reservations still counts once in the member totals. The optional
// filters from domain.StatsFilter are appended as AND clauses (WHERE
// queries) or as extra join conditions (the by-tier query, which keeps
// zero-member tiers visible via LEFT JOIN).

const nightsJoinSQL = `
LEFT JOIN (SELECT customer_id, SUM(nights) AS nights FROM reservations GROUP BY customer_id) n
  ON n.customer_id = c.id
`

const detailedStatsSQL = `
SELECT c.tier_id, t.name, c.country,
       COUNT(*)                   AS total_users,
       COALESCE(SUM(c.points), 0) AS total_points,
       COALESCE(SUM(n.nights), 0) AS total_nights
FROM customers c
JOIN loyalty_tiers t ON t.id = c.tier_id
` + nightsJoinSQL + `
WHERE 1=1%s
GROUP BY c.tier_id, t.name, c.country
ORDER BY c.tier_id, c.country
`

const overallStatsSQL = `
SELECT COUNT(*)                   AS total_users,
       COALESCE(SUM(c.points), 0) AS total_points,
       COALESCE(SUM(n.nights), 0) AS total_nights
FROM customers c
` + nightsJoinSQL + `
WHERE 1=1%s
`

const byTierStatsSQL = `
SELECT t.id, t.name,
       COUNT(c.id)                AS total_users,
       COALESCE(SUM(c.points), 0) AS total_points,
       COALESCE(SUM(n.nights), 0) AS total_nights
FROM loyalty_tiers t
LEFT JOIN customers c ON c.tier_id = t.id%s
` + nightsJoinSQL + `
GROUP BY t.id, t.name
ORDER BY t.points_requirement
`

const byCountryStatsSQL = `
SELECT c.country, COUNT(*) AS total_users
FROM customers c
WHERE 1=1%s
GROUP BY c.country
ORDER BY c.country
`
