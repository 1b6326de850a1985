package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"colonial_vip/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

// storageErr marks any driver failure so callers can match
// domain.ErrStorageUnavailable without depending on mysql internals.
func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- tiers ----

func (r *Repo) ListTiers(ctx context.Context) ([]domain.Tier, error) {
	rows, err := r.db.QueryContext(ctx, listTiersSQL)
	if err != nil {
		return nil, storageErr("list tiers", err)
	}
	defer rows.Close()

	var out []domain.Tier
	for rows.Next() {
		var t domain.Tier
		if err := rows.Scan(&t.ID, &t.Name, &t.PointsRequirement); err != nil {
			return nil, storageErr("scan tier", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list tiers", err)
	}
	return out, nil
}

// ---- customers ----

func scanCustomer(row interface{ Scan(...any) error }) (domain.Customer, error) {
	var c domain.Customer
	var name, country sql.NullString
	if err := row.Scan(&c.ID, &c.Email, &name, &country, &c.Points, &c.TierID, &c.CreatedAt); err != nil {
		return domain.Customer{}, err
	}
	if name.Valid {
		n := name.String
		c.Name = &n
	}
	if country.Valid {
		cy := country.String
		c.Country = &cy
	}
	return c, nil
}

func (r *Repo) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	_, err := r.db.ExecContext(ctx, insertCustomerSQL,
		c.ID, c.Email, valStr(c.Name), valStr(c.Country), c.Points, c.TierID)
	if err != nil {
		return domain.Customer{}, storageErr("insert customer", err)
	}
	return r.GetCustomer(ctx, c.ID)
}

func (r *Repo) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, getCustomerSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, storageErr("get customer", err)
	}
	return c, nil
}

func (r *Repo) listCustomers(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, storageErr("scan customer", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list customers", err)
	}
	return out, nil
}

func (r *Repo) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return r.listCustomers(ctx, listCustomersSQL)
}

func (r *Repo) SearchCustomersByEmail(ctx context.Context, q string) ([]domain.Customer, error) {
	return r.listCustomers(ctx, searchCustomersSQL, q)
}

func (r *Repo) UpdateCustomerProfile(ctx context.Context, id string, upd domain.CustomerUpdate) (domain.Customer, error) {
	_, err := r.db.ExecContext(ctx, updateCustomerProfileSQL,
		valStr(upd.Email), valStr(upd.Name), valStr(upd.Country), id)
	if err != nil {
		return domain.Customer{}, storageErr("update customer", err)
	}
	// Re-read; a missing row surfaces as ErrNotFound here (RowsAffected
	// is 0 for both "missing" and "unchanged" under this driver).
	return r.GetCustomer(ctx, id)
}

func (r *Repo) UpdateCustomerLoyalty(ctx context.Context, id string, points, tierID int64) error {
	res, err := r.db.ExecContext(ctx, updateCustomerLoyaltySQL, points, tierID, id)
	if err != nil {
		return storageErr("update customer loyalty", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, customerExistsSQL, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return storageErr("update customer loyalty", err)
		}
	}
	return nil
}

func (r *Repo) DeleteCustomer(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteCustomerSQL, id)
	if err != nil {
		return storageErr("delete customer", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- reservations ----

func scanReservation(row interface{ Scan(...any) error }) (domain.Reservation, error) {
	var rv domain.Reservation
	var room sql.NullInt64
	var in, out sql.NullTime
	if err := row.Scan(&rv.ID, &rv.CustomerID, &room, &rv.Nights, &in, &out, &rv.Points); err != nil {
		return domain.Reservation{}, err
	}
	if room.Valid {
		v := room.Int64
		rv.RoomTypeID = &v
	}
	if in.Valid {
		t := in.Time
		rv.CheckinDate = &t
	}
	if out.Valid {
		t := out.Time
		rv.CheckoutDate = &t
	}
	return rv, nil
}

func (r *Repo) CreateReservation(ctx context.Context, rv domain.Reservation) (domain.Reservation, error) {
	res, err := r.db.ExecContext(ctx, insertReservationSQL,
		rv.CustomerID, valInt64(rv.RoomTypeID), rv.Nights,
		valTime(rv.CheckinDate), valTime(rv.CheckoutDate), rv.Points)
	if err != nil {
		return domain.Reservation{}, storageErr("insert reservation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Reservation{}, storageErr("insert reservation", err)
	}
	return r.GetReservation(ctx, id)
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	rv, err := scanReservation(r.db.QueryRowContext(ctx, getReservationSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, storageErr("get reservation", err)
	}
	return rv, nil
}

func (r *Repo) listReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list reservations", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		rv, err := scanReservation(rows)
		if err != nil {
			return nil, storageErr("scan reservation", err)
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list reservations", err)
	}
	return out, nil
}

func (r *Repo) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return r.listReservations(ctx, listReservationsSQL)
}

func (r *Repo) ListReservationsByCustomer(ctx context.Context, customerID string) ([]domain.Reservation, error) {
	return r.listReservations(ctx, listReservationsByCustomerSQL, customerID)
}

func (r *Repo) UpdateReservation(ctx context.Context, id int64, upd domain.ReservationUpdate) (domain.Reservation, error) {
	_, err := r.db.ExecContext(ctx, updateReservationSQL,
		valInt64(upd.RoomTypeID), valInt(upd.Nights),
		valTime(upd.CheckinDate), valTime(upd.CheckoutDate),
		valInt64(upd.Points), id)
	if err != nil {
		return domain.Reservation{}, storageErr("update reservation", err)
	}
	return r.GetReservation(ctx, id)
}

func (r *Repo) DeleteReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	pre, err := r.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	res, err := r.db.ExecContext(ctx, deleteReservationSQL, id)
	if err != nil {
		return domain.Reservation{}, storageErr("delete reservation", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return pre, nil
}

func (r *Repo) SumReservationPoints(ctx context.Context, customerID string) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, sumReservationPointsSQL, customerID).Scan(&total); err != nil {
		return 0, storageErr("sum reservation points", err)
	}
	return total, nil
}

// ---- benefits ----

func scanBenefit(row interface{ Scan(...any) error }) (domain.Benefit, error) {
	var b domain.Benefit
	var sub sql.NullString
	if err := row.Scan(&b.ID, &b.TierID, &b.Title, &sub); err != nil {
		return domain.Benefit{}, err
	}
	if sub.Valid {
		s := sub.String
		b.Subtitle = &s
	}
	return b, nil
}

func (r *Repo) getBenefit(ctx context.Context, id int64) (domain.Benefit, error) {
	b, err := scanBenefit(r.db.QueryRowContext(ctx, getBenefitSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Benefit{}, domain.ErrNotFound
		}
		return domain.Benefit{}, storageErr("get benefit", err)
	}
	return b, nil
}

func (r *Repo) listBenefits(ctx context.Context, query string, args ...any) ([]domain.Benefit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list benefits", err)
	}
	defer rows.Close()

	var out []domain.Benefit
	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return nil, storageErr("scan benefit", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list benefits", err)
	}
	return out, nil
}

func (r *Repo) ListBenefits(ctx context.Context) ([]domain.Benefit, error) {
	return r.listBenefits(ctx, listBenefitsSQL)
}

func (r *Repo) ListBenefitsByTier(ctx context.Context, tierID int64) ([]domain.Benefit, error) {
	return r.listBenefits(ctx, listBenefitsByTierSQL, tierID)
}

func (r *Repo) CreateBenefit(ctx context.Context, b domain.Benefit) (domain.Benefit, error) {
	res, err := r.db.ExecContext(ctx, insertBenefitSQL, b.TierID, b.Title, valStr(b.Subtitle))
	if err != nil {
		return domain.Benefit{}, storageErr("insert benefit", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Benefit{}, storageErr("insert benefit", err)
	}
	return r.getBenefit(ctx, id)
}

func (r *Repo) UpdateBenefit(ctx context.Context, id int64, upd domain.BenefitUpdate) (domain.Benefit, error) {
	_, err := r.db.ExecContext(ctx, updateBenefitSQL, valStr(upd.Title), valStr(upd.Subtitle), id)
	if err != nil {
		return domain.Benefit{}, storageErr("update benefit", err)
	}
	return r.getBenefit(ctx, id)
}

func (r *Repo) DeleteBenefit(ctx context.Context, id int64) (domain.Benefit, error) {
	pre, err := r.getBenefit(ctx, id)
	if err != nil {
		return domain.Benefit{}, err
	}
	res, err := r.db.ExecContext(ctx, deleteBenefitSQL, id)
	if err != nil {
		return domain.Benefit{}, storageErr("delete benefit", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Benefit{}, domain.ErrNotFound
	}
	return pre, nil
}

// ---- statistics ----

// statsFilterClause renders the explicit filter struct into AND
// conditions. Returned clause starts with " AND " (or is empty) so it
// drops into both WHERE and LEFT JOIN ... ON positions.
func statsFilterClause(f domain.StatsFilter) (string, []any) {
	var sb strings.Builder
	var args []any
	if f.Country != nil {
		sb.WriteString(" AND c.country = ?")
		args = append(args, *f.Country)
	}
	if f.From != nil {
		sb.WriteString(" AND c.created_at >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		sb.WriteString(" AND c.created_at <= ?")
		args = append(args, *f.To)
	}
	if f.TierID != nil {
		sb.WriteString(" AND c.tier_id = ?")
		args = append(args, *f.TierID)
	}
	return sb.String(), args
}

func (r *Repo) CustomerStatistics(ctx context.Context, f domain.StatsFilter) (domain.Statistics, error) {
	clause, args := statsFilterClause(f)
	var stats domain.Statistics

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(detailedStatsSQL, clause), args...)
	if err != nil {
		return domain.Statistics{}, storageErr("detailed stats", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g domain.GroupStat
		var country sql.NullString
		if err := rows.Scan(&g.TierID, &g.TierName, &country, &g.TotalUsers, &g.TotalPoints, &g.TotalNights); err != nil {
			return domain.Statistics{}, storageErr("scan detailed stats", err)
		}
		if country.Valid {
			cy := country.String
			g.Country = &cy
		}
		stats.Detailed = append(stats.Detailed, g)
	}
	if err := rows.Err(); err != nil {
		return domain.Statistics{}, storageErr("detailed stats", err)
	}

	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(overallStatsSQL, clause), args...).
		Scan(&stats.Overall.TotalUsers, &stats.Overall.TotalPoints, &stats.Overall.TotalNights); err != nil {
		return domain.Statistics{}, storageErr("overall stats", err)
	}

	tierRows, err := r.db.QueryContext(ctx, fmt.Sprintf(byTierStatsSQL, clause), args...)
	if err != nil {
		return domain.Statistics{}, storageErr("tier stats", err)
	}
	defer tierRows.Close()
	for tierRows.Next() {
		var t domain.TierStat
		if err := tierRows.Scan(&t.TierID, &t.TierName, &t.TotalUsers, &t.TotalPoints, &t.TotalNights); err != nil {
			return domain.Statistics{}, storageErr("scan tier stats", err)
		}
		stats.ByTier = append(stats.ByTier, t)
	}
	if err := tierRows.Err(); err != nil {
		return domain.Statistics{}, storageErr("tier stats", err)
	}

	countryRows, err := r.db.QueryContext(ctx, fmt.Sprintf(byCountryStatsSQL, clause), args...)
	if err != nil {
		return domain.Statistics{}, storageErr("country stats", err)
	}
	defer countryRows.Close()
	for countryRows.Next() {
		var cs domain.CountryStat
		var country sql.NullString
		if err := countryRows.Scan(&country, &cs.TotalUsers); err != nil {
			return domain.Statistics{}, storageErr("scan country stats", err)
		}
		if country.Valid {
			cy := country.String
			cs.Country = &cy
		}
		stats.ByCountry = append(stats.ByCountry, cs)
	}
	if err := countryRows.Err(); err != nil {
		return domain.Statistics{}, storageErr("country stats", err)
	}

	return stats, nil
}
