package repository

import (
	"context"
	"strconv"
	"strings"

	commissiondomain "github.com/naxum/tsa-backend/internal/commission/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() commissiondomain.Repository {
	return &repo{}
}

// The category joins are filtered LEFT JOINs so absence of a row encodes
// "referrer is not a distributor" / "purchaser is not a customer".
const orderJoins = `
FROM orders o
JOIN users p ON p.id = o.purchaser_id
LEFT JOIN users r ON r.id = p.referred_by
LEFT JOIN user_category uc_ref ON uc_ref.user_id = r.id AND uc_ref.category_id = ?
LEFT JOIN user_category uc_pur ON uc_pur.user_id = p.id AND uc_pur.category_id = ?`

const orderSelect = `
SELECT o.id AS order_id,
       o.invoice_number,
       o.order_date,
       p.id AS purchaser_id,
       p.first_name || ' ' || p.last_name AS purchaser_name,
       r.id AS referrer_id,
       r.first_name || ' ' || r.last_name AS referrer_name,
       CASE WHEN uc_ref.user_id IS NOT NULL THEN 1 ELSE 0 END AS referrer_is_distributor,
       CASE WHEN uc_pur.user_id IS NOT NULL THEN 1 ELSE 0 END AS purchaser_is_customer`

func (r *repo) FindOrders(ctx context.Context, db *gorm.DB, filter commissiondomain.Filter, categories commissiondomain.CategoryIDs, limit, offset int) ([]commissiondomain.OrderHeader, error) {
	where, args := buildPredicates(filter, categories)

	sql := orderSelect + orderJoins + where +
		` ORDER BY o.order_date DESC, o.invoice_number ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var headers []commissiondomain.OrderHeader
	if err := db.WithContext(ctx).Raw(sql, args...).Scan(&headers).Error; err != nil {
		return nil, err
	}
	return headers, nil
}

func (r *repo) CountOrders(ctx context.Context, db *gorm.DB, filter commissiondomain.Filter, categories commissiondomain.CategoryIDs) (int64, error) {
	where, args := buildPredicates(filter, categories)

	var count int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(*)`+orderJoins+where, args...).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func buildPredicates(filter commissiondomain.Filter, categories commissiondomain.CategoryIDs) (string, []interface{}) {
	args := []interface{}{categories.Distributor, categories.Customer}
	var clauses []string

	if distributor := strings.TrimSpace(filter.Distributor); distributor != "" {
		pattern := "%" + strings.ToLower(distributor) + "%"
		if id, err := strconv.ParseInt(distributor, 10, 64); err == nil {
			clauses = append(clauses, `((r.id = ? OR LOWER(r.first_name) LIKE ? OR LOWER(r.last_name) LIKE ?) AND uc_ref.user_id IS NOT NULL)`)
			args = append(args, id, pattern, pattern)
		} else {
			clauses = append(clauses, `((LOWER(r.first_name) LIKE ? OR LOWER(r.last_name) LIKE ?) AND uc_ref.user_id IS NOT NULL)`)
			args = append(args, pattern, pattern)
		}
	}
	if filter.DateFrom != nil {
		clauses = append(clauses, `o.order_date >= ?`)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		clauses = append(clauses, `o.order_date <= ?`)
		args = append(args, *filter.DateTo)
	}
	if invoice := strings.TrimSpace(filter.Invoice); invoice != "" {
		clauses = append(clauses, `LOWER(o.invoice_number) LIKE ?`)
		args = append(args, "%"+strings.ToLower(invoice)+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
