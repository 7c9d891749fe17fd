package sqlstore

import (
	"context"

	"salimco/pos/internal/domain"
)

func (s *Store) AppendLedger(ctx context.Context, record domain.LedgerRecord) (*domain.LedgerRecord, error) {
	row := newLedgerRow(record)
	if err := s.db.WithContext(ctx).Table(ledgerTable(record.Kind)).Create(&row).Error; err != nil {
		return nil, err
	}
	created := row.toDomain(record.Kind)
	return &created, nil
}

func (s *Store) QueryLedger(ctx context.Context, kind domain.LedgerKind, filter domain.LedgerFilter) ([]domain.LedgerRecord, error) {
	query := s.db.WithContext(ctx).Table(ledgerTable(kind))
	if filter.Day != "" {
		query = query.Where("sale_day = ?", filter.Day)
	}
	if filter.BillingPeriod != "" {
		query = query.Where("month_year = ?", filter.BillingPeriod)
	}
	if len(filter.LineKinds) > 0 {
		kinds := make([]string, 0, len(filter.LineKinds))
		for _, k := range filter.LineKinds {
			kinds = append(kinds, string(k))
		}
		query = query.Where("line_kind IN ?", kinds)
	}
	switch filter.Order {
	case domain.OrderByCustomer:
		query = query.Order("customer_name").Order("sale_date").Order("id")
	default:
		query = query.Order("sale_date").Order("id")
	}

	var rows []ledgerRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]domain.LedgerRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toDomain(kind))
	}
	return records, nil
}
