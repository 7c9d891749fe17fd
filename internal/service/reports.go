package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"salimco/pos/internal/domain"
	"salimco/pos/internal/report"
)

type ReportKind string

const (
	ReportDaily   ReportKind = "daily"
	ReportDebts   ReportKind = "debts"
	ReportMedGulf ReportKind = "medgulf"
)

func (k ReportKind) DisplayName() string {
	if k == ReportMedGulf {
		return "MedGulf"
	}
	return string(k)
}

// GeneratedReport is a report file ready to be sent.
type GeneratedReport struct {
	Path        string
	FileName    string
	ContentType string
}

// GenerateReport builds and saves a report. period is a day (YYYY-MM-DD) for
// the daily report and a month (YYYY-MM) otherwise; empty means the current
// one.
func (s *Service) GenerateReport(ctx context.Context, kind ReportKind, period string, format report.Format) (GeneratedReport, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return GeneratedReport{}, err
	}
	period, err := s.resolvePeriod(kind, period)
	if err != nil {
		return GeneratedReport{}, err
	}

	out, err := s.generate(ctx, kind, period, format)
	s.metrics.ReportGenerated(string(kind), err)
	if err != nil {
		s.log(ctx).Error("report generation failed", zap.String("report", string(kind)), zap.String("period", period), zap.Error(err))
		return GeneratedReport{}, &ReportGenerationError{Report: kind.DisplayName(), Err: err}
	}

	if err := s.archiver.Archive(ctx, period, out.Path); err != nil {
		s.log(ctx).Warn("report archive failed",
			zap.String("archiver", s.archiver.Name()),
			zap.String("path", out.Path),
			zap.Error(err),
		)
	}
	s.log(ctx).Info("report generated", zap.String("report", string(kind)), zap.String("path", out.Path))
	return out, nil
}

func (s *Service) generate(ctx context.Context, kind ReportKind, period string, format report.Format) (GeneratedReport, error) {
	var doc report.Document
	switch kind {
	case ReportDaily:
		ledgers := make(map[domain.LedgerKind][]domain.LedgerRecord, len(domain.LedgerKinds))
		for _, ledger := range domain.LedgerKinds {
			records, err := s.repo.QueryLedger(ctx, ledger, domain.LedgerFilter{Day: period})
			if err != nil {
				return GeneratedReport{}, fmt.Errorf("query %s ledger: %w", ledger, err)
			}
			ledgers[ledger] = records
		}
		doc = s.reports.Daily(period, ledgers[domain.LedgerCash], ledgers[domain.LedgerCredit], ledgers[domain.LedgerMedGulf]).Document()
	case ReportDebts:
		records, err := s.repo.QueryLedger(ctx, domain.LedgerCredit, domain.LedgerFilter{BillingPeriod: period, Order: domain.OrderByCustomer})
		if err != nil {
			return GeneratedReport{}, fmt.Errorf("query credit ledger: %w", err)
		}
		doc = s.reports.Debts(period, records).Document()
	case ReportMedGulf:
		records, err := s.repo.QueryLedger(ctx, domain.LedgerMedGulf, domain.LedgerFilter{BillingPeriod: period})
		if err != nil {
			return GeneratedReport{}, fmt.Errorf("query medgulf ledger: %w", err)
		}
		doc = s.reports.Insurer(period, records).Document()
	default:
		return GeneratedReport{}, fmt.Errorf("unknown report %q", kind)
	}

	path, err := report.Save(s.reportsDir, doc, format)
	if err != nil {
		return GeneratedReport{}, err
	}
	return GeneratedReport{
		Path:        path,
		FileName:    fmt.Sprintf("%s.%s", doc.FileName, format),
		ContentType: format.ContentType(),
	}, nil
}

func (s *Service) resolvePeriod(kind ReportKind, period string) (string, error) {
	layout := domain.PeriodLayout
	if kind == ReportDaily {
		layout = domain.DayLayout
	}
	if period == "" {
		return s.now().Format(layout), nil
	}
	if _, err := time.Parse(layout, period); err != nil {
		return "", invalid("Invalid report period %q", period)
	}
	return period, nil
}
