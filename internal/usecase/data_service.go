package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

// DataService reads raw dataset rows for the data endpoint.
type DataService struct {
	source dataset.Source
}

func NewDataService(source dataset.Source) *DataService {
	return &DataService{source: source}
}

func (s *DataService) Rows(ctx context.Context, file string) ([]dataset.RawRow, error) {
	ctx, span := startSpan(ctx, "usecase.DataService.Rows", attribute.String("afl.file", file))
	defer span.End()

	return s.source.Fetch(ctx, strings.TrimSpace(file))
}
