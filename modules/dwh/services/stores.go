package services

import (
	"context"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
)

// DimStore resolves natural keys to surrogate keys.
type DimStore interface {
	Resolve(ctx context.Context, table persistence.DimTable, code string, attrs persistence.Attributes) (int64, error)
	ResolveCodeName(ctx context.Context, table persistence.DimTable, ref domain.CodeName, extra persistence.Attributes) (int64, error)
	ResolveCodeDesc(ctx context.Context, table persistence.DimTable, ref domain.CodeDesc, extra persistence.Attributes) (int64, error)
	Lookup(ctx context.Context, table persistence.DimTable, code string) (int64, bool, error)
	ResolveJob(ctx context.Context, ref domain.JobRef) (int64, error)
}

// FactStore owns header facts and their insert-if-absent side tables.
type FactStore interface {
	UpsertARTransaction(ctx context.Context, row *models.ARTransaction) (int64, error)
	FindShipmentByJob(ctx context.Context, jobDimKey int64) (int64, string, bool, error)
	InsertShipment(ctx context.Context, row *models.Shipment) (int64, error)
	UpdateShipment(ctx context.Context, key int64, row *models.Shipment) error
	DeleteSubShipments(ctx context.Context, shipmentKey int64, source string) (int64, error)
	InsertSubShipment(ctx context.Context, row *models.SubShipment) (int64, error)
	EnsureFallbackSubShipment(ctx context.Context, shipmentKey, jobDimKey int64) (bool, error)
	LinkAROrganization(ctx context.Context, arKey, orgKey int64, addressType string) error
	LinkShipmentOrganization(ctx context.Context, shipmentKey, orgKey int64, addressType string) error
	InsertARMessageNumber(ctx context.Context, arKey int64, numberType, value string) error
	LinkARRecipientRole(ctx context.Context, arKey, roleKey int64) error
	RecordRegistrationNumber(ctx context.Context, orgKey int64, addressType, numberType, countryCode, value string) error
}

// ChildStore replaces repeatable child sets scoped by (parent, source).
type ChildStore interface {
	ReplaceTransportLegs(ctx context.Context, parent persistence.Parent, source string, rows []*models.TransportLeg) (int64, int64, error)
	ReplaceCharges(ctx context.Context, parent persistence.Parent, source string, rows []*models.Charge) (int64, int64, error)
	ReplaceContainers(ctx context.Context, parent persistence.Parent, source string, rows []*models.Container) (int64, int64, error)
	ReplacePackingLines(ctx context.Context, parent persistence.Parent, source string, rows []*models.PackingLine) (int64, int64, error)
	ReplaceDates(ctx context.Context, parent persistence.Parent, source string, rows []*models.DatedEvent) (int64, int64, error)
	ReplaceExceptions(ctx context.Context, parent persistence.Parent, source string, rows []*models.Exception) (int64, int64, error)
	ReplaceMilestones(ctx context.Context, parent persistence.Parent, source string, rows []*models.Milestone) (int64, int64, error)
	ReplaceNotes(ctx context.Context, parent persistence.Parent, source string, rows []*models.Note) (int64, int64, error)
	ReplacePostings(ctx context.Context, parent persistence.Parent, source string, rows []*models.Posting) (int64, int64, error)
}

// LedgerStore records processed source files.
type LedgerStore interface {
	Record(ctx context.Context, row *models.FileIngestion) (bool, error)
}
