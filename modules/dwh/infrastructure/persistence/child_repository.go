package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
	"github.com/iota-uz/freight-dwh/pkg/composables"
)

// Parent addresses the owning row of a child set: which foreign key column to
// scope by and which surrogate key value.
type Parent struct {
	Column string
	Key    int64
}

func ARParent(key int64) Parent       { return Parent{Column: "fact_ar_transaction_key", Key: key} }
func ShipmentParent(key int64) Parent { return Parent{Column: "fact_shipment_key", Key: key} }
func SubShipmentParent(key int64) Parent {
	return Parent{Column: "fact_sub_shipment_key", Key: key}
}

// ChildRepository replaces child fact sets wholesale. Every replace is scoped
// by both the parent key and the writing family's source marker, so one
// family never erases the other's rows.
type ChildRepository struct {
	log *logrus.Logger
}

func NewChildRepository(log *logrus.Logger) *ChildRepository {
	return &ChildRepository{log: log}
}

// replaceSet deletes the (parent, source) slice of one child table and
// reinserts the given rows. Returns rows removed and rows added.
func (r *ChildRepository) replaceSet(ctx context.Context, table string, parent Parent, source string, cols []string, rows [][]any) (int64, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, 0, err
	}

	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND source = $2`, table, parent.Column),
		parent.Key, source,
	)
	if err != nil {
		return 0, 0, err
	}
	removed := tag.RowsAffected()

	allCols := append([]string{parent.Column, "source"}, cols...)
	placeholders := make([]string, len(allCols))
	for i := range allCols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	insert := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)`,
		table, strings.Join(allCols, ", "), strings.Join(placeholders, ", "),
	)

	for _, vals := range rows {
		args := append([]any{parent.Key, source}, vals...)
		if _, err := tx.Exec(ctx, insert, args...); err != nil {
			return removed, 0, err
		}
	}

	if r.log != nil && (removed > 0 || len(rows) > 0) {
		r.log.WithFields(logrus.Fields{
			"table":   table,
			"parent":  fmt.Sprintf("%s=%d", parent.Column, parent.Key),
			"source":  source,
			"removed": removed,
			"added":   len(rows),
		}).Debug("replaced child set")
	}
	return removed, int64(len(rows)), nil
}

func (r *ChildRepository) ReplaceTransportLegs(ctx context.Context, parent Parent, source string, rows []*models.TransportLeg) (int64, int64, error) {
	cols := []string{
		"port_of_loading_key", "port_of_discharge_key", "carrier_key",
		"transport_mode", "vessel_name", "vessel_lloyds_imo", "voyage_flight_no",
		"leg_order", "booking_status",
		"actual_arrival", "actual_departure",
		"estimated_arrival", "estimated_departure",
		"scheduled_arrival", "scheduled_departure",
		"actual_arrival_date_key", "actual_departure_date_key",
	}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			m.PortOfLoadingKey, m.PortOfDischargeKey, m.CarrierKey,
			nullStr(m.TransportMode), nullStr(m.VesselName), nullStr(m.VesselLloydsIMO), nullStr(m.VoyageFlightNo),
			m.LegOrder, nullStr(m.BookingStatus),
			nullStr(m.ActualArrival), nullStr(m.ActualDeparture),
			nullStr(m.EstimatedArrival), nullStr(m.EstimatedDeparture),
			nullStr(m.ScheduledArrival), nullStr(m.ScheduledDeparture),
			m.ActualArrivalDateKey, m.ActualDepartureDateKey,
		})
	}
	return r.replaceSet(ctx, "fact_transport_leg", parent, source, cols, vals)
}

func (r *ChildRepository) ReplaceCharges(ctx context.Context, parent Parent, source string, rows []*models.Charge) (int64, int64, error) {
	cols := []string{
		"branch_key", "department_key", "charge_code_key", "charge_group",
		"description", "currency_key", "cost_amount", "sell_amount",
		"supplier_code", "customer_code", "invoice_number",
	}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			m.BranchKey, m.DepartmentKey, m.ChargeCodeKey, nullStr(m.ChargeGroup),
			nullStr(m.Description), m.CurrencyKey, m.CostAmount, m.SellAmount,
			nullStr(m.SupplierCode), nullStr(m.CustomerCode), nullStr(m.InvoiceNumber),
		})
	}
	return r.replaceSet(ctx, "fact_charge", parent, source, cols, vals)
}

func (r *ChildRepository) ReplaceContainers(ctx context.Context, parent Parent, source string, rows []*models.Container) (int64, int64, error) {
	cols := []string{
		"container_number", "container_type_key", "fcl_or_lcl_key",
		"seal_number", "delivery_mode",
		"gross_weight", "tare_weight", "weight_unit_key",
	}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			nullStr(m.ContainerNumber), m.ContainerTypeKey, m.FCLOrLCLKey,
			nullStr(m.SealNumber), nullStr(m.DeliveryMode),
			m.GrossWeight, m.TareWeight, m.WeightUnitKey,
		})
	}
	return r.replaceSet(ctx, "fact_container", parent, source, cols, vals)
}

func (r *ChildRepository) ReplacePackingLines(ctx context.Context, parent Parent, source string, rows []*models.PackingLine) (int64, int64, error) {
	cols := []string{
		"line_number", "pack_type_key", "pack_qty",
		"goods_description", "commodity_key", "marks_and_numbers",
		"weight", "weight_unit_key", "volume", "volume_unit_key",
		"reference_number", "container_number",
	}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			m.LineNumber, m.PackTypeKey, m.PackQty,
			nullStr(m.GoodsDescription), m.CommodityKey, nullStr(m.MarksAndNumbers),
			m.Weight, m.WeightUnitKey, m.Volume, m.VolumeUnitKey,
			nullStr(m.ReferenceNumber), nullStr(m.ContainerNumber),
		})
	}
	return r.replaceSet(ctx, "fact_packing_line", parent, source, cols, vals)
}

func (r *ChildRepository) ReplaceDates(ctx context.Context, parent Parent, source string, rows []*models.DatedEvent) (int64, int64, error) {
	cols := []string{"date_type_key", "date_key", "date_time", "is_estimate", "value"}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			m.DateTypeKey, m.DateKey, nullStr(m.DateTimeText), m.IsEstimate, nullStr(m.Value),
		})
	}
	return r.replaceSet(ctx, "fact_date", parent, source, cols, vals)
}

func (r *ChildRepository) ReplaceExceptions(ctx context.Context, parent Parent, source string, rows []*models.Exception) (int64, int64, error) {
	cols := []string{
		"code", "exception_type", "severity", "status", "description",
		"raised_date", "raised_date_key", "resolved_date",
	}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			nullStr(m.Code), nullStr(m.ExceptionType), nullStr(m.Severity), nullStr(m.Status), nullStr(m.Description),
			nullStr(m.RaisedDateText), m.RaisedDateKey, nullStr(m.ResolvedDateText),
		})
	}
	return r.replaceSet(ctx, "fact_exception", parent, source, cols, vals)
}

func (r *ChildRepository) ReplaceMilestones(ctx context.Context, parent Parent, source string, rows []*models.Milestone) (int64, int64, error) {
	cols := []string{
		"event_code_key", "description", "sequence",
		"actual_date", "estimated_date",
		"condition_reference", "condition_type",
	}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			m.EventCodeKey, nullStr(m.Description), m.Sequence,
			nullStr(m.ActualDateText), nullStr(m.EstimatedDateText),
			nullStr(m.ConditionReference), nullStr(m.ConditionType),
		})
	}
	return r.replaceSet(ctx, "fact_milestone", parent, source, cols, vals)
}

func (r *ChildRepository) ReplaceNotes(ctx context.Context, parent Parent, source string, rows []*models.Note) (int64, int64, error) {
	cols := []string{"description", "note_text", "note_context_key", "visibility_key"}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			nullStr(m.Description), nullStr(m.NoteText), m.NoteContextKey, m.VisibilityKey,
		})
	}
	return r.replaceSet(ctx, "fact_note", parent, source, cols, vals)
}

func (r *ChildRepository) ReplacePostings(ctx context.Context, parent Parent, source string, rows []*models.Posting) (int64, int64, error) {
	cols := []string{
		"branch_key", "department_key", "account_group_key", "charge_code_key",
		"description", "currency_key", "local_amount", "os_amount",
		"transaction_type", "transaction_number", "post_date", "post_date_key",
	}
	vals := make([][]any, 0, len(rows))
	for _, m := range rows {
		vals = append(vals, []any{
			m.BranchKey, m.DepartmentKey, m.AccountGroupKey, m.ChargeCodeKey,
			nullStr(m.Description), m.CurrencyKey, m.LocalAmount, m.OSAmount,
			nullStr(m.TransactionType), nullStr(m.TransactionNumber), nullStr(m.PostDateText), m.PostDateKey,
		})
	}
	return r.replaceSet(ctx, "fact_posting", parent, source, cols, vals)
}
