package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
	"github.com/iota-uz/freight-dwh/pkg/composables"
)

// FactRepository owns the header fact tables and the insert-if-absent bridge
// tables hanging off them. All statements run on the transaction carried in
// the context.
type FactRepository struct {
	log *logrus.Logger
}

func NewFactRepository(log *logrus.Logger) *FactRepository {
	return &FactRepository{log: log}
}

// UpsertARTransaction writes one transaction header keyed by its invoice
// number: update every descriptive column when the row exists, insert
// otherwise. Returns the surrogate key either way.
func (r *FactRepository) UpsertARTransaction(ctx context.Context, row *models.ARTransaction) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	cols, vals := arTransactionColumns(row)

	sets := make([]string, 0, len(cols)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+1))
	}
	sets = append(sets, "updated_at = now()")
	args := append(append([]any{}, vals...), row.Number)
	_, err = tx.Exec(ctx,
		fmt.Sprintf(`UPDATE fact_ar_transaction SET %s WHERE number = $%d`, strings.Join(sets, ", "), len(args)),
		args...,
	)
	if err != nil {
		return 0, err
	}

	var key int64
	err = tx.QueryRow(ctx, `SELECT fact_ar_transaction_key FROM fact_ar_transaction WHERE number = $1`, row.Number).Scan(&key)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	insertCols := append([]string{"number"}, cols...)
	placeholders := make([]string, len(insertCols))
	for i := range insertCols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	args = append([]any{row.Number}, vals...)
	err = tx.QueryRow(ctx,
		fmt.Sprintf(
			`INSERT INTO fact_ar_transaction (%s) VALUES (%s) RETURNING fact_ar_transaction_key`,
			strings.Join(insertCols, ", "), strings.Join(placeholders, ", "),
		),
		args...,
	).Scan(&key)
	if err != nil {
		return 0, err
	}
	return key, nil
}

// FindShipmentByJob looks up a shipment header by its job dimension key and
// reports which family last wrote it.
func (r *FactRepository) FindShipmentByJob(ctx context.Context, jobDimKey int64) (int64, string, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, "", false, err
	}
	var (
		key    int64
		source string
	)
	err = tx.QueryRow(ctx,
		`SELECT fact_shipment_key, source FROM fact_shipment WHERE shipment_job_key = $1`,
		jobDimKey,
	).Scan(&key, &source)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, err
	}
	return key, source, true, nil
}

// InsertShipment always creates a new header row. Rows without a job key are
// inserted unconditionally; the duplicate accumulation that results is
// accepted rather than guessed around.
func (r *FactRepository) InsertShipment(ctx context.Context, row *models.Shipment) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	cols, vals := shipmentColumns(row)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	var key int64
	err = tx.QueryRow(ctx,
		fmt.Sprintf(
			`INSERT INTO fact_shipment (%s) VALUES (%s) RETURNING fact_shipment_key`,
			strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		),
		vals...,
	).Scan(&key)
	if err != nil {
		return 0, err
	}
	return key, nil
}

// UpdateShipment overwrites every descriptive column of an existing header,
// including the source marker.
func (r *FactRepository) UpdateShipment(ctx context.Context, key int64, row *models.Shipment) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	cols, vals := shipmentColumns(row)
	sets := make([]string, 0, len(cols)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+1))
	}
	sets = append(sets, "updated_at = now()")
	args := append(append([]any{}, vals...), key)
	_, err = tx.Exec(ctx,
		fmt.Sprintf(`UPDATE fact_shipment SET %s WHERE fact_shipment_key = $%d`, strings.Join(sets, ", "), len(args)),
		args...,
	)
	return err
}

// DeleteSubShipments removes every sub-shipment of one header written by the
// given family. Child rows hanging off the sub-shipments go with them via
// cascade.
func (r *FactRepository) DeleteSubShipments(ctx context.Context, shipmentKey int64, source string) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := tx.Exec(ctx,
		`DELETE FROM fact_sub_shipment WHERE fact_shipment_key = $1 AND source = $2`,
		shipmentKey, source,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *FactRepository) InsertSubShipment(ctx context.Context, row *models.SubShipment) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var key int64
	err = tx.QueryRow(ctx,
		`INSERT INTO fact_sub_shipment (
			fact_shipment_key, job_dim_key, source,
			shipment_type_key, service_level_key,
			port_of_loading_key, port_of_discharge_key,
			total_weight, weight_unit_key, total_volume, volume_unit_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING fact_sub_shipment_key`,
		row.FactShipmentKey, row.JobDimKey, row.Source,
		row.ShipmentTypeKey, row.ServiceLevelKey,
		row.PortOfLoadingKey, row.PortOfDischargeKey,
		row.TotalWeight, row.WeightUnitKey, row.TotalVolume, row.VolumeUnitKey,
	).Scan(&key)
	if err != nil {
		return 0, err
	}
	return key, nil
}

// EnsureFallbackSubShipment creates a minimal fallback sub-shipment for an
// embedded sub-job unless that job already has one. Reports whether a row was
// written.
func (r *FactRepository) EnsureFallbackSubShipment(ctx context.Context, shipmentKey, jobDimKey int64) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx,
		`INSERT INTO fact_sub_shipment (fact_shipment_key, job_dim_key, source)
		 SELECT $1, $2, 'AR'
		 WHERE NOT EXISTS (
			SELECT 1 FROM fact_sub_shipment
			WHERE fact_shipment_key = $1 AND job_dim_key = $2
		 )`,
		shipmentKey, jobDimKey,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// LinkAROrganization attaches an organization to a transaction under one
// address type. Re-linking the same triple is a no-op.
func (r *FactRepository) LinkAROrganization(ctx context.Context, arKey, orgKey int64, addressType string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO bridge_fact_ar_organization (fact_ar_transaction_key, organization_key, address_type)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (fact_ar_transaction_key, organization_key, address_type) DO NOTHING`,
		arKey, orgKey, addressType,
	)
	return err
}

func (r *FactRepository) LinkShipmentOrganization(ctx context.Context, shipmentKey, orgKey int64, addressType string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO bridge_fact_shipment_organization (fact_shipment_key, organization_key, address_type)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (fact_shipment_key, organization_key, address_type) DO NOTHING`,
		shipmentKey, orgKey, addressType,
	)
	return err
}

func (r *FactRepository) InsertARMessageNumber(ctx context.Context, arKey int64, numberType, value string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO fact_ar_message_number (fact_ar_transaction_key, number_type, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (fact_ar_transaction_key, number_type, value) DO NOTHING`,
		arKey, numberType, value,
	)
	return err
}

func (r *FactRepository) LinkARRecipientRole(ctx context.Context, arKey, roleKey int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO bridge_fact_ar_recipient_role (fact_ar_transaction_key, recipient_role_key)
		 VALUES ($1, $2)
		 ON CONFLICT (fact_ar_transaction_key, recipient_role_key) DO NOTHING`,
		arKey, roleKey,
	)
	return err
}

// RecordRegistrationNumber stores one registration number observed on an
// organization address. Duplicates across files are ignored.
func (r *FactRepository) RecordRegistrationNumber(ctx context.Context, orgKey int64, addressType, numberType, countryCode, value string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO org_registration_number (organization_key, address_type, number_type, country_code, value)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (organization_key, address_type, number_type, value) DO NOTHING`,
		orgKey, addressType, numberType, countryCode, value,
	)
	return err
}

func arTransactionColumns(row *models.ARTransaction) ([]string, []any) {
	return []string{
			"company_key", "branch_key", "department_key",
			"event_type_key", "action_purpose_key", "user_key",
			"enterprise_key", "server_key", "data_provider_key",
			"account_group_key", "local_currency_key", "os_currency_key",
			"organization_key", "job_dim_key",
			"transaction_date_key", "post_date_key", "due_date_key", "trigger_date_key",
			"data_source_type", "data_source_key", "ledger", "category",
			"invoice_term", "invoice_term_days", "job_invoice_number",
			"check_drawer", "check_number_or_payment_ref", "drawer_bank", "drawer_branch",
			"receipt_or_direct_debit_number", "requisition_status",
			"transaction_reference", "transaction_type", "agreed_payment_method",
			"compliance_sub_type", "create_time", "create_user",
			"event_reference", "timestamp_text",
			"trigger_count", "trigger_description", "trigger_type",
			"number_of_supporting_documents", "place_of_issue_text",
			"local_ex_vat_amount", "local_vat_amount", "local_tax_transactions_amount", "local_total",
			"os_ex_gst_vat_amount", "os_gst_vat_amount", "os_tax_transactions_amount", "os_total",
			"outstanding_amount", "exchange_rate",
			"is_cancelled", "is_created_by_matching_process", "is_printed",
		}, []any{
			row.CompanyKey, row.BranchKey, row.DepartmentKey,
			row.EventTypeKey, row.ActionPurposeKey, row.UserKey,
			row.EnterpriseKey, row.ServerKey, row.DataProviderKey,
			row.AccountGroupKey, row.LocalCurrencyKey, row.OSCurrencyKey,
			row.OrganizationKey, row.JobDimKey,
			row.TransactionDateKey, row.PostDateKey, row.DueDateKey, row.TriggerDateKey,
			nullStr(row.DataSourceType), nullStr(row.DataSourceKey), nullStr(row.Ledger), nullStr(row.Category),
			nullStr(row.InvoiceTerm), row.InvoiceTermDays, nullStr(row.JobInvoiceNumber),
			nullStr(row.CheckDrawer), nullStr(row.CheckNumberOrPaymentRef), nullStr(row.DrawerBank), nullStr(row.DrawerBranch),
			nullStr(row.ReceiptOrDirectDebitNumber), nullStr(row.RequisitionStatus),
			nullStr(row.TransactionReference), nullStr(row.TransactionType), nullStr(row.AgreedPaymentMethod),
			nullStr(row.ComplianceSubType), nullStr(row.CreateTimeText), nullStr(row.CreateUser),
			nullStr(row.EventReference), nullStr(row.TimestampText),
			row.TriggerCount, nullStr(row.TriggerDescription), nullStr(row.TriggerType),
			row.NumberOfSupportingDocuments, nullStr(row.PlaceOfIssueText),
			row.LocalExVATAmount, row.LocalVATAmount, row.LocalTaxTransactionsAmount, row.LocalTotal,
			row.OSExGSTVATAmount, row.OSGSTVATAmount, row.OSTaxTransactionsAmount, row.OSTotal,
			row.OutstandingAmount, row.ExchangeRate,
			row.IsCancelled, row.IsCreatedByMatchingProcess, row.IsPrinted,
		}
}

func shipmentColumns(row *models.Shipment) ([]string, []any) {
	return []string{
			"shipment_job_key", "consol_job_key", "source",
			"company_key", "branch_key", "department_key",
			"event_type_key", "action_purpose_key", "user_key",
			"enterprise_key", "server_key", "data_provider_key", "trigger_date_key",
			"place_of_delivery_key", "place_of_issue_key", "place_of_receipt_key",
			"port_first_foreign_key", "port_last_foreign_key",
			"port_of_discharge_key", "port_of_first_arrival_key", "port_of_loading_key",
			"event_branch_home_port_key",
			"awb_service_level_key", "gateway_service_level_key",
			"shipment_type_key", "release_type_key", "screening_status_key",
			"payment_method_key", "freight_rate_currency_key", "container_mode_key",
			"co2e_status_key", "co2e_unit_key",
			"total_volume_unit_key", "total_weight_unit_key", "packs_unit_key",
			"container_count", "no_copy_bills", "no_original_bills", "outer_packs", "total_no_of_packs",
			"chargeable_rate", "documented_chargeable", "documented_volume", "documented_weight",
			"freight_rate", "greenhouse_gas_emission_co2e",
			"manifested_chargeable", "manifested_volume", "manifested_weight",
			"maximum_allowable_package_height", "maximum_allowable_package_length", "maximum_allowable_package_width",
			"total_preallocated_chargeable", "total_preallocated_volume", "total_preallocated_weight",
			"total_volume", "total_weight",
			"is_cfs_registered", "is_direct_booking", "is_forward_registered",
			"is_hazardous", "is_neutral_master", "requires_temperature_control",
		}, []any{
			row.ShipmentJobKey, row.ConsolJobKey, row.Source,
			row.CompanyKey, row.BranchKey, row.DepartmentKey,
			row.EventTypeKey, row.ActionPurposeKey, row.UserKey,
			row.EnterpriseKey, row.ServerKey, row.DataProviderKey, row.TriggerDateKey,
			row.PlaceOfDeliveryKey, row.PlaceOfIssueKey, row.PlaceOfReceiptKey,
			row.PortFirstForeignKey, row.PortLastForeignKey,
			row.PortOfDischargeKey, row.PortOfFirstArrivalKey, row.PortOfLoadingKey,
			row.EventBranchHomePortKey,
			row.AWBServiceLevelKey, row.GatewayServiceLevelKey,
			row.ShipmentTypeKey, row.ReleaseTypeKey, row.ScreeningStatusKey,
			row.PaymentMethodKey, row.FreightRateCurrencyKey, row.ContainerModeKey,
			row.Co2eStatusKey, row.Co2eUnitKey,
			row.TotalVolumeUnitKey, row.TotalWeightUnitKey, row.PacksUnitKey,
			row.ContainerCount, row.NoCopyBills, row.NoOriginalBills, row.OuterPacks, row.TotalNoOfPacks,
			row.ChargeableRate, row.DocumentedChargeable, row.DocumentedVolume, row.DocumentedWeight,
			row.FreightRate, row.GreenhouseGasEmissionCO2e,
			row.ManifestedChargeable, row.ManifestedVolume, row.ManifestedWeight,
			row.MaximumAllowablePackageHeight, row.MaximumAllowablePackageLength, row.MaximumAllowablePackageWidth,
			row.TotalPreallocatedChargeable, row.TotalPreallocatedVolume, row.TotalPreallocatedWeight,
			row.TotalVolume, row.TotalWeight,
			row.IsCFSRegistered, row.IsDirectBooking, row.IsForwardRegistered,
			row.IsHazardous, row.IsNeutralMaster, row.RequiresTemperatureControl,
		}
}

// nullStr maps the empty string to SQL NULL so blank document fields do not
// masquerade as values.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
