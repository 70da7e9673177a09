package persistence

// DimTable declares one dimension table: where its natural key and surrogate
// key live, plus the optional display-name column that defaults to the
// natural key when a document gives no name.
type DimTable struct {
	Name       string
	KeyColumn  string
	CodeColumn string
	NameColumn string
}

var (
	DimCountry         = DimTable{Name: "dim_country", KeyColumn: "country_key", CodeColumn: "code", NameColumn: "name"}
	DimCompany         = DimTable{Name: "dim_company", KeyColumn: "company_key", CodeColumn: "code", NameColumn: "name"}
	DimBranch          = DimTable{Name: "dim_branch", KeyColumn: "branch_key", CodeColumn: "code", NameColumn: "name"}
	DimDepartment      = DimTable{Name: "dim_department", KeyColumn: "department_key", CodeColumn: "code", NameColumn: "name"}
	DimEventType       = DimTable{Name: "dim_event_type", KeyColumn: "event_type_key", CodeColumn: "code", NameColumn: "description"}
	DimActionPurpose   = DimTable{Name: "dim_action_purpose", KeyColumn: "action_purpose_key", CodeColumn: "code", NameColumn: "description"}
	DimUser            = DimTable{Name: "dim_user", KeyColumn: "user_key", CodeColumn: "code", NameColumn: "name"}
	DimEnterprise      = DimTable{Name: "dim_enterprise", KeyColumn: "enterprise_key", CodeColumn: "enterprise_id"}
	DimServer          = DimTable{Name: "dim_server", KeyColumn: "server_key", CodeColumn: "server_id"}
	DimDataProvider    = DimTable{Name: "dim_data_provider", KeyColumn: "data_provider_key", CodeColumn: "provider_code"}
	DimCurrency        = DimTable{Name: "dim_currency", KeyColumn: "currency_key", CodeColumn: "code", NameColumn: "description"}
	DimAccountGroup    = DimTable{Name: "dim_account_group", KeyColumn: "account_group_key", CodeColumn: "code", NameColumn: "description"}
	DimOrganization    = DimTable{Name: "dim_organization", KeyColumn: "organization_key", CodeColumn: "organization_code", NameColumn: "company_name"}
	DimPort            = DimTable{Name: "dim_port", KeyColumn: "port_key", CodeColumn: "code", NameColumn: "name"}
	DimServiceLevel    = DimTable{Name: "dim_service_level", KeyColumn: "service_level_key", CodeColumn: "code", NameColumn: "description"}
	DimUnit            = DimTable{Name: "dim_unit", KeyColumn: "unit_key", CodeColumn: "code", NameColumn: "description"}
	DimPaymentMethod   = DimTable{Name: "dim_payment_method", KeyColumn: "payment_method_key", CodeColumn: "code", NameColumn: "description"}
	DimContainerMode   = DimTable{Name: "dim_container_mode", KeyColumn: "container_mode_key", CodeColumn: "code", NameColumn: "description"}
	DimScreeningStatus = DimTable{Name: "dim_screening_status", KeyColumn: "screening_status_key", CodeColumn: "code", NameColumn: "description"}
	DimCo2eStatus      = DimTable{Name: "dim_co2e_status", KeyColumn: "co2e_status_key", CodeColumn: "code", NameColumn: "description"}
	DimRecipientRole   = DimTable{Name: "dim_recipient_role", KeyColumn: "recipient_role_key", CodeColumn: "code", NameColumn: "description"}
	DimChargeCode      = DimTable{Name: "dim_charge_code", KeyColumn: "charge_code_key", CodeColumn: "code", NameColumn: "description"}
	DimEventCode       = DimTable{Name: "dim_event_code", KeyColumn: "event_code_key", CodeColumn: "code", NameColumn: "description"}
	DimCommodity       = DimTable{Name: "dim_commodity", KeyColumn: "commodity_key", CodeColumn: "code", NameColumn: "description"}
	DimContainerType   = DimTable{Name: "dim_container_type", KeyColumn: "container_type_key", CodeColumn: "code", NameColumn: "description"}
	DimDateType        = DimTable{Name: "dim_date_type", KeyColumn: "date_type_key", CodeColumn: "code", NameColumn: "description"}
	DimShipmentType    = DimTable{Name: "dim_shipment_type", KeyColumn: "shipment_type_key", CodeColumn: "code", NameColumn: "description"}
	DimReleaseType     = DimTable{Name: "dim_release_type", KeyColumn: "release_type_key", CodeColumn: "code", NameColumn: "description"}
	DimPackType        = DimTable{Name: "dim_pack_type", KeyColumn: "pack_type_key", CodeColumn: "code", NameColumn: "description"}
	DimNoteContext     = DimTable{Name: "dim_note_context", KeyColumn: "note_context_key", CodeColumn: "code", NameColumn: "description"}
	DimVisibility      = DimTable{Name: "dim_visibility", KeyColumn: "visibility_key", CodeColumn: "code", NameColumn: "description"}
	DimCarrier         = DimTable{Name: "dim_carrier", KeyColumn: "carrier_key", CodeColumn: "code", NameColumn: "name"}
)
