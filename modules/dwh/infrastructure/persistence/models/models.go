package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ARTransaction is the header fact row of one transaction-family document,
// keyed naturally by Number.
type ARTransaction struct {
	Number string

	CompanyKey       *int64
	BranchKey        *int64
	DepartmentKey    *int64
	EventTypeKey     *int64
	ActionPurposeKey *int64
	UserKey          *int64
	EnterpriseKey    *int64
	ServerKey        *int64
	DataProviderKey  *int64
	AccountGroupKey  *int64
	LocalCurrencyKey *int64
	OSCurrencyKey    *int64
	OrganizationKey  *int64
	JobDimKey        *int64

	TransactionDateKey *int
	PostDateKey        *int
	DueDateKey         *int
	TriggerDateKey     *int

	DataSourceType              string
	DataSourceKey               string
	Ledger                      string
	Category                    string
	InvoiceTerm                 string
	InvoiceTermDays             *int
	JobInvoiceNumber            string
	CheckDrawer                 string
	CheckNumberOrPaymentRef     string
	DrawerBank                  string
	DrawerBranch                string
	ReceiptOrDirectDebitNumber  string
	RequisitionStatus           string
	TransactionReference        string
	TransactionType             string
	AgreedPaymentMethod         string
	ComplianceSubType           string
	CreateTimeText              string
	CreateUser                  string
	EventReference              string
	TimestampText               string
	TriggerCount                *int
	TriggerDescription          string
	TriggerType                 string
	NumberOfSupportingDocuments *int
	PlaceOfIssueText            string

	LocalExVATAmount           decimal.NullDecimal
	LocalVATAmount             decimal.NullDecimal
	LocalTaxTransactionsAmount decimal.NullDecimal
	LocalTotal                 decimal.NullDecimal
	OSExGSTVATAmount           decimal.NullDecimal
	OSGSTVATAmount             decimal.NullDecimal
	OSTaxTransactionsAmount    decimal.NullDecimal
	OSTotal                    decimal.NullDecimal
	OutstandingAmount          decimal.NullDecimal
	ExchangeRate               decimal.NullDecimal

	IsCancelled                *bool
	IsCreatedByMatchingProcess *bool
	IsPrinted                  *bool
}

// Shipment is the header fact row for one shipment, keyed naturally by the
// job dimension key. Source records which family last described the header.
type Shipment struct {
	ShipmentJobKey *int64
	ConsolJobKey   *int64
	Source         string

	CompanyKey       *int64
	BranchKey        *int64
	DepartmentKey    *int64
	EventTypeKey     *int64
	ActionPurposeKey *int64
	UserKey          *int64
	EnterpriseKey    *int64
	ServerKey        *int64
	DataProviderKey  *int64
	TriggerDateKey   *int

	PlaceOfDeliveryKey     *int64
	PlaceOfIssueKey        *int64
	PlaceOfReceiptKey      *int64
	PortFirstForeignKey    *int64
	PortLastForeignKey     *int64
	PortOfDischargeKey     *int64
	PortOfFirstArrivalKey  *int64
	PortOfLoadingKey       *int64
	EventBranchHomePortKey *int64

	AWBServiceLevelKey     *int64
	GatewayServiceLevelKey *int64
	ShipmentTypeKey        *int64
	ReleaseTypeKey         *int64
	ScreeningStatusKey     *int64
	PaymentMethodKey       *int64
	FreightRateCurrencyKey *int64
	ContainerModeKey       *int64
	Co2eStatusKey          *int64
	Co2eUnitKey            *int64
	TotalVolumeUnitKey     *int64
	TotalWeightUnitKey     *int64
	PacksUnitKey           *int64

	ContainerCount  *int
	NoCopyBills     *int
	NoOriginalBills *int
	OuterPacks      *int
	TotalNoOfPacks  *int

	ChargeableRate                decimal.NullDecimal
	DocumentedChargeable          decimal.NullDecimal
	DocumentedVolume              decimal.NullDecimal
	DocumentedWeight              decimal.NullDecimal
	FreightRate                   decimal.NullDecimal
	GreenhouseGasEmissionCO2e     decimal.NullDecimal
	ManifestedChargeable          decimal.NullDecimal
	ManifestedVolume              decimal.NullDecimal
	ManifestedWeight              decimal.NullDecimal
	MaximumAllowablePackageHeight decimal.NullDecimal
	MaximumAllowablePackageLength decimal.NullDecimal
	MaximumAllowablePackageWidth  decimal.NullDecimal
	TotalPreallocatedChargeable   decimal.NullDecimal
	TotalPreallocatedVolume       decimal.NullDecimal
	TotalPreallocatedWeight       decimal.NullDecimal
	TotalVolume                   decimal.NullDecimal
	TotalWeight                   decimal.NullDecimal

	IsCFSRegistered            *bool
	IsDirectBooking            *bool
	IsForwardRegistered        *bool
	IsHazardous                *bool
	IsNeutralMaster            *bool
	RequiresTemperatureControl *bool
}

// SubShipment belongs to one shipment fact; Source records which family
// created it so fallback rows can be superseded wholesale.
type SubShipment struct {
	FactShipmentKey int64
	JobDimKey       *int64
	Source          string

	ShipmentTypeKey    *int64
	ServiceLevelKey    *int64
	PortOfLoadingKey   *int64
	PortOfDischargeKey *int64
	WeightUnitKey      *int64
	VolumeUnitKey      *int64
	TotalWeight        decimal.NullDecimal
	TotalVolume        decimal.NullDecimal
}

type TransportLeg struct {
	PortOfLoadingKey   *int64
	PortOfDischargeKey *int64
	CarrierKey         *int64
	TransportMode      string
	VesselName         string
	VesselLloydsIMO    string
	VoyageFlightNo     string
	LegOrder           int
	BookingStatus      string

	ActualArrival      string
	ActualDeparture    string
	EstimatedArrival   string
	EstimatedDeparture string
	ScheduledArrival   string
	ScheduledDeparture string

	ActualArrivalDateKey   *int
	ActualDepartureDateKey *int
}

type Charge struct {
	BranchKey     *int64
	DepartmentKey *int64
	ChargeCodeKey *int64
	ChargeGroup   string
	Description   string
	CurrencyKey   *int64
	CostAmount    decimal.NullDecimal
	SellAmount    decimal.NullDecimal
	SupplierCode  string
	CustomerCode  string
	InvoiceNumber string
}

type Container struct {
	ContainerNumber  string
	ContainerTypeKey *int64
	FCLOrLCLKey      *int64
	SealNumber       string
	DeliveryMode     string
	GrossWeight      decimal.NullDecimal
	TareWeight       decimal.NullDecimal
	WeightUnitKey    *int64
}

type PackingLine struct {
	LineNumber       int
	PackTypeKey      *int64
	PackQty          *int
	GoodsDescription string
	CommodityKey     *int64
	MarksAndNumbers  string
	Weight           decimal.NullDecimal
	WeightUnitKey    *int64
	Volume           decimal.NullDecimal
	VolumeUnitKey    *int64
	ReferenceNumber  string
	ContainerNumber  string
}

type DatedEvent struct {
	DateTypeKey  *int64
	DateKey      *int
	DateTimeText string
	IsEstimate   *bool
	Value        string
}

type Exception struct {
	Code             string
	ExceptionType    string
	Severity         string
	Status           string
	Description      string
	RaisedDateText   string
	RaisedDateKey    *int
	ResolvedDateText string
}

type Milestone struct {
	EventCodeKey       *int64
	Description        string
	Sequence           int
	ActualDateText     string
	EstimatedDateText  string
	ConditionReference string
	ConditionType      string
}

type Note struct {
	Description    string
	NoteText       string
	NoteContextKey *int64
	VisibilityKey  *int64
}

type Posting struct {
	BranchKey         *int64
	DepartmentKey     *int64
	AccountGroupKey   *int64
	ChargeCodeKey     *int64
	Description       string
	CurrencyKey       *int64
	LocalAmount       decimal.NullDecimal
	OSAmount          decimal.NullDecimal
	TransactionType   string
	TransactionNumber string
	PostDateText      string
	PostDateKey       *int
}

// FileIngestion is one ledger row per distinct source file name.
type FileIngestion struct {
	FileName  string
	Source    string
	DateKey   int
	TimeOfDay string
	RunID     string
	LoadedAt  time.Time
}
