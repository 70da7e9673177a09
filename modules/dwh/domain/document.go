package domain

import "github.com/shopspring/decimal"

// CodeName is a natural key plus display name, the shape most dimension
// references take in source documents.
type CodeName struct {
	Code string
	Name string
}

func (c CodeName) Empty() bool { return CleanString(c.Code) == "" }

// CodeDesc is the code/description variant used by type-like dimensions.
type CodeDesc struct {
	Code        string
	Description string
}

func (c CodeDesc) Empty() bool { return CleanString(c.Code) == "" }

// JobRef identifies a logistics job: a (type, key) pair such as
// ("ForwardingShipment", "S00123456"). It is the shipment business key.
type JobRef struct {
	Type string
	Key  string
}

func (j JobRef) Empty() bool {
	return CleanString(j.Type) == "" || CleanString(j.Key) == ""
}

// Document is the parser -> core boundary: one fully extracted source file.
// Exactly one of AR or Shipment is set, matching Source.
type Document struct {
	Source   Source
	FileName string
	Context  DataContext
	AR       *ARHeader
	Shipment *Shipment
}

// DataContext carries the event envelope shared by both families.
type DataContext struct {
	Company        CodeName
	CompanyCountry CodeName
	Branch         CodeName
	Department     CodeName
	EventType      CodeDesc
	ActionPurpose  CodeDesc
	User           CodeName
	EnterpriseID   string
	ServerID       string
	DataProvider   string
	TriggerDate    string
}

type Address struct {
	AddressType      string
	Address1         string
	Address2         string
	AddressOverride  string
	AddressShortCode string
	City             string
	State            string
	Postcode         string
	Email            string
	Fax              string
	Phone            string
	ScreeningStatus  CodeDesc
	Country          CodeName
	Port             CodeName
}

type RegistrationNumber struct {
	TypeCode           string
	TypeDescription    string
	CountryOfIssueCode string
	CountryOfIssueName string
	Value              string
}

type Organization struct {
	OrganizationCode    string
	CompanyName         string
	Address             Address
	GovRegNum           string
	GovRegNumType       CodeDesc
	RegistrationNumbers []RegistrationNumber
}

type MessageNumber struct {
	Type  string
	Value string
}

// ARHeader is the header of one transaction-family document. Number is the
// natural business key of its header fact.
type ARHeader struct {
	Number string
	Ledger string

	Category            string
	AccountGroup        CodeDesc
	LocalCurrency       CodeDesc
	OSCurrency          CodeDesc
	TransactionDateKey  int
	PostDateKey         int
	DueDateKey          int
	DataSourceType      string
	DataSourceKey       string
	EventReference      string
	TimestampText       string
	TriggerCount        int
	TriggerDescription  string
	TriggerType         string
	AgreedPaymentMethod string
	ComplianceSubType   string
	CreateTimeText      string
	CreateUser          string
	ExchangeRate        decimal.NullDecimal
	InvoiceTerm         string
	InvoiceTermDays     int
	JobInvoiceNumber    string

	CheckDrawer                 string
	CheckNumberOrPaymentRef     string
	DrawerBank                  string
	DrawerBranch                string
	ReceiptOrDirectDebitNumber  string
	RequisitionStatus           string
	TransactionReference        string
	TransactionType             string
	NumberOfSupportingDocuments int

	LocalExVATAmount           decimal.NullDecimal
	LocalVATAmount             decimal.NullDecimal
	LocalTaxTransactionsAmount decimal.NullDecimal
	LocalTotal                 decimal.NullDecimal
	OSExGSTVATAmount           decimal.NullDecimal
	OSGSTVATAmount             decimal.NullDecimal
	OSTaxTransactionsAmount    decimal.NullDecimal
	OSTotal                    decimal.NullDecimal
	OutstandingAmount          decimal.NullDecimal

	PlaceOfIssueText string

	IsCancelled                *bool
	IsCreatedByMatchingProcess *bool
	IsPrinted                  *bool

	Branch        CodeName
	BranchAddress *Address

	// Job is the embedded shipment reference. When set, a fallback shipment
	// fact is created unless a canonical shipment document already owns it.
	Job     JobRef
	SubJobs []JobRef

	Organizations  []Organization
	MessageNumbers []MessageNumber
	RecipientRoles []CodeDesc

	Postings   []Posting
	Dates      []DatedEvent
	Exceptions []Exception
	Notes      []Note
	Charges    []Charge
}

// ShipmentPorts names every port reference a shipment header can carry.
type ShipmentPorts struct {
	PlaceOfDelivery     CodeName
	PlaceOfIssue        CodeName
	PlaceOfReceipt      CodeName
	PortFirstForeign    CodeName
	PortLastForeign     CodeName
	PortOfDischarge     CodeName
	PortOfFirstArrival  CodeName
	PortOfLoading       CodeName
	EventBranchHomePort CodeName
}

type ShipmentMeasures struct {
	ContainerCount  int
	NoCopyBills     int
	NoOriginalBills int
	OuterPacks      int
	TotalNoOfPacks  int

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
}

type ShipmentFlags struct {
	IsCFSRegistered            *bool
	IsDirectBooking            *bool
	IsForwardRegistered        *bool
	IsHazardous                *bool
	IsNeutralMaster            *bool
	RequiresTemperatureControl *bool
}

// Shipment is the header of one shipment-family document. Job is the natural
// business key; a shipment without one is always inserted, never updated.
type Shipment struct {
	Job       JobRef
	ConsolJob JobRef

	Ports ShipmentPorts

	AWBServiceLevel     CodeDesc
	GatewayServiceLevel CodeDesc
	ShipmentType        CodeDesc
	ReleaseType         CodeDesc
	ScreeningStatus     CodeDesc
	PaymentMethod       CodeDesc
	FreightRateCurrency CodeDesc
	ContainerMode       CodeDesc
	CO2eStatus          CodeDesc
	CO2eUnit            CodeDesc
	TotalVolumeUnit     CodeDesc
	TotalWeightUnit     CodeDesc
	PacksUnit           CodeDesc

	Measures ShipmentMeasures
	Flags    ShipmentFlags

	Organizations []Organization
	SubShipments  []SubShipment

	Legs         []TransportLeg
	Containers   []Container
	PackingLines []PackingLine
	Dates        []DatedEvent
	Exceptions   []Exception
	Milestones   []Milestone
	Notes        []Note
	Charges      []Charge
}

// SubShipment is a nested shipment within a consolidated shipment document.
type SubShipment struct {
	Job             JobRef
	ShipmentType    CodeDesc
	ServiceLevel    CodeDesc
	PortOfLoading   CodeName
	PortOfDischarge CodeName
	TotalWeight     decimal.NullDecimal
	TotalVolume     decimal.NullDecimal
	WeightUnit      CodeDesc
	VolumeUnit      CodeDesc

	Legs         []TransportLeg
	Containers   []Container
	PackingLines []PackingLine
	Dates        []DatedEvent
	Milestones   []Milestone
	Notes        []Note
	Charges      []Charge
}
