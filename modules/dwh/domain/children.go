package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Keyed is implemented by every repeatable child record type. DedupKey is a
// pure function over business-meaningful fields; two records with equal keys
// describe the same logical row regardless of formatting differences.
type Keyed interface {
	DedupKey() string
}

// Dedup keeps the first occurrence per dedup key, preserving input order.
func Dedup[T Keyed](records []T) []T {
	if len(records) < 2 {
		return records
	}
	seen := make(map[string]struct{}, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		k := r.DedupKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

func joinKey(parts ...string) string {
	return strings.Join(parts, "|")
}

// TransportLeg is one movement of a shipment. The same leg is frequently
// described twice in one document (consol level and shipment level) and again
// by the other family, so its identity deliberately ignores internal system
// ids. See DedupTransportLegs for the vessel-identity rule.
type TransportLeg struct {
	PortOfLoading   CodeName
	PortOfDischarge CodeName
	TransportMode   string
	VesselName      string
	VesselLloydsIMO string
	VoyageFlightNo  string
	Order           int
	CarrierCode     string
	CarrierName     string
	BookingStatus   string

	ActualArrival      string
	ActualDeparture    string
	EstimatedArrival   string
	EstimatedDeparture string
	ScheduledArrival   string
	ScheduledDeparture string
}

// baseKey is the leg identity minus the vessel component.
func (l TransportLeg) baseKey() string {
	return joinKey(
		NormalizeUpper(l.PortOfLoading.Code),
		NormalizeUpper(l.PortOfDischarge.Code),
		strings.ToLower(CleanString(l.TransportMode)),
		CleanString(l.VoyageFlightNo),
		strconv.Itoa(l.Order),
		CleanString(l.ActualArrival),
		CleanString(l.ActualDeparture),
		CleanString(l.EstimatedArrival),
		CleanString(l.EstimatedDeparture),
		CleanString(l.ScheduledArrival),
		CleanString(l.ScheduledDeparture),
	)
}

// VesselIdentity prefers the Lloyds/IMO registry number over the free-text
// vessel name; names only identify a vessel when no registry number exists.
func VesselIdentity(name, lloydsIMO string) string {
	if imo := NormalizeUpper(lloydsIMO); imo != "" {
		return imo
	}
	return NormalizeUpper(name)
}

func (l TransportLeg) DedupKey() string {
	return joinKey(l.baseKey(), VesselIdentity(l.VesselName, l.VesselLloydsIMO))
}

// DedupTransportLegs collapses duplicate leg descriptions. Beyond plain keyed
// dedup, when any leg in a group carries a registry number, that number is the
// vessel identity for the whole group: a leg naming "MSC OSCAR" and a leg
// carrying that vessel's IMO number collapse to one row.
func DedupTransportLegs(legs []TransportLeg) []TransportLeg {
	if len(legs) < 2 {
		return legs
	}
	imoByBase := make(map[string]string)
	for _, l := range legs {
		if imo := NormalizeUpper(l.VesselLloydsIMO); imo != "" {
			base := l.baseKey()
			if _, ok := imoByBase[base]; !ok {
				imoByBase[base] = imo
			}
		}
	}
	seen := make(map[string]struct{}, len(legs))
	out := make([]TransportLeg, 0, len(legs))
	for _, l := range legs {
		identity := VesselIdentity(l.VesselName, l.VesselLloydsIMO)
		base := l.baseKey()
		if imo, ok := imoByBase[base]; ok {
			identity = imo
		}
		k := joinKey(base, identity)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}

type Charge struct {
	Branch       CodeName
	Department   CodeName
	ChargeCode   CodeDesc
	ChargeGroup  CodeDesc
	Description  string
	Currency     CodeDesc
	CostAmount   decimal.NullDecimal
	SellAmount   decimal.NullDecimal
	SupplierCode string
	CustomerCode string
	InvoiceNumber string
}

func decKey(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func (c Charge) DedupKey() string {
	return joinKey(
		NormalizeUpper(c.ChargeCode.Code),
		CleanString(c.Description),
		NormalizeUpper(c.SupplierCode),
		NormalizeUpper(c.CustomerCode),
		NormalizeUpper(c.Currency.Code),
		decKey(c.CostAmount),
		decKey(c.SellAmount),
		CleanString(c.InvoiceNumber),
	)
}

type Container struct {
	ContainerNumber string
	ContainerType   CodeDesc
	FCLOrLCL        CodeDesc
	SealNumber      string
	DeliveryMode    string
	GrossWeight     decimal.NullDecimal
	TareWeight      decimal.NullDecimal
	WeightUnit      CodeDesc
}

func (c Container) DedupKey() string {
	return joinKey(
		NormalizeUpper(c.ContainerNumber),
		NormalizeUpper(c.ContainerType.Code),
		NormalizeUpper(c.SealNumber),
	)
}

type PackingLine struct {
	LineNumber       int
	PackType         CodeDesc
	PackQty          int
	GoodsDescription string
	Commodity        CodeDesc
	MarksAndNumbers  string
	Weight           decimal.NullDecimal
	WeightUnit       CodeDesc
	Volume           decimal.NullDecimal
	VolumeUnit       CodeDesc
	ReferenceNumber  string
	ContainerNumber  string
}

func (p PackingLine) DedupKey() string {
	return joinKey(
		strconv.Itoa(p.LineNumber),
		NormalizeUpper(p.PackType.Code),
		strconv.Itoa(p.PackQty),
		CleanString(p.GoodsDescription),
		NormalizeUpper(p.ContainerNumber),
	)
}

// DatedEvent is one dated milestone-like entry from a DateCollection.
type DatedEvent struct {
	Type         CodeDesc
	DateTimeText string
	IsEstimate   *bool
	Value        string
}

func (d DatedEvent) DedupKey() string {
	est := ""
	if d.IsEstimate != nil {
		est = strconv.FormatBool(*d.IsEstimate)
	}
	return joinKey(
		NormalizeUpper(d.Type.Code),
		CleanString(d.DateTimeText),
		est,
	)
}

type Exception struct {
	Code             string
	Type             string
	Severity         string
	Status           string
	Description      string
	RaisedDateText   string
	ResolvedDateText string
}

func (e Exception) DedupKey() string {
	return joinKey(
		NormalizeUpper(e.Code),
		NormalizeUpper(e.Type),
		CleanString(e.RaisedDateText),
		CleanString(e.Description),
	)
}

type Milestone struct {
	EventCode          CodeDesc
	Description        string
	Sequence           int
	ActualDateText     string
	EstimatedDateText  string
	ConditionReference string
	ConditionType      string
}

func (m Milestone) DedupKey() string {
	return joinKey(
		NormalizeUpper(m.EventCode.Code),
		strconv.Itoa(m.Sequence),
		CleanString(m.ActualDateText),
		CleanString(m.EstimatedDateText),
	)
}

type Note struct {
	Description string
	NoteText    string
	NoteContext CodeDesc
	Visibility  CodeDesc
}

func (n Note) DedupKey() string {
	return joinKey(
		CleanString(n.Description),
		NormalizeUpper(n.NoteContext.Code),
		CleanString(n.NoteText),
	)
}

// Posting is one job-costing ledger line embedded in a transaction document.
type Posting struct {
	Branch            CodeName
	Department        CodeName
	AccountGroup      CodeDesc
	ChargeCode        CodeDesc
	Description       string
	Currency          CodeDesc
	LocalAmount       decimal.NullDecimal
	OSAmount          decimal.NullDecimal
	TransactionType   string
	TransactionNumber string
	PostDateText      string
}

func (p Posting) DedupKey() string {
	return joinKey(
		NormalizeUpper(p.ChargeCode.Code),
		NormalizeUpper(p.AccountGroup.Code),
		CleanString(p.Description),
		decKey(p.LocalAmount),
		decKey(p.OSAmount),
		CleanString(p.TransactionNumber),
		CleanString(p.PostDateText),
	)
}
