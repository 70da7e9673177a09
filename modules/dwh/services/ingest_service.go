package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence"
)

// IngestService turns one parsed document into warehouse rows. It owns no
// transaction scope of its own; the caller supplies one through the context.
type IngestService struct {
	dims     DimStore
	facts    FactStore
	children ChildStore
	counts   *RowCounts
	log      *logrus.Logger
}

func NewIngestService(dims DimStore, facts FactStore, children ChildStore, log *logrus.Logger) *IngestService {
	return &IngestService{
		dims:     dims,
		facts:    facts,
		children: children,
		counts:   NewRowCounts(),
		log:      log,
	}
}

// Counts exposes the running per-table tallies.
func (s *IngestService) Counts() *RowCounts {
	return s.counts
}

// IngestDocument dispatches on the document's family.
func (s *IngestService) IngestDocument(ctx context.Context, doc *domain.Document) error {
	switch {
	case doc.Source == domain.SourceAR && doc.AR != nil:
		return s.ingestAR(ctx, doc)
	case doc.Source == domain.SourceCSL && doc.Shipment != nil:
		return s.ingestShipment(ctx, doc)
	default:
		return fmt.Errorf("document %q: source %q does not match payload", doc.FileName, doc.Source)
	}
}

// contextKeys are the resolved surrogate keys of the event envelope.
type contextKeys struct {
	company       *int64
	branch        *int64
	department    *int64
	eventType     *int64
	actionPurpose *int64
	user          *int64
	enterprise    *int64
	server        *int64
	dataProvider  *int64
	triggerDate   *int
}

func (s *IngestService) resolveContext(ctx context.Context, dc domain.DataContext) (contextKeys, error) {
	var (
		ck  contextKeys
		err error
	)

	companyAttrs := persistence.Attributes{}
	if countryKey, cerr := s.codeNameKey(ctx, persistence.DimCountry, dc.CompanyCountry, nil); cerr != nil {
		return ck, cerr
	} else if countryKey != nil {
		companyAttrs["country_key"] = *countryKey
	}
	if ck.company, err = s.codeNameKey(ctx, persistence.DimCompany, dc.Company, companyAttrs); err != nil {
		return ck, err
	}
	if ck.branch, err = s.codeNameKey(ctx, persistence.DimBranch, dc.Branch, nil); err != nil {
		return ck, err
	}
	if ck.department, err = s.codeNameKey(ctx, persistence.DimDepartment, dc.Department, nil); err != nil {
		return ck, err
	}
	if ck.eventType, err = s.codeDescKey(ctx, persistence.DimEventType, dc.EventType, nil); err != nil {
		return ck, err
	}
	if ck.actionPurpose, err = s.codeDescKey(ctx, persistence.DimActionPurpose, dc.ActionPurpose, nil); err != nil {
		return ck, err
	}
	if ck.user, err = s.codeNameKey(ctx, persistence.DimUser, dc.User, nil); err != nil {
		return ck, err
	}
	if ck.enterprise, err = s.codeKey(ctx, persistence.DimEnterprise, dc.EnterpriseID, nil); err != nil {
		return ck, err
	}
	if ck.server, err = s.codeKey(ctx, persistence.DimServer, dc.ServerID, nil); err != nil {
		return ck, err
	}
	if ck.dataProvider, err = s.codeKey(ctx, persistence.DimDataProvider, dc.DataProvider, nil); err != nil {
		return ck, err
	}
	ck.triggerDate = dateKeyOrNil(dc.TriggerDate)
	return ck, nil
}

// codeKey resolves a bare code, returning nil for an empty one.
func (s *IngestService) codeKey(ctx context.Context, table persistence.DimTable, code string, attrs persistence.Attributes) (*int64, error) {
	if domain.CleanString(code) == "" {
		return nil, nil
	}
	key, err := s.dims.Resolve(ctx, table, code, attrs)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (s *IngestService) codeNameKey(ctx context.Context, table persistence.DimTable, ref domain.CodeName, attrs persistence.Attributes) (*int64, error) {
	if ref.Empty() {
		return nil, nil
	}
	key, err := s.dims.ResolveCodeName(ctx, table, ref, attrs)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (s *IngestService) codeDescKey(ctx context.Context, table persistence.DimTable, ref domain.CodeDesc, attrs persistence.Attributes) (*int64, error) {
	if ref.Empty() {
		return nil, nil
	}
	key, err := s.dims.ResolveCodeDesc(ctx, table, ref, attrs)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// portKey resolves a port reference. The port's country is inferred from the
// first two characters of the code, but only linked when that country is
// already known; the inference never fabricates country rows.
func (s *IngestService) portKey(ctx context.Context, ref domain.CodeName) (*int64, error) {
	if ref.Empty() {
		return nil, nil
	}
	attrs := persistence.Attributes{}
	code := domain.NormalizeUpper(ref.Code)
	if len(code) >= 2 {
		countryKey, ok, err := s.dims.Lookup(ctx, persistence.DimCountry, code[:2])
		if err != nil {
			return nil, err
		}
		if ok {
			attrs["country_key"] = countryKey
		}
	}
	key, err := s.dims.ResolveCodeName(ctx, persistence.DimPort, ref, attrs)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// resolveOrganization upserts one organization with its address attributes
// and records any registration numbers seen on it. Returns the surrogate key
// and the address type for bridge linking.
func (s *IngestService) resolveOrganization(ctx context.Context, org domain.Organization) (int64, string, error) {
	addr := org.Address
	attrs := persistence.Attributes{
		"company_name":       org.CompanyName,
		"address1":           addr.Address1,
		"address2":           addr.Address2,
		"address_override":   addr.AddressOverride,
		"address_short_code": addr.AddressShortCode,
		"city":               addr.City,
		"state":              addr.State,
		"postcode":           addr.Postcode,
		"email":              addr.Email,
		"fax":                addr.Fax,
		"phone":              addr.Phone,
		"gov_reg_num":        org.GovRegNum,
		"gov_reg_num_type":   org.GovRegNumType.Code,
	}
	if countryKey, err := s.codeNameKey(ctx, persistence.DimCountry, addr.Country, nil); err != nil {
		return 0, "", err
	} else if countryKey != nil {
		attrs["country_key"] = *countryKey
	}
	if portKey, err := s.portKey(ctx, addr.Port); err != nil {
		return 0, "", err
	} else if portKey != nil {
		attrs["port_key"] = *portKey
	}
	if screeningKey, err := s.codeDescKey(ctx, persistence.DimScreeningStatus, addr.ScreeningStatus, nil); err != nil {
		return 0, "", err
	} else if screeningKey != nil {
		attrs["screening_status_key"] = *screeningKey
	}

	key, err := s.dims.Resolve(ctx, persistence.DimOrganization, org.OrganizationCode, attrs)
	if err != nil {
		return 0, "", err
	}

	addressType := domain.CleanString(addr.AddressType)
	for _, rn := range org.RegistrationNumbers {
		value := domain.CleanString(rn.Value)
		if value == "" {
			continue
		}
		err := s.facts.RecordRegistrationNumber(ctx, key, addressType,
			domain.CleanString(rn.TypeCode), domain.NormalizeUpper(rn.CountryOfIssueCode), value)
		if err != nil {
			return 0, "", err
		}
	}
	return key, addressType, nil
}

func dateKeyOrNil(text string) *int {
	if k := domain.DateKey(text); k != 0 {
		return &k
	}
	return nil
}

func intOrNil(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
