package xmlparse

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
)

func text(n *xmlquery.Node, path string) string {
	if n == nil {
		return ""
	}
	found := xmlquery.FindOne(n, path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.InnerText())
}

func codeName(n *xmlquery.Node, path string) domain.CodeName {
	sub := xmlquery.FindOne(n, path)
	if sub == nil {
		return domain.CodeName{}
	}
	return domain.CodeName{Code: text(sub, "Code"), Name: text(sub, "Name")}
}

func codeDesc(n *xmlquery.Node, path string) domain.CodeDesc {
	sub := xmlquery.FindOne(n, path)
	if sub == nil {
		return domain.CodeDesc{}
	}
	return domain.CodeDesc{Code: text(sub, "Code"), Description: text(sub, "Description")}
}

func jobRef(n *xmlquery.Node, path string) domain.JobRef {
	sub := xmlquery.FindOne(n, path)
	if sub == nil {
		return domain.JobRef{}
	}
	return domain.JobRef{Type: text(sub, "Type"), Key: text(sub, "Key")}
}

func intOf(n *xmlquery.Node, path string) int {
	v, err := strconv.Atoi(text(n, path))
	if err != nil {
		return 0
	}
	return v
}

func decimalOf(n *xmlquery.Node, path string) decimal.NullDecimal {
	s := text(n, path)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func boolOf(n *xmlquery.Node, path string) *bool {
	return domain.ParseBool(text(n, path))
}

func dateKeyOf(n *xmlquery.Node, path string) int {
	return domain.DateKey(text(n, path))
}

func parseDataContext(n *xmlquery.Node) domain.DataContext {
	dc := xmlquery.FindOne(n, "DataContext")
	if dc == nil {
		return domain.DataContext{}
	}
	return domain.DataContext{
		Company:        codeName(dc, "Company"),
		CompanyCountry: codeName(dc, "Company/Country"),
		Branch:         codeName(dc, "EventBranch"),
		Department:     codeName(dc, "EventDepartment"),
		EventType:      codeDesc(dc, "EventType"),
		ActionPurpose:  codeDesc(dc, "ActionPurpose"),
		User:           codeName(dc, "EventUser"),
		EnterpriseID:   text(dc, "EnterpriseID"),
		ServerID:       text(dc, "ServerID"),
		DataProvider:   text(dc, "DataProvider"),
		TriggerDate:    text(dc, "TriggerDate"),
	}
}

func parseOrganizations(n *xmlquery.Node) []domain.Organization {
	nodes := xmlquery.Find(n, "OrganizationAddressCollection/OrganizationAddress")
	out := make([]domain.Organization, 0, len(nodes))
	for _, on := range nodes {
		org := domain.Organization{
			OrganizationCode: text(on, "OrganizationCode"),
			CompanyName:      text(on, "CompanyName"),
			GovRegNum:        text(on, "GovRegNum"),
			GovRegNumType:    codeDesc(on, "GovRegNumType"),
			Address: domain.Address{
				AddressType:      text(on, "AddressType"),
				Address1:         text(on, "Address1"),
				Address2:         text(on, "Address2"),
				AddressOverride:  text(on, "AddressOverride"),
				AddressShortCode: text(on, "AddressShortCode"),
				City:             text(on, "City"),
				State:            text(on, "State"),
				Postcode:         text(on, "Postcode"),
				Email:            text(on, "Email"),
				Fax:              text(on, "Fax"),
				Phone:            text(on, "Phone"),
				ScreeningStatus:  codeDesc(on, "ScreeningStatus"),
				Country:          codeName(on, "Country"),
				Port:             codeName(on, "Port"),
			},
		}
		for _, rn := range xmlquery.Find(on, "RegistrationNumberCollection/RegistrationNumber") {
			org.RegistrationNumbers = append(org.RegistrationNumbers, domain.RegistrationNumber{
				TypeCode:           text(rn, "Type/Code"),
				TypeDescription:    text(rn, "Type/Description"),
				CountryOfIssueCode: text(rn, "CountryOfIssue/Code"),
				CountryOfIssueName: text(rn, "CountryOfIssue/Name"),
				Value:              text(rn, "Value"),
			})
		}
		out = append(out, org)
	}
	return out
}

func parseDates(n *xmlquery.Node) []domain.DatedEvent {
	nodes := xmlquery.Find(n, "DateCollection/Date")
	out := make([]domain.DatedEvent, 0, len(nodes))
	for _, dn := range nodes {
		out = append(out, domain.DatedEvent{
			Type:         codeDesc(dn, "Type"),
			DateTimeText: text(dn, "DateTime"),
			IsEstimate:   boolOf(dn, "IsEstimate"),
			Value:        text(dn, "Value"),
		})
	}
	return out
}

func parseExceptions(n *xmlquery.Node) []domain.Exception {
	nodes := xmlquery.Find(n, "ExceptionCollection/Exception")
	out := make([]domain.Exception, 0, len(nodes))
	for _, en := range nodes {
		out = append(out, domain.Exception{
			Code:             text(en, "Code"),
			Type:             text(en, "Type"),
			Severity:         text(en, "Severity"),
			Status:           text(en, "Status"),
			Description:      text(en, "Description"),
			RaisedDateText:   text(en, "RaisedDate"),
			ResolvedDateText: text(en, "ResolvedDate"),
		})
	}
	return out
}

func parseNotes(n *xmlquery.Node) []domain.Note {
	nodes := xmlquery.Find(n, "NoteCollection/Note")
	out := make([]domain.Note, 0, len(nodes))
	for _, nn := range nodes {
		out = append(out, domain.Note{
			Description: text(nn, "Description"),
			NoteText:    text(nn, "NoteText"),
			NoteContext: codeDesc(nn, "NoteContext"),
			Visibility:  codeDesc(nn, "Visibility"),
		})
	}
	return out
}

func parseCharges(n *xmlquery.Node) []domain.Charge {
	nodes := xmlquery.Find(n, "ChargeLineCollection/ChargeLine")
	out := make([]domain.Charge, 0, len(nodes))
	for _, cn := range nodes {
		out = append(out, domain.Charge{
			Branch:        codeName(cn, "Branch"),
			Department:    codeName(cn, "Department"),
			ChargeCode:    codeDesc(cn, "ChargeCode"),
			ChargeGroup:   codeDesc(cn, "ChargeGroup"),
			Description:   text(cn, "Description"),
			Currency:      codeDesc(cn, "Currency"),
			CostAmount:    decimalOf(cn, "CostAmount"),
			SellAmount:    decimalOf(cn, "SellAmount"),
			SupplierCode:  text(cn, "SupplierCode"),
			CustomerCode:  text(cn, "CustomerCode"),
			InvoiceNumber: text(cn, "InvoiceNumber"),
		})
	}
	return out
}

func parseTransportLegs(n *xmlquery.Node) []domain.TransportLeg {
	nodes := xmlquery.Find(n, "TransportLegCollection/TransportLeg")
	out := make([]domain.TransportLeg, 0, len(nodes))
	for _, ln := range nodes {
		out = append(out, domain.TransportLeg{
			PortOfLoading:      codeName(ln, "PortOfLoading"),
			PortOfDischarge:    codeName(ln, "PortOfDischarge"),
			TransportMode:      text(ln, "TransportMode"),
			VesselName:         text(ln, "VesselName"),
			VesselLloydsIMO:    text(ln, "VesselLloydsIMO"),
			VoyageFlightNo:     text(ln, "VoyageFlightNo"),
			Order:              intOf(ln, "LegOrder"),
			CarrierCode:        text(ln, "Carrier/Code"),
			CarrierName:        text(ln, "Carrier/Name"),
			BookingStatus:      text(ln, "BookingStatus"),
			ActualArrival:      text(ln, "ActualArrival"),
			ActualDeparture:    text(ln, "ActualDeparture"),
			EstimatedArrival:   text(ln, "EstimatedArrival"),
			EstimatedDeparture: text(ln, "EstimatedDeparture"),
			ScheduledArrival:   text(ln, "ScheduledArrival"),
			ScheduledDeparture: text(ln, "ScheduledDeparture"),
		})
	}
	return out
}

func parseContainers(n *xmlquery.Node) []domain.Container {
	nodes := xmlquery.Find(n, "ContainerCollection/Container")
	out := make([]domain.Container, 0, len(nodes))
	for _, cn := range nodes {
		out = append(out, domain.Container{
			ContainerNumber: text(cn, "ContainerNumber"),
			ContainerType:   codeDesc(cn, "ContainerType"),
			FCLOrLCL:        codeDesc(cn, "FCLOrLCL"),
			SealNumber:      text(cn, "SealNumber"),
			DeliveryMode:    text(cn, "DeliveryMode"),
			GrossWeight:     decimalOf(cn, "GrossWeight"),
			TareWeight:      decimalOf(cn, "TareWeight"),
			WeightUnit:      codeDesc(cn, "WeightUnit"),
		})
	}
	return out
}

func parsePackingLines(n *xmlquery.Node) []domain.PackingLine {
	nodes := xmlquery.Find(n, "PackingLineCollection/PackingLine")
	out := make([]domain.PackingLine, 0, len(nodes))
	for _, pn := range nodes {
		out = append(out, domain.PackingLine{
			LineNumber:       intOf(pn, "LineNumber"),
			PackType:         codeDesc(pn, "PackType"),
			PackQty:          intOf(pn, "PackQty"),
			GoodsDescription: text(pn, "GoodsDescription"),
			Commodity:        codeDesc(pn, "Commodity"),
			MarksAndNumbers:  text(pn, "MarksAndNumbers"),
			Weight:           decimalOf(pn, "Weight"),
			WeightUnit:       codeDesc(pn, "WeightUnit"),
			Volume:           decimalOf(pn, "Volume"),
			VolumeUnit:       codeDesc(pn, "VolumeUnit"),
			ReferenceNumber:  text(pn, "ReferenceNumber"),
			ContainerNumber:  text(pn, "ContainerNumber"),
		})
	}
	return out
}

func parseMilestones(n *xmlquery.Node) []domain.Milestone {
	nodes := xmlquery.Find(n, "MilestoneCollection/Milestone")
	out := make([]domain.Milestone, 0, len(nodes))
	for _, mn := range nodes {
		out = append(out, domain.Milestone{
			EventCode:          codeDesc(mn, "EventCode"),
			Description:        text(mn, "Description"),
			Sequence:           intOf(mn, "Sequence"),
			ActualDateText:     text(mn, "ActualDate"),
			EstimatedDateText:  text(mn, "EstimatedDate"),
			ConditionReference: text(mn, "ConditionReference"),
			ConditionType:      text(mn, "ConditionType"),
		})
	}
	return out
}
