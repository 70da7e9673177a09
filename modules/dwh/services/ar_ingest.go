package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
)

// ingestAR loads one transaction-family document: the header keyed by its
// invoice number, its bridges, its child sets, and the fallback shipment for
// the embedded job reference when no canonical shipment exists yet.
func (s *IngestService) ingestAR(ctx context.Context, doc *domain.Document) error {
	h := doc.AR

	number := domain.CleanString(h.Number)
	if number == "" {
		return fmt.Errorf("document %q: transaction without a number", doc.FileName)
	}

	ck, err := s.resolveContext(ctx, doc.Context)
	if err != nil {
		return err
	}

	row, err := s.buildARRow(ctx, number, h, ck)
	if err != nil {
		return err
	}

	type orgLink struct {
		key         int64
		addressType string
	}
	links := make([]orgLink, 0, len(h.Organizations))
	for _, org := range h.Organizations {
		if domain.CleanString(org.OrganizationCode) == "" {
			continue
		}
		key, addressType, oerr := s.resolveOrganization(ctx, org)
		if oerr != nil {
			return oerr
		}
		links = append(links, orgLink{key: key, addressType: addressType})
	}
	if len(links) > 0 {
		row.OrganizationKey = &links[0].key
	}

	arKey, err := s.facts.UpsertARTransaction(ctx, row)
	if err != nil {
		return err
	}

	for _, l := range links {
		if err := s.facts.LinkAROrganization(ctx, arKey, l.key, l.addressType); err != nil {
			return err
		}
	}
	for _, mn := range h.MessageNumbers {
		value := domain.CleanString(mn.Value)
		if value == "" {
			continue
		}
		if err := s.facts.InsertARMessageNumber(ctx, arKey, domain.CleanString(mn.Type), value); err != nil {
			return err
		}
	}
	for _, role := range h.RecipientRoles {
		roleKey, rerr := s.codeDescKey(ctx, persistence.DimRecipientRole, role, nil)
		if rerr != nil {
			return rerr
		}
		if roleKey == nil {
			continue
		}
		if err := s.facts.LinkARRecipientRole(ctx, arKey, *roleKey); err != nil {
			return err
		}
	}

	if err := s.replaceARChildren(ctx, arKey, h); err != nil {
		return err
	}
	if err := s.ensureFallbackShipment(ctx, h, ck, row.JobDimKey); err != nil {
		return err
	}

	if s.log != nil {
		s.log.WithFields(logrus.Fields{"file": doc.FileName, "number": number}).Debug("transaction ingested")
	}
	return nil
}

func (s *IngestService) buildARRow(ctx context.Context, number string, h *domain.ARHeader, ck contextKeys) (*models.ARTransaction, error) {
	row := &models.ARTransaction{
		Number: number,

		CompanyKey:       ck.company,
		BranchKey:        ck.branch,
		DepartmentKey:    ck.department,
		EventTypeKey:     ck.eventType,
		ActionPurposeKey: ck.actionPurpose,
		UserKey:          ck.user,
		EnterpriseKey:    ck.enterprise,
		ServerKey:        ck.server,
		DataProviderKey:  ck.dataProvider,
		TriggerDateKey:   ck.triggerDate,

		TransactionDateKey: intOrNil(h.TransactionDateKey),
		PostDateKey:        intOrNil(h.PostDateKey),
		DueDateKey:         intOrNil(h.DueDateKey),

		DataSourceType:              domain.CleanString(h.DataSourceType),
		DataSourceKey:               domain.CleanString(h.DataSourceKey),
		Ledger:                      domain.NormalizeUpper(h.Ledger),
		Category:                    domain.CleanString(h.Category),
		InvoiceTerm:                 domain.CleanString(h.InvoiceTerm),
		InvoiceTermDays:             intOrNil(h.InvoiceTermDays),
		JobInvoiceNumber:            domain.CleanString(h.JobInvoiceNumber),
		CheckDrawer:                 domain.CleanString(h.CheckDrawer),
		CheckNumberOrPaymentRef:     domain.CleanString(h.CheckNumberOrPaymentRef),
		DrawerBank:                  domain.CleanString(h.DrawerBank),
		DrawerBranch:                domain.CleanString(h.DrawerBranch),
		ReceiptOrDirectDebitNumber:  domain.CleanString(h.ReceiptOrDirectDebitNumber),
		RequisitionStatus:           domain.CleanString(h.RequisitionStatus),
		TransactionReference:        domain.CleanString(h.TransactionReference),
		TransactionType:             domain.CleanString(h.TransactionType),
		AgreedPaymentMethod:         domain.CleanString(h.AgreedPaymentMethod),
		ComplianceSubType:           domain.CleanString(h.ComplianceSubType),
		CreateTimeText:              domain.CleanString(h.CreateTimeText),
		CreateUser:                  domain.CleanString(h.CreateUser),
		EventReference:              domain.CleanString(h.EventReference),
		TimestampText:               domain.CleanString(h.TimestampText),
		TriggerCount:                intOrNil(h.TriggerCount),
		TriggerDescription:          domain.CleanString(h.TriggerDescription),
		TriggerType:                 domain.CleanString(h.TriggerType),
		NumberOfSupportingDocuments: intOrNil(h.NumberOfSupportingDocuments),
		PlaceOfIssueText:            domain.CleanString(h.PlaceOfIssueText),

		LocalExVATAmount:           h.LocalExVATAmount,
		LocalVATAmount:             h.LocalVATAmount,
		LocalTaxTransactionsAmount: h.LocalTaxTransactionsAmount,
		LocalTotal:                 h.LocalTotal,
		OSExGSTVATAmount:           h.OSExGSTVATAmount,
		OSGSTVATAmount:             h.OSGSTVATAmount,
		OSTaxTransactionsAmount:    h.OSTaxTransactionsAmount,
		OSTotal:                    h.OSTotal,
		OutstandingAmount:          h.OutstandingAmount,
		ExchangeRate:               h.ExchangeRate,

		IsCancelled:                h.IsCancelled,
		IsCreatedByMatchingProcess: h.IsCreatedByMatchingProcess,
		IsPrinted:                  h.IsPrinted,
	}

	var err error
	if row.AccountGroupKey, err = s.codeDescKey(ctx, persistence.DimAccountGroup, h.AccountGroup, nil); err != nil {
		return nil, err
	}
	if row.LocalCurrencyKey, err = s.codeDescKey(ctx, persistence.DimCurrency, h.LocalCurrency, nil); err != nil {
		return nil, err
	}
	if row.OSCurrencyKey, err = s.codeDescKey(ctx, persistence.DimCurrency, h.OSCurrency, nil); err != nil {
		return nil, err
	}
	// A branch named on the header overrides the envelope branch.
	if !h.Branch.Empty() {
		if row.BranchKey, err = s.codeNameKey(ctx, persistence.DimBranch, h.Branch, nil); err != nil {
			return nil, err
		}
	}
	if !h.Job.Empty() {
		jobKey, jerr := s.dims.ResolveJob(ctx, h.Job)
		if jerr != nil {
			return nil, jerr
		}
		row.JobDimKey = &jobKey
	}
	return row, nil
}

func (s *IngestService) replaceARChildren(ctx context.Context, arKey int64, h *domain.ARHeader) error {
	parent := persistence.ARParent(arKey)
	source := string(domain.SourceAR)

	postings, err := s.buildPostings(ctx, domain.Dedup(h.Postings))
	if err != nil {
		return err
	}
	removed, added, err := s.children.ReplacePostings(ctx, parent, source, postings)
	if err != nil {
		return err
	}
	s.counts.Add("fact_posting", removed, added)

	dates, err := s.buildDates(ctx, domain.Dedup(h.Dates))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplaceDates(ctx, parent, source, dates); err != nil {
		return err
	}
	s.counts.Add("fact_date", removed, added)

	if removed, added, err = s.children.ReplaceExceptions(ctx, parent, source, s.buildExceptions(domain.Dedup(h.Exceptions))); err != nil {
		return err
	}
	s.counts.Add("fact_exception", removed, added)

	notes, err := s.buildNotes(ctx, domain.Dedup(h.Notes))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplaceNotes(ctx, parent, source, notes); err != nil {
		return err
	}
	s.counts.Add("fact_note", removed, added)

	charges, err := s.buildCharges(ctx, domain.Dedup(h.Charges))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplaceCharges(ctx, parent, source, charges); err != nil {
		return err
	}
	s.counts.Add("fact_charge", removed, added)

	return nil
}

// ensureFallbackShipment creates a minimal shipment header for the job a
// transaction references, so charges can be joined to a shipment before its
// canonical document arrives. An authoritative header is left untouched.
func (s *IngestService) ensureFallbackShipment(ctx context.Context, h *domain.ARHeader, ck contextKeys, jobDimKey *int64) error {
	if jobDimKey == nil {
		return nil
	}

	shipmentKey, source, found, err := s.facts.FindShipmentByJob(ctx, *jobDimKey)
	if err != nil {
		return err
	}
	state := DeriveMergeState(found, source)
	if state == StateAuthoritative {
		return nil
	}

	if state.allowsHeaderWrite(domain.SourceAR) {
		shipmentKey, err = s.facts.InsertShipment(ctx, &models.Shipment{
			ShipmentJobKey:   jobDimKey,
			Source:           string(domain.SourceAR),
			CompanyKey:       ck.company,
			BranchKey:        ck.branch,
			DepartmentKey:    ck.department,
			EventTypeKey:     ck.eventType,
			ActionPurposeKey: ck.actionPurpose,
			UserKey:          ck.user,
			EnterpriseKey:    ck.enterprise,
			ServerKey:        ck.server,
			DataProviderKey:  ck.dataProvider,
			TriggerDateKey:   ck.triggerDate,
		})
		if err != nil {
			return err
		}
		s.counts.Add("fact_shipment", 0, 1)
	}

	for _, sub := range h.SubJobs {
		if sub.Empty() {
			continue
		}
		subJobKey, jerr := s.dims.ResolveJob(ctx, sub)
		if jerr != nil {
			return jerr
		}
		created, eerr := s.facts.EnsureFallbackSubShipment(ctx, shipmentKey, subJobKey)
		if eerr != nil {
			return eerr
		}
		if created {
			s.counts.Add("fact_sub_shipment", 0, 1)
		}
	}
	return nil
}
