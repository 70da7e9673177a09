package xmlparse

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
)

// XMLParser reads the two document families dropped by the upstream system:
// AR_*.xml transaction files and CSL*.xml shipment files.
type XMLParser struct {
	log *logrus.Logger
}

func NewXMLParser(log *logrus.Logger) *XMLParser {
	return &XMLParser{log: log}
}

func (p *XMLParser) ParseFile(path string) (*domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() {
		_ = f.Close()
	}()
	doc, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return doc, nil
}

// Parse dispatches on the file name prefix, falling back to the root element
// for files named outside the convention.
func (p *XMLParser) Parse(r io.Reader, fileName string) (*domain.Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, err
	}

	upper := strings.ToUpper(fileName)
	switch {
	case strings.HasPrefix(upper, "AR_"):
		return p.parseTransaction(root, fileName)
	case strings.HasPrefix(upper, "CSL"):
		return p.parseShipment(root, fileName)
	case xmlquery.FindOne(root, "//UniversalTransaction") != nil:
		return p.parseTransaction(root, fileName)
	case xmlquery.FindOne(root, "//UniversalShipment") != nil:
		return p.parseShipment(root, fileName)
	default:
		return nil, errors.Errorf("unrecognized document %q", fileName)
	}
}

func (p *XMLParser) parseTransaction(root *xmlquery.Node, fileName string) (*domain.Document, error) {
	ti := xmlquery.FindOne(root, "//UniversalTransaction/TransactionInfo")
	if ti == nil {
		return nil, errors.Errorf("%s: no TransactionInfo element", fileName)
	}

	h := &domain.ARHeader{
		Number: text(ti, "Number"),
		Ledger: text(ti, "Ledger"),

		Category:            text(ti, "Category"),
		AccountGroup:        codeDesc(ti, "AccountGroup"),
		LocalCurrency:       codeDesc(ti, "LocalCurrency"),
		OSCurrency:          codeDesc(ti, "OSCurrency"),
		TransactionDateKey:  dateKeyOf(ti, "TransactionDate"),
		PostDateKey:         dateKeyOf(ti, "PostDate"),
		DueDateKey:          dateKeyOf(ti, "DueDate"),
		DataSourceType:      text(ti, "DataContext/DataSourceCollection/DataSource/Type"),
		DataSourceKey:       text(ti, "DataContext/DataSourceCollection/DataSource/Key"),
		EventReference:      text(ti, "DataContext/EventReference"),
		TimestampText:       text(ti, "DataContext/Timestamp"),
		TriggerCount:        intOf(ti, "DataContext/TriggerCount"),
		TriggerDescription:  text(ti, "DataContext/TriggerDescription"),
		TriggerType:         text(ti, "DataContext/TriggerType"),
		AgreedPaymentMethod: text(ti, "AgreedPaymentMethod"),
		ComplianceSubType:   text(ti, "ComplianceSubType"),
		CreateTimeText:      text(ti, "CreateTime"),
		CreateUser:          text(ti, "CreateUser"),
		ExchangeRate:        decimalOf(ti, "ExchangeRate"),
		InvoiceTerm:         text(ti, "InvoiceTerm"),
		InvoiceTermDays:     intOf(ti, "InvoiceTermDays"),
		JobInvoiceNumber:    text(ti, "JobInvoiceNumber"),

		CheckDrawer:                 text(ti, "CheckDrawer"),
		CheckNumberOrPaymentRef:     text(ti, "CheckNumberOrPaymentRef"),
		DrawerBank:                  text(ti, "DrawerBank"),
		DrawerBranch:                text(ti, "DrawerBranch"),
		ReceiptOrDirectDebitNumber:  text(ti, "ReceiptOrDirectDebitNumber"),
		RequisitionStatus:           text(ti, "RequisitionStatus"),
		TransactionReference:        text(ti, "TransactionReference"),
		TransactionType:             text(ti, "TransactionType"),
		NumberOfSupportingDocuments: intOf(ti, "NumberOfSupportingDocuments"),

		LocalExVATAmount:           decimalOf(ti, "LocalExVATAmount"),
		LocalVATAmount:             decimalOf(ti, "LocalVATAmount"),
		LocalTaxTransactionsAmount: decimalOf(ti, "LocalTaxTransactionsAmount"),
		LocalTotal:                 decimalOf(ti, "LocalTotal"),
		OSExGSTVATAmount:           decimalOf(ti, "OSExGSTVATAmount"),
		OSGSTVATAmount:             decimalOf(ti, "OSGSTVATAmount"),
		OSTaxTransactionsAmount:    decimalOf(ti, "OSTaxTransactionsAmount"),
		OSTotal:                    decimalOf(ti, "OSTotal"),
		OutstandingAmount:          decimalOf(ti, "OutstandingAmount"),

		PlaceOfIssueText: text(ti, "PlaceOfIssue"),

		IsCancelled:                boolOf(ti, "IsCancelled"),
		IsCreatedByMatchingProcess: boolOf(ti, "IsCreatedByMatchingProcess"),
		IsPrinted:                  boolOf(ti, "IsPrinted"),

		Branch: codeName(ti, "Branch"),
		Job:    jobRef(ti, "Job"),

		Organizations:  parseOrganizations(ti),
		Postings:       parsePostings(ti),
		Dates:          parseDates(ti),
		Exceptions:     parseExceptions(ti),
		Notes:          parseNotes(ti),
		Charges:        parseCharges(ti),
		RecipientRoles: parseRecipientRoles(ti),
		MessageNumbers: parseMessageNumbers(ti),
	}

	for _, sj := range xmlquery.Find(ti, "SubJobCollection/SubJob") {
		h.SubJobs = append(h.SubJobs, domain.JobRef{Type: text(sj, "Type"), Key: text(sj, "Key")})
	}

	return &domain.Document{
		Source:   domain.SourceAR,
		FileName: fileName,
		Context:  parseDataContext(ti),
		AR:       h,
	}, nil
}

func parseRecipientRoles(n *xmlquery.Node) []domain.CodeDesc {
	nodes := xmlquery.Find(n, "RecipientRoleCollection/RecipientRole")
	out := make([]domain.CodeDesc, 0, len(nodes))
	for _, rn := range nodes {
		out = append(out, domain.CodeDesc{Code: text(rn, "Code"), Description: text(rn, "Description")})
	}
	return out
}

func parseMessageNumbers(n *xmlquery.Node) []domain.MessageNumber {
	nodes := xmlquery.Find(n, "MessageNumberCollection/MessageNumber")
	out := make([]domain.MessageNumber, 0, len(nodes))
	for _, mn := range nodes {
		out = append(out, domain.MessageNumber{
			Type:  mn.SelectAttr("Type"),
			Value: strings.TrimSpace(mn.InnerText()),
		})
	}
	return out
}

func parsePostings(n *xmlquery.Node) []domain.Posting {
	nodes := xmlquery.Find(n, "PostingJournalCollection/PostingJournal")
	out := make([]domain.Posting, 0, len(nodes))
	for _, pn := range nodes {
		out = append(out, domain.Posting{
			Branch:            codeName(pn, "Branch"),
			Department:        codeName(pn, "Department"),
			AccountGroup:      codeDesc(pn, "AccountGroup"),
			ChargeCode:        codeDesc(pn, "ChargeCode"),
			Description:       text(pn, "Description"),
			Currency:          codeDesc(pn, "Currency"),
			LocalAmount:       decimalOf(pn, "LocalAmount"),
			OSAmount:          decimalOf(pn, "OSAmount"),
			TransactionType:   text(pn, "TransactionType"),
			TransactionNumber: text(pn, "TransactionNumber"),
			PostDateText:      text(pn, "PostDate"),
		})
	}
	return out
}
