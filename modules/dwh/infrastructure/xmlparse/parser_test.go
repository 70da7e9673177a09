package xmlparse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/xmlparse"
)

const arSample = `<?xml version="1.0" encoding="utf-8"?>
<UniversalTransaction>
  <TransactionInfo>
    <DataContext>
      <Company><Code>ACM</Code><Name>Acme Logistics</Name><Country><Code>US</Code><Name>United States</Name></Country></Company>
      <EventBranch><Code>NYC</Code><Name>New York</Name></EventBranch>
      <EventDepartment><Code>FEA</Code><Name>Sea Export</Name></EventDepartment>
      <EventType><Code>DIM</Code><Description>Document</Description></EventType>
      <EnterpriseID>ENT1</EnterpriseID>
      <ServerID>SRV1</ServerID>
      <DataProvider>ACMNYC</DataProvider>
      <TriggerDate>2025-07-15T08:30:00</TriggerDate>
      <DataSourceCollection><DataSource><Type>AccountingInvoice</Type><Key>INV-001</Key></DataSource></DataSourceCollection>
    </DataContext>
    <Number>INV-001</Number>
    <Ledger>AR</Ledger>
    <TransactionType>INV</TransactionType>
    <TransactionDate>2025-07-14T00:00:00</TransactionDate>
    <DueDate>2025-08-14T00:00:00</DueDate>
    <LocalCurrency><Code>USD</Code><Description>US Dollar</Description></LocalCurrency>
    <LocalTotal>1500.00</LocalTotal>
    <OutstandingAmount>1500.00</OutstandingAmount>
    <IsCancelled>false</IsCancelled>
    <Job><Type>ForwardingShipment</Type><Key>S00123456</Key></Job>
    <SubJobCollection>
      <SubJob><Type>ForwardingShipment</Type><Key>S00123457</Key></SubJob>
    </SubJobCollection>
    <OrganizationAddressCollection>
      <OrganizationAddress>
        <OrganizationCode>CUS001</OrganizationCode>
        <CompanyName>Customer One</CompanyName>
        <AddressType>OFC</AddressType>
        <City>Chicago</City>
        <Country><Code>US</Code><Name>United States</Name></Country>
        <RegistrationNumberCollection>
          <RegistrationNumber>
            <Type><Code>EIN</Code><Description>Employer ID</Description></Type>
            <CountryOfIssue><Code>US</Code></CountryOfIssue>
            <Value>12-3456789</Value>
          </RegistrationNumber>
        </RegistrationNumberCollection>
      </OrganizationAddress>
    </OrganizationAddressCollection>
    <MessageNumberCollection>
      <MessageNumber Type="Invoice">MSG-77</MessageNumber>
    </MessageNumberCollection>
    <RecipientRoleCollection>
      <RecipientRole><Code>BIL</Code><Description>Bill To</Description></RecipientRole>
    </RecipientRoleCollection>
    <ChargeLineCollection>
      <ChargeLine>
        <ChargeCode><Code>FRT</Code><Description>Freight</Description></ChargeCode>
        <Description>Ocean freight</Description>
        <Currency><Code>USD</Code></Currency>
        <SellAmount>100.00</SellAmount>
      </ChargeLine>
    </ChargeLineCollection>
    <PostingJournalCollection>
      <PostingJournal>
        <ChargeCode><Code>FRT</Code></ChargeCode>
        <LocalAmount>100.00</LocalAmount>
        <PostDate>2025-07-14T00:00:00</PostDate>
      </PostingJournal>
    </PostingJournalCollection>
  </TransactionInfo>
</UniversalTransaction>`

const cslSample = `<?xml version="1.0" encoding="utf-8"?>
<UniversalShipment>
  <Shipment>
    <DataContext>
      <Company><Code>ACM</Code></Company>
      <EventBranch><Code>NYC</Code></EventBranch>
      <TriggerDate>2025-07-16T02:00:00</TriggerDate>
    </DataContext>
    <Job><Type>ForwardingConsol</Type><Key>C00098765</Key></Job>
    <PortOfLoading><Code>USNYC</Code><Name>New York</Name></PortOfLoading>
    <PortOfDischarge><Code>NLRTM</Code><Name>Rotterdam</Name></PortOfDischarge>
    <ContainerMode><Code>FCL</Code><Description>Full Container Load</Description></ContainerMode>
    <TotalWeight>12000.5</TotalWeight>
    <TotalWeightUnit><Code>KG</Code><Description>Kilograms</Description></TotalWeightUnit>
    <IsHazardous>false</IsHazardous>
    <TransportLegCollection>
      <TransportLeg>
        <PortOfLoading><Code>USNYC</Code></PortOfLoading>
        <PortOfDischarge><Code>NLRTM</Code></PortOfDischarge>
        <TransportMode>Sea</TransportMode>
        <VesselName>MSC OSCAR</VesselName>
        <VoyageFlightNo>123W</VoyageFlightNo>
        <LegOrder>1</LegOrder>
        <EstimatedDeparture>2025-07-17T18:00:00</EstimatedDeparture>
        <EstimatedArrival>2025-07-29T06:00:00</EstimatedArrival>
      </TransportLeg>
      <TransportLeg>
        <PortOfLoading><Code>USNYC</Code></PortOfLoading>
        <PortOfDischarge><Code>NLRTM</Code></PortOfDischarge>
        <TransportMode>Sea</TransportMode>
        <VesselLloydsIMO>9703291</VesselLloydsIMO>
        <VoyageFlightNo>123W</VoyageFlightNo>
        <LegOrder>1</LegOrder>
        <EstimatedDeparture>2025-07-17T18:00:00</EstimatedDeparture>
        <EstimatedArrival>2025-07-29T06:00:00</EstimatedArrival>
      </TransportLeg>
    </TransportLegCollection>
    <ContainerCollection>
      <Container>
        <ContainerNumber>MSKU1234567</ContainerNumber>
        <ContainerType><Code>40HC</Code></ContainerType>
        <SealNumber>S-99</SealNumber>
        <GrossWeight>11000</GrossWeight>
      </Container>
    </ContainerCollection>
    <SubShipmentCollection>
      <SubShipment>
        <Job><Type>ForwardingShipment</Type><Key>S00123456</Key></Job>
        <TotalWeight>6000</TotalWeight>
        <TotalWeightUnit><Code>KG</Code></TotalWeightUnit>
        <PackingLineCollection>
          <PackingLine>
            <LineNumber>1</LineNumber>
            <PackQty>10</PackQty>
            <GoodsDescription>Machine parts</GoodsDescription>
          </PackingLine>
        </PackingLineCollection>
      </SubShipment>
    </SubShipmentCollection>
  </Shipment>
</UniversalShipment>`

func TestParse_Transaction(t *testing.T) {
	p := xmlparse.NewXMLParser(nil)
	doc, err := p.Parse(strings.NewReader(arSample), "AR_INV-001.xml")
	require.NoError(t, err)
	require.Equal(t, domain.SourceAR, doc.Source)
	require.NotNil(t, doc.AR)
	require.Nil(t, doc.Shipment)

	require.Equal(t, "ACM", doc.Context.Company.Code)
	require.Equal(t, "US", doc.Context.CompanyCountry.Code)
	require.Equal(t, "NYC", doc.Context.Branch.Code)
	require.Equal(t, "2025-07-15T08:30:00", doc.Context.TriggerDate)

	h := doc.AR
	require.Equal(t, "INV-001", h.Number)
	require.Equal(t, "AR", h.Ledger)
	require.Equal(t, 20250714, h.TransactionDateKey)
	require.Equal(t, 20250814, h.DueDateKey)
	require.Equal(t, "USD", h.LocalCurrency.Code)
	require.True(t, h.LocalTotal.Valid)
	require.Equal(t, "1500", h.LocalTotal.Decimal.String())
	require.NotNil(t, h.IsCancelled)
	require.False(t, *h.IsCancelled)

	require.Equal(t, domain.JobRef{Type: "ForwardingShipment", Key: "S00123456"}, h.Job)
	require.Equal(t, []domain.JobRef{{Type: "ForwardingShipment", Key: "S00123457"}}, h.SubJobs)

	require.Len(t, h.Organizations, 1)
	org := h.Organizations[0]
	require.Equal(t, "CUS001", org.OrganizationCode)
	require.Equal(t, "OFC", org.Address.AddressType)
	require.Len(t, org.RegistrationNumbers, 1)
	require.Equal(t, "12-3456789", org.RegistrationNumbers[0].Value)

	require.Equal(t, []domain.MessageNumber{{Type: "Invoice", Value: "MSG-77"}}, h.MessageNumbers)
	require.Len(t, h.RecipientRoles, 1)
	require.Len(t, h.Charges, 1)
	require.Equal(t, "100", h.Charges[0].SellAmount.Decimal.String())
	require.Len(t, h.Postings, 1)
	require.Equal(t, "2025-07-14T00:00:00", h.Postings[0].PostDateText)
}

func TestParse_Shipment(t *testing.T) {
	p := xmlparse.NewXMLParser(nil)
	doc, err := p.Parse(strings.NewReader(cslSample), "CSL00042.xml")
	require.NoError(t, err)
	require.Equal(t, domain.SourceCSL, doc.Source)
	require.NotNil(t, doc.Shipment)

	sh := doc.Shipment
	require.Equal(t, domain.JobRef{Type: "ForwardingConsol", Key: "C00098765"}, sh.Job)
	require.Equal(t, "USNYC", sh.Ports.PortOfLoading.Code)
	require.Equal(t, "FCL", sh.ContainerMode.Code)
	require.Equal(t, "12000.5", sh.Measures.TotalWeight.Decimal.String())

	require.Len(t, sh.Legs, 2)
	require.Len(t, domain.DedupTransportLegs(sh.Legs), 1,
		"name-only and registry-number legs describe one movement")

	require.Len(t, sh.Containers, 1)
	require.Equal(t, "MSKU1234567", sh.Containers[0].ContainerNumber)

	require.Len(t, sh.SubShipments, 1)
	sub := sh.SubShipments[0]
	require.Equal(t, "S00123456", sub.Job.Key)
	require.Len(t, sub.PackingLines, 1)
	require.Equal(t, 10, sub.PackingLines[0].PackQty)
}

func TestParse_DispatchByRootElement(t *testing.T) {
	p := xmlparse.NewXMLParser(nil)
	doc, err := p.Parse(strings.NewReader(arSample), "export-20250715.xml")
	require.NoError(t, err)
	require.Equal(t, domain.SourceAR, doc.Source)

	_, err = p.Parse(strings.NewReader("<Unknown/>"), "export.xml")
	require.Error(t, err)
}
