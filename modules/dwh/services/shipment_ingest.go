package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
)

// ingestShipment loads one shipment-family document. The canonical shipment
// always wins the header: it overwrites a fallback header and sweeps away
// fallback sub-shipments before writing its own.
func (s *IngestService) ingestShipment(ctx context.Context, doc *domain.Document) error {
	sh := doc.Shipment

	ck, err := s.resolveContext(ctx, doc.Context)
	if err != nil {
		return err
	}

	row, err := s.buildShipmentRow(ctx, sh, ck)
	if err != nil {
		return err
	}

	var (
		shipmentKey int64
		state       = StateAbsent
	)
	if row.ShipmentJobKey != nil {
		key, source, found, ferr := s.facts.FindShipmentByJob(ctx, *row.ShipmentJobKey)
		if ferr != nil {
			return ferr
		}
		shipmentKey = key
		state = DeriveMergeState(found, source)
	}

	switch {
	case state == StateAbsent:
		if shipmentKey, err = s.facts.InsertShipment(ctx, row); err != nil {
			return err
		}
		s.counts.Add("fact_shipment", 0, 1)
	case state.allowsHeaderWrite(domain.SourceCSL):
		if err = s.facts.UpdateShipment(ctx, shipmentKey, row); err != nil {
			return err
		}
	}

	if state.purgesFallback(domain.SourceCSL) {
		removed, derr := s.facts.DeleteSubShipments(ctx, shipmentKey, string(domain.SourceAR))
		if derr != nil {
			return derr
		}
		s.counts.Add("fact_sub_shipment", removed, 0)
	}

	for _, org := range sh.Organizations {
		if domain.CleanString(org.OrganizationCode) == "" {
			continue
		}
		orgKey, addressType, oerr := s.resolveOrganization(ctx, org)
		if oerr != nil {
			return oerr
		}
		if err = s.facts.LinkShipmentOrganization(ctx, shipmentKey, orgKey, addressType); err != nil {
			return err
		}
	}

	if err = s.replaceShipmentChildren(ctx, persistence.ShipmentParent(shipmentKey), shipmentChildren{
		Legs:         sh.Legs,
		Containers:   sh.Containers,
		PackingLines: sh.PackingLines,
		Dates:        sh.Dates,
		Exceptions:   sh.Exceptions,
		Milestones:   sh.Milestones,
		Notes:        sh.Notes,
		Charges:      sh.Charges,
	}); err != nil {
		return err
	}

	if err = s.replaceSubShipments(ctx, shipmentKey, sh.SubShipments); err != nil {
		return err
	}

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"file":  doc.FileName,
			"job":   sh.Job.Key,
			"state": state.String(),
		}).Debug("shipment ingested")
	}
	return nil
}

func (s *IngestService) buildShipmentRow(ctx context.Context, sh *domain.Shipment, ck contextKeys) (*models.Shipment, error) {
	row := &models.Shipment{
		Source: string(domain.SourceCSL),

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

		ContainerCount:  intOrNil(sh.Measures.ContainerCount),
		NoCopyBills:     intOrNil(sh.Measures.NoCopyBills),
		NoOriginalBills: intOrNil(sh.Measures.NoOriginalBills),
		OuterPacks:      intOrNil(sh.Measures.OuterPacks),
		TotalNoOfPacks:  intOrNil(sh.Measures.TotalNoOfPacks),

		ChargeableRate:                sh.Measures.ChargeableRate,
		DocumentedChargeable:          sh.Measures.DocumentedChargeable,
		DocumentedVolume:              sh.Measures.DocumentedVolume,
		DocumentedWeight:              sh.Measures.DocumentedWeight,
		FreightRate:                   sh.Measures.FreightRate,
		GreenhouseGasEmissionCO2e:     sh.Measures.GreenhouseGasEmissionCO2e,
		ManifestedChargeable:          sh.Measures.ManifestedChargeable,
		ManifestedVolume:              sh.Measures.ManifestedVolume,
		ManifestedWeight:              sh.Measures.ManifestedWeight,
		MaximumAllowablePackageHeight: sh.Measures.MaximumAllowablePackageHeight,
		MaximumAllowablePackageLength: sh.Measures.MaximumAllowablePackageLength,
		MaximumAllowablePackageWidth:  sh.Measures.MaximumAllowablePackageWidth,
		TotalPreallocatedChargeable:   sh.Measures.TotalPreallocatedChargeable,
		TotalPreallocatedVolume:       sh.Measures.TotalPreallocatedVolume,
		TotalPreallocatedWeight:       sh.Measures.TotalPreallocatedWeight,
		TotalVolume:                   sh.Measures.TotalVolume,
		TotalWeight:                   sh.Measures.TotalWeight,

		IsCFSRegistered:            sh.Flags.IsCFSRegistered,
		IsDirectBooking:            sh.Flags.IsDirectBooking,
		IsForwardRegistered:        sh.Flags.IsForwardRegistered,
		IsHazardous:                sh.Flags.IsHazardous,
		IsNeutralMaster:            sh.Flags.IsNeutralMaster,
		RequiresTemperatureControl: sh.Flags.RequiresTemperatureControl,
	}

	var err error
	if !sh.Job.Empty() {
		jobKey, jerr := s.dims.ResolveJob(ctx, sh.Job)
		if jerr != nil {
			return nil, jerr
		}
		row.ShipmentJobKey = &jobKey
	}
	if !sh.ConsolJob.Empty() {
		consolKey, jerr := s.dims.ResolveJob(ctx, sh.ConsolJob)
		if jerr != nil {
			return nil, jerr
		}
		row.ConsolJobKey = &consolKey
	}

	ports := []struct {
		dst **int64
		ref domain.CodeName
	}{
		{&row.PlaceOfDeliveryKey, sh.Ports.PlaceOfDelivery},
		{&row.PlaceOfIssueKey, sh.Ports.PlaceOfIssue},
		{&row.PlaceOfReceiptKey, sh.Ports.PlaceOfReceipt},
		{&row.PortFirstForeignKey, sh.Ports.PortFirstForeign},
		{&row.PortLastForeignKey, sh.Ports.PortLastForeign},
		{&row.PortOfDischargeKey, sh.Ports.PortOfDischarge},
		{&row.PortOfFirstArrivalKey, sh.Ports.PortOfFirstArrival},
		{&row.PortOfLoadingKey, sh.Ports.PortOfLoading},
		{&row.EventBranchHomePortKey, sh.Ports.EventBranchHomePort},
	}
	for _, p := range ports {
		if *p.dst, err = s.portKey(ctx, p.ref); err != nil {
			return nil, err
		}
	}

	typed := []struct {
		dst   **int64
		table persistence.DimTable
		ref   domain.CodeDesc
	}{
		{&row.AWBServiceLevelKey, persistence.DimServiceLevel, sh.AWBServiceLevel},
		{&row.GatewayServiceLevelKey, persistence.DimServiceLevel, sh.GatewayServiceLevel},
		{&row.ShipmentTypeKey, persistence.DimShipmentType, sh.ShipmentType},
		{&row.ReleaseTypeKey, persistence.DimReleaseType, sh.ReleaseType},
		{&row.ScreeningStatusKey, persistence.DimScreeningStatus, sh.ScreeningStatus},
		{&row.PaymentMethodKey, persistence.DimPaymentMethod, sh.PaymentMethod},
		{&row.FreightRateCurrencyKey, persistence.DimCurrency, sh.FreightRateCurrency},
		{&row.ContainerModeKey, persistence.DimContainerMode, sh.ContainerMode},
		{&row.Co2eStatusKey, persistence.DimCo2eStatus, sh.CO2eStatus},
		{&row.Co2eUnitKey, persistence.DimUnit, sh.CO2eUnit},
		{&row.TotalVolumeUnitKey, persistence.DimUnit, sh.TotalVolumeUnit},
		{&row.TotalWeightUnitKey, persistence.DimUnit, sh.TotalWeightUnit},
		{&row.PacksUnitKey, persistence.DimUnit, sh.PacksUnit},
	}
	for _, t := range typed {
		if *t.dst, err = s.codeDescKey(ctx, t.table, t.ref, nil); err != nil {
			return nil, err
		}
	}

	return row, nil
}

// shipmentChildren groups the repeatable collections a shipment or
// sub-shipment carries.
type shipmentChildren struct {
	Legs         []domain.TransportLeg
	Containers   []domain.Container
	PackingLines []domain.PackingLine
	Dates        []domain.DatedEvent
	Exceptions   []domain.Exception
	Milestones   []domain.Milestone
	Notes        []domain.Note
	Charges      []domain.Charge
}

func (s *IngestService) replaceShipmentChildren(ctx context.Context, parent persistence.Parent, c shipmentChildren) error {
	source := string(domain.SourceCSL)

	legs, err := s.buildTransportLegs(ctx, domain.DedupTransportLegs(c.Legs))
	if err != nil {
		return err
	}
	removed, added, err := s.children.ReplaceTransportLegs(ctx, parent, source, legs)
	if err != nil {
		return err
	}
	s.counts.Add("fact_transport_leg", removed, added)

	containers, err := s.buildContainers(ctx, domain.Dedup(c.Containers))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplaceContainers(ctx, parent, source, containers); err != nil {
		return err
	}
	s.counts.Add("fact_container", removed, added)

	lines, err := s.buildPackingLines(ctx, domain.Dedup(c.PackingLines))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplacePackingLines(ctx, parent, source, lines); err != nil {
		return err
	}
	s.counts.Add("fact_packing_line", removed, added)

	dates, err := s.buildDates(ctx, domain.Dedup(c.Dates))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplaceDates(ctx, parent, source, dates); err != nil {
		return err
	}
	s.counts.Add("fact_date", removed, added)

	if removed, added, err = s.children.ReplaceExceptions(ctx, parent, source, s.buildExceptions(domain.Dedup(c.Exceptions))); err != nil {
		return err
	}
	s.counts.Add("fact_exception", removed, added)

	milestones, err := s.buildMilestones(ctx, domain.Dedup(c.Milestones))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplaceMilestones(ctx, parent, source, milestones); err != nil {
		return err
	}
	s.counts.Add("fact_milestone", removed, added)

	notes, err := s.buildNotes(ctx, domain.Dedup(c.Notes))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplaceNotes(ctx, parent, source, notes); err != nil {
		return err
	}
	s.counts.Add("fact_note", removed, added)

	charges, err := s.buildCharges(ctx, domain.Dedup(c.Charges))
	if err != nil {
		return err
	}
	if removed, added, err = s.children.ReplaceCharges(ctx, parent, source, charges); err != nil {
		return err
	}
	s.counts.Add("fact_charge", removed, added)

	return nil
}

// replaceSubShipments rewrites the canonical sub-shipment set wholesale.
// Deleting the parent rows cascades to their child sets, so each rebuilt
// sub-shipment starts from nothing.
func (s *IngestService) replaceSubShipments(ctx context.Context, shipmentKey int64, subs []domain.SubShipment) error {
	removed, err := s.facts.DeleteSubShipments(ctx, shipmentKey, string(domain.SourceCSL))
	if err != nil {
		return err
	}
	s.counts.Add("fact_sub_shipment", removed, 0)

	for _, sub := range subs {
		row := &models.SubShipment{
			FactShipmentKey: shipmentKey,
			Source:          string(domain.SourceCSL),
			TotalWeight:     sub.TotalWeight,
			TotalVolume:     sub.TotalVolume,
		}
		if !sub.Job.Empty() {
			jobKey, jerr := s.dims.ResolveJob(ctx, sub.Job)
			if jerr != nil {
				return jerr
			}
			row.JobDimKey = &jobKey
		}
		if row.ShipmentTypeKey, err = s.codeDescKey(ctx, persistence.DimShipmentType, sub.ShipmentType, nil); err != nil {
			return err
		}
		if row.ServiceLevelKey, err = s.codeDescKey(ctx, persistence.DimServiceLevel, sub.ServiceLevel, nil); err != nil {
			return err
		}
		if row.PortOfLoadingKey, err = s.portKey(ctx, sub.PortOfLoading); err != nil {
			return err
		}
		if row.PortOfDischargeKey, err = s.portKey(ctx, sub.PortOfDischarge); err != nil {
			return err
		}
		if row.WeightUnitKey, err = s.codeDescKey(ctx, persistence.DimUnit, sub.WeightUnit, nil); err != nil {
			return err
		}
		if row.VolumeUnitKey, err = s.codeDescKey(ctx, persistence.DimUnit, sub.VolumeUnit, nil); err != nil {
			return err
		}

		subKey, ierr := s.facts.InsertSubShipment(ctx, row)
		if ierr != nil {
			return ierr
		}
		s.counts.Add("fact_sub_shipment", 0, 1)

		if err = s.replaceShipmentChildren(ctx, persistence.SubShipmentParent(subKey), shipmentChildren{
			Legs:         sub.Legs,
			Containers:   sub.Containers,
			PackingLines: sub.PackingLines,
			Dates:        sub.Dates,
			Milestones:   sub.Milestones,
			Notes:        sub.Notes,
			Charges:      sub.Charges,
		}); err != nil {
			return err
		}
	}
	return nil
}
