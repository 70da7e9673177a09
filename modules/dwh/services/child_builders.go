package services

import (
	"context"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
)

// The builders below convert deduplicated child records into rows, resolving
// every dimension reference they carry. All of them skip nothing: a record
// that survived dedup is stored even when most of its fields are blank.

func (s *IngestService) buildTransportLegs(ctx context.Context, in []domain.TransportLeg) ([]*models.TransportLeg, error) {
	out := make([]*models.TransportLeg, 0, len(in))
	for _, l := range in {
		m := &models.TransportLeg{
			TransportMode:      domain.CleanString(l.TransportMode),
			VesselName:         domain.CleanString(l.VesselName),
			VesselLloydsIMO:    domain.CleanString(l.VesselLloydsIMO),
			VoyageFlightNo:     domain.CleanString(l.VoyageFlightNo),
			LegOrder:           l.Order,
			BookingStatus:      domain.CleanString(l.BookingStatus),
			ActualArrival:      domain.CleanString(l.ActualArrival),
			ActualDeparture:    domain.CleanString(l.ActualDeparture),
			EstimatedArrival:   domain.CleanString(l.EstimatedArrival),
			EstimatedDeparture: domain.CleanString(l.EstimatedDeparture),
			ScheduledArrival:   domain.CleanString(l.ScheduledArrival),
			ScheduledDeparture: domain.CleanString(l.ScheduledDeparture),
		}
		m.ActualArrivalDateKey = dateKeyOrNil(l.ActualArrival)
		m.ActualDepartureDateKey = dateKeyOrNil(l.ActualDeparture)

		var err error
		if m.PortOfLoadingKey, err = s.portKey(ctx, l.PortOfLoading); err != nil {
			return nil, err
		}
		if m.PortOfDischargeKey, err = s.portKey(ctx, l.PortOfDischarge); err != nil {
			return nil, err
		}
		carrier := domain.CodeName{Code: l.CarrierCode, Name: l.CarrierName}
		if m.CarrierKey, err = s.codeNameKey(ctx, persistence.DimCarrier, carrier, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *IngestService) buildCharges(ctx context.Context, in []domain.Charge) ([]*models.Charge, error) {
	out := make([]*models.Charge, 0, len(in))
	for _, c := range in {
		m := &models.Charge{
			ChargeGroup:   domain.NormalizeUpper(c.ChargeGroup.Code),
			Description:   domain.CleanString(c.Description),
			CostAmount:    c.CostAmount,
			SellAmount:    c.SellAmount,
			SupplierCode:  domain.CleanString(c.SupplierCode),
			CustomerCode:  domain.CleanString(c.CustomerCode),
			InvoiceNumber: domain.CleanString(c.InvoiceNumber),
		}
		var err error
		if m.BranchKey, err = s.codeNameKey(ctx, persistence.DimBranch, c.Branch, nil); err != nil {
			return nil, err
		}
		if m.DepartmentKey, err = s.codeNameKey(ctx, persistence.DimDepartment, c.Department, nil); err != nil {
			return nil, err
		}
		if m.ChargeCodeKey, err = s.codeDescKey(ctx, persistence.DimChargeCode, c.ChargeCode, nil); err != nil {
			return nil, err
		}
		if m.CurrencyKey, err = s.codeDescKey(ctx, persistence.DimCurrency, c.Currency, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *IngestService) buildContainers(ctx context.Context, in []domain.Container) ([]*models.Container, error) {
	out := make([]*models.Container, 0, len(in))
	for _, c := range in {
		m := &models.Container{
			ContainerNumber: domain.NormalizeUpper(c.ContainerNumber),
			SealNumber:      domain.CleanString(c.SealNumber),
			DeliveryMode:    domain.CleanString(c.DeliveryMode),
			GrossWeight:     c.GrossWeight,
			TareWeight:      c.TareWeight,
		}
		var err error
		if m.ContainerTypeKey, err = s.codeDescKey(ctx, persistence.DimContainerType, c.ContainerType, nil); err != nil {
			return nil, err
		}
		if m.FCLOrLCLKey, err = s.codeDescKey(ctx, persistence.DimContainerMode, c.FCLOrLCL, nil); err != nil {
			return nil, err
		}
		if m.WeightUnitKey, err = s.codeDescKey(ctx, persistence.DimUnit, c.WeightUnit, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *IngestService) buildPackingLines(ctx context.Context, in []domain.PackingLine) ([]*models.PackingLine, error) {
	out := make([]*models.PackingLine, 0, len(in))
	for _, p := range in {
		m := &models.PackingLine{
			LineNumber:       p.LineNumber,
			PackQty:          intOrNil(p.PackQty),
			GoodsDescription: domain.CleanString(p.GoodsDescription),
			MarksAndNumbers:  domain.CleanString(p.MarksAndNumbers),
			Weight:           p.Weight,
			Volume:           p.Volume,
			ReferenceNumber:  domain.CleanString(p.ReferenceNumber),
			ContainerNumber:  domain.NormalizeUpper(p.ContainerNumber),
		}
		var err error
		if m.PackTypeKey, err = s.codeDescKey(ctx, persistence.DimPackType, p.PackType, nil); err != nil {
			return nil, err
		}
		if m.CommodityKey, err = s.codeDescKey(ctx, persistence.DimCommodity, p.Commodity, nil); err != nil {
			return nil, err
		}
		if m.WeightUnitKey, err = s.codeDescKey(ctx, persistence.DimUnit, p.WeightUnit, nil); err != nil {
			return nil, err
		}
		if m.VolumeUnitKey, err = s.codeDescKey(ctx, persistence.DimUnit, p.VolumeUnit, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *IngestService) buildDates(ctx context.Context, in []domain.DatedEvent) ([]*models.DatedEvent, error) {
	out := make([]*models.DatedEvent, 0, len(in))
	for _, d := range in {
		m := &models.DatedEvent{
			DateKey:      dateKeyOrNil(d.DateTimeText),
			DateTimeText: domain.CleanString(d.DateTimeText),
			IsEstimate:   d.IsEstimate,
			Value:        domain.CleanString(d.Value),
		}
		var err error
		if m.DateTypeKey, err = s.codeDescKey(ctx, persistence.DimDateType, d.Type, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *IngestService) buildExceptions(in []domain.Exception) []*models.Exception {
	out := make([]*models.Exception, 0, len(in))
	for _, e := range in {
		out = append(out, &models.Exception{
			Code:             domain.NormalizeUpper(e.Code),
			ExceptionType:    domain.CleanString(e.Type),
			Severity:         domain.CleanString(e.Severity),
			Status:           domain.CleanString(e.Status),
			Description:      domain.CleanString(e.Description),
			RaisedDateText:   domain.CleanString(e.RaisedDateText),
			RaisedDateKey:    dateKeyOrNil(e.RaisedDateText),
			ResolvedDateText: domain.CleanString(e.ResolvedDateText),
		})
	}
	return out
}

func (s *IngestService) buildMilestones(ctx context.Context, in []domain.Milestone) ([]*models.Milestone, error) {
	out := make([]*models.Milestone, 0, len(in))
	for _, ms := range in {
		m := &models.Milestone{
			Description:        domain.CleanString(ms.Description),
			Sequence:           ms.Sequence,
			ActualDateText:     domain.CleanString(ms.ActualDateText),
			EstimatedDateText:  domain.CleanString(ms.EstimatedDateText),
			ConditionReference: domain.CleanString(ms.ConditionReference),
			ConditionType:      domain.CleanString(ms.ConditionType),
		}
		var err error
		if m.EventCodeKey, err = s.codeDescKey(ctx, persistence.DimEventCode, ms.EventCode, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *IngestService) buildNotes(ctx context.Context, in []domain.Note) ([]*models.Note, error) {
	out := make([]*models.Note, 0, len(in))
	for _, n := range in {
		m := &models.Note{
			Description: domain.CleanString(n.Description),
			NoteText:    domain.CleanString(n.NoteText),
		}
		var err error
		if m.NoteContextKey, err = s.codeDescKey(ctx, persistence.DimNoteContext, n.NoteContext, nil); err != nil {
			return nil, err
		}
		if m.VisibilityKey, err = s.codeDescKey(ctx, persistence.DimVisibility, n.Visibility, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *IngestService) buildPostings(ctx context.Context, in []domain.Posting) ([]*models.Posting, error) {
	out := make([]*models.Posting, 0, len(in))
	for _, p := range in {
		m := &models.Posting{
			Description:       domain.CleanString(p.Description),
			LocalAmount:       p.LocalAmount,
			OSAmount:          p.OSAmount,
			TransactionType:   domain.CleanString(p.TransactionType),
			TransactionNumber: domain.CleanString(p.TransactionNumber),
			PostDateText:      domain.CleanString(p.PostDateText),
			PostDateKey:       dateKeyOrNil(p.PostDateText),
		}
		var err error
		if m.BranchKey, err = s.codeNameKey(ctx, persistence.DimBranch, p.Branch, nil); err != nil {
			return nil, err
		}
		if m.DepartmentKey, err = s.codeNameKey(ctx, persistence.DimDepartment, p.Department, nil); err != nil {
			return nil, err
		}
		if m.AccountGroupKey, err = s.codeDescKey(ctx, persistence.DimAccountGroup, p.AccountGroup, nil); err != nil {
			return nil, err
		}
		if m.ChargeCodeKey, err = s.codeDescKey(ctx, persistence.DimChargeCode, p.ChargeCode, nil); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
